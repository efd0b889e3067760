package infra

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func OpenPostgresql(dsn string) (*gorm.DB, error) {
	connectionPool, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	sqlDB, err := connectionPool.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return connectionPool, nil
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		zap.L().Error("get postgres instance", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		zap.L().Error("close postgres connection", zap.Error(err))
	} else {
		zap.L().Info("PostgreSQL database connection closed")
	}
}
