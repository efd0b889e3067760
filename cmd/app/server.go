package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"learnpath/internal/api/controllers"
	"learnpath/internal/config"
	"learnpath/pkg/middleware"
	"learnpath/pkg/utils"
	"learnpath/web"
)

const readHeaderTimeout = 10 * time.Second

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("starting HTTP server", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("HTTP server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideSessionSigner(cfg *config.Config) (*utils.SessionSigner, error) {
	return utils.NewSessionSigner(cfg.SecretKey)
}

func ProvideRouter(
	cfg *config.Config,
	logger *zap.Logger,
	signer *utils.SessionSigner,
	assessmentController *controllers.AssessmentController,
	pageController *controllers.PageController) (*gin.Engine, error) {

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewRouter(logger, signer, cfg.CookieSecure, assessmentController, pageController)
}

func NewRouter(
	logger *zap.Logger,
	signer *utils.SessionSigner,
	secureCookie bool,
	assessmentController *controllers.AssessmentController,
	pageController *controllers.PageController) (*gin.Engine, error) {

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(logger.Named("http")))
	r.Use(middleware.CORSMiddleware())

	RegisterRoutes(r, middleware.SessionMiddleware(signer, secureCookie), assessmentController, pageController)

	return r, nil
}

func RegisterRoutes(r *gin.Engine,
	session gin.HandlerFunc,
	assessmentController *controllers.AssessmentController,
	pageController *controllers.PageController) {

	r.GET("/healthz", pageController.Healthz)

	site := r.Group("/", session)
	site.GET("/", pageController.Index)

	api := r.Group("/api", session)
	api.POST("/save_profile", assessmentController.SaveProfile)
	api.GET("/get_questions", assessmentController.GetQuestions)
	api.POST("/submit_answers", assessmentController.SubmitAnswers)
	api.GET("/generate_roadmap", assessmentController.GenerateRoadmap)
	api.POST("/clear_session", assessmentController.ClearSession)
	api.POST("/chat", assessmentController.Chat)
}
