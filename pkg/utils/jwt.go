package utils

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const sessionKeyInfo = "learnpath session cookie v1"

type SessionClaims struct {
	jwt.RegisteredClaims
}

// SessionSigner signs the session token stored in the browser cookie so a
// client cannot pick another visitor's token.
type SessionSigner struct {
	key []byte
}

func NewSessionSigner(secret string) (*SessionSigner, error) {
	if secret == "" {
		return nil, errors.New("session secret is empty")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(sessionKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	return &SessionSigner{key: key}, nil
}

func (s *SessionSigner) Sign(sessionToken string) (string, error) {
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  sessionToken,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.key)
}

// Verify returns the session token carried by a signed cookie value.
func (s *SessionSigner) Verify(signed string) (string, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid session token")
	}
	return claims.Subject, nil
}
