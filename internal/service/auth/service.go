// Package auth implements the dashboard operator login: bcrypt credential
// check against the configured account and a signed session JWT for the UI.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/medfront/ehr-admin-api/internal/config"
	apperrors "github.com/medfront/ehr-admin-api/pkg/errors"
)

type Service struct {
	cfg config.SessionConfig
	now func() time.Time
}

func NewService(cfg config.SessionConfig) *Service {
	return &Service{cfg: cfg, now: time.Now}
}

// Session is the authenticated operator identity.
type Session struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type sessionClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// Login verifies the operator credentials and issues a session token.
func (s *Service) Login(email, password string) (string, *Session, error) {
	if s.cfg.OperatorEmail == "" || s.cfg.OperatorPassword == "" {
		return "", nil, apperrors.NewConfiguration("operator account is not configured")
	}
	if email != s.cfg.OperatorEmail {
		return "", nil, apperrors.Unauthorized(fmt.Errorf("invalid credentials"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.OperatorPassword), []byte(password)); err != nil {
		return "", nil, apperrors.Unauthorized(fmt.Errorf("invalid credentials"))
	}

	expiry := s.cfg.Expiry
	if expiry == 0 {
		expiry = 8 * time.Hour
	}
	claims := sessionClaims{
		Name: s.cfg.OperatorName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(s.now().Add(expiry)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, &Session{Email: email, Name: s.cfg.OperatorName}, nil
}

// Validate parses and verifies a session token.
func (s *Service) Validate(token string) (*Session, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, apperrors.Unauthorized(err)
	}
	return &Session{Email: claims.Subject, Name: claims.Name}, nil
}
