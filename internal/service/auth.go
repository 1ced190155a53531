package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/abdulrafay1716/shopflow-automation/internal/pkg/clock"
)

const adminSubject = "admin"

type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// Login checks the admin password and returns a signed token with its expiry.
	Login(ctx context.Context, password string) (string, time.Time, error)
}

type authServiceImpl struct {
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	clock        clock.Clock
}

func NewAuthService(passwordHash, secret string, ttl time.Duration, clk clock.Clock) AuthService {
	return &authServiceImpl{
		passwordHash: []byte(passwordHash),
		secret:       []byte(secret),
		ttl:          ttl,
		clock:        clk,
	}
}

func (s *authServiceImpl) Login(_ context.Context, password string) (string, time.Time, error) {
	if len(s.passwordHash) == 0 || len(s.secret) == 0 {
		return "", time.Time{}, ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", time.Time{}, ErrUnauthorized
	}

	now := s.clock.Now()
	expiresAt := now.Add(s.ttl)
	claims := &AdminClaims{
		Role: adminSubject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tkn.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign admin token: %w", err)
	}

	return signed, expiresAt, nil
}
