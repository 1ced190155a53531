package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/abdulrafay1716/shopflow-automation/internal/pkg/clock"
)

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now().Truncate(time.Second)
	svc := NewAuthService(string(hash), "signing-key", time.Hour, clock.NewMockClock(now))

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "guess")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("issues a verifiable token", func(t *testing.T) {
		token, expiresAt, err := svc.Login(ctx, "s3cret")
		require.NoError(t, err)
		assert.Equal(t, now.Add(time.Hour), expiresAt)

		claims := &AdminClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte("signing-key"), nil
		})
		require.NoError(t, err)
		assert.True(t, parsed.Valid)
		assert.Equal(t, "admin", claims.Subject)
	})

	t.Run("unconfigured admin cannot log in", func(t *testing.T) {
		_, _, err := NewAuthService("", "", time.Hour, clock.NewRealClock()).Login(ctx, "")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}
