package service

import (
	"context"
	"testing"
	"time"

	"quiz-gate/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-with-enough-length-0123"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestAuthService_ValidateJWT(t *testing.T) {
	ctx := context.Background()
	svc, err := NewAuthService(testSecret, "lms-idp")
	require.NoError(t, err)

	valid := func(userID, subject, issuer string, exp time.Time) *dto.AuthClaims {
		return &dto.AuthClaims{
			UserID: userID,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   subject,
				Issuer:    issuer,
				ExpiresAt: jwt.NewNumericDate(exp),
			},
		}
	}
	future := time.Now().Add(time.Hour)

	t.Run("user_id claim", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), valid("user1", "", "lms-idp", future))
		claims, err := svc.ValidateJWT(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "user1", claims.ResolveUserID())
	})

	t.Run("subject fallback", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), valid("", "user2", "lms-idp", future))
		claims, err := svc.ValidateJWT(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "user2", claims.ResolveUserID())
	})

	t.Run("expired", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), valid("user1", "", "lms-idp", time.Now().Add(-time.Hour)))
		_, err := svc.ValidateJWT(ctx, token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), valid("user1", "", "someone-else", future))
		_, err := svc.ValidateJWT(ctx, token)
		assert.Error(t, err)
	})

	t.Run("wrong key", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte("another-secret"), valid("user1", "", "lms-idp", future))
		_, err := svc.ValidateJWT(ctx, token)
		assert.Error(t, err)
	})

	t.Run("no subject", func(t *testing.T) {
		token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), valid("", "", "lms-idp", future))
		_, err := svc.ValidateJWT(ctx, token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateJWT(ctx, "not-a-jwt")
		assert.Error(t, err)
	})
}

func TestNewAuthService_RequiresSecret(t *testing.T) {
	_, err := NewAuthService("", "")
	assert.Error(t, err)
}
