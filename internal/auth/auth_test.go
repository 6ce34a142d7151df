package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"juniordebug/internal/keystore"
)

func TestParseBearer(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{name: "standard", header: "Bearer abc123", want: "abc123", ok: true},
		{name: "colon variant", header: "Bearer: abc123", want: "abc123", ok: true},
		{name: "bare token", header: "abc123", want: "abc123", ok: true},
		{name: "empty", header: "", ok: false},
		{name: "whitespace only", header: "   ", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseBearer(tt.header)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func signToken(t *testing.T, secret, subject string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifierLocal(t *testing.T) {
	const secret = "test-secret"
	v := NewVerifier(secret, nil)
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, secret, "user-1", time.Now().Add(time.Hour))
		userID, err := v.UserID(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", userID)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, secret, "user-1", time.Now().Add(-time.Hour))
		_, err := v.UserID(ctx, token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "other-secret", "user-1", time.Now().Add(time.Hour))
		_, err := v.UserID(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		token := signToken(t, secret, "", time.Now().Add(time.Hour))
		_, err := v.UserID(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.UserID(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestVerifierRemoteFallback(t *testing.T) {
	store := keystore.NewMemory()
	store.AddToken("opaque-token", "user-7")

	v := NewVerifier("", store)
	ctx := context.Background()

	userID, err := v.UserID(ctx, "opaque-token")
	require.NoError(t, err)
	assert.Equal(t, "user-7", userID)

	_, err = v.UserID(ctx, "unknown-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
