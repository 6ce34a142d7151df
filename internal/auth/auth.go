// Package auth classifies incoming requests as authenticated or anonymous.
//
// Bearer tokens are verified locally as HS256 JWTs when a shared secret is
// configured (the identity backend signs its access tokens with it), which
// avoids a network round trip per request. Without a secret, verification
// falls back to asking the identity store directly.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"juniordebug/internal/keystore"
)

var (
	// ErrTokenExpired is returned when the token has expired.
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidToken is returned when the token is invalid for any reason.
	ErrInvalidToken = errors.New("invalid token")
)

// ParseBearer extracts the token from an Authorization header value. It
// tolerates the header variants clients actually send: "Bearer x",
// "Bearer: x", or the bare token.
func ParseBearer(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	if token, ok := strings.CutPrefix(header, "Bearer: "); ok {
		return token, true
	}
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token, true
	}
	return header, true
}

// Verifier resolves bearer tokens to user ids.
type Verifier struct {
	secret string
	store  keystore.Store
}

// NewVerifier creates a verifier. When secret is non-empty, tokens are
// verified locally; otherwise store is consulted per call.
func NewVerifier(secret string, store keystore.Store) *Verifier {
	return &Verifier{secret: secret, store: store}
}

// UserID resolves an access token to a user id.
func (v *Verifier) UserID(ctx context.Context, token string) (string, error) {
	if v.secret != "" {
		return v.verifyLocal(token)
	}

	userID, err := v.store.UserFromToken(ctx, token)
	if err != nil {
		if errors.Is(err, keystore.ErrUnauthenticated) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	return userID, nil
}

func (v *Verifier) verifyLocal(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(v.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
