package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"smarthome-mall/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

type contextKey string

const identityKey contextKey = "identity"

// Claims is the bearer token payload. Role flags are trusted once the
// signature verifies.
type Claims struct {
	IsAdmin     bool `json:"isAdmin"`
	IsModerator bool `json:"isModerator"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for the given identity.
func IssueToken(secret string, id model.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		IsAdmin:     id.IsAdmin,
		IsModerator: id.IsModerator,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// ParseToken verifies an HS256 token and returns the identity it carries.
func ParseToken(secret, raw string) (model.Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return model.Identity{}, err
	}

	if claims.Subject == "" {
		return model.Identity{}, errors.New("token has no subject")
	}

	return model.Identity{
		Subject:     claims.Subject,
		IsAdmin:     claims.IsAdmin,
		IsModerator: claims.IsModerator,
	}, nil
}

// Authenticate resolves the caller from an optional "Authorization: Bearer"
// header. Requests without one continue as anonymous shoppers; a token that
// fails verification is rejected.
func Authenticate(secret string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				logger.Warn().Str("path", r.URL.Path).Msg("malformed authorization header")
				writeUnauthorised(w, "malformed bearer token")
				return
			}

			id, err := ParseToken(secret, raw)
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("invalid bearer token")
				writeUnauthorised(w, "invalid bearer token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireIdentity rejects anonymous requests with 401.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFrom(r.Context()); !ok {
			writeUnauthorised(w, "bearer token required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithIdentity stores the caller in ctx.
func WithIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the authenticated caller, if any.
func IdentityFrom(ctx context.Context) (model.Identity, bool) {
	id, ok := ctx.Value(identityKey).(model.Identity)
	return id, ok
}
