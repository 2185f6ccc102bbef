package auth

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	iamerrors "github.com/tendant/simple-iam/pkg/errors"
	"github.com/tendant/simple-iam/pkg/token"
)

// AccessTokenCookie is the cookie checked when no Authorization header is sent
const AccessTokenCookie = "access_token"

type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "auth context value " + k.name
}

var claimsKey = &contextKey{"Claims"}

// NewContext returns ctx carrying claims
func NewContext(ctx context.Context, claims token.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the claims stored by Middleware
func ClaimsFromContext(ctx context.Context) (token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(token.Claims)
	return claims, ok
}

func TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(AccessTokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func extractToken(r *http.Request) string {
	for _, extractor := range []func(*http.Request) string{jwtauth.TokenFromHeader, TokenFromCookie} {
		if tokenStr := extractor(r); tokenStr != "" {
			return tokenStr
		}
	}
	return ""
}

// Middleware rejects requests without a valid bearer token and stores the
// verified claims in the request context.
func Middleware(s *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := extractToken(r)
			if tokenStr == "" {
				iamerrors.Render(w, r, ErrAuthFailed)
				return
			}

			claims, err := s.VerifyToken(r.Context(), tokenStr)
			if err != nil {
				iamerrors.Render(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), claims)))
		})
	}
}
