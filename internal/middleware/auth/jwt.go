package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/tokens"
)

const (
	ContextKey   = "user"
	bearerPrefix = "Bearer "
)

var (
	// ErrTokenAbsent means the request carried no bearer token at all.
	ErrTokenAbsent = errors.New("token could not be parsed from the request")
	// ErrUnauthenticated covers invalid, expired and revoked tokens.
	ErrUnauthenticated = errors.New("unauthenticated")
)

type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RequireAuth validates the bearer token, rejects revoked ones and stores
// the *tokens.Claims under ContextKey.
func RequireAuth(secret []byte, revocations RevocationChecker) echo.MiddlewareFunc {
	jwtMW := echojwt.WithConfig(echojwt.Config{
		ContextKey:  ContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":" + bearerPrefix,
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			return tokens.Parse(raw, secret)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			l := logging.FromContext(c.Request().Context()).With("middleware", "auth")
			if !hasBearer(c.Request().Header.Get(echo.HeaderAuthorization)) {
				l.Warn("auth_error", "status", 401, "reason", "token missing")
				return ErrTokenAbsent
			}
			l.Warn("auth_error", "status", 401, "reason", "token invalid", "error", err)
			return ErrUnauthenticated
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return jwtMW(rejectRevoked(revocations, next))
	}
}

func rejectRevoked(revocations RevocationChecker, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return ErrUnauthenticated
		}
		if revocations == nil {
			return next(c)
		}

		ctx := c.Request().Context()
		revoked, err := revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return fmt.Errorf("check token revocation: %w", err)
		}
		if revoked {
			logging.FromContext(ctx).Warn("auth_error", "status", 401, "reason", "token revoked", "jti", claims.ID)
			return ErrUnauthenticated
		}
		return next(c)
	}
}

func ClaimsFrom(c echo.Context) (*tokens.Claims, bool) {
	claims, ok := c.Get(ContextKey).(*tokens.Claims)
	return claims, ok && claims != nil
}

func hasBearer(header string) bool {
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return false
	}
	return strings.TrimSpace(header[len(bearerPrefix):]) != ""
}
