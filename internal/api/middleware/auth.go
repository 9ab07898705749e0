package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mylaundry/order-system/internal/core/domain"
	"github.com/mylaundry/order-system/internal/core/ports"
)

const claimsKey = "claims"

// Auth verifies the bearer token once and stores the typed claims in the
// request context for handlers to read with ClaimsFrom.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return domain.ErrMissingToken
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return domain.ErrMissingToken
			}

			claims, ok := verifier.Verify(strings.TrimSpace(parts[1]))
			if !ok {
				return domain.ErrExpiredToken
			}

			SetClaims(c, claims)
			return next(c)
		}
	}
}

// SetClaims attaches verified claims to the request context.
func SetClaims(c echo.Context, claims *domain.Claims) {
	c.Set(claimsKey, claims)
}

// ClaimsFrom returns the claims stored by Auth.
func ClaimsFrom(c echo.Context) (*domain.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*domain.Claims)
	return claims, ok && claims != nil
}
