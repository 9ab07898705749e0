package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/mylaundry/order-system/internal/core/domain"
)

// RBAC lets the request through only when the authenticated role is one of
// allowedRoles; otherwise it fails with denied. Must run after Auth.
func RBAC(denied error, allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return domain.ErrMissingToken
			}
			if _, ok := allowed[claims.Role]; !ok {
				return denied
			}
			return next(c)
		}
	}
}

// AdminOnly restricts a route to admins.
func AdminOnly() echo.MiddlewareFunc {
	return RBAC(domain.ErrAdminOnly, domain.RoleAdmin)
}
