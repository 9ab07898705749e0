package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mylaundry/order-system/internal/api/middleware"
	"github.com/mylaundry/order-system/internal/core/domain"
)

// actorFrom returns the caller identity verified by the Auth middleware.
// Handlers behind Auth always find one; anything else is treated as an
// unauthenticated request.
func actorFrom(c echo.Context) (domain.Actor, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return domain.Actor{}, domain.ErrMissingToken
	}
	return claims.Actor(), nil
}

// orderID parses the :id path parameter. A non-numeric id does not match any
// route, so it answers like an unknown endpoint.
func orderID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.ErrNotFound
	}
	return id, nil
}

// bindAndValidate decodes the JSON body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("Format data tidak valid.")
	}
	return c.Validate(req)
}
