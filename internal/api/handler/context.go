package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

// actor returns the account resolved by the auth middleware, or nil when the
// request is anonymous. Services decide whether anonymous access is allowed.
func actor(c echo.Context) *domain.Account {
	return domain.AccountFromContext(c.Request().Context())
}

// identity returns the full resolved identity, including the token id.
func identity(c echo.Context) *domain.Identity {
	return domain.IdentityFromContext(c.Request().Context())
}
