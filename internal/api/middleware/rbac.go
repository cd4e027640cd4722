package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/service"
)

// RBAC enforces role-based access control on a route group. It must run
// after RequireAuth. Services repeat the check, so this is a coarse gate.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := service.RequireRole(Actor(c), allowedRoles...); err != nil {
				return err
			}
			return next(c)
		}
	}
}
