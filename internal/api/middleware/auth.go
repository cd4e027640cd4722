package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/farmlink/marketplace-api/internal/api/metrics"
	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

// IdentityKey is the echo context key holding the resolved *domain.Identity.
const IdentityKey = "identity"

// RequireAuth resolves the bearer credential and rejects the request when it
// is missing or does not resolve to an active account.
func RequireAuth(resolver ports.IdentityResolver) echo.MiddlewareFunc {
	return authenticate(resolver, true)
}

// OptionalAuth resolves a credential when one is presented. Requests without
// an Authorization header pass through anonymously; a presented but invalid
// credential is still rejected.
func OptionalAuth(resolver ports.IdentityResolver) echo.MiddlewareFunc {
	return authenticate(resolver, false)
}

func authenticate(resolver ports.IdentityResolver, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				if !required {
					return next(c)
				}
				metrics.AuthFailuresTotal.WithLabelValues("missing").Inc()
				return fmt.Errorf("%w: missing authorization header", domain.ErrUnauthenticated)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				metrics.AuthFailuresTotal.WithLabelValues("malformed").Inc()
				return fmt.Errorf("%w: malformed authorization header", domain.ErrInvalidCredential)
			}

			id, err := resolver.Resolve(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues(failureReason(err)).Inc()
				return err
			}

			c.Set(IdentityKey, id)
			c.SetRequest(c.Request().WithContext(domain.ContextWithIdentity(c.Request().Context(), id)))
			return next(c)
		}
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrExpiredCredential):
		return "expired"
	case errors.Is(err, domain.ErrInvalidCredential):
		return "invalid"
	default:
		return "unavailable"
	}
}

// Identity returns the identity stored by the auth middleware, or nil.
func Identity(c echo.Context) *domain.Identity {
	id, _ := c.Get(IdentityKey).(*domain.Identity)
	return id
}

// Actor returns the authenticated account, or nil for anonymous requests.
func Actor(c echo.Context) *domain.Account {
	if id := Identity(c); id != nil {
		return id.Account
	}
	return nil
}
