package service

import (
	"fmt"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

// RequireRole permits actor when its role is one of allowed.
func RequireRole(actor *domain.Account, allowed ...domain.Role) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	if !domain.NewRoleSet(allowed...).Contains(actor.Role) {
		return fmt.Errorf("%w: role %s not permitted", domain.ErrForbidden, actor.Role)
	}
	return nil
}

// CheckOwnership permits actor when it is the stored owner, or when it is an
// admin and the operation allows the admin override. ownerID must come from
// storage, never from the request payload.
func CheckOwnership(actor *domain.Account, ownerID string, allowAdminOverride bool) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	if actor.ID != "" && actor.ID == ownerID {
		return nil
	}
	if allowAdminOverride && actor.Role == domain.RoleAdmin {
		return nil
	}
	return fmt.Errorf("%w: not the owner", domain.ErrForbidden)
}
