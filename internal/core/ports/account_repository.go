package ports

import (
	"context"
	"time"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

// AccountFilter narrows account listings. Zero values do not filter.
type AccountFilter struct {
	Role       domain.Role
	ActiveOnly bool
}

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	// Create inserts a new account. Returns domain.ErrAccountExists when the email is taken.
	Create(ctx context.Context, a *domain.Account) error
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	List(ctx context.Context, filter AccountFilter) ([]*domain.Account, error)
	// UpdateProfile applies a profile patch and returns the stored account.
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate, at time.Time) (*domain.Account, error)
	SetActive(ctx context.Context, id string, active bool, at time.Time) error
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context) (map[domain.Role]int64, error)
}
