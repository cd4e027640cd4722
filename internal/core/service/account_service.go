package service

import (
	"context"
	"time"

	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

// AccountService serves profile reads and holder-initiated profile edits.
type AccountService struct {
	accounts ports.AccountRepository
	now      func() time.Time
}

func NewAccountService(accounts ports.AccountRepository) *AccountService {
	return &AccountService{accounts: accounts, now: time.Now}
}

// UpdateProfile edits actor's own profile. Role and email cannot change here.
func (s *AccountService) UpdateProfile(ctx context.Context, actor *domain.Account, update domain.ProfileUpdate) (*domain.Account, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := update.Validate(actor.Role); err != nil {
		return nil, err
	}
	return s.accounts.UpdateProfile(ctx, actor.ID, update, s.now().UTC())
}

// PublicProfile returns an active account. Inactive accounts read as not found.
func (s *AccountService) PublicProfile(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !account.Active {
		return nil, domain.ErrNotFound
	}
	return account, nil
}

func (s *AccountService) ListVeterinarians(ctx context.Context) ([]*domain.Account, error) {
	return s.accounts.List(ctx, ports.AccountFilter{Role: domain.RoleVeterinarian, ActiveOnly: true})
}
