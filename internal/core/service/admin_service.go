package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

// AdminService is the moderation surface. Every method requires an admin actor.
type AdminService struct {
	accounts     ports.AccountRepository
	collections  map[domain.ResourceKind]ports.OwnedCollection
	appointments ports.AppointmentRepository
	ratings      ports.RatingRepository
	log          zerolog.Logger
	now          func() time.Time
}

func NewAdminService(
	accounts ports.AccountRepository,
	collections map[domain.ResourceKind]ports.OwnedCollection,
	appointments ports.AppointmentRepository,
	ratings ports.RatingRepository,
	log zerolog.Logger,
) *AdminService {
	return &AdminService{
		accounts:     accounts,
		collections:  collections,
		appointments: appointments,
		ratings:      ratings,
		log:          log,
		now:          time.Now,
	}
}

func (s *AdminService) ListAccounts(ctx context.Context, actor *domain.Account, filter ports.AccountFilter) ([]*domain.Account, error) {
	if err := RequireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.accounts.List(ctx, filter)
}

// SetAccountActive deactivates or reactivates an account. Credentials of a
// deactivated account stop resolving immediately.
func (s *AdminService) SetAccountActive(ctx context.Context, actor *domain.Account, id string, active bool) error {
	if err := s.requireOtherAccount(actor, id); err != nil {
		return err
	}
	if _, err := s.accounts.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.accounts.SetActive(ctx, id, active, s.now().UTC()); err != nil {
		return err
	}
	s.log.Info().Str("account_id", id).Bool("active", active).Str("admin_id", actor.ID).Msg("account activation changed")
	return nil
}

// DeleteAccount removes an account and everything that references it. The
// account is deactivated first; if a later step fails the account stays
// inactive and the call can be repeated.
func (s *AdminService) DeleteAccount(ctx context.Context, actor *domain.Account, id string) error {
	if err := s.requireOtherAccount(actor, id); err != nil {
		return err
	}
	target, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if target.Active {
		if err := s.accounts.SetActive(ctx, id, false, s.now().UTC()); err != nil {
			return fmt.Errorf("delete account: deactivate: %w", err)
		}
	}

	log := s.log.With().Str("account_id", id).Str("admin_id", actor.ID).Logger()
	for _, kind := range domain.ResourceKinds {
		coll, ok := s.collections[kind]
		if !ok {
			continue
		}
		n, err := coll.DeleteByOwner(ctx, id)
		if err != nil {
			return fmt.Errorf("delete account: %s: %w", kind, err)
		}
		log.Debug().Str("resource", string(kind)).Int64("deleted", n).Msg("owned resources removed")
	}

	ratings, err := s.ratings.DeleteByAccount(ctx, id)
	if err != nil {
		return fmt.Errorf("delete account: ratings: %w", err)
	}
	appointments, err := s.appointments.DeleteByAccount(ctx, id)
	if err != nil {
		return fmt.Errorf("delete account: appointments: %w", err)
	}
	if err := s.accounts.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	log.Info().Int64("ratings", ratings).Int64("appointments", appointments).Msg("account deleted")
	return nil
}

// Dashboard counts entities per type and accounts per role.
func (s *AdminService) Dashboard(ctx context.Context, actor *domain.Account) (*domain.DashboardStats, error) {
	if err := RequireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}

	byRole, err := s.accounts.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	stats := &domain.DashboardStats{
		AccountsByRole: make(map[domain.Role]int64, len(domain.Roles)),
		Resources:      make(map[domain.ResourceKind]int64, len(domain.ResourceKinds)),
	}
	for _, role := range domain.Roles {
		stats.AccountsByRole[role] = byRole[role]
		stats.Accounts += byRole[role]
	}

	for _, kind := range domain.ResourceKinds {
		coll, ok := s.collections[kind]
		if !ok {
			continue
		}
		n, err := coll.Count(ctx)
		if err != nil {
			return nil, err
		}
		stats.Resources[kind] = n
	}

	if stats.Appointments, err = s.appointments.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Ratings, err = s.ratings.Count(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *AdminService) requireOtherAccount(actor *domain.Account, id string) error {
	if err := RequireRole(actor, domain.RoleAdmin); err != nil {
		return err
	}
	if actor.ID == id {
		return fmt.Errorf("%w: admins cannot moderate their own account", domain.ErrInvalidTarget)
	}
	return nil
}
