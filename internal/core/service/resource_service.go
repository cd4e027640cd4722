package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// ResourceService manages one catalog collection. Only producer roles may
// create entries; only the owner or an admin may replace or delete them.
type ResourceService[T domain.Resource] struct {
	kind      domain.ResourceKind
	repo      ports.ResourceRepository[T]
	producers []domain.Role
	log       zerolog.Logger
	now       func() time.Time
}

func NewResourceService[T domain.Resource](kind domain.ResourceKind, repo ports.ResourceRepository[T], producers []domain.Role, log zerolog.Logger) *ResourceService[T] {
	return &ResourceService[T]{
		kind:      kind,
		repo:      repo,
		producers: producers,
		log:       log.With().Str("resource", string(kind)).Logger(),
		now:       time.Now,
	}
}

func (s *ResourceService[T]) Create(ctx context.Context, actor *domain.Account, r T) (T, error) {
	var zero T
	if err := RequireRole(actor, s.producers...); err != nil {
		return zero, err
	}
	if err := r.Validate(); err != nil {
		return zero, err
	}

	now := s.now().UTC()
	meta := r.Meta()
	meta.ID = uuid.NewString()
	meta.OwnerID = actor.ID
	meta.CreatedAt = now
	meta.UpdatedAt = now

	if err := s.repo.Create(ctx, r); err != nil {
		return zero, err
	}
	s.log.Info().Str("id", meta.ID).Str("owner_id", meta.OwnerID).Msg("resource created")
	return r, nil
}

func (s *ResourceService[T]) Get(ctx context.Context, id string) (T, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ResourceService[T]) List(ctx context.Context, filter domain.ResourceFilter) ([]T, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	return s.repo.List(ctx, filter)
}

// Replace overwrites the entry's content. The stored id, owner and creation
// time are kept regardless of what r carries.
func (s *ResourceService[T]) Replace(ctx context.Context, actor *domain.Account, id string, r T) (T, error) {
	var zero T
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return zero, err
	}
	stored := current.Meta()
	if err := CheckOwnership(actor, stored.OwnerID, true); err != nil {
		return zero, err
	}
	if err := r.Validate(); err != nil {
		return zero, err
	}

	meta := r.Meta()
	meta.ID = stored.ID
	meta.OwnerID = stored.OwnerID
	meta.CreatedAt = stored.CreatedAt
	meta.UpdatedAt = s.now().UTC()

	if err := s.repo.Replace(ctx, r); err != nil {
		return zero, err
	}
	s.log.Info().Str("id", id).Str("actor_id", actor.ID).Msg("resource replaced")
	return r, nil
}

func (s *ResourceService[T]) Delete(ctx context.Context, actor *domain.Account, id string) error {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := CheckOwnership(actor, current.Meta().OwnerID, true); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("id", id).Str("actor_id", actor.ID).Msg("resource deleted")
	return nil
}
