package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

// RatingService is the ledger of farmer ratings for veterinarians.
type RatingService struct {
	ratings  ports.RatingRepository
	accounts ports.AccountRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewRatingService(ratings ports.RatingRepository, accounts ports.AccountRepository, log zerolog.Logger) *RatingService {
	return &RatingService{ratings: ratings, accounts: accounts, log: log, now: time.Now}
}

// Create records a farmer's first rating of a veterinarian. A second rating
// for the same pair fails with domain.ErrDuplicateRating.
func (s *RatingService) Create(ctx context.Context, actor *domain.Account, subjectID string, score int, comment string) (*domain.Rating, error) {
	if err := RequireRole(actor, domain.RoleFarmer); err != nil {
		return nil, err
	}
	if err := domain.ValidateScore(score); err != nil {
		return nil, err
	}
	if err := requireActiveRole(ctx, s.accounts, subjectID, domain.RoleVeterinarian); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rating := &domain.Rating{
		ID:        uuid.NewString(),
		RaterID:   actor.ID,
		SubjectID: subjectID,
		Score:     score,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		if errors.Is(err, domain.ErrDuplicateRating) {
			s.log.Debug().Str("rater_id", actor.ID).Str("subject_id", subjectID).Msg("duplicate rating rejected")
		}
		return nil, err
	}

	s.log.Info().Str("rating_id", rating.ID).Str("subject_id", subjectID).Int("score", score).Msg("rating created")
	return rating, nil
}

// Update changes the score and comment of the caller's own rating.
func (s *RatingService) Update(ctx context.Context, actor *domain.Account, id string, score int, comment string) (*domain.Rating, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := domain.ValidateScore(score); err != nil {
		return nil, err
	}
	current, err := s.ratings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CheckOwnership(actor, current.RaterID, false); err != nil {
		return nil, err
	}
	return s.ratings.Update(ctx, id, score, strings.TrimSpace(comment), s.now().UTC())
}

// ListForSubject returns a veterinarian's ratings with the average computed
// over what is stored at read time.
func (s *RatingService) ListForSubject(ctx context.Context, subjectID string) (domain.RatingSummary, error) {
	subject, err := s.accounts.FindByID(ctx, subjectID)
	if err != nil {
		return domain.RatingSummary{}, err
	}
	if subject.Role != domain.RoleVeterinarian {
		return domain.RatingSummary{}, fmt.Errorf("%w: account %s is not a veterinarian", domain.ErrInvalidTarget, subjectID)
	}

	ratings, err := s.ratings.ListBySubject(ctx, subjectID)
	if err != nil {
		return domain.RatingSummary{}, err
	}
	return domain.Summarize(subjectID, ratings), nil
}

// MineForSubject returns the caller's rating of subjectID, or domain.ErrNotFound.
func (s *RatingService) MineForSubject(ctx context.Context, actor *domain.Account, subjectID string) (*domain.Rating, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.ratings.FindByPair(ctx, actor.ID, subjectID)
}

// Delete removes a rating. Only its rater or an admin may delete it.
func (s *RatingService) Delete(ctx context.Context, actor *domain.Account, id string) error {
	current, err := s.ratings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := CheckOwnership(actor, current.RaterID, true); err != nil {
		return err
	}
	if err := s.ratings.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("rating_id", id).Str("actor_id", actor.ID).Msg("rating deleted")
	return nil
}
