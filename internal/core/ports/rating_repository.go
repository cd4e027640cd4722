package ports

import (
	"context"
	"time"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

// RatingRepository defines persistence for ratings.
type RatingRepository interface {
	// Create inserts r. Returns domain.ErrDuplicateRating when a rating for
	// the same (rater, subject) pair already exists; the check and the insert
	// are a single storage operation.
	Create(ctx context.Context, r *domain.Rating) error
	FindByID(ctx context.Context, id string) (*domain.Rating, error)
	FindByPair(ctx context.Context, raterID, subjectID string) (*domain.Rating, error)
	// ListBySubject returns newest first.
	ListBySubject(ctx context.Context, subjectID string) ([]*domain.Rating, error)
	Update(ctx context.Context, id string, score int, comment string, at time.Time) (*domain.Rating, error)
	Delete(ctx context.Context, id string) error
	// DeleteByAccount removes ratings given or received by accountID.
	DeleteByAccount(ctx context.Context, accountID string) (int64, error)
	Count(ctx context.Context) (int64, error)
}
