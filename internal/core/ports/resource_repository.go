package ports

import (
	"context"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

// ResourceRepository defines persistence for one catalog collection.
// Writes are last-write-wins per record.
type ResourceRepository[T domain.Resource] interface {
	Create(ctx context.Context, r T) error
	FindByID(ctx context.Context, id string) (T, error)
	List(ctx context.Context, filter domain.ResourceFilter) ([]T, error)
	Replace(ctx context.Context, r T) error
	Delete(ctx context.Context, id string) error
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// OwnedCollection is the subset of a resource repository the admin surface needs.
type OwnedCollection interface {
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
	Count(ctx context.Context) (int64, error)
}
