package ports

import (
	"context"
	"time"
)

// RevocationStore tracks credentials revoked before their natural expiry.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
