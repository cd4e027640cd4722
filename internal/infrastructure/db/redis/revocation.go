package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

// RevocationStore records logged-out credentials until they expire.
// Key format: revoked:<token_id>
type RevocationStore struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewRevocationStore creates a RevocationStore wrapping the given Redis client.
func NewRevocationStore(client redis.Cmdable) *RevocationStore {
	return &RevocationStore{client: client, now: time.Now}
}

// Revoke marks tokenID as revoked. The key expires with the credential, so
// the set never outgrows the live token population.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl, ok := s.ttl(until)
	if !ok {
		return nil
	}
	if err := s.client.Set(ctx, key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w: %w", domain.ErrUnavailable, err)
	}
	return nil
}

// IsRevoked reports whether tokenID was revoked.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w: %w", domain.ErrUnavailable, err)
	}
	return n > 0, nil
}

// ttl returns how long a revocation must be kept. An already expired
// credential needs no entry.
func (s *RevocationStore) ttl(until time.Time) (time.Duration, bool) {
	d := until.Sub(s.now())
	if d <= 0 {
		return 0, false
	}
	// Round up so the key never expires before the credential does.
	return d.Truncate(time.Second) + time.Second, true
}

func key(tokenID string) string {
	return "revoked:" + tokenID
}
