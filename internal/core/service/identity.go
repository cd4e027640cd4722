package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

// IdentityResolver turns a bearer token into an active account.
type IdentityResolver struct {
	tokens      *TokenIssuer
	accounts    ports.AccountRepository
	revocations ports.RevocationStore
}

// NewIdentityResolver builds a resolver. revocations may be nil, in which
// case credentials are valid until expiry.
func NewIdentityResolver(tokens *TokenIssuer, accounts ports.AccountRepository, revocations ports.RevocationStore) *IdentityResolver {
	return &IdentityResolver{tokens: tokens, accounts: accounts, revocations: revocations}
}

// Resolve verifies rawToken and loads the referenced account. A revoked
// token, a missing account and an inactive account are all reported as
// domain.ErrInvalidCredential.
func (r *IdentityResolver) Resolve(ctx context.Context, rawToken string) (*domain.Identity, error) {
	claims, err := r.tokens.Verify(rawToken)
	if err != nil {
		return nil, err
	}

	if r.revocations != nil {
		revoked, err := r.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("resolve identity: %w", err)
		}
		if revoked {
			return nil, domain.ErrInvalidCredential
		}
	}

	account, err := r.accounts.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredential
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	if !account.Active {
		return nil, domain.ErrInvalidCredential
	}

	return &domain.Identity{
		Account:   account,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
