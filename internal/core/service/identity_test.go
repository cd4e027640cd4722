package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

func TestIdentityResolver_Resolve(t *testing.T) {
	tokens := NewTokenIssuer("secret", time.Hour)
	accounts := newStubAccountRepo(farmerF)
	resolver := NewIdentityResolver(tokens, accounts, newStubRevocations())

	raw, claims, _ := tokens.Issue(farmerF.ID)
	id, err := resolver.Resolve(context.Background(), raw)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if id.Account.ID != farmerF.ID || id.Account.Role != domain.RoleFarmer {
		t.Fatalf("unexpected account: %+v", id.Account)
	}
	if id.TokenID != claims.ID || !id.ExpiresAt.Equal(claims.ExpiresAt.Time) {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestIdentityResolver_Rejections(t *testing.T) {
	ctx := context.Background()
	tokens := NewTokenIssuer("secret", time.Hour)

	inactive := account("inactive", domain.RoleBuyer)
	inactive.Active = false

	revocations := newStubRevocations()
	resolver := NewIdentityResolver(tokens, newStubAccountRepo(farmerF, inactive), revocations)

	revokedRaw, revokedClaims, _ := tokens.Issue(farmerF.ID)
	_ = revocations.Revoke(ctx, revokedClaims.ID, revokedClaims.ExpiresAt.Time)

	inactiveRaw, _, _ := tokens.Issue(inactive.ID)
	missingRaw, _, _ := tokens.Issue("ghost")

	cases := []struct {
		name string
		raw  string
		want error
	}{
		{"revoked", revokedRaw, domain.ErrInvalidCredential},
		{"inactive account", inactiveRaw, domain.ErrInvalidCredential},
		{"missing account", missingRaw, domain.ErrInvalidCredential},
		{"malformed", "not-a-token", domain.ErrInvalidCredential},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := resolver.Resolve(ctx, tc.raw); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestIdentityResolver_StoreUnavailable(t *testing.T) {
	tokens := NewTokenIssuer("secret", time.Hour)
	revocations := newStubRevocations()
	revocations.err = domain.ErrUnavailable
	resolver := NewIdentityResolver(tokens, newStubAccountRepo(farmerF), revocations)

	raw, _, _ := tokens.Issue(farmerF.ID)
	_, err := resolver.Resolve(context.Background(), raw)
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("store outage must not read as an invalid credential")
	}
}

func TestIdentityResolver_NoRevocationStore(t *testing.T) {
	tokens := NewTokenIssuer("secret", time.Hour)
	resolver := NewIdentityResolver(tokens, newStubAccountRepo(farmerF), nil)

	raw, _, _ := tokens.Issue(farmerF.ID)
	if _, err := resolver.Resolve(context.Background(), raw); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
}
