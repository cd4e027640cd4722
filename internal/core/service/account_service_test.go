package service

import (
	"context"
	"errors"
	"testing"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

func TestAccountService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	repo := newStubAccountRepo(vetV)
	svc := NewAccountService(repo)

	updated, err := svc.UpdateProfile(ctx, vetV, domain.ProfileUpdate{
		ClinicName:     strPtr("Valley Clinic"),
		Specialization: strPtr("bovine"),
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.ClinicName != "Valley Clinic" || updated.Specialization != "bovine" {
		t.Fatalf("unexpected profile: %+v", updated)
	}
	if updated.Role != domain.RoleVeterinarian || updated.Email != vetV.Email {
		t.Fatalf("role and email must not change: %+v", updated)
	}
}

func TestAccountService_UpdateProfile_Rejections(t *testing.T) {
	ctx := context.Background()
	svc := NewAccountService(newStubAccountRepo(farmerF))

	if _, err := svc.UpdateProfile(ctx, nil, domain.ProfileUpdate{}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, farmerF, domain.ProfileUpdate{ShopName: strPtr("Shop")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, farmerF, domain.ProfileUpdate{Name: strPtr("  ")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAccountService_PublicProfile(t *testing.T) {
	ctx := context.Background()
	inactive := account("vet-off", domain.RoleVeterinarian)
	inactive.Active = false
	svc := NewAccountService(newStubAccountRepo(vetV, vetW, inactive, farmerF))

	got, err := svc.PublicProfile(ctx, vetV.ID)
	if err != nil {
		t.Fatalf("PublicProfile returned error: %v", err)
	}
	if got.ID != vetV.ID {
		t.Fatalf("unexpected account %s", got.ID)
	}
	if _, err := svc.PublicProfile(ctx, inactive.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for inactive account, got %v", err)
	}

	vets, err := svc.ListVeterinarians(ctx)
	if err != nil {
		t.Fatalf("ListVeterinarians returned error: %v", err)
	}
	if len(vets) != 2 {
		t.Fatalf("expected 2 active veterinarians, got %d", len(vets))
	}
}
