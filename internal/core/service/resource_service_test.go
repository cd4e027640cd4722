package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

func newTestCattleService() (*ResourceService[*domain.Cattle], *stubResourceRepo[*domain.Cattle]) {
	repo := newStubCattleRepo()
	return NewResourceService[*domain.Cattle](domain.KindCattle, repo, domain.ProducerRoles[domain.KindCattle], discardLogger), repo
}

func heifer() *domain.Cattle {
	return &domain.Cattle{Title: "Angus heifer", Breed: "Angus", AgeMonths: 18, WeightKg: 420, Price: 1500}
}

func TestResourceService_Create(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestCattleService()

	spoofed := heifer()
	spoofed.OwnerID = farmerG.ID
	spoofed.ID = "chosen-id"

	created, err := svc.Create(ctx, farmerF, spoofed)
	require.NoError(t, err)
	assert.Equal(t, farmerF.ID, created.OwnerID, "owner comes from the actor")
	assert.NotEqual(t, "chosen-id", created.ID)
	assert.Equal(t, domain.CattleAvailable, created.Status)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, farmerF.ID, got.OwnerID)
}

func TestResourceService_Create_Rejections(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestCattleService()

	_, err := svc.Create(ctx, nil, heifer())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = svc.Create(ctx, buyerB, heifer())
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.Create(ctx, adminA, heifer())
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.Create(ctx, farmerF, &domain.Cattle{Breed: "Angus"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	n, _ := repo.Count(ctx)
	assert.Zero(t, n)
}

func TestResourceService_Replace(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestCattleService()
	svc.now = fixedClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	created, err := svc.Create(ctx, farmerF, heifer())
	require.NoError(t, err)

	svc.now = fixedClock(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	next := heifer()
	next.Price = 1200
	next.Status = domain.CattleSold
	next.OwnerID = farmerG.ID
	next.ID = "other"

	replaced, err := svc.Replace(ctx, farmerF, created.ID, next)
	require.NoError(t, err)
	assert.Equal(t, created.ID, replaced.ID)
	assert.Equal(t, farmerF.ID, replaced.OwnerID, "ownership cannot be reassigned through the payload")
	assert.Equal(t, created.CreatedAt, replaced.CreatedAt)
	assert.True(t, replaced.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, domain.CattleSold, replaced.Status)

	stored, _ := svc.Get(ctx, created.ID)
	assert.Equal(t, 1200.0, stored.Price)
}

func TestResourceService_OwnershipMatrix(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestCattleService()

	created, err := svc.Create(ctx, farmerF, heifer())
	require.NoError(t, err)

	_, err = svc.Replace(ctx, farmerG, created.ID, heifer())
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.Replace(ctx, nil, created.ID, heifer())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = svc.Replace(ctx, farmerF, "missing", heifer())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, farmerG, created.ID), domain.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, vetV, created.ID), domain.ErrForbidden)

	_, err = svc.Replace(ctx, adminA, created.ID, heifer())
	assert.NoError(t, err, "admin override applies to replace")
	assert.NoError(t, svc.Delete(ctx, adminA, created.ID), "admin override applies to delete")
	assert.ErrorIs(t, svc.Delete(ctx, farmerF, created.ID), domain.ErrNotFound)
}

func TestResourceService_List(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestCattleService()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, farmerF, heifer())
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, farmerG, heifer())
	require.NoError(t, err)

	all, err := svc.List(ctx, domain.ResourceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	mine, err := svc.List(ctx, domain.ResourceFilter{OwnerID: farmerG.ID})
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestResourceService_NewsProducers(t *testing.T) {
	ctx := context.Background()
	repo := newStubResourceRepo(func(n *domain.NewsItem) *domain.NewsItem { clone := *n; return &clone })
	svc := NewResourceService[*domain.NewsItem](domain.KindNews, repo, domain.ProducerRoles[domain.KindNews], discardLogger)

	item := func() *domain.NewsItem { return &domain.NewsItem{Title: "Tick season", Body: "Check herds weekly."} }

	_, err := svc.Create(ctx, vetV, item())
	assert.NoError(t, err)
	_, err = svc.Create(ctx, adminA, item())
	assert.NoError(t, err)
	_, err = svc.Create(ctx, farmerF, item())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestResourceService_ProducerIsRoleSpecific(t *testing.T) {
	ctx := context.Background()
	cattle, _ := newTestCattleService()
	products := NewResourceService[*domain.Product](domain.KindProduct,
		newStubResourceRepo(func(p *domain.Product) *domain.Product { clone := *p; return &clone }),
		domain.ProducerRoles[domain.KindProduct], discardLogger)

	_, err := cattle.Create(ctx, sellerS, heifer())
	assert.ErrorIs(t, err, domain.ErrForbidden, "seller creating cattle")
	_, err = cattle.Create(ctx, buyerB, heifer())
	assert.ErrorIs(t, err, domain.ErrForbidden, "buyer creating cattle")

	_, err = products.Create(ctx, farmerF, &domain.Product{Name: "Mineral lick", Category: "feed", Price: 12})
	assert.ErrorIs(t, err, domain.ErrForbidden, "farmer creating product")
	_, err = products.Create(ctx, sellerS, &domain.Product{Name: "Mineral lick", Category: "feed", Price: 12})
	assert.NoError(t, err)
}
