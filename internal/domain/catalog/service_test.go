package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-marketplace/internal/ports/capabilities"
)

type fakeRepo struct {
	byID map[string]Package
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[string]Package)}
}

func (r *fakeRepo) Create(ctx context.Context, p Package) error {
	r.byID[p.ID] = p
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (Package, error) {
	p, ok := r.byID[id]
	if !ok {
		return Package{}, ErrNotFound
	}
	return p, nil
}

func (r *fakeRepo) ListByProvider(ctx context.Context, providerID string) ([]Package, error) {
	out := make([]Package, 0)
	for _, p := range r.byID {
		if p.ProviderID == providerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepo) Deactivate(ctx context.Context, id string) error {
	p, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	p.Active = false
	r.byID[id] = p
	return nil
}

type fakeResolver struct {
	allow bool
}

func (f *fakeResolver) Has(ctx context.Context, c capabilities.Check) (bool, error) {
	return f.allow, nil
}

func createN(t *testing.T, svc *Service, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := svc.Create(context.Background(), "owner-1", CreateInput{
			ProviderID: "prov-1",
			Name:       "Package",
			Tiers:      []PriceTier{{Name: "basic", PriceCents: 1000}},
		})
		require.NoError(t, err)
	}
}

func TestCreateNormalizesTiers(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	p, err := svc.Create(context.Background(), "owner-1", CreateInput{
		ProviderID: "prov-1",
		Name:       "  Wellness  ",
		Tiers:      []PriceTier{{Name: " basic ", PriceCents: 1500, Currency: "usd"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Wellness", p.Name)
	assert.True(t, p.Active)
	require.Len(t, p.Tiers, 1)
	assert.Equal(t, "basic", p.Tiers[0].Name)
	assert.Equal(t, "USD", p.Tiers[0].Currency)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	_, err := svc.Create(context.Background(), "owner-1", CreateInput{ProviderID: "prov-1", Name: "X"})
	assert.ErrorIs(t, err, ErrInvalidInput) // sin tiers

	_, err = svc.Create(context.Background(), "owner-1", CreateInput{
		ProviderID: "prov-1", Name: "X",
		Tiers: []PriceTier{{Name: "basic", PriceCents: -1}},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(context.Background(), "", CreateInput{
		ProviderID: "prov-1", Name: "X",
		Tiers: []PriceTier{{Name: "basic", PriceCents: 100}},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPlanLimitWithoutCapability(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	createN(t, svc, FreePackageLimit)

	_, err := svc.Create(context.Background(), "owner-1", CreateInput{
		ProviderID: "prov-1",
		Name:       "One too many",
		Tiers:      []PriceTier{{Name: "basic", PriceCents: 100}},
	})
	assert.ErrorIs(t, err, ErrPlanLimit)
}

func TestPlanLimitLiftedByCapability(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeResolver{allow: true})
	createN(t, svc, FreePackageLimit)

	_, err := svc.Create(context.Background(), "owner-1", CreateInput{
		ProviderID: "prov-1",
		Name:       "Premium extra",
		Tiers:      []PriceTier{{Name: "basic", PriceCents: 100}},
	})
	assert.NoError(t, err)
}

// Paquetes desactivados no cuentan para el límite.
func TestPlanLimitIgnoresInactive(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	createN(t, svc, FreePackageLimit)

	var anyID string
	for id := range repo.byID {
		anyID = id
		break
	}
	require.NoError(t, svc.Deactivate(context.Background(), anyID))

	_, err := svc.Create(context.Background(), "owner-1", CreateInput{
		ProviderID: "prov-1",
		Name:       "Replacement",
		Tiers:      []PriceTier{{Name: "basic", PriceCents: 100}},
	})
	assert.NoError(t, err)
}
