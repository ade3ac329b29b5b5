package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byID map[string]Provider
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[string]Provider)}
}

func (r *fakeRepo) Create(ctx context.Context, p Provider) error {
	r.byID[p.ID] = p
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (Provider, error) {
	p, ok := r.byID[id]
	if !ok {
		return Provider{}, ErrNotFound
	}
	return p, nil
}

func (r *fakeRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Provider, error) {
	out := make([]Provider, 0)
	for _, p := range r.byID {
		if p.OwnerUserID == ownerUserID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepo) Update(ctx context.Context, p Provider) error {
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func TestCreateProvider(t *testing.T) {
	svc := NewService(newFakeRepo())

	p, err := svc.Create(context.Background(), "owner-1", CreateInput{
		ClinicName: "  Vet Andes  ",
		Services:   []string{"Triage", "triage", " GROOMING ", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "Vet Andes", p.ClinicName)
	assert.Equal(t, TierBasic, p.PlanTier)
	// Servicios normalizados: lowercase, sin duplicados ni vacíos.
	assert.Equal(t, []string{"triage", "grooming"}, p.Services)
}

func TestCreateProviderValidation(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), "", CreateInput{ClinicName: "X"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(context.Background(), "owner-1", CreateInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateProfilePatchSemantics(t *testing.T) {
	svc := NewService(newFakeRepo())

	p, err := svc.Create(context.Background(), "owner-1", CreateInput{
		ClinicName: "Vet Andes",
		Bio:        "old bio",
		City:       "Lima",
	})
	require.NoError(t, err)

	newBio := "new bio"
	got, err := svc.UpdateProfile(context.Background(), p.ID, "owner-1", UpdateProfileInput{
		Bio: &newBio,
	})
	require.NoError(t, err)
	// Solo cambia lo que vino; el resto queda.
	assert.Equal(t, "new bio", got.Bio)
	assert.Equal(t, "Vet Andes", got.ClinicName)
	assert.Equal(t, "Lima", got.City)
}

func TestUpdateProfileOwnerOnly(t *testing.T) {
	svc := NewService(newFakeRepo())

	p, err := svc.Create(context.Background(), "owner-1", CreateInput{ClinicName: "Vet Andes"})
	require.NoError(t, err)

	name := "Hijacked"
	_, err = svc.UpdateProfile(context.Background(), p.ID, "intruder", UpdateProfileInput{ClinicName: &name})
	assert.ErrorIs(t, err, ErrForbidden)

	empty := "  "
	_, err = svc.UpdateProfile(context.Background(), p.ID, "owner-1", UpdateProfileInput{ClinicName: &empty})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
