package staff

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byID map[string]Membership
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[string]Membership)}
}

func (r *fakeRepo) Create(ctx context.Context, m Membership) error {
	r.byID[m.ID] = m
	return nil
}

func (r *fakeRepo) Update(ctx context.Context, m Membership) error {
	if _, ok := r.byID[m.ID]; !ok {
		return ErrNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (Membership, error) {
	m, ok := r.byID[id]
	if !ok {
		return Membership{}, ErrNotFound
	}
	return m, nil
}

func (r *fakeRepo) ListByProvider(ctx context.Context, providerID string) ([]Membership, error) {
	out := make([]Membership, 0)
	for _, m := range r.byID {
		if m.ProviderID == providerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByNurse(ctx context.Context, nurseUserID string) ([]Membership, error) {
	out := make([]Membership, 0)
	for _, m := range r.byID {
		if m.NurseUserID == nurseUserID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetActiveMembership(ctx context.Context, providerID, nurseUserID string) (Membership, error) {
	for _, m := range r.byID {
		if m.ProviderID == providerID && m.NurseUserID == nurseUserID && m.Status == StatusActive {
			return m, nil
		}
	}
	return Membership{}, ErrNotFound
}

func TestInviteDefaults(t *testing.T) {
	svc := NewService(newFakeRepo())

	m, err := svc.Invite(context.Background(), InviteInput{
		ProviderID:  "prov-1",
		OwnerUserID: "owner-1",
		NurseUserID: "nurse-1",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusInvited, m.Status)
	assert.Equal(t, []Scope{ScopeCasesRead, ScopeCasesAssess}, m.Scopes)
}

func TestInviteValidation(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Invite(context.Background(), InviteInput{ProviderID: "p", OwnerUserID: "o"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// El dueño no se invita a sí mismo.
	_, err = svc.Invite(context.Background(), InviteInput{ProviderID: "p", OwnerUserID: "u", NurseUserID: "u"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Invite(context.Background(), InviteInput{
		ProviderID: "p", OwnerUserID: "o", NurseUserID: "n",
		Scopes: []Scope{"cases:delete_everything"},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// Re-invitar a la misma enfermera actualiza los scopes en vez de duplicar.
func TestInviteUpdatesExistingMembership(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	first, err := svc.Invite(context.Background(), InviteInput{
		ProviderID: "prov-1", OwnerUserID: "owner-1", NurseUserID: "nurse-1",
	})
	require.NoError(t, err)

	second, err := svc.Invite(context.Background(), InviteInput{
		ProviderID: "prov-1", OwnerUserID: "owner-1", NurseUserID: "nurse-1",
		Scopes: []Scope{ScopeCasesRead, ScopeBookingsManage},
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, []Scope{ScopeCasesRead, ScopeBookingsManage}, second.Scopes)
	assert.Len(t, repo.byID, 1)
}

func TestAcceptLifecycle(t *testing.T) {
	svc := NewService(newFakeRepo())

	m, err := svc.Invite(context.Background(), InviteInput{
		ProviderID: "prov-1", OwnerUserID: "owner-1", NurseUserID: "nurse-1",
	})
	require.NoError(t, err)

	// Solo la enfermera invitada puede aceptar.
	_, err = svc.Accept(context.Background(), m.ID, "intruder")
	assert.ErrorIs(t, err, ErrForbidden)

	accepted, err := svc.Accept(context.Background(), m.ID, "nurse-1")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, accepted.Status)

	// Idempotente.
	again, err := svc.Accept(context.Background(), m.ID, "nurse-1")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, again.Status)
}

func TestRevokeLifecycle(t *testing.T) {
	svc := NewService(newFakeRepo())

	m, err := svc.Invite(context.Background(), InviteInput{
		ProviderID: "prov-1", OwnerUserID: "owner-1", NurseUserID: "nurse-1",
	})
	require.NoError(t, err)
	_, err = svc.Accept(context.Background(), m.ID, "nurse-1")
	require.NoError(t, err)

	_, err = svc.Revoke(context.Background(), m.ID, "not-the-owner")
	assert.ErrorIs(t, err, ErrForbidden)

	revoked, err := svc.Revoke(context.Background(), m.ID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, StatusRevoked, revoked.Status)
	require.NotNil(t, revoked.RevokedAt)

	// Idempotente.
	again, err := svc.Revoke(context.Background(), m.ID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, StatusRevoked, again.Status)

	// Una membership revocada no se puede aceptar.
	_, err = svc.Accept(context.Background(), m.ID, "nurse-1")
	assert.ErrorIs(t, err, ErrBadState)
}

func TestHasScope(t *testing.T) {
	m := Membership{Scopes: []Scope{ScopeCasesRead}}
	assert.True(t, HasScope(m, ScopeCasesRead))
	assert.False(t, HasScope(m, ScopeCatalogEdit))
}
