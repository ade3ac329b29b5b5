package casefiles

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byID map[string]CaseFile
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[string]CaseFile)}
}

func (r *fakeRepo) Create(ctx context.Context, cf CaseFile) error {
	r.byID[cf.ID] = cf
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (CaseFile, error) {
	cf, ok := r.byID[id]
	if !ok {
		return CaseFile{}, ErrNotFound
	}
	return cf, nil
}

func (r *fakeRepo) ListForNurse(ctx context.Context, nurseID string) ([]CaseFile, error) {
	out := make([]CaseFile, 0)
	for _, cf := range r.byID {
		if cf.Status == StatusClosed {
			continue
		}
		if cf.AssignedNurseID != "" && cf.AssignedNurseID != nurseID {
			continue
		}
		out = append(out, cf)
	}
	return out, nil
}

func (r *fakeRepo) UpdatePriority(ctx context.Context, id string, priority string) error {
	cf, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	cf.Priority = priority
	cf.Status = StatusAssessed
	r.byID[id] = cf
	return nil
}

func (r *fakeRepo) Assign(ctx context.Context, id string, nurseID string) error {
	cf, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	cf.AssignedNurseID = nurseID
	r.byID[id] = cf
	return nil
}

func TestCreateCaseFile(t *testing.T) {
	svc := NewService(newFakeRepo())

	cf, err := svc.Create(context.Background(), CreateInput{
		Title:   "Skin rash",
		PetName: "Rocky",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, cf.ID)
	assert.Equal(t, StatusNew, cf.Status)
	assert.Equal(t, CaseTypeConsultation, cf.CaseType)
	assert.Empty(t, cf.Priority)

	// Código display derivado del uuid: CS- + primeros 8 hex en mayúscula.
	require.True(t, strings.HasPrefix(cf.CaseNumber, "CS-"))
	short := strings.TrimPrefix(cf.CaseNumber, "CS-")
	assert.Len(t, short, 8)
	assert.Equal(t, strings.ToUpper(short), short)
}

func TestCreateCaseFileValidation(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), CreateInput{PetName: "Rocky"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(context.Background(), CreateInput{Title: "Skin rash"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// Cola compartida: sin asignar lo ven todas, asignado solo su enfermera.
func TestListForNurseSharedQueue(t *testing.T) {
	svc := NewService(newFakeRepo())

	unassigned, err := svc.Create(context.Background(), CreateInput{Title: "A", PetName: "Rocky"})
	require.NoError(t, err)
	assigned, err := svc.Create(context.Background(), CreateInput{Title: "B", PetName: "Luna"})
	require.NoError(t, err)

	_, err = svc.Assign(context.Background(), assigned.ID, "nurse-1")
	require.NoError(t, err)

	mine, err := svc.ListForNurse(context.Background(), "nurse-1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	other, err := svc.ListForNurse(context.Background(), "nurse-2")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, unassigned.ID, other[0].ID)
}

func TestUpdatePriority(t *testing.T) {
	svc := NewService(newFakeRepo())

	cf, err := svc.Create(context.Background(), CreateInput{Title: "A", PetName: "Rocky"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePriority(context.Background(), cf.ID, "emergency"))

	got, err := svc.GetByID(context.Background(), cf.ID)
	require.NoError(t, err)
	assert.Equal(t, "emergency", got.Priority)
	assert.Equal(t, StatusAssessed, got.Status)

	assert.ErrorIs(t, svc.UpdatePriority(context.Background(), cf.ID, ""), ErrInvalidInput)
	assert.ErrorIs(t, svc.UpdatePriority(context.Background(), "", "mild"), ErrInvalidInput)
}
