package cases

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-marketplace/internal/domain/bookings"
	"pet-care-marketplace/internal/domain/casefiles"
)

type fakeFiles struct {
	mu        sync.Mutex
	items     []casefiles.CaseFile
	listErr   error
	updates   map[string]string
	updateErr error
}

func (f *fakeFiles) ListForNurse(ctx context.Context, nurseID string) ([]casefiles.CaseFile, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.items, nil
}

func (f *fakeFiles) UpdatePriority(ctx context.Context, id string, priority string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.updates == nil {
		f.updates = make(map[string]string)
	}
	f.updates[id] = priority
	return nil
}

type fakeBookings struct {
	mu         sync.Mutex
	triage     []bookings.Booking
	consults   []bookings.Booking
	triageErr  error
	consultErr error
	assessed   map[string]string
	assessErr  error
}

func (f *fakeBookings) ListActiveTriage(ctx context.Context) ([]bookings.Booking, error) {
	if f.triageErr != nil {
		return nil, f.triageErr
	}
	return f.triage, nil
}

func (f *fakeBookings) ListActiveConsultations(ctx context.Context) ([]bookings.Booking, error) {
	if f.consultErr != nil {
		return nil, f.consultErr
	}
	return f.consults, nil
}

func (f *fakeBookings) AssessTriage(ctx context.Context, id string, priority string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.assessErr != nil {
		return f.assessErr
	}
	if f.assessed == nil {
		f.assessed = make(map[string]string)
	}
	f.assessed[id] = priority
	return nil
}

func newTestAggregator(files *fakeFiles, bks *fakeBookings) *Aggregator {
	return NewAggregator(files, bks, zerolog.Nop())
}

func TestAggregateMergesAndSortsBySeverity(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	files := &fakeFiles{items: []casefiles.CaseFile{
		{ID: "cf-1", CaseNumber: "CS-1", Title: "Skin rash", Priority: "mild", CreatedAt: now},
	}}
	bks := &fakeBookings{
		triage: []bookings.Booking{
			{ID: "bk-1", PetName: "Luna", ConsultationType: bookings.ConsultationTriage, TriagePriority: "emergency", Status: bookings.StatusConfirmed, CreatedAt: now},
		},
		consults: []bookings.Booking{
			{ID: "ck-1", PetName: "Max", ConsultationType: bookings.ConsultationGrooming, Status: bookings.StatusConfirmed, CreatedAt: now},
		},
	}

	got, err := newTestAggregator(files, bks).Aggregate(context.Background(), "nurse-1")
	require.NoError(t, err)
	require.Len(t, got, 3)

	// emergency > moderate (consulta derivada) > mild
	assert.Equal(t, "booking_bk-1", got[0].ID)
	assert.Equal(t, "consult_ck-1", got[1].ID)
	assert.Equal(t, "cf-1", got[2].ID)
}

// Empates de severidad conservan el orden de concatenación:
// casos nativos, luego triage, luego consultas.
func TestAggregateTieOrderIsDeterministic(t *testing.T) {
	files := &fakeFiles{items: []casefiles.CaseFile{
		{ID: "cf-1", Priority: "moderate"},
	}}
	bks := &fakeBookings{
		triage: []bookings.Booking{
			{ID: "bk-1", ConsultationType: bookings.ConsultationTriage, TriagePriority: "moderate", Status: bookings.StatusPending},
		},
		consults: []bookings.Booking{
			{ID: "ck-1", ConsultationType: bookings.ConsultationGeneral, Status: bookings.StatusPending},
		},
	}

	got, err := newTestAggregator(files, bks).Aggregate(context.Background(), "nurse-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "cf-1", got[0].ID)
	assert.Equal(t, "booking_bk-1", got[1].ID)
	assert.Equal(t, "consult_ck-1", got[2].ID)
}

// Una fuente caída no tumba la worklist: contribuye lista vacía.
func TestAggregateBestEffortOnSingleFailure(t *testing.T) {
	files := &fakeFiles{listErr: errors.New("boom")}
	bks := &fakeBookings{
		triage: []bookings.Booking{
			{ID: "bk-1", ConsultationType: bookings.ConsultationTriage, Status: bookings.StatusPending},
		},
	}

	got, err := newTestAggregator(files, bks).Aggregate(context.Background(), "nurse-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "booking_bk-1", got[0].ID)
}

func TestAggregateAllSourcesFailed(t *testing.T) {
	files := &fakeFiles{listErr: errors.New("boom")}
	bks := &fakeBookings{triageErr: errors.New("boom"), consultErr: errors.New("boom")}

	_, err := newTestAggregator(files, bks).Aggregate(context.Background(), "nurse-1")
	assert.ErrorIs(t, err, ErrSourcesUnavailable)
}

// Cero resultados en las tres fuentes es una worklist vacía, no un error.
func TestAggregateAllEmptyIsNotAnError(t *testing.T) {
	got, err := newTestAggregator(&fakeFiles{}, &fakeBookings{}).Aggregate(context.Background(), "nurse-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

// La tabla nativa faltante es fatal aunque las otras fuentes respondan.
func TestAggregateTableMissingIsFatal(t *testing.T) {
	files := &fakeFiles{listErr: casefiles.ErrTableMissing}
	bks := &fakeBookings{
		triage: []bookings.Booking{
			{ID: "bk-1", ConsultationType: bookings.ConsultationTriage, Status: bookings.StatusPending},
		},
	}

	_, err := newTestAggregator(files, bks).Aggregate(context.Background(), "nurse-1")
	assert.ErrorIs(t, err, ErrSetupRequired)
}
