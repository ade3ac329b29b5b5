package cases

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-marketplace/internal/domain/bookings"
	"pet-care-marketplace/internal/domain/casefiles"
)

func newTestService(files *fakeFiles, bks *fakeBookings) *Service {
	return NewService(NewAggregator(files, bks, zerolog.Nop()), files, bks, zerolog.Nop())
}

func TestQueryLoadsOnceThenFiltersInMemory(t *testing.T) {
	files := &fakeFiles{items: []casefiles.CaseFile{
		{ID: "cf-1", Title: "Skin rash", Priority: "mild"},
		{ID: "cf-2", Title: "Vomiting", Priority: ""},
	}}
	svc := newTestService(files, &fakeBookings{})

	got, err := svc.Query(context.Background(), "nurse-1", ViewInput{})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Cambios de fuente no se ven hasta el próximo refresh.
	files.items = append(files.items, casefiles.CaseFile{ID: "cf-3", Title: "New"})

	got, err = svc.Query(context.Background(), "nurse-1", ViewInput{})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.Refresh(context.Background(), "nurse-1")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestAssessCaseFileWritesPriority(t *testing.T) {
	files := &fakeFiles{items: []casefiles.CaseFile{
		{ID: "cf-1", Title: "Skin rash", Priority: ""},
	}}
	svc := newTestService(files, &fakeBookings{})

	_, err := svc.Refresh(context.Background(), "nurse-1")
	require.NoError(t, err)

	c, updated, err := svc.Assess(context.Background(), "nurse-1", "cf-1", SeveritySerious)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, SeveritySerious, c.Severity)
	assert.Equal(t, "serious", files.updates["cf-1"])

	// El repo nativo también marca el caso como evaluado; el snapshot en
	// memoria lo refleja sin esperar al próximo refresh.
	assert.Equal(t, "assessed", c.Status)
	got, err := svc.Query(context.Background(), "nurse-1", ViewInput{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "assessed", got[0].Status)
}

func TestAssessTriageBookingRoutesToNativeID(t *testing.T) {
	bks := &fakeBookings{triage: []bookings.Booking{
		{ID: "bk-1", PetName: "Luna", ConsultationType: bookings.ConsultationTriage, Status: bookings.StatusPending},
	}}
	svc := newTestService(&fakeFiles{}, bks)

	_, err := svc.Refresh(context.Background(), "nurse-1")
	require.NoError(t, err)

	// El id de worklist es compuesto; el write-back va al id nativo.
	c, updated, err := svc.Assess(context.Background(), "nurse-1", "booking_bk-1", SeverityEmergency)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, "emergency", bks.assessed["bk-1"])
	assert.Equal(t, SeverityEmergency, c.Severity)
	assert.Equal(t, "assessed", c.Status)
}

func TestAssessConsultationBookingNotAssessable(t *testing.T) {
	bks := &fakeBookings{consults: []bookings.Booking{
		{ID: "ck-1", ConsultationType: bookings.ConsultationGrooming, Status: bookings.StatusConfirmed},
	}}
	svc := newTestService(&fakeFiles{}, bks)

	_, err := svc.Refresh(context.Background(), "nurse-1")
	require.NoError(t, err)

	_, updated, err := svc.Assess(context.Background(), "nurse-1", "consult_ck-1", SeverityMild)
	assert.ErrorIs(t, err, ErrNotAssessable)
	assert.False(t, updated)
	assert.Empty(t, bks.assessed)
}

// Un id que ya no está en la worklist es un no-op silencioso, no un error:
// la worklist pudo refrescarse desde el último render del cliente.
func TestAssessStaleIDIsSilentNoOp(t *testing.T) {
	files := &fakeFiles{}
	svc := newTestService(files, &fakeBookings{})

	_, err := svc.Refresh(context.Background(), "nurse-1")
	require.NoError(t, err)

	_, updated, err := svc.Assess(context.Background(), "nurse-1", "gone-id", SeverityMild)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.Empty(t, files.updates)
}

func TestAssessAlreadyAssessed(t *testing.T) {
	files := &fakeFiles{items: []casefiles.CaseFile{
		{ID: "cf-1", Priority: "moderate"},
	}}
	svc := newTestService(files, &fakeBookings{})

	_, err := svc.Refresh(context.Background(), "nurse-1")
	require.NoError(t, err)

	_, updated, err := svc.Assess(context.Background(), "nurse-1", "cf-1", SeveritySerious)
	assert.ErrorIs(t, err, ErrAlreadyAssessed)
	assert.False(t, updated)
	assert.Empty(t, files.updates)
}

// Una falla de escritura se traga (updated=false) y no toca el estado en
// memoria: el caso sigue pending y un retry es posible.
func TestAssessWriteFailureLeavesStateIntact(t *testing.T) {
	files := &fakeFiles{
		items:     []casefiles.CaseFile{{ID: "cf-1", Priority: ""}},
		updateErr: errors.New("db down"),
	}
	svc := newTestService(files, &fakeBookings{})

	_, err := svc.Refresh(context.Background(), "nurse-1")
	require.NoError(t, err)

	_, updated, err := svc.Assess(context.Background(), "nurse-1", "cf-1", SeveritySerious)
	require.NoError(t, err)
	assert.False(t, updated)

	got, err := svc.Query(context.Background(), "nurse-1", ViewInput{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, SeverityPending, got[0].Severity)

	// Retry con el write-back sano.
	files.updateErr = nil
	_, updated, err = svc.Assess(context.Background(), "nurse-1", "cf-1", SeveritySerious)
	require.NoError(t, err)
	assert.True(t, updated)
}

func TestAssessValidation(t *testing.T) {
	svc := newTestService(&fakeFiles{}, &fakeBookings{})

	_, _, err := svc.Assess(context.Background(), "nurse-1", "cf-1", SeverityPending)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = svc.Assess(context.Background(), "nurse-1", "cf-1", Severity("critical"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = svc.Assess(context.Background(), "", "cf-1", SeverityMild)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// gatedFiles retiene el primer ListForNurse hasta que se cierre release;
// las llamadas siguientes responden de inmediato con la lista fresca.
type gatedFiles struct {
	mu      sync.Mutex
	calls   int
	stale   []casefiles.CaseFile
	fresh   []casefiles.CaseFile
	entered chan struct{}
	release chan struct{}
}

func (g *gatedFiles) ListForNurse(ctx context.Context, nurseID string) ([]casefiles.CaseFile, error) {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	g.mu.Unlock()

	if first {
		close(g.entered)
		<-g.release
		return g.stale, nil
	}
	return g.fresh, nil
}

func (g *gatedFiles) UpdatePriority(ctx context.Context, id string, priority string) error {
	return nil
}

// Un refresh viejo que completa tarde no pisa la worklist más nueva: la
// generación stale se descarta y el caller recibe el snapshot vigente.
func TestRefreshStaleCompletionDiscarded(t *testing.T) {
	files := &gatedFiles{
		stale:   []casefiles.CaseFile{{ID: "cf-old", Title: "Snapshot viejo"}},
		fresh:   []casefiles.CaseFile{{ID: "cf-new", Title: "Snapshot nuevo"}},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := NewService(NewAggregator(files, &fakeBookings{}, zerolog.Nop()), files, &fakeBookings{}, zerolog.Nop())

	type result struct {
		got []Case
		err error
	}
	done := make(chan result, 1)
	go func() {
		got, err := svc.Refresh(context.Background(), "nurse-1")
		done <- result{got, err}
	}()

	// El primer refresh quedó en vuelo; el segundo arranca y completa antes.
	<-files.entered
	got, err := svc.Refresh(context.Background(), "nurse-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "cf-new", got[0].ID)

	close(files.release)
	first := <-done
	require.NoError(t, first.err)
	require.Len(t, first.got, 1)
	assert.Equal(t, "cf-new", first.got[0].ID)

	// La worklist aplicada sigue siendo la del refresh más nuevo.
	after, err := svc.Query(context.Background(), "nurse-1", ViewInput{})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "cf-new", after[0].ID)
}

// Las sesiones son por enfermera: un refresh de una no pisa a la otra.
func TestSessionsAreIsolatedPerNurse(t *testing.T) {
	files := &fakeFiles{items: []casefiles.CaseFile{{ID: "cf-1"}}}
	svc := newTestService(files, &fakeBookings{})

	_, err := svc.Refresh(context.Background(), "nurse-1")
	require.NoError(t, err)

	files.items = append(files.items, casefiles.CaseFile{ID: "cf-2"})
	got, err := svc.Query(context.Background(), "nurse-2", ViewInput{})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.Query(context.Background(), "nurse-1", ViewInput{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
