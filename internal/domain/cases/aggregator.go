package cases

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrSourcesUnavailable: las tres fuentes fallaron (o hay una falla de
	// conectividad general). Distinto de "cero casos relevantes".
	ErrSourcesUnavailable = errors.New("case sources unavailable")

	// ErrSetupRequired: la tabla nativa de casos no existe. Gap de
	// deployment, retry no lo arregla.
	ErrSetupRequired = errors.New("case store setup required")
)

// Aggregator corre los tres source adapters en paralelo y produce la
// worklist merged + ordenada por severidad. Best-effort: una fuente caída
// contribuye lista vacía, no aborta el merge.
type Aggregator struct {
	files    CaseFileSource
	bookings BookingSource
	log      zerolog.Logger
}

func NewAggregator(files CaseFileSource, bookings BookingSource, log zerolog.Logger) *Aggregator {
	return &Aggregator{
		files:    files,
		bookings: bookings,
		log:      log.With().Str("component", "case_aggregator").Logger(),
	}
}

// Aggregate hace el fan-out, espera a las tres fuentes y reduce.
// Nunca retorna lista nil + error nil; el error solo aparece en los dos
// estados globales (setup required / todas las fuentes caídas).
func (a *Aggregator) Aggregate(ctx context.Context, nurseID string) ([]Case, error) {
	var (
		fileCases    []Case
		triageCases  []Case
		consultCases []Case

		fileErr    error
		triageErr  error
		consultErr error
	)

	// Join-all: cada task captura su (contribución, error) y retorna nil
	// para que una fuente caída no cancele a las demás.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fileCases, fileErr = a.fetchCaseFiles(gctx, nurseID)
		return nil
	})
	g.Go(func() error {
		triageCases, triageErr = a.fetchTriageBookings(gctx)
		return nil
	})
	g.Go(func() error {
		consultCases, consultErr = a.fetchConsultationBookings(gctx)
		return nil
	})

	_ = g.Wait()

	if fileErr != nil && errors.Is(fileErr, ErrSetupRequired) {
		return nil, fileErr
	}

	failures := 0
	for src, err := range map[Source]error{
		SourceCases:               fileErr,
		SourceTriageBooking:       triageErr,
		SourceConsultationBooking: consultErr,
	} {
		if err == nil {
			continue
		}
		failures++
		a.log.Warn().Err(err).Str("source", string(src)).Msg("case source fetch failed")
	}

	if failures == 3 {
		return nil, fmt.Errorf("%w: all sources failed", ErrSourcesUnavailable)
	}

	// Orden de concatenación fijo: casos nativos, triage, consultas.
	// Eso hace determinísticos los empates dentro de una corrida.
	merged := make([]Case, 0, len(fileCases)+len(triageCases)+len(consultCases))
	merged = append(merged, fileCases...)
	merged = append(merged, triageCases...)
	merged = append(merged, consultCases...)

	Sort(merged, SortBySeverity)
	return merged, nil
}

func (a *Aggregator) fetchCaseFiles(ctx context.Context, nurseID string) ([]Case, error) {
	items, err := a.files.ListForNurse(ctx, nurseID)
	if err != nil {
		if isTableMissing(err) {
			return nil, fmt.Errorf("%w: %v", ErrSetupRequired, err)
		}
		return nil, err
	}

	out := make([]Case, 0, len(items))
	for _, cf := range items {
		out = append(out, caseFromFile(cf))
	}
	return out, nil
}

func (a *Aggregator) fetchTriageBookings(ctx context.Context) ([]Case, error) {
	items, err := a.bookings.ListActiveTriage(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Case, 0, len(items))
	for _, b := range items {
		out = append(out, caseFromTriageBooking(b))
	}
	return out, nil
}

func (a *Aggregator) fetchConsultationBookings(ctx context.Context) ([]Case, error) {
	items, err := a.bookings.ListActiveConsultations(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Case, 0, len(items))
	for _, b := range items {
		out = append(out, caseFromConsultationBooking(b))
	}
	return out, nil
}
