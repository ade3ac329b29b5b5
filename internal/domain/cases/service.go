package cases

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotAssessable: casos de consulta genérica. Su severidad es una
	// constante derivada, no hay camino de persistencia.
	ErrNotAssessable = errors.New("case not assessable")

	// ErrAlreadyAssessed: el quick assessment solo aplica mientras la
	// severidad sea "pending". Cambios posteriores van por el flujo de
	// revisión completo, fuera de este motor.
	ErrAlreadyAssessed = errors.New("case already assessed")
)

// Service sostiene la worklist en memoria por enfermera (una sesión de
// browsing) y rutea las mutaciones de severidad a la fuente correcta.
type Service struct {
	agg      *Aggregator
	files    CaseFileSource
	bookings BookingSource
	log      zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

// session: worklist aplicada + contador de generación. El contador protege
// contra un fetch viejo pisando el resultado de uno más nuevo (p.ej. un
// refresh disparado mientras otro seguía en vuelo).
type session struct {
	nextGen    uint64
	appliedGen uint64
	loaded     bool
	worklist   []Case
}

func NewService(agg *Aggregator, files CaseFileSource, bookings BookingSource, log zerolog.Logger) *Service {
	return &Service{
		agg:      agg,
		files:    files,
		bookings: bookings,
		log:      log.With().Str("component", "case_service").Logger(),
		sessions: make(map[string]*session),
	}
}

// Refresh re-corre los tres adapters y reemplaza la worklist de la
// enfermera. Completions stale (generación vieja) se descartan.
func (s *Service) Refresh(ctx context.Context, nurseID string) ([]Case, error) {
	if nurseID == "" {
		return nil, ErrInvalidInput
	}

	s.mu.Lock()
	sess := s.session(nurseID)
	sess.nextGen++
	gen := sess.nextGen
	s.mu.Unlock()

	worklist, err := s.agg.Aggregate(ctx, nurseID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen > sess.appliedGen {
		sess.appliedGen = gen
		sess.loaded = true
		sess.worklist = worklist
	}
	return copyCases(sess.worklist), nil
}

// Query aplica el view engine sobre el snapshot actual. Solo fetchea si la
// sesión nunca cargó; cambios de filtro/búsqueda/orden no re-fetchean.
func (s *Service) Query(ctx context.Context, nurseID string, in ViewInput) ([]Case, error) {
	if nurseID == "" {
		return nil, ErrInvalidInput
	}

	s.mu.Lock()
	sess := s.session(nurseID)
	loaded := sess.loaded
	snapshot := copyCases(sess.worklist)
	s.mu.Unlock()

	if !loaded {
		var err error
		snapshot, err = s.Refresh(ctx, nurseID)
		if err != nil {
			return nil, err
		}
	}

	in.ActorID = nurseID
	return View(snapshot, in), nil
}

// Assess: quick assessment de un caso "pending" a una de las cuatro
// severidades evaluadas. Devuelve (caso, aplicado, error); un id stale es
// no-op silencioso (la worklist pudo refrescarse desde el último render), y
// una falla de escritura se loguea y deja el estado en memoria intacto.
func (s *Service) Assess(ctx context.Context, nurseID, caseID string, sev Severity) (Case, bool, error) {
	if nurseID == "" || caseID == "" {
		return Case{}, false, ErrInvalidInput
	}
	if !sev.Valid() || sev == SeverityPending {
		return Case{}, false, ErrInvalidInput
	}

	s.mu.Lock()
	sess := s.session(nurseID)
	idx := indexByID(sess.worklist, caseID)
	if idx < 0 {
		s.mu.Unlock()
		return Case{}, false, nil
	}
	target := sess.worklist[idx]
	s.mu.Unlock()

	if target.Severity != SeverityPending {
		return Case{}, false, ErrAlreadyAssessed
	}

	// Write-back ruteado por source, fuera del lock.
	var writeErr error
	switch target.Source {
	case SourceCases:
		writeErr = s.files.UpdatePriority(ctx, target.ID, string(sev))
	case SourceTriageBooking:
		if target.BookingRef == nil {
			return Case{}, false, ErrInvalidInput
		}
		writeErr = s.bookings.AssessTriage(ctx, target.BookingRef.BookingID, string(sev))
	case SourceConsultationBooking:
		return Case{}, false, ErrNotAssessable
	default:
		return Case{}, false, ErrInvalidInput
	}

	if writeErr != nil {
		s.log.Error().Err(writeErr).
			Str("case_id", caseID).
			Str("source", string(target.Source)).
			Msg("severity write-back failed")
		return Case{}, false, nil
	}

	// Update optimista local recién después del write exitoso; el próximo
	// refresh reconcilia contra la fuente de verdad.
	s.mu.Lock()
	defer s.mu.Unlock()

	idx = indexByID(sess.worklist, caseID)
	if idx < 0 {
		// La worklist cambió mientras escribíamos; el write ya quedó
		// persistido, el próximo refresh lo refleja.
		return Case{}, false, nil
	}

	// Las dos fuentes escribibles marcan el registro como evaluado en el
	// store; lo reflejamos acá para no divergir hasta el próximo refresh.
	sess.worklist[idx].Severity = sev
	sess.worklist[idx].Status = "assessed"
	return sess.worklist[idx], true, nil
}

// session asume s.mu tomado.
func (s *Service) session(nurseID string) *session {
	sess, ok := s.sessions[nurseID]
	if !ok {
		sess = &session{}
		s.sessions[nurseID] = sess
	}
	return sess
}

func indexByID(list []Case, id string) int {
	for i, c := range list {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func copyCases(list []Case) []Case {
	out := make([]Case, len(list))
	copy(out, list)
	return out
}
