package bookings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrBadState     = errors.New("invalid state")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	ProviderID       string
	PetName          string
	CustomerName     string
	CustomerEmail    string
	ConsultationType ConsultationType
	Reason           string
	AppointmentDate  string
	AppointmentTime  string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Booking, error) {
	if strings.TrimSpace(in.PetName) == "" {
		return Booking{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return Booking{}, ErrInvalidInput
	}
	if in.ConsultationType == "" {
		return Booking{}, ErrInvalidInput
	}
	if d := strings.TrimSpace(in.AppointmentDate); d != "" {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return Booking{}, ErrInvalidInput
		}
	}

	now := s.now()
	b := Booking{
		ID:               uuid.NewString(),
		ProviderID:       strings.TrimSpace(in.ProviderID),
		PetName:          strings.TrimSpace(in.PetName),
		CustomerName:     strings.TrimSpace(in.CustomerName),
		CustomerEmail:    strings.TrimSpace(in.CustomerEmail),
		ConsultationType: in.ConsultationType,
		Reason:           strings.TrimSpace(in.Reason),
		Status:           StatusPending,
		AppointmentDate:  strings.TrimSpace(in.AppointmentDate),
		AppointmentTime:  strings.TrimSpace(in.AppointmentTime),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return Booking{}, err
	}
	return b, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Booking, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Booking{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Booking, error) {
	return s.repo.List(ctx, filter)
}

// ListActiveTriage: bookings de tipo triage con estado activo.
// Es una de las tres fuentes del motor de casos.
func (s *Service) ListActiveTriage(ctx context.Context) ([]Booking, error) {
	return s.repo.List(ctx, ListFilter{
		Statuses:   ActiveStatuses,
		TriageOnly: true,
	})
}

// ListActiveConsultations: el resto de los bookings activos (no-triage).
func (s *Service) ListActiveConsultations(ctx context.Context) ([]Booking, error) {
	return s.repo.List(ctx, ListFilter{
		Statuses:      ActiveStatuses,
		ExcludeTriage: true,
	})
}

func (s *Service) UpdateStatus(ctx context.Context, id string, st Status) (Booking, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Booking{}, ErrInvalidInput
	}
	switch st {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		// ok
	default:
		// "assessed" solo se setea vía AssessTriage.
		return Booking{}, ErrInvalidInput
	}

	if err := s.repo.UpdateStatus(ctx, id, st); err != nil {
		return Booking{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// AssessTriage escribe la prioridad de triage y transiciona el booking a
// "assessed". Transición one-way: no existe "des-evaluar" por este camino.
func (s *Service) AssessTriage(ctx context.Context, id string, priority string) error {
	id = strings.TrimSpace(id)
	priority = strings.TrimSpace(priority)
	if id == "" || priority == "" {
		return ErrInvalidInput
	}
	return s.repo.UpdateTriage(ctx, id, priority, StatusAssessed)
}
