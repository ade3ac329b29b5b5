package bookings

import "context"

type Repository interface {
	Create(ctx context.Context, b Booking) error
	GetByID(ctx context.Context, id string) (Booking, error)
	List(ctx context.Context, filter ListFilter) ([]Booking, error)
	UpdateStatus(ctx context.Context, id string, st Status) error

	// UpdateTriage escribe triage_priority y status en una sola operación
	// (write-back del motor de casos).
	UpdateTriage(ctx context.Context, id string, priority string, st Status) error
}

type ListFilter struct {
	ProviderID string
	Statuses   []Status

	// TriageOnly / ExcludeTriage parten el universo de bookings en las dos
	// familias que consume el motor de casos. Mutuamente excluyentes.
	TriageOnly    bool
	ExcludeTriage bool

	Limit int
}
