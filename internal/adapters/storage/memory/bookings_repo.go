package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-care-marketplace/internal/domain/bookings"
)

var (
	ErrNotFound = errors.New("not found")
)

type bookingsRepo struct {
	mu   sync.RWMutex
	byID map[string]bookings.Booking
}

func NewBookingsRepo() bookings.Repository {
	return &bookingsRepo{
		byID: make(map[string]bookings.Booking),
	}
}

func (r *bookingsRepo) Create(ctx context.Context, b bookings.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.ID == "" {
		return errors.New("booking id required")
	}
	if _, exists := r.byID[b.ID]; exists {
		return errors.New("booking already exists")
	}
	r.byID[b.ID] = b
	return nil
}

func (r *bookingsRepo) GetByID(ctx context.Context, id string) (bookings.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok {
		return bookings.Booking{}, ErrNotFound
	}
	return b, nil
}

func (r *bookingsRepo) List(ctx context.Context, filter bookings.ListFilter) ([]bookings.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bookings.Booking, 0)
	for _, b := range r.byID {
		if !matchesFilter(b, filter) {
			continue
		}
		out = append(out, b)
	}

	// Orden estable por fecha de creación para que el motor vea siempre la
	// misma secuencia dentro de la fuente.
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *bookingsRepo) UpdateStatus(ctx context.Context, id string, st bookings.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	b.Status = st
	r.byID[id] = b
	return nil
}

func (r *bookingsRepo) UpdateTriage(ctx context.Context, id string, priority string, st bookings.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	b.TriagePriority = priority
	b.Status = st
	r.byID[id] = b
	return nil
}

func matchesFilter(b bookings.Booking, f bookings.ListFilter) bool {
	if f.ProviderID != "" && b.ProviderID != f.ProviderID {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, st := range f.Statuses {
			if b.Status == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.TriageOnly && !bookings.IsTriageType(b.ConsultationType) {
		return false
	}
	if f.ExcludeTriage && bookings.IsTriageType(b.ConsultationType) {
		return false
	}
	return true
}
