package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-care-marketplace/internal/domain/staff"
)

type staffRepo struct {
	mu   sync.RWMutex
	byID map[string]staff.Membership
}

func NewStaffRepo() staff.Repository {
	return &staffRepo{
		byID: make(map[string]staff.Membership),
	}
}

func (r *staffRepo) Create(ctx context.Context, m staff.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ID == "" {
		return errors.New("membership id required")
	}
	if _, exists := r.byID[m.ID]; exists {
		return errors.New("membership already exists")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *staffRepo) Update(ctx context.Context, m staff.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ID == "" {
		return errors.New("membership id required")
	}
	if _, exists := r.byID[m.ID]; !exists {
		return ErrNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *staffRepo) GetByID(ctx context.Context, id string) (staff.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return staff.Membership{}, ErrNotFound
	}
	return m, nil
}

func (r *staffRepo) ListByProvider(ctx context.Context, providerID string) ([]staff.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]staff.Membership, 0)
	for _, m := range r.byID {
		if m.ProviderID == providerID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *staffRepo) ListByNurse(ctx context.Context, nurseUserID string) ([]staff.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]staff.Membership, 0)
	for _, m := range r.byID {
		if m.NurseUserID == nurseUserID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Defensivo: si por data sucia existieran múltiples memberships activas,
// devolvemos la más reciente por UpdatedAt.
func (r *staffRepo) GetActiveMembership(ctx context.Context, providerID, nurseUserID string) (staff.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var winner staff.Membership
	has := false

	for _, m := range r.byID {
		if m.ProviderID != providerID || m.NurseUserID != nurseUserID {
			continue
		}
		if m.Status != staff.StatusActive {
			continue
		}
		if !has || m.UpdatedAt.After(winner.UpdatedAt) {
			winner = m
			has = true
		}
	}

	if !has {
		return staff.Membership{}, ErrNotFound
	}
	return winner, nil
}
