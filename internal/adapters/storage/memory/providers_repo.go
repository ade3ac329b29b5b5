package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-care-marketplace/internal/domain/providers"
)

type providersRepo struct {
	mu   sync.RWMutex
	byID map[string]providers.Provider
}

func NewProvidersRepo() providers.Repository {
	return &providersRepo{
		byID: make(map[string]providers.Provider),
	}
}

func (r *providersRepo) Create(ctx context.Context, p providers.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		return errors.New("provider id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("provider already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *providersRepo) GetByID(ctx context.Context, id string) (providers.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return providers.Provider{}, ErrNotFound
	}
	return p, nil
}

func (r *providersRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]providers.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]providers.Provider, 0)
	for _, p := range r.byID {
		if p.OwnerUserID == ownerUserID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *providersRepo) Update(ctx context.Context, p providers.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		return errors.New("provider id required")
	}
	if _, exists := r.byID[p.ID]; !exists {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}
