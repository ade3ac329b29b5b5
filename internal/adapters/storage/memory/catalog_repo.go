package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-care-marketplace/internal/domain/catalog"
)

type catalogRepo struct {
	mu   sync.RWMutex
	byID map[string]catalog.Package
}

func NewCatalogRepo() catalog.Repository {
	return &catalogRepo{
		byID: make(map[string]catalog.Package),
	}
}

func (r *catalogRepo) Create(ctx context.Context, p catalog.Package) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		return errors.New("package id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("package already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *catalogRepo) GetByID(ctx context.Context, id string) (catalog.Package, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return catalog.Package{}, ErrNotFound
	}
	return p, nil
}

func (r *catalogRepo) ListByProvider(ctx context.Context, providerID string) ([]catalog.Package, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Package, 0)
	for _, p := range r.byID {
		if p.ProviderID == providerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *catalogRepo) Deactivate(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	p.Active = false
	r.byID[id] = p
	return nil
}
