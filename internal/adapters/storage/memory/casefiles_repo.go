package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-care-marketplace/internal/domain/casefiles"
)

type caseFilesRepo struct {
	mu   sync.RWMutex
	byID map[string]casefiles.CaseFile
}

func NewCaseFilesRepo() casefiles.Repository {
	return &caseFilesRepo{
		byID: make(map[string]casefiles.CaseFile),
	}
}

func (r *caseFilesRepo) Create(ctx context.Context, cf casefiles.CaseFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cf.ID == "" {
		return errors.New("case file id required")
	}
	if _, exists := r.byID[cf.ID]; exists {
		return errors.New("case file already exists")
	}
	r.byID[cf.ID] = cf
	return nil
}

func (r *caseFilesRepo) GetByID(ctx context.Context, id string) (casefiles.CaseFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cf, ok := r.byID[id]
	if !ok {
		return casefiles.CaseFile{}, ErrNotFound
	}
	return cf, nil
}

// ListForNurse: cola compartida. Asignados a la enfermera O sin asignar,
// excluyendo estados terminales.
func (r *caseFilesRepo) ListForNurse(ctx context.Context, nurseID string) ([]casefiles.CaseFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]casefiles.CaseFile, 0)
	for _, cf := range r.byID {
		if cf.Status == casefiles.StatusClosed {
			continue
		}
		if cf.AssignedNurseID != "" && cf.AssignedNurseID != nurseID {
			continue
		}
		out = append(out, cf)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *caseFilesRepo) UpdatePriority(ctx context.Context, id string, priority string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cf, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	cf.Priority = priority
	cf.Status = casefiles.StatusAssessed
	r.byID[id] = cf
	return nil
}

func (r *caseFilesRepo) Assign(ctx context.Context, id string, nurseID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cf, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	cf.AssignedNurseID = nurseID
	r.byID[id] = cf
	return nil
}
