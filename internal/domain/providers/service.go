package providers

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
	ErrForbidden    = errors.New("forbidden")
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
	ClinicName string
	Bio        string
	City       string
	Services   []string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Provider, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Provider{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.ClinicName) == "" {
		return Provider{}, ErrInvalidInput
	}

	now := s.now()
	p := Provider{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		ClinicName:  strings.TrimSpace(in.ClinicName),
		Bio:         strings.TrimSpace(in.Bio),
		City:        strings.TrimSpace(in.City),
		Services:    normalizeServices(in.Services),
		PlanTier:    TierBasic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Provider{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Provider, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Provider{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Provider, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, ownerUserID)
}

type UpdateProfileInput struct {
	// Punteros para PATCH real: nil = no tocar.
	ClinicName *string
	Bio        *string
	City       *string
	Services   *[]string
}

func (s *Service) UpdateProfile(ctx context.Context, id, actorUserID string, in UpdateProfileInput) (Provider, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Provider{}, ErrNotFound
	}
	if p.OwnerUserID != actorUserID {
		return Provider{}, ErrForbidden
	}

	if in.ClinicName != nil {
		name := strings.TrimSpace(*in.ClinicName)
		if name == "" {
			return Provider{}, ErrInvalidInput
		}
		p.ClinicName = name
	}
	if in.Bio != nil {
		p.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.City != nil {
		p.City = strings.TrimSpace(*in.City)
	}
	if in.Services != nil {
		p.Services = normalizeServices(*in.Services)
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Provider{}, err
	}
	return p, nil
}

func normalizeServices(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, svc := range in {
		svc = strings.ToLower(strings.TrimSpace(svc))
		if svc == "" {
			continue
		}
		if _, ok := seen[svc]; ok {
			continue
		}
		seen[svc] = struct{}{}
		out = append(out, svc)
	}
	return out
}
