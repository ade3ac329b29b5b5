package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-care-marketplace/internal/ports/capabilities"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")

	// ErrPlanLimit: el plan del provider no permite más paquetes activos.
	ErrPlanLimit = errors.New("plan limit reached")
)

// FreePackageLimit: paquetes activos incluidos sin feature de plan.
const FreePackageLimit = 3

const featureUnlimitedPackages = "catalog:unlimited_packages"

type Service struct {
	repo Repository
	caps capabilities.Resolver
	now  func() time.Time
}

// NewService: caps puede ser nil (sin gating de plan, modo dev).
func NewService(repo Repository, caps capabilities.Resolver) *Service {
	return &Service{
		repo: repo,
		caps: caps,
		now:  time.Now,
	}
}

type CreateInput struct {
	ProviderID  string
	Name        string
	Description string
	ServiceType string
	Tiers       []PriceTier
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Package, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Package{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.ProviderID) == "" || strings.TrimSpace(in.Name) == "" {
		return Package{}, ErrInvalidInput
	}

	tiers, err := normalizeTiers(in.Tiers)
	if err != nil {
		return Package{}, err
	}

	if err := s.checkPlanLimit(ctx, ownerUserID, in.ProviderID); err != nil {
		return Package{}, err
	}

	now := s.now()
	p := Package{
		ID:          uuid.NewString(),
		ProviderID:  strings.TrimSpace(in.ProviderID),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		ServiceType: strings.TrimSpace(in.ServiceType),
		Tiers:       tiers,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Package{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Package, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Package{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByProvider(ctx context.Context, providerID string) ([]Package, error) {
	providerID = strings.TrimSpace(providerID)
	if providerID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByProvider(ctx, providerID)
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Deactivate(ctx, id)
}

// checkPlanLimit: más de FreePackageLimit paquetes activos requiere la
// feature catalog:unlimited_packages del plan del owner.
func (s *Service) checkPlanLimit(ctx context.Context, ownerUserID, providerID string) error {
	existing, err := s.repo.ListByProvider(ctx, providerID)
	if err != nil {
		return err
	}

	active := 0
	for _, p := range existing {
		if p.Active {
			active++
		}
	}
	if active < FreePackageLimit {
		return nil
	}

	if s.caps == nil {
		return ErrPlanLimit
	}
	ok, err := s.caps.Has(ctx, capabilities.Check{UserID: ownerUserID, Feature: featureUnlimitedPackages})
	if err != nil || !ok {
		return ErrPlanLimit
	}
	return nil
}

func normalizeTiers(in []PriceTier) ([]PriceTier, error) {
	if len(in) == 0 {
		return nil, ErrInvalidInput
	}

	out := make([]PriceTier, 0, len(in))
	for _, t := range in {
		t.Name = strings.TrimSpace(t.Name)
		t.Currency = strings.ToUpper(strings.TrimSpace(t.Currency))
		t.Description = strings.TrimSpace(t.Description)

		if t.Name == "" || t.PriceCents < 0 {
			return nil, ErrInvalidInput
		}
		if t.Currency == "" {
			t.Currency = "USD"
		}
		out = append(out, t)
	}
	return out, nil
}
