package staff

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrBadState     = errors.New("invalid state")
)

var validScopes = map[Scope]struct{}{
	ScopeCasesRead:      {},
	ScopeCasesAssess:    {},
	ScopeBookingsManage: {},
	ScopeCatalogEdit:    {},
}

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

type InviteInput struct {
	ProviderID  string
	OwnerUserID string
	NurseUserID string
	Scopes      []Scope
}

// Invite crea (o actualiza) la invitación de una enfermera al staff.
// Si ya existe una membership no-revocada para (provider, nurse), se
// actualizan sus scopes en vez de duplicarla.
func (s *Service) Invite(ctx context.Context, in InviteInput) (Membership, error) {
	providerID := strings.TrimSpace(in.ProviderID)
	ownerID := strings.TrimSpace(in.OwnerUserID)
	nurseID := strings.TrimSpace(in.NurseUserID)

	if providerID == "" || ownerID == "" || nurseID == "" {
		return Membership{}, ErrInvalidInput
	}
	if ownerID == nurseID {
		return Membership{}, ErrInvalidInput
	}

	// Scopes: vacío => default útil para una enfermera de triage.
	// Con valores => validación estricta.
	var scopes []Scope
	if len(in.Scopes) == 0 {
		scopes = []Scope{ScopeCasesRead, ScopeCasesAssess}
	} else {
		var err error
		scopes, err = normalizeScopesStrict(in.Scopes)
		if err != nil {
			return Membership{}, err
		}
		if len(scopes) == 0 {
			return Membership{}, ErrInvalidInput
		}
	}

	now := s.now()

	existing, err := s.latestNonRevoked(ctx, providerID, nurseID)
	if err == nil && existing.ID != "" {
		existing.Scopes = scopes
		existing.UpdatedAt = now
		if err := s.repo.Update(ctx, existing); err != nil {
			return Membership{}, err
		}
		return existing, nil
	}

	m := Membership{
		ID:          uuid.NewString(),
		ProviderID:  providerID,
		OwnerUserID: ownerID,
		NurseUserID: nurseID,
		Scopes:      scopes,
		Status:      StatusInvited,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Membership{}, err
	}
	return m, nil
}

func (s *Service) Accept(ctx context.Context, membershipID, nurseUserID string) (Membership, error) {
	membershipID = strings.TrimSpace(membershipID)
	nurseUserID = strings.TrimSpace(nurseUserID)
	if membershipID == "" || nurseUserID == "" {
		return Membership{}, ErrInvalidInput
	}

	m, err := s.repo.GetByID(ctx, membershipID)
	if err != nil {
		return Membership{}, ErrNotFound
	}

	if m.NurseUserID != nurseUserID {
		return Membership{}, ErrForbidden
	}
	if m.Status == StatusRevoked {
		return Membership{}, ErrBadState
	}

	// Idempotente
	if m.Status == StatusActive {
		return m, nil
	}

	m.Status = StatusActive
	m.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, m); err != nil {
		return Membership{}, err
	}
	return m, nil
}

func (s *Service) Revoke(ctx context.Context, membershipID, ownerUserID string) (Membership, error) {
	membershipID = strings.TrimSpace(membershipID)
	ownerUserID = strings.TrimSpace(ownerUserID)
	if membershipID == "" || ownerUserID == "" {
		return Membership{}, ErrInvalidInput
	}

	m, err := s.repo.GetByID(ctx, membershipID)
	if err != nil {
		return Membership{}, ErrNotFound
	}

	if m.OwnerUserID != ownerUserID {
		return Membership{}, ErrForbidden
	}

	// Idempotente
	if m.Status == StatusRevoked {
		return m, nil
	}

	now := s.now()
	m.Status = StatusRevoked
	m.UpdatedAt = now
	m.RevokedAt = &now

	if err := s.repo.Update(ctx, m); err != nil {
		return Membership{}, err
	}
	return m, nil
}

func (s *Service) ListByProvider(ctx context.Context, providerID string) ([]Membership, error) {
	providerID = strings.TrimSpace(providerID)
	if providerID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByProvider(ctx, providerID)
}

func (s *Service) ListByNurse(ctx context.Context, nurseUserID string) ([]Membership, error) {
	nurseUserID = strings.TrimSpace(nurseUserID)
	if nurseUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByNurse(ctx, nurseUserID)
}

func (s *Service) GetActiveMembership(ctx context.Context, providerID, nurseUserID string) (Membership, error) {
	providerID = strings.TrimSpace(providerID)
	nurseUserID = strings.TrimSpace(nurseUserID)
	if providerID == "" || nurseUserID == "" {
		return Membership{}, ErrInvalidInput
	}
	m, err := s.repo.GetActiveMembership(ctx, providerID, nurseUserID)
	if err != nil {
		return Membership{}, ErrNotFound
	}
	return m, nil
}

// HasScope valida si la membership incluye un scope.
func HasScope(m Membership, scope Scope) bool {
	for _, s := range m.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// latestNonRevoked: la membership no-revocada más reciente para
// (provider, nurse), si existe.
func (s *Service) latestNonRevoked(ctx context.Context, providerID, nurseID string) (Membership, error) {
	items, err := s.repo.ListByProvider(ctx, providerID)
	if err != nil {
		return Membership{}, err
	}

	var winner Membership
	for _, m := range items {
		if m.NurseUserID != nurseID || m.Status == StatusRevoked {
			continue
		}
		if winner.ID == "" || m.UpdatedAt.After(winner.UpdatedAt) {
			winner = m
		}
	}
	return winner, nil
}

func normalizeScopesStrict(in []Scope) ([]Scope, error) {
	out := make([]Scope, 0, len(in))
	seen := map[Scope]struct{}{}
	for _, sc := range in {
		sc = Scope(strings.TrimSpace(string(sc)))
		if sc == "" {
			continue
		}
		if _, ok := validScopes[sc]; !ok {
			return nil, ErrInvalidInput
		}
		if _, ok := seen[sc]; ok {
			continue
		}
		seen[sc] = struct{}{}
		out = append(out, sc)
	}
	return out, nil
}
