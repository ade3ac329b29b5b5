package casefiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
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
	Title         string
	Description   string
	CaseType      CaseType
	PetName       string
	CustomerName  string
	CustomerEmail string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (CaseFile, error) {
	if strings.TrimSpace(in.Title) == "" {
		return CaseFile{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.PetName) == "" {
		return CaseFile{}, ErrInvalidInput
	}

	caseType := in.CaseType
	if caseType == "" {
		caseType = CaseTypeConsultation
	}

	now := s.now()
	id := uuid.NewString()
	cf := CaseFile{
		ID:            id,
		CaseNumber:    caseNumberFromID(id),
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		Priority:      "", // sin evaluar
		Status:        StatusNew,
		CaseType:      caseType,
		PetName:       strings.TrimSpace(in.PetName),
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerEmail: strings.TrimSpace(in.CustomerEmail),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, cf); err != nil {
		return CaseFile{}, err
	}
	return cf, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (CaseFile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return CaseFile{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// ListForNurse es una de las tres fuentes del motor de casos.
func (s *Service) ListForNurse(ctx context.Context, nurseID string) ([]CaseFile, error) {
	nurseID = strings.TrimSpace(nurseID)
	if nurseID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListForNurse(ctx, nurseID)
}

// UpdatePriority es el write-back del motor para casos nativos.
func (s *Service) UpdatePriority(ctx context.Context, id string, priority string) error {
	id = strings.TrimSpace(id)
	priority = strings.TrimSpace(priority)
	if id == "" || priority == "" {
		return ErrInvalidInput
	}
	return s.repo.UpdatePriority(ctx, id, priority)
}

func (s *Service) Assign(ctx context.Context, id, nurseID string) (CaseFile, error) {
	id = strings.TrimSpace(id)
	nurseID = strings.TrimSpace(nurseID)
	if id == "" || nurseID == "" {
		return CaseFile{}, ErrInvalidInput
	}
	if err := s.repo.Assign(ctx, id, nurseID); err != nil {
		return CaseFile{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// caseNumberFromID deriva un código corto legible a partir del uuid.
// No es autoritativo, solo display.
func caseNumberFromID(id string) string {
	short := strings.ReplaceAll(id, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("CS-%s", strings.ToUpper(short))
}
