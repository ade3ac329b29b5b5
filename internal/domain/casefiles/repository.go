package casefiles

import (
	"context"
	"errors"
)

// ErrTableMissing: la tabla de casos no existe en el store (gap de
// deployment/migración, no falla transitoria). El adapter postgres la mapea
// desde el código 42P01; el motor la convierte en "setup required".
var ErrTableMissing = errors.New("case table missing")

type Repository interface {
	Create(ctx context.Context, cf CaseFile) error
	GetByID(ctx context.Context, id string) (CaseFile, error)

	// ListForNurse: casos asignados a la enfermera O sin asignar (cola
	// compartida), excluyendo estados terminales.
	ListForNurse(ctx context.Context, nurseID string) ([]CaseFile, error)

	// UpdatePriority fija la prioridad y marca el caso como evaluado.
	UpdatePriority(ctx context.Context, id string, priority string) error
	Assign(ctx context.Context, id string, nurseID string) error
}
