package casefiles

import "time"

// Status define el ciclo de vida de un caso nativo.
type Status string

const (
	StatusNew        Status = "new"
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusAssessed   Status = "assessed"
	StatusClosed     Status = "closed"
)

// CaseType clasifica el servicio asociado al caso.
type CaseType string

const (
	CaseTypeConsultation CaseType = "consultation"
	CaseTypeEmergency    CaseType = "emergency"
	CaseTypeFollowUp     CaseType = "follow_up"
	CaseTypeWellness     CaseType = "wellness"
)

// CaseFile es el registro nativo de la tabla de casos.
// Priority vacía = caso sin evaluar (el motor lo proyecta como "pending").
type CaseFile struct {
	ID         string
	CaseNumber string

	Title       string
	Description string

	Priority string
	Status   Status
	CaseType CaseType

	PetName       string
	CustomerName  string
	CustomerEmail string

	// AssignedNurseID vacío = cola compartida (cualquier enfermera lo ve).
	AssignedNurseID string

	CreatedAt time.Time
	UpdatedAt time.Time
}
