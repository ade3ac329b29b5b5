package cases

import (
	"errors"
	"time"
)

// Severity: bucket clínico de urgencia. Orden total por Rank().
type Severity string

const (
	SeverityEmergency Severity = "emergency"
	SeveritySerious   Severity = "serious"
	SeverityModerate  Severity = "moderate"
	SeverityMild      Severity = "mild"
	SeverityPending   Severity = "pending"
)

var ErrUnknownSeverity = errors.New("unknown severity")

// Rank devuelve la prioridad numérica para ordenar (mayor = más urgente).
func (s Severity) Rank() int {
	switch s {
	case SeverityEmergency:
		return 4
	case SeveritySerious:
		return 3
	case SeverityModerate:
		return 2
	case SeverityMild:
		return 1
	case SeverityPending:
		return 0
	default:
		return 0
	}
}

func (s Severity) Valid() bool {
	switch s {
	case SeverityEmergency, SeveritySerious, SeverityModerate, SeverityMild, SeverityPending:
		return true
	default:
		return false
	}
}

// Label: texto display del bucket.
func (s Severity) Label() string {
	switch s {
	case SeverityEmergency:
		return "immediate attention required"
	case SeveritySerious:
		return "urgent care needed"
	case SeverityModerate:
		return "assessment recommended"
	case SeverityMild:
		return "monitor / routine"
	default:
		return "not yet assessed"
	}
}

func ParseSeverity(s string) (Severity, error) {
	sv := Severity(s)
	if !sv.Valid() {
		return "", ErrUnknownSeverity
	}
	return sv, nil
}

// Source identifica de qué adapter salió un Case. Inmutable: decide el
// camino de write-back de la severidad.
type Source string

const (
	SourceCases               Source = "cases"
	SourceTriageBooking       Source = "triage_booking"
	SourceConsultationBooking Source = "consultation_booking"
)

// BookingRef: payload opaco que viaja solo en casos derivados de bookings,
// necesario para el write-back contra el registro nativo.
type BookingRef struct {
	BookingID       string
	AppointmentDate string
	AppointmentTime string
}

// Case es la entidad unificada que produce el motor: proyección de uno de
// los tres registros nativos, nunca creada directamente por este módulo.
type Case struct {
	ID         string
	CaseNumber string

	Title       string
	Description string

	Severity Severity
	Status   string
	Source   Source

	PetName       string
	CustomerName  string
	CustomerEmail string
	ServiceType   string

	CreatedAt time.Time
	UpdatedAt time.Time

	// AssignedNurseID: solo casos nativos. Vacío = cola compartida.
	AssignedNurseID string

	// BookingRef: solo casos derivados de bookings.
	BookingRef *BookingRef
}
