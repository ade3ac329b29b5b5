package bookings

import "time"

// Status define el ciclo de vida de una reserva.
// "assessed" solo aplica a bookings de triage, la setea el motor de casos.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusAssessed   Status = "assessed"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// ConsultationType define los tipos de consulta reservables.
type ConsultationType string

const (
	ConsultationTriage      ConsultationType = "triage_consultation"
	ConsultationSOAPReview  ConsultationType = "soap_review"
	ConsultationGeneral     ConsultationType = "general_consultation"
	ConsultationVaccination ConsultationType = "vaccination"
	ConsultationGrooming    ConsultationType = "grooming"
	ConsultationFollowUp    ConsultationType = "follow_up"
)

// TriageConsultationTypes: los tipos que entran al flujo de triage
// (elegibles para asignación de severidad por una enfermera).
var TriageConsultationTypes = []ConsultationType{
	ConsultationTriage,
	ConsultationSOAPReview,
}

func IsTriageType(t ConsultationType) bool {
	for _, tt := range TriageConsultationTypes {
		if t == tt {
			return true
		}
	}
	return false
}

// ActiveStatuses: estados que cuentan como "reserva viva" para la worklist.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed, StatusInProgress}

// Booking representa una reserva de consulta en el marketplace.
type Booking struct {
	ID         string
	ProviderID string

	PetName       string
	CustomerName  string
	CustomerEmail string

	ConsultationType ConsultationType
	Reason           string
	Status           Status

	// TriagePriority: asignada por el motor de casos. Vacía = sin evaluar.
	TriagePriority string

	AppointmentDate string // YYYY-MM-DD
	AppointmentTime string // HH:MM

	CreatedAt time.Time
	UpdatedAt time.Time
}
