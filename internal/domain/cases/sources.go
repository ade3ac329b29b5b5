package cases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pet-care-marketplace/internal/domain/bookings"
	"pet-care-marketplace/internal/domain/casefiles"
)

// CaseFileSource: lo que el motor necesita de la tabla nativa de casos.
// Lo implementa *casefiles.Service.
type CaseFileSource interface {
	ListForNurse(ctx context.Context, nurseID string) ([]casefiles.CaseFile, error)
	UpdatePriority(ctx context.Context, id string, priority string) error
}

// BookingSource: lo que el motor necesita de las reservas.
// Lo implementa *bookings.Service.
type BookingSource interface {
	ListActiveTriage(ctx context.Context) ([]bookings.Booking, error)
	ListActiveConsultations(ctx context.Context) ([]bookings.Booking, error)
	AssessTriage(ctx context.Context, id string, priority string) error
}

// caseFromFile proyecta un caso nativo. Priority vacía o desconocida
// sintetiza "pending": la worklist nunca lleva severidad nula.
func caseFromFile(cf casefiles.CaseFile) Case {
	sev, err := ParseSeverity(cf.Priority)
	if err != nil {
		sev = SeverityPending
	}

	number := cf.CaseNumber
	if number == "" {
		number = "CS-" + shortID(cf.ID)
	}

	return Case{
		ID:              cf.ID,
		CaseNumber:      number,
		Title:           cf.Title,
		Description:     cf.Description,
		Severity:        sev,
		Status:          string(cf.Status),
		Source:          SourceCases,
		PetName:         cf.PetName,
		CustomerName:    cf.CustomerName,
		CustomerEmail:   cf.CustomerEmail,
		ServiceType:     string(cf.CaseType),
		CreatedAt:       cf.CreatedAt,
		UpdatedAt:       cf.UpdatedAt,
		AssignedNurseID: cf.AssignedNurseID,
	}
}

// caseFromTriageBooking proyecta un booking de triage. Título sintetizado
// desde mascota + tipo de consulta; "pending" se muestra como
// "pending_assessment" para distinguirlo del pending genérico de reservas.
func caseFromTriageBooking(b bookings.Booking) Case {
	sev, err := ParseSeverity(b.TriagePriority)
	if err != nil {
		sev = SeverityPending
	}

	status := string(b.Status)
	if b.Status == bookings.StatusPending {
		status = "pending_assessment"
	}

	return Case{
		ID:            "booking_" + b.ID,
		CaseNumber:    "LT-" + shortID(b.ID),
		Title:         synthesizeTitle(b),
		Description:   b.Reason,
		Severity:      sev,
		Status:        status,
		Source:        SourceTriageBooking,
		PetName:       b.PetName,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		ServiceType:   string(b.ConsultationType),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
		BookingRef: &BookingRef{
			BookingID:       b.ID,
			AppointmentDate: b.AppointmentDate,
			AppointmentTime: b.AppointmentTime,
		},
	}
}

// caseFromConsultationBooking proyecta un booking genérico. Severidad fija
// "moderate": esta fuente no trae señal de triage, y "pending" está
// reservado semánticamente para "esperando evaluación".
func caseFromConsultationBooking(b bookings.Booking) Case {
	return Case{
		ID:            "consult_" + b.ID,
		CaseNumber:    "CN-" + shortID(b.ID),
		Title:         synthesizeTitle(b),
		Description:   b.Reason,
		Severity:      SeverityModerate,
		Status:        string(b.Status),
		Source:        SourceConsultationBooking,
		PetName:       b.PetName,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		ServiceType:   string(b.ConsultationType),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
		BookingRef: &BookingRef{
			BookingID:       b.ID,
			AppointmentDate: b.AppointmentDate,
			AppointmentTime: b.AppointmentTime,
		},
	}
}

func synthesizeTitle(b bookings.Booking) string {
	label := consultationLabel(b.ConsultationType)
	pet := strings.TrimSpace(b.PetName)
	if pet == "" {
		return label
	}
	return fmt.Sprintf("%s - %s", pet, label)
}

func consultationLabel(t bookings.ConsultationType) string {
	switch t {
	case bookings.ConsultationTriage:
		return "Triage consultation"
	case bookings.ConsultationSOAPReview:
		return "SOAP review"
	case bookings.ConsultationGeneral:
		return "General consultation"
	case bookings.ConsultationVaccination:
		return "Vaccination"
	case bookings.ConsultationGrooming:
		return "Grooming"
	case bookings.ConsultationFollowUp:
		return "Follow-up"
	default:
		return strings.ReplaceAll(string(t), "_", " ")
	}
}

// isTableMissing detecta el gap de setup reportado por el repo nativo.
func isTableMissing(err error) bool {
	return errors.Is(err, casefiles.ErrTableMissing)
}

func shortID(id string) string {
	short := strings.ReplaceAll(id, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return strings.ToUpper(short)
}
