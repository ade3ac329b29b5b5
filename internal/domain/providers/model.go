package providers

import "time"

// PlanTier del provider dentro del marketplace.
// Las features concretas de cada tier las resuelve plans-features.
type PlanTier string

const (
	TierBasic   PlanTier = "basic"
	TierPro     PlanTier = "pro"
	TierPremium PlanTier = "premium"
)

// Provider representa el perfil de una clínica/profesional en el marketplace.
type Provider struct {
	ID          string
	OwnerUserID string

	ClinicName string
	Bio        string
	City       string

	// Services: tags de servicios ofrecidos (consulta, triage, grooming...).
	Services []string

	PlanTier PlanTier

	CreatedAt time.Time
	UpdatedAt time.Time
}
