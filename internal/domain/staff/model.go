package staff

import "time"

// Scope de lo que una enfermera delegada puede hacer en el dashboard del
// provider.
type Scope string

const (
	ScopeCasesRead      Scope = "cases:read"
	ScopeCasesAssess    Scope = "cases:assess"
	ScopeBookingsManage Scope = "bookings:manage"
	ScopeCatalogEdit    Scope = "catalog:edit"
)

type Status string

const (
	StatusInvited Status = "invited"
	StatusActive  Status = "active"
	StatusRevoked Status = "revoked"
)

// Membership: invitación/pertenencia de una enfermera al staff de un
// provider, con scopes.
type Membership struct {
	ID string

	ProviderID string

	OwnerUserID string // quien invita (dueño del provider)
	NurseUserID string // enfermera invitada

	Scopes []Scope
	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}
