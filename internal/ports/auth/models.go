package auth

// Role del actor dentro del marketplace.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleNurse    Role = "nurse"
	RoleProvider Role = "provider"
)

// Claims representa la información extraída del token.
type Claims struct {
	UserID   string
	Email    string
	Role     Role
	TenantID string
}
