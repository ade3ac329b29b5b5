package staff

import "context"

type Repository interface {
	Create(ctx context.Context, m Membership) error
	Update(ctx context.Context, m Membership) error
	GetByID(ctx context.Context, id string) (Membership, error)
	ListByProvider(ctx context.Context, providerID string) ([]Membership, error)
	ListByNurse(ctx context.Context, nurseUserID string) ([]Membership, error)
	GetActiveMembership(ctx context.Context, providerID, nurseUserID string) (Membership, error)
}
