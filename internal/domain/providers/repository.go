package providers

import "context"

type Repository interface {
	Create(ctx context.Context, p Provider) error
	GetByID(ctx context.Context, id string) (Provider, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Provider, error)
	Update(ctx context.Context, p Provider) error
}
