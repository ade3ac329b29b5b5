package catalog

import "context"

type Repository interface {
	Create(ctx context.Context, p Package) error
	GetByID(ctx context.Context, id string) (Package, error)
	ListByProvider(ctx context.Context, providerID string) ([]Package, error)
	Deactivate(ctx context.Context, id string) error
}
