package catalog

import "context"

type Repository interface {
	Create(ctx context.Context, req CreateServiceRequest) (*Service, error)
	GetAll(ctx context.Context, activeOnly bool) ([]Service, error)
	GetByID(ctx context.Context, id int) (*Service, error)
	GetBySlug(ctx context.Context, slug string) (*Service, error)
	Update(ctx context.Context, id int, req UpdateServiceRequest) (*Service, error)
	// Deactivate soft-deletes: historical reservations keep their reference.
	Deactivate(ctx context.Context, id int) error
}
