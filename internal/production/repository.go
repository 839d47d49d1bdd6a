package production

import "context"

// Repository persists production records.
type Repository interface {
	Create(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
	// List returns records of product (case-insensitive), or all when empty.
	List(ctx context.Context, product string) ([]Record, error)
	Delete(ctx context.Context, id string) error
}
