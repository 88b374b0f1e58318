package product

import (
	"context"

	"bakery-orders/internal/domain"
)

// Repository reads the fixed product catalog. The only writer is the startup
// seeding routine; everything here is read-only.
type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	// Lookup resolves the given product ids. Ids not present in the catalog
	// are simply absent from the result; detecting them is the caller's job.
	Lookup(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
}
