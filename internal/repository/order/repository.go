package order

import (
	"context"

	"bakery-orders/internal/domain"
)

// ListFilter narrows and bounds an order listing. Zero Status means no
// status filter; Limit <= 0 falls back to DefaultListLimit.
type ListFilter struct {
	Status domain.OrderStatus
	Limit  int
}

// DefaultListLimit bounds admin listings when no explicit limit is given.
const DefaultListLimit = 100

// Repository persists finalized orders. Create must be atomic: the header and
// all its items become visible together or not at all.
type Repository interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, f ListFilter) ([]domain.Order, error)
	SetStatus(ctx context.Context, id int64, status domain.OrderStatus) error
}
