package seed

import (
	"context"
	"fmt"

	"bakery-orders/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// catalog is the authoritative product list. The table is derived from this
// slice, not from persisted user data.
var catalog = []domain.Product{
	{ID: domain.PickupProductID, Name: "Pickup pack (10 loaves, vacuum sealed)", PriceCents: 500},
	{ID: domain.DeliveryProductID, Name: "Friday delivery (2x10 loaves, vacuum sealed)", PriceCents: 1400},
}

// Reset wipes the products table and installs the fixed catalog, in one
// transaction. Called on every API boot so stale or hand-edited rows never
// survive a restart.
func Reset(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}

	for _, p := range catalog {
		if _, err := tx.Exec(ctx,
			`INSERT INTO products (id, name, price_cents) VALUES ($1, $2, $3)`,
			p.ID, p.Name, p.PriceCents,
		); err != nil {
			return fmt.Errorf("insert product %d: %w", p.ID, err)
		}
	}

	return tx.Commit(ctx)
}
