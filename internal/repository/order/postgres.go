package order

import (
	"context"
	"errors"
	"io"
	"log"

	"bakery-orders/internal/domain"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const headerQuery = `
INSERT INTO orders (customer_name, customer_phone, customer_address, mode, total_cents, delivery_date, checkout_url, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at
`
	stored := *o
	if stored.Status == "" {
		stored.Status = domain.StatusPending
	}
	if err := tx.QueryRow(ctx, headerQuery,
		o.CustomerName,
		o.CustomerPhone,
		o.CustomerAddress,
		o.Mode,
		o.TotalCents,
		o.DeliveryDate,
		o.CheckoutURL,
		stored.Status,
	).Scan(&stored.ID, &stored.CreatedAt); err != nil {
		r.logger.Printf("order repo: insert header error=%v", err)
		return nil, err
	}

	const itemQuery = `
INSERT INTO order_items (order_id, product_id, quantity, unit_price_cents)
VALUES ($1, $2, $3, $4)
`
	for _, it := range o.Items {
		if _, err := tx.Exec(ctx, itemQuery, stored.ID, it.ProductID, it.Quantity, it.UnitPriceCents); err != nil {
			r.logger.Printf("order repo: insert item order_id=%d product_id=%d error=%v", stored.ID, it.ProductID, err)
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: created id=%d mode=%s total_cents=%d items=%d", stored.ID, stored.Mode, stored.TotalCents, len(stored.Items))
	return &stored, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	const q = `
SELECT id, customer_name, customer_phone, customer_address, mode, total_cents, delivery_date, checkout_url, status, created_at
FROM orders
WHERE id = $1
`
	var o domain.Order
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&o.ID,
		&o.CustomerName,
		&o.CustomerPhone,
		&o.CustomerAddress,
		&o.Mode,
		&o.TotalCents,
		&o.DeliveryDate,
		&o.CheckoutURL,
		&o.Status,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get id=%d error=%v", id, err)
		return nil, err
	}

	items, err := r.loadItems(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return &o, nil
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.Order, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	builder := psql.
		Select("id", "customer_name", "customer_phone", "customer_address", "mode", "total_cents", "delivery_date", "checkout_url", "status", "created_at").
		From("orders").
		OrderBy("id DESC").
		Limit(uint64(limit))
	if f.Status != "" {
		builder = builder.Where(sq.Eq{"status": f.Status})
	}
	q, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	var ids []int64
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID,
			&o.CustomerName,
			&o.CustomerPhone,
			&o.CustomerAddress,
			&o.Mode,
			&o.TotalCents,
			&o.DeliveryDate,
			&o.CheckoutURL,
			&o.Status,
			&o.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("order repo: list rows error=%v", err)
		return nil, err
	}

	if len(ids) > 0 {
		items, err := r.loadItems(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range result {
			result[i].Items = items[result[i].ID]
		}
	}
	return result, nil
}

func (r *postgresRepo) SetStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	const q = `
UPDATE orders
SET status = $1
WHERE id = $2
`
	cmd, err := r.pool.Exec(ctx, q, status, id)
	if err != nil {
		r.logger.Printf("order repo: set status id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("order repo: set status id=%d status=%s", id, status)
	return nil
}

// loadItems fetches items for a batch of orders in one query, keyed by order id.
func (r *postgresRepo) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	const q = `
SELECT order_id, product_id, quantity, unit_price_cents
FROM order_items
WHERE order_id = ANY($1)
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q, orderIDs)
	if err != nil {
		r.logger.Printf("order repo: load items error=%v", err)
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var orderID int64
		var it domain.OrderItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.Quantity, &it.UnitPriceCents); err != nil {
			return nil, err
		}
		result[orderID] = append(result[orderID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
