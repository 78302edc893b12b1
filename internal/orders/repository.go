package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/entityhub/pkg/pg"
)

// Querier is the part of pgx shared by pools, connections and transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists orders. Every method runs on the given Querier so callers
// decide the transaction boundary.
type Store interface {
	Insert(ctx context.Context, q Querier, o Order) error
	Get(ctx context.Context, q Querier, id uuid.UUID, forUpdate bool) (Order, error)
	Update(ctx context.Context, q Querier, o Order) error
	Delete(ctx context.Context, q Querier, id uuid.UUID) error
}

// Repository is the Postgres Store.
type Repository struct{}

// NewRepository creates a Postgres order store.
func NewRepository() *Repository {
	return &Repository{}
}

const (
	insertOrder = `INSERT INTO orders (id, customer, status, total_cents, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	selectOrder = `SELECT id, customer, status, total_cents, created_at, updated_at
FROM orders WHERE id = $1`
	updateOrder = `UPDATE orders SET customer = $2, status = $3, total_cents = $4, updated_at = $5
WHERE id = $1`
	deleteOrder = `DELETE FROM orders WHERE id = $1`
)

func (Repository) Insert(ctx context.Context, q Querier, o Order) error {
	_, err := q.Exec(ctx, insertOrder, o.ID, o.Customer, string(o.Status), o.TotalCents, o.CreatedAt, o.UpdatedAt)
	switch {
	case err == nil:
		return nil
	case pg.IsDuplicateKeyError(err):
		return errors.Join(ErrConflict, err)
	default:
		return errors.Join(ErrStorage, err)
	}
}

func (Repository) Get(ctx context.Context, q Querier, id uuid.UUID, forUpdate bool) (Order, error) {
	query := selectOrder
	if forUpdate {
		query += " FOR UPDATE"
	}

	var (
		o      Order
		status string
	)
	err := q.QueryRow(ctx, query, id).Scan(&o.ID, &o.Customer, &status, &o.TotalCents, &o.CreatedAt, &o.UpdatedAt)
	switch {
	case err == nil:
		o.Status = Status(status)
		return o, nil
	case pg.IsNotFoundError(err):
		return Order{}, ErrNotFound
	default:
		return Order{}, errors.Join(ErrStorage, err)
	}
}

func (Repository) Update(ctx context.Context, q Querier, o Order) error {
	tag, err := q.Exec(ctx, updateOrder, o.ID, o.Customer, string(o.Status), o.TotalCents, o.UpdatedAt)
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (Repository) Delete(ctx context.Context, q Querier, id uuid.UUID) error {
	tag, err := q.Exec(ctx, deleteOrder, id)
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
