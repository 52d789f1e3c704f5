package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"log/slog"

	"github.com/m3rciful/shopbot/core/logger"
	"github.com/m3rciful/shopbot/shop/errs"
	"github.com/m3rciful/shopbot/shop/order"
)

// Postgres is a durable Store backed by the orders table.
// The status CAS is pushed into the UPDATE's WHERE clause, so concurrent
// transitions on one order are serialized by the database row lock.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres wraps an open sqlx connection.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

type orderRow struct {
	ID        string         `db:"id"`
	BuyerID   int64          `db:"buyer_id"`
	PlanID    string         `db:"plan_id"`
	Price     int64          `db:"price"`
	Currency  string         `db:"currency"`
	Status    string         `db:"status"`
	ProofRef  sql.NullString `db:"proof_ref"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func toRow(o order.Order) orderRow {
	row := orderRow{
		ID:        o.ID,
		BuyerID:   o.BuyerID,
		PlanID:    o.PlanID,
		Price:     o.Price,
		Currency:  o.Currency,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	if o.ProofRef != "" {
		row.ProofRef = sql.NullString{String: o.ProofRef, Valid: true}
	}
	return row
}

func (r orderRow) toOrder() order.Order {
	return order.Order{
		ID:        r.ID,
		BuyerID:   r.BuyerID,
		PlanID:    r.PlanID,
		Price:     r.Price,
		Currency:  r.Currency,
		Status:    order.Status(r.Status),
		ProofRef:  r.ProofRef.String,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Create persists a new order.
func (p *Postgres) Create(ctx context.Context, o order.Order) error {
	const q = `
		INSERT INTO orders (id, buyer_id, plan_id, price, currency, status, proof_ref, created_at, updated_at)
		VALUES (:id, :buyer_id, :plan_id, :price, :currency, :status, :proof_ref, :created_at, :updated_at)`
	if _, err := p.db.NamedExecContext(ctx, q, toRow(o)); err != nil {
		return fmt.Errorf("store: insert order %s: %w", o.ID, err)
	}
	logger.Debug(ctx, "shop.store", "order.insert",
		slog.String("order_id", o.ID),
		slog.String("status", "ok"),
	)
	return nil
}

// Get returns the order by id.
func (p *Postgres) Get(ctx context.Context, id string) (order.Order, error) {
	const q = `SELECT id, buyer_id, plan_id, price, currency, status, proof_ref, created_at, updated_at
		FROM orders WHERE id = $1`
	var row orderRow
	if err := p.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return order.Order{}, fmt.Errorf("order %s: %w", id, errs.ErrOrderNotFound)
		}
		return order.Order{}, fmt.Errorf("store: select order %s: %w", id, err)
	}
	return row.toOrder(), nil
}

// Update applies the order only when the stored status still equals expect.
// Zero affected rows is disambiguated by a follow-up existence check: a
// missing row is ErrOrderNotFound, a present one means a lost race.
func (p *Postgres) Update(ctx context.Context, o order.Order, expect order.Status) error {
	const q = `UPDATE orders
		SET status = $1, proof_ref = $2, updated_at = $3
		WHERE id = $4 AND status = $5`
	row := toRow(o)
	res, err := p.db.ExecContext(ctx, q, row.Status, row.ProofRef, row.UpdatedAt, row.ID, string(expect))
	if err != nil {
		return fmt.Errorf("store: update order %s: %w", o.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: update order %s: %w", o.ID, err)
	}
	if affected == 0 {
		current, getErr := p.Get(ctx, o.ID)
		if getErr != nil {
			return getErr
		}
		return fmt.Errorf("order %s is %s, expected %s: %w", o.ID, current.Status, expect, errs.ErrInvalidTransition)
	}
	return nil
}

// ListOpen returns non-terminal orders, oldest first.
func (p *Postgres) ListOpen(ctx context.Context) ([]order.Order, error) {
	const q = `SELECT id, buyer_id, plan_id, price, currency, status, proof_ref, created_at, updated_at
		FROM orders
		WHERE status NOT IN ($1, $2)
		ORDER BY created_at`
	var rows []orderRow
	if err := p.db.SelectContext(ctx, &rows, q, string(order.StatusCompleted), string(order.StatusRejected)); err != nil {
		return nil, fmt.Errorf("store: list open orders: %w", err)
	}
	out := make([]order.Order, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toOrder())
	}
	return out, nil
}
