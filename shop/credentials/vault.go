package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"log/slog"

	"github.com/m3rciful/shopbot/core/logger"
	"github.com/m3rciful/shopbot/shop/errs"
)

// Vault is a postgres-backed Provider over the credentials table.
// Claiming locks one unassigned row with SKIP LOCKED so concurrent approvals
// of different orders never hand out the same credential.
type Vault struct {
	db *sqlx.DB
}

// NewVault wraps an open sqlx connection.
func NewVault(db *sqlx.DB) *Vault {
	return &Vault{db: db}
}

// Claim binds one free credential of the plan to the order and returns it.
func (v *Vault) Claim(ctx context.Context, orderID, planID string) (Credential, error) {
	tx, err := v.db.BeginTxx(ctx, nil)
	if err != nil {
		return Credential{}, fmt.Errorf("credentials: begin claim: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const pick = `SELECT id, login, secret FROM credentials
		WHERE plan_id = $1 AND order_id IS NULL
		ORDER BY id
		LIMIT 1
		FOR UPDATE SKIP LOCKED`
	var row struct {
		ID     int64  `db:"id"`
		Login  string `db:"login"`
		Secret string `db:"secret"`
	}
	if err := tx.GetContext(ctx, &row, pick, planID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Credential{}, fmt.Errorf("plan %s: %w", planID, errs.ErrNoCredentials)
		}
		return Credential{}, fmt.Errorf("credentials: pick for plan %s: %w", planID, err)
	}

	const bind = `UPDATE credentials SET order_id = $1, claimed_at = now() WHERE id = $2`
	if _, err := tx.ExecContext(ctx, bind, orderID, row.ID); err != nil {
		return Credential{}, fmt.Errorf("credentials: bind %d to order %s: %w", row.ID, orderID, err)
	}
	if err := tx.Commit(); err != nil {
		return Credential{}, fmt.Errorf("credentials: commit claim: %w", err)
	}

	logger.Info(ctx, "shop.credentials", "credential.claimed",
		slog.String("status", "ok"),
		slog.String("order_id", orderID),
		slog.String("plan_id", planID),
	)
	return Credential{Login: row.Login, Secret: row.Secret}, nil
}
