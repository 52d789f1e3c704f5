// Package store persists orders. Implementations must make the
// compare-and-swap Update atomic per order id so that concurrent transitions
// on the same order resolve to exactly one winner.
package store

import (
	"context"

	"github.com/m3rciful/shopbot/shop/order"
)

// Store is the authoritative order repository.
type Store interface {
	// Create persists a new order. The id must not already exist.
	Create(ctx context.Context, o order.Order) error

	// Get returns the order by id or errs.ErrOrderNotFound.
	Get(ctx context.Context, id string) (order.Order, error)

	// Update replaces the stored order with o, provided the stored status
	// still equals expect. A status mismatch means another transition won
	// the race and yields errs.ErrInvalidTransition.
	Update(ctx context.Context, o order.Order, expect order.Status) error

	// ListOpen returns all orders not yet in a terminal status, oldest first.
	ListOpen(ctx context.Context) ([]order.Order, error)
}
