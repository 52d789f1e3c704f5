// Package order holds the order entity and its status state machine.
// Transitions are pure value operations; persistence and side effects
// belong to the store and the workflow engine.
package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m3rciful/shopbot/shop/errs"
)

// Order is a single buyer's request to purchase one plan.
// ID and BuyerID are immutable after creation; Price snapshots the catalog
// price at creation time so later price-table changes never alter an open
// order.
type Order struct {
	ID        string
	BuyerID   int64
	PlanID    string
	Price     int64
	Currency  string
	Status    Status
	ProofRef  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates an order in awaiting_payment with a fresh unique id.
func New(buyerID int64, planID string, price int64, currency string) Order {
	now := time.Now().UTC()
	return Order{
		ID:        uuid.NewString(),
		BuyerID:   buyerID,
		PlanID:    planID,
		Price:     price,
		Currency:  currency,
		Status:    StatusAwaitingPayment,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithProof returns a copy of the order carrying the payment proof reference
// and moved to awaiting_verification. Proof is set exactly once; any repeat
// or out-of-order attempt fails with ErrInvalidTransition.
func (o Order) WithProof(mediaRef string) (Order, error) {
	if o.ProofRef != "" {
		return Order{}, fmt.Errorf("proof already attached to order %s: %w", o.ID, errs.ErrInvalidTransition)
	}
	next, err := o.Status.attachProof()
	if err != nil {
		return Order{}, err
	}
	o.Status = next
	o.ProofRef = mediaRef
	o.UpdatedAt = time.Now().UTC()
	return o, nil
}

// Decided returns a copy of the order moved to its terminal status.
func (o Order) Decided(approve bool) (Order, error) {
	next, err := o.Status.decide(approve)
	if err != nil {
		return Order{}, err
	}
	o.Status = next
	o.UpdatedAt = time.Now().UTC()
	return o, nil
}
