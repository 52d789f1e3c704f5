package order

import (
	"fmt"

	"github.com/m3rciful/shopbot/shop/errs"
)

// Status represents the lifecycle state of an order.
//
// Transitions:
//
//	awaiting_payment -> awaiting_verification -> completed
//	                                          -> rejected
//
// Creation is the first transition: an order only exists once a plan has
// been selected, so it is born in awaiting_payment.
type Status string

const (
	// StatusAwaitingPayment means the buyer has selected a plan and owes
	// a payment proof.
	StatusAwaitingPayment Status = "awaiting_payment"
	// StatusAwaitingVerification means a proof was submitted and the order
	// waits for an administrator decision.
	StatusAwaitingVerification Status = "awaiting_verification"
	// StatusCompleted means an administrator approved the payment. Terminal.
	StatusCompleted Status = "completed"
	// StatusRejected means an administrator rejected the payment. Terminal.
	StatusRejected Status = "rejected"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusAwaitingPayment, StatusAwaitingVerification, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are permitted.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// String implements fmt.Stringer.
func (s Status) String() string { return string(s) }

// attachProof transitions awaiting_payment to awaiting_verification.
func (s Status) attachProof() (Status, error) {
	if s != StatusAwaitingPayment {
		return "", fmt.Errorf("attach proof in %s: %w", s, errs.ErrInvalidTransition)
	}
	return StatusAwaitingVerification, nil
}

// decide transitions awaiting_verification to a terminal status.
func (s Status) decide(approve bool) (Status, error) {
	if s != StatusAwaitingVerification {
		return "", fmt.Errorf("decide in %s: %w", s, errs.ErrInvalidTransition)
	}
	if approve {
		return StatusCompleted, nil
	}
	return StatusRejected, nil
}
