package workflow

import (
	"context"
	"fmt"
)

// Event is a closed set of inbound workflow events. The transport layer
// translates raw updates into these variants and hands them to Dispatch,
// keeping stringly-typed routing out of the domain.
type Event interface {
	// Kind names the event for logging.
	Kind() string

	isEvent()
}

// PlanSelected is emitted when a buyer picks a plan from the catalog.
type PlanSelected struct {
	BuyerID int64
	PlanID  string
}

// Kind implements Event.
func (PlanSelected) Kind() string { return "plan_selected" }
func (PlanSelected) isEvent()     {}

// ProofSubmitted is emitted when a buyer uploads payment proof media.
type ProofSubmitted struct {
	BuyerID  int64
	OrderID  string
	MediaRef string
}

// Kind implements Event.
func (ProofSubmitted) Kind() string { return "proof_submitted" }
func (ProofSubmitted) isEvent()     {}

// AdminDecision is emitted when an administrator approves or rejects an order.
type AdminDecision struct {
	AdminID int64
	OrderID string
	Approve bool
}

// Kind implements Event.
func (AdminDecision) Kind() string { return "admin_decision" }
func (AdminDecision) isEvent()     {}

// Dispatch routes a single inbound event to its operation.
func (e *Engine) Dispatch(ctx context.Context, ev Event) error {
	switch ev := ev.(type) {
	case PlanSelected:
		_, err := e.StartOrder(ctx, ev.BuyerID, ev.PlanID)
		return err
	case ProofSubmitted:
		return e.SubmitProof(ctx, ev.BuyerID, ev.OrderID, ev.MediaRef)
	case AdminDecision:
		return e.Decide(ctx, ev.AdminID, ev.OrderID, ev.Approve)
	default:
		return fmt.Errorf("workflow: unhandled event %T", ev)
	}
}
