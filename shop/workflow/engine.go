// Package workflow orchestrates the order lifecycle: buyer-facing plan
// selection and proof submission, and the admin verification step. The store
// CAS is the serialization point for transitions; side effects run only after
// a transition has been committed and are never rolled back.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"log/slog"

	"github.com/m3rciful/shopbot/core/logger"
	"github.com/m3rciful/shopbot/shop/catalog"
	"github.com/m3rciful/shopbot/shop/credentials"
	"github.com/m3rciful/shopbot/shop/errs"
	"github.com/m3rciful/shopbot/shop/order"
	"github.com/m3rciful/shopbot/shop/store"
)

const component = "workflow"

// Options wires the engine's collaborators. All fields except
// PaymentDetails are required.
type Options struct {
	Store       store.Store
	Catalog     *catalog.Catalog
	Credentials credentials.Provider
	Messenger   Messenger

	// AdminIDs is the set of identities allowed to decide orders,
	// loaded once at startup and immutable afterwards.
	AdminIDs []int64

	// PaymentDetails is the free-form payment requisites text shown to
	// buyers together with the order price.
	PaymentDetails string
}

// Engine binds the order state machine to the messaging boundary.
type Engine struct {
	store          store.Store
	catalog        *catalog.Catalog
	creds          credentials.Provider
	messenger      Messenger
	sessions       *Sessions
	admins         map[int64]struct{}
	paymentDetails string
}

// NewEngine validates options and constructs an engine with an empty
// session table.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("workflow: nil store")
	}
	if opts.Catalog == nil {
		return nil, fmt.Errorf("workflow: nil catalog")
	}
	if opts.Credentials == nil {
		return nil, fmt.Errorf("workflow: nil credentials provider")
	}
	if opts.Messenger == nil {
		return nil, fmt.Errorf("workflow: nil messenger")
	}
	if len(opts.AdminIDs) == 0 {
		return nil, fmt.Errorf("workflow: no administrators configured")
	}

	admins := make(map[int64]struct{}, len(opts.AdminIDs))
	for _, id := range opts.AdminIDs {
		admins[id] = struct{}{}
	}

	return &Engine{
		store:          opts.Store,
		catalog:        opts.Catalog,
		creds:          opts.Credentials,
		messenger:      opts.Messenger,
		sessions:       NewSessions(),
		admins:         admins,
		paymentDetails: opts.PaymentDetails,
	}, nil
}

// IsAdmin reports whether id belongs to the administrator set.
func (e *Engine) IsAdmin(id int64) bool {
	_, ok := e.admins[id]
	return ok
}

// PendingOrder returns the buyer's order currently awaiting proof, if any.
func (e *Engine) PendingOrder(buyerID int64) (string, bool) {
	return e.sessions.Pending(buyerID)
}

// ListOpen returns all non-terminal orders, oldest first.
func (e *Engine) ListOpen(ctx context.Context) ([]order.Order, error) {
	return e.store.ListOpen(ctx)
}

// StartOrder creates an order for the plan in awaiting_payment and sends
// payment instructions to the buyer. Fails with ErrUnknownPlan when planID
// is not a catalog entry; no order is created then.
func (e *Engine) StartOrder(ctx context.Context, buyerID int64, planID string) (order.Order, error) {
	plan, err := e.catalog.Lookup(planID)
	if err != nil {
		return order.Order{}, err
	}

	o := order.New(buyerID, plan.ID, plan.Price, plan.Currency)
	if err := e.store.Create(ctx, o); err != nil {
		return order.Order{}, err
	}
	e.sessions.Begin(buyerID, o.ID)

	logger.Info(ctx, component, "order.created",
		slog.String("status", "ok"),
		slog.String("order_id", o.ID),
		slog.Int64("buyer_id", buyerID),
		slog.String("plan_id", plan.ID),
		slog.Int64("price", o.Price),
	)

	e.sendToUser(ctx, buyerID, paymentInstructionsText(o, plan, e.paymentDetails), o.ID, "payment_instructions")
	return o, nil
}

// SubmitProof attaches payment proof to the order, acknowledges the buyer,
// and fans a review request out to every administrator. The status CAS
// guarantees at most one review broadcast per order.
func (e *Engine) SubmitProof(ctx context.Context, buyerID int64, orderID, mediaRef string) error {
	o, err := e.store.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if o.BuyerID != buyerID {
		return fmt.Errorf("order %s, buyer %d: %w", orderID, buyerID, errs.ErrNotOwner)
	}

	updated, err := o.WithProof(mediaRef)
	if err != nil {
		return err
	}
	if err := e.store.Update(ctx, updated, o.Status); err != nil {
		return err
	}
	e.sessions.Clear(buyerID)

	logger.Info(ctx, component, "order.proof",
		slog.String("status", "ok"),
		slog.String("order_id", o.ID),
		slog.Int64("buyer_id", buyerID),
		slog.String("proof", mediaRef),
	)

	e.sendToUser(ctx, buyerID, proofAcceptedText(updated), o.ID, "proof_ack")
	for adminID := range e.admins {
		if err := e.messenger.ForwardMedia(ctx, adminID, mediaRef); err != nil {
			e.logSendFailure(ctx, o.ID, "proof_forward", err)
		}
	}
	if err := e.messenger.BroadcastToAdmins(ctx, Content{Text: reviewRequestText(updated), OrderID: o.ID}); err != nil {
		e.logSendFailure(ctx, o.ID, "review_request", err)
	}
	return nil
}

// Decide applies an administrator decision. Exactly one decide call wins per
// order; a repeated or racing call fails with ErrInvalidTransition before any
// buyer-visible side effect. On approval the fulfillment payload is claimed
// and delivered; empty stock does not revert the decision.
func (e *Engine) Decide(ctx context.Context, adminID int64, orderID string, approve bool) error {
	if !e.IsAdmin(adminID) {
		return fmt.Errorf("user %d: %w", adminID, errs.ErrUnauthorized)
	}

	o, err := e.store.Get(ctx, orderID)
	if err != nil {
		return err
	}
	updated, err := o.Decided(approve)
	if err != nil {
		return err
	}
	if err := e.store.Update(ctx, updated, o.Status); err != nil {
		return err
	}
	e.sessions.Clear(o.BuyerID)

	logger.Info(ctx, component, "order.decided",
		slog.String("status", "ok"),
		slog.String("order_id", o.ID),
		slog.Int64("admin_id", adminID),
		slog.String("decision", string(updated.Status)),
	)

	if !approve {
		e.sendToUser(ctx, o.BuyerID, rejectedText(updated), o.ID, "rejection")
		return nil
	}

	cred, err := e.creds.Claim(ctx, o.ID, o.PlanID)
	if err != nil {
		// The approval already stands; fulfillment becomes a manual step.
		logger.Error(ctx, component, "fulfillment.fail",
			slog.String("status", "fail"),
			slog.String("order_id", o.ID),
			slog.String("plan_id", o.PlanID),
			slog.String("err", err.Error()),
		)
		e.sendToUser(ctx, o.BuyerID, approvedPendingText(updated), o.ID, "fulfillment_pending")
		alert := fulfillmentFailedText(updated)
		if errors.Is(err, errs.ErrNoCredentials) {
			alert = stockAlertText(updated)
		}
		if alertErr := e.messenger.BroadcastToAdmins(ctx, Content{Text: alert}); alertErr != nil {
			e.logSendFailure(ctx, o.ID, "fulfillment_alert", alertErr)
		}
		return nil
	}
	e.sendToUser(ctx, o.BuyerID, fulfillmentText(updated, cred), o.ID, "fulfillment")
	return nil
}

// sendToUser delivers best-effort: the transition is already committed, so a
// failed notification is logged, left to the messenger's retries, and never
// propagated.
func (e *Engine) sendToUser(ctx context.Context, userID int64, text, orderID, kind string) {
	if err := e.messenger.SendToUser(ctx, userID, text); err != nil {
		e.logSendFailure(ctx, orderID, kind, err)
	}
}

func (e *Engine) logSendFailure(ctx context.Context, orderID, kind string, err error) {
	logger.Warn(ctx, component, "notify.fail",
		slog.String("status", "fail"),
		slog.String("order_id", orderID),
		slog.String("notification", kind),
		slog.String("err", err.Error()),
	)
}
