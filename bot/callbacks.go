package bot

import (
	"errors"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/shopbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/shopbot/core/telegram/helpers"
	"github.com/m3rciful/shopbot/shop/errs"
	"github.com/m3rciful/shopbot/shop/workflow"
)

// Callback keys. Payload carries the plan id for cbPlan and the order id for
// the decision keys.
const (
	cbPlan    = "plan"
	cbApprove = "approve"
	cbReject  = "reject"
	cbCancel  = "cancel"
)

// PlanSelected creates an order for the chosen plan. The engine sends the
// payment instructions itself; the chooser message collapses into a short
// confirmation so the buttons cannot be pressed twice.
func (h *Handlers) PlanSelected(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	planID := callbacks.CallbackPayload(c)

	err := h.engine.Dispatch(ctx, workflow.PlanSelected{
		BuyerID: c.Sender().ID,
		PlanID:  planID,
	})
	switch {
	case errors.Is(err, errs.ErrUnknownPlan):
		return tghelpers.EditOrSendMD(c, unknownPlanText())
	case err != nil:
		_ = tghelpers.EditOrSendMD(c, orderFailedText())
		return err
	}
	return tghelpers.EditOrSendMD(c, "🧾 Invoice sent, check the message below.")
}

// Cancel dismisses the plan chooser.
func (h *Handlers) Cancel(c tele.Context) error {
	return tghelpers.EditOrSendMD(c, cancelledText())
}

// Approve resolves the order in the buyer's favor.
func (h *Handlers) Approve(c tele.Context) error {
	return h.decide(c, true)
}

// Reject declines the order.
func (h *Handlers) Reject(c tele.Context) error {
	return h.decide(c, false)
}

// decide runs an admin decision. Exactly one decision per order goes through;
// the loser of a race (or a repeated press) sees the stale-action notice and
// the buyer is not contacted again.
func (h *Handlers) decide(c tele.Context, approve bool) error {
	ctx := tghelpers.BuildContext(c)
	orderID := callbacks.CallbackPayload(c)

	err := h.engine.Dispatch(ctx, workflow.AdminDecision{
		AdminID: c.Sender().ID,
		OrderID: orderID,
		Approve: approve,
	})
	switch {
	case errors.Is(err, errs.ErrInvalidTransition):
		return tghelpers.EditOrSendMD(c, staleActionText())
	case errors.Is(err, errs.ErrOrderNotFound):
		return tghelpers.EditOrSendMD(c, staleActionText())
	case errors.Is(err, errs.ErrUnauthorized):
		// The review prompt is only sent to admins; reaching this means the
		// admin set changed under us. Leave the prompt untouched.
		return err
	case err != nil:
		return err
	}
	return tghelpers.EditOrSendMD(c, decisionRecordedText(orderID, approve))
}
