package bot

import (
	"errors"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/shopbot/core/telegram/helpers"
	"github.com/m3rciful/shopbot/shop/errs"
	"github.com/m3rciful/shopbot/shop/workflow"
)

// Proof reference kinds. Telegram file ids are type-bound (a document id
// cannot be resent as a photo), so the stored reference carries the media
// kind next to the id.
const (
	proofKindPhoto    = "photo"
	proofKindDocument = "document"
)

// mediaRef builds the proof reference for an uploaded photo or document:
// "<kind>:<file_id>".
func mediaRef(msg *tele.Message) string {
	if msg == nil {
		return ""
	}
	if msg.Photo != nil {
		return proofKindPhoto + ":" + msg.Photo.FileID
	}
	if msg.Document != nil {
		return proofKindDocument + ":" + msg.Document.FileID
	}
	return ""
}

// Proof is the payment-screenshot intake. An upload only counts when the
// buyer has an order awaiting payment; everything else gets a hint instead of
// an order mutation.
func (h *Handlers) Proof(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	buyerID := c.Sender().ID

	orderID, ok := h.engine.PendingOrder(buyerID)
	if !ok {
		return tghelpers.SendText(c, noPendingOrderText())
	}

	ref := mediaRef(c.Message())
	if ref == "" {
		return tghelpers.SendText(c, unsupportedProofText())
	}

	err := h.engine.Dispatch(ctx, workflow.ProofSubmitted{
		BuyerID:  buyerID,
		OrderID:  orderID,
		MediaRef: ref,
	})
	switch {
	case errors.Is(err, errs.ErrInvalidTransition):
		return tghelpers.SendText(c, proofNotAcceptedText())
	case errors.Is(err, errs.ErrOrderNotFound), errors.Is(err, errs.ErrNotOwner):
		return tghelpers.SendText(c, noPendingOrderText())
	}
	return err
}
