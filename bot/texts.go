package bot

import (
	"fmt"
	"strings"

	"github.com/m3rciful/shopbot/core/telegram/format"
	"github.com/m3rciful/shopbot/shop/catalog"
	"github.com/m3rciful/shopbot/shop/order"
)

func startText() string {
	return "👋 Welcome to the store!\n\nPick a plan below and follow the payment instructions. " +
		"After the transfer, send a screenshot of the payment right here in the chat."
}

func helpText(isAdmin bool) string {
	b := &strings.Builder{}
	b.WriteString("ℹ️ How it works:\n")
	b.WriteString("1. /order — pick a plan\n")
	b.WriteString("2. Transfer the amount shown in the invoice\n")
	b.WriteString("3. Send a screenshot of the payment to this chat\n")
	b.WriteString("4. Receive your account once the payment is verified")
	if isAdmin {
		b.WriteString("\n\nAdmin:\n/orders — list orders awaiting payment or verification")
	}
	return b.String()
}

func choosePlanText(plans []catalog.Plan) string {
	b := &strings.Builder{}
	b.WriteString("🛍 Choose a plan:\n")
	for _, p := range plans {
		// Plan names come from config and may carry markdown specials.
		name, err := format.EscapeMarkdown(p.Name, format.MarkdownV1, "")
		if err != nil {
			name = p.Name
		}
		fmt.Fprintf(b, "\n*%s* — %d %s", name, p.Price, p.Currency)
	}
	return b.String()
}

func unknownTextReply() string {
	return "I did not get that. Use /order to pick a plan, or /help for instructions."
}

func noPendingOrderText() string {
	return "There is no order waiting for a payment screenshot. Start with /order."
}

func unsupportedProofText() string {
	return "Please send the payment confirmation as a photo or document."
}

func proofNotAcceptedText() string {
	return "This order is not expecting a screenshot anymore. Its payment is already being processed."
}

func unknownPlanText() string {
	return "That plan is no longer available. Use /order to see the current catalog."
}

func orderFailedText() string {
	return "Could not create the order, please try again later."
}

func cancelledText() string {
	return "Cancelled. Use /order whenever you are ready."
}

func staleActionText() string {
	return "This order is no longer actionable: another decision already went through."
}

func decisionRecordedText(orderID string, approve bool) string {
	if approve {
		return fmt.Sprintf("✅ Order `%s` approved.", orderID)
	}
	return fmt.Sprintf("❌ Order `%s` rejected.", orderID)
}

func openOrdersText(orders []order.Order) string {
	if len(orders) == 0 {
		return "No open orders."
	}
	b := &strings.Builder{}
	fmt.Fprintf(b, "📋 Open orders (%d):\n", len(orders))
	for _, o := range orders {
		fmt.Fprintf(b, "\n`%s`\nbuyer %d · %s · %d %s · %s",
			o.ID, o.BuyerID, o.PlanID, o.Price, o.Currency, o.Status)
	}
	return b.String()
}

func planButtonLabel(p catalog.Plan) string {
	return fmt.Sprintf("%s — %d %s", p.Name, p.Price, p.Currency)
}
