package workflow

import (
	"fmt"

	"github.com/m3rciful/shopbot/shop/catalog"
	"github.com/m3rciful/shopbot/shop/credentials"
	"github.com/m3rciful/shopbot/shop/order"
)

func paymentInstructionsText(o order.Order, plan catalog.Plan, details string) string {
	return fmt.Sprintf(
		"🧾 Order `%s`\n%s — %d %s\n\nTransfer the amount to:\n%s\n\nThen send a screenshot of the payment here.",
		o.ID, plan.Name, o.Price, o.Currency, details,
	)
}

func proofAcceptedText(o order.Order) string {
	return fmt.Sprintf("✅ Got it! Your payment for order `%s` is being verified. You will be notified shortly.", o.ID)
}

func reviewRequestText(o order.Order) string {
	return fmt.Sprintf(
		"💬 Payment review needed\nOrder `%s`\nBuyer: %d\nPlan: %s\nAmount: %d %s",
		o.ID, o.BuyerID, o.PlanID, o.Price, o.Currency,
	)
}

func fulfillmentText(o order.Order, cred credentials.Credential) string {
	return fmt.Sprintf(
		"🎉 Payment confirmed for order `%s`!\n\nYour account:\nLogin: `%s`\nPassword: `%s`",
		o.ID, cred.Login, cred.Secret,
	)
}

func approvedPendingText(o order.Order) string {
	return fmt.Sprintf("🎉 Payment confirmed for order `%s`! Your account details are on the way.", o.ID)
}

func rejectedText(o order.Order) string {
	return fmt.Sprintf("❌ Payment for order `%s` was not confirmed. Contact support if you believe this is a mistake.", o.ID)
}

func stockAlertText(o order.Order) string {
	return fmt.Sprintf("⚠️ Order `%s` approved but no credentials left for plan %s. Restock and fulfill manually.", o.ID, o.PlanID)
}

func fulfillmentFailedText(o order.Order) string {
	return fmt.Sprintf("⚠️ Order `%s` approved but credential delivery failed for plan %s. Check the logs and fulfill manually.", o.ID, o.PlanID)
}
