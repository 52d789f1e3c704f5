package bot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/m3rciful/shopbot/shop/catalog"
	"github.com/m3rciful/shopbot/shop/order"
)

func TestOpenOrdersText(t *testing.T) {
	require.Equal(t, "No open orders.", openOrdersText(nil))

	o := order.New(7, "basic", 100, "RUB")
	text := openOrdersText([]order.Order{o})
	require.Contains(t, text, o.ID)
	require.Contains(t, text, "buyer 7")
	require.Contains(t, text, "100 RUB")
	require.Contains(t, text, string(order.StatusAwaitingPayment))
}

func TestChoosePlanTextEscapesNames(t *testing.T) {
	text := choosePlanText([]catalog.Plan{
		{ID: "p", Name: "Basic_plus", Price: 100, Currency: "RUB"},
	})
	require.Contains(t, text, `Basic\\_plus`)
	require.Contains(t, text, "100 RUB")
}

func TestDecisionRecordedText(t *testing.T) {
	require.Contains(t, decisionRecordedText("ord-1", true), "approved")
	require.Contains(t, decisionRecordedText("ord-1", false), "rejected")
}
