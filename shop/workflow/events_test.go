package workflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/shopbot/shop/errs"
	"github.com/m3rciful/shopbot/shop/order"
	"github.com/m3rciful/shopbot/shop/workflow"
)

func TestDispatchRoundTrip(t *testing.T) {
	eng, _, st := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, eng.Dispatch(ctx, workflow.PlanSelected{BuyerID: 42, PlanID: "3"}))
	orderID, ok := eng.PendingOrder(42)
	require.True(t, ok)

	require.NoError(t, eng.Dispatch(ctx, workflow.ProofSubmitted{BuyerID: 42, OrderID: orderID, MediaRef: "f"}))
	require.NoError(t, eng.Dispatch(ctx, workflow.AdminDecision{AdminID: 1, OrderID: orderID, Approve: true}))

	got, err := st.Get(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, got.Status)
}

func TestDispatchErrorsPassThrough(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	ctx := context.Background()

	err := eng.Dispatch(ctx, workflow.PlanSelected{BuyerID: 7, PlanID: "99"})
	assert.ErrorIs(t, err, errs.ErrUnknownPlan)

	err = eng.Dispatch(ctx, workflow.AdminDecision{AdminID: 999, OrderID: "x", Approve: true})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestEventKinds(t *testing.T) {
	assert.Equal(t, "plan_selected", workflow.PlanSelected{}.Kind())
	assert.Equal(t, "proof_submitted", workflow.ProofSubmitted{}.Kind())
	assert.Equal(t, "admin_decision", workflow.AdminDecision{}.Kind())
}
