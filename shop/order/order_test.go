package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/shopbot/shop/errs"
	"github.com/m3rciful/shopbot/shop/order"
)

func TestNewOrder(t *testing.T) {
	o := order.New(42, "3", 500, "RUB")

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, int64(42), o.BuyerID)
	assert.Equal(t, "3", o.PlanID)
	assert.Equal(t, int64(500), o.Price)
	assert.Equal(t, order.StatusAwaitingPayment, o.Status)
	assert.Empty(t, o.ProofRef)
}

func TestNewOrderUniqueIDs(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		o := order.New(7, "1", 100, "RUB")
		_, dup := seen[o.ID]
		require.False(t, dup, "duplicate order id %s", o.ID)
		seen[o.ID] = struct{}{}
	}
}

func TestWithProof(t *testing.T) {
	o := order.New(42, "3", 500, "RUB")

	proved, err := o.WithProof("file-123")
	require.NoError(t, err)
	assert.Equal(t, order.StatusAwaitingVerification, proved.Status)
	assert.Equal(t, "file-123", proved.ProofRef)

	// original value is untouched
	assert.Equal(t, order.StatusAwaitingPayment, o.Status)
	assert.Empty(t, o.ProofRef)
}

func TestWithProofTwice(t *testing.T) {
	o := order.New(42, "3", 500, "RUB")
	proved, err := o.WithProof("file-123")
	require.NoError(t, err)

	_, err = proved.WithProof("file-456")
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestDecided(t *testing.T) {
	o := order.New(42, "3", 500, "RUB")
	proved, err := o.WithProof("file-123")
	require.NoError(t, err)

	approved, err := proved.Decided(true)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, approved.Status)

	rejected, err := proved.Decided(false)
	require.NoError(t, err)
	assert.Equal(t, order.StatusRejected, rejected.Status)
}

func TestDecideRequiresProof(t *testing.T) {
	o := order.New(42, "3", 500, "RUB")

	_, err := o.Decided(true)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestTerminalOrdersAreFrozen(t *testing.T) {
	o := order.New(42, "3", 500, "RUB")
	proved, err := o.WithProof("file-123")
	require.NoError(t, err)

	for _, approve := range []bool{true, false} {
		final, err := proved.Decided(approve)
		require.NoError(t, err)
		require.True(t, final.Status.Terminal())

		_, err = final.Decided(!approve)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		_, err = final.WithProof("late-proof")
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []order.Status{
		order.StatusAwaitingPayment,
		order.StatusAwaitingVerification,
		order.StatusCompleted,
		order.StatusRejected,
	} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, order.Status("").Valid())
	assert.False(t, order.Status("created").Valid())
}
