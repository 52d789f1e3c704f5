package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/shopbot/shop/catalog"
	"github.com/m3rciful/shopbot/shop/credentials"
	"github.com/m3rciful/shopbot/shop/errs"
	"github.com/m3rciful/shopbot/shop/order"
	"github.com/m3rciful/shopbot/shop/store"
	"github.com/m3rciful/shopbot/shop/workflow"
)

type sentMessage struct {
	userID int64
	text   string
}

// fakeMessenger records outbound traffic; safe for concurrent use.
type fakeMessenger struct {
	mu         sync.Mutex
	sent       []sentMessage
	forwards   []sentMessage
	broadcasts []workflow.Content
	failSends  bool
}

func (f *fakeMessenger) SendToUser(_ context.Context, userID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSends {
		return errors.New("gateway unavailable")
	}
	f.sent = append(f.sent, sentMessage{userID: userID, text: text})
	return nil
}

func (f *fakeMessenger) ForwardMedia(_ context.Context, userID int64, mediaRef string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forwards = append(f.forwards, sentMessage{userID: userID, text: mediaRef})
	return nil
}

func (f *fakeMessenger) BroadcastToAdmins(_ context.Context, content workflow.Content) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcasts = append(f.broadcasts, content)
	return nil
}

func (f *fakeMessenger) sentTo(userID int64) []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMessage
	for _, m := range f.sent {
		if m.userID == userID {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeMessenger) broadcastCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.broadcasts)
}

func newTestEngine(t *testing.T) (*workflow.Engine, *fakeMessenger, store.Store) {
	t.Helper()
	cat, err := catalog.New([]catalog.Plan{
		{ID: "1", Name: "1 month", Price: 200},
		{ID: "3", Name: "3 months", Price: 500},
	})
	require.NoError(t, err)

	msngr := &fakeMessenger{}
	st := store.NewMemory()
	eng, err := workflow.NewEngine(workflow.Options{
		Store:   st,
		Catalog: cat,
		Credentials: credentials.NewMemory(map[string][]credentials.Credential{
			"3": {{Login: "acc-1", Secret: "pw-1"}},
		}),
		Messenger:      msngr,
		AdminIDs:       []int64{1, 2},
		PaymentDetails: "card 0000 0000",
	})
	require.NoError(t, err)
	return eng, msngr, st
}

func TestStartOrder(t *testing.T) {
	eng, msngr, _ := newTestEngine(t)
	ctx := context.Background()

	o, err := eng.StartOrder(ctx, 42, "3")
	require.NoError(t, err)
	assert.Equal(t, order.StatusAwaitingPayment, o.Status)
	assert.Equal(t, int64(500), o.Price, "price snapshots the catalog entry")

	msgs := msngr.sentTo(42)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].text, o.ID)
	assert.Contains(t, msgs[0].text, "card 0000 0000")

	pending, ok := eng.PendingOrder(42)
	require.True(t, ok)
	assert.Equal(t, o.ID, pending)
}

func TestStartOrderUniqueIDs(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	ctx := context.Background()

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		o, err := eng.StartOrder(ctx, int64(i), "1")
		require.NoError(t, err)
		_, dup := seen[o.ID]
		require.False(t, dup)
		seen[o.ID] = struct{}{}
	}
}

func TestStartOrderUnknownPlan(t *testing.T) {
	eng, msngr, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.StartOrder(ctx, 7, "99")
	require.ErrorIs(t, err, errs.ErrUnknownPlan)
	assert.Empty(t, msngr.sentTo(7), "no order, no instructions")

	open, err := eng.ListOpen(ctx)
	require.NoError(t, err)
	assert.Empty(t, open, "no order may be created")
}

func TestSubmitProof(t *testing.T) {
	eng, msngr, st := newTestEngine(t)
	ctx := context.Background()

	o, err := eng.StartOrder(ctx, 42, "3")
	require.NoError(t, err)

	require.NoError(t, eng.SubmitProof(ctx, 42, o.ID, "file-abc"))

	got, err := st.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusAwaitingVerification, got.Status)
	assert.Equal(t, "file-abc", got.ProofRef)

	_, ok := eng.PendingOrder(42)
	assert.False(t, ok, "session cleared once order awaits the admins")

	// ack to buyer, media forwarded to both admins, one review broadcast
	assert.Len(t, msngr.sentTo(42), 2)
	assert.Len(t, msngr.forwards, 2)
	require.Equal(t, 1, msngr.broadcastCount())
	assert.Equal(t, o.ID, msngr.broadcasts[0].OrderID)
}

func TestSubmitProofGuards(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	ctx := context.Background()

	o, err := eng.StartOrder(ctx, 42, "3")
	require.NoError(t, err)

	err = eng.SubmitProof(ctx, 42, "no-such-order", "f")
	assert.ErrorIs(t, err, errs.ErrOrderNotFound)

	err = eng.SubmitProof(ctx, 43, o.ID, "f")
	assert.ErrorIs(t, err, errs.ErrNotOwner)
}

func TestSubmitProofTwice(t *testing.T) {
	eng, msngr, _ := newTestEngine(t)
	ctx := context.Background()

	o, err := eng.StartOrder(ctx, 42, "3")
	require.NoError(t, err)
	require.NoError(t, eng.SubmitProof(ctx, 42, o.ID, "file-1"))

	err = eng.SubmitProof(ctx, 42, o.ID, "file-2")
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.Equal(t, 1, msngr.broadcastCount(), "only one review broadcast per order")
}

func TestDecideApproveRoundTrip(t *testing.T) {
	eng, msngr, st := newTestEngine(t)
	ctx := context.Background()

	o, err := eng.StartOrder(ctx, 42, "3")
	require.NoError(t, err)
	require.NoError(t, eng.SubmitProof(ctx, 42, o.ID, "file-abc"))

	require.NoError(t, eng.Decide(ctx, 1, o.ID, true))

	got, err := st.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, got.Status)

	var fulfillments int
	for _, m := range msngr.sentTo(42) {
		if strings.Contains(m.text, "acc-1") {
			fulfillments++
			assert.Contains(t, m.text, "pw-1")
		}
	}
	assert.Equal(t, 1, fulfillments, "exactly one fulfillment message")
}

func TestDecideRejectThenRepeat(t *testing.T) {
	eng, msngr, st := newTestEngine(t)
	ctx := context.Background()

	o, err := eng.StartOrder(ctx, 42, "3")
	require.NoError(t, err)
	require.NoError(t, eng.SubmitProof(ctx, 42, o.ID, "file-abc"))

	require.NoError(t, eng.Decide(ctx, 1, o.ID, false))

	got, err := st.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusRejected, got.Status)

	before := len(msngr.sentTo(42))
	err = eng.Decide(ctx, 2, o.ID, true)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.Equal(t, before, len(msngr.sentTo(42)), "repeated decide has no buyer-visible effect")
}

func TestDecideUnauthorized(t *testing.T) {
	eng, _, st := newTestEngine(t)
	ctx := context.Background()

	o, err := eng.StartOrder(ctx, 42, "3")
	require.NoError(t, err)
	require.NoError(t, eng.SubmitProof(ctx, 42, o.ID, "file-abc"))

	err = eng.Decide(ctx, 999, o.ID, true)
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	got, err := st.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusAwaitingVerification, got.Status, "state unchanged")
}

func TestDecideConcurrentConflict(t *testing.T) {
	eng, msngr, st := newTestEngine(t)
	ctx := context.Background()

	o, err := eng.StartOrder(ctx, 42, "3")
	require.NoError(t, err)
	require.NoError(t, eng.SubmitProof(ctx, 42, o.ID, "file-abc"))

	buyerMsgsBefore := len(msngr.sentTo(42))

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for _, approve := range []bool{true, false} {
		wg.Add(1)
		go func(approve bool) {
			defer wg.Done()
			adminID := int64(1)
			if !approve {
				adminID = 2
			}
			results <- eng.Decide(ctx, adminID, o.ID, approve)
		}(approve)
	}
	wg.Wait()
	close(results)

	var okCount, lostCount int
	for err := range results {
		if err == nil {
			okCount++
			continue
		}
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		lostCount++
	}
	assert.Equal(t, 1, okCount, "exactly one decide wins")
	assert.Equal(t, 1, lostCount)

	got, err := st.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, got.Status.Terminal())

	assert.Equal(t, buyerMsgsBefore+1, len(msngr.sentTo(42)), "exactly one outcome notification")
}

func TestDecideApproveOutOfStock(t *testing.T) {
	eng, msngr, st := newTestEngine(t)
	ctx := context.Background()

	// plan "1" has no seeded credentials
	o, err := eng.StartOrder(ctx, 42, "1")
	require.NoError(t, err)
	require.NoError(t, eng.SubmitProof(ctx, 42, o.ID, "file-abc"))

	require.NoError(t, eng.Decide(ctx, 1, o.ID, true))

	got, err := st.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, got.Status, "approval stands despite empty stock")

	msgs := msngr.sentTo(42)
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[len(msgs)-1].text, "on the way")

	// out-of-stock alert reaches admins without action buttons
	last := msngr.broadcasts[len(msngr.broadcasts)-1]
	assert.Empty(t, last.OrderID)
	assert.Contains(t, last.Text, "no credentials left")
}

// failingProvider simulates a transient claim failure, e.g. a dropped
// database connection.
type failingProvider struct{}

func (failingProvider) Claim(context.Context, string, string) (credentials.Credential, error) {
	return credentials.Credential{}, errors.New("connection reset")
}

func TestDecideApproveClaimFailureIsNotStockAlert(t *testing.T) {
	cat, err := catalog.New([]catalog.Plan{{ID: "3", Name: "3 months", Price: 500}})
	require.NoError(t, err)

	msngr := &fakeMessenger{}
	st := store.NewMemory()
	eng, err := workflow.NewEngine(workflow.Options{
		Store:          st,
		Catalog:        cat,
		Credentials:    failingProvider{},
		Messenger:      msngr,
		AdminIDs:       []int64{1},
		PaymentDetails: "card 0000 0000",
	})
	require.NoError(t, err)
	ctx := context.Background()

	o, err := eng.StartOrder(ctx, 42, "3")
	require.NoError(t, err)
	require.NoError(t, eng.SubmitProof(ctx, 42, o.ID, "file-abc"))
	require.NoError(t, eng.Decide(ctx, 1, o.ID, true))

	got, err := st.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, got.Status, "approval stands despite the claim failure")

	msgs := msngr.sentTo(42)
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[len(msgs)-1].text, "on the way")

	last := msngr.broadcasts[len(msngr.broadcasts)-1]
	assert.Contains(t, last.Text, "delivery failed")
	assert.NotContains(t, last.Text, "no credentials left",
		"a transient claim failure must not read as empty stock")
}

func TestNotificationFailureDoesNotRollBack(t *testing.T) {
	eng, msngr, st := newTestEngine(t)
	ctx := context.Background()

	o, err := eng.StartOrder(ctx, 42, "3")
	require.NoError(t, err)
	require.NoError(t, eng.SubmitProof(ctx, 42, o.ID, "file-abc"))

	msngr.mu.Lock()
	msngr.failSends = true
	msngr.mu.Unlock()

	require.NoError(t, eng.Decide(ctx, 1, o.ID, true), "decide succeeds even when delivery fails")

	got, err := st.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, got.Status)
}

func TestEngineOptionValidation(t *testing.T) {
	cat, err := catalog.New([]catalog.Plan{{ID: "1", Name: "x", Price: 1}})
	require.NoError(t, err)
	base := workflow.Options{
		Store:       store.NewMemory(),
		Catalog:     cat,
		Credentials: credentials.NewMemory(nil),
		Messenger:   &fakeMessenger{},
		AdminIDs:    []int64{1},
	}

	for i, mutate := range []func(*workflow.Options){
		func(o *workflow.Options) { o.Store = nil },
		func(o *workflow.Options) { o.Catalog = nil },
		func(o *workflow.Options) { o.Credentials = nil },
		func(o *workflow.Options) { o.Messenger = nil },
		func(o *workflow.Options) { o.AdminIDs = nil },
	} {
		opts := base
		mutate(&opts)
		_, err := workflow.NewEngine(opts)
		assert.Error(t, err, fmt.Sprintf("case %d", i))
	}
}
