package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/shopbot/shop/errs"
	"github.com/m3rciful/shopbot/shop/order"
)

func newMockStore(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgres(sqlx.NewDb(db, "postgres")), mock
}

func orderRows(o order.Order) *sqlmock.Rows {
	var proof interface{}
	if o.ProofRef != "" {
		proof = o.ProofRef
	}
	return sqlmock.NewRows([]string{
		"id", "buyer_id", "plan_id", "price", "currency", "status", "proof_ref", "created_at", "updated_at",
	}).AddRow(o.ID, o.BuyerID, o.PlanID, o.Price, o.Currency, string(o.Status), proof, o.CreatedAt, o.UpdatedAt)
}

func TestPostgresUpdateApplied(t *testing.T) {
	st, mock := newMockStore(t)

	o := order.New(42, "basic", 100, "RUB")
	updated, err := o.WithProof("photo:abc")
	require.NoError(t, err)

	mock.ExpectExec("UPDATE orders").
		WithArgs(string(order.StatusAwaitingVerification), sqlmock.AnyArg(), sqlmock.AnyArg(), o.ID, string(order.StatusAwaitingPayment)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, st.Update(context.Background(), updated, o.Status))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateLostRace(t *testing.T) {
	st, mock := newMockStore(t)

	o := order.New(42, "basic", 100, "RUB")
	withProof, err := o.WithProof("photo:abc")
	require.NoError(t, err)
	winner, err := withProof.Decided(true)
	require.NoError(t, err)
	loser, err := withProof.Decided(false)
	require.NoError(t, err)

	// the CAS matches zero rows: another decision got there first
	mock.ExpectExec("UPDATE orders").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, buyer_id").
		WithArgs(o.ID).
		WillReturnRows(orderRows(winner))

	err = st.Update(context.Background(), loser, withProof.Status)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateNotFound(t *testing.T) {
	st, mock := newMockStore(t)

	o := order.New(42, "basic", 100, "RUB")
	updated, err := o.WithProof("photo:abc")
	require.NoError(t, err)

	mock.ExpectExec("UPDATE orders").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, buyer_id").
		WithArgs(o.ID).
		WillReturnError(sql.ErrNoRows)

	err = st.Update(context.Background(), updated, o.Status)
	assert.ErrorIs(t, err, errs.ErrOrderNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetNotFound(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, buyer_id").
		WithArgs("no-such-id").
		WillReturnError(sql.ErrNoRows)

	_, err := st.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, errs.ErrOrderNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetRoundTrip(t *testing.T) {
	st, mock := newMockStore(t)

	o := order.New(42, "basic", 100, "RUB")
	withProof, err := o.WithProof("photo:abc")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, buyer_id").
		WithArgs(o.ID).
		WillReturnRows(orderRows(withProof))

	got, err := st.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, withProof.Status, got.Status)
	assert.Equal(t, "photo:abc", got.ProofRef)
	require.NoError(t, mock.ExpectationsWereMet())
}
