package credentials

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/shopbot/shop/errs"
)

func newMockVault(t *testing.T) (*Vault, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewVault(sqlx.NewDb(db, "postgres")), mock
}

func TestVaultClaim(t *testing.T) {
	v, mock := newMockVault(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, login, secret FROM credentials").
		WithArgs("basic").
		WillReturnRows(sqlmock.NewRows([]string{"id", "login", "secret"}).
			AddRow(int64(5), "acc-1", "pw-1"))
	mock.ExpectExec("UPDATE credentials SET order_id").
		WithArgs("ord-1", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	cred, err := v.Claim(context.Background(), "ord-1", "basic")
	require.NoError(t, err)
	assert.Equal(t, Credential{Login: "acc-1", Secret: "pw-1"}, cred)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVaultClaimEmptyStock(t *testing.T) {
	v, mock := newMockVault(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, login, secret FROM credentials").
		WithArgs("basic").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := v.Claim(context.Background(), "ord-1", "basic")
	assert.ErrorIs(t, err, errs.ErrNoCredentials)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVaultClaimBindFailureRollsBack(t *testing.T) {
	v, mock := newMockVault(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, login, secret FROM credentials").
		WithArgs("basic").
		WillReturnRows(sqlmock.NewRows([]string{"id", "login", "secret"}).
			AddRow(int64(5), "acc-1", "pw-1"))
	mock.ExpectExec("UPDATE credentials SET order_id").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := v.Claim(context.Background(), "ord-1", "basic")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrNoCredentials)
	require.NoError(t, mock.ExpectationsWereMet())
}
