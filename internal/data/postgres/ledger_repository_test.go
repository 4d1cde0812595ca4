package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/reelmint-wallet-gateway/internal/domain/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ledgerColumnsQuery = `
		SELECT external_id, wallet_id, type, amount, round_ref, related_external_id, balance_after, cached_response, correlation_id, created_at
		FROM transaction_records
`

func ledgerColumns() []string {
	return []string{"external_id", "wallet_id", "type", "amount", "round_ref", "related_external_id", "balance_after", "cached_response", "correlation_id", "created_at"}
}

func sampleRecord() *record.Record {
	return &record.Record{
		ExternalID:     "tx-1001",
		WalletID:       uuid.New(),
		Type:           record.TypeDebit,
		Amount:         1000,
		RoundRef:       "round-55",
		BalanceAfter:   999000,
		CachedResponse: json.RawMessage(`{"balance":999000}`),
		CorrelationID:  "corr-1",
		CreatedAt:      time.Now(),
	}
}

func TestLedgerRepository_Create(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &LedgerRepository{querier: mock, logger: logger}
	rec := sampleRecord()

	query := `
		INSERT INTO transaction_records
			\(external_id, wallet_id, type, amount, round_ref, related_external_id, balance_after, cached_response, correlation_id, created_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9, \$10\)
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(rec.ExternalID, rec.WalletID, rec.Type, rec.Amount, rec.RoundRef, rec.RelatedExternalID, rec.BalanceAfter, rec.CachedResponse, rec.CorrelationID, rec.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Create(ctx, rec)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate external id", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(rec.ExternalID, rec.WalletID, rec.Type, rec.Amount, rec.RoundRef, rec.RelatedExternalID, rec.BalanceAfter, rec.CachedResponse, rec.CorrelationID, rec.CreatedAt).
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

		err := repo.Create(ctx, rec)
		assert.Error(t, err)
		var dupErr record.ErrDuplicateRecord
		assert.ErrorAs(t, err, &dupErr)
		assert.Equal(t, rec.ExternalID, dupErr.ExternalID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(rec.ExternalID, rec.WalletID, rec.Type, rec.Amount, rec.RoundRef, rec.RelatedExternalID, rec.BalanceAfter, rec.CachedResponse, rec.CorrelationID, rec.CreatedAt).
			WillReturnError(dbErr)

		err := repo.Create(ctx, rec)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create ledger record")
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerRepository_GetByExternalID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &LedgerRepository{querier: mock, logger: logger}
	expected := sampleRecord()

	query := ledgerColumnsQuery + `		WHERE external_id = \$1
	`
	rows := pgxmock.NewRows(ledgerColumns()).
		AddRow(expected.ExternalID, expected.WalletID, expected.Type, expected.Amount, expected.RoundRef, expected.RelatedExternalID, expected.BalanceAfter, expected.CachedResponse, expected.CorrelationID, expected.CreatedAt)

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(expected.ExternalID).WillReturnRows(rows)

		rec, err := repo.GetByExternalID(ctx, expected.ExternalID)
		assert.NoError(t, err)
		assert.Equal(t, expected, rec)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("tx-missing").WillReturnError(pgx.ErrNoRows)

		rec, err := repo.GetByExternalID(ctx, "tx-missing")
		assert.Error(t, err)
		assert.Nil(t, rec)
		var notFoundErr record.ErrRecordNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, "tx-missing", notFoundErr.ExternalID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("some db error")
		mock.ExpectQuery(query).WithArgs(expected.ExternalID).WillReturnError(dbErr)

		rec, err := repo.GetByExternalID(ctx, expected.ExternalID)
		assert.Error(t, err)
		assert.Nil(t, rec)
		assert.Contains(t, err.Error(), "failed to get ledger record")
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerRepository_GetDebitByExternalID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &LedgerRepository{querier: mock, logger: logger}
	expected := sampleRecord()

	query := ledgerColumnsQuery + `		WHERE external_id = \$1 AND type = \$2
	`
	rows := pgxmock.NewRows(ledgerColumns()).
		AddRow(expected.ExternalID, expected.WalletID, expected.Type, expected.Amount, expected.RoundRef, expected.RelatedExternalID, expected.BalanceAfter, expected.CachedResponse, expected.CorrelationID, expected.CreatedAt)

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(expected.ExternalID, record.TypeDebit).WillReturnRows(rows)

		rec, err := repo.GetDebitByExternalID(ctx, expected.ExternalID)
		assert.NoError(t, err)
		assert.Equal(t, expected, rec)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no debit under that id", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("tx-credit-only", record.TypeDebit).WillReturnError(pgx.ErrNoRows)

		rec, err := repo.GetDebitByExternalID(ctx, "tx-credit-only")
		assert.Error(t, err)
		assert.Nil(t, rec)
		assert.ErrorIs(t, err, record.ErrRecordNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerRepository_HasCreditForRound(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &LedgerRepository{querier: mock, logger: logger}

	query := `
		SELECT EXISTS \(
			SELECT 1 FROM transaction_records WHERE round_ref = \$1 AND type = \$2
		\)
	`

	t.Run("round settled", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"exists"}).AddRow(true)
		mock.ExpectQuery(query).WithArgs("round-55", record.TypeCredit).WillReturnRows(rows)

		settled, err := repo.HasCreditForRound(ctx, "round-55")
		assert.NoError(t, err)
		assert.True(t, settled)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("round open", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"exists"}).AddRow(false)
		mock.ExpectQuery(query).WithArgs("round-56", record.TypeCredit).WillReturnRows(rows)

		settled, err := repo.HasCreditForRound(ctx, "round-56")
		assert.NoError(t, err)
		assert.False(t, settled)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("some db error")
		mock.ExpectQuery(query).WithArgs("round-55", record.TypeCredit).WillReturnError(dbErr)

		settled, err := repo.HasCreditForRound(ctx, "round-55")
		assert.Error(t, err)
		assert.False(t, settled)
		assert.Contains(t, err.Error(), "failed to check round for credits")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerRepository_ListByWallet(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &LedgerRepository{querier: mock, logger: logger}
	walletID := uuid.New()
	now := time.Now()

	query := ledgerColumnsQuery + `		WHERE wallet_id = \$1
		ORDER BY created_at DESC
		LIMIT \$2 OFFSET \$3
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows(ledgerColumns()).
			AddRow("tx-2", walletID, record.TypeCredit, int64(2000), "round-55", "", int64(1001000), json.RawMessage(`{"balance":1001000}`), "corr-2", now).
			AddRow("tx-1", walletID, record.TypeDebit, int64(1000), "round-55", "", int64(999000), json.RawMessage(`{"balance":999000}`), "corr-1", now.Add(-time.Minute))
		mock.ExpectQuery(query).WithArgs(walletID, 10, 0).WillReturnRows(rows)

		records, err := repo.ListByWallet(ctx, walletID, 10, 0)
		assert.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "tx-2", records[0].ExternalID)
		assert.Equal(t, record.TypeDebit, records[1].Type)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(walletID, 10, 0).WillReturnRows(pgxmock.NewRows(ledgerColumns()))

		records, err := repo.ListByWallet(ctx, walletID, 10, 0)
		assert.NoError(t, err)
		assert.Empty(t, records)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("list db error")
		mock.ExpectQuery(query).WithArgs(walletID, 10, 0).WillReturnError(dbErr)

		records, err := repo.ListByWallet(ctx, walletID, 10, 0)
		assert.Error(t, err)
		assert.Nil(t, records)
		assert.Contains(t, err.Error(), "failed to list ledger records")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerRepository_CountByWallet(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &LedgerRepository{querier: mock, logger: logger}
	walletID := uuid.New()

	query := `SELECT COUNT\(\*\) FROM transaction_records WHERE wallet_id = \$1`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"count"}).AddRow(int64(42))
		mock.ExpectQuery(query).WithArgs(walletID).WillReturnRows(rows)

		count, err := repo.CountByWallet(ctx, walletID)
		assert.NoError(t, err)
		assert.Equal(t, int64(42), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("count db error")
		mock.ExpectQuery(query).WithArgs(walletID).WillReturnError(dbErr)

		count, err := repo.CountByWallet(ctx, walletID)
		assert.Error(t, err)
		assert.Zero(t, count)
		assert.Contains(t, err.Error(), "failed to count ledger records")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
