package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/reelmint-wallet-gateway/internal/domain/record"
	"github.com/reelmint-wallet-gateway/internal/platform/persistence"
)

// LedgerRepository implements the record.Repository interface for
// PostgreSQL. Records live in the same database as wallets so the append
// commits atomically with the balance mutation.
type LedgerRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewLedgerRepository creates a new PostgreSQL ledger repository
func NewLedgerRepository(logger *slog.Logger, db *persistence.PostgresDB) record.Repository {
	return &LedgerRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so the append is atomic
// with the wallet mutation it belongs to.
func (r *LedgerRepository) WithTx(tx pgx.Tx) record.Repository {
	return &LedgerRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create appends a new ledger record. The primary key on external_id is
// the persistence-level backstop behind the idempotency gate: a duplicate
// insert returns ErrDuplicateRecord and writes nothing.
func (r *LedgerRepository) Create(ctx context.Context, rec *record.Record) error {
	query := `
		INSERT INTO transaction_records
			(external_id, wallet_id, type, amount, round_ref, related_external_id, balance_after, cached_response, correlation_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.querier.Exec(ctx, query,
		rec.ExternalID,
		rec.WalletID,
		rec.Type,
		rec.Amount,
		rec.RoundRef,
		rec.RelatedExternalID,
		rec.BalanceAfter,
		rec.CachedResponse,
		rec.CorrelationID,
		rec.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return record.ErrDuplicateRecord{ExternalID: rec.ExternalID}
		}
		r.logger.Error("Failed to create ledger record", "external_id", rec.ExternalID, "error", err)
		return fmt.Errorf("failed to create ledger record: %w", err)
	}

	return nil
}

// GetByExternalID retrieves a ledger record by its external transaction id.
// Returns ErrRecordNotFound if no record exists.
func (r *LedgerRepository) GetByExternalID(ctx context.Context, externalID string) (*record.Record, error) {
	query := `
		SELECT external_id, wallet_id, type, amount, round_ref, related_external_id, balance_after, cached_response, correlation_id, created_at
		FROM transaction_records
		WHERE external_id = $1
	`

	rec, err := r.scanOne(ctx, query, externalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, record.ErrRecordNotFound{ExternalID: externalID}
		}
		r.logger.Error("Failed to get ledger record", "external_id", externalID, "error", err)
		return nil, fmt.Errorf("failed to get ledger record: %w", err)
	}

	return rec, nil
}

// GetDebitByExternalID retrieves the debit record with the given external
// id, used to fetch the original amount during rollback. Returns
// ErrRecordNotFound if no debit record exists under that id.
func (r *LedgerRepository) GetDebitByExternalID(ctx context.Context, externalID string) (*record.Record, error) {
	query := `
		SELECT external_id, wallet_id, type, amount, round_ref, related_external_id, balance_after, cached_response, correlation_id, created_at
		FROM transaction_records
		WHERE external_id = $1 AND type = $2
	`

	rec, err := r.scanOne(ctx, query, externalID, record.TypeDebit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, record.ErrRecordNotFound{ExternalID: externalID}
		}
		r.logger.Error("Failed to get debit record", "external_id", externalID, "error", err)
		return nil, fmt.Errorf("failed to get debit record: %w", err)
	}

	return rec, nil
}

// HasCreditForRound reports whether any credit record exists for the round
func (r *LedgerRepository) HasCreditForRound(ctx context.Context, roundRef string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM transaction_records WHERE round_ref = $1 AND type = $2
		)
	`

	var exists bool
	err := r.querier.QueryRow(ctx, query, roundRef, record.TypeCredit).Scan(&exists)
	if err != nil {
		r.logger.Error("Failed to check round for credits", "round_ref", roundRef, "error", err)
		return false, fmt.Errorf("failed to check round for credits: %w", err)
	}

	return exists, nil
}

// ListByWallet retrieves paginated ledger records for a wallet, newest first
func (r *LedgerRepository) ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*record.Record, error) {
	query := `
		SELECT external_id, wallet_id, type, amount, round_ref, related_external_id, balance_after, cached_response, correlation_id, created_at
		FROM transaction_records
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, walletID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list ledger records", "wallet_id", walletID.String(), "error", err)
		return nil, fmt.Errorf("failed to list ledger records: %w", err)
	}
	defer rows.Close()

	var records []*record.Record
	for rows.Next() {
		var rec record.Record
		if err := rows.Scan(
			&rec.ExternalID,
			&rec.WalletID,
			&rec.Type,
			&rec.Amount,
			&rec.RoundRef,
			&rec.RelatedExternalID,
			&rec.BalanceAfter,
			&rec.CachedResponse,
			&rec.CorrelationID,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger record: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger records: %w", err)
	}

	return records, nil
}

// CountByWallet counts the total number of ledger records for a wallet
func (r *LedgerRepository) CountByWallet(ctx context.Context, walletID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM transaction_records WHERE wallet_id = $1`

	var count int64
	err := r.querier.QueryRow(ctx, query, walletID).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count ledger records", "wallet_id", walletID.String(), "error", err)
		return 0, fmt.Errorf("failed to count ledger records: %w", err)
	}

	return count, nil
}

func (r *LedgerRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*record.Record, error) {
	var rec record.Record
	err := r.querier.QueryRow(ctx, query, args...).Scan(
		&rec.ExternalID,
		&rec.WalletID,
		&rec.Type,
		&rec.Amount,
		&rec.RoundRef,
		&rec.RelatedExternalID,
		&rec.BalanceAfter,
		&rec.CachedResponse,
		&rec.CorrelationID,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
