package record

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository manages ledger record persistence. Records are append-only:
// there is no update operation, and Create enforces uniqueness of
// ExternalID as the persistence-level backstop behind the idempotency gate.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	GetByExternalID(ctx context.Context, externalID string) (*Record, error)

	// GetDebitByExternalID returns the record only if it exists and is a
	// debit; a non-debit record yields ErrRecordNotFound semantics at the
	// call site via the returned record's Type.
	GetDebitByExternalID(ctx context.Context, externalID string) (*Record, error)

	// HasCreditForRound reports whether any credit record exists for the
	// round, which permanently locks its debits against rollback.
	HasCreditForRound(ctx context.Context, roundRef string) (bool, error)

	ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*Record, error)
	CountByWallet(ctx context.Context, walletID uuid.UUID) (int64, error)

	WithTx(tx pgx.Tx) Repository
}

// ErrRecordNotFound indicates no ledger record exists for the external id
type ErrRecordNotFound struct {
	ExternalID string
}

func (e ErrRecordNotFound) Error() string {
	return "ledger record not found: " + e.ExternalID
}

// Is implements the errors.Is interface for ErrRecordNotFound
func (e ErrRecordNotFound) Is(target error) bool {
	t, ok := target.(ErrRecordNotFound)
	if !ok {
		return false
	}
	// An empty target ExternalID matches any ErrRecordNotFound
	if t.ExternalID == "" {
		return true
	}
	return e.ExternalID == t.ExternalID
}

// ErrDuplicateRecord indicates external transaction id uniqueness violation
type ErrDuplicateRecord struct {
	ExternalID string
}

func (e ErrDuplicateRecord) Error() string {
	return "duplicate ledger record: " + e.ExternalID
}

// Is implements the errors.Is interface for ErrDuplicateRecord
func (e ErrDuplicateRecord) Is(target error) bool {
	t, ok := target.(ErrDuplicateRecord)
	if !ok {
		return false
	}
	if t.ExternalID == "" {
		return true
	}
	return e.ExternalID == t.ExternalID
}
