// Package record defines the immutable transaction ledger: one record per
// accepted money movement, keyed by the caller-supplied external
// transaction id, carrying the balance snapshot and the exact response
// payload replayed on retries.
package record

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type defines possible money-movement operations
type Type string

const (
	TypeDebit    Type = "DEBIT"
	TypeCredit   Type = "CREDIT"
	TypeRollback Type = "ROLLBACK"
)

// Record is a single immutable ledger entry. Amount is non-negative; zero
// is permitted only for tombstoned rollbacks. BalanceAfter is the wallet
// balance immediately after this record was applied. CachedResponse is the
// payload returned to the caller, replayed verbatim on retries of the same
// ExternalID.
type Record struct {
	ExternalID        string          `json:"external_id"`
	WalletID          uuid.UUID       `json:"wallet_id"`
	Type              Type            `json:"type"`
	Amount            int64           `json:"amount"` // Minor units
	RoundRef          string          `json:"round_ref"`
	RelatedExternalID string          `json:"related_external_id,omitempty"`
	BalanceAfter      int64           `json:"balance_after"`
	CachedResponse    json.RawMessage `json:"cached_response"`
	CorrelationID     string          `json:"correlation_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// SignedEffect returns the delta this record applied to the wallet balance:
// negative for debits, positive for credits and rollback reversals, zero
// for tombstoned rollbacks.
func (r *Record) SignedEffect() int64 {
	switch r.Type {
	case TypeDebit:
		return -r.Amount
	case TypeCredit, TypeRollback:
		return r.Amount
	default:
		return 0
	}
}

// IsTombstone reports whether this is a zero-effect rollback written for an
// unknown original transaction id.
func (r *Record) IsTombstone() bool {
	return r.Type == TypeRollback && r.Amount == 0
}
