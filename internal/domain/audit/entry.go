// Package audit models the archived copy of the transaction ledger. The
// audit archiver consumes settlement events and stores one entry per
// ledger record in MongoDB for long-term reporting queries, without
// touching the settlement path.
package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/reelmint-wallet-gateway/internal/domain/record"
)

// Entry is an archived ledger record. It mirrors the settled record
// exactly; the archive is a read model and never the source of truth.
type Entry struct {
	ExternalID        string      `json:"external_id" bson:"external_id"`
	WalletID          uuid.UUID   `json:"wallet_id" bson:"wallet_id"`
	Type              record.Type `json:"type" bson:"type"`
	Amount            int64       `json:"amount" bson:"amount"` // Minor units
	RoundRef          string      `json:"round_ref" bson:"round_ref"`
	RelatedExternalID string      `json:"related_external_id,omitempty" bson:"related_external_id,omitempty"`
	BalanceAfter      int64       `json:"balance_after" bson:"balance_after"`
	CorrelationID     string      `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	SettledAt         time.Time   `json:"settled_at" bson:"settled_at"`
	ArchivedAt        time.Time   `json:"archived_at" bson:"archived_at"`
}

// NewEntry builds an archive entry from a settled ledger record
func NewEntry(rec *record.Record) *Entry {
	return &Entry{
		ExternalID:        rec.ExternalID,
		WalletID:          rec.WalletID,
		Type:              rec.Type,
		Amount:            rec.Amount,
		RoundRef:          rec.RoundRef,
		RelatedExternalID: rec.RelatedExternalID,
		BalanceAfter:      rec.BalanceAfter,
		CorrelationID:     rec.CorrelationID,
		SettledAt:         rec.CreatedAt,
		ArchivedAt:        time.Now(),
	}
}
