package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository manages archived ledger entries with pagination support.
// Upsert must be idempotent on ExternalID: settlement events are delivered
// at-least-once and replays must not create duplicate archive entries.
type Repository interface {
	Upsert(ctx context.Context, entry *Entry) error
	GetByExternalID(ctx context.Context, externalID string) (*Entry, error)
	ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*Entry, error)
	ListByRound(ctx context.Context, roundRef string) ([]*Entry, error)
	CountByWallet(ctx context.Context, walletID uuid.UUID) (int64, error)
	ListByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*Entry, error)
}

// ErrEntryNotFound indicates missing archive entry
type ErrEntryNotFound struct {
	ExternalID string
}

func (e ErrEntryNotFound) Error() string {
	return "audit entry not found: " + e.ExternalID
}

// Is implements the errors.Is interface for ErrEntryNotFound
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	if t.ExternalID == "" {
		return true
	}
	return e.ExternalID == t.ExternalID
}
