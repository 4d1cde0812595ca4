package service

import (
	"context"

	"github.com/reelmint-wallet-gateway/internal/domain/record"
)

// ArchiveService writes settled ledger records into the audit store.
// Archiving must be idempotent per external transaction id: the settlement
// pipeline delivers at-least-once.
type ArchiveService interface {
	ArchiveRecord(ctx context.Context, rec *record.Record) error
}
