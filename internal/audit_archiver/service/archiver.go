package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reelmint-wallet-gateway/internal/domain/audit"
	"github.com/reelmint-wallet-gateway/internal/domain/record"
)

// ArchiverImpl implements the ArchiveService interface on top of the
// Mongo audit store. Upserting by external id makes redelivered
// settlement events harmless.
type ArchiverImpl struct {
	auditRepo audit.Repository
	logger    *slog.Logger
}

// NewArchiver creates a new archive service
func NewArchiver(logger *slog.Logger, auditRepo audit.Repository) ArchiveService {
	return &ArchiverImpl{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// ArchiveRecord maps a settled ledger record to an audit entry and upserts it
func (s *ArchiverImpl) ArchiveRecord(ctx context.Context, rec *record.Record) error {
	logger := s.logger
	if rec.CorrelationID != "" {
		logger = s.logger.With("correlation_id", rec.CorrelationID)
	}

	entry := audit.NewEntry(rec)
	if err := s.auditRepo.Upsert(ctx, entry); err != nil {
		logger.Error("Failed to archive ledger record",
			"external_id", rec.ExternalID,
			"wallet_id", rec.WalletID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to archive record %s: %w", rec.ExternalID, err)
	}

	logger.Info("Archived ledger record",
		"external_id", rec.ExternalID,
		"type", rec.Type,
		"amount", rec.Amount,
	)
	return nil
}
