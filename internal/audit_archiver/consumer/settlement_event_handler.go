package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/reelmint-wallet-gateway/internal/audit_archiver/service"
	"github.com/reelmint-wallet-gateway/internal/domain/record"
	"github.com/reelmint-wallet-gateway/internal/platform/messaging/producers"
)

// SettlementEventHandler handles settlement events from Kafka and feeds
// them into the archive service. Undecodable messages go to the DLQ so a
// poisoned event cannot wedge the partition.
type SettlementEventHandler struct {
	archiveService service.ArchiveService
	producer       producers.DeadLetterPublisher
	logger         *slog.Logger
}

// NewSettlementEventHandler creates a new handler
func NewSettlementEventHandler(
	logger *slog.Logger,
	archiveService service.ArchiveService,
	producer producers.DeadLetterPublisher,
) *SettlementEventHandler {
	return &SettlementEventHandler{
		archiveService: archiveService,
		producer:       producer,
		logger:         logger,
	}
}

// HandleMessage processes Kafka messages
func (h *SettlementEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var rec record.Record
	if err := json.Unmarshal(value, &rec); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal ledger record from settlement event"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish settlement event to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
			} else {
				h.logger.Info("Published unprocessable settlement event to DLQ", "message_key", string(key), "reason", dlqReason)
				// Message handled, commit offset
				return nil
			}
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	logger := h.logger
	if rec.CorrelationID != "" {
		logger = h.logger.With("correlation_id", rec.CorrelationID)
	}

	logger.Info("Received settlement event for archiving",
		"external_id", rec.ExternalID,
		"wallet_id", rec.WalletID.String(),
		"type", rec.Type,
		"amount", rec.Amount,
	)

	if err := h.archiveService.ArchiveRecord(ctx, &rec); err != nil {
		logger.Error("Failed to archive settlement event",
			"external_id", rec.ExternalID,
			"error", err,
		)
		// Leave the offset uncommitted so the event is redelivered
		return fmt.Errorf("archiving record %s failed: %w", rec.ExternalID, err)
	}

	logger.Info("Settlement event archived", "external_id", rec.ExternalID)
	return nil
}
