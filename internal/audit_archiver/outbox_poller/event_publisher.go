package outbox_poller

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/reelmint-wallet-gateway/internal/domain/outbox"
	"github.com/reelmint-wallet-gateway/internal/platform/messaging/producers"
)

// SettlementPublisher pushes outbox messages onto the settlement topic
type SettlementPublisher interface {
	PublishSettlement(ctx context.Context, message *outbox.Message) error
}

// SettlementPublisherImpl implements SettlementPublisher. The event is
// keyed by external transaction id so all settlements of one id land in
// one partition, and the outbox row is only marked PROCESSED after the
// broker has acknowledged the write.
type SettlementPublisherImpl struct {
	outboxRepo outbox.Repository
	producer   producers.MessagePublisher
	logger     *slog.Logger
}

// NewSettlementPublisher creates a new publisher
func NewSettlementPublisher(
	outboxRepo outbox.Repository,
	producer producers.MessagePublisher,
	logger *slog.Logger,
) SettlementPublisher {
	return &SettlementPublisherImpl{
		outboxRepo: outboxRepo,
		producer:   producer,
		logger:     logger,
	}
}

// PublishSettlement publishes one outbox message and marks it processed
func (p *SettlementPublisherImpl) PublishSettlement(ctx context.Context, message *outbox.Message) error {
	logger := p.logger
	if rec, err := message.GetRecord(); err == nil && rec.CorrelationID != "" {
		logger = p.logger.With("correlation_id", rec.CorrelationID)
	}

	logger.Debug("Publishing settlement event",
		"outbox_id", message.ID,
		"external_id", message.ExternalID,
	)

	// Payload is the ledger record already serialized at settlement time
	if err := p.producer.Publish(ctx, message.ExternalID, json.RawMessage(message.Payload)); err != nil {
		return fmt.Errorf("failed to publish settlement event for outbox %d: %w", message.ID, err)
	}

	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, outbox.StatusProcessed); err != nil {
		logger.Error("Event published but failed to mark outbox message as PROCESSED",
			"outbox_id", message.ID,
			"external_id", message.ExternalID,
			"error", err,
		)
		// The consumer tolerates the redelivery this causes: archiving
		// upserts by external id.
		return fmt.Errorf("event for %s published, but failed to mark outbox %d as PROCESSED: %w", message.ExternalID, message.ID, err)
	}

	logger.Info("Settlement event published",
		"outbox_id", message.ID,
		"external_id", message.ExternalID,
	)
	return nil
}
