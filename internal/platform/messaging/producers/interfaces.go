package producers

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// MessagePublisher publishes settlement events to the primary topic. The
// outbox poller keys each message by external transaction id, so replays
// of one settlement always hash to the same partition.
type MessagePublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// DeadLetterPublisher parks events the archiver cannot decode or process.
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error
	Close() error
}

// KafkaWriter wraps kafka.Writer methods for testing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}
