package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/reelmint-wallet-gateway/internal/domain/record"
)

// Status defines message publishing states
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusProcessed       Status = "PROCESSED"
	StatusFailedToPublish Status = "FAILED_TO_PUBLISH"
)

// Message stores a settled ledger record for reliable publishing to the
// audit pipeline. It is written in the same database transaction as the
// wallet mutation and the ledger append.
type Message struct {
	ID            int64           `json:"id"`
	ExternalID    string          `json:"external_id"`
	WalletID      uuid.UUID       `json:"wallet_id"`
	Payload       json.RawMessage `json:"payload"`
	Status        Status          `json:"status"`
	Attempts      int             `json:"attempts"`
	CreatedAt     time.Time       `json:"created_at"`
	LastAttemptAt *time.Time      `json:"last_attempt_at,omitempty"`
}

func NewMessage(rec *record.Record) (*Message, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}

	return &Message{
		ExternalID: rec.ExternalID,
		WalletID:   rec.WalletID,
		Payload:    payload,
		Status:     StatusPending,
		Attempts:   0,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsProcessed() {
	m.Status = StatusProcessed
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsFailed() {
	m.Status = StatusFailedToPublish
	now := time.Now()
	m.LastAttemptAt = &now
}

// GetRecord extracts the ledger record from the payload
func (m *Message) GetRecord() (*record.Record, error) {
	var rec record.Record
	if err := json.Unmarshal(m.Payload, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
