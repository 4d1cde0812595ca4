package outbox

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/reelmint-wallet-gateway/internal/domain/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	rec := &record.Record{
		ExternalID:   "ext-42",
		WalletID:     uuid.New(),
		Type:         record.TypeDebit,
		Amount:       1000,
		RoundRef:     "round-1",
		BalanceAfter: 999000,
		CreatedAt:    time.Now().Add(-time.Minute),
	}

	beforeCreation := time.Now()
	msg, err := NewMessage(rec)
	afterCreation := time.Now()

	require.NoError(t, err)
	require.NotNil(t, msg)

	assert.Equal(t, rec.ExternalID, msg.ExternalID)
	assert.Equal(t, rec.WalletID, msg.WalletID)
	assert.Equal(t, StatusPending, msg.Status)
	assert.Equal(t, 0, msg.Attempts)
	assert.Nil(t, msg.LastAttemptAt)
	assert.WithinDuration(t, beforeCreation, msg.CreatedAt, afterCreation.Sub(beforeCreation)+time.Millisecond)

	// Check payload round-trips the record
	var decoded record.Record
	err = json.Unmarshal(msg.Payload, &decoded)
	require.NoError(t, err)
	assert.Equal(t, rec.ExternalID, decoded.ExternalID)
	assert.Equal(t, rec.Amount, decoded.Amount)
	assert.Equal(t, rec.BalanceAfter, decoded.BalanceAfter)
}

func TestMessage_IncrementAttempts(t *testing.T) {
	initialTime := time.Now().Add(-time.Hour)
	msg := &Message{
		Attempts:      1,
		LastAttemptAt: &initialTime,
	}

	time.Sleep(10 * time.Millisecond) // Ensure time changes
	msg.IncrementAttempts()

	assert.Equal(t, 2, msg.Attempts)
	require.NotNil(t, msg.LastAttemptAt)
	assert.True(t, msg.LastAttemptAt.After(initialTime))
}

func TestMessage_MarkAsProcessed(t *testing.T) {
	msg := &Message{Status: StatusPending}
	msg.MarkAsProcessed()

	assert.Equal(t, StatusProcessed, msg.Status)
	require.NotNil(t, msg.LastAttemptAt)
}

func TestMessage_MarkAsFailed(t *testing.T) {
	msg := &Message{Status: StatusPending}
	msg.MarkAsFailed()

	assert.Equal(t, StatusFailedToPublish, msg.Status)
	require.NotNil(t, msg.LastAttemptAt)
}

func TestMessage_GetRecord(t *testing.T) {
	original := &record.Record{
		ExternalID:   "ext-7",
		WalletID:     uuid.New(),
		Type:         record.TypeRollback,
		Amount:       500,
		RoundRef:     "round-9",
		BalanceAfter: 1500,
		CreatedAt:    time.Now().Truncate(time.Millisecond),
	}
	payload, err := json.Marshal(original)
	require.NoError(t, err)

	msg := &Message{Payload: payload}
	decoded, err := msg.GetRecord()

	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.Equal(t, original.ExternalID, decoded.ExternalID)
	assert.Equal(t, original.Type, decoded.Type)
	assert.Equal(t, original.Amount, decoded.Amount)
	assert.True(t, original.CreatedAt.Equal(decoded.CreatedAt), "CreatedAt should match")
}
