package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWallet(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		w, err := NewWallet("player-1", "EUR", 1000000)
		require.NoError(t, err)
		assert.Equal(t, "player-1", w.PlayerRef)
		assert.Equal(t, "EUR", w.Currency)
		assert.Equal(t, int64(1000000), w.Balance)
		assert.NotZero(t, w.ID)
	})

	t.Run("EmptyPlayerRef", func(t *testing.T) {
		_, err := NewWallet("", "EUR", 0)
		assert.ErrorIs(t, err, ErrEmptyPlayerRef)
	})

	t.Run("BadCurrency", func(t *testing.T) {
		_, err := NewWallet("player-1", "EURO", 0)
		assert.ErrorIs(t, err, ErrInvalidCurrencyFormat)
	})

	t.Run("NegativeOpeningBalance", func(t *testing.T) {
		_, err := NewWallet("player-1", "EUR", -1)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestWallet_Debit(t *testing.T) {
	w, err := NewWallet("player-1", "EUR", 500)
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		require.NoError(t, w.Debit(200))
		assert.Equal(t, int64(300), w.Balance)
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		err := w.Debit(1000)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Equal(t, int64(300), w.Balance, "failed debit must not change balance")
	})

	t.Run("ExactBalance", func(t *testing.T) {
		require.NoError(t, w.Debit(300))
		assert.Equal(t, int64(0), w.Balance)
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		assert.ErrorIs(t, w.Debit(0), ErrInvalidAmount)
		assert.ErrorIs(t, w.Debit(-5), ErrInvalidAmount)
	})
}

func TestWallet_Credit(t *testing.T) {
	w, err := NewWallet("player-1", "EUR", 0)
	require.NoError(t, err)

	require.NoError(t, w.Credit(2500))
	assert.Equal(t, int64(2500), w.Balance)

	assert.ErrorIs(t, w.Credit(0), ErrInvalidAmount)
	assert.ErrorIs(t, w.Credit(-1), ErrInvalidAmount)
}

func TestWallet_CanDebit(t *testing.T) {
	w, err := NewWallet("player-1", "EUR", 100)
	require.NoError(t, err)

	assert.True(t, w.CanDebit(100))
	assert.False(t, w.CanDebit(101))
}
