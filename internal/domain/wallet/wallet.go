package wallet

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrInsufficientFunds     = errors.New("insufficient funds for debit")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrEmptyPlayerRef        = errors.New("player reference cannot be empty")
	ErrInvalidCurrencyFormat = errors.New("currency must be a 3-letter code")
)

// Wallet is the authoritative balance record for one player/currency pair.
// Balance is stored in minor currency units and is mutated exclusively by
// the ledger engine; it never goes negative.
type Wallet struct {
	ID        uuid.UUID `json:"id"`
	PlayerRef string    `json:"player_ref"`
	Currency  string    `json:"currency"`
	Balance   int64     `json:"balance"` // Minor units
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewWallet creates a new wallet for the given player and currency
func NewWallet(playerRef string, currency string, openingBalance int64) (*Wallet, error) {
	if playerRef == "" {
		return nil, ErrEmptyPlayerRef
	}
	if len(currency) != 3 { // Basic validation for currency code length
		return nil, ErrInvalidCurrencyFormat
	}
	if openingBalance < 0 {
		return nil, ErrInvalidAmount
	}

	return &Wallet{
		ID:        uuid.New(),
		PlayerRef: playerRef,
		Currency:  currency,
		Balance:   openingBalance,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

// Credit adds the specified amount to the wallet balance
func (w *Wallet) Credit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	w.Balance += amount
	w.UpdatedAt = time.Now()
	return nil
}

// Debit subtracts the specified amount from the wallet balance
func (w *Wallet) Debit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if w.Balance < amount {
		return ErrInsufficientFunds
	}

	w.Balance -= amount
	w.UpdatedAt = time.Now()
	return nil
}

// CanDebit checks if the wallet has sufficient funds for a debit
func (w *Wallet) CanDebit(amount int64) bool {
	return w.Balance >= amount
}
