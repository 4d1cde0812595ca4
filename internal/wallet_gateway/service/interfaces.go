package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/reelmint-wallet-gateway/internal/domain/record"
	"github.com/reelmint-wallet-gateway/internal/domain/session"
	"github.com/reelmint-wallet-gateway/internal/domain/wallet"
)

// DebitRequest places a bet against the wallet behind a session
type DebitRequest struct {
	SessionRef    string
	ExternalID    string
	RoundRef      string
	Amount        int64 // Minor units
	CorrelationID string
}

// CreditRequest pays out a win. RelatedExternalID optionally references
// the debit being paid out.
type CreditRequest struct {
	SessionRef        string
	ExternalID        string
	RoundRef          string
	Amount            int64 // Minor units
	RelatedExternalID string
	CorrelationID     string
}

// RollbackRequest reverses the debit identified by OriginalExternalID
type RollbackRequest struct {
	SessionRef         string
	ExternalID         string
	RoundRef           string
	OriginalExternalID string
	CorrelationID      string
}

// BalanceResult is the read-only balance snapshot for a session's wallet
type BalanceResult struct {
	Balance  int64  `json:"balance"` // Minor units
	Currency string `json:"currency"`
}

// LedgerEngine settles money movements against player wallets with
// exactly-once effect per external transaction id.
//
// The returned payload is the exact bytes registered for the external id:
// a replay of an already-settled id returns the original payload
// byte-for-byte, regardless of the wallet's current state.
type LedgerEngine interface {
	// Debit withdraws a bet. Fails with session.ErrSessionNotFound,
	// ErrAmountOutOfRange, or wallet.ErrInsufficientFunds; only the
	// insufficient-funds failure is retryable with the same id.
	Debit(ctx context.Context, req *DebitRequest) (json.RawMessage, error)

	// Credit deposits a payout. Never fails on balance.
	Credit(ctx context.Context, req *CreditRequest) (json.RawMessage, error)

	// Rollback reverses the referenced debit, or writes a zero-effect
	// tombstone when the reference is unknown. Fails with
	// ErrInvalidRollbackTarget or ErrRollbackAfterPayout.
	Rollback(ctx context.Context, req *RollbackRequest) (json.RawMessage, error)

	// Balance reads the wallet balance behind a session. No idempotency
	// key, safe to call any number of times.
	Balance(ctx context.Context, sessionRef string) (*BalanceResult, error)
}

// CatalogService manages the operator-facing catalog: wallets, sessions,
// and transaction history. It never mutates balances.
type CatalogService interface {
	// CreateWallet provisions a wallet for a player/currency pair.
	// Returns wallet.ErrDuplicateWallet if the pair already has one.
	CreateWallet(ctx context.Context, playerRef, currency string, openingBalance int64) (*wallet.Wallet, error)

	// GetWallet retrieves a wallet by its ID
	GetWallet(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error)

	// CreateSession registers a session binding a wallet to a game with
	// bet bounds; zero bounds fall back to the configured defaults.
	CreateSession(ctx context.Context, ref string, walletID uuid.UUID, gameCode string, minBet, maxBet int64) (*session.Session, error)

	// GetSession resolves a session by its reference
	GetSession(ctx context.Context, ref string) (*session.Session, error)

	// GetWalletTransactions retrieves paginated ledger records for a
	// wallet plus the total count.
	GetWalletTransactions(ctx context.Context, walletID uuid.UUID, page, perPage int) ([]*record.Record, int64, error)
}

// ErrAmountOutOfRange indicates a debit outside the session's bet bounds
type ErrAmountOutOfRange struct {
	Amount int64
	MinBet int64
	MaxBet int64
}

func (e ErrAmountOutOfRange) Error() string {
	return fmt.Sprintf("debit amount %d outside bet bounds [%d, %d]", e.Amount, e.MinBet, e.MaxBet)
}

// Is implements the errors.Is interface for ErrAmountOutOfRange
func (e ErrAmountOutOfRange) Is(target error) bool {
	_, ok := target.(ErrAmountOutOfRange)
	return ok
}

// ErrInvalidRollbackTarget indicates the rollback references a record that
// exists but is not a debit
type ErrInvalidRollbackTarget struct {
	OriginalExternalID string
}

func (e ErrInvalidRollbackTarget) Error() string {
	return "rollback target is not a debit: " + e.OriginalExternalID
}

// Is implements the errors.Is interface for ErrInvalidRollbackTarget
func (e ErrInvalidRollbackTarget) Is(target error) bool {
	t, ok := target.(ErrInvalidRollbackTarget)
	if !ok {
		return false
	}
	if t.OriginalExternalID == "" {
		return true
	}
	return e.OriginalExternalID == t.OriginalExternalID
}

// ErrRollbackAfterPayout indicates the debit's round already holds a
// credit, permanently locking its debits against rollback
type ErrRollbackAfterPayout struct {
	RoundRef string
}

func (e ErrRollbackAfterPayout) Error() string {
	return "round already settled by a credit: " + e.RoundRef
}

// Is implements the errors.Is interface for ErrRollbackAfterPayout
func (e ErrRollbackAfterPayout) Is(target error) bool {
	t, ok := target.(ErrRollbackAfterPayout)
	if !ok {
		return false
	}
	if t.RoundRef == "" {
		return true
	}
	return e.RoundRef == t.RoundRef
}
