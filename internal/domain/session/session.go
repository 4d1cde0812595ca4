// Package session models the registry that maps an opaque session
// reference to a wallet and its bet-size bounds. The ledger engine treats
// the registry's answers as read-only facts; session, round, and external
// transaction ids are opaque string keys with no cross-domain foreign keys.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyRef       = errors.New("session reference cannot be empty")
	ErrInvalidBetSpan = errors.New("max bet must not be less than min bet")
)

// Session associates a provider-issued session reference with a wallet and
// the bet bounds enforced on debits placed through it.
type Session struct {
	Ref       string    `json:"ref"`
	WalletID  uuid.UUID `json:"wallet_id"`
	GameCode  string    `json:"game_code"`
	MinBet    int64     `json:"min_bet"` // Minor units, inclusive
	MaxBet    int64     `json:"max_bet"` // Minor units, inclusive
	CreatedAt time.Time `json:"created_at"`
}

// NewSession creates a session binding a wallet to a game with bet bounds
func NewSession(ref string, walletID uuid.UUID, gameCode string, minBet, maxBet int64) (*Session, error) {
	if ref == "" {
		return nil, ErrEmptyRef
	}
	if maxBet < minBet {
		return nil, ErrInvalidBetSpan
	}

	return &Session{
		Ref:       ref,
		WalletID:  walletID,
		GameCode:  gameCode,
		MinBet:    minBet,
		MaxBet:    maxBet,
		CreatedAt: time.Now(),
	}, nil
}

// AllowsBet reports whether amount lies within [MinBet, MaxBet] inclusive
func (s *Session) AllowsBet(amount int64) bool {
	return amount >= s.MinBet && amount <= s.MaxBet
}
