package wallet

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines wallet persistence operations
type Repository interface {
	Create(ctx context.Context, w *Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*Wallet, error)
	GetByPlayerAndCurrency(ctx context.Context, playerRef, currency string) (*Wallet, error)

	// LockForUpdate acquires a pessimistic row lock for settlement. All
	// mutations on one wallet serialize behind this lock; wallets never
	// block each other.
	LockForUpdate(ctx context.Context, id uuid.UUID) (*Wallet, error)

	// SetBalance persists the balance computed under the row lock
	SetBalance(ctx context.Context, id uuid.UUID, balance int64) error

	WithTx(tx pgx.Tx) Repository
}

// ErrWalletNotFound indicates missing wallet
type ErrWalletNotFound struct {
	WalletID uuid.UUID
}

func (e ErrWalletNotFound) Error() string {
	return "wallet not found: " + e.WalletID.String()
}

// Is implements the errors.Is interface for ErrWalletNotFound
func (e ErrWalletNotFound) Is(target error) bool {
	t, ok := target.(ErrWalletNotFound)
	if !ok {
		return false
	}
	if t.WalletID == uuid.Nil {
		return true
	}
	return e.WalletID == t.WalletID
}

// ErrDuplicateWallet indicates the player/currency pair already has a wallet
type ErrDuplicateWallet struct {
	PlayerRef string
	Currency  string
}

func (e ErrDuplicateWallet) Error() string {
	return "wallet already exists for player " + e.PlayerRef + " in " + e.Currency
}
