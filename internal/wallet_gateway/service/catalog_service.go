package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/reelmint-wallet-gateway/internal/config"
	"github.com/reelmint-wallet-gateway/internal/domain/record"
	"github.com/reelmint-wallet-gateway/internal/domain/session"
	"github.com/reelmint-wallet-gateway/internal/domain/wallet"
)

// CatalogServiceImpl implements the CatalogService interface
type CatalogServiceImpl struct {
	wallets  wallet.Repository
	sessions session.Repository
	records  record.Repository
	betting  config.BettingConfig
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	wallets wallet.Repository,
	sessions session.Repository,
	records record.Repository,
	betting config.BettingConfig,
) CatalogService {
	return &CatalogServiceImpl{
		wallets:  wallets,
		sessions: sessions,
		records:  records,
		betting:  betting,
	}
}

// CreateWallet provisions a wallet for a player/currency pair, rejecting
// a second wallet for the same pair.
func (s *CatalogServiceImpl) CreateWallet(ctx context.Context, playerRef, currency string, openingBalance int64) (*wallet.Wallet, error) {
	existing, err := s.wallets.GetByPlayerAndCurrency(ctx, playerRef, currency)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, wallet.ErrDuplicateWallet{PlayerRef: playerRef, Currency: currency}
	}

	w, err := wallet.NewWallet(playerRef, currency, openingBalance)
	if err != nil {
		return nil, err
	}

	if err := s.wallets.Create(ctx, w); err != nil {
		return nil, err
	}

	return w, nil
}

// GetWallet retrieves a wallet by its ID
func (s *CatalogServiceImpl) GetWallet(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	return s.wallets.GetByID(ctx, id)
}

// CreateSession registers a session binding a wallet to a game. Zero bet
// bounds fall back to the configured defaults.
func (s *CatalogServiceImpl) CreateSession(ctx context.Context, ref string, walletID uuid.UUID, gameCode string, minBet, maxBet int64) (*session.Session, error) {
	if _, err := s.wallets.GetByID(ctx, walletID); err != nil {
		return nil, err
	}

	if minBet == 0 {
		minBet = s.betting.DefaultMinBet
	}
	if maxBet == 0 {
		maxBet = s.betting.DefaultMaxBet
	}

	sess, err := session.NewSession(ref, walletID, gameCode, minBet, maxBet)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	return sess, nil
}

// GetSession resolves a session by its reference
func (s *CatalogServiceImpl) GetSession(ctx context.Context, ref string) (*session.Session, error) {
	return s.sessions.Resolve(ctx, ref)
}

// GetWalletTransactions retrieves paginated ledger records for a wallet
// along with the total count for pagination metadata.
func (s *CatalogServiceImpl) GetWalletTransactions(ctx context.Context, walletID uuid.UUID, page, perPage int) ([]*record.Record, int64, error) {
	if _, err := s.wallets.GetByID(ctx, walletID); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	records, err := s.records.ListByWallet(ctx, walletID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.records.CountByWallet(ctx, walletID)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
