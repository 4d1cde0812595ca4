package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/reelmint-wallet-gateway/internal/domain/outbox"
	"github.com/reelmint-wallet-gateway/internal/domain/record"
	"github.com/reelmint-wallet-gateway/internal/domain/session"
	"github.com/reelmint-wallet-gateway/internal/domain/wallet"
	"github.com/reelmint-wallet-gateway/internal/platform/persistence"
)

// StatusSettled marks an accepted settlement in response payloads
const StatusSettled = "OK"

// SettlementResponse is the payload registered for an external transaction
// id and replayed verbatim on retries of the same id.
type SettlementResponse struct {
	ExternalID string `json:"external_id"`
	Balance    int64  `json:"balance"` // Minor units
	Currency   string `json:"currency"`
	Status     string `json:"status"`
	Tombstone  bool   `json:"tombstone,omitempty"`
}

// LedgerEngineImpl implements the LedgerEngine interface. Every mutation
// runs inside one database transaction holding the wallet row lock: the
// balance write, the ledger append, and the outbox event commit together
// or not at all.
type LedgerEngineImpl struct {
	logger   *slog.Logger
	db       persistence.TxRunner
	wallets  wallet.Repository
	records  record.Repository
	sessions session.Registry
	outbox   outbox.Repository
}

// NewLedgerEngine creates a new ledger engine
func NewLedgerEngine(
	logger *slog.Logger,
	db persistence.TxRunner,
	wallets wallet.Repository,
	records record.Repository,
	sessions session.Registry,
	outboxRepo outbox.Repository,
) LedgerEngine {
	return &LedgerEngineImpl{
		logger:   logger,
		db:       db,
		wallets:  wallets,
		records:  records,
		sessions: sessions,
		outbox:   outboxRepo,
	}
}

// Debit withdraws a bet from the wallet behind the session. The amount
// must lie within the session's bet bounds, inclusive. Insufficient funds
// fail without writing a record, so the same id may legitimately succeed
// later once funds exist.
func (e *LedgerEngineImpl) Debit(ctx context.Context, req *DebitRequest) (json.RawMessage, error) {
	if cached, hit, err := e.replay(ctx, req.ExternalID); err != nil {
		return nil, err
	} else if hit {
		return cached, nil
	}

	sess, err := e.sessions.Resolve(ctx, req.SessionRef)
	if err != nil {
		return nil, err
	}

	if !sess.AllowsBet(req.Amount) {
		return nil, ErrAmountOutOfRange{Amount: req.Amount, MinBet: sess.MinBet, MaxBet: sess.MaxBet}
	}

	return e.settle(ctx, req.ExternalID, sess.WalletID, func(w *wallet.Wallet, _ record.Repository) (*record.Record, error) {
		if err := w.Debit(req.Amount); err != nil {
			return nil, err
		}
		return &record.Record{
			ExternalID:    req.ExternalID,
			WalletID:      w.ID,
			Type:          record.TypeDebit,
			Amount:        req.Amount,
			RoundRef:      req.RoundRef,
			CorrelationID: req.CorrelationID,
			CreatedAt:     time.Now(),
		}, nil
	})
}

// Credit deposits a payout into the wallet behind the session. There is no
// bounds check and no balance failure mode.
func (e *LedgerEngineImpl) Credit(ctx context.Context, req *CreditRequest) (json.RawMessage, error) {
	if cached, hit, err := e.replay(ctx, req.ExternalID); err != nil {
		return nil, err
	} else if hit {
		return cached, nil
	}

	sess, err := e.sessions.Resolve(ctx, req.SessionRef)
	if err != nil {
		return nil, err
	}

	return e.settle(ctx, req.ExternalID, sess.WalletID, func(w *wallet.Wallet, _ record.Repository) (*record.Record, error) {
		if err := w.Credit(req.Amount); err != nil {
			return nil, err
		}
		return &record.Record{
			ExternalID:        req.ExternalID,
			WalletID:          w.ID,
			Type:              record.TypeCredit,
			Amount:            req.Amount,
			RoundRef:          req.RoundRef,
			RelatedExternalID: req.RelatedExternalID,
			CorrelationID:     req.CorrelationID,
			CreatedAt:         time.Now(),
		}, nil
	})
}

// Rollback reverses the debit identified by OriginalExternalID. An unknown
// original id yields a zero-effect tombstone record; a non-debit original
// is rejected; a debit whose round already holds a credit is permanently
// locked against rollback.
func (e *LedgerEngineImpl) Rollback(ctx context.Context, req *RollbackRequest) (json.RawMessage, error) {
	if cached, hit, err := e.replay(ctx, req.ExternalID); err != nil {
		return nil, err
	} else if hit {
		return cached, nil
	}

	sess, err := e.sessions.Resolve(ctx, req.SessionRef)
	if err != nil {
		return nil, err
	}

	original, err := e.records.GetDebitByExternalID(ctx, req.OriginalExternalID)
	if err != nil {
		if !errors.Is(err, record.ErrRecordNotFound{}) {
			return nil, err
		}

		// No debit under that id. A record of another type is an invalid
		// target; no record at all becomes a tombstone.
		if _, gerr := e.records.GetByExternalID(ctx, req.OriginalExternalID); gerr == nil {
			return nil, ErrInvalidRollbackTarget{OriginalExternalID: req.OriginalExternalID}
		} else if !errors.Is(gerr, record.ErrRecordNotFound{}) {
			return nil, gerr
		}

		return e.settle(ctx, req.ExternalID, sess.WalletID, func(w *wallet.Wallet, _ record.Repository) (*record.Record, error) {
			return &record.Record{
				ExternalID:        req.ExternalID,
				WalletID:          w.ID,
				Type:              record.TypeRollback,
				Amount:            0,
				RoundRef:          req.RoundRef,
				RelatedExternalID: req.OriginalExternalID,
				CorrelationID:     req.CorrelationID,
				CreatedAt:         time.Now(),
			}, nil
		})
	}

	return e.settle(ctx, req.ExternalID, sess.WalletID, func(w *wallet.Wallet, records record.Repository) (*record.Record, error) {
		// The payout check runs under the wallet lock so a concurrent
		// credit on the same round cannot slip past it.
		settled, err := records.HasCreditForRound(ctx, original.RoundRef)
		if err != nil {
			return nil, err
		}
		if settled {
			return nil, ErrRollbackAfterPayout{RoundRef: original.RoundRef}
		}

		if err := w.Credit(original.Amount); err != nil {
			return nil, err
		}
		return &record.Record{
			ExternalID:        req.ExternalID,
			WalletID:          w.ID,
			Type:              record.TypeRollback,
			Amount:            original.Amount,
			RoundRef:          original.RoundRef,
			RelatedExternalID: original.ExternalID,
			CorrelationID:     req.CorrelationID,
			CreatedAt:         time.Now(),
		}, nil
	})
}

// Balance reads the wallet balance behind a session
func (e *LedgerEngineImpl) Balance(ctx context.Context, sessionRef string) (*BalanceResult, error) {
	sess, err := e.sessions.Resolve(ctx, sessionRef)
	if err != nil {
		return nil, err
	}

	w, err := e.wallets.GetByID(ctx, sess.WalletID)
	if err != nil {
		return nil, err
	}

	return &BalanceResult{Balance: w.Balance, Currency: w.Currency}, nil
}

// settle runs the atomic section: lock the wallet row, apply the mutation,
// persist the balance, append the ledger record carrying the response
// payload, and enqueue the settlement event. Losing the append race to a
// concurrent request with the same external id is converted into an
// idempotency hit on the winner's payload.
func (e *LedgerEngineImpl) settle(
	ctx context.Context,
	externalID string,
	walletID uuid.UUID,
	mutate func(w *wallet.Wallet, records record.Repository) (*record.Record, error),
) (json.RawMessage, error) {
	var payload json.RawMessage

	err := e.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		wallets := e.wallets.WithTx(tx)
		records := e.records.WithTx(tx)
		outboxRepo := e.outbox.WithTx(tx)

		w, err := wallets.LockForUpdate(ctx, walletID)
		if err != nil {
			return err
		}

		rec, err := mutate(w, records)
		if err != nil {
			return err
		}

		if !rec.IsTombstone() {
			if err := wallets.SetBalance(ctx, w.ID, w.Balance); err != nil {
				return err
			}
		}

		rec.BalanceAfter = w.Balance
		body, err := json.Marshal(&SettlementResponse{
			ExternalID: rec.ExternalID,
			Balance:    w.Balance,
			Currency:   w.Currency,
			Status:     StatusSettled,
			Tombstone:  rec.IsTombstone(),
		})
		if err != nil {
			return err
		}
		rec.CachedResponse = body

		if err := records.Create(ctx, rec); err != nil {
			return err
		}

		msg, err := outbox.NewMessage(rec)
		if err != nil {
			return err
		}
		if err := outboxRepo.Create(ctx, msg); err != nil {
			return err
		}

		payload = body
		return nil
	})
	if err != nil {
		if errors.Is(err, record.ErrDuplicateRecord{}) {
			winner, gerr := e.records.GetByExternalID(ctx, externalID)
			if gerr != nil {
				return nil, gerr
			}
			e.logger.Debug("Lost settlement append race, replaying winner",
				"external_id", externalID,
			)
			return winner.CachedResponse, nil
		}
		return nil, err
	}

	return payload, nil
}

// replay returns the registered payload for an external id if one exists
func (e *LedgerEngineImpl) replay(ctx context.Context, externalID string) (json.RawMessage, bool, error) {
	rec, err := e.records.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, record.ErrRecordNotFound{}) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return rec.CachedResponse, true, nil
}
