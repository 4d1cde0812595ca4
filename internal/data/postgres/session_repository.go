package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/reelmint-wallet-gateway/internal/domain/session"
	"github.com/reelmint-wallet-gateway/internal/platform/persistence"
)

// SessionRepository implements the session.Repository interface for
// PostgreSQL. The ledger engine only uses the Resolve half; the catalog
// API uses the rest.
type SessionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewSessionRepository creates a new PostgreSQL session repository
func NewSessionRepository(logger *slog.Logger, db *persistence.PostgresDB) session.Repository {
	return &SessionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Create stores a new session. Returns ErrDuplicateSession if the
// reference is already registered.
func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	query := `
		INSERT INTO sessions (ref, wallet_id, game_code, min_bet, max_bet, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.querier.Exec(ctx, query,
		s.Ref,
		s.WalletID,
		s.GameCode,
		s.MinBet,
		s.MaxBet,
		s.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return session.ErrDuplicateSession{Ref: s.Ref}
		}
		r.logger.Error("Failed to create session", "ref", s.Ref, "error", err)
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// Resolve retrieves the session for the given reference. Returns
// ErrSessionNotFound if the reference is unknown.
func (r *SessionRepository) Resolve(ctx context.Context, ref string) (*session.Session, error) {
	query := `
		SELECT ref, wallet_id, game_code, min_bet, max_bet, created_at
		FROM sessions
		WHERE ref = $1
	`

	var s session.Session
	err := r.querier.QueryRow(ctx, query, ref).Scan(
		&s.Ref,
		&s.WalletID,
		&s.GameCode,
		&s.MinBet,
		&s.MaxBet,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrSessionNotFound{Ref: ref}
		}
		r.logger.Error("Failed to resolve session", "ref", ref, "error", err)
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	return &s, nil
}
