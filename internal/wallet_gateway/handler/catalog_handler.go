package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reelmint-wallet-gateway/internal/domain/record"
	"github.com/reelmint-wallet-gateway/internal/domain/session"
	"github.com/reelmint-wallet-gateway/internal/domain/wallet"
	"github.com/reelmint-wallet-gateway/internal/wallet_gateway/service"
)

// CatalogHandler handles the operator-facing catalog endpoints: wallet
// provisioning, session registration, and ledger history. These routes
// sit outside the signed provider boundary.
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(logger *slog.Logger, catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// CreateWallet provisions a wallet for a player/currency pair
func (h *CatalogHandler) CreateWallet(c *gin.Context) {
	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	w, err := h.catalogService.CreateWallet(c.Request.Context(), req.PlayerRef, req.Currency, req.OpeningBalance)
	if err != nil {
		var duplicate wallet.ErrDuplicateWallet
		if errors.As(err, &duplicate) {
			h.logger.Warn("Attempt to create duplicate wallet", "player_ref", duplicate.PlayerRef, "currency", duplicate.Currency)
			RespondConflict(c, "DUPLICATE_WALLET", "Wallet for this player and currency already exists")
			return
		}
		if errors.Is(err, wallet.ErrInvalidAmount) || errors.Is(err, wallet.ErrEmptyPlayerRef) || errors.Is(err, wallet.ErrInvalidCurrencyFormat) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create wallet", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapWalletToResponse(w))
}

// GetWallet retrieves a wallet by its ID, returning 404 if not found
func (h *CatalogHandler) GetWallet(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid wallet ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid wallet ID")
		return
	}

	w, err := h.catalogService.GetWallet(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound{}) {
			RespondNotFound(c, "Wallet not found")
			return
		}
		h.logger.Error("Failed to get wallet", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapWalletToResponse(w))
}

// CreateSession registers a game session binding a wallet to a game
func (h *CatalogHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	walletID, err := uuid.Parse(req.WalletID)
	if err != nil {
		RespondBadRequest(c, "Invalid wallet ID")
		return
	}

	sess, err := h.catalogService.CreateSession(c.Request.Context(), req.Ref, walletID, req.GameCode, req.MinBet, req.MaxBet)
	if err != nil {
		var duplicate session.ErrDuplicateSession
		if errors.As(err, &duplicate) {
			RespondConflict(c, "DUPLICATE_SESSION", "Session with this reference already exists")
			return
		}
		if errors.Is(err, wallet.ErrWalletNotFound{}) {
			RespondNotFound(c, "Wallet not found")
			return
		}
		if errors.Is(err, session.ErrEmptyRef) || errors.Is(err, session.ErrInvalidBetSpan) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create session", "ref", req.Ref, "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapSessionToResponse(sess))
}

// GetSession resolves a session by its reference
func (h *CatalogHandler) GetSession(c *gin.Context) {
	ref := c.Param("ref")

	sess, err := h.catalogService.GetSession(c.Request.Context(), ref)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound{}) {
			RespondNotFound(c, "Session not found")
			return
		}
		h.logger.Error("Failed to get session", "ref", ref, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapSessionToResponse(sess))
}

// GetWalletTransactions lists a wallet's ledger records, newest first
func (h *CatalogHandler) GetWalletTransactions(c *gin.Context) {
	idParam := c.Param("id")
	walletID, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid wallet ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid wallet ID")
		return
	}

	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	records, total, err := h.catalogService.GetWalletTransactions(c.Request.Context(), walletID, params.Page, params.PerPage)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound{}) {
			RespondNotFound(c, "Wallet not found")
			return
		}
		h.logger.Error("Failed to list wallet transactions", "wallet_id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	response := TransactionListResponse{Transactions: make([]TransactionResponse, 0, len(records))}
	for _, rec := range records {
		response.Transactions = append(response.Transactions, mapRecordToResponse(rec))
	}

	RespondWithPaginatedData(c, http.StatusOK, response, params.Page, params.PerPage, int(total))
}

// mapWalletToResponse maps a wallet entity to a wallet response DTO
func mapWalletToResponse(w *wallet.Wallet) WalletResponse {
	return WalletResponse{
		ID:        w.ID.String(),
		PlayerRef: w.PlayerRef,
		Currency:  w.Currency,
		Balance:   w.Balance,
		CreatedAt: w.CreatedAt.Format(time.RFC3339),
		UpdatedAt: w.UpdatedAt.Format(time.RFC3339),
	}
}

// mapSessionToResponse maps a session entity to a session response DTO
func mapSessionToResponse(s *session.Session) SessionResponse {
	return SessionResponse{
		Ref:       s.Ref,
		WalletID:  s.WalletID.String(),
		GameCode:  s.GameCode,
		MinBet:    s.MinBet,
		MaxBet:    s.MaxBet,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}

// mapRecordToResponse maps a ledger record to a transaction response DTO
func mapRecordToResponse(rec *record.Record) TransactionResponse {
	return TransactionResponse{
		ExternalID:        rec.ExternalID,
		WalletID:          rec.WalletID.String(),
		Type:              string(rec.Type),
		Amount:            rec.Amount,
		RoundRef:          rec.RoundRef,
		RelatedExternalID: rec.RelatedExternalID,
		BalanceAfter:      rec.BalanceAfter,
		CreatedAt:         rec.CreatedAt.Format(time.RFC3339),
	}
}
