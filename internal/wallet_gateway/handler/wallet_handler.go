package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reelmint-wallet-gateway/internal/domain/session"
	"github.com/reelmint-wallet-gateway/internal/domain/wallet"
	"github.com/reelmint-wallet-gateway/internal/wallet_gateway/middleware"
	"github.com/reelmint-wallet-gateway/internal/wallet_gateway/service"
)

// WalletHandler handles the signed provider endpoints. Settlement
// responses are written as the exact payload bytes registered for the
// external transaction id, so replays stay byte-identical on the wire.
type WalletHandler struct {
	engine service.LedgerEngine
	logger *slog.Logger
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(logger *slog.Logger, engine service.LedgerEngine) *WalletHandler {
	return &WalletHandler{
		engine: engine,
		logger: logger,
	}
}

// Debit settles a bet against the wallet behind the session
func (h *WalletHandler) Debit(c *gin.Context) {
	var req DebitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid debit request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	payload, err := h.engine.Debit(c.Request.Context(), &service.DebitRequest{
		SessionRef:    req.SessionRef,
		ExternalID:    req.ExternalID,
		RoundRef:      req.RoundRef,
		Amount:        req.Amount,
		CorrelationID: middleware.GetCorrelationID(c),
	})
	if err != nil {
		h.respondSettlementError(c, "debit", req.ExternalID, err)
		return
	}

	c.Data(http.StatusOK, "application/json", payload)
}

// Credit settles a win against the wallet behind the session
func (h *WalletHandler) Credit(c *gin.Context) {
	var req CreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid credit request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	payload, err := h.engine.Credit(c.Request.Context(), &service.CreditRequest{
		SessionRef:        req.SessionRef,
		ExternalID:        req.ExternalID,
		RoundRef:          req.RoundRef,
		Amount:            req.Amount,
		RelatedExternalID: req.RelatedExternalID,
		CorrelationID:     middleware.GetCorrelationID(c),
	})
	if err != nil {
		h.respondSettlementError(c, "credit", req.ExternalID, err)
		return
	}

	c.Data(http.StatusOK, "application/json", payload)
}

// Rollback reverses a previously settled debit
func (h *WalletHandler) Rollback(c *gin.Context) {
	var req RollbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid rollback request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	payload, err := h.engine.Rollback(c.Request.Context(), &service.RollbackRequest{
		SessionRef:         req.SessionRef,
		ExternalID:         req.ExternalID,
		RoundRef:           req.RoundRef,
		OriginalExternalID: req.OriginalExternalID,
		CorrelationID:      middleware.GetCorrelationID(c),
	})
	if err != nil {
		h.respondSettlementError(c, "rollback", req.ExternalID, err)
		return
	}

	c.Data(http.StatusOK, "application/json", payload)
}

// Balance reads the wallet balance behind a session
func (h *WalletHandler) Balance(c *gin.Context) {
	var req BalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid balance request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.engine.Balance(c.Request.Context(), req.SessionRef)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound{}) {
			RespondNotFound(c, "Unknown session")
			return
		}
		h.logger.Error("Failed to read balance", "session_ref", req.SessionRef, "error", err)
		RespondInternalError(c)
		return
	}

	c.JSON(http.StatusOK, result)
}

// respondSettlementError maps the settlement error taxonomy to HTTP
// statuses. Anything unmapped is a 500 with the detail kept server-side.
func (h *WalletHandler) respondSettlementError(c *gin.Context, op, externalID string, err error) {
	var outOfRange service.ErrAmountOutOfRange
	var invalidTarget service.ErrInvalidRollbackTarget
	var afterPayout service.ErrRollbackAfterPayout

	switch {
	case errors.Is(err, session.ErrSessionNotFound{}):
		RespondNotFound(c, "Unknown session")
	case errors.As(err, &outOfRange):
		RespondWithError(c, http.StatusBadRequest, "OUT_OF_RANGE", outOfRange.Error())
	case errors.Is(err, wallet.ErrInsufficientFunds):
		RespondPaymentRequired(c, "INSUFFICIENT_FUNDS", "Wallet balance does not cover the debit")
	case errors.As(err, &invalidTarget):
		RespondWithError(c, http.StatusBadRequest, "INVALID_ROLLBACK_TARGET", invalidTarget.Error())
	case errors.As(err, &afterPayout):
		RespondConflict(c, "ROLLBACK_AFTER_PAYOUT", "Round already settled by a credit")
	case errors.Is(err, wallet.ErrInvalidAmount):
		RespondBadRequest(c, "Invalid amount")
	default:
		h.logger.Error("Settlement failed",
			"operation", op,
			"external_id", externalID,
			"error", err,
		)
		RespondInternalError(c)
	}
}
