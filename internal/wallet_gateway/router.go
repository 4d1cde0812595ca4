package wallet_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reelmint-wallet-gateway/internal/platform/signing"
	"github.com/reelmint-wallet-gateway/internal/wallet_gateway/handler"
	"github.com/reelmint-wallet-gateway/internal/wallet_gateway/middleware"
)

// setupRouter configures API routes and middleware. The provider wallet
// group sits behind the signed call boundary: inbound bodies must verify
// against X-Signature, outbound bodies are signed into
// X-Response-Signature. The catalog group is operator-facing and unsigned.
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	walletHandler *handler.WalletHandler,
	catalogHandler *handler.CatalogHandler,
	inbound *signing.Signer,
	outbound *signing.Signer,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	v1 := r.Group("/api/v1")
	{
		// Signed provider settlement boundary
		wallet := v1.Group("/wallet")
		wallet.Use(middleware.SignResponse(outbound))
		wallet.Use(middleware.VerifySignature(logger, inbound))
		{
			wallet.POST("/debit", walletHandler.Debit)
			wallet.POST("/credit", walletHandler.Credit)
			wallet.POST("/rollback", walletHandler.Rollback)
			wallet.POST("/balance", walletHandler.Balance)
		}

		// Operator catalog
		wallets := v1.Group("/wallets")
		{
			wallets.POST("", catalogHandler.CreateWallet)
			wallets.GET("/:id", catalogHandler.GetWallet)
			wallets.GET("/:id/transactions", catalogHandler.GetWalletTransactions)
		}

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", catalogHandler.CreateSession)
			sessions.GET("/:ref", catalogHandler.GetSession)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
