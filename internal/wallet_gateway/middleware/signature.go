package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reelmint-wallet-gateway/internal/platform/signing"
)

const (
	// SignatureHeader carries the provider's HMAC over the raw request body
	SignatureHeader = "X-Signature"

	// ResponseSignatureHeader carries our HMAC over the raw response body
	ResponseSignatureHeader = "X-Response-Signature"
)

// VerifySignature rejects any request whose X-Signature header does not
// verify against the raw body with the inbound secret. Rejection happens
// before the ledger engine is reached. The body is restored for the
// handlers downstream.
func VerifySignature(logger *slog.Logger, signer *signing.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			logger.Error("Failed to read request body for signature check", "error", err)
			abortUnauthorized(c)
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		signature := c.GetHeader(SignatureHeader)
		if !signer.Verify(body, signature) {
			logger.Warn("Request signature verification failed",
				"path", c.Request.URL.Path,
				"correlation_id", GetCorrelationID(c),
				"signature_present", signature != "",
			)
			abortUnauthorized(c)
			return
		}

		c.Next()
	}
}

// SignResponse buffers the response body and signs it with the outbound
// secret into X-Response-Signature before anything reaches the wire. The
// header must be set before the first write, hence the buffering writer.
func SignResponse(signer *signing.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		buffered := &bufferedWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = buffered

		c.Next()

		body := buffered.body.Bytes()
		if len(body) > 0 {
			buffered.Header().Set(ResponseSignatureHeader, signer.Sign(body))
		}
		if _, err := buffered.ResponseWriter.Write(body); err != nil {
			_ = c.Error(err)
		}
	}
}

func abortUnauthorized(c *gin.Context) {
	response := gin.H{
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": "Invalid or missing request signature",
		},
	}
	if correlationID := GetCorrelationID(c); correlationID != "" {
		response["correlation_id"] = correlationID
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, response)
}

// bufferedWriter holds response bytes back until the signature header is set
type bufferedWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}
