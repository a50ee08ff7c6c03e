package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vault-api/internal/domain/vault"
)

// statusFor maps a service error onto an HTTP status and a response message.
// Messages for denials are deliberately generic; details stay in the audit
// trail.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, vault.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, vault.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, vault.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, vault.ErrVersionLimit):
		return http.StatusConflict, "version limit reached"
	case errors.Is(err, vault.ErrConflict):
		return http.StatusConflict, "conflicting lifecycle state"
	case errors.Is(err, vault.ErrGone):
		return http.StatusGone, "share link is no longer active"
	case errors.Is(err, vault.ErrIntegrity):
		return http.StatusInternalServerError, "content integrity check failed"
	case errors.Is(err, vault.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, "content store unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func respondError(c *gin.Context, logger *zap.Logger, op string, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(op+" error", zap.Error(err))
	}
	c.JSON(status, gin.H{"error": msg})
}
