package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/fx_exchange_engine/internal/apperrors"
	"github.com/SscSPs/fx_exchange_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrSlippageExceeded):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrSettlementFailure):
		return http.StatusBadGateway
	case errors.Is(err, apperrors.ErrRateUnavailable), errors.Is(err, apperrors.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError logs err at a level matching its status and writes the error body.
// Server errors hide their cause behind fallback.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()), slog.Int("status", status))
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}

// requireUserID reads the authenticated user or aborts with 401.
func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}
