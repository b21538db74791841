package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/group_ledger/internal/apperrors"
	"github.com/SscSPs/group_ledger/internal/dto"
	"github.com/SscSPs/group_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Error codes returned alongside the message.
const (
	codeValidation      = "VALIDATION_FAILED"
	codeInvalidAmount   = "INVALID_AMOUNT"
	codeShareMismatch   = "SHARE_MISMATCH"
	codeCurrency        = "CURRENCY_MISMATCH"
	codeUnknownPerson   = "UNKNOWN_PARTICIPANT"
	codeNotFound        = "NOT_FOUND"
	codeConflict        = "CONCURRENT_MODIFICATION"
	codeAlreadyReversed = "ALREADY_REVERSED"
	codeCorrupted       = "LEDGER_CORRUPTED"
	codeUnauthorized    = "UNAUTHORIZED"
	codeInternal        = "INTERNAL"
)

// respondError maps service errors onto HTTP statuses. Order matters: the
// specific ledger errors wrap the generic ErrValidation and ErrNotFound.
func respondError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	status, code := http.StatusInternalServerError, codeInternal
	switch {
	case errors.Is(err, apperrors.ErrLedgerCorrupted):
		logger.Error("Ledger corruption detected", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "ledger integrity check failed", Code: codeCorrupted})
		return
	case errors.Is(err, apperrors.ErrUnknownParticipant):
		status, code = http.StatusNotFound, codeUnknownPerson
	case errors.Is(err, apperrors.ErrNotFound):
		status, code = http.StatusNotFound, codeNotFound
	case errors.Is(err, apperrors.ErrInvalidAmount):
		status, code = http.StatusBadRequest, codeInvalidAmount
	case errors.Is(err, apperrors.ErrShareMismatch):
		status, code = http.StatusBadRequest, codeShareMismatch
	case errors.Is(err, apperrors.ErrCurrencyMismatch):
		status, code = http.StatusBadRequest, codeCurrency
	case errors.Is(err, apperrors.ErrValidation):
		status, code = http.StatusBadRequest, codeValidation
	case errors.Is(err, apperrors.ErrAlreadyReversed):
		status, code = http.StatusConflict, codeAlreadyReversed
	case errors.Is(err, apperrors.ErrConcurrentModification):
		status, code = http.StatusConflict, codeConflict
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(status, dto.ErrorResponse{Error: "Failed to " + action, Code: code})
		return
	}
	logger.Warn("Request rejected", slog.String("action", action), slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, dto.ErrorResponse{Error: err.Error(), Code: code})
}

func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error(), Code: codeValidation})
}

// callerID returns the authenticated caller or writes a 401.
func callerID(c *gin.Context) (string, bool) {
	id, ok := middleware.GetCallerIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Caller ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized", Code: codeUnauthorized})
	}
	return id, ok
}
