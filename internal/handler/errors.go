package handler

import (
	"errors"
	"net/http"

	"affiliatex/internal/domain"

	"github.com/gin-gonic/gin"
)

// writeError maps domain errors onto HTTP statuses. Concurrency conflicts get
// 409 so the caller knows to re-read state instead of retrying blindly.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConcurrencyConflict),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrDisputedNoRetry):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrBelowMinimumAmount),
		errors.Is(err, domain.ErrSettlementFailed),
		errors.Is(err, domain.ErrMethodSetupRequired),
		errors.Is(err, domain.ErrNoPayoutMethod):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
