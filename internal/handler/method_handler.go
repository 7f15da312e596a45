package handler

import (
	"net/http"

	"affiliatex/internal/middleware"
	"affiliatex/internal/service"

	"github.com/gin-gonic/gin"
)

// MethodHandler manages the authenticated user's payout methods.
type MethodHandler struct {
	methods *service.PaymentMethodService
}

func NewMethodHandler(methods *service.PaymentMethodService) *MethodHandler {
	return &MethodHandler{methods: methods}
}

// List handles GET /me/payment-methods.
func (h *MethodHandler) List(c *gin.Context) {
	list, err := h.methods.List(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load payment methods"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_methods": list})
}

// Create handles POST /me/payment-methods.
func (h *MethodHandler) Create(c *gin.Context) {
	var req service.RegisterMethodInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := h.methods.Register(middleware.GetUserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// SetDefault handles POST /me/payment-methods/:id/default.
func (h *MethodHandler) SetDefault(c *gin.Context) {
	if err := h.methods.SetDefault(middleware.GetUserID(c), paramID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_default": true})
}

// LinkExternalAccount handles POST /me/payment-methods/:id/external-account.
// Called by the onboarding flow once the external account exists.
func (h *MethodHandler) LinkExternalAccount(c *gin.Context) {
	var req struct {
		ExternalAccountID string `json:"external_account_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.methods.LinkExternalAccount(middleware.GetUserID(c), paramID(c), req.ExternalAccountID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"linked": true})
}

// Delete handles DELETE /me/payment-methods/:id.
func (h *MethodHandler) Delete(c *gin.Context) {
	if err := h.methods.Delete(middleware.GetUserID(c), paramID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
