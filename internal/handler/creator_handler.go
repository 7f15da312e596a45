package handler

import (
	"net/http"

	"affiliatex/internal/middleware"
	"affiliatex/internal/repository"
	"affiliatex/internal/service"

	"github.com/gin-gonic/gin"
)

// CreatorHandler is the creator's read-only view: their payments and earnings.
type CreatorHandler struct {
	paymentRepo *repository.PaymentRepository
	earnings    *service.EarningsService
}

func NewCreatorHandler(paymentRepo *repository.PaymentRepository, earnings *service.EarningsService) *CreatorHandler {
	return &CreatorHandler{paymentRepo: paymentRepo, earnings: earnings}
}

// ListPayments handles GET /creator/payments?status=&search=.
func (h *CreatorHandler) ListPayments(c *gin.Context) {
	list, err := h.paymentRepo.List(repository.PaymentFilter{
		CreatorID: middleware.GetUserID(c),
		Status:    c.Query("status"),
		Search:    c.Query("search"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load payments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": list})
}

// Earnings handles GET /creator/earnings.
func (h *CreatorHandler) Earnings(c *gin.Context) {
	sum, err := h.earnings.ForCreator(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load earnings"})
		return
	}
	c.JSON(http.StatusOK, sum)
}
