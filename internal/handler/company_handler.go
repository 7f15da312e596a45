package handler

import (
	"net/http"
	"strconv"

	"affiliatex/internal/middleware"
	"affiliatex/internal/repository"
	"affiliatex/internal/service"

	"github.com/gin-gonic/gin"
)

// CompanyHandler exposes the company-scoped capabilities: approving payments
// into processing, disputing them, and viewing company earnings.
type CompanyHandler struct {
	paymentRepo *repository.PaymentRepository
	settlement  *service.SettlementService
	disputes    *service.DisputeService
	earnings    *service.EarningsService
}

func NewCompanyHandler(
	paymentRepo *repository.PaymentRepository,
	settlement *service.SettlementService,
	disputes *service.DisputeService,
	earnings *service.EarningsService,
) *CompanyHandler {
	return &CompanyHandler{
		paymentRepo: paymentRepo,
		settlement:  settlement,
		disputes:    disputes,
		earnings:    earnings,
	}
}

// ListPayments handles GET /company/payments?status=&search=.
func (h *CompanyHandler) ListPayments(c *gin.Context) {
	list, err := h.paymentRepo.List(repository.PaymentFilter{
		CompanyID: middleware.GetCompanyID(c),
		Status:    c.Query("status"),
		Search:    c.Query("search"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load payments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": list})
}

// Earnings handles GET /company/earnings.
func (h *CompanyHandler) Earnings(c *gin.Context) {
	sum, err := h.earnings.ForCompany(middleware.GetCompanyID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load earnings"})
		return
	}
	c.JSON(http.StatusOK, sum)
}

// Approve handles POST /company/payments/:id/approve.
func (h *CompanyHandler) Approve(c *gin.Context) {
	id := paramID(c)
	if id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}
	role, _ := c.Get("role")
	if err := h.settlement.Approve(id, role.(string), middleware.GetCompanyID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "PROCESSING"})
}

// Dispute handles POST /company/payments/:id/dispute.
func (h *CompanyHandler) Dispute(c *gin.Context) {
	id := paramID(c)
	if id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}
	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.disputes.Dispute(id, middleware.GetCompanyID(c), req.Reason); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "FAILED", "disputed": true})
}

func paramID(c *gin.Context) uint {
	n, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}
