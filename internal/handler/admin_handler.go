package handler

import (
	"errors"
	"net/http"
	"strconv"

	"affiliatex/internal/domain"
	"affiliatex/internal/models"
	"affiliatex/internal/repository"
	"affiliatex/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the platform admin capabilities: payment intake,
// single/bulk settlement, retry, refund, platform earnings, funding accounts
// and platform settings.
type AdminHandler struct {
	paymentRepo *repository.PaymentRepository
	fundingRepo *repository.FundingAccountRepository
	settingRepo *repository.SettingRepository
	paymentSvc  *service.PaymentService
	settlement  *service.SettlementService
	earnings    *service.EarningsService
}

func NewAdminHandler(
	paymentRepo *repository.PaymentRepository,
	fundingRepo *repository.FundingAccountRepository,
	settingRepo *repository.SettingRepository,
	paymentSvc *service.PaymentService,
	settlement *service.SettlementService,
	earnings *service.EarningsService,
) *AdminHandler {
	return &AdminHandler{
		paymentRepo: paymentRepo,
		fundingRepo: fundingRepo,
		settingRepo: settingRepo,
		paymentSvc:  paymentSvc,
		settlement:  settlement,
		earnings:    earnings,
	}
}

// RecordPayment handles POST /admin/payments — intake from the payout
// eligibility process. Fees are stamped here, once.
func (h *AdminHandler) RecordPayment(c *gin.Context) {
	var req service.RecordPaymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.paymentSvc.Record(req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// ListPayments handles GET /admin/payments?status=&search=&company_id=.
func (h *AdminHandler) ListPayments(c *gin.Context) {
	f := repository.PaymentFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}
	if n, err := strconv.ParseUint(c.Query("company_id"), 10, 32); err == nil {
		f.CompanyID = uint(n)
	}
	list, err := h.paymentRepo.List(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load payments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": list})
}

// Settle handles POST /admin/payments/:id/settle.
func (h *AdminHandler) Settle(c *gin.Context) {
	id := paramID(c)
	if id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}
	p, err := h.settlement.Settle(c.Request.Context(), id)
	if errors.Is(err, domain.ErrAlreadyCompleted) {
		c.JSON(http.StatusOK, gin.H{"payment": p, "message": "already completed"})
		return
	}
	if err != nil {
		// The classified failure is persisted on the record; surface both.
		if p != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"payment": p, "error": err.Error()})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": p})
}

// SettleAll handles POST /admin/payments/settle-all.
func (h *AdminHandler) SettleAll(c *gin.Context) {
	var req struct {
		CompanyID uint   `json:"company_id"`
		Search    string `json:"search"`
	}
	// Body is an optional filter; an empty body settles everything in processing.
	_ = c.ShouldBindJSON(&req)
	result, err := h.settlement.SettleAll(c.Request.Context(), repository.PaymentFilter{
		CompanyID: req.CompanyID,
		Search:    req.Search,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "bulk settlement failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Retry handles POST /admin/payments/:id/retry.
func (h *AdminHandler) Retry(c *gin.Context) {
	id := paramID(c)
	if id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}
	if err := h.settlement.Retry(id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "PROCESSING"})
}

// Refund handles POST /admin/payments/:id/refund.
func (h *AdminHandler) Refund(c *gin.Context) {
	id := paramID(c)
	if id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}
	if err := h.settlement.Refund(id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "REFUNDED"})
}

// Earnings handles GET /admin/earnings — platform-wide rollup with fee totals.
func (h *AdminHandler) Earnings(c *gin.Context) {
	sum, err := h.earnings.ForPlatform()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load earnings"})
		return
	}
	c.JSON(http.StatusOK, sum)
}

// ListFundingAccounts handles GET /admin/funding-accounts.
func (h *AdminHandler) ListFundingAccounts(c *gin.Context) {
	list, err := h.fundingRepo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load funding accounts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": list})
}

// CreateFundingAccount handles POST /admin/funding-accounts.
func (h *AdminHandler) CreateFundingAccount(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Type  string `json:"type" binding:"required"`
		Last4 string `json:"last4"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a := &models.FundingAccount{Name: req.Name, Type: req.Type, Last4: req.Last4, Status: domain.FundingPending}
	if err := h.fundingRepo.Create(a); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create funding account"})
		return
	}
	c.JSON(http.StatusCreated, a)
}

// SetFundingPrimary handles POST /admin/funding-accounts/:id/primary.
func (h *AdminHandler) SetFundingPrimary(c *gin.Context) {
	id := paramID(c)
	if err := h.fundingRepo.SetPrimary(id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_primary": true})
}

// UpdateFundingStatus handles PATCH /admin/funding-accounts/:id/status.
func (h *AdminHandler) UpdateFundingStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.fundingRepo.UpdateStatus(paramID(c), req.Status); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

// GetSettings handles GET /admin/settings.
func (h *AdminHandler) GetSettings(c *gin.Context) {
	list, err := h.settingRepo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": list})
}

// UpdateSettings handles PATCH /admin/settings — upserts the given keys.
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for k, v := range req {
		if err := h.settingRepo.Set(k, v); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update setting " + k})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"updated": len(req)})
}
