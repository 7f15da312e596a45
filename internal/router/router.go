package router

import (
	"time"

	"affiliatex/config"
	"affiliatex/internal/domain"
	"affiliatex/internal/handler"
	"affiliatex/internal/middleware"
	"affiliatex/internal/repository"
	"affiliatex/internal/service"
	"affiliatex/internal/ws"
	"affiliatex/pkg/rail"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, provider rail.Provider) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	methodRepo := repository.NewPaymentMethodRepository(db)
	fundingRepo := repository.NewFundingAccountRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	eventHub := ws.NewEventHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, eventHub)
	paymentSvc := service.NewPaymentService(paymentRepo, settingRepo, cfg)
	settlementSvc := service.NewSettlementService(paymentRepo, methodRepo, settingRepo, fundingRepo, provider, notifSvc, cfg)
	disputeSvc := service.NewDisputeService(paymentRepo, notifSvc)
	earningsSvc := service.NewEarningsService(paymentRepo)
	methodSvc := service.NewPaymentMethodService(methodRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	creatorHandler := handler.NewCreatorHandler(paymentRepo, earningsSvc)
	companyHandler := handler.NewCompanyHandler(paymentRepo, settlementSvc, disputeSvc, earningsSvc)
	adminHandler := handler.NewAdminHandler(paymentRepo, fundingRepo, settingRepo, paymentSvc, settlementSvc, earningsSvc)
	methodHandler := handler.NewMethodHandler(methodSvc)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		api.POST("/auth/login", authHandler.Login)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/payment-methods", methodHandler.List)
			me.POST("/payment-methods", methodHandler.Create)
			me.POST("/payment-methods/:id/default", methodHandler.SetDefault)
			me.POST("/payment-methods/:id/external-account", methodHandler.LinkExternalAccount)
			me.DELETE("/payment-methods/:id", methodHandler.Delete)
			me.GET("/notifications", notificationHandler.List)
			me.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
		}

		creator := api.Group("/creator")
		creator.Use(authMw, middleware.RequireRole(domain.RoleCreator))
		{
			creator.GET("/payments", creatorHandler.ListPayments)
			creator.GET("/earnings", creatorHandler.Earnings)
		}

		company := api.Group("/company")
		company.Use(authMw, middleware.RequireRole(domain.RoleCompany, domain.RoleAdmin))
		{
			company.GET("/payments", companyHandler.ListPayments)
			company.GET("/earnings", companyHandler.Earnings)
			company.POST("/payments/:id/approve", companyHandler.Approve)
			company.POST("/payments/:id/dispute", middleware.RequireRole(domain.RoleCompany), companyHandler.Dispute)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.POST("/payments", adminHandler.RecordPayment)
			admin.GET("/payments", adminHandler.ListPayments)
			admin.POST("/payments/:id/settle", adminHandler.Settle)
			admin.POST("/payments/settle-all", adminHandler.SettleAll)
			admin.POST("/payments/:id/retry", adminHandler.Retry)
			admin.POST("/payments/:id/refund", adminHandler.Refund)
			admin.GET("/earnings", adminHandler.Earnings)
			admin.GET("/funding-accounts", adminHandler.ListFundingAccounts)
			admin.POST("/funding-accounts", adminHandler.CreateFundingAccount)
			admin.POST("/funding-accounts/:id/primary", adminHandler.SetFundingPrimary)
			admin.PATCH("/funding-accounts/:id/status", adminHandler.UpdateFundingStatus)
			admin.GET("/settings", adminHandler.GetSettings)
			admin.PATCH("/settings", adminHandler.UpdateSettings)
		}

		// Admin settlement event feed; token auth happens inside the upgrade.
		api.GET("/admin/events", ws.UpgradeEventWS(&cfg.JWT, eventHub))
	}

	return r
}
