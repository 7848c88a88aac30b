// domus-crm/internal/routes/api_routes.go
package routes

import (
	"domus-crm/internal/handlers"
	"domus-crm/internal/middleware"
	"domus-crm/models"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes регистрирует все маршруты API, требующие аутентификации.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	apiGroup := api.Group("/api")
	{
		// --- ОБЪЕКТЫ: платежи, цель финансирования, оценка ---
		properties := apiGroup.Group("/properties")
		{
			properties.POST("/:id/payments", handlers.AdmitPropertyPaymentHandler)
			properties.GET("/:id/payments", handlers.ListPropertyPaymentsHandler)
			properties.GET("/:id/funding-target", handlers.GetFundingTargetHandler)
			properties.GET("/:id/valuation", handlers.GetPropertyValuationHandler)
			properties.GET("/:id/ledger/export", middleware.RoleMiddleware("admin"), handlers.ExportLedgerHandler)

			properties.POST("/:id/payment-plan", middleware.RoleMiddleware("admin"), handlers.CreatePaymentPlanHandler)
			properties.GET("/:id/payment-plan", handlers.GetPaymentPlanHandler)

			properties.POST("/:id/interests", handlers.CreateInterestHandler)
		}

		// --- ПЛАТЕЖИ: ручное подтверждение наличных ---
		payments := apiGroup.Group("/payments")
		{
			payments.POST("/:id/confirm", middleware.RoleMiddleware("admin"), handlers.ConfirmPaymentHandler)
			payments.POST("/:id/fail", middleware.RoleMiddleware("admin"), handlers.FailPaymentHandler)
		}

		// --- ЗАЯВКИ ---
		interests := apiGroup.Group("/interests")
		{
			interests.POST("/:id/approve", middleware.RoleMiddleware("admin"), handlers.ApproveInterestHandler)
			interests.POST("/:id/withdraw", handlers.WithdrawInterestHandler)
		}

		// --- УВЕДОМЛЕНИЯ ---
		notifications := apiGroup.Group("/notifications", middleware.RoleMiddleware("admin"))
		{
			notifications.GET("", handlers.ListNotificationsHandler)
			notifications.POST("/:id/read", handlers.MarkNotificationReadHandler)
		}

		// --- КОШЕЛЕК ---
		walletGroup := apiGroup.Group("/wallet")
		{
			walletGroup.GET("", handlers.GetWalletHandler)
			walletGroup.POST("/credit", handlers.CreditWalletHandler)
		}

		// --- АМОРТИЗИРУЕМЫЕ ИНСТРУМЕНТЫ ---
		registerInstrumentRoutes(apiGroup, "/loans", models.InstrumentLoan, handlers.CreateLoanHandler)
		registerInstrumentRoutes(apiGroup, "/mortgages", models.InstrumentMortgage, handlers.CreateMortgageHandler)
		registerInstrumentRoutes(apiGroup, "/internal-mortgages", models.InstrumentInternalMortgage, handlers.CreateInternalMortgageHandler)
	}
}

// registerInstrumentRoutes - у трех инструментов одинаковый набор операций,
// различается только тип; маршруты регистрируются одной функцией.
func registerInstrumentRoutes(api *gin.RouterGroup, prefix, kind string, create gin.HandlerFunc) {
	group := api.Group(prefix)
	{
		group.POST("", middleware.RoleMiddleware("admin"), create)
		group.GET("/:id/schedule", handlers.GetScheduleHandler(kind))
		group.POST("/:id/schedule/approve", middleware.RoleMiddleware("admin"), handlers.ApproveScheduleHandler(kind))
		group.POST("/:id/repayments", middleware.RoleMiddleware("admin"), handlers.RecordRepaymentHandler(kind))
	}
}
