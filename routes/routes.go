package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/congno-backend/auth"
	"github.com/fadhlanhapp/congno-backend/handlers"
)

// Handlers groups the HTTP handlers mounted by SetupRoutes
type Handlers struct {
	Expenses *handlers.ExpenseHandler
	Debts    *handlers.DebtHandler
	Payments *handlers.PaymentHandler
	Profiles *handlers.ProfileHandler
	Exports  *handlers.ExportHandler
}

// SetupRoutes configures all API routes for the application
func SetupRoutes(router *gin.Engine, h Handlers, verifier *auth.Verifier) {
	v1 := router.Group("/api/v1")
	v1.GET("/health", handlers.HealthCheck)

	authed := v1.Group("")
	authed.Use(auth.Middleware(verifier))
	{
		authed.GET("/banks", h.Profiles.ListBanks)

		// Profile and onboarding
		authed.GET("/profile", h.Profiles.GetProfile)
		authed.PUT("/profile/bank", h.Profiles.UpdateBankInfo)
		authed.GET("/dashboard", h.Profiles.GetDashboard)

		// Expense endpoints
		authed.POST("/expenses", h.Expenses.CreateExpense)
		authed.GET("/expenses", h.Expenses.ListExpenses)
		authed.GET("/expenses/export", h.Exports.ExportLedger)

		// Debt endpoints
		authed.GET("/debts", h.Debts.ListDebts)
		authed.PATCH("/debts/:id/paid", h.Debts.SetPaidStatus)
		authed.PUT("/debts/:id/review", h.Debts.ReviewDebt)
		authed.GET("/debts/:id/payment-instruction", h.Payments.GetPaymentInstruction)

		// Payment endpoints
		authed.POST("/payments/qr", h.Payments.GeneratePaymentQR)
	}
}
