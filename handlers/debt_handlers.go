package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/congno-backend/models"
	"github.com/fadhlanhapp/congno-backend/services"
	"github.com/fadhlanhapp/congno-backend/utils"
)

// DebtHandler handles debt settlement HTTP requests
type DebtHandler struct {
	ledger     *services.LedgerService
	settlement *services.SettlementService
}

// NewDebtHandler creates a new debt handler
func NewDebtHandler(ledger *services.LedgerService, settlement *services.SettlementService) *DebtHandler {
	return &DebtHandler{ledger: ledger, settlement: settlement}
}

// ListDebts handles GET /debts
func (h *DebtHandler) ListDebts(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	debts, err := h.ledger.ListDebts(c.Request.Context(), user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"debts": debts})
}

// SetPaidStatus handles PATCH /debts/:id/paid
func (h *DebtHandler) SetPaidStatus(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var request models.SetPaidStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewValidationError(utils.ErrInvalidRequest))
		return
	}

	debtID := c.Param("id")
	if err := h.ledger.SetDebtPaidStatus(c.Request.Context(), debtID, user.ID, *request.IsPaid, request.Note); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"id": debtID, "isPaid": *request.IsPaid})
}

// ReviewDebt handles PUT /debts/:id/review
func (h *DebtHandler) ReviewDebt(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var request models.ReviewDebtRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewValidationError(utils.ErrInvalidRequest))
		return
	}

	review, err := h.settlement.ReviewDebtPayment(c.Request.Context(), c.Param("id"), user.ID, request.Status, request.Note)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, review)
}
