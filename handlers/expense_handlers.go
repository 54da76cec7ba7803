package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/congno-backend/models"
	"github.com/fadhlanhapp/congno-backend/services"
	"github.com/fadhlanhapp/congno-backend/utils"
)

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	ledger *services.LedgerService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(ledger *services.LedgerService) *ExpenseHandler {
	return &ExpenseHandler{ledger: ledger}
}

// CreateExpense handles POST /expenses
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var request models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewValidationError(utils.ErrInvalidRequest))
		return
	}

	paidAt, err := parsePaidAt(request.PaidAt)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	expenseID, err := h.ledger.CreateExpense(c.Request.Context(), user.ID, services.CreateExpenseInput{
		Title:     request.Title,
		Amount:    request.Amount,
		Note:      request.Note,
		PaidAt:    paidAt,
		DebtorIDs: request.DebtorIDs,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleCreated(c, models.CreateExpenseResponse{ExpenseID: expenseID})
}

// ListExpenses handles GET /expenses
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	expenses, err := h.ledger.ListOwnedExpenses(c.Request.Context(), user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"expenses": expenses})
}

// parsePaidAt accepts a calendar date or an RFC 3339 timestamp
func parsePaidAt(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, utils.NewValidationError("paidAt must be a date in YYYY-MM-DD format")
}
