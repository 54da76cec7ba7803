package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/congno-backend/models"
	"github.com/fadhlanhapp/congno-backend/services"
	"github.com/fadhlanhapp/congno-backend/utils"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// GetPaymentInstruction handles GET /debts/:id/payment-instruction
func (h *PaymentHandler) GetPaymentInstruction(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	payload, err := h.paymentService.BuildPaymentInstruction(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, payload)
}

// GeneratePaymentQR handles POST /payments/qr
func (h *PaymentHandler) GeneratePaymentQR(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var request models.PaymentQRRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewValidationError("debtorId is required"))
		return
	}

	result, err := h.paymentService.GeneratePaymentQR(c.Request.Context(), request.DebtorID, user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"data": result})
}
