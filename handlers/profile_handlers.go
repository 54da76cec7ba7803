package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/congno-backend/models"
	"github.com/fadhlanhapp/congno-backend/services"
	"github.com/fadhlanhapp/congno-backend/utils"
)

// ProfileHandler handles onboarding, dashboard and bank directory requests
type ProfileHandler struct {
	profiles *services.ProfileService
	ledger   *services.LedgerService
	banks    services.BankDirectory
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *services.ProfileService, ledger *services.LedgerService, banks services.BankDirectory) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, ledger: ledger, banks: banks}
}

// GetProfile handles GET /profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"profile": profile, "paymentReady": profile.IsPaymentReady()})
}

// UpdateBankInfo handles PUT /profile/bank
func (h *ProfileHandler) UpdateBankInfo(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var request models.UpdateBankInfoRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewValidationError(utils.ErrInvalidRequest))
		return
	}

	profile, err := h.profiles.UpdateBankInfo(c.Request.Context(), user, services.BankInfoInput{
		BankCode:    request.BankCode,
		BankAccount: request.BankAccount,
		BankOwner:   request.BankOwner,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"profile": profile, "paymentReady": profile.IsPaymentReady()})
}

// GetDashboard handles GET /dashboard
func (h *ProfileHandler) GetDashboard(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	dashboard, err := h.ledger.Dashboard(c.Request.Context(), user)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, dashboard)
}

// ListBanks handles GET /banks
func (h *ProfileHandler) ListBanks(c *gin.Context) {
	banks := []models.BankInfo{}
	if h.banks != nil {
		banks = h.banks.Banks(c.Request.Context())
	}
	utils.HandleSuccess(c, gin.H{"banks": banks})
}
