package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/fadhlanhapp/congno-backend/models"
	"github.com/fadhlanhapp/congno-backend/utils"
)

// reviewTransitions lists the statuses reachable from each current status.
// confirmed->confirmed and pending->pending are no-ops and rejected; disputed->disputed refreshes the note.
var reviewTransitions = map[string]map[string]bool{
	utils.ReviewStatusPending: {
		utils.ReviewStatusConfirmed: true,
		utils.ReviewStatusDisputed:  true,
	},
	utils.ReviewStatusConfirmed: {
		utils.ReviewStatusDisputed: true,
		utils.ReviewStatusPending:  true,
	},
	utils.ReviewStatusDisputed: {
		utils.ReviewStatusConfirmed: true,
		utils.ReviewStatusDisputed:  true,
		utils.ReviewStatusPending:   true,
	},
}

// SettlementService handles the expense creator's side of settling a debt
type SettlementService struct {
	debts       DebtStore
	reviews     ReviewStore
	invalidator DashboardInvalidator
	now         Clock
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(debts DebtStore, reviews ReviewStore, invalidator DashboardInvalidator) *SettlementService {
	return &SettlementService{
		debts:       debts,
		reviews:     reviews,
		invalidator: invalidator,
		now:         time.Now,
	}
}

// CanTransition reports whether a review may move from one status to another
func CanTransition(from, to string) bool {
	return reviewTransitions[from][to]
}

// ReviewDebtPayment records the expense creator's verdict on a debtor's payment.
// The review is advisory: it never changes the debtor's paid flag, and the
// paid flag does not restrict which verdict the owner may record.
func (s *SettlementService) ReviewDebtPayment(ctx context.Context, debtID, actingUserID, status string, note *string) (*models.OwnerReview, error) {
	detail, err := getDebtDetail(ctx, s.debts, debtID)
	if err != nil {
		return nil, err
	}
	if detail.Expense.CreatedByID != actingUserID {
		return nil, utils.NewAuthorizationError(utils.ErrNotDebtOwner)
	}

	status = strings.ToLower(strings.TrimSpace(status))
	if !utils.IsValidReviewStatus(status) {
		return nil, utils.NewValidationError(utils.ErrInvalidReviewStatus)
	}

	current := utils.ReviewStatusPending
	if detail.Debt.Review != nil {
		current = detail.Debt.Review.Status
	}
	if !CanTransition(current, status) {
		return nil, utils.NewValidationError("Review is already " + current)
	}

	now := s.now()
	review := &models.OwnerReview{
		ExpenseDebtorID: detail.Debt.ID,
		Status:          status,
		Note:            utils.NormalizeNote(note),
		UpdatedAt:       &now,
		ReviewedByID:    actingUserID,
	}
	if err := s.reviews.UpsertReview(ctx, review); err != nil {
		return nil, utils.NewPersistenceError(utils.ErrFailedToStore, err)
	}

	log.Printf("level=info component=settlement msg=\"debt reviewed\" debt_id=%s from=%s to=%s", debtID, current, status)
	invalidateDashboards(ctx, s.invalidator, actingUserID, detail.Debt.DebtorID)
	return review, nil
}
