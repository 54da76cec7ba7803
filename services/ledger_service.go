package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fadhlanhapp/congno-backend/models"
	"github.com/fadhlanhapp/congno-backend/repository"
	"github.com/fadhlanhapp/congno-backend/utils"
)

// CreateExpenseInput carries the fields of a new expense
type CreateExpenseInput struct {
	Title     string
	Amount    decimal.Decimal
	Note      *string
	PaidAt    *time.Time
	DebtorIDs []string
}

// LedgerService owns expenses and the debts they create
type LedgerService struct {
	profiles    ProfileStore
	expenses    ExpenseStore
	debts       DebtStore
	banks       BankDirectory
	invalidator DashboardInvalidator
	location    *time.Location
	now         Clock
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(profiles ProfileStore, expenses ExpenseStore, debts DebtStore, banks BankDirectory, invalidator DashboardInvalidator, location *time.Location) *LedgerService {
	if location == nil {
		location = time.UTC
	}
	return &LedgerService{
		profiles:    profiles,
		expenses:    expenses,
		debts:       debts,
		banks:       banks,
		invalidator: invalidator,
		location:    location,
		now:         time.Now,
	}
}

// CreateExpense records an expense paid by creatorID and one debt per selected debtor.
// Every debtor owes the full amount.
func (s *LedgerService) CreateExpense(ctx context.Context, creatorID string, input CreateExpenseInput) (string, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return "", utils.NewValidationError(utils.ErrTitleRequired)
	}

	amount := utils.RoundMoney(input.Amount)
	if !amount.IsPositive() {
		return "", utils.NewValidationError(utils.ErrInvalidExpenseAmount)
	}

	debtorIDs := utils.UniqueIDs(input.DebtorIDs, creatorID)
	if len(debtorIDs) == 0 {
		return "", utils.NewValidationError(utils.ErrDebtorsRequired)
	}

	// expenses.created_by_id references profiles, so onboarding must come first
	if _, err := s.profiles.GetProfile(ctx, creatorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", utils.NewValidationError(utils.ErrCreatorProfileRequired)
		}
		return "", utils.NewPersistenceError(utils.ErrFailedToRetrieve, err)
	}

	profiles, err := s.profiles.GetProfilesByIDs(ctx, debtorIDs)
	if err != nil {
		return "", utils.NewPersistenceError(utils.ErrFailedToRetrieve, err)
	}
	byID := make(map[string]models.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}
	if len(byID) != len(debtorIDs) {
		return "", utils.NewValidationError(utils.ErrUnknownDebtors)
	}

	expense := &models.Expense{
		ID:          utils.GenerateID(),
		Title:       title,
		Amount:      amount,
		Note:        utils.NormalizeNote(input.Note),
		PaidAt:      input.PaidAt,
		CreatedByID: creatorID,
		Debtors:     make([]models.ExpenseDebtor, 0, len(debtorIDs)),
	}
	for _, id := range debtorIDs {
		profile, ok := byID[id]
		if !ok {
			return "", utils.NewValidationError(utils.ErrUnknownDebtors)
		}
		email := strings.TrimSpace(profile.Email)
		if email == "" {
			return "", utils.NewValidationError(utils.ErrDebtorMissingEmail)
		}
		expense.Debtors = append(expense.Debtors, models.ExpenseDebtor{
			ID:          utils.GenerateID(),
			ExpenseID:   expense.ID,
			DebtorID:    profile.ID,
			DebtorEmail: email,
			DebtorName:  utils.FirstNonEmpty(profile.DisplayName, email),
			OwedAmount:  amount,
		})
	}

	if err := s.expenses.CreateExpenseWithDebtors(ctx, expense); err != nil {
		return "", utils.NewPersistenceError(utils.ErrFailedToStore, err)
	}

	log.Printf("level=info component=ledger msg=\"expense created\" expense_id=%s debtors=%d", expense.ID, len(expense.Debtors))
	s.invalidate(ctx, append([]string{creatorID}, debtorIDs...)...)
	return expense.ID, nil
}

// SetDebtPaidStatus lets the debtor mark their own debt as paid or unpaid.
// Marking unpaid clears the paid time and note regardless of the note argument.
func (s *LedgerService) SetDebtPaidStatus(ctx context.Context, debtID, actingUserID string, isPaid bool, note *string) error {
	detail, err := getDebtDetail(ctx, s.debts, debtID)
	if err != nil {
		return err
	}
	if detail.Debt.DebtorID != actingUserID {
		return utils.NewAuthorizationError(utils.ErrNotDebtor)
	}

	var paidAt *time.Time
	var paymentNote *string
	if isPaid {
		now := s.now()
		paidAt = &now
		paymentNote = utils.NormalizeNote(note)
	}

	if err := s.debts.UpdatePaidStatus(ctx, debtID, actingUserID, isPaid, paidAt, paymentNote); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NewNotFoundError("Debt")
		}
		return utils.NewPersistenceError(utils.ErrFailedToStore, err)
	}

	log.Printf("level=info component=ledger msg=\"debt paid status updated\" debt_id=%s is_paid=%t", debtID, isPaid)
	s.invalidate(ctx, actingUserID, detail.Expense.CreatedByID)
	return nil
}

// ListOwnedExpenses returns the expenses created by ownerID, newest first
func (s *LedgerService) ListOwnedExpenses(ctx context.Context, ownerID string) ([]models.Expense, error) {
	expenses, err := s.expenses.ListExpensesByOwner(ctx, ownerID)
	if err != nil {
		return nil, utils.NewPersistenceError(utils.ErrFailedToRetrieve, err)
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return expenses, nil
}

// ListDebts returns the debts owed by debtorID with payee bank details, newest first
func (s *LedgerService) ListDebts(ctx context.Context, debtorID string) ([]models.DebtView, error) {
	details, err := s.debts.ListDebtsByDebtor(ctx, debtorID)
	if err != nil {
		return nil, utils.NewPersistenceError(utils.ErrFailedToRetrieve, err)
	}

	banks := s.bankList(ctx, details)
	views := make([]models.DebtView, 0, len(details))
	for _, detail := range details {
		views = append(views, s.debtView(detail, banks))
	}
	return views, nil
}

// bankList fetches the directory at most once per call, and only when a payee has a bank code
func (s *LedgerService) bankList(ctx context.Context, details []models.DebtDetail) []models.BankInfo {
	if s.banks == nil {
		return nil
	}
	for _, detail := range details {
		if detail.Payee != nil && strings.TrimSpace(detail.Payee.BankCode) != "" {
			return s.banks.Banks(ctx)
		}
	}
	return nil
}

func (s *LedgerService) debtView(detail models.DebtDetail, banks []models.BankInfo) models.DebtView {
	view := models.DebtView{
		ID:          detail.Debt.ID,
		ExpenseID:   detail.Expense.ID,
		Title:       detail.Expense.Title,
		Amount:      detail.Debt.OwedAmount,
		CreatedAt:   detail.Expense.CreatedAt,
		Memo:        paymentMemo(detail, s.location),
		IsPaid:      detail.Debt.IsPaid,
		PaidAt:      detail.Debt.PaidAt,
		PaymentNote: detail.Debt.PaymentNote,
		Review:      detail.Debt.Review,
	}
	if payee := detail.Payee; payee != nil {
		view.OwnerName = utils.FirstNonEmpty(payee.Label(), payee.BankOwner)
		view.OwnerBankAccount = payee.BankAccount
		view.OwnerBankCode = payee.BankCode
		if bank, ok := models.FindBank(banks, payee.BankCode); ok {
			view.OwnerBankName = bank.DisplayName()
			view.OwnerBankLogo = bank.Logo
		}
	}
	return view
}

// Dashboard collects everything the user's home screen shows
func (s *LedgerService) Dashboard(ctx context.Context, user models.CurrentUser) (*models.Dashboard, error) {
	profile, err := s.profiles.GetProfile(ctx, user.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewPersistenceError(utils.ErrFailedToRetrieve, err)
	}

	expenses, err := s.ListOwnedExpenses(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	debts, err := s.ListDebts(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	members, err := s.profiles.ListMembers(ctx, user.ID)
	if err != nil {
		return nil, utils.NewPersistenceError(utils.ErrFailedToRetrieve, err)
	}
	if members == nil {
		members = []models.Member{}
	}

	return &models.Dashboard{
		Profile:            profile,
		OnboardingRequired: !profile.IsPaymentReady(),
		Expenses:           expenses,
		Debts:              debts,
		Members:            members,
		Summary:            summarize(expenses, debts),
	}, nil
}

// summarize totals unpaid rows only
func summarize(expenses []models.Expense, debts []models.DebtView) models.DashboardSummary {
	var owedToMe, iOwe []decimal.Decimal
	for _, expense := range expenses {
		for _, debtor := range expense.Debtors {
			if !debtor.IsPaid {
				owedToMe = append(owedToMe, debtor.OwedAmount)
			}
		}
	}
	for _, debt := range debts {
		if !debt.IsPaid {
			iOwe = append(iOwe, debt.Amount)
		}
	}
	return models.DashboardSummary{
		OwedToMe:        utils.SumAmounts(owedToMe),
		IOwe:            utils.SumAmounts(iOwe),
		OpenDebtsToMe:   len(owedToMe),
		OpenDebtsOfMine: len(iOwe),
	}
}

func (s *LedgerService) invalidate(ctx context.Context, userIDs ...string) {
	invalidateDashboards(ctx, s.invalidator, userIDs...)
}

// invalidateDashboards publishes best-effort; failures are logged only
func invalidateDashboards(ctx context.Context, invalidator DashboardInvalidator, userIDs ...string) {
	if invalidator == nil {
		return
	}
	ids := utils.UniqueIDs(userIDs, "")
	if len(ids) == 0 {
		return
	}
	if err := invalidator.InvalidateDashboards(ctx, ids...); err != nil {
		log.Printf("level=warn component=ledger msg=\"failed to publish dashboard invalidation\" users=%d err=%v", len(ids), err)
	}
}

func getDebtDetail(ctx context.Context, debts DebtStore, debtID string) (*models.DebtDetail, error) {
	if !utils.IsValidID(debtID) {
		return nil, utils.NewNotFoundError("Debt")
	}
	detail, err := debts.GetDebtDetail(ctx, debtID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError("Debt")
		}
		return nil, utils.NewPersistenceError(utils.ErrFailedToRetrieve, err)
	}
	return detail, nil
}
