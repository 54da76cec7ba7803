// models/models.go
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CurrentUser is the authenticated caller as reported by the identity provider
type CurrentUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// Label returns the name shown for the user, falling back to the email
func (u CurrentUser) Label() string {
	if name := strings.TrimSpace(u.DisplayName); name != "" {
		return name
	}
	return strings.TrimSpace(u.Email)
}

// Profile holds a member's identity snapshot and payout bank details
type Profile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName,omitempty"`
	Email       string    `json:"email,omitempty"`
	BankCode    string    `json:"bankCode,omitempty"`
	BankAccount string    `json:"bankAccount,omitempty"`
	BankOwner   string    `json:"bankOwner,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsPaymentReady reports whether all three bank fields are filled in
func (p *Profile) IsPaymentReady() bool {
	if p == nil {
		return false
	}
	return strings.TrimSpace(p.BankCode) != "" &&
		strings.TrimSpace(p.BankAccount) != "" &&
		strings.TrimSpace(p.BankOwner) != ""
}

// Label returns the display name, falling back to the email
func (p *Profile) Label() string {
	if p == nil {
		return ""
	}
	if name := strings.TrimSpace(p.DisplayName); name != "" {
		return name
	}
	return strings.TrimSpace(p.Email)
}

// Expense represents one spend event paid by its creator
type Expense struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	Note        *string         `json:"note,omitempty"`
	PaidAt      *time.Time      `json:"paidAt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	CreatedByID string          `json:"createdById"`
	Debtors     []ExpenseDebtor `json:"debtors,omitempty"`
}

// ExpenseDebtor is one person's obligation for an expense.
// DebtorEmail and DebtorName are snapshots taken when the expense was created;
// later profile edits do not change them.
type ExpenseDebtor struct {
	ID          string          `json:"id"`
	ExpenseID   string          `json:"expenseId"`
	DebtorID    string          `json:"debtorId"`
	DebtorEmail string          `json:"debtorEmail"`
	DebtorName  string          `json:"debtorName"`
	OwedAmount  decimal.Decimal `json:"owedAmount"`
	IsPaid      bool            `json:"isPaid"`
	PaidAt      *time.Time      `json:"paidAt,omitempty"`
	PaymentNote *string         `json:"paymentNote,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	Review      *OwnerReview    `json:"review,omitempty"`
}

// OwnerReview is the expense creator's advisory verdict on a debtor's payment.
// It sits beside ExpenseDebtor and never changes IsPaid.
type OwnerReview struct {
	ExpenseDebtorID string     `json:"expenseDebtorId"`
	Status          string     `json:"status"`
	Note            *string    `json:"note,omitempty"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
	ReviewedByID    string     `json:"reviewedById,omitempty"`
}

// DebtDetail is an ExpenseDebtor joined with its expense and the payee profile
type DebtDetail struct {
	Debt    ExpenseDebtor
	Expense Expense
	Payee   *Profile
}

// Member is a selectable debtor when creating an expense
type Member struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email"`
}

// DebtView is a debt as presented to its debtor
type DebtView struct {
	ID               string          `json:"id"`
	ExpenseID        string          `json:"expenseId"`
	Title            string          `json:"title"`
	Amount           decimal.Decimal `json:"amount"`
	CreatedAt        time.Time       `json:"createdAt"`
	OwnerName        string          `json:"ownerName"`
	OwnerBankAccount string          `json:"ownerBankAccount,omitempty"`
	OwnerBankCode    string          `json:"ownerBankCode,omitempty"`
	OwnerBankName    string          `json:"ownerBankName,omitempty"`
	OwnerBankLogo    string          `json:"ownerBankLogo,omitempty"`
	Memo             string          `json:"memo"`
	IsPaid           bool            `json:"isPaid"`
	PaidAt           *time.Time      `json:"paidAt,omitempty"`
	PaymentNote      *string         `json:"paymentNote,omitempty"`
	Review           *OwnerReview    `json:"review,omitempty"`
}

// DashboardSummary totals the unpaid obligations around a user
type DashboardSummary struct {
	OwedToMe        decimal.Decimal `json:"owedToMe"`
	IOwe            decimal.Decimal `json:"iOwe"`
	OpenDebtsToMe   int             `json:"openDebtsToMe"`
	OpenDebtsOfMine int             `json:"openDebtsOfMine"`
}

// Dashboard is everything a signed-in member sees on their home screen
type Dashboard struct {
	Profile            *Profile         `json:"profile,omitempty"`
	OnboardingRequired bool             `json:"onboardingRequired"`
	Expenses           []Expense        `json:"expenses"`
	Debts              []DebtView       `json:"debts"`
	Members            []Member         `json:"members"`
	Summary            DashboardSummary `json:"summary"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateExpenseRequest request model
type CreateExpenseRequest struct {
	Title     string          `json:"title" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Note      *string         `json:"note"`
	PaidAt    *string         `json:"paidAt"`
	DebtorIDs []string        `json:"debtors" binding:"required"`
}

// CreateExpenseResponse response model
type CreateExpenseResponse struct {
	ExpenseID string `json:"expenseId"`
}

// SetPaidStatusRequest request model
type SetPaidStatusRequest struct {
	IsPaid *bool   `json:"isPaid" binding:"required"`
	Note   *string `json:"note"`
}

// ReviewDebtRequest request model
type ReviewDebtRequest struct {
	Status string  `json:"status" binding:"required"`
	Note   *string `json:"note"`
}

// UpdateBankInfoRequest request model
type UpdateBankInfoRequest struct {
	BankCode    string `json:"bankCode"`
	BankAccount string `json:"bankAccount"`
	BankOwner   string `json:"bankOwner"`
}
