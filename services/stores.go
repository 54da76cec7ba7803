package services

import (
	"context"
	"time"

	"github.com/fadhlanhapp/congno-backend/models"
)

// ProfileStore is the subset of profile persistence the services need
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	GetProfilesByIDs(ctx context.Context, ids []string) ([]models.Profile, error)
	UpsertBankInfo(ctx context.Context, profile *models.Profile) error
	ListMembers(ctx context.Context, excludeID string) ([]models.Member, error)
}

// ExpenseStore persists expenses together with their debtor rows
type ExpenseStore interface {
	CreateExpenseWithDebtors(ctx context.Context, expense *models.Expense) error
	ListExpensesByOwner(ctx context.Context, ownerID string) ([]models.Expense, error)
}

// DebtStore reads and updates individual debtor rows
type DebtStore interface {
	GetDebtDetail(ctx context.Context, debtID string) (*models.DebtDetail, error)
	ListDebtsByDebtor(ctx context.Context, debtorID string) ([]models.DebtDetail, error)
	UpdatePaidStatus(ctx context.Context, debtID, debtorID string, isPaid bool, paidAt *time.Time, note *string) error
}

// ReviewStore persists owner reviews
type ReviewStore interface {
	UpsertReview(ctx context.Context, review *models.OwnerReview) error
}

// BankDirectory lists the banks of the transfer network.
// Implementations degrade to an empty list instead of failing.
type BankDirectory interface {
	Banks(ctx context.Context) []models.BankInfo
}

// QRGenerator turns a payment payload into a scannable code
type QRGenerator interface {
	Generate(ctx context.Context, payload models.PaymentPayload) (*models.QRResult, error)
}

// DashboardInvalidator tells clients that a user's dashboard is stale
type DashboardInvalidator interface {
	InvalidateDashboards(ctx context.Context, userIDs ...string) error
}

// Clock returns the current time
type Clock func() time.Time
