// repository/debt_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fadhlanhapp/congno-backend/models"
)

const (
	debtorColumns = `d.id, d.expense_id, d.debtor_id, d.debtor_email, d.debtor_name, d.owed_amount,
	d.is_paid, d.paid_at, d.payment_note, d.created_at`
	reviewColumns  = `rv.status, rv.note, rv.updated_at, rv.reviewed_by_id`
	expenseColumns = `e.id, e.title, e.amount, e.note, e.paid_at, e.created_at, e.created_by_id`
	payeeColumns   = `p.id, p.display_name, p.email, p.bank_code, p.bank_account, p.bank_owner,
	p.created_at, p.updated_at`
)

const debtDetailQuery = `SELECT ` + debtorColumns + `, ` + reviewColumns + `, ` + expenseColumns + `, ` + payeeColumns + `
     FROM expense_debtors d
     JOIN expenses e ON e.id = d.expense_id
     LEFT JOIN profiles p ON p.id = e.created_by_id
     LEFT JOIN expense_debtor_reviews rv ON rv.expense_debtor_id = d.id`

// DebtRepository handles database operations for expense debtor rows
type DebtRepository struct {
	DB *sql.DB
}

// NewDebtRepository creates a new DebtRepository
func NewDebtRepository(db *sql.DB) *DebtRepository {
	return &DebtRepository{DB: db}
}

// debtorRow collects the nullable columns of a debtor row joined with its review
type debtorRow struct {
	debtor       models.ExpenseDebtor
	paidAt       sql.NullTime
	paymentNote  sql.NullString
	reviewStatus sql.NullString
	reviewNote   sql.NullString
	reviewedAt   sql.NullTime
	reviewedBy   sql.NullString
}

func (r *debtorRow) dest() []any {
	d := &r.debtor
	return []any{
		&d.ID, &d.ExpenseID, &d.DebtorID, &d.DebtorEmail, &d.DebtorName, &d.OwedAmount,
		&d.IsPaid, &r.paidAt, &r.paymentNote, &d.CreatedAt,
		&r.reviewStatus, &r.reviewNote, &r.reviewedAt, &r.reviewedBy,
	}
}

func (r *debtorRow) build() models.ExpenseDebtor {
	d := r.debtor
	d.PaidAt = timePtr(r.paidAt)
	d.PaymentNote = stringPtr(r.paymentNote)
	if r.reviewStatus.Valid {
		d.Review = &models.OwnerReview{
			ExpenseDebtorID: d.ID,
			Status:          r.reviewStatus.String,
			Note:            stringPtr(r.reviewNote),
			UpdatedAt:       timePtr(r.reviewedAt),
			ReviewedByID:    r.reviewedBy.String,
		}
	}
	return d
}

func scanDebtorWithReview(row rowScanner) (*models.ExpenseDebtor, error) {
	var dr debtorRow
	if err := row.Scan(dr.dest()...); err != nil {
		return nil, err
	}
	debtor := dr.build()
	return &debtor, nil
}

func scanDebtDetail(row rowScanner) (*models.DebtDetail, error) {
	var dr debtorRow
	var e models.Expense
	var expenseNote sql.NullString
	var expensePaidAt sql.NullTime
	var payeeID, payeeName, payeeEmail, bankCode, bankAccount, bankOwner sql.NullString
	var payeeCreated, payeeUpdated sql.NullTime

	dest := append(dr.dest(),
		&e.ID, &e.Title, &e.Amount, &expenseNote, &expensePaidAt, &e.CreatedAt, &e.CreatedByID,
		&payeeID, &payeeName, &payeeEmail, &bankCode, &bankAccount, &bankOwner,
		&payeeCreated, &payeeUpdated,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	e.Note = stringPtr(expenseNote)
	e.PaidAt = timePtr(expensePaidAt)

	detail := &models.DebtDetail{Debt: dr.build(), Expense: e}
	if payeeID.Valid {
		detail.Payee = &models.Profile{
			ID:          payeeID.String,
			DisplayName: payeeName.String,
			Email:       payeeEmail.String,
			BankCode:    bankCode.String,
			BankAccount: bankAccount.String,
			BankOwner:   bankOwner.String,
			CreatedAt:   payeeCreated.Time,
			UpdatedAt:   payeeUpdated.Time,
		}
	}
	return detail, nil
}

// GetDebtDetail retrieves a debtor row with its expense, payee profile and review
func (r *DebtRepository) GetDebtDetail(ctx context.Context, debtID string) (*models.DebtDetail, error) {
	row := r.DB.QueryRowContext(ctx, debtDetailQuery+` WHERE d.id = $1`, debtID)
	detail, err := scanDebtDetail(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get debt: %w", err)
	}
	return detail, nil
}

// ListDebtsByDebtor returns every debt owed by debtorID, newest first
func (r *DebtRepository) ListDebtsByDebtor(ctx context.Context, debtorID string) ([]models.DebtDetail, error) {
	rows, err := r.DB.QueryContext(ctx,
		debtDetailQuery+` WHERE d.debtor_id = $1 ORDER BY d.created_at DESC`,
		debtorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer rows.Close()

	details := []models.DebtDetail{}
	for rows.Next() {
		detail, err := scanDebtDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		details = append(details, *detail)
	}
	return details, rows.Err()
}

// UpdatePaidStatus sets the paid fields of a debt owned by debtorID.
// Returns ErrNotFound when no row matches both the id and the debtor.
func (r *DebtRepository) UpdatePaidStatus(ctx context.Context, debtID, debtorID string, isPaid bool, paidAt *time.Time, note *string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE expense_debtors
         SET is_paid = $3, paid_at = $4, payment_note = $5
         WHERE id = $1 AND debtor_id = $2`,
		debtID, debtorID, isPaid, nullTime(paidAt), nullString(note),
	)
	if err != nil {
		return fmt.Errorf("failed to update paid status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
