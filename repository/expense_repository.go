// repository/expense_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/fadhlanhapp/congno-backend/models"
)

// ExpenseRepository handles database operations for expenses
type ExpenseRepository struct {
	DB *sql.DB
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{DB: db}
}

// CreateExpenseWithDebtors saves an expense and its debtor rows in one transaction
func (r *ExpenseRepository) CreateExpenseWithDebtors(ctx context.Context, expense *models.Expense) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO expenses (id, title, amount, note, paid_at, created_by_id)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING created_at`,
		expense.ID, expense.Title, expense.Amount, nullString(expense.Note),
		nullTime(expense.PaidAt), expense.CreatedByID,
	).Scan(&expense.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i := range expense.Debtors {
		debtor := &expense.Debtors[i]
		debtor.ExpenseID = expense.ID
		err = tx.QueryRowContext(ctx,
			`INSERT INTO expense_debtors
             (id, expense_id, debtor_id, debtor_email, debtor_name, owed_amount)
             VALUES ($1, $2, $3, $4, $5, $6)
             RETURNING created_at`,
			debtor.ID, debtor.ExpenseID, debtor.DebtorID, debtor.DebtorEmail,
			debtor.DebtorName, debtor.OwedAmount,
		).Scan(&debtor.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert expense debtor: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListExpensesByOwner returns the owner's expenses, newest first, with debtors and reviews
func (r *ExpenseRepository) ListExpensesByOwner(ctx context.Context, ownerID string) ([]models.Expense, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, title, amount, note, paid_at, created_at, created_by_id
         FROM expenses
         WHERE created_by_id = $1
         ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	index := make(map[string]int)
	var ids []string
	for rows.Next() {
		var e models.Expense
		var note sql.NullString
		var paidAt sql.NullTime
		if err := rows.Scan(&e.ID, &e.Title, &e.Amount, &note, &paidAt, &e.CreatedAt, &e.CreatedByID); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Note = stringPtr(note)
		e.PaidAt = timePtr(paidAt)
		e.Debtors = []models.ExpenseDebtor{}
		index[e.ID] = len(expenses)
		ids = append(ids, e.ID)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	if len(ids) == 0 {
		return []models.Expense{}, nil
	}

	debtors, err := r.listDebtorsForExpenses(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, d := range debtors {
		if i, ok := index[d.ExpenseID]; ok {
			expenses[i].Debtors = append(expenses[i].Debtors, d)
		}
	}
	return expenses, nil
}

func (r *ExpenseRepository) listDebtorsForExpenses(ctx context.Context, expenseIDs []string) ([]models.ExpenseDebtor, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+debtorColumns+`, `+reviewColumns+`
         FROM expense_debtors d
         LEFT JOIN expense_debtor_reviews rv ON rv.expense_debtor_id = d.id
         WHERE d.expense_id = ANY($1::uuid[])
         ORDER BY d.debtor_name ASC, d.created_at ASC`,
		pq.Array(expenseIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense debtors: %w", err)
	}
	defer rows.Close()

	var debtors []models.ExpenseDebtor
	for rows.Next() {
		debtor, err := scanDebtorWithReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense debtor: %w", err)
		}
		debtors = append(debtors, *debtor)
	}
	return debtors, rows.Err()
}
