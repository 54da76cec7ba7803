package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadhlanhapp/congno-backend/models"
)

// openTestDB connects to CONGNO_TEST_DATABASE_URL and applies the schema
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("CONGNO_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("CONGNO_TEST_DATABASE_URL not set, skipping Postgres test")
	}

	conn, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, conn.PingContext(ctx))
	require.NoError(t, ApplySchema(ctx, conn))
	return conn
}

func seedProfile(t *testing.T, conn *sql.DB, name string) models.Profile {
	t.Helper()
	profile := models.Profile{
		ID:          "test-" + uuid.NewString(),
		DisplayName: name,
		Email:       uuid.NewString() + "@example.com",
	}
	require.NoError(t, NewProfileRepository(conn).UpsertBankInfo(context.Background(), &profile))
	t.Cleanup(func() {
		conn.Exec(`DELETE FROM expense_debtors WHERE debtor_id = $1`, profile.ID)
		conn.Exec(`DELETE FROM expenses WHERE created_by_id = $1`, profile.ID)
		conn.Exec(`DELETE FROM profiles WHERE id = $1`, profile.ID)
	})
	return profile
}

func newExpense(creatorID string, debtors ...models.Profile) *models.Expense {
	amount := decimal.RequireFromString("1500000.00")
	expense := &models.Expense{
		ID:          uuid.NewString(),
		Title:       "Tiền nhà",
		Amount:      amount,
		CreatedByID: creatorID,
	}
	for _, d := range debtors {
		expense.Debtors = append(expense.Debtors, models.ExpenseDebtor{
			ID:          uuid.NewString(),
			ExpenseID:   expense.ID,
			DebtorID:    d.ID,
			DebtorEmail: d.Email,
			DebtorName:  d.DisplayName,
			OwedAmount:  amount,
		})
	}
	return expense
}

func countExpenses(t *testing.T, conn *sql.DB, id string) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRow(`SELECT count(*) FROM expenses WHERE id = $1`, id).Scan(&n))
	return n
}

func TestCreateExpenseWithDebtors_RollsBackOnDebtorFailure(t *testing.T) {
	conn := openTestDB(t)
	owner := seedProfile(t, conn, "Owner")
	debtor := seedProfile(t, conn, "Debtor")

	expense := newExpense(owner.ID, debtor, models.Profile{ID: "missing-" + uuid.NewString(), Email: "x@example.com", DisplayName: "X"})
	err := NewExpenseRepository(conn).CreateExpenseWithDebtors(context.Background(), expense)
	require.Error(t, err)

	assert.Zero(t, countExpenses(t, conn, expense.ID), "expense row must not survive a failed debtor insert")
}

func TestCreateExpenseWithDebtors_UnknownCreator(t *testing.T) {
	conn := openTestDB(t)
	debtor := seedProfile(t, conn, "Debtor")

	expense := newExpense("missing-"+uuid.NewString(), debtor)
	require.Error(t, NewExpenseRepository(conn).CreateExpenseWithDebtors(context.Background(), expense))
	assert.Zero(t, countExpenses(t, conn, expense.ID))
}

func TestUpdatePaidStatus_ScopedToDebtor(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	owner := seedProfile(t, conn, "Owner")
	debtor := seedProfile(t, conn, "Debtor")

	expense := newExpense(owner.ID, debtor)
	require.NoError(t, NewExpenseRepository(conn).CreateExpenseWithDebtors(ctx, expense))
	debtID := expense.Debtors[0].ID

	debts := NewDebtRepository(conn)
	paidAt := time.Date(2026, 10, 14, 8, 30, 0, 0, time.UTC)
	note := "đã chuyển"

	err := debts.UpdatePaidStatus(ctx, debtID, owner.ID, true, &paidAt, &note)
	assert.ErrorIs(t, err, ErrNotFound)

	detail, err := debts.GetDebtDetail(ctx, debtID)
	require.NoError(t, err)
	assert.False(t, detail.Debt.IsPaid)

	require.NoError(t, debts.UpdatePaidStatus(ctx, debtID, debtor.ID, true, &paidAt, &note))
	detail, err = debts.GetDebtDetail(ctx, debtID)
	require.NoError(t, err)
	assert.True(t, detail.Debt.IsPaid)
	require.NotNil(t, detail.Debt.PaymentNote)
	assert.Equal(t, note, *detail.Debt.PaymentNote)
	require.NotNil(t, detail.Payee)
	assert.Equal(t, owner.ID, detail.Payee.ID)

	require.NoError(t, debts.UpdatePaidStatus(ctx, debtID, debtor.ID, false, nil, nil))
	detail, err = debts.GetDebtDetail(ctx, debtID)
	require.NoError(t, err)
	assert.False(t, detail.Debt.IsPaid)
	assert.Nil(t, detail.Debt.PaidAt)
	assert.Nil(t, detail.Debt.PaymentNote)
}
