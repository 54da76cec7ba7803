package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadhlanhapp/congno-backend/clients/bankdirectory"
	"github.com/fadhlanhapp/congno-backend/models"
	"github.com/fadhlanhapp/congno-backend/utils"
)

func strPtr(s string) *string { return &s }

func createRent(t *testing.T, env *testEnv) string {
	t.Helper()
	id, err := env.ledger.CreateExpense(context.Background(), ownerID, CreateExpenseInput{
		Title:     "  Tiền nhà ",
		Amount:    decimal.RequireFromString("1500000.00"),
		DebtorIDs: []string{debtorAID, " ", debtorBID, debtorAID, ownerID},
	})
	require.NoError(t, err)
	return id
}

func TestLedgerService_CreateExpense_OneDebtPerDebtor(t *testing.T) {
	env := newTestEnv()
	id := createRent(t, env)

	expense := env.store.expenses[id]
	require.NotNil(t, expense)
	assert.Equal(t, "Tiền nhà", expense.Title)
	assert.Equal(t, ownerID, expense.CreatedByID)
	require.Len(t, expense.Debtors, 2)

	a, b := expense.Debtors[0], expense.Debtors[1]
	assert.Equal(t, debtorAID, a.DebtorID)
	assert.Equal(t, "Nguyễn Văn A", a.DebtorName)
	assert.Equal(t, "a@example.com", a.DebtorEmail)
	assert.Equal(t, debtorBID, b.DebtorID)
	assert.Equal(t, "b@example.com", b.DebtorName, "name falls back to email")

	for _, d := range expense.Debtors {
		assert.True(t, d.OwedAmount.Equal(expense.Amount), "every debtor owes the full amount")
		assert.False(t, d.IsPaid)
		assert.Nil(t, d.PaidAt)
		assert.Nil(t, d.PaymentNote)
		assert.True(t, utils.IsValidID(d.ID))
	}

	assert.ElementsMatch(t, []string{ownerID, debtorAID, debtorBID}, env.invalidator.last())
}

func TestLedgerService_CreateExpense_RoundsToCents(t *testing.T) {
	env := newTestEnv()
	id, err := env.ledger.CreateExpense(context.Background(), ownerID, CreateExpenseInput{
		Title:     "Cafe",
		Amount:    decimal.RequireFromString("45000.456"),
		DebtorIDs: []string{debtorAID},
	})
	require.NoError(t, err)

	expense := env.store.expenses[id]
	assert.Equal(t, "45000.46", expense.Amount.StringFixed(2))
	assert.Equal(t, "45000.46", expense.Debtors[0].OwedAmount.StringFixed(2))
}

func TestLedgerService_CreateExpense_Validation(t *testing.T) {
	noEmail := models.Profile{ID: "user-no-email", DisplayName: "Ghost"}

	tests := []struct {
		name    string
		input   CreateExpenseInput
		message string
	}{
		{
			name:    "blank title",
			input:   CreateExpenseInput{Title: "   ", Amount: decimal.NewFromInt(10), DebtorIDs: []string{debtorAID}},
			message: utils.ErrTitleRequired,
		},
		{
			name:    "zero amount",
			input:   CreateExpenseInput{Title: "x", Amount: decimal.Zero, DebtorIDs: []string{debtorAID}},
			message: utils.ErrInvalidExpenseAmount,
		},
		{
			name:    "negative amount",
			input:   CreateExpenseInput{Title: "x", Amount: decimal.NewFromInt(-5), DebtorIDs: []string{debtorAID}},
			message: utils.ErrInvalidExpenseAmount,
		},
		{
			name:    "amount rounding to zero",
			input:   CreateExpenseInput{Title: "x", Amount: decimal.RequireFromString("0.004"), DebtorIDs: []string{debtorAID}},
			message: utils.ErrInvalidExpenseAmount,
		},
		{
			name:    "only the creator selected",
			input:   CreateExpenseInput{Title: "x", Amount: decimal.NewFromInt(10), DebtorIDs: []string{ownerID, "  "}},
			message: utils.ErrDebtorsRequired,
		},
		{
			name:    "unknown debtor",
			input:   CreateExpenseInput{Title: "x", Amount: decimal.NewFromInt(10), DebtorIDs: []string{debtorAID, "user-gone"}},
			message: utils.ErrUnknownDebtors,
		},
		{
			name:    "debtor without email",
			input:   CreateExpenseInput{Title: "x", Amount: decimal.NewFromInt(10), DebtorIDs: []string{noEmail.ID}},
			message: utils.ErrDebtorMissingEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			env.store.addProfile(noEmail)

			id, err := env.ledger.CreateExpense(context.Background(), ownerID, tt.input)
			require.Error(t, err)
			assert.True(t, utils.IsKind(err, utils.KindValidation))
			assert.Equal(t, tt.message, err.Error())
			assert.Empty(t, id)
			assert.Empty(t, env.store.expenses, "nothing is written on validation failure")
			assert.Empty(t, env.invalidator.calls)
		})
	}
}

func TestLedgerService_CreateExpense_PersistenceFailure(t *testing.T) {
	env := newTestEnv()
	env.store.createErr = errStoreDown

	_, err := env.ledger.CreateExpense(context.Background(), ownerID, CreateExpenseInput{
		Title:     "Điện",
		Amount:    decimal.NewFromInt(300000),
		DebtorIDs: []string{debtorAID},
	})
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindPersistence))
	assert.ErrorIs(t, err, errStoreDown)
	assert.Empty(t, env.store.expenses)
}

func TestLedgerService_CreateExpense_CreatorWithoutProfile(t *testing.T) {
	env := newTestEnv()

	_, err := env.ledger.CreateExpense(context.Background(), "user-new", CreateExpenseInput{
		Title:     "Điện",
		Amount:    decimal.NewFromInt(300000),
		DebtorIDs: []string{debtorAID},
	})
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindValidation))
	assert.Equal(t, utils.ErrCreatorProfileRequired, err.Error())
	assert.Empty(t, env.store.expenses)
	assert.Empty(t, env.invalidator.calls)
}

func TestLedgerService_SetDebtPaidStatus_PayThenUnpay(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	id := createRent(t, env)
	debt := env.store.debt(id, debtorBID)

	err := env.ledger.SetDebtPaidStatus(ctx, debt.ID, debtorBID, true, strPtr("  đã chuyển khoản  "))
	require.NoError(t, err)

	paid := env.store.debt(id, debtorBID)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaidAt)
	assert.True(t, paid.PaidAt.Equal(env.now))
	require.NotNil(t, paid.PaymentNote)
	assert.Equal(t, "đã chuyển khoản", *paid.PaymentNote)
	assert.ElementsMatch(t, []string{debtorBID, ownerID}, env.invalidator.last())

	untouched := env.store.debt(id, debtorAID)
	assert.False(t, untouched.IsPaid)

	err = env.ledger.SetDebtPaidStatus(ctx, debt.ID, debtorBID, false, strPtr("ignored"))
	require.NoError(t, err)

	unpaid := env.store.debt(id, debtorBID)
	assert.False(t, unpaid.IsPaid)
	assert.Nil(t, unpaid.PaidAt)
	assert.Nil(t, unpaid.PaymentNote)
}

func TestLedgerService_SetDebtPaidStatus_NoteLimits(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	id := createRent(t, env)
	debt := env.store.debt(id, debtorAID)

	require.NoError(t, env.ledger.SetDebtPaidStatus(ctx, debt.ID, debtorAID, true, strPtr(strings.Repeat("ồ", 300))))
	stored := env.store.debt(id, debtorAID)
	require.NotNil(t, stored.PaymentNote)
	assert.Equal(t, utils.NoteMaxLength, len([]rune(*stored.PaymentNote)))

	require.NoError(t, env.ledger.SetDebtPaidStatus(ctx, debt.ID, debtorAID, true, strPtr("   ")))
	assert.Nil(t, env.store.debt(id, debtorAID).PaymentNote)
	assert.True(t, env.store.debt(id, debtorAID).IsPaid)
}

func TestLedgerService_SetDebtPaidStatus_OnlyDebtor(t *testing.T) {
	env := newTestEnv()
	id := createRent(t, env)
	debt := env.store.debt(id, debtorAID)

	for _, actor := range []string{ownerID, debtorBID, outsider} {
		err := env.ledger.SetDebtPaidStatus(context.Background(), debt.ID, actor, true, nil)
		require.Error(t, err, actor)
		assert.True(t, utils.IsKind(err, utils.KindAuthorization), actor)
	}

	assert.Equal(t, debt, env.store.debt(id, debtorAID), "row unchanged")
}

func TestLedgerService_SetDebtPaidStatus_NotFound(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	err := env.ledger.SetDebtPaidStatus(ctx, utils.GenerateID(), debtorAID, true, nil)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))

	err = env.ledger.SetDebtPaidStatus(ctx, "not-a-uuid", debtorAID, true, nil)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestLedgerService_SetDebtPaidStatus_InvalidationFailureIsIgnored(t *testing.T) {
	env := newTestEnv()
	id := createRent(t, env)
	env.invalidator.err = errStoreDown

	debt := env.store.debt(id, debtorAID)
	require.NoError(t, env.ledger.SetDebtPaidStatus(context.Background(), debt.ID, debtorAID, true, nil))
	assert.True(t, env.store.debt(id, debtorAID).IsPaid)
}

func TestLedgerService_ListDebts_EnrichesPayee(t *testing.T) {
	env := newTestEnv()
	createRent(t, env)

	debts, err := env.ledger.ListDebts(context.Background(), debtorAID)
	require.NoError(t, err)
	require.Len(t, debts, 1)

	view := debts[0]
	assert.Equal(t, "Tiền nhà", view.Title)
	assert.Equal(t, "Chủ Nhà", view.OwnerName)
	assert.Equal(t, "0123 4567 89", view.OwnerBankAccount)
	assert.Equal(t, "Vietcombank", view.OwnerBankName)
	assert.Equal(t, "https://api.vietqr.io/img/VCB.png", view.OwnerBankLogo)
	assert.Equal(t, "Nguyen Van A Tien nha 141", view.Memo)
	assert.True(t, view.Amount.Equal(decimal.NewFromInt(1500000)))
}

func TestLedgerService_Dashboard(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	id := createRent(t, env)

	require.NoError(t, env.ledger.SetDebtPaidStatus(ctx, env.store.debt(id, debtorBID).ID, debtorBID, true, nil))

	owner, err := env.ledger.Dashboard(ctx, models.CurrentUser{ID: ownerID, Email: "owner@example.com"})
	require.NoError(t, err)
	assert.False(t, owner.OnboardingRequired)
	require.Len(t, owner.Expenses, 1)
	assert.Len(t, owner.Expenses[0].Debtors, 2)
	assert.Empty(t, owner.Debts)
	assert.Equal(t, "1500000", owner.Summary.OwedToMe.String())
	assert.Equal(t, 1, owner.Summary.OpenDebtsToMe)
	assert.True(t, owner.Summary.IOwe.IsZero())

	var memberIDs []string
	for _, m := range owner.Members {
		memberIDs = append(memberIDs, m.ID)
	}
	assert.NotContains(t, memberIDs, ownerID)
	assert.Len(t, memberIDs, 3)

	debtor, err := env.ledger.Dashboard(ctx, models.CurrentUser{ID: debtorAID, Email: "a@example.com"})
	require.NoError(t, err)
	assert.True(t, debtor.OnboardingRequired, "debtor A has no bank info")
	assert.Equal(t, 1, debtor.Summary.OpenDebtsOfMine)
	assert.Equal(t, "1500000", debtor.Summary.IOwe.String())
}

func TestLedgerService_Dashboard_NewUser(t *testing.T) {
	env := newTestEnv()

	dash, err := env.ledger.Dashboard(context.Background(), models.CurrentUser{ID: "user-new", Email: "new@example.com"})
	require.NoError(t, err)
	assert.Nil(t, dash.Profile)
	assert.True(t, dash.OnboardingRequired)
	assert.NotNil(t, dash.Expenses)
	assert.NotNil(t, dash.Debts)
	assert.Len(t, dash.Members, 4)
}

func TestLedgerService_Dashboard_StoreFailure(t *testing.T) {
	env := newTestEnv()
	env.store.listErr = errStoreDown

	_, err := env.ledger.Dashboard(context.Background(), models.CurrentUser{ID: ownerID})
	assert.True(t, utils.IsKind(err, utils.KindPersistence))
}

func TestLedgerService_ListDebts_FetchesBankDirectoryOnce(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		bank   string
	}{
		{name: "upstream down", status: http.StatusServiceUnavailable, body: "unavailable"},
		{
			name:   "upstream ok",
			status: http.StatusOK,
			body:   `{"data":[{"id":43,"code":"VCB","bin":"970436","shortName":"Vietcombank"}]}`,
			bank:   "Vietcombank",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&hits, 1)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			env := newTestEnv()
			env.ledger.banks = bankdirectory.NewDirectory(server.URL, nil)
			for i := 0; i < 5; i++ {
				createRent(t, env)
			}

			debts, err := env.ledger.ListDebts(context.Background(), debtorAID)
			require.NoError(t, err)
			require.Len(t, debts, 5)
			assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
			for _, debt := range debts {
				assert.Equal(t, tt.bank, debt.OwnerBankName)
			}
		})
	}
}

func TestLedgerService_ListDebts_NoDebtsSkipsBankDirectory(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	env := newTestEnv()
	env.ledger.banks = bankdirectory.NewDirectory(server.URL, nil)

	dash, err := env.ledger.Dashboard(context.Background(), models.CurrentUser{ID: ownerID, Email: "owner@example.com"})
	require.NoError(t, err)
	assert.Empty(t, dash.Debts)
	assert.Zero(t, atomic.LoadInt32(&hits))
}
