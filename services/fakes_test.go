package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/fadhlanhapp/congno-backend/models"
	"github.com/fadhlanhapp/congno-backend/repository"
)

var testLocation = time.FixedZone("ICT", 7*60*60)

// memStore is an in-memory stand-in for the Postgres repositories
type memStore struct {
	mu        sync.Mutex
	profiles  map[string]models.Profile
	expenses  map[string]*models.Expense
	reviews   map[string]models.OwnerReview
	createdAt time.Time

	createErr error
	updateErr error
	reviewErr error
	listErr   error
}

func newMemStore() *memStore {
	return &memStore{
		profiles:  make(map[string]models.Profile),
		expenses:  make(map[string]*models.Expense),
		reviews:   make(map[string]models.OwnerReview),
		createdAt: time.Date(2026, 10, 14, 3, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) addProfile(p models.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = p
}

func (m *memStore) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) GetProfilesByIDs(ctx context.Context, ids []string) ([]models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found []models.Profile
	for _, id := range ids {
		if p, ok := m.profiles[id]; ok {
			found = append(found, p)
		}
	}
	return found, nil
}

func (m *memStore) UpsertBankInfo(ctx context.Context, profile *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.profiles[profile.ID]; ok {
		profile.CreatedAt = existing.CreatedAt
	} else {
		profile.CreatedAt = m.createdAt
	}
	profile.UpdatedAt = m.createdAt
	m.profiles[profile.ID] = *profile
	return nil
}

func (m *memStore) ListMembers(ctx context.Context, excludeID string) ([]models.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var members []models.Member
	for _, p := range m.profiles {
		if p.ID == excludeID || p.Email == "" {
			continue
		}
		members = append(members, models.Member{ID: p.ID, DisplayName: p.DisplayName, Email: p.Email})
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].DisplayName != members[j].DisplayName {
			return members[i].DisplayName < members[j].DisplayName
		}
		return members[i].Email < members[j].Email
	})
	return members, nil
}

func (m *memStore) CreateExpenseWithDebtors(ctx context.Context, expense *models.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.profiles[expense.CreatedByID]; !ok {
		return errCreatorFK
	}
	expense.CreatedAt = m.createdAt
	for i := range expense.Debtors {
		expense.Debtors[i].CreatedAt = m.createdAt
	}
	stored := *expense
	stored.Debtors = append([]models.ExpenseDebtor(nil), expense.Debtors...)
	m.expenses[expense.ID] = &stored
	return nil
}

func (m *memStore) ListExpensesByOwner(ctx context.Context, ownerID string) ([]models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var expenses []models.Expense
	for _, e := range m.expenses {
		if e.CreatedByID != ownerID {
			continue
		}
		copied := *e
		copied.Debtors = nil
		for _, d := range e.Debtors {
			copied.Debtors = append(copied.Debtors, m.withReview(d))
		}
		expenses = append(expenses, copied)
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].CreatedAt.After(expenses[j].CreatedAt) })
	return expenses, nil
}

func (m *memStore) withReview(d models.ExpenseDebtor) models.ExpenseDebtor {
	if review, ok := m.reviews[d.ID]; ok {
		d.Review = &review
	}
	return d
}

func (m *memStore) detail(e *models.Expense, d models.ExpenseDebtor) models.DebtDetail {
	detail := models.DebtDetail{Debt: m.withReview(d), Expense: *e}
	detail.Expense.Debtors = nil
	if payee, ok := m.profiles[e.CreatedByID]; ok {
		detail.Payee = &payee
	}
	return detail
}

func (m *memStore) GetDebtDetail(ctx context.Context, debtID string) (*models.DebtDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.expenses {
		for _, d := range e.Debtors {
			if d.ID == debtID {
				detail := m.detail(e, d)
				return &detail, nil
			}
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) ListDebtsByDebtor(ctx context.Context, debtorID string) ([]models.DebtDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	details := []models.DebtDetail{}
	for _, e := range m.expenses {
		for _, d := range e.Debtors {
			if d.DebtorID == debtorID {
				details = append(details, m.detail(e, d))
			}
		}
	}
	sort.Slice(details, func(i, j int) bool { return details[i].Debt.CreatedAt.After(details[j].Debt.CreatedAt) })
	return details, nil
}

func (m *memStore) UpdatePaidStatus(ctx context.Context, debtID, debtorID string, isPaid bool, paidAt *time.Time, note *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	for _, e := range m.expenses {
		for i := range e.Debtors {
			d := &e.Debtors[i]
			if d.ID == debtID && d.DebtorID == debtorID {
				d.IsPaid = isPaid
				d.PaidAt = paidAt
				d.PaymentNote = note
				return nil
			}
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) UpsertReview(ctx context.Context, review *models.OwnerReview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reviewErr != nil {
		return m.reviewErr
	}
	m.reviews[review.ExpenseDebtorID] = *review
	return nil
}

// debt returns the stored debtor row for debtorID on expenseID
func (m *memStore) debt(expenseID, debtorID string) models.ExpenseDebtor {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.expenses[expenseID].Debtors {
		if d.DebtorID == debtorID {
			return d
		}
	}
	return models.ExpenseDebtor{}
}

// mutateDebt edits a stored debtor row in place
func (m *memStore) mutateDebt(expenseID, debtorID string, fn func(d *models.ExpenseDebtor)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.expenses[expenseID].Debtors {
		if m.expenses[expenseID].Debtors[i].DebtorID == debtorID {
			fn(&m.expenses[expenseID].Debtors[i])
		}
	}
}

type recordingInvalidator struct {
	mu    sync.Mutex
	calls [][]string
	err   error
}

func (r *recordingInvalidator) InvalidateDashboards(ctx context.Context, userIDs ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, append([]string(nil), userIDs...))
	return r.err
}

func (r *recordingInvalidator) last() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}

type stubBankDirectory struct {
	banks []models.BankInfo
}

func (s stubBankDirectory) Banks(ctx context.Context) []models.BankInfo {
	return s.banks
}

type stubQRGenerator struct {
	payloads []models.PaymentPayload
	err      error
}

func (s *stubQRGenerator) Generate(ctx context.Context, payload models.PaymentPayload) (*models.QRResult, error) {
	s.payloads = append(s.payloads, payload)
	if s.err != nil {
		return nil, s.err
	}
	code := "000201010212"
	return &models.QRResult{
		QRCode:      &code,
		AccountName: payload.AccountName,
		AccountNo:   payload.AccountNumber,
		AcqID:       payload.BankCode,
		Amount:      payload.Amount,
		AddInfo:     payload.Memo,
	}, nil
}

var (
	errStoreDown = errors.New("connection refused")
	errCreatorFK = errors.New(`insert or update on table "expenses" violates foreign key constraint "expenses_created_by_id_fkey"`)
)

const (
	ownerID   = "user-owner"
	debtorAID = "user-a"
	debtorBID = "user-b"
	outsider  = "user-x"
)

// seedMembers adds a payment-ready owner and two debtors
func seedMembers(store *memStore) {
	store.addProfile(models.Profile{
		ID:          ownerID,
		DisplayName: "Chủ Nhà",
		Email:       "owner@example.com",
		BankCode:    "970436",
		BankAccount: "0123 4567 89",
		BankOwner:   "Nguyễn Văn O",
	})
	store.addProfile(models.Profile{ID: debtorAID, DisplayName: "Nguyễn Văn A", Email: "a@example.com"})
	store.addProfile(models.Profile{ID: debtorBID, Email: "b@example.com"})
	store.addProfile(models.Profile{ID: outsider, DisplayName: "Người Lạ", Email: "x@example.com"})
}

type testEnv struct {
	store       *memStore
	invalidator *recordingInvalidator
	qr          *stubQRGenerator
	ledger      *LedgerService
	payments    *PaymentService
	settlement  *SettlementService
	profiles    *ProfileService
	now         time.Time
}

func newTestEnv() *testEnv {
	store := newMemStore()
	seedMembers(store)
	inv := &recordingInvalidator{}
	qr := &stubQRGenerator{}
	banks := stubBankDirectory{banks: []models.BankInfo{
		{ID: 43, Name: "Ngân hàng TMCP Ngoại Thương Việt Nam", Code: "VCB", Bin: "970436", ShortName: "Vietcombank", Logo: "https://api.vietqr.io/img/VCB.png"},
	}}
	now := time.Date(2026, 10, 14, 8, 30, 0, 0, time.UTC)

	ledger := NewLedgerService(store, store, store, banks, inv, testLocation)
	ledger.now = func() time.Time { return now }
	settlement := NewSettlementService(store, store, inv)
	settlement.now = func() time.Time { return now }

	return &testEnv{
		store:       store,
		invalidator: inv,
		qr:          qr,
		ledger:      ledger,
		payments:    NewPaymentService(store, qr, testLocation),
		settlement:  settlement,
		profiles:    NewProfileService(store, inv),
		now:         now,
	}
}
