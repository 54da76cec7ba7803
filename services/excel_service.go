package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fadhlanhapp/congno-backend/models"
	"github.com/fadhlanhapp/congno-backend/utils"
)

const (
	expensesSheet = "Expenses"
	debtsSheet    = "My Debts"
	excelDate     = "2006-01-02"
)

// ExcelService handles Excel export functionality
type ExcelService struct {
	ledger   *LedgerService
	location *time.Location
	now      Clock
}

// NewExcelService creates a new Excel service
func NewExcelService(ledger *LedgerService, location *time.Location) *ExcelService {
	if location == nil {
		location = time.UTC
	}
	return &ExcelService{
		ledger:   ledger,
		location: location,
		now:      time.Now,
	}
}

// ExportLedger generates a workbook with the user's owned expenses and own debts
func (s *ExcelService) ExportLedger(ctx context.Context, user models.CurrentUser) (*excelize.File, string, error) {
	expenses, err := s.ledger.ListOwnedExpenses(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	debts, err := s.ledger.ListDebts(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()

	if err := s.createExpensesSheet(f, expenses); err != nil {
		return nil, "", fmt.Errorf("failed to create expenses sheet: %w", err)
	}
	if err := s.createDebtsSheet(f, debts); err != nil {
		return nil, "", fmt.Errorf("failed to create debts sheet: %w", err)
	}

	// Delete the default sheet if it exists
	f.DeleteSheet("Sheet1")

	filename := fmt.Sprintf("%s_Ledger_%s.xlsx",
		utils.CleanFileName(utils.FirstNonEmpty(user.Label(), "congno")),
		s.now().In(s.location).Format(excelDate))

	return f, filename, nil
}

// createExpensesSheet writes one row per expense and debtor
func (s *ExcelService) createExpensesSheet(f *excelize.File, expenses []models.Expense) error {
	index, err := f.NewSheet(expensesSheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	headers := []string{"Date", "Title", "Amount", "Debtor", "Email", "Owed", "Paid", "Paid At", "Payment Note", "Review", "Review Note"}
	if err := writeHeaders(f, expensesSheet, headers); err != nil {
		return err
	}

	row := 2
	for _, expense := range expenses {
		if len(expense.Debtors) == 0 {
			writeRow(f, expensesSheet, row, s.formatDate(expense.CreatedAt), expense.Title, expense.Amount.InexactFloat64())
			row++
			continue
		}
		for _, debtor := range expense.Debtors {
			writeRow(f, expensesSheet, row,
				s.formatDate(expense.CreatedAt),
				expense.Title,
				expense.Amount.InexactFloat64(),
				debtor.DebtorName,
				debtor.DebtorEmail,
				debtor.OwedAmount.InexactFloat64(),
				paidLabel(debtor.IsPaid),
				s.formatTimePtr(debtor.PaidAt),
				derefString(debtor.PaymentNote),
				reviewStatus(debtor.Review),
				reviewNote(debtor.Review),
			)
			row++
		}
	}

	f.SetColWidth(expensesSheet, "A", "K", 15)
	return nil
}

// createDebtsSheet writes the debts the user owes to others
func (s *ExcelService) createDebtsSheet(f *excelize.File, debts []models.DebtView) error {
	if _, err := f.NewSheet(debtsSheet); err != nil {
		return err
	}

	headers := []string{"Date", "Title", "Owner", "Amount", "Memo", "Paid", "Paid At", "Payment Note", "Review"}
	if err := writeHeaders(f, debtsSheet, headers); err != nil {
		return err
	}

	for i, debt := range debts {
		writeRow(f, debtsSheet, i+2,
			s.formatDate(debt.CreatedAt),
			debt.Title,
			debt.OwnerName,
			debt.Amount.InexactFloat64(),
			debt.Memo,
			paidLabel(debt.IsPaid),
			s.formatTimePtr(debt.PaidAt),
			derefString(debt.PaymentNote),
			reviewStatus(debt.Review),
		)
	}

	f.SetColWidth(debtsSheet, "A", "I", 15)
	return nil
}

func writeHeaders(f *excelize.File, sheet string, headers []string) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	return f.SetCellStyle(sheet, "A1", last, headerStyle)
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, value := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, value)
	}
}

func (s *ExcelService) formatDate(t time.Time) string {
	return t.In(s.location).Format(excelDate)
}

func (s *ExcelService) formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(s.location).Format("2006-01-02 15:04")
}

func paidLabel(isPaid bool) string {
	if isPaid {
		return "Paid"
	}
	return "Unpaid"
}

func reviewStatus(review *models.OwnerReview) string {
	if review == nil {
		return utils.ReviewStatusPending
	}
	return review.Status
}

func reviewNote(review *models.OwnerReview) string {
	if review == nil {
		return ""
	}
	return derefString(review.Note)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
