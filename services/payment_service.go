package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fadhlanhapp/congno-backend/models"
	"github.com/fadhlanhapp/congno-backend/utils"
)

// PaymentService builds bank transfer instructions for debts
type PaymentService struct {
	debts    DebtStore
	qr       QRGenerator
	location *time.Location
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(debts DebtStore, qr QRGenerator, location *time.Location) *PaymentService {
	if location == nil {
		location = time.UTC
	}
	return &PaymentService{
		debts:    debts,
		qr:       qr,
		location: location,
	}
}

// BuildPaymentInstruction derives the transfer payload the debtor needs to pay debtID.
// Checks run in order: existence, requester, payee readiness, amount, account, bank code.
func (s *PaymentService) BuildPaymentInstruction(ctx context.Context, debtID, requestingUserID string) (*models.PaymentPayload, error) {
	detail, err := getDebtDetail(ctx, s.debts, debtID)
	if err != nil {
		return nil, err
	}
	if detail.Debt.DebtorID != requestingUserID {
		return nil, utils.NewAuthorizationError(utils.ErrNotDebtor)
	}
	return buildPayload(*detail, s.location)
}

// GeneratePaymentQR builds the payload for debtID and asks the QR generator to encode it
func (s *PaymentService) GeneratePaymentQR(ctx context.Context, debtID, requestingUserID string) (*models.QRResult, error) {
	payload, err := s.BuildPaymentInstruction(ctx, debtID, requestingUserID)
	if err != nil {
		return nil, err
	}
	if s.qr == nil {
		return nil, utils.NewUpstreamServiceError(utils.ErrQRNotConfigured, "", nil)
	}

	result, err := s.qr.Generate(ctx, *payload)
	if err != nil {
		log.Printf("level=error component=payment msg=\"qr generation failed\" debt_id=%s err=%v", debtID, err)
		return nil, err
	}
	return result, nil
}

func buildPayload(detail models.DebtDetail, location *time.Location) (*models.PaymentPayload, error) {
	payee := detail.Payee
	if !payee.IsPaymentReady() {
		return nil, utils.NewIncompletePayeeProfileError()
	}

	amount := detail.Debt.OwedAmount
	if !amount.IsPositive() {
		return nil, utils.NewInvalidAmountError()
	}
	wholeAmount := utils.ToWholeUnits(amount)
	if wholeAmount <= 0 {
		return nil, utils.NewInvalidAmountError()
	}

	accountNumber := utils.RemoveWhitespace(payee.BankAccount)
	if !utils.IsValidBankAccount(accountNumber) {
		return nil, utils.NewInvalidBankAccountError()
	}

	bankCode := strings.TrimSpace(payee.BankCode)
	if !utils.IsValidBankCode(bankCode) {
		return nil, utils.NewInvalidBankCodeError()
	}

	return &models.PaymentPayload{
		AccountNumber: accountNumber,
		AccountName:   utils.NormalizeAccountName(payee.BankOwner),
		BankCode:      bankCode,
		Amount:        wholeAmount,
		Memo:          paymentMemo(detail, location),
		Template:      utils.QRTemplate,
	}, nil
}

// paymentMemo is "<debtor> <title> <d/m/yyyy>" reduced to the bank memo alphabet
func paymentMemo(detail models.DebtDetail, location *time.Location) string {
	debtor := utils.FirstNonEmpty(detail.Debt.DebtorName, detail.Debt.DebtorEmail, utils.DefaultDebtorName)
	title := utils.FirstNonEmpty(detail.Expense.Title, utils.DefaultMemo)
	date := detail.Expense.CreatedAt.In(location).Format(utils.MemoDateLayout)

	memo := utils.NormalizeMemo(fmt.Sprintf("%s %s %s", debtor, title, date))
	if memo == "" {
		return utils.DefaultMemo
	}
	return memo
}
