package models

import "strings"

// PaymentPayload is the normalized transfer instruction handed to the QR generator.
// Field names follow the VietQR generate API.
type PaymentPayload struct {
	AccountNumber string `json:"accountNo"`
	AccountName   string `json:"accountName"`
	BankCode      string `json:"acqId"`
	Amount        int64  `json:"amount"`
	Memo          string `json:"addInfo"`
	Template      string `json:"template"`
}

// QRResult is the generated code plus the payload it encodes
type QRResult struct {
	QRDataURL   *string `json:"qrDataURL"`
	QRCode      *string `json:"qrCode"`
	AccountName string  `json:"accountName"`
	AccountNo   string  `json:"accountNo"`
	AcqID       string  `json:"acqId"`
	Amount      int64   `json:"amount"`
	AddInfo     string  `json:"addInfo"`
}

// PaymentQRRequest represents the request body for generating a payment QR code
type PaymentQRRequest struct {
	DebtorID string `json:"debtorId" binding:"required"`
}

// BankInfo is one entry of the bank directory
type BankInfo struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	Bin       string `json:"bin"`
	ShortName string `json:"shortName"`
	Logo      string `json:"logo"`
}

// FindBank matches code against each bank's BIN or short code after trimming
func FindBank(banks []BankInfo, code string) (*BankInfo, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, false
	}
	for i := range banks {
		if banks[i].Bin == code || banks[i].Code == code {
			return &banks[i], true
		}
	}
	return nil, false
}

// DisplayName prefers the short name used on bank apps
func (b *BankInfo) DisplayName() string {
	if b == nil {
		return ""
	}
	if b.ShortName != "" {
		return b.ShortName
	}
	return b.Name
}
