package utils

import "regexp"

var (
	bankAccountRegex = regexp.MustCompile(`^\d{6,19}$`)
	bankCodeRegex    = regexp.MustCompile(`^\d{6}$`)
)

// IsValidBankAccount reports whether an already whitespace-stripped account number is 6-19 digits
func IsValidBankAccount(accountNumber string) bool {
	return bankAccountRegex.MatchString(accountNumber)
}

// IsValidBankCode reports whether code is a 6-digit bank identification number
func IsValidBankCode(code string) bool {
	return bankCodeRegex.MatchString(code)
}

// IsValidReviewStatus reports whether status is one of the owner review statuses
func IsValidReviewStatus(status string) bool {
	switch status {
	case ReviewStatusPending, ReviewStatusConfirmed, ReviewStatusDisputed:
		return true
	}
	return false
}
