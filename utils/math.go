package utils

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of fractional digits kept for ledger amounts
const MoneyPlaces = 2

// RoundMoney rounds an amount to 2 decimal places for ledger storage
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyPlaces)
}

// ToWholeUnits rounds an amount to the nearest whole currency unit.
// The transfer network has no fractional subunit.
func ToWholeUnits(amount decimal.Decimal) int64 {
	return amount.Round(0).IntPart()
}

// SumAmounts adds up a list of amounts
func SumAmounts(amounts []decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, amounts...)
}
