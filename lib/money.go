package lib

import (
	"github.com/shopspring/decimal"
)

// ToMinorUnits converts a currency amount to integer cents, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// FromMinorUnits is the inverse of ToMinorUnits.
func FromMinorUnits(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Money rounds to two decimals the way numeric(10,2) columns store it.
func Money(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}
