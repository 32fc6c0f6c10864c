package utils

import (
	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount with two decimals, e.g. 20 -> "20.00"
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
