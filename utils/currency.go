package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrencyVND formats an amount the way vi-VN renders dong: no minor units,
// "." as thousands separator and the symbol after the number.
// Example: 90000 -> "90.000 ₫"
func FormatCurrencyVND(amount decimal.Decimal) string {
	rounded := amount.Round(0)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	integerPart := rounded.String()

	// Tambahkan pemisah ribuan
	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	return fmt.Sprintf("%s%s ₫", sign, strings.Join(groups, "."))
}
