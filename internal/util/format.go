package util

import (
	"fmt"
	"strings"
)

// FormatMoney converts an amount in whole currency units to a display
// string with thousands separators. For example: 1500000 -> "$1,500,000".
func FormatMoney(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	formatted := fmt.Sprintf("%d", amount)
	length := len(formatted)

	var result strings.Builder
	if negative {
		result.WriteRune('-')
	}
	result.WriteRune('$')
	for i, char := range formatted {
		result.WriteRune(char)
		if (length-i-1)%3 == 0 && i < length-1 {
			result.WriteRune(',')
		}
	}

	return result.String()
}

// TruncateContent shortens a string for notification titles.
func TruncateContent(title string, maxLength int) string {
	if len(title) <= maxLength {
		return title
	}
	return title[:maxLength] + "..."
}
