package utils

import (
	"fmt"
	"strings"
)

// FormatBRL formats an amount in Brazilian currency format (R$ 1.234,56).
func FormatBRL(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(str, ".")
	intPart := groupThousands(parts[0])
	decPart := parts[1]

	result := "R$ " + intPart + "," + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts dots every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	s = s[:n-3]
	for len(s) > 3 {
		result = s[len(s)-3:] + "." + result
		s = s[:len(s)-3]
	}
	return s + "." + result
}

// FormatPercentBR formats a percentage with sign and Brazilian decimal comma.
func FormatPercentBR(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return strings.ReplaceAll(fmt.Sprintf("%s%.2f%%", sign, value), ".", ",")
}

// FormatQuantityBR formats an integer quantity with dot separators.
func FormatQuantityBR(qty int64) string {
	negative := qty < 0
	if negative {
		qty = -qty
	}
	result := groupThousands(fmt.Sprintf("%d", qty))
	if negative {
		result = "-" + result
	}
	return result
}

// FormatCompactBRL formats large amounts in compact form (mil / mi / bi).
func FormatCompactBRL(amount float64) string {
	abs := amount
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs >= 1e9:
		return strings.ReplaceAll(fmt.Sprintf("R$ %.2f bi", amount/1e9), ".", ",")
	case abs >= 1e6:
		return strings.ReplaceAll(fmt.Sprintf("R$ %.2f mi", amount/1e6), ".", ",")
	case abs >= 1e3:
		return strings.ReplaceAll(fmt.Sprintf("R$ %.1f mil", amount/1e3), ".", ",")
	}
	return FormatBRL(amount)
}
