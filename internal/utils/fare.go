package utils

import (
	"strconv"
	"strings"
)

// FormatAmount prints a fare or distance with as few digits as needed:
// 160 -> "160", 142.5 -> "142.5".
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatFare prefixes the currency symbol, e.g. "₹160".
func FormatFare(symbol string, v float64) string {
	return strings.TrimSpace(symbol) + FormatAmount(v)
}
