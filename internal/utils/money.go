package utils

import (
	"fmt"
	"strings"
)

// FormatMoney renders an amount with two decimals and thousand separators,
// e.g. FormatMoney("INR", 12345.5) == "INR 12,345.50".
func FormatMoney(code string, amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	s := fmt.Sprintf("%.2f", amount)
	whole, frac, _ := strings.Cut(s, ".")
	out := sign + formatThousand(whole) + "." + frac
	if code = strings.TrimSpace(code); code != "" {
		return code + " " + out
	}
	return out
}

func formatThousand(digits string) string {
	var out strings.Builder
	for i, c := range digits {
		if i != 0 && (len(digits)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}
