// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/loanscope/internal/model"
)

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatAmount formats an income or payment. Values of 1000 and above are
// rounded to whole units with separators; smaller ones keep two decimals.
// e.g., 6500 -> "6,500", 416.666 -> "416.67"
func FormatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	if math.Abs(v) >= 1000 {
		return FormatNumber(int64(math.Round(v)))
	}
	return fmt.Sprintf("%.2f", v)
}

// FormatFloat formats v with prec decimals, "-" for NaN.
func FormatFloat(v float64, prec int) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	if math.IsNaN(f) {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatRate returns part/whole as a percentage, "-" when whole is zero.
func FormatRate(part, whole int) string {
	if whole == 0 {
		return "-"
	}
	return FormatPercent(float64(part) / float64(whole))
}

// FormatOutcome expands a Loan_Status code for display.
// e.g., "Y" -> "Approved", "N" -> "Rejected"
func FormatOutcome(code string) string {
	switch {
	case model.IsApproved(code):
		return model.Approved.String()
	case model.IsRejected(code):
		return model.Rejected.String()
	}
	return code
}
