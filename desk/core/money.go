package core

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var rub = message.NewPrinter(language.Russian)

// FormatAmount renders a money value with locale grouping and two decimals,
// e.g. 3000 -> "3 000,00".
func FormatAmount(v float64) string {
	return rub.Sprintf("%v", number.Decimal(v,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2)))
}

// ParseAmount normalizes locale-formatted numeric text before summing.
// It accepts comma or period decimal separators and space, NBSP or
// apostrophe grouping, and ignores currency suffixes. Malformed text
// parses to 0: these are display aggregates, not a ledger of record.
func ParseAmount(s string) float64 {
	cleaned := stripToNumeric(s)
	if cleaned == "" || cleaned == "-" {
		return 0
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		// The rightmost separator is the decimal point, the other one
		// groups thousands.
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		cleaned = resolveSeparator(cleaned, ",")
	case lastDot >= 0:
		cleaned = resolveSeparator(cleaned, ".")
	}

	cleaned = strings.Replace(cleaned, ",", ".", 1)

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// resolveSeparator decides whether a lone separator kind is decimal or
// grouping. Repeated occurrences and an exactly-three-digit tail read as
// grouping ("1,234" is one thousand, "1,23" is a fraction).
func resolveSeparator(s, sep string) string {
	if strings.Count(s, sep) > 1 {
		return strings.ReplaceAll(s, sep, "")
	}
	if len(s)-strings.LastIndex(s, sep)-1 == 3 {
		return strings.ReplaceAll(s, sep, "")
	}
	return s
}

func stripToNumeric(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == ',':
			// A separator counts only when a digit follows, otherwise it
			// belongs to surrounding text ("руб.", trailing dots).
			if i+1 < len(runes) && runes[i+1] >= '0' && runes[i+1] <= '9' {
				b.WriteRune(r)
			}
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
