package formatter

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/cgtcalc/journal"
)

// Currency formats a GBP amount in the conventional UK style:
// £1,234.00, with negatives as -£100.00. Amounts are rounded to two
// decimal places, half away from zero.
func Currency(amount decimal.Decimal) string {
	negative := amount.IsNegative()
	rounded := amount.Abs().Round(2)

	text := rounded.StringFixed(2)
	whole, frac, _ := strings.Cut(text, ".")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteString("£")
	b.WriteString(groupThousands(whole))
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Number formats a quantity with insignificant trailing zeros removed.
func Number(d decimal.Decimal) string {
	text := d.String()
	if strings.Contains(text, ".") {
		text = strings.TrimRight(text, "0")
		text = strings.TrimRight(text, ".")
	}
	if text == "" || text == "-" {
		return "0"
	}
	return text
}

// Day formats a date in DD/MM/YYYY form.
func Day(d journal.Date) string {
	return d.Format("02/01/2006")
}
