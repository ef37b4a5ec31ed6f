package journal

import "fmt"

// Issue describes one validation finding against a single transaction.
type Issue struct {
	Ticker  string
	Date    Date
	Line    int
	Message string
}

func (i *Issue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("line %d: %s on %s - %s", i.Line, i.Ticker, i.Date, i.Message)
	}
	return fmt.Sprintf("%s on %s - %s", i.Ticker, i.Date, i.Message)
}

// ValidationResult collects errors and warnings from Validate. Errors
// indicate transactions a calculation should not be run over; warnings
// flag suspicious but processable input.
type ValidationResult struct {
	Errors   []*Issue
	Warnings []*Issue
}

// IsValid reports whether no errors were found.
func (r *ValidationResult) IsValid() bool { return len(r.Errors) == 0 }

// IsClean reports whether no errors or warnings were found.
func (r *ValidationResult) IsClean() bool {
	return len(r.Errors) == 0 && len(r.Warnings) == 0
}

// Validate performs field-level checks on a journal. It never mutates
// the transactions and never short-circuits; all findings are returned
// together.
func Validate(transactions []*Transaction) *ValidationResult {
	result := &ValidationResult{}

	addError := func(t *Transaction, format string, args ...interface{}) {
		result.Errors = append(result.Errors, &Issue{
			Ticker:  t.Ticker,
			Date:    t.Date,
			Line:    t.Line,
			Message: fmt.Sprintf(format, args...),
		})
	}

	for _, t := range transactions {
		switch t.Operation {
		case Buy, Sell:
			if !t.Quantity.IsPositive() {
				addError(t, "quantity must be positive, got %s", t.Quantity)
			}
			if t.Price.IsNegative() {
				addError(t, "price cannot be negative, got %s", t.Price)
			}
		case Dividend, CapReturn:
			if t.Quantity.IsNegative() {
				addError(t, "quantity cannot be negative, got %s", t.Quantity)
			}
			if t.Total.IsNegative() {
				addError(t, "total cannot be negative, got %s", t.Total)
			}
		case Split, Unsplit:
			if !t.Ratio.IsPositive() {
				addError(t, "ratio must be positive, got %s", t.Ratio)
			}
		}
		if t.Fees.IsNegative() {
			addError(t, "fees cannot be negative, got %s", t.Fees)
		}
		if t.Tax.IsNegative() {
			addError(t, "tax cannot be negative, got %s", t.Tax)
		}
	}

	// Disposal ordering heuristics. A sell dated before its ticker's first
	// purchase usually means a missing or misdated buy; it is not fatal
	// because the calculation has its own holding check.
	firstBuy := make(map[string]Date)
	hasBuy := make(map[string]bool)
	for _, t := range transactions {
		if t.Operation == Buy {
			if !hasBuy[t.Ticker] || t.Date.Before(firstBuy[t.Ticker]) {
				firstBuy[t.Ticker] = t.Date
				hasBuy[t.Ticker] = true
			}
		}
	}
	for _, t := range transactions {
		if t.Operation != Sell {
			continue
		}
		issue := &Issue{Ticker: t.Ticker, Date: t.Date, Line: t.Line}
		switch {
		case !hasBuy[t.Ticker]:
			issue.Message = "sell without any recorded purchase"
		case t.Date.Before(firstBuy[t.Ticker]):
			issue.Message = fmt.Sprintf("sell precedes first purchase on %s", firstBuy[t.Ticker])
		default:
			continue
		}
		result.Warnings = append(result.Warnings, issue)
	}

	return result
}
