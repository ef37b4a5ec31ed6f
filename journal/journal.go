// Package journal defines the transaction model for a capital gains
// journal: dated buy/sell trades and corporate actions (dividends,
// capital returns, splits) for exchange-listed securities.
//
// All monetary and quantity fields use decimal arithmetic to avoid
// floating point precision issues. A journal is an ordered slice of
// transactions; ordering is by date with input order preserved for
// same-date entries.
package journal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Operation identifies the kind of a journal transaction.
type Operation string

const (
	Buy       Operation = "BUY"
	Sell      Operation = "SELL"
	Dividend  Operation = "DIVIDEND"
	CapReturn Operation = "CAPRETURN"
	Split     Operation = "SPLIT"
	Unsplit   Operation = "UNSPLIT"
)

// IsTrade reports whether the operation moves shares for consideration.
func (o Operation) IsTrade() bool {
	return o == Buy || o == Sell
}

// IsEvent reports whether the operation is a corporate action.
func (o Operation) IsEvent() bool {
	return o == Dividend || o == CapReturn || o == Split || o == Unsplit
}

// DefaultCurrency is assumed when a transaction carries no currency code.
const DefaultCurrency = "GBP"

// Transaction is a single journal line. Which fields are meaningful
// depends on the operation:
//
//   - Buy/Sell: Quantity, Price, Fees
//   - Dividend: Quantity (holding at the time), Total, Tax
//   - CapReturn: Quantity (holding at the time), Total, Fees
//   - Split/Unsplit: Ratio
//
// Unused fields are zero. Monetary fields are expressed in Currency;
// conversion to GBP happens downstream.
type Transaction struct {
	Date      Date
	Operation Operation
	Ticker    string
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	Total     decimal.Decimal
	Fees      decimal.Decimal
	Tax       decimal.Decimal
	Ratio     decimal.Decimal
	Currency  string

	// Line is the 1-based source line, or 0 for synthetic transactions.
	Line int
}

// String renders the transaction as a canonical journal line.
func (t *Transaction) String() string {
	var b strings.Builder
	b.WriteString(t.Date.String())
	b.WriteByte(' ')
	b.WriteString(string(t.Operation))
	b.WriteByte(' ')
	b.WriteString(t.Ticker)

	currency := t.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	switch t.Operation {
	case Buy, Sell:
		b.WriteByte(' ')
		b.WriteString(t.Quantity.String())
		b.WriteString(" @ ")
		b.WriteString(t.Price.String())
		b.WriteByte(' ')
		b.WriteString(currency)
		if t.Fees.IsPositive() {
			b.WriteString(" FEES ")
			b.WriteString(t.Fees.String())
			b.WriteByte(' ')
			b.WriteString(currency)
		}
	case Dividend:
		b.WriteByte(' ')
		b.WriteString(t.Quantity.String())
		b.WriteString(" TOTAL ")
		b.WriteString(t.Total.String())
		b.WriteByte(' ')
		b.WriteString(currency)
		if t.Tax.IsPositive() {
			b.WriteString(" TAX ")
			b.WriteString(t.Tax.String())
			b.WriteByte(' ')
			b.WriteString(currency)
		}
	case CapReturn:
		b.WriteByte(' ')
		b.WriteString(t.Quantity.String())
		b.WriteString(" TOTAL ")
		b.WriteString(t.Total.String())
		b.WriteByte(' ')
		b.WriteString(currency)
		if t.Fees.IsPositive() {
			b.WriteString(" FEES ")
			b.WriteString(t.Fees.String())
			b.WriteByte(' ')
			b.WriteString(currency)
		}
	case Split, Unsplit:
		b.WriteString(" RATIO ")
		b.WriteString(t.Ratio.String())
	}

	return b.String()
}
