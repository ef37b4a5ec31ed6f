package calculator

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/cgtcalc/journal"
)

// Error types for fatal calculation errors. A calculation either
// produces a complete report or one of these; there are no partial
// results.

// InsufficientHoldingError is returned when a disposal's quantity
// exceeds the combined same-day and pooled holding for its ticker.
// Future acquisitions inside the bed-and-breakfast window do not count
// towards the holding; a disposal must be covered by shares already
// held on its date.
type InsufficientHoldingError struct {
	Ticker    string
	Date      journal.Date
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientHoldingError) Error() string {
	return fmt.Sprintf("%s: disposal of %s %s exceeds available holding of %s",
		e.Date, e.Requested, e.Ticker, e.Available)
}

func (e *InsufficientHoldingError) GetTicker() string {
	return e.Ticker
}

func (e *InsufficientHoldingError) GetDate() journal.Date {
	return e.Date
}

// NewInsufficientHoldingError creates an insufficient holding error.
func NewInsufficientHoldingError(ticker string, date journal.Date, requested, available decimal.Decimal) *InsufficientHoldingError {
	return &InsufficientHoldingError{
		Ticker:    ticker,
		Date:      date,
		Requested: requested,
		Available: available,
	}
}

// MissingFxRateError is returned when a transaction in a foreign
// currency has no exchange rate for its month.
type MissingFxRateError struct {
	Currency string
	Year     int
	Month    time.Month
}

func (e *MissingFxRateError) Error() string {
	return fmt.Sprintf("no exchange rate for %s in %04d-%02d", e.Currency, e.Year, int(e.Month))
}

func (e *MissingFxRateError) GetCurrency() string {
	return e.Currency
}

// NewMissingFxRateError creates a missing exchange rate error.
func NewMissingFxRateError(currency string, year int, month time.Month) *MissingFxRateError {
	return &MissingFxRateError{Currency: currency, Year: year, Month: month}
}

// InvalidTaxYearError is returned when a date or requested year falls
// outside the supported tax-year range. Date is zero when the year was
// requested directly rather than derived from a disposal.
type InvalidTaxYearError struct {
	Year int
	Date journal.Date
}

func (e *InvalidTaxYearError) Error() string {
	if e.Date.IsZero() {
		return fmt.Sprintf("tax year %d is out of the supported range (%d-%d)", e.Year, MinTaxYear, MaxTaxYear)
	}
	return fmt.Sprintf("%s: tax year %d is out of the supported range (%d-%d)", e.Date, e.Year, MinTaxYear, MaxTaxYear)
}

func (e *InvalidTaxYearError) GetDate() journal.Date {
	return e.Date
}

// NewInvalidTaxYearError creates an invalid tax year error.
func NewInvalidTaxYearError(year int, date journal.Date) *InvalidTaxYearError {
	return &InvalidTaxYearError{Year: year, Date: date}
}

// InvalidTransactionError is returned when the engine encounters a
// transaction that upstream validation should have rejected, or an
// internal bookkeeping inconsistency tied to one transaction.
type InvalidTransactionError struct {
	Ticker  string
	Date    journal.Date
	Message string
}

func (e *InvalidTransactionError) Error() string {
	return fmt.Sprintf("%s: invalid transaction for %s: %s", e.Date, e.Ticker, e.Message)
}

func (e *InvalidTransactionError) GetDate() journal.Date {
	return e.Date
}

// NewInvalidTransactionError creates an invalid transaction error.
func NewInvalidTransactionError(ticker string, date journal.Date, format string, args ...interface{}) *InvalidTransactionError {
	return &InvalidTransactionError{
		Ticker:  ticker,
		Date:    date,
		Message: fmt.Sprintf(format, args...),
	}
}
