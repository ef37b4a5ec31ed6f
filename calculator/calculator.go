// Package calculator computes UK capital gains tax outcomes from a
// journal of securities transactions.
//
// Disposals are matched against acquisitions under the statutory share
// identification rules, in strict priority order:
//
//  1. Same Day: acquisitions on the disposal's own date
//  2. Bed and breakfast: acquisitions within 30 days after the disposal
//  3. Section 104: the average-cost pool of everything older
//
// Corporate actions (splits, accumulation dividends, capital returns)
// adjust quantities and cost bases before matching. Matches are grouped
// into disposals and aggregated into UK tax years (6 April to 5 April).
//
// The calculation is pure and synchronous: it holds no state between
// calls and either returns a complete report or a single fatal error,
// never a partial result.
//
// Example usage:
//
//	transactions, err := parser.Parse(source)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	calc := calculator.New(calculator.WithTaxYear(2024))
//	report, err := calc.Process(ctx, transactions)
//	if err != nil {
//	    log.Fatal(err)
//	}
package calculator

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/cgtcalc/journal"
	"github.com/robinvdvleuten/cgtcalc/telemetry"
)

// RateSource resolves a currency's monthly exchange rate against GBP,
// expressed as units of the currency per pound. The second return is
// false when no rate is known for that month.
type RateSource interface {
	Rate(currency string, year int, month time.Month) (decimal.Decimal, bool)
}

// Calculator runs capital gains calculations. A Calculator is cheap to
// create, holds no mutable state across calls, and is safe to use from
// multiple goroutines.
type Calculator struct {
	taxYear    *int
	rates      RateSource
	exemptions map[int]decimal.Decimal
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithTaxYear restricts the report to the tax year starting 6 April of
// the given year.
func WithTaxYear(startYear int) Option {
	return func(c *Calculator) {
		c.taxYear = &startYear
	}
}

// WithRates supplies exchange rates for journals holding non-GBP
// transactions. Without a source, any foreign-currency transaction
// fails the calculation.
func WithRates(rates RateSource) Option {
	return func(c *Calculator) {
		c.rates = rates
	}
}

// WithExemptions replaces the built-in annual exempt amount table,
// keyed by tax-year start year.
func WithExemptions(exemptions map[int]decimal.Decimal) Option {
	return func(c *Calculator) {
		c.exemptions = exemptions
	}
}

// New creates a calculator.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		exemptions: defaultExemptions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Process calculates a report over the given transactions. The input
// is not mutated; ordering within the calculation is by date with
// input order preserved for same-date entries.
func (c *Calculator) Process(ctx context.Context, transactions []*journal.Transaction) (*Report, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("calculator.process (%d transactions)", len(transactions)))
	defer timer.End()

	var target *TaxPeriod
	if c.taxYear != nil {
		period, err := NewTaxPeriod(*c.taxYear)
		if err != nil {
			return nil, err
		}
		target = &period
	}

	txs, err := c.normalize(ctx, transactions)
	if err != nil {
		return nil, err
	}

	e := newEngine(txs)
	if err := e.run(ctx); err != nil {
		return nil, err
	}

	return buildReport(e.disposals, e.holdings(), target, c.exemptions)
}

// normalize sorts the journal chronologically, converts every monetary
// field to GBP and merges same-day trades of the same ticker and side
// into one transaction (shares are fungible within a day), with a
// quantity-weighted average price and summed fees.
func (c *Calculator) normalize(ctx context.Context, transactions []*journal.Transaction) ([]*gbpTransaction, error) {
	timer := telemetry.StartTimer(ctx, "calculator.normalize")
	defer timer.End()

	ordered := make([]*journal.Transaction, len(transactions))
	copy(ordered, transactions)
	slices.SortStableFunc(ordered, func(a, b *journal.Transaction) int {
		return a.Date.Compare(b.Date)
	})

	converted := make([]*gbpTransaction, 0, len(ordered))
	for _, t := range ordered {
		if t.Operation.IsTrade() && !t.Quantity.IsPositive() {
			return nil, NewInvalidTransactionError(t.Ticker, t.Date, "trade quantity must be positive, got %s", t.Quantity)
		}
		tx, err := c.toGBP(t)
		if err != nil {
			return nil, err
		}
		converted = append(converted, tx)
	}

	var merged []*gbpTransaction
	i := 0
	for i < len(converted) {
		date := converted[i].date
		dayEnd := i
		for dayEnd < len(converted) && converted[dayEnd].date == date {
			dayEnd++
		}
		merged = append(merged, mergeDay(converted[i:dayEnd])...)
		i = dayEnd
	}

	return merged, nil
}

func (c *Calculator) toGBP(t *journal.Transaction) (*gbpTransaction, error) {
	tx := &gbpTransaction{
		date:      t.Date,
		operation: t.Operation,
		ticker:    t.Ticker,
		quantity:  t.Quantity,
		price:     t.Price,
		total:     t.Total,
		fees:      t.Fees,
		tax:       t.Tax,
		ratio:     t.Ratio,
	}

	if t.Currency == "" || t.Currency == journal.DefaultCurrency {
		return tx, nil
	}

	var rate decimal.Decimal
	ok := false
	if c.rates != nil {
		rate, ok = c.rates.Rate(t.Currency, t.Date.Year, t.Date.Month)
	}
	if !ok || !rate.IsPositive() {
		return nil, NewMissingFxRateError(t.Currency, t.Date.Year, t.Date.Month)
	}

	tx.price = t.Price.Div(rate)
	tx.total = t.Total.Div(rate)
	tx.fees = t.Fees.Div(rate)
	tx.tax = t.Tax.Div(rate)
	return tx, nil
}

type sideTicker struct {
	operation journal.Operation
	ticker    string
}

// mergeDay combines one day's trades per ticker and side, preserving
// first-occurrence order. Corporate actions pass through untouched.
func mergeDay(day []*gbpTransaction) []*gbpTransaction {
	out := make([]*gbpTransaction, 0, len(day))
	seen := make(map[sideTicker]int)

	for _, tx := range day {
		if !tx.operation.IsTrade() {
			out = append(out, tx)
			continue
		}
		key := sideTicker{tx.operation, tx.ticker}
		at, ok := seen[key]
		if !ok {
			seen[key] = len(out)
			out = append(out, tx)
			continue
		}

		prev := out[at]
		combined := *prev
		combined.quantity = prev.quantity.Add(tx.quantity)
		totalCost := prev.quantity.Mul(prev.price).Add(tx.quantity.Mul(tx.price))
		if combined.quantity.IsPositive() {
			combined.price = totalCost.Div(combined.quantity)
		}
		combined.fees = prev.fees.Add(tx.fees)
		combined.tax = prev.tax.Add(tx.tax)
		out[at] = &combined
	}

	return out
}
