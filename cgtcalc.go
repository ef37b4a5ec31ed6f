// Package cgtcalc calculates UK capital gains tax from a journal of
// securities transactions. It ties together the parser and calculator
// packages behind a small convenience API; use those packages directly
// for finer control.
package cgtcalc

import (
	"context"

	"github.com/robinvdvleuten/cgtcalc/calculator"
	"github.com/robinvdvleuten/cgtcalc/journal"
	"github.com/robinvdvleuten/cgtcalc/parser"
)

// Parse parses journal source into transactions.
func Parse(source string) ([]*journal.Transaction, error) {
	return parser.Parse(source)
}

// Calculate parses journal source and runs a full calculation over it.
func Calculate(ctx context.Context, source string, opts ...calculator.Option) (*calculator.Report, error) {
	transactions, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}

	return calculator.New(opts...).Process(ctx, transactions)
}
