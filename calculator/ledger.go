package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/cgtcalc/journal"
)

// acquisitionLot tracks the remaining claim of one buy. Shares leave a
// lot through three counters: consumed (claimed by same-day matching),
// reserved (claimed by an earlier disposal's bed-and-breakfast match)
// and inPool (retired into the Section 104 pool).
//
// Invariant: consumed + reserved + inPool <= originalQuantity, all
// counters non-negative.
type acquisitionLot struct {
	date             journal.Date
	originalQuantity decimal.Decimal
	price            decimal.Decimal
	expenses         decimal.Decimal

	// costOffset is the cumulative cost adjustment from dividends and
	// capital returns apportioned to this lot.
	costOffset decimal.Decimal

	consumed decimal.Decimal
	reserved decimal.Decimal
	inPool   decimal.Decimal
}

// available returns the quantity not yet claimed by any counter.
func (l *acquisitionLot) available() decimal.Decimal {
	return l.originalQuantity.Sub(l.consumed).Sub(l.reserved).Sub(l.inPool)
}

// adjustedCost returns the lot's full cost basis: shares at purchase
// price, plus incidental expenses, plus corporate action offsets.
func (l *acquisitionLot) adjustedCost() decimal.Decimal {
	return l.originalQuantity.Mul(l.price).Add(l.expenses).Add(l.costOffset)
}

// adjustedUnitCost returns the per-share cost basis, zero for an empty lot.
func (l *acquisitionLot) adjustedUnitCost() decimal.Decimal {
	if !l.originalQuantity.IsPositive() {
		return decimal.Decimal{}
	}
	return l.adjustedCost().Div(l.originalQuantity)
}

// acquisitionLedger holds one ticker's lots in acquisition-date order.
// Lots are stored by value in a contiguous slice and addressed by
// index; the ledger is ephemeral and single-owner for the duration of
// one calculation.
type acquisitionLedger struct {
	lots []acquisitionLot
}

// record appends a lot. reserved is the quantity already claimed by
// earlier disposals' bed-and-breakfast matches; it is outside the lot's
// availability from the start.
func (g *acquisitionLedger) record(date journal.Date, quantity, price, expenses, costOffset, reserved decimal.Decimal) {
	g.lots = append(g.lots, acquisitionLot{
		date:             date,
		originalQuantity: quantity,
		price:            price,
		expenses:         expenses,
		costOffset:       costOffset,
		reserved:         reserved,
	})
}

// remainingForDate sums available quantity across lots acquired exactly
// on the given date.
func (g *acquisitionLedger) remainingForDate(date journal.Date) decimal.Decimal {
	var total decimal.Decimal
	for i := range g.lots {
		if g.lots[i].date == date {
			total = total.Add(g.lots[i].available())
		}
	}
	return total
}

// consumeOn claims quantity shares from the lots acquired on the given
// date, spread across them in proportion to their availability with the
// final lot taking the remainder so the claimed total is exact. It
// returns the cost basis of the claimed shares.
//
// The caller must not ask for more than remainingForDate(date).
func (g *acquisitionLedger) consumeOn(date journal.Date, quantity decimal.Decimal) decimal.Decimal {
	total := g.remainingForDate(date)
	if !total.IsPositive() || !quantity.IsPositive() {
		return decimal.Decimal{}
	}

	var open []int
	for i := range g.lots {
		if g.lots[i].date == date && g.lots[i].available().IsPositive() {
			open = append(open, i)
		}
	}

	var cost decimal.Decimal
	claimed := decimal.Decimal{}
	for n, i := range open {
		lot := &g.lots[i]
		var take decimal.Decimal
		if n == len(open)-1 {
			take = quantity.Sub(claimed)
		} else {
			take = quantity.Mul(lot.available()).Div(total)
		}
		if take.GreaterThan(lot.available()) {
			take = lot.available()
		}
		lot.consumed = lot.consumed.Add(take)
		cost = cost.Add(take.Mul(lot.adjustedUnitCost()))
		claimed = claimed.Add(take)
	}

	return cost
}

// foldIntoPool retires everything still available in lots acquired on
// the given date into the pool at the lots' adjusted cost. Called at
// the end of each acquisition's own day, once same-day disposals and
// earlier disposals' lookahead claims have taken their shares.
func (g *acquisitionLedger) foldIntoPool(date journal.Date, pool *section104Pool) {
	for i := range g.lots {
		lot := &g.lots[i]
		if lot.date != date {
			continue
		}
		quantity := lot.available()
		if !quantity.IsPositive() {
			continue
		}
		pool.add(quantity, quantity.Mul(lot.adjustedUnitCost()))
		lot.inPool = lot.inPool.Add(quantity)
	}
}
