package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/cgtcalc/journal"
)

// Corporate action cost adjustments.
//
// Dividends (accumulation) and capital returns adjust the cost basis of
// the shares held when the event lands. The engine resolves them in a
// dedicated pass before matching: a shadow ledger replays the timeline
// with same-day-then-FIFO consumption to find how many of each
// acquisition's shares are still held at each event date, then
// apportions the event amount across those acquisitions. The resulting
// per-acquisition offsets feed the real matching pass, so that a lot's
// cost basis already reflects every event that touched its shares.
//
// Events land at the start of their day: acquisitions dated on or after
// the event date are unaffected.

// shadowLot mirrors one acquisition during the offset pass.
type shadowLot struct {
	txIndex  int
	date     journal.Date
	held     decimal.Decimal
	baseCost decimal.Decimal
	offset   decimal.Decimal
}

// capacity returns how much cost the lot can still surrender before its
// adjusted cost would go negative.
func (l *shadowLot) capacity() decimal.Decimal {
	c := l.baseCost.Add(l.offset)
	if c.IsNegative() {
		return decimal.Decimal{}
	}
	return c
}

// deemedGain is the part of a capital return that exceeded the holding's
// entire cost basis. It is reported as an immediate gain.
type deemedGain struct {
	date   journal.Date
	ticker string
	amount decimal.Decimal
}

type shadowLedger struct {
	lots []*shadowLot
}

// computeCostOffsets resolves all dividend and capital return events
// into per-acquisition cost offsets, keyed by transaction index.
// Capital return amounts that cannot be absorbed by any cost basis are
// returned as deemed gains.
func computeCostOffsets(txs []*gbpTransaction) (map[int]decimal.Decimal, []*deemedGain) {
	ledgers := make(map[string]*shadowLedger)
	var deemed []*deemedGain

	ledgerFor := func(ticker string) *shadowLedger {
		g := ledgers[ticker]
		if g == nil {
			g = &shadowLedger{}
			ledgers[ticker] = g
		}
		return g
	}

	i := 0
	for i < len(txs) {
		date := txs[i].date
		dayEnd := i
		for dayEnd < len(txs) && txs[dayEnd].date == date {
			dayEnd++
		}
		day := txs[i:dayEnd]

		// Corporate actions land before the day's acquisitions.
		for _, tx := range day {
			g := ledgers[tx.ticker]
			switch tx.operation {
			case journal.Split:
				if g != nil {
					g.scaleHeld(tx.ratio)
				}
			case journal.Unsplit:
				if g != nil && !tx.ratio.IsZero() {
					g.scaleHeld(decimal.NewFromInt(1).Div(tx.ratio))
				}
			case journal.CapReturn:
				if g != nil {
					excess := g.applyAdjustment(tx.total.Sub(tx.fees).Neg())
					if excess.IsPositive() {
						deemed = append(deemed, &deemedGain{date: date, ticker: tx.ticker, amount: excess})
					}
				}
			case journal.Dividend:
				if g != nil {
					g.applyAdjustment(tx.total)
				}
			}
		}

		for idx, tx := range day {
			if tx.operation == journal.Buy {
				g := ledgerFor(tx.ticker)
				g.lots = append(g.lots, &shadowLot{
					txIndex:  i + idx,
					date:     tx.date,
					held:     tx.quantity,
					baseCost: tx.quantity.Mul(tx.price).Add(tx.fees),
				})
			}
		}

		for _, tx := range day {
			if tx.operation == journal.Sell {
				if g := ledgers[tx.ticker]; g != nil {
					g.consume(tx.date, tx.quantity)
				}
			}
		}

		i = dayEnd
	}

	offsets := make(map[int]decimal.Decimal)
	for _, g := range ledgers {
		for _, lot := range g.lots {
			if !lot.offset.IsZero() {
				offsets[lot.txIndex] = lot.offset
			}
		}
	}

	return offsets, deemed
}

func (g *shadowLedger) scaleHeld(ratio decimal.Decimal) {
	for _, lot := range g.lots {
		lot.held = lot.held.Mul(ratio)
	}
}

// consume removes quantity from held shares: same-date lots first
// (spread proportionally), then earlier lots oldest first.
func (g *shadowLedger) consume(date journal.Date, quantity decimal.Decimal) {
	remaining := quantity

	var sameDay []*shadowLot
	var sameDayHeld decimal.Decimal
	for _, lot := range g.lots {
		if lot.date == date && lot.held.IsPositive() {
			sameDay = append(sameDay, lot)
			sameDayHeld = sameDayHeld.Add(lot.held)
		}
	}
	if sameDayHeld.IsPositive() {
		matched := decimal.Min(remaining, sameDayHeld)
		taken := decimal.Decimal{}
		for n, lot := range sameDay {
			var take decimal.Decimal
			if n == len(sameDay)-1 {
				take = matched.Sub(taken)
			} else {
				take = matched.Mul(lot.held).Div(sameDayHeld)
			}
			if take.GreaterThan(lot.held) {
				take = lot.held
			}
			lot.held = lot.held.Sub(take)
			taken = taken.Add(take)
		}
		remaining = remaining.Sub(matched)
	}

	for _, lot := range g.lots {
		if !remaining.IsPositive() {
			break
		}
		if !lot.date.Before(date) || !lot.held.IsPositive() {
			continue
		}
		take := decimal.Min(remaining, lot.held)
		lot.held = lot.held.Sub(take)
		remaining = remaining.Sub(take)
	}
}

// applyAdjustment spreads amount across held shares in proportion to
// each lot's holding, with the final lot taking the exact remainder so
// no rounding residue is lost. Negative amounts (capital returns) are
// clipped at each lot's remaining cost basis; anything no lot can
// absorb is redistributed over lots that still have basis, and the
// unabsorbable excess is returned.
func (g *shadowLedger) applyAdjustment(amount decimal.Decimal) decimal.Decimal {
	if amount.IsZero() {
		return decimal.Decimal{}
	}

	if amount.IsPositive() {
		var open []*shadowLot
		var totalHeld decimal.Decimal
		for _, lot := range g.lots {
			if lot.held.IsPositive() {
				open = append(open, lot)
				totalHeld = totalHeld.Add(lot.held)
			}
		}
		if !totalHeld.IsPositive() {
			return decimal.Decimal{}
		}
		applied := decimal.Decimal{}
		for n, lot := range open {
			var share decimal.Decimal
			if n == len(open)-1 {
				share = amount.Sub(applied)
			} else {
				share = amount.Mul(lot.held).Div(totalHeld)
			}
			lot.offset = lot.offset.Add(share)
			applied = applied.Add(share)
		}
		return decimal.Decimal{}
	}

	// Capital return: reduce cost, clipping at zero per lot. Clipped
	// remainder is redistributed until absorbed or all basis exhausted.
	remaining := amount.Neg()
	for remaining.IsPositive() {
		var open []*shadowLot
		var totalHeld decimal.Decimal
		for _, lot := range g.lots {
			if lot.held.IsPositive() && lot.capacity().IsPositive() {
				open = append(open, lot)
				totalHeld = totalHeld.Add(lot.held)
			}
		}
		if len(open) == 0 {
			break
		}

		assigned := decimal.Decimal{}
		absorbed := decimal.Decimal{}
		for n, lot := range open {
			var share decimal.Decimal
			if n == len(open)-1 {
				share = remaining.Sub(assigned)
			} else {
				share = remaining.Mul(lot.held).Div(totalHeld)
			}
			assigned = assigned.Add(share)
			take := decimal.Min(share, lot.capacity())
			lot.offset = lot.offset.Sub(take)
			absorbed = absorbed.Add(take)
		}

		remaining = remaining.Sub(absorbed)
		if absorbed.IsZero() {
			break
		}
	}

	return remaining
}
