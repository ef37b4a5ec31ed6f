package calculator

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/cgtcalc/journal"
	"github.com/robinvdvleuten/cgtcalc/telemetry"
)

// bnbWindowDays is the bed-and-breakfast lookahead window: acquisitions
// up to this many calendar days after a disposal (inclusive) can be
// matched against it.
const bnbWindowDays = 30

// gbpTransaction is a journal transaction with every monetary field
// already converted to GBP. All matching operates on these.
type gbpTransaction struct {
	date      journal.Date
	operation journal.Operation
	ticker    string
	quantity  decimal.Decimal
	price     decimal.Decimal
	total     decimal.Decimal
	fees      decimal.Decimal
	tax       decimal.Decimal
	ratio     decimal.Decimal
}

// dayTicker keys per-date, per-ticker aggregates.
type dayTicker struct {
	date   journal.Date
	ticker string
}

// engine holds the mutable state of one matching run. It lives for a
// single Process call.
type engine struct {
	txs     []*gbpTransaction
	offsets map[int]decimal.Decimal

	// reserved maps a buy's transaction index to the quantity already
	// claimed by earlier disposals' bed-and-breakfast matches. Claims
	// are recorded when the disposal is processed, before the buy's day
	// is reached.
	reserved map[int]decimal.Decimal

	// sells holds the total merged sell quantity per date and ticker,
	// used as the same-day reservation on bed-and-breakfast candidate
	// dates.
	sells map[dayTicker]decimal.Decimal

	ledgers   map[string]*acquisitionLedger
	pools     map[string]*section104Pool
	deemed    []*deemedGain
	disposals []*Disposal
}

func newEngine(txs []*gbpTransaction) *engine {
	e := &engine{
		txs:      txs,
		reserved: make(map[int]decimal.Decimal),
		sells:    make(map[dayTicker]decimal.Decimal),
		ledgers:  make(map[string]*acquisitionLedger),
		pools:    make(map[string]*section104Pool),
	}
	for _, tx := range txs {
		if tx.operation == journal.Sell {
			key := dayTicker{tx.date, tx.ticker}
			e.sells[key] = e.sells[key].Add(tx.quantity)
		}
	}
	e.offsets, e.deemed = computeCostOffsets(txs)
	return e
}

func (e *engine) ledgerFor(ticker string) *acquisitionLedger {
	g := e.ledgers[ticker]
	if g == nil {
		g = &acquisitionLedger{}
		e.ledgers[ticker] = g
	}
	return g
}

func (e *engine) poolFor(ticker string) *section104Pool {
	p := e.pools[ticker]
	if p == nil {
		p = &section104Pool{}
		e.pools[ticker] = p
	}
	return p
}

// run executes the chronological sweep: per day, corporate actions
// first, then acquisitions (carrying any lookahead reservations), then
// disposals, and finally the day's unclaimed acquisitions fold into the
// Section 104 pool. Only disposals processed before a buy can claim it
// via bed and breakfast, so folding at the end of the buy's own day is
// safe.
func (e *engine) run(ctx context.Context) error {
	timer := telemetry.StartTimer(ctx, "calculator.matching")
	defer timer.End()

	i := 0
	for i < len(e.txs) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		date := e.txs[i].date
		dayEnd := i
		for dayEnd < len(e.txs) && e.txs[dayEnd].date == date {
			dayEnd++
		}
		day := e.txs[i:dayEnd]

		for _, tx := range day {
			switch tx.operation {
			case journal.Split:
				if pool := e.pools[tx.ticker]; pool != nil {
					pool.scale(tx.ratio)
				}
			case journal.Unsplit:
				if pool := e.pools[tx.ticker]; pool != nil && !tx.ratio.IsZero() {
					pool.scale(decimal.NewFromInt(1).Div(tx.ratio))
				}
			}
		}

		for offset, tx := range day {
			if tx.operation != journal.Buy {
				continue
			}
			idx := i + offset
			reserved := e.reserved[idx]
			if reserved.GreaterThan(tx.quantity) {
				return NewInvalidTransactionError(tx.ticker, tx.date,
					"lookahead reservation of %s exceeds acquisition of %s", reserved, tx.quantity)
			}
			e.ledgerFor(tx.ticker).record(tx.date, tx.quantity, tx.price, tx.fees, e.offsets[idx], reserved)
		}

		for offset, tx := range day {
			if tx.operation != journal.Sell {
				continue
			}
			if err := e.processDisposal(i+offset, tx); err != nil {
				return err
			}
		}

		folded := make(map[string]bool)
		for _, tx := range day {
			if tx.operation != journal.Buy || folded[tx.ticker] {
				continue
			}
			e.ledgerFor(tx.ticker).foldIntoPool(date, e.poolFor(tx.ticker))
			folded[tx.ticker] = true
		}

		i = dayEnd
	}

	e.appendDeemedGains()

	return nil
}

// processDisposal matches one merged disposal through the cascade.
func (e *engine) processDisposal(idx int, tx *gbpTransaction) error {
	ledger := e.ledgerFor(tx.ticker)
	pool := e.poolFor(tx.ticker)

	sameDayAvailable := ledger.remainingForDate(tx.date)
	holding := sameDayAvailable.Add(pool.quantity)
	if tx.quantity.GreaterThan(holding) {
		return NewInsufficientHoldingError(tx.ticker, tx.date, tx.quantity, holding)
	}

	gross := tx.quantity.Mul(tx.price)
	net := gross.Sub(tx.fees)
	remaining := tx.quantity

	disposal := &Disposal{
		Date:     tx.date,
		Ticker:   tx.ticker,
		Quantity: tx.quantity,
	}

	// 1. Same day.
	if sameDayAvailable.IsPositive() && remaining.IsPositive() {
		matched := decimal.Min(remaining, sameDayAvailable)
		cost := ledger.consumeOn(tx.date, matched)
		acquired := tx.date
		disposal.Matches = append(disposal.Matches, &Match{
			Rule:            SameDay,
			Quantity:        matched,
			AllowableCost:   cost,
			GainOrLoss:      e.proceedsShare(net, matched, tx.quantity).Sub(cost),
			AcquisitionDate: &acquired,
		})
		remaining = remaining.Sub(matched)
	}

	// 2. Bed and breakfast.
	if remaining.IsPositive() {
		remaining = e.matchBedAndBreakfast(idx, tx, net, remaining, disposal)
	}

	// 3. Section 104 pool.
	if remaining.IsPositive() {
		if cost, ok := pool.sell(remaining); ok {
			disposal.Matches = append(disposal.Matches, &Match{
				Rule:          Section104,
				Quantity:      remaining,
				AllowableCost: cost,
				GainOrLoss:    e.proceedsShare(net, remaining, tx.quantity).Sub(cost),
			})
			remaining = decimal.Decimal{}
		}
		// An empty pool here would mean the holding check above let an
		// oversell through; the step yields no match rather than fault.
	}

	disposal.GrossProceeds = gross.Round(10)
	disposal.Proceeds = net.Round(10)
	var cost decimal.Decimal
	for _, m := range disposal.Matches {
		cost = cost.Add(m.AllowableCost)
	}
	disposal.AllowableCost = cost.Round(10)
	disposal.GainOrLoss = disposal.Proceeds.Sub(disposal.AllowableCost)

	e.disposals = append(e.disposals, disposal)
	return nil
}

// matchBedAndBreakfast matches the unfilled remainder of a disposal
// against acquisitions strictly after the disposal date, within the
// 30-day window, earliest candidate date first. On every candidate date
// the same-day rule keeps absolute priority: that date's own sell
// quantity is reserved out of the candidate before this disposal may
// claim it. Splits between the two dates are bridged by tracking the
// cumulative ratio so quantities are claimed in the candidate's units.
func (e *engine) matchBedAndBreakfast(idx int, tx *gbpTransaction, net, remaining decimal.Decimal, disposal *Disposal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	ratioEffect := one

	for j := idx + 1; j < len(e.txs); j++ {
		cand := e.txs[j]
		if cand.date.DaysSince(tx.date) > bnbWindowDays {
			break
		}
		if cand.ticker != tx.ticker || !cand.date.After(tx.date) {
			continue
		}

		switch cand.operation {
		case journal.Split:
			ratioEffect = ratioEffect.Mul(cand.ratio)
			continue
		case journal.Unsplit:
			if !cand.ratio.IsZero() {
				ratioEffect = ratioEffect.Div(cand.ratio)
			}
			continue
		case journal.Buy:
		default:
			continue
		}

		if !cand.quantity.IsPositive() {
			continue
		}

		sameDayReservation := decimal.Min(e.sells[dayTicker{cand.date, cand.ticker}], cand.quantity)
		eligible := cand.quantity.Sub(sameDayReservation).Sub(e.reserved[j])
		if !eligible.IsPositive() {
			continue
		}

		// Availability expressed in the disposal date's units.
		available := eligible
		if !ratioEffect.Equal(one) {
			available = eligible.Div(ratioEffect)
		}
		matched := decimal.Min(remaining, available)
		if !matched.IsPositive() {
			continue
		}
		matchedAtBuy := matched.Mul(ratioEffect)
		e.reserved[j] = e.reserved[j].Add(matchedAtBuy)

		unitCost := cand.quantity.Mul(cand.price).Add(cand.fees).Add(e.offsets[j]).Div(cand.quantity)
		cost := matchedAtBuy.Mul(unitCost)
		acquired := cand.date
		disposal.Matches = append(disposal.Matches, &Match{
			Rule:            BedAndBreakfast,
			Quantity:        matched,
			AllowableCost:   cost,
			GainOrLoss:      e.proceedsShare(net, matched, tx.quantity).Sub(cost),
			AcquisitionDate: &acquired,
		})

		remaining = remaining.Sub(matched)
		if !remaining.IsPositive() {
			break
		}
	}

	return remaining
}

// proceedsShare apportions a disposal's net proceeds to one match.
func (e *engine) proceedsShare(net, matched, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Decimal{}
	}
	if matched.Equal(total) {
		return net
	}
	return net.Mul(matched).Div(total)
}

// appendDeemedGains converts capital-return excesses into zero-quantity
// disposals carrying an immediate gain with no allowable cost.
func (e *engine) appendDeemedGains() {
	for _, dg := range e.deemed {
		amount := dg.amount.Round(10)
		e.disposals = append(e.disposals, &Disposal{
			Date:          dg.date,
			Ticker:        dg.ticker,
			GrossProceeds: amount,
			Proceeds:      amount,
			GainOrLoss:    amount,
			Matches: []*Match{{
				Rule:       CapitalReturnExcess,
				GainOrLoss: amount,
			}},
		})
	}
}

// holdings snapshots the non-empty Section 104 pools, sorted by ticker.
func (e *engine) holdings() []*Holding {
	var holdings []*Holding
	for ticker, pool := range e.pools {
		if pool.quantity.IsPositive() {
			holdings = append(holdings, &Holding{
				Ticker:   ticker,
				Quantity: pool.quantity,
				Cost:     pool.cost.Round(10),
			})
		}
	}
	slices.SortFunc(holdings, func(a, b *Holding) int { return strings.Compare(a.Ticker, b.Ticker) })
	return holdings
}
