package calculator

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/cgtcalc/journal"
)

func TestAcquisitionLedger_Counters(t *testing.T) {
	g := &acquisitionLedger{}
	date := journal.MustParseDate("2024-01-01")
	g.record(date, d("100"), d("10"), d("5"), decimal.Zero, d("20"))

	// 20 reserved up front leaves 80 available.
	assertDecimal(t, "80", g.remainingForDate(date))

	cost := g.consumeOn(date, d("30"))
	assertDecimal(t, "301.5", cost) // 30 shares at (1000 + 5) / 100
	assertDecimal(t, "50", g.remainingForDate(date))

	pool := &section104Pool{}
	g.foldIntoPool(date, pool)
	assertDecimal(t, "0", g.remainingForDate(date))
	assertDecimal(t, "50", pool.quantity)
	assertDecimal(t, "502.5", pool.cost)

	// consumed + reserved + inPool never exceeds the original quantity.
	lot := g.lots[0]
	total := lot.consumed.Add(lot.reserved).Add(lot.inPool)
	assert.True(t, total.LessThanOrEqual(lot.originalQuantity),
		"counters %s exceed original %s", total, lot.originalQuantity)
}

func TestAcquisitionLedger_ConsumeOnSpreadsProportionally(t *testing.T) {
	g := &acquisitionLedger{}
	date := journal.MustParseDate("2024-01-01")
	g.record(date, d("60"), d("10"), decimal.Zero, decimal.Zero, decimal.Zero)
	g.record(date, d("40"), d("20"), decimal.Zero, decimal.Zero, decimal.Zero)

	// 50 of 100: 30 from the first lot at 10, 20 from the second at 20.
	cost := g.consumeOn(date, d("50"))
	assertDecimal(t, "700", cost)
	assertDecimal(t, "50", g.remainingForDate(date))
	assertDecimal(t, "30", g.lots[0].consumed)
	assertDecimal(t, "20", g.lots[1].consumed)
}

func TestAcquisitionLedger_ConsumeOnExactTotal(t *testing.T) {
	// Three equal lots and a quantity that does not divide evenly; the
	// final lot absorbs the remainder so the claim is exact.
	g := &acquisitionLedger{}
	date := journal.MustParseDate("2024-01-01")
	for i := 0; i < 3; i++ {
		g.record(date, d("1"), d("10"), decimal.Zero, decimal.Zero, decimal.Zero)
	}

	g.consumeOn(date, d("1"))
	var consumed decimal.Decimal
	for i := range g.lots {
		consumed = consumed.Add(g.lots[i].consumed)
	}
	assertDecimal(t, "1", consumed)
	assertDecimal(t, "2", g.remainingForDate(date))
}

func TestAcquisitionLedger_CostOffset(t *testing.T) {
	g := &acquisitionLedger{}
	date := journal.MustParseDate("2024-01-01")
	g.record(date, d("100"), d("10"), d("5"), d("-105"), decimal.Zero)

	// Adjusted cost is 1000 + 5 - 105 = 900, or 9 per share.
	cost := g.consumeOn(date, d("10"))
	assertDecimal(t, "90", cost)
}

func TestAcquisitionLedger_FoldOnlyMatchingDate(t *testing.T) {
	g := &acquisitionLedger{}
	first := journal.MustParseDate("2024-01-01")
	second := journal.MustParseDate("2024-01-02")
	g.record(first, d("100"), d("10"), decimal.Zero, decimal.Zero, decimal.Zero)
	g.record(second, d("50"), d("20"), decimal.Zero, decimal.Zero, decimal.Zero)

	pool := &section104Pool{}
	g.foldIntoPool(first, pool)
	assertDecimal(t, "100", pool.quantity)
	assertDecimal(t, "1000", pool.cost)
	assertDecimal(t, "50", g.remainingForDate(second))
}
