package calculator

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/cgtcalc/journal"
)

func TestMatchRule_String(t *testing.T) {
	assert.Equal(t, "Same Day", SameDay.String())
	assert.Equal(t, "Bed and breakfast", BedAndBreakfast.String())
	assert.Equal(t, "Section 104", Section104.String())
	assert.Equal(t, "Capital return in excess of cost", CapitalReturnExcess.String())
	assert.Equal(t, "Unknown", MatchRule(99).String())
}

func TestDisposal_UnitPrice(t *testing.T) {
	d := &Disposal{
		Quantity:      decimal.NewFromInt(40),
		GrossProceeds: decimal.NewFromInt(600),
	}
	assertDecimal(t, "15", d.UnitPrice())

	// A deemed gain has no quantity and no meaningful unit price.
	assertDecimal(t, "0", (&Disposal{}).UnitPrice())
}

func TestBuildReport_SortsDisposals(t *testing.T) {
	disposals := []*Disposal{
		{Date: journal.MustParseDate("2024-06-02"), Ticker: "VOD"},
		{Date: journal.MustParseDate("2024-06-01"), Ticker: "VOD"},
		{Date: journal.MustParseDate("2024-06-01"), Ticker: "LLOY"},
	}

	report, err := buildReport(disposals, nil, nil, defaultExemptions())
	assert.NoError(t, err)
	assert.Equal(t, 1, len(report.TaxYears))

	got := report.TaxYears[0].Disposals
	assert.Equal(t, "LLOY", got[0].Ticker)
	assert.Equal(t, journal.MustParseDate("2024-06-01"), got[1].Date)
	assert.Equal(t, "VOD", got[1].Ticker)
	assert.Equal(t, journal.MustParseDate("2024-06-02"), got[2].Date)
}

func TestBuildReport_UnknownYearHasZeroExemption(t *testing.T) {
	disposals := []*Disposal{{
		Date:       journal.MustParseDate("2010-06-01"),
		Ticker:     "VOD",
		GainOrLoss: decimal.NewFromInt(5000),
	}}

	report, err := buildReport(disposals, nil, nil, defaultExemptions())
	assert.NoError(t, err)

	year := report.TaxYears[0]
	assertDecimal(t, "0", year.Exemption)
	assertDecimal(t, "5000", year.TaxableGain)
}

func TestBuildReport_PropagatesInvalidYear(t *testing.T) {
	disposals := []*Disposal{{Date: journal.MustParseDate("1890-06-01"), Ticker: "VOD"}}

	_, err := buildReport(disposals, nil, nil, defaultExemptions())
	assert.Error(t, err)
	_, ok := err.(*InvalidTaxYearError)
	assert.True(t, ok, "should be InvalidTaxYearError, got %T", err)
}
