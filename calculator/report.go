package calculator

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/cgtcalc/journal"
)

// MatchRule identifies which statutory rule sourced a match.
type MatchRule int

const (
	// SameDay matches a disposal against acquisitions on its own date.
	SameDay MatchRule = iota
	// BedAndBreakfast matches against acquisitions in the 30 days after
	// the disposal.
	BedAndBreakfast
	// Section104 draws from the average-cost pool.
	Section104
	// CapitalReturnExcess is the deemed gain from a capital return that
	// exceeded the holding's entire cost basis.
	CapitalReturnExcess
)

func (r MatchRule) String() string {
	switch r {
	case SameDay:
		return "Same Day"
	case BedAndBreakfast:
		return "Bed and breakfast"
	case Section104:
		return "Section 104"
	case CapitalReturnExcess:
		return "Capital return in excess of cost"
	default:
		return "Unknown"
	}
}

// Match allocates part of a disposal's quantity to one acquisition
// source. AcquisitionDate is nil for pool-sourced matches and deemed
// gains; pooled shares have no single acquisition date.
type Match struct {
	Rule            MatchRule
	Quantity        decimal.Decimal
	AllowableCost   decimal.Decimal
	GainOrLoss      decimal.Decimal
	AcquisitionDate *journal.Date
}

// Disposal aggregates all of one day's sells of a ticker: the matching
// unit of the calculation. GrossProceeds is before sale fees, Proceeds
// after; GainOrLoss always equals Proceeds minus AllowableCost.
type Disposal struct {
	Date          journal.Date
	Ticker        string
	Quantity      decimal.Decimal
	GrossProceeds decimal.Decimal
	Proceeds      decimal.Decimal
	AllowableCost decimal.Decimal
	GainOrLoss    decimal.Decimal
	Matches       []*Match
}

// UnitPrice returns the quantity-weighted average sale price, a
// presentation value only.
func (d *Disposal) UnitPrice() decimal.Decimal {
	if !d.Quantity.IsPositive() {
		return decimal.Decimal{}
	}
	return d.GrossProceeds.Div(d.Quantity)
}

// Holding is a remaining Section 104 position after all transactions
// have been processed.
type Holding struct {
	Ticker   string
	Quantity decimal.Decimal
	Cost     decimal.Decimal
}

// TaxYearSummary collects one tax year's disposals and totals. Gains
// and losses are totalled separately from each disposal's net result;
// NetGain is their difference and TaxableGain is NetGain less the
// year's annual exemption, floored at zero.
type TaxYearSummary struct {
	Period      TaxPeriod
	Disposals   []*Disposal
	TotalGain   decimal.Decimal
	TotalLoss   decimal.Decimal
	NetGain     decimal.Decimal
	Exemption   decimal.Decimal
	TaxableGain decimal.Decimal
}

// DisposalCount returns the number of disposals in the year.
func (s *TaxYearSummary) DisposalCount() int {
	return len(s.Disposals)
}

// TotalProceeds sums net proceeds across the year's disposals.
func (s *TaxYearSummary) TotalProceeds() decimal.Decimal {
	var total decimal.Decimal
	for _, d := range s.Disposals {
		total = total.Add(d.Proceeds)
	}
	return total
}

// Report is the complete result of one calculation: tax year summaries
// in chronological order plus the remaining holdings.
type Report struct {
	TaxYears []*TaxYearSummary
	Holdings []*Holding
}

// buildReport groups disposals into tax years and derives the year
// totals. When a target year is requested only that year is returned,
// present or not; otherwise every year with disposals appears, sorted
// ascending.
func buildReport(disposals []*Disposal, holdings []*Holding, target *TaxPeriod, exemptions map[int]decimal.Decimal) (*Report, error) {
	slices.SortStableFunc(disposals, func(a, b *Disposal) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Ticker, b.Ticker)
	})

	years := make(map[int]*TaxYearSummary)
	for _, d := range disposals {
		period, err := PeriodForDate(d.Date)
		if err != nil {
			return nil, err
		}
		if target != nil && period != *target {
			continue
		}
		summary := years[period.StartYear]
		if summary == nil {
			summary = &TaxYearSummary{Period: period}
			years[period.StartYear] = summary
		}
		summary.Disposals = append(summary.Disposals, d)
	}

	if target != nil && years[target.StartYear] == nil {
		years[target.StartYear] = &TaxYearSummary{Period: *target}
	}

	report := &Report{Holdings: holdings}
	for _, summary := range years {
		for _, d := range summary.Disposals {
			if d.GainOrLoss.IsNegative() {
				summary.TotalLoss = summary.TotalLoss.Add(d.GainOrLoss.Abs())
			} else {
				summary.TotalGain = summary.TotalGain.Add(d.GainOrLoss)
			}
		}
		summary.NetGain = summary.TotalGain.Sub(summary.TotalLoss)
		summary.Exemption = exemptions[summary.Period.StartYear]
		summary.TaxableGain = summary.NetGain.Sub(summary.Exemption)
		if summary.TaxableGain.IsNegative() {
			summary.TaxableGain = decimal.Decimal{}
		}
		report.TaxYears = append(report.TaxYears, summary)
	}

	slices.SortFunc(report.TaxYears, func(a, b *TaxYearSummary) int {
		return a.Period.StartYear - b.Period.StartYear
	})

	return report, nil
}
