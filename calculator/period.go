package calculator

import (
	"fmt"
	"time"

	"github.com/robinvdvleuten/cgtcalc/journal"
)

// Supported range of tax-year start years.
const (
	MinTaxYear = 1900
	MaxTaxYear = 2100
)

// TaxPeriod is one UK tax year, running 6 April to 5 April. It is
// identified by its start year: TaxPeriod{2024} is 2024/25.
type TaxPeriod struct {
	StartYear int
}

// NewTaxPeriod creates a tax period, rejecting start years outside the
// supported range.
func NewTaxPeriod(startYear int) (TaxPeriod, error) {
	if startYear < MinTaxYear || startYear > MaxTaxYear {
		return TaxPeriod{}, NewInvalidTaxYearError(startYear, journal.Date{})
	}
	return TaxPeriod{StartYear: startYear}, nil
}

// PeriodForDate returns the tax period containing the given date.
// Dates up to and including 5 April belong to the previous start year.
func PeriodForDate(d journal.Date) (TaxPeriod, error) {
	year := d.Year
	if d.Month < time.April || (d.Month == time.April && d.Day < 6) {
		year--
	}
	if year < MinTaxYear || year > MaxTaxYear {
		return TaxPeriod{}, NewInvalidTaxYearError(year, d)
	}
	return TaxPeriod{StartYear: year}, nil
}

// Start returns 6 April of the start year.
func (p TaxPeriod) Start() journal.Date {
	return journal.NewDate(p.StartYear, time.April, 6)
}

// End returns 5 April of the following year.
func (p TaxPeriod) End() journal.Date {
	return journal.NewDate(p.StartYear+1, time.April, 5)
}

// Contains reports whether the date falls within the period.
func (p TaxPeriod) Contains(d journal.Date) bool {
	return !d.Before(p.Start()) && !d.After(p.End())
}

// String returns the period in the conventional 2024/25 form.
func (p TaxPeriod) String() string {
	return fmt.Sprintf("%d/%02d", p.StartYear, (p.StartYear+1)%100)
}
