package calculator

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/cgtcalc/journal"
)

func TestPeriodForDate(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2024-04-05", 2023}, // last day of 2023/24
		{"2024-04-06", 2024}, // first day of 2024/25
		{"2024-12-31", 2024},
		{"2025-01-01", 2024},
		{"2025-04-05", 2024},
		{"2024-01-01", 2023},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			period, err := PeriodForDate(journal.MustParseDate(tt.date))
			assert.NoError(t, err)
			assert.Equal(t, tt.want, period.StartYear)
		})
	}
}

func TestPeriodForDate_OutOfRange(t *testing.T) {
	_, err := PeriodForDate(journal.MustParseDate("1899-06-01"))
	assert.Error(t, err)

	yearErr, ok := err.(*InvalidTaxYearError)
	assert.True(t, ok, "should be InvalidTaxYearError, got %T", err)
	assert.Equal(t, journal.MustParseDate("1899-06-01"), yearErr.GetDate())

	// 1900-04-05 maps to start year 1899, below the supported range.
	_, err = PeriodForDate(journal.MustParseDate("1900-04-05"))
	assert.Error(t, err)
}

func TestNewTaxPeriod(t *testing.T) {
	period, err := NewTaxPeriod(2024)
	assert.NoError(t, err)
	assert.Equal(t, 2024, period.StartYear)

	_, err = NewTaxPeriod(1899)
	assert.Error(t, err)
	_, err = NewTaxPeriod(2101)
	assert.Error(t, err)
}

func TestTaxPeriod_Bounds(t *testing.T) {
	period := TaxPeriod{StartYear: 2024}
	assert.Equal(t, journal.MustParseDate("2024-04-06"), period.Start())
	assert.Equal(t, journal.MustParseDate("2025-04-05"), period.End())

	assert.True(t, period.Contains(journal.MustParseDate("2024-04-06")))
	assert.True(t, period.Contains(journal.MustParseDate("2025-04-05")))
	assert.False(t, period.Contains(journal.MustParseDate("2024-04-05")))
	assert.False(t, period.Contains(journal.MustParseDate("2025-04-06")))
}

func TestTaxPeriod_String(t *testing.T) {
	assert.Equal(t, "2024/25", TaxPeriod{StartYear: 2024}.String())
	assert.Equal(t, "1999/00", TaxPeriod{StartYear: 1999}.String())
	assert.Equal(t, "2009/10", TaxPeriod{StartYear: 2009}.String())
}
