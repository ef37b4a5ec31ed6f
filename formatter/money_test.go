package formatter

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/cgtcalc/journal"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0", "£0.00"},
		{"1", "£1.00"},
		{"1234", "£1,234.00"},
		{"1234567.89", "£1,234,567.89"},
		{"-100", "-£100.00"},
		{"-1234.5", "-£1,234.50"},
		{"0.005", "£0.01"},
		{"-0.005", "-£0.01"},
		{"999.999", "£1,000.00"},
		{"123.456", "£123.46"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Currency(decimal.RequireFromString(tt.input)))
		})
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"100", "100"},
		{"100.50", "100.5"},
		{"0.3333333333333333", "0.3333333333333333"},
		{"100.000", "100"},
		{"0", "0"},
		{"-2.50", "-2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Number(decimal.RequireFromString(tt.input)))
		})
	}
}

func TestDay(t *testing.T) {
	assert.Equal(t, "05/01/2024", Day(journal.MustParseDate("2024-01-05")))
	assert.Equal(t, "31/12/1999", Day(journal.MustParseDate("1999-12-31")))
}
