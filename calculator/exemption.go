package calculator

import "github.com/shopspring/decimal"

// defaultExemptions returns the annual exempt amounts by tax-year start
// year. Years without an entry report a zero exemption; the taxable
// gain then equals the net gain.
func defaultExemptions() map[int]decimal.Decimal {
	return map[int]decimal.Decimal{
		2014: decimal.NewFromInt(11000),
		2015: decimal.NewFromInt(11100),
		2016: decimal.NewFromInt(11100),
		2017: decimal.NewFromInt(11300),
		2018: decimal.NewFromInt(11700),
		2019: decimal.NewFromInt(12000),
		2020: decimal.NewFromInt(12300),
		2021: decimal.NewFromInt(12300),
		2022: decimal.NewFromInt(12300),
		2023: decimal.NewFromInt(6000),
		2024: decimal.NewFromInt(3000),
	}
}
