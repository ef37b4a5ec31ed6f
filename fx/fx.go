// Package fx provides monthly exchange rates against GBP for
// normalizing foreign-currency transactions.
//
// Rates are keyed by currency and calendar month and expressed as
// units of the currency per pound, the convention of the HMRC monthly
// exchange rate publications this package can load. Converting a
// native amount to GBP therefore divides by the rate.
package fx

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type monthKey struct {
	year  int
	month time.Month
}

// Cache is an in-memory monthly rate table. Currency lookup is
// case-insensitive. A Cache satisfies the calculator's rate source
// interface.
type Cache struct {
	rates map[string]map[monthKey]decimal.Decimal
}

// NewCache creates an empty rate cache.
func NewCache() *Cache {
	return &Cache{rates: make(map[string]map[monthKey]decimal.Decimal)}
}

// Add records a rate for a currency and month, replacing any existing
// entry. Non-positive rates are ignored.
func (c *Cache) Add(currency string, year int, month time.Month, rate decimal.Decimal) {
	if !rate.IsPositive() {
		return
	}
	code := strings.ToUpper(currency)
	byMonth := c.rates[code]
	if byMonth == nil {
		byMonth = make(map[monthKey]decimal.Decimal)
		c.rates[code] = byMonth
	}
	byMonth[monthKey{year, month}] = rate
}

// Rate returns the rate for a currency and month.
func (c *Cache) Rate(currency string, year int, month time.Month) (decimal.Decimal, bool) {
	byMonth := c.rates[strings.ToUpper(currency)]
	if byMonth == nil {
		return decimal.Decimal{}, false
	}
	rate, ok := byMonth[monthKey{year, month}]
	return rate, ok
}

// HasCurrency reports whether any month holds a rate for the currency.
func (c *Cache) HasCurrency(currency string) bool {
	return len(c.rates[strings.ToUpper(currency)]) > 0
}

// Convert converts a native amount to GBP using the rate for the given
// month. The second return is false when no rate is known.
func (c *Cache) Convert(amount decimal.Decimal, currency string, year int, month time.Month) (decimal.Decimal, bool) {
	rate, ok := c.Rate(currency, year, month)
	if !ok || !rate.IsPositive() {
		return decimal.Decimal{}, false
	}
	return amount.Div(rate), true
}
