package fx

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// HMRC publishes one XML document of exchange rates per calendar
// month. The month is carried in the document's Period attribute,
// formatted "01/Apr/2024 to 30/Apr/2024".

type exchangeRateMonthList struct {
	XMLName xml.Name       `xml:"exchangeRateMonthList"`
	Period  string         `xml:"Period,attr"`
	Rates   []exchangeRate `xml:"exchangeRate"`
}

type exchangeRate struct {
	CurrencyCode string `xml:"currencyCode"`
	RateNew      string `xml:"rateNew"`
}

// ParseHMRC parses one HMRC monthly exchange rate document into the
// cache. Entries with malformed codes or non-positive rates are
// skipped; a document whose period cannot be resolved is an error.
func (c *Cache) ParseHMRC(data []byte) error {
	var doc exchangeRateMonthList
	if err := xml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid exchange rate document: %w", err)
	}

	year, month, err := parsePeriod(doc.Period)
	if err != nil {
		return err
	}

	for _, rate := range doc.Rates {
		code := strings.ToUpper(strings.TrimSpace(rate.CurrencyCode))
		if !validCurrencyCode(code) {
			continue
		}
		value, err := decimal.NewFromString(strings.TrimSpace(rate.RateNew))
		if err != nil || !value.IsPositive() {
			continue
		}
		c.Add(code, year, month, value)
	}

	return nil
}

// LoadDir loads every .xml file in a directory into a new cache.
func LoadDir(dir string) (*Cache, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.xml"))
	if err != nil {
		return nil, err
	}

	cache := NewCache()
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		if err := cache.ParseHMRC(data); err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(file), err)
		}
	}

	return cache, nil
}

// parsePeriod extracts the month from a Period attribute of the form
// "01/Apr/2024 to 30/Apr/2024".
func parsePeriod(period string) (int, time.Month, error) {
	start, _, _ := strings.Cut(period, " to ")
	t, err := time.Parse("02/Jan/2006", strings.TrimSpace(start))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid rate period %q", period)
	}
	return t.Year(), t.Month(), nil
}

func validCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
