// Package parser parses the plain-text journal format into journal
// transactions.
//
// The format is line oriented; one transaction per line:
//
//	2024-01-15 BUY VOD 100 @ 120 GBP FEES 10 GBP
//	2024-02-20 SELL VOD 50 @ 130 GBP
//	2024-03-01 DIVIDEND VOD 150 TOTAL 20 GBP TAX 5 GBP
//	2024-03-10 CAPRETURN VOD 150 TOTAL 30 GBP FEES 1 GBP
//	2024-04-01 SPLIT VOD RATIO 2
//
// Lines starting with '#' and blank lines are ignored, as is anything
// following a '#' on a transaction line. Keywords are case-insensitive,
// tickers are folded to upper case, and the currency token is optional
// (GBP is assumed). ACCUMULATION is accepted as an alias of DIVIDEND.
package parser

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/cgtcalc/journal"
)

// Parse parses journal source into transactions, in input order.
func Parse(source string) ([]*journal.Transaction, error) {
	return ParseNamed("", []byte(source))
}

// ParseBytes parses journal source into transactions, in input order.
func ParseBytes(source []byte) ([]*journal.Transaction, error) {
	return ParseNamed("", source)
}

// ParseNamed parses journal source, attributing errors to filename.
func ParseNamed(filename string, source []byte) ([]*journal.Transaction, error) {
	var transactions []*journal.Transaction

	for lineno, line := range strings.Split(string(source), "\n") {
		fields := scanFields(line)
		if len(fields) == 0 {
			continue
		}

		t, err := parseLine(filename, lineno+1, fields)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	return transactions, nil
}

// field is one whitespace-delimited token with its source column.
type field struct {
	text string
	col  int
}

// scanFields splits a line into tokens, dropping everything from an
// unquoted '#' onward.
func scanFields(line string) []field {
	var fields []field
	i := 0
	for i < len(line) {
		for i < len(line) && (line[i] == ' ' || line[i] == '\t' || line[i] == '\r') {
			i++
		}
		if i >= len(line) || line[i] == '#' {
			break
		}
		start := i
		for i < len(line) && line[i] != ' ' && line[i] != '\t' && line[i] != '\r' {
			i++
		}
		fields = append(fields, field{text: line[start:i], col: start + 1})
	}
	return fields
}

// lineParser consumes the fields of a single line left to right.
type lineParser struct {
	filename string
	line     int
	fields   []field
	pos      int

	// currency is the single currency seen on this line, if any.
	currency string
}

func parseLine(filename string, lineno int, fields []field) (*journal.Transaction, error) {
	p := &lineParser{filename: filename, line: lineno, fields: fields}

	date, err := p.date()
	if err != nil {
		return nil, err
	}
	op, err := p.operation()
	if err != nil {
		return nil, err
	}
	ticker, err := p.ticker()
	if err != nil {
		return nil, err
	}

	t := &journal.Transaction{
		Date:      date,
		Operation: op,
		Ticker:    ticker,
		Line:      lineno,
	}

	switch op {
	case journal.Buy, journal.Sell:
		if t.Quantity, err = p.number("quantity"); err != nil {
			return nil, err
		}
		if err = p.keyword("@"); err != nil {
			return nil, err
		}
		if t.Price, err = p.amount("price"); err != nil {
			return nil, err
		}
		if t.Fees, err = p.optionalAmount("FEES"); err != nil {
			return nil, err
		}
	case journal.Dividend:
		if t.Quantity, err = p.number("quantity"); err != nil {
			return nil, err
		}
		if err = p.keyword("TOTAL"); err != nil {
			return nil, err
		}
		if t.Total, err = p.amount("total"); err != nil {
			return nil, err
		}
		if t.Tax, err = p.optionalAmount("TAX"); err != nil {
			return nil, err
		}
	case journal.CapReturn:
		if t.Quantity, err = p.number("quantity"); err != nil {
			return nil, err
		}
		if err = p.keyword("TOTAL"); err != nil {
			return nil, err
		}
		if t.Total, err = p.amount("total"); err != nil {
			return nil, err
		}
		if t.Fees, err = p.optionalAmount("FEES"); err != nil {
			return nil, err
		}
	case journal.Split, journal.Unsplit:
		if err = p.keyword("RATIO"); err != nil {
			return nil, err
		}
		if t.Ratio, err = p.number("ratio"); err != nil {
			return nil, err
		}
	}

	if p.pos < len(p.fields) {
		return nil, p.errorAt(p.fields[p.pos], "unexpected %q after transaction", p.fields[p.pos].text)
	}

	t.Currency = p.currency
	if t.Currency == "" {
		t.Currency = journal.DefaultCurrency
	}

	return t, nil
}

func (p *lineParser) next(what string) (field, error) {
	if p.pos >= len(p.fields) {
		col := 1
		if len(p.fields) > 0 {
			last := p.fields[len(p.fields)-1]
			col = last.col + len(last.text)
		}
		return field{}, NewParseError(p.filename, p.line, col, "expected %s at end of line", what)
	}
	f := p.fields[p.pos]
	p.pos++
	return f, nil
}

func (p *lineParser) date() (journal.Date, error) {
	f, err := p.next("date")
	if err != nil {
		return journal.Date{}, err
	}
	d, err := journal.ParseDate(f.text)
	if err != nil {
		return journal.Date{}, p.errorAt(f, "%s", err)
	}
	return d, nil
}

func (p *lineParser) operation() (journal.Operation, error) {
	f, err := p.next("operation")
	if err != nil {
		return "", err
	}
	switch strings.ToUpper(f.text) {
	case "BUY":
		return journal.Buy, nil
	case "SELL":
		return journal.Sell, nil
	case "DIVIDEND", "ACCUMULATION":
		return journal.Dividend, nil
	case "CAPRETURN":
		return journal.CapReturn, nil
	case "SPLIT":
		return journal.Split, nil
	case "UNSPLIT":
		return journal.Unsplit, nil
	}
	return "", p.errorAt(f, "unknown operation %q", f.text)
}

func (p *lineParser) ticker() (string, error) {
	f, err := p.next("ticker")
	if err != nil {
		return "", err
	}
	for _, r := range f.text {
		valid := r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' ||
			r >= '0' && r <= '9' || r == '.' || r == '-'
		if !valid {
			return "", p.errorAt(f, "invalid ticker %q", f.text)
		}
	}
	return strings.ToUpper(f.text), nil
}

func (p *lineParser) keyword(kw string) error {
	f, err := p.next(kw)
	if err != nil {
		return err
	}
	if !strings.EqualFold(f.text, kw) {
		return p.errorAt(f, "expected %q, got %q", kw, f.text)
	}
	return nil
}

func (p *lineParser) number(what string) (decimal.Decimal, error) {
	f, err := p.next(what)
	if err != nil {
		return decimal.Decimal{}, err
	}
	d, err := decimal.NewFromString(f.text)
	if err != nil {
		return decimal.Decimal{}, p.errorAt(f, "invalid %s %q", what, f.text)
	}
	return d, nil
}

// amount parses a number followed by an optional currency code.
func (p *lineParser) amount(what string) (decimal.Decimal, error) {
	d, err := p.number(what)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if p.pos < len(p.fields) && isCurrency(p.fields[p.pos].text) {
		f := p.fields[p.pos]
		p.pos++
		code := strings.ToUpper(f.text)
		if p.currency != "" && p.currency != code {
			return decimal.Decimal{}, p.errorAt(f, "conflicting currencies %s and %s", p.currency, code)
		}
		p.currency = code
	}
	return d, nil
}

// optionalAmount parses "KW value [currency]" when KW is next on the line.
func (p *lineParser) optionalAmount(kw string) (decimal.Decimal, error) {
	if p.pos >= len(p.fields) || !strings.EqualFold(p.fields[p.pos].text, kw) {
		return decimal.Decimal{}, nil
	}
	p.pos++
	return p.amount(strings.ToLower(kw))
}

func isCurrency(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z') {
			return false
		}
	}
	// RATIO, TOTAL etc. are longer than three characters, but guard the
	// short keywords that could collide with a code.
	up := strings.ToUpper(s)
	return up != "TAX"
}
