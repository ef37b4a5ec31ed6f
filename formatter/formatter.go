// Package formatter renders calculation reports as plain text or JSON.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/cgtcalc/calculator"
	"github.com/robinvdvleuten/cgtcalc/journal"
)

// Formatter renders reports as plain text.
type Formatter struct {
	showJournal bool
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithoutJournal omits the TRANSACTIONS and ASSET EVENTS sections.
func WithoutJournal() Option {
	return func(f *Formatter) {
		f.showJournal = false
	}
}

// New creates a plain-text formatter.
func New(opts ...Option) *Formatter {
	f := &Formatter{showJournal: true}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format writes the report. The transactions are the journal the
// report was calculated from, used for the trailing journal sections;
// they may be nil when only the summary sections are wanted.
func (f *Formatter) Format(report *calculator.Report, transactions []*journal.Transaction, w io.Writer) error {
	if err := f.writeSummary(w, report); err != nil {
		return err
	}
	if err := f.writeDetails(w, report); err != nil {
		return err
	}
	if err := f.writeHoldings(w, report); err != nil {
		return err
	}
	if f.showJournal && transactions != nil {
		if err := f.writeJournal(w, transactions); err != nil {
			return err
		}
	}
	return nil
}

func (f *Formatter) writeSummary(w io.Writer, report *calculator.Report) error {
	if _, err := fmt.Fprintln(w, "# SUMMARY"); err != nil {
		return err
	}

	if len(report.TaxYears) == 0 {
		_, err := fmt.Fprintln(w, "\nNo disposals.")
		return err
	}

	for _, year := range report.TaxYears {
		lines := []struct {
			label string
			value string
		}{
			{"Tax year", year.Period.String()},
			{"Disposals", fmt.Sprintf("%d", year.DisposalCount())},
			{"Proceeds", Currency(year.TotalProceeds())},
			{"Gains", Currency(year.TotalGain)},
			{"Losses", Currency(year.TotalLoss)},
			{"Net gain", Currency(year.NetGain)},
			{"Exemption", Currency(year.Exemption)},
			{"Taxable gain", Currency(year.TaxableGain)},
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		for _, line := range lines {
			if _, err := fmt.Fprintf(w, "%s %s\n", padRight(line.label+":", 13), line.value); err != nil {
				return err
			}
		}
	}

	return nil
}

func (f *Formatter) writeDetails(w io.Writer, report *calculator.Report) error {
	if _, err := fmt.Fprintln(w, "\n# TAX YEAR DETAILS"); err != nil {
		return err
	}

	for _, year := range report.TaxYears {
		if year.DisposalCount() == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "\n%s:\n", year.Period); err != nil {
			return err
		}
		for n, d := range year.Disposals {
			if err := f.writeDisposal(w, n+1, d); err != nil {
				return err
			}
		}
	}

	return nil
}

func (f *Formatter) writeDisposal(w io.Writer, n int, d *calculator.Disposal) error {
	if d.Quantity.IsZero() {
		if _, err := fmt.Fprintf(w, "\n%d. CAPITAL RETURN %s on %s\n", n, d.Ticker, Day(d.Date)); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(w, "\n%d. SOLD %s %s on %s\n", n, Number(d.Quantity), d.Ticker, Day(d.Date)); err != nil {
			return err
		}
	}

	for _, m := range d.Matches {
		if _, err := fmt.Fprintf(w, "   %s\n", matchLine(m)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "   Proceeds: %s, Cost: %s, Result: %s\n",
		Currency(d.Proceeds), Currency(d.AllowableCost), Currency(d.GainOrLoss))
	return err
}

func matchLine(m *calculator.Match) string {
	switch m.Rule {
	case calculator.SameDay:
		return fmt.Sprintf("Same day: %s shares", Number(m.Quantity))
	case calculator.BedAndBreakfast:
		return fmt.Sprintf("Bed and breakfast: %s shares from %s", Number(m.Quantity), Day(*m.AcquisitionDate))
	case calculator.Section104:
		unit := m.AllowableCost
		if m.Quantity.IsPositive() {
			unit = m.AllowableCost.Div(m.Quantity)
		}
		return fmt.Sprintf("Section 104: %s shares @ %s", Number(m.Quantity), Currency(unit))
	case calculator.CapitalReturnExcess:
		return fmt.Sprintf("Capital return in excess of cost: %s", Currency(m.GainOrLoss))
	default:
		return m.Rule.String()
	}
}

func (f *Formatter) writeHoldings(w io.Writer, report *calculator.Report) error {
	if _, err := fmt.Fprintln(w, "\n# HOLDINGS"); err != nil {
		return err
	}
	if len(report.Holdings) == 0 {
		_, err := fmt.Fprintln(w, "\nNone.")
		return err
	}

	rows := make([][3]string, 0, len(report.Holdings)+1)
	rows = append(rows, [3]string{"TICKER", "QUANTITY", "COST"})
	for _, h := range report.Holdings {
		rows = append(rows, [3]string{h.Ticker, Number(h.Quantity), Currency(h.Cost)})
	}

	var widths [3]int
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s  %s  %s\n",
			padRight(row[0], widths[0]),
			padLeft(row[1], widths[1]),
			padLeft(row[2], widths[2])); err != nil {
			return err
		}
	}

	return nil
}

func (f *Formatter) writeJournal(w io.Writer, transactions []*journal.Transaction) error {
	var trades, events []*journal.Transaction
	for _, t := range transactions {
		if t.Operation.IsTrade() {
			trades = append(trades, t)
		} else {
			events = append(events, t)
		}
	}

	if _, err := fmt.Fprintln(w, "\n# TRANSACTIONS"); err != nil {
		return err
	}
	if err := writeLines(w, trades); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "\n# ASSET EVENTS"); err != nil {
		return err
	}
	return writeLines(w, events)
}

func writeLines(w io.Writer, transactions []*journal.Transaction) error {
	if len(transactions) == 0 {
		_, err := fmt.Fprintln(w, "\nNone.")
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, t := range transactions {
		if _, err := fmt.Fprintln(w, t.String()); err != nil {
			return err
		}
	}
	return nil
}

func padRight(s string, width int) string {
	if n := width - runewidth.StringWidth(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func padLeft(s string, width int) string {
	if n := width - runewidth.StringWidth(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}
