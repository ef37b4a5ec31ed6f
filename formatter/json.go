package formatter

import (
	"encoding/json"
	"io"

	"github.com/robinvdvleuten/cgtcalc/calculator"
)

// JSON document shapes. Monetary values are emitted as strings rounded
// to two decimal places; quantities keep their full precision with
// trailing zeros trimmed.

type jsonReport struct {
	TaxYears []jsonTaxYear `json:"tax_years"`
	Holdings []jsonHolding `json:"holdings"`
}

type jsonTaxYear struct {
	Period      string         `json:"period"`
	Disposals   []jsonDisposal `json:"disposals"`
	TotalGain   string         `json:"total_gain"`
	TotalLoss   string         `json:"total_loss"`
	NetGain     string         `json:"net_gain"`
	Exemption   string         `json:"exemption"`
	TaxableGain string         `json:"taxable_gain"`
}

type jsonDisposal struct {
	Date          string      `json:"date"`
	Ticker        string      `json:"ticker"`
	Quantity      string      `json:"quantity"`
	GrossProceeds string      `json:"gross_proceeds"`
	Proceeds      string      `json:"proceeds"`
	AllowableCost string      `json:"allowable_cost"`
	GainOrLoss    string      `json:"gain_or_loss"`
	Matches       []jsonMatch `json:"matches"`
}

type jsonMatch struct {
	Rule            string `json:"rule"`
	Quantity        string `json:"quantity"`
	AllowableCost   string `json:"allowable_cost"`
	GainOrLoss      string `json:"gain_or_loss"`
	AcquisitionDate string `json:"acquisition_date,omitempty"`
}

type jsonHolding struct {
	Ticker   string `json:"ticker"`
	Quantity string `json:"quantity"`
	Cost     string `json:"cost"`
}

// FormatJSON writes the report as indented JSON.
func FormatJSON(report *calculator.Report, w io.Writer) error {
	doc := jsonReport{
		TaxYears: make([]jsonTaxYear, 0, len(report.TaxYears)),
		Holdings: make([]jsonHolding, 0, len(report.Holdings)),
	}

	for _, year := range report.TaxYears {
		jy := jsonTaxYear{
			Period:      year.Period.String(),
			Disposals:   make([]jsonDisposal, 0, len(year.Disposals)),
			TotalGain:   year.TotalGain.StringFixed(2),
			TotalLoss:   year.TotalLoss.StringFixed(2),
			NetGain:     year.NetGain.StringFixed(2),
			Exemption:   year.Exemption.StringFixed(2),
			TaxableGain: year.TaxableGain.StringFixed(2),
		}
		for _, d := range year.Disposals {
			jd := jsonDisposal{
				Date:          d.Date.String(),
				Ticker:        d.Ticker,
				Quantity:      Number(d.Quantity),
				GrossProceeds: d.GrossProceeds.StringFixed(2),
				Proceeds:      d.Proceeds.StringFixed(2),
				AllowableCost: d.AllowableCost.StringFixed(2),
				GainOrLoss:    d.GainOrLoss.StringFixed(2),
				Matches:       make([]jsonMatch, 0, len(d.Matches)),
			}
			for _, m := range d.Matches {
				jm := jsonMatch{
					Rule:          m.Rule.String(),
					Quantity:      Number(m.Quantity),
					AllowableCost: m.AllowableCost.StringFixed(2),
					GainOrLoss:    m.GainOrLoss.StringFixed(2),
				}
				if m.AcquisitionDate != nil {
					jm.AcquisitionDate = m.AcquisitionDate.String()
				}
				jd.Matches = append(jd.Matches, jm)
			}
			jy.Disposals = append(jy.Disposals, jd)
		}
		doc.TaxYears = append(doc.TaxYears, jy)
	}

	for _, h := range report.Holdings {
		doc.Holdings = append(doc.Holdings, jsonHolding{
			Ticker:   h.Ticker,
			Quantity: Number(h.Quantity),
			Cost:     h.Cost.StringFixed(2),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
