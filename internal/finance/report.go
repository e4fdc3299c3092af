package finance

import (
	"math"

	"github.com/shopspring/decimal"

	"shipcal/internal/model"
)

// Report is a Projection rounded for presentation: money to cents, rates
// to hundredths of a percent. Pointers are nil where the value does not
// exist (no IRR root, no production).
type Report struct {
	BusinessModel model.BusinessModel `json:"business_model"`
	SellingPrice  decimal.Decimal     `json:"selling_price"`
	LCOE          *decimal.Decimal    `json:"lcoe,omitempty"`
	IRRPercent    *decimal.Decimal    `json:"irr_percent,omitempty"`
	IRR10Percent  *decimal.Decimal    `json:"irr10_percent,omitempty"`
	PaybackYear   int                 `json:"payback_year"`
	TotalSavings  decimal.Decimal     `json:"total_savings"`

	FuelPrice []decimal.Decimal `json:"fuel_price"`
	FCF       []decimal.Decimal `json:"fcf"`
	CumFCF    []decimal.Decimal `json:"cum_fcf"`
	ESCOFCF   []decimal.Decimal `json:"esco_fcf,omitempty"`
}

// Report rounds p for display.
func (p Projection) Report() Report {
	r := Report{
		BusinessModel: p.BusinessModel,
		SellingPrice:  money(p.SellingPrice),
		PaybackYear:   p.PaybackYear,
		FuelPrice:     series(p.FuelPrice, 4),
		FCF:           series(p.FCF, 2),
		CumFCF:        series(p.CumFCF, 2),
	}
	if p.ESCOFCF != nil {
		r.ESCOFCF = series(p.ESCOFCF, 2)
	}
	if !math.IsInf(p.LCOE, 0) && !math.IsNaN(p.LCOE) {
		v := decimal.NewFromFloat(p.LCOE).Round(4)
		r.LCOE = &v
	}
	if p.IRRFound {
		v := decimal.NewFromFloat(p.IRR * 100).Round(2)
		r.IRRPercent = &v
	}
	if p.IRR10Found {
		v := decimal.NewFromFloat(p.IRR10 * 100).Round(2)
		r.IRR10Percent = &v
	}
	total := decimal.Zero
	for _, s := range p.FuelSavings {
		total = total.Add(decimal.NewFromFloat(s))
	}
	r.TotalSavings = total.Round(2)
	return r
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func series(vs []float64, places int32) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vs))
	for i, v := range vs {
		out[i] = decimal.NewFromFloat(v).Round(places)
	}
	return out
}
