// Package finance projects the cash flows of a solar heat plant over its
// economic life.
package finance

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"shipcal/internal/model"
)

// Inputs are the scalars a projection is built from. Rates are fractions,
// not percentages.
type Inputs struct {
	ProductionLimKWh   float64 // delivered solar heat per year
	FuelPricePerKWh    float64
	BoilerEfficiency   float64
	Years              int
	SellingPrice       float64 // upfront capital cost
	AnnualOMCost       float64 // year-1 O&M, escalated afterwards
	CostEscalationRate float64
	CO2Savings         float64 // money per year from avoided emissions
	BusinessModel      model.BusinessModel
	PriceReduction     float64 // ESCO discount on the displaced fuel bill
}

// FromCostModel builds the projection inputs for a plant that delivers
// prodLimKWh per year, avoids tonCO2 per year and costs capex up front.
func FromCostModel(prodLimKWh, tonCO2, capex float64, cost model.CostModel) Inputs {
	cost = cost.WithDefaults()
	return Inputs{
		ProductionLimKWh:   prodLimKWh,
		FuelPricePerKWh:    cost.FuelPricePerKWh,
		BoilerEfficiency:   cost.BoilerEfficiency,
		Years:              cost.SimulationYears,
		SellingPrice:       capex,
		AnnualOMCost:       capex * cost.OMCostPercent / 100,
		CostEscalationRate: cost.CostEscalationPercent / 100,
		CO2Savings:         tonCO2 * cost.CO2TonPrice,
		BusinessModel:      cost.BusinessModel,
		PriceReduction:     cost.PriceReductionPercent / 100,
	}
}

// CapitalCost returns the installed cost of a field of fieldAreaM2 with a
// storage tank of storageVolumeM3.
func CapitalCost(fieldAreaM2, storageVolumeM3 float64, cost model.CostModel) float64 {
	return fieldAreaM2*cost.CollectorCostPerM2 + storageVolumeM3*cost.StorageCostPerM3 + cost.FixedCost
}

// Projection is the year-indexed cash flow of one plant. Slices have
// Years+1 entries; index 0 is the investment year.
type Projection struct {
	BusinessModel model.BusinessModel `json:"business_model"`
	Years         int                 `json:"years"`

	FuelPrice   []float64 `json:"fuel_price"`
	OMCost      []float64 `json:"om_cost"`
	FuelSavings []float64 `json:"fuel_savings"`
	// FCF and CumFCF are seen from the client.
	FCF    []float64 `json:"fcf"`
	CumFCF []float64 `json:"cum_fcf"`
	// ESCOFCF is the investor's series; nil for turnkey plants.
	ESCOFCF []float64 `json:"esco_fcf,omitempty"`

	SellingPrice float64 `json:"selling_price"`
	// IRR and IRR10 are fractions, valid only when the matching Found flag
	// is set.
	IRR          float64 `json:"irr"`
	IRRFound     bool    `json:"irr_found"`
	IRR10        float64 `json:"irr10"`
	IRR10Found   bool    `json:"irr10_found"`
	PaybackYear  int     `json:"payback_year"` // -1 when never reached
	LCOE         float64 `json:"-"`            // per kWh; +Inf without production
}

// Project computes the cash flows for in.
func Project(in Inputs) Projection {
	n := max(in.Years, 0)
	r := in.CostEscalationRate
	p := Projection{
		BusinessModel: in.BusinessModel,
		Years:         n,
		FuelPrice:     make([]float64, n+1),
		OMCost:        make([]float64, n+1),
		FuelSavings:   make([]float64, n+1),
		FCF:           make([]float64, n+1),
		CumFCF:        make([]float64, n+1),
		SellingPrice:  in.SellingPrice,
	}

	fuelKWh := 0.0
	if in.BoilerEfficiency > 0 {
		fuelKWh = in.ProductionLimKWh / in.BoilerEfficiency
	}
	p.FuelPrice[0] = in.FuelPricePerKWh
	for y := 1; y <= n; y++ {
		g := math.Pow(1+r, float64(y))
		p.FuelPrice[y] = in.FuelPricePerKWh * g
		p.OMCost[y] = in.AnnualOMCost * math.Pow(1+r, float64(y-1))
		p.FuelSavings[y] = fuelKWh * p.FuelPrice[y]
	}

	var investor []float64
	switch in.BusinessModel {
	case model.BusinessESCO:
		p.ESCOFCF = make([]float64, n+1)
		p.ESCOFCF[0] = -in.SellingPrice
		for y := 1; y <= n; y++ {
			p.FCF[y] = in.PriceReduction * p.FuelSavings[y]
			p.ESCOFCF[y] = (1-in.PriceReduction)*p.FuelSavings[y] + in.CO2Savings - p.OMCost[y]
		}
		investor = p.ESCOFCF
	default:
		p.FCF[0] = -in.SellingPrice
		for y := 1; y <= n; y++ {
			p.FCF[y] = p.FuelSavings[y] + in.CO2Savings - p.OMCost[y]
		}
		investor = p.FCF
	}
	floats.CumSum(p.CumFCF, p.FCF)

	p.IRR, p.IRRFound = IRR(investor)
	p.IRR10, p.IRR10Found = IRR(investor[:min(len(investor), 11)])
	p.PaybackYear = payback(p.CumFCF)
	p.LCOE = lcoe(in, p.OMCost)

	if in.BusinessModel == model.BusinessESCO {
		// The client pays nothing up front and is never out of pocket.
		p.SellingPrice = 0
		p.PaybackYear = 0
	}
	return p
}

// payback returns the first year in which the cumulative cash flow is
// non-negative, or -1.
func payback(cum []float64) int {
	for y, c := range cum {
		if c >= 0 {
			return y
		}
	}
	return -1
}

// lcoe discounts O&M and production at the escalation rate.
func lcoe(in Inputs, om []float64) float64 {
	n := len(om) - 1
	cost := make([]float64, n)
	energy := make([]float64, n)
	for y := 1; y <= n; y++ {
		df := math.Pow(1+in.CostEscalationRate, float64(y))
		cost[y-1] = om[y] / df
		energy[y-1] = in.ProductionLimKWh / df
	}
	e := floats.Sum(energy)
	if e <= 0 || math.IsNaN(e) {
		return math.Inf(1)
	}
	return (in.SellingPrice + floats.Sum(cost)) / e
}
