// Package annual reduces hourly simulation outputs to yearly and monthly
// totals.
package annual

import (
	"math"

	"shipcal/internal/model"
	"shipcal/internal/simulator"
)

// MonthSummary holds the totals of one calendar month.
type MonthSummary struct {
	Month         int     `json:"month"` // 0-11
	ProductionKWh float64 `json:"production_kwh"`
	ProdLimKWh    float64 `json:"prod_lim_kwh"`
	DemandKWh     float64 `json:"demand_kwh"`
	DefocusKWh    float64 `json:"defocus_kwh"`
	SolarFraction float64 `json:"solar_fraction"` // %, limited production over demand
}

// Summary is derived from a TimestepOutput series and never edited on its own.
type Summary struct {
	Hours              int `json:"hours"`
	HoursOn            int `json:"hours_on"`
	HoursRecirculating int `json:"hours_recirculating"`

	ProductionMaxKWh float64 `json:"production_max_kwh"`
	ProductionLimKWh float64 `json:"production_lim_kwh"`
	UsefulKWh        float64 `json:"useful_kwh"`
	DemandKWh        float64 `json:"demand_kwh"`
	ServedDemandKWh  float64 `json:"served_demand_kwh"`
	LossKWh          float64 `json:"loss_kwh"`
	DefocusKWh       float64 `json:"defocus_kwh"`
	ChargeKWh        float64 `json:"charge_kwh"`
	DischargeKWh     float64 `json:"discharge_kwh"`
	StorageLossKWh   float64 `json:"storage_loss_kwh"`
	DrumChargeKWh    float64 `json:"drum_charge_kwh"`
	DrumDischargeKWh float64 `json:"drum_discharge_kwh"`
	DrumLossKWh      float64 `json:"drum_loss_kwh"`

	SolarFractionMax float64 `json:"solar_fraction_max"` // %
	SolarFractionLim float64 `json:"solar_fraction_lim"` // %
	UtilizationRatio float64 `json:"utilization_ratio"`  // %
	TonCO2Saved      float64 `json:"ton_co2_saved"`

	Months [12]MonthSummary `json:"months"`
}

// Aggregate sums outs in a single pass. co2EmissionFactor is in tCO2 per
// kWh of displaced heat.
func Aggregate(outs []simulator.TimestepOutput, co2EmissionFactor float64) Summary {
	var s Summary
	for m := range s.Months {
		s.Months[m].Month = m
	}
	for _, o := range outs {
		s.Hours++
		switch o.Status {
		case model.StatusOn:
			s.HoursOn++
		case model.StatusRecirculating:
			s.HoursRecirculating++
		}
		s.ProductionMaxKWh += o.QProdKWh
		s.ProductionLimKWh += o.QProdLimKWh
		s.UsefulKWh += o.QUsefulKWh
		s.DemandKWh += o.DemandKWh
		s.ServedDemandKWh += o.ServedDemandKWh
		s.LossKWh += o.QLossKWh
		s.DefocusKWh += o.QDefocusKWh
		s.ChargeKWh += o.QChargeKWh
		s.DischargeKWh += o.QDischargeKWh
		s.StorageLossKWh += o.QStorageLossKWh
		s.DrumChargeKWh += o.DrumChargeKWh
		s.DrumDischargeKWh += o.DrumDischargeKWh
		s.DrumLossKWh += o.DrumLossKWh

		m := &s.Months[model.Month(o.HourOfYear)]
		m.ProductionKWh += o.QProdKWh
		m.ProdLimKWh += o.QProdLimKWh
		m.DemandKWh += o.DemandKWh
		m.DefocusKWh += o.QDefocusKWh
	}

	s.SolarFractionMax = percent(s.ProductionMaxKWh, s.DemandKWh)
	s.SolarFractionLim = percent(s.ProductionLimKWh, s.DemandKWh)
	s.UtilizationRatio = percent(s.ProductionLimKWh, s.ProductionMaxKWh)
	s.TonCO2Saved = s.ProductionLimKWh * co2EmissionFactor
	for m := range s.Months {
		s.Months[m].SolarFraction = percent(s.Months[m].ProdLimKWh, s.Months[m].DemandKWh)
	}
	return s
}

// StorageCycles returns the equivalent full cycles of a store whose usable
// capacity is capacityKWh.
func (s Summary) StorageCycles(capacityKWh float64) float64 {
	if capacityKWh <= 0 {
		return 0
	}
	return (s.ChargeKWh + s.DischargeKWh) / 2 / capacityKWh
}

// Degenerate reports whether the run produced nothing usable.
func (s Summary) Degenerate() bool {
	return s.ProductionMaxKWh == 0 || math.IsNaN(s.ProductionMaxKWh)
}

func percent(num, den float64) float64 {
	if den == 0 || math.IsNaN(den) {
		return 0
	}
	return 100 * num / den
}
