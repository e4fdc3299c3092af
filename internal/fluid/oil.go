package fluid

import (
	"math"

	"shipcal/internal/model"
)

// ThermalOil models a synthetic heat-transfer oil (terphenyl type) usable
// from its pour point up to about 345 °C.
type ThermalOil struct{}

const (
	oilMaxTempC  = 345.0
	oilPourTempC = -32.0
)

func (ThermalOil) Kind() model.FluidKind { return model.FluidThermalOil }

func (ThermalOil) Enthalpy(_, tK float64) float64 {
	tc := model.KToC(tK)
	return 1.496*tc + 0.0016565*tc*tc
}

func (ThermalOil) Entropy(_, tK float64) float64 {
	return incompressibleEntropy(1.496, 0.003313, tK)
}

func (ThermalOil) Density(_, tK float64) float64 {
	tc := model.KToC(tK)
	return 1020.62 - 0.614254*tc - 0.000321*tc*tc
}

func (ThermalOil) SpecificHeat(_, tK float64) float64 {
	return 1.496 + 0.003313*model.KToC(tK)
}

func (ThermalOil) Viscosity(_, tK float64) float64 {
	tc := model.KToC(tK)
	// Kinematic viscosity fit (mm²/s) times density.
	nu := math.Exp(586.375/(tc+62.5) - 2.2809)
	return nu * 1e-6 * (1020.62 - 0.614254*tc - 0.000321*tc*tc)
}

func (ThermalOil) MaxLiquidTemp(_, _ float64) float64 { return model.CToK(oilMaxTempC) }

func (ThermalOil) MinLiquidTemp() float64 { return model.CToK(oilPourTempC) }

// incompressibleEntropy integrates cp = a + b·(T-273.15) from 0 °C to tK.
func incompressibleEntropy(a, b, tK float64) float64 {
	t0 := model.ZeroCelsiusK
	return (a-b*t0)*math.Log(tK/t0) + b*(tK-t0)
}
