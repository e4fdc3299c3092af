// Package fluid provides thermophysical properties of the heat-transfer
// fluids used in the solar field. All functions take pressure in MPa and
// temperature in kelvin and return enthalpy in kJ/kg, entropy and specific
// heat in kJ/(kg·K), density in kg/m³ and dynamic viscosity in Pa·s.
//
// Phase-constraint clamping lives here so callers never repeat it.
package fluid

import (
	"fmt"
	"math"

	"shipcal/internal/model"
)

// Properties is a pure property model for one fluid.
type Properties interface {
	Kind() model.FluidKind
	Enthalpy(pMPa, tK float64) float64
	Entropy(pMPa, tK float64) float64
	Density(pMPa, tK float64) float64
	SpecificHeat(pMPa, tK float64) float64
	Viscosity(pMPa, tK float64) float64
	// MaxLiquidTemp is the highest temperature at which the fluid stays a
	// usable liquid at pMPa, keeping subcoolK of margin where relevant.
	MaxLiquidTemp(pMPa, subcoolK float64) float64
	// MinLiquidTemp is the freezing (or pour) point.
	MinLiquidTemp() float64
}

// For returns the property model of kind.
func For(kind model.FluidKind) (Properties, error) {
	switch kind {
	case model.FluidWater, "":
		return Water{}, nil
	case model.FluidThermalOil:
		return ThermalOil{}, nil
	case model.FluidMoltenSalt:
		return MoltenSalt{}, nil
	}
	return nil, fmt.Errorf("no property model for fluid %q", kind)
}

// ClampLiquid limits tK to the liquid range of f at pMPa. The second return
// value reports whether the temperature was changed.
func ClampLiquid(f Properties, tK, pMPa, subcoolK float64) (float64, bool) {
	maxT := f.MaxLiquidTemp(pMPa, subcoolK)
	if tK > maxT {
		return maxT, true
	}
	return tK, false
}

// MeanSpecificHeat returns the average specific heat between t1 and t2,
// computed from the enthalpy difference when the interval is not degenerate.
func MeanSpecificHeat(f Properties, pMPa, t1, t2 float64) float64 {
	if math.Abs(t2-t1) < 1e-3 {
		return f.SpecificHeat(pMPa, t1)
	}
	return (f.Enthalpy(pMPa, t2) - f.Enthalpy(pMPa, t1)) / (t2 - t1)
}
