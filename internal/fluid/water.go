package fluid

import (
	"math"

	"gonum.org/v1/gonum/interp"

	"shipcal/internal/model"
)

// Critical point of water.
const (
	CriticalPressureMPa = 22.064
	CriticalTempK       = 647.096
)

const (
	steamSpecificHeat = 2.1    // kJ/(kg·K), superheated steam near saturation
	steamGasConstant  = 0.4615 // kJ/(kg·K)
)

// IAPWS-IF97 region 4 (saturation line) coefficients.
var sat = [11]float64{
	0,
	0.11670521452767e4,
	-0.72421316703206e6,
	-0.17073846940092e2,
	0.12020824702470e5,
	-0.32325550322333e7,
	0.14915108613530e2,
	-0.48232657361591e4,
	0.40511340542057e6,
	-0.23855557567849,
	0.65017534844798e3,
}

// SaturationTemperature returns the boiling temperature (K) at pMPa.
// Pressures above the critical point are treated as critical.
func SaturationTemperature(pMPa float64) float64 {
	if pMPa <= 0 {
		return model.ZeroCelsiusK
	}
	if pMPa > CriticalPressureMPa {
		pMPa = CriticalPressureMPa
	}
	n := sat
	beta := math.Pow(pMPa, 0.25)
	e := beta*beta + n[3]*beta + n[6]
	f := n[1]*beta*beta + n[4]*beta + n[7]
	g := n[2]*beta*beta + n[5]*beta + n[8]
	d := 2 * g / (-f - math.Sqrt(f*f-4*e*g))
	return (n[10] + d - math.Sqrt((n[10]+d)*(n[10]+d)-4*(n[9]+n[10]*d))) / 2
}

// SaturationPressure returns the vapour pressure (MPa) at tK.
func SaturationPressure(tK float64) float64 {
	if tK >= CriticalTempK {
		return CriticalPressureMPa
	}
	n := sat
	theta := tK + n[9]/(tK-n[10])
	a := theta*theta + n[1]*theta + n[2]
	b := n[3]*theta*theta + n[4]*theta + n[5]
	c := n[6]*theta*theta + n[7]*theta + n[8]
	p := 2 * c / (-b + math.Sqrt(b*b-4*a*c))
	return p * p * p * p
}

// Saturated water table, indexed by temperature in °C.
var (
	satTempC = []float64{0.01, 20, 40, 60, 80, 100, 120, 140, 160, 180, 200, 220, 240, 260, 280, 300, 320, 340, 360}
	satHf    = []float64{0, 83.91, 167.53, 251.18, 335.02, 419.17, 503.81, 589.16, 675.47, 763.05, 852.26, 943.55, 1037.6, 1135.0, 1236.9, 1345.0, 1462.2, 1594.5, 1761.5}
	satHg    = []float64{2500.9, 2537.4, 2573.5, 2608.8, 2642.4, 2675.6, 2706.0, 2733.5, 2757.4, 2777.2, 2792.0, 2801.1, 2803.0, 2796.6, 2779.9, 2749.6, 2700.6, 2622.5, 2481.5}
	satSf    = []float64{0, 0.2965, 0.5724, 0.8313, 1.0756, 1.3072, 1.5279, 1.7392, 1.9426, 2.1392, 2.3305, 2.5177, 2.7029, 2.8857, 3.0682, 3.2552, 3.4494, 3.6601, 3.9167}
	satSg    = []float64{9.1555, 8.6661, 8.2557, 7.9081, 7.6111, 7.3541, 7.1292, 6.9294, 6.7491, 6.5841, 6.4302, 6.2840, 6.1423, 6.0016, 5.8571, 5.7059, 5.5372, 5.3356, 5.0536}
	satRhoF  = []float64{999.8, 998.2, 992.2, 983.2, 971.8, 958.4, 943.4, 926.1, 907.4, 887.0, 864.7, 840.3, 813.5, 783.7, 750.8, 712.1, 667.1, 610.7, 527.6}
	satCpF   = []float64{4.217, 4.182, 4.179, 4.185, 4.197, 4.216, 4.244, 4.283, 4.335, 4.405, 4.497, 4.613, 4.769, 4.983, 5.290, 5.762, 6.576, 8.240, 14.69}
)

var hf, hg, sf, sg, rhoF, cpF interp.PiecewiseLinear

func init() {
	for _, col := range []struct {
		pl *interp.PiecewiseLinear
		ys []float64
	}{
		{&hf, satHf}, {&hg, satHg}, {&sf, satSf}, {&sg, satSg}, {&rhoF, satRhoF}, {&cpF, satCpF},
	} {
		if err := col.pl.Fit(satTempC, col.ys); err != nil {
			panic(err)
		}
	}
}

// Water models liquid water and steam.
type Water struct{}

func (Water) Kind() model.FluidKind { return model.FluidWater }

func (w Water) Enthalpy(pMPa, tK float64) float64 {
	ts := SaturationTemperature(pMPa)
	if tK <= ts {
		tc := model.KToC(tK)
		// Compressed-liquid correction v·Δp, with v in m³/kg and Δp in kPa.
		dp := (pMPa - SaturationPressure(tK)) * 1000
		if dp < 0 {
			dp = 0
		}
		return hf.Predict(tc) + dp/rhoF.Predict(tc)
	}
	return hg.Predict(model.KToC(ts)) + steamSpecificHeat*(tK-ts)
}

func (w Water) Entropy(pMPa, tK float64) float64 {
	ts := SaturationTemperature(pMPa)
	if tK <= ts {
		return sf.Predict(model.KToC(tK))
	}
	return sg.Predict(model.KToC(ts)) + steamSpecificHeat*math.Log(tK/ts)
}

func (w Water) Density(pMPa, tK float64) float64 {
	ts := SaturationTemperature(pMPa)
	if tK <= ts {
		return rhoF.Predict(model.KToC(tK))
	}
	return pMPa * 1000 / (steamGasConstant * tK)
}

func (w Water) SpecificHeat(pMPa, tK float64) float64 {
	if tK <= SaturationTemperature(pMPa) {
		return cpF.Predict(model.KToC(tK))
	}
	return steamSpecificHeat
}

func (w Water) Viscosity(pMPa, tK float64) float64 {
	if tK <= SaturationTemperature(pMPa) {
		// Vogel equation.
		return 2.414e-5 * math.Pow(10, 247.8/(tK-140))
	}
	return 8.0e-6 + 4.0e-8*model.KToC(tK)
}

func (w Water) MaxLiquidTemp(pMPa, subcoolK float64) float64 {
	return SaturationTemperature(pMPa) - subcoolK
}

func (w Water) MinLiquidTemp() float64 { return model.ZeroCelsiusK }

// SaturatedLiquidEnthalpy returns hf at pMPa.
func (w Water) SaturatedLiquidEnthalpy(pMPa float64) float64 {
	return hf.Predict(model.KToC(SaturationTemperature(pMPa)))
}

// SaturatedVapourEnthalpy returns hg at pMPa.
func (w Water) SaturatedVapourEnthalpy(pMPa float64) float64 {
	return hg.Predict(model.KToC(SaturationTemperature(pMPa)))
}

// EnthalpyQuality returns the enthalpy of a saturated mixture with steam
// quality x (0 = saturated liquid, 1 = saturated vapour) at pMPa.
func (w Water) EnthalpyQuality(pMPa, x float64) float64 {
	x = math.Max(0, math.Min(1, x))
	l := w.SaturatedLiquidEnthalpy(pMPa)
	return l + x*(w.SaturatedVapourEnthalpy(pMPa)-l)
}

// LatentHeat returns hg - hf at pMPa.
func (w Water) LatentHeat(pMPa float64) float64 {
	return w.SaturatedVapourEnthalpy(pMPa) - w.SaturatedLiquidEnthalpy(pMPa)
}
