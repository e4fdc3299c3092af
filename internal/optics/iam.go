package optics

import "math"

// Curve is a one-dimensional incidence angle modifier K(θ) with θ in
// degrees. When Poly is set K(θ) = 1 + Σ Poly[i]·θ^(i+1); otherwise the
// ASHRAE form K(θ) = 1 - B0·(1/cos θ - 1) is used.
type Curve struct {
	B0   float64   `yaml:"b0" json:"b0"`
	Poly []float64 `yaml:"poly" json:"poly"`
}

// At evaluates the curve, clamped to [0, 1]. Angles beyond 90° give 0.
func (c Curve) At(thetaDeg float64) float64 {
	thetaDeg = math.Abs(thetaDeg)
	if thetaDeg >= 90 {
		return 0
	}
	var k float64
	if len(c.Poly) > 0 {
		k = 1
		p := 1.0
		for _, coef := range c.Poly {
			p *= thetaDeg
			k += coef * p
		}
	} else {
		k = 1 - c.B0*(1/math.Cos(thetaDeg*math.Pi/180)-1)
	}
	return clamp01(k)
}

// IAM combines one or two curves. Biaxial collectors multiply the
// longitudinal and transversal modifiers of the projected angles;
// otherwise Longitudinal is evaluated at the incidence angle.
type IAM struct {
	Biaxial      bool
	Longitudinal Curve
	Transversal  Curve
}

// Factor returns K for the given angles (radians).
func (m IAM) Factor(a Angles) float64 {
	if !m.Biaxial {
		return m.Longitudinal.At(deg(a.IncidenceRad))
	}
	return m.Longitudinal.At(deg(a.LongitudinalRad)) * m.Transversal.At(deg(a.TransversalRad))
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func deg(rad float64) float64 { return rad * 180 / math.Pi }
