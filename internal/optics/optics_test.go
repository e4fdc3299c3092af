package optics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const d2r = math.Pi / 180

func TestLookup(t *testing.T) {
	c, err := Lookup("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCollector, c.Name)

	c, err = Lookup(" Flat-Plate ")
	require.NoError(t, err)
	assert.Equal(t, KindFlatPlate, c.Kind)

	_, err = Lookup("heliostat")
	assert.Error(t, err)
	assert.Len(t, Names(), 4)
}

func TestCurveAt(t *testing.T) {
	ashrae := Curve{B0: 0.1}
	assert.InDelta(t, 1.0, ashrae.At(0), 1e-12)
	assert.InDelta(t, 1-0.1*(math.Sqrt2-1), ashrae.At(45), 1e-9)
	assert.Equal(t, 0.0, ashrae.At(90))
	assert.Equal(t, 0.0, ashrae.At(89.9), "clamped at grazing incidence")

	poly := Curve{Poly: []float64{-0.01}}
	assert.InDelta(t, 0.5, poly.At(50), 1e-12)
	assert.InDelta(t, 0.5, poly.At(-50), 1e-12)
}

func TestHorizontalFlatPlate(t *testing.T) {
	c, err := Lookup("flat-plate")
	require.NoError(t, err)
	m := Model{Collector: c}

	a := m.Geometry.Incidence(45*d2r, 120*d2r)
	assert.True(t, a.Visible)
	assert.InDelta(t, 45, a.IncidenceRad/d2r, 1e-9)

	want := math.Cos(45*d2r) * (1 - 0.1*(math.Sqrt2-1))
	assert.InDelta(t, want, m.Modifier(45*d2r, 120*d2r), 1e-9)
}

func TestSunBelowHorizon(t *testing.T) {
	c, _ := Lookup("parabolic-trough")
	m := Model{Collector: c, Geometry: Geometry{Tracking: true, AzimuthRad: math.Pi}}
	assert.Equal(t, 0.0, m.Modifier(-5*d2r, 90*d2r))
}

func TestTrackingTrough(t *testing.T) {
	c, _ := Lookup("parabolic-trough")

	// East-west axis at solar noon sees the sun at normal incidence.
	ew := Model{Collector: c, Geometry: Geometry{AzimuthRad: math.Pi, Tracking: true}}
	a := ew.Geometry.Incidence(45*d2r, math.Pi)
	assert.InDelta(t, 0, a.IncidenceRad, 1e-9)
	assert.InDelta(t, 0, a.TransversalRad, 1e-12)
	assert.InDelta(t, 1.0, ew.Modifier(45*d2r, math.Pi), 1e-9)

	// North-south axis at noon: incidence equals the zenith angle.
	ns := Model{Collector: c, Geometry: Geometry{AzimuthRad: math.Pi / 2, Tracking: true}}
	a = ns.Geometry.Incidence(45*d2r, math.Pi)
	assert.InDelta(t, 45, a.IncidenceRad/d2r, 1e-9)
	want := math.Cos(45*d2r) * c.IAM.Longitudinal.At(45)
	assert.InDelta(t, want, ns.Modifier(45*d2r, math.Pi), 1e-9)
}

func TestTrackingNeverWorseThanFixed(t *testing.T) {
	c, _ := Lookup("parabolic-trough")
	fixed := Model{Collector: c, Geometry: Geometry{AzimuthRad: math.Pi}}
	tracked := Model{Collector: c, Geometry: Geometry{AzimuthRad: math.Pi, Tracking: true}}
	for el := 5.0; el < 90; el += 10 {
		for az := 60.0; az <= 300; az += 30 {
			assert.GreaterOrEqual(t, tracked.Modifier(el*d2r, az*d2r)+1e-12, fixed.Modifier(el*d2r, az*d2r))
		}
	}
}

func TestModifierBounded(t *testing.T) {
	for _, name := range Names() {
		c, _ := Lookup(name)
		m := Model{Collector: c, Geometry: Geometry{TiltRad: 30 * d2r, AzimuthRad: math.Pi, RollRad: 10 * d2r}}
		for el := -10.0; el <= 90; el += 7 {
			for az := 0.0; az < 360; az += 23 {
				v := m.Modifier(el*d2r, az*d2r)
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
			}
		}
	}
}

func TestEffectiveAndEfficiency(t *testing.T) {
	c, _ := Lookup("flat-plate")
	frTa, frUL := c.Effective(40)
	assert.Equal(t, c.Eta0, frTa)
	assert.InDelta(t, 3.5+0.015*40, frUL, 1e-12)

	_, frUL = c.Effective(-5)
	assert.Equal(t, c.A1, frUL)

	assert.Equal(t, 0.0, c.Efficiency(0, 40, 1))
	assert.Equal(t, 0.0, c.Efficiency(100, 200, 1), "losses dominate")
	assert.InDelta(t, 0.78-3.5*0.04-0.015*40*0.04, c.Efficiency(1000, 40, 1), 1e-12)
}

func TestFitCurve(t *testing.T) {
	truth := Curve{Poly: []float64{-2e-3, -4e-5}}
	var th, k []float64
	for a := 0.0; a <= 80; a += 5 {
		th = append(th, a)
		k = append(k, 1-2e-3*a-4e-5*a*a)
	}
	fit, err := FitCurve(th, k, 2)
	require.NoError(t, err)
	require.Len(t, fit.Poly, 2)
	assert.InDelta(t, truth.Poly[0], fit.Poly[0], 1e-9)
	assert.InDelta(t, truth.Poly[1], fit.Poly[1], 1e-11)

	_, err = FitCurve(th, k[:3], 2)
	assert.Error(t, err)
	_, err = FitCurve(th, k, 0)
	assert.Error(t, err)
}

func TestWithMeasuredIAM(t *testing.T) {
	base, err := Lookup("flat-plate")
	require.NoError(t, err)
	th := []float64{0, 20, 40, 60, 80}
	l := make([]float64, len(th))
	tr := make([]float64, len(th))
	for i, a := range th {
		l[i] = 1 - 3e-3*a
		tr[i] = 1 - 1e-3*a
	}

	c, err := base.WithMeasuredIAM(th, l, nil, 1)
	require.NoError(t, err)
	assert.False(t, c.IAM.Biaxial)
	assert.InDelta(t, 0.88, c.IAM.Longitudinal.At(40), 1e-9)
	assert.Equal(t, Curve{B0: 0.1}, base.IAM.Longitudinal, "catalogue entry untouched")

	c, err = base.WithMeasuredIAM(th, l, tr, 0)
	require.NoError(t, err)
	assert.True(t, c.IAM.Biaxial)
	assert.Len(t, c.IAM.Transversal.Poly, DefaultFitDegree)
	assert.InDelta(t, 0.94, c.IAM.Transversal.At(60), 1e-6)
	assert.Equal(t, base.Eta0, c.Eta0)

	_, err = base.WithMeasuredIAM(th, l, tr[:2], 1)
	assert.ErrorContains(t, err, "transversal")
}
