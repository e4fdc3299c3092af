package optics

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// FitCurve fits a polynomial Curve of the given degree to measured
// modifier samples by least squares. The curve passes through K(0) = 1.
func FitCurve(thetaDeg, k []float64, degree int) (Curve, error) {
	if len(thetaDeg) != len(k) {
		return Curve{}, errors.New("angle and modifier samples differ in length")
	}
	if degree < 1 {
		return Curve{}, fmt.Errorf("invalid polynomial degree %d", degree)
	}
	if len(k) < degree {
		return Curve{}, fmt.Errorf("need at least %d samples, got %d", degree, len(k))
	}

	a := mat.NewDense(len(k), degree, nil)
	b := mat.NewVecDense(len(k), nil)
	for i, th := range thetaDeg {
		p := 1.0
		for j := 0; j < degree; j++ {
			p *= th
			a.Set(i, j, p)
		}
		b.SetVec(i, k[i]-1)
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return Curve{}, fmt.Errorf("fit modifier curve: %w", err)
	}
	poly := make([]float64, degree)
	for j := range poly {
		poly[j] = x.AtVec(j)
	}
	return Curve{Poly: poly}, nil
}

// DefaultFitDegree is used by WithMeasuredIAM when no degree is given.
const DefaultFitDegree = 3

// WithMeasuredIAM returns c with its modifier replaced by curves fitted to
// measured samples. Non-empty transversal samples make the modifier biaxial.
func (c Collector) WithMeasuredIAM(thetaDeg, longitudinal, transversal []float64, degree int) (Collector, error) {
	if degree == 0 {
		degree = DefaultFitDegree
	}
	l, err := FitCurve(thetaDeg, longitudinal, degree)
	if err != nil {
		return Collector{}, fmt.Errorf("longitudinal: %w", err)
	}
	c.IAM = IAM{Longitudinal: l}
	if len(transversal) == 0 {
		return c, nil
	}
	tr, err := FitCurve(thetaDeg, transversal, degree)
	if err != nil {
		return Collector{}, fmt.Errorf("transversal: %w", err)
	}
	c.IAM.Biaxial = true
	c.IAM.Transversal = tr
	return c, nil
}
