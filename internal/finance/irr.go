package finance

import "math"

const (
	irrLow       = -0.99
	irrHigh      = 10.0
	irrTolerance = 1e-10
	irrMaxIter   = 200
)

// NPV discounts cf at rate, cf[0] being undiscounted.
func NPV(rate float64, cf []float64) float64 {
	var v float64
	d := 1.0
	for _, c := range cf {
		v += c / d
		d *= 1 + rate
	}
	return v
}

// IRR finds the rate at which the NPV of cf is zero by bisection over
// [-99 %, 1000 %]. ok is false when cf has no sign change or the NPV does
// not change sign over that bracket.
func IRR(cf []float64) (rate float64, ok bool) {
	if !signChange(cf) {
		return 0, false
	}
	lo, hi := irrLow, irrHigh
	fLo, fHi := NPV(lo, cf), NPV(hi, cf)
	if math.IsNaN(fLo) || math.IsNaN(fHi) {
		return 0, false
	}
	if fLo == 0 {
		return lo, true
	}
	if fHi == 0 {
		return hi, true
	}
	if math.Signbit(fLo) == math.Signbit(fHi) {
		return 0, false
	}
	for range irrMaxIter {
		mid := (lo + hi) / 2
		fMid := NPV(mid, cf)
		if fMid == 0 || hi-lo < irrTolerance {
			return mid, true
		}
		if math.Signbit(fMid) == math.Signbit(fLo) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, true
}

// signChange reports whether cf holds both a positive and a negative flow.
func signChange(cf []float64) bool {
	var pos, neg bool
	for _, c := range cf {
		pos = pos || c > 0
		neg = neg || c < 0
	}
	return pos && neg
}
