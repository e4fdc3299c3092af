// Package demand builds hourly process heat demand series.
package demand

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	"shipcal/internal/model"
)

// Profile weights the annual consumption over hours of the day, days of
// the week (Sunday first) and months. Weights are relative; only their
// ratios matter.
type Profile struct {
	Hourly  [24]float64 `yaml:"hourly" json:"hourly"`
	Weekly  [7]float64  `yaml:"weekly" json:"weekly"`
	Monthly [12]float64 `yaml:"monthly" json:"monthly"`
}

// Continuous runs every hour of the year at the same rate.
func Continuous() Profile {
	var p Profile
	fill(p.Hourly[:], 1)
	fill(p.Weekly[:], 1)
	fill(p.Monthly[:], 1)
	return p
}

// TwoShift runs 06:00-22:00 on weekdays with a half-load Saturday and an
// August shutdown week.
func TwoShift() Profile {
	var p Profile
	fill(p.Hourly[6:22], 1)
	fill(p.Weekly[1:6], 1)
	p.Weekly[time.Saturday] = 0.5
	fill(p.Monthly[:], 1)
	p.Monthly[time.August-1] = 0.75
	return p
}

func fill(s []float64, v float64) {
	for i := range s {
		s[i] = v
	}
}

// ErrEmptyProfile is returned when every hour of the year has zero weight.
var ErrEmptyProfile = errors.New("demand profile has no weight")

// Series spreads annualKWh over model.HoursPerYear hours of year following p.
// The result sums to annualKWh.
func Series(annualKWh float64, p Profile, year int) ([]model.DemandRecord, error) {
	if annualKWh < 0 {
		return nil, fmt.Errorf("annual demand %v kWh is negative", annualKWh)
	}
	if year == 0 {
		year = 2023
	}
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)

	weights := make([]float64, model.HoursPerYear)
	for h := range weights {
		day := h / 24
		wd := jan1.AddDate(0, 0, day).Weekday()
		weights[h] = p.Hourly[h%24] * p.Weekly[wd] * p.Monthly[model.Month(h)]
	}
	total := floats.Sum(weights)
	if total <= 0 {
		return nil, ErrEmptyProfile
	}
	floats.Scale(annualKWh/total, weights)

	out := make([]model.DemandRecord, model.HoursPerYear)
	for h, w := range weights {
		out[h] = model.DemandRecord{HourOfYear: h, DemandKWh: w}
	}
	return out, nil
}

// Constant returns n hours of kwhPerHour each.
func Constant(n int, kwhPerHour float64) []model.DemandRecord {
	out := make([]model.DemandRecord, n)
	for h := range out {
		out[h] = model.DemandRecord{HourOfYear: h, DemandKWh: kwhPerHour}
	}
	return out
}

// Total sums a series.
func Total(series []model.DemandRecord) float64 {
	v := make([]float64, len(series))
	for i, r := range series {
		v[i] = r.DemandKWh
	}
	return floats.Sum(v)
}
