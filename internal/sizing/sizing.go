// Package sizing evaluates a plant at several field sizes.
package sizing

import (
	"context"
	"errors"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"shipcal/internal/log"
	"shipcal/internal/shipcal"
	"shipcal/internal/simulator"
)

// Candidate is the outcome of one field size.
type Candidate struct {
	NumberOfLoops    int     `json:"number_of_loops"`
	FieldAreaM2      float64 `json:"field_area_m2"`
	CapitalCost      float64 `json:"capital_cost"`
	ProductionLimKWh float64 `json:"production_lim_kwh"`
	SolarFraction    float64 `json:"solar_fraction"` // %
	LCOE             float64 `json:"-"`              // +Inf when degenerate
	IRR              float64 `json:"irr"`
	IRRFound         bool    `json:"irr_found"`
	PaybackYear      int     `json:"payback_year"`
	Degenerate       bool    `json:"degenerate"`
}

// Result lists candidates by number of loops. Best indexes the lowest
// LCOE, or is -1 when every candidate is degenerate.
type Result struct {
	Candidates []Candidate `json:"candidates"`
	Best       int         `json:"best"`
}

// Sweep runs base once per entry of loops, at most parallel at a time
// (GOMAXPROCS when parallel <= 0). Each run owns its own state. A
// configuration error aborts the sweep; degenerate sizes are kept with an
// infinite LCOE.
func Sweep(ctx context.Context, base shipcal.Scenario, loops []int, parallel int) (Result, error) {
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}
	base.OmitTimesteps = true
	base.Callback = nil

	cands := make([]Candidate, len(loops))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, n := range loops {
		g.Go(func() error {
			sc := base
			sc.Plant.NumberOfLoops = n
			res, err := shipcal.Run(ctx, sc)
			var degen *simulator.DegenerateConfigurationError
			if err != nil && !errors.As(err, &degen) {
				return err
			}
			cands[i] = Candidate{
				NumberOfLoops:    n,
				FieldAreaM2:      res.Design.FieldAreaM2,
				CapitalCost:      res.CapitalCost,
				ProductionLimKWh: res.Summary.ProductionLimKWh,
				SolarFraction:    res.Summary.SolarFractionLim,
				LCOE:             res.Finance.LCOE,
				IRR:              res.Finance.IRR,
				IRRFound:         res.Finance.IRRFound,
				PaybackYear:      res.Finance.PaybackYear,
				Degenerate:       degen != nil,
			}
			log.Debugw("sizing candidate", "loops", n, "lcoe", res.Finance.LCOE, "degenerate", degen != nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	sort.SliceStable(cands, func(i, j int) bool { return cands[i].NumberOfLoops < cands[j].NumberOfLoops })
	best := -1
	for i, c := range cands {
		if math.IsInf(c.LCOE, 1) || math.IsNaN(c.LCOE) {
			continue
		}
		if best < 0 || c.LCOE < cands[best].LCOE {
			best = i
		}
	}
	return Result{Candidates: cands, Best: best}, nil
}

// Range returns the loop counts from, from+step, ... up to and including to.
func Range(from, to, step int) []int {
	if step <= 0 || from <= 0 || to < from {
		return nil
	}
	var out []int
	for n := from; n <= to; n += step {
		out = append(out, n)
	}
	return out
}
