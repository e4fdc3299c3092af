// Package shipcal runs a full annual evaluation of one plant: design,
// hourly simulation, aggregation and financial projection.
package shipcal

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"shipcal/internal/annual"
	"shipcal/internal/finance"
	"shipcal/internal/log"
	"shipcal/internal/model"
	"shipcal/internal/simulator"
)

// ErrSeriesMismatch is returned when the meteo and demand series cannot be
// paired hour by hour.
var ErrSeriesMismatch = errors.New("meteo and demand series are not aligned")

// Scenario is everything a run needs.
type Scenario struct {
	Plant  model.PlantConfig
	Cost   model.CostModel
	Meteo  []model.MeteoRecord
	Demand []model.DemandRecord

	// RunID identifies the run; a new one is generated when nil.
	RunID uuid.UUID
	// Callback receives monthly progress; optional.
	Callback simulator.Callback
	// OmitTimesteps drops the hourly outputs from the result.
	OmitTimesteps bool
}

// SimulationResult is the outcome of Run.
type SimulationResult struct {
	RunID         uuid.UUID                  `json:"run_id"`
	Design        simulator.DesignState      `json:"design"`
	Timesteps     []simulator.TimestepOutput `json:"timesteps,omitempty"`
	Summary       annual.Summary             `json:"summary"`
	Finance       finance.Projection         `json:"finance"`
	Report        finance.Report             `json:"report"`
	CapitalCost   float64                    `json:"capital_cost"`
	StorageCycles float64                    `json:"storage_cycles"`
	Elapsed       time.Duration              `json:"elapsed_ns"`
}

// Align pairs meteo and demand records into simulator inputs. Both series
// must have the same length and hour indices.
func Align(meteo []model.MeteoRecord, demand []model.DemandRecord) ([]model.TimestepInput, error) {
	if len(meteo) == 0 {
		return nil, fmt.Errorf("%w: empty meteo series", ErrSeriesMismatch)
	}
	if len(meteo) != len(demand) {
		return nil, fmt.Errorf("%w: %d meteo hours, %d demand hours", ErrSeriesMismatch, len(meteo), len(demand))
	}
	inputs := make([]model.TimestepInput, len(meteo))
	for i, m := range meteo {
		if demand[i].HourOfYear != m.HourOfYear {
			return nil, fmt.Errorf("%w: index %d has meteo hour %d, demand hour %d",
				ErrSeriesMismatch, i, m.HourOfYear, demand[i].HourOfYear)
		}
		inputs[i] = model.TimestepInput{MeteoRecord: m, DemandKWh: demand[i].DemandKWh}
	}
	return inputs, nil
}

// MeanAmbientK is the design ambient temperature of a series.
func MeanAmbientK(meteo []model.MeteoRecord) float64 {
	if len(meteo) == 0 {
		return model.CToK(20)
	}
	var sum float64
	for _, m := range meteo {
		sum += m.AmbientTempK
	}
	return sum / float64(len(meteo))
}

// Run evaluates sc. A *simulator.ConfigurationError is returned before any
// hour is simulated. When the year produces nothing the complete result is
// returned together with a *simulator.DegenerateConfigurationError and an
// infinite LCOE.
func Run(ctx context.Context, sc Scenario) (*SimulationResult, error) {
	start := time.Now()
	inputs, err := Align(sc.Meteo, sc.Demand)
	if err != nil {
		return nil, err
	}

	design, err := simulator.Resolve(sc.Plant, MeanAmbientK(sc.Meteo))
	if err != nil {
		return nil, err
	}
	sim, err := simulator.New(design, sc.Callback)
	if err != nil {
		return nil, err
	}
	outs, _, err := sim.Run(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("simulating %s: %w", design.Topology, err)
	}

	cost := sc.Cost.WithDefaults()
	summary := annual.Aggregate(outs, cost.CO2EmissionFactor)
	capex := finance.CapitalCost(design.FieldAreaM2, design.StorageVolumeM3, cost)
	proj := finance.Project(finance.FromCostModel(summary.ProductionLimKWh, summary.TonCO2Saved, capex, cost))

	id := sc.RunID
	if id == uuid.Nil {
		id = uuid.New()
	}
	res := &SimulationResult{
		RunID:         id,
		Design:        design,
		Summary:       summary,
		CapitalCost:   capex,
		StorageCycles: summary.StorageCycles(design.StorageUsefulKWh),
	}
	if !sc.OmitTimesteps {
		res.Timesteps = outs
	}

	var runErr error
	if summary.Degenerate() {
		proj.LCOE = math.Inf(1)
		runErr = &simulator.DegenerateConfigurationError{
			Topology:      design.Topology,
			ProductionKWh: summary.ProductionMaxKWh,
		}
	}
	res.Finance = proj
	res.Report = proj.Report()
	res.Elapsed = time.Since(start)

	log.Debugw("run complete",
		"run_id", res.RunID,
		"topology", design.Topology,
		"hours", summary.Hours,
		"production_kwh", summary.ProductionMaxKWh,
		"prod_lim_kwh", summary.ProductionLimKWh,
		"solar_fraction", summary.SolarFractionLim,
		"lcoe", proj.LCOE,
		"elapsed", res.Elapsed,
	)
	return res, runErr
}
