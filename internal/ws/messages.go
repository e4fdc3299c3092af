package ws

import (
	"encoding/json"
	"math"

	"github.com/google/uuid"

	"shipcal/internal/annual"
	"shipcal/internal/config"
	"shipcal/internal/finance"
	"shipcal/internal/model"
	"shipcal/internal/shipcal"
	"shipcal/internal/simulator"
	"shipcal/internal/sizing"
)

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message type constants
const (
	// Client -> Server
	TypeRunStart   = "run:start"
	TypeSweepStart = "sweep:start"
	TypeRunGet     = "run:get"
	TypeRunList    = "run:list"

	// Server -> Client
	TypeCatalog      = "catalog"
	TypeRunAccepted  = "run:accepted"
	TypeRunProgress  = "run:progress"
	TypeRunResult    = "run:result"
	TypeRunError     = "run:error"
	TypeRunTimesteps = "run:timesteps"
	TypeRuns         = "runs"
	TypeSweepResult  = "sweep:result"
)

// Client -> Server messages

// RunStartPayload submits one scenario. File references in the scenario
// are ignored; meteo is always synthesised from the site.
type RunStartPayload struct {
	Scenario config.File `json:"scenario"`
	// KeepTimesteps stores the hourly outputs for later run:get requests.
	KeepTimesteps bool `json:"keep_timesteps"`
}

type SweepStartPayload struct {
	Scenario  config.File `json:"scenario"`
	LoopsFrom int         `json:"loops_from"`
	LoopsTo   int         `json:"loops_to"`
	LoopsStep int         `json:"loops_step"`
	Parallel  int         `json:"parallel"`
}

type RunGetPayload struct {
	RunID    uuid.UUID `json:"run_id"`
	FromHour int       `json:"from_hour"`
	ToHour   int       `json:"to_hour"`
}

// Server -> Client messages

type TopologyInfo struct {
	ID      model.Topology `json:"id"`
	Alias   string         `json:"alias"`
	Name    string         `json:"name"`
	Medium  model.Medium   `json:"medium"`
	Storage bool           `json:"storage"`
	Drum    bool           `json:"drum"`
}

type CatalogPayload struct {
	Topologies []TopologyInfo `json:"topologies"`
	Collectors []string       `json:"collectors"`
	Fluids     []string       `json:"fluids"`
}

type RunAcceptedPayload struct {
	RunID uuid.UUID `json:"run_id"`
}

type RunProgressPayload struct {
	RunID uuid.UUID `json:"run_id"`
	simulator.Progress
}

type RunResultPayload struct {
	RunID         uuid.UUID             `json:"run_id"`
	Design        simulator.DesignState `json:"design"`
	Summary       annual.Summary        `json:"summary"`
	Finance       finance.Report        `json:"finance"`
	CapitalCost   float64               `json:"capital_cost"`
	StorageCycles float64               `json:"storage_cycles"`
	Degenerate    bool                  `json:"degenerate"`
	ElapsedMs     int64                 `json:"elapsed_ms"`
}

type RunErrorPayload struct {
	RunID uuid.UUID `json:"run_id"`
	Field string    `json:"field,omitempty"`
	Error string    `json:"error"`
}

type RunTimestepsPayload struct {
	RunID     uuid.UUID                  `json:"run_id"`
	Timesteps []simulator.TimestepOutput `json:"timesteps"`
}

type CandidatePayload struct {
	NumberOfLoops    int      `json:"number_of_loops"`
	FieldAreaM2      float64  `json:"field_area_m2"`
	CapitalCost      float64  `json:"capital_cost"`
	ProductionLimKWh float64  `json:"production_lim_kwh"`
	SolarFraction    float64  `json:"solar_fraction"`
	LCOE             *float64 `json:"lcoe,omitempty"`
	PaybackYear      int      `json:"payback_year"`
	Degenerate       bool     `json:"degenerate"`
}

type SweepResultPayload struct {
	SweepID    uuid.UUID          `json:"sweep_id"`
	Candidates []CandidatePayload `json:"candidates"`
	Best       int                `json:"best"`
}

func NewEnvelope(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}

func CatalogFromModel(collectors []string) CatalogPayload {
	p := CatalogPayload{
		Collectors: collectors,
		Fluids:     []string{string(model.FluidWater), string(model.FluidThermalOil), string(model.FluidMoltenSalt)},
	}
	for _, t := range model.Topologies() {
		info := t.Info()
		p.Topologies = append(p.Topologies, TopologyInfo{
			ID:      t,
			Alias:   info.Alias,
			Name:    info.Name,
			Medium:  info.Medium,
			Storage: info.Storage,
			Drum:    info.Drum,
		})
	}
	return p
}

func ResultFromRun(res *shipcal.SimulationResult) RunResultPayload {
	return RunResultPayload{
		RunID:         res.RunID,
		Design:        res.Design,
		Summary:       res.Summary,
		Finance:       res.Report,
		CapitalCost:   res.CapitalCost,
		StorageCycles: res.StorageCycles,
		Degenerate:    res.Summary.Degenerate(),
		ElapsedMs:     res.Elapsed.Milliseconds(),
	}
}

func SweepFromResult(id uuid.UUID, r sizing.Result) SweepResultPayload {
	p := SweepResultPayload{SweepID: id, Best: r.Best}
	for _, c := range r.Candidates {
		cp := CandidatePayload{
			NumberOfLoops:    c.NumberOfLoops,
			FieldAreaM2:      c.FieldAreaM2,
			CapitalCost:      c.CapitalCost,
			ProductionLimKWh: c.ProductionLimKWh,
			SolarFraction:    c.SolarFraction,
			PaybackYear:      c.PaybackYear,
			Degenerate:       c.Degenerate,
		}
		if !math.IsInf(c.LCOE, 0) && !math.IsNaN(c.LCOE) {
			v := c.LCOE
			cp.LCOE = &v
		}
		p.Candidates = append(p.Candidates, cp)
	}
	return p
}
