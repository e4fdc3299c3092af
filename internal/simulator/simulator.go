package simulator

import (
	"context"
	"fmt"

	"shipcal/internal/model"
)

// TimestepState is carried from one hour to the next.
type TimestepState struct {
	FieldTempK float64      `json:"field_temp_k"`
	Status     model.Status `json:"status"`
	StoredKWh  float64      `json:"stored_kwh"`
	DrumKWh    float64      `json:"drum_kwh"`
}

// TimestepOutput is the result of one simulated hour. Energies are in kWh
// per timestep.
type TimestepOutput struct {
	HourOfYear int          `json:"hour_of_year" csv:"hour_of_year"`
	Status     model.Status `json:"status" csv:"status"`
	IAM        float64      `json:"iam" csv:"iam"`

	DemandKWh       float64 `json:"demand_kwh" csv:"demand_kwh"`
	ServedDemandKWh float64 `json:"served_demand_kwh" csv:"served_demand_kwh"`
	QProdKWh        float64 `json:"q_prod_kwh" csv:"q_prod_kwh"`
	QLossKWh        float64 `json:"q_loss_kwh" csv:"q_loss_kwh"`
	QProdLimKWh     float64 `json:"q_prod_lim_kwh" csv:"q_prod_lim_kwh"`
	QUsefulKWh      float64 `json:"q_useful_kwh" csv:"q_useful_kwh"`
	QDefocusKWh     float64 `json:"q_defocus_kwh" csv:"q_defocus_kwh"`

	QChargeKWh      float64 `json:"q_charge_kwh" csv:"q_charge_kwh"`
	QDischargeKWh   float64 `json:"q_discharge_kwh" csv:"q_discharge_kwh"`
	QStorageLossKWh float64 `json:"q_storage_loss_kwh" csv:"q_storage_loss_kwh"` // idle hours only
	StoredKWh       float64 `json:"stored_kwh" csv:"stored_kwh"`
	StorageTempK    float64 `json:"storage_temp_k" csv:"storage_temp_k"`

	DrumChargeKWh    float64 `json:"drum_charge_kwh" csv:"drum_charge_kwh"`
	DrumDischargeKWh float64 `json:"drum_discharge_kwh" csv:"drum_discharge_kwh"`
	DrumLossKWh      float64 `json:"drum_loss_kwh" csv:"drum_loss_kwh"`
	DrumKWh          float64 `json:"drum_kwh" csv:"drum_kwh"`

	FlowRateKgS   float64 `json:"flow_rate_kg_s" csv:"flow_rate_kg_s"`
	RecircFlowKgS float64 `json:"recirc_flow_kg_s" csv:"recirc_flow_kg_s"`
	FieldInTempK  float64 `json:"field_in_temp_k" csv:"field_in_temp_k"`
	FieldOutTempK float64 `json:"field_out_temp_k" csv:"field_out_temp_k"`
}

// Progress is reported once per simulated calendar month.
type Progress struct {
	Month         int     `json:"month"` // 0-11
	HoursDone     int     `json:"hours_done"`
	HoursTotal    int     `json:"hours_total"`
	ProductionKWh float64 `json:"production_kwh"`
	ProdLimKWh    float64 `json:"prod_lim_kwh"`
	DemandKWh     float64 `json:"demand_kwh"`
}

// Callback receives simulation events.
type Callback interface {
	OnProgress(p Progress)
}

// OpticalModel returns the factor applied to DNI for a sun position.
type OpticalModel interface {
	Modifier(elevationRad, azimuthRad float64) float64
}

// Simulator steps a resolved design through a series of hourly inputs.
// It holds no state between calls; concurrent runs may share one.
type Simulator struct {
	design   DesignState
	strategy strategy
	optics   OpticalModel
	callback Callback
}

// New creates a simulator for a design produced by Resolve. cb may be nil.
func New(design DesignState, cb Callback) (*Simulator, error) {
	strat, ok := strategies[design.Topology]
	if !ok || design.props == nil {
		return nil, fmt.Errorf("design for %q was not produced by Resolve", design.Topology)
	}
	return &Simulator{
		design:   design,
		strategy: strat,
		optics:   design.Optics,
		callback: cb,
	}, nil
}

// SetOptics replaces the optical model derived from the design.
func (s *Simulator) SetOptics(m OpticalModel) {
	s.optics = m
}

// Design returns the design the simulator runs.
func (s *Simulator) Design() DesignState {
	return s.design
}

// InitialState is the state before the first hour: loop at ambient, buffers
// empty, field off.
func InitialState(first model.TimestepInput) TimestepState {
	return TimestepState{
		FieldTempK: first.AmbientTempK,
		Status:     model.StatusOff,
	}
}

// Step advances one timestep. It is a pure function of its arguments and
// the design.
func (s *Simulator) Step(prev TimestepState, in model.TimestepInput) (TimestepState, TimestepOutput) {
	d := &s.design
	h := &hour{
		d:      d,
		in:     in,
		prev:   prev,
		next:   prev,
		served: in.DemandKWh * d.SensibleFraction,
	}
	h.out.HourOfYear = in.HourOfYear
	h.out.DemandKWh = in.DemandKWh
	h.out.ServedDemandKWh = h.served

	if d.HasStorage() {
		h.tank = newBuffer(d.StorageMaxKWh, d.StorageFloorKWh, 0, prev.StoredKWh)
		h.tank.lossFraction = d.StorageLossFraction
	}
	if d.HasDrum() {
		h.drum = newBuffer(d.DrumMaxKWh, d.DrumMinKWh, d.DrumLossKWhPerHour*d.TimestepHours, prev.DrumKWh)
	}

	if in.SunElevationRad > 0 {
		h.iam = s.optics.Modifier(in.SunElevationRad, in.SunAzimuthRad)
	}
	h.out.IAM = h.iam

	inletK := s.strategy.inlet(h)
	if s.on(h, inletK) {
		s.strategy.produce(h, inletK)
	} else {
		s.strategy.idle(h)
	}

	if h.next.Status != model.StatusOn {
		if h.drum != nil {
			h.out.DrumLossKWh = h.drum.decay()
		}
		if h.tank != nil {
			h.out.QStorageLossKWh = h.tank.decay()
		}
	}
	if h.tank != nil {
		h.next.StoredKWh = h.tank.levelKWh
		h.out.StoredKWh = h.tank.levelKWh
		h.out.StorageTempK = d.StorageTemperature(h.tank.levelKWh)
	}
	if h.drum != nil {
		h.next.DrumKWh = h.drum.levelKWh
		h.out.DrumKWh = h.drum.levelKWh
	}
	h.out.QUsefulKWh = min(h.out.QProdLimKWh, h.out.DemandKWh)
	h.out.Status = h.next.Status
	return h.next, h.out
}

// on applies the minimum-DNI guard for the effective inlet temperature.
func (s *Simulator) on(h *hour, inletK float64) bool {
	dni := h.in.DNIWm2
	if h.in.SunElevationRad <= 0 || dni <= 0 || h.iam <= 0 {
		return false
	}
	d := h.d
	limDNI := d.FrUL * (inletK - h.in.AmbientTempK) / (d.FrTa * h.iam)
	return dni > limDNI
}

// Run simulates every input in order. It returns the outputs, the state
// after the last hour and the context error if the run was cancelled, in
// which case the outputs cover the hours done so far.
func (s *Simulator) Run(ctx context.Context, inputs []model.TimestepInput) ([]TimestepOutput, TimestepState, error) {
	if len(inputs) == 0 {
		return nil, TimestepState{}, nil
	}
	outs := make([]TimestepOutput, 0, len(inputs))
	state := InitialState(inputs[0])

	prog := Progress{Month: model.Month(inputs[0].HourOfYear), HoursTotal: len(inputs)}
	for i, in := range inputs {
		var out TimestepOutput
		state, out = s.Step(state, in)
		outs = append(outs, out)

		prog.HoursDone = i + 1
		prog.ProductionKWh += out.QProdKWh
		prog.ProdLimKWh += out.QProdLimKWh
		prog.DemandKWh += out.DemandKWh

		last := i == len(inputs)-1
		if last || model.Month(inputs[i+1].HourOfYear) != prog.Month {
			if s.callback != nil {
				s.callback.OnProgress(prog)
			}
			if err := ctx.Err(); err != nil && !last {
				return outs, state, err
			}
			if !last {
				prog = Progress{
					Month:      model.Month(inputs[i+1].HourOfYear),
					HoursDone:  i + 1,
					HoursTotal: len(inputs),
				}
			}
		}
	}
	return outs, state, nil
}
