package simulator

import (
	"math"

	"shipcal/internal/fluid"
	"shipcal/internal/model"
)

// strategy holds the design-time and run-time behaviour of one topology.
type strategy interface {
	// design fills the topology-specific fields of the DesignState.
	design(r *resolver) error
	// inlet is the field inlet temperature for the hour.
	inlet(h *hour) float64
	// produce runs an hour in which the field clears the DNI threshold.
	produce(h *hour, inletK float64)
	// idle runs an hour below the threshold.
	idle(h *hour)
}

var strategies = map[model.Topology]strategy{
	model.TopologyParallel:           parallel{},
	model.TopologyParallelHX:         parallel{hx: true},
	model.TopologyParallelStorage:    parallelStorage{},
	model.TopologyDirectReturnFlow:   returnFlow{},
	model.TopologyReturnFlowHX:       returnFlow{hx: true},
	model.TopologyFeedWater:          preheat{},
	model.TopologyFeedWaterStorage:   preheat{storage: true},
	model.TopologyMakeUpWater:        preheat{makeUp: true},
	model.TopologyMakeUpWaterStorage: preheat{makeUp: true, storage: true},
	model.TopologySteamOnceThrough:   directSteam{},
	model.TopologySteamDrum:          directSteam{drum: true},
	model.TopologySteamDrumStorage:   directSteam{drum: true, storage: true},
}

// hour is the working set of one timestep.
type hour struct {
	d    *DesignState
	in   model.TimestepInput
	prev TimestepState
	next TimestepState
	out  TimestepOutput

	iam    float64
	served float64 // demand the solar plant can cover this hour
	tank   *buffer
	drum   *buffer
}

// fieldLoop is embedded by every topology for the shared loop behaviour.
// The sensible topologies heat the process flow from the inlet to OutletK;
// directSteam overrides produce.
type fieldLoop struct{}

// inlet reuses the warm loop after a recirculating hour, otherwise the
// design inlet. Open loops override it.
func (fieldLoop) inlet(h *hour) float64 {
	if h.prev.Status == model.StatusRecirculating && h.prev.FieldTempK > h.d.InletK {
		return math.Min(h.prev.FieldTempK, h.d.OutletK)
	}
	return h.d.InletK
}

func (fieldLoop) produce(h *hour, inletK float64) {
	h.deliver(h.collect(inletK, h.d.OutletK, h.enthalpy(h.d.OutletK)-h.enthalpy(inletK)))
}

func (fieldLoop) idle(h *hour) { h.standby() }

// collect runs the field energy balance for the hour. The loop is first
// warmed from its current temperature to outletK; until it gets there the
// field recirculates and delivers nothing. deltaH is the enthalpy rise per
// kg of process flow, used for the flow rate. Returns the energy handed to
// the process side of any heat exchanger.
func (h *hour) collect(inletK, outletK, deltaH float64) float64 {
	d := h.d
	dt := d.TimestepHours
	tAmb := h.in.AmbientTempK
	h.out.FieldInTempK = inletK

	gain := d.FieldAreaM2 * d.FrTa * h.iam * h.in.DNIWm2 / 1000 * dt
	loss := d.FieldAreaM2 * d.FrUL * (inletK - tAmb) / 1000 * dt
	q := math.Max(0, gain-loss)
	h.out.QLossKWh = math.Max(0, math.Min(gain, loss))

	tLoop := h.prev.FieldTempK
	var warm, cp float64
	if tLoop < outletK && d.LoopMassKg > 0 {
		cp = fluid.MeanSpecificHeat(d.props, d.PressureMPa, tLoop, math.Min(outletK, h.liquidMax()))
		warm = d.LoopMassKg * cp * (outletK - tLoop) / 3600
	}
	if q < warm {
		h.next.Status = model.StatusRecirculating
		h.next.FieldTempK = h.clampLiquid(tLoop + q*3600/(d.LoopMassKg*cp))
		h.out.FieldOutTempK = h.next.FieldTempK
		h.out.RecircFlowKgS = d.LoopMassKg / (dt * 3600)
		return 0
	}

	q -= warm
	h.next.Status = model.StatusOn
	h.next.FieldTempK = outletK
	h.out.FieldOutTempK = outletK
	if deltaH > 1e-9 {
		h.out.FlowRateKgS = q / dt / deltaH
	}

	delivered := q * d.HXEffectiveness
	h.out.QLossKWh += q - delivered
	return delivered
}

// deliver routes q kWh of field production: drum floor first, then direct
// supply, then drum and tank charging, defocusing the rest. Any demand left
// open is drawn from the buffers.
func (h *hour) deliver(q float64) {
	o := &h.out
	o.QProdKWh = q
	if h.drum != nil {
		f := h.drum.fillToFloor(q)
		o.DrumChargeKWh += f
		q -= f
	}
	direct := math.Min(q, h.served)
	surplus := q - direct
	if h.drum != nil {
		c := h.drum.charge(surplus)
		o.DrumChargeKWh += c
		surplus -= c
	}
	if h.tank != nil {
		c := h.tank.charge(surplus)
		o.QChargeKWh += c
		surplus -= c
	}
	o.QDefocusKWh = surplus
	o.QProdLimKWh = direct + h.drawBuffers(h.served-direct)
}

// drawBuffers serves up to kwh from the drum, then the tank.
func (h *hour) drawBuffers(kwh float64) float64 {
	var got float64
	if h.drum != nil {
		e := h.drum.discharge(kwh)
		h.out.DrumDischargeKWh += e
		got += e
	}
	if h.tank != nil {
		e := h.tank.discharge(kwh - got)
		h.out.QDischargeKWh += e
		got += e
	}
	return got
}

// standby runs an hour without collection: the loop cools toward ambient
// and the buffers alone serve the demand.
func (h *hour) standby() {
	d := h.d
	dt := d.TimestepHours
	tAmb := h.in.AmbientTempK
	tLoop := h.prev.FieldTempK

	h.next.Status = model.StatusOff
	h.next.FieldTempK = tAmb
	if tLoop > tAmb && d.LoopMassKg > 0 {
		cp := d.props.SpecificHeat(d.PressureMPa, math.Min(tLoop, h.liquidMax()))
		heat := d.LoopMassKg * cp * (tLoop - tAmb) / 3600
		loss := math.Min(heat, d.FieldAreaM2*d.FrUL*(tLoop-tAmb)/1000*dt)
		h.next.FieldTempK = tLoop - loss*3600/(d.LoopMassKg*cp)
		h.out.QLossKWh = loss
	}
	h.out.FieldInTempK = h.next.FieldTempK
	h.out.FieldOutTempK = h.next.FieldTempK
	h.deliver(0)
}

func (h *hour) liquidMax() float64 {
	return h.d.props.MaxLiquidTemp(h.d.PressureMPa, h.d.SubcoolingK)
}

func (h *hour) clampLiquid(tK float64) float64 {
	t, _ := fluid.ClampLiquid(h.d.props, tK, h.d.PressureMPa, h.d.SubcoolingK)
	return t
}

func (h *hour) enthalpy(tK float64) float64 {
	return h.d.props.Enthalpy(h.d.PressureMPa, tK)
}
