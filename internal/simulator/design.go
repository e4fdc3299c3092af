package simulator

import (
	"math"

	"gonum.org/v1/gonum/interp"

	"shipcal/internal/fluid"
	"shipcal/internal/log"
	"shipcal/internal/model"
	"shipcal/internal/optics"
)

// Steam qualities used to design direct steam generation.
const (
	SteamQualityWithDrum    = 0.4
	SteamQualityOnceThrough = 0.8
	DrumQualityMin          = 0.2
	DrumQualityMax          = 0.6
)

// DesignState holds the fixed quantities derived from a PlantConfig before
// the hourly loop runs. Temperatures are in kelvin, energies in kWh.
type DesignState struct {
	Topology    model.Topology  `json:"topology"`
	FluidKind   model.FluidKind `json:"fluid"`
	PressureMPa float64         `json:"pressure_mpa"`
	// SaturationTempK is zero for fluids other than water.
	SaturationTempK float64 `json:"saturation_temp_k"`
	SubcoolingK     float64 `json:"subcooling_k"`
	TimestepHours   float64 `json:"timestep_hours"`

	ProcessInletK  float64 `json:"process_inlet_k"`
	ProcessOutletK float64 `json:"process_outlet_k"`
	InletK         float64 `json:"inlet_k"`  // solar field design inlet
	OutletK        float64 `json:"outlet_k"` // solar field design outlet
	MakeUpWaterK   float64 `json:"make_up_water_k"`

	StorageVolumeM3  float64 `json:"storage_volume_m3"`
	StorageMinTempK  float64 `json:"storage_min_temp_k"`
	StorageMaxTempK  float64 `json:"storage_max_temp_k"`
	StorageMaxKWh    float64 `json:"storage_max_kwh"`    // E(max) - E(ambient)
	StorageUsefulKWh float64 `json:"storage_useful_kwh"` // E(max) - E(min)
	StorageFloorKWh  float64 `json:"storage_floor_kwh"`  // E(min) - E(ambient)

	DrumMassKg         float64 `json:"drum_mass_kg"`
	DrumLimitKWh       float64 `json:"drum_limit_kwh"` // saturated liquid, absolute
	DrumMinKWh         float64 `json:"drum_min_kwh"`   // above limit
	DrumMaxKWh         float64 `json:"drum_max_kwh"`   // above limit
	DrumLossKWhPerHour float64 `json:"drum_loss_kwh_per_hour"`

	// StorageLossFraction is the share of stored energy lost per idle
	// timestep.
	StorageLossFraction float64 `json:"storage_loss_fraction"`

	SteamQuality     float64 `json:"steam_quality"`
	HXEffectiveness  float64 `json:"hx_effectiveness"`
	SensibleFraction float64 `json:"sensible_fraction"`

	Collectors  int          `json:"collectors"`
	FieldAreaM2 float64      `json:"field_area_m2"`
	LoopMassKg  float64      `json:"loop_mass_kg"`
	FrTa        float64      `json:"fr_ta"`
	FrUL        float64      `json:"fr_ul"` // W/(m²·K)
	Optics      optics.Model `json:"optics"`

	props       fluid.Properties
	storageTemp *interp.PiecewiseLinear
}

// Fluid returns the property model of the field fluid.
func (d *DesignState) Fluid() fluid.Properties { return d.props }

// HasStorage reports whether the design includes a sensible storage tank.
func (d *DesignState) HasStorage() bool { return d.StorageMaxKWh > 0 }

// HasDrum reports whether the design includes a steam drum buffer.
func (d *DesignState) HasDrum() bool { return d.Topology.Info().Drum }

// StorageTemperature returns the tank temperature holding storedKWh above
// the ambient reference.
func (d *DesignState) StorageTemperature(storedKWh float64) float64 {
	if d.storageTemp == nil {
		return d.StorageMaxTempK
	}
	return d.storageTemp.Predict(storedKWh)
}

// Resolve derives the DesignState of cfg. ambientK is the temperature of the
// empty storage and loop at the start of the run.
func Resolve(cfg model.PlantConfig, ambientK float64) (DesignState, error) {
	cfg = cfg.WithDefaults()
	topo := cfg.Topology
	strat, ok := strategies[topo]
	if !ok {
		return DesignState{}, configErr(topo, "topology", "unknown integration topology")
	}
	info := topo.Info()

	if cfg.CollectorsPerLoop <= 0 || cfg.NumberOfLoops <= 0 {
		return DesignState{}, configErr(topo, "field", "need at least one loop of one collector, got %d×%d",
			cfg.NumberOfLoops, cfg.CollectorsPerLoop)
	}
	collector, err := optics.Lookup(cfg.Collector)
	if err != nil {
		return DesignState{}, configErr(topo, "collector", "%v", err)
	}
	if m := cfg.MeasuredIAM; m != nil {
		collector, err = collector.WithMeasuredIAM(m.ThetaDeg, m.Longitudinal, m.Transversal, m.Degree)
		if err != nil {
			return DesignState{}, configErr(topo, "measured_iam", "%v", err)
		}
	}
	props, err := fluid.For(cfg.FluidKind)
	if err != nil {
		return DesignState{}, configErr(topo, "fluid", "%v", err)
	}
	if info.Medium != model.MediumLiquid && cfg.FluidKind != model.FluidWater {
		return DesignState{}, configErr(topo, "fluid", "%s integration requires water, got %s", info.Medium, cfg.FluidKind)
	}
	if cfg.FluidKind == model.FluidWater && cfg.OperatingPressureMPa <= 0 {
		return DesignState{}, configErr(topo, "operating_pressure_mpa", "must be positive for water, got %v", cfg.OperatingPressureMPa)
	}
	if info.Storage && cfg.StorageVolumeLiters <= 0 {
		return DesignState{}, configErr(topo, "storage_volume_liters", "storage integration needs a positive volume")
	}
	if cfg.ProcessOutletTempC <= cfg.ProcessInletTempC {
		return DesignState{}, configErr(topo, "process_outlet_temp_c", "outlet %.1f °C is not above inlet %.1f °C",
			cfg.ProcessOutletTempC, cfg.ProcessInletTempC)
	}
	if cfg.HeatFactor <= 0 || cfg.HeatFactor > 1 {
		return DesignState{}, configErr(topo, "heat_factor", "must be in (0, 1], got %v", cfg.HeatFactor)
	}

	r := &resolver{
		cfg:      cfg,
		ambientK: ambientK,
		d: DesignState{
			Topology:         topo,
			FluidKind:        cfg.FluidKind,
			PressureMPa:      cfg.OperatingPressureMPa,
			SubcoolingK:      *cfg.SubcoolingK,
			TimestepHours:    cfg.TimestepHours,
			ProcessInletK:    model.CToK(cfg.ProcessInletTempC),
			ProcessOutletK:   model.CToK(cfg.ProcessOutletTempC),
			MakeUpWaterK:     model.CToK(*cfg.MakeUpWaterTempC),
			HXEffectiveness:  1,
			SensibleFraction: 1,
			Collectors:       cfg.Collectors(),
			FieldAreaM2:      float64(cfg.Collectors()) * collector.ApertureM2,
			props:            props,
		},
	}
	if cfg.FluidKind == model.FluidWater {
		r.d.SaturationTempK = fluid.SaturationTemperature(cfg.OperatingPressureMPa)
	}

	if r.d.ProcessOutletK <= props.MinLiquidTemp() {
		return DesignState{}, configErr(topo, "process_outlet_temp_c", "%.1f °C is below the freezing point of %s",
			cfg.ProcessOutletTempC, cfg.FluidKind)
	}
	if r.d.ProcessInletK < props.MinLiquidTemp() {
		return DesignState{}, configErr(topo, "process_inlet_temp_c", "%.1f °C is below the freezing point of %s",
			cfg.ProcessInletTempC, cfg.FluidKind)
	}

	if err := strat.design(r); err != nil {
		return DesignState{}, err
	}

	d := &r.d
	if d.OutletK <= d.InletK {
		return DesignState{}, configErr(topo, "", "field outlet %.1f K is not above inlet %.1f K after phase limits", d.OutletK, d.InletK)
	}

	mean := (d.InletK + d.OutletK) / 2
	d.FrTa, d.FrUL = collector.Effective(mean - ambientK)
	loopVolumeM3 := d.FieldAreaM2 * collector.LoopVolumeLPerM2 / 1000
	d.LoopMassKg = loopVolumeM3 * props.Density(d.PressureMPa, math.Min(mean, r.liquidMax()))
	d.Optics = optics.Model{
		Collector: collector,
		Geometry: optics.Geometry{
			TiltRad:    cfg.CollectorTiltDeg * math.Pi / 180,
			AzimuthRad: cfg.CollectorAzimuthDeg * math.Pi / 180,
			RollRad:    cfg.CollectorRollDeg * math.Pi / 180,
			Tracking:   cfg.Tracking || collector.Concentrating,
		},
	}

	log.Debugw("resolved design",
		"topology", topo,
		"inlet_k", d.InletK,
		"outlet_k", d.OutletK,
		"storage_max_kwh", d.StorageMaxKWh,
		"drum_max_kwh", d.DrumMaxKWh,
		"sensible_fraction", d.SensibleFraction,
	)
	return *d, nil
}

// resolver carries the working data of one Resolve call.
type resolver struct {
	cfg      model.PlantConfig
	ambientK float64
	d        DesignState
}

func (r *resolver) liquidMax() float64 {
	return r.d.props.MaxLiquidTemp(r.d.PressureMPa, r.d.SubcoolingK)
}

// clamp keeps a liquid temperature inside the phase limits of the fluid.
func (r *resolver) clamp(tK float64) float64 {
	t, clamped := fluid.ClampLiquid(r.d.props, tK, r.d.PressureMPa, r.d.SubcoolingK)
	if clamped {
		log.Debugw("liquid temperature clamped", "topology", r.d.Topology, "requested_k", tK, "clamped_k", t)
	}
	return t
}

func (r *resolver) enthalpy(tK float64) float64 {
	return r.d.props.Enthalpy(r.d.PressureMPa, tK)
}

// processEnthalpy is the specific enthalpy the process ultimately needs: the
// process outlet state, and at least saturated vapour for steam processes.
func (r *resolver) processEnthalpy() float64 {
	h := r.enthalpy(r.d.ProcessOutletK)
	if r.d.FluidKind == model.FluidWater && r.d.Topology.Info().Medium != model.MediumLiquid {
		h = math.Max(h, fluid.Water{}.SaturatedVapourEnthalpy(r.d.PressureMPa))
	}
	return h
}

// fraction returns the share of the process enthalpy rise, from fromK, that
// heating the stream up to toK covers.
func (r *resolver) fraction(fromK, toK float64) float64 {
	den := r.processEnthalpy() - r.enthalpy(fromK)
	if den <= 0 {
		return 0
	}
	f := (r.enthalpy(toK) - r.enthalpy(fromK)) / den
	return math.Max(0, math.Min(1, f))
}

// sensibleEnergy is the energy (kWh) of the tank volume at tK, measured
// from 0 °C.
func (r *resolver) sensibleEnergy(tK float64) float64 {
	p := r.d.PressureMPa
	return r.d.StorageVolumeM3 * r.d.props.Density(p, tK) * r.d.props.Enthalpy(p, tK) / 3600
}

// sizeStorage fills the tank quantities for a window [minK, maxK] of liquid
// temperatures, referenced to the ambient starting temperature.
func (r *resolver) sizeStorage(minK, maxK float64) error {
	d := &r.d
	d.StorageVolumeM3 = r.cfg.StorageVolumeLiters / 1000
	d.StorageMinTempK = r.clamp(minK)
	d.StorageMaxTempK = r.clamp(maxK)

	iniK := math.Min(r.ambientK, d.StorageMinTempK)
	iniK = math.Max(iniK, d.props.MinLiquidTemp()+1)
	if d.StorageMaxTempK-iniK < 1 {
		return configErr(d.Topology, "storage", "maximum storage temperature %.1f K leaves no window above ambient", d.StorageMaxTempK)
	}
	eIni := r.sensibleEnergy(iniK)
	eMin := r.sensibleEnergy(d.StorageMinTempK)
	eMax := r.sensibleEnergy(d.StorageMaxTempK)
	d.StorageMaxKWh = eMax - eIni
	d.StorageUsefulKWh = math.Max(0, eMax-eMin)
	d.StorageFloorKWh = math.Max(0, eMin-eIni)
	if tau := r.cfg.StorageTimeConstantHours; tau > 0 {
		d.StorageLossFraction = 1 - math.Exp(-d.TimestepHours/tau)
	}

	// Temperature as a function of stored energy, for reporting.
	const n = 16
	es := make([]float64, n)
	ts := make([]float64, n)
	for i := range n {
		t := iniK + (d.StorageMaxTempK-iniK)*float64(i)/(n-1)
		ts[i] = t
		es[i] = r.sensibleEnergy(t) - eIni
	}
	pl := &interp.PiecewiseLinear{}
	if err := pl.Fit(es, ts); err != nil {
		return configErr(d.Topology, "storage", "storage energy is not monotonic in temperature: %v", err)
	}
	d.storageTemp = pl
	return nil
}

// sizeDrum fills the steam drum quantities. The drum mass grows with the
// number of collectors in DrumGroupSize steps.
func (r *resolver) sizeDrum() {
	d := &r.d
	w := fluid.Water{}
	groups := d.Collectors / r.cfg.DrumGroupSize
	d.DrumMassKg = r.cfg.DrumMassPerGroupKg * float64(groups)

	energy := func(x float64) float64 {
		return d.DrumMassKg * w.EnthalpyQuality(d.PressureMPa, x) / 3600
	}
	d.DrumLimitKWh = energy(0)
	d.DrumMinKWh = energy(DrumQualityMin) - d.DrumLimitKWh
	d.DrumMaxKWh = energy(DrumQualityMax) - d.DrumLimitKWh
	d.DrumLossKWhPerHour = d.DrumMinKWh / r.cfg.DrumDecayHours
}
