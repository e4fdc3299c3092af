package model

// Default tuning values applied by PlantConfig.WithDefaults.
const (
	DefaultSubcoolingK         = 5.0
	DefaultHeatExchangerDeltaK = 5.0
	DefaultHeatFactor          = 0.9
	DefaultStorageDeltaK       = 30.0
	DefaultMakeUpWaterTempC    = 15.0
	DefaultTimestepHours       = 1.0

	// Steam-drum sizing heuristic: DrumMassPerGroupKg for every DrumGroupSize
	// collectors in the field. Empirical, kept overridable.
	DefaultDrumMassPerGroupKg = 200.0
	DefaultDrumGroupSize      = 4
	// Hours for a drum to decay from its minimum operating energy to its
	// limit energy with no solar input.
	DefaultDrumDecayHours = 48.0
	// Time constant of the storage tank cooling toward ambient while the
	// field is not producing.
	DefaultStorageTimeConstantHours = 240.0
)

// PlantConfig describes the solar field and its integration into the process.
type PlantConfig struct {
	Topology             Topology  `yaml:"topology" json:"topology"`
	CollectorsPerLoop    int       `yaml:"collectors_per_loop" json:"collectors_per_loop"`
	NumberOfLoops        int       `yaml:"number_of_loops" json:"number_of_loops"`
	StorageVolumeLiters  float64   `yaml:"storage_volume_liters" json:"storage_volume_liters"`
	OperatingPressureMPa float64   `yaml:"operating_pressure_mpa" json:"operating_pressure_mpa"`
	ProcessInletTempC    float64   `yaml:"process_inlet_temp_c" json:"process_inlet_temp_c"`
	ProcessOutletTempC   float64   `yaml:"process_outlet_temp_c" json:"process_outlet_temp_c"`
	FluidKind            FluidKind `yaml:"fluid" json:"fluid"`

	// Collector is a catalogue name from the optics package.
	Collector           string  `yaml:"collector" json:"collector"`
	CollectorTiltDeg    float64 `yaml:"collector_tilt_deg" json:"collector_tilt_deg"`
	CollectorAzimuthDeg float64 `yaml:"collector_azimuth_deg" json:"collector_azimuth_deg"`
	CollectorRollDeg    float64 `yaml:"collector_roll_deg" json:"collector_roll_deg"`
	// Tracking rotates the collector about its long axis every hour.
	Tracking bool `yaml:"tracking" json:"tracking"`

	// MeasuredIAM replaces the catalogue modifier curves of Collector.
	MeasuredIAM *IAMTable `yaml:"measured_iam,omitempty" json:"measured_iam,omitempty"`

	// SubcoolingK and MakeUpWaterTempC are pointers so that an explicit zero
	// is kept; nil takes the default.
	SubcoolingK         *float64 `yaml:"subcooling_k" json:"subcooling_k,omitempty"`
	HeatExchangerDeltaK float64  `yaml:"heat_exchanger_delta_k" json:"heat_exchanger_delta_k"`
	HeatFactor          float64  `yaml:"heat_factor" json:"heat_factor"`
	StorageDeltaK       float64  `yaml:"storage_delta_k" json:"storage_delta_k"`
	MakeUpWaterTempC    *float64 `yaml:"make_up_water_temp_c" json:"make_up_water_temp_c,omitempty"`
	DrumMassPerGroupKg  float64  `yaml:"drum_mass_per_group_kg" json:"drum_mass_per_group_kg"`
	DrumGroupSize       int      `yaml:"drum_group_size" json:"drum_group_size"`
	DrumDecayHours      float64  `yaml:"drum_decay_hours" json:"drum_decay_hours"`
	TimestepHours       float64  `yaml:"timestep_hours" json:"timestep_hours"`

	// StorageTimeConstantHours sets the standing loss of the tank: the
	// stored energy falls by 1/e over this many idle hours.
	StorageTimeConstantHours float64 `yaml:"storage_time_constant_hours" json:"storage_time_constant_hours"`
}

// WithDefaults returns a copy with zero-valued tuning fields replaced by defaults.
func (c PlantConfig) WithDefaults() PlantConfig {
	if c.FluidKind == "" {
		c.FluidKind = FluidWater
	}
	if c.SubcoolingK == nil {
		c.SubcoolingK = Float(DefaultSubcoolingK)
	}
	if c.HeatExchangerDeltaK == 0 {
		c.HeatExchangerDeltaK = DefaultHeatExchangerDeltaK
	}
	if c.HeatFactor == 0 {
		c.HeatFactor = DefaultHeatFactor
	}
	if c.StorageDeltaK == 0 {
		c.StorageDeltaK = DefaultStorageDeltaK
	}
	if c.MakeUpWaterTempC == nil {
		c.MakeUpWaterTempC = Float(DefaultMakeUpWaterTempC)
	}
	if c.DrumMassPerGroupKg == 0 {
		c.DrumMassPerGroupKg = DefaultDrumMassPerGroupKg
	}
	if c.DrumGroupSize == 0 {
		c.DrumGroupSize = DefaultDrumGroupSize
	}
	if c.DrumDecayHours == 0 {
		c.DrumDecayHours = DefaultDrumDecayHours
	}
	if c.StorageTimeConstantHours == 0 {
		c.StorageTimeConstantHours = DefaultStorageTimeConstantHours
	}
	if c.TimestepHours == 0 {
		c.TimestepHours = DefaultTimestepHours
	}
	return c
}

// IAMTable holds measured incidence angle modifier samples of a collector.
// Transversal samples, when present, make the modifier biaxial and share
// ThetaDeg with the longitudinal ones.
type IAMTable struct {
	ThetaDeg     []float64 `yaml:"theta_deg" json:"theta_deg"`
	Longitudinal []float64 `yaml:"longitudinal" json:"longitudinal"`
	Transversal  []float64 `yaml:"transversal,omitempty" json:"transversal,omitempty"`
	// Degree of the fitted polynomial, 3 when zero.
	Degree int `yaml:"degree,omitempty" json:"degree,omitempty"`
}

// Float returns a pointer to v, for the optional fields of PlantConfig.
func Float(v float64) *float64 { return &v }

// Collectors returns the total number of collector modules in the field.
func (c PlantConfig) Collectors() int {
	return c.CollectorsPerLoop * c.NumberOfLoops
}

// Default economic assumptions applied by CostModel.WithDefaults.
const (
	DefaultBoilerEfficiency      = 0.8
	DefaultSimulationYears       = 25
	DefaultOMCostPercent         = 2.0
	DefaultPriceReductionPercent = 10.0
)

// CostModel holds fuel prices, emission factors and plant cost assumptions.
type CostModel struct {
	FuelPricePerKWh       float64       `yaml:"fuel_price_per_kwh" json:"fuel_price_per_kwh"`
	CO2TonPrice           float64       `yaml:"co2_ton_price" json:"co2_ton_price"`
	CO2EmissionFactor     float64       `yaml:"co2_emission_factor" json:"co2_emission_factor"` // tCO2 per kWh of heat
	CostEscalationPercent float64       `yaml:"cost_escalation_percent" json:"cost_escalation_percent"`
	BusinessModel         BusinessModel `yaml:"business_model" json:"business_model"`
	SimulationYears       int           `yaml:"simulation_years" json:"simulation_years"`

	BoilerEfficiency      float64 `yaml:"boiler_efficiency" json:"boiler_efficiency"`
	CollectorCostPerM2    float64 `yaml:"collector_cost_per_m2" json:"collector_cost_per_m2"`
	StorageCostPerM3      float64 `yaml:"storage_cost_per_m3" json:"storage_cost_per_m3"`
	FixedCost             float64 `yaml:"fixed_cost" json:"fixed_cost"`
	OMCostPercent         float64 `yaml:"om_cost_percent" json:"om_cost_percent"` // of capital cost, per year
	PriceReductionPercent float64 `yaml:"price_reduction_percent" json:"price_reduction_percent"`
}

// WithDefaults returns a copy with zero-valued fields replaced by defaults.
func (c CostModel) WithDefaults() CostModel {
	if c.BusinessModel == "" {
		c.BusinessModel = BusinessTurnkey
	}
	if c.SimulationYears == 0 {
		c.SimulationYears = DefaultSimulationYears
	}
	if c.BoilerEfficiency == 0 {
		c.BoilerEfficiency = DefaultBoilerEfficiency
	}
	if c.OMCostPercent == 0 {
		c.OMCostPercent = DefaultOMCostPercent
	}
	if c.PriceReductionPercent == 0 {
		c.PriceReductionPercent = DefaultPriceReductionPercent
	}
	return c
}

// Site locates the plant for synthetic meteorological data.
type Site struct {
	Name         string  `yaml:"name" json:"name"`
	LatitudeDeg  float64 `yaml:"latitude_deg" json:"latitude_deg"`
	LongitudeDeg float64 `yaml:"longitude_deg" json:"longitude_deg"`
	AltitudeM    float64 `yaml:"altitude_m" json:"altitude_m"`
	Year         int     `yaml:"year" json:"year"`
}
