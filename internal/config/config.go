// Package config loads scenario files.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"shipcal/internal/demand"
	"shipcal/internal/ingest"
	"shipcal/internal/model"
	"shipcal/internal/shipcal"
	"shipcal/internal/solar"
)

// Meteo file formats.
const (
	MeteoNative = "native"
	MeteoTMY    = "tmy"
)

// Demand profile names.
const (
	ProfileContinuous = "continuous"
	ProfileTwoShift   = "two-shift"
)

// File is a scenario file.
//
//	site: {name: Seville, latitude_deg: 37.39, longitude_deg: -5.98}
//	plant: {topology: parallel-with-storage, collectors_per_loop: 4, ...}
//	cost: {fuel_price_per_kwh: 0.06, business_model: esco}
//	demand: {annual_kwh: 500000, profile: two-shift}
type File struct {
	Site    model.Site           `yaml:"site" json:"site"`
	Climate solar.ClimateOptions `yaml:"climate" json:"climate"`
	Plant   model.PlantConfig    `yaml:"plant" json:"plant"`
	Cost    model.CostModel      `yaml:"cost" json:"cost"`
	Demand  Demand               `yaml:"demand" json:"demand"`

	// MeteoCSV replaces the synthetic clear-sky year when set. Relative
	// paths are resolved against the scenario file.
	MeteoCSV    string `yaml:"meteo_csv" json:"meteo_csv,omitempty"`
	MeteoFormat string `yaml:"meteo_format" json:"meteo_format,omitempty"`

	dir string
}

// Demand describes the process load.
type Demand struct {
	AnnualKWh float64 `yaml:"annual_kwh" json:"annual_kwh"`
	Profile   string  `yaml:"profile" json:"profile"`
	// Hourly, when 24 values long, replaces the hourly weights of Profile.
	Hourly []float64 `yaml:"hourly" json:"hourly,omitempty"`
	CSV    string    `yaml:"csv" json:"csv,omitempty"`
}

// Load reads and validates the scenario at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.dir = filepath.Dir(path)
	return f, nil
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate normalises enum spellings and checks the sections that do not
// depend on the simulator. Plant physics is checked by the simulator.
func (f *File) Validate() error {
	t, err := model.ParseTopology(string(f.Plant.Topology))
	if err != nil {
		return err
	}
	f.Plant.Topology = t
	if f.Plant.FluidKind, err = model.ParseFluidKind(string(f.Plant.FluidKind)); err != nil {
		return err
	}
	if f.Cost.BusinessModel, err = model.ParseBusinessModel(string(f.Cost.BusinessModel)); err != nil {
		return err
	}

	switch f.MeteoFormat = strings.ToLower(f.MeteoFormat); f.MeteoFormat {
	case "":
		f.MeteoFormat = MeteoNative
	case MeteoNative, MeteoTMY:
	default:
		return fmt.Errorf("unknown meteo format %q", f.MeteoFormat)
	}

	if f.Demand.CSV == "" {
		if f.Demand.AnnualKWh <= 0 {
			return fmt.Errorf("demand: annual_kwh must be positive when no csv is given")
		}
		if _, err := f.Demand.profile(); err != nil {
			return err
		}
	}
	return nil
}

func (d Demand) profile() (demand.Profile, error) {
	var p demand.Profile
	switch strings.ToLower(d.Profile) {
	case "", ProfileContinuous:
		p = demand.Continuous()
	case ProfileTwoShift:
		p = demand.TwoShift()
	default:
		return p, fmt.Errorf("demand: unknown profile %q", d.Profile)
	}
	switch len(d.Hourly) {
	case 0:
	case 24:
		copy(p.Hourly[:], d.Hourly)
	default:
		return p, fmt.Errorf("demand: hourly needs 24 values, got %d", len(d.Hourly))
	}
	return p, nil
}

func (f *File) path(p string) string {
	if filepath.IsAbs(p) || f.dir == "" {
		return p
	}
	return filepath.Join(f.dir, p)
}

// Scenario materialises the meteo and demand series of f.
func (f *File) Scenario() (shipcal.Scenario, error) {
	sc := shipcal.Scenario{Plant: f.Plant, Cost: f.Cost}

	if f.MeteoCSV != "" {
		var p ingest.MeteoParser = ingest.NativeMeteoParser{}
		if f.MeteoFormat == MeteoTMY {
			p = ingest.TMYParser{}
		}
		recs, err := parseFile(f.path(f.MeteoCSV), p.Parse)
		if err != nil {
			return sc, fmt.Errorf("meteo: %w", err)
		}
		sc.Meteo = recs
	} else {
		sc.Meteo = solar.ClearSkyYear(f.Site, f.Climate)
	}

	if f.Demand.CSV != "" {
		recs, err := parseFile(f.path(f.Demand.CSV), ingest.CSVDemandParser{}.Parse)
		if err != nil {
			return sc, fmt.Errorf("demand: %w", err)
		}
		sc.Demand = recs
	} else {
		p, err := f.Demand.profile()
		if err != nil {
			return sc, err
		}
		recs, err := demand.Series(f.Demand.AnnualKWh, p, f.Site.Year)
		if err != nil {
			return sc, fmt.Errorf("demand: %w", err)
		}
		sc.Demand = recs[:min(len(recs), len(sc.Meteo))]
	}
	return sc, nil
}

func parseFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	fh, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer fh.Close()
	return parse(fh)
}
