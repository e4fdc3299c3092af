// Package optics describes solar collectors: their efficiency curves,
// incidence angle modifiers and the sun-to-collector geometry.
package optics

import (
	"fmt"
	"sort"
	"strings"
)

// Kind groups collectors by construction.
type Kind string

const (
	KindFlatPlate       Kind = "flat_plate"
	KindEvacuatedTube   Kind = "evacuated_tube"
	KindParabolicTrough Kind = "parabolic_trough"
	KindLinearFresnel   Kind = "linear_fresnel"
)

// Collector is one collector module. Efficiency follows the quadratic
// test curve eta = Eta0·K(θ) - A1·ΔT/G - A2·ΔT²/G on the aperture area.
type Collector struct {
	Name       string
	Kind       Kind
	Eta0       float64 // F_R(τα) at normal incidence
	A1         float64 // W/(m²·K)
	A2         float64 // W/(m²·K²)
	ApertureM2 float64 // per module
	// LoopVolumeLPerM2 is the fluid held in receivers and piping per m² of aperture.
	LoopVolumeLPerM2 float64
	IAM              IAM
	// Concentrating collectors only use the direct beam and track by default.
	Concentrating bool
}

// DefaultCollector is used when a plant names no collector.
const DefaultCollector = "parabolic-trough"

var catalogue = map[string]Collector{
	"flat-plate": {
		Name: "flat-plate", Kind: KindFlatPlate,
		Eta0: 0.78, A1: 3.5, A2: 0.015, ApertureM2: 2.5,
		LoopVolumeLPerM2: 1.5,
		IAM:              IAM{Longitudinal: Curve{B0: 0.1}},
	},
	"evacuated-tube": {
		Name: "evacuated-tube", Kind: KindEvacuatedTube,
		Eta0: 0.65, A1: 0.9, A2: 0.005, ApertureM2: 3.0,
		LoopVolumeLPerM2: 1.0,
		IAM: IAM{
			Biaxial:      true,
			Longitudinal: Curve{B0: 0.1},
			Transversal:  Curve{B0: 0.05},
		},
	},
	"parabolic-trough": {
		Name: "parabolic-trough", Kind: KindParabolicTrough,
		Eta0: 0.689, A1: 0.36, A2: 0.0011, ApertureM2: 18.5,
		LoopVolumeLPerM2: 0.6,
		IAM: IAM{Longitudinal: Curve{
			Poly: []float64{-2.23073e-4, -1.1e-4, 3.18596e-6, -4.85509e-8},
		}},
		Concentrating: true,
	},
	"linear-fresnel": {
		Name: "linear-fresnel", Kind: KindLinearFresnel,
		Eta0: 0.64, A1: 0.0, A2: 0.00043, ApertureM2: 22.0,
		LoopVolumeLPerM2: 0.5,
		IAM: IAM{
			Biaxial:      true,
			Longitudinal: Curve{Poly: []float64{-0.0020, -5.0e-5}},
			Transversal:  Curve{Poly: []float64{-0.0010, -2.0e-5}},
		},
		Concentrating: true,
	},
}

// Lookup returns the catalogue entry called name (case-insensitive). The
// empty name selects DefaultCollector.
func Lookup(name string) (Collector, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultCollector
	}
	c, ok := catalogue[name]
	if !ok {
		return Collector{}, fmt.Errorf("unknown collector %q", name)
	}
	return c, nil
}

// Names lists the catalogue in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(catalogue))
	for n := range catalogue {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Effective returns the linearised (F_Rta, F_RU_L) pair for a field whose
// mean fluid temperature sits deltaK above ambient. F_RU_L is in W/(m²·K).
func (c Collector) Effective(deltaK float64) (frTa, frUL float64) {
	if deltaK < 0 {
		deltaK = 0
	}
	return c.Eta0, c.A1 + c.A2*deltaK
}

// Efficiency evaluates the collector curve for irradiance gWm2 on the
// aperture, ambient difference deltaK and modifier iam. Never negative.
func (c Collector) Efficiency(gWm2, deltaK, iam float64) float64 {
	if gWm2 <= 0 {
		return 0
	}
	eta := c.Eta0*iam - c.A1*deltaK/gWm2 - c.A2*deltaK*deltaK/gWm2
	if eta < 0 {
		return 0
	}
	return eta
}
