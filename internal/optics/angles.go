package optics

import "math"

// Geometry orients a collector row. The collector axis is horizontal and
// perpendicular to AzimuthRad, the compass direction (clockwise from north)
// the unrolled aperture faces. Roll turns the aperture about the axis.
type Geometry struct {
	TiltRad    float64
	AzimuthRad float64
	RollRad    float64
	// Tracking replaces RollRad every hour with the angle that zeroes the
	// transversal incidence.
	Tracking bool
}

// Angles are the sun angles seen from the aperture.
type Angles struct {
	IncidenceRad    float64
	LongitudinalRad float64 // projected on the plane containing the axis and normal
	TransversalRad  float64 // projected on the plane perpendicular to the axis
	RollRad         float64 // applied roll, tracking included
	Visible         bool    // sun above horizon and in front of the aperture
}

type vec [3]float64

func (a vec) dot(b vec) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func (a vec) cross(b vec) vec {
	return vec{a[1]*b[2] - a[2]*b[1], a[2]*b[0] - a[0]*b[2], a[0]*b[1] - a[1]*b[0]}
}

func (a vec) scale(k float64) vec { return vec{a[0] * k, a[1] * k, a[2] * k} }

func (a vec) add(b vec) vec { return vec{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }

// sunVector is the unit vector to the sun in east-north-up coordinates.
func sunVector(elevationRad, azimuthRad float64) vec {
	ce := math.Cos(elevationRad)
	return vec{ce * math.Sin(azimuthRad), ce * math.Cos(azimuthRad), math.Sin(elevationRad)}
}

// Incidence computes the incidence angles for a sun at the given elevation
// and azimuth (clockwise from north).
func (g Geometry) Incidence(elevationRad, azimuthRad float64) Angles {
	s := sunVector(elevationRad, azimuthRad)
	sb, cb := math.Sincos(g.TiltRad)
	sg, cg := math.Sincos(g.AzimuthRad)
	n := vec{sb * sg, sb * cg, cb}
	axis := vec{cg, -sg, 0}
	trans := n.cross(axis)

	roll := g.RollRad
	if g.Tracking {
		roll = math.Atan2(-s.dot(trans), s.dot(n))
	}
	sr, cr := math.Sincos(roll)
	nr := n.scale(cr).add(trans.scale(-sr))
	tr := trans.scale(cr).add(n.scale(sr))

	sn, sl, st := s.dot(nr), s.dot(axis), s.dot(tr)
	a := Angles{
		IncidenceRad:    math.Acos(math.Max(-1, math.Min(1, sn))),
		LongitudinalRad: math.Atan2(sl, sn),
		TransversalRad:  math.Atan2(st, sn),
		RollRad:         roll,
	}
	a.Visible = elevationRad > 0 && sn > 0
	if g.Tracking {
		a.TransversalRad = 0
	}
	return a
}

// Model binds a collector to its field geometry.
type Model struct {
	Collector Collector
	Geometry  Geometry
}

// Modifier returns cos θ · K(θ) for the sun position, in [0, 1]. It is the
// factor applied to direct normal irradiance.
func (m Model) Modifier(elevationRad, azimuthRad float64) float64 {
	a := m.Geometry.Incidence(elevationRad, azimuthRad)
	if !a.Visible {
		return 0
	}
	return clamp01(math.Cos(a.IncidenceRad) * m.Collector.IAM.Factor(a))
}
