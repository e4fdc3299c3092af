// Package solar computes sun positions and synthesises clear-sky
// meteorological years.
package solar

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/unit"
)

const j2000 = 2451545.0

// Position is the apparent position of the sun seen from a site.
type Position struct {
	Elevation   unit.Angle // above the horizon, refraction included
	Azimuth     unit.Angle // clockwise from north
	Declination unit.Angle
	EqOfTimeMin float64
	DistanceAU  float64
	CosZenith   float64
}

// Up reports whether the sun is above the horizon.
func (p Position) Up() bool { return p.Elevation > 0 }

// SunPosition returns the sun position at t for a site at latDeg, lonDeg
// (east positive).
func SunPosition(t time.Time, latDeg, lonDeg float64) Position {
	t = t.UTC()
	T := (julian.TimeToJD(t) - j2000) / 36525

	L0 := unit.AngleFromDeg(280.46646 + T*(36000.76983+T*0.0003032)).Mod1()
	M := unit.AngleFromDeg(357.52911 + T*(35999.05029-T*0.0001537)).Mod1()
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)
	C := unit.AngleFromDeg(M.Sin()*(1.914602-T*(0.004817+T*0.000014)) +
		M.Mul(2).Sin()*(0.019993-T*0.000101) +
		M.Mul(3).Sin()*0.000289)
	omega := unit.AngleFromDeg(125.04 - 1934.136*T)
	lambda := L0 + C - unit.AngleFromDeg(0.00569+0.00478*omega.Sin())
	eps0 := unit.AngleFromDeg(23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60)
	decl := unit.Angle(math.Asin(eps0.Sin() * lambda.Sin()))

	y := eps0.Div(2).Tan() * eps0.Div(2).Tan()
	eqTime := unit.Angle(y*L0.Mul(2).Sin() -
		2*e*M.Sin() +
		4*e*y*M.Sin()*L0.Mul(2).Cos() -
		0.5*y*y*L0.Mul(4).Sin() -
		1.25*e*e*M.Mul(2).Sin()).Deg() * 4

	utcMin := float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60
	trueSolarMin := utcMin + 4*lonDeg + eqTime
	ha := unit.AngleFromDeg(trueSolarMin/4 - 180)

	lat := unit.AngleFromDeg(latDeg)
	cosZen := lat.Sin()*decl.Sin() + lat.Cos()*decl.Cos()*ha.Cos()
	cosZen = math.Max(-1, math.Min(1, cosZen))
	zen := unit.Angle(math.Acos(cosZen))
	elev := unit.AngleFromDeg(90-zen.Deg()) + refraction(90-zen.Deg())

	var az unit.Angle
	if s := lat.Cos() * zen.Sin(); s > 1e-12 {
		c := (decl.Sin() - lat.Sin()*cosZen) / s
		az = unit.Angle(math.Acos(math.Max(-1, math.Min(1, c))))
		if math.Sin(ha.Rad()) > 0 {
			az = unit.AngleFromDeg(360) - az
		}
	}

	ecc := 0.016708617 - T*(0.000042037+T*0.0000001236)
	E := M.Rad() + ecc*M.Sin()*(1+ecc*M.Cos())
	v := 2 * math.Atan(math.Sqrt((1+ecc)/(1-ecc))*math.Tan(E/2))

	return Position{
		Elevation:   elev,
		Azimuth:     az,
		Declination: decl,
		EqOfTimeMin: eqTime,
		DistanceAU:  (1 - ecc*ecc) / (1 + ecc*math.Cos(v)),
		CosZenith:   cosZen,
	}
}

// refraction is a constant half-degree lift applied only near and above
// the horizon.
func refraction(elevDeg float64) unit.Angle {
	if elevDeg < -1 {
		return 0
	}
	return unit.AngleFromDeg(0.5667)
}
