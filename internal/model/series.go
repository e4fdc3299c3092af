package model

// ZeroCelsiusK is 0 °C in kelvin.
const ZeroCelsiusK = 273.15

// CToK converts degrees Celsius to kelvin.
func CToK(c float64) float64 { return c + ZeroCelsiusK }

// KToC converts kelvin to degrees Celsius.
func KToC(k float64) float64 { return k - ZeroCelsiusK }

// HoursPerYear is the length of a non-leap simulation year.
const HoursPerYear = 8760

// MeteoRecord is one hour of meteorological input.
type MeteoRecord struct {
	HourOfYear      int     `csv:"hour_of_year" json:"hour_of_year"`
	SunElevationRad float64 `csv:"sun_elevation_rad" json:"sun_elevation_rad"`
	SunAzimuthRad   float64 `csv:"sun_azimuth_rad" json:"sun_azimuth_rad"`
	DNIWm2          float64 `csv:"dni_wm2" json:"dni_wm2"`
	AmbientTempK    float64 `csv:"ambient_temp_k" json:"ambient_temp_k"`
	// MakeUpWaterTempK is the grid water temperature; zero means unknown.
	MakeUpWaterTempK float64 `csv:"make_up_water_temp_k" json:"make_up_water_temp_k"`
}

// DemandRecord is one hour of process heat demand.
type DemandRecord struct {
	HourOfYear int     `csv:"hour_of_year" json:"hour_of_year"`
	DemandKWh  float64 `csv:"demand_kwh" json:"demand_kwh"`
}

// TimestepInput joins the meteorological and demand records of one hour.
type TimestepInput struct {
	MeteoRecord
	DemandKWh float64
}

// Month returns the calendar month index (0-11) of an hour of a non-leap year.
func Month(hourOfYear int) int {
	day := (hourOfYear / 24) % 365
	if day < 0 {
		day += 365
	}
	for m := 0; m < 12; m++ {
		if day < cumulativeDays[m+1] {
			return m
		}
	}
	return 11
}

var cumulativeDays = [13]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334, 365}

// DaysInMonth returns the number of days of month m (0-11) in a non-leap year.
func DaysInMonth(m int) int {
	return cumulativeDays[m+1] - cumulativeDays[m]
}
