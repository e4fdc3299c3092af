package solar

import (
	"math"
	"time"

	"shipcal/internal/model"
)

const solarConstant = 1367.0 // W/m²

// Defaults for ClimateOptions.
const (
	DefaultTurbidity         = 2.5
	DefaultAmbientMeanC      = 18.0
	DefaultSeasonalSwingC    = 8.0
	DefaultDailySwingC       = 5.0
	DefaultMainsMeanC        = 15.0
	DefaultMainsSeasonSwingC = 5.0
)

// ClimateOptions shape the synthetic year.
type ClimateOptions struct {
	// Turbidity is the Bras atmospheric factor, 2 for very clear to 5 for
	// hazy skies.
	Turbidity         float64 `yaml:"turbidity" json:"turbidity"`
	AmbientMeanC      float64 `yaml:"ambient_mean_c" json:"ambient_mean_c"`
	SeasonalSwingC    float64 `yaml:"seasonal_swing_c" json:"seasonal_swing_c"`
	DailySwingC       float64 `yaml:"daily_swing_c" json:"daily_swing_c"`
	MainsMeanC        float64 `yaml:"mains_mean_c" json:"mains_mean_c"`
	MainsSeasonSwingC float64 `yaml:"mains_season_swing_c" json:"mains_season_swing_c"`
}

func (o ClimateOptions) withDefaults() ClimateOptions {
	if o.Turbidity == 0 {
		o.Turbidity = DefaultTurbidity
	}
	if o.AmbientMeanC == 0 {
		o.AmbientMeanC = DefaultAmbientMeanC
	}
	if o.SeasonalSwingC == 0 {
		o.SeasonalSwingC = DefaultSeasonalSwingC
	}
	if o.DailySwingC == 0 {
		o.DailySwingC = DefaultDailySwingC
	}
	if o.MainsMeanC == 0 {
		o.MainsMeanC = DefaultMainsMeanC
	}
	if o.MainsSeasonSwingC == 0 {
		o.MainsSeasonSwingC = DefaultMainsSeasonSwingC
	}
	return o
}

// ClearBeam returns the clear-sky direct normal irradiance (W/m²) for a
// sun position, following the Bras attenuation model.
func ClearBeam(p Position, altitudeM, turbidity float64) float64 {
	if !p.Up() || p.CosZenith <= 0 {
		return 0
	}
	elevDeg := p.Elevation.Deg()
	m := 1 / (p.CosZenith + 0.15*math.Pow(elevDeg+3.885, -1.253))
	m *= math.Exp(-altitudeM / 8434.5)
	a1 := 0.128 - 0.054*math.Log10(m)
	i0 := solarConstant / (p.DistanceAU * p.DistanceAU)
	return math.Max(0, i0*math.Exp(-turbidity*a1*m))
}

// TimeOfHour returns the UTC instant at the middle of hourOfYear, counted
// in local standard time at lonDeg.
func TimeOfHour(year, hourOfYear int, lonDeg float64) time.Time {
	offset := time.Duration(math.Round(lonDeg/15)) * time.Hour
	start := time.Date(year, time.January, 1, 0, 30, 0, 0, time.UTC)
	return start.Add(time.Duration(hourOfYear)*time.Hour - offset)
}

// ClearSkyYear synthesises model.HoursPerYear hours of meteorological data
// for site: clear-sky beam, a sinusoidal ambient temperature with seasonal
// and daily swings, and a lagging mains-water temperature.
func ClearSkyYear(site model.Site, opt ClimateOptions) []model.MeteoRecord {
	opt = opt.withDefaults()
	year := site.Year
	if year == 0 {
		year = 2023
	}
	// Warmest day of the year, shifted half a year south of the equator.
	peakDay := 200.0
	if site.LatitudeDeg < 0 {
		peakDay -= 182.5
	}

	out := make([]model.MeteoRecord, model.HoursPerYear)
	for h := range out {
		day := float64(h / 24)
		localHour := float64(h%24) + 0.5
		pos := SunPosition(TimeOfHour(year, h, site.LongitudeDeg), site.LatitudeDeg, site.LongitudeDeg)

		season := math.Cos(2 * math.Pi * (day - peakDay) / 365)
		daily := math.Cos(2 * math.Pi * (localHour - 15) / 24)
		mains := math.Cos(2 * math.Pi * (day - peakDay - 30) / 365)

		rec := model.MeteoRecord{
			HourOfYear:       h,
			AmbientTempK:     model.CToK(opt.AmbientMeanC + opt.SeasonalSwingC*season + opt.DailySwingC*daily),
			MakeUpWaterTempK: model.CToK(opt.MainsMeanC + opt.MainsSeasonSwingC*mains),
		}
		if pos.Up() {
			rec.SunElevationRad = pos.Elevation.Rad()
			rec.SunAzimuthRad = pos.Azimuth.Rad()
			rec.DNIWm2 = ClearBeam(pos, site.AltitudeM, opt.Turbidity)
		}
		out[h] = rec
	}
	return out
}
