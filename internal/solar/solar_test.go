package solar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipcal/internal/model"
)

const (
	greenwichLat = 51.48
	sevilleLat   = 37.39
	sevilleLon   = -5.98
)

func TestSunPosition_SolsticeNoon(t *testing.T) {
	p := SunPosition(time.Date(2023, time.June, 21, 12, 0, 0, 0, time.UTC), greenwichLat, 0)
	require.True(t, p.Up())
	assert.InDelta(t, 90-greenwichLat+23.44, p.Elevation.Deg(), 1.0)
	assert.InDelta(t, 180, p.Azimuth.Deg(), 3.0)
	assert.InDelta(t, 23.44, p.Declination.Deg(), 0.1)
	assert.InDelta(t, 1.016, p.DistanceAU, 0.002)
}

func TestSunPosition_MorningAndAfternoon(t *testing.T) {
	morning := SunPosition(time.Date(2023, time.March, 20, 8, 0, 0, 0, time.UTC), greenwichLat, 0)
	afternoon := SunPosition(time.Date(2023, time.March, 20, 16, 0, 0, 0, time.UTC), greenwichLat, 0)
	assert.Less(t, morning.Azimuth.Deg(), 180.0)
	assert.Greater(t, morning.Azimuth.Deg(), 90.0)
	assert.Greater(t, afternoon.Azimuth.Deg(), 180.0)
	assert.Less(t, afternoon.Azimuth.Deg(), 270.0)
	assert.InDelta(t, morning.Elevation.Deg(), afternoon.Elevation.Deg(), 3.0)
}

func TestSunPosition_Night(t *testing.T) {
	p := SunPosition(time.Date(2023, time.December, 21, 0, 0, 0, 0, time.UTC), greenwichLat, 0)
	assert.False(t, p.Up())
	assert.Zero(t, ClearBeam(p, 0, DefaultTurbidity))
}

func TestClearBeam(t *testing.T) {
	p := SunPosition(time.Date(2023, time.June, 21, 12, 0, 0, 0, time.UTC), sevilleLat, 0)
	dni := ClearBeam(p, 0, DefaultTurbidity)
	assert.Greater(t, dni, 700.0)
	assert.Less(t, dni, 1100.0)

	assert.Greater(t, ClearBeam(p, 2000, DefaultTurbidity), dni, "thinner air at altitude")
	assert.Less(t, ClearBeam(p, 0, 5), dni, "hazier sky")
}

func TestTimeOfHour(t *testing.T) {
	ts := TimeOfHour(2023, 12, 30)
	assert.Equal(t, time.Date(2023, time.January, 1, 10, 30, 0, 0, time.UTC), ts)
	ts = TimeOfHour(2023, 24*31, 0)
	assert.Equal(t, time.February, ts.Month())
}

func TestClearSkyYear(t *testing.T) {
	site := model.Site{Name: "Seville", LatitudeDeg: sevilleLat, LongitudeDeg: sevilleLon, Year: 2023}
	year := ClearSkyYear(site, ClimateOptions{})
	require.Len(t, year, model.HoursPerYear)

	for i, r := range year {
		assert.Equal(t, i, r.HourOfYear)
		if r.SunElevationRad <= 0 {
			assert.Zero(t, r.DNIWm2)
		}
		assert.Greater(t, r.MakeUpWaterTempK, model.ZeroCelsiusK)
	}

	june := 171*24 + 12
	december := 354*24 + 12
	assert.Zero(t, year[june-12].DNIWm2, "midnight")
	assert.Greater(t, year[june].SunElevationRad, year[december].SunElevationRad)
	assert.Greater(t, year[june].DNIWm2, 0.0)
	assert.Greater(t, year[june].AmbientTempK, year[december].AmbientTempK)
}

func TestClearSkyYear_SouthernSeasons(t *testing.T) {
	site := model.Site{LatitudeDeg: -33.9, LongitudeDeg: 151.2}
	year := ClearSkyYear(site, ClimateOptions{AmbientMeanC: 20})
	jan := 15*24 + 14
	jul := 196*24 + 14
	assert.Greater(t, year[jan].AmbientTempK, year[jul].AmbientTempK)
	assert.Greater(t, year[jan].SunElevationRad, year[jul].SunElevationRad)
}
