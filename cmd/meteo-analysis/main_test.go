package main

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipcal/internal/model"
	"shipcal/internal/solar"
)

func TestMonthly(t *testing.T) {
	recs := []model.MeteoRecord{
		{HourOfYear: 10, SunElevationRad: 0.5, DNIWm2: 800, AmbientTempK: 283.15, MakeUpWaterTempK: 285.15},
		{HourOfYear: 11, SunElevationRad: 0.6, DNIWm2: 100, AmbientTempK: 293.15},
		{HourOfYear: 22, SunElevationRad: -0.2, DNIWm2: 0, AmbientTempK: 273.15},
		{HourOfYear: 31 * 24, SunElevationRad: 0.4, DNIWm2: 500, AmbientTempK: 288.15},
	}
	months := monthly(recs, 120)

	jan := months[0]
	assert.Equal(t, 3, jan.Hours)
	assert.Equal(t, 1, jan.SunHours)
	assert.InDelta(t, 0.9, jan.DNIKWhM2, 1e-9)
	assert.InDelta(t, 800, jan.PeakDNI, 1e-9)
	assert.InDelta(t, 0, jan.AmbientMinC, 1e-9)
	assert.InDelta(t, 20, jan.AmbientMaxC, 1e-9)
	assert.InDelta(t, 10, jan.AmbientMeanC(), 1e-9)
	assert.InDelta(t, 12, jan.MainsMeanC(), 1e-9)

	assert.Equal(t, 1, months[1].Hours)
	assert.True(t, math.IsNaN(months[1].MainsMeanC()))
	assert.Zero(t, months[5].Hours)
}

func TestDNIHistogram(t *testing.T) {
	recs := []model.MeteoRecord{
		{SunElevationRad: 0.5, DNIWm2: 50},
		{SunElevationRad: 0.5, DNIWm2: 250},
		{SunElevationRad: 0.5, DNIWm2: 399},
		{SunElevationRad: -0.1, DNIWm2: 900},
	}
	assert.Equal(t, []int{1, 2}, dniHistogram(recs, 200))
	assert.Nil(t, dniHistogram(recs, 0))
	assert.Nil(t, dniHistogram(nil, 200))
}

func TestPrintMonthly_ClearSkyYear(t *testing.T) {
	recs := solar.ClearSkyYear(model.Site{LatitudeDeg: 37.4, LongitudeDeg: -6, Year: 2023}, solar.ClimateOptions{})
	require.Len(t, recs, model.HoursPerYear)

	months := monthly(recs, 120)
	assert.Greater(t, months[5].DNIKWhM2, months[11].DNIKWhM2, "June beats December in the north")

	var buf bytes.Buffer
	printMonthly(&buf, "test", months)
	printHistogram(&buf, dniHistogram(recs, 200), 200)
	out := buf.String()
	assert.Contains(t, out, "Source: test")
	assert.Contains(t, out, " Year │")
	assert.Contains(t, out, "Daylight DNI distribution")
}
