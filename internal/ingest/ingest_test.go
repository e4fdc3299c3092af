package ingest

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipcal/internal/model"
	"shipcal/internal/simulator"
)

func TestNativeMeteoParser_Parse(t *testing.T) {
	input := `hour_of_year,sun_elevation_rad,sun_azimuth_rad,dni_wm2,ambient_temp_k,make_up_water_temp_k
0,-0.5,0.1,0,285.2,288.0
12,0.71,3.12,845.2,296.4,289.1`

	recs, err := NativeMeteoParser{}.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 12, recs[1].HourOfYear)
	assert.InDelta(t, 0.71, recs[1].SunElevationRad, 1e-12)
	assert.InDelta(t, 845.2, recs[1].DNIWm2, 1e-12)
	assert.InDelta(t, 289.1, recs[1].MakeUpWaterTempK, 1e-12)
}

func TestNativeMeteoParser_RoundTrip(t *testing.T) {
	in := []model.MeteoRecord{
		{HourOfYear: 0, AmbientTempK: 280},
		{HourOfYear: 1, SunElevationRad: 0.2, SunAzimuthRad: 2, DNIWm2: 300, AmbientTempK: 282, MakeUpWaterTempK: 285},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteOutputs(&buf, in))
	out, err := NativeMeteoParser{}.Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestTMYParser_Parse(t *testing.T) {
	input := `hour_of_year,sun_elevation_deg,sun_azimuth_deg,dni_wm2,temp_air_c,mains_temp_c
11,30,150,600,20,
12,45,180,845.2,23.3,16`

	recs, err := TMYParser{}.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.InDelta(t, math.Pi/4, recs[1].SunElevationRad, 1e-12)
	assert.InDelta(t, math.Pi, recs[1].SunAzimuthRad, 1e-12)
	assert.InDelta(t, 296.45, recs[1].AmbientTempK, 1e-9)
	assert.InDelta(t, 289.15, recs[1].MakeUpWaterTempK, 1e-9)
	assert.Zero(t, recs[0].MakeUpWaterTempK)
}

func TestTMYParser_WithoutMainsColumn(t *testing.T) {
	input := `hour_of_year,sun_elevation_deg,sun_azimuth_deg,dni_wm2,temp_air_c
5,10,100,200,12`
	recs, err := TMYParser{}.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Zero(t, recs[0].MakeUpWaterTempK)
}

func TestMeteoParser_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"missing column", "hour_of_year,sun_elevation_rad,dni_wm2,ambient_temp_k\n0,0,0,280", "sun_azimuth_rad"},
		{"empty", "", "header"},
		{"unordered", "hour_of_year,sun_elevation_rad,sun_azimuth_rad,dni_wm2,ambient_temp_k\n3,0,0,0,280\n2,0,0,0,280", "does not follow"},
		{"negative dni", "hour_of_year,sun_elevation_rad,sun_azimuth_rad,dni_wm2,ambient_temp_k\n0,0,0,-5,280", "negative DNI"},
		{"not a number", "hour_of_year,sun_elevation_rad,sun_azimuth_rad,dni_wm2,ambient_temp_k\n0,0,0,NaN,280", "non-finite"},
		{"zero kelvin", "hour_of_year,sun_elevation_rad,sun_azimuth_rad,dni_wm2,ambient_temp_k\n0,0,0,0,0", "ambient"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NativeMeteoParser{}.Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCSVDemandParser_Parse(t *testing.T) {
	input := `hour_of_year,demand_kwh
0,41.5
1,0
2,12.25`
	recs, err := CSVDemandParser{}.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.InDelta(t, 12.25, recs[2].DemandKWh, 1e-12)

	_, err = CSVDemandParser{}.Parse(strings.NewReader("hour_of_year,demand_kwh\n0,-1"))
	assert.Error(t, err)
	_, err = CSVDemandParser{}.Parse(strings.NewReader("hour,kwh\n0,1"))
	assert.ErrorContains(t, err, "hour_of_year")
}

func TestWriteOutputs(t *testing.T) {
	outs := []simulator.TimestepOutput{
		{HourOfYear: 0, Status: model.StatusOff},
		{HourOfYear: 1, Status: model.StatusOn, QProdKWh: 12.5, QProdLimKWh: 10},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteOutputs(&buf, outs))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "hour_of_year,status,iam,"))
	assert.Contains(t, lines[0], "q_prod_lim_kwh")
	assert.Contains(t, lines[2], "ON")
	assert.Contains(t, lines[2], "12.5")
}
