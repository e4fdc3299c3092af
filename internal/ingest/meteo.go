package ingest

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"shipcal/internal/model"
)

// NativeMeteoParser reads the simulator's own SI format, as written by
// WriteOutputs for a []model.MeteoRecord.
//
//	hour_of_year,sun_elevation_rad,sun_azimuth_rad,dni_wm2,ambient_temp_k,make_up_water_temp_k
//	12,0.71,3.12,845.2,296.4,289.1
type NativeMeteoParser struct{}

func (NativeMeteoParser) Parse(r io.Reader) ([]model.MeteoRecord, error) {
	data, err := readAll(r, []string{"hour_of_year", "sun_elevation_rad", "sun_azimuth_rad", "dni_wm2", "ambient_temp_k"})
	if err != nil {
		return nil, err
	}
	var recs []model.MeteoRecord
	if err := gocsv.UnmarshalBytes(data, &recs); err != nil {
		return nil, fmt.Errorf("parsing meteo CSV: %w", err)
	}
	for i, rec := range recs {
		if err := validateMeteo(rec, i); err != nil {
			return nil, err
		}
	}
	if err := checkHours(len(recs), func(i int) int { return recs[i].HourOfYear }); err != nil {
		return nil, err
	}
	return recs, nil
}

// tmyRow is one line of a typical-meteorological-year export with angles in
// degrees and temperatures in °C.
type tmyRow struct {
	HourOfYear   int     `csv:"hour_of_year"`
	ElevationDeg float64 `csv:"sun_elevation_deg"`
	AzimuthDeg   float64 `csv:"sun_azimuth_deg"`
	DNI          float64 `csv:"dni_wm2"`
	TempAirC     float64 `csv:"temp_air_c"`
	MainsTempC   string  `csv:"mains_temp_c"` // optional
}

// TMYParser reads hourly exports in degrees and °C.
//
//	hour_of_year,sun_elevation_deg,sun_azimuth_deg,dni_wm2,temp_air_c,mains_temp_c
//	12,40.7,178.8,845.2,23.3,16.0
//
// mains_temp_c is optional.
type TMYParser struct{}

func (TMYParser) Parse(r io.Reader) ([]model.MeteoRecord, error) {
	data, err := readAll(r, []string{"hour_of_year", "sun_elevation_deg", "sun_azimuth_deg", "dni_wm2", "temp_air_c"})
	if err != nil {
		return nil, err
	}
	var rows []tmyRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing TMY CSV: %w", err)
	}

	recs := make([]model.MeteoRecord, len(rows))
	for i, row := range rows {
		rec := model.MeteoRecord{
			HourOfYear:      row.HourOfYear,
			SunElevationRad: row.ElevationDeg * math.Pi / 180,
			SunAzimuthRad:   row.AzimuthDeg * math.Pi / 180,
			DNIWm2:          row.DNI,
			AmbientTempK:    model.CToK(row.TempAirC),
		}
		if v := strings.TrimSpace(row.MainsTempC); v != "" {
			c, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: parsing mains_temp_c %q: %w", i+2, v, err)
			}
			rec.MakeUpWaterTempK = model.CToK(c)
		}
		if err := validateMeteo(rec, i); err != nil {
			return nil, err
		}
		recs[i] = rec
	}
	if err := checkHours(len(recs), func(i int) int { return recs[i].HourOfYear }); err != nil {
		return nil, err
	}
	return recs, nil
}

func validateMeteo(rec model.MeteoRecord, i int) error {
	if !finite(rec.SunElevationRad, rec.SunAzimuthRad, rec.DNIWm2, rec.AmbientTempK, rec.MakeUpWaterTempK) {
		return fmt.Errorf("row %d: non-finite value", i+2)
	}
	if rec.DNIWm2 < 0 {
		return fmt.Errorf("row %d: negative DNI %v", i+2, rec.DNIWm2)
	}
	if rec.AmbientTempK <= 0 {
		return fmt.Errorf("row %d: ambient temperature %v K", i+2, rec.AmbientTempK)
	}
	return nil
}
