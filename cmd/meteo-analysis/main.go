package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gonum.org/v1/gonum/floats"

	"shipcal/internal/ingest"
	"shipcal/internal/log"
	"shipcal/internal/model"
	"shipcal/internal/solar"
)

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthStat summarises one calendar month of meteo data.
type MonthStat struct {
	Hours        int
	SunHours     int     // hours with the sun up and DNI above the threshold
	DNIKWhM2     float64 // beam irradiation
	PeakDNI      float64
	AmbientSumC  float64
	AmbientMinC  float64
	AmbientMaxC  float64
	MainsSumC    float64
	MainsSamples int
}

func (m MonthStat) AmbientMeanC() float64 {
	if m.Hours == 0 {
		return 0
	}
	return m.AmbientSumC / float64(m.Hours)
}

func (m MonthStat) MainsMeanC() float64 {
	if m.MainsSamples == 0 {
		return math.NaN()
	}
	return m.MainsSumC / float64(m.MainsSamples)
}

func main() {
	meteoPath := pflag.String("meteo", "", "meteo CSV to analyse; a clear-sky year is synthesised when empty")
	format := pflag.String("format", "native", "meteo CSV format: native or tmy")
	lat := pflag.Float64("lat", 37.39, "site latitude for the synthetic year")
	lon := pflag.Float64("lon", -5.98, "site longitude for the synthetic year")
	alt := pflag.Float64("alt", 0, "site altitude in m")
	year := pflag.Int("year", 2023, "calendar year of the synthetic data")
	minDNI := pflag.Float64("min-dni", 120, "DNI in W/m2 above which an hour counts as sunny")
	bucket := pflag.Float64("dni-bucket", 200, "DNI histogram bucket width in W/m2")
	export := pflag.String("export", "", "write the analysed series as a native meteo CSV")
	pflag.Parse()

	if err := log.Init(false); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	var recs []model.MeteoRecord
	source := "clear-sky synthetic"
	if *meteoPath != "" {
		var err error
		if recs, err = load(*meteoPath, *format); err != nil {
			log.Fatalf("%v", err)
		}
		source = *meteoPath
	} else {
		site := model.Site{LatitudeDeg: *lat, LongitudeDeg: *lon, AltitudeM: *alt, Year: *year}
		recs = solar.ClearSkyYear(site, solar.ClimateOptions{})
	}
	if len(recs) == 0 {
		log.Fatalf("No meteo records")
	}

	if *export != "" {
		f, err := os.Create(*export)
		if err != nil {
			log.Fatalf("Creating %s: %v", *export, err)
		}
		if err := ingest.WriteOutputs(f, recs); err != nil {
			f.Close()
			log.Fatalf("Writing %s: %v", *export, err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("Closing %s: %v", *export, err)
		}
		log.Infof("Wrote %d hours to %s", len(recs), *export)
	}

	months := monthly(recs, *minDNI)
	printMonthly(os.Stdout, source, months)
	printHistogram(os.Stdout, dniHistogram(recs, *bucket), *bucket)
}

func load(path, format string) ([]model.MeteoRecord, error) {
	var p ingest.MeteoParser
	switch strings.ToLower(format) {
	case "native", "":
		p = ingest.NativeMeteoParser{}
	case "tmy":
		p = ingest.TMYParser{}
	default:
		return nil, fmt.Errorf("unknown meteo format %q", format)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	recs, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return recs, nil
}

func monthly(recs []model.MeteoRecord, minDNI float64) [12]MonthStat {
	var out [12]MonthStat
	for i := range out {
		out[i].AmbientMinC = math.Inf(1)
		out[i].AmbientMaxC = math.Inf(-1)
	}
	for _, r := range recs {
		m := &out[model.Month(r.HourOfYear)]
		m.Hours++
		tC := model.KToC(r.AmbientTempK)
		m.AmbientSumC += tC
		m.AmbientMinC = math.Min(m.AmbientMinC, tC)
		m.AmbientMaxC = math.Max(m.AmbientMaxC, tC)
		if r.MakeUpWaterTempK > 0 {
			m.MainsSumC += model.KToC(r.MakeUpWaterTempK)
			m.MainsSamples++
		}
		if r.SunElevationRad <= 0 {
			continue
		}
		m.DNIKWhM2 += r.DNIWm2 / 1000
		m.PeakDNI = math.Max(m.PeakDNI, r.DNIWm2)
		if r.DNIWm2 > minDNI {
			m.SunHours++
		}
	}
	return out
}

// dniHistogram counts daylight hours per DNI bucket.
func dniHistogram(recs []model.MeteoRecord, width float64) []int {
	if width <= 0 {
		return nil
	}
	dni := make([]float64, 0, len(recs))
	for _, r := range recs {
		if r.SunElevationRad > 0 && r.DNIWm2 > 0 {
			dni = append(dni, r.DNIWm2)
		}
	}
	if len(dni) == 0 {
		return nil
	}
	counts := make([]int, int(floats.Max(dni)/width)+1)
	for _, v := range dni {
		counts[int(v/width)]++
	}
	return counts
}

func printMonthly(w io.Writer, source string, months [12]MonthStat) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Meteo Summary")
	fmt.Fprintf(w, "  Source: %s\n", source)
	fmt.Fprintln(w)

	fmt.Fprintf(w, " %5s │ %13s │ %8s │ %9s │ %20s │ %7s\n",
		"Month", "Beam", "Sun h", "Peak DNI", "Ambient min/avg/max", "Mains")
	fmt.Fprintf(w, "───────┼───────────────┼──────────┼───────────┼──────────────────────┼─────────\n")

	var dni float64
	var sun int
	for i, m := range months {
		if m.Hours == 0 {
			continue
		}
		mains := "-"
		if v := m.MainsMeanC(); !math.IsNaN(v) {
			mains = fmt.Sprintf("%5.1f C", v)
		}
		fmt.Fprintf(w, " %5s │ %7.1f kWh/m2 │ %8d │ %5.0f W/m2 │ %5.1f / %5.1f / %5.1f │ %7s\n",
			monthNames[i], m.DNIKWhM2, m.SunHours, m.PeakDNI,
			m.AmbientMinC, m.AmbientMeanC(), m.AmbientMaxC, mains)
		dni += m.DNIKWhM2
		sun += m.SunHours
	}
	fmt.Fprintf(w, "───────┼───────────────┼──────────┼───────────┼──────────────────────┼─────────\n")
	fmt.Fprintf(w, " %5s │ %7.0f kWh/m2 │ %8d │\n", "Year", dni, sun)
	fmt.Fprintln(w)
}

func printHistogram(w io.Writer, counts []int, width float64) {
	if len(counts) == 0 {
		return
	}
	maxCount := 0
	for _, c := range counts {
		maxCount = max(maxCount, c)
	}
	fmt.Fprintln(w, "Daylight DNI distribution")
	for i, c := range counts {
		bar := 0
		if maxCount > 0 {
			bar = c * 40 / maxCount
		}
		fmt.Fprintf(w, "  %4.0f-%4.0f W/m2 │ %5d │ %s\n", float64(i)*width, float64(i+1)*width, c, strings.Repeat("█", bar))
	}
	fmt.Fprintln(w)
}
