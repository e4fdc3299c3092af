// Package ingest reads hourly meteorological and demand series from CSV and
// writes simulation outputs back to CSV.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/gocarina/gocsv"

	"shipcal/internal/model"
)

// MeteoParser reads a meteorological series.
type MeteoParser interface {
	Parse(r io.Reader) ([]model.MeteoRecord, error)
}

// DemandParser reads a demand series.
type DemandParser interface {
	Parse(r io.Reader) ([]model.DemandRecord, error)
}

// readAll buffers r and checks that the header carries every required
// column.
func readAll(r io.Reader, required []string) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	if err := validateHeader(header, required); err != nil {
		return nil, err
	}
	return data, nil
}

func validateHeader(header, required []string) error {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[strings.TrimSpace(h)] = true
	}
	for _, col := range required {
		if !have[col] {
			return fmt.Errorf("missing column %q", col)
		}
	}
	return nil
}

// checkHours verifies that hour indices strictly increase.
func checkHours(n int, hour func(int) int) error {
	for i := 1; i < n; i++ {
		if hour(i) <= hour(i-1) {
			return fmt.Errorf("row %d: hour_of_year %d does not follow %d", i+2, hour(i), hour(i-1))
		}
	}
	return nil
}

// WriteOutputs writes rows as CSV with a header line.
func WriteOutputs[T any](w io.Writer, rows []T) error {
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
