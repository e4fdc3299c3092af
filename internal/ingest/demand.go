package ingest

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"shipcal/internal/model"
)

// CSVDemandParser reads hourly demand.
//
//	hour_of_year,demand_kwh
//	0,41.5
type CSVDemandParser struct{}

func (CSVDemandParser) Parse(r io.Reader) ([]model.DemandRecord, error) {
	data, err := readAll(r, []string{"hour_of_year", "demand_kwh"})
	if err != nil {
		return nil, err
	}
	var recs []model.DemandRecord
	if err := gocsv.UnmarshalBytes(data, &recs); err != nil {
		return nil, fmt.Errorf("parsing demand CSV: %w", err)
	}
	for i, rec := range recs {
		if !finite(rec.DemandKWh) || rec.DemandKWh < 0 {
			return nil, fmt.Errorf("row %d: invalid demand %v kWh", i+2, rec.DemandKWh)
		}
	}
	if err := checkHours(len(recs), func(i int) int { return recs[i].HourOfYear }); err != nil {
		return nil, err
	}
	return recs, nil
}
