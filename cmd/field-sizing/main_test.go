package main

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipcal/internal/config"
	"shipcal/internal/model"
	"shipcal/internal/sizing"
)

func TestParseLoops(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []int
		wantErr bool
	}{
		{"single", "4", []int{4}, false},
		{"sorted and deduplicated", "8, 2,4,2", []int{2, 4, 8}, false},
		{"trailing comma", "1,2,", []int{1, 2}, false},
		{"zero", "0,1", nil, true},
		{"negative", "-3", nil, true},
		{"not a number", "two", nil, true},
		{"empty", " , ", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLoops(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrintTable(t *testing.T) {
	f := &config.File{
		Site:  model.Site{Name: "Seville"},
		Plant: model.PlantConfig{Topology: model.TopologyParallel, CollectorsPerLoop: 4},
		Cost:  model.CostModel{BusinessModel: model.BusinessTurnkey},
	}
	res := sizing.Result{
		Candidates: []sizing.Candidate{
			{NumberOfLoops: 1, FieldAreaM2: 100, ProductionLimKWh: 0, LCOE: math.Inf(1), PaybackYear: -1, Degenerate: true},
			{NumberOfLoops: 2, FieldAreaM2: 200, ProductionLimKWh: 60000, LCOE: 0.041, PaybackYear: 7},
		},
		Best: 1,
	}

	var buf bytes.Buffer
	printTable(&buf, f, res)
	out := buf.String()
	assert.Contains(t, out, "Seville")
	assert.Contains(t, out, "never")
	assert.Contains(t, out, "0.0410")
	assert.Contains(t, out, "600", "marginal kWh per m2")
	assert.Contains(t, out, "lowest LCOE at 2 loops")
}

func TestPrintTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, &config.File{}, sizing.Result{Best: -1})
	assert.Empty(t, buf.String())
}
