package annual

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"shipcal/internal/model"
	"shipcal/internal/simulator"
)

func TestAggregate(t *testing.T) {
	outs := []simulator.TimestepOutput{
		{HourOfYear: 0, Status: model.StatusOff, DemandKWh: 10, QStorageLossKWh: 0.5},
		{HourOfYear: 1, Status: model.StatusOn, DemandKWh: 10, QProdKWh: 30, QProdLimKWh: 10, QUsefulKWh: 10, QDefocusKWh: 5, QChargeKWh: 15},
		{HourOfYear: 2, Status: model.StatusRecirculating, DemandKWh: 10, QProdLimKWh: 10, QDischargeKWh: 10},
		{HourOfYear: 31 * 24, Status: model.StatusOn, DemandKWh: 10, QProdKWh: 6, QProdLimKWh: 6},
	}
	s := Aggregate(outs, 0.0002)

	assert.Equal(t, 4, s.Hours)
	assert.Equal(t, 2, s.HoursOn)
	assert.Equal(t, 1, s.HoursRecirculating)
	assert.InDelta(t, 36, s.ProductionMaxKWh, 1e-12)
	assert.InDelta(t, 26, s.ProductionLimKWh, 1e-12)
	assert.InDelta(t, 40, s.DemandKWh, 1e-12)
	assert.InDelta(t, 90, s.SolarFractionMax, 1e-9)
	assert.InDelta(t, 65, s.SolarFractionLim, 1e-9)
	assert.InDelta(t, 100*26.0/36.0, s.UtilizationRatio, 1e-9)
	assert.InDelta(t, 26*0.0002, s.TonCO2Saved, 1e-12)

	assert.InDelta(t, 30, s.Months[0].ProductionKWh, 1e-12)
	assert.InDelta(t, 6, s.Months[1].ProductionKWh, 1e-12)
	assert.InDelta(t, 60, s.Months[1].SolarFraction, 1e-9)
	assert.Equal(t, 11, s.Months[11].Month)

	assert.InDelta(t, 0.5, s.StorageLossKWh, 1e-12)
	assert.InDelta(t, 1.25, s.StorageCycles(10), 1e-12)
	assert.Zero(t, s.StorageCycles(0))
	assert.False(t, s.Degenerate())
}

func TestAggregate_ZeroDenominators(t *testing.T) {
	s := Aggregate([]simulator.TimestepOutput{{Status: model.StatusOff}}, 0.0002)
	assert.Zero(t, s.SolarFractionMax)
	assert.Zero(t, s.SolarFractionLim)
	assert.Zero(t, s.UtilizationRatio)
	assert.True(t, s.Degenerate())

	s = Aggregate(nil, 0)
	assert.Zero(t, s.Hours)
	assert.True(t, s.Degenerate())

	s = Aggregate([]simulator.TimestepOutput{{QProdKWh: math.NaN(), DemandKWh: 1}}, 0)
	assert.True(t, s.Degenerate())
}

func TestAggregate_LimitedNeverAboveMax(t *testing.T) {
	outs := make([]simulator.TimestepOutput, 48)
	for i := range outs {
		outs[i] = simulator.TimestepOutput{HourOfYear: i, DemandKWh: 5, QProdKWh: float64(i % 7), QProdLimKWh: math.Min(5, float64(i%7))}
	}
	s := Aggregate(outs, 0)
	assert.LessOrEqual(t, s.SolarFractionLim, s.SolarFractionMax)
}
