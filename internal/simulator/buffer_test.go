package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuffer_ClampsInitialLevel(t *testing.T) {
	b := newBuffer(100, 20, 0, 150)
	assert.InDelta(t, 100, b.levelKWh, 1e-12)

	b = newBuffer(100, 200, 0, -5)
	assert.InDelta(t, 0, b.levelKWh, 1e-12)
	assert.InDelta(t, 100, b.floorKWh, 1e-12, "floor never above capacity")
}

func TestBuffer_ChargeCeiling(t *testing.T) {
	b := newBuffer(100, 20, 0, 90)
	assert.InDelta(t, 10, b.charge(50), 1e-12)
	assert.InDelta(t, 100, b.levelKWh, 1e-12)
	assert.Equal(t, 0.0, b.charge(5))
	assert.Equal(t, 0.0, b.charge(-5))
}

func TestBuffer_DischargeStopsAtFloor(t *testing.T) {
	b := newBuffer(100, 20, 0, 50)
	assert.InDelta(t, 30, b.discharge(80), 1e-12)
	assert.InDelta(t, 20, b.levelKWh, 1e-12)
	assert.Equal(t, 0.0, b.discharge(10))
}

func TestBuffer_FillToFloor(t *testing.T) {
	b := newBuffer(100, 20, 0, 5)
	assert.InDelta(t, 15, b.fillToFloor(40), 1e-12)
	assert.InDelta(t, 20, b.levelKWh, 1e-12)
	assert.Equal(t, 0.0, b.fillToFloor(40), "already at floor")
}

func TestBuffer_Decay(t *testing.T) {
	b := newBuffer(100, 20, 8, 10)
	assert.InDelta(t, 8, b.decay(), 1e-12)
	assert.InDelta(t, 2, b.decay(), 1e-12)
	assert.Equal(t, 0.0, b.decay())
	assert.Equal(t, 0.0, b.levelKWh)
}

func TestBuffer_DecayProportional(t *testing.T) {
	b := newBuffer(100, 0, 0, 100)
	b.lossFraction = 0.1
	assert.InDelta(t, 10, b.decay(), 1e-12)
	assert.InDelta(t, 9, b.decay(), 1e-12)
	assert.InDelta(t, 81, b.levelKWh, 1e-12)
}
