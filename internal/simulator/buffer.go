package simulator

import "math"

// buffer is a thermal store (sensible tank or steam drum) holding energy
// between zero and capacityKWh. Energy below floorKWh keeps the store at
// operating condition and is not handed to the process.
type buffer struct {
	capacityKWh  float64
	floorKWh     float64
	levelKWh     float64
	lossKWh      float64 // per idle timestep
	lossFraction float64 // of the level, per idle timestep, on top of lossKWh
}

func newBuffer(capacityKWh, floorKWh, lossKWh, levelKWh float64) *buffer {
	capacityKWh = math.Max(0, capacityKWh)
	floorKWh = math.Max(0, math.Min(floorKWh, capacityKWh))
	return &buffer{
		capacityKWh: capacityKWh,
		floorKWh:    floorKWh,
		levelKWh:    math.Max(0, math.Min(levelKWh, capacityKWh)),
		lossKWh:     math.Max(0, lossKWh),
	}
}

// fillToFloor charges up to the floor and returns the energy taken.
func (b *buffer) fillToFloor(kwh float64) float64 {
	room := b.floorKWh - b.levelKWh
	if room <= 0 || kwh <= 0 {
		return 0
	}
	e := math.Min(kwh, room)
	b.levelKWh += e
	return e
}

// charge stores up to kwh without exceeding capacity and returns the
// energy accepted.
func (b *buffer) charge(kwh float64) float64 {
	room := b.capacityKWh - b.levelKWh
	if room <= 0 || kwh <= 0 {
		return 0
	}
	e := math.Min(kwh, room)
	b.levelKWh += e
	return e
}

// discharge releases up to kwh from above the floor and returns the energy
// delivered.
func (b *buffer) discharge(kwh float64) float64 {
	avail := b.levelKWh - b.floorKWh
	if avail <= 0 || kwh <= 0 {
		return 0
	}
	e := math.Min(kwh, avail)
	b.levelKWh -= e
	return e
}

// decay applies one timestep of standing loss and returns the energy lost.
func (b *buffer) decay() float64 {
	e := math.Min(b.lossKWh+b.lossFraction*b.levelKWh, b.levelKWh)
	b.levelKWh -= e
	return e
}
