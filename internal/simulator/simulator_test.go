package simulator

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipcal/internal/model"
)

const eps = 1e-6

type mockCallback struct {
	mu       sync.Mutex
	progress []Progress
}

func (m *mockCallback) OnProgress(p Progress) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress = append(m.progress, p)
}

func (m *mockCallback) all() []Progress {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]Progress, len(m.progress))
	copy(cp, m.progress)
	return cp
}

type constOptics float64

func (c constOptics) Modifier(_, _ float64) float64 { return float64(c) }

// clearDays builds n hours of a repeating clear day: sun from 06:00 to
// 18:00 peaking at 60° elevation and 900 W/m².
func clearDays(n int, demandKWh float64) []model.TimestepInput {
	out := make([]model.TimestepInput, n)
	for i := range out {
		h := float64(i % 24)
		in := model.TimestepInput{DemandKWh: demandKWh}
		in.HourOfYear = i
		in.AmbientTempK = 295
		if h > 6 && h < 18 {
			s := math.Sin(math.Pi * (h - 6) / 12)
			in.SunElevationRad = s * 60 * math.Pi / 180
			in.SunAzimuthRad = (90 + 180*(h-6)/12) * math.Pi / 180
			in.DNIWm2 = 900 * s
		}
		out[i] = in
	}
	return out
}

func newSim(t *testing.T, cfg model.PlantConfig, cb Callback) *Simulator {
	t.Helper()
	d, err := Resolve(cfg, ambientK)
	require.NoError(t, err)
	s, err := New(d, cb)
	require.NoError(t, err)
	return s
}

func TestNew_RejectsUnresolvedDesign(t *testing.T) {
	_, err := New(DesignState{Topology: model.TopologyParallel}, nil)
	assert.Error(t, err)
}

func TestStep_SingleHourBoundary(t *testing.T) {
	cfg := model.PlantConfig{
		Topology:             model.TopologyParallel,
		CollectorsPerLoop:    4,
		NumberOfLoops:        2,
		OperatingPressureMPa: 3.0,
		ProcessInletTempC:    20,
		ProcessOutletTempC:   235,
	}
	s := newSim(t, cfg, nil)
	in := model.TimestepInput{DemandKWh: 500}
	in.DNIWm2 = 1000
	in.SunElevationRad = math.Pi / 4
	in.SunAzimuthRad = math.Pi
	in.AmbientTempK = 300

	outs, final, err := s.Run(context.Background(), []model.TimestepInput{in})
	require.NoError(t, err)
	require.Len(t, outs, 1)
	o := outs[0]
	assert.GreaterOrEqual(t, o.QProdKWh, 0.0)
	assert.Equal(t, model.StatusOn, o.Status)
	assert.InDelta(t, 1.0, o.IAM, 1e-9)
	assert.Greater(t, o.QProdKWh, 0.0)
	assert.Greater(t, o.FlowRateKgS, 0.0)
	assert.InDelta(t, s.Design().OutletK, final.FieldTempK, 1e-9)
	assert.LessOrEqual(t, o.QUsefulKWh, o.ServedDemandKWh+eps)
}

func TestStep_SensibleFlowMatchesEnthalpyRise(t *testing.T) {
	sensible := []model.Topology{
		model.TopologyParallel, model.TopologyParallelHX, model.TopologyParallelStorage,
		model.TopologyDirectReturnFlow, model.TopologyReturnFlowHX,
		model.TopologyFeedWater, model.TopologyFeedWaterStorage,
		model.TopologyMakeUpWater, model.TopologyMakeUpWaterStorage,
	}
	for _, topo := range sensible {
		t.Run(string(topo), func(t *testing.T) {
			s := newSim(t, plantFor(topo), nil)
			s.SetOptics(constOptics(1))
			d := s.Design()

			in := model.TimestepInput{DemandKWh: 50}
			in.DNIWm2 = 900
			in.SunElevationRad = 1
			in.AmbientTempK = 295
			prev := TimestepState{FieldTempK: d.OutletK, Status: model.StatusOff}

			_, o := s.Step(prev, in)
			require.Equal(t, model.StatusOn, o.Status)
			h := &hour{d: &d}
			rise := h.enthalpy(d.OutletK) - h.enthalpy(o.FieldInTempK)
			assert.InDelta(t, o.QProdKWh, o.FlowRateKgS*d.TimestepHours*rise*d.HXEffectiveness, 1e-6)
			assert.InDelta(t, d.OutletK, o.FieldOutTempK, 1e-9)
		})
	}
}

func TestStep_AllZeroDNI(t *testing.T) {
	in := clearDays(72, 40)
	for i := range in {
		in[i].DNIWm2 = 0
	}
	for _, topo := range model.Topologies() {
		s := newSim(t, plantFor(topo), nil)
		outs, _, err := s.Run(context.Background(), in)
		require.NoError(t, err)
		for _, o := range outs {
			assert.Equal(t, model.StatusOff, o.Status, topo)
			assert.Zero(t, o.QProdKWh, topo)
			assert.Zero(t, o.QProdLimKWh, topo)
		}
	}
}

func TestRun_Invariants(t *testing.T) {
	inputs := clearDays(24*14, 40)
	for _, topo := range model.Topologies() {
		t.Run(string(topo), func(t *testing.T) {
			s := newSim(t, plantFor(topo), nil)
			d := s.Design()
			outs, _, err := s.Run(context.Background(), inputs)
			require.NoError(t, err)
			require.Len(t, outs, len(inputs))

			var prevStored, prevDrum, produced float64
			for i, o := range outs {
				assert.LessOrEqual(t, o.QUsefulKWh, o.DemandKWh+eps, "hour %d", i)
				assert.LessOrEqual(t, o.QUsefulKWh, o.QProdLimKWh+eps, "hour %d", i)
				assert.LessOrEqual(t, o.QProdLimKWh, o.ServedDemandKWh+eps, "hour %d", i)
				assert.GreaterOrEqual(t, o.QProdKWh, 0.0)
				assert.GreaterOrEqual(t, o.QDefocusKWh, -eps)

				assert.GreaterOrEqual(t, o.StoredKWh, 0.0)
				assert.LessOrEqual(t, o.StoredKWh, d.StorageMaxKWh+eps)
				assert.InDelta(t, o.StoredKWh-prevStored, o.QChargeKWh-o.QDischargeKWh-o.QStorageLossKWh, eps, "hour %d", i)

				assert.GreaterOrEqual(t, o.DrumKWh, 0.0)
				assert.LessOrEqual(t, o.DrumKWh, d.DrumMaxKWh+eps)
				assert.InDelta(t, o.DrumKWh-prevDrum, o.DrumChargeKWh-o.DrumDischargeKWh-o.DrumLossKWh, eps, "hour %d", i)

				in := o.QProdKWh + o.QDischargeKWh + o.DrumDischargeKWh
				out := o.QProdLimKWh + o.QDefocusKWh + o.QChargeKWh + o.DrumChargeKWh
				assert.InDelta(t, in, out, eps, "hour %d", i)

				if !d.HasStorage() && !d.HasDrum() {
					assert.InDelta(t, o.QProdKWh, o.QProdLimKWh+o.QDefocusKWh, eps, "hour %d", i)
				}
				if o.Status != model.StatusOn {
					assert.Zero(t, o.QProdKWh)
					assert.Zero(t, o.FlowRateKgS)
				}
				if d.SaturationTempK > 0 && d.Topology.Info().Medium != model.MediumSteam {
					assert.LessOrEqual(t, o.FieldOutTempK, d.SaturationTempK-d.SubcoolingK+eps)
				}
				prevStored, prevDrum = o.StoredKWh, o.DrumKWh
				produced += o.QProdKWh
			}
			assert.Greater(t, produced, 0.0)
		})
	}
}

func TestRun_StorageShiftsProductionToNight(t *testing.T) {
	s := newSim(t, plantFor(model.TopologyParallelStorage), nil)
	outs, _, err := s.Run(context.Background(), clearDays(24*7, 20))
	require.NoError(t, err)

	var charged, discharged, nightServed float64
	for _, o := range outs {
		charged += o.QChargeKWh
		discharged += o.QDischargeKWh
		if o.Status == model.StatusOff {
			nightServed += o.QProdLimKWh
		}
	}
	assert.Greater(t, charged, 0.0)
	assert.Greater(t, discharged, 0.0)
	assert.GreaterOrEqual(t, charged, discharged)
	assert.Greater(t, nightServed, 0.0)
}

func TestRun_TankCoolsWhenIdle(t *testing.T) {
	cfg := plantFor(model.TopologyParallelStorage)
	cfg.StorageTimeConstantHours = 100
	s := newSim(t, cfg, nil)

	inputs := clearDays(24*3, 0)
	for range 24 * 30 {
		in := model.TimestepInput{}
		in.HourOfYear = len(inputs)
		in.AmbientTempK = 295
		inputs = append(inputs, in)
	}
	outs, _, err := s.Run(context.Background(), inputs)
	require.NoError(t, err)

	start := outs[24*3-1]
	end := outs[len(outs)-1]
	require.Greater(t, start.StoredKWh, 0.0)
	assert.Less(t, end.StoredKWh, start.StoredKWh/2)
	assert.Less(t, end.StorageTempK, start.StorageTempK)

	var loss float64
	for _, o := range outs[24*3:] {
		assert.Zero(t, o.QDischargeKWh)
		loss += o.QStorageLossKWh
	}
	assert.InDelta(t, start.StoredKWh-end.StoredKWh, loss, eps)
}

func TestRun_Recirculation(t *testing.T) {
	s := newSim(t, plantFor(model.TopologyParallel), nil)
	s.SetOptics(constOptics(1))

	var inputs []model.TimestepInput
	for i := range 8 {
		in := model.TimestepInput{DemandKWh: 40}
		in.HourOfYear = i
		in.SunElevationRad = 0.5
		in.DNIWm2 = 50
		in.AmbientTempK = 300
		inputs = append(inputs, in)
	}
	outs, _, err := s.Run(context.Background(), inputs)
	require.NoError(t, err)

	first := outs[0]
	assert.Equal(t, model.StatusRecirculating, first.Status)
	assert.Zero(t, first.QProdKWh)
	assert.Greater(t, first.RecircFlowKgS, 0.0)
	assert.Greater(t, first.FieldOutTempK, 300.0)

	reachedOn := false
	for _, o := range outs {
		if o.Status == model.StatusOn {
			reachedOn = true
		}
	}
	assert.True(t, reachedOn, "loop warms up under weak sun")
}

func TestRun_DrumDecaysOvernight(t *testing.T) {
	s := newSim(t, plantFor(model.TopologySteamDrum), nil)
	outs, _, err := s.Run(context.Background(), clearDays(48, 1))
	require.NoError(t, err)

	var loss float64
	for _, o := range outs {
		loss += o.DrumLossKWh
		if o.Status == model.StatusOn {
			assert.Zero(t, o.DrumLossKWh)
		}
	}
	assert.Greater(t, loss, 0.0)
}

func TestRun_Idempotent(t *testing.T) {
	inputs := clearDays(24*10, 30)
	for _, topo := range []model.Topology{model.TopologyParallelStorage, model.TopologySteamDrumStorage, model.TopologyMakeUpWater} {
		s := newSim(t, plantFor(topo), nil)
		a, sa, err := s.Run(context.Background(), inputs)
		require.NoError(t, err)
		b, sb, err := s.Run(context.Background(), inputs)
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.Equal(t, sa, sb)
	}
}

func TestRun_ProgressPerMonth(t *testing.T) {
	cb := &mockCallback{}
	s := newSim(t, plantFor(model.TopologyParallelStorage), cb)
	inputs := clearDays(model.HoursPerYear, 100000.0/model.HoursPerYear)

	outs, _, err := s.Run(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, outs, model.HoursPerYear)

	prog := cb.all()
	require.Len(t, prog, 12)
	assert.Equal(t, 0, prog[0].Month)
	assert.Equal(t, 31*24, prog[0].HoursDone)
	assert.Equal(t, 11, prog[11].Month)
	assert.Equal(t, model.HoursPerYear, prog[11].HoursDone)

	var demand float64
	for _, p := range prog {
		demand += p.DemandKWh
	}
	assert.InDelta(t, 100000, demand, 1e-6)
}

func TestRun_YearWithLargeStorage(t *testing.T) {
	cfg := plantFor(model.TopologyParallelStorage)
	cfg.StorageVolumeLiters = 100000
	s := newSim(t, cfg, nil)
	require.Greater(t, s.Design().StorageMaxKWh, 0.0)

	outs, _, err := s.Run(context.Background(), clearDays(model.HoursPerYear, 25))
	require.NoError(t, err)
	var charged, discharged float64
	for _, o := range outs {
		charged += o.QChargeKWh
		discharged += o.QDischargeKWh
	}
	assert.GreaterOrEqual(t, charged, discharged)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newSim(t, plantFor(model.TopologyParallel), nil)
	outs, _, err := s.Run(ctx, clearDays(model.HoursPerYear, 10))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, outs, 31*24)
}

func TestRun_Empty(t *testing.T) {
	s := newSim(t, plantFor(model.TopologyParallel), nil)
	outs, _, err := s.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, outs)
}
