package simulator

import "shipcal/internal/fluid"

// directSteam evaporates feed water in the field at the operating
// pressure: once-through (SL_S_PDOT), through a steam drum (SL_S_PD), or
// through a drum backed by a pressurised water tank (SL_S_PDS).
type directSteam struct {
	fieldLoop
	drum    bool
	storage bool
}

func (s directSteam) design(r *resolver) error {
	d := &r.d
	d.InletK = r.clamp(d.ProcessInletK)
	d.OutletK = d.SaturationTempK
	d.SteamQuality = SteamQualityOnceThrough
	if s.drum {
		d.SteamQuality = SteamQualityWithDrum
		r.sizeDrum()
	}
	if s.storage {
		if err := r.sizeStorage(d.ProcessInletK, r.liquidMax()); err != nil {
			return err
		}
	}
	return nil
}

func (s directSteam) produce(h *hour, inletK float64) {
	hOut := fluid.Water{}.EnthalpyQuality(h.d.PressureMPa, h.d.SteamQuality)
	h.deliver(h.collect(inletK, h.d.OutletK, hOut-h.enthalpy(inletK)))
}
