package simulator

// preheat heats boiler water in an open loop: feed water from the feed tank
// toward saturation (SL_S_FW, SL_S_FWS) or grid make-up water up to the
// feed tank temperature (SL_S_MW, SL_S_MWS). Only the sensible share of the
// steam demand can be served.
type preheat struct {
	fieldLoop
	makeUp  bool
	storage bool
}

func (p preheat) design(r *resolver) error {
	d := &r.d
	var reach float64
	if p.makeUp {
		d.InletK = d.MakeUpWaterK
		reach = r.clamp(d.ProcessInletK)
	} else {
		d.InletK = d.ProcessInletK
		reach = r.clamp(d.SaturationTempK)
	}
	d.OutletK = reach
	if p.storage {
		if err := r.sizeStorage(d.ProcessInletK, d.ProcessOutletK+r.cfg.StorageDeltaK); err != nil {
			return err
		}
		d.OutletK = max(reach, d.StorageMaxTempK)
	}
	d.SensibleFraction = r.fraction(d.InletK, reach)
	return nil
}

// inlet is always fresh water; the loop never returns to the field.
func (p preheat) inlet(h *hour) float64 {
	t := h.d.InletK
	if p.makeUp && h.in.MakeUpWaterTempK > 0 {
		t = h.in.MakeUpWaterTempK
	}
	return min(t, h.d.OutletK)
}
