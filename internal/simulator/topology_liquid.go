package simulator

// parallel supplies the process directly (SL_L_P) or through a heat
// exchanger (SL_L_PHX) at the process supply temperature.
type parallel struct {
	fieldLoop
	hx bool
}

func (p parallel) design(r *resolver) error {
	d := &r.d
	if !p.hx {
		d.InletK = d.ProcessInletK
		d.OutletK = r.clamp(d.ProcessOutletK)
		d.SensibleFraction = r.fraction(d.ProcessInletK, d.OutletK)
		return nil
	}
	dT := r.cfg.HeatExchangerDeltaK
	d.InletK = d.ProcessInletK + dT
	d.OutletK = r.clamp(d.ProcessOutletK + dT)
	reach := min(d.ProcessOutletK, d.OutletK-dT)
	d.HXEffectiveness = hxEffectiveness(d.ProcessInletK, reach, d.OutletK)
	d.SensibleFraction = r.fraction(d.ProcessInletK, reach)
	return nil
}

// parallelStorage charges a sensible tank between the process supply
// temperature and StorageDeltaK above it (SL_L_PS).
type parallelStorage struct {
	fieldLoop
}

func (parallelStorage) design(r *resolver) error {
	d := &r.d
	if err := r.sizeStorage(d.ProcessOutletK, d.ProcessOutletK+r.cfg.StorageDeltaK); err != nil {
		return err
	}
	d.InletK = d.ProcessInletK
	d.OutletK = d.StorageMaxTempK
	d.SensibleFraction = r.fraction(d.ProcessInletK, d.StorageMinTempK)
	return nil
}

// returnFlow boosts the process return line by HeatFactor of the process
// temperature rise, directly (SL_L_DRF) or through a heat exchanger
// (SL_L_RF). The conventional heater covers the remainder.
type returnFlow struct {
	fieldLoop
	hx bool
}

func (rf returnFlow) design(r *resolver) error {
	d := &r.d
	boost := d.ProcessInletK + r.cfg.HeatFactor*(d.ProcessOutletK-d.ProcessInletK)
	var reach float64
	if rf.hx {
		dT := r.cfg.HeatExchangerDeltaK
		d.InletK = d.ProcessInletK + dT
		d.OutletK = r.clamp(boost + dT)
		reach = min(boost, d.OutletK-dT)
		d.HXEffectiveness = hxEffectiveness(d.ProcessInletK, reach, d.OutletK)
	} else {
		d.InletK = d.ProcessInletK
		d.OutletK = r.clamp(boost)
		reach = d.OutletK
	}
	d.SensibleFraction = r.fraction(d.ProcessInletK, reach)
	return nil
}

// hxEffectiveness is the temperature effectiveness of an exchanger heating
// the process stream from inK to outK with field fluid arriving at hotK.
func hxEffectiveness(inK, outK, hotK float64) float64 {
	if hotK <= inK {
		return 1
	}
	e := (outK - inK) / (hotK - inK)
	return max(0, min(1, e))
}
