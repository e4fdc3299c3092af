package fluid

import "shipcal/internal/model"

// MoltenSalt models a nitrate "solar salt" mixture (60 % NaNO3, 40 % KNO3).
type MoltenSalt struct{}

const (
	saltMaxTempC    = 565.0
	saltFreezeTempC = 238.0
)

func (MoltenSalt) Kind() model.FluidKind { return model.FluidMoltenSalt }

func (MoltenSalt) Enthalpy(_, tK float64) float64 {
	tc := model.KToC(tK)
	return 1.443*tc + 0.000086*tc*tc
}

func (MoltenSalt) Entropy(_, tK float64) float64 {
	return incompressibleEntropy(1.443, 0.000172, tK)
}

func (MoltenSalt) Density(_, tK float64) float64 {
	return 2090 - 0.636*model.KToC(tK)
}

func (MoltenSalt) SpecificHeat(_, tK float64) float64 {
	return 1.443 + 0.000172*model.KToC(tK)
}

func (MoltenSalt) Viscosity(_, tK float64) float64 {
	tc := model.KToC(tK)
	return 22.714e-3 - 0.120e-3*tc + 2.281e-7*tc*tc - 1.474e-10*tc*tc*tc
}

func (MoltenSalt) MaxLiquidTemp(_, _ float64) float64 { return model.CToK(saltMaxTempC) }

func (MoltenSalt) MinLiquidTemp() float64 { return model.CToK(saltFreezeTempC) }
