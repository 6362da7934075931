// Package curvefit converts Soil-Mechanics compaction parameters into
// Double-Exponential ones by fitting the porosity versus effective stress
// curve.
//
// Stresses are in MPa and porosities are fractions.
package curvefit

import (
	"math"

	"github.com/mesh-intelligence/prograde/pkg/errors"
)

const (
	// ReferenceStress is the effective stress at which the Soil-Mechanics
	// void ratio equals its surface value.
	ReferenceStress = 0.1

	// MinimumPorosity is the porosity floor of the Soil-Mechanics curve; the
	// sampled range ends where the curve reaches it.
	MinimumPorosity = 0.03
)

// SoilMechanics is the legacy two-parameter model
//
//	e(σ) = e0 - k ln(σ/σref),  φ = e/(1+e),  e0 = φ0/(1-φ0)
type SoilMechanics struct {
	SurfacePorosity float64
	Coefficient     float64
}

// Validate checks the parameters describe a decreasing curve that reaches
// the porosity floor.
func (s SoilMechanics) Validate() error {
	if s.Coefficient <= 0 || math.IsNaN(s.Coefficient) {
		return errors.ErrOutOfRange.Newf("soil mechanics coefficient %g", s.Coefficient)
	}
	if s.SurfacePorosity <= MinimumPorosity || s.SurfacePorosity >= 1 {
		return errors.ErrOutOfRange.Newf("soil mechanics surface porosity %g", s.SurfacePorosity)
	}
	return nil
}

func voidRatio(porosity float64) float64 {
	return porosity / (1 - porosity)
}

// Porosity evaluates the curve at stress σ.
func (s SoilMechanics) Porosity(stress float64) float64 {
	e := voidRatio(s.SurfacePorosity) - s.Coefficient*math.Log(stress/ReferenceStress)
	return e / (1 + e)
}

// MaxStress returns the stress at which the porosity reaches
// MinimumPorosity.
func (s SoilMechanics) MaxStress() float64 {
	return ReferenceStress * math.Exp((voidRatio(s.SurfacePorosity)-voidRatio(MinimumPorosity))/s.Coefficient)
}

// DoubleExponential is the current model
//
//	φ(σ) = φmin + (φ0-φmin) (R e^(-C1 σ) + (1-R) e^(-C2 σ))
type DoubleExponential struct {
	SurfacePorosity float64
	MinPorosity     float64
	C1              float64
	C2              float64
	R               float64
}

// Porosity evaluates the curve at stress σ.
func (d DoubleExponential) Porosity(stress float64) float64 {
	e1 := math.Exp(-d.C1 * stress)
	e2 := math.Exp(-d.C2 * stress)
	return d.MinPorosity + (d.SurfacePorosity-d.MinPorosity)*(d.R*e1+(1-d.R)*e2)
}

// gradient returns the partial derivatives of Porosity with respect to C1,
// C2 and R.
func (d DoubleExponential) gradient(stress float64) [3]float64 {
	span := d.SurfacePorosity - d.MinPorosity
	e1 := math.Exp(-d.C1 * stress)
	e2 := math.Exp(-d.C2 * stress)
	return [3]float64{
		-span * d.R * stress * e1,
		-span * (1 - d.R) * stress * e2,
		span * (e1 - e2),
	}
}
