package upgrade

import (
	"strings"

	"github.com/mesh-intelligence/prograde/internal/curvefit"
	"github.com/mesh-intelligence/prograde/internal/model"
	"github.com/mesh-intelligence/prograde/pkg/errors"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

// regression gives the Exponential compaction coefficient, in 1/MPa, as a
// quadratic in the Soil-Mechanics coefficient k.
type regression struct {
	a0, a1, a2 float64
}

func (r regression) eval(k float64) float64 {
	return r.a0 + r.a1*k + r.a2*k*k
}

// calibration is every numeric constant the Soil-Mechanics conversion reads.
type calibration struct {
	sand      regression
	carbonate regression
	// standard holds the parameters substituted for the standard
	// lithologies that used to be Soil-Mechanics.
	standard map[string]model.Porosity
}

// placeholderCalibration holds placeholder values pending the calibrated
// regressions. They are plausible in magnitude but not fitted to data.
var placeholderCalibration = calibration{
	sand:      regression{a0: 0.0063, a1: 0.1782, a2: -0.1295},
	carbonate: regression{a0: 0.0041, a1: 0.2237, a2: -0.1846},
	standard: map[string]model.Porosity{
		"Sandstone, clean": {
			Model: model.PorosityExponential, SurfacePorosity: 41.5,
			CompacCoefES: 0.027, MinimumPorosity: 3,
		},
		"Mudstone, 40% clay": {
			Model: model.PorosityExponential, SurfacePorosity: 57.2,
			CompacCoefES: 0.052, MinimumPorosity: 3,
		},
		"Mudstone, 50% clay": {
			Model: model.PorosityExponential, SurfacePorosity: 61.6,
			CompacCoefES: 0.058, MinimumPorosity: 3,
		},
		"Mudstone, 60% clay": {
			Model: model.PorosityExponential, SurfacePorosity: 65.4,
			CompacCoefES: 0.064, MinimumPorosity: 3,
		},
	},
}

// activeCalibration is the table the conversion uses.
var activeCalibration = placeholderCalibration

// Porosity parameter bounds.
const (
	MinSurfacePorosity = 0.0
	MaxSurfacePorosity = 100.0
	MinCompactionCoef  = 0.0
	MaxCompactionCoef  = 50.0

	// DefaultMinimumPorosity is stored on converted lithologies, in percent.
	DefaultMinimumPorosity = 100 * curvefit.MinimumPorosity
)

// Permeability parameter bounds.
const (
	MinDepoPerm       = 0.0
	MaxDepoPerm       = 1000.0
	MinPermAnisotropy = 0.0
	MaxPermAnisotropy = 100.0
)

func exponentialRegression(parent string) (regression, bool) {
	for _, p := range exponentialParents {
		if !strings.HasPrefix(parent, p.prefix) {
			continue
		}
		if p.carbonate {
			return activeCalibration.carbonate, true
		}
		return activeCalibration.sand, true
	}
	return regression{}, false
}

// convertSoilMechanics returns the current compaction model of a user
// lithology whose parent is known. An empty parent means a pre-cutoff
// lithology without one; it is fitted like a shale.
func convertSoilMechanics(p model.Porosity, parent string) (model.Porosity, error) {
	k := p.CompactionCoefficientSM
	if k == types.UndefinedFloat || p.SurfacePorosity == types.UndefinedFloat {
		return p, errors.ErrUndefinedValue.New("soil mechanics parameters")
	}

	out := p
	out.MinimumPorosity = DefaultMinimumPorosity
	if r, ok := exponentialRegression(parent); ok {
		out.Model = model.PorosityExponential
		out.CompacCoefES = r.eval(k)
		return out, nil
	}

	legacy := curvefit.SoilMechanics{SurfacePorosity: p.SurfacePorosity / 100, Coefficient: k}
	if err := legacy.Validate(); err != nil {
		return p, err
	}
	fit, err := curvefit.Fit(legacy)
	if err != nil {
		return p, err
	}
	out.Model = model.PorosityDoubleExponential
	out.CompacCoefESA = fit.C1
	out.CompacCoefESB = fit.C2
	out.CompacRatioES = fit.R
	return out, nil
}

// clipPorosity limits the compaction parameters to their bounds. Undefined
// parameters are kept.
func clipPorosity(p model.Porosity) model.Porosity {
	clip := func(x, lo, hi float64) float64 {
		if x == types.UndefinedFloat {
			return x
		}
		return Clip(x, lo, hi)
	}
	p.SurfacePorosity = clip(p.SurfacePorosity, MinSurfacePorosity, MaxSurfacePorosity)
	p.CompacCoefES = clip(p.CompacCoefES, MinCompactionCoef, MaxCompactionCoef)
	p.CompacCoefESA = clip(p.CompacCoefESA, MinCompactionCoef, MaxCompactionCoef)
	p.CompacCoefESB = clip(p.CompacCoefESB, MinCompactionCoef, MaxCompactionCoef)
	p.CompacRatioES = clip(p.CompacRatioES, 0, 1)
	if p.SurfacePorosity != types.UndefinedFloat {
		p.MinimumPorosity = clip(p.MinimumPorosity, MinSurfacePorosity, p.SurfacePorosity)
	}
	return p
}
