package upgrade

import (
	"github.com/mesh-intelligence/prograde/internal/model"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

// BottomBoundaryUpgrader limits the bottom boundary histories of basic crust
// thinning and fixed heat flow projects to the basin age and drops the
// tables the selected model does not read.
type BottomBoundaryUpgrader struct {
	base
}

// NewBottomBoundaryUpgrader binds the step to the model and the shared
// worklist.
func NewBottomBoundaryUpgrader(m *model.Model, w *Worklist) (*BottomBoundaryUpgrader, error) {
	b, err := newBase("bottom boundary", m, w)
	if err != nil {
		return nil, err
	}
	return &BottomBoundaryUpgrader{base: b}, nil
}

// Upgrade implements Upgrader.
func (u *BottomBoundaryUpgrader) Upgrade() error {
	if u.model.Size(types.BasementIoTbl) == 0 {
		u.log.Info("no basement, nothing to upgrade")
		return nil
	}
	name, err := u.model.BottomBoundaryModel()
	if err != nil {
		return err
	}
	log := u.log.With("model", name)

	switch name {
	case model.BottomBoundaryFixedHeatFlow:
		log.Info("fixed heat flow model detected")
		if err := u.limitHistory(mantleHeatFlow); err != nil {
			return err
		}
		for _, t := range []string{
			types.CrustIoTbl,
			types.ContCrustalThicknessIoTbl,
			types.OceaCrustalThicknessIoTbl,
			types.BasaltThicknessIoTbl,
		} {
			if err := u.clearTable(t); err != nil {
				return err
			}
		}
		return nil

	case model.BottomBoundaryFixedTemperature:
		log.Info("basic crust thinning model detected")
		if err := u.limitHistory(crustThickness); err != nil {
			return err
		}
		if err := u.clearTable(types.MntlHeatFlowIoTbl); err != nil {
			return err
		}
		return u.checkRange(topCrustHeatProd)

	case model.BottomBoundaryImprovedALC:
		log.Info("lithosphere calculator model detected, checking ranges")
		for _, f := range []field{contCrustThickness, oceaCrustThickness, topCrustHeatProd} {
			if err := u.checkRange(f); err != nil {
				return err
			}
		}
		return nil

	default:
		log.Info("bottom boundary model left unchanged")
		return nil
	}
}

// limitHistory range checks the time series f, makes sure it has a row at
// the basin age and drops the older rows.
func (u *BottomBoundaryUpgrader) limitHistory(f field) error {
	if err := u.checkRange(f); err != nil {
		return err
	}
	age, err := u.model.BasementAge()
	if err != nil {
		return err
	}
	if err := u.interpolateAt(f, age); err != nil {
		return err
	}
	return u.removeRowsOlderThan(f, age)
}
