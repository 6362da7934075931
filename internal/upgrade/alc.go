package upgrade

import (
	"sort"

	"github.com/mesh-intelligence/prograde/internal/model"
	"github.com/mesh-intelligence/prograde/pkg/errors"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

// Lithosphere calculator constants.
const (
	// MaxDepoAge is the oldest deposition age a project may carry, in Ma.
	MaxDepoAge = 999.0

	DefaultTopAsthenoTemp   = 1333.0
	MaxLithosphereThickness = 6300000.0

	SystemGeneratedSnapshot = "System Generated"
	OceanicCrustMapPrefix   = "OceanicCrustThicknessFromLegacyALC_"

	StandardConductivityCrust = "Standard Conductivity Crust"
	HighConductivityMantle    = "High Conductivity Mantle"
)

// ALCUpgrader converts projects built with the legacy Advanced Lithosphere
// Calculator. The legacy crust thinning and basalt histories are replaced by
// continental and oceanic crust thickness histories limited to the basement
// age.
type ALCUpgrader struct {
	base
}

// NewALCUpgrader binds the step to the model and the shared worklist.
func NewALCUpgrader(m *model.Model, w *Worklist) (*ALCUpgrader, error) {
	b, err := newBase("alc", m, w)
	if err != nil {
		return nil, err
	}
	return &ALCUpgrader{base: b}, nil
}

// IsLegacy reports whether the project uses the legacy calculator: the ALC
// bottom boundary model with a present-day basalt or melt onset map.
func (u *ALCUpgrader) IsLegacy() (bool, error) {
	if u.model.Size(types.BasementIoTbl) == 0 {
		return false, nil
	}
	name, err := u.model.BottomBoundaryModel()
	if err != nil || name != model.BottomBoundaryLegacyALC {
		return false, err
	}
	row, err := u.model.FirstRow(types.BasementIoTbl)
	if err != nil {
		return false, err
	}
	for _, col := range []string{model.ColBasaltThicknessGrid, model.ColCrustThicknessMeltOnsetGrid} {
		grid, err := u.optionalString(types.BasementIoTbl, row, col)
		if err != nil {
			return false, err
		}
		if grid != "" {
			return true, nil
		}
	}
	return false, nil
}

// Upgrade implements Upgrader.
func (u *ALCUpgrader) Upgrade() error {
	legacy, err := u.IsLegacy()
	if err != nil {
		return err
	}
	if !legacy {
		u.log.Info("no legacy lithosphere calculator, nothing to upgrade")
		return nil
	}
	u.log.Info("legacy lithosphere calculator detected")

	age, err := u.clipBasementAge()
	if err != nil {
		return err
	}
	if err := u.upgradeBasement(); err != nil {
		return err
	}
	if err := u.writeContinentalCrust(age); err != nil {
		return err
	}
	if err := u.writeOceanicCrust(age); err != nil {
		return err
	}
	for _, t := range []string{types.BasaltThicknessIoTbl, types.CrustIoTbl, types.MntlHeatFlowIoTbl} {
		if err := u.clearTable(t); err != nil {
			return err
		}
	}
	return u.upgradePropertyModels()
}

// clipBasementAge limits the basement deposition age to MaxDepoAge and
// returns it.
func (u *ALCUpgrader) clipBasementAge() (float64, error) {
	age, err := u.model.BasementAge()
	if err != nil {
		return 0, err
	}
	if age <= MaxDepoAge {
		return age, nil
	}
	store, err := u.model.Store()
	if err != nil {
		return 0, err
	}
	last, err := store.Row(types.StratIoTbl, u.model.Size(types.StratIoTbl)-1)
	if err != nil {
		return 0, err
	}
	if err := u.model.SetFloat(types.StratIoTbl, last, model.ColDepoAge, MaxDepoAge); err != nil {
		return 0, err
	}
	u.log.Info("basement deposition age clipped", "from", age, "to", MaxDepoAge)
	return MaxDepoAge, nil
}

func (u *ALCUpgrader) upgradeBasement() error {
	const t = types.BasementIoTbl
	m := u.model
	rows, err := m.Rows(t)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := m.SetString(t, row, model.ColBottomBoundaryModel, model.BottomBoundaryImprovedALC); err != nil {
			return err
		}
		u.log.Info("bottom boundary model upgraded", "from", model.BottomBoundaryLegacyALC, "to", model.BottomBoundaryImprovedALC)

		temp, err := m.Float(t, row, model.ColTopAsthenoTemp)
		if err != nil {
			return err
		}
		if temp != DefaultTopAsthenoTemp {
			u.log.Info("non default top asthenosphere temperature kept", "value", temp, "default", DefaultTopAsthenoTemp)
		}

		for _, col := range []string{model.ColLithoMantleThickness, model.ColInitialLthMntThickns, model.ColFixedCrustThickness} {
			x, err := m.Float(t, row, col)
			if err != nil {
				return err
			}
			if err := m.SetFloat(t, row, col, 0); err != nil {
				return err
			}
			u.log.Info("legacy thickness reset", "property", col, "from", x, "to", 0)
		}

		x, err := m.Float(t, row, model.ColInitialLithosphericMantleThickness)
		if err != nil {
			return err
		}
		if x != types.UndefinedFloat {
			if x < 0 {
				return errors.ErrNegativeThickness.Newf("initial lithospheric mantle thickness is %g", x)
			}
			if c := Clip(x, 0, MaxLithosphereThickness); c != x {
				if err := m.SetFloat(t, row, model.ColInitialLithosphericMantleThickness, c); err != nil {
					return err
				}
				u.log.Info("value clipped", "property", model.ColInitialLithosphericMantleThickness, "from", x, "to", c)
			}
		}
	}
	return u.checkRange(topCrustHeatProd)
}

// writeContinentalCrust limits the continental crust history to the
// basement age. A project without one gets it from the legacy crust
// thinning history.
func (u *ALCUpgrader) writeContinentalCrust(age float64) error {
	if err := u.model.EnsureStandardTable(types.ContCrustalThicknessIoTbl); err != nil {
		return err
	}
	if u.model.Size(types.ContCrustalThicknessIoTbl) == 0 {
		if err := u.copyCrustHistory(age); err != nil {
			return err
		}
	}
	if err := u.interpolateAt(contCrustThickness, age); err != nil {
		return err
	}
	return u.removeRowsOlderThan(contCrustThickness, age)
}

func (u *ALCUpgrader) copyCrustHistory(age float64) error {
	samples, err := u.samples(crustThickness)
	if err != nil || len(samples) == 0 {
		return err
	}
	store, err := u.model.Store()
	if err != nil {
		return err
	}
	n := 0
	for _, s := range samples {
		if s.age > age {
			continue
		}
		row, err := store.AddRow(types.ContCrustalThicknessIoTbl)
		if err != nil {
			return err
		}
		if err := u.model.SetFloat(types.ContCrustalThicknessIoTbl, row, "Age", s.age); err != nil {
			return err
		}
		if err := u.setPoint(contCrustThickness, types.ContCrustalThicknessIoTbl, row, s.point(), ""); err != nil {
			return err
		}
		n++
	}
	// the basement age sample, when missing, is interpolated from the full
	// legacy history
	p, exact, err := u.valueAt(crustThickness, samples, age)
	if err != nil {
		return err
	}
	if !exact {
		row, err := store.AddRow(types.ContCrustalThicknessIoTbl)
		if err != nil {
			return err
		}
		if err := u.model.SetFloat(types.ContCrustalThicknessIoTbl, row, "Age", age); err != nil {
			return err
		}
		if err := u.setPoint(contCrustThickness, types.ContCrustalThicknessIoTbl, row, p, InterpolatedMapPrefix+formatAge(age)); err != nil {
			return err
		}
		n++
	}
	u.log.Info("continental crust history written", "rows", n, "basement_age", age)
	return nil
}

// systemSnapshotAges returns the system generated snapshot times not older
// than age, youngest first.
func (u *ALCUpgrader) systemSnapshotAges(age float64) ([]float64, error) {
	rows, err := u.model.Rows(types.SnapshotIoTbl)
	if err != nil {
		return nil, err
	}
	var ages []float64
	for _, row := range rows {
		kind, err := u.model.String(types.SnapshotIoTbl, row, "TypeOfSnapshot")
		if err != nil {
			return nil, err
		}
		if kind != SystemGeneratedSnapshot {
			continue
		}
		t, err := u.model.Float(types.SnapshotIoTbl, row, "Time")
		if err != nil {
			return nil, err
		}
		if t <= age {
			ages = append(ages, t)
		}
	}
	sort.Float64s(ages)
	return ages, nil
}

// writeOceanicCrust writes the oceanic crust thickness at every system
// generated snapshot up to the basement age from the legacy basalt history.
func (u *ALCUpgrader) writeOceanicCrust(age float64) error {
	const t = types.OceaCrustalThicknessIoTbl
	if err := u.model.EnsureStandardTable(t); err != nil {
		return err
	}
	// rows already in the table are replaced by the ones written below and
	// removed afterwards, releasing only the maps the new rows do not use
	legacy, err := u.model.Rows(t)
	if err != nil {
		return err
	}
	samples, err := u.samples(basaltThickness)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		u.log.Warn("no basalt thickness history, oceanic crust left empty")
		return u.removeRows(t, []string{oceaCrustThickness.grid}, legacy)
	}
	ages, err := u.systemSnapshotAges(age)
	if err != nil {
		return err
	}
	store, err := u.model.Store()
	if err != nil {
		return err
	}
	for _, a := range ages {
		p, _, err := u.valueAt(basaltThickness, samples, a)
		if err != nil {
			return err
		}
		// existing maps are copied under their own name so the oceanic rows
		// do not depend on the basalt table, which is cleared
		if p.gridName != "" {
			id, err := u.model.Maps().FindID(p.gridName)
			if err != nil {
				return err
			}
			g, err := u.model.Maps().Grid(id)
			if err != nil {
				return err
			}
			p = point{value: types.UndefinedFloat, grid: g}
		}
		row, err := store.AddRow(t)
		if err != nil {
			return err
		}
		if err := u.model.SetFloat(t, row, "Age", a); err != nil {
			return err
		}
		if err := u.setPoint(oceaCrustThickness, t, row, p, OceanicCrustMapPrefix+formatAge(a)); err != nil {
			return err
		}
	}
	if err := u.removeRows(t, []string{oceaCrustThickness.grid}, legacy); err != nil {
		return err
	}
	u.log.Info("oceanic crust history written", "rows", len(ages), "replaced", len(legacy), "basement_age", age)
	return nil
}

func (u *ALCUpgrader) upgradePropertyModels() error {
	crust, err := u.model.CrustPropertyModel()
	if err != nil {
		return err
	}
	if crust != StandardConductivityCrust {
		if err := u.model.SetCrustPropertyModel(StandardConductivityCrust); err != nil {
			return err
		}
		u.log.Info("crust property model upgraded", "from", crust, "to", StandardConductivityCrust)
	}
	mantle, err := u.model.MantlePropertyModel()
	if err != nil {
		return err
	}
	if mantle != HighConductivityMantle {
		if err := u.model.SetMantlePropertyModel(HighConductivityMantle); err != nil {
			return err
		}
		u.log.Info("mantle property model upgraded", "from", mantle, "to", HighConductivityMantle)
	}
	return nil
}
