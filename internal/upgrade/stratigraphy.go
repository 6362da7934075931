package upgrade

import (
	"strings"

	"github.com/mesh-intelligence/prograde/internal/model"
	"github.com/mesh-intelligence/prograde/pkg/errors"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

// Stratigraphy limits.
const (
	MaxDepthThickness = 6380000.0

	HydrostaticCoupling = "Hydrostatic"
	HomogeneousMixModel = "Homogeneous"
)

// standardFluids are kept as they are; every other fluid name is user
// defined and sanitized.
var standardFluids = map[string]bool{
	"Std. Water":              true,
	"Std. Sea Water":          true,
	"Std. Hyper Saline Water": true,
	"Std. Marine Water":       true,
}

// nameRef is a column holding a surface, layer or fluid name.
type nameRef struct {
	table, column string
}

var stratigraphyNameRefs = []nameRef{
	{types.CTCIoTbl, model.ColSurfaceName},
	{types.PalinspasticIoTbl, model.ColSurfaceName},
	{types.PalinspasticIoTbl, "BottomFormationName"},
	{types.TwoWayTimeIoTbl, model.ColSurfaceName},
	{types.MobLayThicknIoTbl, model.ColLayerName},
	{types.AllochthonLithoInterpIoTbl, model.ColLayerName},
	{types.AllochthonLithoDistribIoTbl, model.ColLayerName},
	{types.AllochthonLithoIoTbl, model.ColLayerName},
	{types.SourceRockLithoIoTbl, model.ColLayerName},
	{types.FluidtypeIoTbl, model.ColFluidtype},
}

// Sanitize removes every character of name but letters, digits, spaces and
// underscores.
func Sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ', r == '_':
			return r
		}
		return -1
	}, name)
}

// checkChemicalCompaction returns the run chemical compaction switch allowed
// by the pressure-temperature coupling mode.
func checkChemicalCompaction(coupling string, run int64) int64 {
	if coupling == HydrostaticCoupling {
		return 0
	}
	return run
}

// layerChemicalCompaction returns the chemical compaction of a layer given
// the run switch.
func layerChemicalCompaction(run, layer int64) int64 {
	if run == 0 {
		return 0
	}
	return layer
}

func depthThickness(x float64) float64 {
	if x == types.UndefinedFloat {
		return x
	}
	return Clip(x, -MaxDepthThickness, MaxDepthThickness)
}

func layeringIndex(mixModel string, x float64) float64 {
	if mixModel == HomogeneousMixModel {
		return types.UndefinedFloat
	}
	return x
}

// StratigraphyUpgrader sanitizes surface, layer and fluid names, checks
// chemical compaction and limits depths, thicknesses and ages.
type StratigraphyUpgrader struct {
	base
}

// NewStratigraphyUpgrader binds the step to the model and the shared
// worklist.
func NewStratigraphyUpgrader(m *model.Model, w *Worklist) (*StratigraphyUpgrader, error) {
	b, err := newBase("stratigraphy", m, w)
	if err != nil {
		return nil, err
	}
	return &StratigraphyUpgrader{base: b}, nil
}

// Upgrade implements Upgrader.
func (u *StratigraphyUpgrader) Upgrade() error {
	if u.model.Size(types.StratIoTbl) == 0 {
		u.log.Info("no stratigraphy, nothing to upgrade")
		return nil
	}
	run, err := u.upgradeRunOptions()
	if err != nil {
		return err
	}
	if err := u.sanitizeStratigraphy(); err != nil {
		return err
	}
	for _, ref := range stratigraphyNameRefs {
		if err := u.sanitizeColumn(ref); err != nil {
			return err
		}
	}
	return u.upgradeSurfaces(run)
}

// upgradeRunOptions applies the coupling mode to the run chemical
// compaction switch. It returns the switch as found, which is what the
// layers follow.
func (u *StratigraphyUpgrader) upgradeRunOptions() (int64, error) {
	if u.model.Size(types.RunOptionsIoTbl) == 0 {
		return 1, nil
	}
	run, err := u.model.RunChemicalCompaction()
	if err != nil {
		return 0, err
	}
	coupling, err := u.model.PTCouplingMode()
	if err != nil {
		return 0, err
	}
	if x := checkChemicalCompaction(coupling, run); x != run {
		if err := u.model.SetRunChemicalCompaction(x); err != nil {
			return 0, err
		}
		u.log.Info("chemical compaction disabled", "coupling", coupling, "from", run, "to", x)
	}
	return run, nil
}

func (u *StratigraphyUpgrader) sanitizeStratigraphy() error {
	const t = types.StratIoTbl
	rows, err := u.model.Rows(t)
	if err != nil {
		return err
	}
	for _, row := range rows {
		for _, col := range []string{model.ColSurfaceName, model.ColLayerName, model.ColFluidtype} {
			if err := u.sanitizeCell(t, row, col); err != nil {
				return err
			}
		}
	}
	return nil
}

func (u *StratigraphyUpgrader) sanitizeColumn(ref nameRef) error {
	rows, err := u.model.Rows(ref.table)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := u.sanitizeCell(ref.table, row, ref.column); err != nil {
			return err
		}
	}
	return nil
}

func (u *StratigraphyUpgrader) sanitizeCell(table string, row types.RowID, column string) error {
	name, err := u.optionalString(table, row, column)
	if err != nil {
		return err
	}
	if column == model.ColFluidtype && standardFluids[name] {
		return nil
	}
	clean := Sanitize(name)
	if clean == name {
		return nil
	}
	if err := u.model.SetString(table, row, column, clean); err != nil {
		return err
	}
	u.log.Info("name sanitized", "table", table, "column", column, "from", name, "to", clean)
	return nil
}

// upgradeSurfaces limits depth and thickness, resets the layering index of
// homogeneous mixtures and applies the run chemical compaction. Deposition
// ages beyond MaxDepoAge are reported together once every surface has been
// seen.
func (u *StratigraphyUpgrader) upgradeSurfaces(run int64) error {
	const t = types.StratIoTbl
	m := u.model
	rows, err := m.Rows(t)
	if err != nil {
		return err
	}
	var tooOld []string
	for i, row := range rows {
		name, err := m.String(t, row, model.ColSurfaceName)
		if err != nil {
			return err
		}
		log := u.log.With("surface", name)

		for _, col := range []string{model.ColDepth, model.ColThickness} {
			x, err := m.Float(t, row, col)
			if err != nil {
				return err
			}
			if c := depthThickness(x); c != x {
				if err := m.SetFloat(t, row, col, c); err != nil {
					return err
				}
				log.Info("value clipped", "property", col, "from", x, "to", c)
			}
		}

		mix, err := m.String(t, row, model.ColMixModel)
		if err != nil {
			return err
		}
		li, err := m.Float(t, row, model.ColLayeringIndex)
		if err != nil {
			return err
		}
		if x := layeringIndex(mix, li); x != li {
			if err := m.SetFloat(t, row, model.ColLayeringIndex, x); err != nil {
				return err
			}
			log.Info("layering index reset", "mix_model", mix, "from", li, "to", x)
		}

		layer, err := m.Int(t, row, model.ColChemicalCompaction)
		if err != nil {
			return err
		}
		want := layerChemicalCompaction(run, layer)
		if i == len(rows)-1 {
			want = types.UndefinedInt
		}
		if want != layer {
			if err := m.SetInt(t, row, model.ColChemicalCompaction, want); err != nil {
				return err
			}
			log.Info("chemical compaction changed", "from", layer, "to", want)
		}

		age, err := m.Float(t, row, model.ColDepoAge)
		if err != nil {
			return err
		}
		if age > MaxDepoAge {
			log.Warn("deposition age beyond limit", "age", age, "limit", MaxDepoAge)
			tooOld = append(tooOld, name)
		}
	}
	if len(tooOld) > 0 {
		return errors.ErrDepoAgeLimit.Newf("%d surface(s) older than %g Ma: %s",
			len(tooOld), MaxDepoAge, strings.Join(tooOld, ", "))
	}
	return nil
}
