package upgrade

import (
	"strings"
	"time"

	"github.com/mesh-intelligence/prograde/internal/model"
	"github.com/mesh-intelligence/prograde/pkg/errors"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

// lithologyRef is a column holding a lithology name.
type lithologyRef struct {
	table, column string
}

var lithologyRefs = []lithologyRef{
	{types.LithotypeIoTbl, model.ColLithotype},
	{types.StratIoTbl, "Lithotype1"},
	{types.StratIoTbl, "Lithotype2"},
	{types.StratIoTbl, "Lithotype3"},
	{types.PressureFaultcutIoTbl, "FaultLithology"},
	{types.AllochthonLithoIoTbl, model.ColLithotype},
}

// definitionDateLayouts are the formats DefinitionDate has been written in.
var definitionDateLayouts = []string{
	types.CutoffDateLayout,
	"January 2 2006 15:04",
	"January 2 2006",
	"02-01-2006",
}

// LithologyUpgrader renames legacy standard lithologies, converts
// Soil-Mechanics porosity models and clips the porosity and permeability
// parameters.
type LithologyUpgrader struct {
	base
	cutoff time.Time
}

// NewLithologyUpgrader binds the step to the model and the shared worklist.
// User lithologies defined before cutoff may be converted without a parent;
// a zero cutoff selects types.DefaultCutoffDate.
func NewLithologyUpgrader(m *model.Model, w *Worklist, cutoff time.Time) (*LithologyUpgrader, error) {
	b, err := newBase("lithology", m, w)
	if err != nil {
		return nil, err
	}
	if cutoff.IsZero() {
		cutoff, err = time.Parse(types.CutoffDateLayout, types.DefaultCutoffDate)
		if err != nil {
			return nil, errors.Wrap(err, "default cutoff date")
		}
	}
	return &LithologyUpgrader{base: b, cutoff: cutoff}, nil
}

// Upgrade implements Upgrader.
func (u *LithologyUpgrader) Upgrade() error {
	if u.model.Size(types.LithotypeIoTbl) == 0 {
		u.log.Info("no lithotype, nothing to upgrade")
		return nil
	}
	if err := u.renameLegacy(); err != nil {
		return err
	}
	lithologies, err := u.model.Lithologies()
	if err != nil {
		return err
	}
	for _, l := range lithologies {
		if err := u.upgradeLithology(l); err != nil {
			return errors.Wrapf(err, "lithotype %q", l.Name)
		}
	}
	return nil
}

func (u *LithologyUpgrader) renameLegacy() error {
	for _, ref := range lithologyRefs {
		rows, err := u.model.Rows(ref.table)
		if err != nil {
			return err
		}
		for _, row := range rows {
			name, err := u.optionalString(ref.table, row, ref.column)
			if err != nil {
				return err
			}
			current := CurrentLithologyName(name)
			if current == name {
				continue
			}
			if err := u.model.SetString(ref.table, row, ref.column, current); err != nil {
				return err
			}
			u.log.Info("lithology renamed", "table", ref.table, "column", ref.column, "from", name, "to", current)
		}
	}
	return nil
}

func (u *LithologyUpgrader) upgradeLithology(l model.Lithology) error {
	log := u.log.With("lithotype", l.Name)
	p := l.Porosity

	switch {
	case p.Model != model.PorositySoilMechanics:
	case IsStandardLithology(l.Name):
		def, ok := activeCalibration.standard[l.Name]
		if !ok {
			return errors.ErrNoPorosityMapping.Newf("no default porosity model for %q", l.Name)
		}
		p = def
		log.Info("standard porosity model substituted", "model", p.Model)
	default:
		// parentage only matters to the conversion
		parent, err := u.Parent(l)
		if err != nil {
			return err
		}
		converted, err := convertSoilMechanics(p, parent)
		if err != nil {
			return err
		}
		log.Info("porosity model converted", "parent", parent,
			"from", model.PorositySoilMechanics, "to", converted.Model)
		p = converted
	}

	if clipped := clipPorosity(p); clipped != p {
		log.Info("porosity parameters clipped")
		p = clipped
	}
	if p != l.Porosity {
		if err := u.model.SetPorosity(l.Row, p); err != nil {
			return err
		}
	}
	return u.clipPermeability(l)
}

func (u *LithologyUpgrader) clipPermeability(l model.Lithology) error {
	for _, c := range []struct {
		column string
		value  float64
		lo, hi float64
	}{
		{model.ColDepoPerm, l.DepoPerm, MinDepoPerm, MaxDepoPerm},
		{model.ColPermAnisotropy, l.PermAnisotropy, MinPermAnisotropy, MaxPermAnisotropy},
	} {
		if c.value == types.UndefinedFloat {
			continue
		}
		x := Clip(c.value, c.lo, c.hi)
		if x == c.value {
			continue
		}
		if err := u.model.SetFloat(types.LithotypeIoTbl, l.Row, c.column, x); err != nil {
			return err
		}
		u.log.Info("value clipped", "lithotype", l.Name, "property", c.column, "from", c.value, "to", x)
	}
	return nil
}

// Parent returns the current name of the standard lithology a user
// lithology was derived from. The name is tried first, then the
// description. An unresolved lithology defined before the cutoff date gets
// an empty parent; one defined later, or with no readable date, is an
// error.
func (u *LithologyUpgrader) Parent(l model.Lithology) (string, error) {
	if p, ok := parentByPrefix(l.Name); ok {
		return p, nil
	}
	if p, ok := parentByDescription(l.Description); ok {
		u.log.Debug("parent resolved from description", "lithotype", l.Name, "parent", p)
		return p, nil
	}
	date, ok := parseDefinitionDate(l.DefinitionDate)
	if !ok {
		return "", errors.ErrUndatedLithology.Newf("%q has no parent and no readable definition date %q", l.Name, l.DefinitionDate)
	}
	if !date.Before(u.cutoff) {
		return "", errors.ErrUndatedLithology.Newf("%q has no parent and was defined on %s", l.Name, date.Format(types.CutoffDateLayout))
	}
	u.log.Warn("no parent lithology, converting without one", "lithotype", l.Name, "defined", date.Format(types.CutoffDateLayout))
	return "", nil
}

func parentByPrefix(name string) (string, bool) {
	for _, c := range parentCandidates {
		if strings.HasPrefix(name, c) {
			return CurrentLithologyName(c), true
		}
	}
	return "", false
}

func parentByDescription(desc string) (string, bool) {
	if desc == "" {
		return "", false
	}
	for _, c := range parentCandidates {
		if strings.Contains(desc, c) {
			return CurrentLithologyName(c), true
		}
	}
	return "", false
}

func parseDefinitionDate(s string) (time.Time, bool) {
	s = strings.Join(strings.Fields(s), " ")
	for _, layout := range definitionDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
