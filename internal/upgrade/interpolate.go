package upgrade

import (
	"sort"
	"strconv"

	"github.com/mesh-intelligence/prograde/internal/gridmap"
	"github.com/mesh-intelligence/prograde/pkg/errors"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

// InterpolatedMapPrefix names the maps generated when a time series is
// interpolated at a new age.
const InterpolatedMapPrefix = "InterpolatedMap_"

// sample is one row of a time series.
type sample struct {
	row   types.RowID
	age   float64
	value float64
	grid  string
}

// point is the value of a time series at some age: a scalar, an existing map
// referred to by name, or a freshly computed grid.
type point struct {
	value    float64
	gridName string
	grid     *gridmap.Grid
}

// samples returns the rows of a time series sorted by age. Rows without an
// age are ignored.
func (b base) samples(f field) ([]sample, error) {
	rows, err := b.model.Rows(f.table)
	if err != nil {
		return nil, err
	}
	out := make([]sample, 0, len(rows))
	for _, row := range rows {
		age, err := b.model.Float(f.table, row, f.ageCol)
		if err != nil {
			return nil, err
		}
		if age == types.UndefinedFloat {
			continue
		}
		x, err := b.model.Float(f.table, row, f.value)
		if err != nil {
			return nil, err
		}
		grid, err := b.optionalString(f.table, row, f.grid)
		if err != nil {
			return nil, err
		}
		out = append(out, sample{row: row, age: age, value: x, grid: grid})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].age < out[j].age })
	return out, nil
}

func (s sample) point() point {
	if s.grid != "" {
		return point{value: types.UndefinedFloat, gridName: s.grid}
	}
	return point{value: s.value}
}

// valueAt evaluates a time series at age. Outside the sampled range the
// nearest sample is copied. exact reports that a sample sits at age.
func (b base) valueAt(f field, samples []sample, age float64) (p point, exact bool, err error) {
	if len(samples) == 0 {
		return point{}, false, errors.ErrNonexistingID.Newf("%s has no sample", f.table)
	}
	for _, s := range samples {
		if s.age == age {
			return s.point(), true, nil
		}
	}
	last := samples[len(samples)-1]
	if age > last.age {
		return last.point(), false, nil
	}
	if age < samples[0].age {
		return samples[0].point(), false, nil
	}

	i := sort.Search(len(samples), func(i int) bool { return samples[i].age > age }) - 1
	lo, hi := samples[i], samples[i+1]
	coeff := (age - lo.age) / (hi.age - lo.age)

	if lo.grid == "" && hi.grid == "" {
		if lo.value == types.UndefinedFloat || hi.value == types.UndefinedFloat {
			return point{}, false, errors.ErrUndefinedValue.Newf("%s between ages %g and %g", f.comment, lo.age, hi.age)
		}
		return point{value: gridmap.Lerp(lo.value, hi.value, coeff)}, false, nil
	}

	var g *gridmap.Grid
	if lo.grid != "" && hi.grid != "" {
		g, err = b.interpolateMaps(f, lo, hi, coeff)
	} else {
		g, err = b.interpolateBroadcast(f, lo, hi, coeff)
	}
	if err != nil {
		return point{}, false, err
	}
	return point{value: types.UndefinedFloat, grid: g}, false, nil
}

// interpolateMaps interpolates between two stored maps.
func (b base) interpolateMaps(f field, lo, hi sample, coeff float64) (*gridmap.Grid, error) {
	maps := b.model.Maps()
	a, err := maps.FindID(lo.grid)
	if err != nil {
		return nil, errors.Wrapf(err, "%s at age %g", f.comment, lo.age)
	}
	c, err := maps.FindID(hi.grid)
	if err != nil {
		return nil, errors.Wrapf(err, "%s at age %g", f.comment, hi.age)
	}
	g, err := maps.Interpolate(a, c, coeff)
	if err != nil {
		return nil, errors.Wrapf(err, "%s between ages %g and %g", f.comment, lo.age, hi.age)
	}
	return g, nil
}

// interpolateBroadcast interpolates between a map and a scalar, which is
// first spread into a constant grid shaped like the map.
func (b base) interpolateBroadcast(f field, lo, hi sample, coeff float64) (*gridmap.Grid, error) {
	a, err := b.sampleGrid(f, lo)
	if err != nil {
		return nil, err
	}
	c, err := b.sampleGrid(f, hi)
	if err != nil {
		return nil, err
	}
	if a == nil {
		a = gridmap.Constant(c, lo.value)
	}
	if c == nil {
		c = gridmap.Constant(a, hi.value)
	}
	g, err := gridmap.Interpolate(a, c, coeff)
	if err != nil {
		return nil, errors.Wrapf(err, "%s between ages %g and %g", f.comment, lo.age, hi.age)
	}
	return g, nil
}

// sampleGrid returns the grid of a map sample, or nil for a scalar sample.
func (b base) sampleGrid(f field, s sample) (*gridmap.Grid, error) {
	if s.grid == "" {
		if s.value == types.UndefinedFloat {
			return nil, errors.ErrUndefinedValue.Newf("%s at age %g", f.comment, s.age)
		}
		return nil, nil
	}
	id, err := b.model.Maps().FindID(s.grid)
	if err != nil {
		return nil, errors.Wrapf(err, "%s at age %g", f.comment, s.age)
	}
	return b.model.Maps().Grid(id)
}

// setPoint stores p on row of table, registering the map it uses against
// table. A computed grid that turns out constant is stored as a scalar;
// otherwise it is saved under mapName.
func (b base) setPoint(f field, table string, row types.RowID, p point, mapName string) error {
	m := b.model
	switch {
	case p.gridName != "":
		if err := m.SetString(table, row, f.grid, p.gridName); err != nil {
			return err
		}
		if err := m.SetFloat(table, row, f.value, types.UndefinedFloat); err != nil {
			return err
		}
		return m.Maps().Register(table, p.gridName)

	case p.grid != nil:
		if c, ok := p.grid.ConstantValue(); ok {
			return b.setPoint(f, table, row, point{value: c}, mapName)
		}
		name := b.uniqueMapName(mapName)
		if _, err := m.Maps().Generate(table, name, p.grid); err != nil {
			return err
		}
		if err := m.SetString(table, row, f.grid, name); err != nil {
			return err
		}
		return m.SetFloat(table, row, f.value, types.UndefinedFloat)

	default:
		if err := m.SetFloat(table, row, f.value, Clip(p.value, f.lo, f.hi)); err != nil {
			return err
		}
		if m.HasColumn(table, f.grid) {
			return m.SetString(table, row, f.grid, "")
		}
		return nil
	}
}

func (b base) uniqueMapName(name string) string {
	grids := b.model.Grids()
	if !grids.Has(name) {
		return name
	}
	for i := 1; ; i++ {
		candidate := name + "_" + strconv.Itoa(i)
		if !grids.Has(candidate) {
			return candidate
		}
	}
}

// formatAge renders an age for a generated map name with six decimals, so
// that names match those written by earlier releases.
func formatAge(age float64) string {
	return strconv.FormatFloat(age, 'f', 6, 64)
}

// interpolateAt makes sure the time series f has a row at age. Time series
// are stored youngest first, and the new row is appended, so this is only
// used for ages at or beyond the basement where older rows are removed
// right after.
func (b base) interpolateAt(f field, age float64) error {
	samples, err := b.samples(f)
	if err != nil || len(samples) == 0 {
		return err
	}
	p, exact, err := b.valueAt(f, samples, age)
	if err != nil || exact {
		return err
	}
	store, err := b.model.Store()
	if err != nil {
		return err
	}
	id, err := store.AddRow(f.table)
	if err != nil {
		return err
	}
	if err := b.model.SetFloat(f.table, id, f.ageCol, age); err != nil {
		return err
	}
	if err := b.setPoint(f, f.table, id, p, InterpolatedMapPrefix+formatAge(age)); err != nil {
		return err
	}
	b.log.Info("time series interpolated", "table", f.table, "property", f.value, "age", age)
	return nil
}
