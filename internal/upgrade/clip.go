package upgrade

import (
	"math"

	"github.com/mesh-intelligence/prograde/pkg/types"
)

// Clip returns x limited to [lo, hi].
func Clip(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// field is a scalar property that may be overridden by a map: when the map
// column holds a name the scalar is meaningless.
type field struct {
	table   string
	value   string
	grid    string
	lo, hi  float64
	ageCol  string // set for time series
	comment string
}

var (
	crustThickness = field{
		table: types.CrustIoTbl, value: "Thickness", grid: "ThicknessGrid",
		lo: 0, hi: 6300000, ageCol: "Age", comment: "crust thickness",
	}
	contCrustThickness = field{
		table: types.ContCrustalThicknessIoTbl, value: "Thickness", grid: "ThicknessGrid",
		lo: 0, hi: 6300000, ageCol: "Age", comment: "continental crust thickness",
	}
	oceaCrustThickness = field{
		table: types.OceaCrustalThicknessIoTbl, value: "Thickness", grid: "ThicknessGrid",
		lo: 0, hi: 6300000, ageCol: "Age", comment: "oceanic crust thickness",
	}
	basaltThickness = field{
		table: types.BasaltThicknessIoTbl, value: "Thickness", grid: "ThicknessGrid",
		lo: 0, hi: 6300000, ageCol: "Age", comment: "basalt thickness",
	}
	mantleHeatFlow = field{
		table: types.MntlHeatFlowIoTbl, value: "HeatFlow", grid: "HeatFlowGrid",
		lo: 0, hi: 1000, ageCol: "Age", comment: "mantle heat flow",
	}
	topCrustHeatProd = field{
		table: types.BasementIoTbl, value: "TopCrustHeatProd", grid: "TopCrustHeatProdGrid",
		lo: 0, hi: 1000, comment: "top crust heat production",
	}
)

// checkRange validates every row of f.table. A row with a map gets its
// scalar set to undefined and the map range is only reported; a scalar
// outside the bounds is clipped.
func (b base) checkRange(f field) error {
	rows, err := b.model.Rows(f.table)
	if err != nil {
		return err
	}
	log := b.log.With("table", f.table, "property", f.value)
	for _, row := range rows {
		grid, err := b.optionalString(f.table, row, f.grid)
		if err != nil {
			return err
		}
		x, err := b.model.Float(f.table, row, f.value)
		if err != nil {
			return err
		}

		if grid != "" {
			if x != types.UndefinedFloat {
				if err := b.model.SetFloat(f.table, row, f.value, types.UndefinedFloat); err != nil {
					return err
				}
				log.Info("scalar overridden by map set to undefined", "from", x, "map", grid)
			}
			b.checkMapRange(f, grid)
			continue
		}

		if x == types.UndefinedFloat {
			continue
		}
		if c := Clip(x, f.lo, f.hi); c != x {
			if err := b.model.SetFloat(f.table, row, f.value, c); err != nil {
				return err
			}
			log.Info("value clipped", "from", x, "to", c, "min", f.lo, "max", f.hi)
		}
	}
	return nil
}

// checkMapRange reports a map whose values leave the bounds of f. Maps are
// never modified.
func (b base) checkMapRange(f field, name string) {
	id, err := b.model.Maps().FindID(name)
	if err != nil {
		b.log.Warn("map not found", "table", f.table, "map", name)
		return
	}
	lo, hi, err := b.model.Maps().ValueRange(id)
	if err != nil {
		b.log.Warn("map has no value", "table", f.table, "map", name)
		return
	}
	if lo < f.lo || hi > f.hi {
		b.log.Warn("map values out of range", "table", f.table, "map", name,
			"map_min", lo, "map_max", hi, "min", f.lo, "max", f.hi)
	}
}
