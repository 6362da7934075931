package upgrade

import (
	"github.com/mesh-intelligence/prograde/pkg/types"
)

// removeRows deletes rows of table and queues the release of every map that
// only the deleted rows used.
func (b base) removeRows(table string, gridCols []string, doomed []types.RowID) error {
	if len(doomed) == 0 {
		return nil
	}
	store, err := b.model.Store()
	if err != nil {
		return err
	}

	var released []string
	seen := make(map[string]bool)
	for _, row := range doomed {
		names, err := b.mapNames(table, row, gridCols)
		if err != nil {
			return err
		}
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				released = append(released, n)
			}
		}
	}
	for _, row := range doomed {
		if err := store.RemoveRow(table, row); err != nil {
			return err
		}
	}

	survivors, err := b.model.Rows(table)
	if err != nil {
		return err
	}
	for _, row := range survivors {
		names, err := b.mapNames(table, row, gridCols)
		if err != nil {
			return err
		}
		for _, n := range names {
			seen[n] = false
		}
	}
	for _, n := range released {
		if !seen[n] {
			continue
		}
		if err := b.worklist.Add(table, n); err != nil {
			return err
		}
		b.log.Debug("map released", "table", table, "map", n)
	}
	return nil
}

func (b base) mapNames(table string, row types.RowID, gridCols []string) ([]string, error) {
	var names []string
	for _, col := range gridCols {
		n, err := b.optionalString(table, row, col)
		if err != nil {
			return nil, err
		}
		if n != "" {
			names = append(names, n)
		}
	}
	return names, nil
}

// removeRowsOlderThan deletes the rows of a time series older than age.
func (b base) removeRowsOlderThan(f field, age float64) error {
	rows, err := b.model.Rows(f.table)
	if err != nil {
		return err
	}
	var doomed []types.RowID
	for _, row := range rows {
		a, err := b.model.Float(f.table, row, f.ageCol)
		if err != nil {
			return err
		}
		if a != types.UndefinedFloat && a > age {
			doomed = append(doomed, row)
		}
	}
	if len(doomed) > 0 {
		b.log.Info("rows older than basement removed", "table", f.table, "age", age, "rows", len(doomed))
	}
	return b.removeRows(f.table, []string{f.grid}, doomed)
}

// clearTable deletes every row of table and releases all its maps. An
// absent or empty table is left alone.
func (b base) clearTable(table string) error {
	n := b.model.Size(table)
	if n == 0 {
		return nil
	}
	store, err := b.model.Store()
	if err != nil {
		return err
	}
	if err := store.ClearTable(table); err != nil {
		return err
	}
	if err := b.worklist.AddAll(table); err != nil {
		return err
	}
	b.log.Info("table cleared", "table", table, "rows", n)
	return nil
}
