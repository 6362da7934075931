// Package model is the typed view of a loaded project used by the upgrade
// steps: cell accessors that tolerate absent tables, subsystem getters and
// setters, and the raster map manager.
package model

import (
	"github.com/mesh-intelligence/prograde/internal/gridmap"
	"github.com/mesh-intelligence/prograde/pkg/errors"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

// Model wraps the table store and the grid store of one project.
type Model struct {
	store types.Store
	grids *gridmap.Store
	maps  *Maps
}

// New builds a model over a loaded project. A nil grid store is replaced by
// an empty one.
func New(store types.Store, grids *gridmap.Store) (*Model, error) {
	if store == nil {
		return nil, errors.ErrInvalidArgument.New("model without table store")
	}
	if grids == nil {
		grids = gridmap.NewStore()
	}
	m := &Model{store: store, grids: grids}
	m.maps = &Maps{model: m}
	return m, nil
}

// Store returns the backing table store. It fails for a Model that was not
// built with New.
func (m *Model) Store() (types.Store, error) {
	if m == nil || m.store == nil {
		return nil, errors.ErrInvalidArgument.New("model is not loaded")
	}
	return m.store, nil
}

// Grids returns the grid store.
func (m *Model) Grids() *gridmap.Store { return m.grids }

// Maps returns the raster map manager.
func (m *Model) Maps() *Maps { return m.maps }

// HasTable reports whether the project declares table.
func (m *Model) HasTable(table string) bool {
	return m.store.HasTable(table)
}

// EnsureTable declares table with columns, extending it when it exists.
func (m *Model) EnsureTable(table string, columns []types.Column) error {
	return m.store.CreateTable(table, columns)
}

// Rows returns a snapshot of the row ids of table. An absent table has no
// rows.
func (m *Model) Rows(table string) ([]types.RowID, error) {
	if !m.store.HasTable(table) {
		return nil, nil
	}
	return m.store.Rows(table)
}

// Size returns the number of rows of table, zero when absent.
func (m *Model) Size(table string) int {
	if !m.store.HasTable(table) {
		return 0
	}
	n, _ := m.store.Size(table)
	return n
}

// HasColumn reports whether table declares column.
func (m *Model) HasColumn(table, column string) bool {
	cols, err := m.store.Columns(table)
	if err != nil {
		return false
	}
	for _, c := range cols {
		if c.Name == column {
			return true
		}
	}
	return false
}

// Float reads a numeric cell.
func (m *Model) Float(table string, row types.RowID, column string) (float64, error) {
	v, err := m.store.Value(table, row, column)
	if err != nil {
		return types.UndefinedFloat, err
	}
	return v.AsFloat(), nil
}

// Int reads an integer cell.
func (m *Model) Int(table string, row types.RowID, column string) (int64, error) {
	v, err := m.store.Value(table, row, column)
	if err != nil {
		return types.UndefinedInt, err
	}
	return v.AsInt(), nil
}

// String reads a string cell.
func (m *Model) String(table string, row types.RowID, column string) (string, error) {
	v, err := m.store.Value(table, row, column)
	if err != nil {
		return types.UndefinedString, err
	}
	return v.AsString(), nil
}

// SetFloat writes a numeric cell.
func (m *Model) SetFloat(table string, row types.RowID, column string, x float64) error {
	return m.store.SetValue(table, row, column, types.Float(x))
}

// SetInt writes an integer cell.
func (m *Model) SetInt(table string, row types.RowID, column string, x int64) error {
	return m.store.SetValue(table, row, column, types.Int(x))
}

// SetString writes a string cell.
func (m *Model) SetString(table string, row types.RowID, column string, s string) error {
	return m.store.SetValue(table, row, column, types.String(s))
}

// FirstRow returns the first row of a single-record table such as
// BasementIoTbl.
func (m *Model) FirstRow(table string) (types.RowID, error) {
	if !m.store.HasTable(table) {
		return types.RowID{}, errors.ErrNonexistingID.Newf("table %s", table)
	}
	return m.store.Row(table, 0)
}
