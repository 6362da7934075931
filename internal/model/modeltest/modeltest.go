// Package modeltest builds in-memory projects for tests.
package modeltest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/prograde/internal/gridmap"
	"github.com/mesh-intelligence/prograde/internal/model"
	"github.com/mesh-intelligence/prograde/internal/tablestore"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

// Row is the cell content of a fixture row. Values are float64, int, int64
// or string.
type Row map[string]any

// Fixture is a project under construction.
type Fixture struct {
	t     *testing.T
	Store *tablestore.Store
	Grids *gridmap.Store
	Model *model.Model
}

// New returns an empty project. Pass table names to declare them with their
// standard columns.
func New(t *testing.T, tables ...string) *Fixture {
	t.Helper()
	f := &Fixture{t: t, Store: tablestore.New(), Grids: gridmap.NewStore()}
	m, err := model.New(f.Store, f.Grids)
	require.NoError(t, err)
	f.Model = m
	for _, name := range tables {
		f.Table(name)
	}
	return f
}

// Table declares a standard table.
func (f *Fixture) Table(name string) *Fixture {
	f.t.Helper()
	cols, ok := model.Schemas[name]
	require.True(f.t, ok, "no standard schema for %s", name)
	require.NoError(f.t, f.Store.CreateTable(name, cols))
	return f
}

// Add appends a row to a standard table, declaring it when needed.
func (f *Fixture) Add(table string, row Row) types.RowID {
	f.t.Helper()
	if !f.Store.HasTable(table) {
		f.Table(table)
	}
	id, err := f.Store.AddRow(table)
	require.NoError(f.t, err)
	for col, v := range row {
		require.NoError(f.t, f.Store.SetValue(table, id, col, value(v)), "%s.%s", table, col)
	}
	return id
}

// Grid stores a 1-row grid and registers it against table when table is not
// empty.
func (f *Fixture) Grid(table, name string, values ...float64) gridmap.ID {
	f.t.Helper()
	g, err := gridmap.NewGrid(len(values), 1, values)
	require.NoError(f.t, err)
	if table == "" {
		id, err := f.Grids.Put(name, g)
		require.NoError(f.t, err)
		return id
	}
	id, err := f.Model.Maps().Generate(table, name, g)
	require.NoError(f.t, err)
	return id
}

// Floats returns one numeric column of a table in row order.
func (f *Fixture) Floats(table, column string) []float64 {
	f.t.Helper()
	rows, err := f.Model.Rows(table)
	require.NoError(f.t, err)
	out := make([]float64, 0, len(rows))
	for _, id := range rows {
		x, err := f.Model.Float(table, id, column)
		require.NoError(f.t, err)
		out = append(out, x)
	}
	return out
}

// Strings returns one string column of a table in row order.
func (f *Fixture) Strings(table, column string) []string {
	f.t.Helper()
	rows, err := f.Model.Rows(table)
	require.NoError(f.t, err)
	out := make([]string, 0, len(rows))
	for _, id := range rows {
		s, err := f.Model.String(table, id, column)
		require.NoError(f.t, err)
		out = append(out, s)
	}
	return out
}

// Refs returns the registry as "table/map" strings in row order.
func (f *Fixture) Refs() []string {
	f.t.Helper()
	refs, err := f.Model.Maps().References()
	require.NoError(f.t, err)
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.ReferredBy+"/"+r.MapName)
	}
	return out
}

// Cell reads one cell.
func (f *Fixture) Cell(table string, index int, column string) types.Value {
	f.t.Helper()
	id, err := f.Store.Row(table, index)
	require.NoError(f.t, err)
	v, err := f.Store.Value(table, id, column)
	require.NoError(f.t, err)
	return v
}

func value(v any) types.Value {
	switch x := v.(type) {
	case float64:
		return types.Float(x)
	case int:
		return types.Int(int64(x))
	case int64:
		return types.Int(x)
	case string:
		return types.String(x)
	case types.Value:
		return x
	}
	panic("modeltest: unsupported cell type")
}
