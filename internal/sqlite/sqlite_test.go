package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/prograde/internal/gridmap"
	"github.com/mesh-intelligence/prograde/internal/tablestore"
	"github.com/mesh-intelligence/prograde/pkg/errors"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

func sampleProject(t *testing.T) (*tablestore.Store, *gridmap.Store) {
	t.Helper()
	s := tablestore.New()
	require.NoError(t, s.CreateTable("StratIoTbl", []types.Column{
		{Name: "SurfaceName", Kind: types.KindString},
		{Name: "DepoAge", Kind: types.KindFloat},
		{Name: "LayeringIndex", Kind: types.KindInt},
	}))
	require.NoError(t, s.CreateTable("EmptyIoTbl", []types.Column{
		{Name: "Value", Kind: types.KindFloat},
	}))

	for _, r := range []struct {
		name  string
		age   float64
		index int64
	}{{"Top", 0, 1}, {"Middle", 50.5, -9999}, {"Base", 120, 3}} {
		id, err := s.AddRow("StratIoTbl")
		require.NoError(t, err)
		require.NoError(t, s.SetValue("StratIoTbl", id, "SurfaceName", types.String(r.name)))
		require.NoError(t, s.SetValue("StratIoTbl", id, "DepoAge", types.Float(r.age)))
		require.NoError(t, s.SetValue("StratIoTbl", id, "LayeringIndex", types.Int(r.index)))
	}
	// A row left entirely undefined.
	_, err := s.AddRow("StratIoTbl")
	require.NoError(t, err)

	g := gridmap.NewStore()
	grid, err := gridmap.NewGrid(2, 2, []float64{1.5, gridmap.UndefinedValue, -3, 4e6})
	require.NoError(t, err)
	_, err = g.Put("Depth_0", grid)
	require.NoError(t, err)
	grid, err = gridmap.NewGrid(1, 3, []float64{7, 8, 9})
	require.NoError(t, err)
	_, err = g.Put("Depth_120", grid)
	require.NoError(t, err)
	return s, g
}

func column(t *testing.T, s *tablestore.Store, table, col string) []types.Value {
	t.Helper()
	rows, err := s.Rows(table)
	require.NoError(t, err)
	var out []types.Value
	for _, r := range rows {
		v, err := s.Value(table, r, col)
		require.NoError(t, err)
		out = append(out, v)
	}
	return out
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, g := sampleProject(t)
	path := filepath.Join(t.TempDir(), "project.db")
	require.NoError(t, Save(path, s, g))

	gotS, gotG, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, s.Tables(), gotS.Tables())
	for _, table := range s.Tables() {
		wantCols, err := s.Columns(table)
		require.NoError(t, err)
		gotCols, err := gotS.Columns(table)
		require.NoError(t, err)
		assert.Equal(t, wantCols, gotCols, table)
		for _, c := range wantCols {
			assert.Equal(t, column(t, s, table, c.Name), column(t, gotS, table, c.Name), "%s.%s", table, c.Name)
		}
	}

	assert.Equal(t, g.Names(), gotG.Names())
	for _, name := range g.Names() {
		wantID, err := g.FindID(name)
		require.NoError(t, err)
		want, err := g.Grid(wantID)
		require.NoError(t, err)
		gotID, err := gotG.FindID(name)
		require.NoError(t, err)
		got, err := gotG.Grid(gotID)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}

func TestSaveKeepsUndefinedCells(t *testing.T) {
	s, g := sampleProject(t)
	path := filepath.Join(t.TempDir(), "project.sqlite")
	require.NoError(t, Save(path, s, g))

	gotS, _, err := Load(path)
	require.NoError(t, err)
	n, err := gotS.Size("StratIoTbl")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	ages := column(t, gotS, "StratIoTbl", "DepoAge")
	assert.True(t, ages[3].IsUndefined())
	indices := column(t, gotS, "StratIoTbl", "LayeringIndex")
	assert.Equal(t, types.UndefinedInt, indices[1].AsInt())
}

func TestSaveReplacesExistingFile(t *testing.T) {
	s, g := sampleProject(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "project.db")
	require.NoError(t, os.WriteFile(path, []byte("not a database"), 0o644))

	require.NoError(t, Save(path, s, g))
	_, _, err := Load(path)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "absent.db"))
	require.Error(t, err)
	assert.True(t, errors.ErrIO.Is(err))
	assert.Equal(t, -1, errors.ExitCode(err))
}

func TestUnpackNodesRejectsTruncatedBlob(t *testing.T) {
	_, err := unpackNodes(make([]byte, 12))
	assert.True(t, errors.ErrIO.Is(err))

	values, err := unpackNodes(packNodes([]float64{0, -1.25, gridmap.UndefinedValue}))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, -1.25, gridmap.UndefinedValue}, values)
}
