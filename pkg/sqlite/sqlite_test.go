package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/prograde/internal/gridmap"
	"github.com/mesh-intelligence/prograde/internal/sqlite"
	"github.com/mesh-intelligence/prograde/internal/tablestore"
	"github.com/mesh-intelligence/prograde/pkg/errors"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

func TestOpen(t *testing.T) {
	s := tablestore.New()
	require.NoError(t, s.CreateTable(types.StratIoTbl, []types.Column{
		{Name: "SurfaceName", Kind: types.KindString},
	}))
	row, err := s.AddRow(types.StratIoTbl)
	require.NoError(t, err)
	require.NoError(t, s.SetValue(types.StratIoTbl, row, "SurfaceName", types.String("Top")))

	path := filepath.Join(t.TempDir(), "basin.db")
	require.NoError(t, sqlite.Save(path, s, gridmap.NewStore()))

	store, err := Open(path)
	require.NoError(t, err)
	id, err := store.Row(types.StratIoTbl, 0)
	require.NoError(t, err)
	v, err := store.Value(types.StratIoTbl, id, "SurfaceName")
	require.NoError(t, err)
	assert.Equal(t, "Top", v.AsString())
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "none.db"))
	assert.True(t, errors.ErrIO.Is(err))
}
