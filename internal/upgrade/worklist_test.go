package upgrade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/prograde/internal/model/modeltest"
	"github.com/mesh-intelligence/prograde/pkg/errors"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

func TestWorklistRejectsAfterDrain(t *testing.T) {
	w := NewWorklist()
	require.NoError(t, w.Add(types.CrustIoTbl, "A"))
	require.NoError(t, w.AddAll(types.MntlHeatFlowIoTbl))
	assert.Equal(t, []Release{
		{Table: types.CrustIoTbl, Map: "A"},
		{Table: types.MntlHeatFlowIoTbl, All: true},
	}, w.Entries())

	assert.Len(t, w.drain(), 2)
	assert.True(t, w.Drained())
	assert.Zero(t, w.Len())

	err := w.Add(types.CrustIoTbl, "B")
	assert.True(t, errors.ErrValidation.Is(err))
	assert.True(t, errors.ErrValidation.Is(w.AddAll(types.CrustIoTbl)))
}

func TestWorklistRejectsEmptyMapName(t *testing.T) {
	w := NewWorklist()
	assert.True(t, errors.ErrValidation.Is(w.Add(types.CrustIoTbl, "")))
	assert.Zero(t, w.Len())
}

func TestReconcilerRemovesReleasedReferences(t *testing.T) {
	f := modeltest.New(t)
	f.Grid(types.CrustIoTbl, "A", 1)
	f.Grid(types.CrustIoTbl, "B", 2)
	f.Grid(types.MntlHeatFlowIoTbl, "A", 1)
	f.Grid(types.MntlHeatFlowIoTbl, "C", 3)
	f.Grid(types.SurfaceTempIoTbl, "D", 4)

	w := NewWorklist()
	require.NoError(t, w.Add(types.CrustIoTbl, "A"))
	require.NoError(t, w.AddAll(types.MntlHeatFlowIoTbl))
	require.NoError(t, w.Add(types.SurfaceTempIoTbl, "unknown"))
	reconcile(t, f, w)

	assert.Equal(t, []string{"CrustIoTbl/B", "SurfaceTempIoTbl/D"}, f.Refs())
	assert.True(t, f.Grids.Has("A"), "grids outlive their registry rows")
}

func TestReconcilerRunsOnce(t *testing.T) {
	f := modeltest.New(t)
	w := NewWorklist()
	r, err := NewReconciler(f.Model, w)
	require.NoError(t, err)
	require.NoError(t, r.Upgrade())
	assert.True(t, errors.ErrValidation.Is(r.Upgrade()))
}

func TestNewBaseValidatesArguments(t *testing.T) {
	f := modeltest.New(t)
	_, err := NewReconciler(f.Model, nil)
	assert.True(t, errors.ErrInvalidArgument.Is(err))

	_, err = NewReconciler(nil, NewWorklist())
	assert.True(t, errors.ErrInvalidArgument.Is(err))
}
