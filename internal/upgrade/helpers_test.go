package upgrade

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/prograde/internal/model/modeltest"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

var undef = types.UndefinedFloat

func testBase(t *testing.T, f *modeltest.Fixture) base {
	t.Helper()
	b, err := newBase("test", f.Model, NewWorklist())
	require.NoError(t, err)
	return b
}

func reconcile(t *testing.T, f *modeltest.Fixture, w *Worklist) {
	t.Helper()
	r, err := NewReconciler(f.Model, w)
	require.NoError(t, err)
	require.NoError(t, r.Upgrade())
}

// stratigraphy adds one StratIoTbl row per deposition age, youngest first.
func stratigraphy(f *modeltest.Fixture, ages ...float64) {
	for _, a := range ages {
		f.Add(types.StratIoTbl, modeltest.Row{"DepoAge": a})
	}
}
