package upgrade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/prograde/internal/model/modeltest"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

func TestClipAndBufferSurfaceAges(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{"two beyond buffer", []float64{1, 2, 3, 999, 1000}, []float64{1, 2, 3, 998.5, 999}},
		{"within limit", []float64{1, 2, 3, 998.6}, []float64{1, 2, 3, 998.6}},
		{"keeps positions", []float64{1200, 0, 998.5, 1100}, []float64{999, 0, 998 + 1.0/3, 998 + 2.0/3}},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClipAndBufferSurfaceAges(tt.in)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-12, "age %d", i)
			}
		})
	}
}

func TestSurfaceAgeUpgrade(t *testing.T) {
	f := modeltest.New(t)
	for _, a := range []float64{0, 500, 1100} {
		f.Add(types.SurfaceTempIoTbl, modeltest.Row{"Age": a, "Temperature": 10.0})
		f.Add(types.SurfaceDepthIoTbl, modeltest.Row{"Age": a, "Depth": 0.0})
	}
	f.Add(types.SurfaceDepthIoTbl, modeltest.Row{"Age": 998.5, "Depth": 0.0})

	u, err := NewSurfaceAgeUpgrader(f.Model, NewWorklist())
	require.NoError(t, err)
	require.NoError(t, u.Upgrade())

	assert.Equal(t, []float64{0, 500, 999}, f.Floats(types.SurfaceTempIoTbl, "Age"))
	assert.Equal(t, []float64{0, 500, 999, 998.5}, f.Floats(types.SurfaceDepthIoTbl, "Age"))
}
