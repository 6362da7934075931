package upgrade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/prograde/internal/model"
	"github.com/mesh-intelligence/prograde/internal/model/modeltest"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

func runBottomBoundary(t *testing.T, f *modeltest.Fixture) *Worklist {
	t.Helper()
	w := NewWorklist()
	u, err := NewBottomBoundaryUpgrader(f.Model, w)
	require.NoError(t, err)
	require.NoError(t, u.Upgrade())
	return w
}

func TestFixedHeatFlow(t *testing.T) {
	f := modeltest.New(t)
	f.Add(types.BasementIoTbl, modeltest.Row{model.ColBottomBoundaryModel: model.BottomBoundaryFixedHeatFlow})
	stratigraphy(f, 0, 100)

	h := types.MntlHeatFlowIoTbl
	f.Grid(h, "HF200", 40, 80)
	f.Add(h, modeltest.Row{"Age": 0.0, "HeatFlow": 1500.0})
	f.Add(h, modeltest.Row{"Age": 50.0, "HeatFlow": 60.0})
	f.Add(h, modeltest.Row{"Age": 200.0, "HeatFlow": 45.0, "HeatFlowGrid": "HF200"})

	f.Grid(types.CrustIoTbl, "Crust", 1, 2)
	crustRow(f, 0, undef, "Crust")

	w := runBottomBoundary(t, f)
	assert.Equal(t, []float64{0, 50, 100}, f.Floats(h, "Age"))
	assert.Equal(t, []float64{1000, 60, undef}, f.Floats(h, "HeatFlow"))
	assert.Equal(t, []string{"", "", "InterpolatedMap_100.000000"}, f.Strings(h, "HeatFlowGrid"))
	assert.Zero(t, f.Model.Size(types.CrustIoTbl))

	reconcile(t, f, w)
	assert.Equal(t, []string{"MntlHeatFlowIoTbl/InterpolatedMap_100.000000"}, f.Refs())
}

func TestFixedTemperature(t *testing.T) {
	f := modeltest.New(t)
	f.Grid(types.BasementIoTbl, "HP", 1, 2)
	f.Add(types.BasementIoTbl, modeltest.Row{
		model.ColBottomBoundaryModel:  model.BottomBoundaryFixedTemperature,
		model.ColTopCrustHeatProd:     3.0,
		model.ColTopCrustHeatProdGrid: "HP",
	})
	stratigraphy(f, 0, 100)
	crustRow(f, 0, 35000, "")
	crustRow(f, 200, 25000, "")
	f.Grid(types.MntlHeatFlowIoTbl, "HF", 1, 2)
	f.Add(types.MntlHeatFlowIoTbl, modeltest.Row{"Age": 0.0, "HeatFlowGrid": "HF"})

	w := runBottomBoundary(t, f)
	assert.Equal(t, []float64{0, 100}, f.Floats(types.CrustIoTbl, "Age"))
	assert.Equal(t, []float64{35000, 30000}, f.Floats(types.CrustIoTbl, "Thickness"))
	assert.Zero(t, f.Model.Size(types.MntlHeatFlowIoTbl))
	assert.Equal(t, undef, f.Cell(types.BasementIoTbl, 0, model.ColTopCrustHeatProd).AsFloat())

	reconcile(t, f, w)
	assert.Equal(t, []string{"BasementIoTbl/HP"}, f.Refs())
}

func TestImprovedALCOnlyChecksRanges(t *testing.T) {
	f := modeltest.New(t)
	f.Add(types.BasementIoTbl, modeltest.Row{model.ColBottomBoundaryModel: model.BottomBoundaryImprovedALC})
	stratigraphy(f, 0, 100)
	f.Add(types.ContCrustalThicknessIoTbl, modeltest.Row{"Age": 0.0, "Thickness": -5.0})
	f.Add(types.ContCrustalThicknessIoTbl, modeltest.Row{"Age": 300.0, "Thickness": 30000.0})

	w := runBottomBoundary(t, f)
	assert.Equal(t, []float64{0, 30000}, f.Floats(types.ContCrustalThicknessIoTbl, "Thickness"))
	assert.Zero(t, w.Len())
}

func TestBottomBoundaryWithoutBasement(t *testing.T) {
	f := modeltest.New(t)
	crustRow(f, 0, 35000, "")
	w := runBottomBoundary(t, f)
	assert.Equal(t, 1, f.Model.Size(types.CrustIoTbl))
	assert.Zero(t, w.Len())
}
