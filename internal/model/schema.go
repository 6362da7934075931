package model

import "github.com/mesh-intelligence/prograde/pkg/types"

func floats(names ...string) []types.Column {
	cols := make([]types.Column, len(names))
	for i, n := range names {
		cols[i] = types.Column{Name: n, Kind: types.KindFloat}
	}
	return cols
}

func strs(names ...string) []types.Column {
	cols := make([]types.Column, len(names))
	for i, n := range names {
		cols[i] = types.Column{Name: n, Kind: types.KindString}
	}
	return cols
}

func join(parts ...[]types.Column) []types.Column {
	var out []types.Column
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Schemas declares the columns of the tables the upgrade steps touch. Tables
// created by a step, such as OceaCrustalThicknessIoTbl, are declared from
// here.
var Schemas = map[string][]types.Column{
	types.GridMapIoTbl: types.GridMapColumns,
	types.BasementIoTbl: join(
		strs(ColBottomBoundaryModel),
		floats(ColTopAsthenoTemp, ColTopCrustHeatProd),
		strs(ColTopCrustHeatProdGrid),
		floats(ColLithoMantleThickness, ColInitialLthMntThickns, ColFixedCrustThickness, ColInitialLithosphericMantleThickness),
		strs(ColCrustPropertyModel, ColMantlePropertyModel, ColBasaltThicknessGrid, ColCrustThicknessMeltOnsetGrid),
	),
	types.CrustIoTbl:                join(floats("Age", "Thickness"), strs("ThicknessGrid")),
	types.ContCrustalThicknessIoTbl: join(floats("Age", "Thickness"), strs("ThicknessGrid")),
	types.OceaCrustalThicknessIoTbl: join(floats("Age", "Thickness"), strs("ThicknessGrid")),
	types.BasaltThicknessIoTbl:      join(floats("Age", "Thickness"), strs("ThicknessGrid")),
	types.MntlHeatFlowIoTbl:         join(floats("Age", "HeatFlow"), strs("HeatFlowGrid")),
	types.SnapshotIoTbl:             join(floats("Time"), strs("TypeOfSnapshot")),
	types.StratIoTbl: join(
		strs(ColSurfaceName, ColLayerName),
		floats(ColDepoAge, ColDepth, ColThickness),
		strs(ColMixModel),
		floats(ColLayeringIndex),
		[]types.Column{{Name: ColChemicalCompaction, Kind: types.KindInt}},
		strs(ColFluidtype, "Lithotype1", "Lithotype2", "Lithotype3"),
	),
	types.RunOptionsIoTbl: join(
		[]types.Column{{Name: ColChemicalCompaction, Kind: types.KindInt}},
		strs(ColPTCouplingMode),
	),
	types.LithotypeIoTbl: join(
		strs(ColLithotype, ColDescription, ColDefinedBy, ColDefinitionDate, ColPorosityModel),
		floats(ColSurfacePorosity, ColCompacCoefES, ColCompacCoefESA, ColCompacCoefESB, ColCompactionCoefficientSM, ColMinimumPorosity, ColCompacRatioES),
		strs(ColPermMixModel),
		floats(ColDepoPerm, ColPermAnisotropy),
	),
	types.PressureFaultcutIoTbl:       strs("FaultcutsMap", "FaultName", "FaultLithology"),
	types.SurfaceTempIoTbl:            join(floats("Age", "Temperature"), strs("TemperatureGrid")),
	types.SurfaceDepthIoTbl:           join(floats("Age", "Depth"), strs("DepthGrid")),
	types.CTCIoTbl:                    strs(ColSurfaceName),
	types.PalinspasticIoTbl:           strs(ColSurfaceName, "BottomFormationName"),
	types.TwoWayTimeIoTbl:             strs(ColSurfaceName),
	types.MobLayThicknIoTbl:           strs(ColLayerName),
	types.AllochthonLithoIoTbl:        strs(ColLayerName, ColLithotype),
	types.AllochthonLithoDistribIoTbl: strs(ColLayerName),
	types.AllochthonLithoInterpIoTbl:  strs(ColLayerName),
	types.SourceRockLithoIoTbl:        strs(ColLayerName),
	types.FluidtypeIoTbl:              strs(ColFluidtype),
}

// EnsureStandardTable declares table with its standard columns.
func (m *Model) EnsureStandardTable(table string) error {
	return m.EnsureTable(table, Schemas[table])
}
