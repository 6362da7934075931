package model

import (
	"github.com/mesh-intelligence/prograde/pkg/errors"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

// Bottom boundary model names.
const (
	BottomBoundaryFixedTemperature = "Fixed Temperature"
	BottomBoundaryFixedHeatFlow    = "Fixed HeatFlow"
	BottomBoundaryLegacyALC        = "Advanced Lithosphere Calculator"
	BottomBoundaryImprovedALC      = "Improved Lithosphere Calculator Linear Element Mode"
)

// Basement columns.
const (
	ColBottomBoundaryModel                = "BottomBoundaryModel"
	ColTopAsthenoTemp                     = "TopAsthenoTemp"
	ColTopCrustHeatProd                   = "TopCrustHeatProd"
	ColTopCrustHeatProdGrid               = "TopCrustHeatProdGrid"
	ColLithoMantleThickness               = "LithoMantleThickness"
	ColInitialLthMntThickns               = "InitialLthMntThickns"
	ColFixedCrustThickness                = "FixedCrustThickness"
	ColInitialLithosphericMantleThickness = "InitialLithosphericMantleThickness"
	ColCrustPropertyModel                 = "CrustPropertyModel"
	ColMantlePropertyModel                = "MantlePropertyModel"
	ColBasaltThicknessGrid                = "BasaltThicknessGrid"
	ColCrustThicknessMeltOnsetGrid        = "CrustThicknessMeltOnsetGrid"
)

// Stratigraphy and run option columns.
const (
	ColSurfaceName        = "SurfaceName"
	ColLayerName          = "LayerName"
	ColDepoAge            = "DepoAge"
	ColDepth              = "Depth"
	ColThickness          = "Thickness"
	ColMixModel           = "MixModel"
	ColLayeringIndex      = "LayeringIndex"
	ColChemicalCompaction = "ChemicalCompaction"
	ColFluidtype          = "Fluidtype"
	ColPTCouplingMode     = "PTCouplingMode"
)

func (m *Model) basementString(column string) (string, error) {
	row, err := m.FirstRow(types.BasementIoTbl)
	if err != nil {
		return "", err
	}
	return m.String(types.BasementIoTbl, row, column)
}

func (m *Model) setBasementString(column, value string) error {
	row, err := m.FirstRow(types.BasementIoTbl)
	if err != nil {
		return err
	}
	return m.SetString(types.BasementIoTbl, row, column, value)
}

// BottomBoundaryModel returns the bottom boundary model name.
func (m *Model) BottomBoundaryModel() (string, error) {
	return m.basementString(ColBottomBoundaryModel)
}

// SetBottomBoundaryModel stores the bottom boundary model name.
func (m *Model) SetBottomBoundaryModel(name string) error {
	return m.setBasementString(ColBottomBoundaryModel, name)
}

// CrustPropertyModel returns the crust property model name.
func (m *Model) CrustPropertyModel() (string, error) {
	return m.basementString(ColCrustPropertyModel)
}

// SetCrustPropertyModel stores the crust property model name.
func (m *Model) SetCrustPropertyModel(name string) error {
	return m.setBasementString(ColCrustPropertyModel, name)
}

// MantlePropertyModel returns the mantle property model name.
func (m *Model) MantlePropertyModel() (string, error) {
	return m.basementString(ColMantlePropertyModel)
}

// SetMantlePropertyModel stores the mantle property model name.
func (m *Model) SetMantlePropertyModel(name string) error {
	return m.setBasementString(ColMantlePropertyModel, name)
}

// BasementAge returns the deposition age of the last stratigraphy row.
func (m *Model) BasementAge() (float64, error) {
	n := m.Size(types.StratIoTbl)
	if n == 0 {
		return types.UndefinedFloat, errors.ErrNonexistingID.New("stratigraphy has no layer")
	}
	row, err := m.store.Row(types.StratIoTbl, n-1)
	if err != nil {
		return types.UndefinedFloat, err
	}
	age, err := m.Float(types.StratIoTbl, row, ColDepoAge)
	if err != nil {
		return types.UndefinedFloat, err
	}
	if age == types.UndefinedFloat {
		return age, errors.ErrUndefinedValue.New("basement deposition age")
	}
	return age, nil
}

// PTCouplingMode returns the pressure-temperature coupling mode of the run.
func (m *Model) PTCouplingMode() (string, error) {
	row, err := m.FirstRow(types.RunOptionsIoTbl)
	if err != nil {
		return "", err
	}
	return m.String(types.RunOptionsIoTbl, row, ColPTCouplingMode)
}

// RunChemicalCompaction returns the chemical compaction switch of the run.
func (m *Model) RunChemicalCompaction() (int64, error) {
	row, err := m.FirstRow(types.RunOptionsIoTbl)
	if err != nil {
		return types.UndefinedInt, err
	}
	return m.Int(types.RunOptionsIoTbl, row, ColChemicalCompaction)
}

// SetRunChemicalCompaction stores the chemical compaction switch of the run.
func (m *Model) SetRunChemicalCompaction(x int64) error {
	row, err := m.FirstRow(types.RunOptionsIoTbl)
	if err != nil {
		return err
	}
	return m.SetInt(types.RunOptionsIoTbl, row, ColChemicalCompaction, x)
}
