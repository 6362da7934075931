package model

import (
	"github.com/mesh-intelligence/prograde/pkg/types"
)

// Lithotype columns.
const (
	ColLithotype               = "Lithotype"
	ColDescription             = "Description"
	ColDefinedBy               = "DefinedBy"
	ColDefinitionDate          = "DefinitionDate"
	ColPorosityModel           = "Porosity_Model"
	ColSurfacePorosity         = "SurfacePorosity"
	ColCompacCoefES            = "CompacCoefES"
	ColCompacCoefESA           = "CompacCoefESA"
	ColCompacCoefESB           = "CompacCoefESB"
	ColCompactionCoefficientSM = "Compaction_Coefficient_SM"
	ColMinimumPorosity         = "MinimumPorosity"
	ColCompacRatioES           = "CompacRatioES"
	ColPermMixModel            = "PermMixModel"
	ColDepoPerm                = "DepoPerm"
	ColPermAnisotropy          = "PermAnisotropy"
)

// Porosity model names stored in Porosity_Model.
const (
	PorosityExponential       = "Exponential"
	PorositySoilMechanics     = "Soil_Mechanics"
	PorosityDoubleExponential = "Double_Exponential"
)

// Porosity is the compaction model of a lithotype. SurfacePorosity and
// MinimumPorosity are percentages; the compaction coefficients are in 1/MPa
// except CompactionCoefficientSM, which is dimensionless. CompacRatioES is
// the weight of the first Double-Exponential term.
type Porosity struct {
	Model                   string
	SurfacePorosity         float64
	CompacCoefES            float64
	CompacCoefESA           float64
	CompacCoefESB           float64
	CompactionCoefficientSM float64
	MinimumPorosity         float64
	CompacRatioES           float64
}

// Lithology is one LithotypeIoTbl row.
type Lithology struct {
	Row            types.RowID
	Name           string
	Description    string
	DefinedBy      string
	DefinitionDate string
	Porosity       Porosity
	PermMixModel   string
	DepoPerm       float64
	PermAnisotropy float64
}

type cellReader struct {
	m     *Model
	table string
	row   types.RowID
	err   error
}

func (r *cellReader) str(column string) string {
	if r.err != nil {
		return ""
	}
	s, err := r.m.String(r.table, r.row, column)
	r.err = err
	return s
}

func (r *cellReader) num(column string) float64 {
	if r.err != nil {
		return types.UndefinedFloat
	}
	x, err := r.m.Float(r.table, r.row, column)
	r.err = err
	return x
}

// Lithologies returns the lithotype catalogue in table order.
func (m *Model) Lithologies() ([]Lithology, error) {
	rows, err := m.Rows(types.LithotypeIoTbl)
	if err != nil {
		return nil, err
	}
	out := make([]Lithology, 0, len(rows))
	for _, row := range rows {
		r := cellReader{m: m, table: types.LithotypeIoTbl, row: row}
		l := Lithology{
			Row:            row,
			Name:           r.str(ColLithotype),
			Description:    r.str(ColDescription),
			DefinedBy:      r.str(ColDefinedBy),
			DefinitionDate: r.str(ColDefinitionDate),
			Porosity: Porosity{
				Model:                   r.str(ColPorosityModel),
				SurfacePorosity:         r.num(ColSurfacePorosity),
				CompacCoefES:            r.num(ColCompacCoefES),
				CompacCoefESA:           r.num(ColCompacCoefESA),
				CompacCoefESB:           r.num(ColCompacCoefESB),
				CompactionCoefficientSM: r.num(ColCompactionCoefficientSM),
				MinimumPorosity:         r.num(ColMinimumPorosity),
				CompacRatioES:           r.num(ColCompacRatioES),
			},
			PermMixModel:   r.str(ColPermMixModel),
			DepoPerm:       r.num(ColDepoPerm),
			PermAnisotropy: r.num(ColPermAnisotropy),
		}
		if r.err != nil {
			return nil, r.err
		}
		out = append(out, l)
	}
	return out, nil
}

// SetPorosity stores a compaction model on a lithotype row.
func (m *Model) SetPorosity(row types.RowID, p Porosity) error {
	t := types.LithotypeIoTbl
	if err := m.SetString(t, row, ColPorosityModel, p.Model); err != nil {
		return err
	}
	for col, x := range map[string]float64{
		ColSurfacePorosity:         p.SurfacePorosity,
		ColCompacCoefES:            p.CompacCoefES,
		ColCompacCoefESA:           p.CompacCoefESA,
		ColCompacCoefESB:           p.CompacCoefESB,
		ColCompactionCoefficientSM: p.CompactionCoefficientSM,
		ColMinimumPorosity:         p.MinimumPorosity,
		ColCompacRatioES:           p.CompacRatioES,
	} {
		if err := m.SetFloat(t, row, col, x); err != nil {
			return err
		}
	}
	return nil
}
