package model

import (
	"github.com/mesh-intelligence/prograde/internal/gridmap"
	"github.com/mesh-intelligence/prograde/pkg/errors"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

// Registry defaults for generated maps.
const (
	GeneratedMapType = "HDF5"
	GeneratedMapFile = "Inputs.HDF"
)

// MapRef is one row of the map registry.
type MapRef struct {
	Row        types.RowID
	ReferredBy string
	MapName    string
}

// Maps manages the raster maps of a project and their registry rows in
// GridMapIoTbl.
type Maps struct {
	model *Model
}

// FindID returns the id of the named map.
func (mm *Maps) FindID(name string) (gridmap.ID, error) {
	return mm.model.grids.FindID(name)
}

// Grid returns the grid of a map.
func (mm *Maps) Grid(id gridmap.ID) (*gridmap.Grid, error) {
	return mm.model.grids.Grid(id)
}

// ValueRange returns the min and max of the defined nodes of a map.
func (mm *Maps) ValueRange(id gridmap.ID) (float64, float64, error) {
	return mm.model.grids.ValueRange(id)
}

// Interpolate returns the node-wise interpolation of two stored maps.
func (mm *Maps) Interpolate(lo, hi gridmap.ID, coeff float64) (*gridmap.Grid, error) {
	a, err := mm.Grid(lo)
	if err != nil {
		return nil, err
	}
	b, err := mm.Grid(hi)
	if err != nil {
		return nil, err
	}
	return gridmap.Interpolate(a, b, coeff)
}

// Generate stores g under name and registers the map against table.
func (mm *Maps) Generate(table, name string, g *gridmap.Grid) (gridmap.ID, error) {
	id, err := mm.model.grids.Put(name, g)
	if err != nil {
		return 0, err
	}
	if err := mm.Register(table, name); err != nil {
		return 0, err
	}
	return id, nil
}

// Register adds a (table, name) registry row unless one exists.
func (mm *Maps) Register(table, name string) error {
	if name == "" {
		return errors.ErrValidation.Newf("registering empty map name for %s", table)
	}
	ok, err := mm.Registered(table, name)
	if err != nil || ok {
		return err
	}
	m := mm.model
	if err := m.EnsureTable(types.GridMapIoTbl, types.GridMapColumns); err != nil {
		return err
	}
	seq := int64(m.Size(types.GridMapIoTbl))
	row, err := m.store.AddRow(types.GridMapIoTbl)
	if err != nil {
		return err
	}
	for _, set := range []func() error{
		func() error { return m.SetString(types.GridMapIoTbl, row, types.ColReferredBy, table) },
		func() error { return m.SetString(types.GridMapIoTbl, row, types.ColMapName, name) },
		func() error { return m.SetString(types.GridMapIoTbl, row, types.ColMapType, GeneratedMapType) },
		func() error { return m.SetString(types.GridMapIoTbl, row, types.ColMapFileName, GeneratedMapFile) },
		func() error { return m.SetInt(types.GridMapIoTbl, row, types.ColMapSeqNbr, seq) },
	} {
		if err := set(); err != nil {
			return err
		}
	}
	return nil
}

// Registered reports whether the registry holds (table, name).
func (mm *Maps) Registered(table, name string) (bool, error) {
	refs, err := mm.References()
	if err != nil {
		return false, err
	}
	for _, r := range refs {
		if r.ReferredBy == table && r.MapName == name {
			return true, nil
		}
	}
	return false, nil
}

// References returns the registry rows in table order.
func (mm *Maps) References() ([]MapRef, error) {
	m := mm.model
	rows, err := m.Rows(types.GridMapIoTbl)
	if err != nil {
		return nil, err
	}
	refs := make([]MapRef, 0, len(rows))
	for _, row := range rows {
		by, err := m.String(types.GridMapIoTbl, row, types.ColReferredBy)
		if err != nil {
			return nil, err
		}
		name, err := m.String(types.GridMapIoTbl, row, types.ColMapName)
		if err != nil {
			return nil, err
		}
		refs = append(refs, MapRef{Row: row, ReferredBy: by, MapName: name})
	}
	return refs, nil
}
