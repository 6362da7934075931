// Package project loads and saves basin projects: the tables of a
// tablestore.Store and the raster maps of a gridmap.Store.
//
// Two on-disk formats are supported. JSONL, the default, writes one line per
// table declaration, row and grid, optionally gzipped; SQLite files are
// handled by internal/sqlite.
package project

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/prograde/internal/gridmap"
	"github.com/mesh-intelligence/prograde/internal/sqlite"
	"github.com/mesh-intelligence/prograde/internal/tablestore"
	"github.com/mesh-intelligence/prograde/pkg/errors"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

// Project is a loaded project.
type Project struct {
	Store *tablestore.Store
	Grids *gridmap.Store
}

// New returns an empty project.
func New() *Project {
	return &Project{Store: tablestore.New(), Grids: gridmap.NewStore()}
}

// sqliteExtensions select the SQLite format when the format is auto.
var sqliteExtensions = map[string]bool{".db": true, ".sqlite": true, ".sqlite3": true}

// FormatFor returns the file format used for path. An explicit format other
// than types.SaveFormatAuto wins over the extension.
func FormatFor(path, format string) (string, error) {
	switch format {
	case types.SaveFormatJSONL, types.SaveFormatSQLite:
		return format, nil
	case types.SaveFormatAuto, "":
		if sqliteExtensions[strings.ToLower(filepath.Ext(path))] {
			return types.SaveFormatSQLite, nil
		}
		return types.SaveFormatJSONL, nil
	}
	return "", errors.Wrapf(types.ErrSaveFormatUnknown, "%q", format)
}

// Load reads the project at path, picking the format from its extension.
func Load(path string) (*Project, error) {
	format, err := FormatFor(path, types.SaveFormatAuto)
	if err != nil {
		return nil, err
	}
	if format == types.SaveFormatSQLite {
		s, g, err := sqlite.Load(path)
		if err != nil {
			return nil, err
		}
		return &Project{Store: s, Grids: g}, nil
	}
	return loadJSONL(path)
}

// Save writes p to path in the given format, or the one matching the
// extension when format is types.SaveFormatAuto.
func (p *Project) Save(path, format string) error {
	f, err := FormatFor(path, format)
	if err != nil {
		return err
	}
	if f == types.SaveFormatSQLite {
		return sqlite.Save(path, p.Store, p.Grids)
	}
	return p.saveJSONL(path)
}

func loadJSONL(path string) (*Project, error) {
	records, err := readJSONL(path)
	if err != nil {
		return nil, err
	}
	p := New()
	for i, rec := range records {
		var line lineJSON
		if err := json.Unmarshal(rec, &line); err != nil {
			return nil, errors.ErrIO.Newf("%s: record %d: %v", path, i+1, err)
		}
		if err := p.apply(line); err != nil {
			return nil, errors.Wrapf(err, "%s: record %d", path, i+1)
		}
	}
	return p, nil
}

func (p *Project) apply(line lineJSON) error {
	switch line.Kind {
	case kindTable:
		cols := make([]types.Column, len(line.Columns))
		for i, c := range line.Columns {
			k, ok := types.ParseKind(c.Type)
			if !ok {
				return errors.ErrIO.Newf("table %s: column %s has unknown type %q", line.Name, c.Name, c.Type)
			}
			cols[i] = types.Column{Name: c.Name, Kind: k}
		}
		return p.Store.CreateTable(line.Name, cols)

	case kindRow:
		cols, err := p.Store.Columns(line.Table)
		if err != nil {
			return err
		}
		kinds := make(map[string]types.Kind, len(cols))
		for _, c := range cols {
			kinds[c.Name] = c.Kind
		}
		row, err := p.Store.AddRow(line.Table)
		if err != nil {
			return err
		}
		for name, raw := range line.Values {
			k, ok := kinds[name]
			if !ok {
				return errors.ErrIO.Newf("row of %s sets undeclared column %s", line.Table, name)
			}
			v, err := decodeValue(k, raw)
			if err != nil {
				return errors.Wrapf(err, "%s.%s", line.Table, name)
			}
			if err := p.Store.SetValue(line.Table, row, name, v); err != nil {
				return err
			}
		}
		return nil

	case kindGrid:
		g, err := gridmap.NewGrid(line.NumI, line.NumJ, line.Nodes)
		if err != nil {
			return errors.Wrapf(err, "map %s", line.Name)
		}
		_, err = p.Grids.Put(line.Name, g)
		return err
	}
	return errors.ErrIO.Newf("unknown record kind %q", line.Kind)
}

func decodeValue(k types.Kind, raw json.RawMessage) (types.Value, error) {
	switch k {
	case types.KindFloat:
		var x float64
		if err := json.Unmarshal(raw, &x); err != nil {
			return types.Value{}, errors.ErrIO.Newf("float value %s", raw)
		}
		return types.Float(x), nil
	case types.KindInt:
		var x int64
		if err := json.Unmarshal(raw, &x); err != nil {
			return types.Value{}, errors.ErrIO.Newf("int value %s", raw)
		}
		return types.Int(x), nil
	case types.KindString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return types.Value{}, errors.ErrIO.Newf("string value %s", raw)
		}
		return types.String(s), nil
	}
	return types.Value{}, errors.ErrIO.Newf("kind %s", k)
}

// records encodes the project as JSONL lines: every table declaration
// followed by its rows, then the grids. Undefined cells are left out.
func (p *Project) records() ([]json.RawMessage, error) {
	var out []json.RawMessage
	add := func(line lineJSON) error {
		b, err := json.Marshal(line)
		if err != nil {
			return errors.ErrIO.Newf("encoding %s %s: %v", line.Kind, line.Name+line.Table, err)
		}
		out = append(out, b)
		return nil
	}

	for _, t := range p.Store.Tables() {
		cols, err := p.Store.Columns(t)
		if err != nil {
			return nil, err
		}
		decl := lineJSON{Kind: kindTable, Name: t, Columns: make([]columnJSON, len(cols))}
		for i, c := range cols {
			decl.Columns[i] = columnJSON{Name: c.Name, Type: c.Kind.String()}
		}
		if err := add(decl); err != nil {
			return nil, err
		}

		rows, err := p.Store.Rows(t)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			values := make(map[string]json.RawMessage)
			for _, c := range cols {
				v, err := p.Store.Value(t, row, c.Name)
				if err != nil {
					return nil, err
				}
				if v.IsUndefined() {
					continue
				}
				b, err := json.Marshal(v.Interface())
				if err != nil {
					return nil, errors.ErrIO.Newf("encoding %s.%s: %v", t, c.Name, err)
				}
				values[c.Name] = b
			}
			if err := add(lineJSON{Kind: kindRow, Table: t, Values: values}); err != nil {
				return nil, err
			}
		}
	}

	for _, name := range p.Grids.Names() {
		id, err := p.Grids.FindID(name)
		if err != nil {
			return nil, err
		}
		g, err := p.Grids.Grid(id)
		if err != nil {
			return nil, err
		}
		if err := add(lineJSON{Kind: kindGrid, Name: name, NumI: g.NumI, NumJ: g.NumJ, Nodes: g.Values}); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (p *Project) saveJSONL(path string) error {
	records, err := p.records()
	if err != nil {
		return err
	}
	return writeJSONL(path, records)
}
