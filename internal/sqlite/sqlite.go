// Package sqlite stores basin projects in a single SQLite file.
//
// Tables, columns, rows and cells live in project_tables, project_columns,
// project_rows and project_values; raster maps live in grid_maps with their
// nodes packed as little-endian float64. Undefined cells are not stored.
package sqlite

import (
	"database/sql"
	_ "embed"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/prograde/internal/gridmap"
	"github.com/mesh-intelligence/prograde/internal/tablestore"
	"github.com/mesh-intelligence/prograde/pkg/errors"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// Save writes the tables of s and the grids of g to path. The file is built
// next to path and renamed over it once complete.
func Save(path string, s *tablestore.Store, g *gridmap.Store) error {
	tmp := filepath.Join(filepath.Dir(path), ".prograde-"+uuid.NewString()+".db")
	if err := write(tmp, s, g); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.ErrIO.Newf("renaming %s: %v", tmp, err)
	}
	return nil
}

func write(path string, s *tablestore.Store, g *gridmap.Store) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return errors.ErrIO.Newf("opening %s: %v", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(schemaSQL); err != nil {
		return errors.ErrIO.Newf("creating schema: %v", err)
	}
	tx, err := db.Begin()
	if err != nil {
		return errors.ErrIO.Newf("beginning save transaction: %v", err)
	}
	defer tx.Rollback()

	if err := writeTables(tx, s); err != nil {
		return err
	}
	if err := writeGrids(tx, g); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.ErrIO.Newf("committing save transaction: %v", err)
	}
	if err := db.Close(); err != nil {
		return errors.ErrIO.Newf("closing %s: %v", path, err)
	}
	return nil
}

func writeTables(tx *sql.Tx, s *tablestore.Store) error {
	insertTable, err := tx.Prepare(`INSERT INTO project_tables (name, ordinal) VALUES (?, ?)`)
	if err != nil {
		return errors.ErrIO.Newf("preparing table insert: %v", err)
	}
	defer insertTable.Close()
	insertColumn, err := tx.Prepare(`INSERT INTO project_columns (table_name, ordinal, name, kind) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return errors.ErrIO.Newf("preparing column insert: %v", err)
	}
	defer insertColumn.Close()
	insertRow, err := tx.Prepare(`INSERT INTO project_rows (table_name, ordinal) VALUES (?, ?)`)
	if err != nil {
		return errors.ErrIO.Newf("preparing row insert: %v", err)
	}
	defer insertRow.Close()
	insertValue, err := tx.Prepare(`INSERT INTO project_values (row_id, column_name, float_value, int_value, text_value) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.ErrIO.Newf("preparing value insert: %v", err)
	}
	defer insertValue.Close()

	for ti, t := range s.Tables() {
		if _, err := insertTable.Exec(t, ti); err != nil {
			return errors.ErrIO.Newf("saving table %s: %v", t, err)
		}
		cols, err := s.Columns(t)
		if err != nil {
			return err
		}
		for ci, c := range cols {
			if _, err := insertColumn.Exec(t, ci, c.Name, c.Kind.String()); err != nil {
				return errors.ErrIO.Newf("saving column %s.%s: %v", t, c.Name, err)
			}
		}

		rows, err := s.Rows(t)
		if err != nil {
			return err
		}
		for ri, row := range rows {
			res, err := insertRow.Exec(t, ri)
			if err != nil {
				return errors.ErrIO.Newf("saving row %d of %s: %v", ri, t, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return errors.ErrIO.Newf("saving row %d of %s: %v", ri, t, err)
			}
			for _, c := range cols {
				v, err := s.Value(t, row, c.Name)
				if err != nil {
					return err
				}
				if v.IsUndefined() {
					continue
				}
				var f, i, text any
				switch c.Kind {
				case types.KindFloat:
					f = v.AsFloat()
				case types.KindInt:
					i = v.AsInt()
				case types.KindString:
					text = v.AsString()
				}
				if _, err := insertValue.Exec(id, c.Name, f, i, text); err != nil {
					return errors.ErrIO.Newf("saving %s.%s: %v", t, c.Name, err)
				}
			}
		}
	}
	return nil
}

func writeGrids(tx *sql.Tx, g *gridmap.Store) error {
	stmt, err := tx.Prepare(`INSERT INTO grid_maps (name, ordinal, num_i, num_j, nodes) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.ErrIO.Newf("preparing grid insert: %v", err)
	}
	defer stmt.Close()

	for n, name := range g.Names() {
		id, err := g.FindID(name)
		if err != nil {
			return err
		}
		grid, err := g.Grid(id)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(name, n, grid.NumI, grid.NumJ, packNodes(grid.Values)); err != nil {
			return errors.ErrIO.Newf("saving map %s: %v", name, err)
		}
	}
	return nil
}

func packNodes(values []float64) []byte {
	b := make([]byte, 8*len(values))
	for i, x := range values {
		binary.LittleEndian.PutUint64(b[8*i:], math.Float64bits(x))
	}
	return b
}

func unpackNodes(b []byte) ([]float64, error) {
	if len(b)%8 != 0 {
		return nil, errors.ErrIO.Newf("map nodes blob of %d bytes", len(b))
	}
	values := make([]float64, len(b)/8)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[8*i:]))
	}
	return values, nil
}

// Load reads a project written by Save.
func Load(path string) (*tablestore.Store, *gridmap.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, errors.ErrIO.Newf("opening %s: %v", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, errors.ErrIO.Newf("opening %s: %v", path, err)
	}
	defer db.Close()

	s := tablestore.New()
	if err := readTables(db, s); err != nil {
		return nil, nil, errors.Wrapf(err, "loading %s", path)
	}
	g := gridmap.NewStore()
	if err := readGrids(db, g); err != nil {
		return nil, nil, errors.Wrapf(err, "loading %s", path)
	}
	return s, g, nil
}

func readTables(db *sql.DB, s *tablestore.Store) error {
	names, err := queryStrings(db, `SELECT name FROM project_tables ORDER BY ordinal`)
	if err != nil {
		return err
	}
	for _, t := range names {
		cols, err := readColumns(db, t)
		if err != nil {
			return err
		}
		if err := s.CreateTable(t, cols); err != nil {
			return err
		}
		if err := readRows(db, s, t); err != nil {
			return err
		}
	}
	return nil
}

func queryStrings(db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.ErrIO.Newf("querying: %v", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, errors.ErrIO.Newf("scanning: %v", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.ErrIO.Newf("iterating: %v", err)
	}
	return out, nil
}

func readColumns(db *sql.DB, table string) ([]types.Column, error) {
	rows, err := db.Query(`SELECT name, kind FROM project_columns WHERE table_name = ? ORDER BY ordinal`, table)
	if err != nil {
		return nil, errors.ErrIO.Newf("querying columns of %s: %v", table, err)
	}
	defer rows.Close()
	var cols []types.Column
	for rows.Next() {
		var name, kind string
		if err := rows.Scan(&name, &kind); err != nil {
			return nil, errors.ErrIO.Newf("scanning columns of %s: %v", table, err)
		}
		k, ok := types.ParseKind(kind)
		if !ok {
			return nil, errors.ErrIO.Newf("column %s.%s has unknown kind %q", table, name, kind)
		}
		cols = append(cols, types.Column{Name: name, Kind: k})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.ErrIO.Newf("iterating columns of %s: %v", table, err)
	}
	return cols, nil
}

func readRows(db *sql.DB, s *tablestore.Store, table string) error {
	rows, err := db.Query(`
SELECT r.row_id, v.column_name, v.float_value, v.int_value, v.text_value
FROM project_rows r LEFT JOIN project_values v ON v.row_id = r.row_id
WHERE r.table_name = ?
ORDER BY r.ordinal`, table)
	if err != nil {
		return errors.ErrIO.Newf("querying rows of %s: %v", table, err)
	}
	defer rows.Close()

	current := int64(-1)
	var id types.RowID
	for rows.Next() {
		var (
			rowID  int64
			column sql.NullString
			f      sql.NullFloat64
			i      sql.NullInt64
			text   sql.NullString
		)
		if err := rows.Scan(&rowID, &column, &f, &i, &text); err != nil {
			return errors.ErrIO.Newf("scanning rows of %s: %v", table, err)
		}
		if rowID != current {
			current = rowID
			if id, err = s.AddRow(table); err != nil {
				return err
			}
		}
		if !column.Valid {
			continue
		}
		var v types.Value
		switch {
		case f.Valid:
			v = types.Float(f.Float64)
		case i.Valid:
			v = types.Int(i.Int64)
		case text.Valid:
			v = types.String(text.String)
		default:
			continue
		}
		if err := s.SetValue(table, id, column.String, v); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return errors.ErrIO.Newf("iterating rows of %s: %v", table, err)
	}
	return nil
}

func readGrids(db *sql.DB, g *gridmap.Store) error {
	rows, err := db.Query(`SELECT name, num_i, num_j, nodes FROM grid_maps ORDER BY ordinal`)
	if err != nil {
		return errors.ErrIO.Newf("querying maps: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			name       string
			numI, numJ int
			blob       []byte
		)
		if err := rows.Scan(&name, &numI, &numJ, &blob); err != nil {
			return errors.ErrIO.Newf("scanning maps: %v", err)
		}
		values, err := unpackNodes(blob)
		if err != nil {
			return errors.Wrapf(err, "map %s", name)
		}
		grid, err := gridmap.NewGrid(numI, numJ, values)
		if err != nil {
			return errors.Wrapf(err, "map %s", name)
		}
		if _, err := g.Put(name, grid); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return errors.ErrIO.Newf("iterating maps: %v", err)
	}
	return nil
}
