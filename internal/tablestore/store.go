// Package tablestore is the in-memory implementation of types.Store.
//
// Rows live in a per-table arena. A RowID carries the arena slot and the
// generation the slot had when the row was created, so a removed row's id
// stops resolving even after its slot is reused.
package tablestore

import (
	"github.com/mesh-intelligence/prograde/pkg/errors"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

// Store holds named tables in declaration order.
type Store struct {
	order  []string
	tables map[string]*table
}

var _ types.Store = (*Store)(nil)

type table struct {
	columns  []types.Column
	colIndex map[string]int
	slots    []slot
	free     []uint32
	rows     []uint32 // slot indices in row order
}

type slot struct {
	gen    uint32
	live   bool
	values []types.Value
}

// New returns an empty store.
func New() *Store {
	return &Store{tables: make(map[string]*table)}
}

// Tables returns the table names in declaration order.
func (s *Store) Tables() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// HasTable reports whether name was declared.
func (s *Store) HasTable(name string) bool {
	_, ok := s.tables[name]
	return ok
}

// CreateTable declares a table or extends an existing one with new columns.
// Existing rows get the undefined sentinel in added columns.
func (s *Store) CreateTable(name string, columns []types.Column) error {
	if name == "" {
		return errors.ErrValidation.New("empty table name")
	}
	t, ok := s.tables[name]
	if !ok {
		t = &table{colIndex: make(map[string]int)}
		s.tables[name] = t
		s.order = append(s.order, name)
	}
	for _, c := range columns {
		if c.Name == "" {
			return errors.ErrValidation.Newf("table %s: empty column name", name)
		}
		if _, ok := types.ParseKind(c.Kind.String()); !ok {
			return errors.ErrValidation.Newf("table %s: column %s has invalid kind", name, c.Name)
		}
		if i, ok := t.colIndex[c.Name]; ok {
			if t.columns[i].Kind != c.Kind {
				return errors.ErrValidation.Newf("table %s: column %s redeclared as %s", name, c.Name, c.Kind)
			}
			continue
		}
		t.colIndex[c.Name] = len(t.columns)
		t.columns = append(t.columns, c)
		for i := range t.slots {
			if t.slots[i].live {
				t.slots[i].values = append(t.slots[i].values, types.Undefined(c.Kind))
			}
		}
	}
	return nil
}

// Columns returns the column declarations of a table.
func (s *Store) Columns(name string) ([]types.Column, error) {
	t, err := s.table(name)
	if err != nil {
		return nil, err
	}
	out := make([]types.Column, len(t.columns))
	copy(out, t.columns)
	return out, nil
}

// Size returns the number of rows of a table.
func (s *Store) Size(name string) (int, error) {
	t, err := s.table(name)
	if err != nil {
		return 0, err
	}
	return len(t.rows), nil
}

// Rows returns a snapshot of the row ids in table order.
func (s *Store) Rows(name string) ([]types.RowID, error) {
	t, err := s.table(name)
	if err != nil {
		return nil, err
	}
	ids := make([]types.RowID, len(t.rows))
	for i, sl := range t.rows {
		ids[i] = types.RowID{Slot: sl, Gen: t.slots[sl].gen}
	}
	return ids, nil
}

// Row returns the id of the row at position index.
func (s *Store) Row(name string, index int) (types.RowID, error) {
	t, err := s.table(name)
	if err != nil {
		return types.RowID{}, err
	}
	if index < 0 || index >= len(t.rows) {
		return types.RowID{}, errors.ErrNonexistingID.Newf("table %s: row index %d of %d", name, index, len(t.rows))
	}
	sl := t.rows[index]
	return types.RowID{Slot: sl, Gen: t.slots[sl].gen}, nil
}

// Value returns one cell.
func (s *Store) Value(name string, row types.RowID, column string) (types.Value, error) {
	t, sl, ci, err := s.cell(name, row, column)
	if err != nil {
		return types.Value{}, err
	}
	return t.slots[sl].values[ci], nil
}

// SetValue stores one cell, converting v to the column kind when possible.
func (s *Store) SetValue(name string, row types.RowID, column string, v types.Value) error {
	t, sl, ci, err := s.cell(name, row, column)
	if err != nil {
		return err
	}
	kind := t.columns[ci].Kind
	cv, ok := v.Convert(kind)
	if !ok {
		return errors.ErrValidation.Newf("table %s column %s: cannot store %s in %s column", name, column, v, kind)
	}
	t.slots[sl].values[ci] = cv
	return nil
}

// AddRow appends a row whose cells hold the undefined sentinel.
func (s *Store) AddRow(name string) (types.RowID, error) {
	t, err := s.table(name)
	if err != nil {
		return types.RowID{}, err
	}
	values := make([]types.Value, len(t.columns))
	for i, c := range t.columns {
		values[i] = types.Undefined(c.Kind)
	}

	var sl uint32
	if n := len(t.free); n > 0 {
		sl = t.free[n-1]
		t.free = t.free[:n-1]
		t.slots[sl].live = true
		t.slots[sl].values = values
	} else {
		sl = uint32(len(t.slots))
		t.slots = append(t.slots, slot{live: true, values: values})
	}
	t.rows = append(t.rows, sl)
	return types.RowID{Slot: sl, Gen: t.slots[sl].gen}, nil
}

// RemoveRow deletes one row. The remaining rows keep their order and ids.
func (s *Store) RemoveRow(name string, row types.RowID) error {
	t, err := s.table(name)
	if err != nil {
		return err
	}
	if !t.valid(row) {
		return errors.ErrNonexistingID.Newf("table %s: row %s", name, row)
	}
	for i, sl := range t.rows {
		if sl == row.Slot {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			break
		}
	}
	t.release(row.Slot)
	return nil
}

// ClearTable deletes every row of a table.
func (s *Store) ClearTable(name string) error {
	t, err := s.table(name)
	if err != nil {
		return err
	}
	for _, sl := range t.rows {
		t.release(sl)
	}
	t.rows = t.rows[:0]
	return nil
}

func (s *Store) table(name string) (*table, error) {
	t, ok := s.tables[name]
	if !ok {
		return nil, errors.ErrNonexistingID.Newf("table %s", name)
	}
	return t, nil
}

func (s *Store) cell(name string, row types.RowID, column string) (*table, uint32, int, error) {
	t, err := s.table(name)
	if err != nil {
		return nil, 0, 0, err
	}
	if !t.valid(row) {
		return nil, 0, 0, errors.ErrNonexistingID.Newf("table %s: row %s", name, row)
	}
	ci, ok := t.colIndex[column]
	if !ok {
		return nil, 0, 0, errors.ErrNonexistingID.Newf("table %s: column %s", name, column)
	}
	return t, row.Slot, ci, nil
}

func (t *table) valid(row types.RowID) bool {
	if int(row.Slot) >= len(t.slots) {
		return false
	}
	sl := t.slots[row.Slot]
	return sl.live && sl.gen == row.Gen
}

func (t *table) release(sl uint32) {
	t.slots[sl].live = false
	t.slots[sl].values = nil
	t.slots[sl].gen++
	t.free = append(t.free, sl)
}
