package types

import "fmt"

// RowID addresses a row independently of its position. Removing a row never
// invalidates the ids of other rows; a removed id is rejected afterwards.
type RowID struct {
	Slot uint32
	Gen  uint32
}

func (id RowID) String() string {
	return fmt.Sprintf("%d.%d", id.Slot, id.Gen)
}

// Column declares a named, typed column of a table.
type Column struct {
	Name string
	Kind Kind
}

// Store is the relational storage the upgrade steps operate on: named tables
// of ordered rows, each row mapping column names to typed values.
//
// Every method fails with an error of kind errors.ErrNonexistingID when the
// table, row or column is unknown.
type Store interface {
	// Tables returns the table names in declaration order.
	Tables() []string

	// HasTable reports whether name was declared.
	HasTable(name string) bool

	// CreateTable declares a table. Declaring an existing table adds the
	// columns it does not have yet.
	CreateTable(name string, columns []Column) error

	// Columns returns the column declarations of a table.
	Columns(table string) ([]Column, error)

	// Size returns the number of rows of a table.
	Size(table string) (int, error)

	// Rows returns a snapshot of the row ids in table order. Callers that
	// remove rows iterate over this snapshot.
	Rows(table string) ([]RowID, error)

	// Row returns the id of the row at position index.
	Row(table string, index int) (RowID, error)

	// Value returns one cell.
	Value(table string, row RowID, column string) (Value, error)

	// SetValue stores one cell. A value of another kind than the column is
	// converted when possible, otherwise errors.ErrValidation is returned.
	SetValue(table string, row RowID, column string, v Value) error

	// AddRow appends a row whose cells all hold the undefined sentinel.
	AddRow(table string) (RowID, error)

	// RemoveRow deletes one row, preserving the order of the others.
	RemoveRow(table string, row RowID) error

	// ClearTable deletes every row of a table. The table stays declared.
	ClearTable(table string) error
}
