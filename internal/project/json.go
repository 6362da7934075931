package project

import "encoding/json"

// Line kinds of the JSONL project format.
const (
	kindTable = "table"
	kindRow   = "row"
	kindGrid  = "grid"
)

// lineJSON is one line of a JSONL project file. Kind selects which of the
// other fields are set.
type lineJSON struct {
	Kind string `json:"kind"`

	// table and grid
	Name string `json:"name,omitempty"`

	// table
	Columns []columnJSON `json:"columns,omitempty"`

	// row
	Table  string                     `json:"table,omitempty"`
	Values map[string]json.RawMessage `json:"values,omitempty"`

	// grid
	NumI  int       `json:"numI,omitempty"`
	NumJ  int       `json:"numJ,omitempty"`
	Nodes []float64 `json:"nodes,omitempty"`
}

// columnJSON declares one column of a table line.
type columnJSON struct {
	Name string `json:"name"`
	Type string `json:"type"`
}
