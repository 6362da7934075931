package upgrade

import (
	"github.com/mesh-intelligence/prograde/internal/model"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

// Cleaner clears tables on request, typically simulator outputs that the
// upgraded project must not carry over.
type Cleaner struct {
	base
	tables []string
}

// NewCleaner returns a step clearing tables, or the simulator output tables
// when tables is empty.
func NewCleaner(m *model.Model, w *Worklist, tables []string) (*Cleaner, error) {
	b, err := newBase("clean", m, w)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		tables = types.OutputTableNames
	}
	return &Cleaner{base: b, tables: tables}, nil
}

// Upgrade clears the tables. Names the project does not declare are skipped.
func (c *Cleaner) Upgrade() error {
	for _, t := range c.tables {
		if !c.model.HasTable(t) {
			c.log.Info("unknown table skipped", "table", t)
			continue
		}
		if err := c.clearTable(t); err != nil {
			return err
		}
	}
	return nil
}
