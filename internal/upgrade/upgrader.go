package upgrade

import (
	"log/slog"

	"github.com/mesh-intelligence/prograde/internal/logging"
	"github.com/mesh-intelligence/prograde/internal/model"
	"github.com/mesh-intelligence/prograde/pkg/errors"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

// Upgrader is one step of the migration. Upgrade is called exactly once.
type Upgrader interface {
	// Name returns a short human-readable name, used in logs and errors.
	Name() string
	// Upgrade mutates the model or returns a fatal error.
	Upgrade() error
}

// base carries what every step is constructed with.
type base struct {
	name     string
	model    *model.Model
	worklist *Worklist
	log      *slog.Logger
}

func newBase(name string, m *model.Model, w *Worklist) (base, error) {
	if _, err := m.Store(); err != nil {
		return base{}, errors.Wrapf(err, "%s upgrade", name)
	}
	if w == nil {
		return base{}, errors.ErrInvalidArgument.Newf("%s upgrade: nil worklist", name)
	}
	return base{
		name:     name,
		model:    m,
		worklist: w,
		log:      logging.WithComponent(name),
	}, nil
}

// Name implements Upgrader.
func (b base) Name() string { return b.name }

// optionalString reads a string cell, returning the empty string when the
// column is not declared.
func (b base) optionalString(table string, row types.RowID, column string) (string, error) {
	if !b.model.HasColumn(table, column) {
		return "", nil
	}
	return b.model.String(table, row, column)
}
