package upgrade

import (
	"github.com/mesh-intelligence/prograde/internal/model"
	"github.com/mesh-intelligence/prograde/pkg/errors"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

// Reconciler removes the map registry rows released by the other steps. It
// must run last.
type Reconciler struct {
	base
}

// NewReconciler binds the reconciler to the model and the shared worklist.
func NewReconciler(m *model.Model, w *Worklist) (*Reconciler, error) {
	b, err := newBase("reconciler", m, w)
	if err != nil {
		return nil, err
	}
	return &Reconciler{base: b}, nil
}

// Upgrade drains the worklist.
func (r *Reconciler) Upgrade() error {
	if r.worklist.Drained() {
		return errors.ErrValidation.New("worklist drained twice")
	}
	releases := r.worklist.drain()
	if !r.model.HasTable(types.GridMapIoTbl) {
		r.log.Debug("no map registry", "releases", len(releases))
		return nil
	}
	store, err := r.model.Store()
	if err != nil {
		return err
	}

	removed := 0
	for _, rel := range releases {
		refs, err := r.model.Maps().References()
		if err != nil {
			return err
		}
		for _, ref := range refs {
			if ref.ReferredBy != rel.Table {
				continue
			}
			if !rel.All && ref.MapName != rel.Map {
				continue
			}
			if err := store.RemoveRow(types.GridMapIoTbl, ref.Row); err != nil {
				return errors.Wrapf(err, "releasing %s of %s", ref.MapName, ref.ReferredBy)
			}
			removed++
			r.log.Debug("map reference removed", "table", ref.ReferredBy, "map", ref.MapName)
			if !rel.All {
				break
			}
		}
	}
	r.log.Info("map registry reconciled", "releases", len(releases), "removed", removed)
	return nil
}
