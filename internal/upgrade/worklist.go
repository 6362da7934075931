package upgrade

import (
	"github.com/mesh-intelligence/prograde/pkg/errors"
)

// Release asks the Reconciler to forget registry rows of Table. When All is
// set every row referred by Table goes, otherwise only the one for Map.
type Release struct {
	Table string
	Map   string
	All   bool
}

// Worklist accumulates releases while the steps run. It is drained exactly
// once, by the Reconciler; afterwards it rejects new entries.
type Worklist struct {
	entries []Release
	drained bool
}

// NewWorklist returns an empty worklist in the accumulating state.
func NewWorklist() *Worklist {
	return &Worklist{}
}

// Add queues the release of (table, mapName).
func (w *Worklist) Add(table, mapName string) error {
	if mapName == "" {
		return errors.ErrValidation.Newf("release of empty map name for %s", table)
	}
	return w.push(Release{Table: table, Map: mapName})
}

// AddAll queues the release of every map referred by table.
func (w *Worklist) AddAll(table string) error {
	return w.push(Release{Table: table, All: true})
}

func (w *Worklist) push(r Release) error {
	if w.drained {
		return errors.ErrValidation.Newf("worklist already drained, cannot release %s", r.Table)
	}
	w.entries = append(w.entries, r)
	return nil
}

// Len returns the number of queued releases.
func (w *Worklist) Len() int { return len(w.entries) }

// Entries returns a copy of the queued releases.
func (w *Worklist) Entries() []Release {
	out := make([]Release, len(w.entries))
	copy(out, w.entries)
	return out
}

// Drained reports whether the worklist was consumed.
func (w *Worklist) Drained() bool { return w.drained }

func (w *Worklist) drain() []Release {
	out := w.entries
	w.entries = nil
	w.drained = true
	return out
}
