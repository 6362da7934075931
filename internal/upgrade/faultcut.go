package upgrade

import (
	"github.com/mesh-intelligence/prograde/internal/model"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

// Fault cut columns.
const (
	ColFaultcutsMap = "FaultcutsMap"
	ColFaultName    = "FaultName"
)

// FaultCutUpgrader drops fault cut rows that point at no map, at an
// unregistered map, or that repeat an earlier (map, fault) pair.
type FaultCutUpgrader struct {
	base
}

// NewFaultCutUpgrader binds the step to the model and the shared worklist.
func NewFaultCutUpgrader(m *model.Model, w *Worklist) (*FaultCutUpgrader, error) {
	b, err := newBase("fault cut", m, w)
	if err != nil {
		return nil, err
	}
	return &FaultCutUpgrader{base: b}, nil
}

// Upgrade implements Upgrader.
func (u *FaultCutUpgrader) Upgrade() error {
	const t = types.PressureFaultcutIoTbl
	rows, err := u.model.Rows(t)
	if err != nil || len(rows) == 0 {
		return err
	}

	type cut struct{ mapName, fault string }
	seen := make(map[cut]bool)
	var doomed []types.RowID
	for _, row := range rows {
		name, err := u.model.String(t, row, ColFaultcutsMap)
		if err != nil {
			return err
		}
		fault, err := u.model.String(t, row, ColFaultName)
		if err != nil {
			return err
		}
		log := u.log.With("map", name, "fault", fault)

		if name == "" {
			log.Info("fault cut without map removed")
			doomed = append(doomed, row)
			continue
		}
		ok, err := u.model.Maps().Registered(t, name)
		if err != nil {
			return err
		}
		if !ok {
			log.Info("fault cut with unregistered map removed")
			doomed = append(doomed, row)
			continue
		}
		c := cut{name, fault}
		if seen[c] {
			log.Info("duplicate fault cut removed")
			doomed = append(doomed, row)
			continue
		}
		seen[c] = true
	}
	return u.removeRows(t, []string{ColFaultcutsMap}, doomed)
}
