package upgrade

import (
	"sort"

	"github.com/mesh-intelligence/prograde/internal/model"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

// SurfaceAgeBuffer is the age from which surface boundary conditions are
// spread out below MaxDepoAge.
const SurfaceAgeBuffer = 998.0

// ClipAndBufferSurfaceAges returns ages with every age beyond MaxDepoAge
// brought back below it. When some age exceeds MaxDepoAge, the ages above
// SurfaceAgeBuffer are spread evenly over (SurfaceAgeBuffer, MaxDepoAge] in
// their original order of magnitude. Otherwise ages is returned unchanged.
func ClipAndBufferSurfaceAges(ages []float64) []float64 {
	var over []int
	beyond := false
	for i, a := range ages {
		if a > SurfaceAgeBuffer {
			over = append(over, i)
			if a > MaxDepoAge {
				beyond = true
			}
		}
	}
	if !beyond {
		return ages
	}
	sort.SliceStable(over, func(i, j int) bool { return ages[over[i]] < ages[over[j]] })

	out := make([]float64, len(ages))
	copy(out, ages)
	n := float64(len(over))
	for k, i := range over {
		out[i] = SurfaceAgeBuffer + float64(k+1)/n
	}
	return out
}

var surfaceAgeTables = []string{types.SurfaceTempIoTbl, types.SurfaceDepthIoTbl}

// SurfaceAgeUpgrader brings the surface temperature and depth histories
// within the deposition age limit.
type SurfaceAgeUpgrader struct {
	base
}

// NewSurfaceAgeUpgrader binds the step to the model and the shared
// worklist.
func NewSurfaceAgeUpgrader(m *model.Model, w *Worklist) (*SurfaceAgeUpgrader, error) {
	b, err := newBase("surface age", m, w)
	if err != nil {
		return nil, err
	}
	return &SurfaceAgeUpgrader{base: b}, nil
}

// Upgrade implements Upgrader.
func (u *SurfaceAgeUpgrader) Upgrade() error {
	for _, t := range surfaceAgeTables {
		if err := u.upgradeTable(t); err != nil {
			return err
		}
	}
	return nil
}

func (u *SurfaceAgeUpgrader) upgradeTable(t string) error {
	rows, err := u.model.Rows(t)
	if err != nil || len(rows) == 0 {
		return err
	}
	ages := make([]float64, len(rows))
	for i, row := range rows {
		if ages[i], err = u.model.Float(t, row, "Age"); err != nil {
			return err
		}
	}
	updated := ClipAndBufferSurfaceAges(ages)
	for i, row := range rows {
		if updated[i] == ages[i] {
			continue
		}
		if err := u.model.SetFloat(t, row, "Age", updated[i]); err != nil {
			return err
		}
		u.log.Info("surface age buffered", "table", t, "from", ages[i], "to", updated[i])
	}
	return nil
}
