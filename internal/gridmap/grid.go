// Package gridmap stores the raster maps referenced from project tables.
//
// A grid is a NumI x NumJ array of float64 in row-major order. Nodes holding
// UndefinedValue carry no data: they are skipped by range queries and
// propagate through interpolation.
package gridmap

import (
	"math"

	"github.com/mesh-intelligence/prograde/pkg/errors"
)

// UndefinedValue marks a node without data.
const UndefinedValue = 99999.0

// Grid is one raster map.
type Grid struct {
	NumI   int
	NumJ   int
	Values []float64
}

// NewGrid checks the dimensions against the node count.
func NewGrid(numI, numJ int, values []float64) (*Grid, error) {
	if numI <= 0 || numJ <= 0 {
		return nil, errors.ErrValidation.Newf("grid dimensions %dx%d", numI, numJ)
	}
	if len(values) != numI*numJ {
		return nil, errors.ErrValidation.Newf("grid %dx%d has %d values", numI, numJ, len(values))
	}
	return &Grid{NumI: numI, NumJ: numJ, Values: values}, nil
}

// Constant returns a grid shaped like like with every node set to v.
func Constant(like *Grid, v float64) *Grid {
	values := make([]float64, len(like.Values))
	for i := range values {
		values[i] = v
	}
	return &Grid{NumI: like.NumI, NumJ: like.NumJ, Values: values}
}

// At returns the node (i, j).
func (g *Grid) At(i, j int) float64 {
	return g.Values[j*g.NumI+i]
}

// ConstantValue returns the common value of all defined nodes. It reports
// false when the defined nodes differ or when no node is defined.
func (g *Grid) ConstantValue() (float64, bool) {
	found := false
	var c float64
	for _, v := range g.Values {
		if v == UndefinedValue {
			continue
		}
		if !found {
			c, found = v, true
			continue
		}
		if v != c {
			return 0, false
		}
	}
	return c, found
}

// IsConstant reports whether every defined node holds the same value.
func (g *Grid) IsConstant() bool {
	_, ok := g.ConstantValue()
	return ok
}

// MinMax returns the range of the defined nodes. It reports false when no
// node is defined.
func (g *Grid) MinMax() (float64, float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range g.Values {
		if v == UndefinedValue {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return 0, 0, false
	}
	return lo, hi, true
}

// Lerp returns the value a fraction coeff of the way from lo to hi. It is
// exact at both ends: Lerp(lo, hi, 0) == lo and Lerp(lo, hi, 1) == hi.
func Lerp(lo, hi, coeff float64) float64 {
	return (1-coeff)*lo + coeff*hi
}

// Interpolate applies Lerp node by node. A node undefined in either input
// is undefined in the result.
func Interpolate(lo, hi *Grid, coeff float64) (*Grid, error) {
	if lo.NumI != hi.NumI || lo.NumJ != hi.NumJ {
		return nil, errors.ErrValidation.Newf("interpolating %dx%d with %dx%d grid", lo.NumI, lo.NumJ, hi.NumI, hi.NumJ)
	}
	values := make([]float64, len(lo.Values))
	for i := range values {
		a, b := lo.Values[i], hi.Values[i]
		if a == UndefinedValue || b == UndefinedValue {
			values[i] = UndefinedValue
			continue
		}
		values[i] = Lerp(a, b, coeff)
	}
	return &Grid{NumI: lo.NumI, NumJ: lo.NumJ, Values: values}, nil
}
