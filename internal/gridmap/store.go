package gridmap

import (
	"github.com/mesh-intelligence/prograde/pkg/errors"
)

// ID identifies a grid inside a Store.
type ID int

// Store keeps named grids in insertion order.
type Store struct {
	names []string
	grids []*Grid
	index map[string]ID
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{index: make(map[string]ID)}
}

// Put stores g under name, replacing an existing grid of that name.
func (s *Store) Put(name string, g *Grid) (ID, error) {
	if name == "" {
		return 0, errors.ErrValidation.New("empty map name")
	}
	if g == nil {
		return 0, errors.ErrInvalidArgument.Newf("map %s: nil grid", name)
	}
	if id, ok := s.index[name]; ok {
		s.grids[id] = g
		return id, nil
	}
	id := ID(len(s.grids))
	s.names = append(s.names, name)
	s.grids = append(s.grids, g)
	s.index[name] = id
	return id, nil
}

// FindID returns the id of the named grid.
func (s *Store) FindID(name string) (ID, error) {
	id, ok := s.index[name]
	if !ok {
		return 0, errors.ErrNonexistingID.Newf("map %s", name)
	}
	return id, nil
}

// Has reports whether a grid named name exists.
func (s *Store) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Grid returns the grid with the given id.
func (s *Store) Grid(id ID) (*Grid, error) {
	if id < 0 || int(id) >= len(s.grids) {
		return nil, errors.ErrNonexistingID.Newf("map id %d", id)
	}
	return s.grids[id], nil
}

// Name returns the name of the grid with the given id.
func (s *Store) Name(id ID) (string, error) {
	if id < 0 || int(id) >= len(s.names) {
		return "", errors.ErrNonexistingID.Newf("map id %d", id)
	}
	return s.names[id], nil
}

// Names returns the grid names in insertion order.
func (s *Store) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of grids.
func (s *Store) Len() int { return len(s.grids) }

// ValueRange returns the min and max of the defined nodes of a grid. A grid
// without defined nodes yields an ErrUndefinedValue error.
func (s *Store) ValueRange(id ID) (float64, float64, error) {
	g, err := s.Grid(id)
	if err != nil {
		return 0, 0, err
	}
	lo, hi, ok := g.MinMax()
	if !ok {
		name, _ := s.Name(id)
		return 0, 0, errors.ErrUndefinedValue.Newf("map %s has no defined node", name)
	}
	return lo, hi, nil
}
