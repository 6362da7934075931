// Package sqlite opens basin projects saved in the SQLite format so other
// tools can read the upgraded tables without going through the upgrader.
package sqlite

import (
	"github.com/mesh-intelligence/prograde/internal/sqlite"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

// Open reads the project tables stored at path. Raster maps are not
// returned.
//
// Example:
//
//	store, err := sqlite.Open("basin.db")
//	if err != nil {
//	    return err
//	}
//	n, err := store.Size(types.StratIoTbl)
func Open(path string) (types.Store, error) {
	s, _, err := sqlite.Load(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}
