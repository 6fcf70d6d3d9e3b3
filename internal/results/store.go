// internal/results/store.go
package results

import (
	"fmt"

	"github.com/mwiater/cryptic/internal/appconfig"
)

// Store persists results.
type Store interface {
	Append(r Result) error
	All() ([]Result, error)
	Close() error
}

// OpenStore opens the store the configuration selects.
func OpenStore(cfg appconfig.Config) (Store, error) {
	switch cfg.ResultsStore {
	case "", appconfig.StoreJSONL:
		return NewJSONLStore(cfg.ResultsDir), nil
	case appconfig.StoreSQLite:
		return OpenSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown results store %q", cfg.ResultsStore)
	}
}
