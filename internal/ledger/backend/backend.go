// Package backend opens a run ledger by driver name.
package backend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/randlab/internal/ledger"
	"github.com/louisbranch/randlab/internal/ledger/badger"
	"github.com/louisbranch/randlab/internal/ledger/sqlite"
)

// Ledger drivers.
const (
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
)

// ErrUnknownDriver indicates a driver name that is not supported.
var ErrUnknownDriver = errors.New("unknown ledger driver")

// Drivers returns the supported driver names.
func Drivers() []string {
	return []string{DriverSQLite, DriverBadger}
}

// Open opens the ledger at path with the named driver. An empty driver
// selects SQLite. SQLite ledgers are files; Badger ledgers are directories.
func Open(driver, path string) (ledger.Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverSQLite:
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverBadger:
		store, err := badger.Open(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
