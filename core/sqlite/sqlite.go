// Package sqlite opens the SQLite databases used by the conversion cache.
//
// Build modes:
//   - Default (CGO_ENABLED=0): modernc.org/sqlite, pure Go
//   - CGO mode (CGO_ENABLED=1 -tags cgo_sqlite): mattn/go-sqlite3 via contrib/sqlite-external
//
// The two drivers spell connection pragmas differently; Open builds the
// right data source name for the driver compiled in.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"
)

// Options tunes a connection.
type Options struct {
	ReadOnly    bool
	BusyTimeout time.Duration
	WAL         bool // write-ahead journal, lets readers run during writes
}

// DefaultOptions suits a cache shared by a CLI and a server.
func DefaultOptions() Options {
	return Options{BusyTimeout: 5 * time.Second, WAL: true}
}

// DriverName returns the database/sql driver name in use.
func DriverName() string {
	return driverName
}

// DriverType returns "cgo" for mattn/go-sqlite3, "purego" for modernc.org/sqlite.
func DriverType() string {
	return driverType
}

// IsCGO reports whether the CGO implementation is compiled in.
func IsCGO() bool {
	return driverType == "cgo"
}

// Open opens the database at path with opts.
func Open(path string, opts Options) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn(path, opts))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: opening %s: %w", path, err)
	}
	return db, nil
}

// OpenReadOnly opens an existing database without write access.
func OpenReadOnly(path string) (*sql.DB, error) {
	opts := DefaultOptions()
	opts.ReadOnly = true
	opts.WAL = false
	return Open(path, opts)
}

// Info describes the compiled-in driver.
type Info struct {
	DriverName string `json:"driver_name"`
	DriverType string `json:"driver_type"`
	IsCGO      bool   `json:"is_cgo"`
	Package    string `json:"package"`
}

// GetInfo returns information about the current SQLite configuration.
func GetInfo() Info {
	return Info{
		DriverName: driverName,
		DriverType: driverType,
		IsCGO:      IsCGO(),
		Package:    driverPackage,
	}
}
