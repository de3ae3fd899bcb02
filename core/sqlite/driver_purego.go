//go:build !cgo_sqlite

package sqlite

import (
	"fmt"
	"net/url"

	_ "modernc.org/sqlite" // pure Go SQLite driver
)

const (
	driverName    = "sqlite"
	driverType    = "purego"
	driverPackage = "modernc.org/sqlite"
)

// dsn spells options as modernc _pragma parameters.
func dsn(path string, opts Options) string {
	q := url.Values{}
	if opts.ReadOnly {
		q.Set("mode", "ro")
	}
	if opts.BusyTimeout > 0 {
		q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", opts.BusyTimeout.Milliseconds()))
	}
	if opts.WAL {
		q.Add("_pragma", "journal_mode(WAL)")
	}
	if len(q) == 0 {
		return path
	}
	return "file:" + path + "?" + q.Encode()
}
