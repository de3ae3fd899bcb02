//go:build cgo_sqlite

package sqlite

import (
	"fmt"
	"net/url"

	sqliteexternal "github.com/FocuswithJustin/idml2docbook/contrib/sqlite-external"
)

const (
	driverName    = sqliteexternal.DriverName
	driverType    = sqliteexternal.DriverType
	driverPackage = sqliteexternal.DriverPackage + " (via contrib/sqlite-external)"
)

// dsn spells options as go-sqlite3 underscore parameters.
func dsn(path string, opts Options) string {
	q := url.Values{}
	if opts.ReadOnly {
		q.Set("mode", "ro")
	}
	if opts.BusyTimeout > 0 {
		q.Set("_busy_timeout", fmt.Sprint(opts.BusyTimeout.Milliseconds()))
	}
	if opts.WAL {
		q.Set("_journal_mode", "WAL")
	}
	if len(q) == 0 {
		return path
	}
	return "file:" + path + "?" + q.Encode()
}
