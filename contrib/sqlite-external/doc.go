// Package sqliteexternal registers the CGO SQLite driver.
//
// The conversion cache uses the pure Go driver by default. Building with
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./cmd/idml2docbook
//
// swaps in github.com/mattn/go-sqlite3 through this package, which is
// faster on large caches at the price of a C toolchain.
package sqliteexternal
