package hubxml

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/FocuswithJustin/idml2docbook/core/sqlite"
	"github.com/zeebo/blake3"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS hubxml (
	key        TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	hubxml     BLOB NOT NULL,
	created_at INTEGER NOT NULL
)`

// Cache stores the HubXML produced for IDML inputs, keyed by the BLAKE3
// hash of the IDML bytes, so unchanged inputs skip idml2xml.
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

// Key returns the cache key of IDML data.
func Key(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// OpenCache opens or creates the cache database at path.
func OpenCache(path string) (*Cache, error) {
	db, err := sqlite.Open(path, sqlite.DefaultOptions())
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return &Cache{db: db, now: time.Now}, nil
}

// Get returns the HubXML stored under key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := c.db.QueryRowContext(ctx, `SELECT hubxml FROM hubxml WHERE key = ?`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry %s: %w", key, err)
	}
	return data, true, nil
}

// Put stores hubxml under key, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, key, name string, hubxml []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO hubxml (key, name, hubxml, created_at) VALUES (?, ?, ?, ?)`,
		key, name, hubxml, c.now().Unix())
	if err != nil {
		return fmt.Errorf("storing cache entry %s: %w", key, err)
	}
	return nil
}

// Len returns the number of cached entries.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hubxml`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cache entries: %w", err)
	}
	return n, nil
}

// Prune deletes entries stored before cutoff and returns how many went.
func (c *Cache) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM hubxml WHERE created_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("pruning cache: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}
