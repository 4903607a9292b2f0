package fetcher

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Cache is a sqlite-backed store of fetched pages, so recently read
// documents reopen without hitting the network.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
}

// OpenCache opens (creating if needed) a page cache at path. Entries
// older than ttl are ignored and pruned.
func OpenCache(path string, ttl time.Duration) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		url        TEXT PRIMARY KEY,
		fetched_at INTEGER NOT NULL,
		html       TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &Cache{db: db, ttl: ttl}, nil
}

// Get returns the cached HTML for url if present and fresh.
func (c *Cache) Get(url string) (string, bool) {
	var html string
	var fetchedAt int64
	err := c.db.QueryRow(
		"SELECT html, fetched_at FROM pages WHERE url = ?", url,
	).Scan(&html, &fetchedAt)
	if err != nil {
		return "", false
	}
	if time.Since(time.Unix(fetchedAt, 0)) > c.ttl {
		return "", false
	}
	return html, true
}

// Put stores the HTML for url, replacing any prior entry.
func (c *Cache) Put(url, html string) {
	c.db.Exec(
		"INSERT OR REPLACE INTO pages (url, fetched_at, html) VALUES (?, ?, ?)",
		url, time.Now().Unix(), html,
	)
}

// Prune deletes entries older than the cache TTL.
func (c *Cache) Prune() {
	cutoff := time.Now().Add(-c.ttl).Unix()
	c.db.Exec("DELETE FROM pages WHERE fetched_at < ?", cutoff)
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
