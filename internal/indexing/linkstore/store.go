// Package linkstore persists the set of URLs the worker pool has finished
// with (published to the search backend, or finalized without publishing),
// so the worker pool's link discovery never re-enqueues them.
package linkstore

import (
	"database/sql"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const createTableStmt = `CREATE TABLE IF NOT EXISTS indexed_links (
	url TEXT PRIMARY KEY,
	last_indexed INTEGER NOT NULL
);`

const getStmt = `SELECT last_indexed FROM indexed_links WHERE url = ?;`

const putStmt = `INSERT INTO indexed_links (url, last_indexed) VALUES (?, ?)
ON CONFLICT(url) DO UPDATE SET last_indexed = excluded.last_indexed;`

// Store is the persistent url -> last_indexed_at mapping. Concurrent access
// is serialized through mu, matching the single shared connection every
// worker borrows a reference to.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open creates the indexed-links table in db if it does not exist yet.
func Open(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(createTableStmt); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// GetLastIndexed looks up the last time url was recorded as indexed. ok
// is false if url has never been recorded.
func (s *Store) GetLastIndexed(url string) (t time.Time, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var unixSeconds int64
	err = s.db.QueryRow(getStmt, url).Scan(&unixSeconds)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return time.Unix(unixSeconds, 0).UTC(), true, nil
}

// Put upserts url's last-indexed timestamp.
func (s *Store) Put(url string, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(putStmt, url, t.Unix())
	return err
}

const listURLsStmt = `SELECT url FROM indexed_links ORDER BY url ASC;`

// URLs returns every URL recorded as indexed, in
// lexicographic order. Used by the ingest API's introspection endpoints.
func (s *Store) URLs() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(listURLsStmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}
