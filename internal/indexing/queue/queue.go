// Package queue implements the durable, deduplicating FIFO crawl frontier.
// It is backed by a SQL table so that in-flight work survives a process
// restart.
package queue

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// Status is a QueueItem's lifecycle state. The only transitions are
// READY -> IN_PROGRESS -> (row removed).
type Status int

const (
	Ready Status = iota
	InProgress
)

// Item is a pending or claimed URL. Identity is ID; URL is unique across
// all items in the table.
type Item struct {
	ID     int64
	URL    string
	Status Status
}

const createTableStmt = `CREATE TABLE IF NOT EXISTS indexing_queue (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	url TEXT UNIQUE NOT NULL,
	status INTEGER NOT NULL
);`

const resetInProgressStmt = `UPDATE indexing_queue SET status = 0 WHERE status = 1;`

const enqueueStmt = `INSERT OR IGNORE INTO indexing_queue (url, status) VALUES (?, 0);`

const claimCandidateStmt = `SELECT id, url FROM indexing_queue WHERE status = 0 ORDER BY id ASC LIMIT 1;`

const claimStmt = `UPDATE indexing_queue SET status = 1 WHERE id = ?;`

const markProcessedStmt = `DELETE FROM indexing_queue WHERE id = ?;`

// Queue is the durable crawl frontier. All database access is serialized
// through mu: it is held only for the duration of a single statement (a
// claim's select-then-update pair), never across a blocking wait, so it cannot deadlock a suspended Peek against a
// concurrent Enqueue.
type Queue struct {
	mu   chan struct{} // 1-buffered binary mutex, see lock/unlock below
	db   *sql.DB
	wake chan struct{} // 1-buffered: single-slot, edge-triggered wakeup
}

// Open opens (creating if needed) the queue table and resets any
// IN_PROGRESS row left over from a previous process — crash recovery, so
// that every claim predating a restart is retried.
func Open(db *sql.DB) (*Queue, error) {
	if _, err := db.Exec(createTableStmt); err != nil {
		return nil, err
	}
	if _, err := db.Exec(resetInProgressStmt); err != nil {
		return nil, err
	}

	q := &Queue{
		mu:   make(chan struct{}, 1),
		db:   db,
		wake: make(chan struct{}, 1),
	}
	q.mu <- struct{}{}
	return q, nil
}

func (q *Queue) lock()   { <-q.mu }
func (q *Queue) unlock() { q.mu <- struct{}{} }

// notifyOne stores a wakeup permit, coalescing with any permit already
// stored. Spurious wakeups are harmless because every Peek re-checks the
// table under the lock before suspending again.
func (q *Queue) notifyOne() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Enqueue inserts url with status READY if it isn't already present. It
// reports true iff a new row was created, and wakes exactly one suspended
// Peek on success.
func (q *Queue) Enqueue(url string) (bool, error) {
	q.lock()
	res, err := q.db.Exec(enqueueStmt, url)
	q.unlock()
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	inserted := n > 0
	if inserted {
		q.notifyOne()
	}
	return inserted, nil
}

// Peek claims and returns the READY item with the smallest id, blocking
// until one is available or ctx is done. Despite the name, it mutates the
// claimed item's status to IN_PROGRESS — it is not read-only.
func (q *Queue) Peek(ctx context.Context) (Item, error) {
	for {
		item, found, err := q.tryClaim()
		if err != nil {
			return Item{}, err
		}
		if found {
			return item, nil
		}

		select {
		case <-ctx.Done():
			return Item{}, ctx.Err()
		case <-q.wake:
		}
	}
}

func (q *Queue) tryClaim() (Item, bool, error) {
	q.lock()
	defer q.unlock()

	var item Item
	err := q.db.QueryRow(claimCandidateStmt).Scan(&item.ID, &item.URL)
	if err == sql.ErrNoRows {
		return Item{}, false, nil
	}
	if err != nil {
		return Item{}, false, err
	}

	if _, err := q.db.Exec(claimStmt, item.ID); err != nil {
		return Item{}, false, err
	}
	item.Status = InProgress
	return item, true, nil
}

// MarkProcessed removes the item with the given id. Terminal and idempotent
// on already-missing rows.
func (q *Queue) MarkProcessed(id int64) error {
	q.lock()
	defer q.unlock()

	_, err := q.db.Exec(markProcessedStmt, id)
	return err
}

const listURLsStmt = `SELECT url FROM indexing_queue ORDER BY id ASC;`

// URLs returns every URL currently pending or in progress, in FIFO order.
// Used by the ingest API's introspection endpoints.
func (q *Queue) URLs() ([]string, error) {
	q.lock()
	defer q.unlock()

	rows, err := q.db.Query(listURLsStmt)
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
