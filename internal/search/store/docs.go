package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
)

// Doc is a row of the docs table: one indexed page.
type Doc struct {
	ID      int64
	URL     string
	Domain  string
	Hash    string
	Title   sql.NullString
	Snippet sql.NullString
	Len     int
	Norm    sql.NullFloat64
}

const insertDocStmt = `INSERT INTO docs (url, domain, hash, len)
VALUES ($1, $2, $3, $4)
ON CONFLICT (url) DO UPDATE SET
	domain = EXCLUDED.domain,
	hash   = EXCLUDED.hash,
	len    = EXCLUDED.len
RETURNING id;`

const checkDomainHashConflictStmt = `SELECT id FROM docs WHERE domain = $1 AND hash = $2 AND url <> $3;`

// ErrDuplicateContent is returned when a different URL on the same domain
// already carries the same content hash (the same term-frequency set).
var ErrDuplicateContent = errors.New("duplicate content for domain")

// DocStore manages the docs table.
type DocStore struct {
	db DBTX
}

func NewDocStore(db DBTX) *DocStore {
	return &DocStore{db: db}
}

// Upsert inserts or updates a doc by URL, rejecting the write if a
// different URL on the same domain already has identical content.
func (ds *DocStore) Upsert(ctx context.Context, url, domain, hash string, length int) (int64, error) {
	var conflictID int64
	err := ds.db.QueryRow(ctx, checkDomainHashConflictStmt, domain, hash, url).Scan(&conflictID)
	if err == nil {
		return 0, ErrDuplicateContent
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	var id int64
	err = ds.db.QueryRow(ctx, insertDocStmt, url, domain, hash, length).Scan(&id)
	return id, err
}

func (ds *DocStore) GetByID(ctx context.Context, docID int64) (Doc, error) {
	var doc Doc
	row := ds.db.QueryRow(ctx, "SELECT id, url, domain, hash, title, snippet, len, norm FROM docs WHERE id = $1", docID)
	err := row.Scan(&doc.ID, &doc.URL, &doc.Domain, &doc.Hash, &doc.Title, &doc.Snippet, &doc.Len, &doc.Norm)
	return doc, err
}
