// Package store is the BM25 index backing the Searching Service: a
// docs/terms/postings schema on Postgres, queried through pgx.
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so callers can pass
// either where a transaction-scoped write is needed.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

const schemaStmt = `
CREATE TABLE IF NOT EXISTS docs (
	id      BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	url     TEXT UNIQUE NOT NULL,
	domain  TEXT NOT NULL,
	hash    TEXT NOT NULL,
	title   TEXT,
	snippet TEXT,
	len     INT NOT NULL DEFAULT 0,
	norm    DOUBLE PRECISION
);
CREATE INDEX IF NOT EXISTS docs_domain_hash_idx ON docs (domain, hash);

CREATE TABLE IF NOT EXISTS terms (
	id  BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	raw TEXT UNIQUE NOT NULL,
	df  INT,
	idf DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS postings (
	term_id BIGINT NOT NULL REFERENCES terms(id) ON DELETE CASCADE,
	doc_id  BIGINT NOT NULL REFERENCES docs(id) ON DELETE CASCADE,
	tf_raw  BIGINT NOT NULL,
	PRIMARY KEY (term_id, doc_id)
);
`

// Store holds the connection pool to the index database.
type Store struct {
	Pool *pgxpool.Pool
}

// Open connects to Postgres at connString and ensures the docs/terms/postings
// schema exists.
func Open(ctx context.Context, connString string) (Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return Store{}, err
	}
	if _, err := pool.Exec(ctx, schemaStmt); err != nil {
		pool.Close()
		return Store{}, err
	}
	return Store{Pool: pool}, nil
}

// Close releases the connection pool.
func (s Store) Close() {
	s.Pool.Close()
}
