package store

import "context"

const insertTermsStmt = `INSERT INTO terms (raw) SELECT unnest($1::text[])
ON CONFLICT (raw) DO UPDATE SET
	raw = EXCLUDED.raw
RETURNING id, raw;`

// TermStore manages the terms table.
type TermStore struct {
	db DBTX
}

func NewTermStore(db DBTX) *TermStore {
	return &TermStore{db: db}
}

// UpsertAll inserts any terms in raws that don't already exist and returns
// every id keyed by its raw string.
func (ts *TermStore) UpsertAll(ctx context.Context, raws []string) (map[string]int64, error) {
	if len(raws) == 0 {
		return map[string]int64{}, nil
	}

	rows, err := ts.db.Query(ctx, insertTermsStmt, raws)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]int64, len(raws))
	for rows.Next() {
		var id int64
		var raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		ids[raw] = id
	}
	return ids, rows.Err()
}
