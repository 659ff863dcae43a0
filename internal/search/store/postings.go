package store

import "context"

const insertPostingsBatchStmt = `INSERT INTO postings (term_id, doc_id, tf_raw)
SELECT t.term_id, $1::bigint, t.tf_raw
FROM unnest($2::bigint[], $3::bigint[]) AS t(term_id, tf_raw)
ON CONFLICT (term_id, doc_id) DO UPDATE SET tf_raw = EXCLUDED.tf_raw;`

// PostingStore manages the postings table.
type PostingStore struct {
	db DBTX
}

func NewPostingStore(db DBTX) *PostingStore {
	return &PostingStore{db: db}
}

// InsertBatch upserts one posting per entry in termFreqs, all against docID.
func (ps *PostingStore) InsertBatch(ctx context.Context, docID int64, termFreqs map[int64]int) error {
	if len(termFreqs) == 0 {
		return nil
	}

	termIDs := make([]int64, 0, len(termFreqs))
	tfRaws := make([]int64, 0, len(termFreqs))
	for termID, tf := range termFreqs {
		termIDs = append(termIDs, termID)
		tfRaws = append(tfRaws, int64(tf))
	}
	_, err := ps.db.Exec(ctx, insertPostingsBatchStmt, docID, termIDs, tfRaws)
	return err
}
