package store

import "context"

// UpdateDocumentFrequency recomputes df for every term from current
// postings. Phase 1 of the ranking refresh.
const updateDocumentFrequencyStmt = `UPDATE terms t
SET df = x.df
FROM (
  SELECT term_id, COUNT(*)::int AS df
  FROM postings
  GROUP BY term_id
) x
WHERE t.id = x.term_id;`

const zeroDfForOrphanTermsStmt = `UPDATE terms SET df = 0 WHERE df IS NULL;`

func UpdateDocumentFrequency(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, updateDocumentFrequencyStmt); err != nil {
		return err
	}
	_, err := db.Exec(ctx, zeroDfForOrphanTermsStmt)
	return err
}

// UpdateInverseDocumentFrequency recomputes idf using the smoothed formula
// ln((N + 1)/(df + 1)) + 1. Phase 2.
const updateInverseDocumentFrequencyStmt = `WITH n AS (
  SELECT COUNT(*)::real AS N FROM docs
)
UPDATE terms t
SET idf = LN((n.N + 1.0) / (t.df + 1.0)) + 1.0
FROM n;`

func UpdateInverseDocumentFrequency(ctx context.Context, db DBTX) error {
	_, err := db.Exec(ctx, updateInverseDocumentFrequencyStmt)
	return err
}

// UpdateDocumentNorms recomputes each doc's TF-IDF vector norm. Phase 3.
const updateDocumentNormsStmt = `UPDATE docs d
SET norm = x.norm
FROM (
  SELECT
    p.doc_id,
    SQRT(SUM(POWER((1.0 + LN(p.tf_raw::real)) * t.idf, 2))) AS norm
  FROM postings p
  JOIN terms t ON t.id = p.term_id
  GROUP BY p.doc_id
) x
WHERE d.id = x.doc_id;`

const zeroNormForOrphanDocsStmt = `UPDATE docs SET norm = 0 WHERE norm IS NULL;`

func UpdateDocumentNorms(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, updateDocumentNormsStmt); err != nil {
		return err
	}
	_, err := db.Exec(ctx, zeroNormForOrphanDocsStmt)
	return err
}
