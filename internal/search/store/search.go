package store

import "context"

// Result is a single BM25-ranked hit.
type Result struct {
	ID      int64   `json:"id"`
	URL     string  `json:"url"`
	Title   *string `json:"title,omitempty"`
	Snippet *string `json:"snippet,omitempty"`
	Len     int     `json:"len"`
	Score   float64 `json:"score"`
}

// SearchBM25 ranks documents against terms with BM25 (k1=1.2, b=0.75),
// requiring at least min(len(terms), 2) distinct matched terms per doc.
const searchBM25Stmt = `
WITH
  params AS (
    SELECT 1.2::real AS k1, 0.75::real AS b
  ),
  corpus AS (
    SELECT COUNT(*)::real AS N, AVG(len)::real AS avgdl
    FROM docs
    WHERE len > 0
  ),
  q AS (
    SELECT DISTINCT UNNEST($1::text[]) AS raw
  )
SELECT
  d.id,
  d.url,
  d.title,
  d.snippet,
  d.len,
  SUM(
    (LN(((corpus.N - t.df::real + 0.5) / (t.df::real + 0.5)) + 1.0))
    *
    (
      (p.tf_raw::real * (params.k1 + 1.0))
      /
      (p.tf_raw::real
        + params.k1 * (1.0 - params.b + params.b * (d.len::real / NULLIF(corpus.avgdl, 0)))
      )
    )
  ) AS score
FROM q
JOIN terms t     ON t.raw = q.raw
JOIN postings p  ON p.term_id = t.id
JOIN docs d      ON d.id = p.doc_id
CROSS JOIN params
CROSS JOIN corpus
WHERE d.len > 0
  AND t.df IS NOT NULL
GROUP BY d.id, d.url, d.title, d.snippet, d.len
HAVING COUNT(DISTINCT t.raw) >= $2
ORDER BY score DESC
LIMIT $3;`

func SearchBM25(ctx context.Context, db DBTX, terms []string, limit int) ([]Result, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	minMatched := len(terms)
	if minMatched > 2 {
		minMatched = 2
	}

	rows, err := db.Query(ctx, searchBM25Stmt, terms, minMatched, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.ID, &r.URL, &r.Title, &r.Snippet, &r.Len, &r.Score); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
