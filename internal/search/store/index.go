package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"

	"github.com/gowexplorer/webindex/internal/search/tokenize"
)

// Page is a document ready to be folded into the index.
type Page struct {
	URL  string
	Text string
}

// Indexer folds pages into the docs/terms/postings schema.
type Indexer struct {
	store Store
}

func NewIndexer(s Store) *Indexer {
	return &Indexer{store: s}
}

// AddPage tokenizes page.Text and upserts its doc/terms/postings rows.
// Pages with identical content hashes on the same domain are rejected with
// ErrDuplicateContent rather than silently merged.
func (ix *Indexer) AddPage(ctx context.Context, page Page) error {
	tx, err := ix.store.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	domain, err := hostname(page.URL)
	if err != nil {
		return err
	}

	freqs := tokenize.Frequencies(page.Text)
	hash := contentHash(freqs)

	docs := NewDocStore(tx)
	docID, err := docs.Upsert(ctx, page.URL, domain, hash, len(freqs))
	if err != nil {
		return err
	}

	raws := make([]string, 0, len(freqs))
	for raw := range freqs {
		raws = append(raws, raw)
	}

	terms := NewTermStore(tx)
	termIDs, err := terms.UpsertAll(ctx, raws)
	if err != nil {
		return err
	}

	termFreqsByID := make(map[int64]int, len(freqs))
	for raw, freq := range freqs {
		termFreqsByID[termIDs[raw]] = freq
	}

	postings := NewPostingStore(tx)
	if err := postings.InsertBatch(ctx, docID, termFreqsByID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// contentHash hashes the sorted term-frequency set so identical content
// produces the same hash regardless of tokenization order.
func contentHash(freqs map[string]int) string {
	h := sha256.New()
	for _, term := range sortedKeys(freqs) {
		fmt.Fprintf(h, "%s:%d;", term, freqs[term])
	}
	return hex.EncodeToString(h.Sum(nil))
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

func hostname(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return u.Hostname(), nil
}
