package urlnorm

import (
	"net/url"
	"sort"
)

// SortQueryParams lexicographically reorders query parameters by key,
// stable on equal keys. An empty "?" (ForceQuery with no RawQuery) is
// preserved as-is.
type SortQueryParams struct{}

func (SortQueryParams) Normalize(u *url.URL) *url.URL {
	if u.RawQuery == "" {
		return u
	}

	pairs := parseQueryPairs(u.RawQuery)
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].key < pairs[j].key
	})

	cp := *u
	cp.RawQuery = encodeQueryPairs(pairs)
	return &cp
}
