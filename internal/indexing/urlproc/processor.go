// Package urlproc binds the URL filter and normalizer chain into a single
// value-semantic processor workers clone freely.
package urlproc

import (
	"net/url"

	"github.com/gowexplorer/webindex/internal/indexing/urlfilter"
	"github.com/gowexplorer/webindex/internal/indexing/urlnorm"
)

// Processor resolves relative hrefs against a base and applies the filter
// and normalizer chain to determine a URL's canonical identity.
type Processor struct {
	filter urlfilter.Filter
	chain  urlnorm.Chain
}

// New builds a Processor from a filter and a normalizer chain.
func New(filter urlfilter.Filter, chain urlnorm.Chain) Processor {
	return Processor{filter: filter, chain: chain}
}

// Process applies the filter, then the normalizer chain, to u. It returns
// ok=false if the filter rejects u.
func (p Processor) Process(u *url.URL) (canonical *url.URL, ok bool) {
	if !p.filter.Matches(u) {
		return nil, false
	}
	return p.chain.Normalize(u), true
}

// Parse resolves href against base (RFC 3986) and applies Process to the
// result.
func (p Processor) Parse(base *url.URL, href string) (*url.URL, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return nil, false
	}
	resolved := base.ResolveReference(ref)
	return p.Process(resolved)
}
