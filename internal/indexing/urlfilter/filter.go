// Package urlfilter decides whether a URL is eligible for crawling.
package urlfilter

import (
	"net/url"
	"strings"
)

// Filter is a predicate over URLs. The sole production implementation is
// AllowedSchemes, but the interface is kept as a stable extension point for
// future host/path filters (see politeness package for the companion rate
// limiting extension point).
type Filter interface {
	Matches(u *url.URL) bool
}

// AllowedSchemes accepts URLs whose scheme, compared case-insensitively, is
// present in the configured allow-list.
type AllowedSchemes struct {
	schemes map[string]struct{}
}

// NewAllowedSchemes builds a filter from a list of schemes. An empty list
// falls back to the default {"http", "https"}.
func NewAllowedSchemes(schemes ...string) AllowedSchemes {
	if len(schemes) == 0 {
		schemes = []string{"http", "https"}
	}
	set := make(map[string]struct{}, len(schemes))
	for _, s := range schemes {
		set[strings.ToLower(s)] = struct{}{}
	}
	return AllowedSchemes{schemes: set}
}

// Matches reports whether u's scheme is in the allow-list.
func (f AllowedSchemes) Matches(u *url.URL) bool {
	_, ok := f.schemes[strings.ToLower(u.Scheme)]
	return ok
}
