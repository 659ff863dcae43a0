package urlnorm

import (
	"net/url"
	"strings"
)

// MatchType selects how a Rule's Key is compared against a parameter name.
type MatchType int

const (
	Equals MatchType = iota
	StartsWith
)

// Rule describes one query parameter to drop.
type Rule struct {
	Match MatchType
	Key   string
}

func (r Rule) matches(key string) bool {
	switch r.Match {
	case Equals:
		return key == r.Key
	case StartsWith:
		return strings.HasPrefix(key, r.Key)
	default:
		return false
	}
}

// RemoveQueryParams drops query parameters matching any configured rule.
// If every parameter is dropped, the entire query component is removed. If
// no parameter matched any rule, the URL is returned unmodified — including
// its original query string formatting — per the structural preservation
// contract.
type RemoveQueryParams struct {
	rules []Rule
}

// NewRemoveQueryParams builds a RemoveQueryParams transform. With no rules,
// it falls back to the default: drop params whose name starts with "utm_".
func NewRemoveQueryParams(rules ...Rule) RemoveQueryParams {
	if len(rules) == 0 {
		rules = []Rule{{Match: StartsWith, Key: "utm_"}}
	}
	return RemoveQueryParams{rules: rules}
}

func (t RemoveQueryParams) Normalize(u *url.URL) *url.URL {
	if u.RawQuery == "" {
		return u
	}

	pairs := parseQueryPairs(u.RawQuery)
	kept := make([]pair, 0, len(pairs))
	matchedAny := false
	for _, p := range pairs {
		dropped := false
		for _, r := range t.rules {
			if r.matches(p.key) {
				dropped = true
				break
			}
		}
		if dropped {
			matchedAny = true
			continue
		}
		kept = append(kept, p)
	}

	if !matchedAny {
		return u
	}

	cp := *u
	if len(kept) == 0 {
		cp.RawQuery = ""
		cp.ForceQuery = false
	} else {
		cp.RawQuery = encodeQueryPairs(kept)
	}
	return &cp
}
