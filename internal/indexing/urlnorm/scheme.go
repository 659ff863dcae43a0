package urlnorm

import (
	"net/url"
	"strings"
)

// SchemeToLowerCase lowercases the scheme if it isn't already lowercase.
type SchemeToLowerCase struct{}

func (SchemeToLowerCase) Normalize(u *url.URL) *url.URL {
	lower := strings.ToLower(u.Scheme)
	if lower == u.Scheme {
		return u
	}
	cp := *u
	cp.Scheme = lower
	return &cp
}
