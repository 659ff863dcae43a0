package urlnorm

import (
	"net/url"
	"strings"
)

// HostToLowerCase lowercases the host (including any port) if it isn't
// already lowercase. net/url does not normalize host casing on its own, so
// this is required to match the lowercase-host canonical form.
type HostToLowerCase struct{}

func (HostToLowerCase) Normalize(u *url.URL) *url.URL {
	lower := strings.ToLower(u.Host)
	if lower == u.Host {
		return u
	}
	cp := *u
	cp.Host = lower
	return &cp
}
