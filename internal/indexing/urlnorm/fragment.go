package urlnorm

import "net/url"

// RemoveFragment strips the "#..." suffix from a URL.
type RemoveFragment struct{}

func (RemoveFragment) Normalize(u *url.URL) *url.URL {
	cp := *u
	cp.Fragment = ""
	cp.RawFragment = ""
	return &cp
}
