// Package urlnorm implements the URL normalizer chain: an ordered sequence
// of unary transforms producing the canonical URL used as the dedup key
// throughout the indexer.
package urlnorm

import "net/url"

// Transform is a single normalizing step. Each transform must be idempotent
// so that the composed Chain is idempotent.
type Transform interface {
	Normalize(u *url.URL) *url.URL
}

// Chain applies a sequence of transforms in insertion order. A Builder
// accumulates transforms with Add; the first Add'd transform runs first.
type Chain struct {
	transforms []Transform
}

// Normalize applies every transform in the chain, in order, to a copy of u.
func (c Chain) Normalize(u *url.URL) *url.URL {
	out := cloneURL(u)
	for _, t := range c.transforms {
		out = t.Normalize(out)
	}
	return out
}

func cloneURL(u *url.URL) *url.URL {
	cp := *u
	return &cp
}

// Builder composes a Chain. The builder exists mainly so construction reads
// the same way the normalizer stack is described in the default
// configuration: RemoveFragment, then RemoveQueryParams, then
// SortQueryParams, then SchemeToLowerCase, then HostToLowerCase.
type Builder struct {
	transforms []Transform
}

// NewBuilder starts an empty chain builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a transform to the end of the chain. The outermost-added
// transform is applied last.
func (b *Builder) Add(t Transform) *Builder {
	b.transforms = append(b.transforms, t)
	return b
}

// Build finalizes the chain.
func (b *Builder) Build() Chain {
	transforms := make([]Transform, len(b.transforms))
	copy(transforms, b.transforms)
	return Chain{transforms: transforms}
}

// Default builds the chain required by the default configuration:
// RemoveFragment -> RemoveQueryParams(utm_*) -> SortQueryParams ->
// SchemeToLowerCase -> HostToLowerCase.
func Default() Chain {
	return NewBuilder().
		Add(RemoveFragment{}).
		Add(NewRemoveQueryParams(Rule{Match: StartsWith, Key: "utm_"})).
		Add(SortQueryParams{}).
		Add(SchemeToLowerCase{}).
		Add(HostToLowerCase{}).
		Build()
}
