package urlproc

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gowexplorer/webindex/internal/indexing/urlfilter"
	"github.com/gowexplorer/webindex/internal/indexing/urlnorm"
)

func newTestProcessor() Processor {
	return New(urlfilter.NewAllowedSchemes(), urlnorm.Default())
}

func TestProcessAcceptsAllowedScheme(t *testing.T) {
	p := newTestProcessor()
	u, _ := url.Parse("HTTPS://example.com/a?utm_source=x#frag")
	canonical, ok := p.Process(u)
	require.True(t, ok)
	require.Equal(t, "https://example.com/a", canonical.String())
}

func TestProcessRejectsDisallowedScheme(t *testing.T) {
	p := newTestProcessor()
	u, _ := url.Parse("mailto:a@example.com")
	_, ok := p.Process(u)
	require.False(t, ok)
}

func TestParseResolvesRelativeHref(t *testing.T) {
	p := newTestProcessor()
	base, _ := url.Parse("https://example.com/blog/post")
	resolved, ok := p.Parse(base, "../about?utm_medium=y")
	require.True(t, ok)
	require.Equal(t, "https://example.com/about", resolved.String())
}

func TestParseRejectsUnparsableHref(t *testing.T) {
	p := newTestProcessor()
	base, _ := url.Parse("https://example.com/")
	_, ok := p.Parse(base, "%zz")
	require.False(t, ok)
}
