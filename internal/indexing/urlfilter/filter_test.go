package urlfilter

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllowedSchemesDefaults(t *testing.T) {
	f := NewAllowedSchemes()

	httpURL, _ := url.Parse("http://example.com")
	require.True(t, f.Matches(httpURL))

	httpsURL, _ := url.Parse("HTTPS://example.com")
	require.True(t, f.Matches(httpsURL))

	ftpURL, _ := url.Parse("ftp://example.com")
	require.False(t, f.Matches(ftpURL))
}

func TestAllowedSchemesExplicit(t *testing.T) {
	f := NewAllowedSchemes("gemini")

	geminiURL, _ := url.Parse("gemini://example.com")
	require.True(t, f.Matches(geminiURL))

	httpURL, _ := url.Parse("http://example.com")
	require.False(t, f.Matches(httpURL))
}
