package urlnorm

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestDefaultChain(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"removes fragment", "https://Example.com/path#section", "https://example.com/path"},
		{"sorts query params", "https://example.com/p?b=2&a=1", "https://example.com/p?a=1&b=2"},
		{"drops utm params", "https://example.com/p?a=1&utm_source=x", "https://example.com/p?a=1"},
		{"lowercases scheme", "HTTPS://example.com/p", "https://example.com/p"},
		{"lowercases host", "https://Example.COM/path", "https://example.com/path"},
		{"empty value preserved as bare name", "https://example.com/p?flag&a=1", "https://example.com/p?a=1&flag"},
		{"full canonicalization", "HTTP://Example.COM/a?x=1&utm_source=z&b=2#frag", "http://example.com/a?b=2&x=1"},
	}

	chain := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chain.Normalize(mustParse(t, tt.in))
			require.Equal(t, tt.want, got.String())
		})
	}
}

func TestDefaultChainIsIdempotent(t *testing.T) {
	chain := Default()
	raw := "HTTPS://Example.com/p?b=2&a=1&utm_campaign=x#frag"
	once := chain.Normalize(mustParse(t, raw))
	twice := chain.Normalize(once)
	require.Equal(t, once.String(), twice.String())
}

func TestDefaultChainDoesNotMutateInput(t *testing.T) {
	chain := Default()
	u := mustParse(t, "https://example.com/p?b=2&a=1#frag")
	original := u.String()
	chain.Normalize(u)
	require.Equal(t, original, u.String())
}
