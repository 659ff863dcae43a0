package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/gowexplorer/webindex/internal/indexing/extract/language"
)

func TestExtractTextSkipsScriptAndStyle(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`
		<html><body>
			<p>Hello world</p>
			<script>var x = 1;</script>
			<style>.a { color: red; }</style>
			<p>Second paragraph</p>
		</body></html>
	`))
	require.NoError(t, err)

	text, ok := ExtractText(doc)
	require.True(t, ok)
	require.Equal(t, "Hello world Second paragraph", text)
}

func TestExtractTextEmptyBody(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<html><body>   </body></html>`))
	require.NoError(t, err)
	_, ok := ExtractText(doc)
	require.False(t, ok)
}

func TestLinksAndBaseHref(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`
		<html><head><base href="https://example.com/base/"></head>
		<body>
			<a href="/a">A</a>
			<a href="https://other.com/b">B</a>
		</body></html>
	`))
	require.NoError(t, err)

	href, ok := BaseHref(doc)
	require.True(t, ok)
	require.Equal(t, "https://example.com/base/", href)

	links := Links(doc)
	require.Equal(t, []string{"/a", "https://other.com/b"}, links)
}

func TestParserRejectsUnsupportedLanguage(t *testing.T) {
	p := NewParser(language.English)
	_, err := p.Parse(strings.NewReader(`<html lang="fr"><body>Bonjour</body></html>`))
	require.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestParserAcceptsMissingLangAttribute(t *testing.T) {
	p := NewParser(language.English)
	doc, err := p.Parse(strings.NewReader(`<html><body>Hello</body></html>`))
	require.NoError(t, err)
	require.NotNil(t, doc)
}

func TestParserAcceptsConfiguredLanguage(t *testing.T) {
	p := NewParser(language.English)
	doc, err := p.Parse(strings.NewReader(`<html lang="en"><body>Hello</body></html>`))
	require.NoError(t, err)
	require.NotNil(t, doc)
}
