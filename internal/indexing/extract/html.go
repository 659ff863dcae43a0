// Package extract parses fetched HTML and extracts the visible body text
// and outbound links a worker needs.
package extract

import (
	"errors"
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gowexplorer/webindex/internal/indexing/extract/language"
)

// ErrUnsupportedLanguage is returned when a document's <html lang> attribute
// names a language outside the parser's configured allow-list.
var ErrUnsupportedLanguage = errors.New("extract: document language is not supported")

// Parser parses HTML documents, rejecting ones whose declared language is
// not in the configured allow-list. It is value-semantic and safe to copy
// into each worker.
type Parser struct {
	langs []language.Language
}

// NewParser builds a Parser that accepts only the given languages. With no
// languages given, it defaults to {English}.
func NewParser(langs ...language.Language) Parser {
	if len(langs) == 0 {
		langs = []language.Language{language.English}
	}
	return Parser{langs: langs}
}

// Parse parses an HTML document and validates its declared language.
func (p Parser) Parse(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	if !p.isSupportedLanguage(doc) {
		return nil, ErrUnsupportedLanguage
	}
	return doc, nil
}

// isSupportedLanguage inspects the <html lang> attribute. Absence of a lang
// attribute, or an <html> tag that can't be located, defaults to true
// (permissive) — the original behavior this gate was built to preserve.
func (p Parser) isSupportedLanguage(doc *html.Node) bool {
	var htmlNode *html.Node
	if doc.Type == html.DocumentNode {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if c.DataAtom == atom.Html {
				htmlNode = c
				break
			}
		}
	} else if doc.DataAtom == atom.Html {
		htmlNode = doc
	}

	if htmlNode == nil {
		return true
	}

	for _, attr := range htmlNode.Attr {
		if attr.Key != "lang" {
			continue
		}
		switch len(attr.Val) {
		case 2:
			lang := language.FromIsoCode639_1(language.IsoCode639_1FromValue(attr.Val))
			return slices.Contains(p.langs, lang)
		case 3:
			lang := language.FromIsoCode639_3(language.IsoCode639_3FromValue(attr.Val))
			return slices.Contains(p.langs, lang)
		default:
			return false
		}
	}

	return true
}

var skipTags = map[string]struct{}{
	"script": {},
	"style":  {},
}

// ExtractText locates the first <body>, walks its descendants in document
// order, and joins the trimmed text of every text node whose nearest
// element ancestor is not in the skip set. It reports ok=false if the
// document has no body or the resulting text is empty.
func ExtractText(doc *html.Node) (text string, ok bool) {
	body := findBody(doc)
	if body == nil {
		return "", false
	}

	var parts []string
	walk(body, func(n *html.Node) {
		if n.Type != html.TextNode {
			return
		}
		if n.Parent != nil && n.Parent.Type == html.ElementNode {
			if _, skip := skipTags[strings.ToLower(n.Parent.Data)]; skip {
				return
			}
		}
		trimmed := strings.TrimSpace(n.Data)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	})

	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, " "), true
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findBody(c); found != nil {
			return found
		}
	}
	return nil
}

// walk performs a depth-first, document-order traversal of n and its
// descendants, invoking cb for every node visited.
func walk(n *html.Node, cb func(*html.Node)) {
	cb(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, cb)
	}
}

// Links extracts every href attribute value from <a> tags under doc, in
// document order.
func Links(doc *html.Node) []string {
	var links []string
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.DataAtom != atom.A {
			return
		}
		for _, attr := range n.Attr {
			if attr.Key == "href" {
				links = append(links, attr.Val)
			}
		}
	})
	return links
}

// BaseHref returns the href attribute of the first <base> tag in doc, if
// any.
func BaseHref(doc *html.Node) (string, bool) {
	var href string
	var found bool
	walk(doc, func(n *html.Node) {
		if found || n.Type != html.ElementNode || n.DataAtom != atom.Base {
			return
		}
		for _, attr := range n.Attr {
			if attr.Key == "href" {
				href = attr.Val
				found = true
				return
			}
		}
	})
	return href, found
}
