// Package goquery provides a CSS selector implementation of
// spellrule.Extractor built on PuerkitoBio/goquery and andybalholm/cascadia.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/spellrule"
	"golang.org/x/net/html"
)

var _ spellrule.Extractor = (*Extractor)(nil)

var (
	invisible = cascadia.MustCompile("head, noscript, script, style, template")
	block     = cascadia.MustCompile("address, article, aside, blockquote, br, dd, div, dl, dt, " +
		"figcaption, footer, form, h1, h2, h3, h4, h5, h6, header, hr, li, main, nav, ol, p, pre, " +
		"section, table, td, th, tr, ul")
)

// Extractor evaluates CSS selectors against HTML documents.
// Extractor is stateless and safe for concurrent use.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the visible text of every element matched by sel, one line
// per element in document order.
func (e *Extractor) Extract(raw string, sel string) (string, error) {
	matcher, err := Compile(sel)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", spellrule.WrapError(spellrule.EINTERNAL, err, "failed to parse HTML")
	}

	matches := doc.FindMatcher(matcher)
	if matches.Length() == 0 {
		return "", spellrule.Errorf(spellrule.ESELECTORMISS, "CSS selector %q matched no elements", sel)
	}

	fragments := make([]string, 0, matches.Length())
	for _, s := range matches.EachIter() {
		fragments = append(fragments, VisibleText(s))
	}
	return strings.Join(fragments, "\n"), nil
}

// Compile compiles a CSS selector, reporting syntax errors as ESELECTOR.
func Compile(sel string) (goquery.Matcher, error) {
	if strings.TrimSpace(sel) == "" {
		return nil, spellrule.Errorf(spellrule.ESELECTOR, "CSS selector required")
	}
	m, err := cascadia.Compile(sel)
	if err != nil {
		return nil, spellrule.WrapError(spellrule.ESELECTOR, err, "invalid CSS selector %q: %v", sel, err)
	}
	return m, nil
}

// VisibleText returns the rendered text of the selection with whitespace runs
// collapsed. The selection is cloned so the source document is left intact.
func VisibleText(s *goquery.Selection) string {
	c := s.Clone().FilterFunction(func(_ int, s *goquery.Selection) bool {
		return !invisible.Match(s.Get(0))
	})
	c.FindMatcher(invisible).Remove()
	for _, b := range c.FindMatcher(block).EachIter() {
		b.PrependNodes(space()).AppendNodes(space())
	}
	return strings.Join(strings.Fields(c.Text()), " ")
}

func space() *html.Node {
	return &html.Node{Type: html.TextNode, Data: " "}
}
