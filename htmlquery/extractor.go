// Package htmlquery provides an XPath implementation of spellrule.Extractor
// built on antchfx/htmlquery.
package htmlquery

import (
	"fmt"
	"iter"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"github.com/fwojciec/spellrule"
	"golang.org/x/net/html"
)

var _ spellrule.Extractor = (*Extractor)(nil)

// Extractor evaluates XPath expressions against HTML documents.
// Extractor is stateless and safe for concurrent use.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the visible text of every node matched by expr, one line
// per node in document order.
func (e *Extractor) Extract(raw string, expr string) (text string, err error) {
	compiled, err := Compile(expr)
	if err != nil {
		return "", err
	}

	doc, err := htmlquery.Parse(strings.NewReader(raw))
	if err != nil {
		// x/net/html only fails on reader errors, which a strings.Reader never returns.
		return "", spellrule.WrapError(spellrule.EINTERNAL, err, "failed to parse HTML")
	}

	// Some XPath functions panic on unexpected argument types at evaluation time.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = spellrule.Errorf(spellrule.ESELECTOR, "invalid XPath expression %q: %v", expr, r)
		}
	}()

	var fragments []string
	for fragment := range Select(doc, compiled) {
		fragments = append(fragments, fragment)
	}
	if len(fragments) == 0 {
		return "", spellrule.Errorf(spellrule.ESELECTORMISS, "XPath expression %q matched no nodes", expr)
	}
	return strings.Join(fragments, "\n"), nil
}

// Compile compiles an XPath expression. Syntax errors and expressions that
// do not evaluate to a node-set, such as count(//p), are ESELECTOR.
func Compile(expr string) (*xpath.Expr, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, spellrule.Errorf(spellrule.ESELECTOR, "XPath expression required")
	}
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, spellrule.WrapError(spellrule.ESELECTOR, err, "invalid XPath expression %q: %v", expr, err)
	}
	if !selectsNodes(compiled) {
		return nil, spellrule.Errorf(spellrule.ESELECTOR, "XPath expression %q does not select nodes", expr)
	}
	return compiled, nil
}

// selectsNodes reports whether expr yields a node-set. The result type does
// not depend on the document, so an empty one is enough.
func selectsNodes(expr *xpath.Expr) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	empty := htmlquery.CreateXPathNavigator(&html.Node{Type: html.DocumentNode})
	_, ok = expr.Evaluate(empty).(*xpath.NodeIterator)
	return ok
}

// Select lazily yields the text of each node matched by expr in document order.
// Attribute matches yield the attribute value.
func Select(doc *html.Node, expr *xpath.Expr) iter.Seq[string] {
	return func(yield func(string) bool) {
		it := expr.Select(htmlquery.CreateXPathNavigator(doc))
		for it.MoveNext() {
			nav, ok := it.Current().(*htmlquery.NodeNavigator)
			if !ok {
				panic(fmt.Sprintf("unexpected navigator type %T", it.Current()))
			}
			if !yield(nodeText(nav)) {
				return
			}
		}
	}
}

func nodeText(nav *htmlquery.NodeNavigator) string {
	if nav.NodeType() == xpath.AttributeNode {
		return collapseSpace(nav.Value())
	}
	return VisibleText(nav.Current())
}

// invisible lists elements whose content is never rendered as text.
var invisible = map[string]bool{
	"head":     true,
	"noscript": true,
	"script":   true,
	"style":    true,
	"template": true,
}

// block lists elements that break the text flow. Their content is separated
// from surrounding text by whitespace; inline elements are joined as-is.
var block = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "footer": true, "form": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"li": true, "main": true, "nav": true, "ol": true, "p": true, "pre": true,
	"section": true, "table": true, "td": true, "th": true, "tr": true, "ul": true,
}

// VisibleText returns the rendered text of n with whitespace runs collapsed.
// Script, style and similar subtrees and comments are skipped.
func VisibleText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.CommentNode:
			return
		case html.ElementNode:
			if invisible[n.Data] {
				return
			}
			if block[n.Data] {
				b.WriteByte(' ')
				defer b.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return collapseSpace(b.String())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
