package spellrule

import "strings"

// Dialect identifies the query language of a selector.
type Dialect string

// Supported selector dialects.
const (
	DialectXPath Dialect = "xpath"
	DialectCSS   Dialect = "css"
)

// Selector is a parsed rule selector.
type Selector struct {
	Dialect Dialect
	Expr    string
}

// ParseSelector splits an optional "css:" or "xpath:" prefix from a raw rule.
// Rules without a prefix are XPath expressions.
func ParseSelector(raw string) Selector {
	for _, d := range []Dialect{DialectCSS, DialectXPath} {
		if expr, ok := strings.CutPrefix(raw, string(d)+":"); ok {
			return Selector{Dialect: d, Expr: strings.TrimSpace(expr)}
		}
	}
	return Selector{Dialect: DialectXPath, Expr: strings.TrimSpace(raw)}
}

// String returns the selector in rule form.
func (s Selector) String() string {
	if s.Dialect == DialectXPath {
		return s.Expr
	}
	return string(s.Dialect) + ":" + s.Expr
}
