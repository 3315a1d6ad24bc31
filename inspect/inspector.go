// Package inspect runs the fetch, extract and spell-check pipeline for a page.
package inspect

import (
	"context"

	"github.com/fwojciec/spellrule"
)

var _ spellrule.PageService = (*Inspector)(nil)

// Inspector resolves the selector for a page, fetches it, extracts the
// selected text and optionally spell-checks it. Every step's failure is
// returned as is; nothing is retried and no state is mutated.
type Inspector struct {
	Rules      spellrule.RuleService
	Fetcher    spellrule.Fetcher
	Extractors map[spellrule.Dialect]spellrule.Extractor
	Speller    spellrule.Speller
}

// NewInspector creates an Inspector. Extractors are registered per dialect
// with Register.
func NewInspector(rules spellrule.RuleService, fetcher spellrule.Fetcher, speller spellrule.Speller) *Inspector {
	return &Inspector{
		Rules:      rules,
		Fetcher:    fetcher,
		Extractors: make(map[spellrule.Dialect]spellrule.Extractor),
		Speller:    speller,
	}
}

// Register sets the extractor for a selector dialect, replacing any
// previous one.
func (i *Inspector) Register(d spellrule.Dialect, e spellrule.Extractor) {
	i.Extractors[d] = e
}

// ExtractText returns the text selected on page by the override selector or,
// when override is nil, by the rule registered for the page's site.
func (i *Inspector) ExtractText(ctx context.Context, page string, override *string) (string, error) {
	u, err := spellrule.ParsePage(page)
	if err != nil {
		return "", err
	}

	raw, err := i.selectorFor(ctx, u.Hostname(), override)
	if err != nil {
		return "", err
	}
	sel := spellrule.ParseSelector(raw)
	if sel.Expr == "" {
		return "", spellrule.Errorf(spellrule.ESELECTOR, "empty selector for %s", u.Hostname())
	}
	extractor, ok := i.Extractors[sel.Dialect]
	if !ok {
		return "", spellrule.Errorf(spellrule.ESELECTOR, "unsupported selector dialect %q", sel.Dialect)
	}

	html, err := i.Fetcher.Fetch(ctx, u.String())
	if err != nil {
		return "", err
	}

	return extractor.Extract(html, sel.Expr)
}

// CheckSpelling extracts the page text and checks it with the speller.
func (i *Inspector) CheckSpelling(ctx context.Context, page string, override *string) (*spellrule.SpellCheckResult, error) {
	text, err := i.ExtractText(ctx, page, override)
	if err != nil {
		return nil, err
	}
	return i.Speller.Check(ctx, text)
}

// selectorFor returns the override if given, else the site's rule.
// A missing rule fails before anything is fetched.
func (i *Inspector) selectorFor(ctx context.Context, host string, override *string) (string, error) {
	if override != nil {
		return *override, nil
	}
	rule, err := i.Rules.FindRule(ctx, host)
	if err != nil {
		return "", err
	}
	return rule.Selector, nil
}
