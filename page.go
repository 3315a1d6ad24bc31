package spellrule

import (
	"context"
	"net/url"
	"regexp"
	"strings"
)

// schemePrefix matches a leading URL scheme such as "https://".
var schemePrefix = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)

// ParsePage turns a page reference into an absolute URL. References without a
// scheme (e.g. "example.com/index") are treated as http URLs. Only http and
// https are accepted.
func ParsePage(page string) (*url.URL, error) {
	page = strings.TrimSpace(page)
	if page == "" {
		return nil, Errorf(EINVALID, "page required")
	}
	if !schemePrefix.MatchString(page) {
		page = "http://" + page
	}

	u, err := url.Parse(page)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid page URL %q: %v", page, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, Errorf(EINVALID, "unsupported page URL scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, Errorf(EINVALID, "page URL %q has no host", page)
	}
	return u, nil
}

// PageService runs the fetch, extract and spell-check pipeline for a page.
//
// The selector override, when non-nil, takes precedence over the rule
// registered for the page's site.
type PageService interface {
	// ExtractText returns the text matched by the page's selector.
	// Returns ENOTFOUND if no selector can be resolved, EFETCH if the page
	// cannot be retrieved, ESELECTOR for an invalid selector and
	// ESELECTORMISS when the selector matches nothing.
	ExtractText(ctx context.Context, page string, override *string) (string, error)

	// CheckSpelling extracts the page text and checks it for spelling errors.
	// Fails with the same codes as ExtractText, plus ESPELL when the spell
	// service fails.
	CheckSpelling(ctx context.Context, page string, override *string) (*SpellCheckResult, error)
}
