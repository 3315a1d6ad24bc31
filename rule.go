package spellrule

import (
	"context"
	"strings"
)

// Rule binds a site hostname to the selector used to extract its text.
type Rule struct {
	Site     string `json:"site"`
	Selector string `json:"rule"`
}

// Validate returns an error if the rule contains invalid fields.
// Selector syntax is not checked here; it is validated at extraction time.
func (r *Rule) Validate() error {
	if r.Site == "" {
		return Errorf(EINVALID, "rule site required")
	}
	return nil
}

// NormalizeSite returns the canonical registry key for a hostname:
// trimmed, lower-cased and without a trailing dot.
func NormalizeSite(site string) string {
	site = strings.ToLower(strings.TrimSpace(site))
	return strings.TrimSuffix(site, ".")
}

// RuleService represents a service for managing selector rules.
type RuleService interface {
	// SetRule inserts the rule or replaces the existing rule for its site.
	SetRule(ctx context.Context, rule *Rule) error

	// FindRule retrieves the rule for a site.
	// Returns ENOTFOUND if no rule is registered for the site.
	FindRule(ctx context.Context, site string) (*Rule, error)

	// FindRules retrieves all rules ordered by site.
	FindRules(ctx context.Context) ([]*Rule, error)

	// DeleteRule removes the rule for a site.
	// Deleting a site without a rule is a no-op.
	DeleteRule(ctx context.Context, site string) error
}
