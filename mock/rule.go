package mock

import (
	"context"

	"github.com/fwojciec/spellrule"
)

var _ spellrule.RuleService = (*RuleService)(nil)

// RuleService is a mock implementation of spellrule.RuleService.
type RuleService struct {
	SetRuleFn    func(ctx context.Context, rule *spellrule.Rule) error
	FindRuleFn   func(ctx context.Context, site string) (*spellrule.Rule, error)
	FindRulesFn  func(ctx context.Context) ([]*spellrule.Rule, error)
	DeleteRuleFn func(ctx context.Context, site string) error
}

func (s *RuleService) SetRule(ctx context.Context, rule *spellrule.Rule) error {
	return s.SetRuleFn(ctx, rule)
}

func (s *RuleService) FindRule(ctx context.Context, site string) (*spellrule.Rule, error) {
	return s.FindRuleFn(ctx, site)
}

func (s *RuleService) FindRules(ctx context.Context) ([]*spellrule.Rule, error) {
	return s.FindRulesFn(ctx)
}

func (s *RuleService) DeleteRule(ctx context.Context, site string) error {
	return s.DeleteRuleFn(ctx, site)
}
