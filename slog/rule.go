package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/spellrule"
)

var _ spellrule.RuleService = (*LoggingRuleService)(nil)

// LoggingRuleService wraps a RuleService with debug logging. Lookups are
// frequent, so they log at debug level; changes log at info level.
type LoggingRuleService struct {
	next   spellrule.RuleService
	logger *slog.Logger
}

// NewLoggingRuleService creates a new LoggingRuleService.
func NewLoggingRuleService(next spellrule.RuleService, logger *slog.Logger) *LoggingRuleService {
	return &LoggingRuleService{next: next, logger: logger}
}

func (s *LoggingRuleService) SetRule(ctx context.Context, rule *spellrule.Rule) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("set rule",
			"site", rule.Site,
			"rule", rule.Selector,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SetRule(ctx, rule)
}

func (s *LoggingRuleService) FindRule(ctx context.Context, site string) (rule *spellrule.Rule, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find rule",
			"site", site,
			"found", rule != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindRule(ctx, site)
}

func (s *LoggingRuleService) FindRules(ctx context.Context) (rules []*spellrule.Rule, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find rules",
			"n", len(rules),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindRules(ctx)
}

func (s *LoggingRuleService) DeleteRule(ctx context.Context, site string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete rule",
			"site", site,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteRule(ctx, site)
}
