// Package memory provides an in-memory implementation of spellrule.RuleService.
// Rules do not survive a process restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/spellrule"
)

// DefaultShards is the number of independently locked maps in a RuleService.
const DefaultShards = 16

var _ spellrule.RuleService = (*RuleService)(nil)

// RuleService stores rules in maps sharded by the hash of the site.
// Each operation locks only the shard that owns its site, so operations on
// different sites rarely contend. There is no cross-site atomicity.
//
// RuleService is safe for concurrent use.
type RuleService struct {
	shards []*shard
}

type shard struct {
	mu    sync.RWMutex
	rules map[string]string
}

// Option configures a RuleService.
type Option func(*RuleService)

// WithShards sets the number of shards. Values below 1 are ignored.
func WithShards(n int) Option {
	return func(s *RuleService) {
		if n > 0 {
			s.shards = make([]*shard, n)
		}
	}
}

// NewRuleService creates an empty RuleService.
func NewRuleService(opts ...Option) *RuleService {
	s := &RuleService{
		shards: make([]*shard, DefaultShards),
	}
	for _, opt := range opts {
		opt(s)
	}
	for i := range s.shards {
		s.shards[i] = &shard{rules: make(map[string]string)}
	}
	return s
}

// SetRule inserts the rule or replaces the existing rule for its site.
func (s *RuleService) SetRule(ctx context.Context, rule *spellrule.Rule) error {
	site := spellrule.NormalizeSite(rule.Site)
	if err := (&spellrule.Rule{Site: site, Selector: rule.Selector}).Validate(); err != nil {
		return err
	}

	sh := s.shardFor(site)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sh.rules[site] = rule.Selector
	return nil
}

// FindRule returns a copy of the rule for a site.
// Returns ENOTFOUND if no rule is registered for the site.
func (s *RuleService) FindRule(ctx context.Context, site string) (*spellrule.Rule, error) {
	site = spellrule.NormalizeSite(site)

	sh := s.shardFor(site)
	sh.mu.RLock()
	selector, ok := sh.rules[site]
	sh.mu.RUnlock()

	if !ok {
		return nil, spellrule.Errorf(spellrule.ENOTFOUND, "no rule for site %q", site)
	}
	return &spellrule.Rule{Site: site, Selector: selector}, nil
}

// FindRules returns all rules ordered by site. Shards are read one at a time,
// so the result is not a point-in-time snapshot across sites.
func (s *RuleService) FindRules(ctx context.Context) ([]*spellrule.Rule, error) {
	var rules []*spellrule.Rule
	for _, sh := range s.shards {
		sh.mu.RLock()
		for site, selector := range sh.rules {
			rules = append(rules, &spellrule.Rule{Site: site, Selector: selector})
		}
		sh.mu.RUnlock()
	}

	sort.Slice(rules, func(i, j int) bool { return rules[i].Site < rules[j].Site })
	if rules == nil {
		rules = []*spellrule.Rule{}
	}
	return rules, nil
}

// DeleteRule removes the rule for a site. Deleting a missing rule is a no-op.
func (s *RuleService) DeleteRule(ctx context.Context, site string) error {
	site = spellrule.NormalizeSite(site)

	sh := s.shardFor(site)
	sh.mu.Lock()
	delete(sh.rules, site)
	sh.mu.Unlock()
	return nil
}

func (s *RuleService) shardFor(site string) *shard {
	return s.shards[xxhash.Sum64String(site)%uint64(len(s.shards))]
}
