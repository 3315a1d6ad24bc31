// Package yaml loads rule seed files.
//
// A seed file lists one rule per site:
//
//	rules:
//	  - site: example.com
//	    rule: //article//p
//	  - site: news.example.org
//	    rule: "css: main .content"
package yaml

import (
	"errors"
	"io"
	"os"

	"github.com/fwojciec/spellrule"
	"gopkg.in/yaml.v3"
)

// File is the seed file document.
type File struct {
	Rules []Rule `yaml:"rules"`
}

// Rule is a single seed entry.
type Rule struct {
	Site string  `yaml:"site"`
	Rule *string `yaml:"rule"`
}

// LoadRules decodes a seed document. Unknown fields, entries without a site
// and entries without a rule key are EINVALID. An empty document yields no
// rules. Later entries for the same site replace earlier ones when applied in
// order.
func LoadRules(r io.Reader) ([]*spellrule.Rule, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, spellrule.WrapError(spellrule.EINVALID, err, "invalid rules file: %v", err)
	}

	rules := make([]*spellrule.Rule, 0, len(f.Rules))
	for i, entry := range f.Rules {
		if entry.Rule == nil {
			return nil, spellrule.Errorf(spellrule.EINVALID, "rules[%d]: rule required", i)
		}
		rule := &spellrule.Rule{Site: spellrule.NormalizeSite(entry.Site), Selector: *entry.Rule}
		if err := rule.Validate(); err != nil {
			return nil, spellrule.Errorf(spellrule.EINVALID, "rules[%d]: %s", i, spellrule.ErrorMessage(err))
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// LoadRulesFile reads and decodes the seed file at path.
func LoadRulesFile(path string) ([]*spellrule.Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadRules(f)
}
