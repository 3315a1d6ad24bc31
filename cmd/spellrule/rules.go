package main

import (
	"fmt"

	"github.com/fwojciec/spellrule"
)

// Run executes the rules command.
func (c *RulesCmd) Run(deps *Dependencies) error {
	rules, err := deps.Rules.FindRules(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", spellrule.ErrorMessage(err))
		return err
	}

	if len(rules) == 0 {
		fmt.Fprintln(deps.Stdout, "No rules loaded. Use --rules-file to load some.")
		return nil
	}

	for _, r := range rules {
		fmt.Fprintf(deps.Stdout, "%s  %s\n", r.Site, r.Selector)
	}
	return nil
}
