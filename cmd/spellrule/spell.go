package main

import (
	"fmt"

	"github.com/fwojciec/spellrule"
)

// Run executes the spell command. Misspelled words are printed one per line
// in the order the spell service reported them.
func (c *SpellCmd) Run(deps *Dependencies) error {
	result, err := deps.Pages.CheckSpelling(deps.Ctx, c.Page, c.Rule)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", spellrule.ErrorMessage(err))
		return err
	}

	if c.Count {
		fmt.Fprintln(deps.Stdout, result.Count())
		return nil
	}

	for _, e := range result.Errors {
		if len(e.Suggestions) > 0 {
			fmt.Fprintf(deps.Stdout, "%s  -> %s\n", e.Word, e.Suggestions[0])
			continue
		}
		fmt.Fprintln(deps.Stdout, e.Word)
	}
	return nil
}
