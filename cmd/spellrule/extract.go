package main

import (
	"fmt"

	"github.com/fwojciec/spellrule"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	text, err := deps.Pages.ExtractText(deps.Ctx, c.Page, c.Rule)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", spellrule.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, text)
	return nil
}
