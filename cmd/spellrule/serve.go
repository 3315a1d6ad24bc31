package main

import (
	"fmt"

	"github.com/fwojciec/spellrule"
	spellhttp "github.com/fwojciec/spellrule/http"
	"golang.org/x/sync/errgroup"
)

// Run executes the serve command. It blocks until the context is cancelled
// and then shuts the server down gracefully.
func (c *ServeCmd) Run(deps *Dependencies) error {
	s := spellhttp.NewServer()
	s.Addr = c.Addr
	s.Logger = deps.Logger
	s.RuleService = deps.Rules
	s.PageService = deps.Pages

	if err := s.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", spellrule.ErrorMessage(err))
		return err
	}
	deps.Logger.Info("listening", "url", s.URL())
	if deps.OnReady != nil {
		deps.OnReady(s.URL())
	}

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.Go(s.Serve)
	g.Go(func() error {
		<-ctx.Done()
		deps.Logger.Info("shutting down")
		return s.Close()
	})
	return g.Wait()
}
