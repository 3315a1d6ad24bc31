package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/spellrule"
	"github.com/fwojciec/spellrule/goquery"
	"github.com/fwojciec/spellrule/htmlquery"
	spellhttp "github.com/fwojciec/spellrule/http"
	"github.com/fwojciec/spellrule/inspect"
	"github.com/fwojciec/spellrule/memory"
	"github.com/fwojciec/spellrule/rod"
	spellslog "github.com/fwojciec/spellrule/slog"
	"github.com/fwojciec/spellrule/yaml"
	"github.com/fwojciec/spellrule/yandex"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. When nil, Run builds them from flags.
	RuleService spellrule.RuleService
	Fetcher     spellrule.Fetcher
	Speller     spellrule.Speller
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("spellrule"),
		kong.Description("Extract page text with per-site XPath rules and check its spelling"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'spellrule --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger, err := newLogger(stderr, cli.LogFormat, cli.LogLevel)
	if err != nil {
		return err
	}
	deps.Logger = logger

	rules := m.RuleService
	if rules == nil {
		rules = memory.NewRuleService()
	}
	deps.Rules = spellslog.NewLoggingRuleService(rules, logger)
	if cli.RulesFile != "" {
		if err := seedRules(ctx, deps.Rules, cli.RulesFile); err != nil {
			return err
		}
	}

	if fetchesPages(kongCtx.Command()) {
		pages, closePages, err := m.newPages(cli, logger, deps.Rules, stderr)
		if err != nil {
			return err
		}
		defer closePages()
		deps.Pages = pages
	}

	return kongCtx.Run(deps)
}

// fetchesPages reports whether the kong command needs the page pipeline.
// Listing rules never fetches, so it does not start a browser.
func fetchesPages(command string) bool {
	return command != "rules"
}

// newPages builds the fetch, extract and spell-check pipeline. The returned
// func closes the fetcher.
func (m *Main) newPages(cli *CLI, logger *slog.Logger, rules spellrule.RuleService, stderr io.Writer) (spellrule.PageService, func() error, error) {
	fetcher := m.Fetcher
	if fetcher == nil {
		var err error
		if fetcher, err = newFetcher(cli, logger); err != nil {
			if cli.Fetcher == "rod" {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			}
			return nil, nil, fmt.Errorf("failed to create fetcher: %w", err)
		}
	}
	fetcher = spellslog.NewLoggingFetcher(fetcher, logger)

	speller := m.Speller
	if speller == nil {
		speller = yandex.NewSpeller(
			yandex.WithBaseURL(cli.SpellerURL),
			yandex.WithFormat(yandex.Format(cli.SpellerFormat)),
			yandex.WithLanguages(cli.SpellerLang),
			yandex.WithTimeout(cli.SpellerTimeout),
			yandex.WithRateLimit(cli.SpellerRPS),
		)
	}

	inspector := inspect.NewInspector(rules, fetcher, spellslog.NewLoggingSpeller(speller, logger))
	inspector.Register(spellrule.DialectXPath, spellslog.NewLoggingExtractor(htmlquery.NewExtractor(), spellrule.DialectXPath, logger))
	inspector.Register(spellrule.DialectCSS, spellslog.NewLoggingExtractor(goquery.NewExtractor(), spellrule.DialectCSS, logger))
	return inspector, fetcher.Close, nil
}

// newFetcher builds the fetcher selected by --fetcher.
func newFetcher(cli *CLI, logger *slog.Logger) (spellrule.Fetcher, error) {
	switch cli.Fetcher {
	case "rod":
		return rod.NewFetcher(
			rod.WithFetchTimeout(cli.FetchTimeout),
			rod.WithBrowserLogger(logger),
		)
	default:
		return spellhttp.NewFetcher(
			spellhttp.WithTimeout(cli.FetchTimeout),
			spellhttp.WithRateLimit(cli.FetchRPS),
		), nil
	}
}

// seedRules loads the rules file and registers its rules in file order.
func seedRules(ctx context.Context, rules spellrule.RuleService, path string) error {
	seed, err := yaml.LoadRulesFile(path)
	if err != nil {
		return fmt.Errorf("failed to load rules file %q: %w", path, err)
	}
	for _, rule := range seed {
		if err := rules.SetRule(ctx, rule); err != nil {
			return err
		}
	}
	return nil
}

// newLogger returns a text or JSON slog logger writing to w.
func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}
