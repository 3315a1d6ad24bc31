package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/spellrule"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Rules  spellrule.RuleService
	Pages  spellrule.PageService

	// OnReady, when set, is called with the server URL once serve is listening.
	OnReady func(url string)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	LogFormat string `name:"log-format" enum:"text,json" default:"text" env:"SPELLRULE_LOG_FORMAT" help:"Log output format (text, json)"`
	LogLevel  string `name:"log-level" default:"info" env:"SPELLRULE_LOG_LEVEL" help:"Minimum log level (debug, info, warn, error)"`
	RulesFile string `name:"rules-file" type:"path" env:"SPELLRULE_RULES_FILE" help:"YAML file of rules to load at startup"`

	Fetcher      string        `enum:"http,rod" default:"http" env:"SPELLRULE_FETCHER" help:"Page fetcher (http, rod)"`
	FetchTimeout time.Duration `name:"fetch-timeout" default:"10s" env:"SPELLRULE_FETCH_TIMEOUT" help:"Time allowed for a single page fetch"`
	FetchRPS     float64       `name:"fetch-rps" default:"0" env:"SPELLRULE_FETCH_RPS" help:"Per-host fetch rate limit in requests per second (0 disables)"`

	SpellerURL     string        `name:"speller-url" env:"SPELLRULE_SPELLER_URL" help:"Spell service base URL (defaults by format)"`
	SpellerFormat  string        `name:"speller-format" enum:"json,xml" default:"json" env:"SPELLRULE_SPELLER_FORMAT" help:"Spell service response format (json, xml)"`
	SpellerLang    string        `name:"speller-lang" default:"ru,en" env:"SPELLRULE_SPELLER_LANG" help:"Comma-separated spell check languages"`
	SpellerTimeout time.Duration `name:"speller-timeout" default:"10s" env:"SPELLRULE_SPELLER_TIMEOUT" help:"Time allowed for a spell service call"`
	SpellerRPS     float64       `name:"speller-rps" default:"0" env:"SPELLRULE_SPELLER_RPS" help:"Spell service rate limit in requests per second (0 disables)"`

	Serve   ServeCmd   `cmd:"" help:"Serve the rule and spell-check HTTP API"`
	Rules   RulesCmd   `cmd:"" help:"List the rules loaded from --rules-file"`
	Extract ExtractCmd `cmd:"" help:"Print the text a page's rule extracts"`
	Spell   SpellCmd   `cmd:"" help:"Print the misspelled words in a page's text"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8080" env:"SPELLRULE_ADDR" help:"Address to listen on"`
}

// RulesCmd is the "rules" subcommand.
type RulesCmd struct{}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Page string  `arg:"" help:"Page URL (scheme optional)"`
	Rule *string `short:"r" help:"Selector to use instead of the site's rule"`
}

// SpellCmd is the "spell" subcommand.
type SpellCmd struct {
	Page  string  `arg:"" help:"Page URL (scheme optional)"`
	Rule  *string `short:"r" help:"Selector to use instead of the site's rule"`
	Count bool    `short:"c" help:"Print only the number of misspellings"`
}
