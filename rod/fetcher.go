// Package rod provides a spellrule.Fetcher that renders pages in headless
// Chrome, for sites whose text is produced by JavaScript.
package rod

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fwojciec/spellrule"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout is the default time allowed to load and render a page.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements spellrule.Fetcher at compile time.
var _ spellrule.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager  *BrowserManager
	timeout  time.Duration
	maxPages int64
	logger   *slog.Logger
	closed   atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the time allowed for a single fetch.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRecycleAfter sets the number of pages rendered before the browser is
// replaced. Defaults to DefaultMaxPages.
func WithRecycleAfter(n int64) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// WithBrowserLogger sets the logger used for browser lifecycle events.
func WithBrowserLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	mopts := []ManagerOption{WithMaxPages(f.maxPages)}
	if f.logger != nil {
		mopts = append(mopts, WithLogger(f.logger))
	}
	manager, err := NewBrowserManager(mopts...)
	if err != nil {
		return nil, err
	}
	f.manager = manager

	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", spellrule.Errorf(spellrule.EFETCH, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", spellrule.WrapError(spellrule.EFETCH, err, "fetch %s: %v", url, err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	html, err := f.render(ctx, url)
	if err != nil {
		return "", spellrule.WrapError(spellrule.EFETCH, err, "render %s: %v", url, err)
	}
	f.manager.IncrementPageCount()
	return html, nil
}

func (f *Fetcher) render(ctx context.Context, url string) (string, error) {
	browser, release, err := f.manager.Browser()
	if err != nil {
		return "", err
	}
	defer release()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	// Set context for all subsequent operations
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}
	return page.HTML()
}

// LauncherPID returns the process ID of the current browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}
