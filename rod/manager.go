package rod

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/spellrule"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the default number of pages before browser recycling.
const DefaultMaxPages = 75

// generation is one launched browser and the pages currently open on it.
type generation struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    sync.WaitGroup
	closed   chan struct{}
}

func (g *generation) close() error {
	var err error
	if g.browser != nil {
		err = g.browser.Close()
	}
	if g.launcher != nil {
		g.launcher.Kill()
	}
	close(g.closed)
	return err
}

// BrowserManager owns the headless browser and replaces it after a number of
// rendered pages. Chrome's memory baseline grows under load and does not
// return to its initial level even when pages are closed.
//
// A replaced browser stays open until every page acquired on it has been
// released, so recycling never interrupts a render in progress.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	current   *generation
	launch    func() (*generation, error)
	retiring  sync.WaitGroup
	pageCount atomic.Int64
	maxPages  int64
	logger    *slog.Logger
	mu        sync.Mutex
	closed    atomic.Bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the maximum number of pages before the browser is recycled.
// Defaults to DefaultMaxPages if not specified.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithLogger sets the logger for browser lifecycle events.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(bm *BrowserManager) {
		bm.logger = logger
	}
}

// NewBrowserManager launches a headless Chrome browser.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		launch:   launchBrowser,
		maxPages: DefaultMaxPages,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(bm)
	}

	g, err := bm.launch()
	if err != nil {
		return nil, err
	}
	bm.current = g

	return bm, nil
}

// Browser returns the current browser, replacing it first if maxPages pages
// have been rendered since it was launched. The caller must call release
// once it has closed its page on the browser. Returns EFETCH after Close.
func (bm *BrowserManager) Browser() (browser *rod.Browser, release func(), err error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed.Load() || bm.current == nil {
		return nil, nil, spellrule.Errorf(spellrule.EFETCH, "browser is closed")
	}
	if bm.pageCount.Load() >= bm.maxPages {
		bm.recycleBrowser()
	}

	g := bm.current
	g.pages.Add(1)
	return g.browser, sync.OnceFunc(g.pages.Done), nil
}

// IncrementPageCount records a rendered page.
func (bm *BrowserManager) IncrementPageCount() {
	bm.pageCount.Add(1)
}

// Close releases browser resources. The current browser is closed at once;
// replaced browsers are closed as their remaining pages are released.
// Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	g := bm.current
	bm.current = nil
	bm.mu.Unlock()

	var err error
	if g != nil {
		err = g.close()
	}
	bm.retiring.Wait()
	return err
}

// launchBrowser starts a new browser instance with stability flags.
func launchBrowser() (*generation, error) {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return nil, spellrule.WrapError(spellrule.EFETCH, err, "launching browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return nil, spellrule.WrapError(spellrule.EFETCH, err, "connecting to browser: %v", err)
	}

	return &generation{browser: browser, launcher: lnchr, closed: make(chan struct{})}, nil
}

// recycleBrowser makes a fresh browser current and retires the old one in the
// background. If launching fails, the old browser is kept.
// Must be called with mu held.
func (bm *BrowserManager) recycleBrowser() {
	pages := bm.pageCount.Load()

	next, err := bm.launch()
	if err != nil {
		bm.logger.Warn("browser recycle failed, keeping current browser", "pages", pages, "err", err)
		return
	}

	old := bm.current
	bm.current = next
	bm.pageCount.Store(0)

	bm.retiring.Add(1)
	go func() {
		defer bm.retiring.Done()
		old.pages.Wait()
		if err := old.close(); err != nil {
			bm.logger.Warn("closing retired browser failed", "err", err)
		}
	}()

	bm.logger.Info("browser recycled", "pages", pages)
}

// LauncherPID returns the process ID of the current browser launcher, or 0
// once closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.current == nil || bm.current.launcher == nil {
		return 0
	}
	return bm.current.launcher.PID()
}
