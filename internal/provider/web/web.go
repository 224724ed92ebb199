// Package web implements the provider that scrapes the claude.ai usage page in a real browser.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/denysvitali/plan-usage/internal/browser"
	"github.com/denysvitali/plan-usage/internal/scrape"
	"github.com/denysvitali/plan-usage/internal/usage"
)

const (
	providerID   = "claude-web"
	providerName = "Claude (claude.ai)"

	navigationTimeout = 30 * time.Second
	redirectTimeout   = 15 * time.Second
	readyTimeout      = 30 * time.Second

	maxRetries = 1
)

// ErrNotLoggedIn is returned by headless runs that land on a login page
var ErrNotLoggedIn = errors.New("not logged in - run with --headed (or --login) to log in")

// Page is the subset of a browser tab the provider drives
type Page interface {
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	URL(ctx context.Context) (string, error)
	HTML(ctx context.Context) (string, error)
	WaitForText(ctx context.Context, pattern *regexp.Regexp, timeout time.Duration) error
	Hide(ctx context.Context) error
	Close() error
}

// Launcher starts a browser and returns its tab
type Launcher func(ctx context.Context, opts browser.Options) (Page, error)

// ChromeLauncher launches Chromium through the DevTools protocol
func ChromeLauncher(ctx context.Context, opts browser.Options) (Page, error) {
	session, err := browser.Launch(ctx, opts)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Options configures the provider
type Options struct {
	Browser browser.Options
	// Headed keeps the window visible and waits for a manual login
	Headed bool
}

// Provider scrapes usage from the settings page
type Provider struct {
	opts   Options
	launch Launcher
	now    func() time.Time

	// pauses between steps, shortened in tests
	loginPoll    time.Duration
	redirectWait time.Duration
	settleWait   time.Duration
	retryDelay   time.Duration
}

// NewProvider creates a provider using launch to start browsers
func NewProvider(opts Options, launch Launcher) *Provider {
	if launch == nil {
		launch = ChromeLauncher
	}
	return &Provider{
		opts:         opts,
		launch:       launch,
		now:          time.Now,
		loginPoll:    3 * time.Second,
		redirectWait: 2 * time.Second,
		settleWait:   time.Second,
		retryDelay:   3 * time.Second,
	}
}

// ID returns the provider identifier
func (p *Provider) ID() string {
	return providerID
}

// Name returns the human-readable provider name
func (p *Provider) Name() string {
	return providerName
}

// GetUsage opens the usage page and scrapes it. Headless runs retry once;
// a missing login is never retried.
func (p *Provider) GetUsage(ctx context.Context) (*usage.Data, error) {
	attempts := 1
	if !p.opts.Headed {
		attempts += maxRetries
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			slog.InfoContext(ctx, "Retrying", "attempt", attempt, "of", attempts, "delay", p.retryDelay)
			if err := sleep(ctx, p.retryDelay); err != nil {
				return nil, err
			}
		}

		data, err := p.fetch(ctx)
		if err == nil {
			return data, nil
		}
		if errors.Is(err, ErrNotLoggedIn) || ctx.Err() != nil {
			return nil, err
		}

		slog.ErrorContext(ctx, "Scrape attempt failed", "attempt", attempt, "error", err)
		lastErr = err
	}

	return nil, lastErr
}

// fetch runs one attempt with a fresh browser
func (p *Provider) fetch(ctx context.Context) (*usage.Data, error) {
	slog.InfoContext(ctx, "Launching browser", "headed", p.opts.Headed)

	// the browser outlives ctx so Close can still shut it down cleanly
	page, err := p.launch(context.WithoutCancel(ctx), p.opts.Browser)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			slog.WarnContext(ctx, "Failed to close browser", "error", cerr)
		}
	}()

	if !p.opts.Headed {
		if err := page.Hide(ctx); err != nil {
			slog.DebugContext(ctx, "Could not hide browser window", "error", err)
		}
	}

	slog.InfoContext(ctx, "Navigating to usage page", "url", scrape.UsageURL)
	if err := page.Navigate(ctx, scrape.UsageURL, navigationTimeout); err != nil {
		return nil, err
	}

	loggedIn, err := p.checkLoggedIn(ctx, page)
	if err != nil {
		return nil, err
	}
	if !loggedIn {
		if !p.opts.Headed {
			return nil, ErrNotLoggedIn
		}
		if err := p.waitForLogin(ctx, page); err != nil {
			return nil, err
		}
	}

	return p.scrape(ctx, page)
}

func (p *Provider) checkLoggedIn(ctx context.Context, page Page) (bool, error) {
	url, err := page.URL(ctx)
	if err != nil {
		return false, err
	}
	slog.DebugContext(ctx, "Current page", "url", url)

	if scrape.IsLoginURL(url) {
		return false, nil
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return false, err
	}
	return !scrape.HasLoginForm(html), nil
}

// waitForLogin polls until the browser reaches the usage page. There is no
// deadline; the user cancels with Ctrl+C.
func (p *Provider) waitForLogin(ctx context.Context, page Page) error {
	slog.InfoContext(ctx, "Not logged in. Please log in using the browser window; usage will be fetched automatically afterwards.")

	for checks := 1; ; checks++ {
		if err := sleep(ctx, p.loginPoll); err != nil {
			return err
		}
		if checks%10 == 0 {
			slog.InfoContext(ctx, "Still waiting for login...")
		}

		url, err := page.URL(ctx)
		if err != nil {
			return err
		}
		if scrape.IsUsageURL(url) {
			slog.InfoContext(ctx, "Login detected")
			return nil
		}
		if !scrape.IsSignedInURL(url) {
			continue
		}

		// signed in but somewhere else on the site
		if err := page.Navigate(ctx, scrape.UsageURL, redirectTimeout); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.DebugContext(ctx, "Navigation attempt failed, will retry", "error", err)
			continue
		}
		if err := sleep(ctx, p.redirectWait); err != nil {
			return err
		}

		url, err = page.URL(ctx)
		if err != nil {
			return err
		}
		if scrape.IsUsageURL(url) {
			slog.InfoContext(ctx, "Login detected")
			return nil
		}
	}
}

func (p *Provider) scrape(ctx context.Context, page Page) (*usage.Data, error) {
	slog.InfoContext(ctx, "Waiting for usage data to load")
	if err := page.WaitForText(ctx, scrape.ReadyPattern, readyTimeout); err != nil {
		return nil, fmt.Errorf("usage data did not load: %w", err)
	}
	if err := sleep(ctx, p.settleWait); err != nil {
		return nil, err
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return nil, err
	}
	text, err := scrape.BodyText(html)
	if err != nil {
		return nil, err
	}

	data, err := scrape.ParseUsage(text, p.now())
	if err != nil {
		return nil, fmt.Errorf("failed to extract usage: %w", err)
	}
	return data, nil
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
