// Package browser drives a Chromium instance with a persistent profile over the DevTools protocol.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"time"

	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

const (
	// offscreenLeft places the window outside any realistic desktop
	offscreenLeft = -2000
	hiddenWidth   = 800
	hiddenHeight  = 600

	pollInterval = 250 * time.Millisecond
)

// ErrTimeout is returned when a wait or navigation exceeds its deadline
var ErrTimeout = errors.New("timed out")

// Options configures a browser launch
type Options struct {
	// ProfileDir holds cookies and local storage between runs
	ProfileDir string
	// ExecPath overrides Chromium discovery
	ExecPath string
	// Interactive opens a regular on-screen window for manual login
	Interactive bool
}

// Session is one running browser with a single tab
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

// allocatorOptions returns the Chromium flags for a launch.
// Chromium never runs headless; hidden runs start off-screen.
func allocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	allocOpts := append([]chromedp.ExecAllocatorOption{},
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.UserDataDir(opts.ProfileDir),
		chromedp.Flag("headless", false),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-session-crashed-bubble", true),
		chromedp.Flag("hide-crash-restore-bubble", true),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("noerrdialogs", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.NoSandbox,
	)

	if opts.Interactive {
		allocOpts = append(allocOpts,
			chromedp.Flag("window-position", "0,0"),
			chromedp.WindowSize(1200, 700),
		)
	} else {
		allocOpts = append(allocOpts,
			chromedp.Flag("window-position", fmt.Sprintf("%d,0", offscreenLeft)),
			chromedp.WindowSize(hiddenWidth, hiddenHeight),
		)
	}

	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	return allocOpts
}

// Launch starts Chromium and opens a blank tab. The browser lives until
// Close is called or ctx is canceled.
func Launch(ctx context.Context, opts Options) (*Session, error) {
	if opts.ProfileDir == "" {
		return nil, errors.New("profile directory is required")
	}
	if err := os.MkdirAll(opts.ProfileDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create profile directory: %w", err)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocatorOptions(opts)...)
	tabCtx, cancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			slog.Debug(fmt.Sprintf(format, args...), "component", "chromedp")
		}),
	)

	// the first Run starts the browser process
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	slog.DebugContext(ctx, "Browser launched", "profile", opts.ProfileDir, "interactive", opts.Interactive)

	return &Session{ctx: tabCtx, cancel: cancel, allocCancel: allocCancel}, nil
}

// run executes actions on the tab, bounded by timeout (when positive) and by ctx
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, timeout)
		defer cancel()
	}

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Navigate loads url and waits for the page to load
func (s *Session) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if err := s.run(ctx, timeout, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// URL returns the tab's current location
func (s *Session) URL(ctx context.Context) (string, error) {
	var location string
	if err := s.run(ctx, 0, chromedp.Location(&location)); err != nil {
		return "", fmt.Errorf("failed to read location: %w", err)
	}
	return location, nil
}

// HTML returns the serialized document
func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, 0, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return html, nil
}

// WaitForText blocks until the body text matches pattern.
// The pattern is evaluated by the page's JavaScript engine, so it must use the
// common subset of RE2 and ECMAScript syntax.
func (s *Session) WaitForText(ctx context.Context, pattern *regexp.Regexp, timeout time.Duration) error {
	expr := fmt.Sprintf(`new RegExp(%s).test(document.body ? document.body.innerText : "")`,
		strconv.Quote(pattern.String()))

	var matched bool
	err := s.run(ctx, 0, chromedp.Poll(expr, &matched,
		chromedp.WithPollingInterval(pollInterval),
		chromedp.WithPollingTimeout(timeout),
	))
	if errors.Is(err, chromedp.ErrPollingTimeout) {
		return fmt.Errorf("waiting for %q: %w after %s", pattern, ErrTimeout, timeout)
	}
	return err
}

// Hide moves the window off-screen and, where supported, minimizes it
func (s *Session) Hide(ctx context.Context) error {
	err := s.run(ctx, 0, chromedp.ActionFunc(func(ctx context.Context) error {
		c := chromedp.FromContext(ctx)
		browserCtx := cdp.WithExecutor(ctx, c.Browser)

		windowID, _, err := cdpbrowser.GetWindowForTarget().WithTargetID(c.Target.TargetID).Do(browserCtx)
		if err != nil {
			return err
		}
		return cdpbrowser.SetWindowBounds(windowID, &cdpbrowser.Bounds{
			Left:   offscreenLeft,
			Top:    0,
			Width:  hiddenWidth,
			Height: hiddenHeight,
		}).Do(browserCtx)
	}))
	if err != nil {
		return fmt.Errorf("failed to move window off-screen: %w", err)
	}

	minimizeWindow(ctx)
	return nil
}

// Close shuts the browser down gracefully so the profile is flushed to disk
func (s *Session) Close() error {
	defer s.allocCancel()
	defer s.cancel()

	if err := chromedp.Cancel(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}
