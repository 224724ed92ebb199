package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/denysvitali/plan-usage/internal/browser"
	"github.com/denysvitali/plan-usage/internal/scrape"
)

// Confirm blocks until the user signals they are done logging in
type Confirm func(ctx context.Context) error

// Login opens a visible browser on claude.ai so the user can sign in, then
// closes it gracefully once confirm returns so the session is written to the profile.
// Interrupting the prompt with ctx still saves the session.
func Login(ctx context.Context, opts browser.Options, launch Launcher, confirm Confirm) error {
	if launch == nil {
		launch = ChromeLauncher
	}
	opts.Interactive = true

	slog.InfoContext(ctx, "Opening browser for login", "profile", opts.ProfileDir)
	page, err := launch(context.WithoutCancel(ctx), opts)
	if err != nil {
		return err
	}

	if err := page.Navigate(ctx, scrape.HomeURL, navigationTimeout); err != nil {
		// the user can still navigate by hand
		slog.WarnContext(ctx, "Initial navigation failed", "error", err)
	}

	confirmErr := confirm(ctx)

	slog.InfoContext(ctx, "Closing browser")
	if err := page.Close(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if confirmErr != nil && !errors.Is(confirmErr, context.Canceled) {
		return confirmErr
	}

	slog.InfoContext(ctx, "Session saved. Future runs can use headless mode.")
	return nil
}
