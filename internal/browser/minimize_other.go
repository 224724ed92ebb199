//go:build !darwin

package browser

import "context"

// minimizeWindow is a no-op outside macOS; the window is already off-screen
func minimizeWindow(context.Context) {}
