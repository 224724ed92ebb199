package browser

import (
	"context"
	"log/slog"
	"os/exec"
	"time"
)

const minimizeScript = `tell application "System Events"
	set chromeProcs to every process whose name contains "Chromium" or name contains "Google Chrome for Testing"
	repeat with p in chromeProcs
		try
			set miniaturized of every window of p to true
		end try
	end repeat
end tell`

// minimizeWindow asks System Events to minimize the Chromium window
func minimizeWindow(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := exec.CommandContext(ctx, "osascript", "-e", minimizeScript).Run(); err != nil {
		slog.DebugContext(ctx, "Could not minimize browser window", "error", err)
	}
}
