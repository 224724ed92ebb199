package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"default hides debug", false, false},
		{"verbose shows debug", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(&buf, tt.verbose)

			logger.Debug("debug line")
			logger.Info("info line", "key", "value")

			out := buf.String()
			if got := strings.Contains(out, "debug line"); got != tt.wantDebug {
				t.Errorf("debug output = %v, want %v:\n%s", got, tt.wantDebug, out)
			}
			if !strings.Contains(out, "info line") || !strings.Contains(out, "key=value") {
				t.Errorf("info line missing:\n%s", out)
			}
		})
	}
}

func TestNew_NoColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Info("plain")

	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("unexpected ANSI escapes in %q", buf.String())
	}
}
