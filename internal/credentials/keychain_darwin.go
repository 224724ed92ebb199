//go:build darwin

package credentials

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// loadFromKeychain reads the credentials JSON the Claude CLI stores in the login keychain
func loadFromKeychain() (*OAuthCredentials, error) {
	securityPath := "/usr/bin/security"
	if _, err := os.Stat(securityPath); err != nil {
		if lp, lookErr := exec.LookPath("security"); lookErr == nil && filepath.IsAbs(lp) {
			securityPath = lp
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, securityPath, "find-generic-password", "-s", keychainService, "-w").Output()
	if err != nil {
		return nil, fmt.Errorf("no Claude Code credentials found in Keychain: %w", err)
	}

	creds, err := Parse([]byte(strings.TrimSpace(string(out))))
	if err != nil {
		return nil, err
	}
	return creds.ClaudeAiOauth, nil
}
