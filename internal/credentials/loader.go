// Package credentials handles loading OAuth credentials written by the Claude CLI.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// TokenEnvVar overrides every other credential source
	TokenEnvVar = "CLAUDE_OAUTH_TOKEN"

	keychainService = "Claude Code-credentials"
)

var (
	// ErrNoCredentials is returned when no source yields an access token
	ErrNoCredentials = errors.New("no OAuth credentials found - please run 'claude' to authenticate")
	// ErrTokenExpired is returned for a token whose expiry has passed
	ErrTokenExpired = errors.New("token expired - run 'claude' to refresh")
)

// Credentials represents the structure of ~/.claude/.credentials.json
type Credentials struct {
	ClaudeAiOauth *OAuthCredentials `json:"claudeAiOauth"`
}

// OAuthCredentials contains the OAuth token information
type OAuthCredentials struct {
	AccessToken      string   `json:"accessToken"`
	RefreshToken     string   `json:"refreshToken"`
	ExpiresAt        int64    `json:"expiresAt"`
	Scopes           []string `json:"scopes"`
	SubscriptionType string   `json:"subscriptionType,omitempty"`
}

// IsExpired checks if the access token has expired.
// Tokens without an expiry (e.g. from the environment) never expire here.
func (o *OAuthCredentials) IsExpired() bool {
	if o.ExpiresAt == 0 {
		return false
	}
	return time.Now().After(time.UnixMilli(o.ExpiresAt))
}

// ExpiresIn returns the duration until the token expires
func (o *OAuthCredentials) ExpiresIn() time.Duration {
	return time.Until(time.UnixMilli(o.ExpiresAt))
}

// DefaultPath returns ~/.claude/.credentials.json
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".claude", ".credentials.json"), nil
}

// Load resolves credentials from, in order: the CLAUDE_OAUTH_TOKEN environment
// variable, the credentials file at path (default location when empty), and on
// macOS the login keychain.
func Load(path string) (*OAuthCredentials, error) {
	if tok := os.Getenv(TokenEnvVar); tok != "" {
		return &OAuthCredentials{AccessToken: tok}, nil
	}

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	creds, err := LoadFromPath(path)
	if err == nil {
		return creds.ClaudeAiOauth, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	fromKeychain, kerr := loadFromKeychain()
	if kerr != nil {
		return nil, fmt.Errorf("credentials file not found at %s: %w", path, ErrNoCredentials)
	}
	return fromKeychain, nil
}

// LoadValid is Load followed by an expiry check
func LoadValid(path string) (*OAuthCredentials, error) {
	creds, err := Load(path)
	if err != nil {
		return nil, err
	}
	if creds.IsExpired() {
		return nil, ErrTokenExpired
	}
	return creds, nil
}

// LoadFromPath reads credentials from a specific file path
func LoadFromPath(path string) (*Credentials, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) //#nosec G304 -- path is derived from user's home directory
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates a credentials document
func Parse(data []byte) (*Credentials, error) {
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	if creds.ClaudeAiOauth == nil {
		return nil, ErrNoCredentials
	}

	if creds.ClaudeAiOauth.AccessToken == "" {
		return nil, fmt.Errorf("no access token found in credentials: %w", ErrNoCredentials)
	}

	return &creds, nil
}
