// Package config resolves settings from flags, environment variables and an optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/denysvitali/plan-usage/internal/usage"
)

const (
	appName        = "plan-usage"
	outputFileName = "plan-usage.json"

	// DefaultInterval is the daemon polling period
	DefaultInterval = 5 * time.Minute
	// MinInterval keeps daemon mode from hammering the service
	MinInterval = 10 * time.Second
)

// Keys shared between flags, environment variables and the config file
const (
	KeyOutput      = "output"
	KeyOutputDir   = "output-dir"
	KeyProfileDir  = "profile-dir"
	KeyCredentials = "credentials"
	KeyInterval    = "interval"
	KeyDaemon      = "daemon"
	KeyHeaded      = "headed"
	KeyLogin       = "login"
	KeyVerbose     = "verbose"
	KeyChromePath  = "chrome-path"
	KeyAPIBaseURL  = "api-base-url"
	KeyPercentKind = "percent-kind"
)

// Config is the resolved configuration for one run
type Config struct {
	OutputPath      string
	ProfileDir      string
	CredentialsPath string
	ChromePath      string
	APIBaseURL      string
	Interval        time.Duration
	PercentKind     usage.Kind
	Daemon          bool
	Headed          bool
	Login           bool
	Verbose         bool
}

// New returns a viper instance with environment bindings and the config file loaded.
// A missing config file is not an error.
func New() (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault(KeyInterval, DefaultInterval)
	v.SetDefault(KeyPercentKind, string(usage.KindUsed))

	v.SetEnvPrefix("PLAN_USAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	bindings := map[string][]string{
		KeyOutputDir:   {"OUTPUT_DIR"},
		KeyProfileDir:  {"PROFILE_DIR", "PLAYWRIGHT_PROFILE_DIR"},
		KeyCredentials: {"CLAUDE_CREDENTIALS_PATH"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(Dir())
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return v, nil
}

// Dir returns the directory searched for config.yaml
func Dir() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

// Load resolves the final configuration, filling in defaults under the home directory
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		OutputPath:      expandHome(v.GetString(KeyOutput)),
		ProfileDir:      expandHome(v.GetString(KeyProfileDir)),
		CredentialsPath: expandHome(v.GetString(KeyCredentials)),
		ChromePath:      v.GetString(KeyChromePath),
		APIBaseURL:      v.GetString(KeyAPIBaseURL),
		Interval:        v.GetDuration(KeyInterval),
		Daemon:          v.GetBool(KeyDaemon),
		Headed:          v.GetBool(KeyHeaded) || v.GetBool(KeyLogin),
		Login:           v.GetBool(KeyLogin),
		Verbose:         v.GetBool(KeyVerbose),
	}

	if cfg.OutputPath == "" {
		if dir := v.GetString(KeyOutputDir); dir != "" {
			cfg.OutputPath = filepath.Join(expandHome(dir), outputFileName)
		}
	}

	if cfg.OutputPath == "" || cfg.ProfileDir == "" {
		claudeDir, err := claudeHome()
		if err != nil {
			return nil, err
		}
		if cfg.OutputPath == "" {
			cfg.OutputPath = filepath.Join(claudeDir, outputFileName)
		}
		if cfg.ProfileDir == "" {
			cfg.ProfileDir = filepath.Join(claudeDir, "playwright-profile")
		}
	}

	kind, err := usage.ParseKind(v.GetString(KeyPercentKind))
	if err != nil {
		return nil, err
	}
	cfg.PercentKind = kind

	if cfg.Daemon && cfg.Interval < MinInterval {
		return nil, fmt.Errorf("interval %s is below the minimum of %s", cfg.Interval, MinInterval)
	}

	return cfg, nil
}

func claudeHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".claude"), nil
}

// expandHome resolves a leading ~/ in paths taken from the config file
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
