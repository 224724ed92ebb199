package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denysvitali/plan-usage/internal/usage"
)

// isolate points HOME and XDG_CONFIG_HOME at temp dirs and clears the environment overrides
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	xdg.Reload()
	for _, env := range []string{
		"OUTPUT_DIR", "PROFILE_DIR", "PLAYWRIGHT_PROFILE_DIR", "CLAUDE_CREDENTIALS_PATH",
		"PLAN_USAGE_INTERVAL", "PLAN_USAGE_OUTPUT", "PLAN_USAGE_DAEMON", "PLAN_USAGE_PERCENT_KIND",
	} {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
	return home
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	v, err := New()
	require.NoError(t, err)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".claude", "plan-usage.json"), cfg.OutputPath)
	assert.Equal(t, filepath.Join(home, ".claude", "playwright-profile"), cfg.ProfileDir)
	assert.Equal(t, DefaultInterval, cfg.Interval)
	assert.Equal(t, usage.KindUsed, cfg.PercentKind)
	assert.Empty(t, cfg.CredentialsPath)
	assert.False(t, cfg.Headed)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("OUTPUT_DIR", "/data/usage")
	t.Setenv("PLAYWRIGHT_PROFILE_DIR", "/profiles/legacy")
	t.Setenv("CLAUDE_CREDENTIALS_PATH", "/secrets/creds.json")
	t.Setenv("PLAN_USAGE_INTERVAL", "2m")

	v, err := New()
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "/data/usage/plan-usage.json", cfg.OutputPath)
	assert.Equal(t, "/profiles/legacy", cfg.ProfileDir)
	assert.Equal(t, "/secrets/creds.json", cfg.CredentialsPath)
	assert.Equal(t, 2*time.Minute, cfg.Interval)
}

func TestLoad_ProfileDirPrecedence(t *testing.T) {
	isolate(t)
	t.Setenv("PROFILE_DIR", "/profiles/new")
	t.Setenv("PLAYWRIGHT_PROFILE_DIR", "/profiles/legacy")

	v, err := New()
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "/profiles/new", cfg.ProfileDir)
}

func TestLoad_ExplicitOutputBeatsOutputDir(t *testing.T) {
	isolate(t)
	t.Setenv("OUTPUT_DIR", "/data/usage")

	v, err := New()
	require.NoError(t, err)
	v.Set(KeyOutput, "/tmp/custom.json")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.json", cfg.OutputPath)
}

func TestLoad_LoginImpliesHeaded(t *testing.T) {
	isolate(t)

	v, err := New()
	require.NoError(t, err)
	v.Set(KeyLogin, true)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.True(t, cfg.Login)
	assert.True(t, cfg.Headed)
}

func TestLoad_IntervalTooShort(t *testing.T) {
	isolate(t)

	v, err := New()
	require.NoError(t, err)
	v.Set(KeyDaemon, true)
	v.Set(KeyInterval, "1s")

	_, err = Load(v)
	require.Error(t, err)
}

func TestLoad_PercentKind(t *testing.T) {
	isolate(t)
	t.Setenv("PLAN_USAGE_PERCENT_KIND", "remaining")

	v, err := New()
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, usage.KindRemaining, cfg.PercentKind)

	v.Set(KeyPercentKind, "left")
	_, err = Load(v)
	require.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home := isolate(t)

	tests := []struct {
		in   string
		want string
	}{
		{"~/out.json", filepath.Join(home, "out.json")},
		{"~", home},
		{"/abs/path", "/abs/path"},
		{"relative/~/x", "relative/~/x"},
	}

	for _, tt := range tests {
		if got := expandHome(tt.in); got != tt.want {
			t.Errorf("expandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNew_ReadsConfigFile(t *testing.T) {
	isolate(t)
	require.NoError(t, os.MkdirAll(Dir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(Dir(), "config.yaml"), []byte("output: /srv/usage.json\ninterval: 15m\n"), 0o644))

	v, err := New()
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "/srv/usage.json", cfg.OutputPath)
	assert.Equal(t, 15*time.Minute, cfg.Interval)
}

func TestNew_InvalidConfigFile(t *testing.T) {
	isolate(t)
	require.NoError(t, os.MkdirAll(Dir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(Dir(), "config.yaml"), []byte("output: [unterminated\n"), 0o644))

	_, err := New()
	require.Error(t, err)
}
