package scrape

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

func TestParseUsage_LabelledSections(t *testing.T) {
	text := `Plan usage limits
Current session
Resets in 2 hr 40 min
37% used
Weekly limits
All models
12.5% used`

	data, err := ParseUsage(text, fixedNow)
	require.NoError(t, err)

	require.NotNil(t, data.FiveHourPercent)
	assert.Equal(t, 37.0, *data.FiveHourPercent)
	require.NotNil(t, data.WeeklyPercent)
	assert.Equal(t, 12.5, *data.WeeklyPercent)

	require.NotNil(t, data.ResetsInMinutes)
	assert.Equal(t, 160, *data.ResetsInMinutes)
	assert.Equal(t, "2h 40m", *data.ResetsIn)

	require.NotNil(t, data.Raw.FiveHour)
	assert.Contains(t, *data.Raw.FiveHour, "Current session")
	assert.Equal(t, "2026-03-04T10:00:00Z", data.FetchedAt)
}

func TestParseUsage_FallbackPercentages(t *testing.T) {
	data, err := ParseUsage("Usage 42% and 7%", fixedNow)
	require.NoError(t, err)

	assert.Equal(t, 42.0, *data.FiveHourPercent)
	assert.Equal(t, "42%", *data.Raw.FiveHour)
	assert.Equal(t, 7.0, *data.WeeklyPercent)
	assert.Equal(t, "7%", *data.Raw.Weekly)
	assert.Nil(t, data.ResetsIn)
	assert.Nil(t, data.ResetsInMinutes)
}

func TestParseUsage_OnlyWeekly(t *testing.T) {
	data, err := ParseUsage("Weekly limit: 80%", fixedNow)
	require.NoError(t, err)

	// the single percentage serves both the labelled weekly match and the session fallback
	assert.Equal(t, 80.0, *data.WeeklyPercent)
	assert.Equal(t, 80.0, *data.FiveHourPercent)
}

func TestParseUsage_NoPercentages(t *testing.T) {
	_, err := ParseUsage("Settings Profile Billing", fixedNow)
	require.ErrorIs(t, err, ErrNoUsageData)

	_, err = ParseUsage("   ", fixedNow)
	require.Error(t, err)
}

func TestParseUsage_RawSnippetTruncated(t *testing.T) {
	long := "Current session " + strings.Repeat("x", 150) + " 55%"

	data, err := ParseUsage(long, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 55.0, *data.FiveHourPercent)
	assert.LessOrEqual(t, len([]rune(*data.Raw.FiveHour)), 100)
}

func TestParseReset(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		minutes int
		human   string
		ok      bool
	}{
		{"hours and minutes", "Resets in 2 hr 40 min", 160, "2h 40m", true},
		{"minutes only", "resets in 45 min", 45, "45m", true},
		{"minutes above an hour keep their unit", "Resets in 90 min", 90, "90m", true},
		{"hours only", "Reset in 3 hr", 180, "3h", true},
		{"compact", "Resets in 1h 5min", 65, "1h 5m", true},
		{"no-break spaces", "Resets\u00a0in\u00a02\u00a0hr\u00a040\u00a0min", 160, "2h 40m", true},
		{"no countdown", "Resets Tuesday 9:00 AM", 0, "", false},
		{"no numbers", "Resets in a while", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			minutes, human, ok := ParseReset(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.minutes, minutes)
			assert.Equal(t, tt.human, human)
		})
	}
}

func TestParseUsage_NoBreakSpaces(t *testing.T) {
	text := "Current\u00a0session Resets\u00a0in\u00a02\u00a0hr 40 min 37% used Weekly\u00a0limits 12% used"

	data, err := ParseUsage(text, fixedNow)
	require.NoError(t, err)

	require.NotNil(t, data.Raw.FiveHour)
	assert.Contains(t, *data.Raw.FiveHour, "Current session", "labelled match should be used")
	assert.Equal(t, 37.0, *data.FiveHourPercent)
	assert.Equal(t, 12.0, *data.WeeklyPercent)

	require.NotNil(t, data.ResetsInMinutes)
	assert.Equal(t, 160, *data.ResetsInMinutes)
	assert.Equal(t, "2h 40m", *data.ResetsIn)
}

func TestNormalizeSpace(t *testing.T) {
	assert.Equal(t, "a b c\nd", NormalizeSpace("a\u00a0b\u2009c\nd"))
}

func TestIsReady(t *testing.T) {
	assert.False(t, IsReady("Loading..."))
	assert.True(t, IsReady("12% used"))
}
