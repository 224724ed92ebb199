package serve

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/denysvitali/plan-usage/internal/snapshot"
	"github.com/denysvitali/plan-usage/internal/usage"
)

func TestSnapshotCollector(t *testing.T) {
	store := snapshot.NewStore(filepath.Join(t.TempDir(), "plan-usage.json"))
	fetched := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return fetched.Add(90 * time.Second) }

	c := newSnapshotCollector(store, usage.KindUsed, now)

	err := testutil.CollectAndCompare(c, strings.NewReader(`
# HELP plan_usage_snapshot_up Whether a readable snapshot exists
# TYPE plan_usage_snapshot_up gauge
plan_usage_snapshot_up 0
`))
	require.NoError(t, err)

	data := usage.New(fetched)
	data.FiveHourPercent = usage.Float(64)
	data.SetResetMinutes(10)
	require.NoError(t, store.Write(data))

	err = testutil.CollectAndCompare(c, strings.NewReader(`
# HELP plan_usage_percent Usage percentage reported for a window
# TYPE plan_usage_percent gauge
plan_usage_percent{kind="used",window="five_hour"} 64
# HELP plan_usage_resets_in_seconds Seconds until the 5-hour window resets
# TYPE plan_usage_resets_in_seconds gauge
plan_usage_resets_in_seconds 600
# HELP plan_usage_snapshot_age_seconds Seconds since the snapshot was fetched
# TYPE plan_usage_snapshot_age_seconds gauge
plan_usage_snapshot_age_seconds 90
# HELP plan_usage_snapshot_up Whether a readable snapshot exists
# TYPE plan_usage_snapshot_up gauge
plan_usage_snapshot_up 1
`))
	require.NoError(t, err)
}
