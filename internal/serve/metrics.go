package serve

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/denysvitali/plan-usage/internal/snapshot"
	"github.com/denysvitali/plan-usage/internal/usage"
)

// snapshotCollector re-reads the snapshot file on every scrape.
// Unknown values are omitted rather than reported as zero.
type snapshotCollector struct {
	store *snapshot.Store
	kind  usage.Kind
	now   func() time.Time

	percent *prometheus.Desc
	resets  *prometheus.Desc
	age     *prometheus.Desc
	up      *prometheus.Desc
}

func newSnapshotCollector(store *snapshot.Store, kind usage.Kind, now func() time.Time) *snapshotCollector {
	return &snapshotCollector{
		store: store,
		kind:  kind,
		now:   now,
		percent: prometheus.NewDesc("plan_usage_percent",
			"Usage percentage reported for a window", []string{"window", "kind"}, nil),
		resets: prometheus.NewDesc("plan_usage_resets_in_seconds",
			"Seconds until the 5-hour window resets", nil, nil),
		age: prometheus.NewDesc("plan_usage_snapshot_age_seconds",
			"Seconds since the snapshot was fetched", nil, nil),
		up: prometheus.NewDesc("plan_usage_snapshot_up",
			"Whether a readable snapshot exists", nil, nil),
	}
}

func (c *snapshotCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.percent
	ch <- c.resets
	ch <- c.age
	ch <- c.up
}

func (c *snapshotCollector) Collect(ch chan<- prometheus.Metric) {
	var data usage.Data
	if err := c.store.Read(&data); err != nil {
		ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, 0)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, 1)

	if data.FiveHourPercent != nil {
		ch <- prometheus.MustNewConstMetric(c.percent, prometheus.GaugeValue, *data.FiveHourPercent, "five_hour", string(c.kind))
	}
	if data.WeeklyPercent != nil {
		ch <- prometheus.MustNewConstMetric(c.percent, prometheus.GaugeValue, *data.WeeklyPercent, "weekly", string(c.kind))
	}
	if data.ResetsInMinutes != nil {
		ch <- prometheus.MustNewConstMetric(c.resets, prometheus.GaugeValue, float64(*data.ResetsInMinutes*60))
	}
	if fetched := data.FetchedTime(); !fetched.IsZero() {
		ch <- prometheus.MustNewConstMetric(c.age, prometheus.GaugeValue, c.now().Sub(fetched).Seconds())
	}
}
