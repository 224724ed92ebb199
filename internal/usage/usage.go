// Package usage defines the plan usage snapshot and its renderings.
package usage

import (
	"fmt"
	"time"
)

// Data is the snapshot written to the output file.
// Optional fields marshal to null when the value could not be determined.
type Data struct {
	FiveHourPercent *float64 `json:"five_hour_percent"`
	WeeklyPercent   *float64 `json:"weekly_percent"`
	ResetsIn        *string  `json:"resets_in"`
	ResetsInMinutes *int     `json:"resets_in_minutes"`
	Raw             Raw      `json:"raw"`
	FetchedAt       string   `json:"fetched_at"`
}

// Raw keeps the source text each percentage was taken from
type Raw struct {
	FiveHour *string `json:"five_hour"`
	Weekly   *string `json:"weekly"`
}

// New returns an empty snapshot stamped with the given time
func New(now time.Time) *Data {
	return &Data{
		FetchedAt: now.UTC().Format(time.RFC3339),
	}
}

// SetResetMinutes fills both reset fields from a minute count
func (d *Data) SetResetMinutes(minutes int) {
	minutes = max(0, minutes)
	d.SetReset(minutes, FormatResetIn(minutes))
}

// SetReset fills both reset fields, keeping human as the display text
func (d *Data) SetReset(minutes int, human string) {
	minutes = max(0, minutes)
	d.ResetsInMinutes = &minutes
	d.ResetsIn = &human
}

// HasPercentages reports whether at least one percentage is known
func (d *Data) HasPercentages() bool {
	return d.FiveHourPercent != nil || d.WeeklyPercent != nil
}

// FetchedTime parses FetchedAt, returning the zero time if it is malformed
func (d *Data) FetchedTime() time.Time {
	t, err := time.Parse(time.RFC3339, d.FetchedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatResetIn renders a minute count the way the usage page does: "2h 40m", "3h" or "45m".
func FormatResetIn(minutes int) string {
	hours := minutes / 60
	mins := minutes % 60

	switch {
	case hours > 0 && mins > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}

// Float returns a pointer to v
func Float(v float64) *float64 { return &v }

// String returns a pointer to v
func String(v string) *string { return &v }
