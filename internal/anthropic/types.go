package anthropic

import "time"

// UsageResponse is the body of GET /api/oauth/usage. Windows the account
// has no limit for are null.
type UsageResponse struct {
	FiveHour     *Window `json:"five_hour"`
	SevenDay     *Window `json:"seven_day"`
	SevenDayOpus *Window `json:"seven_day_opus"`
}

// Window is one rate-limit window
type Window struct {
	// Utilization is the consumed share, 0-100
	Utilization float64 `json:"utilization"`
	// ResetsAt is null while the window has not started
	ResetsAt *time.Time `json:"resets_at"`
}

// Remaining returns 100 - utilization. Utilization above 100 gives a
// negative value; nil windows count as untouched.
func (w *Window) Remaining() float64 {
	if w == nil {
		return 100
	}
	return 100 - w.Utilization
}

// ResetMinutes returns whole minutes from now until the window resets.
// The second result is false when the reset time is unknown.
func (w *Window) ResetMinutes(now time.Time) (int, bool) {
	if w == nil || w.ResetsAt == nil {
		return 0, false
	}
	d := w.ResetsAt.Sub(now)
	if d < 0 {
		return 0, true
	}
	return int(d / time.Minute), true
}
