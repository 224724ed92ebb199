package usage

import "fmt"

// Kind says what a snapshot's percentages measure. The browser scraper
// records the share of the plan used; the OAuth variant records what remains.
type Kind string

const (
	KindUsed      Kind = "used"
	KindRemaining Kind = "remaining"
)

// ParseKind validates a kind name
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindUsed, KindRemaining:
		return k, nil
	default:
		return "", fmt.Errorf("invalid percent kind %q (want %q or %q)", s, KindUsed, KindRemaining)
	}
}

// Remaining converts a percentage of this kind into the share still available
func (k Kind) Remaining(percent float64) float64 {
	if k == KindUsed {
		return 100 - percent
	}
	return percent
}

// Tightest returns the percentage of the window closest to its limit
func (d *Data) Tightest(kind Kind) (float64, bool) {
	switch {
	case d.FiveHourPercent != nil && d.WeeklyPercent != nil:
		if kind.Remaining(*d.FiveHourPercent) <= kind.Remaining(*d.WeeklyPercent) {
			return *d.FiveHourPercent, true
		}
		return *d.WeeklyPercent, true
	case d.FiveHourPercent != nil:
		return *d.FiveHourPercent, true
	case d.WeeklyPercent != nil:
		return *d.WeeklyPercent, true
	default:
		return 0, false
	}
}
