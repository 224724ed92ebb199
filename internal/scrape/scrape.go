// Package scrape extracts usage figures from the text of the claude.ai usage page.
package scrape

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/denysvitali/plan-usage/internal/usage"
)

// ErrNoUsageData is returned when the page text has no usage percentage at all
var ErrNoUsageData = errors.New("could not find any usage percentages on the page")

const rawSnippetLength = 100

var (
	anyPercentRegex = regexp.MustCompile(`\d+(?:\.\d+)?%`)
	sessionRegex    = regexp.MustCompile(`(?i)(?:current\s+session|5.?hour)[\s\S]*?([\d.]+)%`)
	weeklyRegex     = regexp.MustCompile(`(?i)(?:daily|weekly)[\s\S]*?([\d.]+)%`)
	resetRegex      = regexp.MustCompile(`(?i)resets?\s+in\s+((\d+)\s*hr?)?\s*((\d+)\s*min)?`)

	// ReadyPattern matches once the page has rendered any percentage
	ReadyPattern = regexp.MustCompile(`\d+%`)
)

// ParseUsage mines the usage page text for the session and weekly percentages
// and the reset countdown.
func ParseUsage(pageText string, now time.Time) (*usage.Data, error) {
	pageText = NormalizeSpace(pageText)
	if strings.TrimSpace(pageText) == "" {
		return nil, fmt.Errorf("page has no text content")
	}

	data := usage.New(now)

	if value, raw, ok := labelledPercent(sessionRegex, pageText); ok {
		data.FiveHourPercent = &value
		data.Raw.FiveHour = &raw
	}
	if value, raw, ok := labelledPercent(weeklyRegex, pageText); ok {
		data.WeeklyPercent = &value
		data.Raw.Weekly = &raw
	}

	// Unlabelled fallback: first percentage is the session, second the weekly limit
	all := anyPercentRegex.FindAllString(pageText, -1)
	if data.FiveHourPercent == nil && len(all) > 0 {
		if value, err := parsePercent(all[0]); err == nil {
			data.FiveHourPercent = &value
			data.Raw.FiveHour = usage.String(all[0])
		}
	}
	if data.WeeklyPercent == nil && len(all) > 1 {
		if value, err := parsePercent(all[1]); err == nil {
			data.WeeklyPercent = &value
			data.Raw.Weekly = usage.String(all[1])
		}
	}

	if minutes, human, ok := ParseReset(pageText); ok {
		data.SetReset(minutes, human)
	}

	if !data.HasPercentages() {
		return nil, ErrNoUsageData
	}

	return data, nil
}

// ParseReset reads a "Resets in 2 hr 40 min" style countdown. The human form
// keeps the page's units, so "90 min" stays "90m".
func ParseReset(text string) (int, string, bool) {
	m := resetRegex.FindStringSubmatch(NormalizeSpace(text))
	if m == nil || (m[2] == "" && m[4] == "") {
		return 0, "", false
	}

	var hours, minutes int
	if m[2] != "" {
		hours, _ = strconv.Atoi(m[2])
	}
	if m[4] != "" {
		minutes, _ = strconv.Atoi(m[4])
	}

	var human string
	switch {
	case hours > 0 && minutes > 0:
		human = fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		human = fmt.Sprintf("%dh", hours)
	default:
		human = fmt.Sprintf("%dm", minutes)
	}

	return hours*60 + minutes, human, true
}

// NormalizeSpace turns every Unicode space (such as the no-break spaces the
// page renders between words) into an ASCII space, since RE2's \s is ASCII-only.
func NormalizeSpace(text string) string {
	return strings.Map(func(r rune) rune {
		if r != ' ' && unicode.IsSpace(r) && r != '\n' && r != '\t' && r != '\r' {
			return ' '
		}
		return r
	}, text)
}

// IsReady reports whether the page text contains a rendered percentage
func IsReady(pageText string) bool {
	return ReadyPattern.MatchString(pageText)
}

func labelledPercent(re *regexp.Regexp, text string) (float64, string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, "", false
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, "", false
	}

	return value, snippet(m[0]), true
}

func parsePercent(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
}

func snippet(s string) string {
	r := []rune(s)
	if len(r) > rawSnippetLength {
		r = r[:rawSnippetLength]
	}
	return strings.TrimSpace(string(r))
}
