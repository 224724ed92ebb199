package usage

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Lipgloss styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	criticalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	barEmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)
)

const (
	barWidth = 20
	barFull  = "█"
	barEmpty = "░"

	// windows with this much or less left are flagged
	criticalRemaining = 10
	warningRemaining  = 25
)

// WaybarOutput represents the JSON format expected by waybar custom modules
type WaybarOutput struct {
	Text       string `json:"text"`
	Tooltip    string `json:"tooltip"`
	Class      string `json:"class"`
	Percentage int    `json:"percentage"`
}

// OutputJSON writes the snapshot as indented JSON
func OutputJSON(w io.Writer, data *Data) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// OutputWaybar writes the snapshot in waybar JSON format
func OutputWaybar(w io.Writer, data *Data, now time.Time, kind Kind) error {
	var textParts []string
	if data.FiveHourPercent != nil {
		textParts = append(textParts, fmt.Sprintf("5h:%.0f%%", *data.FiveHourPercent))
	}
	if data.WeeklyPercent != nil {
		textParts = append(textParts, fmt.Sprintf("7d:%.0f%%", *data.WeeklyPercent))
	}

	tooltipLines := []string{"Claude Plan Usage", ""}
	tooltipLines = append(tooltipLines, fmt.Sprintf("5-Hour: %s %s", formatOptionalPercent(data.FiveHourPercent), kind))
	tooltipLines = append(tooltipLines, fmt.Sprintf("Weekly: %s %s", formatOptionalPercent(data.WeeklyPercent), kind))
	if data.ResetsIn != nil {
		tooltipLines = append(tooltipLines, fmt.Sprintf("Resets in %s", *data.ResetsIn))
	}
	if fetched := data.FetchedTime(); !fetched.IsZero() {
		tooltipLines = append(tooltipLines, "", fmt.Sprintf("Updated %s ago", FormatDuration(now.Sub(fetched))))
	}

	tightest, ok := data.Tightest(kind)
	output := WaybarOutput{
		Text:       strings.Join(textParts, " "),
		Tooltip:    strings.Join(tooltipLines, "\n"),
		Class:      classFor(tightest, ok, kind),
		Percentage: int(tightest),
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(output); err != nil {
		return fmt.Errorf("failed to encode waybar output: %w", err)
	}
	return nil
}

// OutputWaybarError writes an error in waybar JSON format
func OutputWaybarError(w io.Writer, msg string) error {
	output := WaybarOutput{
		Text:       "Claude: Error",
		Tooltip:    msg,
		Class:      "error",
		Percentage: 0,
	}
	return json.NewEncoder(w).Encode(output)
}

// OutputPretty renders the snapshot for a terminal
func OutputPretty(w io.Writer, data *Data, now time.Time, kind Kind) {
	fmt.Fprintln(w, titleStyle.Render("Claude Plan Usage"))
	fmt.Fprintln(w, titleStyle.Render(strings.Repeat("─", 17)))
	fmt.Fprintln(w)

	printPercent(w, "5-Hour Window", data.FiveHourPercent, data.Raw.FiveHour, kind)
	fmt.Fprintln(w)
	printPercent(w, "Weekly", data.WeeklyPercent, data.Raw.Weekly, kind)
	fmt.Fprintln(w)

	if data.ResetsIn != nil {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Resets:"), valueStyle.Render("in "+*data.ResetsIn))
	} else {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Resets:"), labelStyle.Render("N/A"))
	}

	if fetched := data.FetchedTime(); !fetched.IsZero() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, footerStyle.Render(fmt.Sprintf("Fetched %s ago", FormatDuration(now.Sub(fetched)))))
	}
}

func printPercent(w io.Writer, name string, percent *float64, raw *string, kind Kind) {
	fmt.Fprintln(w, headerStyle.Render(name+":"))

	if percent == nil {
		bar := barEmptyStyle.Render(strings.Repeat(barEmpty, barWidth))
		fmt.Fprintf(w, "  %s %s  %s\n", labelStyle.Render("Value:"), bar, labelStyle.Render("N/A"))
		return
	}

	fmt.Fprintf(w, "  %s %s  %s\n", labelStyle.Render("Value:"), RenderProgressBar(*percent), formatPercentage(*percent, kind))
	if raw != nil {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("Source:"), labelStyle.Render(*raw))
	}
}

func classFor(percent float64, known bool, kind Kind) string {
	if !known {
		return "unknown"
	}
	switch left := kind.Remaining(percent); {
	case left <= criticalRemaining:
		return "critical"
	case left <= warningRemaining:
		return "warning"
	default:
		return "normal"
	}
}

func formatOptionalPercent(p *float64) string {
	if p == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", *p)
}

func formatPercentage(percentage float64, kind Kind) string {
	text := fmt.Sprintf("%.1f%% %s", percentage, kind)
	switch classFor(percentage, true, kind) {
	case "critical":
		return criticalStyle.Render(text)
	case "warning":
		return warningStyle.Render(text)
	default:
		return normalStyle.Render(text)
	}
}

// RenderProgressBar renders a progress bar for the given percentage
func RenderProgressBar(percentage float64) string {
	filled := int(percentage / 100 * float64(barWidth))
	filled = max(0, min(filled, barWidth))

	return strings.Repeat(barFull, filled) + strings.Repeat(barEmpty, barWidth-filled)
}

// FormatDuration formats a duration for human-readable output
func FormatDuration(d time.Duration) string {
	if d < 0 {
		return "expired"
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	parts := []string{}
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}

	return strings.Join(parts, " ")
}

// Summary returns the log lines printed after a successful fetch
func Summary(data *Data) []string {
	resets := "N/A"
	if data.ResetsIn != nil {
		resets = *data.ResetsIn
	}
	return []string{
		fmt.Sprintf("5-hour window: %s", formatOptionalPercent(data.FiveHourPercent)),
		fmt.Sprintf("Weekly: %s", formatOptionalPercent(data.WeeklyPercent)),
		fmt.Sprintf("Resets in: %s", resets),
	}
}
