package anthropic

import (
	"encoding/json"
	"testing"
	"time"
)

func TestWindow_Remaining(t *testing.T) {
	tests := []struct {
		name     string
		window   *Window
		expected float64
	}{
		{"nil window returns 100", nil, 100},
		{"0% utilization returns 100", &Window{Utilization: 0}, 100},
		{"75.5% utilization returns 24.5", &Window{Utilization: 75.5}, 24.5},
		{"100% utilization returns 0", &Window{Utilization: 100}, 0},
		{"overage goes negative", &Window{Utilization: 104}, -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.window.Remaining(); got != tt.expected {
				t.Errorf("Remaining() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestWindow_ResetMinutes(t *testing.T) {
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	future := now.Add(2*time.Hour + 15*time.Minute + 59*time.Second)
	past := now.Add(-time.Hour)

	tests := []struct {
		name      string
		window    *Window
		wantMins  int
		wantKnown bool
	}{
		{"nil window", nil, 0, false},
		{"nil ResetsAt", &Window{Utilization: 50}, 0, false},
		{"future reset floors", &Window{ResetsAt: &future}, 135, true},
		{"past reset clamps", &Window{ResetsAt: &past}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mins, known := tt.window.ResetMinutes(now)
			if mins != tt.wantMins || known != tt.wantKnown {
				t.Errorf("ResetMinutes() = (%d, %v), want (%d, %v)", mins, known, tt.wantMins, tt.wantKnown)
			}
		})
	}
}

func TestUsageResponse_Decode(t *testing.T) {
	body := `{
		"five_hour": {"utilization": 22.0, "resets_at": "2026-05-01T10:00:00.123456+00:00"},
		"seven_day": {"utilization": 3.0, "resets_at": null},
		"seven_day_opus": null,
		"extra_usage": {"is_enabled": false}
	}`

	var resp UsageResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if resp.FiveHour == nil || resp.FiveHour.ResetsAt == nil {
		t.Fatal("five_hour window not decoded")
	}
	if resp.FiveHour.ResetsAt.Hour() != 10 {
		t.Errorf("resets_at = %v", resp.FiveHour.ResetsAt)
	}
	if resp.SevenDay == nil || resp.SevenDay.ResetsAt != nil {
		t.Errorf("seven_day = %+v", resp.SevenDay)
	}
	if resp.SevenDayOpus != nil {
		t.Error("seven_day_opus should be nil")
	}
}
