// Package oauth implements the provider backed by the Claude OAuth usage API.
package oauth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/denysvitali/plan-usage/internal/anthropic"
	"github.com/denysvitali/plan-usage/internal/credentials"
	"github.com/denysvitali/plan-usage/internal/usage"
)

const (
	providerID   = "claude-oauth"
	providerName = "Claude (OAuth API)"
)

// Provider reads the access token from the credentials file on every call,
// so a token refreshed by the Claude CLI is picked up by the next poll.
type Provider struct {
	credentialsPath string
	client          *anthropic.Client
	now             func() time.Time
}

// NewProvider creates a provider. An empty credentialsPath uses the default location
// and an empty baseURL uses the production API.
func NewProvider(credentialsPath, baseURL string) *Provider {
	return &Provider{
		credentialsPath: credentialsPath,
		client:          anthropic.NewClient(baseURL),
		now:             time.Now,
	}
}

// ID returns the provider identifier
func (p *Provider) ID() string {
	return providerID
}

// Name returns the human-readable provider name
func (p *Provider) Name() string {
	return providerName
}

// GetUsage loads credentials and fetches one usage snapshot
func (p *Provider) GetUsage(ctx context.Context) (*usage.Data, error) {
	creds, err := credentials.LoadValid(p.credentialsPath)
	if err != nil {
		return nil, err
	}

	if creds.ExpiresAt != 0 {
		slog.DebugContext(ctx, "Loaded OAuth token", "expires_in", creds.ExpiresIn().Round(time.Minute))
	}

	resp, err := p.client.GetUsage(ctx, creds.AccessToken)
	if err != nil {
		return nil, err
	}

	return ToData(resp, p.now()), nil
}

// ToData converts an API response into a snapshot. Percentages are the
// remaining share of each window; windows absent from the response stay null.
func ToData(resp *anthropic.UsageResponse, now time.Time) *usage.Data {
	data := usage.New(now)

	if w := resp.FiveHour; w != nil {
		data.FiveHourPercent = usage.Float(w.Remaining())
		data.Raw.FiveHour = usage.String(fmt.Sprintf("utilization=%g", w.Utilization))
		if minutes, ok := w.ResetMinutes(now); ok {
			data.SetResetMinutes(minutes)
		}
	}

	if w := resp.SevenDay; w != nil {
		data.WeeklyPercent = usage.Float(w.Remaining())
		data.Raw.Weekly = usage.String(fmt.Sprintf("utilization=%g", w.Utilization))
	}

	return data
}
