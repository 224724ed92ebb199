// Package provider defines the sources a usage snapshot can be collected from.
package provider

import (
	"context"

	"github.com/denysvitali/plan-usage/internal/usage"
)

// Provider produces one usage snapshot per call
type Provider interface {
	// ID returns the provider's unique identifier
	ID() string

	// Name returns the provider's display name
	Name() string

	// GetUsage performs one round-trip to the service and returns the snapshot
	GetUsage(ctx context.Context) (*usage.Data, error)
}
