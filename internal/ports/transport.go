package ports

import (
	"context"

	"eud4xr-bridge/internal/domain/model"
)

// SimulationPort sends to the Unity server.
type SimulationPort interface {
	SendUpdate(ctx context.Context, w model.WireAction) error
	NotifyAutomations(ctx context.Context, automations []map[string]any) error
}

// HostPort is the host automation engine.
type HostPort interface {
	FireEvent(ctx context.Context, eventType string, data map[string]any) error
	ReloadAutomations(ctx context.Context) error
	Configure(url, token string)
	IsConfigured() bool
}
