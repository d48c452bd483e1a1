package ports

import (
	"context"

	"eud4xr-bridge/internal/domain/model"
	"eud4xr-bridge/internal/domain/registry"
	"eud4xr-bridge/internal/domain/translator"
)

// CloseObject is a neighbour of an object ranked by distance.
type CloseObject struct {
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}

// BridgePort is the operation surface input adapters drive.
type BridgePort interface {
	AddVirtualObjects(ctx context.Context, pairs []model.VirtualObjectPair) (int, error)
	ReceiveUpdate(ctx context.Context, u model.InboundUpdate) (model.UpdateOutcome, error)
	SendUpdate(ctx context.Context, w model.WireAction) error
	CallService(ctx context.Context, service string, data map[string]any) error
	PerformAction(ctx context.Context, a *translator.Action) error

	Automations(ctx context.Context) ([]map[string]any, error)
	Automation(ctx context.Context, id string) (map[string]any, error)
	UpsertAutomations(ctx context.Context, automations []map[string]any) ([]string, error)
	UpsertAutomationYAML(ctx context.Context, docs []string) ([]string, error)
	RemoveAutomation(ctx context.Context, id string) error

	Capabilities(ctx context.Context, all bool) []registry.CapabilitySummary
	ContextObjects(ctx context.Context) map[string][]string
	VirtualObjects(ctx context.Context, onlyNames bool, names []string) []any
	CloseObjects(ctx context.Context, name string) ([]CloseObject, error)
}
