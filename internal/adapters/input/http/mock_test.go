package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"eud4xr-bridge/internal/domain/hue"
	"eud4xr-bridge/internal/domain/model"
	"eud4xr-bridge/internal/domain/registry"
	"eud4xr-bridge/internal/domain/translator"
	"eud4xr-bridge/internal/ports"
)

type MockBridge struct {
	mock.Mock
}

func (m *MockBridge) AddVirtualObjects(ctx context.Context, pairs []model.VirtualObjectPair) (int, error) {
	args := m.Called(ctx, pairs)
	return args.Int(0), args.Error(1)
}

func (m *MockBridge) ReceiveUpdate(ctx context.Context, u model.InboundUpdate) (model.UpdateOutcome, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(model.UpdateOutcome), args.Error(1)
}

func (m *MockBridge) SendUpdate(ctx context.Context, w model.WireAction) error {
	return m.Called(ctx, w).Error(0)
}

func (m *MockBridge) CallService(ctx context.Context, service string, data map[string]any) error {
	return m.Called(ctx, service, data).Error(0)
}

func (m *MockBridge) PerformAction(ctx context.Context, a *translator.Action) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockBridge) Automations(ctx context.Context) ([]map[string]any, error) {
	args := m.Called(ctx)
	return args.Get(0).([]map[string]any), args.Error(1)
}

func (m *MockBridge) Automation(ctx context.Context, id string) (map[string]any, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(map[string]any)
	return a, args.Error(1)
}

func (m *MockBridge) UpsertAutomations(ctx context.Context, automations []map[string]any) ([]string, error) {
	args := m.Called(ctx, automations)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *MockBridge) UpsertAutomationYAML(ctx context.Context, docs []string) ([]string, error) {
	args := m.Called(ctx, docs)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *MockBridge) RemoveAutomation(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBridge) Capabilities(ctx context.Context, all bool) []registry.CapabilitySummary {
	return m.Called(ctx, all).Get(0).([]registry.CapabilitySummary)
}

func (m *MockBridge) ContextObjects(ctx context.Context) map[string][]string {
	return m.Called(ctx).Get(0).(map[string][]string)
}

func (m *MockBridge) VirtualObjects(ctx context.Context, onlyNames bool, names []string) []any {
	return m.Called(ctx, onlyNames, names).Get(0).([]any)
}

func (m *MockBridge) CloseObjects(ctx context.Context, name string) ([]ports.CloseObject, error) {
	args := m.Called(ctx, name)
	objects, _ := args.Get(0).([]ports.CloseObject)
	return objects, args.Error(1)
}

type MockHue struct {
	mock.Mock
}

func (m *MockHue) Devices(ctx context.Context) []*model.Device {
	return m.Called(ctx).Get(0).([]*model.Device)
}

func (m *MockHue) Device(ctx context.Context, id string) (*model.Device, hue.Metadata, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*model.Device)
	return d, args.Get(1).(hue.Metadata), args.Error(2)
}

func (m *MockHue) UpdateDeviceState(ctx context.Context, id string, change hue.StateChange) error {
	return m.Called(ctx, id, change).Error(0)
}
