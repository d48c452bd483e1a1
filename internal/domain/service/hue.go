package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"eud4xr-bridge/internal/domain/entity"
	"eud4xr-bridge/internal/domain/hue"
	"eud4xr-bridge/internal/domain/model"
	"eud4xr-bridge/internal/domain/translator"
)

// Devices projects every group with a Hue-capable member as a light.
func (s *BridgeService) Devices(context.Context) []*model.Device {
	s.mu.Lock()
	defer s.mu.Unlock()

	var devices []*model.Device
	for _, g := range s.store.Groups() {
		if e, st, ok := s.hueMember(g); ok {
			devices = append(devices, s.device(e, st))
		}
	}
	return devices
}

func (s *BridgeService) Device(_ context.Context, id string) (*model.Device, hue.Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, st, ok := s.hueMember(id)
	if !ok {
		return nil, hue.Metadata{}, fmt.Errorf("light %q: %w", id, model.ErrNotFound)
	}
	return s.device(e, st), st.Metadata(), nil
}

// UpdateDeviceState performs the actions a Hue state change maps to.
func (s *BridgeService) UpdateDeviceState(ctx context.Context, id string, change hue.StateChange) error {
	s.mu.Lock()
	e, st, ok := s.hueMember(id)
	var actions []*translator.Action
	if ok {
		actions = st.ToActions(e, change)
	}
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("light %q: %w", id, model.ErrNotFound)
	}
	for _, a := range actions {
		if err := s.PerformAction(ctx, a); err != nil {
			s.log.Error("hue state change failed", zap.String("light", id), zap.String("verb", a.Verb), zap.Error(err))
			return err
		}
	}
	return nil
}

func (s *BridgeService) hueMember(group string) (*entity.Entity, hue.Strategy, bool) {
	for _, e := range s.store.Group(group) {
		if st, ok := s.hue.For(e.Type.Name); ok {
			return e, st, true
		}
	}
	return nil, nil, false
}

func (s *BridgeService) device(e *entity.Entity, st hue.Strategy) *model.Device {
	name, _, _ := strings.Cut(e.GameObject, "@")
	return &model.Device{
		ID:       e.Group,
		Name:     name,
		EntityID: e.ID,
		State:    st.ToHue(e),
	}
}
