package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"eud4xr-bridge/internal/domain/entity"
	"eud4xr-bridge/internal/domain/model"
	"eud4xr-bridge/internal/domain/registry"
	"eud4xr-bridge/internal/domain/translator"
)

// SendUpdate forwards a wire action to the simulation without waiting for it.
func (s *BridgeService) SendUpdate(_ context.Context, w model.WireAction) error {
	if err := w.Validate(); err != nil {
		return err
	}
	s.async("unity", func(ctx context.Context) error {
		return s.sim.SendUpdate(ctx, w)
	})
	return nil
}

// CallService invokes either a bus service of the integration or an entity
// action service such as "turns" on the entities named in entity_id.
func (s *BridgeService) CallService(ctx context.Context, service string, data map[string]any) error {
	service = strings.TrimPrefix(strings.ToLower(service), model.Domain+".")
	if data == nil {
		data = map[string]any{}
	}
	switch service {
	case model.ServiceSendUpdateToUnity:
		w, err := model.WireActionFromMap(data)
		if err != nil {
			return err
		}
		return s.SendUpdate(ctx, w)
	case model.ServiceAddVirtualObject:
		pairs, err := decodePairs(data["pairs"])
		if err != nil {
			return err
		}
		_, err = s.AddVirtualObjects(ctx, pairs)
		return err
	case model.ServiceReceiveUpdate:
		return s.receiveFromBus(ctx, data)
	case model.ServiceAddUpdateAutomation:
		docs, err := stringList(data["data"])
		if err != nil {
			return &model.ValidationError{Field: "data", Reason: err.Error()}
		}
		_, err = s.UpsertAutomationYAML(ctx, docs)
		return err
	case model.ServiceRemoveAutomation:
		id, _ := data["automation_id"].(string)
		if id == "" {
			return &model.ValidationError{Field: "automation_id", Reason: "is required"}
		}
		return s.RemoveAutomation(ctx, id)
	}
	return s.callEntityService(service, data)
}

func (s *BridgeService) receiveFromBus(ctx context.Context, data map[string]any) error {
	content, ok := data["content"].(map[string]any)
	if !ok {
		return &model.ValidationError{Field: "content", Reason: "must be an object"}
	}
	ts, ok := model.ToFloat(data["timestamp"])
	if !ok {
		return &model.ValidationError{Field: "timestamp", Reason: "must be a number"}
	}
	u, err := model.UpdateFromContent(content)
	if err != nil {
		return err
	}
	_, err = s.ReceiveUpdate(ctx, model.InboundUpdate{Update: u, Timestamp: ts})
	return err
}

func (s *BridgeService) callEntityService(method string, data map[string]any) error {
	ids, err := stringList(data["entity_id"])
	if err != nil || len(ids) == 0 {
		return &model.ValidationError{Field: "entity_id", Reason: "is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.registry.Table(s.store)
	for _, id := range ids {
		e, ok := s.store.Get(id)
		if !ok {
			return fmt.Errorf("entity %q: %w", id, model.ErrNotFound)
		}
		svc, ok := table.Service(e.Type.Name, method)
		if !ok {
			return s.resolver.NotSupported(e.Group, strings.ReplaceAll(method, "_", " "))
		}
		params, err := svc.Coerce(data)
		if err != nil {
			return err
		}
		wire := s.payload(e, svc.Def, params, false)
		s.log.Info("entity service called",
			zap.String("entity_id", e.ID),
			zap.String("service", method),
		)
		s.async("unity", func(ctx context.Context) error {
			return s.sim.SendUpdate(ctx, wire)
		})
		s.fireEvent(model.EventAction, s.payload(e, svc.Def, params, true).Map())
	}
	return nil
}

// payload builds the message for an invoked action. Outbound payloads name
// game objects and lower-case string values; event payloads carry group names
// and raw values.
func (s *BridgeService) payload(e *entity.Entity, def *registry.ActionDefinition, params map[string]any, onEvent bool) model.WireAction {
	w := model.WireAction{
		Subject:  e.GameObject,
		Verb:     def.Verb,
		Variable: strings.ToLower(def.Variable),
		Modifier: strings.ToLower(def.Modifier),
	}
	if onEvent {
		w.Subject = e.Group
	}
	for _, p := range def.Params {
		v, ok := params[p.Name]
		if !ok {
			continue
		}
		switch {
		case p.IsEntityRef():
			v = s.refName(v, p.TypeRef, onEvent)
		case !onEvent:
			if str, ok := v.(string); ok {
				v = strings.ToLower(str)
			}
		}
		if def.Variable != "" && def.Modifier != "" {
			w.Value = v
		} else {
			w.Obj = v
		}
	}
	return w
}

func (s *BridgeService) refName(v any, typeName string, onEvent bool) any {
	id, ok := v.(string)
	if !ok {
		return v
	}
	ref, found := s.store.Get(id)
	switch {
	case found && onEvent:
		return ref.Group
	case found:
		return ref.GameObject
	}
	return entity.NameFromRefID(id, typeName)
}

// PerformAction resolves a natural-language action to its entity service and
// calls it.
func (s *BridgeService) PerformAction(ctx context.Context, a *translator.Action) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	step, err := a.ToServiceStep(s.resolver)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	service, _ := step["action"].(string)
	data, _ := step["data"].(map[string]any)
	return s.CallService(ctx, service, data)
}

func decodePairs(v any) ([]model.VirtualObjectPair, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, &model.ValidationError{Field: "pairs", Reason: "must be a list"}
	}
	pairs := make([]model.VirtualObjectPair, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, &model.ValidationError{Field: fmt.Sprintf("pairs[%d]", i), Reason: "must be an object"}
		}
		p := model.VirtualObjectPair{}
		p.ECAScript, _ = m["eca_script"].(string)
		p.GameObject, _ = m["game_object"].(string)
		p.UnityID, _ = m["unity_id"].(string)
		if attrs, ok := m["attributes"].(map[string]any); ok {
			p.Attributes = attrs
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

func stringList(v any) ([]string, error) {
	switch t := v.(type) {
	case string:
		return []string{t}, nil
	case []string:
		return t, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected strings, got %T", item)
			}
			out = append(out, str)
		}
		return out, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("expected a string or list, got %T", v)
}
