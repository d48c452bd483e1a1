package translator

import (
	"maps"
	"strings"

	"eud4xr-bridge/internal/domain/model"
)

// SafeAction is the untyped fallback used when an action cannot be
// translated structurally. It keeps whatever keys it was built from.
type SafeAction struct {
	Data map[string]any
}

func NewSafeAction(data map[string]any) *SafeAction {
	d := maps.Clone(data)
	if d == nil {
		d = map[string]any{}
	}
	return &SafeAction{Data: d}
}

// SafeActionFromStep recovers what it can from a rule step: the event payload
// when present, otherwise the service name and its data.
func SafeActionFromStep(step any) *SafeAction {
	m, ok := firstMap(step)
	if !ok {
		return NewSafeAction(nil)
	}
	if ed, ok := asMap(m["event_data"]); ok {
		return NewSafeAction(ed)
	}
	out := map[string]any{}
	if data, ok := asMap(m["data"]); ok {
		for k, v := range data {
			out[k] = v
		}
	}
	if id, ok := out["entity_id"]; ok {
		out["subject"] = firstOf(id)
		delete(out, "entity_id")
	}
	if svc, ok := lookup(m, "action", "service"); ok {
		name := asString(svc)
		out["verb"] = strings.ReplaceAll(name[strings.LastIndex(name, ".")+1:], "_", " ")
	}
	return NewSafeAction(out)
}

// ToDict always carries subject and verb; other keys only when non-empty.
func (s *SafeAction) ToDict() map[string]any {
	out := map[string]any{"subject": s.Data["subject"], "verb": s.Data["verb"]}
	for k, v := range s.Data {
		if k == "subject" || k == "verb" || model.IsEmpty(v) {
			continue
		}
		out[k] = v
	}
	return out
}

func (s *SafeAction) ToTrigger() map[string]any {
	return map[string]any{
		"platform":   "event",
		"event_type": model.Domain,
		"event_data": s.ToDict(),
	}
}

// ToServiceStep renders an event-firing step; it never fails.
func (s *SafeAction) ToServiceStep(*Resolver) (map[string]any, error) {
	return map[string]any{
		"event":      model.Domain,
		"event_data": s.ToDict(),
	}, nil
}
