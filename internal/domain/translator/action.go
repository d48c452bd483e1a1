// Package translator converts simulation actions, conditions and automations
// between their natural-language form and the host's rule representation.
package translator

import (
	"fmt"
	"maps"
	"strings"

	"eud4xr-bridge/internal/domain/entity"
	"eud4xr-bridge/internal/domain/model"
)

// Step is an automation trigger or action: a structured Action or a SafeAction.
type Step interface {
	ToDict() map[string]any
	ToTrigger() map[string]any
	ToServiceStep(r *Resolver) (map[string]any, error)
}

// Action is a natural-language action such as "lamp1 sets intensity to 80".
type Action struct {
	Subject    string
	Verb       string
	Variable   string
	Modifier   string
	Obj        any
	Value      any
	Parameters map[string]any
}

// Validate checks that a modifier never appears without its variable.
func (a *Action) Validate() error {
	if a.Subject == "" {
		return &model.ValidationError{Field: "subject", Reason: "is required"}
	}
	if a.Verb == "" {
		return &model.ValidationError{Field: "verb", Reason: "is required"}
	}
	if a.Modifier != "" && a.Variable == "" {
		return &model.ValidationError{Field: "modifier", Reason: "requires a variable"}
	}
	return nil
}

func FromWire(w model.WireAction) *Action {
	return &Action{
		Subject: w.Subject, Verb: w.Verb, Variable: w.Variable, Modifier: w.Modifier,
		Obj: w.Obj, Value: w.Value,
	}
}

func (a *Action) ToWire() model.WireAction {
	return model.WireAction{
		Subject: a.Subject, Verb: a.Verb, Variable: a.Variable, Modifier: a.Modifier,
		Obj: a.Obj, Value: a.Value,
	}
}

// Normalize lower-cases the string fields in place. It is idempotent.
func (a *Action) Normalize() {
	a.Subject = strings.ToLower(a.Subject)
	a.Verb = strings.ToLower(a.Verb)
	a.Variable = strings.ToLower(a.Variable)
	a.Modifier = strings.ToLower(a.Modifier)
	a.Obj = lowerValue(a.Obj)
	a.Value = lowerValue(a.Value)
}

// ToDict normalizes a and renders it without empty keys.
func (a *Action) ToDict() map[string]any {
	a.Normalize()
	out := dropEmpty(map[string]any{
		"subject":  a.Subject,
		"verb":     a.Verb,
		"variable": a.Variable,
		"modifier": a.Modifier,
		"obj":      a.Obj,
		"value":    a.Value,
	})
	if len(a.Parameters) > 0 {
		out["parameters"] = maps.Clone(a.Parameters)
	}
	return out
}

// ActionFromDict reads the literal authoring shape without resolving anything.
func ActionFromDict(m map[string]any) (*Action, error) {
	a := &Action{Obj: m["obj"], Value: m["value"]}
	for key, dst := range map[string]*string{
		"subject": &a.Subject, "verb": &a.Verb, "variable": &a.Variable, "modifier": &a.Modifier,
	} {
		raw, ok := m[key]
		if !ok || raw == nil {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			return nil, &model.ValidationError{Field: key, Reason: fmt.Sprintf("must be a string, got %T", raw)}
		}
		*dst = s
	}
	if p, ok := asMap(m["parameters"]); ok {
		a.Parameters = p
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Action) ToTrigger() map[string]any {
	return map[string]any{
		"platform":   "event",
		"event_type": model.Domain,
		"event_data": a.ToDict(),
	}
}

// ToServiceStep renders a as a host service call. The subject is resolved as
// an actor first; failing that, the object (or the variable, when no object
// is set) is resolved as the target of a passive action.
func (a *Action) ToServiceStep(r *Resolver) (map[string]any, error) {
	m, ok := r.ResolveActive(a.Subject, a.Verb, a.Variable, a.Modifier)
	passive := false
	if !ok {
		owner := asString(a.Obj)
		if owner == "" && a.Modifier == "" {
			owner = a.Variable
		}
		if owner != "" {
			m, ok = r.ResolvePassive(owner, a.Verb)
			passive = ok
		}
	}
	if !ok {
		return nil, r.NotSupported(a.Subject, a.Verb)
	}

	data := make(map[string]any, len(m.Def.Params)+1)
	for _, p := range m.Def.Params {
		var v any
		switch {
		case passive:
			v = a.Subject
		case a.Parameters[p.Name] != nil:
			v = a.Parameters[p.Name]
		case !model.IsEmpty(a.Value):
			v = a.Value
		default:
			v = a.Obj
		}
		if p.IsEntityRef() {
			name, isName := v.(string)
			if !isName || name == "" {
				return nil, &model.ValidationError{Field: p.Name, Reason: fmt.Sprintf("expects a %s name", p.TypeRef)}
			}
			v = entity.RefID(model.GroupOf(name), p.TypeRef)
		}
		data[p.Name] = v
	}
	data["entity_id"] = m.Entity.ID
	return map[string]any{
		"action": model.Domain + "." + m.Def.Method,
		"data":   data,
	}, nil
}

// ActionFromServiceStep is the inverse of ToServiceStep.
func ActionFromServiceStep(r *Resolver, step map[string]any) (*Action, error) {
	service, _ := lookup(step, "action", "service")
	name := asString(service)
	if name == "" {
		return nil, &model.ValidationError{Field: "action", Reason: "is required"}
	}
	method := name[strings.LastIndex(name, ".")+1:]
	data, _ := asMap(step["data"])
	entityID := ""
	if data != nil {
		entityID = asString(firstOf(data["entity_id"]))
	}
	if entityID == "" {
		if target, ok := asMap(step["target"]); ok {
			entityID = asString(firstOf(target["entity_id"]))
		}
	}
	if entityID == "" {
		return nil, &model.ValidationError{Field: "entity_id", Reason: "is required"}
	}

	e, def, err := r.Describe(entityID, method)
	if e == nil {
		return nil, err
	}
	if def == nil {
		return &Action{Subject: e.Group, Verb: strings.ReplaceAll(method, "_", " ")}, nil
	}

	if def.Passive {
		p := def.Params[0]
		ref := asString(data[p.Name])
		if ref == "" {
			return nil, &model.ValidationError{Field: p.Name, Reason: "is required"}
		}
		return &Action{Subject: r.ExternalName(ref, p.TypeRef), Verb: def.Verb, Variable: e.Group}, nil
	}

	a := &Action{Subject: e.Group, Verb: def.Verb, Variable: def.Variable, Modifier: def.Modifier}
	values := make(map[string]any, len(def.Params))
	for _, p := range def.Params {
		v, ok := data[p.Name]
		if !ok || model.IsEmpty(v) {
			continue
		}
		if p.IsEntityRef() {
			v = r.ExternalName(asString(v), p.TypeRef)
		}
		values[p.Name] = v
	}
	switch {
	case len(values) > 1:
		a.Parameters = values
	case len(values) == 1:
		for _, v := range values {
			if a.Variable != "" && a.Modifier != "" {
				a.Value = v
			} else {
				a.Obj = v
			}
		}
	}
	return a, nil
}

// ActionFromTrigger reads an event trigger. Active resolution comes first;
// a passive trigger carries its target in variable (or obj) and gets a
// subject of the form <name>@<actor type>.
func ActionFromTrigger(r *Resolver, trigger any) (*Action, error) {
	t, ok := firstMap(trigger)
	if !ok {
		return nil, &model.ValidationError{Field: "trigger", Reason: "must be a mapping"}
	}
	ed, ok := asMap(t["event_data"])
	if !ok {
		return nil, &model.ValidationError{Field: "event_data", Reason: "is required"}
	}
	a, err := ActionFromDict(ed)
	if err != nil {
		return nil, err
	}

	if m, ok := r.ResolveActive(a.Subject, a.Verb, a.Variable, a.Modifier); ok {
		a.Subject = m.Entity.Group
		return a, nil
	}
	owner := a.Variable
	if owner == "" {
		owner = asString(a.Obj)
	}
	if owner != "" {
		if m, ok := r.ResolvePassive(owner, a.Verb); ok {
			a.Subject = model.GroupOf(a.Subject) + "@" + m.Def.Params[0].TypeRef
			a.Variable = m.Entity.Group
			if asString(a.Obj) == owner {
				a.Obj = nil
			}
			return a, nil
		}
	}
	return nil, r.NotSupported(a.Subject, a.Verb)
}

func firstOf(v any) any {
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return nil
		}
		return list[0]
	}
	return v
}
