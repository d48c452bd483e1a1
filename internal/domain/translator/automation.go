package translator

import (
	"fmt"

	"github.com/google/uuid"

	"eud4xr-bridge/internal/domain/model"
)

const DefaultMode = "single"

// Automation is one rule: a trigger, an optional condition and ordered actions.
type Automation struct {
	ID          string
	Alias       string
	Description string
	Mode        string
	Trigger     Step
	Condition   Condition
	Actions     []Step
}

// stepFromDict builds a structured Action, falling back to a SafeAction.
func stepFromDict(v any) Step {
	m, ok := asMap(v)
	if !ok {
		return NewSafeAction(nil)
	}
	if a, err := ActionFromDict(m); err == nil {
		return a
	}
	return NewSafeAction(m)
}

// AutomationFromDict reads the authoring shape. A missing id gets a fresh UUID.
func AutomationFromDict(m map[string]any) (*Automation, error) {
	a := &Automation{
		ID:          asString(m["id"]),
		Alias:       asString(m["alias"]),
		Description: asString(m["description"]),
		Mode:        asString(m["mode"]),
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	trigger, ok := firstMap(m["trigger"])
	if !ok {
		return nil, &model.ValidationError{Field: "trigger", Reason: "is required"}
	}
	a.Trigger = stepFromDict(trigger)
	raw, _ := lookup(m, "actions", "action")
	for _, item := range asList(raw) {
		a.Actions = append(a.Actions, stepFromDict(item))
	}
	if raw, ok := lookup(m, "conditions", "condition"); ok && raw != nil {
		c, err := ConditionFromDict(raw)
		if err != nil {
			return nil, err
		}
		a.Condition = c
	}
	return a, nil
}

func (a *Automation) ToDict() map[string]any {
	actions := make([]any, 0, len(a.Actions))
	for _, s := range a.Actions {
		actions = append(actions, s.ToDict())
	}
	var conditions any
	if a.Condition != nil {
		conditions = a.Condition.ToDict()
	}
	mode := a.Mode
	if mode == "" {
		mode = DefaultMode
	}
	return map[string]any{
		"id":          a.ID,
		"trigger":     []any{a.Trigger.ToDict()},
		"conditions":  conditions,
		"actions":     actions,
		"alias":       a.Alias,
		"description": a.Description,
		"mode":        mode,
	}
}

// ToYAML renders the host rule. Actions that cannot be resolved are written
// as safe event steps and reported in fallbacks; a condition that cannot be
// resolved fails the whole rule.
func (a *Automation) ToYAML(r *Resolver) (rule map[string]any, fallbacks []error, err error) {
	if a.Trigger == nil {
		return nil, nil, &model.ValidationError{Field: "trigger", Reason: "is required"}
	}
	conditions := []any{}
	if a.Condition != nil {
		c, err := a.Condition.ToYAML(r)
		if err != nil {
			return nil, nil, fmt.Errorf("automation %s: condition: %w", a.ID, err)
		}
		conditions = append(conditions, c)
	}
	actions := make([]any, 0, len(a.Actions))
	for i, s := range a.Actions {
		step, err := s.ToServiceStep(r)
		if err != nil {
			fallbacks = append(fallbacks, fmt.Errorf("automation %s: action %d: %w", a.ID, i, err))
			step, _ = NewSafeAction(s.ToDict()).ToServiceStep(r)
		}
		actions = append(actions, step)
	}
	rule = map[string]any{
		"id":          a.ID,
		"alias":       a.Alias,
		"description": a.Description,
		"trigger":     []any{a.Trigger.ToTrigger()},
		"condition":   conditions,
		"action":      actions,
	}
	if a.Mode != "" {
		rule["mode"] = a.Mode
	}
	return rule, fallbacks, nil
}

// AutomationFromYAML reads a host rule. Untranslatable triggers and actions
// become SafeActions; several top-level conditions are joined with "and".
func AutomationFromYAML(r *Resolver, m map[string]any) (*Automation, error) {
	a := &Automation{
		ID:          asString(m["id"]),
		Alias:       asString(m["alias"]),
		Description: asString(m["description"]),
		Mode:        asString(m["mode"]),
	}
	rawTrigger, _ := lookup(m, "trigger", "triggers")
	if rawTrigger == nil {
		return nil, &model.ValidationError{Field: "trigger", Reason: "is required"}
	}
	if t, err := ActionFromTrigger(r, rawTrigger); err == nil {
		a.Trigger = t
	} else {
		a.Trigger = SafeActionFromStep(rawTrigger)
	}

	rawActions, _ := lookup(m, "action", "actions")
	for _, raw := range asList(rawActions) {
		a.Actions = append(a.Actions, stepFromYAML(r, raw))
	}

	rawConditions, _ := lookup(m, "condition", "conditions")
	var conditions []Condition
	for _, raw := range asList(rawConditions) {
		c, err := ConditionFromYAML(r, raw)
		if err != nil {
			return nil, fmt.Errorf("automation %s: %w", a.ID, err)
		}
		conditions = append(conditions, c)
	}
	switch len(conditions) {
	case 0:
	case 1:
		a.Condition = conditions[0]
	default:
		a.Condition = &CompositeCondition{Op: "and", Conditions: conditions}
	}
	return a, nil
}

func stepFromYAML(r *Resolver, raw any) Step {
	m, ok := asMap(raw)
	if !ok {
		return NewSafeAction(nil)
	}
	if _, isEvent := m["event_data"]; isEvent {
		return SafeActionFromStep(m)
	}
	if a, err := ActionFromServiceStep(r, m); err == nil {
		return a
	}
	return SafeActionFromStep(m)
}
