package translator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"eud4xr-bridge/internal/domain/model"
)

// Condition is a simple property comparison or a composite of conditions.
type Condition interface {
	ToDict() map[string]any
	ToYAML(r *Resolver) (map[string]any, error)
}

var (
	templatePattern = regexp.MustCompile(`\{\{\s*state_attr\("([^"]+)",\s*"([^"]+)"\)\s*([!=<>]+)\s*(.+?)\s*\}\}`)
	symbols         = []string{"==", "!=", "<", ">", "<=", ">="}
)

// SimpleCondition compares one property of a named object with a value.
type SimpleCondition struct {
	Component   string
	Property    string
	Symbol      string
	CompareWith any
}

func (c *SimpleCondition) ToDict() map[string]any {
	return map[string]any{
		"component":   c.Component,
		"property":    c.Property,
		"symbol":      c.Symbol,
		"compareWith": c.CompareWith,
	}
}

// ToYAML renders a template condition. Mappings and lists are embedded as
// JSON; every other value is quoted.
func (c *SimpleCondition) ToYAML(r *Resolver) (map[string]any, error) {
	if !slices.Contains(symbols, c.Symbol) {
		return nil, &model.ValidationError{Field: "symbol", Reason: fmt.Sprintf("unsupported comparison %q", c.Symbol)}
	}
	entityID, err := r.EntityByProperty(c.Component, c.Property)
	if err != nil {
		return nil, err
	}
	var cmp string
	switch c.CompareWith.(type) {
	case map[string]any, []any:
		raw, err := json.Marshal(c.CompareWith)
		if err != nil {
			return nil, &model.ValidationError{Field: "compareWith", Reason: err.Error()}
		}
		cmp = string(raw)
	default:
		cmp = strconv.Quote(fmt.Sprint(c.CompareWith))
	}
	return map[string]any{
		"condition":      "template",
		"value_template": fmt.Sprintf(`{{ state_attr("%s", "%s") %s %s }}`, entityID, c.Property, c.Symbol, cmp),
	}, nil
}

// SimpleConditionFromYAML parses a template condition. Quoted scalars come
// back as strings.
func SimpleConditionFromYAML(r *Resolver, m map[string]any) (*SimpleCondition, error) {
	tpl := strings.TrimSpace(asString(m["value_template"]))
	match := templatePattern.FindStringSubmatch(tpl)
	if match == nil {
		return nil, &model.ValidationError{Field: "value_template", Reason: fmt.Sprintf("cannot parse %q", tpl)}
	}
	c := &SimpleCondition{
		Component: componentOf(r, match[1]),
		Property:  match[2],
		Symbol:    match[3],
	}
	raw := match[4]
	if strings.HasPrefix(raw, "{") || strings.HasPrefix(raw, "[") {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			c.CompareWith = v
			return c, nil
		}
	}
	if v, err := strconv.Unquote(raw); err == nil {
		c.CompareWith = v
		return c, nil
	}
	c.CompareWith = strings.ReplaceAll(raw, `"`, "")
	return c, nil
}

func componentOf(r *Resolver, entityID string) string {
	if e, ok := r.store.Get(entityID); ok {
		return e.Group
	}
	name := strings.TrimPrefix(strings.ToLower(entityID), "sensor.")
	if i := strings.LastIndex(name, "_"); i > 0 {
		name = name[:i]
	}
	return name
}

// CompositeCondition joins children with a logical operator (and, or, not).
type CompositeCondition struct {
	Op         string
	Conditions []Condition
}

func (c *CompositeCondition) ToDict() map[string]any {
	children := make([]any, 0, len(c.Conditions))
	for _, child := range c.Conditions {
		children = append(children, child.ToDict())
	}
	return map[string]any{"op": c.Op, "conditions": children}
}

func (c *CompositeCondition) ToYAML(r *Resolver) (map[string]any, error) {
	children := make([]any, 0, len(c.Conditions))
	for _, child := range c.Conditions {
		y, err := child.ToYAML(r)
		if err != nil {
			return nil, err
		}
		children = append(children, y)
	}
	return map[string]any{"condition": c.Op, "conditions": children}, nil
}

// ConditionFromYAML dispatches on the condition kind. A composite with a
// single child collapses to that child.
func ConditionFromYAML(r *Resolver, v any) (Condition, error) {
	m, ok := asMap(v)
	if !ok {
		return nil, &model.ValidationError{Field: "condition", Reason: "must be a mapping"}
	}
	if asString(m["condition"]) == "template" {
		return SimpleConditionFromYAML(r, m)
	}
	op := asString(m["condition"])
	if op == "" {
		return nil, &model.ValidationError{Field: "condition", Reason: "is required"}
	}
	var children []Condition
	for _, raw := range asList(m["conditions"]) {
		child, err := ConditionFromYAML(r, raw)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	switch len(children) {
	case 0:
		return nil, &model.ValidationError{Field: "conditions", Reason: "composite condition without children"}
	case 1:
		return children[0], nil
	}
	return &CompositeCondition{Op: op, Conditions: children}, nil
}

// ConditionFromDict reads the authoring shape: a mapping, or a list that is
// joined with "and". It returns nil for an empty list.
func ConditionFromDict(v any) (Condition, error) {
	if list, ok := v.([]any); ok {
		var children []Condition
		for _, raw := range list {
			c, err := ConditionFromDict(raw)
			if err != nil {
				return nil, err
			}
			if c != nil {
				children = append(children, c)
			}
		}
		switch len(children) {
		case 0:
			return nil, nil
		case 1:
			return children[0], nil
		}
		return &CompositeCondition{Op: "and", Conditions: children}, nil
	}
	m, ok := asMap(v)
	if !ok {
		return nil, &model.ValidationError{Field: "conditions", Reason: fmt.Sprintf("unexpected %T", v)}
	}
	if _, composite := m["conditions"]; composite {
		op, _ := lookup(m, "op", "operator")
		c := &CompositeCondition{Op: asString(op)}
		if c.Op == "" {
			c.Op = "and"
		}
		for _, raw := range asList(m["conditions"]) {
			child, err := ConditionFromDict(raw)
			if err != nil {
				return nil, err
			}
			if child != nil {
				c.Conditions = append(c.Conditions, child)
			}
		}
		return c, nil
	}
	c := &SimpleCondition{
		Component:   asString(m["component"]),
		Property:    asString(m["property"]),
		Symbol:      asString(m["symbol"]),
		CompareWith: m["compareWith"],
	}
	if c.Component == "" || c.Property == "" || c.Symbol == "" {
		return nil, &model.ValidationError{Field: "conditions", Reason: "component, property and symbol are required"}
	}
	return c, nil
}
