package model

import (
	"fmt"
	"strings"
)

// WireAction is the payload exchanged with the simulation for one action.
type WireAction struct {
	Subject  string `json:"subject" yaml:"subject"`
	Verb     string `json:"verb" yaml:"verb"`
	Variable string `json:"variable,omitempty" yaml:"variable,omitempty"`
	Modifier string `json:"modifier,omitempty" yaml:"modifier,omitempty"`
	Obj      any    `json:"obj,omitempty" yaml:"obj,omitempty"`
	Value    any    `json:"value,omitempty" yaml:"value,omitempty"`
}

func (w WireAction) Validate() error {
	if strings.TrimSpace(w.Subject) == "" {
		return &ValidationError{Field: "subject", Reason: "is required"}
	}
	if strings.TrimSpace(w.Verb) == "" {
		return &ValidationError{Field: "verb", Reason: "is required"}
	}
	return nil
}

// Map renders the payload without its empty keys.
func (w WireAction) Map() map[string]any {
	out := map[string]any{"subject": w.Subject, "verb": w.Verb}
	if w.Variable != "" {
		out["variable"] = w.Variable
	}
	if w.Modifier != "" {
		out["modifier"] = w.Modifier
	}
	if !IsEmpty(w.Obj) {
		out["obj"] = w.Obj
	}
	if !IsEmpty(w.Value) {
		out["value"] = w.Value
	}
	return out
}

func WireActionFromMap(m map[string]any) (WireAction, error) {
	w := WireAction{Obj: m["obj"], Value: m["value"]}
	for key, dst := range map[string]*string{
		"subject": &w.Subject, "verb": &w.Verb, "variable": &w.Variable, "modifier": &w.Modifier,
	} {
		raw, ok := m[key]
		if !ok || raw == nil {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			return WireAction{}, &ValidationError{Field: key, Reason: fmt.Sprintf("must be a string, got %T", raw)}
		}
		*dst = s
	}
	return w, w.Validate()
}

// IsEmpty reports nil, empty strings and empty collections.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}
