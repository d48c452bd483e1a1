package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Update is one inbound message from the simulation: either an AttributeUpdate or an ActionEvent.
type Update interface {
	TargetID() string
	isUpdate()
}

type AttributeUpdate struct {
	UnityID   string `json:"unity_id"`
	Attribute string `json:"attribute"`
	NewValue  any    `json:"new_value"`
}

// ActionEvent reports an action the simulation performed on its own.
type ActionEvent struct {
	UnityID  string `json:"unity_id"`
	Verb     string `json:"verb"`
	Variable string `json:"variable,omitempty"`
	Modifier string `json:"modifier,omitempty"`
	Obj      any    `json:"obj,omitempty"`
	Value    any    `json:"value,omitempty"`
}

func (u AttributeUpdate) TargetID() string { return u.UnityID }
func (AttributeUpdate) isUpdate()          {}
func (e ActionEvent) TargetID() string     { return e.UnityID }
func (ActionEvent) isUpdate()              {}

// Group is the part of a unity id before '@', lower-cased.
func GroupOf(unityID string) string {
	name, _, _ := strings.Cut(unityID, "@")
	return strings.ToLower(name)
}

// TypeSuffixOf is the part of a unity id after '@', if any.
func TypeSuffixOf(unityID string) string {
	_, suffix, _ := strings.Cut(unityID, "@")
	return suffix
}

// InboundUpdate couples an update with the simulation timestamp it was stamped with.
type InboundUpdate struct {
	Update    Update
	Timestamp float64
}

type rawInbound struct {
	Content   map[string]any `json:"content"`
	Timestamp *float64       `json:"timestamp"`
}

// ParseInbound decodes a {content, timestamp} document.
func ParseInbound(data []byte) (InboundUpdate, error) {
	var raw rawInbound
	if err := json.Unmarshal(data, &raw); err != nil {
		return InboundUpdate{}, &ValidationError{Reason: "malformed update: " + err.Error()}
	}
	if raw.Timestamp == nil {
		return InboundUpdate{}, &ValidationError{Field: "timestamp", Reason: "is required"}
	}
	u, err := UpdateFromContent(raw.Content)
	if err != nil {
		return InboundUpdate{}, err
	}
	return InboundUpdate{Update: u, Timestamp: *raw.Timestamp}, nil
}

// UpdateFromContent picks the variant: an "attribute" key makes it an AttributeUpdate.
func UpdateFromContent(content map[string]any) (Update, error) {
	if content == nil {
		return nil, &ValidationError{Field: "content", Reason: "is required"}
	}
	id, err := stringField(content, "unity_id", true)
	if err != nil {
		return nil, err
	}
	if _, ok := content["attribute"]; ok {
		attr, err := stringField(content, "attribute", true)
		if err != nil {
			return nil, err
		}
		nv, ok := content["new_value"]
		if !ok {
			return nil, &ValidationError{Field: "new_value", Reason: "is required"}
		}
		return AttributeUpdate{UnityID: id, Attribute: attr, NewValue: nv}, nil
	}
	verb, err := stringField(content, "verb", true)
	if err != nil {
		return nil, err
	}
	ev := ActionEvent{UnityID: id, Verb: verb, Obj: content["obj"], Value: content["value"]}
	if ev.Variable, err = stringField(content, "variable", false); err != nil {
		return nil, err
	}
	if ev.Modifier, err = stringField(content, "modifier", false); err != nil {
		return nil, err
	}
	return ev, nil
}

func stringField(m map[string]any, key string, required bool) (string, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		if required {
			return "", &ValidationError{Field: key, Reason: "is required"}
		}
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", &ValidationError{Field: key, Reason: fmt.Sprintf("must be a string, got %T", raw)}
	}
	if required && s == "" {
		return "", &ValidationError{Field: key, Reason: "is required"}
	}
	return s, nil
}

// UpdateOutcome reports what the router did with an inbound update.
type UpdateOutcome string

const (
	OutcomeApplied  UpdateOutcome = "applied"
	OutcomeStale    UpdateOutcome = "stale"
	OutcomeQueued   UpdateOutcome = "queued"
	OutcomeHandled  UpdateOutcome = "handled"
	OutcomeReplayed UpdateOutcome = "replayed"
	OutcomeExpired  UpdateOutcome = "expired"
	OutcomeRejected UpdateOutcome = "rejected"
)
