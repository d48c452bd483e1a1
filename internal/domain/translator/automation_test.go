package translator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func authoringRule() map[string]any {
	return map[string]any{
		"id":          "rule-1",
		"alias":       "door lights",
		"description": "light up when the door opens",
		"trigger":     []any{map[string]any{"subject": "door1", "verb": "opens"}},
		"conditions":  map[string]any{"component": "lamp1", "property": "intensity", "symbol": "<", "compareWith": "50"},
		"actions": []any{
			map[string]any{"subject": "lamp1", "verb": "turns", "obj": "on"},
			map[string]any{"subject": "lamp1", "verb": "sets", "variable": "intensity", "modifier": "to", "value": "80"},
			map[string]any{"subject": "bob", "verb": "eats", "variable": "apple"},
		},
	}
}

func TestAutomationRoundTrip(t *testing.T) {
	r := newWorld(t)
	a, err := AutomationFromDict(authoringRule())
	require.NoError(t, err)
	want := a.ToDict()

	rule, fallbacks, err := a.ToYAML(r)
	require.NoError(t, err)
	assert.Empty(t, fallbacks)

	// through the file format and back
	raw, err := yaml.Marshal([]any{rule})
	require.NoError(t, err)
	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 1)

	back, err := AutomationFromYAML(r, decoded[0])
	require.NoError(t, err)
	if diff := cmp.Diff(want, back.ToDict()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestAutomationToDictShape(t *testing.T) {
	a, err := AutomationFromDict(authoringRule())
	require.NoError(t, err)
	d := a.ToDict()

	assert.Equal(t, "single", d["mode"])
	assert.Len(t, d["trigger"], 1)
	assert.Len(t, d["actions"], 3)
	assert.Equal(t, map[string]any{"component": "lamp1", "property": "intensity", "symbol": "<", "compareWith": "50"}, d["conditions"])
}

func TestAutomationFromDictGeneratesID(t *testing.T) {
	m := authoringRule()
	delete(m, "id")
	a, err := AutomationFromDict(m)
	require.NoError(t, err)
	assert.Len(t, a.ID, 36)

	delete(m, "trigger")
	_, err = AutomationFromDict(m)
	assert.Error(t, err)
}

func TestAutomationToYAMLFallsBackToSafeSteps(t *testing.T) {
	r := newWorld(t)
	m := authoringRule()
	m["actions"] = []any{
		map[string]any{"subject": "lamp1", "verb": "flies to", "obj": "roof"},
		map[string]any{"verb": "no subject"},
	}
	a, err := AutomationFromDict(m)
	require.NoError(t, err)
	assert.IsType(t, &SafeAction{}, a.Actions[1])

	rule, fallbacks, err := a.ToYAML(r)
	require.NoError(t, err)
	assert.Len(t, fallbacks, 1)

	actions := rule["action"].([]any)
	require.Len(t, actions, 2)
	for _, step := range actions {
		assert.Equal(t, "eud4xr", step.(map[string]any)["event"])
	}

	back, err := AutomationFromYAML(r, rule)
	require.NoError(t, err)
	assert.IsType(t, &SafeAction{}, back.Actions[0])
	assert.Equal(t, "flies to", back.Actions[0].ToDict()["verb"])
}

func TestAutomationFromYAMLToleratesUnknownSteps(t *testing.T) {
	r := newWorld(t)
	rule := map[string]any{
		"id":      "x",
		"trigger": []any{map[string]any{"platform": "event", "event_type": "eud4xr", "event_data": map[string]any{"subject": "ghost", "verb": "haunts"}}},
		"action": []any{
			map[string]any{"action": "eud4xr.opens", "data": map[string]any{"entity_id": "sensor.door1_ecadoor"}},
			map[string]any{"action": "light.turn_on", "target": map[string]any{"entity_id": "light.kitchen"}},
		},
		"condition": []any{
			map[string]any{"condition": "template", "value_template": `{{ state_attr("sensor.lamp1_ecalight", "on") == "yes" }}`},
			map[string]any{"condition": "template", "value_template": `{{ state_attr("sensor.lamp1_ecalight", "intensity") > "5" }}`},
		},
	}
	a, err := AutomationFromYAML(r, rule)
	require.NoError(t, err)
	assert.IsType(t, &SafeAction{}, a.Trigger)
	assert.IsType(t, &Action{}, a.Actions[0])
	assert.IsType(t, &SafeAction{}, a.Actions[1])

	composite, ok := a.Condition.(*CompositeCondition)
	require.True(t, ok)
	assert.Equal(t, "and", composite.Op)
	assert.Len(t, composite.Conditions, 2)
}
