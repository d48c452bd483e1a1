package hue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eud4xr-bridge/internal/domain/entity"
	"eud4xr-bridge/internal/domain/model"
	"eud4xr-bridge/internal/domain/registry"
	"eud4xr-bridge/internal/domain/translator"
)

func lamp(t *testing.T, attrs map[string]any) *entity.Entity {
	t.Helper()
	typ, ok := registry.Default().Type("ECALight")
	require.True(t, ok)
	return entity.New(typ, model.VirtualObjectPair{GameObject: "lamp1@ECALight", Attributes: attrs})
}

func TestLightStrategy(t *testing.T) {
	s := NewFactory("x * 254 / max", "x * max / 254")
	strategy, ok := s.For("ECALight")
	require.True(t, ok)

	e := lamp(t, map[string]any{"on": "yes", "intensity": 5.0, "maxIntensity": 10.0})
	state := strategy.ToHue(e)
	assert.True(t, state.On)
	assert.Equal(t, uint8(127), state.Bri)
	assert.True(t, state.Reachable)

	bri := uint8(254)
	off := false
	actions := strategy.ToActions(e, StateChange{On: &off, Bri: &bri})
	require.Len(t, actions, 2)
	assert.Equal(t, &translator.Action{Subject: "lamp1", Verb: "turns", Obj: "off"}, actions[0])
	assert.Equal(t, "sets", actions[1].Verb)
	assert.InDelta(t, 10.0, actions[1].Value, 1e-9)
}

func TestLightStrategyMissingAttributes(t *testing.T) {
	strategy := &LightStrategy{ToHueFormula: "x * 254 / max"}
	state := strategy.ToHue(lamp(t, nil))
	assert.False(t, state.On)
	assert.Equal(t, uint8(0), state.Bri)
}

func TestEvaluateFallsBackToInput(t *testing.T) {
	assert.Equal(t, 7.0, evaluate("x * (", 7, 1))
	assert.Equal(t, 7.0, evaluate("", 7, 1))
	assert.Equal(t, 14.0, evaluate("x * 2", 7, 1))
	assert.Equal(t, uint8(254), clampBri(1000))
}

func TestSwitchStrategy(t *testing.T) {
	f := NewFactory("", "")
	strategy, ok := f.For("Switch")
	require.True(t, ok)
	_, ok = f.For("ECADoor")
	assert.False(t, ok)

	typ, _ := registry.Default().Type("Switch")
	e := entity.New(typ, model.VirtualObjectPair{GameObject: "sw@Switch", Attributes: map[string]any{"on": "on"}})
	assert.Equal(t, uint8(254), strategy.ToHue(e).Bri)

	bri := uint8(0)
	actions := strategy.ToActions(e, StateChange{Bri: &bri})
	require.Len(t, actions, 1)
	assert.Equal(t, "off", actions[0].Obj)
	assert.Nil(t, strategy.ToActions(e, StateChange{}))
}
