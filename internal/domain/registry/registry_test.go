package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eud4xr-bridge/internal/domain/model"
)

type fakeEnv struct{ ids map[string]bool }

func newEnv(ids ...string) *fakeEnv {
	f := &fakeEnv{ids: map[string]bool{}}
	for _, id := range ids {
		f.ids[id] = true
	}
	return f
}

func (f *fakeEnv) HasEntity(id string) bool { return f.ids[id] }

func TestDefaultCatalogIsConsistent(t *testing.T) {
	r := Default()
	light, ok := r.Type("ECALight")
	require.True(t, ok)
	assert.True(t, light.HasProperty("maxIntensity"))

	var phrases []string
	for _, a := range light.Actions {
		phrases = append(phrases, a.Phrase())
	}
	assert.Contains(t, phrases, "changes color to")
	assert.Contains(t, phrases, "sets intensity to")

	_, ok = r.Type("ecalight")
	assert.True(t, ok, "lookup is case-insensitive")
	_, ok = r.Type("Spaceship")
	assert.False(t, ok)
}

func TestNewRejectsDuplicateMethods(t *testing.T) {
	dup := define("Dup", "").action("opens").action("opens").build()
	_, err := New([]*VirtualObjectType{dup})
	assert.Error(t, err)
}

func TestMatches(t *testing.T) {
	sets := &ActionDefinition{Verb: "sets", Variable: "intensity", Modifier: "to"}
	opens := &ActionDefinition{Verb: "opens"}

	assert.True(t, opens.Matches("opens", "", ""))
	assert.False(t, opens.Matches("opens", "angle", "to"))
	assert.True(t, sets.Matches("sets", "intensity", "to"))
	assert.False(t, sets.Matches("sets", "intensity", "by"))
	assert.False(t, sets.Matches("sets", "", ""))

	moves := &ActionDefinition{Verb: "moves to"}
	assert.True(t, moves.Matches("moves_to", "", ""))
}

func TestMethodName(t *testing.T) {
	assert.Equal(t, "stops_interacting_with", MethodName("stops-interacting with", ""))
	assert.Equal(t, "changes_visible", MethodName("changes", "visible"))
	assert.Equal(t, "changes_current_time", MethodName("changes", "current-time"))
}

func TestServiceCoerce(t *testing.T) {
	r := Default()
	table := r.Table(newEnv("sensor.bob_character"))

	turns, ok := table.Service("ECALight", "turns")
	require.True(t, ok)
	out, err := turns.Coerce(map[string]any{"newStatus": "ON", "entity_id": "sensor.lamp1_ecalight"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"newStatus": "on"}, out)

	_, err = turns.Coerce(map[string]any{"newStatus": "maybe"})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = turns.Coerce(map[string]any{})
	assert.ErrorIs(t, err, model.ErrValidation)

	moves, _ := table.Service("ECAObject", "moves_to")
	out, err = moves.Coerce(map[string]any{"newPos": map[string]any{"x": 1, "y": 2.5, "z": "3"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": 1.0, "y": 2.5, "z": 3.0}, out["newPos"])

	_, err = moves.Coerce(map[string]any{"newPos": map[string]any{"x": 1, "y": 2}})
	assert.ErrorIs(t, err, model.ErrValidation)

	eats, _ := table.Service("Food", "eats")
	out, err = eats.Coerce(map[string]any{"c": "sensor.bob_character"})
	require.NoError(t, err)
	assert.Equal(t, "sensor.bob_character", out["c"])

	_, err = eats.Coerce(map[string]any{"c": "sensor.alice_character"})
	assert.ErrorIs(t, err, model.ErrValidation)

	path, _ := table.Service("Character", "jumps_on")
	_, err = path.Coerce(map[string]any{"p": []any{map[string]any{"x": 0, "y": 0, "z": 0}, "up"}})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestTableCachedPerEnvironment(t *testing.T) {
	r := Default()
	env := newEnv()
	first := r.Table(env)
	assert.Same(t, first, r.Table(env))

	r.Invalidate()
	assert.NotSame(t, first, r.Table(env))

	other := newEnv("sensor.x_ecadoor")
	assert.NotSame(t, r.Table(env), r.Table(other))
}

func TestDescribeTemplates(t *testing.T) {
	r := Default()
	light, _ := r.Type("ECALight")
	s := Describe(light)

	assert.Equal(t, "ECALight", s.Name)
	assert.Len(t, s.Properties, 4)

	byMethod := map[string]ActionSummary{}
	for _, a := range s.Actions {
		byMethod[a.Method] = a
	}
	sets := byMethod["sets_intensity"]
	assert.Equal(t, "intensity", sets.Template["variable"])
	assert.Equal(t, "<float>", sets.Template["value"])
	assert.NotContains(t, sets.Template, "obj")
	assert.Equal(t, "<ECABoolean>", byMethod["turns"].Template["obj"])

	food, _ := r.Type("Food")
	eats := Describe(food).Actions[0]
	assert.True(t, eats.Passive)
	assert.Equal(t, "<Character name>", eats.Template["subject"])
	assert.Equal(t, "<Food name>", eats.Template["obj"])
}
