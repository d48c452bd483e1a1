package hue

import (
	"math"

	"github.com/Knetic/govaluate"
	"github.com/amimof/huego"

	"eud4xr-bridge/internal/domain/entity"
	"eud4xr-bridge/internal/domain/model"
	"eud4xr-bridge/internal/domain/translator"
)

const maxBri = 254

// LightStrategy maps ECALight intensity to Hue brightness through formulas
// over x (the input) and max (the light's maxIntensity).
type LightStrategy struct {
	ToHueFormula   string
	ToUnityFormula string
}

func (s *LightStrategy) ToHue(e *entity.Entity) *huego.State {
	state := &huego.State{Reachable: true}
	state.On = isOn(e.Attributes["on"])
	intensity, _ := model.ToFloat(e.Attributes["intensity"])
	state.Bri = clampBri(evaluate(s.ToHueFormula, intensity, maxIntensity(e)))
	return state
}

func (s *LightStrategy) ToActions(e *entity.Entity, change StateChange) []*translator.Action {
	var actions []*translator.Action
	if change.On != nil {
		actions = append(actions, turns(e.Group, *change.On))
	}
	if change.Bri != nil {
		v := evaluate(s.ToUnityFormula, float64(*change.Bri), maxIntensity(e))
		actions = append(actions, &translator.Action{
			Subject: e.Group, Verb: "sets", Variable: "intensity", Modifier: "to", Value: v,
		})
	}
	return actions
}

func (s *LightStrategy) Metadata() Metadata {
	return Metadata{
		Type:             "Dimmable light",
		ModelID:          "LWB010",
		ManufacturerName: "Philips",
	}
}

// SwitchStrategy covers objects that only turn on and off.
type SwitchStrategy struct{}

func (s *SwitchStrategy) ToHue(e *entity.Entity) *huego.State {
	state := &huego.State{Reachable: true, On: isOn(e.Attributes["on"])}
	if state.On {
		state.Bri = maxBri
	}
	return state
}

func (s *SwitchStrategy) ToActions(e *entity.Entity, change StateChange) []*translator.Action {
	on := change.On
	if on == nil && change.Bri != nil {
		v := *change.Bri > 0
		on = &v
	}
	if on == nil {
		return nil
	}
	return []*translator.Action{turns(e.Group, *on)}
}

func (s *SwitchStrategy) Metadata() Metadata {
	return Metadata{
		Type:             "On/Off plug-in unit",
		ModelID:          "LOM001",
		ManufacturerName: "Philips",
	}
}

func turns(group string, on bool) *translator.Action {
	v := "off"
	if on {
		v = "on"
	}
	return &translator.Action{Subject: group, Verb: "turns", Obj: v}
}

func isOn(v any) bool {
	b, err := model.ParseECABoolean(v)
	return err == nil && b.Truthy()
}

func maxIntensity(e *entity.Entity) float64 {
	if m, ok := model.ToFloat(e.Attributes["maxIntensity"]); ok && m > 0 {
		return m
	}
	return 1
}

func clampBri(v float64) uint8 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > maxBri {
		return maxBri
	}
	return uint8(math.Round(v))
}

// evaluate handles formulas like "x * 254 / max"; on any error the input is returned.
func evaluate(formula string, x, max float64) float64 {
	if formula == "" {
		return x
	}
	expression, err := govaluate.NewEvaluableExpression(formula)
	if err != nil {
		return x
	}
	result, err := expression.Evaluate(map[string]interface{}{"x": x, "max": max})
	if err != nil {
		return x
	}
	if val, ok := result.(float64); ok {
		return val
	}
	return x
}
