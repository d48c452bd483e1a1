// Package hue projects on/off and dimmable virtual objects as Philips Hue lights.
package hue

import (
	"github.com/amimof/huego"

	"eud4xr-bridge/internal/domain/entity"
	"eud4xr-bridge/internal/domain/translator"
)

// StateChange is a Hue state PUT; nil fields were not sent.
type StateChange struct {
	On  *bool
	Bri *uint8
}

type Metadata struct {
	Type             string
	ModelID          string
	ManufacturerName string
}

// Strategy translates one virtual object type to and from Hue state.
type Strategy interface {
	ToHue(e *entity.Entity) *huego.State
	ToActions(e *entity.Entity, change StateChange) []*translator.Action
	Metadata() Metadata
}

type Factory struct {
	strategies map[string]Strategy
}

func NewFactory(toHueFormula, toUnityFormula string) *Factory {
	light := &LightStrategy{ToHueFormula: toHueFormula, ToUnityFormula: toUnityFormula}
	onOff := &SwitchStrategy{}
	return &Factory{
		strategies: map[string]Strategy{
			"ECALight":   light,
			"Switch":     onOff,
			"Electronic": onOff,
			"Particle":   onOff,
			"Highlight":  onOff,
		},
	}
}

func (f *Factory) For(typeName string) (Strategy, bool) {
	s, ok := f.strategies[typeName]
	return s, ok
}

// Light renders a device the way the Hue API lists it.
func Light(id, name string, state *huego.State, meta Metadata) *huego.Light {
	return &huego.Light{
		Name:             name,
		Type:             meta.Type,
		State:            state,
		ModelID:          meta.ModelID,
		UniqueID:         id,
		ManufacturerName: meta.ManufacturerName,
	}
}
