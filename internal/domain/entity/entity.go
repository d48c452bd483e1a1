// Package entity indexes the virtual object instances registered by the simulation.
package entity

import (
	"maps"
	"strings"

	"eud4xr-bridge/internal/domain/model"
	"eud4xr-bridge/internal/domain/registry"
)

const (
	idPrefix    = "sensor."
	StateActive = "active"
)

// Entity is one registered instance of a virtual object type.
type Entity struct {
	ID         string
	GameObject string // external name, e.g. lamp1@ECALight
	UnityID    string
	Group      string
	Type       *registry.VirtualObjectType
	State      string
	Attributes map[string]any

	// last accepted timestamp per attribute
	LastUpdates map[string]float64
}

// IDFromGameObject maps lamp1@ECALight to sensor.lamp1_ecalight.
func IDFromGameObject(gameObject string) string {
	return idPrefix + strings.ToLower(strings.ReplaceAll(gameObject, "@", "_"))
}

// RefID is the entity id of the member of group name with the given type.
func RefID(name, typeName string) string {
	return strings.ToLower(idPrefix + name + "_" + typeName)
}

// NameFromRefID strips the prefix and type suffix RefID adds.
func NameFromRefID(id, typeName string) string {
	name := strings.TrimPrefix(strings.ToLower(id), idPrefix)
	return strings.TrimSuffix(name, "_"+strings.ToLower(typeName))
}

// New builds an entity of type t. Only declared properties are kept; missing ones are nil.
func New(t *registry.VirtualObjectType, pair model.VirtualObjectPair) *Entity {
	e := &Entity{
		ID:          IDFromGameObject(pair.GameObject),
		GameObject:  pair.GameObject,
		UnityID:     pair.UnityID,
		Group:       model.GroupOf(pair.GameObject),
		Type:        t,
		State:       StateActive,
		Attributes:  make(map[string]any, len(t.Properties)),
		LastUpdates: make(map[string]float64),
	}
	for _, p := range t.Properties {
		e.Attributes[p.Name] = pair.Attributes[p.Name]
	}
	return e
}

// Refresh applies a repeated registration: names are updated and only the
// attributes pair supplies are overwritten. Accepted timestamps are kept.
func (e *Entity) Refresh(pair model.VirtualObjectPair) {
	e.GameObject = pair.GameObject
	if pair.UnityID != "" {
		e.UnityID = pair.UnityID
	}
	for _, p := range e.Type.Properties {
		if v, ok := pair.Attributes[p.Name]; ok {
			e.Attributes[p.Name] = v
		}
	}
}

func (e *Entity) Attribute(name string) (any, bool) {
	v, ok := e.Attributes[name]
	return v, ok
}

// SetAttribute applies v when ts is strictly greater than the last accepted
// timestamp for name. It reports whether the value was applied.
func (e *Entity) SetAttribute(name string, v any, ts float64) bool {
	if last, seen := e.LastUpdates[name]; seen && ts <= last {
		return false
	}
	e.Attributes[name] = v
	e.LastUpdates[name] = ts
	return true
}

// Snapshot is the serializable view of the entity.
func (e *Entity) Snapshot() map[string]any {
	return map[string]any{
		"entity_id":     e.ID,
		"friendly_name": e.GameObject,
		"type":          e.Type.Name,
		"state":         e.State,
		"attributes":    maps.Clone(e.Attributes),
	}
}
