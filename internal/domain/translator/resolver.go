package translator

import (
	"fmt"
	"strings"

	"github.com/antzucaro/matchr"

	"eud4xr-bridge/internal/domain/entity"
	"eud4xr-bridge/internal/domain/model"
	"eud4xr-bridge/internal/domain/registry"
)

// Minimum Jaro-Winkler similarity for a "did you mean" suggestion.
const suggestionThreshold = 0.8

// Match is a resolved (entity, action) pair.
type Match struct {
	Entity *entity.Entity
	Def    *registry.ActionDefinition
}

// Resolver maps natural-language (subject, verb, variable, modifier) tuples
// onto entities and their declared actions. It reads the store without
// locking; callers serialize access.
type Resolver struct {
	store *entity.Store
}

func NewResolver(store *entity.Store) *Resolver {
	return &Resolver{store: store}
}

// members returns the candidate entities named by subject. A type suffix
// (door1@ECADoor) restricts the group to that type.
func (r *Resolver) members(subject string) []*entity.Entity {
	group := model.GroupOf(subject)
	if suffix := model.TypeSuffixOf(subject); suffix != "" {
		if e, ok := r.store.ByType(group, suffix); ok {
			return []*entity.Entity{e}
		}
	}
	return r.store.Group(group)
}

// Resolve returns the first match in group-member order then declaration order.
func (r *Resolver) Resolve(subject, verb, variable, modifier string) (Match, bool) {
	for _, e := range r.members(subject) {
		for i := range e.Type.Actions {
			def := &e.Type.Actions[i]
			if def.Matches(verb, variable, modifier) {
				return Match{Entity: e, Def: def}, true
			}
		}
	}
	return Match{}, false
}

// ResolveActive only considers actions the subject performs.
func (r *Resolver) ResolveActive(subject, verb, variable, modifier string) (Match, bool) {
	return r.resolveKind(subject, verb, variable, modifier, false)
}

// ResolvePassive only considers actions the object undergoes.
func (r *Resolver) ResolvePassive(object, verb string) (Match, bool) {
	return r.resolveKind(object, verb, "", "", true)
}

func (r *Resolver) resolveKind(subject, verb, variable, modifier string, passive bool) (Match, bool) {
	for _, e := range r.members(subject) {
		for i := range e.Type.Actions {
			def := &e.Type.Actions[i]
			if def.Passive == passive && def.Matches(verb, variable, modifier) {
				return Match{Entity: e, Def: def}, true
			}
		}
	}
	return Match{}, false
}

// Describe is the inverse lookup: the action a service method names on an entity.
func (r *Resolver) Describe(entityID, method string) (*entity.Entity, *registry.ActionDefinition, error) {
	e, ok := r.store.Get(entityID)
	if !ok {
		return nil, nil, fmt.Errorf("entity %s: %w", entityID, model.ErrNotFound)
	}
	def, ok := e.Type.ActionByMethod(method)
	if !ok {
		return e, nil, r.NotSupported(e.Group, method)
	}
	return e, def, nil
}

// EntityByProperty returns the id of the first member of group declaring prop.
func (r *Resolver) EntityByProperty(group, prop string) (string, error) {
	e, ok := r.store.ByProperty(model.GroupOf(group), prop)
	if !ok {
		return "", fmt.Errorf("no member of %q declares %q: %w", group, prop, model.ErrNotFound)
	}
	return e.ID, nil
}

// ExternalName returns the group name of an entity id. Unknown ids of a
// known type are decoded from the id itself.
func (r *Resolver) ExternalName(entityID, typeName string) string {
	if e, ok := r.store.Get(entityID); ok {
		return e.Group
	}
	return entity.NameFromRefID(entityID, typeName)
}

// NotSupported builds the error for an unresolvable verb, suggesting the
// closest declared phrase of subject's group.
func (r *Resolver) NotSupported(subject, verb string) error {
	best, bestScore := "", 0.0
	want := strings.ToLower(registry.NormalizeVerb(verb))
	for _, e := range r.members(subject) {
		for i := range e.Type.Actions {
			phrase := e.Type.Actions[i].Phrase()
			if score := matchr.JaroWinkler(want, strings.ToLower(phrase), false); score > bestScore {
				best, bestScore = phrase, score
			}
		}
	}
	err := &model.NotSupportedError{Subject: subject, Verb: verb}
	if bestScore >= suggestionThreshold {
		err.Suggestion = best
	}
	return err
}
