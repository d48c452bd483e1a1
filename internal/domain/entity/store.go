package entity

import (
	"strings"

	"eud4xr-bridge/internal/domain/model"
	"eud4xr-bridge/internal/domain/registry"
)

// Store holds entities by id and groups them by game-object name. It is not
// safe for concurrent use; the owning service serializes access.
type Store struct {
	entities map[string]*Entity
	groups   map[string][]string
	order    []string
}

func NewStore() *Store {
	return &Store{
		entities: make(map[string]*Entity),
		groups:   make(map[string][]string),
	}
}

// Add inserts e or replaces the entity with the same id. It reports whether
// the id is new.
func (s *Store) Add(e *Entity) bool {
	_, exists := s.entities[e.ID]
	s.entities[e.ID] = e
	if exists {
		return false
	}
	members, ok := s.groups[e.Group]
	if !ok {
		s.order = append(s.order, e.Group)
	}
	s.groups[e.Group] = append(members, e.ID)
	return true
}

// Upsert registers pair as an entity of type t. An entity already holding the
// id with the same type is refreshed in place; it reports whether one was created.
func (s *Store) Upsert(t *registry.VirtualObjectType, pair model.VirtualObjectPair) (*Entity, bool) {
	if e, ok := s.entities[IDFromGameObject(pair.GameObject)]; ok && e.Type == t {
		e.Refresh(pair)
		return e, false
	}
	e := New(t, pair)
	return e, s.Add(e)
}

func (s *Store) Get(id string) (*Entity, bool) {
	e, ok := s.entities[strings.ToLower(id)]
	return e, ok
}

func (s *Store) HasEntity(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// Group returns the members of a group in registration order.
func (s *Store) Group(name string) []*Entity {
	ids := s.groups[strings.ToLower(name)]
	out := make([]*Entity, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.entities[id])
	}
	return out
}

func (s *Store) HasGroup(name string) bool {
	_, ok := s.groups[strings.ToLower(name)]
	return ok
}

// Groups lists group names in creation order.
func (s *Store) Groups() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Store) Len() int { return len(s.entities) }

// ByProperty returns the first member of group declaring prop.
func (s *Store) ByProperty(group, prop string) (*Entity, bool) {
	for _, e := range s.Group(group) {
		if e.Type.HasProperty(prop) {
			return e, true
		}
	}
	return nil, false
}

func (s *Store) ByType(group, typeName string) (*Entity, bool) {
	for _, e := range s.Group(group) {
		if strings.EqualFold(e.Type.Name, typeName) {
			return e, true
		}
	}
	return nil, false
}
