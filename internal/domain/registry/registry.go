package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"eud4xr-bridge/internal/domain/model"
)

// Service is one invocable action of a type with its parameter coercers.
type Service struct {
	Type     *VirtualObjectType
	Def      *ActionDefinition
	coercers []Coercer
}

// Coerce validates data against the declared parameters. Keys other than the
// declared parameters are ignored.
func (s *Service) Coerce(data map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(s.Def.Params))
	var errs []error
	for i, p := range s.Def.Params {
		raw, ok := data[p.Name]
		if !ok {
			errs = append(errs, &model.ValidationError{Field: p.Name, Reason: "is required"})
			continue
		}
		v, err := s.coercers[i](raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
			continue
		}
		out[p.Name] = v
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("%s.%s: %w", model.Domain, s.Def.Method, err)
	}
	return out, nil
}

// Table indexes services by type name and method.
type Table struct {
	env      EntityLookup
	services map[string]map[string]*Service
}

func (t *Table) Service(typeName, method string) (*Service, bool) {
	byMethod, ok := t.services[typeName]
	if !ok {
		return nil, false
	}
	s, ok := byMethod[method]
	return s, ok
}

type Registry struct {
	types  []*VirtualObjectType
	byName map[string]*VirtualObjectType

	mu    sync.Mutex
	table *Table
}

// New checks that type names and per-type method names are unique.
func New(types []*VirtualObjectType) (*Registry, error) {
	r := &Registry{types: types, byName: make(map[string]*VirtualObjectType, len(types))}
	for _, t := range types {
		key := strings.ToLower(t.Name)
		if _, dup := r.byName[key]; dup {
			return nil, fmt.Errorf("duplicate type %q", t.Name)
		}
		r.byName[key] = t
		seen := map[string]bool{}
		for _, a := range t.Actions {
			if seen[a.Method] {
				return nil, fmt.Errorf("type %s: duplicate method %q", t.Name, a.Method)
			}
			seen[a.Method] = true
		}
	}
	return r, nil
}

// Default is the registry of the built-in catalog.
func Default() *Registry {
	r, err := New(Catalog())
	if err != nil {
		panic(err)
	}
	return r
}

// Type looks up a type by its eca_script name, case-insensitively.
func (r *Registry) Type(name string) (*VirtualObjectType, bool) {
	t, ok := r.byName[strings.ToLower(name)]
	return t, ok
}

func (r *Registry) Types() []*VirtualObjectType {
	out := make([]*VirtualObjectType, len(r.types))
	copy(out, r.types)
	return out
}

// Table returns the cached service table, rebuilding it when env differs from
// the environment it was built for or after Invalidate. env must be comparable.
func (r *Registry) Table(env EntityLookup) *Table {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.table != nil && r.table.env == env {
		return r.table
	}
	t := &Table{env: env, services: make(map[string]map[string]*Service, len(r.types))}
	for _, vt := range r.types {
		byMethod := make(map[string]*Service, len(vt.Actions))
		for i := range vt.Actions {
			def := &vt.Actions[i]
			s := &Service{Type: vt, Def: def, coercers: make([]Coercer, len(def.Params))}
			for j, p := range def.Params {
				s.coercers[j] = CoercerFor(p, env)
			}
			byMethod[def.Method] = s
		}
		t.services[vt.Name] = byMethod
	}
	r.table = t
	return t
}

func (r *Registry) Invalidate() {
	r.mu.Lock()
	r.table = nil
	r.mu.Unlock()
}
