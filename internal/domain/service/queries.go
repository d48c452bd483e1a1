package service

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"eud4xr-bridge/internal/domain/model"
	"eud4xr-bridge/internal/domain/registry"
	"eud4xr-bridge/internal/ports"
)

// closeDistance is the radius within which objects are always close.
const closeDistance = 1.0

// Capabilities describes the registered types, or the whole catalog when all
// is set.
func (s *BridgeService) Capabilities(_ context.Context, all bool) []registry.CapabilitySummary {
	if all {
		return registry.DescribeAll(s.registry.Types())
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := map[string]bool{}
	var types []*registry.VirtualObjectType
	for _, g := range s.store.Groups() {
		for _, e := range s.store.Group(g) {
			if !seen[e.Type.Name] {
				seen[e.Type.Name] = true
				types = append(types, e.Type)
			}
		}
	}
	return registry.DescribeAll(types)
}

// ContextObjects returns the recency trackers, most recent last.
func (s *BridgeService) ContextObjects(context.Context) map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recency.Snapshot()
}

// VirtualObjects lists groups, optionally filtered by name. With onlyNames the
// result holds names; otherwise each group with its component snapshots.
func (s *BridgeService) VirtualObjects(_ context.Context, onlyNames bool, names []string) []any {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []any{}
	for _, g := range s.store.Groups() {
		if len(names) > 0 && !slices.ContainsFunc(names, func(n string) bool { return strings.EqualFold(n, g) }) {
			continue
		}
		if onlyNames {
			out = append(out, g)
			continue
		}
		members := s.store.Group(g)
		components := make([]any, 0, len(members))
		for _, e := range members {
			components = append(components, e.Snapshot())
		}
		out = append(out, map[string]any{"name": g, "components": components})
	}
	return out
}

// CloseObjects ranks the other positioned objects by distance from name.
// Objects nearer than one unit, or present in any recency tracker, are kept.
func (s *BridgeService) CloseObjects(_ context.Context, name string) ([]ports.CloseObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group := model.GroupOf(name)
	origin, ok := s.position(group)
	if !ok {
		return nil, fmt.Errorf("position of %q: %w", name, model.ErrNotFound)
	}
	out := []ports.CloseObject{}
	for _, g := range s.store.Groups() {
		if g == group {
			continue
		}
		p, ok := s.position(g)
		if !ok {
			continue
		}
		d := distance(origin, p)
		if d < closeDistance || s.recency.Any(g) {
			out = append(out, ports.CloseObject{Name: g, Distance: d})
		}
	}
	slices.SortStableFunc(out, func(a, b ports.CloseObject) int { return cmp.Compare(a.Distance, b.Distance) })
	return out, nil
}

func (s *BridgeService) position(group string) (model.Vector3, bool) {
	e, ok := s.store.ByProperty(group, "position")
	if !ok {
		return model.Vector3{}, false
	}
	raw, ok := e.Attribute("position")
	if !ok {
		return model.Vector3{}, false
	}
	v, err := model.ParseVector3(raw)
	return v, err == nil
}

func distance(a, b model.Vector3) float64 {
	return math.Sqrt((a.X-b.X)*(a.X-b.X) + (a.Y-b.Y)*(a.Y-b.Y) + (a.Z-b.Z)*(a.Z-b.Z))
}
