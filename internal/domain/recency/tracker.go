// Package recency keeps short most-recently-seen lists of object names.
package recency

import (
	"slices"

	"eud4xr-bridge/internal/domain/model"
)

// Tracker is a bounded list without duplicates, oldest first.
type Tracker struct {
	capacity int
	items    []string
}

func NewTracker(capacity int) *Tracker {
	if capacity <= 0 {
		capacity = model.MaxLength
	}
	return &Tracker{capacity: capacity, items: make([]string, 0, capacity)}
}

// Touch moves name to the most recent position, evicting the oldest entry when full.
func (t *Tracker) Touch(name string) {
	if i := slices.Index(t.items, name); i >= 0 {
		t.items = slices.Delete(t.items, i, i+1)
	}
	if len(t.items) == t.capacity {
		t.items = slices.Delete(t.items, 0, 1)
	}
	t.items = append(t.items, name)
}

func (t *Tracker) Items() []string { return slices.Clone(t.items) }

func (t *Tracker) Contains(name string) bool { return slices.Contains(t.items, name) }

func (t *Tracker) Len() int { return len(t.items) }

// Set groups the framed, pointed and interacted trackers.
type Set struct {
	trackers map[string]*Tracker
}

func NewSet() *Set {
	return &Set{trackers: map[string]*Tracker{
		model.TrackerFramed:     NewTracker(model.MaxLength),
		model.TrackerPointed:    NewTracker(model.MaxLength),
		model.TrackerInteracted: NewTracker(model.MaxLength),
	}}
}

// Touch is a no-op for unknown tracker names.
func (s *Set) Touch(tracker, name string) {
	if t, ok := s.trackers[tracker]; ok {
		t.Touch(name)
	}
}

func (s *Set) Get(tracker string) *Tracker { return s.trackers[tracker] }

// Any reports whether name is in at least one tracker.
func (s *Set) Any(name string) bool {
	for _, t := range s.trackers {
		if t.Contains(name) {
			return true
		}
	}
	return false
}

// Snapshot returns the three lists keyed by tracker name.
func (s *Set) Snapshot() map[string][]string {
	out := make(map[string][]string, len(s.trackers))
	for name, t := range s.trackers {
		out[name] = t.Items()
	}
	return out
}
