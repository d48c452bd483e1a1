package translator

import (
	"fmt"
	"strings"

	"eud4xr-bridge/internal/domain/model"
)

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

// firstMap accepts a mapping or a list whose first element is a mapping.
func firstMap(v any) (map[string]any, bool) {
	if m, ok := asMap(v); ok {
		return m, true
	}
	if list, ok := v.([]any); ok && len(list) > 0 {
		return asMap(list[0])
	}
	return nil, false
}

func asList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out
	}
	return []any{v}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// lookup returns the first present key among names.
func lookup(m map[string]any, names ...string) (any, bool) {
	for _, n := range names {
		if v, ok := m[n]; ok {
			return v, true
		}
	}
	return nil, false
}

func lowerValue(v any) any {
	if t, ok := v.(string); ok {
		return strings.ToLower(t)
	}
	return v
}

func dropEmpty(m map[string]any) map[string]any {
	for k, v := range m {
		if model.IsEmpty(v) {
			delete(m, k)
		}
	}
	return m
}
