package registry

import (
	"fmt"
	"math"
	"strings"

	"eud4xr-bridge/internal/domain/model"
)

// Coercer validates one parameter value and returns its canonical form.
type Coercer func(v any) (any, error)

// EntityLookup is the live environment entity-reference coercers check against.
type EntityLookup interface {
	HasEntity(entityID string) bool
}

// CoercerFor builds the coercer of a declared parameter. Unknown kinds fall
// back to the string coercer.
func CoercerFor(p Param, env EntityLookup) Coercer {
	switch p.Kind {
	case KindNumber:
		return coerceNumber
	case KindInteger:
		return coerceInteger
	case KindBoolean:
		return func(v any) (any, error) {
			b, err := model.ParseECABoolean(v)
			return string(b), err
		}
	case KindPosition, KindRotation, KindScale:
		return func(v any) (any, error) {
			vec, err := model.ParseVector3(v)
			if err != nil {
				return nil, err
			}
			return vec.Map(), nil
		}
	case KindColor:
		return func(v any) (any, error) {
			c, err := model.ParseColor(v)
			return string(c), err
		}
	case KindDict:
		return func(v any) (any, error) {
			if m, ok := v.(map[string]any); ok {
				return m, nil
			}
			// Colors are declared as dicts on some types but sent as names.
			if s, ok := v.(string); ok && s != "" {
				return s, nil
			}
			return nil, &model.ValidationError{Reason: fmt.Sprintf("%v is not a mapping", v)}
		}
	case KindObject:
		return func(v any) (any, error) {
			if v == nil {
				return nil, &model.ValidationError{Reason: "value is required"}
			}
			return v, nil
		}
	case KindEntity:
		return entityCoercer(p, env)
	case KindList:
		elem := coerceString
		if p.Elem != nil {
			elem = CoercerFor(*p.Elem, env)
		}
		return func(v any) (any, error) {
			items, ok := v.([]any)
			if !ok {
				return nil, &model.ValidationError{Reason: fmt.Sprintf("%v is not a list", v)}
			}
			out := make([]any, 0, len(items))
			for i, item := range items {
				c, err := elem(item)
				if err != nil {
					return nil, fmt.Errorf("item %d: %w", i, err)
				}
				out = append(out, c)
			}
			return out, nil
		}
	}
	return coerceString
}

func entityCoercer(p Param, env EntityLookup) Coercer {
	return func(v any) (any, error) {
		id, ok := v.(string)
		if !ok || id == "" {
			return nil, &model.ValidationError{Reason: fmt.Sprintf("%v is not an entity id", v)}
		}
		id = strings.ToLower(id)
		if !strings.HasPrefix(id, "sensor.") {
			return nil, &model.ValidationError{Reason: fmt.Sprintf("%s is not an %s entity", id, model.Domain)}
		}
		if env != nil && !env.HasEntity(id) {
			return nil, &model.ValidationError{Reason: fmt.Sprintf("entity %s (%s) is not registered", id, p.TypeRef)}
		}
		return id, nil
	}
}

func coerceString(v any) (any, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case nil:
		return nil, &model.ValidationError{Reason: "value is required"}
	case map[string]any, []any:
		return nil, &model.ValidationError{Reason: fmt.Sprintf("%v is not a string", v)}
	}
	return fmt.Sprint(v), nil
}

func coerceNumber(v any) (any, error) {
	f, ok := model.ToFloat(v)
	if !ok {
		return nil, &model.ValidationError{Reason: fmt.Sprintf("%v is not a number", v)}
	}
	return f, nil
}

func coerceInteger(v any) (any, error) {
	f, ok := model.ToFloat(v)
	if !ok || f != math.Trunc(f) {
		return nil, &model.ValidationError{Reason: fmt.Sprintf("%v is not an integer", v)}
	}
	return int(f), nil
}
