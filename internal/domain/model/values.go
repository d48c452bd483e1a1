package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ECABoolean is the tri-spelling boolean used by the simulation (yes/on/true, no/off/false).
type ECABoolean string

var ecaBooleans = map[string]bool{
	"yes": true, "on": true, "true": true,
	"no": false, "off": false, "false": false,
}

// ParseECABoolean accepts any recognized spelling, case-insensitively, or a Go bool.
func ParseECABoolean(v any) (ECABoolean, error) {
	switch b := v.(type) {
	case bool:
		if b {
			return "true", nil
		}
		return "false", nil
	case ECABoolean:
		return ParseECABoolean(string(b))
	case string:
		s := strings.ToLower(strings.TrimSpace(b))
		if _, ok := ecaBooleans[s]; ok {
			return ECABoolean(s), nil
		}
	}
	return "", &ValidationError{Reason: fmt.Sprintf("%v is not a valid ECABoolean", v)}
}

func (b ECABoolean) Truthy() bool { return ecaBooleans[strings.ToLower(string(b))] }

type Vector3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// ParseVector3 reads a mapping with numeric x, y and z.
func ParseVector3(v any) (Vector3, error) {
	switch t := v.(type) {
	case Vector3:
		return t, nil
	case map[string]any:
		var out Vector3
		for key, dst := range map[string]*float64{"x": &out.X, "y": &out.Y, "z": &out.Z} {
			raw, ok := t[key]
			if !ok {
				return Vector3{}, &ValidationError{Field: key, Reason: "is required"}
			}
			f, ok := ToFloat(raw)
			if !ok {
				return Vector3{}, &ValidationError{Field: key, Reason: fmt.Sprintf("%v is not a number", raw)}
			}
			*dst = f
		}
		return out, nil
	}
	return Vector3{}, &ValidationError{Reason: fmt.Sprintf("%v is not a {x, y, z} mapping", v)}
}

func (v Vector3) Map() map[string]any {
	return map[string]any{"x": v.X, "y": v.Y, "z": v.Z}
}

// Color is the simulation color literal (a name or #rrggbb).
type Color string

func ParseColor(v any) (Color, error) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", &ValidationError{Reason: fmt.Sprintf("%v is not a color", v)}
	}
	return Color(s), nil
}

// ToFloat converts the numeric shapes produced by JSON, YAML and Go callers.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint8:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}
