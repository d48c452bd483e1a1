// Package registry holds the static catalog of virtual object types the
// simulation can register, with their properties and invocable actions.
package registry

import (
	"strings"
)

type ParamKind string

const (
	KindString   ParamKind = "str"
	KindNumber   ParamKind = "float"
	KindInteger  ParamKind = "int"
	KindBoolean  ParamKind = "ECABoolean"
	KindPosition ParamKind = "ECAPosition"
	KindRotation ParamKind = "ECARotation"
	KindScale    ParamKind = "ECAScale"
	KindColor    ParamKind = "ECAColor"
	KindDict     ParamKind = "dict"
	KindObject   ParamKind = "object"
	KindEntity   ParamKind = "entity"
	KindList     ParamKind = "list"
)

// Param is one declared action parameter.
type Param struct {
	Name    string
	Kind    ParamKind
	TypeRef string // referenced object type, KindEntity only
	Elem    *Param // element, KindList only
}

// TypeName renders the parameter type the way capability summaries show it.
func (p Param) TypeName() string {
	switch p.Kind {
	case KindEntity:
		return p.TypeRef
	case KindList:
		if p.Elem != nil {
			return "list[" + p.Elem.TypeName() + "]"
		}
		return "list"
	}
	return string(p.Kind)
}

// IsEntityRef reports whether values of p name another virtual object.
func (p Param) IsEntityRef() bool { return p.Kind == KindEntity }

// Property is one declared attribute of a type. Tracker names the recency
// tracker touched when the attribute is set to a truthy value.
type Property struct {
	Name    string
	Kind    ParamKind
	Tracker string
}

type ActionDefinition struct {
	Verb     string
	Variable string
	Modifier string
	Method   string
	Passive  bool
	Params   []Param
}

// Matches applies the resolver rule: verbs equal and either both variables
// unset or variable and modifier equal. Verbs compare in identifier form, so
// "moves to" and "moves_to" are the same verb.
func (d *ActionDefinition) Matches(verb, variable, modifier string) bool {
	if identifier(d.Verb) != identifier(verb) {
		return false
	}
	if d.Variable == "" && variable == "" {
		return true
	}
	return strings.EqualFold(d.Variable, variable) && strings.EqualFold(d.Modifier, modifier)
}

// Phrase is the full natural-language form, e.g. "changes visible to".
func (d *ActionDefinition) Phrase() string {
	parts := []string{d.Verb}
	if d.Variable != "" {
		parts = append(parts, d.Variable)
	}
	if d.Modifier != "" {
		parts = append(parts, d.Modifier)
	}
	return strings.Join(parts, " ")
}

// VirtualObjectType describes one object type; Name matches the simulation's eca_script.
type VirtualObjectType struct {
	Name        string
	Description string
	Properties  []Property
	Actions     []ActionDefinition
}

func (t *VirtualObjectType) Property(name string) (Property, bool) {
	for _, p := range t.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

func (t *VirtualObjectType) HasProperty(name string) bool {
	_, ok := t.Property(name)
	return ok
}

func (t *VirtualObjectType) ActionByMethod(method string) (*ActionDefinition, bool) {
	for i := range t.Actions {
		if t.Actions[i].Method == method {
			return &t.Actions[i], true
		}
	}
	return nil, false
}

// DeclaresVerb reports whether any action of t uses verb, whatever its variable.
func (t *VirtualObjectType) DeclaresVerb(verb string) bool {
	for i := range t.Actions {
		if identifier(t.Actions[i].Verb) == identifier(verb) {
			return true
		}
	}
	return false
}

// NormalizeVerb turns a method-style verb (moves_to) back into its phrase form.
func NormalizeVerb(verb string) string {
	return strings.TrimSpace(strings.ReplaceAll(verb, "_", " "))
}

// MethodName derives the service identifier of a verb/variable pair.
func MethodName(verb, variable string) string {
	id := identifier(verb)
	if variable != "" {
		id += "_" + identifier(variable)
	}
	return id
}

func identifier(s string) string {
	r := strings.NewReplacer(" ", "_", "-", "_")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}
