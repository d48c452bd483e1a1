package registry

import "sort"

type ParamSummary struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type ActionSummary struct {
	Verb     string         `json:"verb"`
	Variable string         `json:"variable,omitempty"`
	Modifier string         `json:"modifier,omitempty"`
	Method   string         `json:"method"`
	Passive  bool           `json:"passive,omitempty"`
	Params   []ParamSummary `json:"params,omitempty"`
	Template map[string]any `json:"template"`
}

type PropertySummary struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// CapabilitySummary is the machine-readable description of one object type.
type CapabilitySummary struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Properties  []PropertySummary `json:"properties"`
	Actions     []ActionSummary   `json:"actions"`
}

// Describe summarizes t. Each action carries a template of the wire payload
// that would invoke it.
func Describe(t *VirtualObjectType) CapabilitySummary {
	s := CapabilitySummary{
		Name:        t.Name,
		Description: t.Description,
		Properties:  make([]PropertySummary, 0, len(t.Properties)),
		Actions:     make([]ActionSummary, 0, len(t.Actions)),
	}
	for _, p := range t.Properties {
		s.Properties = append(s.Properties, PropertySummary{Name: p.Name, Type: string(p.Kind)})
	}
	for i := range t.Actions {
		a := &t.Actions[i]
		as := ActionSummary{
			Verb: a.Verb, Variable: a.Variable, Modifier: a.Modifier,
			Method: a.Method, Passive: a.Passive,
			Template: template(t, a),
		}
		for _, p := range a.Params {
			as.Params = append(as.Params, ParamSummary{Name: p.Name, Type: p.TypeName()})
		}
		s.Actions = append(s.Actions, as)
	}
	return s
}

func template(t *VirtualObjectType, a *ActionDefinition) map[string]any {
	tpl := map[string]any{"subject": "<" + t.Name + " name>", "verb": a.Verb}
	if a.Passive && len(a.Params) > 0 {
		tpl["subject"] = "<" + a.Params[0].TypeName() + " name>"
		tpl["obj"] = "<" + t.Name + " name>"
		return tpl
	}
	if a.Variable != "" {
		tpl["variable"] = a.Variable
		tpl["modifier"] = a.Modifier
	}
	if len(a.Params) > 0 {
		slot := "obj"
		if a.Variable != "" && a.Modifier != "" {
			slot = "value"
		}
		tpl[slot] = "<" + a.Params[0].TypeName() + ">"
	}
	return tpl
}

// DescribeAll summarizes the given types sorted by name.
func DescribeAll(types []*VirtualObjectType) []CapabilitySummary {
	out := make([]CapabilitySummary, 0, len(types))
	for _, t := range types {
		out = append(out, Describe(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
