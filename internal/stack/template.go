package stack

import "sort"

// FormatVersion is the template format version stamped on every emitted
// template.
const FormatVersion = "2010-09-09"

// Template is one deployable stack document: parameters in, resources and
// outputs declared, conditions shared by both. Field names carry the
// target declarative format's casing so templates marshal directly to it
// via JSON tags (and to YAML through the JSON round trip).
type Template struct {
	AWSTemplateFormatVersion string               `json:"AWSTemplateFormatVersion,omitempty"`
	Description              string               `json:"Description,omitempty"`
	Parameters               map[string]Parameter `json:"Parameters,omitempty"`
	Conditions               map[string]Value     `json:"Conditions,omitempty"`
	Resources                map[string]*Resource `json:"Resources"`
	Outputs                  map[string]Output    `json:"Outputs,omitempty"`
}

// Parameter is a named typed input of a template.
type Parameter struct {
	Type        string `json:"Type"`
	Description string `json:"Description,omitempty"`
	Default     any    `json:"Default,omitempty"`
}

// Resource is one infrastructure object inside a template.
type Resource struct {
	Type           string   `json:"Type"`
	Properties     Mapping  `json:"Properties,omitempty"`
	DependsOn      []string `json:"DependsOn,omitempty"`
	DeletionPolicy string   `json:"DeletionPolicy,omitempty"`
}

// Output is a named value a template exports to its parent.
type Output struct {
	Description string `json:"Description,omitempty"`
	Value       Value  `json:"Value"`
}

// NewTemplate returns an empty template with initialized collections.
func NewTemplate(description string) *Template {
	return &Template{
		AWSTemplateFormatVersion: FormatVersion,
		Description:              description,
		Parameters:               map[string]Parameter{},
		Conditions:               map[string]Value{},
		Resources:                map[string]*Resource{},
		Outputs:                  map[string]Output{},
	}
}

// ResourceIDs returns the template's resource logical names in sorted
// order.
func (t *Template) ResourceIDs() []string {
	ids := make([]string, 0, len(t.Resources))
	for id := range t.Resources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ParameterNames returns the template's parameter names in sorted order.
func (t *Template) ParameterNames() []string {
	names := make([]string, 0, len(t.Parameters))
	for name := range t.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasDeclaration reports whether name is declared in this template as a
// resource, a parameter, or a condition.
func (t *Template) HasDeclaration(name string) bool {
	if _, ok := t.Resources[name]; ok {
		return true
	}
	if _, ok := t.Parameters[name]; ok {
		return true
	}
	_, ok := t.Conditions[name]
	return ok
}

// GetProperty returns one top-level property of the resource.
func (r *Resource) GetProperty(name string) (Value, bool) {
	if r.Properties == nil {
		return nil, false
	}
	v, ok := r.Properties[name]
	return v, ok
}

// SetProperty sets one top-level property of the resource.
func (r *Resource) SetProperty(name string, v Value) {
	if r.Properties == nil {
		r.Properties = Mapping{}
	}
	r.Properties[name] = v
}

// StringProperty returns a top-level property that holds a string
// literal, such as pre-rendered template text.
func (r *Resource) StringProperty(name string) (string, bool) {
	v, ok := r.GetProperty(name)
	if !ok {
		return "", false
	}
	lit, ok := v.(Literal)
	if !ok {
		return "", false
	}
	s, ok := lit.Value.(string)
	return s, ok
}
