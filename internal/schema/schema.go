// Package schema models parsed schema documents: the ordered type
// definitions, fields, and directives the transform pipeline consumes.
// Parsing the schema language itself happens upstream; documents arrive
// here already structured, either built programmatically or loaded from
// their YAML/JSON serialization.
package schema

// TypeKind discriminates the declaration kinds a document may contain.
type TypeKind string

const (
	// KindObject is a record type backed by storage and API operations.
	KindObject TypeKind = "object"

	// KindEnum is a closed set of string values.
	KindEnum TypeKind = "enum"

	// KindInput is an argument-only type generated for API operations.
	KindInput TypeKind = "input"
)

// Document is one parsed schema: an ordered sequence of type
// definitions. Order is meaningful, both for directive processing and
// for deterministic output.
type Document struct {
	Types []*SchemaType `json:"types"`
}

// Type returns the declaration with the given name.
func (d *Document) Type(name string) (*SchemaType, bool) {
	for _, t := range d.Types {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// SchemaType is one user-defined type: a name, an ordered field list,
// and the directives attached to it. Identity is the name; names are
// unique within a document.
type SchemaType struct {
	Name       string       `json:"name"`
	Kind       TypeKind     `json:"kind,omitempty"`
	Fields     []*Field     `json:"fields,omitempty"`
	Values     []string     `json:"values,omitempty"`
	Directives []*Directive `json:"directives,omitempty"`
}

// IsObject reports whether the type is an object declaration. An empty
// kind defaults to object.
func (t *SchemaType) IsObject() bool {
	return t.Kind == KindObject || t.Kind == ""
}

// Field returns the field with the given name.
func (t *SchemaType) Field(name string) (*Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// PutField replaces the field with the same name, or appends it.
func (t *SchemaType) PutField(field *Field) {
	for i, f := range t.Fields {
		if f.Name == field.Name {
			t.Fields[i] = field
			return
		}
	}
	t.Fields = append(t.Fields, field)
}

// DirectivesNamed returns all directives with the given name in
// declaration order.
func (t *SchemaType) DirectivesNamed(name string) []*Directive {
	var out []*Directive
	for _, d := range t.Directives {
		if d.Name == name {
			out = append(out, d)
		}
	}
	return out
}

// HasDirective reports whether a directive with the given name is
// attached to the type.
func (t *SchemaType) HasDirective(name string) bool {
	return len(t.DirectivesNamed(name)) > 0
}

// Field is one field of a type: a name, a declared type reference, and
// optional operation arguments. Plugins may rewrite arguments and the
// wrapper type; the rest is fixed after parsing.
type Field struct {
	Name      string      `json:"name"`
	Type      TypeRef     `json:"type"`
	Arguments []*Argument `json:"arguments,omitempty"`
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	out := &Field{Name: f.Name, Type: f.Type.Clone()}
	for _, a := range f.Arguments {
		out.Arguments = append(out.Arguments, &Argument{Name: a.Name, Type: a.Type.Clone()})
	}
	return out
}

// Argument is one named, typed operation argument.
type Argument struct {
	Name string  `json:"name"`
	Type TypeRef `json:"type"`
}

// Directive is one annotation attached to a type: a name plus an ordered
// argument list. Directives are read-only to plugins; each plugin parses
// the argument bag of the directives it owns into its own typed form.
type Directive struct {
	Name      string              `json:"name"`
	Arguments []DirectiveArgument `json:"arguments,omitempty"`
}

// DirectiveArgument is one named directive argument. Values are scalars,
// lists, or nested mappings as produced by the document decoder.
type DirectiveArgument struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Argument returns the value of the named argument.
func (d *Directive) Argument(name string) (any, bool) {
	for _, a := range d.Arguments {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}

// StringArgument returns the named argument as a string.
func (d *Directive) StringArgument(name string) (string, bool) {
	v, ok := d.Argument(name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// StringListArgument returns the named argument as a list of strings.
// Decoders produce []any; each element must be a string.
func (d *Directive) StringListArgument(name string) ([]string, bool) {
	v, ok := d.Argument(name)
	if !ok {
		return nil, false
	}

	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
