package transform

import (
	"sort"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/opmodel/schemaform/internal/schema"
	"github.com/opmodel/schemaform/internal/stack"
)

// Names of the operation root types created on demand.
const (
	QueryTypeName    = "Query"
	MutationTypeName = "Mutation"
)

// Context is the single mutable store shared by every plugin invocation
// of one compilation: generated resources, schema types, root-template
// declarations, and the type-to-stack mapping. All mutation is
// last-writer-wins on a key, and every write is visible to every
// subsequently run plugin, including plugins applied to unrelated types.
// That global visibility is what lets one type's directives update
// another type's generated operations, and it is why directive ordering
// is part of the plugin contract.
//
// A Context is owned by exactly one pipeline run and is never shared
// across goroutines.
type Context struct {
	doc *schema.Document

	types  map[string]*schema.SchemaType
	inputs map[string]*schema.SchemaType

	resources map[string]*stack.Resource

	parameters map[string]stack.Parameter
	conditions map[string]stack.Value
	outputs    map[string]stack.Output

	// stackPatterns maps a nested stack name (type name) to the resource
	// id patterns whose resources the stack owns. A pattern is an exact
	// logical name, or a prefix when it ends with "*".
	stackPatterns map[string][]string
}

// NewContext returns a Context seeded with the document's declarations.
// The document's type objects are shared, not copied: plugins mutate
// them in place for the lifetime of the compilation.
func NewContext(doc *schema.Document) *Context {
	ctx := &Context{
		doc:           doc,
		types:         map[string]*schema.SchemaType{},
		inputs:        map[string]*schema.SchemaType{},
		resources:     map[string]*stack.Resource{},
		parameters:    map[string]stack.Parameter{},
		conditions:    map[string]stack.Value{},
		outputs:       map[string]stack.Output{},
		stackPatterns: map[string][]string{},
	}
	for _, t := range doc.Types {
		ctx.types[t.Name] = t
	}
	return ctx
}

// Document returns the document this compilation was seeded with.
func (c *Context) Document() *schema.Document {
	return c.doc
}

// GetResource returns the resource with the given logical name.
func (c *Context) GetResource(id string) (*stack.Resource, bool) {
	r, ok := c.resources[id]
	return r, ok
}

// SetResource registers a resource under a logical name, replacing any
// previous registration.
func (c *Context) SetResource(id string, r *stack.Resource) {
	c.resources[id] = r
}

// ResourceIDs returns all registered resource logical names, sorted.
func (c *Context) ResourceIDs() []string {
	ids := make([]string, 0, len(c.resources))
	for id := range c.resources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GetType returns the schema type with the given name.
func (c *Context) GetType(name string) (*schema.SchemaType, bool) {
	t, ok := c.types[name]
	return t, ok
}

// PutType registers a schema type by name, replacing any previous
// registration. The document's type list is kept in sync, so the
// mutated document always reflects every registered type.
func (c *Context) PutType(t *schema.SchemaType) {
	c.registerType(t)
	c.types[t.Name] = t
}

// registerType keeps the document's type list in sync with the
// registries, replacing by name.
func (c *Context) registerType(t *schema.SchemaType) {
	for i, existing := range c.doc.Types {
		if existing.Name == t.Name {
			c.doc.Types[i] = t
			return
		}
	}
	c.doc.Types = append(c.doc.Types, t)
}

// TypeNames returns all registered type names, sorted.
func (c *Context) TypeNames() []string {
	names := make([]string, 0, len(c.types))
	for name := range c.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsEnum reports whether name is a registered enum type.
func (c *Context) IsEnum(name string) bool {
	t, ok := c.types[name]
	return ok && t.Kind == schema.KindEnum
}

// AddInput registers a generated input type by name, replacing any
// previous registration. Registration is idempotent for equal names, so
// plugins can re-register shared inputs without checking first.
func (c *Context) AddInput(t *schema.SchemaType) {
	c.registerType(t)
	c.inputs[t.Name] = t
}

// GetInput returns a registered input type.
func (c *Context) GetInput(name string) (*schema.SchemaType, bool) {
	t, ok := c.inputs[name]
	return t, ok
}

// InputNames returns all registered input type names, sorted.
func (c *Context) InputNames() []string {
	names := make([]string, 0, len(c.inputs))
	for name := range c.inputs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetQueryType returns the Query operation type, creating it on first
// use.
func (c *Context) GetQueryType() *schema.SchemaType {
	return c.operationType(QueryTypeName)
}

// GetMutationType returns the Mutation operation type, creating it on
// first use.
func (c *Context) GetMutationType() *schema.SchemaType {
	return c.operationType(MutationTypeName)
}

func (c *Context) operationType(name string) *schema.SchemaType {
	if t, ok := c.types[name]; ok {
		return t
	}
	t := &schema.SchemaType{Name: name, Kind: schema.KindObject}
	c.registerType(t)
	c.types[name] = t
	return t
}

// MapTypeToStack assigns resources matching pattern to the named type's
// nested stack. A pattern is an exact resource logical name, or a prefix
// match when it ends with "*".
func (c *Context) MapTypeToStack(typeName, pattern string) {
	c.stackPatterns[typeName] = append(c.stackPatterns[typeName], pattern)
}

// StackPatterns returns the type-to-pattern mapping. Callers must not
// mutate the returned map.
func (c *Context) StackPatterns() map[string][]string {
	return c.stackPatterns
}

// StackNames returns the nested stack names with registered patterns,
// sorted.
func (c *Context) StackNames() []string {
	return sets.List(sets.KeySet(c.stackPatterns))
}

// SetParameter declares a root-template parameter.
func (c *Context) SetParameter(name string, p stack.Parameter) {
	c.parameters[name] = p
}

// SetCondition declares a root-template condition.
func (c *Context) SetCondition(name string, v stack.Value) {
	c.conditions[name] = v
}

// SetOutput declares a root-template output.
func (c *Context) SetOutput(name string, o stack.Output) {
	c.outputs[name] = o
}

// Parameters returns the root-template parameter declarations. Callers
// must not mutate the returned map.
func (c *Context) Parameters() map[string]stack.Parameter {
	return c.parameters
}

// Conditions returns the root-template condition declarations. Callers
// must not mutate the returned map.
func (c *Context) Conditions() map[string]stack.Value {
	return c.conditions
}

// Outputs returns the root-template output declarations. Callers must
// not mutate the returned map.
func (c *Context) Outputs() map[string]stack.Output {
	return c.outputs
}

// Resources returns the flat resource registry. Callers must not mutate
// the returned map; individual resources are shared and may be mutated
// through their pointers.
func (c *Context) Resources() map[string]*stack.Resource {
	return c.resources
}
