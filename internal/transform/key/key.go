// Package key implements the key directive: primary key replacement,
// secondary index derivation, and the API surface updates both imply.
// It reads the table resources the model plugin registers, so model must
// run first on any type carrying key directives.
package key

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/charmbracelet/log"

	"github.com/opmodel/schemaform/internal/output"
	"github.com/opmodel/schemaform/internal/schema"
	"github.com/opmodel/schemaform/internal/transform"
)

// DirectiveName is the directive this plugin owns.
const DirectiveName = "key"

// Plugin is the key directive transform.
type Plugin struct {
	log *log.Logger
}

// New returns the key plugin.
func New() *Plugin {
	return &Plugin{log: output.ModuleLogger("key")}
}

// Name implements transform.Plugin.
func (p *Plugin) Name() string { return "key" }

// Directive implements transform.Plugin.
func (p *Plugin) Directive() string { return DirectiveName }

// args is one key directive's parsed argument set. An empty name marks
// the primary key.
type args struct {
	name       string
	fields     []string
	queryField string
}

func (a args) primary() bool { return a.name == "" }

// Apply validates the directive, derives its key schema, applies it to
// the type's table, and propagates the key structure to the API surface.
// Validation happens before any mutation, so a rejected directive leaves
// the compilation state untouched.
func (p *Plugin) Apply(typ *schema.SchemaType, dir *schema.Directive, ctx *transform.Context) error {
	a, err := parseArgs(typ, dir)
	if err != nil {
		return err
	}
	if err := validate(typ, dir, a, ctx); err != nil {
		return err
	}

	table, ok := ctx.GetResource(transform.TableResourceID(typ.Name))
	if !ok {
		return &transform.StructuralError{
			TypeName:   typ.Name,
			ResourceID: transform.TableResourceID(typ.Name),
			Message:    "key directives extend a table; apply the model directive first",
		}
	}

	elems, attrs := deriveKeySchema(a.fields, func(name string) types.ScalarAttributeType {
		f, _ := typ.Field(name)
		t, _ := attributeType(f, ctx)
		return t
	})

	if a.primary() {
		p.log.Debug("replacing primary key", "type", typ.Name, "fields", a.fields)
		applyPrimary(table, elems, attrs)
		propagateAPI(ctx, typ, a.fields)
		rewriteMutationInputs(ctx, typ, a.fields)
		injectKeySnippets(ctx, typ, a.fields)
		return nil
	}

	kind := applySecondary(table, a.name, elems, attrs)
	p.log.Debug("adding secondary index", "type", typ.Name, "index", a.name, "kind", kind)
	if a.queryField != "" {
		declareQueryField(ctx, typ, a)
	}
	return nil
}

func parseArgs(typ *schema.SchemaType, dir *schema.Directive) (args, error) {
	var a args
	a.name, _ = dir.StringArgument("name")
	a.queryField, _ = dir.StringArgument("queryField")

	fields, ok := dir.StringListArgument("fields")
	if !ok || len(fields) == 0 {
		return a, directiveError(typ, "must include at least one field")
	}
	a.fields = fields

	if a.primary() && a.queryField != "" {
		return a, directiveError(typ,
			fmt.Sprintf("a primary key cannot declare queryField %q; only named keys query through an index", a.queryField))
	}
	return a, nil
}

// validate enforces the directive's structural rules against the type
// and the directives declared before this one.
func validate(typ *schema.SchemaType, dir *schema.Directive, a args, ctx *transform.Context) error {
	for _, earlier := range typ.DirectivesNamed(DirectiveName) {
		if earlier == dir {
			break
		}
		earlierName, _ := earlier.StringArgument("name")
		if a.primary() && earlierName == "" {
			return directiveError(typ, "only one primary key directive is allowed")
		}
		if !a.primary() && earlierName == a.name {
			return directiveError(typ,
				fmt.Sprintf("duplicate key name %q on type %q", a.name, typ.Name))
		}
	}

	for _, name := range a.fields {
		f, ok := typ.Field(name)
		if !ok {
			return directiveError(typ,
				fmt.Sprintf("field %q is not defined on type %q", name, typ.Name))
		}
		if f.Type.IsList() {
			return directiveError(typ,
				fmt.Sprintf("field %q is a list; key fields must be scalars", name))
		}
		if !f.Type.IsNonNull() {
			return directiveError(typ,
				fmt.Sprintf("field %q must be non-null to be part of a key", name))
		}
		if _, ok := attributeType(f, ctx); !ok {
			return directiveError(typ,
				fmt.Sprintf("field %q of type %q cannot be a key attribute; keys are built from string, numeric, and enum fields",
					name, f.Type.BaseName()))
		}
	}
	return nil
}

// attributeType maps a field to its stored attribute type. Enum types
// store as strings.
func attributeType(f *schema.Field, ctx *transform.Context) (types.ScalarAttributeType, bool) {
	base := f.Type.BaseName()
	switch {
	case ctx.IsEnum(base):
		return types.ScalarAttributeTypeS, true
	case schema.IsStringScalar(base):
		return types.ScalarAttributeTypeS, true
	case schema.IsNumericScalar(base):
		return types.ScalarAttributeTypeN, true
	default:
		return "", false
	}
}

func directiveError(typ *schema.SchemaType, message string) *transform.DirectiveError {
	return &transform.DirectiveError{
		TypeName:      typ.Name,
		DirectiveName: DirectiveName,
		Message:       message,
	}
}
