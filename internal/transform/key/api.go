package key

import (
	"slices"

	"github.com/opmodel/schemaform/internal/schema"
	"github.com/opmodel/schemaform/internal/transform"
	"github.com/opmodel/schemaform/internal/transform/model"
)

// propagateAPI reshapes the generated query fields around a new primary
// key: get takes every key field, list takes the leading fields plus a
// range condition on the final one, prepended to its paging arguments.
func propagateAPI(ctx *transform.Context, typ *schema.SchemaType, fields []string) {
	query := ctx.GetQueryType()
	if get, ok := query.Field(transform.GetFieldName(typ.Name)); ok {
		get.Arguments = keyArguments(typ, fields)
	}
	if list, ok := query.Field(transform.ListFieldName(typ.Name)); ok {
		list.Arguments = append(queryArguments(ctx, typ, fields), list.Arguments...)
	}
}

// keyArguments returns one non-null argument per key field, typed by the
// field's declared base type.
func keyArguments(typ *schema.SchemaType, fields []string) []*schema.Argument {
	args := make([]*schema.Argument, 0, len(fields))
	for _, name := range fields {
		f, _ := typ.Field(name)
		args = append(args, &schema.Argument{
			Name: name,
			Type: schema.NonNullOf(schema.Named(f.Type.BaseName())),
		})
	}
	return args
}

// queryArguments returns the sort-aware argument shape shared by list
// fields and synthesized query fields: leading key fields are required,
// the final field becomes an optional range condition when the key has
// more than one field and stays a plain optional scalar otherwise.
func queryArguments(ctx *transform.Context, typ *schema.SchemaType, fields []string) []*schema.Argument {
	args := make([]*schema.Argument, 0, len(fields))
	for _, name := range fields[:len(fields)-1] {
		f, _ := typ.Field(name)
		args = append(args, &schema.Argument{
			Name: name,
			Type: schema.NonNullOf(schema.Named(f.Type.BaseName())),
		})
	}

	final := fields[len(fields)-1]
	f, _ := typ.Field(final)
	finalType := schema.Named(f.Type.BaseName())
	if len(fields) > 1 {
		finalType = schema.Named(ensureKeyConditionInput(ctx, conditionClass(f.Type.BaseName())))
	}
	return append(args, &schema.Argument{Name: final, Type: finalType})
}

// conditionClass maps a key field's base type to the scalar family its
// range condition input is built from. String-backed scalars and enums
// all compare as strings.
func conditionClass(base string) string {
	switch base {
	case schema.ScalarID, schema.ScalarInt, schema.ScalarFloat:
		return base
	default:
		return schema.ScalarString
	}
}

// ensureKeyConditionInput registers the range condition input for one
// scalar family and returns its name. Later keys of the same family
// reuse the registered type.
func ensureKeyConditionInput(ctx *transform.Context, class string) string {
	name := class + "KeyConditionInput"
	if _, ok := ctx.GetInput(name); ok {
		return name
	}

	input := &schema.SchemaType{Name: name, Kind: schema.KindInput}
	for _, op := range []string{"eq", "le", "lt", "ge", "gt"} {
		input.Fields = append(input.Fields, &schema.Field{Name: op, Type: schema.Named(class)})
	}
	input.Fields = append(input.Fields,
		&schema.Field{Name: "between", Type: schema.ListOf(schema.Named(class))},
		&schema.Field{Name: "beginsWith", Type: schema.Named(class)},
	)
	ctx.AddInput(input)
	return name
}

// rewriteMutationInputs aligns the generated inputs with the new primary
// key: create and update require every key field, delete takes exactly
// the key fields and nothing else.
func rewriteMutationInputs(ctx *transform.Context, typ *schema.SchemaType, fields []string) {
	if input, ok := ctx.GetInput(transform.CreateInputName(typ.Name)); ok {
		for _, name := range fields {
			if f, ok := input.Field(name); ok {
				f.Type = schema.NonNullOf(schema.Named(f.Type.BaseName()))
			}
		}
	}
	if input, ok := ctx.GetInput(transform.UpdateInputName(typ.Name)); ok {
		for _, f := range input.Fields {
			if slices.Contains(fields, f.Name) {
				f.Type = schema.NonNullOf(schema.Named(f.Type.BaseName()))
			} else {
				f.Type = schema.Nullable(f.Type)
			}
		}
	}
	if input, ok := ctx.GetInput(transform.DeleteInputName(typ.Name)); ok {
		input.Fields = nil
		for _, name := range fields {
			f, _ := typ.Field(name)
			input.Fields = append(input.Fields, &schema.Field{
				Name: name,
				Type: schema.NonNullOf(schema.Named(f.Type.BaseName())),
			})
		}
	}
}

// declareQueryField synthesizes the index-backed query field a named key
// requests and wires its resolver. The field shares the list shape and
// returns the type's connection.
func declareQueryField(ctx *transform.Context, typ *schema.SchemaType, a args) {
	arguments := append(queryArguments(ctx, typ, a.fields),
		&schema.Argument{Name: "limit", Type: schema.Named(schema.ScalarInt)},
		&schema.Argument{Name: "nextToken", Type: schema.Named(schema.ScalarString)},
	)
	ctx.GetQueryType().PutField(&schema.Field{
		Name:      a.queryField,
		Type:      schema.Named(transform.ConnectionTypeName(typ.Name)),
		Arguments: arguments,
	})

	resolverID := transform.QueryResolverResourceID(a.queryField)
	ctx.SetResource(resolverID, model.ResolverResource(
		typ.Name, "Query", a.queryField,
		queryRequestTemplate(a), model.ResponseTemplate(),
	))
	ctx.MapTypeToStack(typ.Name, resolverID)
}
