package model

import (
	"github.com/opmodel/schemaform/internal/schema"
	"github.com/opmodel/schemaform/internal/transform"
)

// declareSchemaSurface registers the CRUD operations and their
// supporting types for one model type.
func declareSchemaSurface(typ *schema.SchemaType, ctx *transform.Context) {
	ensureTimestampFields(typ)

	ctx.PutType(connectionType(typ.Name))

	ctx.AddInput(createInput(typ, ctx))
	ctx.AddInput(updateInput(typ, ctx))
	ctx.AddInput(deleteInput(typ.Name))

	query := ctx.GetQueryType()
	query.PutField(&schema.Field{
		Name: transform.GetFieldName(typ.Name),
		Type: schema.Named(typ.Name),
		Arguments: []*schema.Argument{
			{Name: "id", Type: schema.NonNullOf(schema.Named(schema.ScalarID))},
		},
	})
	query.PutField(&schema.Field{
		Name: transform.ListFieldName(typ.Name),
		Type: schema.Named(transform.ConnectionTypeName(typ.Name)),
		Arguments: []*schema.Argument{
			{Name: "limit", Type: schema.Named(schema.ScalarInt)},
			{Name: "nextToken", Type: schema.Named(schema.ScalarString)},
		},
	})

	mutation := ctx.GetMutationType()
	mutation.PutField(mutationField(transform.CreateFieldName(typ.Name), typ.Name, transform.CreateInputName(typ.Name)))
	mutation.PutField(mutationField(transform.UpdateFieldName(typ.Name), typ.Name, transform.UpdateInputName(typ.Name)))
	mutation.PutField(mutationField(transform.DeleteFieldName(typ.Name), typ.Name, transform.DeleteInputName(typ.Name)))
}

// ensureTimestampFields adds the createdAt/updatedAt stamps the create
// and update templates write, unless the type declares its own.
func ensureTimestampFields(typ *schema.SchemaType) {
	for _, name := range []string{"createdAt", "updatedAt"} {
		if _, ok := typ.Field(name); !ok {
			typ.PutField(&schema.Field{Name: name, Type: schema.Named(schema.ScalarDateTime)})
		}
	}
}

func mutationField(fieldName, typeName, inputName string) *schema.Field {
	return &schema.Field{
		Name: fieldName,
		Type: schema.Named(typeName),
		Arguments: []*schema.Argument{
			{Name: "input", Type: schema.NonNullOf(schema.Named(inputName))},
		},
	}
}

func connectionType(typeName string) *schema.SchemaType {
	return &schema.SchemaType{
		Name: transform.ConnectionTypeName(typeName),
		Kind: schema.KindObject,
		Fields: []*schema.Field{
			{Name: "items", Type: schema.ListOf(schema.Named(typeName))},
			{Name: "nextToken", Type: schema.Named(schema.ScalarString)},
		},
	}
}

// inputField reports whether a field belongs in generated inputs: only
// scalar and enum fields carry over; relation fields do not.
func inputField(f *schema.Field, ctx *transform.Context) bool {
	base := f.Type.BaseName()
	return schema.IsScalar(base) || ctx.IsEnum(base)
}

func createInput(typ *schema.SchemaType, ctx *transform.Context) *schema.SchemaType {
	input := &schema.SchemaType{Name: transform.CreateInputName(typ.Name), Kind: schema.KindInput}
	for _, f := range typ.Fields {
		if !inputField(f, ctx) {
			continue
		}
		ref := f.Type.Clone()
		if f.Name == "id" {
			// Generated when absent.
			ref = schema.Nullable(ref)
		}
		input.Fields = append(input.Fields, &schema.Field{Name: f.Name, Type: ref})
	}
	return input
}

func updateInput(typ *schema.SchemaType, ctx *transform.Context) *schema.SchemaType {
	input := &schema.SchemaType{Name: transform.UpdateInputName(typ.Name), Kind: schema.KindInput}
	for _, f := range typ.Fields {
		if !inputField(f, ctx) {
			continue
		}
		ref := schema.Nullable(f.Type.Clone())
		if f.Name == "id" {
			ref = schema.NonNullOf(ref)
		}
		input.Fields = append(input.Fields, &schema.Field{Name: f.Name, Type: ref})
	}
	return input
}

func deleteInput(typeName string) *schema.SchemaType {
	return &schema.SchemaType{
		Name: transform.DeleteInputName(typeName),
		Kind: schema.KindInput,
		Fields: []*schema.Field{
			{Name: "id", Type: schema.NonNullOf(schema.Named(schema.ScalarID))},
		},
	}
}
