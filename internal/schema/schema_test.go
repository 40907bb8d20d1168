package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeRef_Wrappers(t *testing.T) {
	ref := NonNullOf(ListOf(NonNullOf(Named("Post"))))

	assert.True(t, ref.IsNonNull())
	assert.True(t, ref.IsList())
	assert.Equal(t, "Post", ref.BaseName())
	require.NotNil(t, ref.Elem)
	assert.True(t, ref.Elem.IsNonNull())
	assert.Equal(t, "Post", ref.Elem.Name)
}

func TestTypeRef_CloneIsIndependent(t *testing.T) {
	original := ListOf(Named("Tag"))
	clone := original.Clone()
	clone.Elem.Name = "Changed"

	assert.Equal(t, "Tag", original.Elem.Name)
}

func TestTypeRef_Nullable(t *testing.T) {
	ref := Nullable(NonNullOf(Named("String")))
	assert.False(t, ref.IsNonNull())
}

func TestSchemaType_PutField_ReplacesByName(t *testing.T) {
	typ := &SchemaType{
		Name: "Post",
		Fields: []*Field{
			{Name: "id", Type: NonNullOf(Named(ScalarID))},
			{Name: "title", Type: Named(ScalarString)},
		},
	}

	typ.PutField(&Field{Name: "title", Type: NonNullOf(Named(ScalarString))})
	typ.PutField(&Field{Name: "views", Type: Named(ScalarInt)})

	require.Len(t, typ.Fields, 3)
	title, ok := typ.Field("title")
	require.True(t, ok)
	assert.True(t, title.Type.IsNonNull())
}

func TestSchemaType_DirectivesNamed_KeepsDeclarationOrder(t *testing.T) {
	typ := &SchemaType{
		Name: "Post",
		Directives: []*Directive{
			{Name: "model"},
			{Name: "key", Arguments: []DirectiveArgument{{Name: "fields", Value: []any{"id"}}}},
			{Name: "key", Arguments: []DirectiveArgument{{Name: "name", Value: "byTitle"}}},
		},
	}

	keys := typ.DirectivesNamed("key")
	require.Len(t, keys, 2)
	_, hasName := keys[0].Argument("name")
	assert.False(t, hasName)
	name, _ := keys[1].StringArgument("name")
	assert.Equal(t, "byTitle", name)

	assert.True(t, typ.HasDirective("model"))
	assert.False(t, typ.HasDirective("auth"))
}

func TestDirective_StringListArgument(t *testing.T) {
	d := &Directive{
		Name: "key",
		Arguments: []DirectiveArgument{
			{Name: "fields", Value: []any{"email", "createdAt"}},
			{Name: "typed", Value: []string{"a"}},
			{Name: "mixed", Value: []any{"a", 1}},
		},
	}

	fields, ok := d.StringListArgument("fields")
	require.True(t, ok)
	assert.Equal(t, []string{"email", "createdAt"}, fields)

	typed, ok := d.StringListArgument("typed")
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, typed)

	_, ok = d.StringListArgument("mixed")
	assert.False(t, ok)

	_, ok = d.StringListArgument("absent")
	assert.False(t, ok)
}

func TestField_CloneIsIndependent(t *testing.T) {
	f := &Field{
		Name: "list",
		Type: Named("PostConnection"),
		Arguments: []*Argument{
			{Name: "limit", Type: Named(ScalarInt)},
		},
	}

	clone := f.Clone()
	clone.Arguments[0].Name = "first"

	assert.Equal(t, "limit", f.Arguments[0].Name)
}

func TestScalars_Classification(t *testing.T) {
	assert.True(t, IsScalar(ScalarID))
	assert.True(t, IsScalar(ScalarDateTime))
	assert.False(t, IsScalar("Post"))

	assert.True(t, IsStringScalar(ScalarEmail))
	assert.False(t, IsStringScalar(ScalarInt))

	assert.True(t, IsNumericScalar(ScalarFloat))
	assert.False(t, IsNumericScalar(ScalarBoolean))
}
