package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sferrors "github.com/opmodel/schemaform/internal/errors"
)

func writeDocument(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDocument_YAML(t *testing.T) {
	path := writeDocument(t, "schema.yaml", `
types:
  - name: Post
    directives:
      - name: model
    fields:
      - name: id
        type:
          name: ID
          nonNull: true
      - name: title
        type:
          name: String
`)

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	require.Len(t, doc.Types, 1)

	post := doc.Types[0]
	assert.Equal(t, "Post", post.Name)
	assert.True(t, post.HasDirective("model"))

	id, ok := post.Field("id")
	require.True(t, ok)
	assert.True(t, id.Type.IsNonNull())
	assert.Equal(t, "ID", id.Type.BaseName())
}

func TestLoadDocument_JSON(t *testing.T) {
	path := writeDocument(t, "schema.json", `{
  "types": [
    {
      "name": "Tag",
      "fields": [
        {"name": "id", "type": {"name": "ID", "nonNull": true}}
      ]
    }
  ]
}`)

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, "Tag", doc.Types[0].Name)
}

func TestLoadDocument_MissingFile(t *testing.T) {
	_, err := LoadDocument(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.True(t, errors.Is(err, sferrors.ErrNotFound))
}

func TestLoadDocument_RejectsUnknownFields(t *testing.T) {
	path := writeDocument(t, "schema.yaml", `
types:
  - name: Post
    unknown: true
    fields:
      - name: id
        type: {name: ID}
`)

	_, err := LoadDocument(path)
	assert.True(t, errors.Is(err, sferrors.ErrValidation))
}

func TestDocument_Validate_DuplicateTypeName(t *testing.T) {
	doc := &Document{Types: []*SchemaType{
		{Name: "Post", Fields: []*Field{{Name: "id", Type: Named(ScalarID)}}},
		{Name: "Post", Fields: []*Field{{Name: "id", Type: Named(ScalarID)}}},
	}}

	err := doc.Validate("schema.yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sferrors.ErrValidation))

	var detail *sferrors.DetailError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "Post", detail.Field)
}

func TestDocument_Validate_UnknownBaseType(t *testing.T) {
	doc := &Document{Types: []*SchemaType{
		{Name: "Post", Fields: []*Field{
			{Name: "id", Type: Named(ScalarID)},
			{Name: "author", Type: Named("Author")},
		}},
	}}

	err := doc.Validate("schema.yaml")
	require.Error(t, err)

	var detail *sferrors.DetailError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "Post.author", detail.Field)
}

func TestDocument_Validate_ResolvesDeclaredTypesAndEnums(t *testing.T) {
	doc := &Document{Types: []*SchemaType{
		{Name: "Status", Kind: KindEnum, Values: []string{"DRAFT", "LIVE"}},
		{Name: "Post", Fields: []*Field{
			{Name: "id", Type: Named(ScalarID)},
			{Name: "status", Type: Named("Status")},
		}},
	}}

	assert.NoError(t, doc.Validate("schema.yaml"))
}

func TestDocument_Validate_EnumWithoutValues(t *testing.T) {
	doc := &Document{Types: []*SchemaType{
		{Name: "Status", Kind: KindEnum},
	}}

	err := doc.Validate("schema.yaml")
	assert.True(t, errors.Is(err, sferrors.ErrValidation))
}

func TestDocument_Validate_EmptyDocument(t *testing.T) {
	err := (&Document{}).Validate("schema.yaml")
	assert.True(t, errors.Is(err, sferrors.ErrValidation))
}
