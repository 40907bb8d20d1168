package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/schemaform/internal/schema"
	"github.com/opmodel/schemaform/internal/stack"
)

func testDocument() *schema.Document {
	return &schema.Document{
		Types: []*schema.SchemaType{
			{
				Name: "Post",
				Fields: []*schema.Field{
					{Name: "id", Type: schema.NonNullOf(schema.Named(schema.ScalarID))},
					{Name: "title", Type: schema.Named(schema.ScalarString)},
				},
			},
			{
				Name:   "Kind",
				Kind:   schema.KindEnum,
				Values: []string{"DRAFT", "PUBLISHED"},
			},
		},
	}
}

func TestNewContext_SharesTypePointers(t *testing.T) {
	doc := testDocument()
	ctx := NewContext(doc)

	post, ok := ctx.GetType("Post")
	require.True(t, ok)
	assert.Same(t, doc.Types[0], post, "context shares the document's type objects")

	post.PutField(&schema.Field{Name: "extra", Type: schema.Named(schema.ScalarInt)})
	_, found := doc.Types[0].Field("extra")
	assert.True(t, found, "mutation is visible through the document")
}

func TestContext_PutType_RegistersInDocument(t *testing.T) {
	doc := testDocument()
	ctx := NewContext(doc)

	synth := &schema.SchemaType{Name: "PostConnection"}
	ctx.PutType(synth)

	got, ok := ctx.GetType("PostConnection")
	require.True(t, ok)
	assert.Same(t, synth, got)

	inDoc, ok := doc.Type("PostConnection")
	require.True(t, ok, "document carries the new type")
	assert.Same(t, synth, inDoc)
}

func TestContext_PutType_ReplacesByName(t *testing.T) {
	doc := testDocument()
	ctx := NewContext(doc)

	replacement := &schema.SchemaType{Name: "Post"}
	ctx.PutType(replacement)

	got, _ := ctx.GetType("Post")
	assert.Same(t, replacement, got)
	inDoc, ok := doc.Type("Post")
	require.True(t, ok)
	assert.Same(t, replacement, inDoc)
	assert.Len(t, doc.Types, 2, "replacement does not grow the document")
}

func TestContext_AddInput(t *testing.T) {
	doc := testDocument()
	ctx := NewContext(doc)

	input := &schema.SchemaType{Name: "CreatePostInput", Kind: schema.KindInput}
	ctx.AddInput(input)
	ctx.AddInput(input)

	got, ok := ctx.GetInput("CreatePostInput")
	require.True(t, ok)
	assert.Same(t, input, got)
	assert.Equal(t, []string{"CreatePostInput"}, ctx.InputNames())

	inDoc, ok := doc.Type("CreatePostInput")
	require.True(t, ok, "inputs land in the document too")
	assert.Same(t, input, inDoc)
}

func TestContext_OperationTypesCreatedOnce(t *testing.T) {
	doc := testDocument()
	ctx := NewContext(doc)

	query := ctx.GetQueryType()
	require.NotNil(t, query)
	assert.Equal(t, QueryTypeName, query.Name)
	assert.True(t, query.IsObject())
	assert.Same(t, query, ctx.GetQueryType(), "second call returns the same object")

	inDoc, ok := doc.Type(QueryTypeName)
	require.True(t, ok)
	assert.Same(t, query, inDoc)

	mutation := ctx.GetMutationType()
	assert.Equal(t, MutationTypeName, mutation.Name)
	assert.Same(t, mutation, ctx.GetMutationType())
}

func TestContext_IsEnum(t *testing.T) {
	ctx := NewContext(testDocument())

	assert.True(t, ctx.IsEnum("Kind"))
	assert.False(t, ctx.IsEnum("Post"))
	assert.False(t, ctx.IsEnum("Nope"))
}

func TestContext_Resources(t *testing.T) {
	ctx := NewContext(testDocument())

	table := &stack.Resource{Type: "AWS::DynamoDB::Table", Properties: stack.Mapping{}}
	ctx.SetResource("PostTable", table)
	ctx.SetResource("PostIAMRole", &stack.Resource{Type: "AWS::IAM::Role"})

	got, ok := ctx.GetResource("PostTable")
	require.True(t, ok)
	assert.Same(t, table, got)

	_, ok = ctx.GetResource("Missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"PostIAMRole", "PostTable"}, ctx.ResourceIDs())
	assert.Len(t, ctx.Resources(), 2)
}

func TestContext_StackMapping(t *testing.T) {
	ctx := NewContext(testDocument())

	ctx.MapTypeToStack("Post", "Post*")
	ctx.MapTypeToStack("Post", "GetPostResolver")
	ctx.MapTypeToStack("Comment", "Comment*")

	assert.Equal(t, []string{"Comment", "Post"}, ctx.StackNames())
	assert.Equal(t, []string{"Post*", "GetPostResolver"}, ctx.StackPatterns()["Post"])
}

func TestContext_RootDeclarations(t *testing.T) {
	ctx := NewContext(testDocument())

	ctx.SetParameter("env", stack.Parameter{Type: "String"})
	ctx.SetCondition("HasEnv", stack.EqualsCondition(stack.Ref{Name: "env"}, stack.Lit("NONE")))
	ctx.SetOutput("ApiId", stack.Output{Value: stack.Ref{Name: "GraphQLAPI"}})

	assert.Contains(t, ctx.Parameters(), "env")
	assert.Contains(t, ctx.Conditions(), "HasEnv")
	assert.Contains(t, ctx.Outputs(), "ApiId")
}
