package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/schemaform/internal/linker"
	"github.com/opmodel/schemaform/internal/stack"
)

func testAssembly() *linker.Assembly {
	root := stack.NewTemplate("root stack")
	root.Resources["GraphQLSchema"] = &stack.Resource{
		Type:       "AWS::AppSync::GraphQLSchema",
		Properties: stack.Mapping{"Definition": stack.Lit("schema {}")},
	}

	post := stack.NewTemplate("Nested stack for type Post")
	post.Resources["PostTable"] = &stack.Resource{
		Type:       "AWS::DynamoDB::Table",
		Properties: stack.Mapping{"TableName": stack.Lit("PostTable")},
	}
	post.Resources["PostDataSource"] = &stack.Resource{
		Type:       "AWS::AppSync::DataSource",
		Properties: stack.Mapping{"Name": stack.Lit("PostTable")},
	}
	post.Resources["PostIAMRole"] = &stack.Resource{
		Type:       "AWS::IAM::Role",
		Properties: stack.Mapping{},
	}

	return &linker.Assembly{
		Root:   root,
		Nested: map[string]*stack.Template{"Post": post},
	}
}

func TestWriteStackSet_YAMLMultiDocument(t *testing.T) {
	var buf bytes.Buffer
	err := WriteStackSet(testAssembly(), WriteOptions{Format: FormatYAML, Writer: &buf})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "2010-09-09")
	assert.Contains(t, out, "GraphQLSchema")
	assert.Contains(t, out, "PostTable")
	assert.Contains(t, out, "\n---\n", "nested templates follow as separate documents")
	assert.Less(t, strings.Index(out, "GraphQLSchema"), strings.Index(out, "PostTable"),
		"root document comes first")
}

func TestWriteStackSet_JSONSingleObject(t *testing.T) {
	var buf bytes.Buffer
	err := WriteStackSet(testAssembly(), WriteOptions{Format: FormatJSON, Writer: &buf})
	require.NoError(t, err)

	var doc struct {
		Root   map[string]any            `json:"root"`
		Stacks map[string]map[string]any `json:"stacks"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Contains(t, doc.Root, "Resources")
	require.Contains(t, doc.Stacks, "Post")
	assert.Contains(t, doc.Stacks["Post"], "Resources")
}

func TestWriteStackSet_Deterministic(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, WriteStackSet(testAssembly(), WriteOptions{Format: FormatYAML, Writer: &first}))
	require.NoError(t, WriteStackSet(testAssembly(), WriteOptions{Format: FormatYAML, Writer: &second}))

	assert.Equal(t, first.String(), second.String())
}

func TestSummarizeStackSet_WeightOrder(t *testing.T) {
	summaries := SummarizeStackSet(testAssembly())

	require.Len(t, summaries, 2)
	assert.Equal(t, "", summaries[0].Name, "root summary comes first")
	assert.Equal(t, "Post", summaries[1].Name)

	ids := make([]string, 0, len(summaries[1].Resources))
	for _, r := range summaries[1].Resources {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"PostIAMRole", "PostTable", "PostDataSource"}, ids,
		"roles, then tables, then data sources")
}
