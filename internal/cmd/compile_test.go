package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// taskSchema is a minimal serialized schema document with one mapped
// type.
const taskSchema = `
types:
  - name: Task
    kind: object
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
`

// writeSchema writes a schema document into a temp dir and returns its
// path.
func writeSchema(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewCompileCmd(t *testing.T) {
	cmd := NewCompileCmd()

	assert.Equal(t, "compile <schema>", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	for _, flag := range []string{"output", "output-dir", "format", "env", "quiet"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "missing flag %s", flag)
	}
}

func TestCompileCmd_RequiresSchemaArgument(t *testing.T) {
	isolateConfig(t)

	err := executeRoot(t, "compile")

	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCodeFromError(err))
}

func TestCompileCmd_MissingSchemaFile(t *testing.T) {
	isolateConfig(t)

	err := executeRoot(t, "compile", filepath.Join(t.TempDir(), "nope.yaml"), "--quiet")

	require.Error(t, err)
	assert.Equal(t, ExitSchemaError, ExitCodeFromError(err))
}

func TestCompileCmd_InvalidFormat(t *testing.T) {
	isolateConfig(t)
	schemaPath := writeSchema(t, taskSchema)

	err := executeRoot(t, "compile", schemaPath, "--format", "toml", "--quiet")

	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCodeFromError(err))
}

func TestCompileCmd_WritesStackSetFile(t *testing.T) {
	isolateConfig(t)
	schemaPath := writeSchema(t, taskSchema)
	outPath := filepath.Join(t.TempDir(), "stackset.yaml")

	err := executeRoot(t, "compile", schemaPath, "-o", outPath, "--quiet")

	require.NoError(t, err)
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "AWS::DynamoDB::Table")
	assert.Contains(t, string(data), "AWS::AppSync::Resolver")
	assert.Contains(t, string(data), "AWS::CloudFormation::Stack")
}

func TestCompileCmd_SplitOutput(t *testing.T) {
	isolateConfig(t)
	schemaPath := writeSchema(t, taskSchema)
	outDir := filepath.Join(t.TempDir(), "build")

	err := executeRoot(t, "compile", schemaPath, "--output-dir", outDir, "--quiet")

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "root.yaml"))
	assert.FileExists(t, filepath.Join(outDir, "stacks", "Task.yaml"))
	assert.FileExists(t, filepath.Join(outDir, "resolvers", "Query.getTask.req.vtl"))
	assert.FileExists(t, filepath.Join(outDir, "resolvers", "Mutation.createTask.res.vtl"))
}

func TestCompileCmd_JSONFormat(t *testing.T) {
	isolateConfig(t)
	schemaPath := writeSchema(t, taskSchema)
	outDir := filepath.Join(t.TempDir(), "build")

	err := executeRoot(t, "compile", schemaPath, "--output-dir", outDir, "--format", "json", "--quiet")

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "root.json"))
	assert.FileExists(t, filepath.Join(outDir, "stacks", "Task.json"))
}

func TestCompileCmd_CompileErrorExitCode(t *testing.T) {
	isolateConfig(t)
	// The auth directive requires model resolvers; alone it must fail.
	schemaPath := writeSchema(t, `
types:
  - name: Task
    kind: object
    directives:
      - name: auth
        arguments:
          - name: rules
            value:
              - allow: owner
    fields:
      - name: id
        type:
          name: ID
          nonNull: true
`)

	err := executeRoot(t, "compile", schemaPath, "--quiet")

	require.Error(t, err)
	assert.Equal(t, ExitCompileError, ExitCodeFromError(err))
}

func TestCompileCmd_ResolverDirFromConfig(t *testing.T) {
	cfgDir := t.TempDir()
	cfgPath := filepath.Join(cfgDir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("compile:\n  resolverDir: templates\n"), 0o644))
	t.Setenv("SCHEMAFORM_CONFIG", cfgPath)

	schemaPath := writeSchema(t, taskSchema)
	outDir := filepath.Join(t.TempDir(), "build")

	err := executeRoot(t, "compile", schemaPath, "--output-dir", outDir, "--quiet")

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "templates", "Query.getTask.req.vtl"))
	assert.NoDirExists(t, filepath.Join(outDir, "resolvers"))
}
