//nolint:revive // Package name matches the package it tests
package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	// Verify sentinel errors are distinct
	assert.NotEqual(t, ErrValidation, ErrCompile)
	assert.NotEqual(t, ErrValidation, ErrOutput)
	assert.NotEqual(t, ErrValidation, ErrNotFound)
}

func TestDetailErrorError(t *testing.T) {
	detail := &DetailError{
		Type:     "schema validation failed",
		Message:  "field references unknown type",
		Location: "/path/to/schema.yaml",
		Field:    "Post.author",
		Context:  map[string]string{"Type": "Post"},
		Hint:     "Declare the referenced type in the document",
	}

	output := detail.Error()

	assert.Contains(t, output, "Error: schema validation failed")
	assert.Contains(t, output, "Location: /path/to/schema.yaml")
	assert.Contains(t, output, "Field: Post.author")
	assert.Contains(t, output, "Type: Post")
	assert.Contains(t, output, "field references unknown type")
	assert.Contains(t, output, "Hint: Declare the referenced type in the document")
}

func TestDetailErrorUnwrap(t *testing.T) {
	detail := &DetailError{
		Type:    "test",
		Message: "test message",
		Cause:   ErrValidation,
	}

	assert.True(t, errors.Is(detail, ErrValidation))
	assert.Equal(t, ErrValidation, detail.Unwrap())
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError(
		"field references unknown type",
		"/path/to/schema.yaml",
		"Post.author",
		"Declare the referenced type in the document",
	)

	require.NotNil(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var detail *DetailError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "schema validation failed", detail.Type)
	assert.Equal(t, "field references unknown type", detail.Message)
	assert.Equal(t, "/path/to/schema.yaml", detail.Location)
	assert.Equal(t, "Post.author", detail.Field)
	assert.Equal(t, "Declare the referenced type in the document", detail.Hint)
}

func TestNewCompileError(t *testing.T) {
	err := NewCompileError(
		"directive rejected",
		map[string]string{"Type": "Post", "Directive": "key"},
		"Fix the schema and recompile",
	)

	require.NotNil(t, err)
	assert.True(t, errors.Is(err, ErrCompile))

	var detail *DetailError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "compile failed", detail.Type)
	assert.Equal(t, "Post", detail.Context["Type"])
}

func TestWrap(t *testing.T) {
	wrapped := Wrap(ErrValidation, "document check failed")

	assert.True(t, errors.Is(wrapped, ErrValidation))
	assert.Contains(t, wrapped.Error(), "document check failed")
}
