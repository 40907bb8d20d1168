package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeConstants(t *testing.T) {
	// The codes are a published contract; renumbering breaks callers.
	assert.Equal(t, 0, ExitSuccess)
	assert.Equal(t, 1, ExitGeneralError)
	assert.Equal(t, 2, ExitUsageError)
	assert.Equal(t, 3, ExitSchemaError)
	assert.Equal(t, 4, ExitCompileError)
	assert.Equal(t, 5, ExitOutputError)
	assert.Equal(t, 10, ExitDiffDifferences)
}

func TestExitCodeName(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{ExitSuccess, "Success"},
		{ExitGeneralError, "General Error"},
		{ExitUsageError, "Usage Error"},
		{ExitSchemaError, "Schema Error"},
		{ExitCompileError, "Compile Error"},
		{ExitOutputError, "Output Error"},
		{ExitDiffDifferences, "Differences Found"},
		{999, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExitCodeName(tt.code))
		})
	}
}
