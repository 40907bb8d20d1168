package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"yaml", FormatYAML},
		{"yml", FormatYAML},
		{"YAML", FormatYAML},
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"", FormatYAML},
	}

	for _, tt := range tests {
		t.Run("input "+tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormat_Unknown(t *testing.T) {
	_, err := ParseFormat("toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "toml")
	assert.Contains(t, err.Error(), "yaml, json")
}

func TestFormat_Extension(t *testing.T) {
	assert.Equal(t, ".yaml", FormatYAML.Extension())
	assert.Equal(t, ".json", FormatJSON.Extension())
}
