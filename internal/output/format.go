package output

import (
	"fmt"
	"strings"
)

// Format specifies the serialization format for compiled templates.
type Format string

const (
	// FormatYAML outputs templates as YAML documents.
	FormatYAML Format = "yaml"

	// FormatJSON outputs templates as JSON.
	FormatJSON Format = "json"
)

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// Extension returns the file extension for the format, including the
// dot.
func (f Format) Extension() string {
	if f == FormatJSON {
		return ".json"
	}
	return ".yaml"
}

// ParseFormat parses a string into a Format. The empty string defaults
// to YAML; anything unrecognized is an error.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: %s)", s, strings.Join(ValidFormats(), ", "))
	}
}

// ValidFormats returns the accepted format strings.
func ValidFormats() []string {
	return []string{"yaml", "json"}
}
