package schema

// Built-in scalar type names.
const (
	ScalarID       = "ID"
	ScalarString   = "String"
	ScalarInt      = "Int"
	ScalarFloat    = "Float"
	ScalarBoolean  = "Boolean"
	ScalarDateTime = "AWSDateTime"
	ScalarEmail    = "AWSEmail"
	ScalarJSON     = "AWSJSON"
)

var scalars = map[string]struct{}{
	ScalarID:       {},
	ScalarString:   {},
	ScalarInt:      {},
	ScalarFloat:    {},
	ScalarBoolean:  {},
	ScalarDateTime: {},
	ScalarEmail:    {},
	ScalarJSON:     {},
}

// IsScalar reports whether name is a built-in scalar.
func IsScalar(name string) bool {
	_, ok := scalars[name]
	return ok
}

// IsStringScalar reports whether the scalar stores as a string value.
// Enum types also store as strings but are classified by the caller,
// which knows the document's declarations.
func IsStringScalar(name string) bool {
	switch name {
	case ScalarID, ScalarString, ScalarDateTime, ScalarEmail, ScalarJSON:
		return true
	default:
		return false
	}
}

// IsNumericScalar reports whether the scalar stores as a number value.
func IsNumericScalar(name string) bool {
	return name == ScalarInt || name == ScalarFloat
}
