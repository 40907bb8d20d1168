package transform

import "fmt"

// DirectiveError indicates a directive whose arguments or usage violate
// the owning plugin's contract. It is raised before the plugin mutates
// anything, so a failing directive leaves the compilation state as it
// was.
type DirectiveError struct {
	// TypeName is the schema type the directive is attached to.
	TypeName string

	// DirectiveName is the directive, without the @ prefix.
	DirectiveName string

	// Message describes the violation, naming the offending fields.
	Message string
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("type %q, directive @%s: %s", e.TypeName, e.DirectiveName, e.Message)
}

// StructuralError indicates a plugin ran without a precondition resource
// in place, such as a key directive applied before any table-shaping
// directive created the type's table. These are ordering errors in the
// schema, not data errors, and abort the compilation.
type StructuralError struct {
	// TypeName is the schema type being processed.
	TypeName string

	// ResourceID is the missing resource's logical name.
	ResourceID string

	// Message describes the missing precondition.
	Message string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("type %q: missing resource %q: %s", e.TypeName, e.ResourceID, e.Message)
}
