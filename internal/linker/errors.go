package linker

import (
	"fmt"
	"strings"
)

// ReferenceError indicates a property references a logical name that
// resolves to nothing anywhere in the compilation. It is detected only
// after all plugins have run, during reference resolution.
type ReferenceError struct {
	// MissingName is the unresolvable logical name.
	MissingName string

	// Path is one structural path at which the name is referenced.
	Path Path
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("reference to unknown name %q at %s",
		e.MissingName, strings.Join(e.Path, "."))
}
