package transform

import (
	"fmt"

	"github.com/opmodel/schemaform/internal/schema"
)

// Plugin is the contract every directive transform implements. A plugin
// owns exactly one directive: the driver routes each occurrence of that
// directive to the plugin's Apply, in the order directives are declared
// on their type.
//
// Apply acts purely through Context side effects and returns nil on
// success. A *DirectiveError reports arguments or usage that violate the
// plugin's contract; a *StructuralError reports a missing precondition
// resource. Any non-nil error aborts the whole compilation. Plugins must
// validate before mutating, so a rejected directive leaves the Context
// untouched by that directive.
//
// A plugin may read state produced by directives on other types, but
// must not assume it has been written unless that type has already been
// fully processed. Processing order across types is the document's
// declaration order; plugins must not depend on it beyond that.
type Plugin interface {
	// Name returns the plugin's unique name.
	Name() string

	// Directive returns the directive name the plugin owns, without the
	// @ prefix.
	Directive() string

	// Apply processes one directive occurrence on one type.
	Apply(typ *schema.SchemaType, dir *schema.Directive, ctx *Context) error
}

// registry routes directives to their owning plugins.
type registry struct {
	byDirective map[string]Plugin
}

func newRegistry(plugins []Plugin) (*registry, error) {
	r := &registry{byDirective: map[string]Plugin{}}
	names := map[string]struct{}{}

	for _, p := range plugins {
		if _, dup := names[p.Name()]; dup {
			return nil, fmt.Errorf("duplicate plugin name %q", p.Name())
		}
		names[p.Name()] = struct{}{}

		if owner, dup := r.byDirective[p.Directive()]; dup {
			return nil, fmt.Errorf("directive @%s claimed by both %q and %q",
				p.Directive(), owner.Name(), p.Name())
		}
		r.byDirective[p.Directive()] = p
	}

	return r, nil
}

func (r *registry) owner(directive string) (Plugin, bool) {
	p, ok := r.byDirective[directive]
	return p, ok
}
