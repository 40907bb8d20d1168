package transform

import (
	"github.com/charmbracelet/log"

	"github.com/opmodel/schemaform/internal/linker"
	"github.com/opmodel/schemaform/internal/output"
	"github.com/opmodel/schemaform/internal/schema"
)

// rootDescription is the description of the assembled root template.
const rootDescription = "Root stack for the compiled GraphQL API"

// Pipeline drives directive plugins over a schema document and links
// the accumulated resources into the final stack set.
type Pipeline struct {
	plugins  []Plugin
	registry *registry
	log      *log.Logger
}

// NewPipeline creates a pipeline from the given plugins. Plugin names
// and directive ownership must be unique.
func NewPipeline(plugins ...Plugin) (*Pipeline, error) {
	reg, err := newRegistry(plugins)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		plugins:  plugins,
		registry: reg,
		log:      output.ModuleLogger("pipeline"),
	}, nil
}

// Applied records one directive application, in execution order.
type Applied struct {
	TypeName  string
	Directive string
}

// Result is a finished compilation.
type Result struct {
	// Stacks is the linked stack set.
	Stacks *linker.Assembly

	// Applied lists directive applications in execution order.
	Applied []Applied

	// Document is the mutated schema document, including the
	// synthesized operation and input types.
	Document *schema.Document
}

// Run compiles one schema document:
//
//  1. Dispatch: walk the document's object types in declaration order
//     and apply each type's directives in the order they appear,
//     resolving each to its owning plugin. Types a plugin adds during
//     the run are not dispatched.
//  2. Link: hand the accumulated resources, root declarations, and
//     stack mappings to the linker, which partitions them into nested
//     stacks and resolves every cross-stack reference.
//
// The pipeline is single-pass and deterministic: the same document
// always produces the same result.
func (p *Pipeline) Run(doc *schema.Document) (*Result, error) {
	ctx := NewContext(doc)

	p.log.Debug("dispatching directives", "types", len(doc.Types), "plugins", len(p.plugins))

	applied, err := p.dispatch(ctx)
	if err != nil {
		return nil, err
	}

	p.log.Debug("linking stacks",
		"resources", len(ctx.Resources()),
		"stacks", len(ctx.StackNames()))

	assembly, err := linker.Assemble(linker.Input{
		Description:   rootDescription,
		Resources:     ctx.Resources(),
		Parameters:    ctx.Parameters(),
		Conditions:    ctx.Conditions(),
		Outputs:       ctx.Outputs(),
		StackPatterns: ctx.StackPatterns(),
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Stacks:   assembly,
		Applied:  applied,
		Document: ctx.Document(),
	}, nil
}

func (p *Pipeline) dispatch(ctx *Context) ([]Applied, error) {
	doc := ctx.Document()
	types := make([]*schema.SchemaType, len(doc.Types))
	copy(types, doc.Types)

	var applied []Applied
	for _, typ := range types {
		if !typ.IsObject() {
			continue
		}

		for _, dir := range typ.Directives {
			plugin, ok := p.registry.owner(dir.Name)
			if !ok {
				return nil, &DirectiveError{
					TypeName:      typ.Name,
					DirectiveName: dir.Name,
					Message:       "no plugin registered for this directive",
				}
			}

			p.log.Debug("applying directive",
				"type", typ.Name,
				"directive", "@"+dir.Name,
				"plugin", plugin.Name())

			if err := plugin.Apply(typ, dir, ctx); err != nil {
				return nil, err
			}
			applied = append(applied, Applied{TypeName: typ.Name, Directive: dir.Name})
		}
	}

	return applied, nil
}
