package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/opmodel/schemaform/internal/linker"
	"github.com/opmodel/schemaform/internal/stack"
	"github.com/opmodel/schemaform/pkg/weights"
)

// WriteOptions controls combined stack set output.
type WriteOptions struct {
	// Format specifies output format: yaml or json.
	Format Format

	// Writer is the output destination.
	Writer io.Writer
}

// WriteStackSet writes the root template followed by every nested
// template. YAML output is a multi-document stream with the root first
// and nested templates in name order; JSON output is a single object
// keyed by "root" and "stacks".
func WriteStackSet(a *linker.Assembly, opts WriteOptions) error {
	switch opts.Format {
	case FormatJSON:
		return writeStackSetJSON(a, opts.Writer)
	default:
		return writeStackSetYAML(a, opts.Writer)
	}
}

func writeStackSetYAML(a *linker.Assembly, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	obj, err := templateObject(a.Root)
	if err != nil {
		return fmt.Errorf("encoding root template: %w", err)
	}
	if err := encoder.Encode(obj); err != nil {
		return fmt.Errorf("encoding root template: %w", err)
	}

	for _, name := range a.NestedNames() {
		obj, err := templateObject(a.Nested[name])
		if err != nil {
			return fmt.Errorf("encoding stack %s: %w", name, err)
		}
		if err := encoder.Encode(obj); err != nil {
			return fmt.Errorf("encoding stack %s: %w", name, err)
		}
	}

	return encoder.Close()
}

func writeStackSetJSON(a *linker.Assembly, w io.Writer) error {
	rootObj, err := templateObject(a.Root)
	if err != nil {
		return fmt.Errorf("encoding root template: %w", err)
	}

	stacks := make(map[string]any, len(a.Nested))
	for _, name := range a.NestedNames() {
		obj, err := templateObject(a.Nested[name])
		if err != nil {
			return fmt.Errorf("encoding stack %s: %w", name, err)
		}
		stacks[name] = obj
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(map[string]any{
		"root":   rootObj,
		"stacks": stacks,
	})
}

// templateObject converts a template to a plain object tree, so the
// YAML encoder sees ordinary maps instead of the typed property values.
func templateObject(t *stack.Template) (map[string]any, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// StackSummary describes one template for terminal listing.
type StackSummary struct {
	// Name is the nested stack name; empty for the root template.
	Name      string
	Resources []ResourceSummary
}

// ResourceSummary identifies one resource for terminal listing.
type ResourceSummary struct {
	ID   string
	Type string
}

// SummarizeStackSet lists every template's resources in provisioning
// order: the root first, then nested stacks by name, with resources
// sorted by weight then ID.
func SummarizeStackSet(a *linker.Assembly) []StackSummary {
	summaries := make([]StackSummary, 0, len(a.Nested)+1)
	summaries = append(summaries, summarizeTemplate("", a.Root))
	for _, name := range a.NestedNames() {
		summaries = append(summaries, summarizeTemplate(name, a.Nested[name]))
	}
	return summaries
}

func summarizeTemplate(name string, t *stack.Template) StackSummary {
	s := StackSummary{Name: name}
	for _, id := range t.ResourceIDs() {
		s.Resources = append(s.Resources, ResourceSummary{ID: id, Type: t.Resources[id].Type})
	}
	sort.SliceStable(s.Resources, func(i, j int) bool {
		wi := weights.Weight(s.Resources[i].Type)
		wj := weights.Weight(s.Resources[j].Type)
		if wi != wj {
			return wi < wj
		}
		return s.Resources[i].ID < s.Resources[j].ID
	})
	return s
}
