package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// VerboseOptions controls verbose compile output.
type VerboseOptions struct {
	// JSON outputs structured JSON instead of human-readable text.
	JSON bool

	// Writer is the output destination.
	Writer io.Writer
}

// CompileInfo carries the compile plan for verbose output. The command
// layer fills it from the pipeline result, so this package stays
// independent of the transform packages.
type CompileInfo struct {
	SchemaPath string
	Types      []string
	Applied    []DirectiveInfo
	Stacks     []StackSummary
	Warnings   []string
}

// DirectiveInfo records one directive application, in execution order.
type DirectiveInfo struct {
	TypeName  string
	Directive string
}

// verboseResult is the structured verbose output.
type verboseResult struct {
	Schema     verboseSchema    `json:"schema"`
	Directives []verboseApplied `json:"directives"`
	Stacks     []verboseStack   `json:"stacks"`
	Warnings   []string         `json:"warnings,omitempty"`
}

type verboseSchema struct {
	Path  string   `json:"path,omitempty"`
	Types []string `json:"types"`
}

type verboseApplied struct {
	Type      string `json:"type"`
	Directive string `json:"directive"`
}

type verboseStack struct {
	Name      string            `json:"name"`
	Resources []verboseResource `json:"resources"`
}

type verboseResource struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// WriteVerboseResult writes the compile plan in human-readable or JSON
// form.
func WriteVerboseResult(info *CompileInfo, opts VerboseOptions) error {
	result := buildVerboseResult(info)

	if opts.JSON {
		encoder := json.NewEncoder(opts.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}
	return writeVerboseHuman(result, opts.Writer)
}

func buildVerboseResult(info *CompileInfo) *verboseResult {
	vr := &verboseResult{
		Schema: verboseSchema{
			Path:  info.SchemaPath,
			Types: info.Types,
		},
		Directives: make([]verboseApplied, 0, len(info.Applied)),
		Stacks:     make([]verboseStack, 0, len(info.Stacks)),
		Warnings:   info.Warnings,
	}

	for _, a := range info.Applied {
		vr.Directives = append(vr.Directives, verboseApplied{
			Type:      a.TypeName,
			Directive: a.Directive,
		})
	}

	for _, s := range info.Stacks {
		name := s.Name
		if name == "" {
			name = "(root)"
		}
		vs := verboseStack{Name: name, Resources: make([]verboseResource, 0, len(s.Resources))}
		for _, r := range s.Resources {
			vs.Resources = append(vs.Resources, verboseResource{ID: r.ID, Type: r.Type})
		}
		vr.Stacks = append(vr.Stacks, vs)
	}

	return vr
}

func writeVerboseHuman(result *verboseResult, w io.Writer) error {
	styles := GetStyles()
	var sb strings.Builder

	sb.WriteString("Schema:\n")
	if result.Schema.Path != "" {
		sb.WriteString(fmt.Sprintf("  Path:  %s\n", result.Schema.Path))
	}
	sb.WriteString(fmt.Sprintf("  Types: %s\n", strings.Join(result.Schema.Types, ", ")))
	sb.WriteString("\n")

	if len(result.Directives) > 0 {
		sb.WriteString("Directive Applications:\n")
		for _, d := range result.Directives {
			sb.WriteString("  " + FormatDirectiveLine(d.Type, d.Directive) + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Stacks:\n")
	for _, s := range result.Stacks {
		sb.WriteString(fmt.Sprintf("  %s:\n", styles.Bold.Render(s.Name)))
		for _, r := range s.Resources {
			sb.WriteString("    " + styles.Noun.Render(r.ID) + "  " + styles.Muted.Render(r.Type) + "\n")
		}
	}

	if len(result.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, warning := range result.Warnings {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", warning))
		}
	}

	_, err := w.Write([]byte(sb.String()))
	return err
}
