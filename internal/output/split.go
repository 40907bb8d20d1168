package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/opmodel/schemaform/internal/linker"
	"github.com/opmodel/schemaform/internal/stack"
)

// SplitOptions controls split file output.
type SplitOptions struct {
	// OutDir is the directory for split output.
	OutDir string

	// Format specifies output format: yaml or json.
	Format Format

	// ResolverDir names the subdirectory for extracted mapping
	// templates. Empty means "resolvers".
	ResolverDir string
}

// resolverResourceType is the resource type whose mapping templates are
// extracted into standalone files.
const resolverResourceType = "AWS::AppSync::Resolver"

// WriteSplitStackSet writes the assembly as a directory tree:
//
//	root.<ext>                        the root template
//	stacks/<Name>.<ext>               one file per nested template
//	resolvers/<Type>.<field>.req.vtl  resolver request templates
//	resolvers/<Type>.<field>.res.vtl  resolver response templates
//
// It returns the written files as paths relative to OutDir, mapped to
// short descriptions for tree rendering.
func WriteSplitStackSet(a *linker.Assembly, opts SplitOptions) (map[string]string, error) {
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	written := map[string]string{}

	rootFile := "root" + opts.Format.Extension()
	if err := writeTemplateFile(a.Root, filepath.Join(opts.OutDir, rootFile), opts.Format); err != nil {
		return nil, fmt.Errorf("writing %s: %w", rootFile, err)
	}
	written[rootFile] = "root stack template"

	if len(a.Nested) > 0 {
		if err := os.MkdirAll(filepath.Join(opts.OutDir, "stacks"), 0o755); err != nil {
			return nil, fmt.Errorf("creating stacks directory: %w", err)
		}
	}

	usedNames := make(map[string]int)
	for _, name := range a.NestedNames() {
		filename := buildFilename("stacks", sanitizeName(name), opts.Format.Extension(), usedNames)
		path := filepath.Join(opts.OutDir, filename)

		if err := writeTemplateFile(a.Nested[name], path, opts.Format); err != nil {
			return nil, fmt.Errorf("writing %s: %w", filename, err)
		}
		written[filename] = "nested stack template"

		Debug("wrote stack template", "stack", name, "file", path)
	}

	resolverDir := opts.ResolverDir
	if resolverDir == "" {
		resolverDir = "resolvers"
	}
	resolverFiles, err := writeResolverTemplates(a, opts.OutDir, resolverDir, usedNames)
	if err != nil {
		return nil, err
	}
	for file, desc := range resolverFiles {
		written[file] = desc
	}

	return written, nil
}

// writeResolverTemplates extracts the mapping templates of every
// resolver resource into standalone .vtl files.
func writeResolverTemplates(a *linker.Assembly, outDir, resolverDir string, usedNames map[string]int) (map[string]string, error) {
	type resolver struct {
		typeName  string
		fieldName string
		request   string
		response  string
	}

	var resolvers []resolver
	collect := func(t *stack.Template) {
		for _, id := range t.ResourceIDs() {
			res := t.Resources[id]
			if res.Type != resolverResourceType {
				continue
			}
			r := resolver{typeName: id, fieldName: ""}
			if v, ok := res.StringProperty("TypeName"); ok {
				r.typeName = v
			}
			if v, ok := res.StringProperty("FieldName"); ok {
				r.fieldName = v
			}
			r.request, _ = res.StringProperty("RequestMappingTemplate")
			r.response, _ = res.StringProperty("ResponseMappingTemplate")
			resolvers = append(resolvers, r)
		}
	}

	collect(a.Root)
	for _, name := range a.NestedNames() {
		collect(a.Nested[name])
	}
	if len(resolvers) == 0 {
		return nil, nil
	}

	sort.Slice(resolvers, func(i, j int) bool {
		if resolvers[i].typeName != resolvers[j].typeName {
			return resolvers[i].typeName < resolvers[j].typeName
		}
		return resolvers[i].fieldName < resolvers[j].fieldName
	})

	if err := os.MkdirAll(filepath.Join(outDir, resolverDir), 0o755); err != nil {
		return nil, fmt.Errorf("creating %s directory: %w", resolverDir, err)
	}

	written := map[string]string{}
	for _, r := range resolvers {
		base := sanitizeName(r.typeName)
		if r.fieldName != "" {
			base += "." + sanitizeName(r.fieldName)
		}

		reqFile := buildFilename(resolverDir, base+".req", ".vtl", usedNames)
		if err := os.WriteFile(filepath.Join(outDir, reqFile), []byte(r.request), 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", reqFile, err)
		}
		written[reqFile] = "request mapping template"

		resFile := buildFilename(resolverDir, base+".res", ".vtl", usedNames)
		if err := os.WriteFile(filepath.Join(outDir, resFile), []byte(r.response), 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", resFile, err)
		}
		written[resFile] = "response mapping template"

		Debug("wrote resolver templates", "type", r.typeName, "field", r.fieldName)
	}

	return written, nil
}

// buildFilename creates a collision-free relative path for an output
// file.
func buildFilename(dir, base, ext string, usedNames map[string]int) string {
	key := dir + "/" + base
	count, exists := usedNames[key]
	if exists {
		usedNames[key] = count + 1
		return filepath.Join(dir, fmt.Sprintf("%s-%d%s", base, count+1, ext))
	}

	usedNames[key] = 1
	return filepath.Join(dir, base+ext)
}

// sanitizeName makes a name safe for use in filenames.
func sanitizeName(name string) string {
	replacer := strings.NewReplacer(
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"\"", "",
		"<", "",
		">", "",
		"|", "-",
	)
	return replacer.Replace(name)
}

// writeTemplateFile writes a single template to a file.
func writeTemplateFile(t *stack.Template, destPath string, format Format) error {
	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return writeTemplate(t, format, f)
}

// writeTemplate writes a single template to the writer.
func writeTemplate(t *stack.Template, format Format, w io.Writer) error {
	obj, err := templateObject(t)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(obj)
	default:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		err := encoder.Encode(obj)
		if closeErr := encoder.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		return err
	}
}
