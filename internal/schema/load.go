package schema

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	sferrors "github.com/opmodel/schemaform/internal/errors"
)

// LoadDocument reads a serialized schema document from path. Both YAML
// and JSON serializations are accepted; the document is validated before
// being returned.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, sferrors.NewNotFoundError(
				fmt.Sprintf("schema document %q does not exist", path),
				path,
				"Check the path or generate a document with your schema parser",
			)
		}
		return nil, fmt.Errorf("reading schema document: %w", err)
	}

	var doc Document
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, sferrors.NewValidationError(
			fmt.Sprintf("schema document is not valid YAML or JSON: %v", err),
			path,
			"",
			"The document must be a serialized parse result, not raw schema text",
		)
	}

	if err := doc.Validate(path); err != nil {
		return nil, err
	}

	return &doc, nil
}

// Validate checks the document's structural invariants: non-empty unique
// type names, unique field names per type, and resolvable field base
// types. The location is used for error reporting only.
func (d *Document) Validate(location string) error {
	if len(d.Types) == 0 {
		return sferrors.NewValidationError(
			"schema document declares no types",
			location,
			"",
			"Add at least one type definition",
		)
	}

	seen := map[string]struct{}{}
	for _, t := range d.Types {
		if t.Name == "" {
			return sferrors.NewValidationError(
				"type declaration has an empty name",
				location,
				"",
				"",
			)
		}
		if _, dup := seen[t.Name]; dup {
			return sferrors.NewValidationError(
				fmt.Sprintf("type %q is declared more than once", t.Name),
				location,
				t.Name,
				"Type names must be unique within a document",
			)
		}
		seen[t.Name] = struct{}{}

		switch {
		case t.IsObject():
			if err := d.validateObject(t, location); err != nil {
				return err
			}
		case t.Kind == KindEnum:
			if len(t.Values) == 0 {
				return sferrors.NewValidationError(
					fmt.Sprintf("enum %q declares no values", t.Name),
					location,
					t.Name,
					"",
				)
			}
		}
	}

	return nil
}

func (d *Document) validateObject(t *SchemaType, location string) error {
	if len(t.Fields) == 0 {
		return sferrors.NewValidationError(
			fmt.Sprintf("type %q declares no fields", t.Name),
			location,
			t.Name,
			"",
		)
	}

	fields := map[string]struct{}{}
	for _, f := range t.Fields {
		if f.Name == "" {
			return sferrors.NewValidationError(
				fmt.Sprintf("type %q has a field with an empty name", t.Name),
				location,
				t.Name,
				"",
			)
		}
		if _, dup := fields[f.Name]; dup {
			return sferrors.NewValidationError(
				fmt.Sprintf("field %q is declared more than once on type %q", f.Name, t.Name),
				location,
				t.Name+"."+f.Name,
				"",
			)
		}
		fields[f.Name] = struct{}{}

		base := f.Type.BaseName()
		if base == "" {
			return sferrors.NewValidationError(
				fmt.Sprintf("field %q on type %q has no base type", f.Name, t.Name),
				location,
				t.Name+"."+f.Name,
				"",
			)
		}
		if !IsScalar(base) {
			if _, ok := d.Type(base); !ok {
				return sferrors.NewValidationError(
					fmt.Sprintf("field %q on type %q references unknown type %q", f.Name, t.Name, base),
					location,
					t.Name+"."+f.Name,
					"Declare the referenced type in the document",
				)
			}
		}
	}

	return nil
}
