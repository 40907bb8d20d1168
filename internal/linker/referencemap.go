// Package linker resolves cross-stack references: it walks assembled
// property trees to find every reference by logical name, decides which
// names each nested stack must receive as forwarded parameters, and
// wires the root stack's nested-stack resources accordingly.
package linker

import (
	"sort"
	"strconv"

	"github.com/opmodel/schemaform/internal/stack"
)

// Path addresses one node inside a template: mapping keys and decimal
// list indices as segments, with conditional branches encoded as the
// segments "Fn::If" then "1" or "2".
type Path []string

// ReferenceMap maps a referenced logical name to every structural path
// at which it is referenced. Maps are built fresh per resolution pass
// and never persisted.
type ReferenceMap map[string][]Path

// Merge combines two reference maps. For every key present in either
// operand the result holds a's paths followed by b's: concatenation,
// never deduplication. Merge is associative, does not mutate its
// operands, and the empty map is its identity.
func Merge(a, b ReferenceMap) ReferenceMap {
	out := make(ReferenceMap, len(a)+len(b))
	for name, paths := range a {
		out[name] = append(out[name], paths...)
	}
	for name, paths := range b {
		out[name] = append(out[name], paths...)
	}
	return out
}

// Walk folds over a property tree and returns the reference map rooted
// at path. Direct references record their target name; attribute
// references record the resource component of the pair; lists, mappings,
// and conditionals descend with extended paths and merge their children;
// scalar leaves contribute nothing.
func Walk(v stack.Value, path Path) ReferenceMap {
	switch node := v.(type) {
	case stack.Ref:
		return ReferenceMap{node.Name: []Path{path}}
	case stack.GetAtt:
		return ReferenceMap{node.Name: []Path{path}}
	case stack.List:
		out := ReferenceMap{}
		for i, child := range node {
			out = Merge(out, Walk(child, extend(path, strconv.Itoa(i))))
		}
		return out
	case stack.Mapping:
		out := ReferenceMap{}
		for _, key := range sortedKeys(node) {
			out = Merge(out, Walk(node[key], extend(path, key)))
		}
		return out
	case stack.If:
		out := Walk(node.Then, extend(path, "Fn::If", "1"))
		return Merge(out, Walk(node.Else, extend(path, "Fn::If", "2")))
	default:
		return ReferenceMap{}
	}
}

// WalkTemplate returns the reference map of a whole template: every
// resource's properties and every output value, with paths rooted at
// "Resources" and "Outputs" respectively.
func WalkTemplate(t *stack.Template) ReferenceMap {
	out := ReferenceMap{}
	for _, id := range t.ResourceIDs() {
		res := t.Resources[id]
		if res.Properties == nil {
			continue
		}
		out = Merge(out, Walk(res.Properties, Path{"Resources", id, "Properties"}))
	}

	outputNames := make([]string, 0, len(t.Outputs))
	for name := range t.Outputs {
		outputNames = append(outputNames, name)
	}
	sort.Strings(outputNames)
	for _, name := range outputNames {
		out = Merge(out, Walk(t.Outputs[name].Value, Path{"Outputs", name, "Value"}))
	}

	return out
}

// Names returns the map's referenced names, sorted.
func (m ReferenceMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// extend returns a fresh path with the segments appended. Paths are
// shared by recorded entries, so extension never aliases the input's
// backing array.
func extend(path Path, segments ...string) Path {
	out := make(Path, 0, len(path)+len(segments))
	out = append(out, path...)
	return append(out, segments...)
}

func sortedKeys(m stack.Mapping) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
