package linker

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/opmodel/schemaform/internal/stack"
)

// Root parameters locating nested templates at deploy time. Every
// nested-stack resource builds its TemplateURL from these two values.
const (
	DeploymentBucketParameter  = "S3DeploymentBucket"
	DeploymentRootKeyParameter = "S3DeploymentRootKey"
)

// StackResourceType is the resource type of a nested-stack reference in
// the root template.
const StackResourceType = "AWS::CloudFormation::Stack"

// Input carries one compilation's accumulated declarations into
// assembly: the flat resource registry, the root-level declarations, and
// the type-to-stack mapping recorded by plugins.
type Input struct {
	Description   string
	Resources     map[string]*stack.Resource
	Parameters    map[string]stack.Parameter
	Conditions    map[string]stack.Value
	Outputs       map[string]stack.Output
	StackPatterns map[string][]string
}

// Assembly is the final stack set: the root template plus one nested
// template per mapped type, with every cross-stack reference resolved
// into forwarded parameters.
type Assembly struct {
	Root   *stack.Template
	Nested map[string]*stack.Template
}

// NestedNames returns the nested template names, sorted.
func (a *Assembly) NestedNames() []string {
	names := make([]string, 0, len(a.Nested))
	for name := range a.Nested {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Assemble partitions resources into the root template and one nested
// template per mapped stack, re-declares the conditions each nested
// template uses, then resolves every reference: names declared in an
// ancestor or sibling stack become forwarded parameters, attribute
// references are rewritten to parameter references at their recorded
// paths, and names that resolve nowhere abort with a ReferenceError.
func Assemble(in Input) (*Assembly, error) {
	root := stack.NewTemplate(in.Description)
	for name, p := range in.Parameters {
		root.Parameters[name] = p
	}
	for name, v := range in.Conditions {
		root.Conditions[name] = v
	}
	for name, o := range in.Outputs {
		root.Outputs[name] = o
	}

	nestedNames := make([]string, 0, len(in.StackPatterns))
	for name := range in.StackPatterns {
		nestedNames = append(nestedNames, name)
	}
	sort.Strings(nestedNames)

	if len(nestedNames) > 0 {
		root.Parameters[DeploymentBucketParameter] = stack.Parameter{
			Type:        "String",
			Description: "Bucket holding the compiled nested templates.",
		}
		root.Parameters[DeploymentRootKeyParameter] = stack.Parameter{
			Type:        "String",
			Description: "Key prefix under which nested templates are stored.",
		}
	}

	// Partition resources. The first stack (in sorted order) whose
	// pattern matches a resource owns it; unmatched resources stay in
	// the root.
	assigned := map[string]string{}
	for _, stackName := range nestedNames {
		for _, id := range sortedResourceIDs(in.Resources) {
			if _, taken := assigned[id]; taken {
				continue
			}
			if matchesAny(id, in.StackPatterns[stackName]) {
				assigned[id] = stackName
			}
		}
	}

	nested := make(map[string]*stack.Template, len(nestedNames))
	for _, name := range nestedNames {
		nested[name] = stack.NewTemplate(fmt.Sprintf("Nested stack for type %s", name))
	}
	for _, id := range sortedResourceIDs(in.Resources) {
		if stackName, ok := assigned[id]; ok {
			nested[stackName].Resources[id] = in.Resources[id]
		} else {
			root.Resources[id] = in.Resources[id]
		}
	}

	a := &Assembly{Root: root, Nested: nested}

	for _, name := range nestedNames {
		if err := redeclareConditions(nested[name], in.Conditions); err != nil {
			return nil, err
		}
	}

	for _, name := range nestedNames {
		if err := linkNested(a, name, assigned); err != nil {
			return nil, err
		}
	}

	if err := linkRoot(a, assigned); err != nil {
		return nil, err
	}

	return a, nil
}

// redeclareConditions copies into the nested template every condition
// its resources select on. Conditions are re-declared, not forwarded as
// parameters; any names their definitions reference are picked up by the
// regular reference pass afterwards.
func redeclareConditions(tmpl *stack.Template, conditions map[string]stack.Value) error {
	names := sets.New[string]()
	for _, id := range tmpl.ResourceIDs() {
		if props := tmpl.Resources[id].Properties; props != nil {
			names.Insert(stack.ConditionNames(props)...)
		}
	}

	for _, name := range sets.List(names) {
		def, ok := conditions[name]
		if !ok {
			return &ReferenceError{MissingName: name, Path: Path{"Conditions", name}}
		}
		tmpl.Conditions[name] = def
	}
	return nil
}

// linkNested resolves one nested template's references and creates its
// stack resource in the root template.
func linkNested(a *Assembly, name string, assigned map[string]string) error {
	tmpl := a.Nested[name]

	refs := WalkTemplate(tmpl)
	for _, cond := range sortedConditionNames(tmpl) {
		refs = Merge(refs, Walk(tmpl.Conditions[cond], Path{"Conditions", cond}))
	}

	forwarded := stack.Mapping{}
	dependsOn := sets.New[string]()

	for _, refName := range refs.Names() {
		if isPseudoName(refName) || tmpl.HasDeclaration(refName) {
			continue
		}

		rootHas := a.Root.HasDeclaration(refName)
		ownerName, childOwned := assigned[refName]
		if !rootHas && !childOwned {
			return &ReferenceError{MissingName: refName, Path: refs[refName][0]}
		}
		if childOwned {
			dependsOn.Insert(stackResourceID(ownerName))
		}

		for _, p := range refs[refName] {
			node, ok := templateValueAt(tmpl, p)
			if !ok {
				return fmt.Errorf("stack %q: no value at path %s", name, strings.Join(p, "."))
			}

			switch ref := node.(type) {
			case stack.Ref:
				paramName := refName
				tmpl.Parameters[paramName] = forwardedParameter(a.Root, refName)
				if rootHas {
					forwarded[paramName] = stack.Ref{Name: refName}
				} else {
					forwarded[paramName] = exportFromOwner(a.Nested[ownerName], ownerName, refName, node)
				}
			case stack.GetAtt:
				paramName := refName + sanitizeAttribute(ref.Attribute)
				tmpl.Parameters[paramName] = stack.Parameter{Type: "String"}
				if err := templateReplace(tmpl, p, stack.Ref{Name: paramName}); err != nil {
					return fmt.Errorf("stack %q: %w", name, err)
				}
				if rootHas {
					forwarded[paramName] = stack.GetAtt{Name: refName, Attribute: ref.Attribute}
				} else {
					forwarded[paramName] = exportFromOwner(a.Nested[ownerName], ownerName, paramName, node)
				}
			}
		}
	}

	if err := checkDependsOn(tmpl); err != nil {
		return err
	}

	stackRes := &stack.Resource{
		Type: StackResourceType,
		Properties: stack.Mapping{
			"TemplateURL": nestedTemplateURL(name),
		},
	}
	if len(forwarded) > 0 {
		stackRes.Properties["Parameters"] = forwarded
	}
	if dependsOn.Len() > 0 {
		stackRes.DependsOn = sets.List(dependsOn)
	}
	a.Root.Resources[stackResourceID(name)] = stackRes

	return nil
}

// linkRoot resolves references the root template makes to resources that
// were moved into nested stacks: the owning stack exports the value and
// the root's node is rewritten to read the stack resource's output.
func linkRoot(a *Assembly, assigned map[string]string) error {
	refs := WalkTemplate(a.Root)

	for _, refName := range refs.Names() {
		if isPseudoName(refName) || a.Root.HasDeclaration(refName) {
			continue
		}

		ownerName, childOwned := assigned[refName]
		if !childOwned {
			return &ReferenceError{MissingName: refName, Path: refs[refName][0]}
		}

		for _, p := range refs[refName] {
			node, ok := templateValueAt(a.Root, p)
			if !ok {
				return fmt.Errorf("root stack: no value at path %s", strings.Join(p, "."))
			}

			var exportName string
			switch ref := node.(type) {
			case stack.Ref:
				exportName = refName
			case stack.GetAtt:
				exportName = refName + sanitizeAttribute(ref.Attribute)
			default:
				continue
			}

			replacement := exportFromOwner(a.Nested[ownerName], ownerName, exportName, node)
			if err := templateReplace(a.Root, p, replacement); err != nil {
				return fmt.Errorf("root stack: %w", err)
			}
		}
	}

	return checkDependsOn(a.Root)
}

// exportFromOwner declares an output on the owning nested template for
// the referenced value and returns the attribute reference the consumer
// reads it through.
func exportFromOwner(owner *stack.Template, ownerName, exportName string, node stack.Value) stack.Value {
	if _, ok := owner.Outputs[exportName]; !ok {
		owner.Outputs[exportName] = stack.Output{Value: node}
	}
	return stack.GetAtt{Name: stackResourceID(ownerName), Attribute: "Outputs." + exportName}
}

// forwardedParameter derives a nested template's parameter declaration
// for a by-name forward. Root parameter declarations keep their type;
// resources forward as strings.
func forwardedParameter(root *stack.Template, name string) stack.Parameter {
	if p, ok := root.Parameters[name]; ok {
		return stack.Parameter{Type: p.Type}
	}
	return stack.Parameter{Type: "String"}
}

// checkDependsOn verifies explicit dependencies stay inside one
// template; cross-stack ordering is expressed on the root's stack
// resources instead.
func checkDependsOn(tmpl *stack.Template) error {
	for _, id := range tmpl.ResourceIDs() {
		for i, dep := range tmpl.Resources[id].DependsOn {
			if _, ok := tmpl.Resources[dep]; !ok {
				return &ReferenceError{
					MissingName: dep,
					Path:        Path{"Resources", id, "DependsOn", strconv.Itoa(i)},
				}
			}
		}
	}
	return nil
}

// stackResourceID is the root-template logical name of a nested stack.
func stackResourceID(name string) string {
	return name + "NestedStack"
}

// sanitizeAttribute reduces an attribute name to the characters allowed
// in a logical parameter name, so "Outputs.TableArn" can compose into
// one.
func sanitizeAttribute(attr string) string {
	var b strings.Builder
	for _, r := range attr {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NestedTemplateKey is the object key of a nested template below the
// deployment root key.
func NestedTemplateKey(name string) string {
	return "stacks/" + name + ".json"
}

func nestedTemplateURL(name string) stack.Value {
	return stack.Join("/",
		stack.Lit("https://s3.amazonaws.com"),
		stack.Ref{Name: DeploymentBucketParameter},
		stack.Ref{Name: DeploymentRootKeyParameter},
		stack.Lit(NestedTemplateKey(name)),
	)
}

func templateValueAt(t *stack.Template, p Path) (stack.Value, bool) {
	if len(p) < 2 {
		return nil, false
	}
	switch p[0] {
	case "Resources":
		if len(p) < 3 || p[2] != "Properties" {
			return nil, false
		}
		res, ok := t.Resources[p[1]]
		if !ok || res.Properties == nil {
			return nil, false
		}
		return stack.ValueAt(res.Properties, p[3:])
	case "Outputs":
		if len(p) < 3 || p[2] != "Value" {
			return nil, false
		}
		out, ok := t.Outputs[p[1]]
		if !ok {
			return nil, false
		}
		return stack.ValueAt(out.Value, p[3:])
	case "Conditions":
		def, ok := t.Conditions[p[1]]
		if !ok {
			return nil, false
		}
		return stack.ValueAt(def, p[2:])
	default:
		return nil, false
	}
}

func templateReplace(t *stack.Template, p Path, replacement stack.Value) error {
	switch p[0] {
	case "Resources":
		res := t.Resources[p[1]]
		newProps, err := stack.Replace(res.Properties, p[3:], replacement)
		if err != nil {
			return err
		}
		props, ok := newProps.(stack.Mapping)
		if !ok {
			return fmt.Errorf("resource %q: properties replaced with non-mapping", p[1])
		}
		res.Properties = props
		return nil
	case "Outputs":
		out := t.Outputs[p[1]]
		newValue, err := stack.Replace(out.Value, p[3:], replacement)
		if err != nil {
			return err
		}
		out.Value = newValue
		t.Outputs[p[1]] = out
		return nil
	case "Conditions":
		newDef, err := stack.Replace(t.Conditions[p[1]], p[2:], replacement)
		if err != nil {
			return err
		}
		t.Conditions[p[1]] = newDef
		return nil
	default:
		return fmt.Errorf("unsupported template section %q", p[0])
	}
}

func isPseudoName(name string) bool {
	return strings.HasPrefix(name, "AWS::")
}

func matchesAny(id string, patterns []string) bool {
	for _, pattern := range patterns {
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
			if strings.HasPrefix(id, prefix) {
				return true
			}
			continue
		}
		if id == pattern {
			return true
		}
	}
	return false
}

func sortedResourceIDs(resources map[string]*stack.Resource) []string {
	ids := make([]string, 0, len(resources))
	for id := range resources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedConditionNames(t *stack.Template) []string {
	names := make([]string, 0, len(t.Conditions))
	for name := range t.Conditions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
