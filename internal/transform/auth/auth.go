// Package auth implements the auth directive: typed authorization rules
// compiled into the resolver templates the model plugin registers. Read
// resolvers gain response gates and filters; mutations either check
// authorization at request time or carry a conditional-write block the
// mutation template merges with its existence check.
package auth

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/opmodel/schemaform/internal/output"
	"github.com/opmodel/schemaform/internal/schema"
	"github.com/opmodel/schemaform/internal/stack"
	"github.com/opmodel/schemaform/internal/transform"
	"github.com/opmodel/schemaform/internal/vtl"
)

// DirectiveName is the directive this plugin owns.
const DirectiveName = "auth"

// Plugin is the auth directive transform.
type Plugin struct {
	log *log.Logger
}

// New returns the auth plugin.
func New() *Plugin {
	return &Plugin{log: output.ModuleLogger("auth")}
}

// Name implements transform.Plugin.
func (p *Plugin) Name() string { return "auth" }

// Directive implements transform.Plugin.
func (p *Plugin) Directive() string { return DirectiveName }

// Apply validates the directive's rules and prepends the composed
// authorization blocks to the type's resolver templates. Validation
// happens before any mutation, so a rejected directive leaves the
// compilation state untouched.
func (p *Plugin) Apply(typ *schema.SchemaType, dir *schema.Directive, ctx *transform.Context) error {
	rules, err := parseRules(typ, dir)
	if err != nil {
		return err
	}
	if dirs := typ.DirectivesNamed(DirectiveName); len(dirs) > 0 && dirs[0] != dir {
		return directiveError(typ, "declared more than once on the type")
	}

	if _, ok := ctx.GetResource(transform.GetResolverResourceID(typ.Name)); !ok {
		return &transform.StructuralError{
			TypeName:   typ.Name,
			ResourceID: transform.GetResolverResourceID(typ.Name),
			Message:    "auth directives protect generated resolvers; apply the model directive first",
		}
	}

	p.log.Debug("protecting resolvers", "type", typ.Name, "rules", len(rules))

	prependResponse(ctx, transform.GetResolverResourceID(typ.Name), vtl.Print(ReadGate(rules)))
	prependResponse(ctx, transform.ListResolverResourceID(typ.Name), vtl.Print(ListFilter(rules)))
	prependRequest(ctx, transform.CreateResolverResourceID(typ.Name), vtl.Print(CreateGate(rules)))

	condition := vtl.Print(WriteCondition(rules))
	prependRequest(ctx, transform.UpdateResolverResourceID(typ.Name), condition)
	prependRequest(ctx, transform.DeleteResolverResourceID(typ.Name), condition)
	return nil
}

// parseRules decodes and validates the directive's rules argument.
func parseRules(typ *schema.SchemaType, dir *schema.Directive) ([]Rule, error) {
	raw, ok := dir.Argument("rules")
	if !ok {
		return nil, directiveError(typ, "must include at least one rule")
	}
	entries, ok := ruleList(raw)
	if !ok || len(entries) == 0 {
		return nil, directiveError(typ, "must include at least one rule")
	}

	rules := make([]Rule, 0, len(entries))
	for i, entry := range entries {
		if entry == nil {
			return nil, directiveError(typ,
				fmt.Sprintf("rule %d must be a mapping of rule arguments", i))
		}
		r, err := parseRule(typ, i, entry)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func parseRule(typ *schema.SchemaType, i int, entry map[string]any) (Rule, error) {
	allow, ok := entry["allow"].(string)
	if !ok || allow == "" {
		return Rule{}, directiveError(typ, fmt.Sprintf("rule %d is missing its allow value", i))
	}

	switch allow {
	case "owner":
		return Rule{
			Kind:          Owner,
			OwnerField:    stringValue(entry, "ownerField", "owner"),
			IdentityClaim: stringValue(entry, "identityClaim", "username"),
		}, nil
	case "groups":
		groups, _ := stringList(entry["groups"])
		field, _ := entry["groupsField"].(string)
		switch {
		case len(groups) > 0 && field != "":
			return Rule{}, directiveError(typ,
				fmt.Sprintf("rule %d cannot set both groups and groupsField", i))
		case len(groups) > 0:
			return Rule{Kind: StaticGroup, Groups: groups}, nil
		case field != "":
			return Rule{Kind: DynamicGroup, GroupsField: field}, nil
		default:
			return Rule{}, directiveError(typ,
				fmt.Sprintf("rule %d needs either groups or groupsField", i))
		}
	default:
		return Rule{}, directiveError(typ,
			fmt.Sprintf(`rule %d has unknown allow value %q; expected "owner" or "groups"`, i, allow))
	}
}

// ruleList normalizes the decoded rules argument into its entry
// mappings. Non-mapping entries yield nil elements so the caller can
// report their position.
func ruleList(raw any) ([]map[string]any, bool) {
	switch list := raw.(type) {
	case []map[string]any:
		return list, true
	case []any:
		out := make([]map[string]any, len(list))
		for i, item := range list {
			if m, ok := item.(map[string]any); ok {
				out[i] = m
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func stringValue(entry map[string]any, key, fallback string) string {
	if s, ok := entry[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// stringList mirrors the decoder's list shapes the same way directive
// string list arguments are read.
func stringList(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// prependRequest prefixes a resolver's request template in place.
func prependRequest(ctx *transform.Context, resolverID, snippet string) {
	prependTemplate(ctx, resolverID, "RequestMappingTemplate", snippet)
}

// prependResponse prefixes a resolver's response template in place.
func prependResponse(ctx *transform.Context, resolverID, snippet string) {
	prependTemplate(ctx, resolverID, "ResponseMappingTemplate", snippet)
}

func prependTemplate(ctx *transform.Context, resolverID, property, snippet string) {
	res, ok := ctx.GetResource(resolverID)
	if !ok {
		return
	}
	existing, _ := res.StringProperty(property)
	res.SetProperty(property, stack.Lit(snippet+"\n"+existing))
}

func directiveError(typ *schema.SchemaType, message string) *transform.DirectiveError {
	return &transform.DirectiveError{
		TypeName:      typ.Name,
		DirectiveName: DirectiveName,
		Message:       message,
	}
}
