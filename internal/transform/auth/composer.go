package auth

import (
	"slices"
	"strconv"

	"github.com/opmodel/schemaform/internal/transform"
	"github.com/opmodel/schemaform/internal/vtl"
)

// RuleKind classifies an authorization rule by what it matches against.
type RuleKind string

const (
	// StaticGroup authorizes callers belonging to a group listed on the
	// rule itself.
	StaticGroup RuleKind = "staticGroup"

	// DynamicGroup authorizes callers belonging to a group stored on the
	// item being accessed.
	DynamicGroup RuleKind = "dynamicGroup"

	// Owner authorizes callers whose identity claim equals the item's
	// owner attribute.
	Owner RuleKind = "owner"
)

// Rule is one parsed authorization rule.
type Rule struct {
	Kind RuleKind

	// OwnerField and IdentityClaim configure Owner rules.
	OwnerField    string
	IdentityClaim string

	// Groups lists a StaticGroup rule's allowed groups.
	Groups []string

	// GroupsField names the item attribute a DynamicGroup rule reads.
	GroupsField string
}

// groupsClaim is the identity claim carrying the caller's group
// memberships.
const groupsClaim = "cognito:groups"

// noIdentity is the never-matching placeholder substituted when the
// identity claim a rule reads is absent.
const noIdentity = "___xamznone____"

// Section markers bracketing the blocks this plugin prepends.
const (
	authSectionStart   = "[Start] Determine request authorization."
	authSectionEnd     = "[End] Determine request authorization."
	filterSectionStart = "[Start] Filter items by authorization rules."
	filterSectionEnd   = "[End] Filter items by authorization rules."
)

// ReadGate composes the authorization gate prepended to a get response
// template. Each rule OR-accumulates into its kind's flag; a request
// matching none of the rules terminates unauthorized.
func ReadGate(rules []Rule) vtl.Expression {
	exprs := []vtl.Expression{vtl.Comment(authSectionStart)}
	exprs = append(exprs, prologue(rules)...)
	exprs = append(exprs, flagDefaults(presentKinds(rules), false)...)
	exprs = append(exprs, matches(rules, "ctx.result")...)
	exprs = append(exprs,
		vtl.If(vtl.Not(authorizedOr(presentKinds(rules))), vtl.Raw("$util.unauthorized()")),
		vtl.ClosingComment(authSectionEnd),
	)
	return vtl.Compound(exprs...)
}

// ListFilter composes the per-item filter prepended to a list response
// template. A static group match keeps the whole page; otherwise each
// item is kept only when a dynamic group or owner rule matches it.
func ListFilter(rules []Rule) vtl.Expression {
	var staticExprs, itemExprs []vtl.Expression
	itemRules := make([]Rule, 0, len(rules))
	for i, r := range rules {
		switch r.Kind {
		case StaticGroup:
			staticExprs = append(staticExprs, staticMatch(i, r))
		case DynamicGroup:
			itemExprs = append(itemExprs, dynamicMatch(i, r, "item"))
			itemRules = append(itemRules, r)
		case Owner:
			itemExprs = append(itemExprs, ownerMatch(i, r, "item"))
			itemRules = append(itemRules, r)
		}
	}
	itemKinds := presentKinds(itemRules)

	exprs := []vtl.Expression{vtl.Comment(filterSectionStart)}
	exprs = append(exprs, prologue(rules)...)

	var filter vtl.Expression
	if len(itemExprs) > 0 {
		body := flagDefaults(itemKinds, true)
		body = append(body, itemExprs...)
		body = append(body, vtl.If(authorizedOr(itemKinds), vtl.Qref("items.add($item)")))
		filter = vtl.Compound(
			vtl.Set(vtl.Ref("items"), vtl.List()),
			vtl.ForEach(vtl.Ref("item"), vtl.Ref("ctx.result.items"), body...),
			vtl.Qref(`ctx.result.put("items", $items)`),
		)
	} else {
		filter = vtl.Qref(`ctx.result.put("items", [])`)
	}

	if len(staticExprs) > 0 {
		exprs = append(exprs, flagDefaults([]RuleKind{StaticGroup}, false)...)
		exprs = append(exprs, staticExprs...)
		exprs = append(exprs, vtl.If(vtl.Not(vtl.Ref(authFlag(StaticGroup))), filter))
	} else {
		exprs = append(exprs, filter)
	}

	exprs = append(exprs, vtl.ClosingComment(filterSectionEnd))
	return vtl.Compound(exprs...)
}

// CreateGate composes the request-time gate prepended to a create
// request template. There is no stored item yet, so dynamic group rules
// check the groups being written and owner rules stamp the owner
// attribute with the caller's identity when the input leaves it unset.
func CreateGate(rules []Rule) vtl.Expression {
	exprs := []vtl.Expression{vtl.Comment(authSectionStart)}
	exprs = append(exprs, prologue(rules)...)
	exprs = append(exprs, flagDefaults(presentKinds(rules), false)...)
	for i, r := range rules {
		switch r.Kind {
		case StaticGroup:
			exprs = append(exprs, staticMatch(i, r))
		case DynamicGroup:
			exprs = append(exprs, dynamicMatch(i, r, "ctx.args.input"))
		case Owner:
			exprs = append(exprs, ownerStamp(i, r))
		}
	}
	exprs = append(exprs,
		vtl.If(vtl.Not(authorizedOr(presentKinds(rules))), vtl.Raw("$util.unauthorized()")),
		vtl.ClosingComment(authSectionEnd),
	)
	return vtl.Compound(exprs...)
}

// WriteCondition composes the conditional-write block prepended to
// update and delete request templates. Owner and dynamic group rules
// become condition fragments joined with AND into $authCondition, which
// the mutation template merges with its existence check. A static group
// match leaves $authCondition unset, so the write proceeds whenever the
// item exists.
func WriteCondition(rules []Rule) vtl.Expression {
	exprs := []vtl.Expression{vtl.Comment(authSectionStart)}
	exprs = append(exprs, prologue(rules)...)
	exprs = append(exprs, flagDefaults([]RuleKind{StaticGroup}, false)...)
	for i, r := range rules {
		if r.Kind == StaticGroup {
			exprs = append(exprs, staticMatch(i, r))
		}
	}

	exprs = append(exprs,
		vtl.Set(vtl.Ref("authExpressions"), vtl.List()),
		vtl.Set(vtl.Ref("authNames"), vtl.Obj()),
		vtl.Set(vtl.Ref("authValues"), vtl.Obj()),
	)
	for i, r := range rules {
		switch r.Kind {
		case DynamicGroup:
			exprs = append(exprs, dynamicFragment(i, r))
		case Owner:
			exprs = append(exprs, ownerFragment(i, r))
		}
	}

	exprs = append(exprs,
		assembleCondition(),
		vtl.If(
			vtl.And(
				vtl.Not(vtl.Ref(authFlag(StaticGroup))),
				vtl.Raw("$util.isNull($"+transform.AuthCondition+")"),
			),
			vtl.Raw("$util.unauthorized()"),
		),
		vtl.ClosingComment(authSectionEnd),
	)
	return vtl.Compound(exprs...)
}

// prologue binds the request-scoped identity values the matchers read:
// the caller's groups when any group rule is present, and one identity
// value per owner rule.
func prologue(rules []Rule) []vtl.Expression {
	var exprs []vtl.Expression
	if hasKind(rules, StaticGroup) || hasKind(rules, DynamicGroup) {
		exprs = append(exprs, vtl.Set(vtl.Ref("userGroups"),
			vtl.Raw(`$util.defaultIfNull($ctx.identity.claims.get("`+groupsClaim+`"), [])`)))
	}
	for i, r := range rules {
		if r.Kind == Owner {
			exprs = append(exprs, vtl.Set(vtl.Ref(identityVar(i)),
				vtl.Raw(`$util.defaultIfNull($ctx.identity.claims.get("`+r.IdentityClaim+`"), "`+noIdentity+`")`)))
		}
	}
	return exprs
}

// flagDefaults binds each kind's flag, either carrying a prior value
// forward or resetting it outright.
func flagDefaults(kinds []RuleKind, reset bool) []vtl.Expression {
	exprs := make([]vtl.Expression, 0, len(kinds))
	for _, kind := range kinds {
		flag := authFlag(kind)
		if reset {
			exprs = append(exprs, vtl.Set(vtl.Ref(flag), vtl.Bool(false)))
			continue
		}
		exprs = append(exprs, vtl.Set(vtl.Ref(flag),
			vtl.Raw("$util.defaultIfNull($"+flag+", false)")))
	}
	return exprs
}

// matches emits every rule's match block against the item under source.
func matches(rules []Rule, source string) []vtl.Expression {
	var exprs []vtl.Expression
	for i, r := range rules {
		switch r.Kind {
		case StaticGroup:
			exprs = append(exprs, staticMatch(i, r))
		case DynamicGroup:
			exprs = append(exprs, dynamicMatch(i, r, source))
		case Owner:
			exprs = append(exprs, ownerMatch(i, r, source))
		}
	}
	return exprs
}

// staticMatch sets the static group flag when the caller belongs to one
// of the rule's groups.
func staticMatch(i int, r Rule) vtl.Expression {
	groups := make([]vtl.Expression, len(r.Groups))
	for j, g := range r.Groups {
		groups[j] = vtl.String(g)
	}
	allowed := "allowedGroups" + strconv.Itoa(i)
	return vtl.Compound(
		vtl.Set(vtl.Ref(allowed), vtl.List(groups...)),
		vtl.ForEach(vtl.Ref("userGroup"), vtl.Ref("userGroups"),
			vtl.If(vtl.Raw("$"+allowed+".contains($userGroup)"),
				vtl.Set(vtl.Ref(authFlag(StaticGroup)), vtl.Bool(true)),
			),
		),
	)
}

// dynamicMatch sets the dynamic group flag when the caller belongs to a
// group stored on the item under source.
func dynamicMatch(i int, r Rule, source string) vtl.Expression {
	itemGroups := "itemGroups" + strconv.Itoa(i)
	return vtl.Compound(
		vtl.Set(vtl.Ref(itemGroups),
			vtl.Raw("$util.defaultIfNull($"+source+"."+r.GroupsField+", [])")),
		vtl.ForEach(vtl.Ref("userGroup"), vtl.Ref("userGroups"),
			vtl.If(vtl.Raw("$"+itemGroups+".contains($userGroup)"),
				vtl.Set(vtl.Ref(authFlag(DynamicGroup)), vtl.Bool(true)),
			),
		),
	)
}

// ownerMatch sets the owner flag when the rule's identity value equals
// the item's owner attribute.
func ownerMatch(i int, r Rule, source string) vtl.Expression {
	return vtl.If(
		vtl.Equals(vtl.Ref(source+"."+r.OwnerField), vtl.Ref(identityVar(i))),
		vtl.Set(vtl.Ref(authFlag(Owner)), vtl.Bool(true)),
	)
}

// ownerStamp authorizes a create against an owner rule: an unset owner
// attribute is stamped with the caller's identity, a set one must equal
// it.
func ownerStamp(i int, r Rule) vtl.Expression {
	input := "ctx.args.input." + r.OwnerField
	return vtl.IfElse(
		vtl.Raw("$util.isNull($"+input+")"),
		vtl.Compound(
			vtl.Qref(`ctx.args.input.put("`+r.OwnerField+`", $`+identityVar(i)+`)`),
			vtl.Set(vtl.Ref(authFlag(Owner)), vtl.Bool(true)),
		),
		vtl.If(
			vtl.Equals(vtl.Ref(input), vtl.Ref(identityVar(i))),
			vtl.Set(vtl.Ref(authFlag(Owner)), vtl.Bool(true)),
		),
	)
}

// ownerFragment adds the owner equality condition for rule i.
func ownerFragment(i int, r Rule) vtl.Expression {
	n := strconv.Itoa(i)
	return vtl.Compound(
		vtl.Qref(`authExpressions.add("#owner`+n+` = :identity`+n+`")`),
		vtl.Qref(`authNames.put("#owner`+n+`", "`+r.OwnerField+`")`),
		vtl.Qref(`authValues.put(":identity`+n+`", $util.dynamodb.toDynamoDB($`+identityVar(i)+`))`),
	)
}

// dynamicFragment adds the stored-group membership condition for rule i:
// one contains clause per caller group, ORed at request time. A caller
// with no groups contributes a never-matching clause instead of an empty
// one.
func dynamicFragment(i int, r Rule) vtl.Expression {
	n := strconv.Itoa(i)
	groupExpr := "groupExpression" + n
	group := vtl.Compound(
		vtl.Set(vtl.Ref(groupExpr), vtl.String("")),
		vtl.ForEach(vtl.Ref("userGroup"), vtl.Ref("userGroups"),
			vtl.Set(vtl.Ref(groupExpr),
				vtl.String("$"+groupExpr+" contains(#groups"+n+", :group"+n+"$foreach.count)")),
			vtl.If(vtl.Ref("foreach.hasNext"),
				vtl.Set(vtl.Ref(groupExpr), vtl.String("$"+groupExpr+" OR"))),
			vtl.Qref(`authValues.put(":group`+n+`$foreach.count", $util.dynamodb.toDynamoDB($userGroup))`),
		),
		vtl.Qref(`authExpressions.add("($`+groupExpr+`)")`),
	)
	none := vtl.Compound(
		vtl.Qref(`authExpressions.add("#groups`+n+` = :group`+n+`none")`),
		vtl.Qref(`authValues.put(":group`+n+`none", $util.dynamodb.toDynamoDB("`+noIdentity+`"))`),
	)
	return vtl.Compound(
		vtl.IfElse(vtl.Raw("$userGroups.isEmpty()"), none, group),
		vtl.Qref(`authNames.put("#groups`+n+`", "`+r.GroupsField+`")`),
	)
}

// assembleCondition joins the accumulated fragments with AND and binds
// $authCondition, skipped entirely when a static group rule already
// authorized the request.
func assembleCondition() vtl.Expression {
	return vtl.If(
		vtl.And(
			vtl.Not(vtl.Ref(authFlag(StaticGroup))),
			vtl.Raw("!$authExpressions.isEmpty()"),
		),
		vtl.Compound(
			vtl.Set(vtl.Ref("authExpression"), vtl.String("")),
			vtl.ForEach(vtl.Ref("expr"), vtl.Ref("authExpressions"),
				vtl.Set(vtl.Ref("authExpression"), vtl.String("$authExpression $expr")),
				vtl.If(vtl.Ref("foreach.hasNext"),
					vtl.Set(vtl.Ref("authExpression"), vtl.String("$authExpression AND"))),
			),
			vtl.Set(vtl.Ref(transform.AuthCondition), vtl.Obj(
				vtl.Pair("expression", vtl.Ref("authExpression")),
				vtl.Pair("expressionNames", vtl.Ref("authNames")),
				vtl.Pair("expressionValues", vtl.Ref("authValues")),
			)),
		),
	)
}

// authorizedOr is the authorization decision over the given kinds'
// flags.
func authorizedOr(kinds []RuleKind) vtl.Expression {
	flags := make([]vtl.Expression, len(kinds))
	for i, kind := range kinds {
		flags[i] = vtl.Equals(vtl.Ref(authFlag(kind)), vtl.Bool(true))
	}
	return vtl.Or(flags...)
}

// authFlag returns the template flag a rule kind accumulates into.
func authFlag(kind RuleKind) string {
	switch kind {
	case StaticGroup:
		return "isStaticGroupAuthorized"
	case DynamicGroup:
		return "isDynamicGroupAuthorized"
	default:
		return "isOwnerAuthorized"
	}
}

// presentKinds returns the distinct rule kinds in gate evaluation order.
func presentKinds(rules []Rule) []RuleKind {
	var kinds []RuleKind
	for _, kind := range []RuleKind{StaticGroup, DynamicGroup, Owner} {
		if hasKind(rules, kind) {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

func hasKind(rules []Rule, kind RuleKind) bool {
	return slices.ContainsFunc(rules, func(r Rule) bool { return r.Kind == kind })
}

func identityVar(i int) string {
	return "identityValue" + strconv.Itoa(i)
}
