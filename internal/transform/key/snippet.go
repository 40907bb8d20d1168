package key

import (
	"strings"

	"github.com/opmodel/schemaform/internal/schema"
	"github.com/opmodel/schemaform/internal/stack"
	"github.com/opmodel/schemaform/internal/transform"
	"github.com/opmodel/schemaform/internal/vtl"
)

// injectKeySnippets prepends the structured key block to the single-item
// resolvers so their templates read the directive key instead of the id
// default. Mutations additionally write the condensed range value back
// into the input so the stored item carries it.
func injectKeySnippets(ctx *transform.Context, typ *schema.SchemaType, fields []string) {
	prependSnippet(ctx, transform.GetResolverResourceID(typ.Name), keySnippet(fields, "ctx.args", false))

	mutationSnippet := keySnippet(fields, "ctx.args.input", true)
	for _, id := range []string{
		transform.CreateResolverResourceID(typ.Name),
		transform.UpdateResolverResourceID(typ.Name),
		transform.DeleteResolverResourceID(typ.Name),
	} {
		prependSnippet(ctx, id, mutationSnippet)
	}
}

// keySnippet renders the #set block assigning the structured key from
// the arguments under source. writeBack stores the condensed range value
// into the arguments as well; it only applies to keys that condense.
func keySnippet(fields []string, source string, writeBack bool) string {
	entries := []vtl.ObjectEntry{
		vtl.Pair(fields[0], vtl.Raw("$util.dynamodb.toDynamoDB($"+source+"."+fields[0]+")")),
	}
	exprs := []vtl.Expression{vtl.Comment("[Start] Set the primary key.")}

	switch {
	case len(fields) == 2:
		entries = append(entries, vtl.Pair(fields[1],
			vtl.Raw("$util.dynamodb.toDynamoDB($"+source+"."+fields[1]+")")))
	case len(fields) > 2:
		entries = append(entries, vtl.Pair(CondensedKeyName(fields),
			vtl.Raw(`$util.dynamodb.toDynamoDB("`+condensedValue(fields[1:], source)+`")`)))
	}

	exprs = append(exprs, vtl.Set(vtl.Ref(transform.ModelObjectKey), vtl.Obj(entries...)))
	if writeBack && len(fields) > 2 {
		exprs = append(exprs, vtl.Qref(source+`.put("`+CondensedKeyName(fields)+`", "`+condensedValue(fields[1:], source)+`")`))
	}
	exprs = append(exprs, vtl.ClosingComment("[End] Set the primary key."))
	return vtl.Print(vtl.Compound(exprs...))
}

// condensedValue renders the interpolated composite range value, for
// example "${ctx.args.input.kind}#${ctx.args.input.date}".
func condensedValue(tail []string, source string) string {
	parts := make([]string, len(tail))
	for i, f := range tail {
		parts[i] = "${" + source + "." + f + "}"
	}
	return strings.Join(parts, "#")
}

// prependSnippet prefixes a resolver's request template in place.
func prependSnippet(ctx *transform.Context, resolverID, snippet string) {
	res, ok := ctx.GetResource(resolverID)
	if !ok {
		return
	}
	existing, _ := res.StringProperty("RequestMappingTemplate")
	res.SetProperty("RequestMappingTemplate", stack.Lit(snippet+"\n"+existing))
}

// queryRequestTemplate builds the request template of an index query
// field. The partition condition always applies; the range condition
// follows whichever operator the request carries, and condensed keys
// fall back to a prefix match over the leading tail fields when no
// condition argument is present.
func queryRequestTemplate(a args) string {
	exprs := []vtl.Expression{
		vtl.Comment("[Start] Prepare DynamoDB Query Request."),
		vtl.Set(vtl.Ref("limit"), vtl.Raw("$util.defaultIfNull($ctx.args.limit, 100)")),
		partitionCondition(a.fields[0]),
	}
	if len(a.fields) > 1 {
		exprs = append(exprs, sortCondition(a.fields))
	}
	exprs = append(exprs,
		vtl.Obj(
			vtl.Pair("version", vtl.String("2017-02-28")),
			vtl.Pair("operation", vtl.String("Query")),
			vtl.Pair("query", vtl.Raw("$util.toJson($modelQueryExpression)")),
			vtl.Pair("index", vtl.String(a.name)),
			vtl.Pair("limit", vtl.Ref("limit")),
			vtl.Pair("nextToken", vtl.IfElse(
				vtl.Ref("ctx.args.nextToken"),
				vtl.String("$ctx.args.nextToken"),
				vtl.Null(),
			)),
		),
		vtl.ClosingComment("[End] Prepare DynamoDB Query Request."),
	)
	return vtl.Print(vtl.Compound(exprs...))
}

// partitionCondition seeds $modelQueryExpression with the equality
// condition on the partition key.
func partitionCondition(field string) vtl.Expression {
	return vtl.Set(vtl.Ref("modelQueryExpression"), vtl.Obj(
		vtl.Pair("expression", vtl.String("#"+field+" = :"+field)),
		vtl.Pair("expressionNames", vtl.Obj(
			vtl.Pair("#"+field, vtl.String(field)),
		)),
		vtl.Pair("expressionValues", vtl.Obj(
			vtl.Pair(":"+field, vtl.Raw("$util.dynamodb.toDynamoDB($ctx.args."+field+")")),
		)),
	))
}

// sortCondition appends the range condition for the final key field. The
// operator chain prefers begins_with, then between, then equality, which
// mirrors how narrowing conditions are typically written.
func sortCondition(fields []string) vtl.Expression {
	final := fields[len(fields)-1]
	arg := "$ctx.args." + final
	rangeAttr := final
	prefix := ""
	if len(fields) > 2 {
		rangeAttr = CondensedKeyName(fields)
		prefix = condensedValue(fields[1:len(fields)-1], "ctx.args")
	}

	value := func(operand string) string {
		if prefix != "" {
			return `"` + prefix + `#${ctx.args.` + final + `.` + operand + `}"`
		}
		return arg + "." + operand
	}

	fragment := func(expression string, values ...[2]string) vtl.Expression {
		exprs := []vtl.Expression{
			vtl.Qref(`modelQueryExpression.put("expression", "$modelQueryExpression.expression AND ` + expression + `")`),
			vtl.Qref(`modelQueryExpression.expressionNames.put("#sortKey", "` + rangeAttr + `")`),
		}
		for _, v := range values {
			exprs = append(exprs, vtl.Qref(`modelQueryExpression.expressionValues.put("`+v[0]+`", $util.dynamodb.toDynamoDB(`+v[1]+`))`))
		}
		return vtl.Compound(exprs...)
	}

	chain := vtl.IfElse(vtl.Raw("!$util.isNull("+arg+".beginsWith)"),
		fragment("begins_with(#sortKey, :sortKey)", [2]string{":sortKey", value("beginsWith")}),
		vtl.IfElse(vtl.Raw("!$util.isNull("+arg+".between)"),
			fragment("#sortKey BETWEEN :sortKey0 AND :sortKey1",
				[2]string{":sortKey0", value("between[0]")},
				[2]string{":sortKey1", value("between[1]")},
			),
			vtl.If(vtl.Raw("!$util.isNull("+arg+".eq)"),
				fragment("#sortKey = :sortKey", [2]string{":sortKey", value("eq")}),
			),
		),
	)

	if prefix == "" {
		return vtl.If(vtl.Raw("!$util.isNull("+arg+")"), chain)
	}
	return vtl.IfElse(vtl.Raw("$util.isNull("+arg+")"),
		fragment("begins_with(#sortKey, :sortKey)", [2]string{":sortKey", `"` + prefix + `"`}),
		chain,
	)
}
