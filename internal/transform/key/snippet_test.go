package key

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeySnippet_TwoFields(t *testing.T) {
	snippet := keySnippet([]string{"email", "date"}, "ctx.args", false)

	assert.Equal(t, strings.Join([]string{
		"## [Start] Set the primary key. **",
		"#set( $modelObjectKey = {",
		`  "email": $util.dynamodb.toDynamoDB($ctx.args.email),`,
		`  "date": $util.dynamodb.toDynamoDB($ctx.args.date)`,
		"} )",
		"** [End] Set the primary key. ##",
	}, "\n"), snippet)
}

func TestKeySnippet_SingleField(t *testing.T) {
	snippet := keySnippet([]string{"email"}, "ctx.args.input", true)

	assert.Contains(t, snippet, `"email": $util.dynamodb.toDynamoDB($ctx.args.input.email)`)
	assert.NotContains(t, snippet, ".put(", "nothing condenses, so nothing is written back")
}

func TestKeySnippet_CondensedWriteBack(t *testing.T) {
	snippet := keySnippet([]string{"email", "kind", "date"}, "ctx.args.input", true)

	assert.Contains(t, snippet, `"kind#date": $util.dynamodb.toDynamoDB("${ctx.args.input.kind}#${ctx.args.input.date}")`)
	assert.Contains(t, snippet, `$util.qr($ctx.args.input.put("kind#date", "${ctx.args.input.kind}#${ctx.args.input.date}"))`)
}

func TestInjectKeySnippets_PrependsToSingleItemResolvers(t *testing.T) {
	ctx := applyKeys(t, orderType(keyDirective("", []string{"email", "date"}, "")))

	get, _ := ctx.GetResource("GetOrderResolver")
	tpl, ok := get.StringProperty("RequestMappingTemplate")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(tpl, "## [Start] Set the primary key. **\n"))
	assert.Contains(t, tpl, `"email": $util.dynamodb.toDynamoDB($ctx.args.email)`)
	assert.Contains(t, tpl, "## [Start] Prepare DynamoDB GetItem Request. **",
		"the original template follows the snippet")

	for _, id := range []string{"CreateOrderResolver", "UpdateOrderResolver", "DeleteOrderResolver"} {
		res, _ := ctx.GetResource(id)
		tpl, _ := res.StringProperty("RequestMappingTemplate")
		assert.Contains(t, tpl, `"email": $util.dynamodb.toDynamoDB($ctx.args.input.email)`, id)
	}

	list, _ := ctx.GetResource("ListOrderResolver")
	tpl, _ = list.StringProperty("RequestMappingTemplate")
	assert.NotContains(t, tpl, "Set the primary key", "scans do not take a key")
}

func TestInjectKeySnippets_CondensedMutations(t *testing.T) {
	ctx := applyKeys(t, orderType(keyDirective("", []string{"email", "kind", "date"}, "")))

	create, _ := ctx.GetResource("CreateOrderResolver")
	tpl, _ := create.StringProperty("RequestMappingTemplate")
	assert.Contains(t, tpl, `$util.qr($ctx.args.input.put("kind#date", "${ctx.args.input.kind}#${ctx.args.input.date}"))`)

	get, _ := ctx.GetResource("GetOrderResolver")
	tpl, _ = get.StringProperty("RequestMappingTemplate")
	assert.Contains(t, tpl, `"kind#date": $util.dynamodb.toDynamoDB("${ctx.args.kind}#${ctx.args.date}")`)
	assert.NotContains(t, tpl, ".put(", "reads never mutate their arguments")
}

func TestQueryRequestTemplate_TwoFieldKey(t *testing.T) {
	tpl := queryRequestTemplate(args{name: "byEmail", fields: []string{"email", "date"}})

	assert.Contains(t, tpl, "#set( $limit = $util.defaultIfNull($ctx.args.limit, 100) )")
	assert.Contains(t, tpl, `"expression": "#email = :email"`)
	assert.Contains(t, tpl, `":email": $util.dynamodb.toDynamoDB($ctx.args.email)`)
	assert.Contains(t, tpl, "#if( !$util.isNull($ctx.args.date) )")
	assert.Contains(t, tpl, `"$modelQueryExpression.expression AND begins_with(#sortKey, :sortKey)"`)
	assert.Contains(t, tpl, `$util.qr($modelQueryExpression.expressionNames.put("#sortKey", "date"))`)
	assert.Contains(t, tpl, "#sortKey BETWEEN :sortKey0 AND :sortKey1")
	assert.Contains(t, tpl, `expressionValues.put(":sortKey1", $util.dynamodb.toDynamoDB($ctx.args.date.between[1]))`)
	assert.Contains(t, tpl, `"#sortKey = :sortKey"`)
	assert.Contains(t, tpl, `"operation": "Query"`)
	assert.Contains(t, tpl, `"index": "byEmail"`)
	assert.Contains(t, tpl, `"query": $util.toJson($modelQueryExpression)`)
}

func TestQueryRequestTemplate_CondensedPrefixFallback(t *testing.T) {
	tpl := queryRequestTemplate(args{name: "byEmailKind", fields: []string{"email", "kind", "date"}})

	assert.Contains(t, tpl, "#if( $util.isNull($ctx.args.date) )")
	assert.Contains(t, tpl, `$util.dynamodb.toDynamoDB("${ctx.args.kind}")`,
		"without a range condition the query narrows by the leading tail fields")
	assert.Contains(t, tpl, `.expressionNames.put("#sortKey", "kind#date")`)
	assert.Contains(t, tpl, `$util.dynamodb.toDynamoDB("${ctx.args.kind}#${ctx.args.date.beginsWith}")`)
	assert.Contains(t, tpl, `$util.dynamodb.toDynamoDB("${ctx.args.kind}#${ctx.args.date.between[0]}")`)
}

func TestQueryRequestTemplate_HashOnly(t *testing.T) {
	tpl := queryRequestTemplate(args{name: "byEmail", fields: []string{"email"}})

	assert.Contains(t, tpl, `"expression": "#email = :email"`)
	assert.NotContains(t, tpl, "#sortKey")
}

func TestQueryRequestTemplate_Deterministic(t *testing.T) {
	a := args{name: "byEmailKind", fields: []string{"email", "kind", "date"}}
	assert.Equal(t, queryRequestTemplate(a), queryRequestTemplate(a))
}

func TestDeclareQueryField_ResolverTemplate(t *testing.T) {
	ctx := applyKeys(t, orderType(keyDirective("byEmail", []string{"email", "date"}, "ordersByEmail")))

	res, ok := ctx.GetResource("QueryOrdersByEmailResolver")
	require.True(t, ok)
	tpl, ok := res.StringProperty("RequestMappingTemplate")
	require.True(t, ok)
	assert.Contains(t, tpl, `"index": "byEmail"`)

	response, _ := res.StringProperty("ResponseMappingTemplate")
	assert.Equal(t, "$util.toJson($ctx.result)", response)
}
