package model

import (
	"github.com/opmodel/schemaform/internal/stack"
	"github.com/opmodel/schemaform/internal/transform"
	"github.com/opmodel/schemaform/internal/vtl"
)

// declareResolvers registers the five CRUD resolvers for a type.
func declareResolvers(typeName string, ctx *transform.Context) {
	resolvers := []struct {
		id      string
		opType  string
		field   string
		request string
	}{
		{transform.GetResolverResourceID(typeName), "Query", transform.GetFieldName(typeName), getRequestTemplate()},
		{transform.ListResolverResourceID(typeName), "Query", transform.ListFieldName(typeName), listRequestTemplate()},
		{transform.CreateResolverResourceID(typeName), "Mutation", transform.CreateFieldName(typeName), createRequestTemplate(typeName)},
		{transform.UpdateResolverResourceID(typeName), "Mutation", transform.UpdateFieldName(typeName), updateRequestTemplate()},
		{transform.DeleteResolverResourceID(typeName), "Mutation", transform.DeleteFieldName(typeName), deleteRequestTemplate()},
	}

	for _, r := range resolvers {
		ctx.SetResource(r.id, ResolverResource(typeName, r.opType, r.field, r.request, ResponseTemplate()))
	}
}

// ResolverResource builds one resolver resource wired to the type's data
// source. Index-extending plugins reuse it for synthesized query fields.
func ResolverResource(modelType, opType, fieldName, requestTemplate, responseTemplate string) *stack.Resource {
	return &stack.Resource{
		Type: "AWS::AppSync::Resolver",
		Properties: stack.Mapping{
			"ApiId":                   stack.GetAtt{Name: transform.APIResourceID, Attribute: "ApiId"},
			"TypeName":                stack.Lit(opType),
			"FieldName":               stack.Lit(fieldName),
			"DataSourceName":          stack.GetAtt{Name: transform.DataSourceResourceID(modelType), Attribute: "Name"},
			"RequestMappingTemplate":  stack.Lit(requestTemplate),
			"ResponseMappingTemplate": stack.Lit(responseTemplate),
		},
	}
}

// ResponseTemplate returns the plain pass-through response template every
// CRUD resolver starts with.
func ResponseTemplate() string {
	return vtl.Print(vtl.Raw("$util.toJson($ctx.result)"))
}

// keyEntry renders a key property: the directive-provided structured key
// when one is set, the fallback otherwise.
func keyEntry(fallback vtl.Expression) vtl.Expression {
	return vtl.IfElse(
		vtl.Ref(transform.ModelObjectKey),
		vtl.Raw("$util.toJson($"+transform.ModelObjectKey+")"),
		fallback,
	)
}

// keyFieldsPrologue binds $keyFields to the key attribute names of the
// operation, extracted from the structured key when a directive set one.
func keyFieldsPrologue() vtl.Expression {
	return vtl.Compound(
		vtl.Set(vtl.Ref("keyFields"), vtl.List(vtl.String("id"))),
		vtl.If(vtl.Ref(transform.ModelObjectKey), vtl.Compound(
			vtl.Set(vtl.Ref("keyFields"), vtl.List()),
			vtl.ForEach(vtl.Ref("entry"), vtl.Raw("$"+transform.ModelObjectKey+".entrySet()"),
				vtl.Qref(`keyFields.add("$entry.key")`),
			),
		)),
	)
}

// conditionPrologue binds $condition to the mutation precondition: the
// existence check on the partition key attribute, ANDed onto whatever
// condition fragments an authorization directive accumulated. It must
// run after keyFieldsPrologue so the attribute name resolves.
func conditionPrologue() vtl.Expression {
	return vtl.IfElse(
		vtl.Ref(transform.AuthCondition),
		vtl.Compound(
			vtl.Set(vtl.Ref("condition"), vtl.Ref(transform.AuthCondition)),
			vtl.Qref(`condition.put("expression", "($condition.expression) AND attribute_exists(#keyName)")`),
			vtl.Qref(`condition.expressionNames.put("#keyName", "${keyFields.get(0)}")`),
		),
		vtl.Set(vtl.Ref("condition"), vtl.Obj(
			vtl.Pair("expression", vtl.String("attribute_exists(#keyName)")),
			vtl.Pair("expressionNames", vtl.Obj(
				vtl.Pair("#keyName", vtl.String("${keyFields.get(0)}")),
			)),
		)),
	)
}

func getRequestTemplate() string {
	tree := vtl.Compound(
		vtl.Comment("[Start] Prepare DynamoDB GetItem Request."),
		vtl.Obj(
			vtl.Pair("version", vtl.String("2017-02-28")),
			vtl.Pair("operation", vtl.String("GetItem")),
			vtl.Pair("key", keyEntry(vtl.Obj(
				vtl.Pair("id", vtl.Raw("$util.dynamodb.toDynamoDBJson($ctx.args.id)")),
			))),
		),
		vtl.ClosingComment("[End] Prepare DynamoDB GetItem Request."),
	)
	return vtl.Print(tree)
}

func listRequestTemplate() string {
	tree := vtl.Compound(
		vtl.Comment("[Start] Prepare DynamoDB Scan Request."),
		vtl.Set(vtl.Ref("limit"), vtl.Raw("$util.defaultIfNull($ctx.args.limit, 100)")),
		vtl.Obj(
			vtl.Pair("version", vtl.String("2017-02-28")),
			vtl.Pair("operation", vtl.String("Scan")),
			vtl.Pair("limit", vtl.Ref("limit")),
			vtl.Pair("nextToken", vtl.IfElse(
				vtl.Ref("ctx.args.nextToken"),
				vtl.String("$ctx.args.nextToken"),
				vtl.Null(),
			)),
		),
		vtl.ClosingComment("[End] Prepare DynamoDB Scan Request."),
	)
	return vtl.Print(tree)
}

func createRequestTemplate(typeName string) string {
	tree := vtl.Compound(
		vtl.Comment("[Start] Prepare DynamoDB PutItem Request."),
		vtl.Qref(`ctx.args.input.put("createdAt", $util.defaultIfNull($ctx.args.input.createdAt, $util.time.nowISO8601()))`),
		vtl.Qref(`ctx.args.input.put("updatedAt", $util.defaultIfNull($ctx.args.input.updatedAt, $util.time.nowISO8601()))`),
		vtl.Qref(`ctx.args.input.put("__typename", "`+typeName+`")`),
		keyFieldsPrologue(),
		vtl.Obj(
			vtl.Pair("version", vtl.String("2017-02-28")),
			vtl.Pair("operation", vtl.String("PutItem")),
			vtl.Pair("key", keyEntry(vtl.Obj(
				vtl.Pair("id", vtl.Raw("$util.dynamodb.toDynamoDBJson($util.defaultIfNullOrBlank($ctx.args.input.id, $util.autoId()))")),
			))),
			vtl.Pair("attributeValues", vtl.Raw("$util.dynamodb.toMapValuesJson($ctx.args.input)")),
			vtl.Pair("condition", vtl.Obj(
				vtl.Pair("expression", vtl.String("attribute_not_exists(#keyName)")),
				vtl.Pair("expressionNames", vtl.Obj(
					vtl.Pair("#keyName", vtl.String("${keyFields.get(0)}")),
				)),
			)),
		),
		vtl.ClosingComment("[End] Prepare DynamoDB PutItem Request."),
	)
	return vtl.Print(tree)
}

func updateRequestTemplate() string {
	tree := vtl.Compound(
		vtl.Comment("[Start] Prepare DynamoDB UpdateItem Request."),
		vtl.Qref(`ctx.args.input.put("updatedAt", $util.time.nowISO8601())`),
		keyFieldsPrologue(),
		conditionPrologue(),
		vtl.Set(vtl.Ref("expNames"), vtl.Obj()),
		vtl.Set(vtl.Ref("expValues"), vtl.Obj()),
		vtl.Set(vtl.Ref("expSet"), vtl.Obj()),
		vtl.ForEach(vtl.Ref("entry"), vtl.Raw("$util.map.copyAndRemoveAllKeys($ctx.args.input, $keyFields).entrySet()"),
			vtl.If(vtl.Raw("!$util.isNull($entry.value)"), vtl.Compound(
				vtl.Qref(`expSet.put("#$entry.key", ":$entry.key")`),
				vtl.Qref(`expNames.put("#$entry.key", "$entry.key")`),
				vtl.Qref(`expValues.put(":$entry.key", $util.dynamodb.toDynamoDB($entry.value))`),
			)),
		),
		vtl.Set(vtl.Ref("expression"), vtl.String("SET")),
		vtl.ForEach(vtl.Ref("entry"), vtl.Raw("$expSet.entrySet()"),
			vtl.Set(vtl.Ref("expression"), vtl.String("$expression $entry.key = $entry.value")),
			vtl.IfInline(vtl.Raw("$foreach.hasNext()"),
				vtl.Set(vtl.Ref("expression"), vtl.String("$expression,"))),
		),
		vtl.Obj(
			vtl.Pair("version", vtl.String("2017-02-28")),
			vtl.Pair("operation", vtl.String("UpdateItem")),
			vtl.Pair("key", keyEntry(vtl.Obj(
				vtl.Pair("id", vtl.Raw("$util.dynamodb.toDynamoDBJson($ctx.args.input.id)")),
			))),
			vtl.Pair("update", vtl.Obj(
				vtl.Pair("expression", vtl.String("$expression")),
				vtl.Pair("expressionNames", vtl.Raw("$util.toJson($expNames)")),
				vtl.Pair("expressionValues", vtl.Raw("$util.toJson($expValues)")),
			)),
			vtl.Pair("condition", vtl.Raw("$util.toJson($condition)")),
		),
		vtl.ClosingComment("[End] Prepare DynamoDB UpdateItem Request."),
	)
	return vtl.Print(tree)
}

func deleteRequestTemplate() string {
	tree := vtl.Compound(
		vtl.Comment("[Start] Prepare DynamoDB DeleteItem Request."),
		keyFieldsPrologue(),
		conditionPrologue(),
		vtl.Obj(
			vtl.Pair("version", vtl.String("2017-02-28")),
			vtl.Pair("operation", vtl.String("DeleteItem")),
			vtl.Pair("key", keyEntry(vtl.Obj(
				vtl.Pair("id", vtl.Raw("$util.dynamodb.toDynamoDBJson($ctx.args.input.id)")),
			))),
			vtl.Pair("condition", vtl.Raw("$util.toJson($condition)")),
		),
		vtl.ClosingComment("[End] Prepare DynamoDB DeleteItem Request."),
	)
	return vtl.Print(tree)
}
