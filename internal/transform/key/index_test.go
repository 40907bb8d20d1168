package key

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/schemaform/internal/stack"
	"github.com/opmodel/schemaform/internal/transform"
	"github.com/opmodel/schemaform/internal/transform/model"
)

func stringAttr(name string) types.ScalarAttributeType {
	if name == "amount" {
		return types.ScalarAttributeTypeN
	}
	return types.ScalarAttributeTypeS
}

func TestDeriveKeySchema_SingleField(t *testing.T) {
	elems, attrs := deriveKeySchema([]string{"email"}, stringAttr)

	require.Len(t, elems, 1)
	assert.Equal(t, "email", aws.ToString(elems[0].AttributeName))
	assert.Equal(t, types.KeyTypeHash, elems[0].KeyType)

	require.Len(t, attrs, 1)
	assert.Equal(t, types.ScalarAttributeTypeS, attrs[0].AttributeType)
}

func TestDeriveKeySchema_TwoFields(t *testing.T) {
	elems, attrs := deriveKeySchema([]string{"email", "amount"}, stringAttr)

	require.Len(t, elems, 2)
	assert.Equal(t, "amount", aws.ToString(elems[1].AttributeName))
	assert.Equal(t, types.KeyTypeRange, elems[1].KeyType)

	require.Len(t, attrs, 2)
	assert.Equal(t, types.ScalarAttributeTypeS, attrs[0].AttributeType)
	assert.Equal(t, types.ScalarAttributeTypeN, attrs[1].AttributeType)
}

func TestDeriveKeySchema_CondensesCompositeTail(t *testing.T) {
	elems, attrs := deriveKeySchema([]string{"email", "amount", "date"}, stringAttr)

	require.Len(t, elems, 2)
	assert.Equal(t, "email", aws.ToString(elems[0].AttributeName))
	assert.Equal(t, "amount#date", aws.ToString(elems[1].AttributeName))
	assert.Equal(t, types.KeyTypeRange, elems[1].KeyType)

	require.Len(t, attrs, 2, "condensed keys define only the hash and the synthetic range attribute")
	assert.Equal(t, "amount#date", aws.ToString(attrs[1].AttributeName))
	assert.Equal(t, types.ScalarAttributeTypeS, attrs[1].AttributeType,
		"the condensed attribute stores the joined text, so it is a string even over numeric fields")
}

func TestPlugin_Apply_PrimaryKeepsAttributesReferencedByIndexes(t *testing.T) {
	ctx := applyKeys(t, orderType(
		keyDirective("byEmail", []string{"email", "id"}, ""),
		keyDirective("", []string{"date"}, ""),
	))

	elems := tableKey(t, ctx)
	require.Len(t, elems, 1)
	assert.Equal(t, "date", aws.ToString(elems[0].AttributeName))

	attrs := tableAttributes(t, ctx)
	assert.Contains(t, attrs, "id", "still referenced by the byEmail index")
	assert.Contains(t, attrs, "email")
	assert.Contains(t, attrs, "date")
}

func TestPlugin_Apply_LocalIndexWhenHashMatchesPrimary(t *testing.T) {
	ctx := applyKeys(t, orderType(keyDirective("byDate", []string{"id", "date"}, "")))

	table, _ := ctx.GetResource("OrderTable")
	local, ok := table.GetProperty("LocalSecondaryIndexes")
	require.True(t, ok)
	assert.Equal(t, []string{"byDate"}, stack.IndexNames(local))

	_, ok = table.GetProperty("GlobalSecondaryIndexes")
	assert.False(t, ok)

	entry := local.(stack.List)[0].(stack.Mapping)
	_, ok = entry["ProvisionedThroughput"]
	assert.False(t, ok, "local indexes share the table's throughput")
}

func TestPlugin_Apply_GlobalIndexCarriesThroughput(t *testing.T) {
	ctx := applyKeys(t, orderType(keyDirective("byEmail", []string{"email", "date"}, "")))

	table, _ := ctx.GetResource("OrderTable")
	global, ok := table.GetProperty("GlobalSecondaryIndexes")
	require.True(t, ok)

	entry := global.(stack.List)[0].(stack.Mapping)
	assert.Equal(t, stack.If{
		Condition: transform.PayPerRequestCondition,
		Then:      stack.NoValue(),
		Else:      model.ProvisionedThroughput(),
	}, entry["ProvisionedThroughput"])
	assert.Equal(t, stack.Mapping{"ProjectionType": stack.Lit("ALL")}, entry["Projection"])
}

func TestPlugin_Apply_MultipleIndexesShareAttributes(t *testing.T) {
	ctx := applyKeys(t, orderType(
		keyDirective("byEmail", []string{"email", "date"}, ""),
		keyDirective("byKind", []string{"kind", "date"}, ""),
	))

	table, _ := ctx.GetResource("OrderTable")
	global, _ := table.GetProperty("GlobalSecondaryIndexes")
	assert.Equal(t, []string{"byEmail", "byKind"}, stack.IndexNames(global))

	attrs := tableAttributes(t, ctx)
	assert.Equal(t, map[string]types.ScalarAttributeType{
		"id":    types.ScalarAttributeTypeS,
		"email": types.ScalarAttributeTypeS,
		"date":  types.ScalarAttributeTypeS,
		"kind":  types.ScalarAttributeTypeS,
	}, attrs, "attributes shared across indexes appear once")
}

// Classification happens against the primary key at the moment a named
// key is processed. A primary replacement later in declaration order
// does not revisit it, so an index declared local stays local even when
// its hash no longer matches.
func TestPlugin_Apply_ClassificationNotRevisited(t *testing.T) {
	ctx := applyKeys(t, orderType(
		keyDirective("byDate", []string{"id", "date"}, ""),
		keyDirective("", []string{"email"}, ""),
	))

	table, _ := ctx.GetResource("OrderTable")
	local, ok := table.GetProperty("LocalSecondaryIndexes")
	require.True(t, ok)
	assert.Equal(t, []string{"byDate"}, stack.IndexNames(local))

	elems := tableKey(t, ctx)
	assert.Equal(t, "email", aws.ToString(elems[0].AttributeName))

	attrs := tableAttributes(t, ctx)
	assert.Contains(t, attrs, "id", "the stale index still references the old hash attribute")
}
