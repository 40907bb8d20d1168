package key

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/opmodel/schemaform/internal/stack"
	"github.com/opmodel/schemaform/internal/transform"
	"github.com/opmodel/schemaform/internal/transform/model"
)

// CondensedKeyName returns the synthetic range attribute name for a key
// with three or more fields: the tail fields joined with #.
func CondensedKeyName(fields []string) string {
	return strings.Join(fields[1:], "#")
}

// deriveKeySchema turns a validated field list into a key schema and the
// attribute definitions it needs. The first field is the partition key.
// Two fields make a plain sort key; three or more condense the tail into
// a single synthetic string attribute, so the result never holds more
// than two attribute definitions.
func deriveKeySchema(fields []string, attrType func(string) types.ScalarAttributeType) ([]types.KeySchemaElement, []types.AttributeDefinition) {
	elems := []types.KeySchemaElement{{
		AttributeName: aws.String(fields[0]),
		KeyType:       types.KeyTypeHash,
	}}
	attrs := []types.AttributeDefinition{{
		AttributeName: aws.String(fields[0]),
		AttributeType: attrType(fields[0]),
	}}

	switch {
	case len(fields) == 2:
		elems = append(elems, types.KeySchemaElement{
			AttributeName: aws.String(fields[1]),
			KeyType:       types.KeyTypeRange,
		})
		attrs = append(attrs, types.AttributeDefinition{
			AttributeName: aws.String(fields[1]),
			AttributeType: attrType(fields[1]),
		})
	case len(fields) > 2:
		condensed := CondensedKeyName(fields)
		elems = append(elems, types.KeySchemaElement{
			AttributeName: aws.String(condensed),
			KeyType:       types.KeyTypeRange,
		})
		attrs = append(attrs, types.AttributeDefinition{
			AttributeName: aws.String(condensed),
			AttributeType: types.ScalarAttributeTypeS,
		})
	}
	return elems, attrs
}

// applyPrimary replaces the table's primary key wholesale. Attribute
// definitions of the old key are pruned only when no remaining key
// schema still references them; definitions for the new key are merged
// in without duplicating names.
func applyPrimary(table *stack.Resource, elems []types.KeySchemaElement, attrs []types.AttributeDefinition) {
	table.SetProperty("KeySchema", stack.KeySchemaValue(elems))

	referenced := map[string]struct{}{}
	for _, e := range elems {
		referenced[aws.ToString(e.AttributeName)] = struct{}{}
	}
	for _, indexProp := range []string{"GlobalSecondaryIndexes", "LocalSecondaryIndexes"} {
		indexes, ok := table.GetProperty(indexProp)
		if !ok {
			continue
		}
		list, ok := indexes.(stack.List)
		if !ok {
			continue
		}
		for _, index := range list {
			m, ok := index.(stack.Mapping)
			if !ok {
				continue
			}
			if schema, ok := stack.KeySchemaFromValue(m["KeySchema"]); ok {
				for _, e := range schema {
					referenced[aws.ToString(e.AttributeName)] = struct{}{}
				}
			}
		}
	}

	var kept []types.AttributeDefinition
	if existing, ok := table.GetProperty("AttributeDefinitions"); ok {
		if defs, ok := stack.AttributeDefinitionsFromValue(existing); ok {
			for _, def := range defs {
				if _, ok := referenced[aws.ToString(def.AttributeName)]; ok {
					kept = append(kept, def)
				}
			}
		}
	}
	table.SetProperty("AttributeDefinitions", stack.AttributeDefinitionsValue(mergeAttributes(kept, attrs)))
}

// applySecondary appends a secondary index and reports its kind. An
// index sharing the table's current partition key becomes local;
// anything else becomes global and carries its own billing-gated
// throughput.
func applySecondary(table *stack.Resource, name string, elems []types.KeySchemaElement, attrs []types.AttributeDefinition) string {
	local := false
	if primaryValue, ok := table.GetProperty("KeySchema"); ok {
		if primary, ok := stack.KeySchemaFromValue(primaryValue); ok {
			primaryHash, _ := stack.HashKeyName(primary)
			newHash, _ := stack.HashKeyName(elems)
			local = primaryHash == newHash
		}
	}

	property := "GlobalSecondaryIndexes"
	var throughput stack.Value
	if local {
		property = "LocalSecondaryIndexes"
	} else {
		throughput = stack.If{
			Condition: transform.PayPerRequestCondition,
			Then:      stack.NoValue(),
			Else:      model.ProvisionedThroughput(),
		}
	}

	index := stack.SecondaryIndexValue(name, elems, types.ProjectionTypeAll, throughput)
	if existing, ok := table.GetProperty(property); ok {
		if list, ok := existing.(stack.List); ok {
			table.SetProperty(property, append(list, index))
		}
	} else {
		table.SetProperty(property, stack.List{index})
	}

	var existing []types.AttributeDefinition
	if v, ok := table.GetProperty("AttributeDefinitions"); ok {
		existing, _ = stack.AttributeDefinitionsFromValue(v)
	}
	table.SetProperty("AttributeDefinitions", stack.AttributeDefinitionsValue(mergeAttributes(existing, attrs)))

	if local {
		return "LSI"
	}
	return "GSI"
}

// mergeAttributes appends additions whose names are not already defined.
func mergeAttributes(existing, additions []types.AttributeDefinition) []types.AttributeDefinition {
	seen := map[string]struct{}{}
	for _, def := range existing {
		seen[aws.ToString(def.AttributeName)] = struct{}{}
	}
	merged := existing
	for _, def := range additions {
		if _, dup := seen[aws.ToString(def.AttributeName)]; dup {
			continue
		}
		seen[aws.ToString(def.AttributeName)] = struct{}{}
		merged = append(merged, def)
	}
	return merged
}
