package stack

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Table-shaped resources carry their key structure in SDK terms
// (KeySchemaElement, AttributeDefinition) while stored as plain property
// trees. These converters translate between the two so plugins can run
// key algorithms on typed values and still emit closed-sum trees.

// KeySchemaValue converts a key schema to its property-tree form.
func KeySchemaValue(schema []types.KeySchemaElement) Value {
	out := make(List, 0, len(schema))
	for _, elem := range schema {
		out = append(out, Mapping{
			"AttributeName": Lit(aws.ToString(elem.AttributeName)),
			"KeyType":       Lit(string(elem.KeyType)),
		})
	}
	return out
}

// KeySchemaFromValue parses a property-tree key schema back into SDK
// elements. The second return is false when the tree does not have the
// shape KeySchemaValue produces.
func KeySchemaFromValue(v Value) ([]types.KeySchemaElement, bool) {
	list, ok := v.(List)
	if !ok {
		return nil, false
	}

	out := make([]types.KeySchemaElement, 0, len(list))
	for _, item := range list {
		m, ok := item.(Mapping)
		if !ok {
			return nil, false
		}
		name, ok := stringLit(m["AttributeName"])
		if !ok {
			return nil, false
		}
		keyType, ok := stringLit(m["KeyType"])
		if !ok {
			return nil, false
		}
		out = append(out, types.KeySchemaElement{
			AttributeName: aws.String(name),
			KeyType:       types.KeyType(keyType),
		})
	}
	return out, true
}

// AttributeDefinitionsValue converts attribute definitions to their
// property-tree form.
func AttributeDefinitionsValue(defs []types.AttributeDefinition) Value {
	out := make(List, 0, len(defs))
	for _, def := range defs {
		out = append(out, Mapping{
			"AttributeName": Lit(aws.ToString(def.AttributeName)),
			"AttributeType": Lit(string(def.AttributeType)),
		})
	}
	return out
}

// AttributeDefinitionsFromValue parses a property-tree attribute
// definition list back into SDK definitions.
func AttributeDefinitionsFromValue(v Value) ([]types.AttributeDefinition, bool) {
	list, ok := v.(List)
	if !ok {
		return nil, false
	}

	out := make([]types.AttributeDefinition, 0, len(list))
	for _, item := range list {
		m, ok := item.(Mapping)
		if !ok {
			return nil, false
		}
		name, ok := stringLit(m["AttributeName"])
		if !ok {
			return nil, false
		}
		attrType, ok := stringLit(m["AttributeType"])
		if !ok {
			return nil, false
		}
		out = append(out, types.AttributeDefinition{
			AttributeName: aws.String(name),
			AttributeType: types.ScalarAttributeType(attrType),
		})
	}
	return out, true
}

// SecondaryIndexValue builds one secondary index entry. A nil throughput
// omits the ProvisionedThroughput property, which is the correct shape
// for local indexes and for on-demand billing.
func SecondaryIndexValue(name string, schema []types.KeySchemaElement, projection types.ProjectionType, throughput Value) Value {
	m := Mapping{
		"IndexName": Lit(name),
		"KeySchema": KeySchemaValue(schema),
		"Projection": Mapping{
			"ProjectionType": Lit(string(projection)),
		},
	}
	if throughput != nil {
		m["ProvisionedThroughput"] = throughput
	}
	return m
}

// IndexNames returns the IndexName entries of an index list property, in
// list order.
func IndexNames(v Value) []string {
	list, ok := v.(List)
	if !ok {
		return nil
	}

	names := make([]string, 0, len(list))
	for _, item := range list {
		m, ok := item.(Mapping)
		if !ok {
			continue
		}
		if name, ok := stringLit(m["IndexName"]); ok {
			names = append(names, name)
		}
	}
	return names
}

// HashKeyName returns the attribute name holding the HASH role in the
// schema.
func HashKeyName(schema []types.KeySchemaElement) (string, bool) {
	for _, elem := range schema {
		if elem.KeyType == types.KeyTypeHash {
			return aws.ToString(elem.AttributeName), true
		}
	}
	return "", false
}

func stringLit(v Value) (string, bool) {
	lit, ok := v.(Literal)
	if !ok {
		return "", false
	}
	s, ok := lit.Value.(string)
	return s, ok
}
