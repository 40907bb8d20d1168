// Package weights provides ordering weights for CloudFormation
// resources. Resources with lower weights are listed first, roughly
// matching the order they come alive during a deployment.
package weights

import "strings"

// Default weights for the resource types the compiler emits.
const (
	WeightGraphQLAPI    = 0
	WeightAPIKey        = 5
	WeightSchema        = 10
	WeightIAMRole       = 15
	WeightIAMPolicy     = 18
	WeightTable         = 20
	WeightDataSource    = 30
	WeightFunctionConf  = 35
	WeightResolver      = 40
	WeightNestedStack   = 50
	WeightLambda        = 60
	WeightEventMapping  = 65
	WeightDefault       = 1000
)

// typeWeights maps a full CloudFormation resource type to its weight.
var typeWeights = map[string]int{
	"AWS::AppSync::GraphQLApi":            WeightGraphQLAPI,
	"AWS::AppSync::ApiKey":                WeightAPIKey,
	"AWS::AppSync::GraphQLSchema":         WeightSchema,
	"AWS::IAM::Role":                      WeightIAMRole,
	"AWS::IAM::ManagedPolicy":             WeightIAMPolicy,
	"AWS::IAM::Policy":                    WeightIAMPolicy,
	"AWS::DynamoDB::Table":                WeightTable,
	"AWS::AppSync::DataSource":            WeightDataSource,
	"AWS::AppSync::FunctionConfiguration": WeightFunctionConf,
	"AWS::AppSync::Resolver":              WeightResolver,
	"AWS::CloudFormation::Stack":          WeightNestedStack,
	"AWS::Lambda::Function":               WeightLambda,
	"AWS::Lambda::EventSourceMapping":     WeightEventMapping,
}

// serviceWeights is the fallback for resource types without an exact
// entry, keyed on the service segment of "AWS::<Service>::<Type>".
var serviceWeights = map[string]int{
	"IAM":            WeightIAMRole,
	"DynamoDB":       WeightTable,
	"AppSync":        WeightDataSource,
	"Lambda":         WeightLambda,
	"CloudFormation": WeightNestedStack,
}

// Weight returns the ordering weight for a CloudFormation resource
// type. Lower weights are listed first.
func Weight(resourceType string) int {
	if w, ok := typeWeights[resourceType]; ok {
		return w
	}

	parts := strings.Split(resourceType, "::")
	if len(parts) == 3 {
		if w, ok := serviceWeights[parts[1]]; ok {
			return w
		}
	}

	return WeightDefault
}
