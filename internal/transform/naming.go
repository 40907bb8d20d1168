package transform

import "strings"

// Logical names of the API-level resources shared by every compilation.
// Per-type resources reference these, so the names are fixed here rather
// than owned by any one plugin.
const (
	APIResourceID    = "GraphQLAPI"
	APIKeyResourceID = "GraphQLAPIKey"
	SchemaResourceID = "GraphQLSchema"
)

// Root-template declarations the table-shaping plugin records and later
// plugins reference when extending table resources.
const (
	EnvParameter         = "env"
	APINameParameter     = "AppSyncApiName"
	BillingModeParameter = "DynamoDBBillingMode"
	ReadIOPSParameter    = "DynamoDBModelTableReadIOPS"
	WriteIOPSParameter   = "DynamoDBModelTableWriteIOPS"

	PayPerRequestCondition  = "ShouldUsePayPerRequestBilling"
	HasEnvironmentCondition = "HasEnvironmentParameter"
)

// NoneEnvValue is the environment parameter default meaning "no
// environment": resource naming skips the environment suffix when the
// parameter holds it.
const NoneEnvValue = "NONE"

// ModelObjectKey is the template variable carrying a structured item
// key. Table-shaping templates consult it before falling back to the
// default id key, which is how key directives override key construction
// without rewriting whole templates.
const ModelObjectKey = "modelObjectKey"

// AuthCondition is the template variable carrying a conditional-write
// fragment. Mutation templates consult it before falling back to their
// default existence condition, which is how authorization directives
// inject write preconditions.
const AuthCondition = "authCondition"

// TableResourceID returns the logical name of a type's table resource.
func TableResourceID(typeName string) string {
	return typeName + "Table"
}

// DataSourceResourceID returns the logical name of a type's data source.
func DataSourceResourceID(typeName string) string {
	return typeName + "DataSource"
}

// TableRoleResourceID returns the logical name of the service role that
// grants the API access to a type's table.
func TableRoleResourceID(typeName string) string {
	return typeName + "IAMRole"
}

// GetResolverResourceID returns the logical name of a type's single-item
// query resolver.
func GetResolverResourceID(typeName string) string {
	return "Get" + typeName + "Resolver"
}

// ListResolverResourceID returns the logical name of a type's listing
// resolver.
func ListResolverResourceID(typeName string) string {
	return "List" + typeName + "Resolver"
}

// CreateResolverResourceID returns the logical name of a type's create
// resolver.
func CreateResolverResourceID(typeName string) string {
	return "Create" + typeName + "Resolver"
}

// UpdateResolverResourceID returns the logical name of a type's update
// resolver.
func UpdateResolverResourceID(typeName string) string {
	return "Update" + typeName + "Resolver"
}

// DeleteResolverResourceID returns the logical name of a type's delete
// resolver.
func DeleteResolverResourceID(typeName string) string {
	return "Delete" + typeName + "Resolver"
}

// QueryResolverResourceID returns the logical name of the resolver
// behind a synthesized index query field.
func QueryResolverResourceID(fieldName string) string {
	return "Query" + UpperFirst(fieldName) + "Resolver"
}

// GetFieldName returns the single-item query field name for a type.
func GetFieldName(typeName string) string {
	return "get" + typeName
}

// ListFieldName returns the listing query field name for a type.
func ListFieldName(typeName string) string {
	return "list" + typeName + "s"
}

// CreateFieldName returns the create mutation field name for a type.
func CreateFieldName(typeName string) string {
	return "create" + typeName
}

// UpdateFieldName returns the update mutation field name for a type.
func UpdateFieldName(typeName string) string {
	return "update" + typeName
}

// DeleteFieldName returns the delete mutation field name for a type.
func DeleteFieldName(typeName string) string {
	return "delete" + typeName
}

// CreateInputName returns the create mutation's input type name.
func CreateInputName(typeName string) string {
	return "Create" + typeName + "Input"
}

// UpdateInputName returns the update mutation's input type name.
func UpdateInputName(typeName string) string {
	return "Update" + typeName + "Input"
}

// DeleteInputName returns the delete mutation's input type name.
func DeleteInputName(typeName string) string {
	return "Delete" + typeName + "Input"
}

// ConnectionTypeName returns the paginated result type name for a type.
func ConnectionTypeName(typeName string) string {
	return typeName + "Connection"
}

// UpperFirst upper-cases the first character of s.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
