// Package model implements the model directive: the table-shaping
// transform that gives a schema type its storage table, API wiring, and
// CRUD operations. It must run before any directive that extends the
// table, such as key or auth, because those read the resources this
// plugin registers.
package model

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/charmbracelet/log"

	"github.com/opmodel/schemaform/internal/output"
	"github.com/opmodel/schemaform/internal/schema"
	"github.com/opmodel/schemaform/internal/stack"
	"github.com/opmodel/schemaform/internal/transform"
)

// DirectiveName is the directive this plugin owns.
const DirectiveName = "model"

// DefaultBillingMode is the billing mode parameter default when the
// options leave it unset.
const DefaultBillingMode = "PAY_PER_REQUEST"

const defaultAPIName = "schemaform-api"

// Options configure the generated resources.
type Options struct {
	// Environment is the environment parameter's default value. Empty
	// means no environment.
	Environment string

	// DeletionPolicy applies to every generated table. Empty leaves the
	// target format's default in place.
	DeletionPolicy string

	// BillingMode is the billing mode parameter's default value.
	BillingMode string
}

// Plugin is the model directive transform.
type Plugin struct {
	opts Options
	log  *log.Logger
}

// New returns the model plugin.
func New(opts Options) *Plugin {
	if opts.BillingMode == "" {
		opts.BillingMode = DefaultBillingMode
	}
	return &Plugin{opts: opts, log: output.ModuleLogger("model")}
}

// Name implements transform.Plugin.
func (p *Plugin) Name() string { return "model" }

// Directive implements transform.Plugin.
func (p *Plugin) Directive() string { return DirectiveName }

// Apply generates the type's table, data source, service role, CRUD
// resolvers, and API surface, and assigns all of it to the type's
// nested stack.
func (p *Plugin) Apply(typ *schema.SchemaType, _ *schema.Directive, ctx *transform.Context) error {
	if _, exists := ctx.GetResource(transform.TableResourceID(typ.Name)); exists {
		return &transform.DirectiveError{
			TypeName:      typ.Name,
			DirectiveName: DirectiveName,
			Message:       "declared more than once on the type",
		}
	}

	p.log.Debug("shaping table", "type", typ.Name)

	p.declareAPI(ctx)
	p.declareRootDeclarations(ctx)

	ctx.SetResource(transform.TableResourceID(typ.Name), p.tableResource(typ.Name))
	ctx.SetResource(transform.TableRoleResourceID(typ.Name), roleResource(typ.Name))
	ctx.SetResource(transform.DataSourceResourceID(typ.Name), dataSourceResource(typ.Name))

	declareResolvers(typ.Name, ctx)
	declareSchemaSurface(typ, ctx)

	for _, id := range typeResourceIDs(typ.Name) {
		ctx.MapTypeToStack(typ.Name, id)
	}

	return nil
}

// declareAPI registers the compilation-wide API resources on first use.
// They stay in the root template because no stack pattern claims them.
func (p *Plugin) declareAPI(ctx *transform.Context) {
	if _, ok := ctx.GetResource(transform.APIResourceID); ok {
		return
	}

	ctx.SetResource(transform.APIResourceID, &stack.Resource{
		Type: "AWS::AppSync::GraphQLApi",
		Properties: stack.Mapping{
			"Name": stack.If{
				Condition: transform.HasEnvironmentCondition,
				Then: stack.Join("-",
					stack.Ref{Name: transform.APINameParameter},
					stack.Ref{Name: transform.EnvParameter}),
				Else: stack.Ref{Name: transform.APINameParameter},
			},
			"AuthenticationType": stack.Lit("API_KEY"),
		},
	})

	ctx.SetResource(transform.APIKeyResourceID, &stack.Resource{
		Type: "AWS::AppSync::ApiKey",
		Properties: stack.Mapping{
			"ApiId": stack.GetAtt{Name: transform.APIResourceID, Attribute: "ApiId"},
		},
	})

	ctx.SetResource(transform.SchemaResourceID, &stack.Resource{
		Type: "AWS::AppSync::GraphQLSchema",
		Properties: stack.Mapping{
			"ApiId": stack.GetAtt{Name: transform.APIResourceID, Attribute: "ApiId"},
			"DefinitionS3Location": stack.Join("",
				stack.Lit("s3://"),
				stack.Ref{Name: "S3DeploymentBucket"},
				stack.Lit("/"),
				stack.Ref{Name: "S3DeploymentRootKey"},
				stack.Lit("/schema.graphql")),
		},
	})

	ctx.SetOutput("GraphQLAPIIdOutput", stack.Output{
		Description: "The id of the generated API.",
		Value:       stack.GetAtt{Name: transform.APIResourceID, Attribute: "ApiId"},
	})
	ctx.SetOutput("GraphQLAPIEndpointOutput", stack.Output{
		Description: "The endpoint URL of the generated API.",
		Value:       stack.GetAtt{Name: transform.APIResourceID, Attribute: "GraphQLUrl"},
	})
	ctx.SetOutput("GraphQLAPIKeyOutput", stack.Output{
		Description: "The API key for approved clients.",
		Value:       stack.GetAtt{Name: transform.APIKeyResourceID, Attribute: "ApiKey"},
	})
}

// declareRootDeclarations records the parameters and conditions the
// generated resources rely on. Re-declaration by later types writes the
// same values, so the calls are idempotent.
func (p *Plugin) declareRootDeclarations(ctx *transform.Context) {
	env := p.opts.Environment
	if env == "" {
		env = transform.NoneEnvValue
	}

	ctx.SetParameter(transform.EnvParameter, stack.Parameter{
		Type:        "String",
		Description: "The environment name the resources are deployed into.",
		Default:     env,
	})
	ctx.SetParameter(transform.APINameParameter, stack.Parameter{
		Type:    "String",
		Default: defaultAPIName,
	})
	ctx.SetParameter(transform.BillingModeParameter, stack.Parameter{
		Type:    "String",
		Default: p.opts.BillingMode,
	})
	ctx.SetParameter(transform.ReadIOPSParameter, stack.Parameter{
		Type:        "Number",
		Description: "Read capacity for provisioned tables and indexes.",
		Default:     5,
	})
	ctx.SetParameter(transform.WriteIOPSParameter, stack.Parameter{
		Type:        "Number",
		Description: "Write capacity for provisioned tables and indexes.",
		Default:     5,
	})

	ctx.SetCondition(transform.PayPerRequestCondition, stack.EqualsCondition(
		stack.Ref{Name: transform.BillingModeParameter}, "PAY_PER_REQUEST"))
	ctx.SetCondition(transform.HasEnvironmentCondition, stack.Mapping{
		"Fn::Not": stack.List{stack.EqualsCondition(
			stack.Ref{Name: transform.EnvParameter}, transform.NoneEnvValue)},
	})
}

// tableResource builds the type's table with the default id primary key.
// Key directives replace the key structure afterwards.
func (p *Plugin) tableResource(typeName string) *stack.Resource {
	keySchema := []types.KeySchemaElement{{
		AttributeName: aws.String("id"),
		KeyType:       types.KeyTypeHash,
	}}
	attributes := []types.AttributeDefinition{{
		AttributeName: aws.String("id"),
		AttributeType: types.ScalarAttributeTypeS,
	}}

	return &stack.Resource{
		Type:           "AWS::DynamoDB::Table",
		DeletionPolicy: p.opts.DeletionPolicy,
		Properties: stack.Mapping{
			"TableName":            environmentName(typeName + "Table"),
			"KeySchema":            stack.KeySchemaValue(keySchema),
			"AttributeDefinitions": stack.AttributeDefinitionsValue(attributes),
			"BillingMode": stack.If{
				Condition: transform.PayPerRequestCondition,
				Then:      stack.Lit("PAY_PER_REQUEST"),
				Else:      stack.NoValue(),
			},
			"ProvisionedThroughput": stack.If{
				Condition: transform.PayPerRequestCondition,
				Then:      stack.NoValue(),
				Else:      ProvisionedThroughput(),
			},
			"StreamSpecification": stack.Mapping{
				"StreamViewType": stack.Lit("NEW_AND_OLD_IMAGES"),
			},
		},
	}
}

// ProvisionedThroughput returns the read/write capacity mapping wired to
// the root capacity parameters. Index-extending plugins reuse it so
// every key structure bills through the same knobs.
func ProvisionedThroughput() stack.Value {
	return stack.Mapping{
		"ReadCapacityUnits":  stack.Ref{Name: transform.ReadIOPSParameter},
		"WriteCapacityUnits": stack.Ref{Name: transform.WriteIOPSParameter},
	}
}

func roleResource(typeName string) *stack.Resource {
	tableID := transform.TableResourceID(typeName)

	return &stack.Resource{
		Type: "AWS::IAM::Role",
		Properties: stack.Mapping{
			"RoleName": environmentName(typeName + "Role"),
			"AssumeRolePolicyDocument": stack.Mapping{
				"Version": stack.Lit("2012-10-17"),
				"Statement": stack.List{stack.Mapping{
					"Effect":    stack.Lit("Allow"),
					"Principal": stack.Mapping{"Service": stack.Lit("appsync.amazonaws.com")},
					"Action":    stack.Lit("sts:AssumeRole"),
				}},
			},
			"Policies": stack.List{stack.Mapping{
				"PolicyName": stack.Lit("DynamoDBAccess"),
				"PolicyDocument": stack.Mapping{
					"Version": stack.Lit("2012-10-17"),
					"Statement": stack.List{stack.Mapping{
						"Effect": stack.Lit("Allow"),
						"Action": stack.List{
							stack.Lit("dynamodb:BatchGetItem"),
							stack.Lit("dynamodb:BatchWriteItem"),
							stack.Lit("dynamodb:PutItem"),
							stack.Lit("dynamodb:DeleteItem"),
							stack.Lit("dynamodb:GetItem"),
							stack.Lit("dynamodb:Scan"),
							stack.Lit("dynamodb:Query"),
							stack.Lit("dynamodb:UpdateItem"),
						},
						"Resource": stack.List{
							stack.GetAtt{Name: tableID, Attribute: "Arn"},
							stack.Join("/",
								stack.GetAtt{Name: tableID, Attribute: "Arn"},
								stack.Lit("index"),
								stack.Lit("*")),
						},
					}},
				},
			}},
		},
	}
}

func dataSourceResource(typeName string) *stack.Resource {
	return &stack.Resource{
		Type: "AWS::AppSync::DataSource",
		Properties: stack.Mapping{
			"ApiId":          stack.GetAtt{Name: transform.APIResourceID, Attribute: "ApiId"},
			"Name":           stack.Lit(typeName + "Table"),
			"Type":           stack.Lit("AMAZON_DYNAMODB"),
			"ServiceRoleArn": stack.GetAtt{Name: transform.TableRoleResourceID(typeName), Attribute: "Arn"},
			"DynamoDBConfig": stack.Mapping{
				"AwsRegion": stack.Ref{Name: "AWS::Region"},
				"TableName": stack.Ref{Name: transform.TableResourceID(typeName)},
			},
		},
	}
}

// environmentName suffixes base with the environment name when one is
// set.
func environmentName(base string) stack.Value {
	return stack.If{
		Condition: transform.HasEnvironmentCondition,
		Then:      stack.Join("-", stack.Lit(base), stack.Ref{Name: transform.EnvParameter}),
		Else:      stack.Lit(base),
	}
}

// typeResourceIDs lists every logical name the plugin generates for one
// type, which is exactly the set assigned to the type's nested stack.
func typeResourceIDs(typeName string) []string {
	return []string{
		transform.TableResourceID(typeName),
		transform.TableRoleResourceID(typeName),
		transform.DataSourceResourceID(typeName),
		transform.GetResolverResourceID(typeName),
		transform.ListResolverResourceID(typeName),
		transform.CreateResolverResourceID(typeName),
		transform.UpdateResolverResourceID(typeName),
		transform.DeleteResolverResourceID(typeName),
	}
}
