package linker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/opmodel/schemaform/internal/stack"
)

func TestWalk_RecordsRefAtPath(t *testing.T) {
	props := stack.Mapping{"Bar": stack.Ref{Name: "Foo"}}

	refs := Walk(props, Path{"Resources", "Foo", "Properties"})

	assert.Equal(t, ReferenceMap{
		"Foo": {{"Resources", "Foo", "Properties", "Bar"}},
	}, refs)
}

func TestWalk_RecordsGetAttByName(t *testing.T) {
	props := stack.Mapping{"RoleArn": stack.GetAtt{Name: "TableRole", Attribute: "Arn"}}

	refs := Walk(props, Path{"Resources", "Resolver", "Properties"})

	require.Contains(t, refs, "TableRole")
	assert.Equal(t, []Path{{"Resources", "Resolver", "Properties", "RoleArn"}}, refs["TableRole"])
}

func TestWalk_ListIndicesAreDecimalSegments(t *testing.T) {
	v := stack.List{
		stack.Lit("first"),
		stack.Ref{Name: "Second"},
		stack.Ref{Name: "Third"},
	}

	refs := Walk(v, Path{"Resources", "R", "Properties", "Items"})

	assert.Equal(t, []Path{{"Resources", "R", "Properties", "Items", "1"}}, refs["Second"])
	assert.Equal(t, []Path{{"Resources", "R", "Properties", "Items", "2"}}, refs["Third"])
}

func TestWalk_DescendsBothConditionBranches(t *testing.T) {
	v := stack.If{
		Condition: "UseProvisioned",
		Then:      stack.Ref{Name: "Throughput"},
		Else:      stack.GetAtt{Name: "Defaults", Attribute: "Throughput"},
	}

	refs := Walk(v, Path{"Resources", "Table", "Properties", "ProvisionedThroughput"})

	assert.Equal(t, []Path{
		{"Resources", "Table", "Properties", "ProvisionedThroughput", "Fn::If", "1"},
	}, refs["Throughput"])
	assert.Equal(t, []Path{
		{"Resources", "Table", "Properties", "ProvisionedThroughput", "Fn::If", "2"},
	}, refs["Defaults"])
	assert.NotContains(t, refs, "UseProvisioned")
}

func TestWalk_LiteralsProduceNothing(t *testing.T) {
	assert.Empty(t, Walk(stack.Lit("plain"), Path{"Resources", "R", "Properties"}))
	assert.Empty(t, Walk(nil, Path{"Resources", "R", "Properties"}))
}

func TestWalk_SiblingPathsDoNotShareStorage(t *testing.T) {
	props := stack.Mapping{
		"A": stack.Ref{Name: "First"},
		"B": stack.Ref{Name: "Second"},
	}

	refs := Walk(props, Path{"Resources", "R", "Properties"})

	refs["First"][0][len(refs["First"][0])-1] = "mutated"
	assert.Equal(t, []Path{{"Resources", "R", "Properties", "B"}}, refs["Second"])
}

func TestWalk_SameNameAccumulatesPaths(t *testing.T) {
	props := stack.Mapping{
		"TableName": stack.Ref{Name: "PostTable"},
		"Policies": stack.List{
			stack.Mapping{"Resource": stack.GetAtt{Name: "PostTable", Attribute: "Arn"}},
		},
	}

	refs := Walk(props, Path{"Resources", "Role", "Properties"})

	assert.Equal(t, []Path{
		{"Resources", "Role", "Properties", "Policies", "0", "Resource"},
		{"Resources", "Role", "Properties", "TableName"},
	}, refs["PostTable"])
}

func TestWalkTemplate_CoversResourcesAndOutputs(t *testing.T) {
	tmpl := stack.NewTemplate("test")
	tmpl.Resources["Resolver"] = &stack.Resource{
		Type:       "AWS::AppSync::Resolver",
		Properties: stack.Mapping{"DataSourceName": stack.GetAtt{Name: "Source", Attribute: "Name"}},
	}
	tmpl.Resources["Source"] = &stack.Resource{
		Type:       "AWS::AppSync::DataSource",
		Properties: stack.Mapping{"ApiId": stack.Ref{Name: "ApiId"}},
	}
	tmpl.Outputs["SourceName"] = stack.Output{Value: stack.GetAtt{Name: "Source", Attribute: "Name"}}

	refs := WalkTemplate(tmpl)

	assert.Equal(t, ReferenceMap{
		"ApiId":  {{"Resources", "Source", "Properties", "ApiId"}},
		"Source": {{"Resources", "Resolver", "Properties", "DataSourceName"}, {"Outputs", "SourceName", "Value"}},
	}, refs)
}

func TestWalkTemplate_EqualsFoldOfSingleWalks(t *testing.T) {
	tmpl := stack.NewTemplate("test")
	tmpl.Resources["B"] = &stack.Resource{
		Type:       "X",
		Properties: stack.Mapping{"P": stack.Ref{Name: "Shared"}},
	}
	tmpl.Resources["A"] = &stack.Resource{
		Type:       "X",
		Properties: stack.Mapping{"Q": stack.Ref{Name: "Shared"}},
	}
	tmpl.Outputs["Out"] = stack.Output{Value: stack.Ref{Name: "Shared"}}

	folded := Merge(
		Merge(
			Walk(tmpl.Resources["A"].Properties, Path{"Resources", "A", "Properties"}),
			Walk(tmpl.Resources["B"].Properties, Path{"Resources", "B", "Properties"}),
		),
		Walk(tmpl.Outputs["Out"].Value, Path{"Outputs", "Out", "Value"}),
	)

	assert.Equal(t, folded, WalkTemplate(tmpl))
}

func TestReferenceMap_NamesSorted(t *testing.T) {
	refs := ReferenceMap{
		"Zeta":  {{"Resources", "Z"}},
		"Alpha": {{"Resources", "A"}},
		"Mid":   {{"Resources", "M"}},
	}

	assert.Equal(t, []string{"Alpha", "Mid", "Zeta"}, refs.Names())
}

func TestMerge_ConcatenatesLeftFirst(t *testing.T) {
	a := ReferenceMap{"Table": {{"Resources", "A", "Properties", "Name"}}}
	b := ReferenceMap{
		"Table": {{"Resources", "B", "Properties", "Name"}},
		"Role":  {{"Resources", "B", "Properties", "Role"}},
	}

	merged := Merge(a, b)

	assert.Equal(t, ReferenceMap{
		"Table": {
			{"Resources", "A", "Properties", "Name"},
			{"Resources", "B", "Properties", "Name"},
		},
		"Role": {{"Resources", "B", "Properties", "Role"}},
	}, merged)
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	a := ReferenceMap{"X": {{"Resources", "A"}}}
	b := ReferenceMap{"X": {{"Resources", "B"}}}

	Merge(a, b)

	assert.Equal(t, ReferenceMap{"X": {{"Resources", "A"}}}, a)
	assert.Equal(t, ReferenceMap{"X": {{"Resources", "B"}}}, b)
}

var pathSegments = []string{"Resources", "Properties", "Table", "Policies", "0", "1", "Fn::If"}

func referenceMapGen() *rapid.Generator[ReferenceMap] {
	pathGen := rapid.Custom(func(t *rapid.T) Path {
		return Path(rapid.SliceOfN(rapid.SampledFrom(pathSegments), 1, 4).Draw(t, "segments"))
	})
	nameGen := rapid.StringMatching(`[A-Z][a-z]{0,4}`)
	return rapid.Custom(func(t *rapid.T) ReferenceMap {
		return ReferenceMap(rapid.MapOfN(nameGen, rapid.SliceOfN(pathGen, 1, 3), 0, 4).Draw(t, "entries"))
	})
}

func TestMerge_Associative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		gen := referenceMapGen()
		a := gen.Draw(t, "a")
		b := gen.Draw(t, "b")
		c := gen.Draw(t, "c")

		left := Merge(Merge(a, b), c)
		right := Merge(a, Merge(b, c))
		assert.Equal(t, left, right)
	})
}

func TestMerge_EmptyMapIsIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := referenceMapGen().Draw(t, "m")

		assert.Equal(t, m, Merge(m, ReferenceMap{}))
		assert.Equal(t, m, Merge(ReferenceMap{}, m))
	})
}
