package vtl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrint_ScalarLiterals(t *testing.T) {
	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{name: "string", expr: String("hello"), want: `"hello"`},
		{name: "int", expr: Int(42), want: "42"},
		{name: "float", expr: Float(1.5), want: "1.5"},
		{name: "bool true", expr: Bool(true), want: "true"},
		{name: "bool false", expr: Bool(false), want: "false"},
		{name: "null", expr: Null(), want: "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Print(tt.expr))
		})
	}
}

func TestPrint_References(t *testing.T) {
	assert.Equal(t, "$ctx.args.id", Print(Ref("ctx.args.id")))
	assert.Equal(t,
		`$util.qr($ctx.args.input.put("kind", "Post"))`,
		Print(Qref(`ctx.args.input.put("kind", "Post")`)))
}

func TestPrint_Object_KeepsInsertionOrder(t *testing.T) {
	obj := Obj(
		Pair("zeta", Int(1)),
		Pair("alpha", Int(2)),
	)

	want := `{
  "zeta": 1,
  "alpha": 2
}`
	assert.Equal(t, want, Print(obj))
}

func TestPrint_Object_Empty(t *testing.T) {
	assert.Equal(t, "{}", Print(Obj()))
}

func TestPrint_List_Inline(t *testing.T) {
	list := List(String("a"), Ref("b"), Int(3))
	assert.Equal(t, `["a", $b, 3]`, Print(list))
}

func TestPrint_If_Block(t *testing.T) {
	tree := If(Ref("ctx.args.force"), Set(Ref("limit"), Int(100)))

	want := `#if( $ctx.args.force )
  #set( $limit = 100 )
#end`
	assert.Equal(t, want, Print(tree))
}

func TestPrint_If_Inline(t *testing.T) {
	tree := IfInline(Ref("ok"), Ref("value"))
	assert.Equal(t, "#if( $ok ) $value #end", Print(tree))
}

func TestPrint_If_NestedBlocksIndentPerLevel(t *testing.T) {
	tree := If(Ref("a"), If(Ref("b"), Qref(`acc.add($item)`)))

	want := `#if( $a )
  #if( $b )
    $util.qr($acc.add($item))
  #end
#end`
	assert.Equal(t, want, Print(tree))
}

func TestPrint_IfElse_Block(t *testing.T) {
	tree := IfElse(
		Ref("isAuthorized"),
		Raw("$util.toJson($ctx.result)"),
		Raw("$util.unauthorized()"),
	)

	want := `#if( $isAuthorized )
  $util.toJson($ctx.result)
#else
  $util.unauthorized()
#end`
	assert.Equal(t, want, Print(tree))
}

func TestPrint_ForEach_Block(t *testing.T) {
	tree := ForEach(Ref("item"), Ref("ctx.result.items"),
		If(Ref("item.visible"), Qref("items.add($item)")),
	)

	want := `#foreach( $item in $ctx.result.items )
  #if( $item.visible )
    $util.qr($items.add($item))
  #end
#end`
	assert.Equal(t, want, Print(tree))
}

func TestPrint_Set_WithObjectValue(t *testing.T) {
	tree := Set(Ref("key"), Obj(
		Pair("id", Obj(Pair("S", Ref("ctx.args.id")))),
	))

	want := `#set( $key = {
  "id": {
    "S": $ctx.args.id
  }
} )`
	assert.Equal(t, want, Print(tree))
}

func TestPrint_CommentBrackets(t *testing.T) {
	assert.Equal(t, "## Begin key setup **", Print(Comment("Begin key setup")))
	assert.Equal(t, "** End key setup ##", Print(ClosingComment("End key setup")))
}

func TestPrint_Compound_JoinsStatements(t *testing.T) {
	tree := Compound(
		Comment("Prepare request"),
		Set(Ref("v"), Int(1)),
		Newline(),
		Raw("$util.toJson($ctx.args)"),
	)

	want := `## Prepare request **
#set( $v = 1 )

$util.toJson($ctx.args)`
	assert.Equal(t, want, Print(tree))
}

func TestPrint_BooleanOperators(t *testing.T) {
	assert.Equal(t, "($a && $b)", Print(And(Ref("a"), Ref("b"))))
	assert.Equal(t, "($a || $b || $c)", Print(Or(Ref("a"), Ref("b"), Ref("c"))))
	assert.Equal(t, "!$isAuthorized", Print(Not(Ref("isAuthorized"))))
	assert.Equal(t, `$role == "admin"`, Print(Equals(Ref("role"), String("admin"))))
	assert.Equal(t, "$owner != null", Print(NotEquals(Ref("owner"), Null())))
	assert.Equal(t, "($allowed)", Print(Parens(Ref("allowed"))))
}

func TestPrint_Deterministic(t *testing.T) {
	tree := Compound(
		Comment("Begin"),
		ForEach(Ref("g"), Ref("ctx.identity.claims.groups"),
			If(Equals(Ref("g"), String("admin")), Set(Ref("isStatic"), Bool(true))),
		),
		ClosingComment("End"),
	)

	assert.Equal(t, Print(tree), Print(tree))
}
