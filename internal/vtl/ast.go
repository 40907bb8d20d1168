// Package vtl models resolver mapping templates as immutable expression
// trees and renders them to the template text format the execution layer
// consumes. Build trees with the constructor functions and render them
// with Print; nodes are never mutated after construction.
package vtl

// Expression is a node in a resolver template tree.
type Expression interface {
	expression()
}

// IfNode renders a conditional block guarded by a predicate.
type IfNode struct {
	Predicate Expression
	Expr      Expression

	// Inline renders the whole conditional on a single line.
	Inline bool
}

func (IfNode) expression() {}

// If returns a conditional block node.
func If(predicate, expr Expression) IfNode {
	return IfNode{Predicate: predicate, Expr: expr}
}

// IfInline returns a single-line conditional node.
func IfInline(predicate, expr Expression) IfNode {
	return IfNode{Predicate: predicate, Expr: expr, Inline: true}
}

// IfElseNode renders a conditional with both branches.
type IfElseNode struct {
	Predicate Expression
	IfExpr    Expression
	ElseExpr  Expression
	Inline    bool
}

func (IfElseNode) expression() {}

// IfElse returns a two-branch conditional node.
func IfElse(predicate, ifExpr, elseExpr Expression) IfElseNode {
	return IfElseNode{Predicate: predicate, IfExpr: ifExpr, ElseExpr: elseExpr}
}

// ForEachNode renders iteration over a collection, binding each element
// to the loop variable before evaluating the body expressions.
type ForEachNode struct {
	Key         ReferenceNode
	Collection  Expression
	Expressions []Expression
}

func (ForEachNode) expression() {}

// ForEach returns an iteration node.
func ForEach(key ReferenceNode, collection Expression, expressions ...Expression) ForEachNode {
	return ForEachNode{Key: key, Collection: collection, Expressions: expressions}
}

// SetNode renders a variable assignment.
type SetNode struct {
	Key   ReferenceNode
	Value Expression
}

func (SetNode) expression() {}

// Set returns an assignment node.
func Set(key ReferenceNode, value Expression) SetNode {
	return SetNode{Key: key, Value: value}
}

// ReferenceNode renders a variable reference. The value is stored without
// the leading dollar sign; the printer adds it.
type ReferenceNode struct {
	Value string
}

func (ReferenceNode) expression() {}

// Ref returns a reference node for the given variable path.
func Ref(value string) ReferenceNode {
	return ReferenceNode{Value: value}
}

// QuietReferenceNode renders a reference whose evaluation result is
// suppressed, used for statements invoked purely for their side effect.
type QuietReferenceNode struct {
	Value string
}

func (QuietReferenceNode) expression() {}

// Qref returns a quiet reference node. As with Ref, the leading dollar
// sign is added by the printer.
func Qref(value string) QuietReferenceNode {
	return QuietReferenceNode{Value: value}
}

// ObjectNode renders an object literal. Entries keep insertion order so
// rendered templates are deterministic.
type ObjectNode struct {
	Entries []ObjectEntry
}

func (ObjectNode) expression() {}

// ObjectEntry is one key/value pair of an ObjectNode.
type ObjectEntry struct {
	Key   string
	Value Expression
}

// Obj returns an object literal node.
func Obj(entries ...ObjectEntry) ObjectNode {
	return ObjectNode{Entries: entries}
}

// Pair returns one object entry.
func Pair(key string, value Expression) ObjectEntry {
	return ObjectEntry{Key: key, Value: value}
}

// ListNode renders a list literal on a single line.
type ListNode struct {
	Items []Expression
}

func (ListNode) expression() {}

// List returns a list literal node.
func List(items ...Expression) ListNode {
	return ListNode{Items: items}
}

// StringNode renders a double-quoted string literal.
type StringNode struct {
	Value string
}

func (StringNode) expression() {}

// String returns a string literal node.
func String(value string) StringNode {
	return StringNode{Value: value}
}

// IntNode renders an integer literal.
type IntNode struct {
	Value int
}

func (IntNode) expression() {}

// Int returns an integer literal node.
func Int(value int) IntNode {
	return IntNode{Value: value}
}

// FloatNode renders a floating point literal.
type FloatNode struct {
	Value float64
}

func (FloatNode) expression() {}

// Float returns a float literal node.
func Float(value float64) FloatNode {
	return FloatNode{Value: value}
}

// BooleanNode renders true or false.
type BooleanNode struct {
	Value bool
}

func (BooleanNode) expression() {}

// Bool returns a boolean literal node.
func Bool(value bool) BooleanNode {
	return BooleanNode{Value: value}
}

// NullNode renders the null literal.
type NullNode struct{}

func (NullNode) expression() {}

// Null returns a null literal node.
func Null() NullNode {
	return NullNode{}
}

// CompoundExpressionNode renders a sequence of expressions, one per line,
// at the current indent level.
type CompoundExpressionNode struct {
	Expressions []Expression
}

func (CompoundExpressionNode) expression() {}

// Compound returns a sequencing node.
func Compound(expressions ...Expression) CompoundExpressionNode {
	return CompoundExpressionNode{Expressions: expressions}
}

// CommentNode renders a bracketed comment line. Opening comments render
// as "## text **", closing comments as "** text ##"; plugins bracket the
// sections they generate with a matching pair.
type CommentNode struct {
	Text    string
	Closing bool
}

func (CommentNode) expression() {}

// Comment returns an opening comment node.
func Comment(text string) CommentNode {
	return CommentNode{Text: text}
}

// ClosingComment returns a closing comment node.
func ClosingComment(text string) CommentNode {
	return CommentNode{Text: text, Closing: true}
}

// RawNode renders its text verbatim at the current indent level.
type RawNode struct {
	Text string
}

func (RawNode) expression() {}

// Raw returns a raw passthrough node.
func Raw(text string) RawNode {
	return RawNode{Text: text}
}

// NewlineNode renders an empty line.
type NewlineNode struct{}

func (NewlineNode) expression() {}

// Newline returns an empty line node.
func Newline() NewlineNode {
	return NewlineNode{}
}

// AndNode renders its operands joined by && inside parentheses.
type AndNode struct {
	Expressions []Expression
}

func (AndNode) expression() {}

// And returns a conjunction node.
func And(expressions ...Expression) AndNode {
	return AndNode{Expressions: expressions}
}

// OrNode renders its operands joined by || inside parentheses.
type OrNode struct {
	Expressions []Expression
}

func (OrNode) expression() {}

// Or returns a disjunction node.
func Or(expressions ...Expression) OrNode {
	return OrNode{Expressions: expressions}
}

// NotNode renders a negated expression.
type NotNode struct {
	Expr Expression
}

func (NotNode) expression() {}

// Not returns a negation node.
func Not(expr Expression) NotNode {
	return NotNode{Expr: expr}
}

// EqualsNode renders an equality comparison.
type EqualsNode struct {
	Left  Expression
	Right Expression
}

func (EqualsNode) expression() {}

// Equals returns an equality comparison node.
func Equals(left, right Expression) EqualsNode {
	return EqualsNode{Left: left, Right: right}
}

// NotEqualsNode renders an inequality comparison.
type NotEqualsNode struct {
	Left  Expression
	Right Expression
}

func (NotEqualsNode) expression() {}

// NotEquals returns an inequality comparison node.
func NotEquals(left, right Expression) NotEqualsNode {
	return NotEqualsNode{Left: left, Right: right}
}

// ParensNode wraps an expression in parentheses.
type ParensNode struct {
	Expr Expression
}

func (ParensNode) expression() {}

// Parens returns a parenthesized expression node.
func Parens(expr Expression) ParensNode {
	return ParensNode{Expr: expr}
}
