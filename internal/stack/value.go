// Package stack models infrastructure stack templates as plain data:
// parameters, conditions, resources, and outputs whose property trees are
// built from a closed set of value kinds. The closed set is what lets the
// reference resolver walk any property tree without duck typing, and what
// keeps serialized output free of internal types.
package stack

import "encoding/json"

// Value is one node of a resource property tree. The set of
// implementations is closed: Literal, List, Mapping, Ref, GetAtt, and If.
type Value interface {
	value()
}

// Literal holds a scalar leaf (string, number, or bool). Composite data
// belongs in List and Mapping nodes so reference resolution can descend
// into it.
type Literal struct {
	Value any
}

func (Literal) value() {}

// Lit returns a literal leaf node.
func Lit(v any) Literal {
	return Literal{Value: v}
}

// MarshalJSON emits the underlying scalar.
func (l Literal) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Value)
}

// List is an ordered sequence of values.
type List []Value

func (List) value() {}

// MarshalJSON emits a JSON array.
func (l List) MarshalJSON() ([]byte, error) {
	return json.Marshal([]Value(l))
}

// Mapping is a string-keyed collection of values. Keys serialize in
// sorted order, which keeps emitted templates deterministic.
type Mapping map[string]Value

func (Mapping) value() {}

// MarshalJSON emits a JSON object.
func (m Mapping) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]Value(m))
}

// Ref is a by-name reference to a resource or parameter.
type Ref struct {
	Name string
}

func (Ref) value() {}

// MarshalJSON emits the target format's reference intrinsic.
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Ref string `json:"Ref"`
	}{Ref: r.Name})
}

// GetAtt is a reference to one attribute of a resource.
type GetAtt struct {
	Name      string
	Attribute string
}

func (GetAtt) value() {}

// MarshalJSON emits the attribute intrinsic.
func (g GetAtt) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]string{
		"Fn::GetAtt": {g.Name, g.Attribute},
	})
}

// If selects between two subtrees based on a named template condition.
type If struct {
	Condition string
	Then      Value
	Else      Value
}

func (If) value() {}

// MarshalJSON emits the conditional intrinsic.
func (i If) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]any{
		"Fn::If": {i.Condition, i.Then, i.Else},
	})
}

// NoValue is the pseudo-parameter reference that removes a property when
// selected by a condition branch.
func NoValue() Ref {
	return Ref{Name: "AWS::NoValue"}
}

// Join returns the string-join intrinsic as a plain mapping, so reference
// resolution sees through it like any other composite.
func Join(separator string, parts ...Value) Mapping {
	return Mapping{
		"Fn::Join": List{Lit(separator), List(parts)},
	}
}

// Sub returns the string-substitution intrinsic as a plain mapping.
func Sub(template string) Mapping {
	return Mapping{
		"Fn::Sub": Lit(template),
	}
}

// EqualsCondition returns a condition definition comparing a value with a
// literal, in the target format's condition-function shape.
func EqualsCondition(left Value, right any) Mapping {
	return Mapping{
		"Fn::Equals": List{left, Lit(right)},
	}
}
