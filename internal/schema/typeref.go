package schema

// TypeRef is a declared type reference: either a named type or a list of
// an element reference, each level optionally non-null. Exactly one of
// Name and Elem is set.
type TypeRef struct {
	Name    string   `json:"name,omitempty"`
	Elem    *TypeRef `json:"elem,omitempty"`
	NonNull bool     `json:"nonNull,omitempty"`
}

// Named returns a nullable reference to a named type.
func Named(name string) TypeRef {
	return TypeRef{Name: name}
}

// NonNullOf returns ref with its outermost level made non-null.
func NonNullOf(ref TypeRef) TypeRef {
	ref.NonNull = true
	return ref
}

// ListOf returns a nullable list reference over ref.
func ListOf(ref TypeRef) TypeRef {
	elem := ref.Clone()
	return TypeRef{Elem: &elem}
}

// Clone returns a deep copy of the reference.
func (r TypeRef) Clone() TypeRef {
	out := TypeRef{Name: r.Name, NonNull: r.NonNull}
	if r.Elem != nil {
		elem := r.Elem.Clone()
		out.Elem = &elem
	}
	return out
}

// IsList reports whether the outermost level is a list.
func (r TypeRef) IsList() bool {
	return r.Elem != nil
}

// IsNonNull reports whether the outermost level is non-null.
func (r TypeRef) IsNonNull() bool {
	return r.NonNull
}

// BaseName returns the named type at the bottom of the wrapper chain.
func (r TypeRef) BaseName() string {
	cur := r
	for cur.Elem != nil {
		cur = *cur.Elem
	}
	return cur.Name
}

// Nullable returns ref with its outermost level made nullable.
func Nullable(ref TypeRef) TypeRef {
	ref.NonNull = false
	return ref
}
