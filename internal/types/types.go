package types

// Type represents a type in the Rustic type system. The set is closed:
// primitives, declared structs, lists, and the unresolved placeholder.
type Type interface {
	String() string
	// IsType is a marker method to ensure type safety.
	IsType()
}

// PrimitiveKind represents the kind of a primitive type.
type PrimitiveKind string

const (
	Int   PrimitiveKind = "int"
	Float PrimitiveKind = "float"
	Bool  PrimitiveKind = "bool"
	Str   PrimitiveKind = "str"
	Void  PrimitiveKind = "void"
)

// Primitive represents a primitive type.
type Primitive struct {
	Kind PrimitiveKind
}

func (p *Primitive) String() string { return string(p.Kind) }
func (p *Primitive) IsType()        {}

// Common primitive instances.
var (
	TypeInt   = &Primitive{Kind: Int}
	TypeFloat = &Primitive{Kind: Float}
	TypeBool  = &Primitive{Kind: Bool}
	TypeStr   = &Primitive{Kind: Str}
	TypeVoid  = &Primitive{Kind: Void}
)

// Struct represents a declared struct type.
type Struct struct {
	Name   string
	Fields []Field
}

// Field is a named struct field, in declaration order.
type Field struct {
	Name string
	Type Type
}

func (s *Struct) String() string { return s.Name }
func (s *Struct) IsType()        {}

// FieldType returns the type of the named field, if present.
func (s *Struct) FieldType(name string) (Type, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// List represents a `list[T]` type.
type List struct {
	Elem Type
}

func (l *List) String() string { return "list[" + l.Elem.String() + "]" }
func (l *List) IsType()        {}

// Unresolved is the placeholder for a type that could not be determined,
// e.g. the element type of an empty list literal.
type Unresolved struct{}

func (u *Unresolved) String() string { return "<unresolved>" }
func (u *Unresolved) IsType()        {}

// TypeUnresolved is the shared unresolved instance.
var TypeUnresolved = &Unresolved{}

// Equal reports structural type equality.
func Equal(a, b Type) bool {
	switch at := a.(type) {
	case *Primitive:
		bt, ok := b.(*Primitive)
		return ok && at.Kind == bt.Kind
	case *Struct:
		bt, ok := b.(*Struct)
		return ok && at.Name == bt.Name
	case *List:
		bt, ok := b.(*List)
		return ok && Equal(at.Elem, bt.Elem)
	case *Unresolved:
		_, ok := b.(*Unresolved)
		return ok
	}
	return false
}

// AssignableTo reports whether a value of type from may initialise or be
// passed where to is expected. Beyond equality, the only conversions are
// int→float widening and an unresolved list element (empty literal) adopting
// the expected element type.
func AssignableTo(from, to Type) bool {
	if Equal(from, to) {
		return true
	}
	if Equal(from, TypeInt) && Equal(to, TypeFloat) {
		return true
	}
	if fl, ok := from.(*List); ok {
		if tl, ok := to.(*List); ok {
			if _, unresolved := fl.Elem.(*Unresolved); unresolved {
				return true
			}
			return AssignableTo(fl.Elem, tl.Elem)
		}
	}
	return false
}

// IsNumeric reports whether t is int or float.
func IsNumeric(t Type) bool {
	return Equal(t, TypeInt) || Equal(t, TypeFloat)
}

// IsCopy reports whether t has trivial copy semantics in the target
// language; such values never need clone insertion.
func IsCopy(t Type) bool {
	return Equal(t, TypeInt) || Equal(t, TypeFloat) || Equal(t, TypeBool)
}
