// Package zscript implements the structural type system and runtime value
// model that the zscript expression engine consults.  Primitive types are
// package-level singletons while composite types are interned by a Context
// so that two structurally identical types created from the same Context
// are the same pointer and can be compared with ==.
//
// A nil Type means "unknown".  Type inference throughout the engine treats
// unknown as a legal result rather than an error.
package zscript

import (
	"errors"
	"strings"
)

var (
	ErrTypeExists    = errors.New("object type exists with different fields")
	ErrDuplicateName = errors.New("duplicate field name")
	ErrNoSuchField   = errors.New("no such field")
)

// A Type is an interface presented by a zscript type.
type Type interface {
	// ID returns a unique (per Context) identifier for this type.
	// Primitive types have fixed IDs below IDTypeDef.
	ID() int
	String() string
}

var (
	TypeNull    = &TypeOfNull{}
	TypeBool    = &TypeOfBool{}
	TypeInt64   = &TypeOfInt64{}
	TypeFloat64 = &TypeOfFloat64{}
	TypeString  = &TypeOfString{}
	TypeTime    = &TypeOfTime{}
)

const (
	IDInt64   = 0
	IDFloat64 = 1
	IDBool    = 2
	IDString  = 3
	IDTime    = 4
	IDNull    = 5

	IDTypeDef = 16
)

type TypeOfNull struct{}

func (*TypeOfNull) ID() int        { return IDNull }
func (*TypeOfNull) String() string { return "null" }

type TypeOfBool struct{}

func (*TypeOfBool) ID() int        { return IDBool }
func (*TypeOfBool) String() string { return "bool" }

type TypeOfInt64 struct{}

func (*TypeOfInt64) ID() int        { return IDInt64 }
func (*TypeOfInt64) String() string { return "int64" }

type TypeOfFloat64 struct{}

func (*TypeOfFloat64) ID() int        { return IDFloat64 }
func (*TypeOfFloat64) String() string { return "float64" }

type TypeOfString struct{}

func (*TypeOfString) ID() int        { return IDString }
func (*TypeOfString) String() string { return "string" }

type TypeOfTime struct{}

func (*TypeOfTime) ID() int        { return IDTime }
func (*TypeOfTime) String() string { return "time" }

// True iff the type id is a numeric type.
func IsNumber(id int) bool {
	return id == IDInt64 || id == IDFloat64
}

// IsNumeric is like IsNumber but for a possibly unknown type.
func IsNumeric(typ Type) bool {
	return typ != nil && IsNumber(typ.ID())
}

func LookupPrimitive(name string) Type {
	switch name {
	case "null":
		return TypeNull
	case "bool":
		return TypeBool
	case "int64":
		return TypeInt64
	case "float64":
		return TypeFloat64
	case "string":
		return TypeString
	case "time":
		return TypeTime
	}
	return nil
}

// TypeList is the type of an ordered list of values.  A nil Type
// means the element type is unknown.
type TypeList struct {
	id   int
	Type Type
}

func (t *TypeList) ID() int { return t.id }

func (t *TypeList) String() string {
	return "[" + typeString(t.Type) + "]"
}

// TypeSet is the type of an ordered collection of distinct values.
type TypeSet struct {
	id   int
	Type Type
}

func (t *TypeSet) ID() int { return t.id }

func (t *TypeSet) String() string {
	return "|[" + typeString(t.Type) + "]|"
}

type TypeMap struct {
	id      int
	KeyType Type
	ValType Type
}

func (t *TypeMap) ID() int { return t.id }

func (t *TypeMap) String() string {
	return "|{" + typeString(t.KeyType) + ":" + typeString(t.ValType) + "}|"
}

// TypeFunction is the type of a single-parameter function value.
type TypeFunction struct {
	id     int
	Param  Type
	Result Type
}

func (t *TypeFunction) ID() int { return t.id }

func (t *TypeFunction) String() string {
	return "func(" + typeString(t.Param) + ")" + typeString(t.Result)
}

type Field struct {
	Name string
	Type Type
}

// TypeObject is a named structural type whose instances are *Object values.
// Object types are owned by the host object model; the engine only
// consults their fields.
type TypeObject struct {
	id     int
	Name   string
	Fields []Field
	lut    map[string]int
}

func (t *TypeObject) ID() int { return t.id }

func (t *TypeObject) String() string {
	return t.Name
}

// Signature returns the structural form of the type, e.g., "Person{name:string}".
func (t *TypeObject) Signature() string {
	var b strings.Builder
	b.WriteString(t.Name)
	b.WriteByte('{')
	for k, f := range t.Fields {
		if k > 0 {
			b.WriteByte(',')
		}
		b.WriteString(f.Name)
		b.WriteByte(':')
		b.WriteString(typeString(f.Type))
	}
	b.WriteByte('}')
	return b.String()
}

// IndexOf returns the position of the named field or -1.
func (t *TypeObject) IndexOf(name string) int {
	if k, ok := t.lut[name]; ok {
		return k
	}
	return -1
}

// FieldType returns the type of the named field.  The second result is
// false if there is no such field.
func (t *TypeObject) FieldType(name string) (Type, bool) {
	k := t.IndexOf(name)
	if k < 0 {
		return nil, false
	}
	return t.Fields[k].Type, true
}

func (t *TypeObject) FieldNames() []string {
	names := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		names = append(names, f.Name)
	}
	return names
}

func typeString(typ Type) string {
	if typ == nil {
		return "?"
	}
	if obj, ok := typ.(*TypeObject); ok {
		// Object types may be recursive so refer to them by name.
		return obj.Name
	}
	return typ.String()
}

// InnerType returns the element type of a list or set type or nil.
func InnerType(typ Type) Type {
	switch typ := typ.(type) {
	case *TypeList:
		return typ.Type
	case *TypeSet:
		return typ.Type
	}
	return nil
}

func IsContainerType(typ Type) bool {
	switch typ.(type) {
	case *TypeList, *TypeSet, *TypeMap, *TypeObject:
		return true
	}
	return false
}

func TypeObjectOf(typ Type) *TypeObject {
	t, _ := typ.(*TypeObject)
	return t
}

// Unify returns the type that covers both a and b, or nil if there is
// no single such type.  Null unifies with anything.
func Unify(a, b Type) Type {
	switch {
	case a == b:
		return a
	case a == nil || b == nil:
		return nil
	case a == TypeNull:
		return b
	case b == TypeNull:
		return a
	case IsNumber(a.ID()) && IsNumber(b.ID()):
		return TypeFloat64
	}
	return nil
}
