package zscript

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Runtime values are plain Go values:
//
//	nil         null
//	bool        bool
//	int64       int64
//	float64     float64
//	string      string
//	time.Time   time
//	[]any       list
//	Set         set
//	Map         map
//	*Object     instance of a TypeObject
//	Function    function value (e.g., a closure)

// Function is a single-parameter function value.
type Function interface {
	Invoke(arg any) (any, error)
}

// Set is an ordered collection of distinct values.  Use NewSet to
// construct one so that duplicates are removed.
type Set []any

func NewSet(vals ...any) Set {
	seen := make(map[string]struct{}, len(vals))
	set := make(Set, 0, len(vals))
	for _, v := range vals {
		key := FormatValue(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		set = append(set, v)
	}
	return set
}

// Map maps keys to values.  Keys are primitive values, objects, or
// functions.  Lists, sets, and maps cannot be keys.
type Map map[any]any

var ErrBadKey = errors.New("list, set, or map used as a map key")

// IsKey returns true if val can be a key of a Map.
func IsKey(val any) bool {
	switch val.(type) {
	case []any, Set, Map:
		return false
	}
	return true
}

// Keys returns the map's keys in formatted order.
func (m Map) Keys() []any {
	keys := make([]any, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keyLess(keys[i], keys[j])
	})
	return keys
}

func keyLess(a, b any) bool {
	if ai, ok := a.(int64); ok {
		if bi, ok := b.(int64); ok {
			return ai < bi
		}
	}
	return FormatValue(a) < FormatValue(b)
}

// Object is an instance of a structural object type.  Field values may
// refer to other objects so a set of objects may form an arbitrary graph.
type Object struct {
	Type   *TypeObject
	Fields []any
}

func NewObject(typ *TypeObject) *Object {
	return &Object{Type: typ, Fields: make([]any, len(typ.Fields))}
}

func (o *Object) Get(name string) (any, bool) {
	k := o.Type.IndexOf(name)
	if k < 0 {
		return nil, false
	}
	return o.Fields[k], true
}

func (o *Object) Set(name string, val any) error {
	k := o.Type.IndexOf(name)
	if k < 0 {
		return fmt.Errorf("%s.%s: %w", o.Type.Name, name, ErrNoSuchField)
	}
	o.Fields[k] = val
	return nil
}

// MustSet is like Set but panics on an unknown field.
func (o *Object) MustSet(name string, val any) *Object {
	if err := o.Set(name, val); err != nil {
		panic(err)
	}
	return o
}

// TypeOf returns the static type of a runtime value or nil if the type
// cannot be determined (e.g., a list of mixed element types).
func TypeOf(zctx *Context, val any) Type {
	switch val := val.(type) {
	case nil:
		return TypeNull
	case bool:
		return TypeBool
	case int64:
		return TypeInt64
	case float64:
		return TypeFloat64
	case string:
		return TypeString
	case time.Time:
		return TypeTime
	case []any:
		return zctx.LookupTypeList(elemType(zctx, val))
	case Set:
		return zctx.LookupTypeSet(elemType(zctx, val))
	case Map:
		var keyType, valType Type
		first := true
		for k, v := range val {
			kt, vt := TypeOf(zctx, k), TypeOf(zctx, v)
			if first {
				keyType, valType = kt, vt
				first = false
				continue
			}
			keyType, valType = Unify(keyType, kt), Unify(valType, vt)
		}
		return zctx.LookupTypeMap(keyType, valType)
	case *Object:
		return val.Type
	case interface{ Type() Type }:
		return val.Type()
	}
	return nil
}

func elemType(zctx *Context, vals []any) Type {
	if len(vals) == 0 {
		return nil
	}
	typ := TypeOf(zctx, vals[0])
	for _, v := range vals[1:] {
		if typ = strictUnify(typ, TypeOf(zctx, v)); typ == nil {
			return nil
		}
	}
	return typ
}

// strictUnify is like Unify but does not widen numbers since literal
// values keep their own representation.
func strictUnify(a, b Type) Type {
	if a != nil && b != nil && IsNumber(a.ID()) && IsNumber(b.ID()) && a != b {
		return nil
	}
	return Unify(a, b)
}
