package zscript

import (
	"fmt"
	"sync"
)

// A Context interns composite types.  Subsequent lookups of a structurally
// identical type return the same pointer.  A Context is safe for
// concurrent use.
type Context struct {
	mu       sync.RWMutex
	table    []Type
	lut      map[string]Type
	typedefs map[string]*TypeObject
}

func NewContext() *Context {
	return &Context{
		// Leave room for the primitive IDs.
		table:    make([]Type, IDTypeDef),
		lut:      make(map[string]Type),
		typedefs: make(map[string]*TypeObject),
	}
}

func (c *Context) LookupType(id int) (Type, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if id < 0 || id >= len(c.table) {
		return nil, fmt.Errorf("id %d out of range for table of size %d", id, len(c.table))
	}
	if typ := lookupPrimitiveByID(id); typ != nil {
		return typ, nil
	}
	if typ := c.table[id]; typ != nil {
		return typ, nil
	}
	return nil, fmt.Errorf("no type found for id %d", id)
}

func lookupPrimitiveByID(id int) Type {
	switch id {
	case IDInt64:
		return TypeInt64
	case IDFloat64:
		return TypeFloat64
	case IDBool:
		return TypeBool
	case IDString:
		return TypeString
	case IDTime:
		return TypeTime
	case IDNull:
		return TypeNull
	}
	return nil
}

// addType binds typ to key unless the key exists, in which case the
// existing type is returned.  The setID callback is invoked only for
// newly created types.
func (c *Context) addType(key string, typ Type, setID func(int)) Type {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.lut[key]; ok {
		return existing
	}
	setID(len(c.table))
	c.table = append(c.table, typ)
	c.lut[key] = typ
	return typ
}

func (c *Context) LookupTypeList(inner Type) *TypeList {
	typ := &TypeList{Type: inner}
	return c.addType(typ.String(), typ, func(id int) { typ.id = id }).(*TypeList)
}

func (c *Context) LookupTypeSet(inner Type) *TypeSet {
	typ := &TypeSet{Type: inner}
	return c.addType(typ.String(), typ, func(id int) { typ.id = id }).(*TypeSet)
}

func (c *Context) LookupTypeMap(keyType, valType Type) *TypeMap {
	typ := &TypeMap{KeyType: keyType, ValType: valType}
	return c.addType(typ.String(), typ, func(id int) { typ.id = id }).(*TypeMap)
}

func (c *Context) LookupTypeFunction(param, result Type) *TypeFunction {
	typ := &TypeFunction{Param: param, Result: result}
	return c.addType(typ.String(), typ, func(id int) { typ.id = id }).(*TypeFunction)
}

// LookupTypeObject returns the object type with the given name and fields,
// creating it if needed.  It is an error to look up an existing name with
// different fields.
func (c *Context) LookupTypeObject(name string, fields []Field) (*TypeObject, error) {
	if name == "" || LookupPrimitive(name) != nil {
		return nil, fmt.Errorf("bad object type name %q", name)
	}
	lut := make(map[string]int, len(fields))
	for k, f := range fields {
		if _, ok := lut[f.Name]; ok {
			return nil, fmt.Errorf("%s: %w: %s", name, ErrDuplicateName, f.Name)
		}
		lut[f.Name] = k
	}
	typ := &TypeObject{Name: name, Fields: append([]Field(nil), fields...), lut: lut}
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.typedefs[name]; ok {
		if existing.Signature() != typ.Signature() {
			return nil, fmt.Errorf("%s: %w", name, ErrTypeExists)
		}
		return existing, nil
	}
	typ.id = len(c.table)
	c.table = append(c.table, typ)
	c.typedefs[name] = typ
	return typ, nil
}

// LookupTypeDef returns the object type with the given name or nil.
func (c *Context) LookupTypeDef(name string) *TypeObject {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.typedefs[name]
}

// LookupByName returns the primitive or object type with the given name.
func (c *Context) LookupByName(name string) Type {
	if typ := LookupPrimitive(name); typ != nil {
		return typ
	}
	if typ := c.LookupTypeDef(name); typ != nil {
		return typ
	}
	return nil
}
