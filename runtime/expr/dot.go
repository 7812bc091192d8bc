package expr

import (
	"fmt"

	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/coerce"
	zse "github.com/brimdata/zscript/errors"
)

// Dot accesses a field of an object whose type is known at compile time.
// The field name is also its second child, a string literal.
type Dot struct {
	node
	field string
	typ   zscript.Type
}

var _ Evaluator = (*Dot)(nil)

// NewDot returns a field access on self.  The field must exist in the
// static type of self.
func NewDot(self Evaluator, field string) (*Dot, error) {
	objType := zscript.TypeObjectOf(self.Type())
	if objType == nil {
		return nil, fmt.Errorf("%q: field access on non-object type %s", field, typeName(self.Type()))
	}
	typ, ok := objType.FieldType(field)
	if !ok {
		return nil, fmt.Errorf("%s.%s: %w", objType.Name, field, zscript.ErrNoSuchField)
	}
	return &Dot{node: newNode(self, []Evaluator{NewTypedLiteral(field, zscript.TypeString)}), field: field, typ: typ}, nil
}

func (d *Dot) Field() string      { return d.field }
func (*Dot) Token() string        { return "get" }
func (d *Dot) Type() zscript.Type { return d.typ }
func (*Dot) SideEffectFree() bool { return true }

func (d *Dot) Copy(children []Evaluator) Evaluator {
	return &Dot{node: newNode(children[0], children[1:]), field: d.field, typ: d.typ}
}

func (d *Dot) Eval(ectx *Context) (any, error) {
	val, err := d.children[0].Eval(ectx)
	if err != nil {
		return nil, err
	}
	return Get(val, d.field)
}

// Index accesses an element of an object, map, or list with a key that is
// computed at run time.
type Index struct {
	node
}

var _ Evaluator = (*Index)(nil)

func NewIndex(self, key Evaluator) *Index {
	return &Index{newNode(self, []Evaluator{key})}
}

func (*Index) Token() string        { return "get" }
func (*Index) SideEffectFree() bool { return true }

func (i *Index) Type() zscript.Type {
	switch typ := i.children[0].Type().(type) {
	case *zscript.TypeList:
		return typ.Type
	case *zscript.TypeMap:
		return typ.ValType
	}
	return nil
}

func (i *Index) Copy(children []Evaluator) Evaluator {
	return NewIndex(children[0], children[1])
}

func (i *Index) Eval(ectx *Context) (any, error) {
	vals, err := EvalAll(ectx, i.children)
	if err != nil {
		return nil, err
	}
	return Get(vals[0], vals[1])
}

// Get returns the element of container identified by key.  A null
// container yields null.  Objects are indexed by field name, maps by key,
// and lists by zero-based position.
func Get(container, key any) (any, error) {
	switch c := container.(type) {
	case nil:
		return nil, nil
	case *zscript.Object:
		name, ok := key.(string)
		if !ok {
			return nil, &zse.Error{Kind: zse.Type, Func: "get", Value: zscript.FormatValue(key)}
		}
		val, ok := c.Get(name)
		if !ok {
			return nil, fmt.Errorf("%s.%s: %w", c.Type.Name, name, zscript.ErrNoSuchField)
		}
		return val, nil
	case zscript.Map:
		if !zscript.IsKey(key) {
			return nil, &zse.Error{Kind: zse.Type, Func: "get", Value: zscript.FormatValue(key), Err: zscript.ErrBadKey}
		}
		return c[key], nil
	case []any:
		k, ok := coerce.ToInt(key)
		if !ok {
			return nil, &zse.Error{Kind: zse.Type, Func: "get", Value: zscript.FormatValue(key)}
		}
		if k < 0 || k >= int64(len(c)) {
			return nil, nil
		}
		return c[k], nil
	}
	return nil, &zse.Error{Kind: zse.Type, Func: "get", Value: zscript.FormatValue(container)}
}

func typeName(typ zscript.Type) string {
	if typ == nil {
		return "unknown"
	}
	return typ.String()
}
