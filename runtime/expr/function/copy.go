package function

import (
	"errors"

	"github.com/brimdata/zscript"
	zse "github.com/brimdata/zscript/errors"
	"github.com/brimdata/zscript/runtime/expr"
)

// copyVar binds the copier of the copy in progress in the root scope of an
// evaluation so that copies made by the filter or constructor of an outer
// copy share its clones.
var copyVar = expr.NewVar("copy")

var ErrCopyOriginal = errors.New("constructor returned the object being copied")

// Copy is a deep copy of a value graph.  An object reached more than once
// during a copy is cloned once, so shared references and cycles are
// preserved.
//
// The optional filter is called with a map of field, value, and owner for
// each field of each object.  A false result sets the field of the clone
// to null.  The optional constructor is called with each original object
// and a non-null object result other than the original is used as the
// clone.
type Copy struct{}

func (*Copy) Call(ectx *expr.Context, args []any) (any, error) {
	filter, err := optionalFunction("copy", args[1])
	if err != nil {
		return nil, err
	}
	construct, err := optionalFunction("copy", args[2])
	if err != nil {
		return nil, err
	}
	root := ectx.Root()
	var memo map[*zscript.Object]*zscript.Object
	if val, ok := root.Lookup(copyVar); ok {
		memo = val.(map[*zscript.Object]*zscript.Object)
	} else {
		memo = make(map[*zscript.Object]*zscript.Object)
		root.Define(copyVar, memo)
		defer root.Delete(copyVar)
	}
	c := &copier{filter: filter, construct: construct, memo: memo}
	return c.copy(args[0])
}

func (*Copy) ResultType(args []zscript.Type) zscript.Type { return args[0] }
func (*Copy) Impure() bool                                { return true }

type copier struct {
	filter    zscript.Function
	construct zscript.Function
	memo      map[*zscript.Object]*zscript.Object
}

func (c *copier) copy(val any) (any, error) {
	switch val := val.(type) {
	case *zscript.Object:
		return c.object(val)
	case []any:
		return c.elems(val)
	case zscript.Set:
		elems, err := c.elems(val)
		if err != nil {
			return nil, err
		}
		return zscript.Set(elems), nil
	case zscript.Map:
		out := make(zscript.Map, len(val))
		for k, v := range val {
			v, err := c.copy(v)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	}
	return val, nil
}

func (c *copier) elems(vals []any) ([]any, error) {
	out := make([]any, 0, len(vals))
	for _, v := range vals {
		v, err := c.copy(v)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (c *copier) object(o *zscript.Object) (*zscript.Object, error) {
	if clone, ok := c.memo[o]; ok {
		return clone, nil
	}
	var clone *zscript.Object
	if c.construct != nil {
		val, err := c.construct.Invoke(o)
		if err != nil {
			return nil, err
		}
		switch val := val.(type) {
		case nil:
		case *zscript.Object:
			if val == o {
				return nil, &zse.Error{Kind: zse.Type, Func: "copy", Value: zscript.FormatValue(o), Err: ErrCopyOriginal}
			}
			clone = val
		default:
			return nil, typeError("copy", val)
		}
	}
	if clone == nil {
		clone = zscript.NewObject(o.Type)
	}
	// Record the clone before copying fields so back-references find it.
	c.memo[o] = clone
	for k, f := range o.Type.Fields {
		val := o.Fields[k]
		if c.filter != nil {
			keep, err := c.filter.Invoke(zscript.Map{"field": f.Name, "value": val, "owner": o})
			if err != nil {
				return nil, err
			}
			b, ok := keep.(bool)
			if !ok {
				return nil, typeError("copy", keep)
			}
			if !b {
				if err := clone.Set(f.Name, nil); err != nil {
					return nil, err
				}
				continue
			}
		}
		val, err := c.copy(val)
		if err != nil {
			return nil, err
		}
		if err := clone.Set(f.Name, val); err != nil {
			return nil, err
		}
	}
	return clone, nil
}
