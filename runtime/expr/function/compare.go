package function

import (
	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/coerce"
	"github.com/brimdata/zscript/runtime/expr"
)

// Compare implements eq, ne, lt, le, gt, and ge.  Values of different
// kinds are ordered by kind with null first.
type Compare struct {
	op string
}

func (c *Compare) Call(_ *expr.Context, args []any) (any, error) {
	a, b := args[0], args[1]
	switch c.op {
	case "eq":
		return coerce.Equal(a, b), nil
	case "ne":
		return !coerce.Equal(a, b), nil
	}
	cmp := coerce.Compare(a, b)
	switch c.op {
	case "lt":
		return cmp < 0, nil
	case "le":
		return cmp <= 0, nil
	case "gt":
		return cmp > 0, nil
	}
	return cmp >= 0, nil
}

func (*Compare) ResultType([]zscript.Type) zscript.Type {
	return zscript.TypeBool
}

type Not struct{}

func (*Not) Call(_ *expr.Context, args []any) (any, error) {
	b, ok := args[0].(bool)
	if !ok {
		return nil, typeError("not", args[0])
	}
	return !b, nil
}

func (*Not) ResultType([]zscript.Type) zscript.Type {
	return zscript.TypeBool
}
