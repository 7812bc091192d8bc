package function

import (
	"errors"
	"fmt"
	"sort"

	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/coerce"
	zse "github.com/brimdata/zscript/errors"
	"github.com/brimdata/zscript/runtime/expr"
)

var errOddArguments = errors.New("odd number of arguments")

// elements returns the elements of a list or set.  ok is false for other
// values.  Null has no elements.
func elements(val any) ([]any, bool) {
	switch val := val.(type) {
	case nil:
		return nil, true
	case []any:
		return val, true
	case zscript.Set:
		return val, true
	}
	return nil, false
}

// rebuild returns vals as the same kind of collection as src.
func rebuild(src any, vals []any) any {
	if _, ok := src.(zscript.Set); ok {
		return zscript.NewSet(vals...)
	}
	if vals == nil {
		return []any{}
	}
	return vals
}

func resultOf(typ zscript.Type) zscript.Type {
	if f, ok := typ.(*zscript.TypeFunction); ok {
		return f.Result
	}
	return nil
}

// MaxCount is the largest list count will build.
const MaxCount = 1 << 24

var ErrCountTooLarge = fmt.Errorf("count exceeds %d", MaxCount)

// Count returns n consecutive integers starting at from.
type Count struct {
	zctx *zscript.Context
}

func newCount(zctx *zscript.Context) expr.Function {
	return &Count{zctx}
}

func (*Count) Call(_ *expr.Context, args []any) (any, error) {
	n, ok := args[0].(int64)
	if !ok {
		return nil, typeError("count", args[0])
	}
	from, ok := args[1].(int64)
	if !ok {
		return nil, typeError("count", args[1])
	}
	if n > MaxCount {
		return nil, &zse.Error{Kind: zse.Type, Func: "count", Value: zscript.FormatValue(n), Err: ErrCountTooLarge}
	}
	out := make([]any, 0, max(n, 0))
	for k := int64(0); k < n; k++ {
		out = append(out, from+k)
	}
	return out, nil
}

func (c *Count) ResultType([]zscript.Type) zscript.Type {
	return c.zctx.LookupTypeList(zscript.TypeInt64)
}

// Size is the number of elements of a collection or zero for null.
type Size struct{}

func (*Size) Call(_ *expr.Context, args []any) (any, error) {
	switch x := args[0].(type) {
	case nil:
		return int64(0), nil
	case []any:
		return int64(len(x)), nil
	case zscript.Set:
		return int64(len(x)), nil
	case zscript.Map:
		return int64(len(x)), nil
	}
	return nil, typeError("size", args[0])
}

func (*Size) ResultType([]zscript.Type) zscript.Type {
	return zscript.TypeInt64
}

// Map applies a function to each element of a list or set.
type Map struct {
	zctx *zscript.Context
}

func newMap(zctx *zscript.Context) expr.Function {
	return &Map{zctx}
}

func (*Map) Call(_ *expr.Context, args []any) (any, error) {
	vals, err := mapElements("map", args[0], args[1])
	if err != nil || vals == nil {
		return nil, err
	}
	return rebuild(args[0], vals), nil
}

func (m *Map) ResultType(args []zscript.Type) zscript.Type {
	result := resultOf(args[1])
	if _, ok := args[0].(*zscript.TypeSet); ok {
		return m.zctx.LookupTypeSet(result)
	}
	return m.zctx.LookupTypeList(result)
}

// mapElements returns the results of fn for each element of xs.  The
// result is nil if xs is null.
func mapElements(name string, xs, fn any) ([]any, error) {
	if xs == nil {
		return nil, nil
	}
	elems, ok := elements(xs)
	if !ok {
		return nil, typeError(name, xs)
	}
	f, err := toFunction(name, fn)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(elems))
	for _, elem := range elems {
		val, err := f.Invoke(elem)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}

// FlatMap is like Map but splices results that are lists or sets into the
// output.
type FlatMap struct {
	zctx *zscript.Context
}

func newFlatMap(zctx *zscript.Context) expr.Function {
	return &FlatMap{zctx}
}

func (*FlatMap) Call(_ *expr.Context, args []any) (any, error) {
	vals, err := mapElements("flatMap", args[0], args[1])
	if err != nil || vals == nil {
		return nil, err
	}
	out := make([]any, 0, len(vals))
	for _, val := range vals {
		switch val := val.(type) {
		case []any:
			out = append(out, val...)
		case zscript.Set:
			out = append(out, val...)
		default:
			out = append(out, val)
		}
	}
	return rebuild(args[0], out), nil
}

func (f *FlatMap) ResultType(args []zscript.Type) zscript.Type {
	result := resultOf(args[1])
	if inner := zscript.InnerType(result); inner != nil {
		result = inner
	} else if zscript.IsContainerType(result) {
		result = nil
	}
	if _, ok := args[0].(*zscript.TypeSet); ok {
		return f.zctx.LookupTypeSet(result)
	}
	return f.zctx.LookupTypeList(result)
}

// Foreach calls a function for each element and returns the collection.
type Foreach struct{}

func (*Foreach) Call(_ *expr.Context, args []any) (any, error) {
	if _, err := mapElements("foreach", args[0], args[1]); err != nil {
		return nil, err
	}
	return args[0], nil
}

func (*Foreach) ResultType(args []zscript.Type) zscript.Type {
	return args[0]
}

// Filter keeps the elements for which a predicate is true.
type Filter struct{}

func (*Filter) Call(_ *expr.Context, args []any) (any, error) {
	keep, err := mapElements("filter", args[0], args[1])
	if err != nil || keep == nil {
		return nil, err
	}
	elems, _ := elements(args[0])
	var out []any
	for k, b := range keep {
		ok, isBool := b.(bool)
		if !isBool {
			return nil, typeError("filter", b)
		}
		if ok {
			out = append(out, elems[k])
		}
	}
	return rebuild(args[0], out), nil
}

func (*Filter) ResultType(args []zscript.Type) zscript.Type {
	return args[0]
}

// Sort returns the elements of a list or set in ascending order, or in
// ascending order of a key function.  The sort is stable.
type Sort struct{}

func (*Sort) Call(_ *expr.Context, args []any) (any, error) {
	if args[0] == nil {
		return nil, nil
	}
	elems, ok := elements(args[0])
	if !ok {
		return nil, typeError("sort", args[0])
	}
	keys := elems
	if args[1] != nil {
		var err error
		if keys, err = mapElements("sort", args[0], args[1]); err != nil {
			return nil, err
		}
	}
	index := make([]int, len(elems))
	for k := range index {
		index[k] = k
	}
	sort.SliceStable(index, func(i, j int) bool {
		return coerce.Compare(keys[index[i]], keys[index[j]]) < 0
	})
	out := make([]any, 0, len(elems))
	for _, k := range index {
		out = append(out, elems[k])
	}
	return rebuild(args[0], out), nil
}

func (*Sort) ResultType(args []zscript.Type) zscript.Type {
	return args[0]
}

// Transpose turns a list of rows into a list of columns.  Each column is a
// map from row index to the row's value in that column.  Rows shorter than
// the longest are padded with null.  If a combiner is given, each column
// is replaced by the combiner's result for it.
type Transpose struct {
	zctx *zscript.Context
}

func newTranspose(zctx *zscript.Context) expr.Function {
	return &Transpose{zctx}
}

func (*Transpose) Call(_ *expr.Context, args []any) (any, error) {
	if args[0] == nil {
		return nil, nil
	}
	rows, ok := elements(args[0])
	if !ok {
		return nil, typeError("transpose", args[0])
	}
	combiner, err := optionalFunction("transpose", args[1])
	if err != nil {
		return nil, err
	}
	cells := make([][]any, 0, len(rows))
	var width int
	for _, row := range rows {
		elems, ok := elements(row)
		if !ok {
			return nil, typeError("transpose", row)
		}
		cells = append(cells, elems)
		width = max(width, len(elems))
	}
	out := make([]any, 0, width)
	for col := 0; col < width; col++ {
		column := make(zscript.Map, len(cells))
		for r, row := range cells {
			var val any
			if col < len(row) {
				val = row[col]
			}
			column[int64(r)] = val
		}
		if combiner == nil {
			out = append(out, column)
			continue
		}
		val, err := combiner.Invoke(column)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}

func (t *Transpose) ResultType(args []zscript.Type) zscript.Type {
	if args[1] != nil && args[1] != zscript.TypeNull {
		return t.zctx.LookupTypeList(resultOf(args[1]))
	}
	return t.zctx.LookupTypeList(t.zctx.LookupTypeMap(zscript.TypeInt64, zscript.InnerType(zscript.InnerType(args[0]))))
}

// SetOf is the set of its arguments.
type SetOf struct {
	zctx *zscript.Context
}

func newSetOf(zctx *zscript.Context) expr.Function {
	return &SetOf{zctx}
}

func (*SetOf) Call(_ *expr.Context, args []any) (any, error) {
	return zscript.NewSet(args...), nil
}

func (s *SetOf) ResultType(args []zscript.Type) zscript.Type {
	var elem zscript.Type
	for k, t := range args {
		if k == 0 {
			elem = t
		} else if elem = zscript.Unify(elem, t); elem == nil {
			break
		}
	}
	return s.zctx.LookupTypeSet(elem)
}

// MapOf is the map of its arguments taken as alternating keys and values.
type MapOf struct {
	zctx *zscript.Context
}

func newMapOf(zctx *zscript.Context) expr.Function {
	return &MapOf{zctx}
}

func (*MapOf) Call(_ *expr.Context, args []any) (any, error) {
	if len(args)%2 != 0 {
		return nil, &zse.Error{Func: "mapOf", Err: errOddArguments}
	}
	m := make(zscript.Map, len(args)/2)
	for k := 0; k < len(args); k += 2 {
		if !zscript.IsKey(args[k]) {
			return nil, &zse.Error{Kind: zse.Type, Func: "mapOf", Value: zscript.FormatValue(args[k]), Err: zscript.ErrBadKey}
		}
		m[args[k]] = args[k+1]
	}
	return m, nil
}

func (m *MapOf) ResultType(args []zscript.Type) zscript.Type {
	var keyType, valType zscript.Type
	for k := 0; k+1 < len(args); k += 2 {
		if k == 0 {
			keyType, valType = args[0], args[1]
			continue
		}
		keyType, valType = zscript.Unify(keyType, args[k]), zscript.Unify(valType, args[k+1])
	}
	return m.zctx.LookupTypeMap(keyType, valType)
}
