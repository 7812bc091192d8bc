package function

import (
	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/anymath"
	"github.com/brimdata/zscript/coerce"
	zse "github.com/brimdata/zscript/errors"
	"github.com/brimdata/zscript/runtime/expr"
)

var (
	opAdd = anymath.Add
	opSub = anymath.Sub
	opMul = anymath.Mul
	opDiv = anymath.Div
	opMod = anymath.Mod
	opMin = anymath.Min
	opMax = anymath.Max
)

// numericType is the result type of arithmetic on values of the given
// types: int64 if all are int64, float64 if all are numbers, else unknown.
func numericType(types []zscript.Type) zscript.Type {
	var typ zscript.Type = zscript.TypeNull
	for _, t := range types {
		if t != nil && t != zscript.TypeNull && !zscript.IsNumeric(t) {
			return nil
		}
		if typ = zscript.Unify(typ, t); typ == nil {
			return nil
		}
	}
	return typ
}

// Arith applies a binary arithmetic operator.  Two int64 operands yield
// an int64, any other pair of numbers a float64.  A null operand yields
// null.
type Arith struct {
	name string
	op   *anymath.Function
}

func (a *Arith) Call(_ *expr.Context, args []any) (any, error) {
	return arith(a.name, a.op, args[0], args[1])
}

func (*Arith) ResultType(args []zscript.Type) zscript.Type {
	return numericType(args)
}

func arith(name string, op *anymath.Function, a, b any) (any, error) {
	if a == nil || b == nil {
		return nil, nil
	}
	if ai, ok := a.(int64); ok {
		if bi, ok := b.(int64); ok {
			if bi == 0 && (op == opDiv || op == opMod) {
				return nil, &zse.Error{Func: name, Err: ErrDivideByZero}
			}
			return op.Int64(ai, bi), nil
		}
	}
	af, ok := coerce.ToFloat(a)
	if !ok || !coerce.IsNumber(a) {
		return nil, typeError(name, a)
	}
	bf, ok := coerce.ToFloat(b)
	if !ok || !coerce.IsNumber(b) {
		return nil, typeError(name, b)
	}
	return op.Float64(af, bf), nil
}

type Neg struct{}

func (*Neg) Call(_ *expr.Context, args []any) (any, error) {
	switch x := args[0].(type) {
	case nil:
		return nil, nil
	case int64:
		return -x, nil
	case float64:
		return -x, nil
	}
	return nil, typeError("neg", args[0])
}

func (*Neg) ResultType(args []zscript.Type) zscript.Type {
	return numericType(args)
}

// Reducer folds its non-null arguments with a binary operator.  It is
// null if all arguments are null.
type Reducer struct {
	name string
	op   *anymath.Function
}

func (r *Reducer) Call(_ *expr.Context, args []any) (any, error) {
	var result any
	for _, arg := range args {
		if arg == nil {
			continue
		}
		if !coerce.IsNumber(arg) {
			return nil, typeError(r.name, arg)
		}
		if result == nil {
			result = arg
			continue
		}
		var err error
		if result, err = arith(r.name, r.op, result, arg); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (*Reducer) ResultType(args []zscript.Type) zscript.Type {
	return numericType(args)
}
