package compiler

import (
	"fmt"
	"time"

	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/compiler/ast"
	"github.com/brimdata/zscript/runtime/expr"
)

// Decompile returns a call tree that compiles to a tree equivalent to e.
// Nodes built by a Builder become calls named by their identity token, so
// a resolver that compiled e can rehydrate the result.
func Decompile(e expr.Evaluator) (ast.Expr, error) {
	switch e := e.(type) {
	case *expr.Literal:
		return decompileValue(e.Value())
	case *expr.Ref:
		return ast.NewIdent(e.Var().Name()), nil
	case *expr.Lambda:
		body, err := Decompile(e.Body())
		if err != nil {
			return nil, err
		}
		return ast.NewLambda(e.Param().Name(), body), nil
	case *expr.Let:
		children, err := decompileAll(e.Children())
		if err != nil {
			return nil, err
		}
		return ast.NewLet(e.Var().Name(), children[0], children[1]), nil
	case *expr.Apply:
		children, err := decompileAll(e.Children())
		if err != nil {
			return nil, err
		}
		return ast.NewApply(children[0], children[1]), nil
	}
	call := ast.NewCall(e.Token())
	if self, ok := e.Self(); ok {
		s, err := Decompile(self)
		if err != nil {
			return nil, err
		}
		call.Self = s
	}
	args, err := decompileAll(e.Args())
	if err != nil {
		return nil, err
	}
	call.Args = ast.Args(args...)
	return call, nil
}

func decompileAll(exprs []expr.Evaluator) ([]ast.Expr, error) {
	out := make([]ast.Expr, 0, len(exprs))
	for _, e := range exprs {
		d, err := Decompile(e)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// decompileValue returns a call tree for a literal value.  Lists, sets,
// and maps become calls to list, set, and mapOf.
func decompileValue(val any) (ast.Expr, error) {
	switch val := val.(type) {
	case nil, bool, int64, float64, string, time.Time:
		return ast.Lit(val), nil
	case []any:
		elems, err := decompileValues(val)
		if err != nil {
			return nil, err
		}
		return ast.NewCall("list", ast.Args(elems...)...), nil
	case zscript.Set:
		elems, err := decompileValues(val)
		if err != nil {
			return nil, err
		}
		return ast.NewCall("set", ast.Args(elems...)...), nil
	case zscript.Map:
		var entries []any
		for _, k := range val.Keys() {
			entries = append(entries, k, val[k])
		}
		elems, err := decompileValues(entries)
		if err != nil {
			return nil, err
		}
		return ast.NewCall("mapOf", ast.Args(elems...)...), nil
	}
	return nil, fmt.Errorf("cannot decompile literal %s", zscript.FormatValue(val))
}

func decompileValues(vals []any) ([]ast.Expr, error) {
	out := make([]ast.Expr, 0, len(vals))
	for _, v := range vals {
		e, err := decompileValue(v)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
