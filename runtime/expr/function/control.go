package function

import (
	"fmt"

	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/compiler/ast"
	zse "github.com/brimdata/zscript/errors"
	"github.com/brimdata/zscript/method"
	"github.com/brimdata/zscript/runtime/expr"
)

// The builders below produce the control-flow nodes of package expr, which
// evaluate their arguments lazily.

func buildIf(_ *method.Env, _ ast.Expr, args []expr.Evaluator) (expr.Evaluator, error) {
	return expr.NewConditional(args[0], args[1], args[2]), nil
}

func buildAnd(_ *method.Env, _ ast.Expr, args []expr.Evaluator) (expr.Evaluator, error) {
	return expr.NewLogicalAnd(args[0], args[1]), nil
}

func buildOr(_ *method.Env, _ ast.Expr, args []expr.Evaluator) (expr.Evaluator, error) {
	return expr.NewLogicalOr(args[0], args[1]), nil
}

func buildDefault(_ *method.Env, _ ast.Expr, args []expr.Evaluator) (expr.Evaluator, error) {
	return expr.NewDefault(args[0], args[1]), nil
}

func buildList(env *method.Env, _ ast.Expr, args []expr.Evaluator) (expr.Evaluator, error) {
	return expr.NewList(env.Zctx, args), nil
}

// buildGet returns a statically typed field access when the field is a
// string literal and the type of the object is known, else a lookup
// resolved at run time.
func buildGet(_ *method.Env, src ast.Expr, args []expr.Evaluator) (expr.Evaluator, error) {
	self, key := args[0], args[1]
	if field, ok := expr.IsLiteral(key); ok {
		if name, ok := field.(string); ok && zscript.TypeObjectOf(self.Type()) != nil {
			dot, err := expr.NewDot(self, name)
			if err != nil {
				return nil, &zse.Error{Kind: zse.Invalid, Func: "get", Src: src, Err: err}
			}
			return dot, nil
		}
	}
	return expr.NewIndex(self, key), nil
}

// buildInvoke builds the named function directly when the name is a
// literal.  Otherwise, the function is resolved each time the call is
// evaluated.
func buildInvoke(env *method.Env, src ast.Expr, args []expr.Evaluator) (expr.Evaluator, error) {
	if val, ok := expr.IsLiteral(args[0]); ok {
		name, ok := val.(string)
		if !ok {
			return nil, &zse.Error{Kind: zse.Invalid, Func: "invoke", Arg: "name", Src: src, Err: fmt.Errorf("function name must be a string")}
		}
		b, err := lookup(env, name)
		if err != nil {
			return nil, err
		}
		return method.Apply(env, ast.NewCall(name), name, b, nil, method.Positional(args[1:]...))
	}
	return NewInvoke(env, args[0], args[1:]), nil
}

func lookup(env *method.Env, name string) (method.Builder, error) {
	if env.Resolver != nil {
		if b, ok := env.Resolver.Lookup(name); ok {
			return b, nil
		}
		return nil, &zse.Error{Kind: zse.NoSuchFunction, Func: name, Hint: method.Suggest(name, env.Resolver.Names())}
	}
	return nil, &zse.Error{Kind: zse.NoSuchFunction, Func: name}
}
