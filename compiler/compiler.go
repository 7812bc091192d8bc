// Package compiler turns call trees into expression trees.  Function names
// are resolved through a method.Resolver, arguments are unified with each
// builder's descriptor, and variable names are replaced by the tokens of
// their binders.
package compiler

import (
	"errors"
	"fmt"

	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/compiler/ast"
	"github.com/brimdata/zscript/compiler/optimizer"
	zse "github.com/brimdata/zscript/errors"
	"github.com/brimdata/zscript/method"
	"github.com/brimdata/zscript/runtime/expr"
	"go.uber.org/zap"
)

type Compiler struct {
	zctx     *zscript.Context
	resolver method.Resolver
	logger   *zap.Logger
	fold     bool
}

type Option func(*Compiler)

// WithFolding makes Compile replace constant subtrees with literals.
func WithFolding() Option {
	return func(c *Compiler) { c.fold = true }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Compiler) { c.logger = logger }
}

func New(zctx *zscript.Context, resolver method.Resolver, opts ...Option) *Compiler {
	c := &Compiler{
		zctx:     zctx,
		resolver: resolver,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Compiler) Context() *zscript.Context { return c.zctx }
func (c *Compiler) Resolver() method.Resolver { return c.resolver }

func (c *Compiler) env() *method.Env {
	return &method.Env{Zctx: c.zctx, Resolver: c.resolver}
}

// Compile compiles a call tree that has no free variables.
func (c *Compiler) Compile(e ast.Expr) (expr.Evaluator, error) {
	return c.CompileIn(NewScope(), e)
}

// CompileIn compiles a call tree whose free variables are bound in scope.
func (c *Compiler) CompileIn(scope *Scope, e ast.Expr) (expr.Evaluator, error) {
	out, err := c.compileExpr(scope, e)
	if err != nil {
		return nil, err
	}
	if c.fold {
		var n int
		out, n = optimizer.Fold(c.zctx, out)
		if n > 0 {
			c.logger.Debug("Folded constants", zap.Int("count", n))
		}
	}
	return out, nil
}

func (c *Compiler) compileExpr(scope *Scope, e ast.Expr) (expr.Evaluator, error) {
	if e == nil {
		return nil, errors.New("null expression not allowed")
	}
	switch e := e.(type) {
	case *ast.Literal:
		val, err := zscript.ParseValue(e.Value)
		if err != nil {
			return nil, &zse.Error{Kind: zse.Invalid, Src: e, Err: err}
		}
		return expr.NewLiteral(c.zctx, val), nil
	case *ast.Ident:
		v, typ, ok := scope.Lookup(e.Name)
		if !ok {
			return nil, &zse.Error{Kind: zse.NoSuchVariable, Arg: e.Name, Src: e}
		}
		return expr.NewRef(v, typ), nil
	case *ast.Lambda:
		scope.Enter()
		defer scope.Exit()
		v := scope.Bind(e.Param, nil)
		body, err := c.compileExpr(scope, e.Body)
		if err != nil {
			return nil, err
		}
		return expr.NewLambda(c.zctx, v, nil, body), nil
	case *ast.Let:
		val, err := c.compileExpr(scope, e.Value)
		if err != nil {
			return nil, err
		}
		scope.Enter()
		defer scope.Exit()
		v := scope.Bind(e.Name, val.Type())
		body, err := c.compileExpr(scope, e.Body)
		if err != nil {
			return nil, err
		}
		return expr.NewLet(v, val, body), nil
	case *ast.Apply:
		fn, err := c.compileExpr(scope, e.Func)
		if err != nil {
			return nil, err
		}
		arg, err := c.compileExpr(scope, e.Arg)
		if err != nil {
			return nil, err
		}
		return expr.NewApply(fn, arg), nil
	case *ast.Conditional:
		return c.compileConditional(scope, e)
	case *ast.List:
		elems, err := c.compileExprs(scope, e.Elems)
		if err != nil {
			return nil, err
		}
		return expr.NewList(c.zctx, elems), nil
	case *ast.Call:
		return c.compileCall(scope, e)
	}
	return nil, fmt.Errorf("invalid expression type %T", e)
}

func (c *Compiler) compileExprs(scope *Scope, exprs []ast.Expr) ([]expr.Evaluator, error) {
	out := make([]expr.Evaluator, 0, len(exprs))
	for _, e := range exprs {
		ev, err := c.compileExpr(scope, e)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

func (c *Compiler) compileConditional(scope *Scope, e *ast.Conditional) (expr.Evaluator, error) {
	cond, err := c.compileExpr(scope, e.Cond)
	if err != nil {
		return nil, err
	}
	then, err := c.compileExpr(scope, e.Then)
	if err != nil {
		return nil, err
	}
	var els expr.Evaluator = expr.NewLiteral(c.zctx, nil)
	if e.Else != nil {
		if els, err = c.compileExpr(scope, e.Else); err != nil {
			return nil, err
		}
	}
	return expr.NewConditional(cond, then, els), nil
}

func (c *Compiler) compileCall(scope *Scope, call *ast.Call) (expr.Evaluator, error) {
	b, err := c.lookup(call)
	if err != nil {
		return nil, err
	}
	var self expr.Evaluator
	if call.Self != nil {
		if self, err = c.compileExpr(scope, call.Self); err != nil {
			return nil, err
		}
	}
	args := make([]method.Argument, 0, len(call.Args))
	for _, arg := range call.Args {
		val, err := c.compileExpr(scope, arg.Value)
		if err != nil {
			return nil, err
		}
		args = append(args, method.Argument{Name: arg.Name, Value: val})
	}
	e, err := method.Apply(c.env(), call, call.Name, b, self, args)
	if err != nil {
		var zerr *zse.Error
		if errors.As(err, &zerr) && zerr.Src == nil {
			zerr.Src = call
		}
		return nil, err
	}
	return e, nil
}

// lookup resolves the builder for a call by name or, for trees produced by
// Decompile, by identity token.
func (c *Compiler) lookup(call *ast.Call) (method.Builder, error) {
	if b, ok := c.resolver.Lookup(call.Name); ok {
		return b, nil
	}
	if b, ok := method.LookupToken(c.resolver, call.Name); ok {
		return b, nil
	}
	return nil, &zse.Error{
		Kind: zse.NoSuchFunction,
		Func: call.Name,
		Hint: method.Suggest(call.Name, c.resolver.Names()),
		Src:  call,
	}
}
