package optimizer_test

import (
	"testing"

	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/compiler/ast"
	"github.com/brimdata/zscript/compiler/optimizer"
	"github.com/brimdata/zscript/method"
	"github.com/brimdata/zscript/runtime/expr"
	"github.com/brimdata/zscript/runtime/expr/function"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type builder struct {
	t   *testing.T
	env *method.Env
}

func (b *builder) lit(val any) expr.Evaluator {
	return expr.NewLiteral(b.env.Zctx, val)
}

func (b *builder) call(name string, args ...expr.Evaluator) expr.Evaluator {
	fn, ok := b.env.Resolver.Lookup(name)
	require.True(b.t, ok, name)
	e, err := method.Apply(b.env, ast.NewCall(name), name, fn, nil, method.Positional(args...))
	require.NoError(b.t, err)
	return e
}

func newBuilder(t *testing.T) *builder {
	return &builder{t: t, env: &method.Env{Zctx: zscript.NewContext(), Resolver: function.New()}}
}

func TestFoldNested(t *testing.T) {
	b := newBuilder(t)
	e := b.call("add", b.lit(int64(1)), b.call("mul", b.lit(int64(2)), b.lit(int64(3))))
	out, n := optimizer.Fold(b.env.Zctx, e)
	assert.Equal(t, 2, n)
	val, ok := expr.IsLiteral(out)
	require.True(t, ok)
	assert.Equal(t, int64(7), val)
	assert.Equal(t, zscript.TypeInt64, out.Type())
}

func TestFoldKeepsVariables(t *testing.T) {
	b := newBuilder(t)
	x := expr.NewVar("x")
	ref := expr.NewRef(x, zscript.TypeInt64)
	e := b.call("add", ref, b.call("mul", b.lit(int64(2)), b.lit(int64(3))))
	out, n := optimizer.Fold(b.env.Zctx, e)
	assert.Equal(t, 1, n)
	assert.NotSame(t, e, out)
	assert.Same(t, ref, out.Args()[0])
	ectx := expr.NewContext()
	ectx.Define(x, int64(4))
	val, err := out.Eval(ectx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), val)
}

func TestFoldUnchanged(t *testing.T) {
	b := newBuilder(t)
	e := b.call("now")
	out, n := optimizer.Fold(b.env.Zctx, e)
	assert.Zero(t, n)
	assert.Same(t, e, out)
}

func TestFoldConditional(t *testing.T) {
	b := newBuilder(t)
	x := expr.NewVar("x")
	then := expr.NewRef(x, nil)
	e := b.call("if", b.call("gt", b.lit(int64(2)), b.lit(int64(1))), then, b.lit("no"))
	out, n := optimizer.Fold(b.env.Zctx, e)
	assert.Equal(t, 2, n)
	assert.Same(t, then, out)

	// A predicate that is not a bool is left for run time.
	e = b.call("if", b.lit(int64(1)), then, b.lit("no"))
	out, n = optimizer.Fold(b.env.Zctx, e)
	assert.Zero(t, n)
	assert.Same(t, e, out)
}

func TestFoldError(t *testing.T) {
	b := newBuilder(t)
	e := b.call("div", b.lit(int64(1)), b.lit(int64(0)))
	out, n := optimizer.Fold(b.env.Zctx, e)
	assert.Zero(t, n)
	assert.Same(t, e, out)
}

func TestFoldDynamicInvoke(t *testing.T) {
	b := newBuilder(t)
	e := b.call("invoke", b.call("concat", b.lit("ran"), b.lit("dom")))
	out, n := optimizer.Fold(b.env.Zctx, e)
	// Only the name is folded.
	assert.Equal(t, 1, n)
	assert.Equal(t, "invoke", out.Token())
	_, ok := expr.IsLiteral(out)
	assert.False(t, ok)
	v1, err := out.Eval(expr.NewContext())
	require.NoError(t, err)
	v2, err := out.Eval(expr.NewContext())
	require.NoError(t, err)
	assert.NotEqual(t, v1, v2)
}

func TestFoldBadMapKey(t *testing.T) {
	b := newBuilder(t)
	e := b.call("mapOf", b.call("list", b.lit(int64(1))), b.lit(int64(2)))
	out, n := optimizer.Fold(b.env.Zctx, e)
	// The list is folded but mapOf fails and is kept.
	assert.Equal(t, 1, n)
	assert.Equal(t, "mapOf", out.Token())
	_, err := out.Eval(expr.NewContext())
	assert.ErrorIs(t, err, zscript.ErrBadKey)
}
