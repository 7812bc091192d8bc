package expr_test

import (
	"errors"
	"testing"

	"github.com/brimdata/zscript"
	zse "github.com/brimdata/zscript/errors"
	"github.com/brimdata/zscript/runtime/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lit(zctx *zscript.Context, val any) *expr.Literal {
	return expr.NewLiteral(zctx, val)
}

// boom fails the test if it is ever evaluated.
type boom struct{ t *testing.T }

func (b *boom) Call(*expr.Context, []any) (any, error) {
	b.t.Fatal("unchosen branch evaluated")
	return nil, nil
}

func (*boom) ResultType([]zscript.Type) zscript.Type { return zscript.TypeBool }

type add struct{}

func (add) Call(_ *expr.Context, args []any) (any, error) {
	return args[0].(int64) + args[1].(int64), nil
}

func (add) ResultType([]zscript.Type) zscript.Type { return zscript.TypeInt64 }

type clock struct{ n int64 }

func (c *clock) Call(*expr.Context, []any) (any, error) {
	c.n++
	return c.n, nil
}

func (*clock) ResultType([]zscript.Type) zscript.Type { return zscript.TypeInt64 }
func (*clock) Impure() bool                           { return true }

func TestContextScopes(t *testing.T) {
	x, y := expr.NewVar("x"), expr.NewVar("x")
	outer := expr.NewContext()
	outer.Define(x, int64(1))
	inner := outer.Extend()
	inner.Define(y, int64(2))

	val, ok := inner.Lookup(x)
	require.True(t, ok)
	assert.Equal(t, int64(1), val)
	val, ok = inner.Lookup(y)
	require.True(t, ok)
	assert.Equal(t, int64(2), val)
	_, ok = outer.Lookup(y)
	assert.False(t, ok, "same name, different token")

	inner.Define(x, int64(3))
	val, _ = inner.Lookup(x)
	assert.Equal(t, int64(3), val)
	inner.Delete(x)
	val, _ = inner.Lookup(x)
	assert.Equal(t, int64(1), val)
}

func TestShortCircuit(t *testing.T) {
	zctx := zscript.NewContext()
	bad := expr.NewCall("boom", &boom{t}, nil, nil)
	ectx := expr.NewContext()

	val, err := expr.NewLogicalAnd(lit(zctx, false), bad).Eval(ectx)
	require.NoError(t, err)
	assert.Equal(t, false, val)

	val, err = expr.NewLogicalOr(lit(zctx, true), bad).Eval(ectx)
	require.NoError(t, err)
	assert.Equal(t, true, val)

	val, err = expr.NewConditional(lit(zctx, true), lit(zctx, int64(1)), bad).Eval(ectx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), val)

	val, err = expr.NewDefault(lit(zctx, "x"), bad).Eval(ectx)
	require.NoError(t, err)
	assert.Equal(t, "x", val)

	val, err = expr.NewDefault(lit(zctx, nil), lit(zctx, "y")).Eval(ectx)
	require.NoError(t, err)
	assert.Equal(t, "y", val)
}

func TestConditionalNotBool(t *testing.T) {
	zctx := zscript.NewContext()
	_, err := expr.NewConditional(lit(zctx, int64(1)), lit(zctx, 1), lit(zctx, 2)).Eval(expr.NewContext())
	assert.True(t, zse.IsKind(err, zse.Type))
}

func TestConditionalType(t *testing.T) {
	zctx := zscript.NewContext()
	c := expr.NewConditional(lit(zctx, true), lit(zctx, int64(1)), lit(zctx, 2.5))
	assert.Equal(t, zscript.TypeFloat64, c.Type())
	c = expr.NewConditional(lit(zctx, true), lit(zctx, "a"), lit(zctx, int64(2)))
	assert.Nil(t, c.Type())
}

func TestLambdaApply(t *testing.T) {
	zctx := zscript.NewContext()
	x := expr.NewVar("x")
	body := expr.NewCall("add", add{}, nil, []expr.Evaluator{expr.NewRef(x, zscript.TypeInt64), lit(zctx, int64(1))})
	lambda := expr.NewLambda(zctx, x, zscript.TypeInt64, body)
	apply := expr.NewApply(lambda, lit(zctx, int64(41)))

	assert.Equal(t, zscript.TypeInt64, apply.Type())
	ectx := expr.NewContext()
	val, err := apply.Eval(ectx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), val)
	_, ok := ectx.Lookup(x)
	assert.False(t, ok, "binding must not leak")
}

func TestClosureCapturesScope(t *testing.T) {
	zctx := zscript.NewContext()
	x, y := expr.NewVar("x"), expr.NewVar("y")
	// let y = 10 in (x -> x + y)
	body := expr.NewCall("add", add{}, nil, []expr.Evaluator{expr.NewRef(x, nil), expr.NewRef(y, nil)})
	let := expr.NewLet(y, lit(zctx, int64(10)), expr.NewLambda(zctx, x, nil, body))
	fn, err := let.Eval(expr.NewContext())
	require.NoError(t, err)
	val, err := fn.(zscript.Function).Invoke(int64(5))
	require.NoError(t, err)
	assert.Equal(t, int64(15), val)
}

func TestCurriedLambda(t *testing.T) {
	zctx := zscript.NewContext()
	x, y := expr.NewVar("x"), expr.NewVar("y")
	// ((x -> y -> x + y) 1) 2
	body := expr.NewCall("add", add{}, nil, []expr.Evaluator{expr.NewRef(x, nil), expr.NewRef(y, nil)})
	curried := expr.NewLambda(zctx, x, nil, expr.NewLambda(zctx, y, nil, body))
	e := expr.NewApply(expr.NewApply(curried, lit(zctx, int64(1))), lit(zctx, int64(2)))
	val, err := e.Eval(expr.NewContext())
	require.NoError(t, err)
	assert.Equal(t, int64(3), val)

	addOne, err := expr.NewApply(curried, lit(zctx, int64(1))).Eval(expr.NewContext())
	require.NoError(t, err)
	for k := int64(0); k < 3; k++ {
		val, err := addOne.(zscript.Function).Invoke(k)
		require.NoError(t, err)
		assert.Equal(t, k+1, val)
	}
}

func TestApplyNonFunction(t *testing.T) {
	zctx := zscript.NewContext()
	_, err := expr.NewApply(lit(zctx, int64(1)), lit(zctx, int64(2))).Eval(expr.NewContext())
	assert.True(t, zse.IsKind(err, zse.Type))
}

func TestUnboundVariable(t *testing.T) {
	_, err := expr.NewRef(expr.NewVar("nope"), nil).Eval(expr.NewContext())
	var zerr *zse.Error
	require.True(t, errors.As(err, &zerr))
	assert.Equal(t, zse.NoSuchVariable, zerr.Kind)
	assert.Equal(t, "nope", zerr.Arg)
}

func TestCopyPreservesKind(t *testing.T) {
	zctx := zscript.NewContext()
	x := expr.NewVar("x")
	nodes := []expr.Evaluator{
		expr.NewCall("add", add{}, nil, []expr.Evaluator{lit(zctx, int64(1)), lit(zctx, int64(2))}),
		expr.NewConditional(lit(zctx, false), lit(zctx, "a"), lit(zctx, "b")),
		expr.NewLet(x, lit(zctx, int64(3)), expr.NewRef(x, nil)),
		expr.NewList(zctx, []expr.Evaluator{lit(zctx, int64(1)), lit(zctx, int64(2))}),
		expr.NewDefault(lit(zctx, nil), lit(zctx, 2.5)),
	}
	for _, n := range nodes {
		children := n.Children()
		dup := n.Copy(append([]expr.Evaluator(nil), children...))
		assert.Equal(t, n.Token(), dup.Token())
		assert.NotSame(t, n, dup)
		want, err := n.Eval(expr.NewContext())
		require.NoError(t, err)
		got, err := dup.Eval(expr.NewContext())
		require.NoError(t, err)
		assert.Equal(t, want, got, n.Token())
	}
}

func TestCanFold(t *testing.T) {
	zctx := zscript.NewContext()
	one := lit(zctx, int64(1))
	assert.True(t, expr.CanFold(expr.NewCall("add", add{}, nil, []expr.Evaluator{one, one})))
	assert.False(t, expr.CanFold(one))
	assert.False(t, expr.CanFold(expr.NewCall("clock", &clock{}, nil, nil)))
	x := expr.NewVar("x")
	assert.False(t, expr.CanFold(expr.NewRef(x, nil)))
	assert.False(t, expr.CanFold(expr.NewLambda(zctx, x, nil, one)))
	assert.False(t, expr.CanFold(expr.NewCall("add", add{}, nil, []expr.Evaluator{one, expr.NewRef(x, nil)})))
}

func TestSelfIsFirstChild(t *testing.T) {
	zctx := zscript.NewContext()
	self := lit(zctx, int64(1))
	arg := lit(zctx, int64(2))
	c := expr.NewCall("add", add{}, self, []expr.Evaluator{arg})
	s, ok := c.Self()
	require.True(t, ok)
	assert.Same(t, self, s)
	assert.Equal(t, []expr.Evaluator{arg}, c.Args())
	assert.Len(t, c.Children(), 2)
	dup := c.Copy([]expr.Evaluator{arg, self})
	s, ok = dup.Self()
	require.True(t, ok)
	assert.Same(t, arg, s)
}

func TestGet(t *testing.T) {
	zctx := zscript.NewContext()
	typ, err := zctx.LookupTypeObject("Point", []zscript.Field{{Name: "x", Type: zscript.TypeInt64}})
	require.NoError(t, err)
	p := zscript.NewObject(typ).MustSet("x", int64(7))

	dot, err := expr.NewDot(expr.NewTypedLiteral(p, typ), "x")
	require.NoError(t, err)
	assert.Equal(t, zscript.TypeInt64, dot.Type())
	val, err := dot.Eval(expr.NewContext())
	require.NoError(t, err)
	assert.Equal(t, int64(7), val)

	_, err = expr.NewDot(expr.NewTypedLiteral(p, typ), "y")
	assert.ErrorIs(t, err, zscript.ErrNoSuchField)

	val, err = expr.NewIndex(lit(zctx, []any{"a", "b"}), lit(zctx, int64(1))).Eval(expr.NewContext())
	require.NoError(t, err)
	assert.Equal(t, "b", val)

	val, err = expr.Get(zscript.Map{"k": int64(1)}, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(1), val)

	val, err = expr.Get(nil, "k")
	require.NoError(t, err)
	assert.Nil(t, val)
}
