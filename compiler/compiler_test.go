package compiler_test

import (
	"strings"
	"testing"

	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/compiler"
	"github.com/brimdata/zscript/compiler/ast"
	zse "github.com/brimdata/zscript/errors"
	"github.com/brimdata/zscript/method"
	"github.com/brimdata/zscript/runtime/expr"
	"github.com/brimdata/zscript/runtime/expr/function"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(name string, args ...ast.Expr) *ast.Call {
	return ast.NewCall(name, ast.Args(args...)...)
}

func ident(name string) *ast.Ident {
	return ast.NewIdent(name)
}

func lit(val any) *ast.Literal {
	return ast.Lit(val)
}

func newCompiler(t *testing.T, opts ...compiler.Option) *compiler.Compiler {
	zctx := zscript.NewContext()
	_, err := zctx.LookupTypeObject("Point", []zscript.Field{
		{Name: "x", Type: zscript.TypeInt64},
		{Name: "y", Type: zscript.TypeInt64},
	})
	require.NoError(t, err)
	return compiler.New(zctx, function.New(), opts...)
}

func eval(t *testing.T, c *compiler.Compiler, e ast.Expr) any {
	t.Helper()
	ev, err := c.Compile(e)
	require.NoError(t, err)
	val, err := ev.Eval(expr.NewContext())
	require.NoError(t, err)
	return val
}

func requireKind(t *testing.T, err error, kind zse.Kind) *zse.Error {
	t.Helper()
	var zerr *zse.Error
	require.ErrorAs(t, err, &zerr)
	assert.Equal(t, kind, zerr.Kind, err.Error())
	return zerr
}

func TestCompile(t *testing.T) {
	c := newCompiler(t)
	double := ast.NewLambda("x", call("mul", ident("x"), lit(2)))
	e := call("map", call("count", lit(3)), double)
	assert.Equal(t, []any{int64(0), int64(2), int64(4)}, eval(t, c, e))

	named := ast.NewCall("count", ast.Named("from", lit(5)), ast.Named("n", lit(2)))
	assert.Equal(t, []any{int64(5), int64(6)}, eval(t, c, named))

	recv := ast.NewMethod(lit(10), "sub", ast.Pos(lit(4)))
	assert.Equal(t, int64(6), eval(t, c, recv))

	list := ast.NewList(lit(1), lit("a"), lit(nil))
	assert.Equal(t, []any{int64(1), "a", nil}, eval(t, c, list))

	noElse := ast.NewConditional(call("lt", lit(2), lit(1)), lit("yes"), nil)
	assert.Nil(t, eval(t, c, noElse))
}

func TestCompileErrors(t *testing.T) {
	c := newCompiler(t)

	src := call("cout", lit(3))
	_, err := c.Compile(src)
	zerr := requireKind(t, err, zse.NoSuchFunction)
	assert.Equal(t, "count", zerr.Hint)
	assert.Same(t, src, zerr.Src)

	_, err = c.Compile(call("add", ident("y"), lit(1)))
	zerr = requireKind(t, err, zse.NoSuchVariable)
	assert.Equal(t, "y", zerr.Arg)

	src = ast.NewCall("count", ast.Named("n", lit(1)), ast.Named("n", lit(2)))
	_, err = c.Compile(src)
	zerr = requireKind(t, err, zse.AmbiguousArgument)
	assert.Same(t, src, zerr.Src)

	_, err = c.Compile(&ast.Literal{Kind: "Literal", Value: "[1,"})
	requireKind(t, err, zse.Invalid)

	_, err = c.Compile(nil)
	assert.Error(t, err)
}

func TestScoping(t *testing.T) {
	c := newCompiler(t)
	shadow := ast.NewLet("x", lit(1), ast.NewLet("x", lit(2), ident("x")))
	assert.Equal(t, int64(2), eval(t, c, shadow))

	// The closure sees the x in scope where the lambda is written.
	closure := ast.NewLet("x", lit(1),
		ast.NewLet("f", ast.NewLambda("y", call("add", ident("x"), ident("y"))),
			ast.NewLet("x", lit(10), ast.NewApply(ident("f"), lit(5)))))
	assert.Equal(t, int64(6), eval(t, c, closure))

	_, err := c.Compile(ast.NewLet("x", lit(1), ident("z")))
	requireKind(t, err, zse.NoSuchVariable)

	// A lambda parameter is not visible outside its body.
	_, err = c.Compile(call("add", ast.NewApply(ast.NewLambda("p", ident("p")), lit(1)), ident("p")))
	requireKind(t, err, zse.NoSuchVariable)
}

func TestCompileIn(t *testing.T) {
	c := newCompiler(t)
	scope := compiler.NewScope()
	v := scope.Bind("n", zscript.TypeInt64)
	ev, err := c.CompileIn(scope, call("mul", ident("n"), ident("n")))
	require.NoError(t, err)
	ectx := expr.NewContext()
	ectx.Define(v, int64(7))
	val, err := ev.Eval(ectx)
	require.NoError(t, err)
	assert.Equal(t, int64(49), val)
	assert.Empty(t, scope.Unused())
}

func TestTypedGet(t *testing.T) {
	c := newCompiler(t)
	point := call("new", lit("Point"), call("mapOf", lit("x"), lit(1), lit("y"), lit(2)))
	e := ast.NewLet("p", point, call("get", ident("p"), lit("y")))
	ev, err := c.Compile(e)
	require.NoError(t, err)
	let, ok := ev.(*expr.Let)
	require.True(t, ok)
	assert.IsType(t, &expr.Dot{}, let.Children()[1])
	val, err := ev.Eval(expr.NewContext())
	require.NoError(t, err)
	assert.Equal(t, int64(2), val)

	_, err = c.Compile(ast.NewLet("p", point, call("get", ident("p"), lit("z"))))
	requireKind(t, err, zse.Invalid)
}

func TestFolding(t *testing.T) {
	c := newCompiler(t, compiler.WithFolding())

	ev, err := c.Compile(call("add", lit(1), call("mul", lit(2), lit(3))))
	require.NoError(t, err)
	val, ok := expr.IsLiteral(ev)
	require.True(t, ok)
	assert.Equal(t, int64(7), val)

	ev, err = c.Compile(call("count", lit(3)))
	require.NoError(t, err)
	val, ok = expr.IsLiteral(ev)
	require.True(t, ok)
	assert.Equal(t, []any{int64(0), int64(1), int64(2)}, val)

	ev, err = c.Compile(call("now"))
	require.NoError(t, err)
	_, ok = expr.IsLiteral(ev)
	assert.False(t, ok)

	ev, err = c.Compile(ast.NewConditional(lit(true), lit(1), call("div", lit(1), lit(0))))
	require.NoError(t, err)
	val, ok = expr.IsLiteral(ev)
	require.True(t, ok)
	assert.Equal(t, int64(1), val)

	// A subtree that fails is left for run time.
	ev, err = c.Compile(call("div", lit(1), lit(0)))
	require.NoError(t, err)
	_, ok = expr.IsLiteral(ev)
	require.False(t, ok)
	_, err = ev.Eval(expr.NewContext())
	assert.ErrorIs(t, err, function.ErrDivideByZero)

	// Constants inside a lambda body are folded but the lambda is not.
	ev, err = c.Compile(ast.NewLambda("x", call("add", ident("x"), call("mul", lit(2), lit(3)))))
	require.NoError(t, err)
	lambda, ok := ev.(*expr.Lambda)
	require.True(t, ok)
	six, ok := expr.IsLiteral(lambda.Body().Args()[1])
	require.True(t, ok)
	assert.Equal(t, int64(6), six)
}

func TestDecompile(t *testing.T) {
	c := newCompiler(t, compiler.WithFolding())
	point := call("new", lit("Point"), call("mapOf", lit("x"), lit(1), lit("y"), lit(2)))
	tests := []struct {
		name string
		src  ast.Expr
	}{
		{"arith", call("add", lit(1), call("mul", lit(2), lit(3)))},
		{"folded list", call("count", lit(3))},
		{"folded maps", call("transpose", call("list", call("list", lit(1), lit(2)), call("list", lit(3), lit(4))))},
		{"folded set", call("set", lit("b"), lit("a"), lit("b"))},
		{"lambda", call("map", call("count", lit(4)), ast.NewLambda("x", call("mul", ident("x"), ident("x"))))},
		{"let", ast.NewLet("n", lit(5), call("count", ident("n"), ast.NewMethod(ident("n"), "neg")))},
		{"apply", ast.NewApply(ast.NewLambda("s", ast.NewMethod(ident("s"), "upper")), lit("abc"))},
		{"dot", ast.NewLet("p", point, ast.NewMethod(ident("p"), "get", ast.Pos(lit("x"))))},
		{"index", ast.NewLet("p", lit(8), call("get", call("list", lit(7), ident("p")), lit(1)))},
		{"conditional", ast.NewLet("v", call("random"), ast.NewConditional(call("lt", ident("v"), lit(2.0)), lit("low"), lit("high")))},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ev, err := c.Compile(tt.src)
			require.NoError(t, err)
			expected, err := ev.Eval(expr.NewContext())
			require.NoError(t, err)

			tree, err := compiler.Decompile(ev)
			require.NoError(t, err)
			again, err := c.Compile(tree)
			require.NoError(t, err)
			assert.Equal(t, ev.Token(), again.Token())
			actual, err := again.Eval(expr.NewContext())
			require.NoError(t, err)
			assert.Equal(t, expected, actual)
		})
	}
}

func TestDecompileObjectLiteral(t *testing.T) {
	zctx := zscript.NewContext()
	typ, err := zctx.LookupTypeObject("Empty", nil)
	require.NoError(t, err)
	_, err = compiler.Decompile(expr.NewLiteral(zctx, zscript.NewObject(typ)))
	assert.Error(t, err)
}

const declarations = `
functions:
  - name: scale
    label: Multiply a number by a factor
    params:
      - name: x
      - name: factor
        doc: the multiplier
        default: 2
    body:
      kind: Call
      name: mul
      args:
        - value: {kind: Ident, name: x}
        - value: {kind: Ident, name: factor}
  - name: fact
    params:
      - name: n
    body:
      kind: Conditional
      cond:
        kind: Call
        name: le
        args:
          - value: {kind: Ident, name: n}
          - value: {kind: Literal, value: 1}
      then: {kind: Literal, value: 1}
      else:
        kind: Call
        name: mul
        args:
          - value: {kind: Ident, name: n}
          - value:
              kind: Call
              name: fact
              args:
                - value:
                    kind: Call
                    name: sub
                    args:
                      - value: {kind: Ident, name: n}
                      - value: {kind: Literal, value: 1}
  - name: stamp
    body: {kind: Call, name: now}
  - name: later
    body: {kind: Call, name: stamp}
  - name: greet
    params:
      - name: who
        default: world
    body:
      kind: Call
      name: concat
      args:
        - value: {kind: Literal, value: '"hello "'}
        - value: {kind: Ident, name: who}
`

func loadFunctions(t *testing.T, c *compiler.Compiler) *method.Registry {
	reg, err := c.LoadFunctions(strings.NewReader(declarations))
	require.NoError(t, err)
	return reg
}

func TestLoadFunctions(t *testing.T) {
	c := newCompiler(t)
	reg := loadFunctions(t, c)
	assert.Equal(t, []string{"fact", "greet", "later", "scale", "stamp"}, reg.Names())

	assert.Equal(t, int64(6), eval(t, c, call("scale", lit(3))))
	assert.Equal(t, int64(9), eval(t, c, ast.NewCall("scale", ast.Pos(lit(3)), ast.Named("factor", lit(3)))))
	assert.Equal(t, int64(8), eval(t, c, ast.NewMethod(lit(4), "scale")))
	assert.Equal(t, int64(120), eval(t, c, call("fact", lit(5))))
	assert.Equal(t, "hello world", eval(t, c, call("greet")))
	assert.Equal(t, "hello there", eval(t, c, call("greet", lit("there"))))

	_, err := c.Compile(ast.NewCall("scale"))
	requireKind(t, err, zse.MissingArgument)

	b, ok := reg.Lookup("scale")
	require.True(t, ok)
	doc := b.(method.Documenter).Doc()
	assert.Equal(t, "Multiply a number by a factor", doc.Label)
}

func TestDeclaredFolding(t *testing.T) {
	c := newCompiler(t, compiler.WithFolding())
	loadFunctions(t, c)

	ev, err := c.Compile(call("fact", lit(5)))
	require.NoError(t, err)
	val, ok := expr.IsLiteral(ev)
	require.True(t, ok)
	assert.Equal(t, int64(120), val)

	for _, name := range []string{"stamp", "later"} {
		ev, err := c.Compile(call(name))
		require.NoError(t, err)
		_, ok := expr.IsLiteral(ev)
		assert.False(t, ok, name)
		assert.False(t, ev.SideEffectFree(), name)
	}
}

func TestParamDefaults(t *testing.T) {
	c := newCompiler(t)
	_, err := c.LoadFunctions(strings.NewReader(`
functions:
  - name: pick
    params:
      - name: a
        default: null
      - name: b
        default: 1.5
      - name: c
        default: "7"
      - name: d
        default: true
    body: {kind: Call, name: list, args: [{value: {kind: Ident, name: a}}, {value: {kind: Ident, name: b}}, {value: {kind: Ident, name: c}}, {value: {kind: Ident, name: d}}]}
`))
	require.NoError(t, err)
	assert.Equal(t, []any{int64(0), 1.5, "7", true}, eval(t, c, call("pick", lit(0))))
	_, err = c.Compile(call("pick"))
	requireKind(t, err, zse.MissingArgument)

	_, err = c.LoadFunctions(strings.NewReader(`
functions:
  - name: listy
    params: [{name: a, default: [1, 2]}]
    body: {kind: Ident, name: a}
`))
	assert.ErrorContains(t, err, "must be a primitive value")
}

func TestLoadFunctionsErrors(t *testing.T) {
	c := newCompiler(t)
	_, err := c.LoadFunctions(strings.NewReader(`
functions:
  - name: add
    params: [{name: a}, {name: b}]
    body: {kind: Ident, name: a}
`))
	zerr := requireKind(t, err, zse.Ambiguous)
	assert.Equal(t, "add", zerr.Func)

	_, err = c.LoadFunctions(strings.NewReader(`
functions:
  - name: broken
    body: {kind: Call, name: nosuch}
`))
	requireKind(t, err, zse.NoSuchFunction)
	_, ok := c.Resolver().Lookup("broken")
	assert.False(t, ok)

	_, err = c.LoadFunctions(strings.NewReader(`
functions:
  - name: twice
    params: [{name: a}, {name: a}]
    body: {kind: Ident, name: a}
`))
	assert.ErrorContains(t, err, "duplicate parameter")

	_, err = c.LoadFunctions(strings.NewReader(`
functions:
  - name: nobody
`))
	assert.ErrorContains(t, err, "no body")

	_, err = c.LoadFunctions(strings.NewReader(`
functions:
  - name: f
    bogus: 1
    body: {kind: Literal, value: 1}
`))
	assert.Error(t, err)

	reg, err := c.LoadFunctions(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, reg.Names())
}

func TestCache(t *testing.T) {
	c := newCompiler(t)
	reg := prometheus.NewRegistry()
	cache, err := compiler.NewCache(c, 1, reg)
	require.NoError(t, err)

	e1, err := cache.Compile(call("count", lit(3)))
	require.NoError(t, err)
	e2, err := cache.Compile(call("count", lit(3)))
	require.NoError(t, err)
	assert.Same(t, e1, e2)
	assert.Equal(t, 1, cache.Len())

	e3, err := cache.Compile(call("count", lit(4)))
	require.NoError(t, err)
	assert.NotSame(t, e1, e3)
	assert.Equal(t, 1, cache.Len())

	_, err = cache.Compile(call("nosuch"))
	requireKind(t, err, zse.NoSuchFunction)
	assert.Equal(t, 1, cache.Len())

	assert.EqualValues(t, 1, counterValue(t, reg, "zscript_compile_cache_hits_total"))
	assert.EqualValues(t, 3, counterValue(t, reg, "zscript_compile_cache_misses_total"))
}

func counterValue(t *testing.T, g prometheus.Gatherer, name string) float64 {
	families, err := g.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			require.Len(t, f.Metric, 1)
			return f.Metric[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("no metric named %s", name)
	return 0
}
