package library_test

import (
	"testing"
	"time"

	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/compiler/ast"
	zse "github.com/brimdata/zscript/errors"
	"github.com/brimdata/zscript/method"
	"github.com/brimdata/zscript/method/library"
	"github.com/brimdata/zscript/runtime/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scan(t *testing.T) *method.Env {
	reg, err := method.Scan(library.All()...)
	require.NoError(t, err)
	return &method.Env{Zctx: zscript.NewContext(), Resolver: reg}
}

func call(t *testing.T, env *method.Env, name string, args ...method.Argument) (any, error) {
	b, ok := env.Resolver.Lookup(name)
	require.True(t, ok, name)
	e, err := method.Apply(env, ast.NewCall(name), name, b, nil, args)
	if err != nil {
		return nil, err
	}
	return e.Eval(expr.NewContext())
}

func pos(env *method.Env, vals ...any) []method.Argument {
	args := make([]method.Argument, 0, len(vals))
	for _, v := range vals {
		args = append(args, method.Argument{Value: expr.NewLiteral(env.Zctx, v)})
	}
	return args
}

func named(env *method.Env, name string, val any) method.Argument {
	return method.Argument{Name: name, Value: expr.NewLiteral(env.Zctx, val)}
}

func TestNames(t *testing.T) {
	env := scan(t)
	assert.Equal(t, []string{
		"clamp", "formatTime", "humanizeBytes", "join", "ksuid", "ksuidTime",
		"normalize", "ordinal", "parseBytes", "parseTime", "repeat", "round",
		"split", "sum", "title", "trim", "union",
	}, env.Resolver.Names())
}

func TestStrings(t *testing.T) {
	env := scan(t)
	tests := []struct {
		name     string
		args     []method.Argument
		expected any
	}{
		{"trim", pos(env, "  hi \n"), "hi"},
		{"trim", pos(env, "xxhixx", "x"), "hi"},
		{"repeat", pos(env, "ab"), "abab"},
		{"repeat", pos(env, "ab", int64(3)), "ababab"},
		{"split", pos(env, "a,b"), []any{"a", "b"}},
		{"split", pos(env, "a b", " "), []any{"a", "b"}},
		{"split", pos(env, ""), []any{}},
		{"join", pos(env, []any{"a", "b"}), "a,b"},
		{"join", append(pos(env, []any{"a", "b"}), named(env, "sep", "-")), "a-b"},
		{"title", pos(env, "hello world"), "Hello World"},
		{"normalize", pos(env, "e\u0301"), "\u00e9"},
		{"normalize", pos(env, "\u00e9", "nfd"), "e\u0301"},
	}
	for _, tc := range tests {
		val, err := call(t, env, tc.name, tc.args...)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.expected, val, tc.name)
	}
	_, err := call(t, env, "repeat", pos(env, "a", int64(-1))...)
	var zerr *zse.Error
	require.ErrorAs(t, err, &zerr)
	assert.Equal(t, "repeat", zerr.Func)
}

func TestNumbers(t *testing.T) {
	env := scan(t)
	val, err := call(t, env, "clamp", pos(env, int64(12), int64(0), 10.0)...)
	require.NoError(t, err)
	assert.Equal(t, 10.0, val)
	_, err = call(t, env, "clamp", pos(env, 1.0, 2.0, 1.0)...)
	assert.Error(t, err)

	val, err = call(t, env, "sum", pos(env, []any{int64(1), 2.5})...)
	require.NoError(t, err)
	assert.Equal(t, 3.5, val)

	val, err = call(t, env, "round", pos(env, 2.5)...)
	require.NoError(t, err)
	assert.Equal(t, 2.0, val)
	val, err = call(t, env, "round", append(pos(env, 2.5), named(env, "mode", "halfUp"))...)
	require.NoError(t, err)
	assert.Equal(t, 3.0, val)
	val, err = call(t, env, "round", pos(env, 1.234, int64(1), "up")...)
	require.NoError(t, err)
	assert.InDelta(t, 1.3, val, 1e-9)

	_, err = call(t, env, "round", append(pos(env, 2.5), named(env, "mode", "sideways"))...)
	var zerr *zse.Error
	require.ErrorAs(t, err, &zerr)
	assert.Equal(t, zse.Conversion, zerr.Kind)
	assert.Equal(t, "mode", zerr.Arg)
}

func TestTime(t *testing.T) {
	env := scan(t)
	val, err := call(t, env, "parseTime", pos(env, "2021-03-04 05:06:07")...)
	require.NoError(t, err)
	expected := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	assert.Equal(t, expected, val)

	val, err = call(t, env, "formatTime", pos(env, expected)...)
	require.NoError(t, err)
	assert.Equal(t, "2021-03-04T05:06:07Z", val)
	val, err = call(t, env, "formatTime", pos(env, "2021-03-04T05:06:07Z", "2006")...)
	require.NoError(t, err)
	assert.Equal(t, "2021", val)

	_, err = call(t, env, "parseTime", pos(env, "not a time")...)
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	env := scan(t)
	val, err := call(t, env, "humanizeBytes", pos(env, int64(82854982))...)
	require.NoError(t, err)
	assert.Equal(t, "83 MB", val)
	val, err = call(t, env, "ordinal", pos(env, int64(3))...)
	require.NoError(t, err)
	assert.Equal(t, "3rd", val)

	_, err = call(t, env, "humanizeBytes", pos(env, int64(-1))...)
	var zerr *zse.Error
	require.ErrorAs(t, err, &zerr)
	assert.Equal(t, zse.Conversion, zerr.Kind)
}

func TestParseBytes(t *testing.T) {
	env := scan(t)
	val, err := call(t, env, "parseBytes", pos(env, "4KiB")...)
	require.NoError(t, err)
	assert.Equal(t, int64(4096), val)
	_, err = call(t, env, "parseBytes", pos(env, "4 lumps")...)
	assert.Error(t, err)
}

func TestKsuid(t *testing.T) {
	env := scan(t)
	id, err := call(t, env, "ksuid")
	require.NoError(t, err)
	require.IsType(t, "", id)
	assert.Len(t, id, 27)
	val, err := call(t, env, "ksuidTime", pos(env, id)...)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), val.(time.Time), time.Minute)

	b, ok := env.Resolver.Lookup("ksuid")
	require.True(t, ok)
	e, err := method.Apply(env, ast.NewCall("ksuid"), "ksuid", b, nil, nil)
	require.NoError(t, err)
	assert.False(t, e.SideEffectFree())
}

func TestUnion(t *testing.T) {
	env := scan(t)
	val, err := call(t, env, "union", pos(env, zscript.NewSet("b", "a"), []any{"c", "a"})...)
	require.NoError(t, err)
	assert.Equal(t, zscript.Set{"a", "b", "c"}, val)
}

func TestDocs(t *testing.T) {
	env := scan(t)
	b, ok := env.Resolver.Lookup("round")
	require.True(t, ok)
	params := method.DescriptorOf(b).Params()
	require.Len(t, params, 3)
	assert.True(t, params[0].Mandatory())
	assert.False(t, params[2].Mandatory())
	assert.Equal(t, "mode", params[2].Name)
	doc := b.(method.Documenter).Doc()
	assert.Equal(t, "Round a number to a number of decimal places", doc.Label)
	assert.Equal(t, "float64", doc.ReturnType)
}
