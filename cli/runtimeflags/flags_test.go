package runtimeflags

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/brimdata/zscript/compiler/ast"
	"github.com/brimdata/zscript/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVars(t *testing.T) {
	var f Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.SetFlags(fs)
	require.NoError(t, fs.Parse([]string{"-var", "n=3", "-var", `s="a=b"`, "-fold"}))
	vars, err := f.ParseVars()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": int64(3), "s": "a=b"}, vars)
	assert.True(t, f.Fold)
	assert.Equal(t, runtime.DefaultCacheSize, f.CacheSize)

	f.Vars = multiFlag{"novalue", "x=[1"}
	_, err = f.ParseVars()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `-var "novalue"`)
	assert.Contains(t, err.Error(), "-var x")
}

func TestReadTree(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "tree.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"kind":"Call","name":"count","args":[{"value":{"kind":"Literal","value":"3"}}]}`), 0644))
	tree, err := ReadTree(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, ast.NewCall("count", ast.Pos(ast.Lit(3))), tree)

	yamlPath := filepath.Join(dir, "tree.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("kind: Ident\nname: x\n"), 0644))
	tree, err = ReadTree(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, ast.NewIdent("x"), tree)

	_, err = ReadTree(filepath.Join(dir, "nosuch.yaml"))
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "functions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
functions:
  - name: twice
    params: [{name: x}]
    body: {kind: Call, name: mul, args: [{value: {kind: Ident, name: x}}, {value: {kind: Literal, value: 2}}]}
`), 0644))
	f := Flags{Functions: multiFlag{path}}
	rt, err := f.Open(runtime.DefaultContext())
	require.NoError(t, err)
	q, err := rt.NewQuery(ast.NewCall("twice", ast.Pos(ast.Lit(21))), nil)
	require.NoError(t, err)
	val, err := q.Eval()
	require.NoError(t, err)
	assert.Equal(t, int64(42), val)

	f.Functions = multiFlag{filepath.Join(t.TempDir(), "nosuch.yaml")}
	_, err = f.Open(runtime.DefaultContext())
	assert.Error(t, err)
}
