package ztest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestShouldSkip(t *testing.T) {
	assert.Equal(t, "script test on in-process run", (&ZTest{Script: "x"}).ShouldSkip(""))
	assert.Equal(t, "reason", (&ZTest{Skip: "reason"}).ShouldSkip(""))
	assert.Equal(t, `tag "x" does not match ZTEST_TAG=""`, (&ZTest{Tag: "x"}).ShouldSkip(""))
	assert.Equal(t, "", (&ZTest{Script: "x"}).ShouldSkip("/bin"))
}

func parse(t *testing.T, s string) *ZTest {
	var z ZTest
	require.NoError(t, yaml.Unmarshal([]byte(s), &z))
	return &z
}

func TestRunInternal(t *testing.T) {
	z := parse(t, `
expr:
  kind: Call
  name: count
  args: [{value: {kind: Ident, name: n}}]
vars:
  n: 3
output: |
  [0,1,2]
`)
	assert.NoError(t, z.RunInternal())

	z.Output = "[0,1]"
	err := z.RunInternal()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-[0,1]")
	assert.Contains(t, err.Error(), "+[0,1,2]")

	z = parse(t, `
expr: {kind: Call, name: cout}
errorRE: 'no such function.*did you mean "count"'
`)
	assert.NoError(t, z.RunInternal())
	z.ErrorRE = "^nomatch"
	assert.Error(t, z.RunInternal())

	z = parse(t, `
types:
  - name: Point
    fields: [{name: x, type: int64}, {name: y, type: int64}]
functions:
  - name: norm1
    params: [{name: p}]
    body:
      kind: Call
      name: add
      args:
        - value: {kind: Call, name: get, args: [{value: {kind: Ident, name: p}}, {value: {kind: Literal, value: '"x"'}}]}
        - value: {kind: Call, name: get, args: [{value: {kind: Ident, name: p}}, {value: {kind: Literal, value: '"y"'}}]}
expr:
  kind: Call
  name: norm1
  args:
    - value:
        kind: Call
        name: new
        args:
          - value: {kind: Literal, value: '"Point"'}
          - value: {kind: Call, name: mapOf, args: [{value: {kind: Literal, value: '"x"'}}, {value: {kind: Literal, value: 3}}, {value: {kind: Literal, value: '"y"'}}, {value: {kind: Literal, value: 4}}]}
output: "7"
`)
	assert.NoError(t, z.RunInternal())

	assert.Error(t, (&ZTest{}).RunInternal())
}

func TestRunScript(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows because RunScript uses cmd.exe instead of bash")
	}
	t.Run("outputs", func(t *testing.T) {
		testDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(testDir, "testdirfile"), []byte("testdirfile\n"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(testDir, "in.txt"), []byte("input\n"), 0644))
		strptr := func(s string) *string { return &s }
		err := (&ZTest{
			Script: `
				echo stdout
				echo stderr >&2
				touch empty
				echo notempty > notempty
				echo regexp > regexp
				echo testdirfile > testdirfile
				echo testdirfile > testdirfile2
				cp in.txt copy.txt
				`,
			Inputs: []File{{Name: "in.txt"}},
			Outputs: []File{
				{Name: "stdout", Data: strptr("stdout\n")},
				{Name: "stderr", Data: strptr("stderr\n")},
				{Name: "empty", Data: strptr("")},
				{Name: "notempty", Data: strptr("notempty\n")},
				{Name: "regexp", Re: "^re"},
				{Name: "testdirfile"},
				{Name: "testdirfile2", Source: "testdirfile"},
				{Name: "copy.txt", Source: "in.txt"},
			},
		}).RunScript("", testDir, t.TempDir())
		assert.NoError(t, err)
	})
	t.Run("error", func(t *testing.T) {
		err := (&ZTest{
			Script:  "echo 1; echo 2 >&2; exit 3",
			Outputs: []File{},
		}).RunScript("", "", "")
		assert.EqualError(t, err, "script failed: exit status 3\n=== stdout ===\n1\n=== stderr ===\n2\n")
	})
	t.Run("mismatch", func(t *testing.T) {
		data := "other\n"
		err := (&ZTest{
			Script:  "echo same",
			Outputs: []File{{Name: "stdout", Data: &data}},
		}).RunScript("", "", t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "stdout mismatch")
	})
}
