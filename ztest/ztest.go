// Package ztest runs tests written as YAML files.
//
// An expression test names a call tree, the values of its free variables,
// and the expected output or an error regular expression:
//
//	expr:
//	  kind: Call
//	  name: count
//	  args: [{value: {kind: Ident, name: n}}]
//	vars:
//	  n: 3
//	output: "[0,1,2]"
//
// The output is the formatted value of the tree.  A test may also declare
// object types and functions, and it may enable constant folding.
//
// A script test runs a bash script and compares the files it leaves
// behind, including stdout and stderr, with the expected outputs.  Script
// tests run only when the ZTEST_PATH environment variable names the
// directory holding the binaries they use.
package ztest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"

	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/compiler/ast"
	zrt "github.com/brimdata/zscript/runtime"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"
)

// Run runs the tests of the .yaml files in dirname as subtests of t.
func Run(t *testing.T, dirname string) {
	shellPath := os.Getenv("ZTEST_PATH")
	dirents, err := os.ReadDir(dirname)
	if err != nil {
		t.Fatal(err)
	}
	for _, dirent := range dirents {
		name := dirent.Name()
		if dirent.IsDir() || filepath.Ext(name) != ".yaml" {
			continue
		}
		filename := filepath.Join(dirname, name)
		t.Run(strings.TrimSuffix(name, ".yaml"), func(t *testing.T) {
			t.Parallel()
			zt, err := FromYAMLFile(filename)
			if err != nil {
				t.Fatalf("%s: %s", filename, err)
			}
			zt.Run(t, shellPath, dirname, filename)
		})
	}
}

type File struct {
	// Name is the name of the file in the script's working directory.
	// The names "stdout" and "stderr" refer to the script's output.
	Name string `yaml:"name"`
	// Data is the expected content.  If Data, Re, and Source are all
	// unset, the content is read from the file of the same name in the
	// test's directory.
	Data *string `yaml:"data,omitempty"`
	// Re is a regular expression the content must match.
	Re string `yaml:"re,omitempty"`
	// Source names a file in the test's directory holding the content.
	Source string `yaml:"source,omitempty"`
}

func (f *File) load(dir string) ([]byte, *regexp.Regexp, error) {
	if f.Data != nil {
		return []byte(*f.Data), nil, nil
	}
	if f.Re != "" {
		re, err := regexp.Compile(f.Re)
		return nil, re, err
	}
	source := f.Source
	if source == "" {
		source = f.Name
	}
	b, err := os.ReadFile(filepath.Join(dir, source))
	return b, nil, err
}

type TypeDef struct {
	Name   string     `yaml:"name"`
	Fields []FieldDef `yaml:"fields"`
}

type FieldDef struct {
	Name string `yaml:"name"`
	// Type is the name of a primitive or object type.  Empty or unknown
	// names leave the field untyped.
	Type string `yaml:"type"`
}

// ZTest is a test read from a YAML file.
type ZTest struct {
	Skip string `yaml:"skip,omitempty"`
	Tag  string `yaml:"tag,omitempty"`

	Types []TypeDef `yaml:"types,omitempty"`
	// Functions holds function declarations loaded before Expr is
	// compiled.
	Functions any `yaml:"functions,omitempty"`
	Expr      any `yaml:"expr,omitempty"`
	// Vars maps the free variables of Expr to the text of their values.
	Vars    map[string]string `yaml:"vars,omitempty"`
	Fold    bool              `yaml:"fold,omitempty"`
	Output  string            `yaml:"output,omitempty"`
	ErrorRE string            `yaml:"errorRE,omitempty"`

	Script  string `yaml:"script,omitempty"`
	Inputs  []File `yaml:"inputs,omitempty"`
	Outputs []File `yaml:"outputs,omitempty"`
}

func FromYAMLFile(filename string) (*ZTest, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	var z ZTest
	if err := dec.Decode(&z); err != nil {
		return nil, err
	}
	if err := dec.Decode(new(any)); err != io.EOF {
		return nil, errors.New("found multiple YAML documents or garbage after first document")
	}
	return &z, nil
}

// ShouldSkip returns the reason the test should not be run or an empty
// string.  path is the value of ZTEST_PATH.
func (z *ZTest) ShouldSkip(path string) string {
	switch {
	case z.Script != "" && path == "":
		return "script test on in-process run"
	case z.Skip != "":
		return z.Skip
	case z.Tag != "" && z.Tag != os.Getenv("ZTEST_TAG"):
		return fmt.Sprintf("tag %q does not match ZTEST_TAG=%q", z.Tag, os.Getenv("ZTEST_TAG"))
	}
	return ""
}

func (z *ZTest) Run(t *testing.T, shellPath, dir, filename string) {
	if reason := z.ShouldSkip(shellPath); reason != "" {
		t.Skip("skipping test:", reason)
	}
	var err error
	if z.Script != "" {
		err = z.RunScript(shellPath, dir, t.TempDir())
	} else {
		err = z.RunInternal()
	}
	if err != nil {
		t.Fatalf("%s: %s", filename, err)
	}
}

// RunInternal evaluates the expression of the test in process.
func (z *ZTest) RunInternal() error {
	if z.Expr == nil {
		return errors.New("test has neither an expr nor a script")
	}
	val, err := z.eval()
	if err != nil {
		if z.ErrorRE == "" {
			return fmt.Errorf("unexpected error: %w", err)
		}
		re, reErr := regexp.Compile(z.ErrorRE)
		if reErr != nil {
			return reErr
		}
		if !re.MatchString(err.Error()) {
			return fmt.Errorf("error %q does not match %q", err, z.ErrorRE)
		}
		return nil
	}
	out := zscript.FormatValue(val)
	if z.ErrorRE != "" {
		return fmt.Errorf("expected an error matching %q but got %s", z.ErrorRE, out)
	}
	return diff("output", strings.TrimSuffix(z.Output, "\n"), out)
}

func (z *ZTest) eval() (any, error) {
	rctx := zrt.DefaultContext()
	defer rctx.Cancel()
	for _, def := range z.Types {
		fields := make([]zscript.Field, 0, len(def.Fields))
		for _, f := range def.Fields {
			fields = append(fields, zscript.Field{Name: f.Name, Type: rctx.Zctx.LookupByName(f.Type)})
		}
		if _, err := rctx.Zctx.LookupTypeObject(def.Name, fields); err != nil {
			return nil, err
		}
	}
	rt, err := zrt.New(rctx, zrt.Config{Fold: z.Fold})
	if err != nil {
		return nil, err
	}
	if z.Functions != nil {
		b, err := yaml.Marshal(map[string]any{"functions": z.Functions})
		if err != nil {
			return nil, err
		}
		if err := rt.LoadFunctions(bytes.NewReader(b)); err != nil {
			return nil, err
		}
	}
	tree, err := ast.UnpackObject(z.Expr)
	if err != nil {
		return nil, err
	}
	vars := make(map[string]any, len(z.Vars))
	for name, text := range z.Vars {
		val, err := zscript.ParseValue(text)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", name, err)
		}
		vars[name] = val
	}
	q, err := rt.NewQuery(tree, vars)
	if err != nil {
		return nil, err
	}
	return q.Eval()
}

// RunScript runs the script of the test in tempDir with the binaries in
// shellPath and compares the outputs with those expected.  Expected
// content not given inline is read from testDir.
func (z *ZTest) RunScript(shellPath, testDir, tempDir string) error {
	for _, f := range z.Inputs {
		b, _, err := f.load(testDir)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(tempDir, f.Name), b, 0644); err != nil {
			return err
		}
	}
	stdout, stderr, err := runShell(tempDir, shellPath, z.Script)
	if err != nil {
		return fmt.Errorf("script failed: %w\n=== stdout ===\n%s=== stderr ===\n%s", err, stdout, stderr)
	}
	for _, f := range z.Outputs {
		var actual string
		switch f.Name {
		case "stdout":
			actual = stdout
		case "stderr":
			actual = stderr
		default:
			b, err := os.ReadFile(filepath.Join(tempDir, f.Name))
			if err != nil {
				return err
			}
			actual = string(b)
		}
		expected, re, err := f.load(testDir)
		if err != nil {
			return err
		}
		if re != nil {
			if !re.MatchString(actual) {
				return fmt.Errorf("%s: %q does not match %q", f.Name, actual, f.Re)
			}
			continue
		}
		if err := diff(f.Name, string(expected), actual); err != nil {
			return err
		}
	}
	return nil
}

func runShell(dir, bindir, script string) (string, string, error) {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd.exe", "/c", script)
	} else {
		// Fail on the first command that fails, even in a pipeline.
		cmd = exec.Command("bash", "-e", "-o", "pipefail", "-c", script)
	}
	cmd.Env = []string{"HOME=" + dir, "PATH=/bin:/usr/bin:" + bindir}
	if tag, ok := os.LookupEnv("ZTEST_TAG"); ok {
		cmd.Env = append(cmd.Env, "ZTEST_TAG="+tag)
	}
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func diff(what, expected, actual string) error {
	if expected == actual {
		return nil
	}
	d, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		FromFile: "expected",
		B:        difflib.SplitLines(actual),
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		return err
	}
	return fmt.Errorf("%s mismatch:\n%s", what, d)
}
