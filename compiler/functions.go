package compiler

import (
	"errors"
	"fmt"
	"io"

	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/compiler/ast"
	"github.com/brimdata/zscript/method"
	"github.com/brimdata/zscript/runtime/expr"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FunctionsConfig is the YAML document read by LoadFunctions, e.g.,
//
//	functions:
//	  - name: scale
//	    label: Multiply a number by a factor
//	    params:
//	      - name: x
//	      - name: factor
//	        default: 2
//	    body:
//	      kind: Call
//	      name: mul
//	      args:
//	        - value: {kind: Ident, name: x}
//	        - value: {kind: Ident, name: factor}
type FunctionsConfig struct {
	Functions []FunctionConfig `yaml:"functions"`
}

type FunctionConfig struct {
	Name    string        `yaml:"name"`
	Label   string        `yaml:"label"`
	Returns string        `yaml:"returns"`
	Params  []ParamConfig `yaml:"params"`
	Body    any           `yaml:"body"`
}

type ParamConfig struct {
	Name string `yaml:"name"`
	Doc  string `yaml:"doc"`
	// Default is a primitive value.  A parameter without a default or
	// with a null default is mandatory.
	Default yaml.Node `yaml:"default"`
}

// LoadFunctions reads function declarations from r and adds them to the
// functions known to c.  It returns the registry of the new functions.
// Declared functions may call each other and themselves.  A name that is
// already defined is an error.
func (c *Compiler) LoadFunctions(r io.Reader) (*method.Registry, error) {
	var config FunctionsConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("function declarations: %w", err)
	}
	reg := method.NewRegistry()
	var decls []*declared
	var err error
	for _, fc := range config.Functions {
		d, declErr := newDeclared(fc)
		if declErr == nil {
			declErr = reg.Register(fc.Name, d.builder())
		}
		if declErr != nil {
			err = multierr.Append(err, declErr)
			continue
		}
		decls = append(decls, d)
	}
	if err != nil {
		return nil, err
	}
	resolver, err := method.Chain(c.resolver, reg)
	if err != nil {
		return nil, err
	}
	// The declared functions are registered before any body is compiled
	// so that bodies may refer to any of them.
	saved := c.resolver
	c.resolver = resolver
	for _, d := range decls {
		err = multierr.Append(err, d.compile(c))
	}
	if err != nil {
		c.resolver = saved
		return nil, err
	}
	markImpure(decls)
	for _, d := range decls {
		d.typ = d.body.Type()
		c.logger.Debug("Declared function", zap.String("name", d.name), zap.Strings("params", d.paramNames()))
	}
	return reg, nil
}

// declared is the function of a declaration.  Each call binds the
// arguments to the parameters and evaluates the body.
type declared struct {
	name   string
	desc   *method.Descriptor
	doc    *method.Doc
	src    ast.Expr
	params []*expr.Var
	body   expr.Evaluator
	typ    zscript.Type
	impure bool
}

func newDeclared(fc FunctionConfig) (*declared, error) {
	if fc.Name == "" {
		return nil, errors.New("function declaration without a name")
	}
	if fc.Body == nil {
		return nil, fmt.Errorf("function %s: no body", fc.Name)
	}
	src, err := ast.UnpackObject(fc.Body)
	if err != nil {
		return nil, fmt.Errorf("function %s: %w", fc.Name, err)
	}
	params := make([]method.Param, 0, len(fc.Params))
	for _, pc := range fc.Params {
		p := method.Required(pc.Name)
		if def := pc.Default; !def.IsZero() && def.ShortTag() != "!!null" {
			if def.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("function %s: default of parameter %s must be a primitive value", fc.Name, pc.Name)
			}
			var val any = def.Value
			if def.ShortTag() != "!!str" {
				val, err = zscript.ParseValue(def.Value)
				if err != nil {
					return nil, fmt.Errorf("function %s: default of parameter %s: %w", fc.Name, pc.Name, err)
				}
			}
			p = method.WithDefault(pc.Name, val)
		}
		p.Doc = pc.Doc
		params = append(params, p)
	}
	desc, err := newMethod(params)
	if err != nil {
		return nil, fmt.Errorf("function %s: %w", fc.Name, err)
	}
	return &declared{
		name: fc.Name,
		desc: desc,
		doc:  &method.Doc{Label: fc.Label, Returns: fc.Returns},
		src:  src,
	}, nil
}

// newMethod is method.Method with the duplicate-name panic turned into an
// error.
func newMethod(params []method.Param) (desc *method.Descriptor, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return method.Method(params...), nil
}

func (d *declared) builder() *method.Func {
	return &method.Func{
		Desc:          d.desc,
		Fn:            d,
		TokenName:     d.name,
		Documentation: d.doc,
	}
}

func (d *declared) paramNames() []string {
	var names []string
	for _, p := range d.desc.Params() {
		names = append(names, p.Name)
	}
	return names
}

func (d *declared) compile(c *Compiler) error {
	scope := NewScope()
	for _, name := range d.paramNames() {
		d.params = append(d.params, scope.Bind(name, nil))
	}
	body, err := c.compileExpr(scope, d.src)
	if err != nil {
		return fmt.Errorf("function %s: %w", d.name, err)
	}
	d.body = body
	return nil
}

func (d *declared) Call(ectx *expr.Context, args []any) (any, error) {
	scope := ectx.Extend()
	for k, v := range d.params {
		scope.Define(v, args[k])
	}
	return d.body.Eval(scope)
}

// ResultType is the type of the body, which is nil until the body is
// compiled and while its type is inferred so that recursive calls
// terminate.
func (d *declared) ResultType([]zscript.Type) zscript.Type {
	return d.typ
}

func (d *declared) Impure() bool { return d.impure }

// markImpure flags the declared functions whose bodies have side effects,
// including through calls to other declared functions.
func markImpure(decls []*declared) {
	for changed := true; changed; {
		changed = false
		for _, d := range decls {
			if !d.impure && !pure(d.body) {
				d.impure = true
				changed = true
			}
		}
	}
}

func pure(e expr.Evaluator) bool {
	if !e.SideEffectFree() {
		return false
	}
	for _, child := range e.Children() {
		if !pure(child) {
			return false
		}
	}
	return true
}
