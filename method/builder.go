package method

import (
	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/compiler/ast"
	zse "github.com/brimdata/zscript/errors"
	"github.com/brimdata/zscript/runtime/expr"
)

// Env is the compile-time environment passed to builders.
type Env struct {
	Zctx     *zscript.Context
	Resolver Resolver
}

// Builder constructs the node for one function.  The args passed to Build
// have been unwrapped by the builder's Descriptor.  Self is the receiver of
// a method-style call when the descriptor does not take the receiver as
// its first parameter.  Src is the call being compiled and is used only
// for diagnostics.
type Builder interface {
	// Descriptor returns the parameter shape of the function or nil,
	// which accepts any positional arguments.
	Descriptor() *Descriptor
	Build(env *Env, src ast.Expr, self expr.Evaluator, args []expr.Evaluator) (expr.Evaluator, error)
}

// Tokener is implemented by builders whose nodes carry an identity token
// other than the name the builder is registered under.
type Tokener interface {
	Token() string
}

// Documenter is implemented by builders that describe themselves.
type Documenter interface {
	Doc() *Doc
}

// Doc is the documentation of a function beyond its parameters.
type Doc struct {
	Label      string
	Returns    string
	ReturnType string
}

// DescriptorOf returns b's descriptor or AcceptAny.
func DescriptorOf(b Builder) *Descriptor {
	if d := b.Descriptor(); d != nil {
		return d
	}
	return AcceptAny
}

// Func is a Builder assembled from its parts.  If BuildFn is nil, Build
// returns an expr.Call of Fn.
type Func struct {
	Desc          *Descriptor
	Fn            expr.Function
	BuildFn       func(env *Env, src ast.Expr, self expr.Evaluator, args []expr.Evaluator) (expr.Evaluator, error)
	TokenName     string
	Documentation *Doc
}

var (
	_ Builder    = (*Func)(nil)
	_ Tokener    = (*Func)(nil)
	_ Documenter = (*Func)(nil)
)

func (f *Func) Descriptor() *Descriptor { return f.Desc }
func (f *Func) Token() string           { return f.TokenName }
func (f *Func) Doc() *Doc               { return f.Documentation }

func (f *Func) Build(env *Env, src ast.Expr, self expr.Evaluator, args []expr.Evaluator) (expr.Evaluator, error) {
	if f.BuildFn != nil {
		return f.BuildFn(env, src, self, args)
	}
	token := f.TokenName
	if token == "" {
		token = ast.FuncName(src)
	}
	return expr.NewCall(token, f.Fn, self, args), nil
}

// Literal returns the value of arg, which must be a literal, for the
// argument named name of the function fn.
func Literal(fn, name string, arg expr.Evaluator) (any, error) {
	val, ok := expr.IsLiteral(arg)
	if !ok {
		return nil, &zse.Error{Kind: zse.NotLiteral, Func: fn, Arg: name}
	}
	return val, nil
}

// Apply unwraps args with b's descriptor and builds the node for the
// function name.  A receiver is passed as the first argument if the
// descriptor takes it.
func Apply(env *Env, src ast.Expr, name string, b Builder, self expr.Evaluator, args []Argument) (expr.Evaluator, error) {
	desc := DescriptorOf(b)
	if self != nil && desc.Receiver() {
		args = append([]Argument{{Value: self}}, args...)
		self = nil
	}
	vals, err := desc.Unwrap(name, args)
	if err != nil {
		return nil, err
	}
	return b.Build(env, src, self, vals)
}
