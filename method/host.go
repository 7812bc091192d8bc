package method

import (
	"fmt"
	"reflect"

	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/compiler/ast"
	zse "github.com/brimdata/zscript/errors"
	"github.com/brimdata/zscript/runtime/expr"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// hostFunc is a host method adapted by the reflective scan.
type hostFunc struct {
	name   string
	origin string
	fn     reflect.Value
	params []string
	convs  []Converter
	out    reflect.Type
	hasErr bool
	impure bool
	desc   *Descriptor
	doc    *Doc
}

// call converts args and invokes the host method.  Panics in the host
// method are returned as errors.
func (f *hostFunc) call(args []any) (result any, err error) {
	in := make([]reflect.Value, len(args))
	for k, arg := range args {
		v, convErr := f.convs[k](arg)
		if convErr != nil {
			return nil, &zse.Error{
				Kind:  zse.Conversion,
				Func:  f.name,
				Arg:   f.params[k],
				Value: zscript.FormatValue(arg),
				Err:   convErr,
			}
		}
		in[k] = v
	}
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &zse.Error{Func: f.name, Err: fmt.Errorf("panic in %s: %v", f.origin, r)}
		}
	}()
	out := f.fn.Call(in)
	if f.hasErr {
		if e := out[len(out)-1]; !e.IsNil() {
			return nil, &zse.Error{Func: f.name, Err: e.Interface().(error)}
		}
	}
	if f.out == nil {
		return nil, nil
	}
	result, err = FromHost(out[0])
	if err != nil {
		return nil, &zse.Error{Func: f.name, Err: err}
	}
	return result, nil
}

type hostBuilder struct {
	f *hostFunc
}

var (
	_ Builder    = (*hostBuilder)(nil)
	_ Documenter = (*hostBuilder)(nil)
)

func (h *hostBuilder) Descriptor() *Descriptor { return h.f.desc }
func (h *hostBuilder) Doc() *Doc               { return h.f.doc }

// Origin returns the Go method implementing the function.
func (h *hostBuilder) Origin() string {
	return h.f.origin
}

func (h *hostBuilder) Build(env *Env, src ast.Expr, self expr.Evaluator, args []expr.Evaluator) (expr.Evaluator, error) {
	if self != nil {
		return nil, &zse.Error{Kind: zse.Invalid, Func: h.f.name, Src: src, Err: fmt.Errorf("%s takes no receiver", h.f.name)}
	}
	call := &hostCall{f: h.f, typ: StaticType(env.Zctx, h.f.out)}
	return expr.NewCall(h.f.name, call, nil, args), nil
}

// hostCall is the expr.Function of a call to a host method.
type hostCall struct {
	f   *hostFunc
	typ zscript.Type
}

var (
	_ expr.Function = (*hostCall)(nil)
	_ expr.Impure   = (*hostCall)(nil)
)

func (h *hostCall) Call(_ *expr.Context, args []any) (any, error) {
	return h.f.call(args)
}

func (h *hostCall) ResultType([]zscript.Type) zscript.Type {
	return h.typ
}

func (h *hostCall) Impure() bool {
	return h.f.impure
}
