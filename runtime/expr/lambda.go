package expr

import (
	"github.com/brimdata/zscript"
	zse "github.com/brimdata/zscript/errors"
)

// Lambda is a single-parameter function literal.  It evaluates to a
// *Closure over the Context in which it is evaluated.
type Lambda struct {
	zctx      *zscript.Context
	param     *Var
	paramType zscript.Type
	body      Evaluator
}

var _ Evaluator = (*Lambda)(nil)

func NewLambda(zctx *zscript.Context, param *Var, paramType zscript.Type, body Evaluator) *Lambda {
	return &Lambda{zctx: zctx, param: param, paramType: paramType, body: body}
}

func (l *Lambda) Param() *Var                   { return l.param }
func (l *Lambda) Body() Evaluator               { return l.body }
func (*Lambda) Token() string                   { return "lambda" }
func (l *Lambda) Children() []Evaluator         { return []Evaluator{l.body} }
func (*Lambda) Self() (Evaluator, bool)         { return nil, false }
func (l *Lambda) Args() []Evaluator             { return []Evaluator{l.body} }
func (*Lambda) SideEffectFree() bool            { return true }
func (*Lambda) CanEvalAtCompileTime([]any) bool { return false }

func (l *Lambda) Type() zscript.Type {
	return l.zctx.LookupTypeFunction(l.paramType, l.body.Type())
}

func (l *Lambda) Copy(children []Evaluator) Evaluator {
	return NewLambda(l.zctx, l.param, l.paramType, children[0])
}

func (l *Lambda) Eval(ectx *Context) (any, error) {
	return &Closure{lambda: l, env: ectx}, nil
}

// Closure is the runtime value of a Lambda.  It captures the scope in
// which the Lambda was evaluated.
type Closure struct {
	lambda *Lambda
	env    *Context
}

var _ zscript.Function = (*Closure)(nil)

func (c *Closure) Type() zscript.Type {
	return c.lambda.Type()
}

// Invoke binds arg to the lambda's parameter in a new scope nested in the
// defining Context and evaluates the body.  The scope is private to this
// call and stays alive as long as a closure created by the body holds it.
func (c *Closure) Invoke(arg any) (any, error) {
	scope := c.env.Extend()
	scope.Define(c.lambda.param, arg)
	return c.lambda.body.Eval(scope)
}

// Let binds the value of its first child to a variable while evaluating
// its second child.
type Let struct {
	node
	v *Var
}

var _ Evaluator = (*Let)(nil)

func NewLet(v *Var, val, body Evaluator) *Let {
	return &Let{node: newNode(nil, []Evaluator{val, body}), v: v}
}

func (l *Let) Var() *Var          { return l.v }
func (*Let) Token() string        { return "let" }
func (*Let) SideEffectFree() bool { return true }
func (l *Let) Type() zscript.Type { return l.children[1].Type() }

func (l *Let) Copy(children []Evaluator) Evaluator {
	return NewLet(l.v, children[0], children[1])
}

func (l *Let) Eval(ectx *Context) (any, error) {
	val, err := l.children[0].Eval(ectx)
	if err != nil {
		return nil, err
	}
	scope := ectx.Extend()
	scope.Define(l.v, val)
	return l.children[1].Eval(scope)
}

// Apply evaluates a function expression then its argument and invokes
// the function with the argument.
type Apply struct {
	node
}

var _ Evaluator = (*Apply)(nil)

func NewApply(fn, arg Evaluator) *Apply {
	return &Apply{newNode(nil, []Evaluator{fn, arg})}
}

func (*Apply) Token() string        { return "apply" }
func (*Apply) SideEffectFree() bool { return true }

func (a *Apply) Type() zscript.Type {
	if typ, ok := a.children[0].Type().(*zscript.TypeFunction); ok {
		return typ.Result
	}
	return nil
}

func (a *Apply) Copy(children []Evaluator) Evaluator {
	return NewApply(children[0], children[1])
}

func (a *Apply) Eval(ectx *Context) (any, error) {
	fn, err := a.children[0].Eval(ectx)
	if err != nil {
		return nil, err
	}
	arg, err := a.children[1].Eval(ectx)
	if err != nil {
		return nil, err
	}
	return Invoke("apply", fn, arg)
}

// Invoke calls fn, which must be a function value, with arg.
func Invoke(op string, fn, arg any) (any, error) {
	f, ok := fn.(zscript.Function)
	if !ok {
		return nil, &zse.Error{Kind: zse.Type, Func: op, Value: zscript.FormatValue(fn)}
	}
	return f.Invoke(arg)
}
