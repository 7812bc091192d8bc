package expr

import (
	"github.com/brimdata/zscript"
	zse "github.com/brimdata/zscript/errors"
)

// Ref evaluates to the value bound to a variable token.
type Ref struct {
	v   *Var
	typ zscript.Type
}

var _ Evaluator = (*Ref)(nil)

func NewRef(v *Var, typ zscript.Type) *Ref {
	return &Ref{v: v, typ: typ}
}

func (r *Ref) Var() *Var                  { return r.v }
func (*Ref) Token() string                { return "var" }
func (*Ref) Children() []Evaluator        { return nil }
func (*Ref) Self() (Evaluator, bool)      { return nil, false }
func (*Ref) Args() []Evaluator            { return nil }
func (r *Ref) Type() zscript.Type         { return r.typ }
func (*Ref) SideEffectFree() bool         { return true }
func (r *Ref) Copy([]Evaluator) Evaluator { return &Ref{v: r.v, typ: r.typ} }

// CanEvalAtCompileTime is false since a variable is bound only at run time.
func (*Ref) CanEvalAtCompileTime([]any) bool { return false }

func (r *Ref) Eval(ectx *Context) (any, error) {
	val, ok := ectx.Lookup(r.v)
	if !ok {
		return nil, &zse.Error{Kind: zse.NoSuchVariable, Arg: r.v.name}
	}
	return val, nil
}
