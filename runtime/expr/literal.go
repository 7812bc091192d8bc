package expr

import "github.com/brimdata/zscript"

// Literal is a constant.  Its value is shared by every evaluation so
// functions must not modify the values they are passed.
type Literal struct {
	val any
	typ zscript.Type
}

var _ Evaluator = (*Literal)(nil)

func NewLiteral(zctx *zscript.Context, val any) *Literal {
	return &Literal{val: val, typ: zscript.TypeOf(zctx, val)}
}

// NewTypedLiteral is like NewLiteral but keeps the static type of the
// expression it replaces, which may be more precise than the type
// derived from the value.
func NewTypedLiteral(val any, typ zscript.Type) *Literal {
	return &Literal{val: val, typ: typ}
}

func (l *Literal) Value() any                 { return l.val }
func (*Literal) Token() string                { return "literal" }
func (*Literal) Children() []Evaluator        { return nil }
func (*Literal) Self() (Evaluator, bool)      { return nil, false }
func (*Literal) Args() []Evaluator            { return nil }
func (l *Literal) Type() zscript.Type         { return l.typ }
func (l *Literal) Eval(*Context) (any, error) { return l.val, nil }
func (*Literal) SideEffectFree() bool         { return true }
func (l *Literal) Copy([]Evaluator) Evaluator { return &Literal{val: l.val, typ: l.typ} }

// IsLiteral returns the value of e if it is a literal.
func IsLiteral(e Evaluator) (any, bool) {
	if l, ok := e.(*Literal); ok {
		return l.val, true
	}
	return nil, false
}
