package expr

import "github.com/brimdata/zscript"

// And and Or evaluate their right-hand side only when the left-hand side
// does not determine the result.
type And struct {
	node
}

var _ Evaluator = (*And)(nil)

func NewLogicalAnd(lhs, rhs Evaluator) *And {
	return &And{newNode(nil, []Evaluator{lhs, rhs})}
}

func (*And) Token() string        { return "and" }
func (*And) Type() zscript.Type   { return zscript.TypeBool }
func (*And) SideEffectFree() bool { return true }

func (a *And) Copy(children []Evaluator) Evaluator {
	return NewLogicalAnd(children[0], children[1])
}

func (a *And) Eval(ectx *Context) (any, error) {
	lhs, err := EvalBool(ectx, a.children[0], "and")
	if err != nil || !lhs {
		return false, err
	}
	return EvalBool(ectx, a.children[1], "and")
}

type Or struct {
	node
}

var _ Evaluator = (*Or)(nil)

func NewLogicalOr(lhs, rhs Evaluator) *Or {
	return &Or{newNode(nil, []Evaluator{lhs, rhs})}
}

func (*Or) Token() string        { return "or" }
func (*Or) Type() zscript.Type   { return zscript.TypeBool }
func (*Or) SideEffectFree() bool { return true }

func (o *Or) Copy(children []Evaluator) Evaluator {
	return NewLogicalOr(children[0], children[1])
}

func (o *Or) Eval(ectx *Context) (any, error) {
	lhs, err := EvalBool(ectx, o.children[0], "or")
	if err != nil || lhs {
		return lhs, err
	}
	return EvalBool(ectx, o.children[1], "or")
}

// Conditional evaluates exactly one of its branches.
type Conditional struct {
	node
}

var _ Evaluator = (*Conditional)(nil)

func NewConditional(predicate, thenExpr, elseExpr Evaluator) *Conditional {
	return &Conditional{newNode(nil, []Evaluator{predicate, thenExpr, elseExpr})}
}

func (*Conditional) Token() string        { return "if" }
func (*Conditional) SideEffectFree() bool { return true }

func (c *Conditional) Type() zscript.Type {
	return zscript.Unify(c.children[1].Type(), c.children[2].Type())
}

func (c *Conditional) Copy(children []Evaluator) Evaluator {
	return NewConditional(children[0], children[1], children[2])
}

func (c *Conditional) Eval(ectx *Context) (any, error) {
	b, err := EvalBool(ectx, c.children[0], "if")
	if err != nil {
		return nil, err
	}
	if b {
		return c.children[1].Eval(ectx)
	}
	return c.children[2].Eval(ectx)
}

// Branches returns the predicate and both branches.
func (c *Conditional) Branches() (Evaluator, Evaluator, Evaluator) {
	return c.children[0], c.children[1], c.children[2]
}

// Default evaluates its fallback only if the primary expression is null.
type Default struct {
	node
}

var _ Evaluator = (*Default)(nil)

func NewDefault(e, fallback Evaluator) *Default {
	return &Default{newNode(nil, []Evaluator{e, fallback})}
}

func (*Default) Token() string        { return "default" }
func (*Default) SideEffectFree() bool { return true }

func (d *Default) Type() zscript.Type {
	if typ := d.children[0].Type(); typ != nil && typ != zscript.TypeNull {
		return zscript.Unify(typ, d.children[1].Type())
	}
	return d.children[1].Type()
}

func (d *Default) Copy(children []Evaluator) Evaluator {
	return NewDefault(children[0], children[1])
}

func (d *Default) Eval(ectx *Context) (any, error) {
	val, err := d.children[0].Eval(ectx)
	if err != nil || val != nil {
		return val, err
	}
	return d.children[1].Eval(ectx)
}
