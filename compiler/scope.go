package compiler

import (
	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/runtime/expr"
)

// Scope maps the variable names visible at a point in a call tree to the
// tokens that identify them at run time.
type Scope struct {
	stack []Binder
}

func NewScope() *Scope {
	return &Scope{stack: []Binder{NewBinder()}}
}

func (s *Scope) tos() Binder {
	return s.stack[len(s.stack)-1]
}

func (s *Scope) Enter() {
	s.stack = append(s.stack, NewBinder())
}

func (s *Scope) Exit() {
	s.stack = s.stack[:len(s.stack)-1]
}

// Bind creates a variable token for name in the innermost binder.  typ is
// the static type of the variable's values or nil if unknown.
func (s *Scope) Bind(name string, typ zscript.Type) *expr.Var {
	v := expr.NewVar(name)
	s.tos().Define(name, v, typ)
	return v
}

func (s *Scope) Lookup(name string) (*expr.Var, zscript.Type, bool) {
	for k := len(s.stack) - 1; k >= 0; k-- {
		if e, ok := s.stack[k][name]; ok {
			e.refcnt++
			return e.v, e.typ, true
		}
	}
	return nil, nil, false
}

// Unused returns the names of the variables of the innermost binder that
// were never looked up.
func (s *Scope) Unused() []string {
	var names []string
	for name, e := range s.tos() {
		if e.refcnt == 0 {
			names = append(names, name)
		}
	}
	return names
}

type entry struct {
	v      *expr.Var
	typ    zscript.Type
	refcnt int
}

type Binder map[string]*entry

func NewBinder() Binder {
	return make(map[string]*entry)
}

func (b Binder) Define(name string, v *expr.Var, typ zscript.Type) {
	b[name] = &entry{v: v, typ: typ}
}
