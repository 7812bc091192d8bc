package expr

import "sync/atomic"

// Var is an opaque token that identifies a variable in a Context.
// Variables are resolved to tokens at compile time so the runtime never
// looks anything up by name.
type Var struct {
	name string
	id   uint64
}

var varCount atomic.Uint64

func NewVar(name string) *Var {
	return &Var{name: name, id: varCount.Add(1)}
}

// Name returns the source name of the variable for diagnostics and
// serialization.
func (v *Var) Name() string {
	return v.name
}

// Context is the mutable variable environment of one evaluation.  A
// nested scope is created with Extend and discarded when the scope ends.
// A Context must not be shared by concurrent evaluations.
type Context struct {
	parent *Context
	vars   map[*Var]any
}

func NewContext() *Context {
	return &Context{}
}

// Extend returns a child scope whose lookups fall back to c.
func (c *Context) Extend() *Context {
	return &Context{parent: c}
}

// Define binds v in this scope, shadowing any binding in an outer scope.
func (c *Context) Define(v *Var, val any) {
	if c.vars == nil {
		c.vars = make(map[*Var]any)
	}
	c.vars[v] = val
}

func (c *Context) Lookup(v *Var) (any, bool) {
	for s := c; s != nil; s = s.parent {
		if val, ok := s.vars[v]; ok {
			return val, true
		}
	}
	return nil, false
}

// Delete removes the binding of v from this scope only.
func (c *Context) Delete(v *Var) {
	delete(c.vars, v)
}

// Root returns the outermost scope of c.
func (c *Context) Root() *Context {
	for c.parent != nil {
		c = c.parent
	}
	return c
}
