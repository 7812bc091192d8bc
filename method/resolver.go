package method

import (
	"fmt"
	"sort"
	"sync"

	zse "github.com/brimdata/zscript/errors"
	"go.uber.org/multierr"
	"golang.org/x/exp/maps"
)

// Resolver maps function names to builders.
type Resolver interface {
	Lookup(name string) (Builder, bool)
	// Names returns the names of all functions in sorted order.
	Names() []string
}

// Registry is a Resolver populated by explicit registration.  It is safe
// for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

var _ Resolver = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

// Register adds b under name.  Registering a name twice is an error.
func (r *Registry) Register(name string, b Builder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.builders[name]; ok {
		return &zse.Error{Kind: zse.Ambiguous, Func: name, Err: fmt.Errorf("%s is already registered", name)}
	}
	r.builders[name] = b
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, b Builder) {
	if err := r.Register(name, b); err != nil {
		panic(err)
	}
}

func (r *Registry) Lookup(name string) (Builder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.builders[name]
	return b, ok
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	names := maps.Keys(r.builders)
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.builders)
}

type chain []Resolver

// Chain combines resolvers into one logical table.  A name defined by more
// than one resolver is an Ambiguous error since shadowing one definition
// with another would silently change the meaning of scripts.  All
// collisions are reported.
func Chain(resolvers ...Resolver) (Resolver, error) {
	owners := make(map[string]int)
	var err error
	for k, r := range resolvers {
		for _, name := range r.Names() {
			if prev, ok := owners[name]; ok {
				err = multierr.Append(err, &zse.Error{
					Kind: zse.Ambiguous,
					Func: name,
					Err:  fmt.Errorf("defined by resolvers %d and %d", prev, k),
				})
				continue
			}
			owners[name] = k
		}
	}
	if err != nil {
		return nil, err
	}
	return chain(resolvers), nil
}

func (c chain) Lookup(name string) (Builder, bool) {
	for _, r := range c {
		if b, ok := r.Lookup(name); ok {
			return b, true
		}
	}
	return nil, false
}

func (c chain) Names() []string {
	var names []string
	for _, r := range c {
		names = append(names, r.Names()...)
	}
	sort.Strings(names)
	return names
}

// LookupToken returns the builder whose nodes carry the identity token
// token.  A builder's token is the name it is registered under unless it
// implements Tokener.
func LookupToken(r Resolver, token string) (Builder, bool) {
	if b, ok := r.Lookup(token); ok {
		if t, ok := b.(Tokener); !ok || t.Token() == "" || t.Token() == token {
			return b, true
		}
	}
	for _, name := range r.Names() {
		b, _ := r.Lookup(name)
		if t, ok := b.(Tokener); ok && t.Token() == token {
			return b, true
		}
	}
	return nil, false
}
