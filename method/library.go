package method

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	zse "github.com/brimdata/zscript/errors"
	"go.uber.org/multierr"
	"golang.org/x/exp/maps"
	"gopkg.in/yaml.v3"
)

// Library is implemented by host values whose exported methods are
// exposed as script functions.  A type becomes a Library by embedding
// Marker.
type Library interface {
	library()
}

// Marker is embedded in a host library type to mark it as a Library.
type Marker struct{}

func (Marker) library() {}

// Annotator is implemented by libraries that describe their methods.
// The map is keyed by Go method name.
type Annotator interface {
	Annotate() map[string]Annotation
}

// Annotation describes a host method.  A method without an annotation is
// exposed under its name with the first letter lowered and with mandatory
// parameters named arg0, arg1, and so on.
type Annotation struct {
	Name        string
	Label       string
	Params      []ParamAnnotation
	Returns     string
	SideEffects bool
}

type ParamAnnotation struct {
	Name     string
	Optional bool
	// Default is the YAML text of the default value of an optional
	// parameter.  If empty, the default is the zero value of the
	// parameter's Go type.
	Default   string
	Doc       string
	Converter Converter
}

var (
	libMu     sync.Mutex
	libs      []Library
	scanned   bool
	scanOnce  sync.Once
	reflected *Registry
	scanErr   error
)

// RegisterLibrary adds lib to the libraries scanned by Reflected.  It is
// meant to be called from init functions and panics once the scan has
// happened.
func RegisterLibrary(lib Library) {
	libMu.Lock()
	defer libMu.Unlock()
	if scanned {
		panic(fmt.Sprintf("method: RegisterLibrary(%T) called after libraries were scanned", lib))
	}
	libs = append(libs, lib)
}

// Reflected scans the registered libraries on first use and returns the
// resulting table, which does not change afterward.  A non-nil error
// reports every name collision and every method that could not be
// adapted; it is fatal to the process.
func Reflected() (*Registry, error) {
	scanOnce.Do(func() {
		libMu.Lock()
		scanned = true
		l := libs
		libMu.Unlock()
		reflected, scanErr = Scan(l...)
	})
	return reflected, scanErr
}

// Scan builds the table for libs without touching the process-wide
// state of Reflected.
func Scan(libs ...Library) (*Registry, error) {
	candidates := make(map[string][]*hostFunc)
	var err error
	for _, lib := range libs {
		fns, libErr := scanLibrary(lib)
		err = multierr.Append(err, libErr)
		for _, f := range fns {
			candidates[f.name] = append(candidates[f.name], f)
		}
	}
	reg := NewRegistry()
	names := maps.Keys(candidates)
	sort.Strings(names)
	for _, name := range names {
		fns := candidates[name]
		if len(fns) > 1 {
			origins := make([]string, 0, len(fns))
			for _, f := range fns {
				origins = append(origins, f.origin)
			}
			err = multierr.Append(err, &zse.Error{
				Kind:  zse.Ambiguous,
				Func:  name,
				Legal: origins,
				Err:   fmt.Errorf("candidates %s", strings.Join(origins, ", ")),
			})
			continue
		}
		reg.builders[name] = &hostBuilder{fns[0]}
	}
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func scanLibrary(lib Library) ([]*hostFunc, error) {
	v := reflect.ValueOf(lib)
	t := v.Type()
	typeName := reflect.Indirect(v).Type().Name()
	var notes map[string]Annotation
	if a, ok := lib.(Annotator); ok {
		notes = a.Annotate()
	}
	var fns []*hostFunc
	var err error
	seen := make(map[string]bool)
	for k := 0; k < t.NumMethod(); k++ {
		m := t.Method(k)
		if m.Name == "Annotate" {
			continue
		}
		seen[m.Name] = true
		f, fnErr := newHostFunc(typeName+"."+m.Name, m.Name, v.Method(k), notes[m.Name])
		if fnErr != nil {
			err = multierr.Append(err, fnErr)
			continue
		}
		fns = append(fns, f)
	}
	for name := range notes {
		if !seen[name] {
			err = multierr.Append(err, fmt.Errorf("%s.%s: annotation for unknown method", typeName, name))
		}
	}
	return fns, err
}

func newHostFunc(origin, methodName string, fn reflect.Value, note Annotation) (*hostFunc, error) {
	ft := fn.Type()
	if ft.IsVariadic() {
		return nil, fmt.Errorf("%s: variadic methods are not supported", origin)
	}
	f := &hostFunc{
		name:   note.Name,
		origin: origin,
		fn:     fn,
		impure: note.SideEffects,
		doc:    &Doc{Label: note.Label, Returns: note.Returns},
	}
	if f.name == "" {
		f.name = lowerFirst(methodName)
	}
	switch ft.NumOut() {
	case 0:
	case 1:
		if ft.Out(0) == errorType {
			f.hasErr = true
		} else {
			f.out = ft.Out(0)
		}
	case 2:
		if ft.Out(1) != errorType {
			return nil, fmt.Errorf("%s: second result must be an error", origin)
		}
		f.out, f.hasErr = ft.Out(0), true
	default:
		return nil, fmt.Errorf("%s: too many results", origin)
	}
	if f.out != nil {
		f.doc.ReturnType = typeDoc(f.out)
	}
	if len(note.Params) != 0 && len(note.Params) != ft.NumIn() {
		return nil, fmt.Errorf("%s: %d parameters annotated but method has %d", origin, len(note.Params), ft.NumIn())
	}
	var err error
	params := make([]Param, 0, ft.NumIn())
	for k := 0; k < ft.NumIn(); k++ {
		in := ft.In(k)
		pa := ParamAnnotation{Name: fmt.Sprintf("arg%d", k)}
		if len(note.Params) != 0 {
			pa = note.Params[k]
		}
		conv := pa.Converter
		if conv == nil {
			var convErr error
			if conv, convErr = ConverterFor(in); convErr != nil {
				err = multierr.Append(err, fmt.Errorf("%s: parameter %s: %w", origin, pa.Name, convErr))
				continue
			}
		}
		p := Param{Name: pa.Name, Type: typeDoc(in), Doc: pa.Doc}
		if pa.Optional {
			def, defErr := defaultValue(in, pa.Default)
			if defErr != nil {
				err = multierr.Append(err, fmt.Errorf("%s: default of parameter %s: %w", origin, pa.Name, defErr))
				continue
			}
			p = WithDefault(p.Name, def)
			p.Type, p.Doc = typeDoc(in), pa.Doc
		}
		params = append(params, p)
		f.params = append(f.params, pa.Name)
		f.convs = append(f.convs, conv)
	}
	if err != nil {
		return nil, err
	}
	f.desc = Method(params...)
	return f, nil
}

// defaultValue parses text as YAML into a value of type t and returns it
// as a runtime value.
func defaultValue(t reflect.Type, text string) (any, error) {
	ptr := reflect.New(t)
	if text != "" {
		if err := yaml.Unmarshal([]byte(text), ptr.Interface()); err != nil {
			return nil, err
		}
	}
	return FromHost(ptr.Elem())
}

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[n:]
}

// typeDoc describes the runtime type accepted or produced for Go type t.
func typeDoc(t reflect.Type) string {
	switch {
	case t == timeType:
		return "time"
	case t == setType:
		return "set"
	case t == mapType:
		return "map"
	case isEnum(t):
		return "string"
	}
	switch t.Kind() {
	case reflect.Bool:
		return "bool"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "int64"
	case reflect.Float32, reflect.Float64:
		return "float64"
	case reflect.String:
		return "string"
	case reflect.Slice, reflect.Array:
		return "[" + typeDoc(t.Elem()) + "]"
	case reflect.Map:
		if t.Elem() == emptyStruct {
			return "|[" + typeDoc(t.Key()) + "]|"
		}
		return "|{" + typeDoc(t.Key()) + ":" + typeDoc(t.Elem()) + "}|"
	case reflect.Interface:
		return "any"
	}
	return t.String()
}
