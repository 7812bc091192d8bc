// Package unpack decodes JSON or YAML documents into trees of Go structs
// whose interface-typed fields are resolved by a discriminator field.
// A struct declares its discriminator with an "unpack" tag on the field
// holding the kind, e.g.,
//
//	type Call struct {
//		Kind string `json:"kind" unpack:""`
//		...
//	}
//
// An empty unpack tag matches the struct's type name.
package unpack

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

const (
	tagJSON   = "json"
	tagUnpack = "unpack"
	tagSep    = ","
)

var (
	ErrTag      = errors.New(`unpack tag must have form "" or "<value>"`)
	ErrNeedJSON = errors.New("unpack tag cannot appear without a JSON tag")
)

// Reflector maps discriminator keys and values to concrete struct types.
type Reflector map[string]map[string]reflect.Type

func New(templates ...interface{}) Reflector {
	r := make(Reflector)
	for _, t := range templates {
		if err := r.add(reflect.TypeOf(t)); err != nil {
			panic(err)
		}
	}
	return r
}

func (r Reflector) add(typ reflect.Type) error {
	key, val, err := structToUnpackRule(typ)
	if err != nil {
		return err
	}
	vals, ok := r[key]
	if !ok {
		vals = make(map[string]reflect.Type)
		r[key] = vals
	}
	if _, ok := vals[val]; ok {
		return fmt.Errorf("unpack: %s=%s registered twice", key, val)
	}
	vals[val] = typ
	return nil
}

func parseTag(which string, f reflect.StructField) (string, bool) {
	tag, ok := f.Tag.Lookup(which)
	if !ok {
		return "", false
	}
	return strings.Split(tag, tagSep)[0], true
}

// structToUnpackRule finds the field tagged "unpack" and returns its JSON
// name and the value that selects typ.  It also checks that JSON field
// names are unique since package json silently tolerates duplicates.
func structToUnpackRule(typ reflect.Type) (string, string, error) {
	if typ.Kind() != reflect.Struct {
		return "", "", errors.New("cannot unpack into non-struct")
	}
	names := make(map[string]struct{})
	var key, val string
	for k := 0; k < typ.NumField(); k++ {
		field := typ.Field(k)
		jsonField, jsonOK := parseTag(tagJSON, field)
		if jsonOK {
			if _, ok := names[jsonField]; ok {
				return "", "", fmt.Errorf("json field tag '%s' in struct type '%s' not unique", jsonField, typ.Name())
			}
			names[jsonField] = struct{}{}
		}
		opt, ok := parseTag(tagUnpack, field)
		if !ok {
			continue
		}
		if !jsonOK {
			return "", "", ErrNeedJSON
		}
		if key != "" {
			return "", "", fmt.Errorf("unpack key appears twice (for JSON field %s and %s)", key, jsonField)
		}
		if strings.Contains(opt, tagSep) {
			return "", "", ErrTag
		}
		if opt == "" {
			opt = typ.Name()
		}
		key, val = jsonField, opt
	}
	if key == "" {
		return "", "", fmt.Errorf("no unpack tag in struct type '%s'", typ.Name())
	}
	return key, val, nil
}

// Unmarshal decodes JSON into result, which must be a pointer.
func (r Reflector) Unmarshal(b []byte, result interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var obj interface{}
	if err := dec.Decode(&obj); err != nil {
		return err
	}
	return r.UnpackObject(obj, result)
}

// UnpackObject fills result from a generic tree of maps, slices, and
// scalars as produced by encoding/json or gopkg.in/yaml.v3.
func (r Reflector) UnpackObject(obj interface{}, result interface{}) error {
	ptr := reflect.ValueOf(result)
	if ptr.Kind() != reflect.Ptr || ptr.IsNil() {
		return errors.New("unpack: result must be a non-nil pointer")
	}
	return r.unpack(obj, ptr.Elem())
}

func (r Reflector) lookup(obj map[string]interface{}) (reflect.Type, error) {
	for key, vals := range r {
		s, ok := obj[key].(string)
		if !ok {
			continue
		}
		if typ, ok := vals[s]; ok {
			return typ, nil
		}
		return nil, fmt.Errorf("unpack: unknown %s %q", key, s)
	}
	return nil, errors.New("unpack: object has no discriminator field")
}

func (r Reflector) unpack(obj interface{}, dst reflect.Value) error {
	if obj == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	switch dst.Kind() {
	case reflect.Interface:
		m, ok := obj.(map[string]interface{})
		if !ok {
			return fmt.Errorf("unpack: cannot decode %T into %s", obj, dst.Type())
		}
		typ, err := r.lookup(m)
		if err != nil {
			return err
		}
		ptr := reflect.New(typ)
		if err := r.unpackStruct(m, ptr.Elem()); err != nil {
			return err
		}
		if !ptr.Type().Implements(dst.Type()) {
			return fmt.Errorf("unpack: %s does not implement %s", ptr.Type(), dst.Type())
		}
		dst.Set(ptr)
		return nil
	case reflect.Ptr:
		ptr := reflect.New(dst.Type().Elem())
		if err := r.unpack(obj, ptr.Elem()); err != nil {
			return err
		}
		dst.Set(ptr)
		return nil
	case reflect.Struct:
		m, ok := obj.(map[string]interface{})
		if !ok {
			return fmt.Errorf("unpack: cannot decode %T into %s", obj, dst.Type())
		}
		return r.unpackStruct(m, dst)
	case reflect.Slice:
		elems, ok := obj.([]interface{})
		if !ok {
			return fmt.Errorf("unpack: cannot decode %T into %s", obj, dst.Type())
		}
		slice := reflect.MakeSlice(dst.Type(), len(elems), len(elems))
		for k, elem := range elems {
			if err := r.unpack(elem, slice.Index(k)); err != nil {
				return err
			}
		}
		dst.Set(slice)
		return nil
	case reflect.String:
		switch v := obj.(type) {
		case string:
			dst.SetString(v)
		case json.Number:
			dst.SetString(v.String())
		default:
			// YAML scalars such as 5 or true are accepted as text.
			dst.SetString(fmt.Sprint(v))
		}
		return nil
	}
	v := reflect.ValueOf(obj)
	if n, ok := obj.(json.Number); ok {
		var err error
		if v, err = numberValue(n); err != nil {
			return err
		}
	}
	if !v.Type().ConvertibleTo(dst.Type()) {
		return fmt.Errorf("unpack: cannot decode %T into %s", obj, dst.Type())
	}
	dst.Set(v.Convert(dst.Type()))
	return nil
}

func numberValue(n json.Number) (reflect.Value, error) {
	if i, err := n.Int64(); err == nil {
		return reflect.ValueOf(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(f), nil
}

func (r Reflector) unpackStruct(obj map[string]interface{}, dst reflect.Value) error {
	typ := dst.Type()
	for k := 0; k < typ.NumField(); k++ {
		field := typ.Field(k)
		name, ok := parseTag(tagJSON, field)
		if !ok || name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}
		val, ok := obj[name]
		if !ok {
			continue
		}
		if err := r.unpack(val, dst.Field(k)); err != nil {
			return fmt.Errorf("%s.%s: %w", typ.Name(), name, err)
		}
	}
	return nil
}
