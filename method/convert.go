package method

import (
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"time"

	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/coerce"
)

// Converter maps a runtime value to a value of the exact Go type of a host
// function parameter.
type Converter func(val any) (reflect.Value, error)

var (
	errNull     = errors.New("null value")
	errOverflow = errors.New("value out of range")

	textMarshaler   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshaler = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	timeType        = reflect.TypeOf(time.Time{})
	emptyStruct     = reflect.TypeOf(struct{}{})
	setType         = reflect.TypeOf(zscript.Set{})
	mapType         = reflect.TypeOf(zscript.Map{})
)

// ConverterFor returns the Converter for parameters of type t.
func ConverterFor(t reflect.Type) (Converter, error) {
	conv, err := kindConverter(t)
	if err != nil {
		return nil, err
	}
	return func(val any) (reflect.Value, error) {
		if val != nil {
			if v := reflect.ValueOf(val); v.Type().AssignableTo(t) {
				return v, nil
			}
		}
		return conv(val)
	}, nil
}

func kindConverter(t reflect.Type) (Converter, error) {
	if t == timeType {
		return convertTime, nil
	}
	if isEnum(t) {
		return convertEnum(t), nil
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return convertInt(t), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return convertUint(t), nil
	case reflect.Float32, reflect.Float64:
		return convertFloat(t), nil
	case reflect.Bool:
		return func(val any) (reflect.Value, error) {
			b, ok := val.(bool)
			if !ok {
				return reflect.Value{}, mismatch(val, t)
			}
			return reflect.ValueOf(b).Convert(t), nil
		}, nil
	case reflect.String:
		return func(val any) (reflect.Value, error) {
			s, ok := val.(string)
			if !ok {
				return reflect.Value{}, mismatch(val, t)
			}
			return reflect.ValueOf(s).Convert(t), nil
		}, nil
	case reflect.Array:
		elem, err := ConverterFor(t.Elem())
		if err != nil {
			return nil, err
		}
		return convertArray(t, elem), nil
	case reflect.Slice:
		elem, err := ConverterFor(t.Elem())
		if err != nil {
			return nil, err
		}
		return convertSlice(t, elem), nil
	case reflect.Map:
		key, err := ConverterFor(t.Key())
		if err != nil {
			return nil, err
		}
		if t.Elem() == emptyStruct {
			return convertSet(t, key), nil
		}
		elem, err := ConverterFor(t.Elem())
		if err != nil {
			return nil, err
		}
		return convertMap(t, key, elem), nil
	case reflect.Interface, reflect.Pointer, reflect.Struct, reflect.Func:
		// Instance-of check only.
		return func(val any) (reflect.Value, error) {
			if val == nil && t.Kind() != reflect.Struct {
				return reflect.Zero(t), nil
			}
			return reflect.Value{}, mismatch(val, t)
		}, nil
	}
	return nil, fmt.Errorf("unsupported parameter type %s", t)
}

// isEnum returns true for named scalar types that convert from their
// names, e.g., a RoundingMode with an UnmarshalText method.
func isEnum(t reflect.Type) bool {
	return t.Kind() != reflect.Struct && reflect.PointerTo(t).Implements(textUnmarshaler)
}

func mismatch(val any, t reflect.Type) error {
	if val == nil {
		return fmt.Errorf("%w: expected %s", errNull, t)
	}
	return fmt.Errorf("%T is not compatible with %s", val, t)
}

func convertTime(val any) (reflect.Value, error) {
	switch val := val.(type) {
	case time.Time:
		return reflect.ValueOf(val), nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, val)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(t), nil
	}
	return reflect.Value{}, mismatch(val, timeType)
}

func convertEnum(t reflect.Type) Converter {
	return func(val any) (reflect.Value, error) {
		s, ok := val.(string)
		if !ok {
			return reflect.Value{}, mismatch(val, t)
		}
		ptr := reflect.New(t)
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return reflect.Value{}, err
		}
		return ptr.Elem(), nil
	}
}

func convertInt(t reflect.Type) Converter {
	return func(val any) (reflect.Value, error) {
		var i int64
		switch val := val.(type) {
		case int64:
			i = val
		case float64:
			if val != math.Trunc(val) || val < math.MinInt64 || val >= math.MaxInt64 {
				return reflect.Value{}, fmt.Errorf("%s: %w for %s", zscript.FormatFloat(val), errOverflow, t)
			}
			i = int64(val)
		default:
			return reflect.Value{}, mismatch(val, t)
		}
		v := reflect.New(t).Elem()
		if v.OverflowInt(i) {
			return reflect.Value{}, fmt.Errorf("%d: %w for %s", i, errOverflow, t)
		}
		v.SetInt(i)
		return v, nil
	}
}

func convertUint(t reflect.Type) Converter {
	return func(val any) (reflect.Value, error) {
		i, ok := val.(int64)
		if !ok {
			if f, isFloat := val.(float64); isFloat && f == math.Trunc(f) && f >= 0 && f < math.MaxInt64 {
				i, ok = int64(f), true
			}
		}
		if !ok {
			return reflect.Value{}, mismatch(val, t)
		}
		v := reflect.New(t).Elem()
		if i < 0 || v.OverflowUint(uint64(i)) {
			return reflect.Value{}, fmt.Errorf("%d: %w for %s", i, errOverflow, t)
		}
		v.SetUint(uint64(i))
		return v, nil
	}
}

func convertFloat(t reflect.Type) Converter {
	return func(val any) (reflect.Value, error) {
		if !coerce.IsNumber(val) {
			return reflect.Value{}, mismatch(val, t)
		}
		f, _ := coerce.ToFloat(val)
		v := reflect.New(t).Elem()
		if !math.IsInf(f, 0) && v.OverflowFloat(f) {
			return reflect.Value{}, fmt.Errorf("%s: %w for %s", zscript.FormatFloat(f), errOverflow, t)
		}
		v.SetFloat(f)
		return v, nil
	}
}

func elements(val any) ([]any, bool) {
	switch val := val.(type) {
	case []any:
		return val, true
	case zscript.Set:
		return val, true
	}
	return nil, false
}

func convertArray(t reflect.Type, elem Converter) Converter {
	return func(val any) (reflect.Value, error) {
		elems, ok := elements(val)
		if !ok {
			return reflect.Value{}, mismatch(val, t)
		}
		if len(elems) != t.Len() {
			return reflect.Value{}, fmt.Errorf("expected %d elements for %s, got %d", t.Len(), t, len(elems))
		}
		v := reflect.New(t).Elem()
		for k, e := range elems {
			ev, err := elem(e)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", k, err)
			}
			v.Index(k).Set(ev)
		}
		return v, nil
	}
}

func convertSlice(t reflect.Type, elem Converter) Converter {
	return func(val any) (reflect.Value, error) {
		if val == nil {
			return reflect.Zero(t), nil
		}
		elems, ok := elements(val)
		if !ok {
			return reflect.Value{}, mismatch(val, t)
		}
		v := reflect.MakeSlice(t, len(elems), len(elems))
		for k, e := range elems {
			ev, err := elem(e)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", k, err)
			}
			v.Index(k).Set(ev)
		}
		return v, nil
	}
}

func convertSet(t reflect.Type, key Converter) Converter {
	return func(val any) (reflect.Value, error) {
		if val == nil {
			return reflect.Zero(t), nil
		}
		elems, ok := elements(val)
		if !ok {
			return reflect.Value{}, mismatch(val, t)
		}
		v := reflect.MakeMapWithSize(t, len(elems))
		present := reflect.New(emptyStruct).Elem()
		for k, e := range elems {
			kv, err := key(e)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", k, err)
			}
			v.SetMapIndex(kv, present)
		}
		return v, nil
	}
}

func convertMap(t reflect.Type, key, elem Converter) Converter {
	return func(val any) (reflect.Value, error) {
		if val == nil {
			return reflect.Zero(t), nil
		}
		m, ok := val.(zscript.Map)
		if !ok {
			return reflect.Value{}, mismatch(val, t)
		}
		v := reflect.MakeMapWithSize(t, len(m))
		for k, e := range m {
			kv, err := key(k)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("key %s: %w", zscript.FormatValue(k), err)
			}
			ev, err := elem(e)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("value of %s: %w", zscript.FormatValue(k), err)
			}
			v.SetMapIndex(kv, ev)
		}
		return v, nil
	}
}

// FromHost converts the result of a host function to a runtime value.
func FromHost(v reflect.Value) (any, error) {
	if !v.IsValid() {
		return nil, nil
	}
	t := v.Type()
	switch t {
	case timeType, setType, mapType:
		return v.Interface(), nil
	}
	if t.Kind() != reflect.Struct && t.Implements(textMarshaler) {
		if t.Kind() == reflect.Pointer && v.IsNil() {
			return nil, nil
		}
		b, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}
	switch t.Kind() {
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("%d: %w for int64", u, errOverflow)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.String:
		return v.String(), nil
	case reflect.Slice, reflect.Array:
		if t.Kind() == reflect.Slice && v.IsNil() {
			return nil, nil
		}
		vals := make([]any, 0, v.Len())
		for k := 0; k < v.Len(); k++ {
			val, err := FromHost(v.Index(k))
			if err != nil {
				return nil, err
			}
			vals = append(vals, val)
		}
		return vals, nil
	case reflect.Map:
		if v.IsNil() {
			return nil, nil
		}
		if t.Elem() == emptyStruct {
			keys := make([]any, 0, v.Len())
			for _, k := range v.MapKeys() {
				key, err := FromHost(k)
				if err != nil {
					return nil, err
				}
				keys = append(keys, key)
			}
			sort.Slice(keys, func(i, j int) bool {
				return coerce.Compare(keys[i], keys[j]) < 0
			})
			return zscript.NewSet(keys...), nil
		}
		m := make(zscript.Map, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			key, err := FromHost(iter.Key())
			if err != nil {
				return nil, err
			}
			if !zscript.IsKey(key) {
				return nil, zscript.ErrBadKey
			}
			val, err := FromHost(iter.Value())
			if err != nil {
				return nil, err
			}
			m[key] = val
		}
		return m, nil
	case reflect.Interface:
		if v.IsNil() {
			return nil, nil
		}
		return FromHost(v.Elem())
	case reflect.Pointer, reflect.Func:
		if v.IsNil() {
			return nil, nil
		}
	}
	return v.Interface(), nil
}

// StaticType returns the type of the runtime values FromHost produces for
// Go type t or nil if unknown.
func StaticType(zctx *zscript.Context, t reflect.Type) zscript.Type {
	if t == nil {
		return zscript.TypeNull
	}
	switch t {
	case timeType:
		return zscript.TypeTime
	case setType:
		return zctx.LookupTypeSet(nil)
	case mapType:
		return zctx.LookupTypeMap(nil, nil)
	}
	if t.Kind() != reflect.Struct && t.Implements(textMarshaler) {
		return zscript.TypeString
	}
	switch t.Kind() {
	case reflect.Bool:
		return zscript.TypeBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return zscript.TypeInt64
	case reflect.Float32, reflect.Float64:
		return zscript.TypeFloat64
	case reflect.String:
		return zscript.TypeString
	case reflect.Slice, reflect.Array:
		return zctx.LookupTypeList(StaticType(zctx, t.Elem()))
	case reflect.Map:
		if t.Elem() == emptyStruct {
			return zctx.LookupTypeSet(StaticType(zctx, t.Key()))
		}
		return zctx.LookupTypeMap(StaticType(zctx, t.Key()), StaticType(zctx, t.Elem()))
	}
	return nil
}
