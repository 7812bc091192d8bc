package zscript

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatValue returns the ZSON-like text form of a runtime value.
// Lists are formatted as [a,b], sets as |[a,b]|, maps as |{k:v}| and
// objects as Name{field:value}.  An object reached a second time while
// formatting is shown as &Name to keep cyclic graphs finite.
func FormatValue(val any) string {
	var b strings.Builder
	f := formatter{b: &b, seen: make(map[*Object]struct{})}
	f.format(val)
	return b.String()
}

type formatter struct {
	b    *strings.Builder
	seen map[*Object]struct{}
}

func (f *formatter) format(val any) {
	switch val := val.(type) {
	case nil:
		f.b.WriteString("null")
	case bool:
		f.b.WriteString(strconv.FormatBool(val))
	case int64:
		f.b.WriteString(strconv.FormatInt(val, 10))
	case float64:
		f.b.WriteString(FormatFloat(val))
	case string:
		f.b.WriteString(strconv.Quote(val))
	case time.Time:
		f.b.WriteString(val.UTC().Format(time.RFC3339Nano))
	case []any:
		f.b.WriteByte('[')
		f.elems(val)
		f.b.WriteByte(']')
	case Set:
		f.b.WriteString("|[")
		f.elems(val)
		f.b.WriteString("]|")
	case Map:
		f.b.WriteString("|{")
		for k, key := range val.Keys() {
			if k > 0 {
				f.b.WriteByte(',')
			}
			f.format(key)
			f.b.WriteByte(':')
			f.format(val[key])
		}
		f.b.WriteString("}|")
	case *Object:
		f.object(val)
	case Function:
		f.b.WriteString("<function>")
	default:
		fmt.Fprintf(f.b, "<%T>", val)
	}
}

func (f *formatter) elems(vals []any) {
	for k, v := range vals {
		if k > 0 {
			f.b.WriteByte(',')
		}
		f.format(v)
	}
}

func (f *formatter) object(o *Object) {
	if o == nil {
		f.b.WriteString("null")
		return
	}
	if _, ok := f.seen[o]; ok {
		f.b.WriteByte('&')
		f.b.WriteString(o.Type.Name)
		return
	}
	f.seen[o] = struct{}{}
	f.b.WriteString(o.Type.Name)
	f.b.WriteByte('{')
	for k, field := range o.Type.Fields {
		if k > 0 {
			f.b.WriteByte(',')
		}
		f.b.WriteString(field.Name)
		f.b.WriteByte(':')
		f.format(o.Fields[k])
	}
	f.b.WriteByte('}')
}

// FormatFloat formats a float so that it always reads back as a float,
// e.g., 2 is formatted as "2.".
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += "."
	}
	return s
}
