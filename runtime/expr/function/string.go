package function

import (
	"strings"
	"unicode/utf8"

	"github.com/brimdata/zscript"
	"github.com/brimdata/zscript/runtime/expr"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Concat concatenates strings, skipping nulls, or, if its first non-null
// argument is a list, concatenates lists.
type Concat struct{}

func (*Concat) Call(_ *expr.Context, args []any) (any, error) {
	var lists bool
	for _, arg := range args {
		if arg != nil {
			_, lists = arg.([]any)
			break
		}
	}
	if lists {
		var out []any
		for _, arg := range args {
			switch arg := arg.(type) {
			case nil:
			case []any:
				out = append(out, arg...)
			default:
				return nil, typeError("concat", arg)
			}
		}
		return out, nil
	}
	var b strings.Builder
	for _, arg := range args {
		switch arg := arg.(type) {
		case nil:
		case string:
			b.WriteString(arg)
		default:
			return nil, typeError("concat", arg)
		}
	}
	return b.String(), nil
}

func (*Concat) ResultType(args []zscript.Type) zscript.Type {
	var typ zscript.Type = zscript.TypeNull
	for _, t := range args {
		if typ = zscript.Unify(typ, t); typ == nil {
			return nil
		}
	}
	switch typ.(type) {
	case *zscript.TypeList:
		return typ
	case *zscript.TypeOfNull, *zscript.TypeOfString:
		return zscript.TypeString
	}
	return nil
}

// Len is the number of characters of a string, the number of elements of
// a collection, or the number of fields of an object.
type Len struct{}

func (*Len) Call(_ *expr.Context, args []any) (any, error) {
	switch x := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return int64(utf8.RuneCountInString(x)), nil
	case []any:
		return int64(len(x)), nil
	case zscript.Set:
		return int64(len(x)), nil
	case zscript.Map:
		return int64(len(x)), nil
	case *zscript.Object:
		return int64(len(x.Fields)), nil
	}
	return nil, typeError("len", args[0])
}

func (*Len) ResultType([]zscript.Type) zscript.Type {
	return zscript.TypeInt64
}

// Case maps a string to upper or lower case with the Unicode case
// mapping rules.
type Case struct {
	op string
}

func (c *Case) Call(_ *expr.Context, args []any) (any, error) {
	switch s := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		// A Caser is stateful so one is made per call.
		if c.op == "upper" {
			return cases.Upper(language.Und).String(s), nil
		}
		return cases.Lower(language.Und).String(s), nil
	}
	return nil, typeError(c.op, args[0])
}

func (*Case) ResultType([]zscript.Type) zscript.Type {
	return zscript.TypeString
}
