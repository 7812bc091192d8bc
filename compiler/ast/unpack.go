package ast

import (
	"fmt"

	"github.com/brimdata/zscript/pkg/unpack"
	"gopkg.in/yaml.v3"
)

var unpacker = unpack.New(
	Apply{},
	Call{},
	Conditional{},
	Ident{},
	Lambda{},
	Let{},
	List{},
	Literal{},
)

// UnmarshalJSON transforms a JSON representation of a call tree into an Expr.
func UnmarshalJSON(buf []byte) (Expr, error) {
	var e Expr
	if err := unpacker.Unmarshal(buf, &e); err != nil {
		return nil, fmt.Errorf("JSON object is not a call tree: %w", err)
	}
	return e, nil
}

// UnmarshalYAML transforms a YAML representation of a call tree into an Expr.
func UnmarshalYAML(buf []byte) (Expr, error) {
	var obj interface{}
	if err := yaml.Unmarshal(buf, &obj); err != nil {
		return nil, err
	}
	return UnpackObject(obj)
}

// UnpackObject converts a generic decoded document into an Expr.
func UnpackObject(obj interface{}) (Expr, error) {
	var e Expr
	if err := unpacker.UnpackObject(obj, &e); err != nil {
		return nil, fmt.Errorf("object is not a call tree: %w", err)
	}
	return e, nil
}
