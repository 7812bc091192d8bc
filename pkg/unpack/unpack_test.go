package unpack_test

import (
	"testing"

	"github.com/brimdata/zscript/pkg/unpack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Expr interface {
	Which() string
}

type BinaryExpr struct {
	Op  string `json:"op" unpack:""`
	LHS Expr   `json:"lhs"`
	RHS Expr   `json:"rhs"`
}

type List struct {
	Op    string `json:"op" unpack:""`
	Exprs []Expr `json:"exprs"`
	Width int    `json:"width"`
}

type Terminal struct {
	Op   string `json:"op" unpack:""`
	Body string `json:"body"`
}

func (t *Terminal) Which() string {
	return t.Body
}

func (*BinaryExpr) Which() string {
	return "BinaryExpr"
}

func (*List) Which() string {
	return "List"
}

const binaryExprJSON = `
{
	"op":"BinaryExpr",
	"lhs": { "op": "Terminal", "body": "foo" } ,
	"rhs": { "op": "Terminal", "body": "bar" }
}`

func TestUnpackBinaryExpr(t *testing.T) {
	reflector := unpack.New(BinaryExpr{}, Terminal{}, List{})
	var actual Expr
	err := reflector.Unmarshal([]byte(binaryExprJSON), &actual)
	require.NoError(t, err)
	expected := &BinaryExpr{
		Op:  "BinaryExpr",
		LHS: &Terminal{Op: "Terminal", Body: "foo"},
		RHS: &Terminal{Op: "Terminal", Body: "bar"},
	}
	assert.Equal(t, expected, actual)
}

func TestUnpackList(t *testing.T) {
	reflector := unpack.New(BinaryExpr{}, Terminal{}, List{})
	obj := map[string]interface{}{
		"op":    "List",
		"width": 3,
		"exprs": []interface{}{
			map[string]interface{}{"op": "Terminal", "body": 12},
		},
	}
	var actual Expr
	require.NoError(t, reflector.UnpackObject(obj, &actual))
	assert.Equal(t, &List{Op: "List", Width: 3, Exprs: []Expr{&Terminal{Op: "Terminal", Body: "12"}}}, actual)
}

func TestUnpackUnknownKind(t *testing.T) {
	reflector := unpack.New(BinaryExpr{}, Terminal{})
	var actual Expr
	err := reflector.Unmarshal([]byte(`{"op":"Nope"}`), &actual)
	assert.EqualError(t, err, `unpack: unknown op "Nope"`)
}
