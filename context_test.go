package zscript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextLookupTypeObjectErrors(t *testing.T) {
	zctx := NewContext()

	_, err := zctx.LookupTypeObject("int64", nil)
	assert.EqualError(t, err, `bad object type name "int64"`)

	_, err = zctx.LookupTypeObject("P", []Field{{"a", TypeInt64}, {"a", TypeString}})
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestContextLookupTypeObjectAndLookupTypeDef(t *testing.T) {
	zctx := NewContext()

	assert.Nil(t, zctx.LookupTypeDef("Person"))

	p1, err := zctx.LookupTypeObject("Person", []Field{{"name", TypeString}})
	require.NoError(t, err)
	assert.Same(t, p1, zctx.LookupTypeDef("Person"))

	p2, err := zctx.LookupTypeObject("Person", []Field{{"name", TypeString}})
	require.NoError(t, err)
	assert.Same(t, p1, p2)

	_, err = zctx.LookupTypeObject("Person", []Field{{"age", TypeInt64}})
	assert.ErrorIs(t, err, ErrTypeExists)

	typ, err := zctx.LookupType(p1.ID())
	require.NoError(t, err)
	assert.Same(t, p1, typ)
}

func TestContextInterning(t *testing.T) {
	zctx := NewContext()
	assert.Same(t, zctx.LookupTypeList(TypeInt64), zctx.LookupTypeList(TypeInt64))
	assert.NotSame(t, zctx.LookupTypeList(TypeInt64), zctx.LookupTypeList(TypeString))
	assert.Same(t, zctx.LookupTypeMap(TypeInt64, nil), zctx.LookupTypeMap(TypeInt64, nil))
	assert.Equal(t, "|{int64:?}|", zctx.LookupTypeMap(TypeInt64, nil).String())
	assert.Equal(t, "func(?)[int64]", zctx.LookupTypeFunction(nil, zctx.LookupTypeList(TypeInt64)).String())
}
