package types_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sveljko/pgmedian/types"
)

func TestArgTypeOf(t *testing.T) {
	tests := []struct {
		value    types.Any
		arg_type types.ArgType
	}{
		{int16(1), types.TypeInt2},
		{int32(1), types.TypeInt4},
		{int(1), types.TypeInt8},
		{int64(1), types.TypeInt8},
		{time.Now(), types.TypeTimestampTZ},
		{"foo", types.TypeText},
		{[]byte("foo"), types.TypeText},
	}

	for _, test := range tests {
		arg_type, pres := types.ArgTypeOf(test.value)
		assert.True(t, pres, "value %T", test.value)
		assert.Equal(t, test.arg_type, arg_type, "value %T", test.value)
	}

	_, pres := types.ArgTypeOf(3.14)
	assert.False(t, pres)

	_, pres = types.ArgTypeOf(struct{}{})
	assert.False(t, pres)
}

func TestIsNil(t *testing.T) {
	assert.True(t, types.IsNil(nil))
	assert.True(t, types.IsNil(types.Null{}))
	assert.True(t, types.IsNil(&types.Null{}))

	var slice []int
	assert.True(t, types.IsNil(slice))

	assert.False(t, types.IsNil(0))
	assert.False(t, types.IsNil(""))
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "int8", types.TypeInt8.String())
	assert.Equal(t, "text", types.TypeText.String())
	assert.Equal(t, "ordinal", types.ClassOrdinal.String())
	assert.Equal(t, "textual", types.ClassTextual.String())
}
