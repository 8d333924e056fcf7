package protocols_test

import (
	"testing"

	errors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/sveljko/pgmedian/protocols"
	"github.com/sveljko/pgmedian/types"
)

func TestResolveClass(t *testing.T) {
	tests := []struct {
		arg_type types.ArgType
		class    types.ValueClass
	}{
		{types.TypeInt2, types.ClassOrdinal},
		{types.TypeInt4, types.ClassOrdinal},
		{types.TypeInt8, types.ClassOrdinal},
		{types.TypeTimestamp, types.ClassOrdinal},
		{types.TypeTimestampTZ, types.ClassOrdinal},
		{types.TypeText, types.ClassTextual},
	}

	for _, test := range tests {
		class, pres := protocols.ResolveClass(test.arg_type)
		assert.True(t, pres, "type %v", test.arg_type)
		assert.Equal(t, test.class, class, "type %v", test.arg_type)
	}
}

func TestResolveClassUnsupported(t *testing.T) {
	_, pres := protocols.ResolveClass(types.TypeInvalid)
	assert.False(t, pres)

	_, pres = protocols.ResolveClass(types.ArgType(9999))
	assert.False(t, pres)
}

func TestByteCollator(t *testing.T) {
	for _, name := range []string{"", "C", "POSIX", "default"} {
		collator, err := protocols.LookupCollator(name)
		assert.NoError(t, err, "collation %q", name)

		// Byte ordering: all upper case sorts before all lower case.
		assert.True(t, collator.Compare("B", "a") < 0)
		assert.Equal(t, 0, collator.Compare("same", "same"))
		assert.True(t, collator.Compare("b", "a") > 0)
	}
}

func TestLocaleCollator(t *testing.T) {
	collator, err := protocols.LookupCollator("en_US.UTF-8")
	assert.NoError(t, err)

	// Under a locale collation case is secondary to the letter, so
	// "a" sorts before "B" even though its byte value is larger.
	assert.True(t, collator.Compare("a", "B") < 0)
	assert.True(t, collator.Compare("c", "B") > 0)
	assert.Equal(t, 0, collator.Compare("same", "same"))
}

func TestCollatorCache(t *testing.T) {
	first, err := protocols.LookupCollator("en")
	assert.NoError(t, err)
	second, err := protocols.LookupCollator("en")
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestUnknownCollation(t *testing.T) {
	_, err := protocols.LookupCollator("!!")
	assert.Error(t, err)
	assert.Equal(t, protocols.ErrUnknownCollation, errors.Cause(err))
}
