package types

import (
	"fmt"
	"time"
)

// These are the public types exposed to package clients.

// A generic value as handed to the aggregate callbacks. The engine
// presents one of these per input row.
type Any interface{}

// ArgType is the declared SQL type of the aggregated argument. The
// same compiled callbacks serve any of these, so the type travels
// with every call and is re-resolved each time.
type ArgType int

const (
	TypeInvalid ArgType = iota
	TypeInt2
	TypeInt4
	TypeInt8
	TypeTimestamp
	TypeTimestampTZ
	TypeText
)

func (self ArgType) String() string {
	switch self {
	case TypeInt2:
		return "int2"
	case TypeInt4:
		return "int4"
	case TypeInt8:
		return "int8"
	case TypeTimestamp:
		return "timestamp"
	case TypeTimestampTZ:
		return "timestamptz"
	case TypeText:
		return "text"
	}
	return fmt.Sprintf("ArgType(%d)", int(self))
}

// ValueClass is the comparison strategy an aggregation settles on
// when it sees its first non-null value. It never changes for the
// lifetime of that aggregation.
type ValueClass int

const (
	ClassInvalid ValueClass = iota

	// Values which can be handled like 64 bit signed integers,
	// including the timestamp types.
	ClassOrdinal

	// Values which compare as strings under a collation.
	ClassTextual
)

func (self ValueClass) String() string {
	switch self {
	case ClassOrdinal:
		return "ordinal"
	case ClassTextual:
		return "textual"
	}
	return fmt.Sprintf("ValueClass(%d)", int(self))
}

// ArgTypeOf infers the declared type from a Go value. Callers that do
// not carry SQL type metadata (e.g. the example CLI) can use this to
// fill the ArgType parameter of the callbacks.
func ArgTypeOf(value Any) (ArgType, bool) {
	switch value.(type) {
	case int16:
		return TypeInt2, true
	case int32:
		return TypeInt4, true
	case int, int64:
		return TypeInt8, true
	case time.Time, *time.Time:
		return TypeTimestampTZ, true
	case string, []byte:
		return TypeText, true
	}
	return TypeInvalid, false
}
