package pgmedian

import (
	"github.com/sveljko/pgmedian/types"
)

// Aliases to public types.
type Any = types.Any
type Null = types.Null
type ArgType = types.ArgType
type ValueClass = types.ValueClass

const (
	TypeInt2        = types.TypeInt2
	TypeInt4        = types.TypeInt4
	TypeInt8        = types.TypeInt8
	TypeTimestamp   = types.TypeTimestamp
	TypeTimestampTZ = types.TypeTimestampTZ
	TypeText        = types.TypeText
)
