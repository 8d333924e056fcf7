package utils

import (
	"reflect"
	"time"

	"github.com/alecthomas/repr"
)

func Debug(arg interface{}) {
	if arg != nil {
		repr.Println(arg)
	} else {
		repr.Println("nil")
	}
}

func IsNil(i interface{}) bool {
	if i == nil {
		return true
	}

	switch reflect.TypeOf(i).Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Slice:
		//use of IsNil method
		return reflect.ValueOf(i).IsNil()
	}
	return false
}

// ToInt64 widens an ordinal value to the int64 domain the buffer
// stores. Narrower integers are sign extended; timestamps are
// reinterpreted as microseconds so they order exactly like their
// native representation. Widening is always lossless - types that
// cannot be widened losslessly are rejected.
func ToInt64(x interface{}) (int64, bool) {
	switch t := x.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true

	case time.Time:
		return t.UnixNano() / 1000, true
	case *time.Time:
		return t.UnixNano() / 1000, true

	case *int:
		return int64(*t), true
	case *int16:
		return int64(*t), true
	case *int32:
		return int64(*t), true
	case *int64:
		return *t, true
	}

	return 0, false
}

// ToText extracts the textual payload of a value. A []byte is copied
// by the string conversion, so the caller ends up owning the payload
// independently of the engine's input buffers.
func ToText(x interface{}) (string, bool) {
	switch t := x.(type) {
	case string:
		return t, true
	case *string:
		return *t, true
	case []byte:
		return string(t), true
	}

	return "", false
}
