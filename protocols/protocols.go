// Protocols mapping declared argument types to a comparison strategy.
//
// The mapping is pure and stateless: it is re-derived from the call's
// declared argument type on every invocation, which is cheap and
// necessary because the same compiled callbacks serve any element
// type.
package protocols

import (
	"github.com/sveljko/pgmedian/types"
)

// ClassProtocol classifies one family of declared argument types into
// a value class. Additional type families plug in by implementing
// this interface and registering on the dispatcher.
type ClassProtocol interface {
	Applicable(arg_type types.ArgType) bool
	Class() types.ValueClass
}

type ClassDispatcher struct {
	impl []ClassProtocol
}

func (self ClassDispatcher) Copy() ClassDispatcher {
	return ClassDispatcher{
		append([]ClassProtocol{}, self.impl...)}
}

func (self *ClassDispatcher) AddImpl(elements ...ClassProtocol) {
	for _, impl := range elements {
		self.impl = append(self.impl, impl)
	}
}

func (self ClassDispatcher) Resolve(arg_type types.ArgType) (types.ValueClass, bool) {
	for _, impl := range self.impl {
		if impl.Applicable(arg_type) {
			return impl.Class(), true
		}
	}
	return types.ClassInvalid, false
}

// The integer family. The timestamp types belong here too - they are
// reinterpreted as 64 bit integers.
type _OrdinalClass struct{}

func (self _OrdinalClass) Applicable(arg_type types.ArgType) bool {
	switch arg_type {
	case types.TypeInt2, types.TypeInt4, types.TypeInt8,
		types.TypeTimestamp, types.TypeTimestampTZ:
		return true
	}
	return false
}

func (self _OrdinalClass) Class() types.ValueClass {
	return types.ClassOrdinal
}

type _TextualClass struct{}

func (self _TextualClass) Applicable(arg_type types.ArgType) bool {
	return arg_type == types.TypeText
}

func (self _TextualClass) Class() types.ValueClass {
	return types.ClassTextual
}

var defaultDispatcher = ClassDispatcher{
	impl: []ClassProtocol{
		_OrdinalClass{},
		_TextualClass{},
	},
}

// ResolveClass maps a declared argument type to its value class using
// the default dispatcher. Returns false for any type with no defined
// comparator - callers must treat that as a hard error.
func ResolveClass(arg_type types.ArgType) (types.ValueClass, bool) {
	return defaultDispatcher.Resolve(arg_type)
}
