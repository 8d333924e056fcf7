// Package pgmedian implements a median aggregate as the three
// callbacks an aggregation engine drives: Accumulate, Retract and
// Finalize. The same callbacks serve both the simple forward-only
// aggregate and the moving-window form, where values leaving the
// window are retracted again.
//
// State is an opaque handle the engine round-trips through every
// call. The engine owns its lifetime (see AggContext), guarantees
// strictly serial calls per state, and interprets Null at both
// boundaries as SQL NULL. A nil handle means no value has been seen
// yet; the handle becomes non-nil on the first non-null value and
// stays non-nil from then on, even if retraction later empties it.
package pgmedian

import (
	errors "github.com/pkg/errors"

	"github.com/sveljko/pgmedian/ordstat"
	"github.com/sveljko/pgmedian/protocols"
	"github.com/sveljko/pgmedian/types"
	"github.com/sveljko/pgmedian/utils"
)

// State wraps the order statistics buffer for one aggregation. It is
// opaque to the engine, which must always continue with the handle
// returned by the last call - the buffer may have been reallocated.
type State struct {
	buf *ordstat.Buffer
}

// Len returns the number of values currently held. On a nil (absent)
// state this is zero.
func (self *State) Len() int {
	if self == nil {
		return 0
	}
	return self.buf.Len()
}

// Class reports the value class the aggregation settled on.
func (self *State) Class() types.ValueClass {
	if self == nil {
		return types.ClassInvalid
	}
	return self.buf.Class()
}

// Accumulate folds one input value into the state. Null values are
// discarded. The first non-null value creates the state and fixes its
// value class from the declared argument type; every later value must
// belong to the same class.
func Accumulate(actx *AggContext, state *State, value types.Any,
	arg_type types.ArgType, collation string) (*State, error) {

	if !actx.valid() {
		return state, errors.Wrap(ErrInvalidCallContext, "Accumulate")
	}

	// Discard NULL input values.
	if types.IsNil(value) {
		return state, nil
	}

	// Resolve the class before touching the state, so an unsupported
	// type leaves no observable mutation behind.
	class, pres := protocols.ResolveClass(arg_type)
	if !pres {
		return state, errors.Wrapf(ErrUnsupportedType, "%v", arg_type)
	}

	if state == nil {
		state = actx.newState()
	}

	switch class {
	case types.ClassOrdinal:
		x, ok := utils.ToInt64(value)
		if !ok {
			return state, errors.Wrapf(ErrUnsupportedType,
				"%T value for %v argument", value, arg_type)
		}
		return state, state.buf.InsertNum(x)

	case types.ClassTextual:
		collator, err := protocols.LookupCollator(collation)
		if err != nil {
			return state, err
		}
		x, ok := utils.ToText(value)
		if !ok {
			return state, errors.Wrapf(ErrUnsupportedType,
				"%T value for %v argument", value, arg_type)
		}
		return state, state.buf.InsertText(x, collator)
	}

	return state, errors.Wrapf(ErrUnsupportedType, "%v", arg_type)
}

// Retract undoes a prior Accumulate of the same value, as a moving
// window advances past it. The engine guarantees strict 1:1 pairing
// with earlier Accumulate calls; a value that cannot be found is a
// fatal contract violation. A state emptied by retraction stays
// present - the window may still hand it further values.
func Retract(actx *AggContext, state *State, value types.Any,
	arg_type types.ArgType, collation string) (*State, error) {

	if !actx.valid() {
		return state, errors.Wrap(ErrInvalidCallContext, "Retract")
	}

	if types.IsNil(value) {
		return state, nil
	}

	class, pres := protocols.ResolveClass(arg_type)
	if !pres {
		return state, errors.Wrapf(ErrUnsupportedType, "%v", arg_type)
	}

	if state == nil {
		return nil, errors.Wrap(ErrRetractNotFound,
			"retract before any accumulation")
	}

	switch class {
	case types.ClassOrdinal:
		x, ok := utils.ToInt64(value)
		if !ok {
			return state, errors.Wrapf(ErrUnsupportedType,
				"%T value for %v argument", value, arg_type)
		}
		return state, state.buf.RemoveNum(x)

	case types.ClassTextual:
		collator, err := protocols.LookupCollator(collation)
		if err != nil {
			return state, err
		}
		x, ok := utils.ToText(value)
		if !ok {
			return state, errors.Wrapf(ErrUnsupportedType,
				"%T value for %v argument", value, arg_type)
		}
		return state, state.buf.RemoveText(x, collator)
	}

	return state, errors.Wrapf(ErrUnsupportedType, "%v", arg_type)
}

// Finalize reads the current median without disturbing the state, so
// window engines can finalize once per output row while the same
// window keeps advancing. An absent state, or a state emptied by
// retraction, yields Null.
func Finalize(actx *AggContext, state *State) (types.Any, error) {
	if !actx.valid() {
		return types.Null{}, errors.Wrap(ErrInvalidCallContext, "Finalize")
	}

	if state == nil {
		return types.Null{}, nil
	}

	result, pres := state.buf.Median()
	if !pres {
		return types.Null{}, nil
	}
	return result, nil
}
