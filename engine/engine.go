// Package engine is a minimal aggregation engine driving the
// aggregate callbacks the way a SQL executor would: one value per
// row, strictly serially, with the opaque state handle round-tripped
// through every call. It exists so the aggregate can be exercised and
// tested end to end without a database, and doubles as a reference
// for how the callbacks are meant to be driven.
package engine

import (
	"fmt"

	"github.com/Velocidex/ordereddict"
	errors "github.com/pkg/errors"

	"github.com/sveljko/pgmedian"
	"github.com/sveljko/pgmedian/types"
	"github.com/sveljko/pgmedian/utils"
)

type Engine struct {
	registry       *Registry
	aggregator_ctx *AggregatorCtx

	log_messages []string
}

func NewEngine(registry *Registry) *Engine {
	return &Engine{
		registry:       registry,
		aggregator_ctx: NewAggregatorCtx(),
	}
}

func (self *Engine) Log(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	self.log_messages = append(self.log_messages, msg)
}

func (self *Engine) GetLogs() []string {
	return self.log_messages
}

func (self *Engine) getState(instance Aggregator) *pgmedian.State {
	state_any, pres := instance.GetContext(self.aggregator_ctx)
	if !pres || utils.IsNil(state_any) {
		return nil
	}
	return state_any.(*pgmedian.State)
}

// Aggregate folds rows through the aggregate's transition function
// and finalizes once at the end - the forward-only form.
func (self *Engine) Aggregate(name string, rows []types.Any,
	arg_type types.ArgType, collation string) (types.Any, error) {

	aggregate, pres := self.registry.Lookup(name)
	if !pres {
		return types.Null{}, errors.Wrap(ErrUnknownAggregate, name)
	}
	if aggregate.Trans == nil || aggregate.Final == nil {
		return types.Null{}, errors.Wrapf(ErrInvalidDeclaration,
			"%v is not a plain aggregate", name)
	}

	actx := pgmedian.NewAggContext()
	defer actx.Close()

	instance := NewAggregator()

	for _, row := range rows {
		state, err := aggregate.Trans(
			actx, self.getState(instance), row, arg_type, collation)
		if err != nil {
			self.Log("%v: %v", name, err)
			return types.Null{}, err
		}
		instance.SetContext(self.aggregator_ctx, state)
	}

	return aggregate.Final(actx, self.getState(instance))
}

// MovingAggregate runs the moving-window form: each output row holds
// the aggregate of the last frame input rows. Rows leaving the frame
// are retracted through the inverse transition function, paired 1:1
// with their earlier accumulation, and the aggregate is finalized
// once per output row while the same state keeps advancing.
func (self *Engine) MovingAggregate(name string, rows []types.Any,
	frame int, arg_type types.ArgType, collation string) (
	[]*ordereddict.Dict, error) {

	aggregate, pres := self.registry.Lookup(name)
	if !pres {
		return nil, errors.Wrap(ErrUnknownAggregate, name)
	}
	if aggregate.MovingTrans == nil || aggregate.MovingInverse == nil ||
		aggregate.MovingFinal == nil {
		return nil, errors.Wrapf(ErrInvalidDeclaration,
			"%v does not support moving-window mode", name)
	}
	if frame < 1 {
		return nil, errors.Wrapf(ErrInvalidDeclaration,
			"invalid window frame %v", frame)
	}

	actx := pgmedian.NewAggContext()
	defer actx.Close()

	instance := NewAggregator()
	result := []*ordereddict.Dict{}

	for i, row := range rows {
		state, err := aggregate.MovingTrans(
			actx, self.getState(instance), row, arg_type, collation)
		if err != nil {
			self.Log("%v: %v", name, err)
			return nil, err
		}

		if i >= frame {
			state, err = aggregate.MovingInverse(
				actx, state, rows[i-frame], arg_type, collation)
			if err != nil {
				self.Log("%v: %v", name, err)
				return nil, err
			}
		}
		instance.SetContext(self.aggregator_ctx, state)

		row_result, err := aggregate.MovingFinal(actx, state)
		if err != nil {
			self.Log("%v: %v", name, err)
			return nil, err
		}

		result = append(result, ordereddict.NewDict().
			Set("value", row).
			Set(aggregate.Name, row_result))
	}

	return result, nil
}
