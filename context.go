package pgmedian

import (
	"github.com/sveljko/pgmedian/ordstat"
)

// AggContext stands in for the aggregation memory context the engine
// provides: every state allocated through it belongs to it, and its
// teardown reclaims them all in bulk. There is no per-state
// destructor - states simply stop being reachable when the context
// closes, exactly like palloc'd memory when its context is reset.
type AggContext struct {
	live   bool
	states []*State
}

func NewAggContext() *AggContext {
	return &AggContext{live: true}
}

// Close tears the context down. Any state created under it is
// discarded and further callback invocations are rejected with
// ErrInvalidCallContext.
func (self *AggContext) Close() {
	self.live = false
	self.states = nil
}

func (self *AggContext) valid() bool {
	return self != nil && self.live
}

func (self *AggContext) newState() *State {
	state := &State{buf: ordstat.New()}
	self.states = append(self.states, state)
	return state
}
