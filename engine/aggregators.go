package engine

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sveljko/pgmedian/types"
)

// AggregatorCtx holds the opaque state handles the engine round-trips
// through the aggregate callbacks. Each aggregate instance stores its
// state under its own id, so two instances of the same aggregate in
// one query never interfere.
type AggregatorCtx struct {
	mu   sync.Mutex
	data map[string]types.Any
}

// Modify the stored handle under lock. If there is no existing value,
// old_value will be nil and pres will be false. Returning the old
// value unchanged reads it without modification.
func (self *AggregatorCtx) Modify(name string,
	modifier func(old_value types.Any, pres bool) types.Any) types.Any {
	self.mu.Lock()
	defer self.mu.Unlock()

	old_value, pres := self.data[name]
	new_value := modifier(old_value, pres)
	self.data[name] = new_value
	return new_value
}

func NewAggregatorCtx() *AggregatorCtx {
	return &AggregatorCtx{
		data: make(map[string]types.Any),
	}
}

var (
	// Atomically incremented global id given to aggregate instances.
	id uint64
)

// Aggregator identifies one aggregate instance. Instances store their
// state in the AggregatorCtx so they can retrieve it on the next row.
type Aggregator struct {
	id string
}

func (self Aggregator) GetContext(actx *AggregatorCtx) (res types.Any, res_pres bool) {
	return actx.Modify(self.id,
		func(previous_value_any types.Any, pres bool) types.Any {
			res_pres = pres
			return previous_value_any
		}), res_pres
}

func (self Aggregator) SetContext(actx *AggregatorCtx, value types.Any) {
	actx.Modify(self.id,
		func(previous_value_any types.Any, pres bool) types.Any {
			return value
		})
}

func NewAggregator() Aggregator {
	new_id := atomic.AddUint64(&id, 1)
	return Aggregator{
		id: fmt.Sprintf("id_%v", new_id),
	}
}
