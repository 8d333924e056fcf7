package engine

import (
	"strings"
	"sync"

	errors "github.com/pkg/errors"

	"github.com/sveljko/pgmedian"
	"github.com/sveljko/pgmedian/ddl"
	"github.com/sveljko/pgmedian/types"
)

var (
	ErrUnknownAggregate   = errors.New("unknown aggregate")
	ErrUnknownSymbol      = errors.New("unknown entry point")
	ErrInvalidDeclaration = errors.New("invalid aggregate declaration")
)

// TransFn is the accumulate/retract entry point signature: the engine
// hands in the current state handle and one value, and continues with
// the returned handle.
type TransFn func(actx *pgmedian.AggContext, state *pgmedian.State,
	value types.Any, arg_type types.ArgType, collation string) (
	*pgmedian.State, error)

// FinalFn produces the aggregate's result from the current state.
type FinalFn func(actx *pgmedian.AggContext, state *pgmedian.State) (
	types.Any, error)

// Aggregate is one registered aggregate: its plain form (SFUNC /
// FINALFUNC) and, when declared, its moving-window form (MSFUNC /
// MINVFUNC / MFINALFUNC).
type Aggregate struct {
	Name    string
	ArgType string

	Trans TransFn
	Final FinalFn

	MovingTrans   TransFn
	MovingInverse TransFn
	MovingFinal   FinalFn
}

// Registry resolves the entry point names a registration script may
// bind and holds the aggregates the scripts declare.
type Registry struct {
	mu         sync.Mutex
	trans      map[string]TransFn
	final      map[string]FinalFn
	aggregates map[string]*Aggregate
}

func NewRegistry() *Registry {
	return &Registry{
		trans:      make(map[string]TransFn),
		final:      make(map[string]FinalFn),
		aggregates: make(map[string]*Aggregate),
	}
}

// DefaultRegistry knows the entry points this module implements,
// under the names the registration scripts refer to them by.
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.RegisterTransFn("median_transfn", pgmedian.Accumulate)
	registry.RegisterTransFn("median_inv_transfn", pgmedian.Retract)
	registry.RegisterFinalFn("median_finalfn", pgmedian.Finalize)
	return registry
}

func (self *Registry) RegisterTransFn(name string, fn TransFn) {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.trans[strings.ToLower(name)] = fn
}

func (self *Registry) RegisterFinalFn(name string, fn FinalFn) {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.final[strings.ToLower(name)] = fn
}

func (self *Registry) Lookup(name string) (*Aggregate, bool) {
	self.mu.Lock()
	defer self.mu.Unlock()
	aggregate, pres := self.aggregates[strings.ToLower(name)]
	return aggregate, pres
}

// LoadScript applies a registration script: CREATE AGGREGATE
// statements declare aggregates by binding registered entry point
// names, DROP AGGREGATE statements remove them.
func (self *Registry) LoadScript(script string) error {
	parsed, err := ddl.Parse(script)
	if err != nil {
		return err
	}

	self.mu.Lock()
	defer self.mu.Unlock()

	for _, statement := range parsed.Statements {
		switch {
		case statement.Create != nil:
			err = self.addAggregate(statement.Create)
			if err != nil {
				return err
			}

		case statement.Drop != nil:
			delete(self.aggregates, strings.ToLower(statement.Drop.Name))
		}
	}
	return nil
}

func (self *Registry) lookupTransFn(decl *ddl.CreateAggregate,
	option string) (TransFn, error) {
	name, pres := decl.Option(option)
	if !pres {
		return nil, nil
	}
	fn, pres := self.trans[strings.ToLower(name)]
	if !pres {
		return nil, errors.Wrapf(ErrUnknownSymbol, "%v = %v", option, name)
	}
	return fn, nil
}

func (self *Registry) lookupFinalFn(decl *ddl.CreateAggregate,
	option string) (FinalFn, error) {
	name, pres := decl.Option(option)
	if !pres {
		return nil, nil
	}
	fn, pres := self.final[strings.ToLower(name)]
	if !pres {
		return nil, errors.Wrapf(ErrUnknownSymbol, "%v = %v", option, name)
	}
	return fn, nil
}

func (self *Registry) addAggregate(decl *ddl.CreateAggregate) error {
	aggregate := &Aggregate{Name: strings.ToLower(decl.Name)}
	if len(decl.Args) > 0 {
		aggregate.ArgType = decl.Args[0]
	}

	var err error
	aggregate.Trans, err = self.lookupTransFn(decl, "SFUNC")
	if err != nil {
		return err
	}
	aggregate.MovingTrans, err = self.lookupTransFn(decl, "MSFUNC")
	if err != nil {
		return err
	}
	aggregate.MovingInverse, err = self.lookupTransFn(decl, "MINVFUNC")
	if err != nil {
		return err
	}
	aggregate.Final, err = self.lookupFinalFn(decl, "FINALFUNC")
	if err != nil {
		return err
	}
	aggregate.MovingFinal, err = self.lookupFinalFn(decl, "MFINALFUNC")
	if err != nil {
		return err
	}

	if aggregate.Trans == nil {
		return errors.Wrapf(ErrInvalidDeclaration,
			"aggregate %v has no SFUNC", decl.Name)
	}

	self.aggregates[aggregate.Name] = aggregate
	return nil
}
