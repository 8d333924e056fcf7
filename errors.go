package pgmedian

import (
	errors "github.com/pkg/errors"

	"github.com/sveljko/pgmedian/ordstat"
	"github.com/sveljko/pgmedian/protocols"
)

// The failure taxonomy of the aggregate. Every failure is fatal to
// the in-progress aggregation: once a mutation fails the buffer's
// sortedness invariant cannot be trusted, and a silently wrong median
// is worse than an aborted query. Nothing here is retried or
// downgraded to a partial result.
var (
	// The declared argument type has no comparator.
	ErrUnsupportedType = errors.New("parameter type not supported")

	// An entry point was invoked outside a live aggregation context.
	ErrInvalidCallContext = errors.New("called in non-aggregate context")

	// Aliases to the buffer and protocol level failures, so callers
	// can match the whole taxonomy against this package.
	ErrCapacityOverflow  = ordstat.ErrCapacityOverflow
	ErrAllocationFailure = ordstat.ErrAllocationFailure
	ErrRetractNotFound   = ordstat.ErrRetractNotFound
	ErrClassMismatch     = ordstat.ErrClassMismatch
	ErrUnknownCollation  = protocols.ErrUnknownCollation
)
