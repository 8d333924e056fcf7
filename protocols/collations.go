package protocols

import (
	"strings"
	"sync"

	errors "github.com/pkg/errors"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var ErrUnknownCollation = errors.New("unknown collation")

// Collator is the three way comparison the textual value class uses.
// The collation identifier travels with the aggregation call, so the
// same string column can aggregate under different orderings.
type Collator interface {
	// Compare returns -1, 0 or 1 if a sorts before, equal to or
	// after b.
	Compare(a string, b string) int
}

// The "C" and "POSIX" collations: plain byte ordering.
type _ByteCollator struct{}

func (self _ByteCollator) Compare(a string, b string) int {
	return strings.Compare(a, b)
}

// A locale aware collator backed by x/text.
type _LocaleCollator struct {
	collator *collate.Collator
}

func (self _LocaleCollator) Compare(a string, b string) int {
	return self.collator.CompareString(a, b)
}

var (
	mu        sync.Mutex
	collators = make(map[string]Collator)
)

// Collation names arrive in OS locale form ("en_US.UTF-8"); x/text
// wants a BCP 47 tag ("en-US").
func normalizeCollation(name string) string {
	if idx := strings.Index(name, "."); idx >= 0 {
		name = name[:idx]
	}
	return strings.Replace(name, "_", "-", -1)
}

// LookupCollator resolves a collation identifier to a Collator. The
// empty identifier, "C", "POSIX" and "default" compare raw bytes;
// anything else is parsed as a locale and resolved through x/text.
// Collators are cached - building the collation tables is expensive.
func LookupCollator(name string) (Collator, error) {
	switch name {
	case "", "C", "POSIX", "default":
		return _ByteCollator{}, nil
	}

	mu.Lock()
	defer mu.Unlock()

	collator, pres := collators[name]
	if pres {
		return collator, nil
	}

	tag, err := language.Parse(normalizeCollation(name))
	if err != nil {
		return nil, errors.Wrap(ErrUnknownCollation, name)
	}

	collator = _LocaleCollator{collator: collate.New(tag)}
	collators[name] = collator
	return collator, nil
}
