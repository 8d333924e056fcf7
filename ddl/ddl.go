// Package ddl parses the registration dialect used by the extension
// scripts: CREATE AGGREGATE and DROP AGGREGATE statements. The engine
// registry consumes the parsed declarations to bind named entry
// points (e.g. median_transfn) to their Go implementations, playing
// the role the SQL scripts play when the aggregate is installed into
// a real database.
package ddl

import (
	"strings"

	"github.com/alecthomas/participle"
	"github.com/alecthomas/participle/lexer"
	errors "github.com/pkg/errors"
)

var (
	ddlLexer = lexer.Must(lexer.Regexp(
		`(?ms)` +
			`(\s+)` +
			`|(?P<SQLComment>^--.*?$)` + // SQL style one line comment.
			`|(?P<MLineComment>/[*].*?[*]/)` + // C Style comment.
			`|(?ims)(?P<CREATE>\bCREATE\b)` +
			`|(?ims)(?P<OR>\bOR\b)` +
			`|(?ims)(?P<REPLACE>\bREPLACE\b)` +
			`|(?ims)(?P<DROP>\bDROP\b)` +
			`|(?ims)(?P<AGGREGATE>\bAGGREGATE\b)` +
			"|(?P<Ident>[a-zA-Z_][a-zA-Z0-9_]*|`[^`]+`)" +
			`|(?P<String>'([^'\\]*(\\.[^'\\]*)*)'|"([^"\\]*(\\.[^"\\]*)*)")` +
			`|(?P<Number>[-+]?(0x[0-9a-f]+|\d*\.?\d+([eE][-+]?\d+)?))` +
			`|(?P<Operators>[-(),=;*])`,
	))

	ddlParser = participle.MustBuild(
		&Script{},
		participle.Lexer(ddlLexer),
		participle.Elide("SQLComment", "MLineComment"),
	)
)

func reportError(err error, t *lexer.Error, expression string) error {
	end := t.Tok.Pos.Offset + 10
	if end >= len(expression) {
		end = len(expression) - 1
	}
	if end < 0 {
		end = 0
	}

	start := t.Tok.Pos.Offset - 10
	if start < 0 {
		start = 0
	}

	pos := t.Tok.Pos.Offset
	if pos >= len(expression) {
		pos = len(expression) - 1
	}

	if pos < 0 {
		pos = 0
	}

	return errors.Wrap(
		err,
		expression[start:pos]+"|"+expression[pos:end])
}

// Parse a registration script into its statements.
func Parse(script string) (*Script, error) {
	result := &Script{}
	err := ddlParser.ParseString(script, result)
	switch t := err.(type) {
	case *lexer.Error:
		return nil, reportError(err, t, script)
	default:
		return result, err
	}
}

type Script struct {
	Statements []*Statement `{ @@ }`
}

type Statement struct {
	Create *CreateAggregate `( @@ |`
	Drop   *DropAggregate   `  @@ ) ";"`
}

type CreateAggregate struct {
	Replace string    `CREATE [ OR @REPLACE ] AGGREGATE`
	Name    string    `@Ident`
	Args    []string  `"(" [ ( @Ident | @"*" ) { "," @Ident } ] ")"`
	Options []*Option `"(" @@ { "," @@ } ")"`
}

type DropAggregate struct {
	Name string   `DROP AGGREGATE @Ident`
	Args []string `"(" [ ( @Ident | @"*" ) { "," @Ident } ] ")"`
}

type Option struct {
	Key   string `@Ident "="`
	Value string `( @Ident | @Number | @String )`
}

// Option returns the value of the named option. Keys match case
// insensitively, as SQL folds unquoted identifiers.
func (self *CreateAggregate) Option(key string) (string, bool) {
	for _, option := range self.Options {
		if strings.EqualFold(option.Key, key) {
			return option.Value, true
		}
	}
	return "", false
}
