package catalog

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// catalogLexer defines the lexical structure of the chip database stream.
// The format is line-oriented: a record starts at '$', its name runs to the
// end of the line, the next line carries the two-digit pin count, and the
// following lines hold vector rows until the next '$' or the '&' terminator.
var catalogLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Record start and end-of-catalog sentinels
	{Name: "Dollar", Pattern: `\$`},
	{Name: "Amp", Pattern: `&`},

	// Line separators are structurally significant
	{Name: "EOL", Pattern: `\r?\n`},

	// Any other run of non-space characters: a name, a pin-count field, or
	// a stretch of vector directives
	{Name: "Token", Pattern: `[^\s$&]+`},

	// Horizontal whitespace only separates tokens
	{Name: "WS", Pattern: `[ \t]+`},
})
