package libfile

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer defines the tokens of gate library files. Keywords are
// case-insensitive; comments run from "--" to the end of the line.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `--[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s]+`},

	{Name: "KwLibrary", Pattern: `(?i)\bLIBRARY\b`},
	{Name: "KwTemplate", Pattern: `(?i)\bTEMPLATE\b`},
	{Name: "KwIs", Pattern: `(?i)\bIS\b`},
	{Name: "KwEnd", Pattern: `(?i)\bEND\b`},
	{Name: "KwId", Pattern: `(?i)\bID\b`},
	{Name: "KwSize", Pattern: `(?i)\bSIZE\b`},
	{Name: "KwLogicClass", Pattern: `(?i)\bLOGIC_CLASS\b`},
	{Name: "KwDescription", Pattern: `(?i)\bDESCRIPTION\b`},
	{Name: "KwPort", Pattern: `(?i)\bPORT\b`},
	{Name: "KwAt", Pattern: `(?i)\bAT\b`},

	{Name: "Colon", Pattern: `:`},
	{Name: "Semicolon", Pattern: `;`},

	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Real", Pattern: `[-+]?[0-9]+\.[0-9]+([eE][-+]?[0-9]+)?`},
	{Name: "Integer", Pattern: `[-+]?[0-9]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
})
