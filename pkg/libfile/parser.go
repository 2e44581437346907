package libfile

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
)

// Parser reads gate library files.
type Parser struct {
	parser *participle.Parser[File]
}

// NewParser builds the library grammar.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[File](
		participle.Lexer(Lexer),
		participle.Elide("Comment", "Whitespace"),
		participle.Unquote("String"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("libfile: failed to build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse parses a library from r. name is used in error positions.
func (p *Parser) Parse(name string, r io.Reader) (*File, error) {
	f, err := p.parser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("libfile: parse error: %w", err)
	}
	return f, nil
}

// ParseString parses a library from a string.
func (p *Parser) ParseString(input string) (*File, error) {
	f, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("libfile: parse error: %w", err)
	}
	return f, nil
}

// ParseFile parses the library file at path.
func (p *Parser) ParseFile(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("libfile: failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(path, file)
}
