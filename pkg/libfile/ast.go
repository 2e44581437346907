package libfile

import "github.com/alecthomas/participle/v2/lexer"

// File is a parsed gate library file.
// Example:
//
//	library "cmos-45" is
//	  template NAND2 id 12 is
//	    size 30 60;
//	    logic_class "nand";
//	    port A id 13 : in at 5 10;
//	    port Y id 15 : out at 25 30;
//	  end NAND2;
//	end;
type File struct {
	Name      string      `parser:"KwLibrary @String? KwIs"`
	Templates []*Template `parser:"@@*"`
	End       bool        `parser:"@KwEnd Semicolon"`
}

// Template declares one gate template. Required attributes are checked by
// Decode rather than by the grammar so their absence is reported by name.
type Template struct {
	Pos lexer.Position

	Name    *string         `parser:"KwTemplate @Ident?"`
	ID      *uint64         `parser:"( KwId @Integer )? KwIs"`
	Items   []*TemplateItem `parser:"@@*"`
	EndName string          `parser:"KwEnd @Ident? Semicolon"`
}

// TemplateItem is one statement inside a template body.
type TemplateItem struct {
	Size        *Size     `parser:"  @@"`
	LogicClass  *string   `parser:"| KwLogicClass @String Semicolon"`
	Description *string   `parser:"| KwDescription @String Semicolon"`
	Port        *PortDecl `parser:"| @@"`
}

// Size is the template's width and height.
type Size struct {
	Width  float64 `parser:"KwSize @( Real | Integer )"`
	Height float64 `parser:"@( Real | Integer ) Semicolon"`
}

// PortDecl declares a template port.
// Example: port A id 13 : in at 5 10;
type PortDecl struct {
	Pos lexer.Position

	Name      *string `parser:"KwPort @Ident?"`
	ID        *uint64 `parser:"( KwId @Integer )?"`
	Direction *string `parser:"( Colon @Ident )?"`
	Position  *Point  `parser:"( KwAt @@ )? Semicolon"`
}

// Point is a position relative to the template's top-left corner.
type Point struct {
	X float64 `parser:"@( Real | Integer )"`
	Y float64 `parser:"@( Real | Integer )"`
}

// size returns the last size statement of the template.
func (t *Template) size() *Size {
	var s *Size
	for _, item := range t.Items {
		if item.Size != nil {
			s = item.Size
		}
	}
	return s
}

// Ports returns the port declarations in file order.
func (t *Template) Ports() []*PortDecl {
	var ports []*PortDecl
	for _, item := range t.Items {
		if item.Port != nil {
			ports = append(ports, item.Port)
		}
	}
	return ports
}
