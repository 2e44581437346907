package libfile

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/logicmodel"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/modelerr"
)

// Encode writes lib in library file syntax. Templates are written in ID
// order and every object carries its id, so Encode followed by Decode
// reproduces the library.
func Encode(w io.Writer, name string, lib *logicmodel.GateLibrary) error {
	if lib == nil {
		return fmt.Errorf("libfile: nil library: %w", modelerr.ErrInvalidReference)
	}
	for _, t := range lib.Templates() {
		if err := checkIdent("template", t.Name()); err != nil {
			return err
		}
		for _, p := range t.Ports() {
			if err := checkIdent("port", p.Name()); err != nil {
				return err
			}
		}
	}

	bw := bufio.NewWriter(w)

	if name != "" {
		fmt.Fprintf(bw, "library %s is\n", strconv.Quote(name))
	} else {
		fmt.Fprintln(bw, "library is")
	}

	for _, t := range lib.Templates() {
		fmt.Fprintf(bw, "\n  template %s id %d is\n", t.Name(), t.ID())
		fmt.Fprintf(bw, "    size %s %s;\n", num(t.Width()), num(t.Height()))
		if t.LogicClass() != "" {
			fmt.Fprintf(bw, "    logic_class %s;\n", strconv.Quote(t.LogicClass()))
		}
		if t.Description() != "" {
			fmt.Fprintf(bw, "    description %s;\n", strconv.Quote(t.Description()))
		}
		for _, p := range t.Ports() {
			fmt.Fprintf(bw, "    port %s id %d", p.Name(), p.ID())
			if !p.HasUndefinedPortType() {
				fmt.Fprintf(bw, " : %s", p.PortType())
			}
			fmt.Fprintf(bw, " at %s %s;\n", num(p.X()), num(p.Y()))
		}
		fmt.Fprintf(bw, "  end %s;\n", t.Name())
	}

	fmt.Fprintln(bw, "end;")
	return bw.Flush()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var identRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func checkIdent(kind, name string) error {
	if !identRe.MatchString(name) {
		return fmt.Errorf("libfile: %s name %q is not an identifier: %w", kind, name, modelerr.ErrPreconditionViolation)
	}
	return nil
}
