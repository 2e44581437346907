package libfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/logicmodel"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/modelerr"
)

const sampleLibrary = `
-- two cells of a 45nm library
library "cmos-45" is
  template NAND2 id 100 is
    size 30 60;
    logic_class "nand";
    description "two input nand";
    port A id 101 : in at 5 10;
    port B : in at 5 50;
    port Y id 103 : out at 25 30.5;
  end NAND2;

  template INV is
    size 15 60;
    port A : IN at 2 30;
    port Y : out at 13 30;
  end INV;
end;
`

func mustParser(t *testing.T) *Parser {
	t.Helper()
	p, err := NewParser()
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	return p
}

func TestParseLibrary(t *testing.T) {
	f, err := mustParser(t).ParseString(sampleLibrary)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if f.Name != "cmos-45" {
		t.Errorf("library name = %q", f.Name)
	}
	if len(f.Templates) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(f.Templates))
	}

	nand := f.Templates[0]
	if nand.Name == nil || *nand.Name != "NAND2" {
		t.Fatalf("template name = %v", nand.Name)
	}
	if nand.ID == nil || *nand.ID != 100 {
		t.Errorf("template id = %v", nand.ID)
	}
	ports := nand.Ports()
	if len(ports) != 3 {
		t.Fatalf("expected 3 ports, got %d", len(ports))
	}
	if ports[1].ID != nil {
		t.Errorf("port B should have no explicit id")
	}
	if ports[2].Position.Y != 30.5 {
		t.Errorf("port Y position = %+v", ports[2].Position)
	}
}

func TestDecode(t *testing.T) {
	f, err := mustParser(t).ParseString(sampleLibrary)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	ids := logicmodel.NewSequentialIDs()
	lib, err := Decode(f, ids)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if lib.Len() != 2 {
		t.Fatalf("expected 2 templates, got %d", lib.Len())
	}

	nand, err := lib.Template(100)
	if err != nil {
		t.Fatalf("NAND2 not found by id: %v", err)
	}
	if nand.Width() != 30 || nand.Height() != 60 || nand.LogicClass() != "nand" {
		t.Errorf("NAND2 attributes wrong: %gx%g %q", nand.Width(), nand.Height(), nand.LogicClass())
	}
	b, ok := nand.PortByName("B")
	if !ok {
		t.Fatalf("port B missing")
	}
	if b.ID() <= 103 {
		t.Errorf("allocated id %d collides with reserved ids", b.ID())
	}
	if !b.IsInport() {
		t.Errorf("port B type = %s", b.PortType())
	}

	inv, err := lib.TemplateByName("INV")
	if err != nil {
		t.Fatalf("INV not found: %v", err)
	}
	if a, _ := inv.PortByName("A"); !a.IsInport() {
		t.Errorf("direction keyword should be case-insensitive")
	}
	if next := ids.Next(); lib.ExistsTemplate(next) || lib.ExistsTemplatePort(next) {
		t.Errorf("allocator returned used id %d", next)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{
			name:  "missing template name",
			input: `library is template is size 1 1; end; end;`,
			want:  modelerr.ErrMissingAttribute,
		},
		{
			name:  "missing size",
			input: `library is template X is port A : in at 0 0; end X; end;`,
			want:  modelerr.ErrMissingAttribute,
		},
		{
			name:  "missing port name",
			input: `library is template X is size 1 1; port : in at 0 0; end X; end;`,
			want:  modelerr.ErrMissingAttribute,
		},
		{
			name:  "missing port position",
			input: `library is template X is size 1 1; port A : in; end X; end;`,
			want:  modelerr.ErrMissingAttribute,
		},
		{
			name:  "bad direction",
			input: `library is template X is size 1 1; port A : sideways at 0 0; end X; end;`,
			want:  modelerr.ErrPreconditionViolation,
		},
		{
			name:  "duplicate id",
			input: `library is template X id 5 is size 1 1; end X; template Y id 5 is size 1 1; end Y; end;`,
			want:  modelerr.ErrDuplicateIdentity,
		},
		{
			name:  "duplicate name",
			input: `library is template X is size 1 1; end X; template X is size 2 2; end X; end;`,
			want:  modelerr.ErrDuplicateIdentity,
		},
		{
			name:  "mismatched end",
			input: `library is template X is size 1 1; end Y; end;`,
			want:  modelerr.ErrPreconditionViolation,
		},
	}

	p := mustParser(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := p.ParseString(tt.input)
			if err != nil {
				t.Fatalf("Failed to parse: %v", err)
			}
			_, err = Decode(f, logicmodel.NewSequentialIDs())
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseSyntaxError(t *testing.T) {
	if _, err := mustParser(t).ParseString(`library is template X is size 1; end X; end;`); err == nil {
		t.Errorf("expected a parse error for a size with one dimension")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	lib, err := Load("sample", strings.NewReader(sampleLibrary), logicmodel.NewSequentialIDs())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, "cmos-45", lib); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.Contains(buf.String(), "port Y id 103 : out at 25 30.5;") {
		t.Errorf("unexpected encoding:\n%s", buf.String())
	}

	again, err := Load("encoded", &buf, logicmodel.NewSequentialIDs())
	if err != nil {
		t.Fatalf("Load of encoded library failed: %v", err)
	}
	if again.Len() != lib.Len() {
		t.Fatalf("template count %d, want %d", again.Len(), lib.Len())
	}
	for _, want := range lib.Templates() {
		got, err := again.Template(want.ID())
		if err != nil {
			t.Fatalf("template %d lost: %v", want.ID(), err)
		}
		if got.Name() != want.Name() || got.Width() != want.Width() || got.PortCount() != want.PortCount() {
			t.Errorf("template %s changed in round trip", want.Name())
		}
		for _, wp := range want.Ports() {
			gp, err := got.Port(wp.ID())
			if err != nil {
				t.Fatalf("port %d lost: %v", wp.ID(), err)
			}
			if gp.Point() != wp.Point() || gp.PortType() != wp.PortType() {
				t.Errorf("port %s changed in round trip", wp.Name())
			}
		}
	}
}

func TestEncodeRejectsBadNames(t *testing.T) {
	lib := logicmodel.NewGateLibrary()
	tmpl := logicmodel.NewGateTemplate(1, 1)
	tmpl.SetID(1)
	tmpl.SetName("not an ident")
	if err := lib.AddTemplate(tmpl); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, "", lib); !errors.Is(err, modelerr.ErrPreconditionViolation) {
		t.Errorf("Encode error = %v", err)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cells.dgl")
	if err := os.WriteFile(path, []byte(sampleLibrary), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := mustParser(t).ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(f.Templates) != 2 {
		t.Errorf("expected 2 templates, got %d", len(f.Templates))
	}

	if _, err := mustParser(t).ParseFile(filepath.Join(t.TempDir(), "missing.dgl")); err == nil {
		t.Errorf("expected error for missing file")
	}
}
