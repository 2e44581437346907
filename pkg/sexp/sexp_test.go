package sexp

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseNested(t *testing.T) {
	nodes, err := ParseString(`
# exported by degate
(export (version D)
  (nets
    (net (code 1) (name "VCC net")
      (node (ref U1) (pin 3)))))
`)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("expected 1 top-level node, got %d", len(nodes))
	}

	root := nodes[0].(*List)
	if root.Head() != "export" {
		t.Errorf("head = %q, want export", root.Head())
	}

	nets, ok := Find(root, "nets")
	if !ok {
		t.Fatalf("nets not found")
	}
	all := FindAll(nets, "net")
	if len(all) != 1 {
		t.Fatalf("expected 1 net, got %d", len(all))
	}

	name, ok := Value(all[0], "name")
	if !ok || name != "VCC net" {
		t.Errorf("name = %q, %v", name, ok)
	}

	code, _ := Find(all[0], "code")
	if v, err := IntAt(code, 1); err != nil || v != 1 {
		t.Errorf("code = %d, %v", v, err)
	}

	node, _ := Find(all[0], "node")
	if pin, _ := Value(node, "pin"); pin != "3" {
		t.Errorf("pin = %q", pin)
	}
}

func TestParseEscapes(t *testing.T) {
	nodes, err := ParseString(`("a\"b" "tab\there" sym)`)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	l := nodes[0].(*List)
	if got, _ := String(l, 0); got != `a"b` {
		t.Errorf("escaped quote: got %q", got)
	}
	if got, _ := String(l, 1); got != "tab\there" {
		t.Errorf("escaped tab: got %q", got)
	}
	if a := l.At(2).(Atom); a.Quoted {
		t.Errorf("bare symbol marked quoted")
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"(a (b)",
		")",
		`(a "unterminated)`,
	} {
		if _, err := ParseString(input); err == nil {
			t.Errorf("ParseString(%q) succeeded, want error", input)
		}
	}
}

func TestFloat(t *testing.T) {
	nodes, err := ParseString("(at 12.5 -3 x)")
	if err != nil {
		t.Fatal(err)
	}
	l := nodes[0].(*List)
	if v, err := Float(l, 1); err != nil || v != 12.5 {
		t.Errorf("Float(1) = %g, %v", v, err)
	}
	if v, err := Float(l, 2); err != nil || v != -3 {
		t.Errorf("Float(2) = %g, %v", v, err)
	}
	if _, err := Float(l, 3); err == nil {
		t.Errorf("Float(3) should fail on a symbol")
	}
	if _, err := Float(l, 9); err == nil {
		t.Errorf("Float(9) should fail out of range")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	doc := L("export",
		L("version", Sym("D")),
		L("nets",
			L("net", L("code", Int(1)), L("name", Str("my net")),
				L("node", L("ref", Sym("G1")), L("pin", Sym("A"))),
				L("node", L("ref", Sym("G2")), L("pin", Sym("Y")))),
		),
	)

	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(buf.String(), `(name "my net")`) {
		t.Errorf("quoted name missing:\n%s", buf.String())
	}

	nodes, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse of written output failed: %v", err)
	}
	if got, want := nodes[0].String(), doc.String(); got != want {
		t.Errorf("round trip mismatch:\ngot  %s\nwant %s", got, want)
	}
}
