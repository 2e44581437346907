package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testLibrary = `
library "e2e" is
  template NAND2 id 100 is
    size 10 20;
    logic_class "nand";
    port A id 101 : in at 0 5;
    port B id 102 : in at 0 15;
    port Y id 103 : out at 10 10;
  end NAND2;
  template INV id 110 is
    size 10 10;
    port A id 111 : in at 0 5;
    port Y id 112 : out at 10 5;
  end INV;
end;
`

const testDesign = `{
  "gates": [
    {"name": "U1", "template": "NAND2", "x": 0, "y": 0},
    {"name": "U2", "template": "INV", "x": 50, "y": 0}
  ],
  "markers": [{"name": "OUT", "x": 80, "y": 5, "module_port": true}],
  "connections": [["U1.Y", "U2.A"], ["U2.Y", "OUT"]]
}`

type fixture struct {
	dir     string
	lib     string
	design  string
	noEnv   string
	badLib  string
	netlist string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:     dir,
		lib:     filepath.Join(dir, "cells.dgl"),
		design:  filepath.Join(dir, "design.json"),
		noEnv:   filepath.Join(dir, "none.env"),
		badLib:  filepath.Join(dir, "bad.dgl"),
		netlist: filepath.Join(dir, "out.net"),
	}
	for path, content := range map[string]string{
		f.lib:    testLibrary,
		f.design: testDesign,
		f.badLib: `library is template X is port A : in at 0 0; end X; end;`,
	} {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Reset flags to prevent accumulation between tests
	verbose = false
	libFmtOutput = ""
	gridMin, gridMax, gridDistance, gridOffsets, gridVertical = 0, 0, 0, nil, false
	gateOrientation, gateSnap = "normal", false
	netlistFormat, netlistOutput = "kicad", ""
	netlistSingletons, netlistNoMarkers = false, false
	netlistTemplates, netlistRefPattern = nil, ""
	markerURL, markerRetries, markerParallel = "", 0, 4

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCommandsE2E(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "lib info",
			args:        []string{"lib", "info", f.lib},
			wantContain: []string{"Templates: 2", "NAND2", "[nand]", "INV"},
		},
		{
			name:        "lib info template",
			args:        []string{"lib", "info", f.lib, "NAND2"},
			wantContain: []string{"Template: NAND2 (id 100)", "Size: 10 x 20", "Y", "out", "(10, 10)"},
		},
		{
			name:    "lib info unknown template",
			args:    []string{"lib", "info", f.lib, "XOR"},
			wantErr: true,
		},
		{
			name:        "lib check",
			args:        []string{"lib", "check", f.lib},
			wantContain: []string{"ok", "2 templates, 5 ports"},
		},
		{
			name:    "lib check bad",
			args:    []string{"lib", "check", f.lib, f.badLib},
			wantErr: true,
		},
		{
			name:        "lib fmt",
			args:        []string{"lib", "fmt", f.lib},
			wantContain: []string{`library "e2e" is`, "template INV id 110 is", "port Y id 103 : out at 10 10;"},
		},
		{
			name:        "grid snap",
			args:        []string{"grid", "snap", "--min", "0", "--max", "100", "--distance", "10", "14", "15", "16", "--", "-5", "120"},
			wantContain: []string{"14 -> 10", "15 -> 10", "16 -> 20", "-5 -> 0", "120 -> 100"},
		},
		{
			name:        "grid snap irregular",
			args:        []string{"grid", "snap", "--offsets", "3,40,90", "20", "70"},
			wantContain: []string{"20 -> 3", "70 -> 90"},
		},
		{
			name:    "grid snap negative distance",
			args:    []string{"grid", "snap", "--distance", "-1", "5"},
			wantErr: true,
		},
		{
			name:        "gate place flipped",
			args:        []string{"gate", "place", f.lib, "NAND2", "100", "40", "-o", "flipped-left-right"},
			wantContain: []string{"NAND2", "flipped-left-right", "(110, 45)", "(100, 50)"},
		},
		{
			name:    "gate place bad orientation",
			args:    []string{"gate", "place", f.lib, "NAND2", "0", "0", "-o", "rotated"},
			wantErr: true,
		},
		{
			name:        "netlist export kicad",
			args:        []string{"netlist", "export", f.lib, f.design},
			wantContain: []string{"(export", "U1", "U2", "OUT", "ModulePort"},
		},
		{
			name:        "netlist export json",
			args:        []string{"netlist", "export", "-f", "json", f.lib, f.design},
			wantContain: []string{`"ref": "OUT"`},
		},
		{
			name:    "netlist export unknown format",
			args:    []string{"netlist", "export", "-f", "spice", f.lib, f.design},
			wantErr: true,
		},
		{
			name:    "marker push without url",
			args:    []string{"marker", "push", f.lib, f.design, "OUT"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := execute(t, append([]string{"--env", f.noEnv}, tt.args...)...)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none\nOutput: %s", output)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
				}
			}
		})
	}
}

func TestNetlistRoundTripE2E(t *testing.T) {
	f := newFixture(t)

	if out, err := execute(t, "--env", f.noEnv, "netlist", "export", "-o", f.netlist, f.lib, f.design); err != nil {
		t.Fatalf("export failed: %v\n%s", err, out)
	}
	out, err := execute(t, "--env", f.noEnv, "netlist", "info", f.netlist)
	if err != nil {
		t.Fatalf("info failed: %v\n%s", err, out)
	}
	for _, want := range []string{"Nets: 2", "Pins: 4", "U1.Y", "U2.A", "OUT.1"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing expected string: %q\nGot:\n%s", want, out)
		}
	}
}

func TestMarkerPushE2E(t *testing.T) {
	f := newFixture(t)

	var pushed map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&pushed); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"id": 77}`))
	}))
	defer srv.Close()

	out, err := execute(t, "--env", f.noEnv, "marker", "push", "--url", srv.URL, f.lib, f.design, "OUT", "OUT", "OUT")
	if err != nil {
		t.Fatalf("push failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "-> 77") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if n := strings.Count(out, "-> 77"); n != 1 {
		t.Errorf("marker pushed %d times, want 1:\n%s", n, out)
	}
	if pushed["type"] != "emarker" {
		t.Errorf("pushed payload = %v", pushed)
	}

	if _, err := execute(t, "--env", f.noEnv, "marker", "push", "--url", srv.URL, f.lib, f.design, "NOPE"); err == nil {
		t.Errorf("expected error for unknown marker")
	}
}
