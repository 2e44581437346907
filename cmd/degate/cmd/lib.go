package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/design"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/libfile"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/logicmodel"
)

var libCmd = &cobra.Command{
	Use:   "lib",
	Short: "Gate library operations",
	Long:  `Commands for working with gate library files (.dgl)`,
}

var libInfoCmd = &cobra.Command{
	Use:   "info <library_file> [template]",
	Short: "Show library information",
	Long: `Display the templates of a gate library.

Without template argument: lists all templates
With template argument: shows the ports of that template`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runLibInfo,
}

var libCheckCmd = &cobra.Command{
	Use:   "check <library_file>...",
	Short: "Validate library files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLibCheck,
}

var libFmtOutput string

var libFmtCmd = &cobra.Command{
	Use:   "fmt <library_file>",
	Short: "Rewrite a library in canonical form",
	Long: `Parse a library and write it back with every template and port
carrying an explicit id. Output goes to stdout unless -o is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runLibFmt,
}

func init() {
	rootCmd.AddCommand(libCmd)
	libCmd.AddCommand(libInfoCmd)
	libCmd.AddCommand(libCheckCmd)
	libCmd.AddCommand(libFmtCmd)

	libFmtCmd.Flags().StringVarP(&libFmtOutput, "output", "o", "", "output file")
}

func loadLibrary(path string, ids logicmodel.IDAllocator) (*logicmodel.GateLibrary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lib, err := libfile.Load(path, f, ids)
	if err != nil {
		return nil, fmt.Errorf("error loading library: %w", err)
	}
	logger.Debug("library loaded", "file", path, "templates", lib.Len())
	return lib, nil
}

// loadModel builds the logic model of a placement file on top of a library.
func loadModel(libPath, designPath string) (*logicmodel.LogicModel, error) {
	ids := logicmodel.NewSequentialIDs()
	lib, err := loadLibrary(libPath, ids)
	if err != nil {
		return nil, err
	}
	d, err := design.ReadFile(designPath)
	if err != nil {
		return nil, err
	}
	m, err := d.Build(lib,
		logicmodel.WithIDAllocator(ids),
		logicmodel.WithLogger(logger),
		logicmodel.WithPortDiameter(cfg.PortDiameter))
	if err != nil {
		return nil, err
	}
	logger.Debug("design loaded", "file", designPath,
		"gates", len(m.Gates()), "markers", len(m.Markers()), "nets", len(m.Nets()))
	return m, nil
}

func runLibInfo(cmd *cobra.Command, args []string) error {
	lib, err := loadLibrary(args[0], logicmodel.NewSequentialIDs())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 2 {
		t, err := lib.TemplateByName(args[1])
		if err != nil {
			return err
		}
		showTemplate(out, t)
		return nil
	}

	fmt.Fprintf(out, "Library: %s\n", args[0])
	fmt.Fprintf(out, "Templates: %d\n\n", lib.Len())
	for _, t := range lib.Templates() {
		fmt.Fprintf(out, "  %-12s id %-6d %gx%g  %d ports", t.Name(), t.ID(), t.Width(), t.Height(), t.PortCount())
		if t.LogicClass() != "" {
			fmt.Fprintf(out, "  [%s]", t.LogicClass())
		}
		fmt.Fprintln(out)
	}
	return nil
}

func showTemplate(out io.Writer, t *logicmodel.GateTemplate) {
	fmt.Fprintf(out, "Template: %s (id %d)\n", t.Name(), t.ID())
	fmt.Fprintf(out, "Size: %g x %g\n", t.Width(), t.Height())
	if t.LogicClass() != "" {
		fmt.Fprintf(out, "Logic class: %s\n", t.LogicClass())
	}
	if t.Description() != "" {
		fmt.Fprintf(out, "Description: %s\n", t.Description())
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Ports:")
	for _, p := range t.Ports() {
		fmt.Fprintf(out, "  %-8s id %-6d %-9s at (%g, %g)\n", p.Name(), p.ID(), p.PortType(), p.X(), p.Y())
	}
}

func runLibCheck(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, path := range args {
		lib, err := loadLibrary(path, logicmodel.NewSequentialIDs())
		if err != nil {
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", path, err)
			continue
		}
		ports := 0
		for _, t := range lib.Templates() {
			ports += t.PortCount()
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok   %s: %d templates, %d ports\n", path, lib.Len(), ports)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d libraries failed", failed, len(args))
	}
	return nil
}

func runLibFmt(cmd *cobra.Command, args []string) error {
	lib, err := loadLibrary(args[0], logicmodel.NewSequentialIDs())
	if err != nil {
		return err
	}
	p, err := libfile.NewParser()
	if err != nil {
		return err
	}
	f, err := p.ParseFile(args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if libFmtOutput != "" {
		out, err := os.Create(libFmtOutput)
		if err != nil {
			return err
		}
		defer out.Close()
		w = out
	}
	return libfile.Encode(w, f.Name, lib)
}
