package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/netlist"
)

var (
	netlistFormat     string
	netlistOutput     string
	netlistSingletons bool
	netlistNoMarkers  bool
	netlistTemplates  []string
	netlistRefPattern string
)

var netlistCmd = &cobra.Command{
	Use:   "netlist",
	Short: "Netlist export and inspection",
}

var netlistExportCmd = &cobra.Command{
	Use:   "export <library_file> <design_file>",
	Short: "Export the netlist of a design",
	Long: `Build the logic model of a design and export its connectivity.

Formats: kicad (S-expression netlist, default) and json.`,
	Args: cobra.ExactArgs(2),
	RunE: runNetlistExport,
}

var netlistInfoCmd = &cobra.Command{
	Use:   "info <netlist_file>",
	Short: "Show the nets of a KiCad netlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runNetlistInfo,
}

func init() {
	rootCmd.AddCommand(netlistCmd)
	netlistCmd.AddCommand(netlistExportCmd)
	netlistCmd.AddCommand(netlistInfoCmd)

	f := netlistExportCmd.Flags()
	f.StringVarP(&netlistFormat, "format", "f", "kicad", "output format (kicad, json)")
	f.StringVarP(&netlistOutput, "output", "o", "", "output file")
	f.BoolVar(&netlistSingletons, "singletons", false, "keep single-pin nets")
	f.BoolVar(&netlistNoMarkers, "no-markers", false, "leave electrical markers out")
	f.StringSliceVar(&netlistTemplates, "template", nil, "only export gates of these templates")
	f.StringVar(&netlistRefPattern, "ref", "", "only export components matching this regex")
}

func runNetlistExport(cmd *cobra.Command, args []string) error {
	m, err := loadModel(args[0], args[1])
	if err != nil {
		return err
	}

	nc := netlist.DefaultConfig()
	nc.IncludeSingletons = netlistSingletons
	nc.IncludeMarkers = !netlistNoMarkers
	nc.OnlyTemplates = netlistTemplates
	nc.RefPattern = netlistRefPattern

	nl, err := netlist.FromModel(m, nc)
	if err != nil {
		return err
	}
	logger.Debug("netlist built", "nets", nl.NetCount(), "pins", nl.PinCount())

	w := cmd.OutOrStdout()
	if netlistOutput != "" {
		f, err := os.Create(netlistOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch netlistFormat {
	case "kicad":
		return nl.WriteKiCad(w)
	case "json":
		data, err := nl.ExportJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		return fmt.Errorf("unknown format %q", netlistFormat)
	}
}

func runNetlistInfo(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	nl, err := netlist.ParseKiCad(f)
	if err != nil {
		return fmt.Errorf("error parsing netlist: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Netlist: %s\n", args[0])
	fmt.Fprintf(out, "Nets: %d\n", nl.NetCount())
	fmt.Fprintf(out, "Pins: %d\n\n", nl.PinCount())
	for _, n := range nl.Nets {
		fmt.Fprintf(out, "  %3d %-16s", n.Code, n.Name)
		for _, p := range n.Pins {
			fmt.Fprintf(out, " %s.%s", p.Ref, p.Pin)
		}
		fmt.Fprintln(out)
	}
	return nil
}
