package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDegate/internal/config"
)

var (
	// Global flags
	verbose bool
	envFile string

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "degate",
	Short: "Degate - gate-level logic model tools",
	Long: `degate works with logic models recovered from chip images:
  - gate libraries (templates with ports)
  - placed gates, electrical markers and nets
  - netlist export and remote synchronisation

Examples:
  degate lib info cells.dgl                       # List templates
  degate grid snap --distance 25 --max 500 37 63  # Snap coordinates
  degate gate place cells.dgl NAND2 100 40        # Show port positions
  degate netlist export cells.dgl design.json     # KiCad netlist on stdout
  degate marker push cells.dgl design.json VDD    # Push a marker`,
	Version:           "0.3.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "settings file")
}

func setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var err error
	if cfg, err = config.Load(envFile); err != nil {
		return err
	}
	logger.Debug("config loaded",
		"grid_min", cfg.Grid.Min, "grid_max", cfg.Grid.Max, "grid_distance", cfg.Grid.Distance,
		"port_diameter", cfg.PortDiameter, "remote_url", cfg.Remote.URL)
	return nil
}
