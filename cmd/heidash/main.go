// heidash renders higher-education-institution (HEI) category donuts.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/heiportal/heidash/api"
	"github.com/heiportal/heidash/internal/chart"
	"github.com/heiportal/heidash/internal/config"
	"github.com/heiportal/heidash/internal/logging"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and logger, set by the root command.
var (
	cfg *config.Config
	log *zap.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "heidash",
	Short: "heidash: HEI dashboard chart renderer",
	Long: `heidash renders the donut chart of a higher-education dashboard:
counts of State Universities and Colleges (SUC), Local Universities and
Colleges (LUC) and Private HEIs become SVG arcs, a legend, and an empty
state when there is nothing to show.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		log, err = logging.New(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		zap.ReplaceGlobals(log)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "heidash %s\n", version)
		fmt.Fprintf(out, "  commit:  %s\n", commit)
		fmt.Fprintf(out, "  built:   %s\n", date)
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.API.Addr()
		}

		api.Version = version
		srv := api.NewServer(cfg, log)
		return srv.ListenAndServe(addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default: api.host:api.port from config)")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		opts := cfg.ChartOptions()
		g := opts.Geometry

		source := cfg.ConfigFile
		if source == "" {
			source = "(defaults + environment)"
		}

		fmt.Fprintln(out, "═══════════════════════════════════════")
		fmt.Fprintln(out, "  heidash: Status")
		fmt.Fprintln(out, "═══════════════════════════════════════")
		fmt.Fprintf(out, "  Version:       %s (%s)\n", version, commit)
		fmt.Fprintf(out, "  Config:        %s\n", source)
		fmt.Fprintln(out)

		fmt.Fprintln(out, "  Chart:")
		fmt.Fprintf(out, "    Surface:       %dx%d, center (%.0f, %.0f)\n", g.Width, g.Height, g.CX, g.CY)
		fmt.Fprintf(out, "    Radii:         %.0f outer / %.0f inner\n", g.Radius, g.InnerRadius)
		fmt.Fprintf(out, "    Start offset:  %.0f°\n", g.StartOffset)
		if opts.MinVisiblePercent < 0 {
			fmt.Fprintln(out, "    Min visible:   off")
		} else {
			fmt.Fprintf(out, "    Min visible:   %v%%\n", opts.MinVisiblePercent)
		}
		fmt.Fprintf(out, "    Precision:     %d decimal(s)\n", max(opts.PercentPrecision, 0))
		fmt.Fprintln(out)

		fmt.Fprintln(out, "  Categories:")
		for _, c := range chart.DefaultCategories() {
			fmt.Fprintf(out, "    %-8s %s\n", c.Key, c.DisplayLabel())
		}
		fmt.Fprintln(out)

		fmt.Fprintf(out, "  API Server:    %s\n", cfg.API.Addr())
		fmt.Fprintf(out, "  Logging:       %s (%s)\n", cfg.Logging.Level, cfg.Logging.Format)
		fmt.Fprintln(out, "═══════════════════════════════════════")
		return nil
	},
}
