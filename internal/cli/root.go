package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/portfolio/config"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// RootConfig carries global flags and the loaded configuration to every
// subcommand.
type RootConfig struct {
	ConfigPath string
	DBPath     string
	LogLevel   string
	LogJSON    bool
	NoColor    bool

	Config *config.Config
	Log    zerolog.Logger
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Portfolio analytics across many strategy backtests",
		Long: `Portfolio evaluates how a set of independent strategy backtests would
behave when run together with limited capital and position slots.

It provides tools for:
  - Importing exported backtests (JSON or YAML) into a local journal
  - Per-backtest metrics: P/L, drawdown, risk, concurrency
  - Portfolio drawdown, aggregate risk and merged equity curves
  - Daily concurrency percentiles as position-limit guidance`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global / persistent flags
	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.DBPath, "db", "", "SQLite journal database (overrides config)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "Log level: debug|info|warn|error")
	cmd.PersistentFlags().BoolVar(&rc.LogJSON, "log-json", false, "Write logs as JSON")
	cmd.PersistentFlags().BoolVar(&rc.NoColor, "no-color", false, "Disable colored output")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return rc.load(cmd.ErrOrStderr())
	}

	// Subcommands
	cmd.AddCommand(
		newImportCmd(rc),
		newListCmd(rc),
		newDeleteCmd(rc),
		newMetricsCmd(rc),
		newSummarizeCmd(rc),
		newLimitsCmd(rc),
		newConfigCmd(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "portfolio version %s\n", version)
		},
	})

	return cmd
}

// load reads the config file, applies flag overrides and builds the logger.
func (rc *RootConfig) load(stderr io.Writer) error {
	cfg := config.Default()
	if rc.ConfigPath != "" {
		loaded, err := config.LoadFromFile(rc.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if rc.DBPath != "" {
		cfg.Journal.DBPath = rc.DBPath
	}
	if rc.LogLevel != "" {
		cfg.Log.Level = rc.LogLevel
	}
	if rc.LogJSON {
		cfg.Log.JSON = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	var out io.Writer = stderr
	if !cfg.Log.JSON {
		out = zerolog.ConsoleWriter{Out: stderr, NoColor: rc.NoColor, TimeFormat: "15:04:05"}
	}
	rc.Log = zerolog.New(out).Level(level).With().Timestamp().Logger()
	rc.Config = cfg
	return nil
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
