package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/busybeaver/internal/config"
	"github.com/aretw0/busybeaver/internal/logging"
	"github.com/aretw0/busybeaver/internal/presentation/tui"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// app carries what the persistent pre-run resolved for the subcommands.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	logFile *os.File
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), logger: logging.NewNop()}

	var (
		configPath string
		logLevel   string
		logFile    string
		logJSON    bool
	)

	root := &cobra.Command{
		Use:   "busybeaver",
		Short: "Turing machine simulator and busy beaver search",
		Long: `busybeaver runs Turing machines under a step budget and enumerates every
transition table of a given shape, looking for the longest-running halting machines.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("log-file") {
				cfg.LogFile = logFile
			}
			level, err := logging.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			a.cfg = cfg
			if cfg.LogFile == "" {
				a.logger = logging.NewWriter(cmd.ErrOrStderr(), level, logJSON)
				return nil
			}

			f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			a.logFile = f
			a.logger = logging.NewTee(cmd.ErrOrStderr(), f, level, logJSON)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.logFile == nil {
				return nil
			}
			return a.logFile.Close()
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML or JSON configuration file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFile, "log-file", "", "also append JSON logs to this file")
	root.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON")

	root.AddCommand(
		newRunCmd(a),
		newSearchCmd(a),
		newCountCmd(a),
		newGraphCmd(a),
		newCheckCmd(),
		newMachinesCmd(),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

// profileOf picks a color profile for w. Anything but a terminal gets plain text.
func profileOf(w io.Writer) termenv.Profile {
	if f, ok := w.(*os.File); ok {
		return tui.Profile(f)
	}
	return termenv.Ascii
}
