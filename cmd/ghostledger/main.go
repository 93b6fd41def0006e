package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"ghostledger/config"
	"ghostledger/observability/logging"
)

const programName = "ghostledger"

var globalFlags = struct {
	configFile string
	debug      bool
}{}

// loadConfig reads the configured file and sets up logging from it. Logs go
// to stderr unless a log file is configured.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(globalFlags.configFile)
	if err != nil {
		return nil, nil, err
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, nil, err
	}
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	if globalFlags.debug {
		level = slog.LevelDebug
	}
	opts := logging.Options{
		Service:    programName,
		Env:        cfg.Log.Env,
		Level:      level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}
	if cfg.Log.File == "" {
		opts.Output = cmd.ErrOrStderr()
	}
	return cfg, logging.SetupWithOptions(opts), nil
}

// commandLogger is for commands that run without a config file.
func commandLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if globalFlags.debug {
		level = slog.LevelDebug
	}
	return logging.SetupWithOptions(logging.Options{Service: programName, Level: level, Output: cmd.ErrOrStderr()})
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "GhostMarket ledger: lazy-mint NFTs, LP staking and vesting vaults",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().
		StringVar(&globalFlags.configFile, "config", "ghostledger.toml", "path to config file")
	rootCmd.PersistentFlags().
		BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(keygenCommand())
	rootCmd.AddCommand(voucherCommand())
	rootCmd.AddCommand(stakingCommand())
	rootCmd.AddCommand(configCommand())
	return rootCmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", programName, err)
		os.Exit(1)
	}
}
