package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration tools",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Load and validate the config file, creating it when missing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			voters, err := cfg.Vesting.VoterAddresses()
			if err != nil {
				return err
			}
			if len(voters) == 0 {
				logger.Warn("no vesting voters configured; serve will refuse to start")
			}
			logger.Debug("config loaded", slog.String("path", globalFlags.configFile))
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (chain %d, %s backend, %d voters)\n",
				globalFlags.configFile, cfg.ChainID, cfg.DBBackend, len(voters))
			return nil
		},
	})
	return cmd
}
