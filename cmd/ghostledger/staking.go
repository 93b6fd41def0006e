package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"ghostledger/config"
)

type stakingParamsJSON struct {
	TotalRewards   string `json:"totalRewards"`
	DurationDays   uint64 `json:"durationDays"`
	BlocksPerDay   uint64 `json:"blocksPerDay"`
	StartBlock     uint64 `json:"startBlock"`
	EndBlock       uint64 `json:"endBlock"`
	RewardDecimals uint8  `json:"rewardDecimals"`
	RewardPerBlock string `json:"rewardPerBlock"`
	Display        string `json:"rewardPerBlockDisplay"`
}

func stakingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staking",
		Short: "LP staking pool tools",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "params",
		Short: "Derive the pool deployment parameters from the [staking] section",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out, err := stakingParams(cfg.Staking)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	})
	return cmd
}

func stakingParams(s config.Staking) (*stakingParamsJSON, error) {
	rate, err := s.RewardPerBlock()
	if err != nil {
		return nil, err
	}
	return &stakingParamsJSON{
		TotalRewards:   s.TotalRewards,
		DurationDays:   s.DurationDays,
		BlocksPerDay:   s.BlocksPerDay,
		StartBlock:     s.StartBlock,
		EndBlock:       s.EndBlock(),
		RewardDecimals: s.RewardDecimals,
		RewardPerBlock: rate.String(),
		Display:        config.FormatUnits(rate, s.RewardDecimals),
	}, nil
}
