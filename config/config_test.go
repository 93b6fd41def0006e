package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ghost.toml")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, uint64(1), cfg.ChainID)
	require.Equal(t, BackendLevelDB, cfg.DBBackend)

	_, err = os.Stat(path)
	require.NoError(t, err)

	again, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Staking, again.Staking)
	require.Equal(t, cfg.API, again.API)
	require.NoError(t, ValidateConfig(again))
}

func TestLoadParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ghost.toml")
	contents := `chain_id = 56
data_dir = "/var/lib/ghost"
db_backend = "Memory"

[pauses]
staking = true

[log]
level = "debug"
file = "/var/log/ghost.log"

[api]
listen = "127.0.0.1:9000"
rate_limit_rps = 5.5
rate_limit_burst = 10

[staking]
total_rewards = "500000"
duration_days = 90
blocks_per_day = 28800
start_block = 100
reward_decimals = 8

[vesting]
vault_fee = "1000000000000000"
voters = ["0xa000000000000000000000000000000000000001", "0xa000000000000000000000000000000000000002"]
threshold = 2
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, uint64(56), cfg.ChainID)
	require.Equal(t, BackendMemory, cfg.DBBackend)
	require.True(t, cfg.Pauses["staking"])
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, 100, cfg.Log.MaxSizeMB)
	require.Equal(t, "127.0.0.1:9000", cfg.API.Listen)
	require.Equal(t, 5.5, cfg.API.RateLimitRPS)
	require.Equal(t, uint64(100), cfg.Staking.StartBlock)
	require.Equal(t, "1000000000000000000", cfg.Vesting.MaxVaultFee)
	require.Equal(t, filepath.Join("/var/lib/ghost", "events.db"), cfg.IndexPath())

	voters, err := cfg.Vesting.VoterAddresses()
	require.NoError(t, err)
	require.Len(t, voters, 2)
	require.NoError(t, ValidateConfig(cfg))
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ghost.toml")
	require.NoError(t, os.WriteFile(path, []byte("chain_id = 1\nvalidator_key = \"x\"\n"), 0o600))
	_, err := Load(path)
	require.ErrorContains(t, err, "validator_key")
}

func TestEnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ghost.toml")
	t.Setenv("GHOST_CHAIN_ID", "97")
	t.Setenv("GHOST_API_LISTEN", ":7000")
	t.Setenv("GHOST_STAKING_DURATION_DAYS", "30")
	t.Setenv("LEVEL", "error")
	t.Setenv("GHOST_VESTING_VOTERS", "0xa000000000000000000000000000000000000001,0xa000000000000000000000000000000000000002")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, uint64(97), cfg.ChainID)
	require.Equal(t, ":7000", cfg.API.Listen)
	require.Equal(t, uint64(30), cfg.Staking.DurationDays)
	require.Len(t, cfg.Vesting.Voters, 2)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestRewardPerBlock(t *testing.T) {
	s := Staking{TotalRewards: "500000", DurationDays: 90, BlocksPerDay: 28800, StartBlock: 1000, RewardDecimals: 8}
	rate, err := s.RewardPerBlock()
	require.NoError(t, err)
	// 500000 / 90 / 28800 = 0.192901234567...
	require.Equal(t, "19290123", rate.String())
	require.Equal(t, uint64(1000+90*28800), s.EndBlock())

	s.TotalRewards = "1.5"
	s.DurationDays = 1
	s.BlocksPerDay = 1
	s.RewardDecimals = 18
	rate, err = s.RewardPerBlock()
	require.NoError(t, err)
	require.Equal(t, "1500000000000000000", rate.String())

	s.TotalRewards = "lots"
	_, err = s.RewardPerBlock()
	require.True(t, IsInvalid(err))

	require.Equal(t, "0.19290123", FormatUnits(rate.SetInt64(19290123), 8))
}

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"chain id", func(c *Config) { c.ChainID = 0 }},
		{"backend", func(c *Config) { c.DBBackend = "postgres" }},
		{"data dir", func(c *Config) { c.DataDir = " " }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"burst", func(c *Config) { c.API.RateLimitBurst = 0 }},
		{"blocks per day", func(c *Config) { c.Staking.BlocksPerDay = 0 }},
		{"decimals", func(c *Config) { c.Staking.RewardDecimals = 30 }},
		{"fee", func(c *Config) { c.Vesting.VaultFee = "-1" }},
		{"fee above max", func(c *Config) { c.Vesting.VaultFee = "2000000000000000000" }},
		{"voter", func(c *Config) { c.Vesting.Voters = []string{"nope"} }},
		{"duplicate voter", func(c *Config) {
			c.Vesting.Voters = []string{"0xa000000000000000000000000000000000000001", "0xA000000000000000000000000000000000000001"}
		}},
		{"threshold", func(c *Config) {
			c.Vesting.Voters = []string{"0xa000000000000000000000000000000000000001"}
			c.Vesting.Threshold = 2
		}},
	}
	require.NoError(t, ValidateConfig(Default()))
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := ValidateConfig(cfg)
			require.Error(t, err)
			require.True(t, IsInvalid(err))
		})
	}
}
