package config

// Log controls the structured logger.
type Log struct {
	Level string `toml:"level" split_words:"true"`
	Env   string `toml:"env" split_words:"true"`
	// File, when set, sends logs to a rotating file instead of stdout.
	File       string `toml:"file" split_words:"true"`
	MaxSizeMB  int    `toml:"max_size_mb" split_words:"true"`
	MaxBackups int    `toml:"max_backups" split_words:"true"`
	MaxAgeDays int    `toml:"max_age_days" split_words:"true"`
}

// API configures the read-only HTTP gateway.
type API struct {
	Listen            string  `toml:"listen" split_words:"true"`
	RateLimitRPS      float64 `toml:"rate_limit_rps" split_words:"true"`
	RateLimitBurst    int     `toml:"rate_limit_burst" split_words:"true"`
	ReadHeaderTimeout int     `toml:"read_header_timeout_seconds" split_words:"true"`
	ShutdownTimeout   int     `toml:"shutdown_timeout_seconds" split_words:"true"`
}

// Indexer configures the SQL event index.
type Indexer struct {
	Enabled bool `toml:"enabled" split_words:"true"`
	// Path of the sqlite file. Empty means <data_dir>/events.db.
	Path string `toml:"path" split_words:"true"`
}

// Staking holds the deployment parameters of the default LP reward pool.
// Amounts are whole reward tokens; RewardPerBlock scales them by
// RewardDecimals.
type Staking struct {
	TotalRewards   string `toml:"total_rewards" split_words:"true"`
	DurationDays   uint64 `toml:"duration_days" split_words:"true"`
	BlocksPerDay   uint64 `toml:"blocks_per_day" split_words:"true"`
	StartBlock     uint64 `toml:"start_block" split_words:"true"`
	RewardDecimals uint8  `toml:"reward_decimals" split_words:"true"`
}

// Vesting holds the vault constructor arguments. Fees are in the smallest
// native unit.
type Vesting struct {
	VaultFee    string   `toml:"vault_fee" split_words:"true"`
	Voters      []string `toml:"voters" split_words:"true"`
	Threshold   uint64   `toml:"threshold" split_words:"true"`
	MaxVaultFee string   `toml:"max_vault_fee" split_words:"true"`
}
