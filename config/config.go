package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of environment overrides, e.g. GHOST_API_LISTEN.
const EnvPrefix = "GHOST"

const (
	BackendMemory  = "memory"
	BackendLevelDB = "leveldb"
)

type Config struct {
	ChainID   uint64          `toml:"chain_id" split_words:"true"`
	DataDir   string          `toml:"data_dir" split_words:"true"`
	DBBackend string          `toml:"db_backend" split_words:"true"`
	Pauses    map[string]bool `toml:"pauses" split_words:"true"`
	Log       Log             `toml:"log" split_words:"true"`
	API       API             `toml:"api" split_words:"true"`
	Indexer   Indexer         `toml:"indexer" split_words:"true"`
	Staking   Staking         `toml:"staking" split_words:"true"`
	Vesting   Vesting         `toml:"vesting" split_words:"true"`
}

// Default returns the configuration written when no file exists.
func Default() *Config {
	return &Config{
		ChainID:   1,
		DataDir:   "./ghost-data",
		DBBackend: BackendLevelDB,
		Pauses:    map[string]bool{},
		Log: Log{
			Level:      "info",
			Env:        "dev",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		API: API{
			Listen:            ":8080",
			RateLimitRPS:      20,
			RateLimitBurst:    40,
			ReadHeaderTimeout: 5,
			ShutdownTimeout:   10,
		},
		Indexer: Indexer{Enabled: true},
		Staking: Staking{
			TotalRewards:   "500000",
			DurationDays:   90,
			BlocksPerDay:   28800,
			StartBlock:     1,
			RewardDecimals: 8,
		},
		Vesting: Vesting{
			VaultFee:    "1000000000000000",
			Voters:      []string{},
			MaxVaultFee: "1000000000000000000",
		},
	}
}

// Load reads the TOML file at path, creating it with defaults when it does
// not exist, then applies GHOST_* environment overrides.
func Load(path string) (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg, err = createDefault(path)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	} else {
		cfg = Default()
		meta, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			return nil, fmt.Errorf("config: unknown keys in %s: %s", path, strings.Join(keys, ", "))
		}
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.DBBackend = strings.ToLower(strings.TrimSpace(c.DBBackend))
	if c.Pauses == nil {
		c.Pauses = map[string]bool{}
	}
	if c.Vesting.Voters == nil {
		c.Vesting.Voters = []string{}
	}
}

// IndexPath resolves where the event index lives.
func (c *Config) IndexPath() string {
	if strings.TrimSpace(c.Indexer.Path) != "" {
		return c.Indexer.Path
	}
	return filepath.Join(c.DataDir, "events.db")
}

// StatePath is the leveldb directory.
func (c *Config) StatePath() string {
	return filepath.Join(c.DataDir, "state")
}

func createDefault(path string) (*Config, error) {
	cfg := Default()
	if err := Save(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as TOML.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
