package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// MaxRewardDecimals matches the staking precision bound.
const MaxRewardDecimals = 30

var errInvalid = errors.New("invalid configuration")

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errInvalid, fmt.Sprintf(format, args...))
}

// IsInvalid reports whether err came from ValidateConfig.
func IsInvalid(err error) bool { return errors.Is(err, errInvalid) }

func ValidateConfig(c *Config) error {
	if c == nil {
		return invalid("config is nil")
	}
	if c.ChainID == 0 {
		return invalid("chain_id must be > 0")
	}
	switch c.DBBackend {
	case BackendMemory:
	case BackendLevelDB:
		if strings.TrimSpace(c.DataDir) == "" {
			return invalid("data_dir is required for the leveldb backend")
		}
	default:
		return invalid("db_backend %q is not one of memory, leveldb", c.DBBackend)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.API.RateLimitRPS < 0 || c.API.RateLimitBurst < 0 {
		return invalid("api rate limits must not be negative")
	}
	if c.API.RateLimitRPS > 0 && c.API.RateLimitBurst == 0 {
		return invalid("api.rate_limit_burst must be > 0 when rate limiting is on")
	}
	if err := validateStaking(c.Staking); err != nil {
		return err
	}
	return validateVesting(c.Vesting)
}

func validateStaking(s Staking) error {
	if s.DurationDays == 0 || s.BlocksPerDay == 0 {
		return invalid("staking.duration_days and staking.blocks_per_day must be > 0")
	}
	if s.RewardDecimals >= MaxRewardDecimals {
		return invalid("staking.reward_decimals must be < %d", MaxRewardDecimals)
	}
	if _, err := s.RewardPerBlock(); err != nil {
		return err
	}
	return nil
}

func validateVesting(v Vesting) error {
	fee, err := ParseAmount("vesting.vault_fee", v.VaultFee)
	if err != nil {
		return err
	}
	maxFee, err := ParseAmount("vesting.max_vault_fee", v.MaxVaultFee)
	if err != nil {
		return err
	}
	if fee.Cmp(maxFee) > 0 {
		return invalid("vesting.vault_fee exceeds vesting.max_vault_fee")
	}
	voters, err := v.VoterAddresses()
	if err != nil {
		return err
	}
	if len(voters) > 0 && v.Threshold > uint64(len(voters)) {
		return invalid("vesting.threshold %d exceeds %d voters", v.Threshold, len(voters))
	}
	return nil
}

// ParseAmount parses a non-negative base-10 integer.
func ParseAmount(field, value string) (*big.Int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok || amount.Sign() < 0 {
		return nil, invalid("%s: %q is not a non-negative integer", field, value)
	}
	return amount, nil
}

// VoterAddresses parses the voter list. Duplicates are rejected.
func (v Vesting) VoterAddresses() ([]common.Address, error) {
	seen := make(map[common.Address]struct{}, len(v.Voters))
	out := make([]common.Address, 0, len(v.Voters))
	for _, raw := range v.Voters {
		raw = strings.TrimSpace(raw)
		if !common.IsHexAddress(raw) {
			return nil, invalid("vesting.voters: %q is not an address", raw)
		}
		addr := common.HexToAddress(raw)
		if _, dup := seen[addr]; dup {
			return nil, invalid("vesting.voters: duplicate %s", addr.Hex())
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}
	return out, nil
}

// ParseLevel maps a config level name onto slog.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, invalid("log.level %q is unknown", level)
	}
}
