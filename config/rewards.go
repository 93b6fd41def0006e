package config

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// RewardPerBlock is total_rewards / duration_days / blocks_per_day scaled to
// reward_decimals and truncated.
func (s Staking) RewardPerBlock() (*big.Int, error) {
	total, err := decimal.NewFromString(strings.TrimSpace(s.TotalRewards))
	if err != nil {
		return nil, invalid("staking.total_rewards: %v", err)
	}
	if total.IsNegative() {
		return nil, invalid("staking.total_rewards must not be negative")
	}
	if s.DurationDays == 0 || s.BlocksPerDay == 0 {
		return nil, invalid("staking.duration_days and staking.blocks_per_day must be > 0")
	}
	blocks := decimal.NewFromBigInt(new(big.Int).Mul(
		new(big.Int).SetUint64(s.DurationDays),
		new(big.Int).SetUint64(s.BlocksPerDay),
	), 0)
	quotient, _ := total.Shift(int32(s.RewardDecimals)).QuoRem(blocks, 0)
	return quotient.BigInt(), nil
}

// EndBlock is start_block + duration_days * blocks_per_day.
func (s Staking) EndBlock() uint64 {
	return s.StartBlock + s.DurationDays*s.BlocksPerDay
}

// FormatUnits renders a base-unit amount with the given decimals, e.g. for
// CLI output.
func FormatUnits(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}
