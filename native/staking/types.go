package staking

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	nativecommon "ghostledger/native/common"
)

// MaxRewardDecimals bounds the reward token decimals; the precision factor is
// 10^(MaxRewardDecimals - decimals).
const MaxRewardDecimals = 30

// Pool is the stored record of a reward pool.
type Pool struct {
	Address          common.Address
	StakedToken      common.Address
	RewardToken      common.Address
	RewardPerBlock   *big.Int
	StartBlock       uint64
	EndBlock         uint64
	LastRewardBlock  uint64
	AccTokenPerShare *big.Int
	TotalStaked      *big.Int
	PrecisionFactor  *big.Int
	// RewardReserve is the reward liquidity deposited by the owner. User
	// principal is tracked in TotalStaked and never pays rewards.
	RewardReserve *big.Int
	Control       nativecommon.Control
}

func (p *Pool) normalize() {
	for _, v := range []**big.Int{&p.RewardPerBlock, &p.AccTokenPerShare, &p.TotalStaked, &p.PrecisionFactor, &p.RewardReserve} {
		if *v == nil {
			*v = big.NewInt(0)
		}
	}
}

// Clone returns a deep copy of the pool.
func (p *Pool) Clone() *Pool {
	if p == nil {
		return nil
	}
	clone := *p
	clone.RewardPerBlock = cloneBigInt(p.RewardPerBlock)
	clone.AccTokenPerShare = cloneBigInt(p.AccTokenPerShare)
	clone.TotalStaked = cloneBigInt(p.TotalStaked)
	clone.PrecisionFactor = cloneBigInt(p.PrecisionFactor)
	clone.RewardReserve = cloneBigInt(p.RewardReserve)
	return &clone
}

// UserInfo is a staker's position.
type UserInfo struct {
	Amount     *big.Int
	RewardDebt *big.Int
}

func (u *UserInfo) normalize() {
	if u.Amount == nil {
		u.Amount = big.NewInt(0)
	}
	if u.RewardDebt == nil {
		u.RewardDebt = big.NewInt(0)
	}
}

// Params configures a new pool.
type Params struct {
	StakedToken    common.Address
	RewardToken    common.Address
	RewardPerBlock *big.Int
	StartBlock     uint64
	EndBlock       uint64
}

func cloneBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

func poolKey(addr common.Address) []byte {
	return append([]byte("staking/pool/"), addr.Bytes()...)
}

func userKey(pool, user common.Address) []byte {
	key := append([]byte("staking/user/"), pool.Bytes()...)
	return append(key, user.Bytes()...)
}

var poolIndexKey = []byte("staking/index")
