package vesting

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// MaxShortLock is the longest duration AddBeneficiary accepts: ten years of
// 365 days.
const MaxShortLock = 10 * 365 * 24 * 60 * 60

// ReleaseType selects how a schedule unlocks.
type ReleaseType uint8

const (
	// ReleaseFixed unlocks everything at StartTime + Duration.
	ReleaseFixed ReleaseType = 0
	// ReleaseLinear unlocks pro rata after the cliff.
	ReleaseLinear ReleaseType = 1
)

func (t ReleaseType) String() string {
	switch t {
	case ReleaseFixed:
		return "fixed"
	case ReleaseLinear:
		return "linear"
	default:
		return "unknown"
	}
}

func (t ReleaseType) valid() bool { return t == ReleaseFixed || t == ReleaseLinear }

// Params configures the vault.
type Params struct {
	Address     common.Address
	VaultFee    *big.Int
	Voters      []common.Address
	Threshold   uint64
	MaxVaultFee *big.Int
}

// DefaultMaxVaultFee is one whole unit of an 18-decimal native currency.
var DefaultMaxVaultFee = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// Vault is created once per token.
type Vault struct {
	ID        uint64
	Token     common.Address
	Creator   common.Address
	Fee       *big.Int
	CreatedAt uint64
}

// Beneficiary is a single vesting schedule inside a vault. Times are unix
// seconds.
type Beneficiary struct {
	VaultID     uint64
	Token       common.Address
	Beneficiary common.Address
	Amount      *big.Int
	Released    *big.Int
	StartTime   uint64
	Duration    uint64
	Cliff       uint64
	ReleaseType ReleaseType
}

func (b *Beneficiary) normalize() {
	if b.Amount == nil {
		b.Amount = big.NewInt(0)
	}
	if b.Released == nil {
		b.Released = big.NewInt(0)
	}
}

// BeneficiaryParams are the arguments of AddBeneficiary.
type BeneficiaryParams struct {
	Token       common.Address
	Beneficiary common.Address
	Amount      *big.Int
	StartTime   uint64
	Duration    uint64
	Cliff       uint64
	ReleaseType ReleaseType
}

// Releasable is the amount a schedule has unlocked at now and not yet paid
// out. Linear amounts are floored at every call and the fractional part is
// dropped.
func Releasable(b *Beneficiary, now uint64) *big.Int {
	if b == nil || b.Amount == nil {
		return big.NewInt(0)
	}
	released := b.Released
	if released == nil {
		released = big.NewInt(0)
	}
	remaining := new(big.Int).Sub(b.Amount, released)
	if remaining.Sign() <= 0 || now < b.StartTime {
		return big.NewInt(0)
	}
	elapsed := now - b.StartTime
	switch b.ReleaseType {
	case ReleaseFixed:
		if elapsed < b.Duration {
			return big.NewInt(0)
		}
		return remaining
	case ReleaseLinear:
		if elapsed < b.Cliff {
			return big.NewInt(0)
		}
		if elapsed >= b.Duration {
			return remaining
		}
		vested := new(big.Int).Mul(b.Amount, new(big.Int).SetUint64(elapsed))
		vested.Quo(vested, new(big.Int).SetUint64(b.Duration))
		vested.Sub(vested, released)
		if vested.Sign() < 0 {
			return big.NewInt(0)
		}
		if vested.Cmp(remaining) > 0 {
			return remaining
		}
		return vested
	default:
		return big.NewInt(0)
	}
}

func cloneBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

var (
	feeKey        = []byte("vesting/fee")
	nextVaultKey  = []byte("vesting/nextVault")
	vaultIndexKey = []byte("vesting/index")
)

func vaultKey(token common.Address) []byte {
	return append([]byte("vesting/vault/"), token.Bytes()...)
}

func beneficiaryKey(token, beneficiary common.Address) []byte {
	key := append([]byte("vesting/beneficiary/"), token.Bytes()...)
	return append(key, beneficiary.Bytes()...)
}
