package token

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	nativecommon "ghostledger/native/common"
)

// MaxTransferFeeBps caps the burn applied by fee-on-transfer tokens.
const MaxTransferFeeBps = 10_000

// Token is the stored metadata of a fungible token contract.
type Token struct {
	Address        common.Address
	Name           string
	Symbol         string
	Decimals       uint8
	TotalSupply    *big.Int
	TransferFeeBps uint64
	Control        nativecommon.Control
}

// Clone returns a deep copy of the token.
func (t *Token) Clone() *Token {
	if t == nil {
		return nil
	}
	clone := *t
	clone.TotalSupply = cloneBigInt(t.TotalSupply)
	return &clone
}

// FeeOnTransfer reports whether transfers of the token burn part of the amount.
func (t *Token) FeeOnTransfer() bool { return t != nil && t.TransferFeeBps > 0 }

// Params describes a token deployment.
type Params struct {
	Name           string
	Symbol         string
	Decimals       uint8
	InitialSupply  *big.Int
	TransferFeeBps uint64
}

// Sanitize trims the textual fields and validates the rest.
func (p Params) Sanitize() (Params, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Symbol = strings.TrimSpace(p.Symbol)
	if p.Name == "" || p.Symbol == "" {
		return p, errInvalidMetadata
	}
	if p.InitialSupply == nil {
		p.InitialSupply = big.NewInt(0)
	}
	if p.InitialSupply.Sign() < 0 {
		return p, ErrInvalidAmount
	}
	if p.TransferFeeBps >= MaxTransferFeeBps {
		return p, errInvalidFee
	}
	p.InitialSupply = new(big.Int).Set(p.InitialSupply)
	return p, nil
}

func cloneBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

func tokenKey(addr common.Address) []byte {
	return append([]byte("token/meta/"), addr.Bytes()...)
}

func balanceKey(token, holder common.Address) []byte {
	key := append([]byte("token/balance/"), token.Bytes()...)
	return append(key, holder.Bytes()...)
}

func allowanceKey(token, owner, spender common.Address) []byte {
	key := append([]byte("token/allowance/"), token.Bytes()...)
	key = append(key, owner.Bytes()...)
	return append(key, spender.Bytes()...)
}

func nativeKey(holder common.Address) []byte {
	return append([]byte("native/balance/"), holder.Bytes()...)
}

var tokenIndexKey = []byte("token/index")
