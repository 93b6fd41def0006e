package proxy

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	nativecommon "ghostledger/native/common"
)

// Kind selects which lazy asset a proxy forwards.
type Kind uint8

const (
	KindERC721Lazy  Kind = 1
	KindERC1155Lazy Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindERC721Lazy:
		return "ERC721_LAZY"
	case KindERC1155Lazy:
		return "ERC1155_LAZY"
	default:
		return "unknown"
	}
}

// AssetClass returns bytes4(keccak256(kind name)).
func (k Kind) AssetClass() [4]byte {
	var class [4]byte
	copy(class[:], ethcrypto.Keccak256([]byte(k.String())))
	return class
}

var (
	ERC721LazyClass  = KindERC721Lazy.AssetClass()
	ERC1155LazyClass = KindERC1155Lazy.AssetClass()
)

// Proxy is the stored record of a lazy-mint transfer proxy.
type Proxy struct {
	Address   common.Address
	Kind      Kind
	Operators []common.Address
	Control   nativecommon.Control
}

func (p *Proxy) isOperator(addr common.Address) bool {
	for _, op := range p.Operators {
		if op == addr {
			return true
		}
	}
	return false
}

// AssetType identifies an asset by class and class-specific payload.
type AssetType struct {
	AssetClass [4]byte
	Data       []byte
}

// Asset is an exchange-side asset reference.
type Asset struct {
	AssetType AssetType
	Value     *big.Int
}
