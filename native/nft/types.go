package nft

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	nativecommon "ghostledger/native/common"
)

// Kind distinguishes the two token standards a collection can follow.
type Kind uint8

const (
	KindERC721  Kind = 1
	KindERC1155 Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindERC721:
		return "ERC721"
	case KindERC1155:
		return "ERC1155"
	default:
		return "unknown"
	}
}

const (
	// MaxRoyaltyBps is the exclusive upper bound for the royalty total of a token.
	MaxRoyaltyBps = 5000
	// MaxLockedContentBytes bounds the locked content attached at mint.
	MaxLockedContentBytes = 200
)

// Interface identifiers advertised through SupportsInterface.
var (
	InterfaceERC165             = [4]byte{0x01, 0xff, 0xc9, 0xa7}
	InterfaceERC721             = [4]byte{0x80, 0xac, 0x58, 0xcd}
	InterfaceERC721Metadata     = [4]byte{0x5b, 0x5e, 0x13, 0x9f}
	InterfaceERC721Enumerable   = [4]byte{0x78, 0x0e, 0x9d, 0x63}
	InterfaceERC1155            = [4]byte{0xd9, 0xb6, 0x7a, 0x26}
	InterfaceERC1155MetadataURI = [4]byte{0x0e, 0x89, 0x34, 0x1c}
	InterfaceRoyalties          = [4]byte{0xe4, 0x20, 0x93, 0xa6}
)

// Collection is the stored record of an NFT contract.
type Collection struct {
	Address          common.Address
	Kind             Kind
	Name             string
	Symbol           string
	BaseURI          string
	Counter          uint64
	DefaultApprovals []common.Address
	Control          nativecommon.Control
}

// Clone returns a deep copy of the collection.
func (c *Collection) Clone() *Collection {
	if c == nil {
		return nil
	}
	clone := *c
	clone.DefaultApprovals = append([]common.Address(nil), c.DefaultApprovals...)
	return &clone
}

func (c *Collection) defaultApproved(operator common.Address) bool {
	for _, addr := range c.DefaultApprovals {
		if addr == operator {
			return true
		}
	}
	return false
}

// CollectionParams describes a collection deployment.
type CollectionParams struct {
	Name    string
	Symbol  string
	BaseURI string
	// DefaultApprovals are operators every holder implicitly approves, such as
	// the lazy-mint transfer proxies.
	DefaultApprovals []common.Address
}

// Part is a royalty share in basis points.
type Part struct {
	Recipient common.Address
	Value     uint64
}

// TokenMeta is attached to a token id when it is first minted.
type TokenMeta struct {
	URI         string
	ExternalURI string
	Creator     common.Address
	Royalties   []Part
	Lazy        bool
}

// SupplyEntry tracks lazily minted ERC1155 quantities.
type SupplyEntry struct {
	TotalSupply  *big.Int
	MintedSupply *big.Int
}

func (s *SupplyEntry) normalize() {
	if s.TotalSupply == nil {
		s.TotalSupply = big.NewInt(0)
	}
	if s.MintedSupply == nil {
		s.MintedSupply = big.NewInt(0)
	}
}

// Mint721 is an off-chain signed authorization to lazily mint one ERC721 token.
type Mint721 struct {
	TokenID   *uint256.Int
	TokenURI  string
	Minter    common.Address
	Royalties []Part
	Signature []byte
}

// Mint1155 authorizes lazily minting up to Amount units of an ERC1155 token.
type Mint1155 struct {
	TokenID   *uint256.Int
	TokenURI  string
	Amount    *big.Int
	Minter    common.Address
	Royalties []Part
	Signature []byte
}

// LazyTokenID packs the minter into the top 160 bits of a token id.
func LazyTokenID(minter common.Address, suffix uint64) *uint256.Int {
	id := new(uint256.Int).SetBytes(minter.Bytes())
	id.Lsh(id, 96)
	return id.Or(id, uint256.NewInt(suffix))
}

// MinterOf extracts the creator address encoded in a lazy token id.
func MinterOf(id *uint256.Int) common.Address {
	if id == nil {
		return common.Address{}
	}
	shifted := new(uint256.Int).Rsh(id, 96)
	return common.Address(shifted.Bytes20())
}

func cloneBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

func cloneParts(parts []Part) []Part {
	if len(parts) == 0 {
		return nil
	}
	return append([]Part(nil), parts...)
}
