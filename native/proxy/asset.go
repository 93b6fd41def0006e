package proxy

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"ghostledger/native/nft"
)

var (
	partComponents = []abi.ArgumentMarshaling{
		{Name: "recipient", Type: "address"},
		{Name: "value", Type: "uint256"},
	}
	mint721Args  = lazyArgs(false)
	mint1155Args = lazyArgs(true)
)

// lazyArgs builds the (address collection, MintData data) argument list.
func lazyArgs(withAmount bool) abi.Arguments {
	components := []abi.ArgumentMarshaling{
		{Name: "tokenId", Type: "uint256"},
		{Name: "tokenURI", Type: "string"},
	}
	if withAmount {
		components = append(components, abi.ArgumentMarshaling{Name: "amount", Type: "uint256"})
	}
	components = append(components,
		abi.ArgumentMarshaling{Name: "minter", Type: "address"},
		abi.ArgumentMarshaling{Name: "royalties", Type: "tuple[]", Components: partComponents},
		abi.ArgumentMarshaling{Name: "signature", Type: "bytes"},
	)
	addressTy, err := abi.NewType("address", "", nil)
	if err != nil {
		panic(err)
	}
	tupleTy, err := abi.NewType("tuple", "", components)
	if err != nil {
		panic(err)
	}
	return abi.Arguments{{Name: "collection", Type: addressTy}, {Name: "data", Type: tupleTy}}
}

type abiPart struct {
	Recipient common.Address
	Value     *big.Int
}

type abiMint721 struct {
	TokenId   *big.Int
	TokenURI  string
	Minter    common.Address
	Royalties []abiPart
	Signature []byte
}

type abiMint1155 struct {
	TokenId   *big.Int
	TokenURI  string
	Amount    *big.Int
	Minter    common.Address
	Royalties []abiPart
	Signature []byte
}

func toABIParts(parts []nft.Part) []abiPart {
	out := make([]abiPart, len(parts))
	for i, p := range parts {
		out[i] = abiPart{Recipient: p.Recipient, Value: new(big.Int).SetUint64(p.Value)}
	}
	return out
}

func fromABIParts(parts []abiPart) ([]nft.Part, error) {
	if len(parts) == 0 {
		return nil, nil
	}
	out := make([]nft.Part, len(parts))
	for i, p := range parts {
		if p.Value == nil || !p.Value.IsUint64() {
			return nil, fmt.Errorf("%w: royalty value out of range", ErrMalformedAsset)
		}
		out[i] = nft.Part{Recipient: p.Recipient, Value: p.Value.Uint64()}
	}
	return out, nil
}

func tokenID(v *big.Int) (*uint256.Int, error) {
	id, overflow := uint256.FromBig(v)
	if overflow {
		return nil, fmt.Errorf("%w: token id overflows uint256", ErrMalformedAsset)
	}
	return id, nil
}

// EncodeLazy721 builds the asset data for an ERC721 voucher.
func EncodeLazy721(collection common.Address, v nft.Mint721) ([]byte, error) {
	if v.TokenID == nil {
		return nil, fmt.Errorf("%w: token id required", ErrMalformedAsset)
	}
	return mint721Args.Pack(collection, abiMint721{
		TokenId:   v.TokenID.ToBig(),
		TokenURI:  v.TokenURI,
		Minter:    v.Minter,
		Royalties: toABIParts(v.Royalties),
		Signature: append([]byte{}, v.Signature...),
	})
}

// EncodeLazy1155 builds the asset data for an ERC1155 voucher.
func EncodeLazy1155(collection common.Address, v nft.Mint1155) ([]byte, error) {
	if v.TokenID == nil || v.Amount == nil {
		return nil, fmt.Errorf("%w: token id and amount required", ErrMalformedAsset)
	}
	return mint1155Args.Pack(collection, abiMint1155{
		TokenId:   v.TokenID.ToBig(),
		TokenURI:  v.TokenURI,
		Amount:    new(big.Int).Set(v.Amount),
		Minter:    v.Minter,
		Royalties: toABIParts(v.Royalties),
		Signature: append([]byte{}, v.Signature...),
	})
}

func unpackLazy(args abi.Arguments, data []byte, out interface{}) (common.Address, error) {
	values, err := args.Unpack(data)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrMalformedAsset, err)
	}
	if len(values) != 2 {
		return common.Address{}, ErrMalformedAsset
	}
	collection, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, ErrMalformedAsset
	}
	converted := abi.ConvertType(values[1], out)
	if converted == nil {
		return common.Address{}, ErrMalformedAsset
	}
	return collection, nil
}

// DecodeLazy721 reverses EncodeLazy721.
func DecodeLazy721(data []byte) (common.Address, nft.Mint721, error) {
	var raw abiMint721
	collection, err := unpackLazy(mint721Args, data, &raw)
	if err != nil {
		return common.Address{}, nft.Mint721{}, err
	}
	id, err := tokenID(raw.TokenId)
	if err != nil {
		return common.Address{}, nft.Mint721{}, err
	}
	royalties, err := fromABIParts(raw.Royalties)
	if err != nil {
		return common.Address{}, nft.Mint721{}, err
	}
	return collection, nft.Mint721{
		TokenID:   id,
		TokenURI:  raw.TokenURI,
		Minter:    raw.Minter,
		Royalties: royalties,
		Signature: raw.Signature,
	}, nil
}

// DecodeLazy1155 reverses EncodeLazy1155.
func DecodeLazy1155(data []byte) (common.Address, nft.Mint1155, error) {
	var raw abiMint1155
	collection, err := unpackLazy(mint1155Args, data, &raw)
	if err != nil {
		return common.Address{}, nft.Mint1155{}, err
	}
	id, err := tokenID(raw.TokenId)
	if err != nil {
		return common.Address{}, nft.Mint1155{}, err
	}
	royalties, err := fromABIParts(raw.Royalties)
	if err != nil {
		return common.Address{}, nft.Mint1155{}, err
	}
	return collection, nft.Mint1155{
		TokenID:   id,
		TokenURI:  raw.TokenURI,
		Amount:    raw.Amount,
		Minter:    raw.Minter,
		Royalties: royalties,
		Signature: raw.Signature,
	}, nil
}

// EncodeLazyAsset wraps a voucher into an exchange asset of value units.
// v must be an nft.Mint721 or nft.Mint1155.
func EncodeLazyAsset(collection common.Address, v interface{}, value *big.Int) (Asset, error) {
	var (
		class [4]byte
		data  []byte
		err   error
	)
	switch voucher := v.(type) {
	case nft.Mint721:
		class = ERC721LazyClass
		data, err = EncodeLazy721(collection, voucher)
	case nft.Mint1155:
		class = ERC1155LazyClass
		data, err = EncodeLazy1155(collection, voucher)
	default:
		return Asset{}, fmt.Errorf("%w: unsupported voucher %T", ErrMalformedAsset, v)
	}
	if err != nil {
		return Asset{}, err
	}
	if value == nil {
		value = big.NewInt(1)
	}
	return Asset{AssetType: AssetType{AssetClass: class, Data: data}, Value: new(big.Int).Set(value)}, nil
}

// DecodeLazyAsset returns the collection and the voucher carried by asset,
// typed as nft.Mint721 or nft.Mint1155 according to its class.
func DecodeLazyAsset(asset Asset) (common.Address, interface{}, error) {
	switch asset.AssetType.AssetClass {
	case ERC721LazyClass:
		return DecodeLazy721(asset.AssetType.Data)
	case ERC1155LazyClass:
		return DecodeLazy1155(asset.AssetType.Data)
	}
	return common.Address{}, nil, ErrWrongAssetClass
}
