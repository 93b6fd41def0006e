package nft

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

const (
	domainName721  = "Mint721"
	domainName1155 = "Mint1155"
	domainVersion  = "1"
)

var (
	domainType = []apitypes.Type{
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	}
	partType = []apitypes.Type{
		{Name: "recipient", Type: "address"},
		{Name: "value", Type: "uint256"},
	}
	mint721Type = []apitypes.Type{
		{Name: "tokenId", Type: "uint256"},
		{Name: "tokenURI", Type: "string"},
		{Name: "minter", Type: "address"},
		{Name: "royalties", Type: "Part[]"},
	}
	mint1155Type = []apitypes.Type{
		{Name: "tokenId", Type: "uint256"},
		{Name: "tokenURI", Type: "string"},
		{Name: "amount", Type: "uint256"},
		{Name: "minter", Type: "address"},
		{Name: "royalties", Type: "Part[]"},
	}
)

func domain(name string, chainID uint64, verifyingContract common.Address) apitypes.TypedDataDomain {
	return apitypes.TypedDataDomain{
		Name:              name,
		Version:           domainVersion,
		ChainId:           (*math.HexOrDecimal256)(new(big.Int).SetUint64(chainID)),
		VerifyingContract: verifyingContract.Hex(),
	}
}

func partsMessage(parts []Part) []interface{} {
	out := make([]interface{}, 0, len(parts))
	for _, p := range parts {
		out = append(out, map[string]interface{}{
			"recipient": p.Recipient.Hex(),
			"value":     strconv.FormatUint(p.Value, 10),
		})
	}
	return out
}

// TypedData721 builds the EIP-712 payload signed by an ERC721 minter.
func TypedData721(chainID uint64, collection common.Address, v Mint721) (apitypes.TypedData, error) {
	if v.TokenID == nil {
		return apitypes.TypedData{}, errNilTokenID
	}
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": domainType,
			"Part":         partType,
			"Mint721":      mint721Type,
		},
		PrimaryType: "Mint721",
		Domain:      domain(domainName721, chainID, collection),
		Message: apitypes.TypedDataMessage{
			"tokenId":   v.TokenID.Dec(),
			"tokenURI":  v.TokenURI,
			"minter":    v.Minter.Hex(),
			"royalties": partsMessage(v.Royalties),
		},
	}, nil
}

// TypedData1155 builds the EIP-712 payload signed by an ERC1155 minter.
func TypedData1155(chainID uint64, collection common.Address, v Mint1155) (apitypes.TypedData, error) {
	if v.TokenID == nil {
		return apitypes.TypedData{}, errNilTokenID
	}
	if v.Amount == nil || v.Amount.Sign() < 0 {
		return apitypes.TypedData{}, ErrAmountIncorrect
	}
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": domainType,
			"Part":         partType,
			"Mint1155":     mint1155Type,
		},
		PrimaryType: "Mint1155",
		Domain:      domain(domainName1155, chainID, collection),
		Message: apitypes.TypedDataMessage{
			"tokenId":   v.TokenID.Dec(),
			"tokenURI":  v.TokenURI,
			"amount":    v.Amount.String(),
			"minter":    v.Minter.Hex(),
			"royalties": partsMessage(v.Royalties),
		},
	}, nil
}

func digest(td apitypes.TypedData, err error) (common.Hash, error) {
	if err != nil {
		return common.Hash{}, err
	}
	hash, _, err := apitypes.TypedDataAndHash(td)
	if err != nil {
		return common.Hash{}, fmt.Errorf("nft: eip712 hash: %w", err)
	}
	return common.BytesToHash(hash), nil
}

// Hash721 returns the EIP-712 digest of an ERC721 voucher. The signature
// field is not part of the digest.
func Hash721(chainID uint64, collection common.Address, v Mint721) (common.Hash, error) {
	return digest(TypedData721(chainID, collection, v))
}

// Hash1155 returns the EIP-712 digest of an ERC1155 voucher.
func Hash1155(chainID uint64, collection common.Address, v Mint1155) (common.Hash, error) {
	return digest(TypedData1155(chainID, collection, v))
}

// SignDigest produces a 65-byte [R || S || V] signature with V in {27, 28},
// the form wallets return for eth_signTypedData.
func SignDigest(key *ecdsa.PrivateKey, hash common.Hash) ([]byte, error) {
	sig, err := ethcrypto.Sign(hash.Bytes(), key)
	if err != nil {
		return nil, err
	}
	sig[64] += 27
	return sig, nil
}

// Sign721 signs v for collection and returns it with the signature set.
func Sign721(key *ecdsa.PrivateKey, chainID uint64, collection common.Address, v Mint721) (Mint721, error) {
	hash, err := Hash721(chainID, collection, v)
	if err != nil {
		return v, err
	}
	sig, err := SignDigest(key, hash)
	if err != nil {
		return v, err
	}
	v.Signature = sig
	return v, nil
}

// Sign1155 signs v for collection and returns it with the signature set.
func Sign1155(key *ecdsa.PrivateKey, chainID uint64, collection common.Address, v Mint1155) (Mint1155, error) {
	hash, err := Hash1155(chainID, collection, v)
	if err != nil {
		return v, err
	}
	sig, err := SignDigest(key, hash)
	if err != nil {
		return v, err
	}
	v.Signature = sig
	return v, nil
}
