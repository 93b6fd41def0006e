package main

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"ghostledger/native/nft"
	"ghostledger/observability/logging"
)

type royaltyJSON struct {
	Recipient string `json:"recipient"`
	Bps       uint64 `json:"bps"`
}

// voucherJSON is the signed voucher as handed to a redeemer.
type voucherJSON struct {
	Kind       string        `json:"kind"`
	ChainID    uint64        `json:"chainId"`
	Collection string        `json:"collection"`
	TokenID    string        `json:"tokenId"`
	TokenURI   string        `json:"tokenURI"`
	Supply     string        `json:"supply,omitempty"`
	Minter     string        `json:"minter"`
	Royalties  []royaltyJSON `json:"royalties"`
	Digest     string        `json:"digest"`
	Signature  string        `json:"signature"`
}

type voucherFlags struct {
	keyPath      string
	keystorePath string
	kind         string
	chainID      uint64
	collection   string
	tokenID      string
	suffix       uint64
	uri          string
	supply       string
	royalties    []string
}

func voucherCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voucher",
		Short: "Lazy-mint voucher tools",
	}
	cmd.AddCommand(voucherSignCommand())
	return cmd
}

func voucherSignCommand() *cobra.Command {
	var f voucherFlags
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign an EIP-712 lazy-mint voucher",
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := loadKey(f.keyPath, f.keystorePath)
			if err != nil {
				return err
			}
			out, err := signVoucher(f, key.PrivateKey)
			if err != nil {
				return err
			}
			commandLogger(cmd).Info("voucher signed",
				logging.MaskField("signer", out.Minter),
				logging.MaskField("contract", out.Collection),
				logging.MaskField("digest", out.Digest),
				logging.MaskField("signature", out.Signature))
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVar(&f.keyPath, "key", "", "hex key file of the minter")
	cmd.Flags().StringVar(&f.keystorePath, "keystore", "", "keystore file of the minter")
	cmd.Flags().StringVar(&f.kind, "kind", "721", "collection kind: 721 or 1155")
	cmd.Flags().Uint64Var(&f.chainID, "chain-id", 1, "chain id bound into the signature")
	cmd.Flags().StringVar(&f.collection, "collection", "", "collection address")
	cmd.Flags().StringVar(&f.tokenID, "token-id", "", "token id; defaults to the minter-prefixed id built from --suffix")
	cmd.Flags().Uint64Var(&f.suffix, "suffix", 1, "low 96 bits of the minter-prefixed token id")
	cmd.Flags().StringVar(&f.uri, "uri", "", "token URI")
	cmd.Flags().StringVar(&f.supply, "supply", "", "total supply of an ERC1155 id")
	cmd.Flags().StringArrayVar(&f.royalties, "royalty", nil, "royalty as recipient:bps, repeatable")
	return cmd
}

func signVoucher(f voucherFlags, key *ecdsa.PrivateKey) (*voucherJSON, error) {
	minter := ethcrypto.PubkeyToAddress(key.PublicKey)
	if !common.IsHexAddress(f.collection) {
		return nil, fmt.Errorf("--collection: %q is not an address", f.collection)
	}
	collection := common.HexToAddress(f.collection)
	if strings.TrimSpace(f.uri) == "" {
		return nil, nft.ErrEmptyTokenURI
	}
	id := nft.LazyTokenID(minter, f.suffix)
	if f.tokenID != "" {
		parsed, err := uint256.FromDecimal(f.tokenID)
		if err != nil {
			return nil, fmt.Errorf("--token-id: %w", err)
		}
		id = parsed
	}
	parts, err := parseRoyalties(f.royalties)
	if err != nil {
		return nil, err
	}

	out := &voucherJSON{
		ChainID:    f.chainID,
		Collection: collection.Hex(),
		TokenID:    id.Dec(),
		TokenURI:   f.uri,
		Minter:     minter.Hex(),
		Royalties:  make([]royaltyJSON, len(parts)),
	}
	for i, p := range parts {
		out.Royalties[i] = royaltyJSON{Recipient: p.Recipient.Hex(), Bps: p.Value}
	}

	var (
		hash common.Hash
		sig  []byte
	)
	switch f.kind {
	case "721":
		v := nft.Mint721{TokenID: id, TokenURI: f.uri, Minter: minter, Royalties: parts}
		if v, err = nft.Sign721(key, f.chainID, collection, v); err != nil {
			return nil, err
		}
		out.Kind = nft.KindERC721.String()
		sig = v.Signature
		hash, err = nft.Hash721(f.chainID, collection, v)
	case "1155":
		supply, ok := new(big.Int).SetString(f.supply, 10)
		if !ok || supply.Sign() <= 0 {
			return nil, fmt.Errorf("--supply: %q is not a positive integer", f.supply)
		}
		v := nft.Mint1155{TokenID: id, TokenURI: f.uri, Amount: supply, Minter: minter, Royalties: parts}
		if v, err = nft.Sign1155(key, f.chainID, collection, v); err != nil {
			return nil, err
		}
		out.Kind = nft.KindERC1155.String()
		out.Supply = supply.String()
		sig = v.Signature
		hash, err = nft.Hash1155(f.chainID, collection, v)
	default:
		return nil, fmt.Errorf("--kind: %q is not 721 or 1155", f.kind)
	}
	if err != nil {
		return nil, err
	}
	out.Digest = hash.Hex()
	out.Signature = hexutil.Encode(sig)
	return out, nil
}

func parseRoyalties(values []string) ([]nft.Part, error) {
	parts := make([]nft.Part, 0, len(values))
	for _, v := range values {
		recipient, bps, ok := strings.Cut(v, ":")
		if !ok || !common.IsHexAddress(recipient) {
			return nil, fmt.Errorf("--royalty: %q is not recipient:bps", v)
		}
		value, err := strconv.ParseUint(bps, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("--royalty: %q: %w", v, err)
		}
		parts = append(parts, nft.Part{Recipient: common.HexToAddress(recipient), Value: value})
	}
	return parts, nil
}
