package nft

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// ERC1271MagicValue is returned by a contract signer that accepts a signature.
var ERC1271MagicValue = [4]byte{0x16, 0x26, 0xba, 0x7e}

// SignatureValidator is the contract-signer entry point (ERC-1271).
type SignatureValidator interface {
	IsValidSignature(hash common.Hash, signature []byte) [4]byte
}

// RegisterContractSigner marks addr as a contract account whose signatures
// are checked by v instead of ECDSA recovery. A nil v unregisters it.
func (e *Engine) RegisterContractSigner(addr common.Address, v SignatureValidator) {
	if v == nil {
		delete(e.validators, addr)
		return
	}
	e.validators[addr] = v
}

// IsContractSigner reports whether addr has a registered validator.
func (e *Engine) IsContractSigner(addr common.Address) bool {
	_, ok := e.validators[addr]
	return ok
}

// RecoverSigner returns the address that produced sig over hash. V may be
// 0/1 or 27/28.
func RecoverSigner(hash common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != 65 {
		return common.Address{}, ErrSignatureInvalid
	}
	normalized := append([]byte(nil), sig...)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}
	if normalized[64] > 1 {
		return common.Address{}, ErrSignatureInvalid
	}
	pub, err := ethcrypto.SigToPub(hash.Bytes(), normalized)
	if err != nil {
		return common.Address{}, ErrSignatureInvalid
	}
	return ethcrypto.PubkeyToAddress(*pub), nil
}

// verify checks that signer authorized hash. Contract signers are asked
// through their validator; every other address goes through ECDSA recovery.
func (e *Engine) verify(signer common.Address, hash common.Hash, sig []byte) error {
	if v, ok := e.validators[signer]; ok {
		magic := v.IsValidSignature(hash, sig)
		if !bytes.Equal(magic[:], ERC1271MagicValue[:]) {
			return ErrSignatureInvalid
		}
		return nil
	}
	recovered, err := RecoverSigner(hash, sig)
	if err != nil {
		return err
	}
	if recovered != signer {
		return ErrSignatureInvalid
	}
	return nil
}

// Validate721 checks the voucher signature against its minter.
func (e *Engine) Validate721(collection common.Address, v Mint721) error {
	hash, err := Hash721(e.chainID, collection, v)
	if err != nil {
		return err
	}
	return e.verify(v.Minter, hash, v.Signature)
}

// Validate1155 checks the voucher signature against its minter.
func (e *Engine) Validate1155(collection common.Address, v Mint1155) error {
	hash, err := Hash1155(e.chainID, collection, v)
	if err != nil {
		return err
	}
	return e.verify(v.Minter, hash, v.Signature)
}

// authorizeMint applies the caller rules shared by both voucher kinds: the
// caller must be the minter or one of its approved operators, and only a
// minter calling for itself may skip the signature.
func (e *Engine) authorizeMint(c *Collection, caller, minter common.Address, validate func() error) error {
	if minter == (common.Address{}) {
		return errZeroMinter
	}
	if caller == minter {
		return nil
	}
	approved, err := e.isApprovedForAll(c, minter, caller)
	if err != nil {
		return err
	}
	if !approved {
		return ErrMintNotApproved
	}
	return validate()
}
