package common

import (
	ethcommon "github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// NonceStore is the slice of ledger state used to allocate contract addresses.
type NonceStore interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
}

func nonceKey(deployer ethcommon.Address) []byte {
	return append([]byte("contract/nonce/"), deployer.Bytes()...)
}

// DeriveAddress allocates the next contract address for deployer the same way
// CREATE does: keccak256(rlp(deployer, nonce))[12:].
func DeriveAddress(store NonceStore, deployer ethcommon.Address) (ethcommon.Address, error) {
	var nonce uint64
	if _, err := store.KVGet(nonceKey(deployer), &nonce); err != nil {
		return ethcommon.Address{}, err
	}
	addr := ethcrypto.CreateAddress(deployer, nonce)
	if err := store.KVPut(nonceKey(deployer), nonce+1); err != nil {
		return ethcommon.Address{}, err
	}
	return addr, nil
}
