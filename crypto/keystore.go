package crypto

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// Scrypt cost used for new keystore files.
var (
	ScryptN = keystore.StandardScryptN
	ScryptP = keystore.StandardScryptP
)

var errEmptyPath = errors.New("crypto: empty keystore path")

// SaveToKeystore encrypts key into a v3 keystore file at path. The file is
// written next to its final name and renamed into place.
func SaveToKeystore(path string, key *PrivateKey, passphrase string) error {
	if key == nil || key.PrivateKey == nil {
		return errNilKey
	}
	if path == "" {
		return errEmptyPath
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return err
	}
	blob, err := keystore.EncryptKey(&keystore.Key{
		Id:         id,
		Address:    key.Address(),
		PrivateKey: key.PrivateKey,
	}, passphrase, ScryptN, ScryptP)
	if err != nil {
		return fmt.Errorf("crypto: encrypt keystore: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// KeystoreAddress reads the address recorded in a keystore file without
// decrypting it.
func KeystoreAddress(path string) (common.Address, error) {
	if path == "" {
		return common.Address{}, errEmptyPath
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return common.Address{}, err
	}
	var header struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(blob, &header); err != nil {
		return common.Address{}, fmt.Errorf("crypto: keystore %s: %w", path, err)
	}
	if !common.IsHexAddress(header.Address) {
		return common.Address{}, fmt.Errorf("crypto: keystore %s has no address", path)
	}
	return common.HexToAddress(header.Address), nil
}

// LoadFromKeystore decrypts a v3 keystore file. A file whose recorded address
// does not match the decrypted key is rejected.
func LoadFromKeystore(path, passphrase string) (*PrivateKey, error) {
	if path == "" {
		return nil, errEmptyPath
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	decrypted, err := keystore.DecryptKey(blob, passphrase)
	if err != nil {
		return nil, err
	}
	key := &PrivateKey{PrivateKey: decrypted.PrivateKey}
	if key.Address() != decrypted.Address {
		return nil, fmt.Errorf("crypto: keystore %s address mismatch", path)
	}
	return key, nil
}
