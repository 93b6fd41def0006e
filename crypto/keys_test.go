package crypto

import (
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/stretchr/testify/require"
)

func TestHexRoundTrip(t *testing.T) {
	key, err := GeneratePrivateKey()
	require.NoError(t, err)
	require.Len(t, key.Bytes(), 32)

	path := filepath.Join(t.TempDir(), "keys", "signer.key")
	require.NoError(t, SaveHex(path, key))
	loaded, err := LoadHex(path)
	require.NoError(t, err)
	require.Equal(t, key.Address(), loaded.Address())

	_, err = PrivateKeyFromHex("0xzz")
	require.Error(t, err)
	require.ErrorIs(t, SaveHex(path, nil), errNilKey)
}

func TestKnownAddress(t *testing.T) {
	key, err := PrivateKeyFromHex("4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318")
	require.NoError(t, err)
	require.Equal(t, "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23", key.Address().Hex())
}

func TestKeystoreRoundTrip(t *testing.T) {
	ScryptN, ScryptP = keystore.LightScryptN, keystore.LightScryptP
	t.Cleanup(func() { ScryptN, ScryptP = keystore.StandardScryptN, keystore.StandardScryptP })

	key, err := GeneratePrivateKey()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "signer.json")
	require.NoError(t, SaveToKeystore(path, key, "ghost"))

	loaded, err := LoadFromKeystore(path, "ghost")
	require.NoError(t, err)
	require.Equal(t, key.Address(), loaded.Address())

	recorded, err := KeystoreAddress(path)
	require.NoError(t, err)
	require.Equal(t, key.Address(), recorded)

	_, err = LoadFromKeystore(path, "wrong")
	require.Error(t, err)
}
