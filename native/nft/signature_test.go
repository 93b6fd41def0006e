package nft

import (
	"math/big"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestValidate721(t *testing.T) {
	env := newTestEnv(t)
	addr := env.deploy721(t)
	voucher, err := Sign721(env.minterKey, 1, addr, Mint721{
		TokenID:   LazyTokenID(env.minter, 1),
		TokenURI:  "uri",
		Minter:    env.minter,
		Royalties: []Part{{Recipient: bob, Value: 100}},
	})
	require.NoError(t, err)
	require.Len(t, voucher.Signature, 65)
	require.Contains(t, []byte{27, 28}, voucher.Signature[64])
	require.NoError(t, env.e.Validate721(addr, voucher))

	// V in {0, 1} is accepted as well.
	low := voucher
	low.Signature = append([]byte(nil), voucher.Signature...)
	low.Signature[64] -= 27
	require.NoError(t, env.e.Validate721(addr, low))

	otherAddr := env.deploy721(t)
	require.ErrorIs(t, env.e.Validate721(otherAddr, voucher), ErrSignatureInvalid)

	env.e.SetChainID(5)
	require.ErrorIs(t, env.e.Validate721(addr, voucher), ErrSignatureInvalid)
	env.e.SetChainID(1)

	wrongMinter := voucher
	wrongMinter.Minter = alice
	require.ErrorIs(t, env.e.Validate721(addr, wrongMinter), ErrSignatureInvalid)

	otherID := voucher
	otherID.TokenID = LazyTokenID(env.minter, 2)
	require.ErrorIs(t, env.e.Validate721(addr, otherID), ErrSignatureInvalid)

	empty := voucher
	empty.Signature = nil
	require.ErrorIs(t, env.e.Validate721(addr, empty), ErrSignatureInvalid)
}

func TestValidate1155(t *testing.T) {
	env := newTestEnv(t)
	addr := env.deploy1155(t)
	voucher, err := Sign1155(env.minterKey, 1, addr, Mint1155{
		TokenID:  LazyTokenID(env.minter, 1),
		TokenURI: "uri",
		Amount:   big.NewInt(5),
		Minter:   env.minter,
	})
	require.NoError(t, err)
	require.NoError(t, env.e.Validate1155(addr, voucher))

	more := voucher
	more.Amount = big.NewInt(6)
	require.ErrorIs(t, env.e.Validate1155(addr, more), ErrSignatureInvalid)

	otherID := voucher
	otherID.TokenID = LazyTokenID(env.minter, 2)
	require.ErrorIs(t, env.e.Validate1155(addr, otherID), ErrSignatureInvalid)

	otherURI := voucher
	otherURI.TokenURI = "uri2"
	require.ErrorIs(t, env.e.Validate1155(addr, otherURI), ErrSignatureInvalid)

	withRoyalty := voucher
	withRoyalty.Royalties = []Part{{Recipient: bob, Value: 100}}
	require.ErrorIs(t, env.e.Validate1155(addr, withRoyalty), ErrSignatureInvalid)

	h721, err := Hash721(1, addr, Mint721{TokenID: voucher.TokenID, TokenURI: "uri", Minter: env.minter})
	require.NoError(t, err)
	h1155, err := Hash1155(1, addr, voucher)
	require.NoError(t, err)
	require.NotEqual(t, h721, h1155)
}

func TestRecoverSigner(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	hash := ethcrypto.Keccak256Hash([]byte("voucher"))
	sig, err := SignDigest(key, hash)
	require.NoError(t, err)

	got, err := RecoverSigner(hash, sig)
	require.NoError(t, err)
	require.Equal(t, ethcrypto.PubkeyToAddress(key.PublicKey), got)

	_, err = RecoverSigner(hash, sig[:64])
	require.ErrorIs(t, err, ErrSignatureInvalid)
	bad := append([]byte(nil), sig...)
	bad[64] = 30
	_, err = RecoverSigner(hash, bad)
	require.ErrorIs(t, err, ErrSignatureInvalid)
}
