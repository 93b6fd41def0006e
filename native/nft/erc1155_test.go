package nft

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func balance(t *testing.T, env *testEnv, addr, holder common.Address, id *uint256.Int) int64 {
	t.Helper()
	bal, err := env.e.BalanceOf1155(addr, holder, id)
	require.NoError(t, err)
	return bal.Int64()
}

func TestMintGhost1155(t *testing.T) {
	env := newTestEnv(t)
	addr := env.deploy1155(t)
	env.rec.Reset()

	id, err := env.e.MintGhost1155(alice, addr, alice, big.NewInt(10), nil, nil, "ext://1", nil)
	require.NoError(t, err)
	require.Equal(t, uint64(1), id.Uint64())
	require.Equal(t, []string{EventTypeTransferSingle, EventTypeMinted}, eventTypes(env.rec))
	require.Equal(t, "10", env.rec.Typed(EventTypeMinted)[0].Attr("amount"))
	require.Equal(t, int64(10), balance(t, env, addr, alice, id))

	uri, err := env.e.URI(addr, id)
	require.NoError(t, err)
	require.Equal(t, testBaseURI, uri)

	_, err = env.e.MintGhost1155(alice, addr, alice, big.NewInt(0), nil, nil, "x", nil)
	require.ErrorIs(t, err, errNilAmount)
	_, err = env.e.MintGhost1155(alice, addr, common.Address{}, big.NewInt(1), nil, nil, "x", nil)
	require.ErrorIs(t, err, Err1155MintToZero)
	_, err = env.e.MintGhost1155(alice, addr, alice, big.NewInt(1), nil, []Part{{Recipient: bob, Value: 5000}}, "x", nil)
	require.ErrorIs(t, err, ErrRoyaltyTooHigh)

	_, err = env.e.MintGhost721(alice, addr, alice, nil, "x", nil)
	require.ErrorIs(t, err, ErrWrongKind)
}

func TestSafeTransfer1155(t *testing.T) {
	env := newTestEnv(t)
	addr := env.deploy1155(t)
	id, err := env.e.MintGhost1155(alice, addr, alice, big.NewInt(10), nil, nil, "x", nil)
	require.NoError(t, err)

	require.ErrorIs(t, env.e.SafeTransferFrom(bob, addr, alice, bob, id, big.NewInt(1), nil), Err1155NotApproved)
	require.ErrorIs(t, env.e.SafeTransferFrom(alice, addr, alice, bob, id, big.NewInt(11), nil), Err1155InsufficientFunds)
	require.ErrorIs(t, env.e.SafeTransferFrom(alice, addr, alice, common.Address{}, id, big.NewInt(1), nil), Err1155TransferToZero)
	require.NoError(t, env.e.SafeTransferFrom(alice, addr, alice, bob, id, big.NewInt(4), nil))

	require.NoError(t, env.e.SetApprovalForAll(alice, addr, operator, true))
	id2, err := env.e.MintGhost1155(alice, addr, alice, big.NewInt(5), nil, nil, "y", nil)
	require.NoError(t, err)
	require.NoError(t, env.e.SafeBatchTransferFrom(operator, addr, alice, bob,
		[]*uint256.Int{id, id2}, []*big.Int{big.NewInt(1), big.NewInt(5)}, nil))

	bals, err := env.e.BalanceOfBatch(addr, []common.Address{alice, bob, alice, bob}, []*uint256.Int{id, id, id2, id2})
	require.NoError(t, err)
	require.Equal(t, []int64{5, 5, 0, 5}, []int64{bals[0].Int64(), bals[1].Int64(), bals[2].Int64(), bals[3].Int64()})

	batch := env.rec.Typed(EventTypeTransferBatch)
	require.Len(t, batch, 1)
	require.Equal(t, "1,2", batch[0].Attr("ids"))
	require.Equal(t, "1,5", batch[0].Attr("values"))

	_, err = env.e.BalanceOfBatch(addr, []common.Address{alice}, nil)
	require.ErrorIs(t, err, Err1155LengthMismatch)
}

func TestBurnBatch1155(t *testing.T) {
	env := newTestEnv(t)
	addr := env.deploy1155(t)
	id1, err := env.e.MintGhost1155(alice, addr, alice, big.NewInt(20), nil, nil, "a", nil)
	require.NoError(t, err)
	id2, err := env.e.MintGhost1155(alice, addr, alice, big.NewInt(30), nil, nil, "b", nil)
	require.NoError(t, err)

	require.ErrorIs(t, env.e.BurnBatch1155(bob, addr, alice, []*uint256.Int{id1}, []*big.Int{big.NewInt(1)}), Err1155NotApproved)
	require.ErrorIs(t, env.e.Burn1155(alice, addr, alice, id1, big.NewInt(21)), Err1155BurnExceeds)

	require.NoError(t, env.e.BurnBatch1155(alice, addr, alice, []*uint256.Int{id1, id2}, []*big.Int{big.NewInt(20), big.NewInt(10)}))
	require.Equal(t, int64(0), balance(t, env, addr, alice, id1))
	require.Equal(t, int64(20), balance(t, env, addr, alice, id2))
	require.Len(t, env.rec.Typed(EventTypeTransferBatch), 1)
}

func TestLazyBurnThenMintSequence(t *testing.T) {
	env := newTestEnv(t)
	addr := env.deploy1155(t)
	minter := env.minter
	id := LazyTokenID(minter, 1)
	voucher := Mint1155{TokenID: id, TokenURI: "lazy", Amount: big.NewInt(5), Minter: minter}

	require.NoError(t, env.e.Burn1155(minter, addr, minter, id, big.NewInt(2)))
	lazy := env.rec.Typed(EventTypeBurnLazy)
	require.Len(t, lazy, 1)
	require.Equal(t, "2", lazy[0].Attr("amount"))
	require.Empty(t, env.rec.Typed(EventTypeTransferSingle))

	// Never redeemed: the burn is counted as minted before any total exists.
	supply, err := env.e.Supply(addr, id)
	require.NoError(t, err)
	require.Zero(t, supply.TotalSupply.Sign())
	require.Equal(t, int64(2), supply.MintedSupply.Int64())

	require.NoError(t, env.e.MintAndTransfer1155(minter, addr, voucher, alice, big.NewInt(2)))
	require.Equal(t, int64(2), balance(t, env, addr, alice, id))
	supply, err = env.e.Supply(addr, id)
	require.NoError(t, err)
	require.Equal(t, int64(5), supply.TotalSupply.Int64())
	require.Equal(t, int64(4), supply.MintedSupply.Int64())

	require.NoError(t, env.e.Burn1155(alice, addr, alice, id, big.NewInt(1)))
	require.NoError(t, env.e.Burn1155(alice, addr, alice, id, big.NewInt(1)))
	supply, _ = env.e.Supply(addr, id)
	require.Equal(t, int64(4), supply.MintedSupply.Int64())

	signed, err := Sign1155(env.minterKey, env.e.ChainID(), addr, voucher)
	require.NoError(t, err)
	require.NoError(t, env.e.SetApprovalForAll(minter, addr, operator, true))
	require.ErrorIs(t, env.e.MintAndTransfer1155(operator, addr, signed, minter, big.NewInt(2)), ErrExceedsSupply)
	require.NoError(t, env.e.MintAndTransfer1155(operator, addr, signed, minter, big.NewInt(1)))
	require.Equal(t, int64(1), balance(t, env, addr, minter, id))

	require.NoError(t, env.e.Burn1155(minter, addr, minter, id, big.NewInt(1)))
	require.Equal(t, int64(0), balance(t, env, addr, minter, id))
	require.Len(t, env.rec.Typed(EventTypeBurnLazy), 1)
}
