package nft

import (
	"crypto/ecdsa"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"ghostledger/core/events"
	"ghostledger/core/exec"
	"ghostledger/core/state"
	nativecommon "ghostledger/native/common"
	"ghostledger/storage"
)

const testBaseURI = "https://api.ghostmarket.io/metadata/"

var (
	owner    = common.HexToAddress("0x1000000000000000000000000000000000000001")
	alice    = common.HexToAddress("0x2000000000000000000000000000000000000002")
	bob      = common.HexToAddress("0x3000000000000000000000000000000000000003")
	operator = common.HexToAddress("0x4000000000000000000000000000000000000004")
)

type testEnv struct {
	e         *Engine
	rec       *events.Recorder
	minterKey *ecdsa.PrivateKey
	minter    common.Address
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := state.NewManager(storage.NewMemDB())
	rec := &events.Recorder{}
	x := exec.New(st, rec)
	e := NewEngine()
	e.SetState(st)
	e.SetEmitter(x)
	e.SetRunner(x)
	key, err := ethcrypto.HexToECDSA("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	require.NoError(t, err)
	return &testEnv{e: e, rec: rec, minterKey: key, minter: ethcrypto.PubkeyToAddress(key.PublicKey)}
}

func (env *testEnv) deploy721(t *testing.T, approvals ...common.Address) common.Address {
	t.Helper()
	addr, err := env.e.Deploy721(owner, CollectionParams{
		Name:             "GhostMarket",
		Symbol:           "GHOST",
		BaseURI:          testBaseURI,
		DefaultApprovals: approvals,
	})
	require.NoError(t, err)
	return addr
}

func (env *testEnv) deploy1155(t *testing.T, approvals ...common.Address) common.Address {
	t.Helper()
	addr, err := env.e.Deploy1155(owner, CollectionParams{
		Name:             "GhostMarket",
		Symbol:           "GHOST",
		BaseURI:          testBaseURI,
		DefaultApprovals: approvals,
	})
	require.NoError(t, err)
	return addr
}

func eventTypes(rec *events.Recorder) []string {
	var out []string
	for _, evt := range rec.Events() {
		out = append(out, evt.EventType())
	}
	return out
}

func TestDeployCollections(t *testing.T) {
	env := newTestEnv(t)
	c721 := env.deploy721(t)
	c1155 := env.deploy1155(t)
	require.NotEqual(t, c721, c1155)

	c, err := env.e.Collection(c721)
	require.NoError(t, err)
	require.Equal(t, KindERC721, c.Kind)
	require.Equal(t, owner, c.Control.Owner)
	require.Equal(t, uint64(1), c.Counter)

	last, err := env.e.LastTokenID(c721)
	require.NoError(t, err)
	require.Zero(t, last)

	all, err := env.e.Collections()
	require.NoError(t, err)
	require.Equal(t, []common.Address{c721, c1155}, all)
	require.Len(t, env.rec.Typed(EventTypeCollectionCreated), 2)

	_, err = env.e.Deploy721(owner, CollectionParams{Name: "x"})
	require.ErrorIs(t, err, errInvalidName)
	_, err = env.e.Collection(alice)
	require.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestSupportsInterface(t *testing.T) {
	env := newTestEnv(t)
	c721 := env.deploy721(t)
	c1155 := env.deploy1155(t)

	cases := []struct {
		addr common.Address
		id   [4]byte
		want bool
	}{
		{c721, InterfaceERC165, true},
		{c721, InterfaceERC721, true},
		{c721, InterfaceERC721Enumerable, true},
		{c721, InterfaceRoyalties, true},
		{c721, InterfaceERC1155, false},
		{c1155, InterfaceERC1155, true},
		{c1155, InterfaceERC1155MetadataURI, true},
		{c1155, InterfaceRoyalties, true},
		{c1155, InterfaceERC721Metadata, false},
		{c1155, [4]byte{0xff, 0xff, 0xff, 0xff}, false},
	}
	for _, tc := range cases {
		got, err := env.e.SupportsInterface(tc.addr, tc.id)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "%x", tc.id)
	}
}

func TestCollectionAdmin(t *testing.T) {
	env := newTestEnv(t)
	addr := env.deploy721(t)

	require.ErrorIs(t, env.e.SetBaseURI(alice, addr, "x"), nativecommon.ErrNotOwner)
	require.NoError(t, env.e.SetBaseURI(owner, addr, "ipfs://"))

	require.NoError(t, env.e.SetDefaultApproval(owner, addr, operator, true))
	ok, err := env.e.IsApprovedForAll(addr, alice, operator)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, env.e.SetDefaultApproval(owner, addr, operator, false))
	ok, _ = env.e.IsApprovedForAll(addr, alice, operator)
	require.False(t, ok)

	require.ErrorIs(t, env.e.Pause(alice, addr), nativecommon.ErrNotOwner)
	require.NoError(t, env.e.Pause(owner, addr))
	_, err = env.e.MintGhost721(alice, addr, alice, nil, "uri", nil)
	require.ErrorIs(t, err, nativecommon.ErrPaused)
	require.NoError(t, env.e.Unpause(owner, addr))

	require.NoError(t, env.e.TransferOwnership(owner, addr, alice))
	require.ErrorIs(t, env.e.SetBaseURI(owner, addr, "y"), nativecommon.ErrNotOwner)
	require.Len(t, env.rec.Typed(EventTypeOwnershipTransferred), 1)
}

func TestSetApprovalForAll(t *testing.T) {
	env := newTestEnv(t)
	c721 := env.deploy721(t)
	c1155 := env.deploy1155(t)

	require.ErrorIs(t, env.e.SetApprovalForAll(alice, c721, alice, true), ErrApproveToCaller)
	require.ErrorIs(t, env.e.SetApprovalForAll(alice, c1155, alice, true), Err1155ApproveSelf)

	require.NoError(t, env.e.SetApprovalForAll(alice, c721, bob, true))
	ok, err := env.e.IsApprovedForAll(c721, alice, bob)
	require.NoError(t, err)
	require.True(t, ok)
	ok, _ = env.e.IsApprovedForAll(c1155, alice, bob)
	require.False(t, ok)

	require.NoError(t, env.e.SetApprovalForAll(alice, c721, bob, false))
	ok, _ = env.e.IsApprovedForAll(c721, alice, bob)
	require.False(t, ok)
}

func TestModuleGuard(t *testing.T) {
	env := newTestEnv(t)
	addr := env.deploy721(t)
	env.e.SetPauses(nativecommon.PausedModules{ModuleName: true})
	_, err := env.e.MintGhost721(alice, addr, alice, nil, "uri", nil)
	require.ErrorIs(t, err, nativecommon.ErrModulePaused)
}
