package token

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"ghostledger/core/events"
	"ghostledger/core/exec"
	"ghostledger/core/state"
	nativecommon "ghostledger/native/common"
	"ghostledger/storage"
)

var (
	owner = common.HexToAddress("0x1000000000000000000000000000000000000001")
	alice = common.HexToAddress("0x2000000000000000000000000000000000000002")
	bob   = common.HexToAddress("0x3000000000000000000000000000000000000003")
)

func newTestEngine(t *testing.T) (*Engine, *events.Recorder) {
	t.Helper()
	st := state.NewManager(storage.NewMemDB())
	rec := &events.Recorder{}
	x := exec.New(st, rec)
	e := NewEngine()
	e.SetState(st)
	e.SetEmitter(x)
	e.SetRunner(x)
	return e, rec
}

func deployGM(t *testing.T, e *Engine, feeBps uint64) common.Address {
	t.Helper()
	addr, err := e.Deploy(owner, Params{
		Name:           "GhostMarket Token",
		Symbol:         "GM",
		Decimals:       8,
		InitialSupply:  big.NewInt(10_000_000_000_000_000),
		TransferFeeBps: feeBps,
	})
	require.NoError(t, err)
	return addr
}

func TestDeployMintsSupplyToOwner(t *testing.T) {
	e, rec := newTestEngine(t)
	gm := deployGM(t, e, 0)

	tok, err := e.Token(gm)
	require.NoError(t, err)
	require.Equal(t, "GM", tok.Symbol)
	require.Equal(t, uint8(8), tok.Decimals)
	require.Equal(t, owner, tok.Control.Owner)

	bal, err := e.BalanceOf(gm, owner)
	require.NoError(t, err)
	require.Equal(t, "10000000000000000", bal.String())

	tokens, err := e.Tokens()
	require.NoError(t, err)
	require.Equal(t, []common.Address{gm}, tokens)
	require.Len(t, rec.Typed(EventTypeTransfer), 1)
}

func TestDeployRejectsBadParams(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Deploy(owner, Params{Name: " ", Symbol: "X"})
	require.ErrorIs(t, err, errInvalidMetadata)
	_, err = e.Deploy(owner, Params{Name: "X", Symbol: "X", TransferFeeBps: MaxTransferFeeBps})
	require.ErrorIs(t, err, errInvalidFee)
}

func TestTransferAndAllowance(t *testing.T) {
	e, rec := newTestEngine(t)
	gm := deployGM(t, e, 0)

	require.ErrorIs(t, e.Transfer(alice, gm, bob, big.NewInt(1)), ErrInsufficientBalance)
	require.NoError(t, e.Transfer(owner, gm, alice, big.NewInt(1000)))
	require.ErrorIs(t, e.Transfer(alice, gm, common.Address{}, big.NewInt(1)), ErrTransferToZero)

	require.ErrorIs(t, e.TransferFrom(bob, gm, alice, bob, big.NewInt(10)), ErrInsufficientAllowance)
	require.NoError(t, e.Approve(alice, gm, bob, big.NewInt(100)))
	allowance, err := e.Allowance(gm, alice, bob)
	require.NoError(t, err)
	require.Equal(t, int64(100), allowance.Int64())

	require.NoError(t, e.TransferFrom(bob, gm, alice, bob, big.NewInt(60)))
	allowance, _ = e.Allowance(gm, alice, bob)
	require.Equal(t, int64(40), allowance.Int64())
	bal, _ := e.BalanceOf(gm, bob)
	require.Equal(t, int64(60), bal.Int64())
	bal, _ = e.BalanceOf(gm, alice)
	require.Equal(t, int64(940), bal.Int64())

	transfers := rec.Typed(EventTypeTransfer)
	last := transfers[len(transfers)-1]
	require.Equal(t, alice.Hex(), last.Attr("from"))
	require.Equal(t, bob.Hex(), last.Attr("to"))
	require.Equal(t, "60", last.Attr("value"))
}

func TestFailedTransferFromKeepsAllowance(t *testing.T) {
	e, _ := newTestEngine(t)
	gm := deployGM(t, e, 0)
	require.NoError(t, e.Approve(alice, gm, bob, big.NewInt(100)))

	err := e.TransferFrom(bob, gm, alice, bob, big.NewInt(50))
	require.ErrorIs(t, err, ErrInsufficientBalance)
	allowance, _ := e.Allowance(gm, alice, bob)
	require.Equal(t, int64(100), allowance.Int64())
}

func TestFeeOnTransferBurns(t *testing.T) {
	e, _ := newTestEngine(t)
	dft := deployGM(t, e, 100)

	ok, err := e.IsFeeOnTransfer(dft)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, e.Transfer(owner, dft, alice, big.NewInt(1000)))
	bal, _ := e.BalanceOf(dft, alice)
	require.Equal(t, int64(990), bal.Int64())
	supply, _ := e.TotalSupply(dft)
	require.Equal(t, "9999999999999990", supply.String())
}

func TestPauseAndOwnership(t *testing.T) {
	e, _ := newTestEngine(t)
	gm := deployGM(t, e, 0)

	require.ErrorIs(t, e.Pause(alice, gm), nativecommon.ErrNotOwner)
	require.NoError(t, e.Pause(owner, gm))
	require.ErrorIs(t, e.Transfer(owner, gm, alice, big.NewInt(1)), nativecommon.ErrPaused)
	require.NoError(t, e.Unpause(owner, gm))
	require.NoError(t, e.Transfer(owner, gm, alice, big.NewInt(1)))

	require.NoError(t, e.TransferOwnership(owner, gm, alice))
	require.ErrorIs(t, e.Pause(owner, gm), nativecommon.ErrNotOwner)
	require.NoError(t, e.Pause(alice, gm))
}

func TestModuleGuard(t *testing.T) {
	e, _ := newTestEngine(t)
	gm := deployGM(t, e, 0)
	e.SetPauses(nativecommon.PausedModules{ModuleName: true})
	require.ErrorIs(t, e.Transfer(owner, gm, alice, big.NewInt(1)), nativecommon.ErrModulePaused)
}

func TestNativeCurrency(t *testing.T) {
	e, rec := newTestEngine(t)
	require.NoError(t, e.CreditNative(alice, big.NewInt(50)))
	require.ErrorIs(t, e.TransferNative(alice, bob, big.NewInt(51)), ErrInsufficientNative)
	require.NoError(t, e.TransferNative(alice, bob, big.NewInt(20)))

	bal, err := e.NativeBalance(alice)
	require.NoError(t, err)
	require.Equal(t, int64(30), bal.Int64())
	bal, _ = e.NativeBalance(bob)
	require.Equal(t, int64(20), bal.Int64())
	require.Len(t, rec.Typed(EventTypeNativeTransfer), 1)
}

func TestUnknownToken(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.BalanceOf(alice, bob)
	require.ErrorIs(t, err, ErrTokenNotFound)
}
