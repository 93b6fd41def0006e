package common

import (
	"errors"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"ghostledger/core/state"
	"ghostledger/storage"
)

func TestGuard(t *testing.T) {
	require.NoError(t, Guard(nil, "staking"))
	paused := PausedModules{"staking": true}
	require.True(t, errors.Is(Guard(paused, "staking"), ErrModulePaused))
	require.NoError(t, Guard(paused, "vesting"))
}

func TestControl(t *testing.T) {
	owner := ethcommon.HexToAddress("0x01")
	other := ethcommon.HexToAddress("0x02")
	c := Control{Owner: owner}

	require.ErrorIs(t, c.Pause(other), ErrNotOwner)
	require.ErrorIs(t, c.WhenPaused(), ErrNotPaused)
	require.NoError(t, c.Pause(owner))
	require.ErrorIs(t, c.WhenNotPaused(), ErrPaused)
	require.ErrorIs(t, c.Pause(owner), ErrPaused)
	require.NoError(t, c.Unpause(owner))

	require.ErrorIs(t, c.TransferOwnership(owner, ethcommon.Address{}), ErrZeroOwner)
	require.NoError(t, c.TransferOwnership(owner, other))
	require.ErrorIs(t, c.RequireOwner(owner), ErrNotOwner)
}

func TestDeriveAddressMatchesCreate(t *testing.T) {
	st := state.NewManager(storage.NewMemDB())
	deployer := ethcommon.HexToAddress("0xabc")
	first, err := DeriveAddress(st, deployer)
	require.NoError(t, err)
	second, err := DeriveAddress(st, deployer)
	require.NoError(t, err)
	require.Equal(t, ethcrypto.CreateAddress(deployer, 0), first)
	require.Equal(t, ethcrypto.CreateAddress(deployer, 1), second)
}
