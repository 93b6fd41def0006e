package indexer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ghostledger/core/types"
)

type payload struct{ evt *types.Event }

func (p payload) EventType() string   { return p.evt.Type }
func (p payload) Event() *types.Event { return p.evt }

type bare struct{}

func (bare) EventType() string { return "test.Bare" }

func event(typ, contract string, attrs map[string]string) payload {
	all := map[string]string{"contract": contract}
	for k, v := range attrs {
		all[k] = v
	}
	return payload{evt: &types.Event{Type: typ, Attributes: all}}
}

func TestAppendAndQuery(t *testing.T) {
	s, err := OpenMemory()
	require.NoError(t, err)
	defer s.Close()
	height := uint64(7)
	s.SetClock(func() (uint64, int64) { return height, 1_700_000_000 })

	s.Emit(event("nft.Minted", "0xAAA", map[string]string{"tokenId": "1"}))
	height = 8
	s.Emit(event("nft.Transfer", "0xAAA", nil))
	s.Emit(event("vesting.VaultCreated", "0xBBB", map[string]string{"vaultId": "1"}))
	s.Emit(bare{})

	ctx := context.Background()
	all, err := s.Query(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.Equal(t, uint64(1), all[0].Seq)
	require.Equal(t, "nft", all[0].Module)
	require.Equal(t, uint64(7), all[0].Height)
	require.Equal(t, uint64(8), all[1].Height)
	attrs, err := all[0].Attrs()
	require.NoError(t, err)
	require.Equal(t, "1", attrs["tokenId"])
	empty, err := all[3].Attrs()
	require.NoError(t, err)
	require.Empty(t, empty)

	nft, err := s.Query(ctx, Filter{Module: "nft"})
	require.NoError(t, err)
	require.Len(t, nft, 2)

	byContract, err := s.Query(ctx, Filter{Contract: "0xBBB"})
	require.NoError(t, err)
	require.Len(t, byContract, 1)
	require.Equal(t, "vesting.VaultCreated", byContract[0].Type)

	page, err := s.Query(ctx, Filter{AfterSeq: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, uint64(2), page[0].Seq)

	n, err := s.Count(ctx, Filter{Type: "nft.Transfer"})
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestSequenceSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	s, err := Open(path)
	require.NoError(t, err)
	s.Emit(event("staking.Deposit", "0x01", nil))
	s.Emit(event("staking.Harvest", "0x01", nil))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	reopened.Emit(event("staking.Withdraw", "0x01", nil))
	recs, err := reopened.Query(context.Background(), Filter{Type: "staking.Withdraw"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, uint64(3), recs[0].Seq)

	_, err = Open(" ")
	require.ErrorIs(t, err, ErrPathRequired)
}
