package state

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"ghostledger/storage"
)

type record struct {
	Name   string
	Amount *big.Int
	Flag   bool
}

func TestKVRoundTripAndDelete(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	key := []byte("record/1")

	var out record
	ok, err := m.KVGet(key, &out)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, m.KVPut(key, record{Name: "one", Amount: big.NewInt(42), Flag: true}))
	ok, err = m.KVGet(key, &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "one", out.Name)
	require.Equal(t, 0, out.Amount.Cmp(big.NewInt(42)))

	require.NoError(t, m.KVDelete(key))
	ok, err = m.KVGet(key, nil)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRevertToSnapshot(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	require.NoError(t, m.KVPut([]byte("a"), uint64(1)))

	snap := m.Snapshot()
	require.NoError(t, m.KVPut([]byte("a"), uint64(2)))
	require.NoError(t, m.KVPut([]byte("b"), uint64(3)))
	inner := m.Snapshot()
	require.NoError(t, m.KVDelete([]byte("a")))

	m.RevertToSnapshot(inner)
	var v uint64
	ok, err := m.KVGet([]byte("a"), &v)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(2), v)

	m.RevertToSnapshot(snap)
	ok, err = m.KVGet([]byte("a"), &v)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(1), v)
	ok, err = m.KVGet([]byte("b"), nil)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCommitPersists(t *testing.T) {
	db := storage.NewMemDB()
	m := NewManager(db)
	require.NoError(t, m.KVPut([]byte("a"), "value"))
	require.NoError(t, m.KVAppend([]byte("list"), []byte{1}))
	require.NoError(t, m.KVAppend([]byte("list"), []byte{1}))
	require.NoError(t, m.KVAppend([]byte("list"), []byte{2}))
	require.Equal(t, 2, m.Pending())
	require.NoError(t, m.Commit())
	require.Equal(t, 0, m.Pending())
	require.Equal(t, 2, db.Len())

	reopened := NewManager(db)
	var s string
	ok, err := reopened.KVGet([]byte("a"), &s)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "value", s)

	var list [][]byte
	require.NoError(t, reopened.KVGetList([]byte("list"), &list))
	require.Equal(t, [][]byte{{1}, {2}}, list)

	require.NoError(t, reopened.KVDelete([]byte("a")))
	require.NoError(t, reopened.Commit())
	require.Equal(t, 1, db.Len())
}

func TestKVGetListMissing(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	var list [][]byte
	require.NoError(t, m.KVGetList([]byte("none"), &list))
	require.NotNil(t, list)
	require.Len(t, list, 0)

	var notSlice int
	require.Error(t, m.KVGetList([]byte("none"), &notSlice))
}
