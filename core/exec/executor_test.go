package exec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"ghostledger/core/events"
	"ghostledger/core/state"
	"ghostledger/storage"
)

type namedEvent string

func (n namedEvent) EventType() string { return string(n) }

type callLog struct {
	ops  []string
	errs []error
}

func (c *callLog) ObserveCall(op string, err error) {
	c.ops = append(c.ops, op)
	c.errs = append(c.errs, err)
}

func TestAtomicCommitsEventsOnSuccess(t *testing.T) {
	st := state.NewManager(storage.NewMemDB())
	rec := &events.Recorder{}
	x := New(st, rec)
	obs := &callLog{}
	x.SetObserver(obs)

	err := x.Atomic("outer", func() error {
		x.Emit(namedEvent("a"))
		require.Empty(t, rec.Events())
		return st.KVPut([]byte("k"), uint64(7))
	})
	require.NoError(t, err)
	require.Len(t, rec.Events(), 1)
	require.Equal(t, []string{"outer"}, obs.ops)

	ok, err := st.KVGet([]byte("k"), nil)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestAtomicRollsBackOnError(t *testing.T) {
	st := state.NewManager(storage.NewMemDB())
	rec := &events.Recorder{}
	x := New(st, rec)
	boom := errors.New("boom")

	err := x.Atomic("fail", func() error {
		x.Emit(namedEvent("a"))
		require.NoError(t, st.KVPut([]byte("k"), uint64(1)))
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Empty(t, rec.Events())
	ok, err := st.KVGet([]byte("k"), nil)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 0, x.Depth())
}

func TestNestedFailureOnlyRevertsInner(t *testing.T) {
	st := state.NewManager(storage.NewMemDB())
	rec := &events.Recorder{}
	x := New(st, rec)

	err := x.Atomic("outer", func() error {
		require.NoError(t, st.KVPut([]byte("outer"), uint64(1)))
		x.Emit(namedEvent("outer"))
		innerErr := x.Atomic("inner", func() error {
			require.NoError(t, st.KVPut([]byte("inner"), uint64(2)))
			x.Emit(namedEvent("inner"))
			return errors.New("inner failed")
		})
		require.Error(t, innerErr)
		return nil
	})
	require.NoError(t, err)
	evts := rec.Events()
	require.Len(t, evts, 1)
	require.Equal(t, "outer", evts[0].EventType())

	ok, _ := st.KVGet([]byte("outer"), nil)
	require.True(t, ok)
	ok, _ = st.KVGet([]byte("inner"), nil)
	require.False(t, ok)
}

func TestPanicRollsBack(t *testing.T) {
	st := state.NewManager(storage.NewMemDB())
	x := New(st, nil)
	require.Panics(t, func() {
		_ = x.Atomic("panic", func() error {
			_ = st.KVPut([]byte("k"), uint64(1))
			panic("bad")
		})
	})
	ok, _ := st.KVGet([]byte("k"), nil)
	require.False(t, ok)
	require.Equal(t, 0, x.Depth())
}

func TestDirectRunner(t *testing.T) {
	called := false
	require.NoError(t, Direct{}.Atomic("x", func() error { called = true; return nil }))
	require.True(t, called)
}
