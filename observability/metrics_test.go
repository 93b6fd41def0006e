package observability

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type testEvent struct{ typ string }

func (e testEvent) EventType() string { return e.typ }

func TestObserveCall(t *testing.T) {
	m := NewLedgerMetrics(prometheus.NewRegistry())
	m.ObserveCall("nft.mintAndTransfer721", nil)
	m.ObserveCall("nft.mintAndTransfer721", nil)
	m.ObserveCall("vesting.release", errors.New("No tokens are due"))
	m.ObserveCall("bare", nil)

	require.Equal(t, 2.0, testutil.ToFloat64(m.calls.WithLabelValues("nft", "mintAndTransfer721", "success")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("vesting", "release", "error")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("unknown", "bare", "success")))
}

func TestGaugesAndCounters(t *testing.T) {
	m := NewLedgerMetrics(prometheus.NewRegistry())
	pool := common.HexToAddress("0x01")
	m.ObservePool(pool, big.NewInt(1000), big.NewInt(5), nil)
	m.ObserveVaultFees(big.NewInt(42))
	m.ObserveLazyRedemption("erc1155")
	m.Emit(testEvent{typ: "nft.Minted"})
	m.Emit(testEvent{})

	require.Equal(t, 1000.0, testutil.ToFloat64(m.staked.WithLabelValues(pool.Hex())))
	require.Equal(t, 0.0, testutil.ToFloat64(m.reserve.WithLabelValues(pool.Hex())))
	require.Equal(t, 42.0, testutil.ToFloat64(m.vaultFees))
	require.Equal(t, 1.0, testutil.ToFloat64(m.redemptions.WithLabelValues("erc1155")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("nft.Minted")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("unknown")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *LedgerMetrics
	m.ObserveCall("x.y", nil)
	m.ObservePool(common.Address{}, nil, nil, nil)
	m.ObserveVaultFees(nil)
	m.ObserveLazyRedemption("")
	m.Emit(testEvent{typ: "a"})
}
