package gateway

import (
	"context"
	"io"
	"math/big"
	"net/http"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"ghostledger/config"
	"ghostledger/core"
	"ghostledger/native/vesting"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestServerServesUntilCancelled(t *testing.T) {
	l, err := core.New(core.Options{
		ChainID: 1,
		Vesting: vesting.Params{VaultFee: big.NewInt(1), Voters: []common.Address{common.HexToAddress("0xa000000000000000000000000000000000000001")}},
	})
	require.NoError(t, err)
	defer l.Close()

	api := config.Default().API
	api.Listen = "127.0.0.1:0"
	reg := prometheus.NewRegistry()
	handler, err := NewHandler(l, nil, api, reg, reg, nil)
	require.NoError(t, err)

	srv, err := Listen(api, handler, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	res, err := client.Get("http://" + srv.Addr() + "/healthz")
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.NoError(t, res.Body.Close())
	require.Equal(t, "ok", string(body))

	res, err = client.Get("http://" + srv.Addr() + "/v1/events")
	require.NoError(t, err)
	require.NoError(t, res.Body.Close())
	require.Equal(t, http.StatusNotFound, res.StatusCode)

	cancel()
	require.NoError(t, <-done)
}
