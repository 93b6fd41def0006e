package routes

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"ghostledger/core"
	"ghostledger/core/events"
	"ghostledger/gateway/middleware"
	"ghostledger/indexer"
	"ghostledger/native/nft"
	"ghostledger/native/staking"
	"ghostledger/native/token"
	"ghostledger/native/vesting"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	deployer = common.HexToAddress("0x1000000000000000000000000000000000000001")
	alice    = common.HexToAddress("0x2000000000000000000000000000000000000002")
	voter    = common.HexToAddress("0xa000000000000000000000000000000000000001")
	royalty  = common.HexToAddress("0x4000000000000000000000000000000000000004")
)

type fixture struct {
	handler    http.Handler
	ledger     *core.Ledger
	gm         common.Address
	collection common.Address
	pool       common.Address
}

func newFixture(t *testing.T, limiter *middleware.RateLimiter) *fixture {
	t.Helper()
	index, err := indexer.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, index.Close()) })

	l, err := core.New(core.Options{
		ChainID:     1,
		Vesting:     vesting.Params{VaultFee: big.NewInt(10), Voters: []common.Address{voter}},
		GenesisTime: 1_700_000_000,
		Sinks:       []events.Emitter{index},
	})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, l.Close()) })
	index.SetClock(l.Clock().Stamp)

	f := &fixture{ledger: l}
	f.gm, err = l.Tokens.Deploy(deployer, token.Params{Name: "GhostMarket Token", Symbol: "GM", Decimals: 8, InitialSupply: big.NewInt(1_000_000)})
	require.NoError(t, err)
	require.NoError(t, l.Tokens.Transfer(deployer, f.gm, alice, big.NewInt(1_500)))

	f.collection, err = l.NFT.Deploy721(deployer, nft.CollectionParams{Name: "Ghost", Symbol: "GHOST", BaseURI: "ipfs://"})
	require.NoError(t, err)
	_, err = l.NFT.MintGhost721(deployer, f.collection, alice, []nft.Part{{Recipient: royalty, Value: 250}}, "ipfs://meta", nil)
	require.NoError(t, err)

	f.pool, err = l.Staking.Initialize(deployer, staking.Params{StakedToken: f.gm, RewardToken: f.gm, RewardPerBlock: big.NewInt(5), StartBlock: 1, EndBlock: 50})
	require.NoError(t, err)

	require.NoError(t, l.Tokens.CreditNative(deployer, big.NewInt(10)))
	_, err = l.Vesting.CreateVault(deployer, f.gm, big.NewInt(10))
	require.NoError(t, err)
	require.NoError(t, l.Tokens.Approve(deployer, f.gm, l.Vesting.Address(), big.NewInt(100)))
	require.NoError(t, l.Vesting.AddBeneficiary(deployer, vesting.BeneficiaryParams{
		Token:       f.gm,
		Beneficiary: alice,
		Amount:      big.NewInt(100),
		StartTime:   1_700_000_000,
		Duration:    100,
		ReleaseType: vesting.ReleaseLinear,
	}))
	l.Advance(1, 25)

	reg := prometheus.NewRegistry()
	f.handler, err = New(Config{
		Tokens:         l.Tokens,
		NFT:            l.NFT,
		Staking:        l.Staking,
		Vesting:        l.Vesting,
		Events:         index,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		RateLimiter:    limiter,
		Observability:  middleware.NewObservability(middleware.ObservabilityConfig{}, reg, nil),
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) get(t *testing.T, path string, out any) int {
	t.Helper()
	res := httptest.NewRecorder()
	f.handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil && res.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), out))
	}
	return res.Code
}

func TestNewRequiresReaders(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t, nil)
	require.Equal(t, http.StatusOK, f.get(t, "/healthz", nil))
	require.Equal(t, http.StatusOK, f.get(t, "/v1/tokens", nil))

	res := httptest.NewRecorder()
	f.handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), "gateway_requests_total")
}

func TestTokenRoutes(t *testing.T) {
	f := newFixture(t, nil)

	var list map[string][]string
	require.Equal(t, http.StatusOK, f.get(t, "/v1/tokens", &list))
	require.Equal(t, []string{f.gm.Hex()}, list["tokens"])

	var tok tokenView
	require.Equal(t, http.StatusOK, f.get(t, "/v1/tokens/"+f.gm.Hex(), &tok))
	require.Equal(t, "GM", tok.Symbol)
	require.Equal(t, "1000000", tok.TotalSupply)

	var bal map[string]string
	require.Equal(t, http.StatusOK, f.get(t, "/v1/tokens/"+f.gm.Hex()+"/balances/"+alice.Hex(), &bal))
	require.Equal(t, "1500", bal["balance"])

	var allowance map[string]string
	require.Equal(t, http.StatusOK, f.get(t, "/v1/tokens/"+f.gm.Hex()+"/allowances/"+deployer.Hex()+"/"+f.ledger.Vesting.Address().Hex(), &allowance))
	require.Equal(t, "0", allowance["allowance"])

	var native map[string]string
	require.Equal(t, http.StatusOK, f.get(t, "/v1/native/"+f.ledger.Vesting.Address().Hex(), &native))
	require.Equal(t, "10", native["balance"])

	require.Equal(t, http.StatusBadRequest, f.get(t, "/v1/tokens/nope", nil))
	require.Equal(t, http.StatusNotFound, f.get(t, "/v1/tokens/"+alice.Hex(), nil))
}

func TestNFTRoutes(t *testing.T) {
	f := newFixture(t, nil)

	var c collectionView
	require.Equal(t, http.StatusOK, f.get(t, "/v1/nft/"+f.collection.Hex(), &c))
	require.Equal(t, "ERC721", c.Kind)
	require.Equal(t, uint64(1), c.LastTokenID)

	var tok nftTokenView
	require.Equal(t, http.StatusOK, f.get(t, "/v1/nft/"+f.collection.Hex()+"/tokens/1", &tok))
	require.Equal(t, alice.Hex(), tok.Owner)
	require.Equal(t, "ipfs://1", tok.URI)
	require.Equal(t, "ipfs://meta", tok.ExternalURI)
	require.Equal(t, []royaltyView{{Recipient: royalty.Hex(), Bps: 250}}, tok.Royalties)

	var bal map[string]uint64
	require.Equal(t, http.StatusOK, f.get(t, "/v1/nft/"+f.collection.Hex()+"/balances/"+alice.Hex(), &bal))
	require.Equal(t, uint64(1), bal["balance"])

	require.Equal(t, http.StatusNotFound, f.get(t, "/v1/nft/"+f.collection.Hex()+"/tokens/0x02", nil))
	require.Equal(t, http.StatusBadRequest, f.get(t, "/v1/nft/"+f.collection.Hex()+"/tokens/x", nil))
	require.Equal(t, http.StatusBadRequest, f.get(t, "/v1/nft/"+f.collection.Hex()+"/tokens/1/balances/"+alice.Hex(), nil))
}

func TestStakingRoutes(t *testing.T) {
	f := newFixture(t, nil)

	var p poolView
	require.Equal(t, http.StatusOK, f.get(t, "/v1/staking/pools/"+f.pool.Hex(), &p))
	require.Equal(t, "5", p.RewardPerBlock)
	require.Equal(t, uint64(50), p.EndBlock)
	require.Equal(t, "10000000000000000000000", p.PrecisionFactor)

	var user map[string]string
	require.Equal(t, http.StatusOK, f.get(t, "/v1/staking/pools/"+f.pool.Hex()+"/users/"+alice.Hex(), &user))
	require.Equal(t, "0", user["amount"])
	require.Equal(t, "0", user["pending"])

	require.Equal(t, http.StatusNotFound, f.get(t, "/v1/staking/pools/"+alice.Hex(), nil))
}

func TestVestingRoutes(t *testing.T) {
	f := newFixture(t, nil)

	var info map[string]any
	require.Equal(t, http.StatusOK, f.get(t, "/v1/vesting", &info))
	require.Equal(t, "10", info["vaultFee"])
	require.Equal(t, "10", info["feeBalance"])
	require.Equal(t, float64(1), info["threshold"])

	var vaults map[string][]vaultView
	require.Equal(t, http.StatusOK, f.get(t, "/v1/vesting/vaults", &vaults))
	require.Len(t, vaults["vaults"], 1)
	require.Equal(t, f.gm.Hex(), vaults["vaults"][0].Token)

	var b beneficiaryView
	require.Equal(t, http.StatusOK, f.get(t, "/v1/vesting/vaults/"+f.gm.Hex()+"/beneficiaries/"+alice.Hex(), &b))
	require.Equal(t, "100", b.Amount)
	require.Equal(t, "25", b.Releasable)
	require.Equal(t, "linear", b.ReleaseType)

	require.Equal(t, http.StatusNotFound, f.get(t, "/v1/vesting/vaults/"+f.gm.Hex()+"/beneficiaries/"+deployer.Hex(), nil))
	require.Equal(t, http.StatusNotFound, f.get(t, "/v1/vesting/vaults/"+alice.Hex(), nil))
}

func TestEventRoutes(t *testing.T) {
	f := newFixture(t, nil)

	var out map[string][]eventView
	require.Equal(t, http.StatusOK, f.get(t, "/v1/events?module=vesting", &out))
	require.Len(t, out["events"], 2)
	require.Equal(t, vesting.EventTypeVaultCreated, out["events"][0].Type)
	require.Equal(t, vesting.EventTypeAddedBeneficiary, out["events"][1].Type)

	require.Equal(t, http.StatusOK, f.get(t, "/v1/events?type=nft.Minted&contract="+f.collection.Hex(), &out))
	require.Len(t, out["events"], 1)

	first := out["events"][0].Seq
	require.Equal(t, http.StatusOK, f.get(t, "/v1/events?limit=1&after="+strconv.FormatUint(first, 10), &out))
	require.Len(t, out["events"], 1)
	require.Greater(t, out["events"][0].Seq, first)

	require.Equal(t, http.StatusBadRequest, f.get(t, "/v1/events?limit=0", nil))
	require.Equal(t, http.StatusBadRequest, f.get(t, "/v1/events?contract=zz", nil))
}

func TestRateLimitAppliesToV1(t *testing.T) {
	limiter := middleware.NewRateLimiter(map[string]middleware.RateLimit{RateLimitKey: {RequestsPerSecond: 1, Burst: 1}}, nil)
	f := newFixture(t, limiter)
	require.Equal(t, http.StatusOK, f.get(t, "/v1/tokens", nil))
	require.Equal(t, http.StatusTooManyRequests, f.get(t, "/v1/tokens", nil))
	require.Equal(t, http.StatusOK, f.get(t, "/healthz", nil))
}
