package observability

import (
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"

	"ghostledger/core/events"
)

// LedgerMetrics is the process-wide collector set. It satisfies the call
// observer of the executor, the redemption observer of the NFT engine, the
// pool observer of the staking engine and the fee observer of the vesting
// vault. It is also an event sink.
type LedgerMetrics struct {
	calls       *prometheus.CounterVec
	redemptions *prometheus.CounterVec
	events      *prometheus.CounterVec
	staked      *prometheus.GaugeVec
	accPerShare *prometheus.GaugeVec
	reserve     *prometheus.GaugeVec
	vaultFees   prometheus.Gauge
}

var (
	ledgerMetricsOnce sync.Once
	ledgerRegistry    *LedgerMetrics
)

// Ledger returns the lazily-initialised registry. Collectors are registered
// with the default prometheus registerer on first use.
func Ledger() *LedgerMetrics {
	ledgerMetricsOnce.Do(func() {
		ledgerRegistry = newLedgerMetrics()
		prometheus.MustRegister(ledgerRegistry.collectors()...)
	})
	return ledgerRegistry
}

// NewLedgerMetrics builds an unregistered collector set, for tests and
// custom registries.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	m := newLedgerMetrics()
	if reg != nil {
		reg.MustRegister(m.collectors()...)
	}
	return m
}

func newLedgerMetrics() *LedgerMetrics {
	return &LedgerMetrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ghost",
			Subsystem: "ledger",
			Name:      "calls_total",
			Help:      "Atomic ledger calls segmented by module, operation and outcome.",
		}, []string{"module", "operation", "outcome"}),
		redemptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ghost",
			Subsystem: "nft",
			Name:      "lazy_redemptions_total",
			Help:      "Successful lazy mint redemptions by collection kind.",
		}, []string{"kind"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ghost",
			Subsystem: "events",
			Name:      "emitted_total",
			Help:      "Events flushed by committed calls, by type.",
		}, []string{"type"}),
		staked: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ghost",
			Subsystem: "staking",
			Name:      "total_staked",
			Help:      "Staked principal per pool in base units.",
		}, []string{"pool"}),
		accPerShare: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ghost",
			Subsystem: "staking",
			Name:      "acc_token_per_share",
			Help:      "Reward accumulator per pool, scaled by the precision factor.",
		}, []string{"pool"}),
		reserve: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ghost",
			Subsystem: "staking",
			Name:      "reward_reserve",
			Help:      "Undistributed reward liquidity per pool in base units.",
		}, []string{"pool"}),
		vaultFees: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ghost",
			Subsystem: "vesting",
			Name:      "fee_balance",
			Help:      "Collected vault fees not yet withdrawn, in native base units.",
		}),
	}
}

func (m *LedgerMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.calls, m.redemptions, m.events, m.staked, m.accPerShare, m.reserve, m.vaultFees}
}

// ObserveCall records the outcome of an outermost atomic call. op has the
// form module.operation.
func (m *LedgerMetrics) ObserveCall(op string, err error) {
	if m == nil {
		return
	}
	module, operation := "unknown", op
	if i := strings.IndexByte(op, '.'); i > 0 {
		module, operation = op[:i], op[i+1:]
	}
	if operation == "" {
		operation = "unknown"
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.calls.WithLabelValues(module, operation, outcome).Inc()
}

func (m *LedgerMetrics) ObserveLazyRedemption(kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	m.redemptions.WithLabelValues(kind).Inc()
}

func (m *LedgerMetrics) ObservePool(pool common.Address, totalStaked, accTokenPerShare, rewardReserve *big.Int) {
	if m == nil {
		return
	}
	label := pool.Hex()
	m.staked.WithLabelValues(label).Set(toFloat(totalStaked))
	m.accPerShare.WithLabelValues(label).Set(toFloat(accTokenPerShare))
	m.reserve.WithLabelValues(label).Set(toFloat(rewardReserve))
}

func (m *LedgerMetrics) ObserveVaultFees(balance *big.Int) {
	if m == nil {
		return
	}
	m.vaultFees.Set(toFloat(balance))
}

// Emit counts events by type.
func (m *LedgerMetrics) Emit(evt events.Event) {
	if m == nil || evt == nil {
		return
	}
	typ := strings.TrimSpace(evt.EventType())
	if typ == "" {
		typ = "unknown"
	}
	m.events.WithLabelValues(typ).Inc()
}

func toFloat(v *big.Int) float64 {
	if v == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(v).Float64()
	return f
}
