// Package core assembles the native engines into one ledger: a journaled
// state manager over a key/value database, the atomic executor every engine
// runs its calls through, and the block clock engines read time from.
//
// Mutating calls must be serialised by the caller. Reads may run alongside
// them and observe uncommitted state.
package core

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"ghostledger/core/events"
	"ghostledger/core/exec"
	"ghostledger/core/state"
	nativecommon "ghostledger/native/common"
	"ghostledger/native/nft"
	"ghostledger/native/proxy"
	"ghostledger/native/staking"
	"ghostledger/native/token"
	"ghostledger/native/vesting"
	"ghostledger/observability"
	"ghostledger/storage"
)

// DefaultVestingAddress is where the vault holds custody when no address is
// configured.
var DefaultVestingAddress = common.BytesToAddress(ethcrypto.Keccak256([]byte("ghostledger/vesting")))

var errClosed = errors.New("ledger: closed")

var clockKey = []byte("ledger/clock")

type clockRecord struct {
	Height uint64
	Time   uint64
}

// Options configures New.
type Options struct {
	ChainID uint64
	// DB backs the state. Nil uses an in-memory database.
	DB            storage.Database
	Pauses        nativecommon.PauseView
	Vesting       vesting.Params
	GenesisHeight uint64
	GenesisTime   int64
	// Metrics, when set, observes calls, redemptions, pools, fees and events.
	Metrics *observability.LedgerMetrics
	Sinks   []events.Emitter
}

// Ledger owns the engines and their shared state.
type Ledger struct {
	mu      sync.Mutex
	db      storage.Database
	state   *state.Manager
	exec    *exec.Executor
	clock   *Clock
	sinks   []events.Emitter
	chainID uint64
	closed  bool

	Tokens  *token.Engine
	NFT     *nft.Engine
	Proxies *proxy.Engine
	Staking *staking.Engine
	Vesting *vesting.Engine
}

// New wires every engine onto one state manager and executor.
func New(opts Options) (*Ledger, error) {
	if opts.ChainID == 0 {
		return nil, fmt.Errorf("ledger: chain id must be set")
	}
	db := opts.DB
	if db == nil {
		db = storage.NewMemDB()
	}
	vestingParams := opts.Vesting
	if vestingParams.Address == (common.Address{}) {
		vestingParams.Address = DefaultVestingAddress
	}
	vault, err := vesting.New(vestingParams)
	if err != nil {
		return nil, err
	}

	st := state.NewManager(db)
	var saved clockRecord
	found, err := st.KVGet(clockKey, &saved)
	if err != nil {
		return nil, fmt.Errorf("ledger: load clock: %w", err)
	}
	clock := NewClock(opts.GenesisHeight, opts.GenesisTime)
	if found {
		clock = NewClock(saved.Height, int64(saved.Time))
	}

	l := &Ledger{
		db:      db,
		state:   st,
		clock:   clock,
		chainID: opts.ChainID,
		Tokens:  token.NewEngine(),
		NFT:     nft.NewEngine(),
		Proxies: proxy.NewEngine(),
		Staking: staking.NewEngine(),
		Vesting: vault,
	}
	l.sinks = append(l.sinks, opts.Sinks...)
	if opts.Metrics != nil {
		l.sinks = append(l.sinks, opts.Metrics)
	}
	l.exec = exec.New(l.state, events.Multi(l.sinks))

	l.Tokens.SetState(l.state)
	l.Tokens.SetEmitter(l.exec)
	l.Tokens.SetRunner(l.exec)
	l.Tokens.SetPauses(opts.Pauses)

	l.NFT.SetState(l.state)
	l.NFT.SetEmitter(l.exec)
	l.NFT.SetRunner(l.exec)
	l.NFT.SetPauses(opts.Pauses)
	l.NFT.SetChainID(opts.ChainID)

	l.Proxies.SetState(l.state)
	l.Proxies.SetEmitter(l.exec)
	l.Proxies.SetRunner(l.exec)
	l.Proxies.SetPauses(opts.Pauses)
	l.Proxies.SetNFT(l.NFT)

	l.Staking.SetState(l.state)
	l.Staking.SetEmitter(l.exec)
	l.Staking.SetRunner(l.exec)
	l.Staking.SetPauses(opts.Pauses)
	l.Staking.SetTokenLedger(l.Tokens)
	l.Staking.SetBlockHeight(l.clock.Height)

	l.Vesting.SetState(l.state)
	l.Vesting.SetEmitter(l.exec)
	l.Vesting.SetRunner(l.exec)
	l.Vesting.SetPauses(opts.Pauses)
	l.Vesting.SetTokenLedger(l.Tokens)
	l.Vesting.SetNowFunc(l.clock.Now)

	if m := opts.Metrics; m != nil {
		l.exec.SetObserver(m)
		l.NFT.SetRedemptionObserver(m)
		l.Staking.SetPoolObserver(m)
		l.Vesting.SetFeeObserver(m)
	}
	return l, nil
}

// ChainID is the id bound into voucher signatures.
func (l *Ledger) ChainID() uint64 { return l.chainID }

// Clock exposes the block clock.
func (l *Ledger) Clock() *Clock { return l.clock }

// Advance moves the block clock.
func (l *Ledger) Advance(blocks uint64, seconds int64) (uint64, int64) {
	return l.clock.Advance(blocks, seconds)
}

// Subscribe adds an event sink. Only events of calls that commit reach it.
func (l *Ledger) Subscribe(sink events.Emitter) {
	if sink == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks = append(l.sinks, sink)
	l.exec.SetSink(events.Multi(append([]events.Emitter(nil), l.sinks...)))
}

// Commit records the block clock and flushes the state overlay to the
// database.
func (l *Ledger) Commit() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return errClosed
	}
	if l.exec.Depth() != 0 {
		return fmt.Errorf("ledger: commit during a call")
	}
	height, now := l.clock.Stamp()
	if now < 0 {
		now = 0
	}
	if err := l.state.KVPut(clockKey, clockRecord{Height: height, Time: uint64(now)}); err != nil {
		return err
	}
	return l.state.Commit()
}

// Pending reports how many state keys await Commit.
func (l *Ledger) Pending() int { return l.state.Pending() }

// Close commits pending state and closes the database.
func (l *Ledger) Close() error {
	if err := l.Commit(); err != nil && !errors.Is(err, errClosed) {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	l.db.Close()
	return nil
}
