// Package vesting implements token vesting vaults whose fee parameters are
// governed by an N-of-M voter set.
//
// One vault exists per token. The vault creator locks tokens for
// beneficiaries under fixed or linear schedules; anyone may trigger a
// release. Outbound token transfers happen only after the beneficiary record
// has been updated. Inbound pulls are measured by balance delta, so they run
// before the record is written and a short delivery rolls the call back.
package vesting

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"ghostledger/core/events"
	"ghostledger/core/exec"
	"ghostledger/core/types"
	nativecommon "ghostledger/native/common"
)

// ModuleName is the switch name checked by the module guard.
const ModuleName = "vesting"

type engineState interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVDelete(key []byte) error
	KVAppend(key []byte, value []byte) error
	KVGetList(key []byte, out interface{}) error
}

// tokenLedger is the slice of the token engine the vault moves funds with.
type tokenLedger interface {
	IsFeeOnTransfer(token common.Address) (bool, error)
	BalanceOf(token, holder common.Address) (*big.Int, error)
	Allowance(token, owner, spender common.Address) (*big.Int, error)
	Transfer(caller, token, to common.Address, amount *big.Int) error
	TransferFrom(spender, token, from, to common.Address, amount *big.Int) error
	NativeBalance(holder common.Address) (*big.Int, error)
	TransferNative(from, to common.Address, amount *big.Int) error
}

// FeeObserver receives the collected fee balance after it changes.
type FeeObserver interface {
	ObserveVaultFees(balance *big.Int)
}

type vestingEvent struct {
	evt *types.Event
}

func (e vestingEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e vestingEvent) Event() *types.Event { return e.evt }

// Engine is the vesting vault.
type Engine struct {
	state    engineState
	emitter  events.Emitter
	runner   exec.Runner
	pauses   nativecommon.PauseView
	tokens   tokenLedger
	nowFn    func() int64
	observer FeeObserver

	address    common.Address
	defaultFee *big.Int
	maxFee     *big.Int
	voters     []common.Address
	voterSet   map[common.Address]struct{}
	threshold  uint64
}

// New validates params and returns an engine. A zero threshold means a
// strict majority of the voters.
func New(params Params) (*Engine, error) {
	if params.Address == (common.Address{}) {
		return nil, fmt.Errorf("%w: vault address is zero", ErrInvalidConfiguration)
	}
	if len(params.Voters) == 0 {
		return nil, fmt.Errorf("%w: no voters", ErrInvalidConfiguration)
	}
	set := make(map[common.Address]struct{}, len(params.Voters))
	voters := make([]common.Address, 0, len(params.Voters))
	for _, v := range params.Voters {
		if v == (common.Address{}) {
			return nil, fmt.Errorf("%w: zero voter", ErrInvalidConfiguration)
		}
		if _, dup := set[v]; dup {
			return nil, fmt.Errorf("%w: duplicate voter %s", ErrInvalidConfiguration, v.Hex())
		}
		set[v] = struct{}{}
		voters = append(voters, v)
	}
	threshold := params.Threshold
	if threshold == 0 {
		threshold = uint64(len(voters))/2 + 1
	}
	if threshold > uint64(len(voters)) {
		return nil, fmt.Errorf("%w: threshold %d exceeds %d voters", ErrInvalidConfiguration, threshold, len(voters))
	}
	maxFee := DefaultMaxVaultFee
	if params.MaxVaultFee != nil {
		maxFee = params.MaxVaultFee
	}
	fee := cloneBigInt(params.VaultFee)
	if fee.Sign() < 0 || fee.Cmp(maxFee) > 0 {
		return nil, ErrFeeTooHigh
	}
	return &Engine{
		emitter:    events.NoopEmitter{},
		runner:     exec.Direct{},
		nowFn:      func() int64 { return 0 },
		address:    params.Address,
		defaultFee: fee,
		maxFee:     new(big.Int).Set(maxFee),
		voters:     voters,
		voterSet:   set,
		threshold:  threshold,
	}, nil
}

func (e *Engine) SetState(state engineState) { e.state = state }

func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) SetRunner(runner exec.Runner) {
	if runner == nil {
		e.runner = exec.Direct{}
		return
	}
	e.runner = runner
}

func (e *Engine) SetPauses(p nativecommon.PauseView) { e.pauses = p }

// SetTokenLedger wires the token engine used for fees and custody.
func (e *Engine) SetTokenLedger(t tokenLedger) { e.tokens = t }

// SetNowFunc installs the clock, in unix seconds.
func (e *Engine) SetNowFunc(fn func() int64) {
	if fn == nil {
		fn = func() int64 { return 0 }
	}
	e.nowFn = fn
}

// SetFeeObserver installs a metrics hook. Nil disables it.
func (e *Engine) SetFeeObserver(o FeeObserver) { e.observer = o }

// Address is the account that holds vaulted tokens and collected fees.
func (e *Engine) Address() common.Address { return e.address }

// Voters returns the voter set in configuration order.
func (e *Engine) Voters() []common.Address {
	return append([]common.Address(nil), e.voters...)
}

// Threshold is the number of approvals a vote needs.
func (e *Engine) Threshold() uint64 { return e.threshold }

func (e *Engine) IsVoter(addr common.Address) bool {
	_, ok := e.voterSet[addr]
	return ok
}

func (e *Engine) now() uint64 {
	t := e.nowFn()
	if t < 0 {
		return 0
	}
	return uint64(t)
}

func (e *Engine) emit(event *types.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(vestingEvent{evt: event})
}

func (e *Engine) atomic(op string, fn func() error) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if e.tokens == nil {
		return errNoLedger
	}
	if err := nativecommon.Guard(e.pauses, ModuleName); err != nil {
		return err
	}
	return e.runner.Atomic(ModuleName+"."+op, fn)
}

// VaultFee is the native amount CreateVault must be paid.
func (e *Engine) VaultFee() (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	var fee big.Int
	ok, err := e.state.KVGet(feeKey, &fee)
	if err != nil {
		return nil, err
	}
	if !ok {
		return new(big.Int).Set(e.defaultFee), nil
	}
	return &fee, nil
}

// MaxVaultFee is the ceiling SetVaultFee enforces.
func (e *Engine) MaxVaultFee() *big.Int { return new(big.Int).Set(e.maxFee) }

// FeeBalance is the collected and not yet withdrawn vault fees.
func (e *Engine) FeeBalance() (*big.Int, error) {
	if e == nil || e.tokens == nil {
		return nil, errNoLedger
	}
	return e.tokens.NativeBalance(e.address)
}

func (e *Engine) observeFees() {
	if e.observer == nil {
		return
	}
	if bal, err := e.FeeBalance(); err == nil {
		e.observer.ObserveVaultFees(bal)
	}
}
