// Package staking implements block-based reward pools: stakers deposit one
// token and accrue another at a fixed rate per block between a start and an
// end block.
//
// Every entry point runs inside the ledger's atomic runner. Pool and user
// records are updated before any token transfer is requested from the token
// ledger, and a failed transfer rolls the whole call back.
package staking

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
const ModuleName = "staking"

type engineState interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVAppend(key []byte, value []byte) error
	KVGetList(key []byte, out interface{}) error
}

// tokenLedger is the slice of the token engine the pools move funds with.
type tokenLedger interface {
	Decimals(token common.Address) (uint8, error)
	IsFeeOnTransfer(token common.Address) (bool, error)
	Transfer(caller, token, to common.Address, amount *big.Int) error
	TransferFrom(spender, token, from, to common.Address, amount *big.Int) error
}

// PoolObserver receives the pool totals after every successful change.
type PoolObserver interface {
	ObservePool(pool common.Address, totalStaked, accTokenPerShare, rewardReserve *big.Int)
}

type stakingEvent struct {
	evt *types.Event
}

func (e stakingEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e stakingEvent) Event() *types.Event { return e.evt }

// Engine owns every reward pool.
type Engine struct {
	state    engineState
	emitter  events.Emitter
	runner   exec.Runner
	pauses   nativecommon.PauseView
	tokens   tokenLedger
	heightFn func() uint64
	observer PoolObserver
}

func NewEngine() *Engine {
	return &Engine{
		emitter:  events.NoopEmitter{},
		runner:   exec.Direct{},
		heightFn: func() uint64 { return 0 },
	}
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

// SetTokenLedger wires the token engine used for every transfer.
func (e *Engine) SetTokenLedger(t tokenLedger) { e.tokens = t }

// SetBlockHeight installs the block height source.
func (e *Engine) SetBlockHeight(fn func() uint64) {
	if fn == nil {
		fn = func() uint64 { return 0 }
	}
	e.heightFn = fn
}

// SetPoolObserver installs a metrics hook. Nil disables it.
func (e *Engine) SetPoolObserver(o PoolObserver) { e.observer = o }

func (e *Engine) emit(event *types.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(stakingEvent{evt: event})
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

func (e *Engine) loadPool(addr common.Address) (*Pool, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	var p Pool
	ok, err := e.state.KVGet(poolKey(addr), &p)
	if err != nil {
		return nil, fmt.Errorf("staking: load pool %s: %w", addr.Hex(), err)
	}
	if !ok {
		return nil, ErrPoolNotFound
	}
	p.normalize()
	return &p, nil
}

func (e *Engine) storePool(p *Pool) error {
	return e.state.KVPut(poolKey(p.Address), p)
}

func (e *Engine) loadUser(pool, user common.Address) (*UserInfo, error) {
	var u UserInfo
	if _, err := e.state.KVGet(userKey(pool, user), &u); err != nil {
		return nil, err
	}
	u.normalize()
	return &u, nil
}

func (e *Engine) storeUser(pool, user common.Address, u *UserInfo) error {
	return e.state.KVPut(userKey(pool, user), u)
}

func (e *Engine) observe(p *Pool) {
	if e.observer != nil {
		e.observer.ObservePool(p.Address, p.TotalStaked, p.AccTokenPerShare, p.RewardReserve)
	}
}

// Initialize creates a pool owned by owner. The precision factor is derived
// from the reward token decimals.
func (e *Engine) Initialize(owner common.Address, params Params) (common.Address, error) {
	var created *Pool
	err := e.atomic("initialize", func() error {
		if params.StakedToken == (common.Address{}) || params.RewardToken == (common.Address{}) {
			return errZeroToken
		}
		if params.RewardPerBlock == nil || params.RewardPerBlock.Sign() < 0 {
			return ErrNegativeAmount
		}
		if params.StartBlock >= params.EndBlock {
			return ErrInvalidBlockRange
		}
		deflationary, err := e.tokens.IsFeeOnTransfer(params.StakedToken)
		if err != nil {
			return err
		}
		if deflationary {
			return ErrDeflationaryStaked
		}
		decimals, err := e.tokens.Decimals(params.RewardToken)
		if err != nil {
			return err
		}
		if decimals >= MaxRewardDecimals {
			return ErrRewardDecimals
		}
		addr, err := nativecommon.DeriveAddress(e.state, owner)
		if err != nil {
			return err
		}
		p := &Pool{
			Address:         addr,
			StakedToken:     params.StakedToken,
			RewardToken:     params.RewardToken,
			RewardPerBlock:  new(big.Int).Set(params.RewardPerBlock),
			StartBlock:      params.StartBlock,
			EndBlock:        params.EndBlock,
			PrecisionFactor: new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(MaxRewardDecimals-decimals)), nil),
			Control:         nativecommon.Control{Owner: owner},
		}
		p.normalize()
		if err := e.storePool(p); err != nil {
			return err
		}
		if err := e.state.KVAppend(poolIndexKey, addr.Bytes()); err != nil {
			return err
		}
		e.emit(NewPoolCreatedEvent(p))
		created = p
		return nil
	})
	if err != nil {
		return common.Address{}, err
	}
	e.observe(created)
	return created.Address, nil
}

// Pool returns a copy of the stored pool.
func (e *Engine) Pool(addr common.Address) (*Pool, error) {
	return e.loadPool(addr)
}

// Pools lists every pool address in creation order.
func (e *Engine) Pools() ([]common.Address, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	var raw [][]byte
	if err := e.state.KVGetList(poolIndexKey, &raw); err != nil {
		return nil, err
	}
	out := make([]common.Address, 0, len(raw))
	for _, b := range raw {
		out = append(out, common.BytesToAddress(b))
	}
	return out, nil
}

// UserInfo returns the staker's position.
func (e *Engine) UserInfo(pool, user common.Address) (*UserInfo, error) {
	if _, err := e.loadPool(pool); err != nil {
		return nil, err
	}
	return e.loadUser(pool, user)
}

func (e *Engine) updateControl(op string, addr common.Address, fn func(*Pool) error, event func(*Pool) *types.Event) error {
	return e.atomic(op, func() error {
		p, err := e.loadPool(addr)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		if err := e.storePool(p); err != nil {
			return err
		}
		e.emit(event(p))
		return nil
	})
}

func (e *Engine) Pause(caller, addr common.Address) error {
	return e.updateControl("pause", addr, func(p *Pool) error {
		return p.Control.Pause(caller)
	}, func(p *Pool) *types.Event { return NewPauseEvent(p.Address, caller, true) })
}

func (e *Engine) Unpause(caller, addr common.Address) error {
	return e.updateControl("unpause", addr, func(p *Pool) error {
		return p.Control.Unpause(caller)
	}, func(p *Pool) *types.Event { return NewPauseEvent(p.Address, caller, false) })
}

func (e *Engine) TransferOwnership(caller, addr, newOwner common.Address) error {
	var previous common.Address
	return e.updateControl("transferOwnership", addr, func(p *Pool) error {
		previous = p.Control.Owner
		return p.Control.TransferOwnership(caller, newOwner)
	}, func(p *Pool) *types.Event { return NewOwnershipTransferredEvent(p.Address, previous, newOwner) })
}
