// Package token implements the fungible token ledger: ERC20-style balances
// and allowances for any number of token contracts, plus the native currency
// used to pay protocol fees.
package token

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
const ModuleName = "token"

type engineState interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVDelete(key []byte) error
	KVAppend(key []byte, value []byte) error
	KVGetList(key []byte, out interface{}) error
}

type tokenEvent struct {
	evt *types.Event
}

func (e tokenEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e tokenEvent) Event() *types.Event { return e.evt }

// Engine owns every fungible token contract on the ledger.
type Engine struct {
	state   engineState
	emitter events.Emitter
	runner  exec.Runner
	pauses  nativecommon.PauseView
}

// NewEngine creates a token engine with a no-op emitter and no rollback.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		runner:  exec.Direct{},
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetEmitter configures the event emitter used by the engine. Passing nil resets
// the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetRunner configures the atomic call runner.
func (e *Engine) SetRunner(runner exec.Runner) {
	if runner == nil {
		e.runner = exec.Direct{}
		return
	}
	e.runner = runner
}

// SetPauses wires the module switches.
func (e *Engine) SetPauses(p nativecommon.PauseView) { e.pauses = p }

func (e *Engine) emit(event *types.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(tokenEvent{evt: event})
}

func (e *Engine) atomic(op string, fn func() error) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := nativecommon.Guard(e.pauses, ModuleName); err != nil {
		return err
	}
	return e.runner.Atomic(ModuleName+"."+op, fn)
}

func (e *Engine) loadToken(addr common.Address) (*Token, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	var tok Token
	ok, err := e.state.KVGet(tokenKey(addr), &tok)
	if err != nil {
		return nil, fmt.Errorf("token: load %s: %w", addr.Hex(), err)
	}
	if !ok {
		return nil, ErrTokenNotFound
	}
	if tok.TotalSupply == nil {
		tok.TotalSupply = big.NewInt(0)
	}
	return &tok, nil
}

func (e *Engine) storeToken(tok *Token) error {
	return e.state.KVPut(tokenKey(tok.Address), tok)
}

func (e *Engine) readAmount(key []byte) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	value := new(big.Int)
	ok, err := e.state.KVGet(key, value)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return value, nil
}

func (e *Engine) writeAmount(key []byte, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return e.state.KVDelete(key)
	}
	return e.state.KVPut(key, amount)
}

func validAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	return nil
}
