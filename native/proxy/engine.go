// Package proxy implements the lazy-mint transfer proxies. An exchange
// operator hands a proxy an encoded voucher asset and the proxy redeems it
// against the collection, acting as the caller the collection has
// default-approved.
package proxy

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"ghostledger/core/events"
	"ghostledger/core/exec"
	"ghostledger/core/types"
	nativecommon "ghostledger/native/common"
	"ghostledger/native/nft"
)

// ModuleName is the switch name checked by the module guard.
const ModuleName = "proxy"

type engineState interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVAppend(key []byte, value []byte) error
	KVGetList(key []byte, out interface{}) error
}

// lazyCollections is the part of the NFT engine a proxy forwards to.
type lazyCollections interface {
	TransferFromOrMint721(caller, addr common.Address, v nft.Mint721, from, to common.Address) error
	TransferFromOrMint1155(caller, addr common.Address, v nft.Mint1155, from, to common.Address, amount *big.Int) error
}

type proxyEvent struct {
	evt *types.Event
}

func (e proxyEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e proxyEvent) Event() *types.Event { return e.evt }

// Engine owns the transfer proxies.
type Engine struct {
	state   engineState
	emitter events.Emitter
	runner  exec.Runner
	pauses  nativecommon.PauseView
	nft     lazyCollections
}

func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}, runner: exec.Direct{}}
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

// SetNFT wires the collection engine the proxies redeem against.
func (e *Engine) SetNFT(n lazyCollections) { e.nft = n }

func (e *Engine) emit(event *types.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(proxyEvent{evt: event})
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

func proxyKey(addr common.Address) []byte {
	return append([]byte("proxy/record/"), addr.Bytes()...)
}

var proxyIndexKey = []byte("proxy/index")

func (e *Engine) load(addr common.Address) (*Proxy, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	var p Proxy
	ok, err := e.state.KVGet(proxyKey(addr), &p)
	if err != nil {
		return nil, fmt.Errorf("proxy: load %s: %w", addr.Hex(), err)
	}
	if !ok {
		return nil, ErrProxyNotFound
	}
	return &p, nil
}

func (e *Engine) store(p *Proxy) error {
	return e.state.KVPut(proxyKey(p.Address), p)
}

// Deploy creates a proxy of the given kind owned by owner.
func (e *Engine) Deploy(owner common.Address, kind Kind) (common.Address, error) {
	var addr common.Address
	err := e.atomic("deploy", func() error {
		if kind != KindERC721Lazy && kind != KindERC1155Lazy {
			return ErrInvalidKind
		}
		var err error
		addr, err = nativecommon.DeriveAddress(e.state, owner)
		if err != nil {
			return err
		}
		p := &Proxy{Address: addr, Kind: kind, Control: nativecommon.Control{Owner: owner}}
		if err := e.store(p); err != nil {
			return err
		}
		if err := e.state.KVAppend(proxyIndexKey, addr.Bytes()); err != nil {
			return err
		}
		e.emit(NewProxyCreatedEvent(addr, owner, kind))
		return nil
	})
	if err != nil {
		return common.Address{}, err
	}
	return addr, nil
}

// Proxy returns the stored proxy record.
func (e *Engine) Proxy(addr common.Address) (*Proxy, error) { return e.load(addr) }

// Proxies lists every proxy address in deployment order.
func (e *Engine) Proxies() ([]common.Address, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	var raw [][]byte
	if err := e.state.KVGetList(proxyIndexKey, &raw); err != nil {
		return nil, err
	}
	out := make([]common.Address, 0, len(raw))
	for _, b := range raw {
		out = append(out, common.BytesToAddress(b))
	}
	return out, nil
}

// IsOperator reports whether addr may call Transfer on the proxy.
func (e *Engine) IsOperator(proxy, addr common.Address) (bool, error) {
	p, err := e.load(proxy)
	if err != nil {
		return false, err
	}
	return p.isOperator(addr), nil
}

// AddOperator allow-lists operator. Owner only; adding twice is a no-op.
func (e *Engine) AddOperator(caller, proxy, operator common.Address) error {
	return e.atomic("addOperator", func() error {
		p, err := e.load(proxy)
		if err != nil {
			return err
		}
		if err := p.Control.RequireOwner(caller); err != nil {
			return err
		}
		if p.isOperator(operator) {
			return nil
		}
		p.Operators = append(p.Operators, operator)
		if err := e.store(p); err != nil {
			return err
		}
		e.emit(NewOperatorEvent(proxy, operator, true))
		return nil
	})
}

// RemoveOperator revokes operator. Owner only.
func (e *Engine) RemoveOperator(caller, proxy, operator common.Address) error {
	return e.atomic("removeOperator", func() error {
		p, err := e.load(proxy)
		if err != nil {
			return err
		}
		if err := p.Control.RequireOwner(caller); err != nil {
			return err
		}
		if !p.isOperator(operator) {
			return nil
		}
		kept := p.Operators[:0]
		for _, op := range p.Operators {
			if op != operator {
				kept = append(kept, op)
			}
		}
		p.Operators = kept
		if err := e.store(p); err != nil {
			return err
		}
		e.emit(NewOperatorEvent(proxy, operator, false))
		return nil
	})
}

func (e *Engine) TransferOwnership(caller, proxy, newOwner common.Address) error {
	return e.atomic("transferOwnership", func() error {
		p, err := e.load(proxy)
		if err != nil {
			return err
		}
		previous := p.Control.Owner
		if err := p.Control.TransferOwnership(caller, newOwner); err != nil {
			return err
		}
		if err := e.store(p); err != nil {
			return err
		}
		e.emit(NewOwnershipTransferredEvent(proxy, previous, newOwner))
		return nil
	})
}

// Transfer decodes a lazy asset and asks its collection to transfer or mint
// it from from to to. The collection sees the proxy as the caller.
func (e *Engine) Transfer(caller, proxy common.Address, asset Asset, from, to common.Address) error {
	return e.atomic("transfer", func() error {
		if e.nft == nil {
			return errNoNFT
		}
		p, err := e.load(proxy)
		if err != nil {
			return err
		}
		if !p.isOperator(caller) {
			return ErrNotOperator
		}
		if asset.AssetType.AssetClass != p.Kind.AssetClass() {
			return ErrWrongAssetClass
		}
		switch p.Kind {
		case KindERC721Lazy:
			if asset.Value == nil || asset.Value.Cmp(big.NewInt(1)) != 0 {
				return Err721Value
			}
			collection, voucher, err := DecodeLazy721(asset.AssetType.Data)
			if err != nil {
				return err
			}
			return e.nft.TransferFromOrMint721(proxy, collection, voucher, from, to)
		default:
			if asset.Value == nil || asset.Value.Sign() <= 0 {
				return fmt.Errorf("%w: value must be positive", ErrMalformedAsset)
			}
			collection, voucher, err := DecodeLazy1155(asset.AssetType.Data)
			if err != nil {
				return err
			}
			return e.nft.TransferFromOrMint1155(proxy, collection, voucher, from, to, asset.Value)
		}
	})
}
