// Package nft implements GhostMarket-style ERC721 and ERC1155 collections with
// royalties, locked content and lazy minting from EIP-712 signed vouchers.
//
// Every mutating entry point runs inside the ledger's atomic runner and
// updates this package's own records before it calls into another engine.
package nft

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"ghostledger/core/events"
	"ghostledger/core/exec"
	"ghostledger/core/types"
	nativecommon "ghostledger/native/common"
)

// ModuleName is the switch name checked by the module guard.
const ModuleName = "nft"

type engineState interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVDelete(key []byte) error
	KVAppend(key []byte, value []byte) error
	KVGetList(key []byte, out interface{}) error
}

type nftEvent struct {
	evt *types.Event
}

func (e nftEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e nftEvent) Event() *types.Event { return e.evt }

// Engine owns every NFT collection on the ledger.
type Engine struct {
	state      engineState
	emitter    events.Emitter
	runner     exec.Runner
	pauses     nativecommon.PauseView
	chainID    uint64
	validators map[common.Address]SignatureValidator
	observer   RedemptionObserver
}

// RedemptionObserver is told about every successful lazy redemption.
type RedemptionObserver interface {
	ObserveLazyRedemption(kind string)
}

// NewEngine creates an NFT engine with a no-op emitter and no rollback.
func NewEngine() *Engine {
	return &Engine{
		emitter:    events.NoopEmitter{},
		runner:     exec.Direct{},
		chainID:    1,
		validators: make(map[common.Address]SignatureValidator),
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

// SetChainID sets the chain id bound into voucher signatures.
func (e *Engine) SetChainID(id uint64) { e.chainID = id }

// ChainID returns the chain id bound into voucher signatures.
func (e *Engine) ChainID() uint64 { return e.chainID }

// SetRedemptionObserver installs a metrics hook. Nil disables it.
func (e *Engine) SetRedemptionObserver(o RedemptionObserver) { e.observer = o }

func (e *Engine) emit(event *types.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(nftEvent{evt: event})
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

func (e *Engine) loadCollection(addr common.Address) (*Collection, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	var c Collection
	ok, err := e.state.KVGet(collectionKey(addr), &c)
	if err != nil {
		return nil, fmt.Errorf("nft: load collection %s: %w", addr.Hex(), err)
	}
	if !ok {
		return nil, ErrCollectionNotFound
	}
	return &c, nil
}

func (e *Engine) loadKind(addr common.Address, kind Kind) (*Collection, error) {
	c, err := e.loadCollection(addr)
	if err != nil {
		return nil, err
	}
	if c.Kind != kind {
		return nil, fmt.Errorf("%w: %s collection", ErrWrongKind, c.Kind)
	}
	return c, nil
}

func (e *Engine) storeCollection(c *Collection) error {
	return e.state.KVPut(collectionKey(c.Address), c)
}

// Deploy721 creates an ERC721 collection owned by owner.
func (e *Engine) Deploy721(owner common.Address, params CollectionParams) (common.Address, error) {
	return e.deploy(owner, KindERC721, params)
}

// Deploy1155 creates an ERC1155 collection owned by owner.
func (e *Engine) Deploy1155(owner common.Address, params CollectionParams) (common.Address, error) {
	return e.deploy(owner, KindERC1155, params)
}

func (e *Engine) deploy(owner common.Address, kind Kind, params CollectionParams) (common.Address, error) {
	var addr common.Address
	err := e.atomic("deploy", func() error {
		name := strings.TrimSpace(params.Name)
		symbol := strings.TrimSpace(params.Symbol)
		if name == "" || symbol == "" {
			return errInvalidName
		}
		var err error
		addr, err = nativecommon.DeriveAddress(e.state, owner)
		if err != nil {
			return err
		}
		c := &Collection{
			Address:          addr,
			Kind:             kind,
			Name:             name,
			Symbol:           symbol,
			BaseURI:          params.BaseURI,
			Counter:          1,
			DefaultApprovals: append([]common.Address(nil), params.DefaultApprovals...),
			Control:          nativecommon.Control{Owner: owner},
		}
		if err := e.storeCollection(c); err != nil {
			return err
		}
		if err := e.state.KVAppend(collectionIndexKey, addr.Bytes()); err != nil {
			return err
		}
		e.emit(NewCollectionCreatedEvent(c))
		return nil
	})
	if err != nil {
		return common.Address{}, err
	}
	return addr, nil
}

// Collection returns a copy of the stored collection.
func (e *Engine) Collection(addr common.Address) (*Collection, error) {
	return e.loadCollection(addr)
}

// Collections lists every collection address in deployment order.
func (e *Engine) Collections() ([]common.Address, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	var raw [][]byte
	if err := e.state.KVGetList(collectionIndexKey, &raw); err != nil {
		return nil, err
	}
	out := make([]common.Address, 0, len(raw))
	for _, b := range raw {
		out = append(out, common.BytesToAddress(b))
	}
	return out, nil
}

// LastTokenID returns the id of the most recent eager mint, or 0.
func (e *Engine) LastTokenID(addr common.Address) (uint64, error) {
	c, err := e.loadCollection(addr)
	if err != nil {
		return 0, err
	}
	return c.Counter - 1, nil
}

// SupportsInterface reports ERC165 capability identifiers.
func (e *Engine) SupportsInterface(addr common.Address, id [4]byte) (bool, error) {
	c, err := e.loadCollection(addr)
	if err != nil {
		return false, err
	}
	switch id {
	case InterfaceERC165, InterfaceRoyalties:
		return true, nil
	case InterfaceERC721, InterfaceERC721Metadata, InterfaceERC721Enumerable:
		return c.Kind == KindERC721, nil
	case InterfaceERC1155, InterfaceERC1155MetadataURI:
		return c.Kind == KindERC1155, nil
	}
	return false, nil
}

func (e *Engine) updateCollection(op string, addr common.Address, fn func(*Collection) error, event func(*Collection) *types.Event) error {
	return e.atomic(op, func() error {
		c, err := e.loadCollection(addr)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		if err := e.storeCollection(c); err != nil {
			return err
		}
		e.emit(event(c))
		return nil
	})
}

func (e *Engine) Pause(caller, addr common.Address) error {
	return e.updateCollection("pause", addr, func(c *Collection) error {
		return c.Control.Pause(caller)
	}, func(c *Collection) *types.Event { return NewPauseEvent(c.Address, caller, true) })
}

func (e *Engine) Unpause(caller, addr common.Address) error {
	return e.updateCollection("unpause", addr, func(c *Collection) error {
		return c.Control.Unpause(caller)
	}, func(c *Collection) *types.Event { return NewPauseEvent(c.Address, caller, false) })
}

func (e *Engine) TransferOwnership(caller, addr, newOwner common.Address) error {
	var previous common.Address
	return e.updateCollection("transferOwnership", addr, func(c *Collection) error {
		previous = c.Control.Owner
		return c.Control.TransferOwnership(caller, newOwner)
	}, func(c *Collection) *types.Event { return NewOwnershipTransferredEvent(c.Address, previous, newOwner) })
}

// SetBaseURI replaces the collection base URI. Owner only.
func (e *Engine) SetBaseURI(caller, addr common.Address, uri string) error {
	return e.updateCollection("setBaseURI", addr, func(c *Collection) error {
		if err := c.Control.RequireOwner(caller); err != nil {
			return err
		}
		c.BaseURI = uri
		return nil
	}, func(c *Collection) *types.Event { return NewBaseURIEvent(c.Address, uri) })
}

// SetDefaultApproval adds or removes an operator every holder implicitly
// approves. Owner only.
func (e *Engine) SetDefaultApproval(caller, addr, operator common.Address, approved bool) error {
	return e.updateCollection("setDefaultApproval", addr, func(c *Collection) error {
		if err := c.Control.RequireOwner(caller); err != nil {
			return err
		}
		kept := c.DefaultApprovals[:0]
		for _, existing := range c.DefaultApprovals {
			if existing != operator {
				kept = append(kept, existing)
			}
		}
		if approved {
			kept = append(kept, operator)
		}
		c.DefaultApprovals = kept
		return nil
	}, func(c *Collection) *types.Event { return NewDefaultApprovalEvent(c.Address, operator, approved) })
}

// IsApprovedForAll reports whether operator may move every token of owner.
func (e *Engine) IsApprovedForAll(addr, owner, operator common.Address) (bool, error) {
	c, err := e.loadCollection(addr)
	if err != nil {
		return false, err
	}
	return e.isApprovedForAll(c, owner, operator)
}

func (e *Engine) isApprovedForAll(c *Collection, owner, operator common.Address) (bool, error) {
	if c.defaultApproved(operator) {
		return true, nil
	}
	var approved bool
	if _, err := e.state.KVGet(operatorKey(c.Address, owner, operator), &approved); err != nil {
		return false, err
	}
	return approved, nil
}

// SetApprovalForAll grants or revokes operator over all of caller's tokens.
func (e *Engine) SetApprovalForAll(caller, addr, operator common.Address, approved bool) error {
	return e.atomic("setApprovalForAll", func() error {
		c, err := e.loadCollection(addr)
		if err != nil {
			return err
		}
		if operator == caller {
			if c.Kind == KindERC1155 {
				return Err1155ApproveSelf
			}
			return ErrApproveToCaller
		}
		if approved {
			err = e.state.KVPut(operatorKey(addr, caller, operator), true)
		} else {
			err = e.state.KVDelete(operatorKey(addr, caller, operator))
		}
		if err != nil {
			return err
		}
		e.emit(NewApprovalForAllEvent(addr, caller, operator, approved))
		return nil
	})
}
