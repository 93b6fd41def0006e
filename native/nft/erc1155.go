package nft

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

func (e *Engine) balance1155(addr common.Address, id *uint256.Int, holder common.Address) (*big.Int, error) {
	value := new(big.Int)
	ok, err := e.state.KVGet(balanceKey(addr, id, holder), value)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return value, nil
}

func (e *Engine) writeBalance1155(addr common.Address, id *uint256.Int, holder common.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return e.state.KVDelete(balanceKey(addr, id, holder))
	}
	return e.state.KVPut(balanceKey(addr, id, holder), amount)
}

func (e *Engine) loadSupply(addr common.Address, id *uint256.Int) (*SupplyEntry, error) {
	var s SupplyEntry
	if _, err := e.state.KVGet(supplyKey(addr, id), &s); err != nil {
		return nil, err
	}
	s.normalize()
	return &s, nil
}

func (e *Engine) storeSupply(addr common.Address, id *uint256.Int, s *SupplyEntry) error {
	return e.state.KVPut(supplyKey(addr, id), s)
}

// BalanceOf1155 returns holder's balance of id.
func (e *Engine) BalanceOf1155(addr, holder common.Address, id *uint256.Int) (*big.Int, error) {
	if _, err := e.loadKind(addr, KindERC1155); err != nil {
		return nil, err
	}
	if id == nil {
		return nil, errNilTokenID
	}
	return e.balance1155(addr, id, holder)
}

// BalanceOfBatch returns the balances of each (holder, id) pair.
func (e *Engine) BalanceOfBatch(addr common.Address, holders []common.Address, ids []*uint256.Int) ([]*big.Int, error) {
	if _, err := e.loadKind(addr, KindERC1155); err != nil {
		return nil, err
	}
	if len(holders) != len(ids) {
		return nil, Err1155LengthMismatch
	}
	out := make([]*big.Int, len(ids))
	for i := range ids {
		if ids[i] == nil {
			return nil, errNilTokenID
		}
		bal, err := e.balance1155(addr, ids[i], holders[i])
		if err != nil {
			return nil, err
		}
		out[i] = bal
	}
	return out, nil
}

// Supply returns the lazy supply record of an ERC1155 id. Eagerly minted
// ids report zeros.
func (e *Engine) Supply(addr common.Address, id *uint256.Int) (*SupplyEntry, error) {
	if _, err := e.loadKind(addr, KindERC1155); err != nil {
		return nil, err
	}
	if id == nil {
		return nil, errNilTokenID
	}
	return e.loadSupply(addr, id)
}

func (e *Engine) canOperate1155(c *Collection, caller, owner common.Address) error {
	if caller == owner {
		return nil
	}
	approved, err := e.isApprovedForAll(c, owner, caller)
	if err != nil {
		return err
	}
	if !approved {
		return Err1155NotApproved
	}
	return nil
}

func (e *Engine) move1155(c *Collection, from, to common.Address, id *uint256.Int, amount *big.Int) error {
	if err := c.Control.WhenNotPaused(); err != nil {
		return err
	}
	if to == (common.Address{}) {
		return Err1155TransferToZero
	}
	fromBal, err := e.balance1155(c.Address, id, from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return Err1155InsufficientFunds
	}
	if err := e.writeBalance1155(c.Address, id, from, new(big.Int).Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal, err := e.balance1155(c.Address, id, to)
	if err != nil {
		return err
	}
	return e.writeBalance1155(c.Address, id, to, toBal.Add(toBal, amount))
}

// SafeTransferFrom moves amount units of id. Receiver hooks are not modelled.
func (e *Engine) SafeTransferFrom(caller, addr, from, to common.Address, id *uint256.Int, amount *big.Int, data []byte) error {
	return e.atomic("safeTransferFrom", func() error {
		c, err := e.loadKind(addr, KindERC1155)
		if err != nil {
			return err
		}
		if id == nil {
			return errNilTokenID
		}
		if amount == nil || amount.Sign() < 0 {
			return errNilAmount
		}
		if err := e.canOperate1155(c, caller, from); err != nil {
			return err
		}
		if err := e.move1155(c, from, to, id, amount); err != nil {
			return err
		}
		e.emit(NewTransferSingleEvent(addr, caller, from, to, id, amount))
		return nil
	})
}

// SafeBatchTransferFrom moves several ids at once.
func (e *Engine) SafeBatchTransferFrom(caller, addr, from, to common.Address, ids []*uint256.Int, amounts []*big.Int, data []byte) error {
	return e.atomic("safeBatchTransferFrom", func() error {
		c, err := e.loadKind(addr, KindERC1155)
		if err != nil {
			return err
		}
		if len(ids) != len(amounts) {
			return Err1155LengthMismatch
		}
		if err := e.canOperate1155(c, caller, from); err != nil {
			return err
		}
		for i := range ids {
			if ids[i] == nil {
				return errNilTokenID
			}
			if amounts[i] == nil || amounts[i].Sign() < 0 {
				return errNilAmount
			}
			if err := e.move1155(c, from, to, ids[i], amounts[i]); err != nil {
				return err
			}
		}
		e.emit(NewTransferBatchEvent(addr, caller, from, to, ids, amounts))
		return nil
	})
}

// mint1155 credits amount units of id to to and emits TransferSingle.
func (e *Engine) mint1155(c *Collection, operator, to common.Address, id *uint256.Int, amount *big.Int) error {
	if err := c.Control.WhenNotPaused(); err != nil {
		return err
	}
	if to == (common.Address{}) {
		return Err1155MintToZero
	}
	bal, err := e.balance1155(c.Address, id, to)
	if err != nil {
		return err
	}
	if err := e.writeBalance1155(c.Address, id, to, bal.Add(bal, amount)); err != nil {
		return err
	}
	e.emit(NewTransferSingleEvent(c.Address, operator, common.Address{}, to, id, amount))
	return nil
}

// MintGhost1155 mints amount units of the next counter id to to.
func (e *Engine) MintGhost1155(caller, addr, to common.Address, amount *big.Int, data []byte, royalties []Part, externalURI string, locked []byte) (*uint256.Int, error) {
	var minted *uint256.Int
	err := e.atomic("mintGhost", func() error {
		c, err := e.loadKind(addr, KindERC1155)
		if err != nil {
			return err
		}
		if amount == nil || amount.Sign() <= 0 {
			return errNilAmount
		}
		if externalURI == "" {
			return ErrEmptyTokenURI
		}
		if err := validateRoyalties(royalties); err != nil {
			return err
		}
		if err := validateLockedContent(locked); err != nil {
			return err
		}
		id := uint256.NewInt(c.Counter)
		if err := e.mint1155(c, caller, to, id, amount); err != nil {
			return err
		}
		meta := &TokenMeta{
			ExternalURI: externalURI,
			Creator:     caller,
			Royalties:   cloneParts(royalties),
		}
		if err := e.state.KVPut(metaKey(addr, id), meta); err != nil {
			return err
		}
		if err := e.storeLockedContent(addr, id, locked); err != nil {
			return err
		}
		c.Counter++
		if err := e.storeCollection(c); err != nil {
			return err
		}
		e.emit(NewMintedEvent(addr, to, id, externalURI, amount))
		minted = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return minted, nil
}

// Burn1155 destroys value units of id held by account. When the caller is
// the creator encoded in id, units that were never minted are burned first.
func (e *Engine) Burn1155(caller, addr, account common.Address, id *uint256.Int, value *big.Int) error {
	return e.atomic("burn", func() error {
		c, err := e.loadKind(addr, KindERC1155)
		if err != nil {
			return err
		}
		if id == nil {
			return errNilTokenID
		}
		if value == nil || value.Sign() < 0 {
			return errNilAmount
		}
		burned, err := e.burn1155(c, caller, account, id, value)
		if err != nil {
			return err
		}
		if burned.Sign() > 0 {
			e.emit(NewTransferSingleEvent(addr, caller, account, common.Address{}, id, burned))
		}
		return nil
	})
}

// BurnBatch1155 burns several ids from account in one call.
func (e *Engine) BurnBatch1155(caller, addr, account common.Address, ids []*uint256.Int, values []*big.Int) error {
	return e.atomic("burnBatch", func() error {
		c, err := e.loadKind(addr, KindERC1155)
		if err != nil {
			return err
		}
		if len(ids) != len(values) {
			return Err1155LengthMismatch
		}
		burned := make([]*big.Int, len(ids))
		for i := range ids {
			if ids[i] == nil {
				return errNilTokenID
			}
			if values[i] == nil || values[i].Sign() < 0 {
				return errNilAmount
			}
			if burned[i], err = e.burn1155(c, caller, account, ids[i], values[i]); err != nil {
				return err
			}
		}
		e.emit(NewTransferBatchEvent(addr, caller, account, common.Address{}, ids, burned))
		return nil
	})
}

// burn1155 returns the amount taken from account's balance, after any lazy
// portion was consumed.
func (e *Engine) burn1155(c *Collection, caller, account common.Address, id *uint256.Int, value *big.Int) (*big.Int, error) {
	if err := c.Control.WhenNotPaused(); err != nil {
		return nil, err
	}
	remaining := new(big.Int).Set(value)
	if minter := MinterOf(id); minter != (common.Address{}) && minter == caller {
		supply, err := e.loadSupply(c.Address, id)
		if err != nil {
			return nil, err
		}
		lazy := new(big.Int)
		if supply.TotalSupply.Sign() == 0 {
			lazy.Set(remaining)
		} else {
			lazy.Sub(supply.TotalSupply, supply.MintedSupply)
			if lazy.Cmp(remaining) > 0 {
				lazy.Set(remaining)
			}
		}
		if lazy.Sign() > 0 {
			supply.MintedSupply.Add(supply.MintedSupply, lazy)
			if err := e.storeSupply(c.Address, id, supply); err != nil {
				return nil, err
			}
			remaining.Sub(remaining, lazy)
			e.emit(NewBurnLazyEvent(c.Address, caller, account, id, lazy))
		}
	}
	if remaining.Sign() == 0 {
		return remaining, nil
	}
	if err := e.canOperate1155(c, caller, account); err != nil {
		return nil, err
	}
	bal, err := e.balance1155(c.Address, id, account)
	if err != nil {
		return nil, err
	}
	if bal.Cmp(remaining) < 0 {
		return nil, Err1155BurnExceeds
	}
	if err := e.writeBalance1155(c.Address, id, account, bal.Sub(bal, remaining)); err != nil {
		return nil, err
	}
	return remaining, nil
}
