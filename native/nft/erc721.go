package nft

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

func (e *Engine) ownerOf(addr common.Address, id *uint256.Int) (common.Address, bool, error) {
	var owner common.Address
	ok, err := e.state.KVGet(ownerKey(addr, id), &owner)
	if err != nil || !ok {
		return common.Address{}, false, err
	}
	return owner, true, nil
}

func (e *Engine) exists721(addr common.Address, id *uint256.Int) (bool, error) {
	_, ok, err := e.ownerOf(addr, id)
	return ok, err
}

func (e *Engine) isBurned(addr common.Address, id *uint256.Int) (bool, error) {
	return e.state.KVGet(burnedKey(addr, id), nil)
}

func (e *Engine) adjustHoldings(addr, holder common.Address, add bool) error {
	var count uint64
	if _, err := e.state.KVGet(holdingsKey(addr, holder), &count); err != nil {
		return err
	}
	if add {
		count++
	} else if count > 0 {
		count--
	}
	if count == 0 {
		return e.state.KVDelete(holdingsKey(addr, holder))
	}
	return e.state.KVPut(holdingsKey(addr, holder), count)
}

func (e *Engine) allTokens(addr common.Address) ([][]byte, error) {
	var ids [][]byte
	if err := e.state.KVGetList(allTokensKey(addr), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (e *Engine) dropFromIndex(addr common.Address, id *uint256.Int) error {
	ids, err := e.allTokens(addr)
	if err != nil {
		return err
	}
	target := idBytes(id)
	kept := ids[:0]
	for _, raw := range ids {
		if !bytes.Equal(raw, target) {
			kept = append(kept, raw)
		}
	}
	if len(kept) == 0 {
		return e.state.KVDelete(allTokensKey(addr))
	}
	return e.state.KVPut(allTokensKey(addr), kept)
}

// OwnerOf returns the holder of an ERC721 token.
func (e *Engine) OwnerOf(addr common.Address, id *uint256.Int) (common.Address, error) {
	if _, err := e.loadKind(addr, KindERC721); err != nil {
		return common.Address{}, err
	}
	if id == nil {
		return common.Address{}, errNilTokenID
	}
	owner, ok, err := e.ownerOf(addr, id)
	if err != nil {
		return common.Address{}, err
	}
	if !ok {
		return common.Address{}, ErrNonexistentToken
	}
	return owner, nil
}

// BalanceOf returns how many ERC721 tokens holder owns in the collection.
func (e *Engine) BalanceOf(addr, holder common.Address) (uint64, error) {
	if _, err := e.loadKind(addr, KindERC721); err != nil {
		return 0, err
	}
	var count uint64
	if _, err := e.state.KVGet(holdingsKey(addr, holder), &count); err != nil {
		return 0, err
	}
	return count, nil
}

// TotalSupply counts live ERC721 tokens.
func (e *Engine) TotalSupply(addr common.Address) (uint64, error) {
	if _, err := e.loadKind(addr, KindERC721); err != nil {
		return 0, err
	}
	ids, err := e.allTokens(addr)
	if err != nil {
		return 0, err
	}
	return uint64(len(ids)), nil
}

// TokenByIndex enumerates live ERC721 tokens.
func (e *Engine) TokenByIndex(addr common.Address, index uint64) (*uint256.Int, error) {
	if _, err := e.loadKind(addr, KindERC721); err != nil {
		return nil, err
	}
	ids, err := e.allTokens(addr)
	if err != nil {
		return nil, err
	}
	if index >= uint64(len(ids)) {
		return nil, ErrIndexOutOfBounds
	}
	return new(uint256.Int).SetBytes(ids[index]), nil
}

// GetApproved returns the single-token approval, if any.
func (e *Engine) GetApproved(addr common.Address, id *uint256.Int) (common.Address, error) {
	if _, err := e.loadKind(addr, KindERC721); err != nil {
		return common.Address{}, err
	}
	ok, err := e.exists721(addr, id)
	if err != nil {
		return common.Address{}, err
	}
	if !ok {
		return common.Address{}, ErrOperatorQuery
	}
	return e.getApproved(addr, id)
}

func (e *Engine) getApproved(addr common.Address, id *uint256.Int) (common.Address, error) {
	var approved common.Address
	if _, err := e.state.KVGet(approvedKey(addr, id), &approved); err != nil {
		return common.Address{}, err
	}
	return approved, nil
}

// Approve grants to the right to move one token.
func (e *Engine) Approve(caller, addr, to common.Address, id *uint256.Int) error {
	return e.atomic("approve", func() error {
		c, err := e.loadKind(addr, KindERC721)
		if err != nil {
			return err
		}
		if id == nil {
			return errNilTokenID
		}
		owner, ok, err := e.ownerOf(addr, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNonexistentToken
		}
		if to == owner {
			return ErrApprovalToOwner
		}
		if caller != owner {
			approved, err := e.isApprovedForAll(c, owner, caller)
			if err != nil {
				return err
			}
			if !approved {
				return ErrApproveNotAllowed
			}
		}
		if err := e.state.KVPut(approvedKey(addr, id), to); err != nil {
			return err
		}
		e.emit(NewApprovalEvent(addr, owner, to, id))
		return nil
	})
}

func (e *Engine) isApprovedOrOwner(c *Collection, spender common.Address, id *uint256.Int) (bool, error) {
	owner, ok, err := e.ownerOf(c.Address, id)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrOperatorQuery
	}
	if spender == owner {
		return true, nil
	}
	approved, err := e.getApproved(c.Address, id)
	if err != nil {
		return false, err
	}
	if approved == spender {
		return true, nil
	}
	return e.isApprovedForAll(c, owner, spender)
}

// TransferFrom moves an ERC721 token. The caller must be the owner, the
// approved address or an operator of the owner.
func (e *Engine) TransferFrom(caller, addr, from, to common.Address, id *uint256.Int) error {
	return e.atomic("transferFrom", func() error {
		c, err := e.loadKind(addr, KindERC721)
		if err != nil {
			return err
		}
		if id == nil {
			return errNilTokenID
		}
		return e.transferFromChecked(c, caller, from, to, id)
	})
}

func (e *Engine) transferFromChecked(c *Collection, caller, from, to common.Address, id *uint256.Int) error {
	allowed, err := e.isApprovedOrOwner(c, caller, id)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrTransferNotAllowed
	}
	return e.transfer721(c, from, to, id)
}

func (e *Engine) transfer721(c *Collection, from, to common.Address, id *uint256.Int) error {
	if err := c.Control.WhenNotPaused(); err != nil {
		return err
	}
	owner, ok, err := e.ownerOf(c.Address, id)
	if err != nil {
		return err
	}
	if !ok || owner != from {
		return ErrTransferNotOwn
	}
	if to == (common.Address{}) {
		return ErrTransferToZero
	}
	if err := e.state.KVDelete(approvedKey(c.Address, id)); err != nil {
		return err
	}
	if err := e.adjustHoldings(c.Address, from, false); err != nil {
		return err
	}
	if err := e.adjustHoldings(c.Address, to, true); err != nil {
		return err
	}
	if err := e.state.KVPut(ownerKey(c.Address, id), to); err != nil {
		return err
	}
	e.emit(NewTransferEvent(c.Address, from, to, id))
	return nil
}

// mint721 records a new token and its metadata. Locked content is stored
// only when non-empty.
func (e *Engine) mint721(c *Collection, to common.Address, id *uint256.Int, meta *TokenMeta, locked []byte) error {
	if err := c.Control.WhenNotPaused(); err != nil {
		return err
	}
	if to == (common.Address{}) {
		return ErrMintToZero
	}
	exists, err := e.exists721(c.Address, id)
	if err != nil {
		return err
	}
	if exists {
		return ErrTokenExists
	}
	if err := e.state.KVPut(ownerKey(c.Address, id), to); err != nil {
		return err
	}
	if err := e.adjustHoldings(c.Address, to, true); err != nil {
		return err
	}
	if err := e.state.KVAppend(allTokensKey(c.Address), idBytes(id)); err != nil {
		return err
	}
	if err := e.state.KVPut(metaKey(c.Address, id), meta); err != nil {
		return err
	}
	if err := e.storeLockedContent(c.Address, id, locked); err != nil {
		return err
	}
	e.emit(NewTransferEvent(c.Address, common.Address{}, to, id))
	return nil
}

// MintGhost721 mints the next counter id to to. Anyone may mint.
func (e *Engine) MintGhost721(caller, addr, to common.Address, royalties []Part, externalURI string, locked []byte) (*uint256.Int, error) {
	var minted *uint256.Int
	err := e.atomic("mintGhost", func() error {
		c, err := e.loadKind(addr, KindERC721)
		if err != nil {
			return err
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
		meta := &TokenMeta{
			URI:         id.Dec(),
			ExternalURI: externalURI,
			Creator:     caller,
			Royalties:   cloneParts(royalties),
		}
		if err := e.mint721(c, to, id, meta, locked); err != nil {
			return err
		}
		c.Counter++
		if err := e.storeCollection(c); err != nil {
			return err
		}
		e.emit(NewMintedEvent(addr, to, id, externalURI, nil))
		minted = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return minted, nil
}

// Burn721 destroys a token and tombstones its id. An id that was never
// minted can be tombstoned by the minter encoded in it, which voids any
// voucher for that id.
func (e *Engine) Burn721(caller, addr common.Address, id *uint256.Int) error {
	return e.atomic("burn", func() error {
		c, err := e.loadKind(addr, KindERC721)
		if err != nil {
			return err
		}
		return e.burn721(c, caller, id)
	})
}

// BurnBatch721 burns every id in order; any failure reverts the batch.
func (e *Engine) BurnBatch721(caller, addr common.Address, ids []*uint256.Int) error {
	return e.atomic("burnBatch", func() error {
		c, err := e.loadKind(addr, KindERC721)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := e.burn721(c, caller, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func (e *Engine) burn721(c *Collection, caller common.Address, id *uint256.Int) error {
	if id == nil {
		return errNilTokenID
	}
	if err := c.Control.WhenNotPaused(); err != nil {
		return err
	}
	owner, exists, err := e.ownerOf(c.Address, id)
	if err != nil {
		return err
	}
	if !exists {
		minter := MinterOf(id)
		if minter != caller || minter == (common.Address{}) {
			return ErrBurnNotAllowed
		}
		burned, err := e.isBurned(c.Address, id)
		if err != nil {
			return err
		}
		if burned {
			return ErrAlreadyBurned
		}
		if err := e.state.KVPut(burnedKey(c.Address, id), true); err != nil {
			return err
		}
		e.emit(NewTransferEvent(c.Address, common.Address{}, minter, id))
		e.emit(NewTransferEvent(c.Address, minter, common.Address{}, id))
		return nil
	}
	allowed, err := e.isApprovedOrOwner(c, caller, id)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrBurnNotAllowed
	}
	for _, key := range [][]byte{
		approvedKey(c.Address, id),
		ownerKey(c.Address, id),
		metaKey(c.Address, id),
		lockedKey(c.Address, id),
	} {
		if err := e.state.KVDelete(key); err != nil {
			return err
		}
	}
	if err := e.adjustHoldings(c.Address, owner, false); err != nil {
		return err
	}
	if err := e.dropFromIndex(c.Address, id); err != nil {
		return err
	}
	if err := e.state.KVPut(burnedKey(c.Address, id), true); err != nil {
		return err
	}
	e.emit(NewTransferEvent(c.Address, owner, common.Address{}, id))
	return nil
}

// IsBurned reports whether id has been tombstoned.
func (e *Engine) IsBurned(addr common.Address, id *uint256.Int) (bool, error) {
	if _, err := e.loadCollection(addr); err != nil {
		return false, err
	}
	return e.isBurned(addr, id)
}
