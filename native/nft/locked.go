package nft

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

func validateLockedContent(content []byte) error {
	if len(content) > MaxLockedContentBytes {
		return ErrLockedContentLong
	}
	return nil
}

func (e *Engine) storeLockedContent(c common.Address, id *uint256.Int, content []byte) error {
	if len(content) == 0 {
		return nil
	}
	return e.state.KVPut(lockedKey(c, id), content)
}

// GetLockedContent discloses the locked content to the current holder,
// bumping the view counter and logging the disclosure.
func (e *Engine) GetLockedContent(caller, addr common.Address, id *uint256.Int) ([]byte, error) {
	var content []byte
	err := e.atomic("getLockedContent", func() error {
		c, err := e.loadCollection(addr)
		if err != nil {
			return err
		}
		if id == nil {
			return errNilTokenID
		}
		holder, err := e.holds(c, caller, id)
		if err != nil {
			return err
		}
		if !holder {
			return ErrNotTokenOwner
		}
		var views uint64
		if _, err := e.state.KVGet(viewsKey(addr, id), &views); err != nil {
			return err
		}
		if err := e.state.KVPut(viewsKey(addr, id), views+1); err != nil {
			return err
		}
		if _, err := e.state.KVGet(lockedKey(addr, id), &content); err != nil {
			return err
		}
		e.emit(NewLockedContentViewedEvent(addr, caller, id, content))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return content, nil
}

// LockedContentViewCount returns how many times the content was disclosed.
func (e *Engine) LockedContentViewCount(addr common.Address, id *uint256.Int) (uint64, error) {
	if _, err := e.loadCollection(addr); err != nil {
		return 0, err
	}
	var views uint64
	if _, err := e.state.KVGet(viewsKey(addr, id), &views); err != nil {
		return 0, err
	}
	return views, nil
}

func (e *Engine) holds(c *Collection, who common.Address, id *uint256.Int) (bool, error) {
	if c.Kind == KindERC721 {
		owner, ok, err := e.ownerOf(c.Address, id)
		if err != nil {
			return false, err
		}
		return ok && owner == who, nil
	}
	bal, err := e.balance1155(c.Address, id, who)
	if err != nil {
		return false, err
	}
	return bal.Cmp(big.NewInt(0)) > 0, nil
}
