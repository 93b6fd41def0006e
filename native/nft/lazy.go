package nft

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

func (e *Engine) observeRedemption(kind Kind) {
	if e.observer != nil {
		e.observer.ObserveLazyRedemption(kind.String())
	}
}

// MintAndTransfer721 redeems a voucher: the token is minted to its minter and
// immediately transferred to to.
func (e *Engine) MintAndTransfer721(caller, addr common.Address, v Mint721, to common.Address) error {
	err := e.atomic("mintAndTransfer", func() error {
		c, err := e.loadKind(addr, KindERC721)
		if err != nil {
			return err
		}
		return e.mintAndTransfer721(c, caller, v, to)
	})
	if err == nil {
		e.observeRedemption(KindERC721)
	}
	return err
}

func (e *Engine) mintAndTransfer721(c *Collection, caller common.Address, v Mint721, to common.Address) error {
	if v.TokenID == nil {
		return errNilTokenID
	}
	if MinterOf(v.TokenID) != v.Minter {
		return ErrTokenIDIncorrect
	}
	if err := e.authorizeMint(c, caller, v.Minter, func() error {
		return e.Validate721(c.Address, v)
	}); err != nil {
		return err
	}
	burned, err := e.isBurned(c.Address, v.TokenID)
	if err != nil {
		return err
	}
	if burned {
		return ErrAlreadyBurned
	}
	if err := validateRoyalties(v.Royalties); err != nil {
		return err
	}
	meta := &TokenMeta{
		URI:       v.TokenURI,
		Creator:   v.Minter,
		Royalties: cloneParts(v.Royalties),
		Lazy:      true,
	}
	if err := e.mint721(c, v.Minter, v.TokenID, meta, nil); err != nil {
		return err
	}
	e.emit(NewMintedEvent(c.Address, v.Minter, v.TokenID, v.TokenURI, nil))
	return e.transfer721(c, v.Minter, to, v.TokenID)
}

// TransferFromOrMint721 transfers the token when it exists and otherwise
// redeems the voucher, in which case from must be the minter.
func (e *Engine) TransferFromOrMint721(caller, addr common.Address, v Mint721, from, to common.Address) error {
	var lazy bool
	err := e.atomic("transferFromOrMint", func() error {
		c, err := e.loadKind(addr, KindERC721)
		if err != nil {
			return err
		}
		if v.TokenID == nil {
			return errNilTokenID
		}
		exists, err := e.exists721(addr, v.TokenID)
		if err != nil {
			return err
		}
		if exists {
			return e.transferFromChecked(c, caller, from, to, v.TokenID)
		}
		if from != v.Minter {
			return ErrWrongOrderMaker
		}
		lazy = true
		return e.mintAndTransfer721(c, caller, v, to)
	})
	if err == nil && lazy {
		e.observeRedemption(KindERC721)
	}
	return err
}

// MintAndTransfer1155 redeems amount units of a voucher. The first redemption
// fixes the id's total supply to the voucher amount.
func (e *Engine) MintAndTransfer1155(caller, addr common.Address, v Mint1155, to common.Address, amount *big.Int) error {
	err := e.atomic("mintAndTransfer", func() error {
		c, err := e.loadKind(addr, KindERC1155)
		if err != nil {
			return err
		}
		return e.mintAndTransfer1155(c, caller, v, to, amount)
	})
	if err == nil {
		e.observeRedemption(KindERC1155)
	}
	return err
}

func (e *Engine) mintAndTransfer1155(c *Collection, caller common.Address, v Mint1155, to common.Address, amount *big.Int) error {
	if v.TokenID == nil {
		return errNilTokenID
	}
	if amount == nil || amount.Sign() <= 0 {
		return errNilAmount
	}
	if MinterOf(v.TokenID) != v.Minter {
		return ErrTokenIDIncorrect
	}
	if v.Amount == nil || v.Amount.Sign() <= 0 {
		return ErrAmountIncorrect
	}
	if err := e.authorizeMint(c, caller, v.Minter, func() error {
		return e.Validate1155(c.Address, v)
	}); err != nil {
		return err
	}
	if err := validateRoyalties(v.Royalties); err != nil {
		return err
	}
	supply, err := e.loadSupply(c.Address, v.TokenID)
	if err != nil {
		return err
	}
	if supply.TotalSupply.Sign() == 0 {
		supply.TotalSupply.Set(v.Amount)
	}
	minted := new(big.Int).Add(supply.MintedSupply, amount)
	if minted.Cmp(supply.TotalSupply) > 0 {
		return ErrExceedsSupply
	}
	supply.MintedSupply = minted
	if err := e.storeSupply(c.Address, v.TokenID, supply); err != nil {
		return err
	}
	if _, ok, err := e.loadMeta(c.Address, v.TokenID); err != nil {
		return err
	} else if !ok {
		meta := &TokenMeta{
			URI:       v.TokenURI,
			Creator:   v.Minter,
			Royalties: cloneParts(v.Royalties),
			Lazy:      true,
		}
		if err := e.state.KVPut(metaKey(c.Address, v.TokenID), meta); err != nil {
			return err
		}
	}
	if err := e.mint1155(c, caller, v.Minter, v.TokenID, amount); err != nil {
		return err
	}
	e.emit(NewMintedEvent(c.Address, v.Minter, v.TokenID, v.TokenURI, amount))
	if to == v.Minter {
		return nil
	}
	if err := e.move1155(c, v.Minter, to, v.TokenID, amount); err != nil {
		return err
	}
	e.emit(NewTransferSingleEvent(c.Address, caller, v.Minter, to, v.TokenID, amount))
	return nil
}

// TransferFromOrMint1155 moves whatever from already holds and lazily mints
// the remainder, which requires from to be the minter.
func (e *Engine) TransferFromOrMint1155(caller, addr common.Address, v Mint1155, from, to common.Address, amount *big.Int) error {
	var lazy bool
	err := e.atomic("transferFromOrMint", func() error {
		c, err := e.loadKind(addr, KindERC1155)
		if err != nil {
			return err
		}
		if v.TokenID == nil {
			return errNilTokenID
		}
		if amount == nil || amount.Sign() <= 0 {
			return errNilAmount
		}
		held, err := e.balance1155(addr, v.TokenID, from)
		if err != nil {
			return err
		}
		transfer := new(big.Int).Set(amount)
		if held.Cmp(transfer) < 0 {
			transfer.Set(held)
		}
		if transfer.Sign() > 0 {
			if err := e.canOperate1155(c, caller, from); err != nil {
				return err
			}
			if err := e.move1155(c, from, to, v.TokenID, transfer); err != nil {
				return err
			}
			e.emit(NewTransferSingleEvent(addr, caller, from, to, v.TokenID, transfer))
		}
		remainder := new(big.Int).Sub(amount, transfer)
		if remainder.Sign() == 0 {
			return nil
		}
		if from != v.Minter {
			return ErrWrongOrderMaker
		}
		lazy = true
		return e.mintAndTransfer1155(c, caller, v, to, remainder)
	})
	if err == nil && lazy {
		e.observeRedemption(KindERC1155)
	}
	return err
}
