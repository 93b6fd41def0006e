package token

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	nativecommon "ghostledger/native/common"
)

// Deploy creates a token contract owned by owner and mints the initial supply
// to the owner.
func (e *Engine) Deploy(owner common.Address, params Params) (common.Address, error) {
	var addr common.Address
	err := e.atomic("deploy", func() error {
		clean, err := params.Sanitize()
		if err != nil {
			return err
		}
		addr, err = nativecommon.DeriveAddress(e.state, owner)
		if err != nil {
			return err
		}
		tok := &Token{
			Address:        addr,
			Name:           clean.Name,
			Symbol:         clean.Symbol,
			Decimals:       clean.Decimals,
			TotalSupply:    clean.InitialSupply,
			TransferFeeBps: clean.TransferFeeBps,
			Control:        nativecommon.Control{Owner: owner},
		}
		if err := e.storeToken(tok); err != nil {
			return err
		}
		if err := e.state.KVAppend(tokenIndexKey, addr.Bytes()); err != nil {
			return err
		}
		if err := e.writeAmount(balanceKey(addr, owner), clean.InitialSupply); err != nil {
			return err
		}
		e.emit(NewTransferEvent(addr, common.Address{}, owner, clean.InitialSupply))
		return nil
	})
	if err != nil {
		return common.Address{}, err
	}
	return addr, nil
}

// Token returns a copy of the stored token metadata.
func (e *Engine) Token(addr common.Address) (*Token, error) {
	return e.loadToken(addr)
}

// Tokens lists every deployed token address in deployment order.
func (e *Engine) Tokens() ([]common.Address, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	var raw [][]byte
	if err := e.state.KVGetList(tokenIndexKey, &raw); err != nil {
		return nil, err
	}
	out := make([]common.Address, 0, len(raw))
	for _, b := range raw {
		out = append(out, common.BytesToAddress(b))
	}
	return out, nil
}

func (e *Engine) Decimals(token common.Address) (uint8, error) {
	tok, err := e.loadToken(token)
	if err != nil {
		return 0, err
	}
	return tok.Decimals, nil
}

func (e *Engine) TotalSupply(token common.Address) (*big.Int, error) {
	tok, err := e.loadToken(token)
	if err != nil {
		return nil, err
	}
	return cloneBigInt(tok.TotalSupply), nil
}

// IsFeeOnTransfer reports whether the token burns part of every transfer.
func (e *Engine) IsFeeOnTransfer(token common.Address) (bool, error) {
	tok, err := e.loadToken(token)
	if err != nil {
		return false, err
	}
	return tok.FeeOnTransfer(), nil
}

func (e *Engine) BalanceOf(token, holder common.Address) (*big.Int, error) {
	if _, err := e.loadToken(token); err != nil {
		return nil, err
	}
	return e.readAmount(balanceKey(token, holder))
}

func (e *Engine) Allowance(token, owner, spender common.Address) (*big.Int, error) {
	if _, err := e.loadToken(token); err != nil {
		return nil, err
	}
	return e.readAmount(allowanceKey(token, owner, spender))
}

// Transfer moves amount of token from caller to to.
func (e *Engine) Transfer(caller, token, to common.Address, amount *big.Int) error {
	return e.atomic("transfer", func() error {
		tok, err := e.loadToken(token)
		if err != nil {
			return err
		}
		return e.move(tok, caller, to, amount)
	})
}

// Approve sets spender's allowance over caller's balance.
func (e *Engine) Approve(caller, token, spender common.Address, amount *big.Int) error {
	return e.atomic("approve", func() error {
		if err := validAmount(amount); err != nil {
			return err
		}
		if spender == (common.Address{}) {
			return ErrApproveToZero
		}
		if _, err := e.loadToken(token); err != nil {
			return err
		}
		if err := e.writeAmount(allowanceKey(token, caller, spender), amount); err != nil {
			return err
		}
		e.emit(NewApprovalEvent(token, caller, spender, amount))
		return nil
	})
}

// TransferFrom moves amount from from to to using spender's allowance. The
// allowance is consumed before the balances move.
func (e *Engine) TransferFrom(spender, token, from, to common.Address, amount *big.Int) error {
	return e.atomic("transferFrom", func() error {
		tok, err := e.loadToken(token)
		if err != nil {
			return err
		}
		if err := validAmount(amount); err != nil {
			return err
		}
		allowed, err := e.readAmount(allowanceKey(token, from, spender))
		if err != nil {
			return err
		}
		if allowed.Cmp(amount) < 0 {
			return ErrInsufficientAllowance
		}
		if err := e.writeAmount(allowanceKey(token, from, spender), new(big.Int).Sub(allowed, amount)); err != nil {
			return err
		}
		return e.move(tok, from, to, amount)
	})
}

func (e *Engine) move(tok *Token, from, to common.Address, amount *big.Int) error {
	if err := validAmount(amount); err != nil {
		return err
	}
	if err := tok.Control.WhenNotPaused(); err != nil {
		return err
	}
	if to == (common.Address{}) {
		return ErrTransferToZero
	}
	fromBal, err := e.readAmount(balanceKey(tok.Address, from))
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	fee := new(big.Int)
	if tok.FeeOnTransfer() {
		fee.Mul(amount, new(big.Int).SetUint64(tok.TransferFeeBps))
		fee.Quo(fee, big.NewInt(MaxTransferFeeBps))
	}
	received := new(big.Int).Sub(amount, fee)
	if err := e.writeAmount(balanceKey(tok.Address, from), new(big.Int).Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal, err := e.readAmount(balanceKey(tok.Address, to))
	if err != nil {
		return err
	}
	if err := e.writeAmount(balanceKey(tok.Address, to), toBal.Add(toBal, received)); err != nil {
		return err
	}
	if fee.Sign() > 0 {
		tok.TotalSupply = new(big.Int).Sub(tok.TotalSupply, fee)
		if err := e.storeToken(tok); err != nil {
			return err
		}
		e.emit(NewTransferEvent(tok.Address, from, common.Address{}, fee))
	}
	e.emit(NewTransferEvent(tok.Address, from, to, received))
	return nil
}

func (e *Engine) Pause(caller, token common.Address) error {
	return e.atomic("pause", func() error {
		tok, err := e.loadToken(token)
		if err != nil {
			return err
		}
		if err := tok.Control.Pause(caller); err != nil {
			return err
		}
		if err := e.storeToken(tok); err != nil {
			return err
		}
		e.emit(NewPausedEvent(token, caller, true))
		return nil
	})
}

func (e *Engine) Unpause(caller, token common.Address) error {
	return e.atomic("unpause", func() error {
		tok, err := e.loadToken(token)
		if err != nil {
			return err
		}
		if err := tok.Control.Unpause(caller); err != nil {
			return err
		}
		if err := e.storeToken(tok); err != nil {
			return err
		}
		e.emit(NewPausedEvent(token, caller, false))
		return nil
	})
}

func (e *Engine) TransferOwnership(caller, token, newOwner common.Address) error {
	return e.atomic("transferOwnership", func() error {
		tok, err := e.loadToken(token)
		if err != nil {
			return err
		}
		previous := tok.Control.Owner
		if err := tok.Control.TransferOwnership(caller, newOwner); err != nil {
			return err
		}
		if err := e.storeToken(tok); err != nil {
			return err
		}
		e.emit(NewOwnershipTransferredEvent(token, previous, newOwner))
		return nil
	})
}
