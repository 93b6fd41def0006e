package token

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// NativeBalance returns the native currency balance of holder.
func (e *Engine) NativeBalance(holder common.Address) (*big.Int, error) {
	return e.readAmount(nativeKey(holder))
}

// CreditNative mints native currency to holder. Used for genesis funding.
func (e *Engine) CreditNative(holder common.Address, amount *big.Int) error {
	return e.atomic("creditNative", func() error {
		if err := validAmount(amount); err != nil {
			return err
		}
		bal, err := e.readAmount(nativeKey(holder))
		if err != nil {
			return err
		}
		return e.writeAmount(nativeKey(holder), bal.Add(bal, amount))
	})
}

// TransferNative moves native currency between accounts.
func (e *Engine) TransferNative(from, to common.Address, amount *big.Int) error {
	return e.atomic("transferNative", func() error {
		if err := validAmount(amount); err != nil {
			return err
		}
		fromBal, err := e.readAmount(nativeKey(from))
		if err != nil {
			return err
		}
		if fromBal.Cmp(amount) < 0 {
			return ErrInsufficientNative
		}
		if err := e.writeAmount(nativeKey(from), new(big.Int).Sub(fromBal, amount)); err != nil {
			return err
		}
		toBal, err := e.readAmount(nativeKey(to))
		if err != nil {
			return err
		}
		if err := e.writeAmount(nativeKey(to), toBal.Add(toBal, amount)); err != nil {
			return err
		}
		e.emit(NewNativeTransferEvent(from, to, amount))
		return nil
	})
}
