package vesting

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

func (e *Engine) loadVault(token common.Address) (*Vault, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	var v Vault
	ok, err := e.state.KVGet(vaultKey(token), &v)
	if err != nil {
		return nil, fmt.Errorf("vesting: load vault %s: %w", token.Hex(), err)
	}
	if !ok {
		return nil, ErrVaultNotFound
	}
	if v.Fee == nil {
		v.Fee = big.NewInt(0)
	}
	return &v, nil
}

func (e *Engine) loadBeneficiary(token, beneficiary common.Address) (*Beneficiary, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	var b Beneficiary
	ok, err := e.state.KVGet(beneficiaryKey(token, beneficiary), &b)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBeneficiaryNotFound
	}
	b.normalize()
	return &b, nil
}

// CreateVault opens the vault for token. value is the native amount the
// caller pays and must equal the current vault fee.
func (e *Engine) CreateVault(caller, token common.Address, value *big.Int) (uint64, error) {
	var created *Vault
	err := e.atomic("createVault", func() error {
		exists, err := e.state.KVGet(vaultKey(token), nil)
		if err != nil {
			return err
		}
		if exists {
			return ErrVaultExists
		}
		fee, err := e.VaultFee()
		if err != nil {
			return err
		}
		if value == nil {
			value = big.NewInt(0)
		}
		if value.Cmp(fee) != 0 {
			return ErrWrongFee
		}
		deflationary, err := e.tokens.IsFeeOnTransfer(token)
		if err != nil {
			return err
		}
		if deflationary {
			return ErrDeflationary
		}
		var next uint64
		if _, err := e.state.KVGet(nextVaultKey, &next); err != nil {
			return err
		}
		next++
		v := &Vault{
			ID:        next,
			Token:     token,
			Creator:   caller,
			Fee:       new(big.Int).Set(fee),
			CreatedAt: e.now(),
		}
		if err := e.state.KVPut(nextVaultKey, next); err != nil {
			return err
		}
		if err := e.state.KVPut(vaultKey(token), v); err != nil {
			return err
		}
		if err := e.state.KVAppend(vaultIndexKey, token.Bytes()); err != nil {
			return err
		}
		if fee.Sign() > 0 {
			if err := e.tokens.TransferNative(caller, e.address, fee); err != nil {
				return err
			}
		}
		e.emit(NewVaultCreatedEvent(e.address, v))
		created = v
		return nil
	})
	if err != nil {
		return 0, err
	}
	e.observeFees()
	return created.ID, nil
}

// Vault returns the vault for token.
func (e *Engine) Vault(token common.Address) (*Vault, error) {
	return e.loadVault(token)
}

// ActiveVaults lists every vault in creation order.
func (e *Engine) ActiveVaults() ([]*Vault, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	var raw [][]byte
	if err := e.state.KVGetList(vaultIndexKey, &raw); err != nil {
		return nil, err
	}
	out := make([]*Vault, 0, len(raw))
	for _, b := range raw {
		v, err := e.loadVault(common.BytesToAddress(b))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// AddBeneficiary locks p.Amount of p.Token for p.Beneficiary. Durations
// longer than ten years are rejected; see AddBeneficiaryExtended.
func (e *Engine) AddBeneficiary(caller common.Address, p BeneficiaryParams) error {
	if p.Duration > MaxShortLock {
		return ErrDurationTooLong
	}
	return e.addBeneficiary("addBeneficiary", caller, p)
}

// AddBeneficiaryExtended is AddBeneficiary without the duration cap.
func (e *Engine) AddBeneficiaryExtended(caller common.Address, p BeneficiaryParams) error {
	return e.addBeneficiary("addBeneficiaryExtended", caller, p)
}

func (e *Engine) addBeneficiary(op string, caller common.Address, p BeneficiaryParams) error {
	return e.atomic(op, func() error {
		if err := p.validate(); err != nil {
			return err
		}
		vault, err := e.loadVault(p.Token)
		if err != nil {
			return err
		}
		if vault.Creator != caller {
			return ErrNotVaultCreator
		}
		exists, err := e.state.KVGet(beneficiaryKey(p.Token, p.Beneficiary), nil)
		if err != nil {
			return err
		}
		if exists {
			return ErrBeneficiaryExists
		}
		allowance, err := e.tokens.Allowance(p.Token, caller, e.address)
		if err != nil {
			return err
		}
		if allowance.Cmp(p.Amount) < 0 {
			return ErrAllowanceInsufficient
		}
		before, err := e.tokens.BalanceOf(p.Token, e.address)
		if err != nil {
			return err
		}
		if err := e.tokens.TransferFrom(e.address, p.Token, caller, e.address, p.Amount); err != nil {
			return err
		}
		after, err := e.tokens.BalanceOf(p.Token, e.address)
		if err != nil {
			return err
		}
		if new(big.Int).Sub(after, before).Cmp(p.Amount) != 0 {
			return ErrDeflationary
		}
		b := &Beneficiary{
			VaultID:     vault.ID,
			Token:       p.Token,
			Beneficiary: p.Beneficiary,
			Amount:      new(big.Int).Set(p.Amount),
			Released:    big.NewInt(0),
			StartTime:   p.StartTime,
			Duration:    p.Duration,
			Cliff:       p.Cliff,
			ReleaseType: p.ReleaseType,
		}
		if err := e.state.KVPut(beneficiaryKey(p.Token, p.Beneficiary), b); err != nil {
			return err
		}
		e.emit(NewAddedBeneficiaryEvent(e.address, b))
		return nil
	})
}

func (p BeneficiaryParams) validate() error {
	if p.Beneficiary == (common.Address{}) {
		return ErrZeroBeneficiary
	}
	if p.Amount == nil || p.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if p.Duration == 0 {
		return ErrInvalidDuration
	}
	if p.Cliff > p.Duration {
		return ErrCliffTooLong
	}
	if !p.ReleaseType.valid() {
		return ErrInvalidReleaseType
	}
	if p.StartTime > math.MaxUint64-p.Duration {
		return ErrScheduleOverflow
	}
	return nil
}

// ReadBeneficiary returns the stored schedule.
func (e *Engine) ReadBeneficiary(token, beneficiary common.Address) (*Beneficiary, error) {
	return e.loadBeneficiary(token, beneficiary)
}

// ReleasableAmount is what Release would pay right now.
func (e *Engine) ReleasableAmount(token, beneficiary common.Address) (*big.Int, error) {
	b, err := e.loadBeneficiary(token, beneficiary)
	if err != nil {
		return nil, err
	}
	return Releasable(b, e.now()), nil
}

// Release pays the beneficiary whatever has unlocked. A schedule paid in
// full is deleted, which frees the token and beneficiary pair for reuse.
func (e *Engine) Release(caller, token, beneficiary common.Address) (*big.Int, error) {
	var paid *big.Int
	err := e.atomic("release", func() error {
		b, err := e.loadBeneficiary(token, beneficiary)
		if err != nil {
			return err
		}
		amount := Releasable(b, e.now())
		if amount.Sign() == 0 {
			return ErrNothingToRelease
		}
		b.Released.Add(b.Released, amount)
		fulfilled := b.Released.Cmp(b.Amount) >= 0
		if fulfilled {
			err = e.state.KVDelete(beneficiaryKey(token, beneficiary))
		} else {
			err = e.state.KVPut(beneficiaryKey(token, beneficiary), b)
		}
		if err != nil {
			return err
		}
		if err := e.tokens.Transfer(e.address, token, beneficiary, amount); err != nil {
			return err
		}
		e.emit(NewReleaseEvent(e.address, b, amount, fulfilled))
		paid = amount
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paid, nil
}
