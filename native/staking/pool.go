package staking

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"ghostledger/native/token"
)

// accrue advances the accumulator to block. The first accrual clamps the
// last reward block to the start block; blocks that pass with nothing staked
// are skipped rather than banked.
func (p *Pool) accrue(block uint64) {
	if p.LastRewardBlock < p.StartBlock {
		p.LastRewardBlock = p.StartBlock
	}
	upTo := block
	if upTo > p.EndBlock {
		upTo = p.EndBlock
	}
	if upTo <= p.LastRewardBlock {
		return
	}
	if p.TotalStaked.Sign() > 0 {
		reward := new(big.Int).SetUint64(upTo - p.LastRewardBlock)
		reward.Mul(reward, p.RewardPerBlock)
		reward.Mul(reward, p.PrecisionFactor)
		reward.Quo(reward, p.TotalStaked)
		p.AccTokenPerShare.Add(p.AccTokenPerShare, reward)
	}
	p.LastRewardBlock = upTo
}

// accumulated is amount * accTokenPerShare / precisionFactor.
func (p *Pool) accumulated(amount *big.Int) *big.Int {
	out := new(big.Int).Mul(amount, p.AccTokenPerShare)
	return out.Quo(out, p.PrecisionFactor)
}

func (p *Pool) pending(u *UserInfo) *big.Int {
	out := p.accumulated(u.Amount)
	out.Sub(out, u.RewardDebt)
	if out.Sign() < 0 {
		out.SetInt64(0)
	}
	return out
}

// claim debits the reward reserve for the user's pending reward and returns
// the amount to pay.
func (p *Pool) claim(u *UserInfo) (*big.Int, error) {
	reward := p.pending(u)
	if reward.Sign() == 0 {
		return reward, nil
	}
	if p.RewardReserve.Cmp(reward) < 0 {
		return nil, token.ErrInsufficientBalance
	}
	p.RewardReserve.Sub(p.RewardReserve, reward)
	return reward, nil
}

func (e *Engine) save(p *Pool, user common.Address, u *UserInfo) error {
	u.RewardDebt = p.accumulated(u.Amount)
	if err := e.storeUser(p.Address, user, u); err != nil {
		return err
	}
	return e.storePool(p)
}

func (e *Engine) payReward(p *Pool, user common.Address, reward *big.Int) error {
	if reward.Sign() == 0 {
		return nil
	}
	return e.tokens.Transfer(p.Address, p.RewardToken, user, reward)
}

// userCall loads the pool and the caller's position, brings the accumulator
// up to the current block and hands both to fn.
func (e *Engine) userCall(op string, caller, addr common.Address, fn func(p *Pool, u *UserInfo) error) error {
	var pool *Pool
	err := e.atomic(op, func() error {
		p, err := e.loadPool(addr)
		if err != nil {
			return err
		}
		u, err := e.loadUser(addr, caller)
		if err != nil {
			return err
		}
		p.accrue(e.heightFn())
		if err := fn(p, u); err != nil {
			return err
		}
		pool = p
		return nil
	})
	if err == nil {
		e.observe(pool)
	}
	return err
}

// Deposit stakes amount, paying out any pending reward first. A zero amount
// only settles the reward.
func (e *Engine) Deposit(caller, addr common.Address, amount *big.Int) error {
	return e.userCall("deposit", caller, addr, func(p *Pool, u *UserInfo) error {
		if amount == nil || amount.Sign() < 0 {
			return ErrNegativeAmount
		}
		if err := p.Control.WhenNotPaused(); err != nil {
			return err
		}
		reward, err := p.claim(u)
		if err != nil {
			return err
		}
		u.Amount.Add(u.Amount, amount)
		p.TotalStaked.Add(p.TotalStaked, amount)
		if err := e.save(p, caller, u); err != nil {
			return err
		}
		if amount.Sign() > 0 {
			if err := e.tokens.TransferFrom(p.Address, p.StakedToken, caller, p.Address, amount); err != nil {
				return err
			}
		}
		if err := e.payReward(p, caller, reward); err != nil {
			return err
		}
		e.emit(NewDepositEvent(p.Address, caller, amount, reward))
		return nil
	})
}

// Withdraw returns amount of principal together with the pending reward.
func (e *Engine) Withdraw(caller, addr common.Address, amount *big.Int) error {
	return e.userCall("withdraw", caller, addr, func(p *Pool, u *UserInfo) error {
		if amount == nil || amount.Sign() <= 0 || amount.Cmp(u.Amount) > 0 {
			return ErrInvalidAmount
		}
		if err := p.Control.WhenNotPaused(); err != nil {
			return err
		}
		reward, err := p.claim(u)
		if err != nil {
			return err
		}
		u.Amount.Sub(u.Amount, amount)
		p.TotalStaked.Sub(p.TotalStaked, amount)
		if err := e.save(p, caller, u); err != nil {
			return err
		}
		if err := e.tokens.Transfer(p.Address, p.StakedToken, caller, amount); err != nil {
			return err
		}
		if err := e.payReward(p, caller, reward); err != nil {
			return err
		}
		e.emit(NewWithdrawEvent(p.Address, caller, amount, reward))
		return nil
	})
}

// Harvest pays the pending reward without touching principal.
func (e *Engine) Harvest(caller, addr common.Address) error {
	return e.userCall("harvest", caller, addr, func(p *Pool, u *UserInfo) error {
		if err := p.Control.WhenNotPaused(); err != nil {
			return err
		}
		reward, err := p.claim(u)
		if err != nil {
			return err
		}
		if err := e.save(p, caller, u); err != nil {
			return err
		}
		if err := e.payReward(p, caller, reward); err != nil {
			return err
		}
		e.emit(NewHarvestEvent(p.Address, caller, reward))
		return nil
	})
}

// EmergencyWithdraw returns the caller's whole principal and forfeits any
// unclaimed reward. Only allowed while the pool is paused.
func (e *Engine) EmergencyWithdraw(caller, addr common.Address) error {
	var pool *Pool
	err := e.atomic("emergencyWithdraw", func() error {
		p, err := e.loadPool(addr)
		if err != nil {
			return err
		}
		if err := p.Control.WhenPaused(); err != nil {
			return err
		}
		u, err := e.loadUser(addr, caller)
		if err != nil {
			return err
		}
		amount := new(big.Int).Set(u.Amount)
		p.TotalStaked.Sub(p.TotalStaked, amount)
		if err := e.storeUser(addr, caller, &UserInfo{Amount: big.NewInt(0), RewardDebt: big.NewInt(0)}); err != nil {
			return err
		}
		if err := e.storePool(p); err != nil {
			return err
		}
		if amount.Sign() > 0 {
			if err := e.tokens.Transfer(p.Address, p.StakedToken, caller, amount); err != nil {
				return err
			}
		}
		e.emit(NewEmergencyWithdrawEvent(p.Address, caller, amount))
		pool = p
		return nil
	})
	if err == nil {
		e.observe(pool)
	}
	return err
}

// PendingReward projects the caller's reward to the current block without
// changing state.
func (e *Engine) PendingReward(addr, user common.Address) (*big.Int, error) {
	p, err := e.loadPool(addr)
	if err != nil {
		return nil, err
	}
	u, err := e.loadUser(addr, user)
	if err != nil {
		return nil, err
	}
	p.accrue(e.heightFn())
	return p.pending(u), nil
}

func (e *Engine) ownerCall(op string, caller, addr common.Address, fn func(p *Pool) error) error {
	var pool *Pool
	err := e.atomic(op, func() error {
		p, err := e.loadPool(addr)
		if err != nil {
			return err
		}
		if err := p.Control.RequireOwner(caller); err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		pool = p
		return nil
	})
	if err == nil {
		e.observe(pool)
	}
	return err
}

// AdminRewardDeposit moves reward liquidity from the owner into the pool.
func (e *Engine) AdminRewardDeposit(caller, addr common.Address, amount *big.Int) error {
	return e.ownerCall("adminRewardDeposit", caller, addr, func(p *Pool) error {
		if amount == nil || amount.Sign() <= 0 {
			return ErrNegativeAmount
		}
		p.RewardReserve.Add(p.RewardReserve, amount)
		if err := e.storePool(p); err != nil {
			return err
		}
		if err := e.tokens.TransferFrom(p.Address, p.RewardToken, caller, p.Address, amount); err != nil {
			return err
		}
		e.emit(NewAdminRewardEvent(p.Address, true, amount))
		return nil
	})
}

// AdminRewardWithdraw returns unused reward liquidity to the owner.
func (e *Engine) AdminRewardWithdraw(caller, addr common.Address, amount *big.Int) error {
	return e.ownerCall("adminRewardWithdraw", caller, addr, func(p *Pool) error {
		if amount == nil || amount.Sign() <= 0 {
			return ErrNegativeAmount
		}
		if p.RewardReserve.Cmp(amount) < 0 {
			return token.ErrInsufficientBalance
		}
		p.RewardReserve.Sub(p.RewardReserve, amount)
		if err := e.storePool(p); err != nil {
			return err
		}
		if err := e.tokens.Transfer(p.Address, p.RewardToken, caller, amount); err != nil {
			return err
		}
		e.emit(NewAdminRewardEvent(p.Address, false, amount))
		return nil
	})
}

// UpdateRewardPerBlockAndEndBlock accrues at the old rate up to the current
// block and then installs the new rate and end block.
func (e *Engine) UpdateRewardPerBlockAndEndBlock(caller, addr common.Address, rate *big.Int, endBlock uint64) error {
	return e.ownerCall("updateRewardPerBlockAndEndBlock", caller, addr, func(p *Pool) error {
		if rate == nil || rate.Sign() < 0 {
			return ErrNegativeAmount
		}
		block := e.heightFn()
		if endBlock <= block {
			return ErrInvalidEndBlock
		}
		p.accrue(block)
		p.RewardPerBlock = new(big.Int).Set(rate)
		p.EndBlock = endBlock
		if err := e.storePool(p); err != nil {
			return err
		}
		e.emit(NewRewardPerBlockAndEndBlockEvent(p.Address, rate, endBlock))
		return nil
	})
}
