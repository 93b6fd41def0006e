package staking

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"ghostledger/core/types"
)

const (
	EventTypePoolCreated                  = "staking.PoolCreated"
	EventTypeDeposit                      = "staking.Deposit"
	EventTypeWithdraw                     = "staking.Withdraw"
	EventTypeHarvest                      = "staking.Harvest"
	EventTypeEmergencyWithdraw            = "staking.EmergencyWithdraw"
	EventTypeAdminRewardDeposit           = "staking.AdminRewardDeposit"
	EventTypeAdminRewardWithdraw          = "staking.AdminRewardWithdraw"
	EventTypeNewRewardPerBlockAndEndBlock = "staking.NewRewardPerBlockAndEndBlock"
	EventTypePaused                       = "staking.Paused"
	EventTypeUnpaused                     = "staking.Unpaused"
	EventTypeOwnershipTransferred         = "staking.OwnershipTransferred"
)

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func NewPoolCreatedEvent(p *Pool) *types.Event {
	return &types.Event{Type: EventTypePoolCreated, Attributes: map[string]string{
		"contract":       p.Address.Hex(),
		"stakedToken":    p.StakedToken.Hex(),
		"rewardToken":    p.RewardToken.Hex(),
		"rewardPerBlock": amountString(p.RewardPerBlock),
		"startBlock":     strconv.FormatUint(p.StartBlock, 10),
		"endBlock":       strconv.FormatUint(p.EndBlock, 10),
	}}
}

func userEvent(typ string, pool, user common.Address, amount, reward *big.Int) *types.Event {
	attrs := map[string]string{
		"contract": pool.Hex(),
		"user":     user.Hex(),
	}
	if amount != nil {
		attrs["amount"] = amount.String()
	}
	if reward != nil {
		attrs["reward"] = reward.String()
	}
	return &types.Event{Type: typ, Attributes: attrs}
}

func NewDepositEvent(pool, user common.Address, amount, reward *big.Int) *types.Event {
	return userEvent(EventTypeDeposit, pool, user, amount, reward)
}

func NewWithdrawEvent(pool, user common.Address, amount, reward *big.Int) *types.Event {
	return userEvent(EventTypeWithdraw, pool, user, amount, reward)
}

func NewHarvestEvent(pool, user common.Address, reward *big.Int) *types.Event {
	return userEvent(EventTypeHarvest, pool, user, nil, reward)
}

func NewEmergencyWithdrawEvent(pool, user common.Address, amount *big.Int) *types.Event {
	return userEvent(EventTypeEmergencyWithdraw, pool, user, amount, nil)
}

func NewAdminRewardEvent(pool common.Address, deposit bool, amount *big.Int) *types.Event {
	typ := EventTypeAdminRewardWithdraw
	if deposit {
		typ = EventTypeAdminRewardDeposit
	}
	return &types.Event{Type: typ, Attributes: map[string]string{
		"contract": pool.Hex(),
		"amount":   amountString(amount),
	}}
}

func NewRewardPerBlockAndEndBlockEvent(pool common.Address, rate *big.Int, endBlock uint64) *types.Event {
	return &types.Event{Type: EventTypeNewRewardPerBlockAndEndBlock, Attributes: map[string]string{
		"contract":       pool.Hex(),
		"rewardPerBlock": amountString(rate),
		"endBlock":       strconv.FormatUint(endBlock, 10),
	}}
}

func NewPauseEvent(pool, account common.Address, paused bool) *types.Event {
	typ := EventTypeUnpaused
	if paused {
		typ = EventTypePaused
	}
	return &types.Event{Type: typ, Attributes: map[string]string{
		"contract": pool.Hex(),
		"account":  account.Hex(),
	}}
}

func NewOwnershipTransferredEvent(pool, previous, next common.Address) *types.Event {
	return &types.Event{Type: EventTypeOwnershipTransferred, Attributes: map[string]string{
		"contract":      pool.Hex(),
		"previousOwner": previous.Hex(),
		"newOwner":      next.Hex(),
	}}
}
