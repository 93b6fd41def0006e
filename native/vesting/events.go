package vesting

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"ghostledger/core/types"
)

const (
	EventTypeVaultCreated     = "vesting.VaultCreated"
	EventTypeAddedBeneficiary = "vesting.AddedBeneficiary"
	EventTypeRelease          = "vesting.Release"
	EventTypeFulfilled        = "vesting.Fulfilled"
	EventTypeVoteRequested    = "vesting.VoteRequested"
	EventTypeVoted            = "vesting.Voted"
	EventTypeVoteState        = "vesting.VoteState"
	EventTypeFeeUpdated       = "vesting.FeeUpdated"
	EventTypeFeeWithdraw      = "vesting.FeeWithdraw"
)

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func u64(v uint64) string { return strconv.FormatUint(v, 10) }

func NewVaultCreatedEvent(contract common.Address, v *Vault) *types.Event {
	return &types.Event{Type: EventTypeVaultCreated, Attributes: map[string]string{
		"contract": contract.Hex(),
		"vaultId":  u64(v.ID),
		"token":    v.Token.Hex(),
		"fee":      amountString(v.Fee),
	}}
}

func NewAddedBeneficiaryEvent(contract common.Address, b *Beneficiary) *types.Event {
	return &types.Event{Type: EventTypeAddedBeneficiary, Attributes: map[string]string{
		"contract":    contract.Hex(),
		"vaultId":     u64(b.VaultID),
		"beneficiary": b.Beneficiary.Hex(),
		"amount":      amountString(b.Amount),
		"startTime":   u64(b.StartTime),
		"duration":    u64(b.Duration),
		"releaseType": strconv.Itoa(int(b.ReleaseType)),
	}}
}

// NewReleaseEvent reports a payout. fulfilled selects the Fulfilled type,
// used when the schedule has been paid in full.
func NewReleaseEvent(contract common.Address, b *Beneficiary, amount *big.Int, fulfilled bool) *types.Event {
	typ := EventTypeRelease
	if fulfilled {
		typ = EventTypeFulfilled
	}
	return &types.Event{Type: typ, Attributes: map[string]string{
		"contract":    contract.Hex(),
		"vaultId":     u64(b.VaultID),
		"beneficiary": b.Beneficiary.Hex(),
		"amount":      amountString(amount),
		"released":    amountString(b.Released),
	}}
}

func NewVoteRequestedEvent(contract, requester, target common.Address, value *big.Int, kind VoteKind) *types.Event {
	return &types.Event{Type: EventTypeVoteRequested, Attributes: map[string]string{
		"contract":  contract.Hex(),
		"requester": requester.Hex(),
		"target":    target.Hex(),
		"value":     amountString(value),
		"kind":      strconv.Itoa(int(kind)),
	}}
}

func NewVotedEvent(contract, voter, proposer, target common.Address, value *big.Int, kind VoteKind) *types.Event {
	return &types.Event{Type: EventTypeVoted, Attributes: map[string]string{
		"contract": contract.Hex(),
		"voter":    voter.Hex(),
		"proposer": proposer.Hex(),
		"target":   target.Hex(),
		"value":    amountString(value),
		"kind":     strconv.Itoa(int(kind)),
	}}
}

func NewVoteStateEvent(contract, caller, target common.Address, value *big.Int, kind VoteKind, out VoteOutcome) *types.Event {
	return &types.Event{Type: EventTypeVoteState, Attributes: map[string]string{
		"contract":  contract.Hex(),
		"caller":    caller.Hex(),
		"target":    target.Hex(),
		"value":     amountString(value),
		"votes":     u64(out.Votes),
		"threshold": u64(out.Threshold),
		"kind":      strconv.Itoa(int(kind)),
		"status":    out.Status.String(),
		"remaining": u64(out.Remaining()),
	}}
}

func NewFeeUpdatedEvent(contract, voter common.Address, fee *big.Int) *types.Event {
	return &types.Event{Type: EventTypeFeeUpdated, Attributes: map[string]string{
		"contract": contract.Hex(),
		"voter":    voter.Hex(),
		"fee":      amountString(fee),
	}}
}

func NewFeeWithdrawEvent(contract, voter, to common.Address, amount *big.Int) *types.Event {
	return &types.Event{Type: EventTypeFeeWithdraw, Attributes: map[string]string{
		"contract": contract.Hex(),
		"voter":    voter.Hex(),
		"to":       to.Hex(),
		"amount":   amountString(amount),
	}}
}
