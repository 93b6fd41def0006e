package token

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"ghostledger/core/types"
)

const (
	EventTypeTransfer             = "token.Transfer"
	EventTypeApproval             = "token.Approval"
	EventTypePaused               = "token.Paused"
	EventTypeUnpaused             = "token.Unpaused"
	EventTypeOwnershipTransferred = "token.OwnershipTransferred"
	EventTypeNativeTransfer       = "native.Transfer"
)

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// NewTransferEvent mirrors ERC20 Transfer(from, to, value).
func NewTransferEvent(token, from, to common.Address, value *big.Int) *types.Event {
	return &types.Event{Type: EventTypeTransfer, Attributes: map[string]string{
		"contract": token.Hex(),
		"from":     from.Hex(),
		"to":       to.Hex(),
		"value":    amountString(value),
	}}
}

// NewApprovalEvent mirrors ERC20 Approval(owner, spender, value).
func NewApprovalEvent(token, owner, spender common.Address, value *big.Int) *types.Event {
	return &types.Event{Type: EventTypeApproval, Attributes: map[string]string{
		"contract": token.Hex(),
		"owner":    owner.Hex(),
		"spender":  spender.Hex(),
		"value":    amountString(value),
	}}
}

func NewPausedEvent(token, account common.Address, paused bool) *types.Event {
	typ := EventTypeUnpaused
	if paused {
		typ = EventTypePaused
	}
	return &types.Event{Type: typ, Attributes: map[string]string{
		"contract": token.Hex(),
		"account":  account.Hex(),
		"paused":   strconv.FormatBool(paused),
	}}
}

func NewOwnershipTransferredEvent(token, previous, next common.Address) *types.Event {
	return &types.Event{Type: EventTypeOwnershipTransferred, Attributes: map[string]string{
		"contract":      token.Hex(),
		"previousOwner": previous.Hex(),
		"newOwner":      next.Hex(),
	}}
}

func NewNativeTransferEvent(from, to common.Address, value *big.Int) *types.Event {
	return &types.Event{Type: EventTypeNativeTransfer, Attributes: map[string]string{
		"from":  from.Hex(),
		"to":    to.Hex(),
		"value": amountString(value),
	}}
}
