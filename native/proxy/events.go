package proxy

import (
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"ghostledger/core/types"
)

const (
	EventTypeProxyCreated         = "proxy.Created"
	EventTypeOperatorChanged      = "proxy.OperatorChanged"
	EventTypeOwnershipTransferred = "proxy.OwnershipTransferred"
)

func NewProxyCreatedEvent(proxy, owner common.Address, kind Kind) *types.Event {
	return &types.Event{Type: EventTypeProxyCreated, Attributes: map[string]string{
		"contract": proxy.Hex(),
		"owner":    owner.Hex(),
		"kind":     kind.String(),
	}}
}

func NewOperatorEvent(proxy, operator common.Address, added bool) *types.Event {
	return &types.Event{Type: EventTypeOperatorChanged, Attributes: map[string]string{
		"contract": proxy.Hex(),
		"operator": operator.Hex(),
		"added":    strconv.FormatBool(added),
	}}
}

func NewOwnershipTransferredEvent(proxy, previous, next common.Address) *types.Event {
	return &types.Event{Type: EventTypeOwnershipTransferred, Attributes: map[string]string{
		"contract":      proxy.Hex(),
		"previousOwner": previous.Hex(),
		"newOwner":      next.Hex(),
	}}
}
