package nft

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"ghostledger/core/types"
)

const (
	EventTypeCollectionCreated    = "nft.CollectionCreated"
	EventTypeTransfer             = "nft.Transfer"
	EventTypeApproval             = "nft.Approval"
	EventTypeApprovalForAll       = "nft.ApprovalForAll"
	EventTypeTransferSingle       = "nft.TransferSingle"
	EventTypeTransferBatch        = "nft.TransferBatch"
	EventTypeMinted               = "nft.Minted"
	EventTypeBurnLazy             = "nft.BurnLazy"
	EventTypeLockedContentViewed  = "nft.LockedContentViewed"
	EventTypePaused               = "nft.Paused"
	EventTypeUnpaused             = "nft.Unpaused"
	EventTypeOwnershipTransferred = "nft.OwnershipTransferred"
	EventTypeBaseURIChanged       = "nft.BaseURIChanged"
	EventTypeDefaultApproval      = "nft.DefaultApproval"
)

func idString(id *uint256.Int) string {
	if id == nil {
		return "0"
	}
	return id.Dec()
}

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func NewCollectionCreatedEvent(c *Collection) *types.Event {
	return &types.Event{Type: EventTypeCollectionCreated, Attributes: map[string]string{
		"contract": c.Address.Hex(),
		"kind":     c.Kind.String(),
		"owner":    c.Control.Owner.Hex(),
		"name":     c.Name,
		"symbol":   c.Symbol,
	}}
}

// NewTransferEvent mirrors ERC721 Transfer(from, to, tokenId).
func NewTransferEvent(contract, from, to common.Address, id *uint256.Int) *types.Event {
	return &types.Event{Type: EventTypeTransfer, Attributes: map[string]string{
		"contract": contract.Hex(),
		"from":     from.Hex(),
		"to":       to.Hex(),
		"tokenId":  idString(id),
	}}
}

func NewApprovalEvent(contract, owner, approved common.Address, id *uint256.Int) *types.Event {
	return &types.Event{Type: EventTypeApproval, Attributes: map[string]string{
		"contract": contract.Hex(),
		"owner":    owner.Hex(),
		"approved": approved.Hex(),
		"tokenId":  idString(id),
	}}
}

func NewApprovalForAllEvent(contract, owner, operator common.Address, approved bool) *types.Event {
	return &types.Event{Type: EventTypeApprovalForAll, Attributes: map[string]string{
		"contract": contract.Hex(),
		"owner":    owner.Hex(),
		"operator": operator.Hex(),
		"approved": strconv.FormatBool(approved),
	}}
}

// NewTransferSingleEvent mirrors ERC1155 TransferSingle.
func NewTransferSingleEvent(contract, operator, from, to common.Address, id *uint256.Int, value *big.Int) *types.Event {
	return &types.Event{Type: EventTypeTransferSingle, Attributes: map[string]string{
		"contract": contract.Hex(),
		"operator": operator.Hex(),
		"from":     from.Hex(),
		"to":       to.Hex(),
		"id":       idString(id),
		"value":    amountString(value),
	}}
}

// NewTransferBatchEvent mirrors ERC1155 TransferBatch. Ids and values are
// comma separated in call order.
func NewTransferBatchEvent(contract, operator, from, to common.Address, ids []*uint256.Int, values []*big.Int) *types.Event {
	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = idString(id)
	}
	valStrs := make([]string, len(values))
	for i, v := range values {
		valStrs[i] = amountString(v)
	}
	return &types.Event{Type: EventTypeTransferBatch, Attributes: map[string]string{
		"contract": contract.Hex(),
		"operator": operator.Hex(),
		"from":     from.Hex(),
		"to":       to.Hex(),
		"ids":      strings.Join(idStrs, ","),
		"values":   strings.Join(valStrs, ","),
	}}
}

// NewMintedEvent is emitted once per mint. Amount is nil for ERC721 tokens.
func NewMintedEvent(contract, to common.Address, id *uint256.Int, externalURI string, amount *big.Int) *types.Event {
	attrs := map[string]string{
		"contract":    contract.Hex(),
		"toAddress":   to.Hex(),
		"tokenId":     idString(id),
		"externalURI": externalURI,
	}
	if amount != nil {
		attrs["amount"] = amount.String()
	}
	return &types.Event{Type: EventTypeMinted, Attributes: attrs}
}

func NewBurnLazyEvent(contract, operator, account common.Address, id *uint256.Int, amount *big.Int) *types.Event {
	return &types.Event{Type: EventTypeBurnLazy, Attributes: map[string]string{
		"contract": contract.Hex(),
		"operator": operator.Hex(),
		"account":  account.Hex(),
		"id":       idString(id),
		"amount":   amountString(amount),
	}}
}

func NewLockedContentViewedEvent(contract, viewer common.Address, id *uint256.Int, content []byte) *types.Event {
	return &types.Event{Type: EventTypeLockedContentViewed, Attributes: map[string]string{
		"contract":      contract.Hex(),
		"msgSender":     viewer.Hex(),
		"tokenId":       idString(id),
		"lockedContent": hexutil.Encode(content),
	}}
}

func NewPauseEvent(contract, account common.Address, paused bool) *types.Event {
	typ := EventTypeUnpaused
	if paused {
		typ = EventTypePaused
	}
	return &types.Event{Type: typ, Attributes: map[string]string{
		"contract": contract.Hex(),
		"account":  account.Hex(),
	}}
}

func NewOwnershipTransferredEvent(contract, previous, next common.Address) *types.Event {
	return &types.Event{Type: EventTypeOwnershipTransferred, Attributes: map[string]string{
		"contract":      contract.Hex(),
		"previousOwner": previous.Hex(),
		"newOwner":      next.Hex(),
	}}
}

func NewBaseURIEvent(contract common.Address, uri string) *types.Event {
	return &types.Event{Type: EventTypeBaseURIChanged, Attributes: map[string]string{
		"contract": contract.Hex(),
		"baseURI":  uri,
	}}
}

func NewDefaultApprovalEvent(contract, operator common.Address, approved bool) *types.Event {
	return &types.Event{Type: EventTypeDefaultApproval, Attributes: map[string]string{
		"contract": contract.Hex(),
		"operator": operator.Hex(),
		"approved": strconv.FormatBool(approved),
	}}
}
