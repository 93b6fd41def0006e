package nft

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// validateRoyalties enforces non-empty recipients, positive shares and a
// total strictly below MaxRoyaltyBps.
func validateRoyalties(parts []Part) error {
	var total uint64
	for _, p := range parts {
		if p.Recipient == (common.Address{}) {
			return ErrRoyaltyRecipient
		}
		if p.Value == 0 {
			return ErrRoyaltyValue
		}
		if p.Value >= MaxRoyaltyBps {
			return ErrRoyaltyTooHigh
		}
		total += p.Value
		if total >= MaxRoyaltyBps {
			return ErrRoyaltyTooHigh
		}
	}
	return nil
}

func (e *Engine) loadMeta(c common.Address, id *uint256.Int) (*TokenMeta, bool, error) {
	var meta TokenMeta
	ok, err := e.state.KVGet(metaKey(c, id), &meta)
	if err != nil || !ok {
		return nil, ok, err
	}
	return &meta, true, nil
}

// GetRoyalties returns the royalty set attached at first mint.
func (e *Engine) GetRoyalties(addr common.Address, id *uint256.Int) ([]Part, error) {
	if _, err := e.loadCollection(addr); err != nil {
		return nil, err
	}
	if id == nil {
		return nil, errNilTokenID
	}
	meta, ok, err := e.loadMeta(addr, id)
	if err != nil || !ok {
		return nil, err
	}
	return cloneParts(meta.Royalties), nil
}

// GetRoyaltiesBps returns only the basis point values.
func (e *Engine) GetRoyaltiesBps(addr common.Address, id *uint256.Int) ([]*big.Int, error) {
	parts, err := e.GetRoyalties(addr, id)
	if err != nil {
		return nil, err
	}
	out := make([]*big.Int, len(parts))
	for i, p := range parts {
		out[i] = new(big.Int).SetUint64(p.Value)
	}
	return out, nil
}

// GetRoyaltiesRecipients returns only the recipients.
func (e *Engine) GetRoyaltiesRecipients(addr common.Address, id *uint256.Int) ([]common.Address, error) {
	parts, err := e.GetRoyalties(addr, id)
	if err != nil {
		return nil, err
	}
	out := make([]common.Address, len(parts))
	for i, p := range parts {
		out[i] = p.Recipient
	}
	return out, nil
}

// TokenURI returns base URI + the stored token URI.
func (e *Engine) TokenURI(addr common.Address, id *uint256.Int) (string, error) {
	c, err := e.loadCollection(addr)
	if err != nil {
		return "", err
	}
	if id == nil {
		return "", errNilTokenID
	}
	meta, ok, err := e.loadMeta(addr, id)
	if err != nil {
		return "", err
	}
	if !ok {
		if c.Kind == KindERC721 {
			return "", ErrNonexistentToken
		}
		return c.BaseURI, nil
	}
	return c.BaseURI + meta.URI, nil
}

// URI is the ERC1155 metadata accessor; it shares TokenURI's resolution.
func (e *Engine) URI(addr common.Address, id *uint256.Int) (string, error) {
	return e.TokenURI(addr, id)
}

// ExternalURI returns the metadata URI supplied at mint.
func (e *Engine) ExternalURI(addr common.Address, id *uint256.Int) (string, error) {
	if _, err := e.loadCollection(addr); err != nil {
		return "", err
	}
	meta, ok, err := e.loadMeta(addr, id)
	if err != nil || !ok {
		return "", err
	}
	return meta.ExternalURI, nil
}
