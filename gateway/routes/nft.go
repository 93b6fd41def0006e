package routes

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/holiman/uint256"

	"ghostledger/native/nft"
)

type NFTReader interface {
	Collections() ([]common.Address, error)
	Collection(addr common.Address) (*nft.Collection, error)
	LastTokenID(addr common.Address) (uint64, error)
	OwnerOf(addr common.Address, id *uint256.Int) (common.Address, error)
	BalanceOf(addr, holder common.Address) (uint64, error)
	TotalSupply(addr common.Address) (uint64, error)
	BalanceOf1155(addr, holder common.Address, id *uint256.Int) (*big.Int, error)
	Supply(addr common.Address, id *uint256.Int) (*nft.SupplyEntry, error)
	GetRoyalties(addr common.Address, id *uint256.Int) ([]nft.Part, error)
	TokenURI(addr common.Address, id *uint256.Int) (string, error)
	ExternalURI(addr common.Address, id *uint256.Int) (string, error)
	IsBurned(addr common.Address, id *uint256.Int) (bool, error)
	LockedContentViewCount(addr common.Address, id *uint256.Int) (uint64, error)
}

type collectionView struct {
	Address          string   `json:"address"`
	Kind             string   `json:"kind"`
	Name             string   `json:"name"`
	Symbol           string   `json:"symbol"`
	BaseURI          string   `json:"baseUri"`
	LastTokenID      uint64   `json:"lastTokenId"`
	DefaultApprovals []string `json:"defaultApprovals"`
	Owner            string   `json:"owner"`
	Paused           bool     `json:"paused"`
}

type royaltyView struct {
	Recipient string `json:"recipient"`
	Bps       uint64 `json:"bps"`
}

type nftTokenView struct {
	Collection      string        `json:"collection"`
	ID              string        `json:"id"`
	URI             string        `json:"uri"`
	ExternalURI     string        `json:"externalUri,omitempty"`
	Owner           string        `json:"owner,omitempty"`
	Burned          bool          `json:"burned"`
	Royalties       []royaltyView `json:"royalties"`
	LockedViewCount uint64        `json:"lockedContentViews"`
	TotalSupply     string        `json:"totalSupply,omitempty"`
	MintedSupply    string        `json:"mintedSupply,omitempty"`
}

type nftRoutes struct {
	nft NFTReader
}

func (n nftRoutes) mount(r chi.Router) {
	r.Get("/", handle(n.list))
	r.Get("/{collection}", handle(n.collection))
	r.Get("/{collection}/tokens/{id}", handle(n.token))
	r.Get("/{collection}/tokens/{id}/balances/{holder}", handle(n.balance1155))
	r.Get("/{collection}/balances/{holder}", handle(n.balance721))
}

func (n nftRoutes) list(*http.Request) (any, error) {
	addrs, err := n.nft.Collections()
	if err != nil {
		return nil, err
	}
	return map[string][]string{"collections": hexList(addrs)}, nil
}

func (n nftRoutes) collection(r *http.Request) (any, error) {
	addr, err := addressParam(r, "collection")
	if err != nil {
		return nil, err
	}
	c, err := n.nft.Collection(addr)
	if err != nil {
		return nil, err
	}
	last, err := n.nft.LastTokenID(addr)
	if err != nil {
		return nil, err
	}
	return collectionView{
		Address:          c.Address.Hex(),
		Kind:             c.Kind.String(),
		Name:             c.Name,
		Symbol:           c.Symbol,
		BaseURI:          c.BaseURI,
		LastTokenID:      last,
		DefaultApprovals: hexList(c.DefaultApprovals),
		Owner:            c.Control.Owner.Hex(),
		Paused:           c.Control.Paused,
	}, nil
}

func (n nftRoutes) token(r *http.Request) (any, error) {
	addr, err := addressParam(r, "collection")
	if err != nil {
		return nil, err
	}
	id, err := tokenIDParam(r)
	if err != nil {
		return nil, err
	}
	c, err := n.nft.Collection(addr)
	if err != nil {
		return nil, err
	}
	view := nftTokenView{Collection: addr.Hex(), ID: id.Dec()}
	if view.Burned, err = n.nft.IsBurned(addr, id); err != nil {
		return nil, err
	}
	if c.Kind == nft.KindERC721 && !view.Burned {
		owner, err := n.nft.OwnerOf(addr, id)
		if err != nil {
			return nil, err
		}
		view.Owner = owner.Hex()
	}
	if c.Kind == nft.KindERC1155 {
		supply, err := n.nft.Supply(addr, id)
		if err != nil {
			return nil, err
		}
		view.TotalSupply = amount(supply.TotalSupply)
		view.MintedSupply = amount(supply.MintedSupply)
	}
	if !view.Burned {
		if view.URI, err = n.nft.TokenURI(addr, id); err != nil {
			return nil, err
		}
	}
	if view.ExternalURI, err = n.nft.ExternalURI(addr, id); err != nil {
		return nil, err
	}
	parts, err := n.nft.GetRoyalties(addr, id)
	if err != nil {
		return nil, err
	}
	view.Royalties = make([]royaltyView, len(parts))
	for i, p := range parts {
		view.Royalties[i] = royaltyView{Recipient: p.Recipient.Hex(), Bps: p.Value}
	}
	if view.LockedViewCount, err = n.nft.LockedContentViewCount(addr, id); err != nil {
		return nil, err
	}
	return view, nil
}

func (n nftRoutes) balance721(r *http.Request) (any, error) {
	addr, err := addressParam(r, "collection")
	if err != nil {
		return nil, err
	}
	holder, err := addressParam(r, "holder")
	if err != nil {
		return nil, err
	}
	count, err := n.nft.BalanceOf(addr, holder)
	if err != nil {
		return nil, err
	}
	total, err := n.nft.TotalSupply(addr)
	if err != nil {
		return nil, err
	}
	return map[string]uint64{"balance": count, "totalSupply": total}, nil
}

func (n nftRoutes) balance1155(r *http.Request) (any, error) {
	addr, err := addressParam(r, "collection")
	if err != nil {
		return nil, err
	}
	id, err := tokenIDParam(r)
	if err != nil {
		return nil, err
	}
	holder, err := addressParam(r, "holder")
	if err != nil {
		return nil, err
	}
	bal, err := n.nft.BalanceOf1155(addr, holder, id)
	if err != nil {
		return nil, err
	}
	return map[string]string{"balance": amount(bal)}, nil
}
