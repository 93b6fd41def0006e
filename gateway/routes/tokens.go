package routes

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"ghostledger/native/token"
)

type TokenReader interface {
	Tokens() ([]common.Address, error)
	Token(addr common.Address) (*token.Token, error)
	BalanceOf(token, holder common.Address) (*big.Int, error)
	Allowance(token, owner, spender common.Address) (*big.Int, error)
	NativeBalance(holder common.Address) (*big.Int, error)
}

type tokenView struct {
	Address        string `json:"address"`
	Name           string `json:"name"`
	Symbol         string `json:"symbol"`
	Decimals       uint8  `json:"decimals"`
	TotalSupply    string `json:"totalSupply"`
	TransferFeeBps uint64 `json:"transferFeeBps"`
	Owner          string `json:"owner"`
	Paused         bool   `json:"paused"`
}

type tokenRoutes struct {
	tokens TokenReader
}

func (t tokenRoutes) mount(r chi.Router) {
	r.Get("/", handle(t.list))
	r.Get("/{token}", handle(t.get))
	r.Get("/{token}/balances/{holder}", handle(t.balance))
	r.Get("/{token}/allowances/{owner}/{spender}", handle(t.allowance))
}

func (t tokenRoutes) list(*http.Request) (any, error) {
	addrs, err := t.tokens.Tokens()
	if err != nil {
		return nil, err
	}
	return map[string][]string{"tokens": hexList(addrs)}, nil
}

func (t tokenRoutes) get(r *http.Request) (any, error) {
	addr, err := addressParam(r, "token")
	if err != nil {
		return nil, err
	}
	tok, err := t.tokens.Token(addr)
	if err != nil {
		return nil, err
	}
	return tokenView{
		Address:        tok.Address.Hex(),
		Name:           tok.Name,
		Symbol:         tok.Symbol,
		Decimals:       tok.Decimals,
		TotalSupply:    amount(tok.TotalSupply),
		TransferFeeBps: tok.TransferFeeBps,
		Owner:          tok.Control.Owner.Hex(),
		Paused:         tok.Control.Paused,
	}, nil
}

func (t tokenRoutes) balance(r *http.Request) (any, error) {
	addr, err := addressParam(r, "token")
	if err != nil {
		return nil, err
	}
	holder, err := addressParam(r, "holder")
	if err != nil {
		return nil, err
	}
	bal, err := t.tokens.BalanceOf(addr, holder)
	if err != nil {
		return nil, err
	}
	return map[string]string{"token": addr.Hex(), "holder": holder.Hex(), "balance": amount(bal)}, nil
}

func (t tokenRoutes) allowance(r *http.Request) (any, error) {
	addr, err := addressParam(r, "token")
	if err != nil {
		return nil, err
	}
	owner, err := addressParam(r, "owner")
	if err != nil {
		return nil, err
	}
	spender, err := addressParam(r, "spender")
	if err != nil {
		return nil, err
	}
	allowance, err := t.tokens.Allowance(addr, owner, spender)
	if err != nil {
		return nil, err
	}
	return map[string]string{"allowance": amount(allowance)}, nil
}

func (t tokenRoutes) native(r *http.Request) (any, error) {
	holder, err := addressParam(r, "holder")
	if err != nil {
		return nil, err
	}
	bal, err := t.tokens.NativeBalance(holder)
	if err != nil {
		return nil, err
	}
	return map[string]string{"holder": holder.Hex(), "balance": amount(bal)}, nil
}
