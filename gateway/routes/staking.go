package routes

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"ghostledger/native/staking"
)

type StakingReader interface {
	Pools() ([]common.Address, error)
	Pool(addr common.Address) (*staking.Pool, error)
	UserInfo(pool, user common.Address) (*staking.UserInfo, error)
	PendingReward(pool, user common.Address) (*big.Int, error)
}

type poolView struct {
	Address          string `json:"address"`
	StakedToken      string `json:"stakedToken"`
	RewardToken      string `json:"rewardToken"`
	RewardPerBlock   string `json:"rewardPerBlock"`
	StartBlock       uint64 `json:"startBlock"`
	EndBlock         uint64 `json:"endBlock"`
	LastRewardBlock  uint64 `json:"lastRewardBlock"`
	AccTokenPerShare string `json:"accTokenPerShare"`
	TotalStaked      string `json:"totalStaked"`
	PrecisionFactor  string `json:"precisionFactor"`
	RewardReserve    string `json:"rewardReserve"`
	Owner            string `json:"owner"`
	Paused           bool   `json:"paused"`
}

type stakingRoutes struct {
	pools StakingReader
}

func (s stakingRoutes) mount(r chi.Router) {
	r.Get("/pools", handle(s.list))
	r.Get("/pools/{pool}", handle(s.pool))
	r.Get("/pools/{pool}/users/{user}", handle(s.user))
}

func (s stakingRoutes) list(*http.Request) (any, error) {
	addrs, err := s.pools.Pools()
	if err != nil {
		return nil, err
	}
	return map[string][]string{"pools": hexList(addrs)}, nil
}

func (s stakingRoutes) pool(r *http.Request) (any, error) {
	addr, err := addressParam(r, "pool")
	if err != nil {
		return nil, err
	}
	p, err := s.pools.Pool(addr)
	if err != nil {
		return nil, err
	}
	return poolView{
		Address:          p.Address.Hex(),
		StakedToken:      p.StakedToken.Hex(),
		RewardToken:      p.RewardToken.Hex(),
		RewardPerBlock:   amount(p.RewardPerBlock),
		StartBlock:       p.StartBlock,
		EndBlock:         p.EndBlock,
		LastRewardBlock:  p.LastRewardBlock,
		AccTokenPerShare: amount(p.AccTokenPerShare),
		TotalStaked:      amount(p.TotalStaked),
		PrecisionFactor:  amount(p.PrecisionFactor),
		RewardReserve:    amount(p.RewardReserve),
		Owner:            p.Control.Owner.Hex(),
		Paused:           p.Control.Paused,
	}, nil
}

func (s stakingRoutes) user(r *http.Request) (any, error) {
	addr, err := addressParam(r, "pool")
	if err != nil {
		return nil, err
	}
	user, err := addressParam(r, "user")
	if err != nil {
		return nil, err
	}
	info, err := s.pools.UserInfo(addr, user)
	if err != nil {
		return nil, err
	}
	pending, err := s.pools.PendingReward(addr, user)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"amount":     amount(info.Amount),
		"rewardDebt": amount(info.RewardDebt),
		"pending":    amount(pending),
	}, nil
}
