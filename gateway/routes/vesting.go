package routes

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"ghostledger/native/vesting"
)

type VestingReader interface {
	Address() common.Address
	Voters() []common.Address
	Threshold() uint64
	VaultFee() (*big.Int, error)
	MaxVaultFee() *big.Int
	FeeBalance() (*big.Int, error)
	ActiveVaults() ([]*vesting.Vault, error)
	Vault(token common.Address) (*vesting.Vault, error)
	ReadBeneficiary(token, beneficiary common.Address) (*vesting.Beneficiary, error)
	ReleasableAmount(token, beneficiary common.Address) (*big.Int, error)
}

type vaultView struct {
	ID        uint64 `json:"id"`
	Token     string `json:"token"`
	Creator   string `json:"creator"`
	Fee       string `json:"fee"`
	CreatedAt uint64 `json:"createdAt"`
}

type beneficiaryView struct {
	VaultID     uint64 `json:"vaultId"`
	Token       string `json:"token"`
	Beneficiary string `json:"beneficiary"`
	Amount      string `json:"amount"`
	Released    string `json:"released"`
	Releasable  string `json:"releasable"`
	StartTime   uint64 `json:"startTime"`
	Duration    uint64 `json:"duration"`
	Cliff       uint64 `json:"cliff"`
	ReleaseType string `json:"releaseType"`
}

func newVaultView(v *vesting.Vault) vaultView {
	return vaultView{
		ID:        v.ID,
		Token:     v.Token.Hex(),
		Creator:   v.Creator.Hex(),
		Fee:       amount(v.Fee),
		CreatedAt: v.CreatedAt,
	}
}

type vestingRoutes struct {
	vault VestingReader
}

func (v vestingRoutes) mount(r chi.Router) {
	r.Get("/", handle(v.info))
	r.Get("/vaults", handle(v.vaults))
	r.Get("/vaults/{token}", handle(v.vaultByToken))
	r.Get("/vaults/{token}/beneficiaries/{beneficiary}", handle(v.beneficiary))
}

func (v vestingRoutes) info(*http.Request) (any, error) {
	fee, err := v.vault.VaultFee()
	if err != nil {
		return nil, err
	}
	balance, err := v.vault.FeeBalance()
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"address":     v.vault.Address().Hex(),
		"vaultFee":    amount(fee),
		"maxVaultFee": amount(v.vault.MaxVaultFee()),
		"feeBalance":  amount(balance),
		"voters":      hexList(v.vault.Voters()),
		"threshold":   v.vault.Threshold(),
	}, nil
}

func (v vestingRoutes) vaults(*http.Request) (any, error) {
	vaults, err := v.vault.ActiveVaults()
	if err != nil {
		return nil, err
	}
	out := make([]vaultView, len(vaults))
	for i, vault := range vaults {
		out[i] = newVaultView(vault)
	}
	return map[string][]vaultView{"vaults": out}, nil
}

func (v vestingRoutes) vaultByToken(r *http.Request) (any, error) {
	tok, err := addressParam(r, "token")
	if err != nil {
		return nil, err
	}
	vault, err := v.vault.Vault(tok)
	if err != nil {
		return nil, err
	}
	return newVaultView(vault), nil
}

func (v vestingRoutes) beneficiary(r *http.Request) (any, error) {
	tok, err := addressParam(r, "token")
	if err != nil {
		return nil, err
	}
	who, err := addressParam(r, "beneficiary")
	if err != nil {
		return nil, err
	}
	b, err := v.vault.ReadBeneficiary(tok, who)
	if err != nil {
		return nil, err
	}
	releasable, err := v.vault.ReleasableAmount(tok, who)
	if err != nil {
		return nil, err
	}
	return beneficiaryView{
		VaultID:     b.VaultID,
		Token:       b.Token.Hex(),
		Beneficiary: b.Beneficiary.Hex(),
		Amount:      amount(b.Amount),
		Released:    amount(b.Released),
		Releasable:  amount(releasable),
		StartTime:   b.StartTime,
		Duration:    b.Duration,
		Cliff:       b.Cliff,
		ReleaseType: b.ReleaseType.String(),
	}, nil
}
