package core

import (
	"fmt"
	"time"

	"ghostledger/config"
	"ghostledger/core/events"
	nativecommon "ghostledger/native/common"
	"ghostledger/native/vesting"
	"ghostledger/observability"
	"ghostledger/storage"
)

// Open builds a ledger from configuration. The vesting voters must be
// configured; the vault cannot run without its vote gate.
func Open(cfg *config.Config, metrics *observability.LedgerMetrics, sinks ...events.Emitter) (*Ledger, error) {
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	voters, err := cfg.Vesting.VoterAddresses()
	if err != nil {
		return nil, err
	}
	if len(voters) == 0 {
		return nil, fmt.Errorf("ledger: vesting.voters must list at least one address")
	}
	fee, err := config.ParseAmount("vesting.vault_fee", cfg.Vesting.VaultFee)
	if err != nil {
		return nil, err
	}
	maxFee, err := config.ParseAmount("vesting.max_vault_fee", cfg.Vesting.MaxVaultFee)
	if err != nil {
		return nil, err
	}

	var db storage.Database
	switch cfg.DBBackend {
	case config.BackendMemory:
		db = storage.NewMemDB()
	case config.BackendLevelDB:
		ldb, err := storage.NewLevelDB(cfg.StatePath())
		if err != nil {
			return nil, fmt.Errorf("ledger: open state: %w", err)
		}
		db = ldb
	default:
		return nil, fmt.Errorf("ledger: unknown db backend %q", cfg.DBBackend)
	}

	l, err := New(Options{
		ChainID: cfg.ChainID,
		DB:      db,
		Pauses:  nativecommon.PausedModules(cfg.Pauses),
		Vesting: vesting.Params{
			VaultFee:    fee,
			Voters:      voters,
			Threshold:   cfg.Vesting.Threshold,
			MaxVaultFee: maxFee,
		},
		GenesisTime: time.Now().Unix(),
		Metrics:     metrics,
		Sinks:       sinks,
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}
