package staking

import "errors"

var (
	ErrPoolNotFound       = errors.New("staking: pool not found")
	ErrInvalidAmount      = errors.New("Withdraw: Amount must be > 0 or lower than user balance")
	ErrInvalidEndBlock    = errors.New("Owner: New endBlock must be after current block")
	ErrInvalidBlockRange  = errors.New("staking: start block must be before end block")
	ErrRewardDecimals     = errors.New("Must be inferior to 30")
	ErrNegativeAmount     = errors.New("staking: amount must not be negative")
	ErrDeflationaryStaked = errors.New("Deflationary tokens are not supported!")

	errNilState  = errors.New("staking engine: state not configured")
	errNoLedger  = errors.New("staking engine: token ledger not configured")
	errZeroToken = errors.New("staking: staked and reward tokens must be set")
)
