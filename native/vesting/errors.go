package vesting

import "errors"

var (
	ErrWrongFee              = errors.New("Vault fee is not correct")
	ErrVaultExists           = errors.New("Vault exists already")
	ErrVaultNotFound         = errors.New("Vault does not exist")
	ErrNotVaultCreator       = errors.New("Only the vault creator can add beneficiaries")
	ErrDeflationary          = errors.New("Deflationary tokens are not supported!")
	ErrAllowanceInsufficient = errors.New("Token allowance check failed")
	ErrBeneficiaryExists     = errors.New("Beneficiary already exists")
	ErrBeneficiaryNotFound   = errors.New("Beneficiary does not exist")
	ErrDurationTooLong       = errors.New("Use the overloaded function for lock time greater than 10 years")
	ErrInvalidAmount         = errors.New("Amount must be greater than 0")
	ErrInvalidDuration       = errors.New("Duration must be greater than 0")
	ErrCliffTooLong          = errors.New("Cliff must not exceed duration")
	ErrInvalidReleaseType    = errors.New("Unknown release type")
	ErrScheduleOverflow      = errors.New("Schedule end overflows")
	ErrZeroBeneficiary       = errors.New("Beneficiary is the zero address")
	ErrNothingToRelease      = errors.New("No tokens are due")

	ErrNotVoter             = errors.New("Sender is not an active voter")
	ErrVoteNotSuccessful    = errors.New("Vote was not successful yet")
	ErrVoteNotFound         = errors.New("Vote does not exist")
	ErrAlreadyVoted         = errors.New("Voter already voted")
	ErrUnsupportedVoteKind  = errors.New("Unsupported vote kind")
	ErrFeeTooHigh           = errors.New("Vault fee is too high")
	ErrInvalidVoteValue     = errors.New("Vote value out of range")
	ErrInvalidConfiguration = errors.New("vesting: invalid configuration")

	errNilState = errors.New("vesting engine: state not configured")
	errNoLedger = errors.New("vesting engine: token ledger not configured")
)
