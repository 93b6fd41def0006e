package token

import "errors"

var (
	ErrTokenNotFound         = errors.New("token: contract not found")
	ErrInsufficientBalance   = errors.New("ERC20: transfer amount exceeds balance")
	ErrInsufficientAllowance = errors.New("ERC20: insufficient allowance")
	ErrTransferToZero        = errors.New("ERC20: transfer to the zero address")
	ErrApproveToZero         = errors.New("ERC20: approve to the zero address")
	ErrInvalidAmount         = errors.New("ERC20: amount must not be negative")
	ErrInsufficientNative    = errors.New("insufficient native balance")

	errNilState        = errors.New("token engine: state not configured")
	errInvalidMetadata = errors.New("token: name and symbol are required")
	errInvalidFee      = errors.New("token: transfer fee must be below 100%")
)
