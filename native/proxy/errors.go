package proxy

import "errors"

var (
	ErrProxyNotFound   = errors.New("proxy: not found")
	ErrNotOperator     = errors.New("OperatorRole: caller is not the operator")
	ErrWrongAssetClass = errors.New("proxy: asset class does not match proxy kind")
	Err721Value        = errors.New("erc721 value error")
	ErrInvalidKind     = errors.New("proxy: unknown kind")
	ErrMalformedAsset  = errors.New("proxy: malformed asset data")

	errNilState = errors.New("proxy engine: state not configured")
	errNoNFT    = errors.New("proxy engine: nft engine not configured")
)
