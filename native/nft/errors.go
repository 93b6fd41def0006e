package nft

import "errors"

var (
	ErrCollectionNotFound = errors.New("nft: collection not found")
	ErrWrongKind          = errors.New("nft: operation not supported by collection kind")

	ErrEmptyTokenURI      = errors.New("tokenURI can't be empty")
	ErrRoyaltyTooHigh     = errors.New("Royalty total value should be < 50%")
	ErrRoyaltyRecipient   = errors.New("Recipient should be present")
	ErrRoyaltyValue       = errors.New("Royalty value should be positive")
	ErrLockedContentLong  = errors.New("Lock content bytes length should be < 200")
	ErrSignatureInvalid   = errors.New("signature verification error")
	ErrWrongOrderMaker    = errors.New("wrong order maker")
	ErrAlreadyBurned      = errors.New("token already burned")
	ErrExceedsSupply      = errors.New("more than supply")
	ErrAmountIncorrect    = errors.New("amount incorrect")
	ErrTokenIDIncorrect   = errors.New("tokenId incorrect")
	ErrMintNotApproved    = errors.New("mint caller is not minter nor approved")
	ErrNotTokenOwner      = errors.New("Caller must be the owner of the NFT")
	ErrTokenExists        = errors.New("ERC721: token already minted")
	ErrNonexistentToken   = errors.New("ERC721: owner query for nonexistent token")
	ErrOperatorQuery      = errors.New("ERC721: operator query for nonexistent token")
	ErrTransferNotAllowed = errors.New("ERC721: transfer caller is not owner nor approved")
	ErrTransferNotOwn     = errors.New("ERC721: transfer of token that is not own")
	ErrTransferToZero     = errors.New("ERC721: transfer to the zero address")
	ErrMintToZero         = errors.New("ERC721: mint to the zero address")
	ErrApprovalToOwner    = errors.New("ERC721: approval to current owner")
	ErrApproveNotAllowed  = errors.New("ERC721: approve caller is not owner nor approved for all")
	ErrApproveToCaller    = errors.New("ERC721: approve to caller")
	ErrIndexOutOfBounds   = errors.New("ERC721Enumerable: global index out of bounds")
	ErrBurnNotAllowed     = errors.New("ERC721Burnable: caller is not owner nor approved")

	Err1155NotApproved       = errors.New("ERC1155: caller is not owner nor approved")
	Err1155InsufficientFunds = errors.New("ERC1155: insufficient balance for transfer")
	Err1155BurnExceeds       = errors.New("ERC1155: burn amount exceeds balance")
	Err1155TransferToZero    = errors.New("ERC1155: transfer to the zero address")
	Err1155MintToZero        = errors.New("ERC1155: mint to the zero address")
	Err1155LengthMismatch    = errors.New("ERC1155: ids and amounts length mismatch")
	Err1155ApproveSelf       = errors.New("ERC1155: setting approval status for self")

	errNilState    = errors.New("nft engine: state not configured")
	errInvalidName = errors.New("nft: name and symbol are required")
	errNilTokenID  = errors.New("nft: token id required")
	errNilAmount   = errors.New("nft: amount must be positive")
	errZeroMinter  = errors.New("nft: minter must not be the zero address")
)
