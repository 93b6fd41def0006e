package nft

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

func idBytes(id *uint256.Int) []byte {
	b := id.Bytes32()
	return b[:]
}

func join(prefix string, parts ...[]byte) []byte {
	key := []byte(prefix)
	for _, p := range parts {
		key = append(key, p...)
	}
	return key
}

func collectionKey(c common.Address) []byte { return join("nft/collection/", c.Bytes()) }

func ownerKey(c common.Address, id *uint256.Int) []byte {
	return join("nft/owner/", c.Bytes(), idBytes(id))
}

func holdingsKey(c, holder common.Address) []byte {
	return join("nft/holdings/", c.Bytes(), holder.Bytes())
}

func approvedKey(c common.Address, id *uint256.Int) []byte {
	return join("nft/approved/", c.Bytes(), idBytes(id))
}

func operatorKey(c, owner, operator common.Address) []byte {
	return join("nft/operator/", c.Bytes(), owner.Bytes(), operator.Bytes())
}

func burnedKey(c common.Address, id *uint256.Int) []byte {
	return join("nft/burned/", c.Bytes(), idBytes(id))
}

func allTokensKey(c common.Address) []byte { return join("nft/all/", c.Bytes()) }

func metaKey(c common.Address, id *uint256.Int) []byte {
	return join("nft/meta/", c.Bytes(), idBytes(id))
}

func lockedKey(c common.Address, id *uint256.Int) []byte {
	return join("nft/locked/", c.Bytes(), idBytes(id))
}

func viewsKey(c common.Address, id *uint256.Int) []byte {
	return join("nft/views/", c.Bytes(), idBytes(id))
}

func balanceKey(c common.Address, id *uint256.Int, holder common.Address) []byte {
	return join("nft/balance/", c.Bytes(), idBytes(id), holder.Bytes())
}

func supplyKey(c common.Address, id *uint256.Int) []byte {
	return join("nft/supply/", c.Bytes(), idBytes(id))
}

var collectionIndexKey = []byte("nft/index")
