package state

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"tokennet/core/types"
)

var (
	accountPrefix  = []byte("account:")
	aliasPrefix    = []byte("account-alias:")
	tokenPrefix    = []byte("token:")
	relationPrefix = []byte("token-rel:")
	nftPrefix      = []byte("nft:")
	airdropPrefix  = []byte("airdrop:")
)

func keyBuf(prefix []byte, size int) []byte {
	buf := make([]byte, 0, len(prefix)+size)
	return append(buf, prefix...)
}

func appendEntityID(buf []byte, id types.EntityID) []byte {
	buf = binary.BigEndian.AppendUint64(buf, id.Shard)
	buf = binary.BigEndian.AppendUint64(buf, id.Realm)
	buf = binary.BigEndian.AppendUint64(buf, id.Num)
	return buf
}

func accountKey(id types.EntityID) common.Hash {
	return ethcrypto.Keccak256Hash(appendEntityID(keyBuf(accountPrefix, 24), id))
}

func aliasKey(alias []byte) common.Hash {
	buf := keyBuf(aliasPrefix, len(alias))
	buf = append(buf, alias...)
	return ethcrypto.Keccak256Hash(buf)
}

func tokenKey(id types.EntityID) common.Hash {
	return ethcrypto.Keccak256Hash(appendEntityID(keyBuf(tokenPrefix, 24), id))
}

func relationKey(account, token types.EntityID) common.Hash {
	buf := appendEntityID(keyBuf(relationPrefix, 48), account)
	buf = appendEntityID(buf, token)
	return ethcrypto.Keccak256Hash(buf)
}

func nftKey(id types.NftID) common.Hash {
	buf := appendEntityID(keyBuf(nftPrefix, 32), id.Token)
	buf = binary.BigEndian.AppendUint64(buf, id.Serial)
	return ethcrypto.Keccak256Hash(buf)
}

func airdropKey(id types.PendingAirdropID) common.Hash {
	buf := appendEntityID(keyBuf(airdropPrefix, 80), id.Sender)
	buf = appendEntityID(buf, id.Receiver)
	buf = appendEntityID(buf, id.TokenID)
	buf = binary.BigEndian.AppendUint64(buf, id.Serial)
	return ethcrypto.Keccak256Hash(buf)
}
